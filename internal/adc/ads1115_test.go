package adc

import (
	"errors"
	"fmt"
	"testing"

	"periph.io/x/conn/v3/physic"

	"github.com/sweeney/event-logger/internal/logic"
)

// adcBus answers ADS1115 register traffic. A config write selects the input
// through the multiplexer bits; the next conversion read returns the value
// scripted for that input.
type adcBus struct {
	addr uint16
	// conversions holds the big-endian result per single-ended channel.
	conversions map[int][]byte
	err         error

	mux     int
	configs []int
}

func (b *adcBus) String() string                  { return "adcBus" }
func (b *adcBus) SetSpeed(physic.Frequency) error { return nil }

func (b *adcBus) Tx(addr uint16, w, r []byte) error {
	if b.err != nil {
		return b.err
	}
	if addr != b.addr {
		return fmt.Errorf("unexpected address %#x", addr)
	}
	switch {
	case len(w) == 3 && w[0] == 0x01:
		b.mux = int(w[1]>>4) & 0x7
		b.configs = append(b.configs, b.mux)
	case len(w) == 1 && w[0] == 0x00 && len(r) == 2:
		copy(r, b.conversions[b.mux-4])
	case len(w) == 1 && w[0] == 0x01 && len(r) == 2:
		// Conversion complete
		r[0], r[1] = 0x80, 0x00
	}
	return nil
}

func TestADS1115Read(t *testing.T) {
	bus := &adcBus{
		addr: DefaultAddress,
		conversions: map[int][]byte{
			0: {0x40, 0x00},
			1: {0x7F, 0xF8},
		},
	}
	a, err := NewADS1115(bus, DefaultAddress, 0, 1)
	if err != nil {
		t.Fatalf("NewADS1115: %v", err)
	}

	p, err := a.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if p != (logic.AnalogPair{X: 2048, Y: 4095}) {
		t.Errorf("unexpected sample: %+v", p)
	}
	// AIN0 then AIN1, both single-ended
	if len(bus.configs) != 2 || bus.configs[0] != 4 || bus.configs[1] != 5 {
		t.Errorf("unexpected multiplexer sequence: %v", bus.configs)
	}
	if err := a.Halt(); err != nil {
		t.Errorf("Halt: %v", err)
	}
}

func TestADS1115SwappedChannels(t *testing.T) {
	bus := &adcBus{
		addr: 0x49,
		conversions: map[int][]byte{
			2: {0x00, 0x08},
			3: {0xFF, 0xF0}, // slightly negative
		},
	}
	a, err := NewADS1115(bus, 0x49, 3, 2)
	if err != nil {
		t.Fatalf("NewADS1115: %v", err)
	}

	p, err := a.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if p != (logic.AnalogPair{X: 0, Y: 1}) {
		t.Errorf("unexpected sample: %+v", p)
	}
}

func TestADS1115InvalidChannel(t *testing.T) {
	bus := &adcBus{addr: DefaultAddress}
	if _, err := NewADS1115(bus, DefaultAddress, 0, 4); err == nil {
		t.Error("expected error for channel 4")
	}
	if _, err := NewADS1115(bus, DefaultAddress, -1, 1); err == nil {
		t.Error("expected error for channel -1")
	}
}

func TestADS1115BusError(t *testing.T) {
	bus := &adcBus{addr: DefaultAddress}
	a, err := NewADS1115(bus, DefaultAddress, 0, 1)
	if err != nil {
		t.Fatalf("NewADS1115: %v", err)
	}
	bus.err = errors.New("nack")

	if _, err := a.Read(); err == nil {
		t.Error("expected bus error to be returned")
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		raw  int32
		want uint16
	}{
		{-5, 0},
		{0, 0},
		{8, 1},
		{16384, 2048},
		{32767, 4095},
		{40000, 4095},
	}
	for _, tt := range tests {
		if got := scale(tt.raw); got != tt.want {
			t.Errorf("scale(%d): got %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestFakeReader(t *testing.T) {
	f := NewFakeReader()
	p, err := f.Read()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.X != MaxSample/2 || p.Y != MaxSample/2 {
		t.Errorf("expected centred stick, got %+v", p)
	}

	f = NewFakeReader(logic.AnalogPair{X: 1, Y: 2}, logic.AnalogPair{X: 3, Y: 4})
	f.Read()
	p, _ = f.Read()
	p2, _ := f.Read()
	if p != (logic.AnalogPair{X: 3, Y: 4}) || p2 != p {
		t.Errorf("expected last sample to repeat, got %+v then %+v", p, p2)
	}

	f.ReadError = errors.New("adc offline")
	if _, err := f.Read(); err == nil {
		t.Error("expected error")
	}
}
