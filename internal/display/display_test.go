package display

import (
	"errors"
	"image"
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

func TestScreenShowDrawsRows(t *testing.T) {
	dev := NewFakeDisplayer(128, 64)
	s := NewScreen(FromDisplayer(dev))

	if err := s.Show("EVENT DETECTED", "BUTTON_A_PRESSED", "SD: OK"); err != nil {
		t.Fatalf("Show: %v", err)
	}
	if dev.Frames != 1 {
		t.Errorf("expected 1 frame, got %d", dev.Frames)
	}
	rows := []struct {
		name   string
		y0, y1 int16
		lit    bool
	}{
		{"title", 0, 16, true},
		{"detail", 16, 32, true},
		{"gap", 32, 40, false},
		{"status", 40, 56, true},
		{"bottom", 56, 64, false},
	}
	for _, r := range rows {
		n := dev.Lit(r.y0, r.y1)
		if r.lit && n == 0 {
			t.Errorf("%s: expected lit pixels in rows %d..%d", r.name, r.y0, r.y1)
		}
		if !r.lit && n != 0 {
			t.Errorf("%s: expected no lit pixels in rows %d..%d, got %d", r.name, r.y0, r.y1, n)
		}
	}
}

func TestScreenShowClearsPreviousFrame(t *testing.T) {
	dev := NewFakeDisplayer(128, 64)
	s := NewScreen(FromDisplayer(dev))

	s.Show("EVENT DETECTED", "JOYSTICK_MOVED", "SD: ERROR")
	s.Show("System Ready")

	if dev.Lit(0, 16) == 0 {
		t.Error("expected first row to be drawn")
	}
	if n := dev.Lit(16, 64); n != 0 {
		t.Errorf("expected rows below the first to be cleared, got %d lit", n)
	}
}

func TestScreenDisplayError(t *testing.T) {
	dev := NewFakeDisplayer(128, 64)
	dev.DisplayError = errors.New("bus stuck")
	s := NewScreen(FromDisplayer(dev))

	if err := s.Show("x"); err == nil {
		t.Error("expected display error")
	}
}

func TestLineTop(t *testing.T) {
	want := []int{0, 16, 40, 56}
	for i, w := range want {
		if got := lineTop(i); got != w {
			t.Errorf("lineTop(%d): got %d, want %d", i, got, w)
		}
	}
}

type nackBus struct{}

func (nackBus) String() string                    { return "nack" }
func (nackBus) SetSpeed(physic.Frequency) error   { return nil }
func (nackBus) Tx(addr uint16, w, r []byte) error { return errors.New("nack") }

func TestOpenSSD1306(t *testing.T) {
	bus := &i2ctest.Record{}
	dev, err := OpenSSD1306(bus, DefaultAddress)
	if err != nil {
		t.Fatalf("OpenSSD1306: %v", err)
	}
	if len(bus.Ops) == 0 {
		t.Fatal("expected the panel to be initialized")
	}
	if b := dev.Bounds(); b.Dx() != 128 || b.Dy() != 64 {
		t.Errorf("unexpected bounds %v", b)
	}

	setup := len(bus.Ops)
	s := NewScreen(dev)
	if err := s.Show("SD: OK"); err != nil {
		t.Fatalf("Show: %v", err)
	}
	lit := false
	for _, op := range bus.Ops[setup:] {
		if op.Addr != DefaultAddress {
			t.Errorf("unexpected address %#x", op.Addr)
		}
		if len(op.W) < 2 || op.W[0] != 0x40 {
			continue
		}
		for _, b := range op.W[1:] {
			if b != 0 {
				lit = true
			}
		}
	}
	if !lit {
		t.Error("expected text pixels in the frame sent to the panel")
	}
}

func TestOpenSSD1306OtherAddress(t *testing.T) {
	bus := &i2ctest.Record{}
	if _, err := OpenSSD1306(bus, 0x3D); err != nil {
		t.Fatalf("OpenSSD1306: %v", err)
	}
	for i, op := range bus.Ops {
		if op.Addr != 0x3D {
			t.Errorf("op %d: addr %#x, want 0x3d", i, op.Addr)
		}
	}
}

func TestOpenSSD1306Absent(t *testing.T) {
	if _, err := OpenSSD1306(nackBus{}, DefaultAddress); err == nil {
		t.Error("expected error when the panel does not answer")
	}
}

func TestFromDisplayerBounds(t *testing.T) {
	d := FromDisplayer(NewFakeDisplayer(96, 16))
	if b := d.Bounds(); b != image.Rect(0, 0, 96, 16) {
		t.Errorf("unexpected bounds %v", b)
	}
}

func TestFakeSurface(t *testing.T) {
	var f FakeSurface
	if f.Last() != nil {
		t.Error("expected nil before any screen")
	}
	lines := []string{"a", "b"}
	f.Show(lines...)
	lines[0] = "changed"
	if got := f.Last(); got[0] != "a" || got[1] != "b" {
		t.Errorf("FakeSurface should copy lines, got %v", got)
	}
}

func TestLogSurface(t *testing.T) {
	if err := (LogSurface{}).Show("System Ready", "Waiting input"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
