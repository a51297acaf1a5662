package adc

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ads1x15"

	"github.com/sweeney/event-logger/internal/logic"
)

// DefaultAddress is the ADS1115 address with ADDR tied to GND.
const DefaultAddress = 0x48

const (
	// The joystick pots are powered from 3.3V; the driver picks the
	// smallest gain range that covers it (±4.096V).
	fullScale  = 3300 * physic.MilliVolt
	sampleRate = 860 * physic.Hertz
)

// singleEnded maps a channel number to the AINx-vs-GND input.
var singleEnded = []ads1x15.Channel{ads1x15.Channel0, ads1x15.Channel1, ads1x15.Channel2, ads1x15.Channel3}

// channel is the part of an ads1x15 pin the reader uses.
type channel interface {
	Read() (analog.Sample, error)
	Halt() error
}

// ADS1115 reads two single-ended channels of a TI ADS1115 over I2C.
type ADS1115 struct {
	dev *ads1x15.Dev
	x   channel
	y   channel
}

// NewADS1115 creates a reader for the given X and Y channels (0..3).
func NewADS1115(bus i2c.Bus, addr uint16, chX, chY int) (*ADS1115, error) {
	for _, ch := range []int{chX, chY} {
		if ch < 0 || ch >= len(singleEnded) {
			return nil, fmt.Errorf("ads1115: invalid channel %d", ch)
		}
	}

	dev, err := ads1x15.NewADS1115(bus, &ads1x15.Opts{I2cAddress: addr})
	if err != nil {
		return nil, fmt.Errorf("ads1115: %w", err)
	}
	x, err := dev.PinForChannel(singleEnded[chX], fullScale, sampleRate, ads1x15.BestQuality)
	if err != nil {
		return nil, fmt.Errorf("ads1115: channel %d: %w", chX, err)
	}
	y, err := dev.PinForChannel(singleEnded[chY], fullScale, sampleRate, ads1x15.BestQuality)
	if err != nil {
		x.Halt()
		return nil, fmt.Errorf("ads1115: channel %d: %w", chY, err)
	}
	return &ADS1115{dev: dev, x: x, y: y}, nil
}

// Read converts both channels and scales them to 12 bits.
func (a *ADS1115) Read() (logic.AnalogPair, error) {
	x, err := a.x.Read()
	if err != nil {
		return logic.AnalogPair{}, fmt.Errorf("ads1115: read x: %w", err)
	}
	y, err := a.y.Read()
	if err != nil {
		return logic.AnalogPair{}, fmt.Errorf("ads1115: read y: %w", err)
	}
	return logic.AnalogPair{X: scale(x.Raw), Y: scale(y.Raw)}, nil
}

// Halt releases both channels and the device.
func (a *ADS1115) Halt() error {
	return errors.Join(a.x.Halt(), a.y.Halt(), a.dev.Halt())
}

// scale maps a signed 16-bit single-ended reading onto 0..MaxSample.
// Single-ended inputs cannot go below ground; noise around zero is clamped.
func scale(raw int32) uint16 {
	switch {
	case raw < 0:
		return 0
	case raw > 0x7FFF:
		return MaxSample
	}
	return uint16(raw >> 3)
}
