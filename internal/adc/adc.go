// Package adc reads the joystick axes through an external ADC.
package adc

import (
	"github.com/sweeney/event-logger/internal/logic"
)

// Reader reads both joystick axes.
type Reader interface {
	// Read returns one sample per axis, scaled to 0..MaxSample.
	Read() (logic.AnalogPair, error)
}

// MaxSample is the full-scale value of a scaled sample (12-bit).
const MaxSample = 4095

// FakeReader is a test double that returns scripted joystick samples.
type FakeReader struct {
	// Samples are returned in order; the last one repeats.
	Samples []logic.AnalogPair

	index int

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given samples.
func NewFakeReader(samples ...logic.AnalogPair) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample, or a centred stick if none are set.
func (f *FakeReader) Read() (logic.AnalogPair, error) {
	if f.ReadError != nil {
		return logic.AnalogPair{}, f.ReadError
	}
	if len(f.Samples) == 0 {
		return logic.AnalogPair{X: MaxSample / 2, Y: MaxSample / 2}, nil
	}
	s := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return s, nil
}
