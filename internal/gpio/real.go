//go:build linux

package gpio

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// Chip is the GPIO character device used for all lines.
const Chip = "gpiochip0"

// RealReader reads buttons from actual hardware using Linux GPIO character device.
type RealReader struct {
	chip *gpiocdev.Chip
	a    *gpiocdev.Line
	b    *gpiocdev.Line
}

// NewRealReader creates a button reader for the given pins.
func NewRealReader(pins Pins) (*RealReader, error) {
	chip, err := gpiocdev.NewChip(Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// Buttons pull the line to ground when pressed.
	aLine, err := chip.RequestLine(pins.ButtonA, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button A pin %d: %w", pins.ButtonA, err)
	}

	bLine, err := chip.RequestLine(pins.ButtonB, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		aLine.Close()
		chip.Close()
		return nil, fmt.Errorf("request button B pin %d: %w", pins.ButtonB, err)
	}

	return &RealReader{
		chip: chip,
		a:    aLine,
		b:    bLine,
	}, nil
}

// Read returns the logical states of buttons A and B.
// Inverts raw GPIO: raw low (0) = pressed.
func (r *RealReader) Read() (bool, bool, error) {
	aRaw, err := r.a.Value()
	if err != nil {
		return false, false, fmt.Errorf("read button A: %w", err)
	}

	bRaw, err := r.b.Value()
	if err != nil {
		return false, false, fmt.Errorf("read button B: %w", err)
	}

	return aRaw == 0, bRaw == 0, nil
}

// Close releases GPIO resources.
func (r *RealReader) Close() error {
	var errs []error
	for _, l := range []*gpiocdev.Line{r.a, r.b} {
		if l == nil {
			continue
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close line %d: %w", l.Offset(), err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	return errors.Join(errs...)
}

// RealWriter drives the LEDs and buzzer.
type RealWriter struct {
	chip  *gpiocdev.Chip
	lines map[Output]*gpiocdev.Line
}

// NewRealWriter requests every indicator line as an output, initially off.
func NewRealWriter(pins Pins) (*RealWriter, error) {
	chip, err := gpiocdev.NewChip(Chip)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	w := &RealWriter{chip: chip, lines: make(map[Output]*gpiocdev.Line)}
	for _, o := range []Output{OutputRed, OutputGreen, OutputBlue, OutputBuzzer} {
		pin, _ := pins.output(o)
		l, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
		if err != nil {
			w.Close()
			return nil, fmt.Errorf("request %s pin %d: %w", o, pin, err)
		}
		w.lines[o] = l
	}
	return w, nil
}

// Set drives the output high (on) or low (off).
func (w *RealWriter) Set(o Output, on bool) error {
	l, ok := w.lines[o]
	if !ok {
		return fmt.Errorf("unknown output %s", o)
	}
	v := 0
	if on {
		v = 1
	}
	if err := l.SetValue(v); err != nil {
		return fmt.Errorf("set %s: %w", o, err)
	}
	return nil
}

// Close turns all outputs off and releases the lines. Lines are returned
// as inputs so nothing is left driven after exit.
func (w *RealWriter) Close() error {
	var errs []error
	for o, l := range w.lines {
		if err := l.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear %s: %w", o, err))
		}
		if err := l.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure %s: %w", o, err))
		}
		if err := l.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", o, err))
		}
	}
	if w.chip != nil {
		if err := w.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	return errors.Join(errs...)
}
