// Package gpio provides button input and indicator output with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "fmt"

// Reader reads the two button inputs.
type Reader interface {
	// Read returns the logical states of buttons A and B.
	// Buttons are wired active-low with pull-ups: raw low = pressed.
	// Returns (aPressed, bPressed, error).
	Read() (bool, bool, error)

	// Close releases GPIO resources.
	Close() error
}

// Output identifies one of the indicator lines.
type Output int

const (
	OutputRed Output = iota
	OutputGreen
	OutputBlue
	OutputBuzzer
)

func (o Output) String() string {
	switch o {
	case OutputRed:
		return "red"
	case OutputGreen:
		return "green"
	case OutputBlue:
		return "blue"
	case OutputBuzzer:
		return "buzzer"
	}
	return fmt.Sprintf("Output(%d)", int(o))
}

// Writer drives the indicator outputs.
type Writer interface {
	// Set drives the output active (true) or inactive (false).
	Set(o Output, on bool) error

	// Close turns every output off and releases GPIO resources.
	Close() error
}

// Pins holds BCM line offsets for all inputs and outputs.
type Pins struct {
	ButtonA int
	ButtonB int
	Red     int
	Green   int
	Blue    int
	Buzzer  int
}

// Default pin assignments (BCM numbering)
const (
	DefaultPinButtonA = 5
	DefaultPinButtonB = 6
	DefaultPinRed     = 13
	DefaultPinGreen   = 11
	DefaultPinBlue    = 12
	DefaultPinBuzzer  = 21
)

// DefaultPins returns the default pin assignments.
func DefaultPins() Pins {
	return Pins{
		ButtonA: DefaultPinButtonA,
		ButtonB: DefaultPinButtonB,
		Red:     DefaultPinRed,
		Green:   DefaultPinGreen,
		Blue:    DefaultPinBlue,
		Buzzer:  DefaultPinBuzzer,
	}
}

func (p Pins) output(o Output) (int, bool) {
	switch o {
	case OutputRed:
		return p.Red, true
	case OutputGreen:
		return p.Green, true
	case OutputBlue:
		return p.Blue, true
	case OutputBuzzer:
		return p.Buzzer, true
	}
	return 0, false
}
