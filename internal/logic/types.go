// Package logic contains the pure event detection rules for the logger.
// This package has NO external dependencies (no GPIO, ADC, storage or time.Sleep).
// Time is always injected as a time.Duration offset from boot.
package logic

import (
	"fmt"
	"time"
)

// EventKind identifies one of the fixed set of input events.
type EventKind int

const (
	ButtonAPressed EventKind = iota + 1
	ButtonBPressed
	BothButtonsPressed
	JoystickMoved
)

// Kinds lists every EventKind in dispatch order.
var Kinds = []EventKind{ButtonAPressed, ButtonBPressed, BothButtonsPressed, JoystickMoved}

// String returns the log file representation of the kind.
func (k EventKind) String() string {
	switch k {
	case ButtonAPressed:
		return "BUTTON_A_PRESSED"
	case ButtonBPressed:
		return "BUTTON_B_PRESSED"
	case BothButtonsPressed:
		return "BUZZER_ACTIVATED"
	case JoystickMoved:
		return "JOYSTICK_MOVED"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// ParseEventKind is the inverse of EventKind.String.
func ParseEventKind(s string) (EventKind, error) {
	for _, k := range Kinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown event kind %q", s)
}

// Event is a single detected input event.
type Event struct {
	Kind EventKind
	At   time.Duration // since boot
}

// DigitalInputState tracks debounce state for a single button.
type DigitalInputState struct {
	// Last sample, polarity-corrected (true = pressed). Rejected edges
	// update it too, so it is the reference for the next edge.
	Stable bool
	// Time of the last accepted edge
	LastTransition time.Duration
}

// AnalogPair is one joystick sample.
type AnalogPair struct {
	X uint16
	Y uint16
}

// MotionThrottle rate-limits joystick events.
type MotionThrottle struct {
	LastTrigger time.Duration
}

// MotionConfig describes the joystick dead zone and cool-down.
type MotionConfig struct {
	Min      uint16 // inclusive lower bound of the rest range
	Max      uint16 // inclusive upper bound of the rest range
	Throttle time.Duration
}

// ButtonInput is a single sample of both buttons.
type ButtonInput struct {
	A  bool
	B  bool
	At time.Duration
}

// EventCounts tracks the number of each event kind since startup.
type EventCounts struct {
	ButtonA  int
	ButtonB  int
	Both     int
	Joystick int
}

// Total returns the number of events of any kind.
func (c EventCounts) Total() int {
	return c.ButtonA + c.ButtonB + c.Both + c.Joystick
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	At     time.Duration
	Uptime time.Duration
	Counts EventCounts
}
