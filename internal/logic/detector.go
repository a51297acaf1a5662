package logic

import "time"

// Config holds the detection windows.
type Config struct {
	Debounce time.Duration
	Motion   MotionConfig
}

// Detector owns the per-input state and turns samples into events.
type Detector struct {
	cfg           Config
	a             DigitalInputState
	b             DigitalInputState
	joystick      MotionThrottle
	eventCounts   EventCounts
	lastHeartbeat time.Duration
}

// NewDetector creates a detector. All trackers start at boot (time zero),
// so edges within the first debounce window and motion within the first
// throttle window are ignored.
func NewDetector(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// Buttons takes a sample of both buttons and returns the events it produces.
// Button A is processed before button B. An accepted edge while the other
// button is held is reported as BothButtonsPressed, at most once per sample.
func (d *Detector) Buttons(in ButtonInput) []Event {
	aEdge := d.a.Poll(in.A, in.At, d.cfg.Debounce)
	bEdge := d.b.Poll(in.B, in.At, d.cfg.Debounce)

	var events []Event
	both := false

	if aEdge {
		if in.B {
			both = true
			events = append(events, Event{Kind: BothButtonsPressed, At: in.At})
		} else {
			events = append(events, Event{Kind: ButtonAPressed, At: in.At})
		}
	}

	if bEdge {
		if in.A {
			// Same physical press already reported by the A path
			if !both {
				events = append(events, Event{Kind: BothButtonsPressed, At: in.At})
			}
		} else {
			events = append(events, Event{Kind: ButtonBPressed, At: in.At})
		}
	}

	for _, e := range events {
		d.count(e.Kind)
	}
	return events
}

// Joystick evaluates a joystick sample, returning a JoystickMoved event
// when the stick is deflected and the cool-down has elapsed.
func (d *Detector) Joystick(p AnalogPair, at time.Duration) (Event, bool) {
	if !d.joystick.Detect(p, at, d.cfg.Motion) {
		return Event{}, false
	}
	d.count(JoystickMoved)
	return Event{Kind: JoystickMoved, At: at}, true
}

func (d *Detector) count(k EventKind) {
	switch k {
	case ButtonAPressed:
		d.eventCounts.ButtonA++
	case ButtonBPressed:
		d.eventCounts.ButtonB++
	case BothButtonsPressed:
		d.eventCounts.Both++
	case JoystickMoved:
		d.eventCounts.Joystick++
	}
}

// EventCountsSnapshot returns a copy of the per-kind counters.
func (d *Detector) EventCountsSnapshot() EventCounts {
	return d.eventCounts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since the
// last heartbeat (or boot). Returns nil if interval is <= 0 (disabled).
func (d *Detector) CheckHeartbeat(now, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}

	if now-d.lastHeartbeat < interval {
		return nil
	}

	d.lastHeartbeat = now
	return &HeartbeatData{
		At:     now,
		Uptime: now,
		Counts: d.eventCounts,
	}
}
