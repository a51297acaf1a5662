package logic

import "time"

// Moved reports whether either axis is outside the inclusive rest range.
// The joystick reads mid-scale at rest and saturates when deflected.
func (c MotionConfig) Moved(p AnalogPair) bool {
	return p.X < c.Min || p.X > c.Max || p.Y < c.Min || p.Y > c.Max
}

// Detect evaluates a joystick sample. Samples are ignored until the
// cool-down since the last trigger has elapsed.
func (t *MotionThrottle) Detect(p AnalogPair, now time.Duration, cfg MotionConfig) bool {
	if now-t.LastTrigger <= cfg.Throttle {
		return false
	}
	if !cfg.Moved(p) {
		return false
	}
	t.LastTrigger = now
	return true
}
