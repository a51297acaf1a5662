package logic

import "time"

// Poll feeds one sample into the tracker and reports whether it is an
// accepted press. A rising edge is accepted only if more than window has
// elapsed since the previous accepted edge; otherwise it is treated as bounce.
// The sample is always remembered, so a rejected bounce never blocks the
// next genuine edge.
func (s *DigitalInputState) Poll(active bool, now, window time.Duration) bool {
	candidate := active && !s.Stable
	s.Stable = active

	if !candidate {
		return false
	}
	if now-s.LastTransition > window {
		s.LastTransition = now
		return true
	}
	return false
}
