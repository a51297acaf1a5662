package logic

import (
	"testing"
	"time"
)

func TestMovedDeadZone(t *testing.T) {
	cfg := MotionConfig{Min: 1000, Max: 3000, Throttle: 300 * ms}

	tests := []struct {
		name string
		p    AnalogPair
		want bool
	}{
		{"centre", AnalogPair{2048, 2048}, false},
		{"lower bound inclusive", AnalogPair{1000, 1000}, false},
		{"upper bound inclusive", AnalogPair{3000, 3000}, false},
		{"x below", AnalogPair{999, 2048}, true},
		{"x above", AnalogPair{3001, 2048}, true},
		{"y below", AnalogPair{2048, 0}, true},
		{"y above", AnalogPair{2048, 4095}, true},
		{"both saturated", AnalogPair{0, 4095}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.Moved(tt.p); got != tt.want {
				t.Errorf("Moved(%+v): got %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestDetectDeadZoneNeverTriggers(t *testing.T) {
	cfg := MotionConfig{Min: 1000, Max: 3000, Throttle: 300 * ms}
	th := MotionThrottle{LastTrigger: -time.Hour}

	for x := uint16(1000); x <= 3000; x += 250 {
		for y := uint16(1000); y <= 3000; y += 250 {
			if th.Detect(AnalogPair{x, y}, time.Second, cfg) {
				t.Fatalf("unexpected motion at (%d, %d)", x, y)
			}
		}
	}
	if th.LastTrigger != -time.Hour {
		t.Errorf("rest samples must not move LastTrigger, got %v", th.LastTrigger)
	}
}

// Scenario: (500, 2000) at t=0 triggers, the same sample at t=100 is inside
// the cool-down.
func TestDetectThrottle(t *testing.T) {
	cfg := MotionConfig{Min: 1000, Max: 3000, Throttle: 300 * ms}
	th := MotionThrottle{LastTrigger: -time.Second}

	if !th.Detect(AnalogPair{X: 500, Y: 2000}, 0, cfg) {
		t.Fatal("expected motion at t=0 (x below min)")
	}
	if th.LastTrigger != 0 {
		t.Errorf("LastTrigger: got %v, want 0", th.LastTrigger)
	}
	if th.Detect(AnalogPair{X: 500, Y: 2000}, 100*ms, cfg) {
		t.Error("expected no motion during cool-down")
	}
	if th.LastTrigger != 0 {
		t.Errorf("cool-down must not mutate LastTrigger, got %v", th.LastTrigger)
	}
	if th.Detect(AnalogPair{X: 500, Y: 2000}, 300*ms, cfg) {
		t.Error("expected no motion at exactly the throttle boundary")
	}
	if !th.Detect(AnalogPair{X: 500, Y: 2000}, 301*ms, cfg) {
		t.Error("expected motion once the cool-down elapsed")
	}
}

func TestDetectOncePerWindow(t *testing.T) {
	cfg := MotionConfig{Min: 1000, Max: 3000, Throttle: 300 * ms}
	th := MotionThrottle{LastTrigger: -time.Second}

	// Stick held deflected, sampled every 50ms for 1s
	fired := 0
	for at := time.Duration(0); at < time.Second; at += 50 * ms {
		if th.Detect(AnalogPair{X: 4095, Y: 2048}, at, cfg) {
			fired++
		}
	}
	// Triggers at 0, 350, 700
	if fired != 3 {
		t.Errorf("expected 3 triggers in 1s, got %d", fired)
	}
}
