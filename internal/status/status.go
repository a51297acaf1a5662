// Package status provides a thread-safe view of the event logger's state.
// It is written by the dispatch loop and read by HTTP handlers and the
// heartbeat publisher.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/event-logger/internal/logic"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	DebounceMs  int64
	ThrottleMs  int64
	HoldMs      int64
	HeartbeatMs int64
	LogPath     string
	Broker      string
	HTTPAddr    string
}

// Snapshot is a point-in-time view of daemon state.
type Snapshot struct {
	StorageReady  bool
	Counts        logic.EventCounts
	LastEvent     *logic.Event
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets storage health and event counts. Called from the dispatch
// loop on every tick.
func (t *Tracker) Update(storageReady bool, counts logic.EventCounts) {
	t.mu.Lock()
	t.snap.StorageReady = storageReady
	t.snap.Counts = counts
	t.mu.Unlock()
}

// RecordEvent stores the most recent event.
func (t *Tracker) RecordEvent(e logic.Event) {
	t.mu.Lock()
	t.snap.LastEvent = &e
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// StorageReady reports the last known storage health.
func (t *Tracker) StorageReady() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap.StorageReady
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	if s.LastEvent != nil {
		e := *s.LastEvent
		s.LastEvent = &e
	}
	s.Now = time.Now()
	return s
}
