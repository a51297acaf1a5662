// Package mqtt mirrors events and lifecycle messages to an MQTT broker.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/event-logger/internal/logic"
)

// Topic is the MQTT topic for input events.
const Topic = "input-logger/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "input-logger/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends an input event along with the storage health at the
	// time it was recorded.
	Publish(event logic.Event, storageReady bool) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent is a lifecycle message (STARTUP, SHUTDOWN, HEARTBEAT, ...).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string
	Reason     string // shutdown signal, LWT
	RawPayload []byte // used as-is when set
	Retained   bool
}

// Payload is the MQTT message for an input event.
type Payload struct {
	Event EventPayload `json:"event"`
}

// EventPayload contains the event details.
type EventPayload struct {
	Kind        string `json:"kind"`
	TimestampMs int64  `json:"timestamp_ms"`
	Storage     string `json:"storage"`
}

// FormatPayload creates the JSON payload for an input event.
func FormatPayload(event logic.Event, storageReady bool) ([]byte, error) {
	storage := "ERROR"
	if storageReady {
		storage = "OK"
	}
	return json.Marshal(Payload{
		Event: EventPayload{
			Kind:        event.Kind.String(),
			TimestampMs: event.At.Milliseconds(),
			Storage:     storage,
		},
	})
}

// SystemPayload is the message for events that carry no status snapshot
// (LWT, RECONNECTED).
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp,omitempty"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// A zero Timestamp is omitted.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	inner := SystemPayloadInner{Event: event.Event, Reason: event.Reason}
	if !event.Timestamp.IsZero() {
		inner.Timestamp = event.Timestamp.UTC().Format(time.RFC3339)
	}
	return json.Marshal(SystemPayload{System: inner})
}
