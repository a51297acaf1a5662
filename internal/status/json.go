package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string         `json:"event,omitempty"`
	Reason        string         `json:"reason,omitempty"`
	Storage       string         `json:"storage"`
	UptimeSeconds int64          `json:"uptime_seconds"`
	StartTime     string         `json:"start_time"`
	Timestamp     string         `json:"timestamp"`
	LastEvent     *LastEventJSON `json:"last_event,omitempty"`
	MQTT          MQTTStatus     `json:"mqtt"`
	Counts        CountsJSON     `json:"event_counts"`
	Config        ConfigJSON     `json:"config"`
}

// LastEventJSON describes the most recent event.
type LastEventJSON struct {
	Kind        string `json:"kind"`
	TimestampMs int64  `json:"timestamp_ms"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	ButtonA  int `json:"button_a"`
	ButtonB  int `json:"button_b"`
	Both     int `json:"both"`
	Joystick int `json:"joystick"`
	Total    int `json:"total"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	ThrottleMs  int64  `json:"throttle_ms"`
	HoldMs      int64  `json:"hold_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	LogPath     string `json:"log_path"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
}

// StorageLabel renders storage health the way the status surface does.
func StorageLabel(ready bool) string {
	if ready {
		return "OK"
	}
	return "ERROR"
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Storage:       StorageLabel(snap.StorageReady),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			ButtonA:  snap.Counts.ButtonA,
			ButtonB:  snap.Counts.ButtonB,
			Both:     snap.Counts.Both,
			Joystick: snap.Counts.Joystick,
			Total:    snap.Counts.Total(),
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			DebounceMs:  snap.Config.DebounceMs,
			ThrottleMs:  snap.Config.ThrottleMs,
			HoldMs:      snap.Config.HoldMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			LogPath:     snap.Config.LogPath,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
	if snap.LastEvent != nil {
		inner.LastEvent = &LastEventJSON{
			Kind:        snap.LastEvent.Kind.String(),
			TimestampMs: snap.LastEvent.At.Milliseconds(),
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
