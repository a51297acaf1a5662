package mqtt

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sweeney/event-logger/internal/logic"
)

func TestFormatPayload(t *testing.T) {
	event := logic.Event{Kind: logic.ButtonAPressed, At: 1234 * time.Millisecond}

	payload, err := FormatPayload(event, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"event":{"kind":"BUTTON_A_PRESSED","timestamp_ms":1234,"storage":"OK"}}`
	if string(payload) != want {
		t.Errorf("payload:\ngot  %s\nwant %s", payload, want)
	}
}

func TestFormatPayloadAllKinds(t *testing.T) {
	tests := []struct {
		kind  logic.EventKind
		ready bool
		want  string
		store string
	}{
		{logic.ButtonAPressed, true, "BUTTON_A_PRESSED", "OK"},
		{logic.ButtonBPressed, false, "BUTTON_B_PRESSED", "ERROR"},
		{logic.BothButtonsPressed, true, "BUZZER_ACTIVATED", "OK"},
		{logic.JoystickMoved, false, "JOYSTICK_MOVED", "ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			payload, err := FormatPayload(logic.Event{Kind: tt.kind, At: time.Second}, tt.ready)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var parsed Payload
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if parsed.Event.Kind != tt.want {
				t.Errorf("kind: got %s, want %s", parsed.Event.Kind, tt.want)
			}
			if parsed.Event.Storage != tt.store {
				t.Errorf("storage: got %s, want %s", parsed.Event.Storage, tt.store)
			}
			if parsed.Event.TimestampMs != 1000 {
				t.Errorf("timestamp_ms: got %d, want 1000", parsed.Event.TimestampMs)
			}
		})
	}
}

func TestTopics(t *testing.T) {
	if Topic != "input-logger/events" {
		t.Errorf("unexpected topic: %s", Topic)
	}
	if TopicSystem != "input-logger/system" {
		t.Errorf("unexpected system topic: %s", TopicSystem)
	}
}

func TestFormatSystemPayloadExactJSON(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC),
		Event:     "RECONNECTED",
	}
	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"system":{"timestamp":"2026-02-03T10:00:00Z","event":"RECONNECTED"}}`
	if string(payload) != want {
		t.Errorf("payload:\ngot  %s\nwant %s", payload, want)
	}
}

func TestFormatSystemPayloadWillOmitsTimestamp(t *testing.T) {
	payload, err := FormatSystemPayload(SystemEvent{Event: "OFFLINE", Reason: "LWT"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"system":{"event":"OFFLINE","reason":"LWT"}}`
	if string(payload) != want {
		t.Errorf("payload:\ngot  %s\nwant %s", payload, want)
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":{"event":"HEARTBEAT"}}`)
	payload, err := FormatSystemPayload(SystemEvent{Event: "HEARTBEAT", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("expected raw payload, got %s", payload)
	}
}

func TestFakePublisher(t *testing.T) {
	f := NewFakePublisher()
	if err := f.Publish(logic.Event{Kind: logic.JoystickMoved, At: time.Second}, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Events) != 1 || len(f.Payloads) != 1 {
		t.Errorf("expected one event, got %d", len(f.Events))
	}
	if names := f.SystemEventNames(); len(names) != 1 || names[0] != "STARTUP" {
		t.Errorf("unexpected system events: %v", names)
	}

	f.PublishError = errors.New("broker down")
	if err := f.Publish(logic.Event{Kind: logic.ButtonAPressed}, true); err == nil {
		t.Error("expected error")
	}
	if len(f.Events) != 1 {
		t.Error("failed publish should not be recorded")
	}

	f.Close()
	if !f.Closed {
		t.Error("expected Closed=true")
	}
}

// fakeToken is a completed paho token.
type fakeToken struct {
	err error
}

func (t fakeToken) Wait() bool                     { return true }
func (t fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t fakeToken) Error() error                   { return t.err }

func (t fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type sent struct {
	topic    string
	qos      byte
	retained bool
	payload  string
}

// fakeClient implements the parts of paho.Client the publisher uses.
type fakeClient struct {
	paho.Client

	mu           sync.Mutex
	open         bool
	published    []sent
	publishErr   error
	disconnected bool

	// onPublish runs after each successful publish, outside the lock.
	onPublish func()
}

func (c *fakeClient) IsConnectionOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

func (c *fakeClient) Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token {
	c.mu.Lock()
	if c.publishErr != nil {
		c.mu.Unlock()
		return fakeToken{err: c.publishErr}
	}
	c.published = append(c.published, sent{topic, qos, retained, string(payload.([]byte))})
	hook := c.onPublish
	c.mu.Unlock()

	if hook != nil {
		hook()
	}
	return fakeToken{}
}

func (c *fakeClient) Disconnect(uint) {
	c.disconnected = true
}

func TestRealPublisherQueuesUntilConnected(t *testing.T) {
	client := &fakeClient{}
	var statuses []bool
	p := newPublisher(client, Options{BufferSize: 10, OnStatus: func(up bool) { statuses = append(statuses, up) }})

	if err := p.Publish(logic.Event{Kind: logic.ButtonAPressed, At: time.Second}, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.PublishSystem(SystemEvent{Event: "STARTUP", Retained: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.published) != 0 {
		t.Fatalf("expected nothing sent while disconnected, got %d", len(client.published))
	}
	if p.IsConnected() {
		t.Error("expected disconnected")
	}

	client.open = true
	p.handleConnect()

	if !p.IsConnected() {
		t.Error("expected connected")
	}
	if len(client.published) != 2 {
		t.Fatalf("expected 2 replayed messages, got %d", len(client.published))
	}
	if client.published[0].topic != Topic || client.published[0].qos != 0 {
		t.Errorf("unexpected first message: %+v", client.published[0])
	}
	if m := client.published[1]; m.topic != TopicSystem || m.qos != 1 || !m.retained {
		t.Errorf("unexpected second message: %+v", m)
	}
	if len(statuses) != 1 || !statuses[0] {
		t.Errorf("unexpected status callbacks: %v", statuses)
	}
}

func TestRealPublisherReconnect(t *testing.T) {
	client := &fakeClient{open: true}
	p := newPublisher(client, Options{BufferSize: 10})
	p.handleConnect()

	if err := p.Publish(logic.Event{Kind: logic.ButtonBPressed}, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(client.published) != 1 {
		t.Fatalf("expected direct publish, got %d", len(client.published))
	}

	client.open = false
	p.handleLost(errors.New("EOF"))
	p.Publish(logic.Event{Kind: logic.JoystickMoved}, true)
	if len(client.published) != 1 {
		t.Fatal("expected message to be queued while disconnected")
	}

	client.open = true
	p.handleConnect()

	if len(client.published) != 3 {
		t.Fatalf("expected RECONNECTED + replay, got %d messages", len(client.published))
	}
	var sys SystemPayload
	if err := json.Unmarshal([]byte(client.published[1].payload), &sys); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if sys.System.Event != "RECONNECTED" {
		t.Errorf("expected RECONNECTED, got %q", sys.System.Event)
	}
	var ev Payload
	if err := json.Unmarshal([]byte(client.published[2].payload), &ev); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if ev.Event.Kind != "JOYSTICK_MOVED" {
		t.Errorf("expected replayed JOYSTICK_MOVED, got %q", ev.Event.Kind)
	}
}

func TestRealPublisherPublishError(t *testing.T) {
	client := &fakeClient{open: true, publishErr: errors.New("not authorized")}
	p := newPublisher(client, Options{BufferSize: 10})
	p.handleConnect()

	if err := p.Publish(logic.Event{Kind: logic.ButtonAPressed}, true); err == nil {
		t.Error("expected publish error")
	}
}

func TestRealPublisherReplayKeepsOrder(t *testing.T) {
	client := &fakeClient{}
	p := newPublisher(client, Options{BufferSize: 10})

	for i := 1; i <= 3; i++ {
		p.Publish(logic.Event{Kind: logic.ButtonAPressed, At: time.Duration(i) * time.Second}, true)
	}

	// The loop publishes a new event while the first queued one is in flight
	published := false
	client.onPublish = func() {
		if published {
			return
		}
		published = true
		if err := p.Publish(logic.Event{Kind: logic.JoystickMoved, At: 4 * time.Second}, true); err != nil {
			t.Errorf("publish during replay: %v", err)
		}
	}
	client.open = true
	p.handleConnect()

	var got []int64
	for _, m := range client.published {
		var ev Payload
		if err := json.Unmarshal([]byte(m.payload), &ev); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		got = append(got, ev.Event.TimestampMs)
	}
	want := []int64{1000, 2000, 3000, 4000}
	if len(got) != len(want) {
		t.Fatalf("expected %d messages, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d: got %d, want %d (order %v)", i, got[i], want[i], got)
		}
	}

	// Once drained, publishing goes straight out again
	client.onPublish = nil
	p.Publish(logic.Event{Kind: logic.ButtonBPressed, At: 5 * time.Second}, true)
	if len(client.published) != 5 {
		t.Errorf("expected direct publish after replay, got %d messages", len(client.published))
	}
}

func TestRealPublisherClose(t *testing.T) {
	client := &fakeClient{}
	p := newPublisher(client, Options{BufferSize: 10})
	p.Publish(logic.Event{Kind: logic.ButtonAPressed}, true)

	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !client.disconnected {
		t.Error("expected client to be disconnected")
	}
}
