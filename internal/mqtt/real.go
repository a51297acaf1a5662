package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sweeney/event-logger/internal/logic"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
)

// Options configures a RealPublisher.
type Options struct {
	Broker     string
	ClientID   string
	BufferSize int

	// OnStatus is called from paho's goroutines when the connection comes
	// up or goes down.
	OnStatus func(connected bool)
}

// RealPublisher publishes to an MQTT broker. Messages published while the
// connection is down are queued and sent on reconnect.
type RealPublisher struct {
	client   paho.Client
	onStatus func(bool)

	mu        sync.Mutex
	queue     *backlog
	connected bool
	replaying bool // queue is being drained; new messages join it
	seen      bool // connected at least once
}

// NewRealPublisher connects to the broker. If the broker does not answer
// within the connect timeout the publisher is still returned; paho keeps
// retrying in the background and messages are queued meanwhile.
func NewRealPublisher(o Options) (*RealPublisher, error) {
	if o.ClientID == "" {
		o.ClientID = "event-logger"
	}
	if o.BufferSize == 0 {
		o.BufferSize = DefaultBufferSize
	}

	lwt, err := FormatSystemPayload(SystemEvent{Event: "OFFLINE", Reason: "LWT"})
	if err != nil {
		return nil, fmt.Errorf("format will: %w", err)
	}

	p := newPublisher(nil, o)
	opts := paho.NewClientOptions().
		AddBroker(o.Broker).
		SetClientID(o.ClientID).
		SetWill(TopicSystem, string(lwt), 1, true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetOnConnectHandler(func(paho.Client) { p.handleConnect() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) { p.handleLost(err) })

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		log.Printf("mqtt: broker %s not reachable yet, queueing messages", o.Broker)
		return p, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return p, nil
}

func newPublisher(client paho.Client, o Options) *RealPublisher {
	return &RealPublisher{
		client:   client,
		onStatus: o.OnStatus,
		queue:    newBacklog(o.BufferSize),
	}
}

// Publish sends an input event (QoS 0, not retained).
func (p *RealPublisher) Publish(event logic.Event, storageReady bool) error {
	payload, err := FormatPayload(event, storageReady)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}
	return p.send(pending{topic: Topic, payload: payload})
}

// PublishSystem sends a lifecycle event (QoS 1).
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return p.send(pending{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

// IsConnected reports whether the broker connection is up.
func (p *RealPublisher) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

// Close disconnects from the broker. Queued messages are discarded.
func (p *RealPublisher) Close() error {
	p.mu.Lock()
	if n := p.queue.len(); n > 0 {
		log.Printf("mqtt: discarding %d queued messages", n)
	}
	p.mu.Unlock()
	p.client.Disconnect(1000)
	return nil
}

func (p *RealPublisher) send(m pending) error {
	p.mu.Lock()
	if !p.connected || p.replaying || !p.client.IsConnectionOpen() {
		p.queue.add(m)
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()
	return p.write(m)
}

func (p *RealPublisher) write(m pending) error {
	token := p.client.Publish(m.topic, m.qos, m.retained, m.payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timeout", m.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", m.topic, err)
	}
	return nil
}

func (p *RealPublisher) handleConnect() {
	p.mu.Lock()
	p.connected = true
	p.replaying = true
	reconnect := p.seen
	p.seen = true
	p.mu.Unlock()

	log.Printf("mqtt: connected")
	if p.onStatus != nil {
		p.onStatus(true)
	}

	if reconnect {
		payload, _ := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "RECONNECTED"})
		if err := p.write(pending{topic: TopicSystem, payload: payload, qos: 1}); err != nil {
			log.Printf("mqtt: %v", err)
		}
	}
	p.replay()
}

// replay sends queued messages oldest first. Messages published meanwhile
// are queued behind them until the queue is empty.
func (p *RealPublisher) replay() {
	sent := 0
	for {
		p.mu.Lock()
		if !p.connected {
			p.replaying = false
			p.mu.Unlock()
			return
		}
		queued := p.queue.take()
		if len(queued) == 0 {
			p.replaying = false
			p.mu.Unlock()
			break
		}
		p.mu.Unlock()

		for _, m := range queued {
			if err := p.write(m); err != nil {
				log.Printf("mqtt: replay: %v", err)
				continue
			}
			sent++
		}
	}
	if sent > 0 {
		log.Printf("mqtt: sent %d queued messages", sent)
	}
}

func (p *RealPublisher) handleLost(err error) {
	p.mu.Lock()
	p.connected = false
	p.replaying = false
	p.mu.Unlock()

	log.Printf("mqtt: connection lost: %v", err)
	if p.onStatus != nil {
		p.onStatus(false)
	}
}
