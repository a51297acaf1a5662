// Package feedback drives the visible and audible response to an event:
// one indicator (LED or buzzer) and the status surface.
package feedback

import (
	"log"
	"time"

	"github.com/sweeney/event-logger/internal/display"
	"github.com/sweeney/event-logger/internal/gpio"
	"github.com/sweeney/event-logger/internal/logic"
)

// DefaultHold is how long an indicator stays on.
const DefaultHold = 300 * time.Millisecond

// Screen titles.
const (
	Title        = "Event Logger v1.0"
	EventTitle   = "EVENT DETECTED"
	StorageOK    = "SD: OK"
	StorageError = "SD: ERROR"
)

// Health reports storage health for the status line.
type Health interface {
	Ready() bool
}

// Presenter shows events. It is not safe for concurrent use; the dispatch
// loop calls it for one event at a time.
type Presenter struct {
	out    gpio.Writer
	screen display.Surface
	health Health
	hold   time.Duration

	// Sleep performs the hold; replaced in tests.
	Sleep func(time.Duration)
}

// New creates a Presenter.
func New(out gpio.Writer, screen display.Surface, health Health, hold time.Duration) *Presenter {
	return &Presenter{
		out:    out,
		screen: screen,
		health: health,
		hold:   hold,
		Sleep:  time.Sleep,
	}
}

// IndicatorFor maps each event kind to its indicator.
func IndicatorFor(k logic.EventKind) (gpio.Output, bool) {
	switch k {
	case logic.ButtonAPressed:
		return gpio.OutputRed, true
	case logic.ButtonBPressed:
		return gpio.OutputGreen, true
	case logic.JoystickMoved:
		return gpio.OutputBlue, true
	case logic.BothButtonsPressed:
		return gpio.OutputBuzzer, true
	}
	return 0, false
}

// Detail is the event line shown on the status surface.
func Detail(k logic.EventKind) string {
	if k == logic.BothButtonsPressed {
		return "BUZZER ACTIVATED"
	}
	return k.String()
}

// StorageLine renders the storage health line.
func StorageLine(ready bool) string {
	if ready {
		return StorageOK
	}
	return StorageError
}

// Present turns the event's indicator on, updates the status surface, holds
// for the configured duration and turns the indicator off. The hold blocks
// the caller. Indicator and display faults are logged and otherwise ignored.
func (p *Presenter) Present(k logic.EventKind) {
	o, ok := IndicatorFor(k)
	if !ok {
		log.Printf("feedback: no indicator for %v", k)
		return
	}

	if err := p.out.Set(o, true); err != nil {
		log.Printf("feedback: %s on: %v", o, err)
	}
	if err := p.screen.Show(EventTitle, Detail(k), StorageLine(p.health.Ready())); err != nil {
		log.Printf("feedback: display: %v", err)
	}
	if p.hold > 0 {
		p.Sleep(p.hold)
	}
	if err := p.out.Set(o, false); err != nil {
		log.Printf("feedback: %s off: %v", o, err)
	}
}

// Splash shows the boot screen.
func (p *Presenter) Splash() {
	if err := p.screen.Show(Title, "Initializing..."); err != nil {
		log.Printf("feedback: display: %v", err)
	}
}

// Ready shows the idle screen, or a storage warning when logging is disabled.
func (p *Presenter) Ready() {
	var err error
	if p.health.Ready() {
		err = p.screen.Show("System Ready", "Waiting input")
	} else {
		err = p.screen.Show("SD CARD ERROR", "Check card!")
	}
	if err != nil {
		log.Printf("feedback: display: %v", err)
	}
}
