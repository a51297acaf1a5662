package main

import (
	"errors"
	"log"
	"os"
	"syscall"
	"time"

	"github.com/sweeney/event-logger/internal/adc"
	"github.com/sweeney/event-logger/internal/eventlog"
	"github.com/sweeney/event-logger/internal/gpio"
	"github.com/sweeney/event-logger/internal/logic"
	"github.com/sweeney/event-logger/internal/mqtt"
	"github.com/sweeney/event-logger/internal/status"
)

// presenter shows an event. The call blocks for the indicator hold.
type presenter interface {
	Present(kind logic.EventKind)
}

// app holds everything runLoop drives.
type app struct {
	buttons    gpio.Reader
	joystick   adc.Reader // nil when no ADC was found
	detector   *logic.Detector
	sink       *eventlog.Sink
	presenter  presenter
	publisher  mqtt.Publisher // nil when MQTT is disabled
	mqttStatus mqtt.ConnectionStatus
	tracker    *status.Tracker
	heartbeat  time.Duration

	// start is boot time; event timestamps are offsets from it.
	start time.Time
}

func runLoop(a *app, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			a.shutdown(signalName(s), now)
			return nil

		case <-tick:
			a.poll(now)
		}
	}
}

// poll runs one cycle: buttons first, then the joystick, each event fully
// dispatched before the next input is read.
func (a *app) poll(now func() time.Time) {
	at := now().Sub(a.start)
	pressA, pressB, err := a.buttons.Read()
	if err != nil {
		log.Printf("gpio read error: %v", err)
		return
	}
	for _, e := range a.detector.Buttons(logic.ButtonInput{A: pressA, B: pressB, At: at}) {
		a.dispatch(e)
	}

	if a.joystick != nil {
		at = now().Sub(a.start)
		p, err := a.joystick.Read()
		if err != nil {
			log.Printf("adc read error: %v", err)
		} else if e, ok := a.detector.Joystick(p, at); ok {
			a.dispatch(e)
		}
	}

	a.checkHeartbeat(now)
	a.refreshStatus()
}

// dispatch records the event, shows it and mirrors it to MQTT. Failures in
// one step do not stop the others.
func (a *app) dispatch(e logic.Event) {
	log.Printf("event: %s at %dms", e.Kind, e.At.Milliseconds())

	if err := a.sink.Record(e.Kind, e.At); err != nil && !errors.Is(err, eventlog.ErrUnavailable) {
		log.Printf("eventlog: %v, logging disabled", err)
	}
	ready := a.sink.Ready()
	a.tracker.RecordEvent(e)
	a.tracker.Update(ready, a.detector.EventCountsSnapshot())

	a.presenter.Present(e.Kind)

	if a.publisher != nil {
		if err := a.publisher.Publish(e, ready); err != nil {
			log.Printf("publish error: %v", err)
		}
	}
}

func (a *app) checkHeartbeat(now func() time.Time) {
	t := now()
	hb := a.detector.CheckHeartbeat(t.Sub(a.start), a.heartbeat)
	if hb == nil {
		return
	}
	log.Printf("heartbeat: uptime=%v a=%d b=%d both=%d joystick=%d storage=%s",
		hb.Uptime, hb.Counts.ButtonA, hb.Counts.ButtonB, hb.Counts.Both, hb.Counts.Joystick,
		status.StorageLabel(a.sink.Ready()))

	if a.publisher == nil {
		return
	}
	a.refreshStatus()
	snap := a.tracker.Snapshot()
	err := a.publisher.PublishSystem(mqtt.SystemEvent{
		Timestamp:  t,
		Event:      "HEARTBEAT",
		RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
	})
	if err != nil {
		log.Printf("heartbeat publish error: %v", err)
	}
}

func (a *app) refreshStatus() {
	a.tracker.Update(a.sink.Ready(), a.detector.EventCountsSnapshot())
	if a.mqttStatus != nil {
		a.tracker.SetMQTTConnected(a.mqttStatus.IsConnected())
	}
}

func (a *app) shutdown(reason string, now func() time.Time) {
	if a.publisher == nil {
		return
	}
	a.refreshStatus()
	snap := a.tracker.Snapshot()
	err := a.publisher.PublishSystem(mqtt.SystemEvent{
		Timestamp:  now(),
		Event:      "SHUTDOWN",
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "SHUTDOWN", reason),
	})
	if err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
		return
	}
	log.Printf("published shutdown event")
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
