// Command event-logger samples two buttons and a joystick, shows feedback on
// LEDs, a buzzer and an OLED, and appends every event to a log on an SD card.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/sweeney/event-logger/internal/config"
	"github.com/sweeney/event-logger/internal/eventlog"
	"github.com/sweeney/event-logger/internal/feedback"
	"github.com/sweeney/event-logger/internal/gpio"
	"github.com/sweeney/event-logger/internal/logic"
	"github.com/sweeney/event-logger/internal/mqtt"
	"github.com/sweeney/event-logger/internal/status"
	"github.com/sweeney/event-logger/internal/web"
)

func main() {
	fs := pflag.NewFlagSet("event-logger", pflag.ContinueOnError)
	dump := fs.String("dump", "", "print an event log file and exit")
	dumpFormat := fs.String("dump-format", eventlog.FormatText, "output format for --dump: text, json or cbor")
	printState := fs.Bool("print-state", false, "print current input state and exit")

	cfg, err := config.Load(fs, os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	if *dump != "" {
		if err := dumpLog(os.Stdout, *dump, *dumpFormat); err != nil {
			log.Fatalf("fatal: %v", err)
		}
		return
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// dumpLog parses an event log and writes it to w in the given format.
func dumpLog(w io.Writer, path, format string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	// Rows that do not parse are reported after the rest are exported
	records, readErr := eventlog.ReadLog(f)
	if err := eventlog.Export(w, records, format); err != nil {
		return err
	}
	if readErr != nil {
		return fmt.Errorf("read %s: %w", path, readErr)
	}
	return nil
}

func run(cfg *config.Config, printState bool) error {
	start := time.Now()

	buttons, err := gpio.NewRealReader(cfg.GPIOPins())
	if err != nil {
		return fmt.Errorf("init buttons: %w", err)
	}
	defer buttons.Close()

	hw := openPeripherals(cfg)
	defer hw.Close()

	if printState {
		return printInputs(os.Stdout, buttons, hw.joystick)
	}

	outputs, err := gpio.NewRealWriter(cfg.GPIOPins())
	if err != nil {
		return fmt.Errorf("init outputs: %w", err)
	}
	defer outputs.Close()

	sink := eventlog.NewSink(&eventlog.FSStorage{
		Device:         cfg.Storage.Device,
		FSType:         cfg.Storage.FSType,
		Dir:            cfg.Storage.Dir,
		AllowUnmounted: cfg.Storage.AllowUnmounted,
	}, cfg.Storage.File)
	defer sink.Close()

	presenter := feedback.New(outputs, hw.screen, sink, cfg.Hold)
	presenter.Splash()

	if err := sink.Init(); err != nil {
		log.Printf("eventlog: %v, continuing without logging", err)
	} else {
		log.Printf("eventlog: logging to %s", cfg.LogPath())
	}

	tracker := status.NewTracker(start, cfg.Status())
	tracker.Update(sink.Ready(), logic.EventCounts{})

	var publisher mqtt.Publisher
	var mqttStatus mqtt.ConnectionStatus
	if cfg.Broker != "" {
		p, err := mqtt.NewRealPublisher(mqtt.Options{
			Broker:   cfg.Broker,
			OnStatus: tracker.SetMQTTConnected,
		})
		if err != nil {
			log.Printf("mqtt: %v, continuing without broker", err)
		} else {
			publisher, mqttStatus = p, p
			defer p.Close()
			publishStartup(publisher, tracker)
		}
	}

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker, cfg.LogPath())
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	presenter.Ready()
	log.Printf("started: poll=%v debounce=%v throttle=%v hold=%v storage=%s",
		cfg.Poll, cfg.Debounce, cfg.Throttle, cfg.Hold, status.StorageLabel(sink.Ready()))

	ticker := time.NewTicker(cfg.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	a := &app{
		buttons:    buttons,
		joystick:   hw.joystick,
		detector:   logic.NewDetector(cfg.Logic()),
		sink:       sink,
		presenter:  presenter,
		publisher:  publisher,
		mqttStatus: mqttStatus,
		tracker:    tracker,
		heartbeat:  cfg.Heartbeat,
		start:      start,
	}
	return runLoop(a, time.Now, ticker.C, sigCh)
}

func publishStartup(p mqtt.Publisher, tracker *status.Tracker) {
	snap := tracker.Snapshot()
	err := p.PublishSystem(mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	})
	if err != nil {
		log.Printf("failed to publish startup event: %v", err)
		return
	}
	log.Printf("published startup event")
}
