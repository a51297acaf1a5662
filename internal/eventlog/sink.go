// Package eventlog persists input events as rows of a plain-text log.
//
// The log starts with the header row "Event,Timestamp_ms" followed by one
// "<KIND>,<milliseconds since boot>" row per event. Every row is synced
// before Record returns.
package eventlog

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/sweeney/event-logger/internal/logic"
)

// Header is the first row of every log.
const Header = "Event,Timestamp_ms"

var (
	// ErrUnavailable is returned while storage is not ready.
	ErrUnavailable = errors.New("storage unavailable")
	// ErrWriteFailed is returned when a write or sync fails. The sink
	// stays unavailable for the rest of the session.
	ErrWriteFailed = errors.New("write failed")
)

// Sink appends events to the log and tracks storage health.
// There is no recovery after a failure: once not ready, a sink stays
// not ready until the process restarts.
type Sink struct {
	storage Storage
	name    string
	file    File
	ready   bool
}

// NewSink creates a sink for the named log. It is not ready until Init succeeds.
func NewSink(storage Storage, name string) *Sink {
	return &Sink{storage: storage, name: name}
}

// Init mounts the storage, opens the log and writes the header if the log
// is empty. On failure the sink runs in degraded mode and every Record
// returns ErrUnavailable.
func (s *Sink) Init() error {
	if err := s.storage.Mount(); err != nil {
		return fmt.Errorf("%w: mount: %v", ErrUnavailable, err)
	}
	log.Printf("eventlog: storage mounted")

	f, err := s.storage.OpenAppend(s.name)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", ErrUnavailable, s.name, err)
	}

	size, err := f.Size()
	if err != nil {
		f.Close()
		return fmt.Errorf("%w: stat %s: %v", ErrUnavailable, s.name, err)
	}

	if size == 0 {
		if err := writeSynced(f, Header); err != nil {
			f.Close()
			return fmt.Errorf("%w: header: %v", ErrUnavailable, err)
		}
		log.Printf("eventlog: created %s with header", s.name)
	} else {
		if err := terminateLast(f); err != nil {
			f.Close()
			return fmt.Errorf("%w: repair %s: %v", ErrUnavailable, s.name, err)
		}
		log.Printf("eventlog: appending to %s (%d bytes)", s.name, size)
	}

	s.file = f
	s.ready = true
	return nil
}

// Ready reports whether events are currently being persisted.
func (s *Sink) Ready() bool {
	return s.ready
}

// Record appends one event and syncs it.
func (s *Sink) Record(kind logic.EventKind, at time.Duration) error {
	if !s.ready {
		return ErrUnavailable
	}

	if err := writeSynced(s.file, FormatRow(kind, at)); err != nil {
		s.ready = false
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// Close releases the log file.
func (s *Sink) Close() error {
	s.ready = false
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// FormatRow renders one log row without the line terminator.
func FormatRow(kind logic.EventKind, at time.Duration) string {
	return kind.String() + "," + strconv.FormatInt(at.Milliseconds(), 10)
}

// terminateLast ends a row cut short by power loss, so the next row starts
// on its own line.
func terminateLast(f File) error {
	last, err := f.LastByte()
	if err != nil {
		return fmt.Errorf("read tail: %w", err)
	}
	if last == LineTerminator[len(LineTerminator)-1] {
		return nil
	}
	log.Printf("eventlog: last row is incomplete, terminating it")
	return writeSynced(f, "")
}

func writeSynced(f File, line string) error {
	if err := f.WriteLine(line); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
}
