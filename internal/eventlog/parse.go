package eventlog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sweeney/event-logger/internal/logic"
)

// Record is one parsed log row.
type Record struct {
	Kind logic.EventKind
	At   time.Duration
}

// ReadLog parses a log written by Sink. The header row is optional so that
// logs truncated by hand can still be read; blank lines are skipped.
// Rows that do not parse are skipped and reported together in the error.
func ReadLog(r io.Reader) ([]Record, error) {
	var (
		records []Record
		errs    []error
	)
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || (n == 1 && line == Header) {
			continue
		}
		rec, err := ParseRow(line)
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", n, err))
			continue
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		errs = append(errs, fmt.Errorf("read log: %w", err))
	}
	return records, errors.Join(errs...)
}

// ParseRow parses a single "<KIND>,<ms>" row.
func ParseRow(line string) (Record, error) {
	kindText, msText, ok := strings.Cut(line, ",")
	if !ok {
		return Record{}, fmt.Errorf("malformed row %q", line)
	}
	kind, err := logic.ParseEventKind(kindText)
	if err != nil {
		return Record{}, err
	}
	ms, err := strconv.ParseInt(msText, 10, 64)
	if err != nil || ms < 0 {
		return Record{}, fmt.Errorf("invalid timestamp %q", msText)
	}
	return Record{Kind: kind, At: time.Duration(ms) * time.Millisecond}, nil
}
