package eventlog

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Export formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCBOR = "cbor"
)

// ExportRecord is the structured form of a log row.
type ExportRecord struct {
	Event       string `json:"event" cbor:"event"`
	TimestampMs int64  `json:"timestamp_ms" cbor:"timestamp_ms"`
}

// Export writes records to w in the given format.
func Export(w io.Writer, records []Record, format string) error {
	switch format {
	case FormatText, "":
		if _, err := fmt.Fprintln(w, Header); err != nil {
			return err
		}
		for _, r := range records {
			if _, err := fmt.Fprintln(w, FormatRow(r.Kind, r.At)); err != nil {
				return err
			}
		}
		return nil
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(exportRecords(records))
	case FormatCBOR:
		return cbor.NewEncoder(w).Encode(exportRecords(records))
	}
	return fmt.Errorf("unknown export format %q", format)
}

func exportRecords(records []Record) []ExportRecord {
	out := make([]ExportRecord, 0, len(records))
	for _, r := range records {
		out = append(out, ExportRecord{Event: r.Kind.String(), TimestampMs: r.At.Milliseconds()})
	}
	return out
}
