// internal/writer/payload.go
package writer

import (
	"encoding/json"

	"github.com/tamzrod/part-count-logger/internal/logfile"
	"github.com/tamzrod/part-count-logger/internal/protocol"
)

// Payload is the JSON document published for each record.
type Payload struct {
	RunID     string                       `json:"run_id"`
	Seq       int                          `json:"seq"`
	Timestamp string                       `json:"tstamp"`
	FlowRate  uint32                       `json:"flowrate"`
	Bins      [protocol.BinCount]uint32    `json:"bins"`
	Cal       uint32                       `json:"cal"`
	Analog    [protocol.AnalogCount]uint32 `json:"analog"`
}

// NewPayload builds the published form of rec.
// The timestamp uses the log file layout so both outputs line up.
func NewPayload(rec Record) Payload {
	r := rec.Reading
	return Payload{
		RunID:     rec.RunID,
		Seq:       rec.Seq,
		Timestamp: r.Timestamp.Format(logfile.TimestampLayout),
		FlowRate:  r.FlowRate,
		Bins:      r.Bins,
		Cal:       r.Calibration,
		Analog:    r.Analog,
	}
}

// EncodePayload marshals the published form of rec.
func EncodePayload(rec Record) ([]byte, error) {
	return json.Marshal(NewPayload(rec))
}
