// internal/writer/types.go
package writer

import (
	"context"

	"github.com/tamzrod/part-count-logger/internal/protocol"
)

// Record is one persisted reading as seen by the mirrors.
// Seq is the 1-based row number within the run.
type Record struct {
	RunID   string
	Seq     int
	Reading protocol.Reading
}

// Writer delivers records to one destination.
// Writers are best effort: the CSV log is the system of record.
type Writer interface {
	Write(ctx context.Context, rec Record) error
	Close() error
}

// endpointClient is the exact contract the mirror uses.
type endpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
	Close() error
}
