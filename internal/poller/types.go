// internal/poller/types.go
package poller

import (
	"context"
	"time"

	"github.com/tamzrod/part-count-logger/internal/protocol"
	"github.com/tamzrod/part-count-logger/internal/writer"
)

// Config is the minimal runtime config the poller needs.
type Config struct {
	RunID  string
	Period time.Duration
	Settle time.Duration

	// StopAt is the zero time when no deadline is set.
	StopAt time.Time
	// StopAfter is 0 when the row count is unbounded.
	StopAfter int
}

// Sink persists one row. A failure ends the run.
type Sink interface {
	Append(r protocol.Reading) error
}

// Mirror receives each persisted row. Failures are logged only.
type Mirror interface {
	Write(ctx context.Context, rec writer.Record) error
}

// Observer receives per-cycle measurements.
type Observer interface {
	ObserveReading(r protocol.Reading, cycle time.Duration)
	ObserveError(kind string)
}

// Clock abstracts time so the loop runs without real waits in tests.
type Clock interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is done, returning ctx.Err() in that case.
	Sleep(ctx context.Context, d time.Duration) error
}

// StopReason says why Run returned without error.
type StopReason int

const (
	StopNone StopReason = iota
	StopMaxRecords
	StopDeadline
	StopInterrupted
)

func (r StopReason) String() string {
	switch r {
	case StopMaxRecords:
		return "max records reached"
	case StopDeadline:
		return "max logging time reached"
	case StopInterrupted:
		return "interrupted"
	default:
		return "none"
	}
}

// Result summarizes one run.
type Result struct {
	Records int
	Reason  StopReason
}
