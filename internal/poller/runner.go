// internal/poller/runner.go
package poller

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/part-count-logger/internal/logfile"
	"github.com/tamzrod/part-count-logger/internal/protocol"
	"github.com/tamzrod/part-count-logger/internal/writer"
)

// Run polls until a stop condition fires, the context is cancelled, or a
// cycle fails. Normal stops and interrupts return a nil error.
//
// Cycle: prompt, settle, drain, parse, append row, mirrors, stop checks,
// sleep the rest of the period. One goroutine. No overlap. No retries.
func (p *Poller) Run(ctx context.Context) (Result, error) {
	clock := p.deps.Clock
	log := p.deps.Log

	for {
		if ctx.Err() != nil {
			return p.stop(StopInterrupted), nil
		}

		start := clock.Now()

		r, err := p.PollOnce(ctx)
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				return p.stop(StopInterrupted), nil
			}
			return p.fail(err)
		}

		if err := p.deps.Sink.Append(r); err != nil {
			return p.fail(err)
		}
		p.records++

		log.WithFields(logrus.Fields{
			"seq": p.records,
			"row": logfile.Row(r),
		}).Info("row written")

		if !r.AnalogInRange() {
			log.WithField("analog", r.Analog).Warnf("analog input outside 0..%d", protocol.AnalogMax)
		}

		if p.deps.Mirror != nil {
			rec := writer.Record{RunID: p.cfg.RunID, Seq: p.records, Reading: r}
			if err := p.deps.Mirror.Write(ctx, rec); err != nil {
				log.Warnf("mirror write failed: %v", err)
				p.observeError(KindMirror)
			}
		}

		now := clock.Now()
		if p.deps.Observer != nil {
			p.deps.Observer.ObserveReading(r, now.Sub(start))
		}

		// ------------------------------------------------------------
		// STOP CONDITIONS (count first, then deadline)
		// ------------------------------------------------------------

		if p.cfg.StopAfter > 0 && p.records >= p.cfg.StopAfter {
			return p.stop(StopMaxRecords), nil
		}
		if !p.cfg.StopAt.IsZero() && !now.Before(p.cfg.StopAt) {
			return p.stop(StopDeadline), nil
		}

		if err := clock.Sleep(ctx, p.cfg.Period-now.Sub(start)); err != nil {
			return p.stop(StopInterrupted), nil
		}
	}
}

func (p *Poller) stop(reason StopReason) Result {
	p.deps.Log.WithField("records", p.records).Info(reason.String())
	return Result{Records: p.records, Reason: reason}
}

func (p *Poller) fail(err error) (Result, error) {
	p.observeError(Kind(err))
	return Result{Records: p.records, Reason: StopNone}, err
}

func (p *Poller) observeError(kind string) {
	if p.deps.Observer != nil {
		p.deps.Observer.ObserveError(kind)
	}
}
