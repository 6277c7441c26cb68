// internal/poller/poller.go
package poller

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/part-count-logger/internal/protocol"
	"github.com/tamzrod/part-count-logger/internal/transport"
)

// maxAnswerBytes bounds one drain. A well-formed answer is well under 100 bytes.
const maxAnswerBytes = 1024

// Deps are the collaborators owned by the caller.
// Mirror, Observer, Log and Clock are optional.
type Deps struct {
	Transport transport.Transport
	Sink      Sink
	Mirror    Mirror
	Observer  Observer
	Log       logrus.FieldLogger
	Clock     Clock
}

// Poller is a clock-driven prompt/answer loop over one transport.
// Single goroutine: no locking.
type Poller struct {
	cfg     Config
	deps    Deps
	records int
}

// New creates a poller with immutable config.
func New(cfg Config, deps Deps) (*Poller, error) {
	if cfg.Period <= 0 {
		return nil, errors.New("poller: period must be > 0")
	}
	if cfg.Settle < 0 || cfg.Settle > cfg.Period {
		return nil, errors.New("poller: settle must be within the period")
	}
	if cfg.StopAfter < 0 {
		return nil, errors.New("poller: stop-after must not be negative")
	}
	if deps.Transport == nil {
		return nil, errors.New("poller: transport required")
	}
	if deps.Sink == nil {
		return nil, errors.New("poller: sink required")
	}
	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	if deps.Log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		deps.Log = l
	}
	return &Poller{cfg: cfg, deps: deps}, nil
}

// Records is the number of rows persisted so far.
func (p *Poller) Records() int { return p.records }

// PollOnce performs exactly one prompt/answer exchange.
// All-or-nothing: any failure aborts the cycle and nothing is persisted.
func (p *Poller) PollOnce(ctx context.Context) (protocol.Reading, error) {
	if _, err := p.deps.Transport.Write([]byte(protocol.Prompt)); err != nil {
		return protocol.Reading{}, fmt.Errorf("send prompt: %w", err)
	}

	// Give the instrument time to start answering.
	if err := p.deps.Clock.Sleep(ctx, p.cfg.Settle); err != nil {
		return protocol.Reading{}, err
	}

	at := p.deps.Clock.Now()

	raw, err := p.drain()
	if err != nil {
		return protocol.Reading{}, err
	}
	if len(raw) == 0 {
		return protocol.Reading{}, fmt.Errorf("%w: device did not respond to prompt", ErrNoResponse)
	}

	return protocol.Parse(string(raw), at)
}

// drain reads every byte currently available.
func (p *Poller) drain() ([]byte, error) {
	var raw []byte
	for {
		n, err := p.deps.Transport.Available()
		if err != nil {
			return nil, fmt.Errorf("read answer: %w", err)
		}
		if n == 0 {
			return raw, nil
		}
		for i := 0; i < n; i++ {
			b, err := p.deps.Transport.ReadByte()
			if err != nil {
				return nil, fmt.Errorf("read answer: %w", err)
			}
			raw = append(raw, b)
		}
		if len(raw) > maxAnswerBytes {
			return nil, fmt.Errorf("%w: answer exceeds %d bytes", protocol.ErrProtocol, maxAnswerBytes)
		}
	}
}
