// internal/writer/publish.go
package writer

import (
	"context"
	"fmt"
)

// redisPublisher and mqttPublisher are the delivery contracts of the
// pub/sub clients in writer/redis and writer/mqtt.
type redisPublisher interface {
	Publish(ctx context.Context, runID string, payload []byte) error
	Close() error
}

type mqttPublisher interface {
	Publish(payload []byte) error
	Close() error
}

// redisWriter adapts a redis publisher to Writer.
type redisWriter struct{ p redisPublisher }

func (w redisWriter) Write(ctx context.Context, rec Record) error {
	payload, err := EncodePayload(rec)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	return w.p.Publish(ctx, rec.RunID, payload)
}

func (w redisWriter) Close() error { return w.p.Close() }

// mqttWriter adapts an mqtt publisher to Writer.
type mqttWriter struct{ p mqttPublisher }

func (w mqttWriter) Write(_ context.Context, rec Record) error {
	payload, err := EncodePayload(rec)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	return w.p.Publish(payload)
}

func (w mqttWriter) Close() error { return w.p.Close() }
