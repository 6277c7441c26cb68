// internal/writer/redis/publisher.go
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// commands is the subset of go-redis the publisher uses.
type commands interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
}

type Config struct {
	Addr     string
	Password string
	DB       int
	Channel  string
	History  int64
}

// Publisher sends each encoded record to a Pub/Sub channel and keeps the
// latest History records in a per-run list.
type Publisher struct {
	cmd     commands
	closer  func() error
	channel string
	history int64
}

// Dial connects and pings once. Failure is returned, not retried.
func Dial(ctx context.Context, cfg Config) (*Publisher, error) {
	if cfg.Addr == "" {
		return nil, errors.New("writer redis: addr required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("writer redis: ping %s: %w", cfg.Addr, err)
	}

	return &Publisher{
		cmd:     client,
		closer:  client.Close,
		channel: cfg.Channel,
		history: cfg.History,
	}, nil
}

// ListKey is the history list for one run.
func ListKey(runID string) string {
	return "part_count:" + runID
}

// Publish delivers one encoded record.
func (p *Publisher) Publish(ctx context.Context, runID string, payload []byte) error {
	if err := p.cmd.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("writer redis: publish %s: %w", p.channel, err)
	}

	if p.history <= 0 {
		return nil
	}

	key := ListKey(runID)
	if err := p.cmd.LPush(ctx, key, payload).Err(); err != nil {
		return fmt.Errorf("writer redis: lpush %s: %w", key, err)
	}
	if err := p.cmd.LTrim(ctx, key, 0, p.history-1).Err(); err != nil {
		return fmt.Errorf("writer redis: ltrim %s: %w", key, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}
