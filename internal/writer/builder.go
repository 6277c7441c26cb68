// internal/writer/builder.go
package writer

import (
	"context"
	"fmt"
	"time"

	"github.com/tamzrod/part-count-logger/internal/config"
	"github.com/tamzrod/part-count-logger/internal/writer/ingest"
	wmodbus "github.com/tamzrod/part-count-logger/internal/writer/modbus"
	"github.com/tamzrod/part-count-logger/internal/writer/mqtt"
	"github.com/tamzrod/part-count-logger/internal/writer/redis"
)

// Build connects every configured mirror. Each endpoint gets ONE attempt:
// an unreachable mirror fails startup, it is not retried later.
// The returned Mirror is nil when no register mirror is configured; it is
// also part of the Fanout.
func Build(ctx context.Context, s config.Settings) (*Fanout, *Mirror, error) {
	out := &Fanout{}
	var mirror *Mirror

	fail := func(err error) (*Fanout, *Mirror, error) {
		_ = out.Close()
		return nil, nil, err
	}

	// ---- register mirror ----
	if m := s.Mirror; m.Endpoint != "" {
		timeout := time.Duration(m.TimeoutMs) * time.Millisecond

		var cli endpointClient
		var err error
		switch m.Protocol {
		case "ingest":
			cli, err = ingest.NewEndpointClient(ingest.Config{Endpoint: m.Endpoint, Timeout: timeout})
		default:
			cli, err = wmodbus.NewEndpointClient(wmodbus.Config{Endpoint: m.Endpoint, Timeout: timeout})
		}
		if err != nil {
			return fail(fmt.Errorf("mirror %s: %w", m.Endpoint, err))
		}

		mirror = NewMirror(MirrorPlan{
			Endpoint:    m.Endpoint,
			UnitID:      m.UnitID,
			BaseAddress: m.BaseAddress,
			DeviceName:  m.DeviceName,
		}, cli)
		out.Add("mirror", mirror)
	}

	// ---- redis ----
	if r := s.Redis; r.Addr != "" {
		p, err := redis.Dial(ctx, redis.Config{
			Addr:     r.Addr,
			Password: r.Password,
			DB:       r.DB,
			Channel:  r.Channel,
			History:  r.History,
		})
		if err != nil {
			return fail(err)
		}
		out.Add("redis", redisWriter{p: p})
	}

	// ---- mqtt ----
	if q := s.MQTT; q.Broker != "" {
		p, err := mqtt.Connect(mqtt.Config{
			Broker:   q.Broker,
			ClientID: q.ClientID,
			Topic:    q.Topic,
			Username: q.Username,
			Password: q.Password,
			QoS:      q.QoS,
		})
		if err != nil {
			return fail(err)
		}
		out.Add("mqtt", mqttWriter{p: p})
	}

	return out, mirror, nil
}
