// internal/config/resolve.go
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Settings is the immutable, typed view of a validated and normalized Config.
// It is built once at startup and handed to the run session.
type Settings struct {
	Port   string
	Period time.Duration

	// StopAt is the zero time when no deadline is configured.
	StopAt time.Time
	// StopAfter is 0 when the record count is unbounded.
	StopAfter int

	Serial  SerialSettings
	Output  OutputConfig
	Log     LogConfig
	Metrics MetricsConfig
	Mirror  MirrorConfig
	Redis   RedisConfig
	MQTT    MQTTConfig
}

type SerialSettings struct {
	BaudRate    int
	DataBits    int
	Parity      string
	StopBits    int
	ReadTimeout time.Duration
	Settle      time.Duration
}

// HasDeadline reports whether a stop time is configured.
func (s Settings) HasDeadline() bool { return !s.StopAt.IsZero() }

// HasRecordLimit reports whether a record count is configured.
func (s Settings) HasRecordLimit() bool { return s.StopAfter > 0 }

// Resolve converts configuration strings into typed settings.
// Deadlines without a zone are read in loc (the original logger used local time).
func Resolve(cfg *Config, loc *time.Location) (Settings, error) {
	if cfg == nil {
		return Settings{}, fmt.Errorf("%w: empty configuration", ErrConfig)
	}
	if loc == nil {
		loc = time.Local
	}

	stopAt, err := ParseDeadline(cfg.Logger.LogUntil, loc)
	if err != nil {
		return Settings{}, err
	}

	stopAfter, err := ParseMaxRecords(cfg.Logger.MaxRecords)
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		Port:      strings.TrimSpace(cfg.Logger.Port),
		Period:    time.Duration(cfg.Logger.Dt) * time.Second,
		StopAt:    stopAt,
		StopAfter: stopAfter,
		Serial: SerialSettings{
			BaudRate:    cfg.Serial.BaudRate,
			DataBits:    cfg.Serial.DataBits,
			Parity:      cfg.Serial.Parity,
			StopBits:    cfg.Serial.StopBits,
			ReadTimeout: time.Duration(cfg.Serial.ReadTimeoutMs) * time.Millisecond,
			Settle:      time.Duration(cfg.Serial.SettleMs) * time.Millisecond,
		},
		Output:  cfg.Output,
		Log:     cfg.Log,
		Metrics: cfg.Metrics,
		Mirror:  cfg.Mirror,
		Redis:   cfg.Redis,
		MQTT:    cfg.MQTT,
	}, nil
}

// ParseDeadline parses log_until. Empty means no deadline (zero time).
func ParseDeadline(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := dateparse.ParseIn(raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: could not interpret log_until %q: %v", ErrConfig, raw, err)
	}
	return t, nil
}

// ParseMaxRecords parses max_records. Empty and "0" both mean unbounded.
func ParseMaxRecords(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: max_records must be a non-negative integer, got %q", ErrConfig, raw)
	}
	return n, nil
}
