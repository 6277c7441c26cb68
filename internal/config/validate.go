// internal/config/validate.go
package config

import (
	"fmt"
	"strings"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
//
// Port emptiness is not checked here: a simulated run needs no port.
// Timestamp and record-count strings are checked by Resolve.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: empty configuration", ErrConfig)
	}

	// ------------------------------------------------------------
	// POLLING
	// ------------------------------------------------------------

	if cfg.Logger.Dt < 1 {
		return fmt.Errorf("%w: part_count_logger.dt must be >= 1 second, got %d", ErrConfig, cfg.Logger.Dt)
	}

	// ------------------------------------------------------------
	// SERIAL LINE (zero means "use default")
	// ------------------------------------------------------------

	s := cfg.Serial
	if s.BaudRate < 0 {
		return fmt.Errorf("%w: serial.baud_rate must be positive", ErrConfig)
	}
	if s.DataBits != 0 && (s.DataBits < 5 || s.DataBits > 8) {
		return fmt.Errorf("%w: serial.data_bits must be 5..8, got %d", ErrConfig, s.DataBits)
	}
	if s.StopBits != 0 && s.StopBits != 1 && s.StopBits != 2 {
		return fmt.Errorf("%w: serial.stop_bits must be 1 or 2, got %d", ErrConfig, s.StopBits)
	}
	switch strings.ToUpper(s.Parity) {
	case "", "N", "E", "O":
	default:
		return fmt.Errorf("%w: serial.parity must be N, E or O, got %q", ErrConfig, s.Parity)
	}
	if s.ReadTimeoutMs < 0 || s.SettleMs < 0 {
		return fmt.Errorf("%w: serial timings must not be negative", ErrConfig)
	}
	if s.SettleMs > cfg.Logger.Dt*1000 {
		return fmt.Errorf(
			"%w: serial.settle_ms (%d) must not exceed the poll period (%ds)",
			ErrConfig, s.SettleMs, cfg.Logger.Dt,
		)
	}

	// ------------------------------------------------------------
	// PROCESS LOG
	// ------------------------------------------------------------

	switch cfg.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrConfig, cfg.Log.Format)
	}
	switch cfg.Log.Output {
	case "", "stdout":
	case "file":
		if cfg.Log.FilePath == "" {
			return fmt.Errorf("%w: log.output=file requires log.file_path", ErrConfig)
		}
	default:
		return fmt.Errorf("%w: log.output must be stdout or file, got %q", ErrConfig, cfg.Log.Output)
	}

	// ------------------------------------------------------------
	// MIRRORS (opt-in)
	// ------------------------------------------------------------

	if cfg.Mirror.Endpoint != "" {
		switch cfg.Mirror.Protocol {
		case "", "modbus", "ingest":
		default:
			return fmt.Errorf("%w: mirror.protocol must be modbus or ingest, got %q", ErrConfig, cfg.Mirror.Protocol)
		}
		for i := 0; i < len(cfg.Mirror.DeviceName); i++ {
			if cfg.Mirror.DeviceName[i] > 0x7F {
				return fmt.Errorf("%w: mirror.device_name must contain ASCII characters only", ErrConfig)
			}
		}
	}

	if cfg.Redis.Addr != "" && cfg.Redis.History < 0 {
		return fmt.Errorf("%w: redis.history must not be negative", ErrConfig)
	}

	if cfg.MQTT.Broker != "" && cfg.MQTT.QoS > 2 {
		return fmt.Errorf("%w: mqtt.qos must be 0, 1 or 2, got %d", ErrConfig, cfg.MQTT.QoS)
	}

	return nil
}
