// internal/config/normalize.go
package config

import "strings"

// Defaults match the instrument's factory serial settings.
const (
	DefaultBaudRate      = 9600
	DefaultDataBits      = 8
	DefaultParity        = "N"
	DefaultStopBits      = 1
	DefaultReadTimeoutMs = 250
	DefaultSettleMs      = 1000
	DefaultMirrorTimeout = 2000
	DefaultRedisChannel  = "part_count_readings"
	DefaultRedisHistory  = 1000
	DefaultMQTTClientID  = "part-count-logger"
	DefaultMQTTTopic     = "particles/readings"

	deviceNameMaxChars = 16
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	s := &cfg.Serial
	if s.BaudRate == 0 {
		s.BaudRate = DefaultBaudRate
	}
	if s.DataBits == 0 {
		s.DataBits = DefaultDataBits
	}
	if s.Parity == "" {
		s.Parity = DefaultParity
	}
	s.Parity = strings.ToUpper(s.Parity)
	if s.StopBits == 0 {
		s.StopBits = DefaultStopBits
	}
	if s.ReadTimeoutMs == 0 {
		s.ReadTimeoutMs = DefaultReadTimeoutMs
	}
	if s.SettleMs == 0 {
		s.SettleMs = min(DefaultSettleMs, cfg.Logger.Dt*1000)
	}

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "."
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	// ------------------------------------------------------------
	// MIRROR NORMALIZATION (OPT-IN)
	// ------------------------------------------------------------

	if cfg.Mirror.Endpoint != "" {
		if cfg.Mirror.Protocol == "" {
			cfg.Mirror.Protocol = "modbus"
		}
		if cfg.Mirror.TimeoutMs <= 0 {
			cfg.Mirror.TimeoutMs = DefaultMirrorTimeout
		}
		// Truncate to the register capacity of the name slots.
		if len(cfg.Mirror.DeviceName) > deviceNameMaxChars {
			cfg.Mirror.DeviceName = cfg.Mirror.DeviceName[:deviceNameMaxChars]
		}
	}

	if cfg.Redis.Addr != "" {
		if cfg.Redis.Channel == "" {
			cfg.Redis.Channel = DefaultRedisChannel
		}
		if cfg.Redis.History == 0 {
			cfg.Redis.History = DefaultRedisHistory
		}
	}

	if cfg.MQTT.Broker != "" {
		if cfg.MQTT.ClientID == "" {
			cfg.MQTT.ClientID = DefaultMQTTClientID
		}
		if cfg.MQTT.Topic == "" {
			cfg.MQTT.Topic = DefaultMQTTTopic
		}
	}
}
