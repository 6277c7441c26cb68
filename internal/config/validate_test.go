// internal/config/validate_test.go
package config

import (
	"errors"
	"testing"
)

// helper to build a minimal valid config quickly
func base(dt int) *Config {
	return &Config{
		Logger: LoggerConfig{
			Port: "/dev/ttyUSB0",
			Dt:   dt,
		},
	}
}

// ---- tests ----

func TestValidate_MinimalConfig(t *testing.T) {
	if err := Validate(base(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_PeriodMustBePositive(t *testing.T) {
	err := Validate(base(0))
	if err == nil {
		t.Fatalf("expected error for dt=0, got nil")
	}
	if !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestValidate_SettleLongerThanPeriod(t *testing.T) {
	cfg := base(1)
	cfg.Serial.SettleMs = 1500

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected settle/period error, got nil")
	}
}

func TestValidate_BadParity(t *testing.T) {
	cfg := base(10)
	cfg.Serial.Parity = "X"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected parity error, got nil")
	}
}

func TestValidate_LogFileNeedsPath(t *testing.T) {
	cfg := base(10)
	cfg.Log.Output = "file"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected file_path error, got nil")
	}
}

func TestValidate_MirrorDeviceNameASCII(t *testing.T) {
	cfg := base(10)
	cfg.Mirror.Endpoint = "127.0.0.1:502"
	cfg.Mirror.DeviceName = "zähler"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected ASCII error, got nil")
	}
}

func TestValidate_MirrorUnknownProtocol(t *testing.T) {
	cfg := base(10)
	cfg.Mirror.Endpoint = "127.0.0.1:502"
	cfg.Mirror.Protocol = "bacnet"

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected protocol error, got nil")
	}
}

func TestValidate_MQTTQoS(t *testing.T) {
	cfg := base(10)
	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.QoS = 3

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected qos error, got nil")
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := base(10)
	cfg.Mirror.Endpoint = "127.0.0.1:502"
	cfg.Mirror.DeviceName = "PARTICLE-COUNTER-LAB-3"

	Normalize(cfg)

	if cfg.Serial.BaudRate != DefaultBaudRate {
		t.Fatalf("baud: got=%d want=%d", cfg.Serial.BaudRate, DefaultBaudRate)
	}
	if cfg.Serial.SettleMs != DefaultSettleMs {
		t.Fatalf("settle: got=%d want=%d", cfg.Serial.SettleMs, DefaultSettleMs)
	}
	if cfg.Output.Dir != "." {
		t.Fatalf("output dir: got=%q want=.", cfg.Output.Dir)
	}
	if cfg.Mirror.Protocol != "modbus" {
		t.Fatalf("mirror protocol: got=%q want=modbus", cfg.Mirror.Protocol)
	}
	if len(cfg.Mirror.DeviceName) != 16 {
		t.Fatalf("device name not truncated: %q", cfg.Mirror.DeviceName)
	}
}

func TestNormalize_SettleCappedByPeriod(t *testing.T) {
	cfg := base(1)
	Normalize(cfg)

	if cfg.Serial.SettleMs != 1000 {
		t.Fatalf("settle: got=%d want=1000", cfg.Serial.SettleMs)
	}
}
