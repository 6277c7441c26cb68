// internal/config/config.go
package config

// Config is the on-disk YAML document.
type Config struct {
	Logger  LoggerConfig  `yaml:"part_count_logger"`
	Serial  SerialConfig  `yaml:"serial"`
	Output  OutputConfig  `yaml:"output"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Mirror  MirrorConfig  `yaml:"mirror"`
	Redis   RedisConfig   `yaml:"redis"`
	MQTT    MQTTConfig    `yaml:"mqtt"`
}

// ---- LOGGER ----

// LoggerConfig holds the instrument values exactly as written by the operator.
// log_until and max_records stay strings: empty means "not set".
type LoggerConfig struct {
	Port       string `yaml:"port"`
	Dt         int    `yaml:"dt"`
	LogUntil   string `yaml:"log_until"`
	MaxRecords string `yaml:"max_records"`
}

// ---- SERIAL LINE ----

type SerialConfig struct {
	BaudRate      int    `yaml:"baud_rate"`
	DataBits      int    `yaml:"data_bits"`
	Parity        string `yaml:"parity"`
	StopBits      int    `yaml:"stop_bits"`
	ReadTimeoutMs int    `yaml:"read_timeout_ms"`
	SettleMs      int    `yaml:"settle_ms"`
}

// ---- OUTPUT ----

type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// ---- PROCESS LOG ----

type LogConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

// ---- METRICS ----

type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// ---- MIRRORS (all opt-in) ----

// MirrorConfig describes the holding-register mirror of the latest reading.
type MirrorConfig struct {
	Endpoint    string `yaml:"endpoint"`
	Protocol    string `yaml:"protocol"` // modbus | ingest
	UnitID      uint8  `yaml:"unit_id"`
	BaseAddress uint16 `yaml:"base_address"`
	DeviceName  string `yaml:"device_name"`
	TimeoutMs   int    `yaml:"timeout_ms"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Channel  string `yaml:"channel"`
	History  int64  `yaml:"history"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	QoS      byte   `yaml:"qos"`
}
