// internal/logging/logger.go
package logging

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/tamzrod/part-count-logger/internal/config"
)

// New builds the process logger from config.
// The returned closer releases the log file when output=file.
func New(cfg config.LogConfig) (*logrus.Logger, func() error, error) {
	log := logrus.New()
	noop := func() error { return nil }

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	if cfg.Output != "file" {
		log.SetOutput(os.Stdout)
		return log, noop, nil
	}

	f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, noop, fmt.Errorf("%w: open log file %s: %v", config.ErrConfig, cfg.FilePath, err)
	}
	log.SetOutput(f)
	return log, f.Close, nil
}
