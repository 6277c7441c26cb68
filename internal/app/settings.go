// internal/app/settings.go
package app

import (
	"time"

	"github.com/tamzrod/part-count-logger/internal/config"
)

// LoadSettings runs the whole configuration pipeline:
// Load, Validate, Normalize, Resolve. Nothing is opened here, so a bad
// log_until fails before the instrument is touched.
func LoadSettings(path string, loc *time.Location) (config.Settings, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Settings{}, err
	}
	if err := config.Validate(cfg); err != nil {
		return config.Settings{}, err
	}
	config.Normalize(cfg)
	return config.Resolve(cfg, loc)
}
