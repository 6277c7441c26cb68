// internal/poller/builder.go
package poller

import (
	"github.com/tamzrod/part-count-logger/internal/config"
)

// Build constructs a Poller from resolved settings.
// The caller owns every dependency's lifecycle.
func Build(runID string, s config.Settings, deps Deps) (*Poller, error) {
	return New(
		Config{
			RunID:     runID,
			Period:    s.Period,
			Settle:    s.Serial.Settle,
			StopAt:    s.StopAt,
			StopAfter: s.StopAfter,
		},
		deps,
	)
}
