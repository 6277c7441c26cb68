// internal/poller/errors.go
package poller

import (
	"errors"

	"github.com/tamzrod/part-count-logger/internal/config"
	"github.com/tamzrod/part-count-logger/internal/logfile"
	"github.com/tamzrod/part-count-logger/internal/protocol"
	"github.com/tamzrod/part-count-logger/internal/transport"
)

// ErrNoResponse means the instrument produced zero bytes within the wait window.
// This is a wiring or hardware fault an operator must address; it is not retried.
var ErrNoResponse = errors.New("no response")

// Error kinds, used for metrics labels and exit messages.
const (
	KindConfig     = "config"
	KindTransport  = "transport"
	KindNoResponse = "no_response"
	KindProtocol   = "protocol"
	KindLogFile    = "log_file"
	KindMirror     = "mirror"
	KindOther      = "other"
)

// Kind classifies an error by the sentinel it wraps.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, config.ErrConfig):
		return KindConfig
	case errors.Is(err, transport.ErrTransport):
		return KindTransport
	case errors.Is(err, ErrNoResponse):
		return KindNoResponse
	case errors.Is(err, protocol.ErrProtocol):
		return KindProtocol
	case errors.Is(err, logfile.ErrLogFile):
		return KindLogFile
	default:
		return KindOther
	}
}
