// internal/transport/transport.go
package transport

import (
	"errors"
	"fmt"
)

// ErrTransport marks a connection-level failure: device missing, permission
// denied, port gone mid-run. Never retried.
var ErrTransport = errors.New("transport")

// Transport is the byte-level channel the poller drives.
// The real serial port and the simulator both implement it.
type Transport interface {
	// Write sends a command frame. No acknowledgement is expected.
	Write(p []byte) (int, error)

	// Available returns the number of bytes ready for ReadByte.
	// 0 means nothing is pending.
	Available() (int, error)

	// ReadByte consumes one buffered byte.
	// Calling it with nothing available is an error.
	ReadByte() (byte, error)

	Close() error
}

// Misuse errors, shared by both implementations.
var (
	errEmpty  = errors.New("transport: read with no bytes available")
	errClosed = fmt.Errorf("%w: closed", ErrTransport)
)
