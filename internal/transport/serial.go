// internal/transport/serial.go
package transport

import (
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/serial"
)

// SerialConfig is minimal line config.
type SerialConfig struct {
	Address  string
	BaudRate int
	DataBits int
	Parity   string
	StopBits int

	// ReadTimeout bounds how long Available waits for the next burst
	// before reporting 0.
	ReadTimeout time.Duration
}

// Serial implements Transport over a local serial port.
// Bytes are pulled from the port in chunks and handed out one at a time.
type Serial struct {
	port  serial.Port
	addr  string
	buf   []byte
	chunk [256]byte
}

// OpenSerial opens the port. ONE attempt: failures are fatal.
func OpenSerial(cfg SerialConfig) (*Serial, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("%w: serial port address required", ErrTransport)
	}

	p, err := serial.Open(&serial.Config{
		Address:  cfg.Address,
		BaudRate: cfg.BaudRate,
		DataBits: cfg.DataBits,
		StopBits: cfg.StopBits,
		Parity:   cfg.Parity,
		Timeout:  cfg.ReadTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrTransport, cfg.Address, err)
	}

	return &Serial{port: p, addr: cfg.Address}, nil
}

// Close closes the port.
func (s *Serial) Close() error {
	if s == nil || s.port == nil {
		return nil
	}
	return s.port.Close()
}

// ---- Transport interface ----

func (s *Serial) Write(p []byte) (int, error) {
	n, err := s.port.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: write %s: %v", ErrTransport, s.addr, err)
	}
	return n, nil
}

// Available returns buffered bytes, reading the port when the buffer is empty.
// A read timeout is "nothing pending", not an error.
func (s *Serial) Available() (int, error) {
	if len(s.buf) > 0 {
		return len(s.buf), nil
	}

	n, err := s.port.Read(s.chunk[:])
	if n > 0 {
		s.buf = append(s.buf, s.chunk[:n]...)
	}
	if err != nil && !errors.Is(err, serial.ErrTimeout) {
		return len(s.buf), fmt.Errorf("%w: read %s: %v", ErrTransport, s.addr, err)
	}
	return len(s.buf), nil
}

func (s *Serial) ReadByte() (byte, error) {
	if len(s.buf) == 0 {
		return 0, errEmpty
	}
	b := s.buf[0]
	s.buf = s.buf[1:]
	return b, nil
}
