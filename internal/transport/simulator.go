// internal/transport/simulator.go
package transport

import (
	"strconv"
	"strings"
)

// FixtureValues are the simulator's base answer values:
// flow, 8 bins, calibration, 3 analog channels.
var FixtureValues = [...]uint32{60, 11, 22, 33, 44, 55, 66, 77, 88, 128, 50, 60, 70}

// SimulatorMax clamps every simulated value.
const SimulatorMax = 1023

// SimulatorConfig controls the deterministic frame sequence.
type SimulatorConfig struct {
	// Start is the index of the first frame. Frame i scales every
	// fixture value by i, so index 0 answers all zeros.
	Start int

	// Frames is how many prompts get answered before the simulated
	// instrument goes silent. 0 means unlimited.
	Frames int

	// Silent never answers (models a disconnected instrument).
	Silent bool
}

// Simulator is an in-memory instrument.
// Every Write queues one answer: the echoed command, "echo=" and
// the hex values of the next frame.
type Simulator struct {
	cfg    SimulatorConfig
	next   int
	sent   int
	queue  []byte
	writes [][]byte
	closed bool
}

func NewSimulator(cfg SimulatorConfig) *Simulator {
	return &Simulator{cfg: cfg, next: cfg.Start}
}

// Frame renders the answer body for index i.
func Frame(i int) string {
	parts := make([]string, len(FixtureValues))
	for n, v := range FixtureValues {
		parts[n] = strconv.FormatUint(uint64(scale(v, i)), 16)
	}
	return "echo=" + strings.Join(parts, " ")
}

func scale(v uint32, i int) uint32 {
	if i <= 0 {
		return 0
	}
	s := uint64(v) * uint64(i)
	if s > SimulatorMax {
		return SimulatorMax
	}
	return uint32(s)
}

// Reset restarts the sequence at the configured start index and
// drops anything still queued.
func (s *Simulator) Reset() {
	s.next = s.cfg.Start
	s.sent = 0
	s.queue = nil
	s.writes = nil
}

// Writes returns every command received so far.
func (s *Simulator) Writes() [][]byte { return s.writes }

// Answered is the number of frames produced since the last Reset.
func (s *Simulator) Answered() int { return s.sent }

// ---- Transport interface ----

func (s *Simulator) Write(p []byte) (int, error) {
	if s.closed {
		return 0, errClosed
	}
	s.writes = append(s.writes, append([]byte(nil), p...))

	if s.cfg.Silent || (s.cfg.Frames > 0 && s.sent >= s.cfg.Frames) {
		return len(p), nil
	}

	s.queue = append(s.queue, p...)
	s.queue = append(s.queue, Frame(s.next)...)
	s.next++
	s.sent++
	return len(p), nil
}

func (s *Simulator) Available() (int, error) {
	if s.closed {
		return 0, errClosed
	}
	return len(s.queue), nil
}

func (s *Simulator) ReadByte() (byte, error) {
	if len(s.queue) == 0 {
		return 0, errEmpty
	}
	b := s.queue[0]
	s.queue = s.queue[1:]
	return b, nil
}

func (s *Simulator) Close() error {
	s.closed = true
	return nil
}
