// internal/writer/mirror.go
package writer

import (
	"context"
	"errors"
	"fmt"

	"github.com/tamzrod/part-count-logger/internal/registers"
)

// MirrorPlan says where the register block lives.
type MirrorPlan struct {
	Endpoint    string
	UnitID      uint8
	BaseAddress uint16
	DeviceName  string
}

// Mirror writes the latest reading and run status into holding registers.
// The first write, and the first write after any failure, re-asserts the
// full block including the device name. Later writes only touch the live slots.
type Mirror struct {
	plan MirrorPlan
	cli  endpointClient

	needFull bool
	last     registers.Snapshot
	nameRegs []uint16
}

func NewMirror(plan MirrorPlan, cli endpointClient) *Mirror {
	return &Mirror{
		plan:     plan,
		cli:      cli,
		needFull: true,
		last:     registers.Snapshot{Health: registers.HealthUnknown},
		nameRegs: registers.EncodeDeviceName(plan.DeviceName),
	}
}

// Write publishes a healthy snapshot for rec.
func (m *Mirror) Write(_ context.Context, rec Record) error {
	return m.WriteStatus(registers.Snapshot{
		Health:  registers.HealthOK,
		Records: uint32(rec.Seq),
		Reading: rec.Reading,
	})
}

// Fail marks the run as ended by an error, keeping the last reading visible.
func (m *Mirror) Fail(code uint16) error {
	s := m.last
	s.Health = registers.HealthError
	s.LastErrorCode = code
	return m.WriteStatus(s)
}

// Stopped marks normal termination.
func (m *Mirror) Stopped() error {
	s := m.last
	s.Health = registers.HealthStopped
	s.LastErrorCode = registers.ErrorNone
	return m.WriteStatus(s)
}

// WriteStatus delivers a snapshot verbatim.
func (m *Mirror) WriteStatus(s registers.Snapshot) error {
	if m == nil || m.cli == nil {
		return errors.New("mirror: disabled")
	}

	// ------------------------------------------------------------
	// Full block write (identity re-assert)
	// ------------------------------------------------------------
	if m.needFull {
		regs := registers.EncodeFull(s, m.nameRegs)
		if err := m.cli.WriteRegisters(m.plan.UnitID, m.plan.BaseAddress, regs); err != nil {
			return fmt.Errorf("mirror: full block write failed ep=%s: %w", m.plan.Endpoint, err)
		}
		m.needFull = false
		m.last = s
		return nil
	}

	// ------------------------------------------------------------
	// Live slots only
	// ------------------------------------------------------------
	if err := m.cli.WriteRegisters(m.plan.UnitID, m.plan.BaseAddress, registers.Encode(s)); err != nil {
		// Any failure introduces doubt: re-assert on next success.
		m.needFull = true
		return fmt.Errorf("mirror: live slot write failed ep=%s: %w", m.plan.Endpoint, err)
	}
	m.last = s
	return nil
}

func (m *Mirror) Close() error {
	if m == nil || m.cli == nil {
		return nil
	}
	return m.cli.Close()
}
