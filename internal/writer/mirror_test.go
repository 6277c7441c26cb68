// internal/writer/mirror_test.go
package writer

import (
	"context"
	"errors"
	"testing"

	"github.com/tamzrod/part-count-logger/internal/protocol"
	"github.com/tamzrod/part-count-logger/internal/registers"
)

// ---- fake endpoint client ----

type fakeEndpointClient struct {
	lastUnit uint8
	lastAddr uint16
	lastRegs []uint16
	writes   int
	fail     bool
	closed   bool
}

func (f *fakeEndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	if f.fail {
		return errors.New("connection reset")
	}
	f.writes++
	f.lastUnit = unitID
	f.lastAddr = addr
	f.lastRegs = append([]uint16(nil), regs...)
	return nil
}

func (f *fakeEndpointClient) Close() error {
	f.closed = true
	return nil
}

func record(seq int) Record {
	return Record{
		RunID: "run",
		Seq:   seq,
		Reading: protocol.Reading{
			FlowRate:    60,
			Bins:        [protocol.BinCount]uint32{11, 22, 33, 44, 55, 66, 77, 88},
			Calibration: 128,
			Analog:      [protocol.AnalogCount]uint32{50, 60, 70},
		},
	}
}

// ---- tests ----

func TestMirror_DeviceNameWrittenOnFullAssertOnly(t *testing.T) {
	cli := &fakeEndpointClient{}
	m := NewMirror(MirrorPlan{Endpoint: "ep", UnitID: 1, BaseAddress: 100, DeviceName: "PC-01"}, cli)

	// ---- first write: FULL ASSERT ----
	if err := m.Write(context.Background(), record(1)); err != nil {
		t.Fatalf("initial full assert failed: %v", err)
	}
	if len(cli.lastRegs) != registers.BlockSize {
		t.Fatalf("expected full block write (%d regs), got %d", registers.BlockSize, len(cli.lastRegs))
	}
	if cli.lastAddr != 100 || cli.lastUnit != 1 {
		t.Fatalf("unexpected target: unit=%d addr=%d", cli.lastUnit, cli.lastAddr)
	}

	expectedNameRegs := registers.EncodeDeviceName("PC-01")
	for i := 0; i < registers.SlotDeviceNameSlots; i++ {
		slot := registers.SlotDeviceNameStart + i
		if cli.lastRegs[slot] != expectedNameRegs[i] {
			t.Fatalf("device name slot %d mismatch: got=%d want=%d", slot, cli.lastRegs[slot], expectedNameRegs[i])
		}
	}

	// ---- second write: LIVE SLOTS ONLY ----
	if err := m.Write(context.Background(), record(2)); err != nil {
		t.Fatalf("incremental write failed: %v", err)
	}
	if len(cli.lastRegs) != registers.LiveSlots {
		t.Fatalf("device name should not be rewritten on incremental update")
	}
	if cli.lastRegs[registers.SlotRecordsLo] != 2 {
		t.Fatalf("records: got=%d want=2", cli.lastRegs[registers.SlotRecordsLo])
	}
	if cli.lastRegs[registers.SlotHealthCode] != registers.HealthOK {
		t.Fatalf("health: got=%d want=OK", cli.lastRegs[registers.SlotHealthCode])
	}
}

func TestMirror_FailureForcesFullReassert(t *testing.T) {
	cli := &fakeEndpointClient{}
	m := NewMirror(MirrorPlan{Endpoint: "ep", UnitID: 1}, cli)

	_ = m.Write(context.Background(), record(1))

	cli.fail = true
	if err := m.Write(context.Background(), record(2)); err == nil {
		t.Fatalf("expected write error, got nil")
	}

	cli.fail = false
	if err := m.Write(context.Background(), record(3)); err != nil {
		t.Fatalf("recovery write failed: %v", err)
	}
	if len(cli.lastRegs) != registers.BlockSize {
		t.Fatalf("expected full block after failure, got %d regs", len(cli.lastRegs))
	}
}

func TestMirror_FailKeepsLastReading(t *testing.T) {
	cli := &fakeEndpointClient{}
	m := NewMirror(MirrorPlan{Endpoint: "ep", UnitID: 1}, cli)

	_ = m.Write(context.Background(), record(4))

	if err := m.Fail(registers.ErrorNoResponse); err != nil {
		t.Fatalf("Fail() err=%v", err)
	}
	if cli.lastRegs[registers.SlotHealthCode] != registers.HealthError {
		t.Fatalf("health: got=%d want=error", cli.lastRegs[registers.SlotHealthCode])
	}
	if cli.lastRegs[registers.SlotLastErrorCode] != registers.ErrorNoResponse {
		t.Fatalf("error code: got=%d", cli.lastRegs[registers.SlotLastErrorCode])
	}
	if cli.lastRegs[registers.SlotFlowRate] != 60 || cli.lastRegs[registers.SlotRecordsLo] != 4 {
		t.Fatalf("last reading lost: flow=%d records=%d",
			cli.lastRegs[registers.SlotFlowRate], cli.lastRegs[registers.SlotRecordsLo])
	}
}

func TestMirror_Stopped(t *testing.T) {
	cli := &fakeEndpointClient{}
	m := NewMirror(MirrorPlan{Endpoint: "ep", UnitID: 1}, cli)

	_ = m.Write(context.Background(), record(3))
	if err := m.Stopped(); err != nil {
		t.Fatalf("Stopped() err=%v", err)
	}
	if cli.lastRegs[registers.SlotHealthCode] != registers.HealthStopped {
		t.Fatalf("health: got=%d want=stopped", cli.lastRegs[registers.SlotHealthCode])
	}

	_ = m.Close()
	if !cli.closed {
		t.Fatalf("Close() did not close the client")
	}
}
