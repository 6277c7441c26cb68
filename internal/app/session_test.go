// internal/app/session_test.go
package app

import (
	"context"
	"encoding/binary"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/tamzrod/part-count-logger/internal/config"
	"github.com/tamzrod/part-count-logger/internal/logfile"
	"github.com/tamzrod/part-count-logger/internal/poller"
	"github.com/tamzrod/part-count-logger/internal/protocol"
	"github.com/tamzrod/part-count-logger/internal/registers"
	"github.com/tamzrod/part-count-logger/internal/transport"
)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }
func (c *stepClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d > 0 {
		c.now = c.now.Add(d)
	}
	return nil
}

var t0 = time.Date(2026, 10, 19, 14, 30, 0, 0, time.Local)

func settings(dir string) config.Settings {
	return config.Settings{
		Period: 10 * time.Second,
		Output: config.OutputConfig{Dir: dir},
		Serial: config.SerialSettings{Settle: time.Second},
	}
}

func TestSession_SimulatedRunWritesExactlyN(t *testing.T) {
	dir := t.TempDir()
	s := settings(dir)
	s.StopAfter = 3

	log, hook := logtest.NewNullLogger()

	sess, err := Open(context.Background(), s, log, Options{Simulate: true, Clock: &stepClock{now: t0}})
	if err != nil {
		t.Fatalf("Open() err=%v", err)
	}
	defer sess.Close()

	if filepath.Base(sess.LogPath()) != logfile.Name(t0) {
		t.Fatalf("log path: got=%s", sess.LogPath())
	}

	res, err := sess.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() err=%v", err)
	}
	if res.Reason != poller.StopMaxRecords || res.Records != 3 {
		t.Fatalf("result: %+v", res)
	}

	rows, err := logfile.ReadAll(sess.LogPath(), time.Local)
	if err != nil {
		t.Fatalf("ReadAll() err=%v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows: got=%d want=3", len(rows))
	}
	if rows[0].FlowRate != 60 || rows[0].Bins[7] != 88 || rows[0].Calibration != 128 {
		t.Fatalf("first row does not match fixture frame 1: %+v", rows[0])
	}

	var banner bool
	for _, e := range hook.AllEntries() {
		if strings.HasPrefix(e.Message, "Logging data to ") {
			banner = true
		}
	}
	if !banner {
		t.Fatalf("startup banner not logged")
	}
}

func TestSession_NoResponseIsFatal(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	sim := transport.NewSimulator(transport.SimulatorConfig{Silent: true})

	sess, err := Open(context.Background(), settings(t.TempDir()), log, Options{Transport: sim, Clock: &stepClock{now: t0}})
	if err != nil {
		t.Fatalf("Open() err=%v", err)
	}
	defer sess.Close()

	_, err = sess.Run(context.Background())
	if !errors.Is(err, poller.ErrNoResponse) {
		t.Fatalf("expected ErrNoResponse, got %v", err)
	}
	if Phase(err) != "instrument poll" || ErrorCode(err) != registers.ErrorNoResponse {
		t.Fatalf("phase=%q code=%d", Phase(err), ErrorCode(err))
	}

	rows, _ := logfile.ReadAll(sess.LogPath(), time.Local)
	if len(rows) != 0 {
		t.Fatalf("rows: got=%d want=0", len(rows))
	}
}

func TestSession_CloseReleasesTransport(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	sim := transport.NewSimulator(transport.SimulatorConfig{})

	sess, err := Open(context.Background(), settings(t.TempDir()), log, Options{Transport: sim, Clock: &stepClock{now: t0}})
	if err != nil {
		t.Fatalf("Open() err=%v", err)
	}
	_ = sess.Close()

	if _, err := sim.Write([]byte(protocol.Prompt)); !errors.Is(err, transport.ErrTransport) {
		t.Fatalf("transport still open after Close: %v", err)
	}
}

func TestOpen_LogFileFailureReleasesTransport(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	sim := transport.NewSimulator(transport.SimulatorConfig{})

	s := settings(filepath.Join(t.TempDir(), "missing"))
	if _, err := Open(context.Background(), s, log, Options{Transport: sim, Clock: &stepClock{now: t0}}); !errors.Is(err, logfile.ErrLogFile) {
		t.Fatalf("expected ErrLogFile, got %v", err)
	}
	if _, err := sim.Write([]byte(protocol.Prompt)); err == nil {
		t.Fatalf("transport leaked after failed Open")
	}
}

func TestOpen_MissingSerialPort(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	s := settings(t.TempDir())
	s.Port = filepath.Join(t.TempDir(), "ttyNOPE")

	_, err := Open(context.Background(), s, log, Options{Clock: &stepClock{now: t0}})
	if !errors.Is(err, transport.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestLoadSettings_BadDeadlineFailsFirst(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logger.yaml")
	doc := "part_count_logger:\n  port: /dev/does-not-exist\n  dt: 10\n  log_until: \"not a date\"\n  max_records: \"\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadSettings(path, time.Local)
	if !errors.Is(err, config.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
	if Phase(err) != "configuration" {
		t.Fatalf("phase: got=%q", Phase(err))
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logger.yaml")
	doc := "part_count_logger:\n  port: /dev/ttyUSB0\n  dt: 5\n  max_records: \"3\"\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := LoadSettings(path, time.Local)
	if err != nil {
		t.Fatalf("LoadSettings() err=%v", err)
	}
	if s.Period != 5*time.Second || s.StopAfter != 3 || s.Serial.BaudRate != 9600 || s.Output.Dir != "." {
		t.Fatalf("unexpected settings: %+v", s)
	}
}

// ---- register mirror over the raw ingest protocol ----

type ingestServer struct {
	mu      sync.Mutex
	packets [][]byte
}

func (s *ingestServer) serve(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go func(c net.Conn) {
			defer c.Close()
			hdr := make([]byte, 10)
			if _, err := io.ReadFull(c, hdr); err != nil {
				return
			}
			body := make([]byte, 2*int(binary.BigEndian.Uint16(hdr[8:10])))
			if _, err := io.ReadFull(c, body); err != nil {
				return
			}
			s.mu.Lock()
			s.packets = append(s.packets, append(hdr, body...))
			s.mu.Unlock()
			_, _ = c.Write([]byte{0x00})
		}(conn)
	}
}

func (s *ingestServer) snapshot() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]byte(nil), s.packets...)
}

func TestSession_IngestMirror(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	srv := &ingestServer{}
	go srv.serve(ln)

	s := settings(t.TempDir())
	s.StopAfter = 2
	s.Mirror = config.MirrorConfig{
		Endpoint:   ln.Addr().String(),
		Protocol:   "ingest",
		UnitID:     1,
		DeviceName: "PC-LAB",
		TimeoutMs:  2000,
	}

	log, _ := logtest.NewNullLogger()
	sess, err := Open(context.Background(), s, log, Options{Simulate: true, Clock: &stepClock{now: t0}})
	if err != nil {
		t.Fatalf("Open() err=%v", err)
	}
	defer sess.Close()

	if _, err := sess.Run(context.Background()); err != nil {
		t.Fatalf("Run() err=%v", err)
	}

	// WriteRegisters waits for the status byte, so every packet is recorded.
	packets := srv.snapshot()
	if len(packets) != 3 {
		t.Fatalf("packets: got=%d want=3 (2 rows + final status)", len(packets))
	}

	first := packets[0]
	if got := binary.BigEndian.Uint16(first[8:10]); got != registers.BlockSize {
		t.Fatalf("first packet must carry the full block, got %d regs", got)
	}

	last := packets[2]
	health := binary.BigEndian.Uint16(last[10+2*registers.SlotHealthCode:])
	if health != registers.HealthStopped {
		t.Fatalf("final health: got=%d want=%d", health, registers.HealthStopped)
	}
}
