// internal/app/session.go
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/part-count-logger/internal/config"
	"github.com/tamzrod/part-count-logger/internal/logfile"
	"github.com/tamzrod/part-count-logger/internal/monitor"
	"github.com/tamzrod/part-count-logger/internal/poller"
	"github.com/tamzrod/part-count-logger/internal/registers"
	"github.com/tamzrod/part-count-logger/internal/transport"
	"github.com/tamzrod/part-count-logger/internal/writer"
)

// Options alter how a session acquires its resources.
type Options struct {
	// Simulate replaces the serial port with the in-memory instrument.
	Simulate bool

	// Transport, when set, is used instead of opening one. The session
	// still closes it.
	Transport transport.Transport

	// Clock defaults to the system clock.
	Clock poller.Clock
}

// Session owns everything one logging run touches: the transport, the log
// file, the mirrors and the metrics. Built once by Open, released once by Close.
type Session struct {
	RunID    string
	Settings config.Settings
	Log      logrus.FieldLogger
	Metrics  *monitor.Metrics

	clock     poller.Clock
	transport transport.Transport
	file      *logfile.File
	writers   *writer.Fanout
	mirror    *writer.Mirror
	server    *monitor.Server
}

// Open runs the setup phase: transport, log file with header, mirrors,
// metrics endpoint. On failure everything acquired so far is released.
func Open(ctx context.Context, s config.Settings, log logrus.FieldLogger, opts Options) (*Session, error) {
	sess := &Session{
		RunID:    uuid.NewString(),
		Settings: s,
		Log:      log,
		Metrics:  monitor.New(),
		clock:    opts.Clock,
	}
	if sess.clock == nil {
		sess.clock = poller.SystemClock{}
	}
	sess.Log = log.WithField("run_id", sess.RunID)

	ok := false
	defer func() {
		if !ok {
			_ = sess.Close()
		}
	}()

	// ---- transport ----
	switch {
	case opts.Transport != nil:
		sess.transport = opts.Transport
	case opts.Simulate:
		sess.transport = transport.NewSimulator(transport.SimulatorConfig{Start: 1})
	default:
		tr, err := transport.OpenSerial(transport.SerialConfig{
			Address:     s.Port,
			BaudRate:    s.Serial.BaudRate,
			DataBits:    s.Serial.DataBits,
			Parity:      s.Serial.Parity,
			StopBits:    s.Serial.StopBits,
			ReadTimeout: s.Serial.ReadTimeout,
		})
		if err != nil {
			return nil, err
		}
		sess.transport = tr
	}

	// ---- log file ----
	file, err := logfile.Create(s.Output.Dir, sess.clock.Now())
	if err != nil {
		return nil, err
	}
	sess.file = file

	// ---- mirrors ----
	writers, mirror, err := writer.Build(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("mirror setup: %w", err)
	}
	sess.writers = writers
	sess.mirror = mirror

	// ---- metrics ----
	if s.Metrics.Listen != "" {
		sess.server = sess.Metrics.Serve(s.Metrics.Listen, sess.Log)
	}

	ok = true
	return sess, nil
}

// LogPath is the CSV file of this run.
func (s *Session) LogPath() string { return s.file.Path() }

// Run polls until a stop condition, an interrupt, or a fatal error.
func (s *Session) Run(ctx context.Context) (poller.Result, error) {
	deps := poller.Deps{
		Transport: s.transport,
		Sink:      s.file,
		Observer:  s.Metrics,
		Log:       s.Log,
		Clock:     s.clock,
	}
	if s.writers != nil && s.writers.Len() > 0 {
		deps.Mirror = s.writers
	}

	p, err := poller.Build(s.RunID, s.Settings, deps)
	if err != nil {
		return poller.Result{}, fmt.Errorf("%w: %v", config.ErrConfig, err)
	}

	s.banner()

	res, err := p.Run(ctx)

	if s.mirror != nil {
		var merr error
		if err != nil {
			merr = s.mirror.Fail(ErrorCode(err))
		} else {
			merr = s.mirror.Stopped()
		}
		if merr != nil {
			s.Log.Warnf("mirror final status write failed: %v", merr)
		}
	}

	return res, err
}

func (s *Session) banner() {
	st := s.Settings
	s.Log.Infof("Logging data to %s every %s", s.file.Path(), st.Period)
	if st.HasDeadline() {
		s.Log.Infof("  until %s", st.StopAt.Format(time.RFC3339))
	}
	if st.HasRecordLimit() {
		s.Log.Infof("  until %d records have been written", st.StopAfter)
	}
}

// Close releases everything in reverse order of acquisition.
func (s *Session) Close() error {
	var last error
	if s.server != nil {
		if err := s.server.Close(); err != nil {
			last = err
		}
	}
	if s.writers != nil {
		if err := s.writers.Close(); err != nil {
			last = err
		}
	}
	if s.transport != nil {
		if err := s.transport.Close(); err != nil {
			last = err
		}
	}
	return last
}

// ErrorCode maps an error onto the mirror's last-error register.
func ErrorCode(err error) uint16 {
	switch poller.Kind(err) {
	case "":
		return registers.ErrorNone
	case poller.KindConfig:
		return registers.ErrorConfig
	case poller.KindTransport:
		return registers.ErrorTransport
	case poller.KindNoResponse:
		return registers.ErrorNoResponse
	case poller.KindProtocol:
		return registers.ErrorProtocol
	case poller.KindLogFile:
		return registers.ErrorLogFile
	default:
		return registers.ErrorOther
	}
}

// Phase names the stage an error came from, for the exit message.
func Phase(err error) string {
	switch poller.Kind(err) {
	case poller.KindConfig:
		return "configuration"
	case poller.KindTransport:
		return "instrument connection"
	case poller.KindNoResponse:
		return "instrument poll"
	case poller.KindProtocol:
		return "response parsing"
	case poller.KindLogFile:
		return "log file"
	default:
		return "run"
	}
}
