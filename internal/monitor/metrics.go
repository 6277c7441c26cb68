// internal/monitor/metrics.go
package monitor

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/tamzrod/part-count-logger/internal/protocol"
)

// Metrics holds the logger's collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg *prometheus.Registry

	Records  prometheus.Counter
	Cycle    prometheus.Histogram
	FlowRate prometheus.Gauge
	Bins     *prometheus.GaugeVec
	Analog   *prometheus.GaugeVec
	Errors   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),

		Records: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "part_count_records_total",
			Help: "Rows appended to the log file.",
		}),
		Cycle: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "part_count_cycle_seconds",
			Help:    "Prompt-to-persist time of one poll cycle.",
			Buckets: []float64{0.5, 1, 1.5, 2, 3, 5, 10},
		}),
		FlowRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "part_count_flow_rate",
			Help: "Last reported flow rate (ml/min).",
		}),
		Bins: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "part_count_bin_count",
			Help: "Last reported particle count per size bin.",
		}, []string{"bin"}),
		Analog: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "part_count_analog_input",
			Help: "Last reported 12-bit analog sample.",
		}, []string{"channel"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "part_count_errors_total",
			Help: "Errors by kind (fatal and mirror).",
		}, []string{"kind"}),
	}

	m.reg.MustRegister(m.Records, m.Cycle, m.FlowRate, m.Bins, m.Analog, m.Errors)
	return m
}

// Registry exposes the private registry (tests, custom handlers).
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// ObserveReading records one persisted row.
func (m *Metrics) ObserveReading(r protocol.Reading, cycle time.Duration) {
	if m == nil {
		return
	}
	m.Records.Inc()
	m.Cycle.Observe(cycle.Seconds())
	m.FlowRate.Set(float64(r.FlowRate))
	for i, v := range r.Bins {
		m.Bins.WithLabelValues(protocol.BinLabels[i]).Set(float64(v))
	}
	for i, v := range r.Analog {
		m.Analog.WithLabelValues(analogLabels[i]).Set(float64(v))
	}
}

// ObserveError counts one error of the given kind.
func (m *Metrics) ObserveError(kind string) {
	if m == nil {
		return
	}
	m.Errors.WithLabelValues(kind).Inc()
}

var analogLabels = [protocol.AnalogCount]string{"alog1", "alog2", "alog3"}

// Server serves /metrics and /health.
type Server struct {
	srv *http.Server
	log logrus.FieldLogger
}

// Serve starts the HTTP endpoint on its own goroutine.
// It only reads collectors; it never touches the poll loop.
func (m *Metrics) Serve(addr string, log logrus.FieldLogger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	s := &Server{
		srv: &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		log: log,
	}

	log.Infof("metrics server listening on %s", addr)
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server error: %v", err)
		}
	}()

	return s
}

// Close shuts the endpoint down.
func (s *Server) Close() error {
	if s == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
