package telemetry

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lector/internal/logging"
)

// Metrics are the engine's collectors. A nil *Metrics records nothing.
type Metrics struct {
	TokensTransformed prometheus.Counter
	TokensDispatched  *prometheus.CounterVec
	TokensPreloaded   *prometheus.CounterVec
	UnclaimedTokens   prometheus.Counter
	Batches           *prometheus.CounterVec
	BatchDuration     *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TokensTransformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lector",
			Name:      "tokens_transformed_total",
			Help:      "Tokens produced by transform runs.",
		}),
		TokensDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lector",
			Name:      "tokens_dispatched_total",
			Help:      "Tokens claimed, by reader.",
		}, []string{"reader"}),
		TokensPreloaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lector",
			Name:      "tokens_preloaded_total",
			Help:      "Tokens accepted by a preloader, by reader.",
		}, []string{"reader"}),
		UnclaimedTokens: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lector",
			Name:      "unclaimed_tokens_total",
			Help:      "Tokens no reader claimed.",
		}),
		Batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lector",
			Name:      "read_batches_total",
			Help:      "Settled read batches by scheduling mode and outcome.",
		}, []string{"mode", "outcome"}),
		BatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lector",
			Name:      "read_batch_duration_seconds",
			Help:      "Time from batch start to settlement, excluding serial queue wait.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"mode"}),
	}
	if reg != nil {
		reg.MustRegister(m.TokensTransformed, m.TokensDispatched, m.TokensPreloaded,
			m.UnclaimedTokens, m.Batches, m.BatchDuration)
	}
	return m
}

func (m *Metrics) Transformed(n int) {
	if m == nil {
		return
	}
	m.TokensTransformed.Add(float64(n))
}

func (m *Metrics) Dispatched(reader string) {
	if m == nil {
		return
	}
	m.TokensDispatched.WithLabelValues(reader).Inc()
}

func (m *Metrics) Preloaded(reader string) {
	if m == nil {
		return
	}
	m.TokensPreloaded.WithLabelValues(reader).Inc()
}

func (m *Metrics) Unclaimed() {
	if m == nil {
		return
	}
	m.UnclaimedTokens.Inc()
}

func (m *Metrics) BatchSettled(mode string, err error, took time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Batches.WithLabelValues(mode, outcome).Inc()
	m.BatchDuration.WithLabelValues(mode).Observe(took.Seconds())
}

// Expose serves g on /metrics in the background. A nil g means the default
// gatherer.
func Expose(port int, g prometheus.Gatherer) *http.Server {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.L().Warn("telemetry: metrics server stopped", "err", err)
		}
	}()
	return srv
}
