package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	fetchTotal   *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec
	cacheTotal   *prometheus.CounterVec
	pageLatency  *prometheus.HistogramVec
	errorsTotal  *prometheus.CounterVec
	lastPrice    *prometheus.GaugeVec
}

// New registers the collectors on reg; nil means the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		fetchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockweather_fetch_total",
				Help: "Provider fetches by source and outcome",
			},
			[]string{"source", "outcome"},
		),
		fetchLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockweather_fetch_duration_seconds",
				Help:    "Duration of provider fetches in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"source"},
		),
		cacheTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockweather_cache_requests_total",
				Help: "Memo cache lookups by series kind and result",
			},
			[]string{"kind", "result"},
		),
		pageLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockweather_page_build_duration_seconds",
				Help:    "Duration of page builds in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"page"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockweather_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockweather_last_price",
				Help: "Last live trade price for a symbol",
			},
			[]string{"symbol"},
		),
	}
}

// RecordFetch records one provider call.
func (r *Recorder) RecordFetch(source string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.fetchTotal.WithLabelValues(source, outcome).Inc()
	r.fetchLatency.WithLabelValues(source).Observe(d.Seconds())
}

// RecordCache records a memo cache hit or miss.
func (r *Recorder) RecordCache(kind string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheTotal.WithLabelValues(kind, result).Inc()
}

// RecordPageBuild records page build latency.
func (r *Recorder) RecordPageBuild(page string, d time.Duration) {
	r.pageLatency.WithLabelValues(page).Observe(d.Seconds())
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordFetch(string, time.Duration, error) {}
func (Nop) RecordCache(string, bool)                 {}
func (Nop) RecordPageBuild(string, time.Duration)    {}
func (Nop) RecordError(string)                       {}
func (Nop) RecordLastPrice(string, float64)          {}
