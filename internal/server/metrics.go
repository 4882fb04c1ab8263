package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/yildizm/countrylookup/internal/countries"
	"github.com/yildizm/countrylookup/internal/search"
)

const namespace = "countrylookup"

// Lookup outcomes used as metric labels
const (
	outcomeSuccess  = "success"
	outcomeTooMany  = "too_many"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
	outcomeStale    = "stale"
)

// Metrics holds the widget server's collectors
type Metrics struct {
	registry *prometheus.Registry

	lookups  *prometheus.CounterVec
	duration prometheus.Histogram
	actions  *prometheus.CounterVec
}

// NewMetrics creates collectors on a private registry. sessions reports the
// number of live sessions at scrape time.
func NewMetrics(sessions func() int) *Metrics {
	registry := prometheus.NewRegistry()

	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "search",
		Name:      "lookups_total",
		Help:      "Country lookups by outcome.",
	}, []string{"outcome"})

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "search",
		Name:      "lookup_duration_seconds",
		Help:      "Time spent waiting for the country-data API.",
		Buckets:   prometheus.DefBuckets,
	})

	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "widget",
		Name:      "actions_total",
		Help:      "List selections and escapes by result.",
	}, []string{"action", "result"})

	active := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "widget",
		Name:      "sessions",
		Help:      "Number of live widget sessions.",
	}, func() float64 { return float64(sessions()) })

	registry.MustRegister(lookups, duration, actions, active)

	return &Metrics{
		registry: registry,
		lookups:  lookups,
		duration: duration,
		actions:  actions,
	}
}

// Registry returns the registry the collectors are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveLookup records a finished lookup and how it was applied
func (m *Metrics) ObserveLookup(resp search.Response, out search.Outcome) {
	m.duration.Observe(resp.Elapsed.Seconds())
	m.lookups.WithLabelValues(lookupOutcome(resp, out)).Inc()
}

// ObserveAction records a selection or escape
func (m *Metrics) ObserveAction(action string, changed bool) {
	result := "noop"
	if changed {
		result = "changed"
	}
	m.actions.WithLabelValues(action, result).Inc()
}

func lookupOutcome(resp search.Response, out search.Outcome) string {
	switch {
	case !out.Changed && out.Notice == nil:
		return outcomeStale
	case countries.IsNotFound(resp.Err):
		return outcomeNotFound
	case resp.Err != nil:
		return outcomeError
	case out.View == search.ViewInfoNotice:
		return outcomeTooMany
	default:
		return outcomeSuccess
	}
}
