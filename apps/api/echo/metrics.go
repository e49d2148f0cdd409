package echoapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "schooldesk"

// resolution outcomes
const (
	outcomeFound = "found"
	outcomeEmpty = "empty"
)

type metrics struct {
	resolutions   *prometheus.CounterVec
	candidates    prometheus.Histogram
	confirmations prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "substitute_resolutions_total",
			Help:      "Substitute resolutions, by outcome (found, empty).",
		}, []string{"outcome"}),
		candidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "substitute_candidates",
			Help:      "Number of candidates returned per resolution.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		confirmations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "substitutions_confirmed_total",
			Help:      "Confirmed substitutions.",
		}),
	}
	reg.MustRegister(
		m.resolutions,
		m.candidates,
		m.confirmations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) observeResolution(candidates int) {
	outcome := outcomeFound
	if candidates == 0 {
		outcome = outcomeEmpty
	}
	m.resolutions.WithLabelValues(outcome).Inc()
	m.candidates.Observe(float64(candidates))
}

func (m *metrics) observeConfirmation() {
	m.confirmations.Inc()
}

func (s *Server) metricsHandler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
}
