package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the pipeline outcome counters on a private registry, so a
// test or an embedding process never collides with the global one.
type Metrics struct {
	registry *prometheus.Registry

	RowsRead     prometheus.Counter
	RowsValid    prometheus.Counter
	RowsInvalid  prometheus.Counter
	DupesDropped prometheus.Counter
	Suppressed   prometheus.Counter
	Verified     prometheus.Counter
	Unverified   prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	counter := func(name, help string) prometheus.Counter {
		c := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crmclean",
			Name:      name,
			Help:      help,
		})
		reg.MustRegister(c)
		return c
	}

	return &Metrics{
		registry:     reg,
		RowsRead:     counter("rows_read_total", "Input rows read"),
		RowsValid:    counter("rows_valid_total", "Rows with a syntactically valid email"),
		RowsInvalid:  counter("rows_invalid_total", "Rows with an invalid email"),
		DupesDropped: counter("duplicates_dropped_total", "Valid rows dropped as duplicates"),
		Suppressed:   counter("rows_suppressed_total", "Rows dropped by the master suppression list"),
		Verified:     counter("rows_verified_total", "Rows confirmed deliverable by the verifier"),
		Unverified:   counter("rows_unverified_total", "Rows the verifier could not confirm"),
	}
}

// Registry exposes the underlying registry (tests gather from it).
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the private registry. GET/HEAD only, never cached.
func (m *Metrics) Handler() http.Handler {
	inner := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		inner.ServeHTTP(w, r)
	})
}
