// Package metrics wraps a dedicated prometheus registry so the rest of
// the process never touches a package-global one. The registry is built
// once at startup and handed to whoever needs to register or scrape.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the process's prometheus registry.
type Metrics struct {
	reg *prometheus.Registry
}

// New creates an empty registry.
func New() *Metrics {
	return &Metrics{reg: prometheus.NewRegistry()}
}

// ChangeGauge registers and returns the 0/1 gauge for a differ. The
// exported metric is named "<name>_changed".
func (m *Metrics) ChangeGauge(name, help string) prometheus.Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: name + "_changed",
		Help: help,
	})
	m.reg.MustRegister(g)
	return g
}

// Handler returns the scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
