// Package metrics exports the reconciliation counters and gauges.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const hostnameLabel = "hostname"

// Metrics holds the engine metrics, all labelled with the host name.
type Metrics struct {
	hostname string

	TablesMonitored     *prometheus.GaugeVec
	InterfacesMonitored *prometheus.GaugeVec
	RoutesProtected     *prometheus.GaugeVec

	RoutesAdded   *prometheus.CounterVec
	RoutesRemoved *prometheus.CounterVec
	RouteUpdates  *prometheus.CounterVec
}

// New registers the metrics with reg. Registering twice with the same
// registerer panics.
func New(reg prometheus.Registerer, hostname string) *Metrics {
	factory := promauto.With(reg)
	labels := []string{hostnameLabel}

	m := &Metrics{hostname: hostname}

	m.TablesMonitored = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "tables_monitored",
		Help: "Number of routing tables being monitored",
	}, labels)
	m.InterfacesMonitored = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "interfaces_monitored",
		Help: "Number of interfaces being monitored",
	}, labels)
	m.RoutesProtected = factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "routes_protected",
		Help: "Number of routes in the protected list",
	}, labels)

	m.RoutesAdded = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "routes_added_count",
		Help: "Number of protected routes added to the kernel",
	}, labels)
	m.RoutesRemoved = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "routes_removed_count",
		Help: "Number of unprotected routes removed from the kernel",
	}, labels)
	m.RouteUpdates = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "route_updates_count",
		Help: "Number of route updates observed on monitored interfaces and tables",
	}, labels)

	// Export zero values before the first event.
	for _, c := range []*prometheus.CounterVec{m.RoutesAdded, m.RoutesRemoved, m.RouteUpdates} {
		c.WithLabelValues(hostname)
	}
	for _, g := range []*prometheus.GaugeVec{m.TablesMonitored, m.InterfacesMonitored, m.RoutesProtected} {
		g.WithLabelValues(hostname)
	}

	return m
}

func (m *Metrics) Hostname() string { return m.hostname }

func (m *Metrics) SetTablesMonitored(n int) {
	m.TablesMonitored.WithLabelValues(m.hostname).Set(float64(n))
}

func (m *Metrics) SetInterfacesMonitored(n int) {
	m.InterfacesMonitored.WithLabelValues(m.hostname).Set(float64(n))
}

func (m *Metrics) SetRoutesProtected(n int) {
	m.RoutesProtected.WithLabelValues(m.hostname).Set(float64(n))
}

func (m *Metrics) IncRoutesAdded() {
	m.RoutesAdded.WithLabelValues(m.hostname).Inc()
}

func (m *Metrics) IncRoutesRemoved() {
	m.RoutesRemoved.WithLabelValues(m.hostname).Inc()
}

func (m *Metrics) IncRouteUpdates() {
	m.RouteUpdates.WithLabelValues(m.hostname).Inc()
}
