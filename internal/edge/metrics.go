package edge

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	redirects *prometheus.CounterVec
}

// NewMetrics registers the edge collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		redirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "blasira",
			Subsystem: "edge",
			Name:      "redirects_total",
			Help:      "Redirects issued by the edge middleware, by reason.",
		}, []string{"reason"}),
	}
	if reg != nil {
		reg.MustRegister(m.redirects)
	}
	return m
}

func (m *Metrics) observeRedirect(reason string) {
	if m == nil {
		return
	}
	m.redirects.WithLabelValues(reason).Inc()
}
