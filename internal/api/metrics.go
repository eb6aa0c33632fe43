package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters the gatekeeper exposes. Label values are
// bounded enumerations, never caller-supplied strings.
type Metrics struct {
	Logins       *prometheus.CounterVec
	Rotations    *prometheus.CounterVec
	DeviceChecks *prometheus.CounterVec
}

// NewMetrics registers the gatekeeper counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Logins: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "gatewarden_logins_total",
			Help: "Admin login attempts by result.",
		}, []string{"result"}),
		Rotations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "gatewarden_token_rotations_total",
			Help: "Access-token rotations by result.",
		}, []string{"result"}),
		DeviceChecks: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "gatewarden_device_checks_total",
			Help: "Public device verification checks by result.",
		}, []string{"result"}),
	}
}

const (
	resultOK       = "ok"
	resultDenied   = "denied"
	resultInvalid  = "invalid"
	resultError    = "error"
	resultAllowed  = "allowed"
	resultRejected = "rejected"
)

func (m *Metrics) login(result string) {
	if m != nil {
		m.Logins.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) rotation(result string) {
	if m != nil {
		m.Rotations.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) deviceCheck(result string) {
	if m != nil {
		m.DeviceChecks.WithLabelValues(result).Inc()
	}
}
