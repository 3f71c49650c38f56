// Package metrics defines the Prometheus metrics for the authentication
// flow. It is the single source of truth for metric names, labels, and help
// strings.
//
// Metrics are registered on the registry handed to New so that every router
// instance (and every test) owns its own set.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "marketplace"
	subsystem = "auth"
)

// Gate rejection reasons. They are distinguishable here and in logs only;
// callers always see the same 401 body.
const (
	ReasonNoToken         = "no_token"
	ReasonMalformedHeader = "malformed_header"
	ReasonInvalidToken    = "invalid_token"
	ReasonExpiredToken    = "expired_token"
	ReasonNoPrincipal     = "no_principal"
	ReasonForbidden       = "forbidden"
)

type Metrics struct {
	// LoginsTotal counts login attempts.
	// Label:
	//   - outcome: "success", "invalid_credentials", "error"
	LoginsTotal *prometheus.CounterVec

	// RegistrationsTotal counts registration attempts.
	// Label:
	//   - outcome: "success", "validation", "username_taken", "error"
	RegistrationsTotal *prometheus.CounterVec

	// GateRejectionsTotal counts requests stopped by the access gate.
	// Label:
	//   - reason: one of the Reason* constants
	GateRejectionsTotal *prometheus.CounterVec
}

// New registers the auth metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		LoginsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "logins_total",
				Help:      "Total number of login attempts, by outcome.",
			},
			[]string{"outcome"},
		),
		RegistrationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "registrations_total",
				Help:      "Total number of registration attempts, by outcome.",
			},
			[]string{"outcome"},
		),
		GateRejectionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "gate_rejections_total",
				Help:      "Total number of requests rejected by the access gate, by reason.",
			},
			[]string{"reason"},
		),
	}
}

// Login records a login outcome. Nil receivers are ignored.
func (m *Metrics) Login(outcome string) {
	if m == nil {
		return
	}
	m.LoginsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Registration(outcome string) {
	if m == nil {
		return
	}
	m.RegistrationsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) GateRejected(reason string) {
	if m == nil {
		return
	}
	m.GateRejectionsTotal.WithLabelValues(reason).Inc()
}
