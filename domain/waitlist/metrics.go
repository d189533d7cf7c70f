package waitlist

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	signupOutcomeCreated   = "created"
	signupOutcomeDuplicate = "duplicate"
	signupOutcomeInvalid   = "invalid"
	signupOutcomeFailed    = "failed"
)

type signupMetrics struct {
	outcomes *prometheus.CounterVec
}

// newSignupMetrics registers waitlist_signups_total on reg. A nil reg leaves the counter unexported.
func newSignupMetrics(reg prometheus.Registerer) *signupMetrics {
	outcomes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waitlist_signups_total",
			Help: "Waitlist registration attempts by outcome.",
		},
		[]string{"outcome"},
	)

	if reg != nil {
		if err := reg.Register(outcomes); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
					outcomes = existing
				}
			}
		}
	}

	return &signupMetrics{outcomes: outcomes}
}

func (m *signupMetrics) record(outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}
