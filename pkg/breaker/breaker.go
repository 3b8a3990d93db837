// Package breaker configura i circuit breaker (gobreaker) verso i servizi a monte.
package breaker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type Settings struct {
	Failures int           // consecutive failures that open the breaker
	OpenFor  time.Duration // how long it stays open before a half-open probe
	Interval time.Duration // reset period of the closed-state counts, 0 = never
	// IsSuccessful decides which errors count as failures; nil counts every error.
	IsSuccessful func(error) bool
}

// NewStateGauge registers kisanyatra_breaker_state{breaker} (0 closed, 1 half-open, 2 open).
func NewStateGauge(reg prometheus.Registerer) *prometheus.GaugeVec {
	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "kisanyatra",
		Name:      "breaker_state",
		Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open.",
	}, []string{"breaker"})
	reg.MustRegister(g)
	return g
}

// New builds a breaker that trips after s.Failures consecutive failures.
// state may be nil.
func New(name string, s Settings, log *zap.Logger, state *prometheus.GaugeVec) *gobreaker.CircuitBreaker {
	if s.Failures < 1 {
		s.Failures = 1
	}
	if s.OpenFor <= 0 {
		s.OpenFor = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	failures := uint32(s.Failures)
	if state != nil {
		state.WithLabelValues(name).Set(float64(gobreaker.StateClosed))
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         name,
		Interval:     s.Interval,
		Timeout:      s.OpenFor,
		IsSuccessful: s.IsSuccessful,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			if state != nil {
				state.WithLabelValues(name).Set(float64(to))
			}
		},
	})
}
