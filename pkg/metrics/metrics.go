// Package metrics exposes moderation counters to Prometheus.
package metrics

import (
	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics observes sanctions and counts them per kind
type Metrics struct {
	applied  *prometheus.CounterVec
	reversed *prometheus.CounterVec
	commands *prometheus.CounterVec
}

// New registers the moderation collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		applied: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pancymod_sanctions_applied_total",
			Help: "Sanctions applied, by kind",
		}, []string{"kind"}),
		reversed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pancymod_sanctions_reversed_total",
			Help: "Sanctions reversed, by kind and whether the timer reversed it",
		}, []string{"kind", "automatic"}),
		commands: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pancymod_commands_total",
			Help: "Slash commands handled, by name and result",
		}, []string{"command", "result"}),
	}
}

// RegisterPending exposes the number of armed reversal timers
func RegisterPending(reg prometheus.Registerer, pending func() int) {
	promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Name: "pancymod_sanctions_pending",
		Help: "Sanctions waiting for their automatic reversal",
	}, func() float64 { return float64(pending()) })
}

func (m *Metrics) SanctionApplied(s *models.Sanction) {
	m.applied.WithLabelValues(string(s.Kind)).Inc()
}

func (m *Metrics) SanctionReversed(s *models.Sanction, automatic bool) {
	label := "false"
	if automatic {
		label = "true"
	}
	m.reversed.WithLabelValues(string(s.Kind), label).Inc()
}

// CommandHandled counts one command execution
func (m *Metrics) CommandHandled(name string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.commands.WithLabelValues(name, result).Inc()
}
