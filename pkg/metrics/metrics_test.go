package metrics

import (
	"errors"
	"testing"

	"github.com/PancyStudios/PancyModGo/pkg/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSanctionCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.SanctionApplied(&models.Sanction{Kind: models.KindBan})
	m.SanctionApplied(&models.Sanction{Kind: models.KindBan})
	m.SanctionApplied(&models.Sanction{Kind: models.KindWarn})
	m.SanctionReversed(&models.Sanction{Kind: models.KindMute}, true)
	m.SanctionReversed(&models.Sanction{Kind: models.KindMute}, false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.applied.WithLabelValues("ban")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.applied.WithLabelValues("warn")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reversed.WithLabelValues("mute", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reversed.WithLabelValues("mute", "false")))
}

func TestCommandHandled(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.CommandHandled("mod.ban", nil)
	m.CommandHandled("mod.ban", errors.New("x"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("mod.ban", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("mod.ban", "error")))
}

func TestRegisterPending(t *testing.T) {
	reg := prometheus.NewRegistry()
	n := 4
	RegisterPending(reg, func() int { return n })

	count, err := testutil.GatherAndCount(reg, "pancymod_sanctions_pending")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	families, err := reg.Gather()
	assert.NoError(t, err)
	assert.Equal(t, 4.0, families[0].GetMetric()[0].GetGauge().GetValue())
}
