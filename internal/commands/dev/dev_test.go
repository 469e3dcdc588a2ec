package dev

import (
	"testing"
	"time"

	"github.com/PancyStudios/PancyModGo/pkg/moderation"
	"github.com/stretchr/testify/assert"
)

func TestSweepReport(t *testing.T) {
	out := sweepReport(moderation.RecoverResult{Scheduled: 2, Reversed: 1, Failed: 0}, time.Minute)

	assert.Contains(t, out, "Programadas: 2")
	assert.Contains(t, out, "Revertidas: 1")
	assert.Contains(t, out, "Fallidas: 0")
	assert.Contains(t, out, "1m0s")
}
