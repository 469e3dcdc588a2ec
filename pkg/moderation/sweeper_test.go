package moderation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecoverer struct {
	calls chan struct{}
}

func (c *countingRecoverer) Recover(context.Context) (RecoverResult, error) {
	c.calls <- struct{}{}
	return RecoverResult{Scheduled: 1}, nil
}

func TestSweeperRunNow(t *testing.T) {
	r := &countingRecoverer{calls: make(chan struct{}, 1)}
	s := NewSweeper(r, time.Hour)

	res, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Scheduled)

	at, last, lastErr := s.Last()
	assert.False(t, at.IsZero())
	assert.Equal(t, res, last)
	assert.NoError(t, lastErr)
	assert.Equal(t, time.Hour, s.Interval())
}

func TestSweeperRunsPeriodically(t *testing.T) {
	r := &countingRecoverer{calls: make(chan struct{}, 4)}
	s := NewSweeper(r, time.Second)
	s.Start()
	defer s.Stop()

	select {
	case <-r.calls:
	case <-time.After(5 * time.Second):
		t.Fatal("sweeper never ran")
	}
}

func TestSweeperRecoversLifecycle(t *testing.T) {
	f := newLifecycleFixture()
	f.sanction("m1", "mute", time.Minute)
	f.clock.Advance(time.Hour)

	s := NewSweeper(f.lc, time.Minute)
	res, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Reversed)
}
