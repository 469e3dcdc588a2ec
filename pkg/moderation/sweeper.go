package moderation

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Recoverer runs one recovery pass
type Recoverer interface {
	Recover(ctx context.Context) (RecoverResult, error)
}

// Sweeper periodically re-runs recovery so records whose timers were lost
// (missed writes, clock jumps, another instance crashing) are still reversed.
type Sweeper struct {
	target   Recoverer
	interval time.Duration
	timeout  time.Duration
	c        *cron.Cron

	mu      sync.Mutex
	lastRun time.Time
	last    RecoverResult
	lastErr error
}

// NewSweeper creates a sweeper running every interval
func NewSweeper(target Recoverer, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	s := &Sweeper{
		target:   target,
		interval: interval,
		timeout:  interval,
		c:        cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}
	s.c.Schedule(cron.Every(interval), cron.FuncJob(func() {
		defer apperrors.RecoverMiddleware()()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, err := s.RunNow(ctx); err != nil {
			logger.Warn(fmt.Sprintf("Barrido de sanciones fallido: %v", err), "Sweeper")
		}
	}))
	return s
}

// Start begins the periodic sweep
func (s *Sweeper) Start() {
	s.c.Start()
	logger.System(fmt.Sprintf("Barrido de sanciones iniciado (cada %s)", s.interval), "Sweeper")
}

// Stop halts the schedule and waits for a running sweep to finish
func (s *Sweeper) Stop() {
	<-s.c.Stop().Done()
}

// RunNow performs one sweep immediately
func (s *Sweeper) RunNow(ctx context.Context) (RecoverResult, error) {
	res, err := s.target.Recover(ctx)

	s.mu.Lock()
	s.lastRun = time.Now()
	s.last = res
	s.lastErr = err
	s.mu.Unlock()

	return res, err
}

// Last returns the time and outcome of the latest sweep
func (s *Sweeper) Last() (time.Time, RecoverResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.last, s.lastErr
}

// Interval returns the sweep period
func (s *Sweeper) Interval() time.Duration {
	return s.interval
}
