package moderation

import (
	"context"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/PancyStudios/PancyModGo/pkg/errors"
	"github.com/PancyStudios/PancyModGo/pkg/logger"
	"github.com/PancyStudios/PancyModGo/pkg/models"
)

// SystemActor is recorded as reversed_by when a sanction expires on its own
const SystemActor = "system"

// LifecycleOptions configures a Lifecycle
type LifecycleOptions struct {
	Observer Observer
	// ReverseTimeout bounds a single automatic reversal.
	ReverseTimeout time.Duration
}

// Lifecycle keeps one timer per pending reversal and reconciles them with the
// durable sanction records.
type Lifecycle struct {
	store          Store
	platform       Platform
	clock          Clock
	observer       Observer
	reverseTimeout time.Duration

	mu       sync.Mutex
	timers   map[string]Stopper
	inflight map[string]struct{}
	stopped  bool
}

// RecoverResult summarises a recovery pass
type RecoverResult struct {
	Scheduled int
	Reversed  int
	Failed    int
}

// NewLifecycle creates a Lifecycle. A nil clock uses the wall clock.
func NewLifecycle(store Store, platform Platform, clock Clock, opts LifecycleOptions) *Lifecycle {
	if clock == nil {
		clock = SystemClock{}
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}
	if opts.ReverseTimeout <= 0 {
		opts.ReverseTimeout = 30 * time.Second
	}
	return &Lifecycle{
		store:          store,
		platform:       platform,
		clock:          clock,
		observer:       opts.Observer,
		reverseTimeout: opts.ReverseTimeout,
		timers:         make(map[string]Stopper),
		inflight:       make(map[string]struct{}),
	}
}

// Schedule arms the automatic reversal of rec. It is a no-op, returning false,
// unless rec is reversible, unreversed and expires strictly in the future.
// Scheduling an id that already has a timer replaces it.
func (l *Lifecycle) Schedule(rec *models.Sanction) bool {
	if rec == nil || !rec.Pending() {
		return false
	}
	if _, ok := actions[rec.Kind]; !ok {
		return false
	}

	delay := rec.ExpiresAt.Sub(l.clock.Now())
	if delay <= 0 {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.stopped {
		return false
	}
	if prev, ok := l.timers[rec.ID]; ok {
		prev.Stop()
	}

	id := rec.ID
	l.timers[id] = l.clock.AfterFunc(delay, func() { l.fire(id) })
	logger.Debug(fmt.Sprintf("Reversión de %s %s programada para %s", rec.Kind, id, rec.ExpiresAt.Format(time.RFC3339)), "Lifecycle")
	return true
}

// fire runs on the timer goroutine when a sanction expires
func (l *Lifecycle) fire(id string) {
	defer apperrors.RecoverMiddleware()()

	l.mu.Lock()
	delete(l.timers, id)
	stopped := l.stopped
	l.mu.Unlock()
	if stopped {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), l.reverseTimeout)
	defer cancel()

	if _, err := l.reverse(ctx, id, SystemActor, true); err != nil {
		logger.Error(fmt.Sprintf("Fallo al revertir la sanción %s: %v", id, err), "Lifecycle")
	}
}

// Cancel stops the timer of a sanction. It reports whether one was armed.
func (l *Lifecycle) Cancel(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.timers[id]
	if !ok {
		return false
	}
	t.Stop()
	delete(l.timers, id)
	return true
}

// ReverseNow cancels the timer of a sanction and reverses it immediately.
// It reports false when the sanction was already reversed.
func (l *Lifecycle) ReverseNow(ctx context.Context, id, by string) (bool, error) {
	l.Cancel(id)
	return l.reverse(ctx, id, by, false)
}

// reverse undoes a sanction once. Platform failures are logged and swallowed
// so the record is still marked reversed.
func (l *Lifecycle) reverse(ctx context.Context, id, by string, automatic bool) (bool, error) {
	l.mu.Lock()
	if _, busy := l.inflight[id]; busy {
		l.mu.Unlock()
		return false, nil
	}
	l.inflight[id] = struct{}{}
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.inflight, id)
		l.mu.Unlock()
	}()

	rec, err := l.store.Get(ctx, id)
	if err != nil {
		return false, fmt.Errorf("load sanction %s: %w", id, err)
	}
	if rec == nil {
		return false, ErrSanctionNotFound
	}
	if rec.Reversed {
		return false, nil
	}

	action, ok := actions[rec.Kind]
	if !ok || !action.Reversible() {
		return false, ErrNotReversible
	}

	now := l.clock.Now()

	// A newer sanction of the same kind keeps the effect in place; the
	// expired record is only closed.
	superseded := false
	if automatic {
		if superseded, err = l.supersededBy(ctx, rec, now); err != nil {
			return false, err
		}
	}

	reason := "Sanción expirada"
	if !automatic {
		reason = fmt.Sprintf("Revertida manualmente por %s", by)
	}
	if superseded {
		logger.Info(fmt.Sprintf("%s %s de %s sustituida por una sanción más reciente, se mantiene el efecto", rec.Kind, id, rec.TargetID), "Lifecycle")
	} else if err := action.Reverse(ctx, l.platform, rec, reason); err != nil {
		logger.Warn(fmt.Sprintf("No se pudo revertir %s de %s en %s: %v", rec.Kind, rec.TargetID, rec.GuildID, err), "Lifecycle")
	}

	marked, err := l.store.MarkReversed(ctx, id, by, now)
	if err != nil {
		return false, fmt.Errorf("mark sanction %s reversed: %w", id, err)
	}
	if !marked {
		return false, nil
	}

	rec.Reversed = true
	rec.ReversedAt = &now
	rec.ReversedBy = by
	l.observer.SanctionReversed(rec, automatic)
	logger.Info(fmt.Sprintf("Sanción %s (%s) de %s revertida por %s", id, rec.Kind, rec.TargetID, by), "Lifecycle")
	return true, nil
}

// supersededBy reports whether another unreversed record of the same kind
// is still in force for the target of rec at now.
func (l *Lifecycle) supersededBy(ctx context.Context, rec *models.Sanction, now time.Time) (bool, error) {
	others, err := l.store.ListForMember(ctx, rec.GuildID, rec.TargetID, rec.Kind)
	if err != nil {
		return false, fmt.Errorf("list sanctions of %s: %w", rec.TargetID, err)
	}
	for _, other := range others {
		if other.ID == rec.ID || other.Reversed {
			continue
		}
		if other.ExpiresAt == nil || other.ExpiresAt.After(now) {
			return true, nil
		}
	}
	return false, nil
}

// Recover adopts every pending record: future expirations get a timer and
// overdue ones are reversed immediately. Records that already have a timer
// are left alone, so it is safe to run repeatedly.
func (l *Lifecycle) Recover(ctx context.Context) (RecoverResult, error) {
	var res RecoverResult

	pending, err := l.store.Pending(ctx)
	if err != nil {
		return res, fmt.Errorf("list pending sanctions: %w", err)
	}

	now := l.clock.Now()
	for _, rec := range pending {
		if !rec.Pending() {
			continue
		}
		if rec.ExpiresAt.After(now) {
			if l.armed(rec.ID) {
				continue
			}
			if l.Schedule(rec) {
				res.Scheduled++
			}
			continue
		}

		l.Cancel(rec.ID)
		ok, err := l.reverse(ctx, rec.ID, SystemActor, true)
		switch {
		case err != nil:
			res.Failed++
			logger.Error(fmt.Sprintf("Fallo al revertir la sanción vencida %s: %v", rec.ID, err), "Lifecycle")
		case ok:
			res.Reversed++
		}
	}

	if res.Scheduled+res.Reversed+res.Failed > 0 {
		logger.System(fmt.Sprintf("Recuperación: %d programadas, %d revertidas, %d fallidas", res.Scheduled, res.Reversed, res.Failed), "Lifecycle")
	}
	return res, nil
}

func (l *Lifecycle) armed(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.timers[id]
	return ok
}

// Pending returns the number of armed timers
func (l *Lifecycle) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// Stop disarms every timer. Records stay pending and are adopted by the next Recover.
func (l *Lifecycle) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stopped = true
	for id, t := range l.timers {
		t.Stop()
		delete(l.timers, id)
	}
}
