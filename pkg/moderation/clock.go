package moderation

import "time"

// Stopper cancels a pending timer. Stop reports whether the timer was still pending.
type Stopper interface {
	Stop() bool
}

// Clock abstracts time so reversal timers can be driven in tests
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Stopper
}

// SystemClock is the wall clock
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}
