// Package timing measures request latency and named phases within a request.
package timing

import (
	"context"
	"sync"
	"time"
)

// Timer tracks elapsed time and named phases
type Timer struct {
	start  time.Time
	phases map[string]int64
	mu     sync.Mutex
}

// New creates a new Timer with the current time as the start point
func New() *Timer {
	return &Timer{
		start:  time.Now(),
		phases: make(map[string]int64),
	}
}

// ElapsedMs returns the number of milliseconds since the timer was created
func (t *Timer) ElapsedMs() int64 {
	return time.Since(t.start).Milliseconds()
}

// Track starts the named phase and returns a func that ends it. Repeated
// phases accumulate. Safe on a nil Timer.
func (t *Timer) Track(name string) func() {
	if t == nil {
		return func() {}
	}

	began := time.Now()
	return func() {
		d := time.Since(began).Milliseconds()
		t.mu.Lock()
		t.phases[name] += d
		t.mu.Unlock()
	}
}

// Phases returns a copy of all recorded phase durations
func (t *Timer) Phases() map[string]int64 {
	if t == nil {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	result := make(map[string]int64, len(t.phases))
	for k, v := range t.phases {
		result[k] = v
	}
	return result
}

type contextKey struct{}

// WithTimer returns a context carrying a fresh Timer.
func WithTimer(ctx context.Context) (context.Context, *Timer) {
	t := New()
	return context.WithValue(ctx, contextKey{}, t), t
}

// FromContext returns the Timer stored by WithTimer, or nil.
func FromContext(ctx context.Context) *Timer {
	t, _ := ctx.Value(contextKey{}).(*Timer)
	return t
}
