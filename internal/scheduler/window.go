package scheduler

import (
	"context"
	"time"
)

// Window is a closed time interval. A zero bound is open on that side.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) Contains(t time.Time) bool {
	if !w.Start.IsZero() && t.Before(w.Start) {
		return false
	}
	if !w.End.IsZero() && t.After(w.End) {
		return false
	}
	return true
}

// Passed reports whether the window has closed for good.
func (w Window) Passed(t time.Time) bool {
	return !w.End.IsZero() && t.After(w.End)
}

// Gated wraps task so it only runs while now() is inside w.
func Gated(w Window, now func() time.Time, task Task) Task {
	if now == nil {
		now = time.Now
	}
	return func(ctx context.Context) error {
		if !w.Contains(now()) {
			return nil
		}
		return task(ctx)
	}
}
