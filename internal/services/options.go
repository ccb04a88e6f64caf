package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Options holds the collaborators shared by the workflow services
type Options struct {
	// Now defaults to time.Now
	Now func() time.Time
	// Delay simulates backend latency before a submission commits
	Delay time.Duration
	// Guard defaults to a process-local MemoryGuard
	Guard SubmissionGuard
	Log   zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Guard == nil {
		o.Guard = NewMemoryGuard()
	}
	return o
}

// simulateLatency waits d or until ctx is done
func simulateLatency(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
