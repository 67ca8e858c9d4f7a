package apply

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mtlprog/internfinder/internal/domain"
)

// Opener opens a URL in a new browsing context.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// Notifier displays and clears transient notices.
type Notifier interface {
	Notify(n domain.Notice)
	Dismiss()
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Runner executes apply plans step by step.
type Runner struct {
	opener   Opener
	notifier Notifier
	sleep    SleepFunc
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithSleep replaces the wait implementation.
func WithSleep(fn SleepFunc) RunnerOption {
	return func(r *Runner) {
		r.sleep = fn
	}
}

// NewRunner creates a Runner.
func NewRunner(opener Opener, notifier Notifier, opts ...RunnerOption) *Runner {
	r := &Runner{
		opener:   opener,
		notifier: notifier,
		sleep:    sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the plan in order and stops at the first failure or when ctx
// is cancelled.
func (r *Runner) Run(ctx context.Context, plan Plan) error {
	slog.Info("apply started", "title", plan.Title, "company", plan.Company, "company_url", plan.CompanyURL)

	for i, step := range plan.Steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("apply step %d: %w", i, err)
		}

		switch step.Kind {
		case StepNotify:
			if step.Notice != nil {
				r.notifier.Notify(*step.Notice)
			}
		case StepDismiss:
			r.notifier.Dismiss()
		case StepWait:
			if err := r.sleep(ctx, step.Delay); err != nil {
				return fmt.Errorf("apply step %d: %w", i, err)
			}
		case StepOpen:
			if err := r.opener.Open(ctx, step.URL); err != nil {
				return fmt.Errorf("open %s: %w", step.URL, err)
			}
			slog.Debug("opened url", "url", step.URL)
		default:
			return fmt.Errorf("apply step %d: unknown kind %q", i, step.Kind)
		}
	}

	slog.Info("apply finished", "company", plan.Company)
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
