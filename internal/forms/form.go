// Package forms holds the per-page submission state shared by the CLI, the
// web UI and the bot. A form validates its input, makes exactly one backend
// call and keeps the last successful result.
package forms

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrBusy is returned when a form is submitted while its previous request
// is still in flight.
var ErrBusy = errors.New("a request is already in progress")

// State is a snapshot of a form.
type State[Out any] struct {
	Loading bool
	Result  *Out
	Err     error
}

type Form[In, Out any] struct {
	name   string
	logger *slog.Logger

	prepare   func(In) (In, error)
	call      func(context.Context, In) (*Out, error)
	onSuccess func(context.Context, In, *Out)

	mu      sync.Mutex
	loading bool
	result  *Out
	err     error
}

func newForm[In, Out any](name string, logger *slog.Logger, prepare func(In) (In, error), call func(context.Context, In) (*Out, error)) *Form[In, Out] {
	return &Form[In, Out]{
		name:    name,
		logger:  logger,
		prepare: prepare,
		call:    call,
	}
}

func (f *Form[In, Out]) Name() string {
	return f.name
}

// Submit validates in and, if it passes, issues the backend call. A failed
// submission records the error but leaves any earlier result in place.
func (f *Form[In, Out]) Submit(ctx context.Context, in In) (*Out, error) {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return nil, ErrBusy
	}

	if f.prepare != nil {
		var err error
		if in, err = f.prepare(in); err != nil {
			f.err = err
			f.mu.Unlock()
			f.logger.Debug("Form rejected input", "form", f.name, "error", err)
			return nil, err
		}
	}

	f.loading = true
	f.err = nil
	f.mu.Unlock()

	started := time.Now()
	out, err := f.call(ctx, in)

	f.mu.Lock()
	f.loading = false
	if err != nil {
		f.err = err
		f.mu.Unlock()
		f.logger.Warn("Form submission failed", "form", f.name, "duration", time.Since(started), "error", err)
		return nil, err
	}
	f.result = out
	f.mu.Unlock()

	f.logger.Info("Form submission finished", "form", f.name, "duration", time.Since(started))
	if f.onSuccess != nil {
		f.onSuccess(ctx, in, out)
	}
	return out, nil
}

// Reset discards the result and error ("try again").
func (f *Form[In, Out]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result = nil
	f.err = nil
}

func (f *Form[In, Out]) State() State[Out] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return State[Out]{Loading: f.loading, Result: f.result, Err: f.err}
}
