package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrLoopStopped is returned for events submitted after Run returned.
var ErrLoopStopped = errors.New("event loop stopped")

const defaultLoopBuffer = 64

// Loop runs events one at a time, each to completion, on a single
// goroutine. Everything that touches a Session goes through it.
type Loop struct {
	events chan func()
	done   chan struct{}
	log    zerolog.Logger
}

// NewLoop creates a loop. Run must be called for events to be processed.
func NewLoop(logger zerolog.Logger) *Loop {
	return &Loop{
		events: make(chan func(), defaultLoopBuffer),
		done:   make(chan struct{}),
		log:    logger,
	}
}

// Run processes events until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.events:
			l.run(fn)
		}
	}
}

func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error().Str("panic", fmt.Sprint(r)).Msg("event handler panicked")
		}
	}()
	fn()
}

// Post queues fn and returns once it is queued, without waiting for it to
// run. Events are run in the order they were posted.
func (l *Loop) Post(ctx context.Context, fn func()) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}

	select {
	case l.events <- fn:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	err := l.Post(ctx, func() {
		defer close(finished)
		fn()
	})
	if err != nil {
		return err
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		select {
		case <-finished:
			return nil
		default:
			return ErrLoopStopped
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}
