package memo

import (
	"context"
	"sync/atomic"
	"time"
)

// entryState is the lifecycle state of a cached computation.
type entryState int32

const (
	stateRunning entryState = iota
	stateSuccess
	stateError
)

func (s entryState) String() string {
	switch s {
	case stateRunning:
		return "running"
	case stateSuccess:
		return "success"
	case stateError:
		return "error"
	default:
		return "unknown"
	}
}

// entry is the cache's record of one key's in-flight-or-settled
// computation: a promise of the result, the time the computation was
// initiated, and its state.
//
// created is immutable after construction. value and err are written
// exactly once, before done is closed; readers must only touch them
// after done is closed. state transitions from running to exactly one
// terminal state and never again afterward; it is atomic because the
// cache inspects it under its own lock while the producer goroutine
// settles without that lock.
type entry[R any] struct {
	created time.Time
	done    chan struct{}
	state   atomic.Int32

	value R
	err   error
}

func newEntry[R any](created time.Time) *entry[R] {
	return &entry[R]{
		created: created,
		done:    make(chan struct{}),
	}
}

// settle records the computation's outcome and commits the terminal
// state transition. It must be called exactly once.
func (e *entry[R]) settle(value R, err error) {
	e.value = value
	e.err = err
	if err != nil {
		e.state.Store(int32(stateError))
	} else {
		e.state.Store(int32(stateSuccess))
	}
	close(e.done)
}

// currentState returns the committed state. A running result is
// reported until the settling store completes.
func (e *entry[R]) currentState() entryState {
	return entryState(e.state.Load())
}

// wait joins the computation. It returns the settled value or error, or
// ctx.Err() if the caller gives up first. Abandoning the wait does not
// affect the computation or its other joiners.
func (e *entry[R]) wait(ctx context.Context) (R, error) {
	select {
	case <-e.done:
		return e.value, e.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}
