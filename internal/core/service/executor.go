package service

import (
	"context"
	"errors"
	"sync"
)

// ErrExecutorStopped is returned when work is posted to a stopped Loop.
var ErrExecutorStopped = errors.New("service: executor stopped")

// Executor runs posted functions one at a time on a single logical
// context. Post reports false if the function will never run.
type Executor interface {
	Post(fn func()) bool
}

// Loop is an Executor backed by one goroutine consuming an unbounded
// queue. Functions run in the order they were posted.
type Loop struct {
	mu      sync.Mutex
	queue   []func()
	stopped bool
	started bool

	wake   chan struct{}
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewLoop creates a Loop. Call Start, or Run on a goroutine you own.
func NewLoop() *Loop {
	return &Loop{
		wake:   make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start runs the loop on a new goroutine. Calling Start twice, or after
// Stop, is a no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	if l.started || l.stopped {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	go l.Run()
}

// Run consumes posted functions until Stop. Work queued before Stop is
// still run.
func (l *Loop) Run() {
	defer close(l.doneCh)

	for {
		select {
		case <-l.wake:
			l.drain()
		case <-l.stopCh:
			l.drain()
			return
		}
	}
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()

		fn()
	}
}

// Post queues fn. It never blocks.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do runs fn on the loop and waits for it. It must not be called from
// the loop goroutine.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	return Run(ctx, l, fn)
}

// Stop refuses new work, runs what is already queued and waits for the
// loop goroutine to exit. Stop on a loop that was never started only
// discards the queue.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		<-l.doneCh
		return
	}
	l.stopped = true
	started := l.started
	l.mu.Unlock()

	close(l.stopCh)
	if !started {
		close(l.doneCh)
		return
	}
	<-l.doneCh
}

// InlineExecutor runs posted functions immediately on the caller's
// goroutine, serialized by a mutex. Used by one-shot commands and tests.
type InlineExecutor struct {
	mu sync.Mutex
}

// Post runs fn before returning.
func (e *InlineExecutor) Post(fn func()) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn()
	return true
}

// Run posts fn to exec and waits until it has run or ctx is done.
func Run(ctx context.Context, exec Executor, fn func()) error {
	done := make(chan struct{})
	if !exec.Post(func() {
		defer close(done)
		fn()
	}) {
		return ErrExecutorStopped
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
