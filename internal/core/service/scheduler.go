package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spaolacci/murmur3"
	"golang.org/x/time/rate"

	"github.com/Mesbahzade/tdesktop/internal/core/domain"
	"github.com/Mesbahzade/tdesktop/internal/telemetry/logger"
	"github.com/Mesbahzade/tdesktop/internal/telemetry/metric"
)

// SchedulerConfig wires a SaveScheduler to its collaborators.
type SchedulerConfig struct {
	// Executor runs the write. Required.
	Executor Executor

	// Serialize returns the blob to persist. It runs on Executor, so it
	// reads the live state at write time.
	Serialize func() []byte

	// Write persists a blob. Required.
	Write func(ctx context.Context, blob []byte) error

	// Limiter spaces consecutive writes. Nil means no spacing.
	Limiter *rate.Limiter

	// WriteTimeout bounds a timer-fired write. Default: 30s.
	WriteTimeout time.Duration

	Logger  logger.Logger
	Metrics *metric.Registry
}

// SaveScheduler debounces settings writes.
//
// Schedule arms a one-shot timer; a second Schedule before it fires
// replaces the deadline, so a burst of changes produces one write holding
// the state at fire time. Writes whose blob matches the last successful
// write are skipped. A failed write is logged and dropped; the next
// Schedule writes in full.
type SaveScheduler struct {
	cfg SchedulerConfig
	log logger.Logger

	mu         sync.Mutex
	timer      *time.Timer
	generation uint64
	pending    bool
	closed     bool

	// Guarded by running on the executor.
	lastSum uint64
	hasLast bool

	lastWrite atomic.Int64 // Unix nanoseconds
}

// NewSaveScheduler creates a scheduler.
func NewSaveScheduler(cfg SchedulerConfig) (*SaveScheduler, error) {
	if cfg.Executor == nil || cfg.Serialize == nil || cfg.Write == nil {
		return nil, domain.ErrMissingArgument.WithDetails("save scheduler requires executor, serialize and write")
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Default()
	}
	return &SaveScheduler{
		cfg: cfg,
		log: log.With("component", "save_scheduler"),
	}, nil
}

// Schedule arms a deferred write after delay, replacing any pending one.
// A zero delay still writes asynchronously.
func (s *SaveScheduler) Schedule(delay time.Duration) {
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.cfg.Metrics.IncSaveScheduled()
	if s.pending {
		s.timer.Stop()
		s.cfg.Metrics.IncSaveCoalesced()
	}

	s.generation++
	gen := s.generation
	s.pending = true
	s.timer = time.AfterFunc(delay, func() {
		if !s.cfg.Executor.Post(func() { s.fire(gen) }) {
			s.log.Debug("executor stopped, deferred save dropped")
		}
	})
}

// fire runs on the executor. Superseded generations do nothing.
func (s *SaveScheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || !s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = false
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
	defer cancel()
	_ = s.write(ctx)
}

// take cancels the pending timer and reports whether one was armed.
func (s *SaveScheduler) take() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	was := s.pending
	if s.pending {
		s.timer.Stop()
		s.pending = false
	}
	s.generation++
	return was
}

// Flush performs the pending write now, if any. Used on shutdown.
func (s *SaveScheduler) Flush(ctx context.Context) error {
	if !s.take() {
		return nil
	}
	return s.runWrite(ctx)
}

// SaveNow cancels any pending write and writes immediately.
func (s *SaveScheduler) SaveNow(ctx context.Context) error {
	s.take()
	return s.runWrite(ctx)
}

// runWrite performs the write on the executor and waits for it. If the
// executor no longer accepts work the write runs on the caller.
func (s *SaveScheduler) runWrite(ctx context.Context) error {
	var err error
	runErr := Run(ctx, s.cfg.Executor, func() { err = s.write(ctx) })
	if errors.Is(runErr, ErrExecutorStopped) {
		return s.write(ctx)
	}
	if runErr != nil {
		return runErr
	}
	return err
}

func (s *SaveScheduler) write(ctx context.Context) error {
	blob := s.cfg.Serialize()
	s.cfg.Metrics.SetBlobBytes(len(blob))

	sum := murmur3.Sum64(blob)
	if s.hasLast && sum == s.lastSum {
		s.cfg.Metrics.RecordWrite(metric.WriteUnchanged, 0)
		s.log.Debug("settings unchanged, write skipped", "bytes", len(blob))
		return nil
	}

	if s.cfg.Limiter != nil {
		if err := s.cfg.Limiter.Wait(ctx); err != nil {
			s.cfg.Metrics.RecordWrite(metric.WriteFailed, 0)
			s.log.Warn("settings write not attempted", "error", err)
			return err
		}
	}

	start := time.Now()
	err := s.cfg.Write(ctx, blob)
	elapsed := time.Since(start)
	if err != nil {
		s.cfg.Metrics.RecordWrite(metric.WriteFailed, elapsed)
		s.log.Error("settings write failed", "error", err, "bytes", len(blob))
		return err
	}

	s.cfg.Metrics.RecordWrite(metric.WriteOK, elapsed)
	s.lastSum, s.hasLast = sum, true
	s.lastWrite.Store(time.Now().UnixNano())
	s.log.Debug("settings written", "bytes", len(blob), "elapsed", elapsed)
	return nil
}

// Remember records blob as already persisted, so an identical write is
// skipped. Must run on the executor or before any write is scheduled.
func (s *SaveScheduler) Remember(blob []byte) {
	s.lastSum, s.hasLast = murmur3.Sum64(blob), true
}

// Pending reports whether a deferred write is armed.
func (s *SaveScheduler) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// LastWrite returns the time of the last successful write, or the zero
// time.
func (s *SaveScheduler) LastWrite() time.Time {
	n := s.lastWrite.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// Close disarms the timer. Pending work is discarded; call Flush first to
// keep it.
func (s *SaveScheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.pending {
		s.timer.Stop()
		s.pending = false
	}
	s.generation++
}
