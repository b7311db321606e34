package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/Mesbahzade/tdesktop/internal/core/domain"
	"github.com/Mesbahzade/tdesktop/internal/telemetry/logger"
	"github.com/Mesbahzade/tdesktop/internal/telemetry/metric"
)

// blobSource stands in for the settings store.
type blobSource struct {
	mu   sync.Mutex
	blob []byte
}

func (b *blobSource) set(s string) {
	b.mu.Lock()
	b.blob = []byte(s)
	b.mu.Unlock()
}

func (b *blobSource) serialize() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.blob...)
}

func newTestScheduler(t *testing.T, exec Executor, src *blobSource, store *recordingStore, reg *metric.Registry) *SaveScheduler {
	t.Helper()
	s, err := NewSaveScheduler(SchedulerConfig{
		Executor:  exec,
		Serialize: src.serialize,
		Write: func(ctx context.Context, blob []byte) error {
			return store.WriteSettings(ctx, "1", blob)
		},
		Logger:  logger.Discard(),
		Metrics: reg,
	})
	if err != nil {
		t.Fatalf("NewSaveScheduler() error = %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestNewSaveScheduler_MissingArgs(t *testing.T) {
	_, err := NewSaveScheduler(SchedulerConfig{})
	if !errors.Is(err, domain.ErrMissingArgument) {
		t.Errorf("error = %v, want ErrMissingArgument", err)
	}
}

func TestSaveScheduler_CoalescesToLatestState(t *testing.T) {
	store := newRecordingStore()
	src := &blobSource{}
	reg := metric.NewRegistry()
	s := newTestScheduler(t, &InlineExecutor{}, src, store, reg)

	src.set("first")
	s.Schedule(50 * time.Millisecond)
	src.set("second")
	s.Schedule(50 * time.Millisecond)

	if !s.Pending() {
		t.Error("Pending() = false after Schedule")
	}

	store.waitWrite(t)
	store.noWrite(t, 150*time.Millisecond)

	if store.writeCount() != 1 {
		t.Fatalf("writes = %d, want 1", store.writeCount())
	}
	if got := string(store.lastWrite()); got != "second" {
		t.Errorf("written blob = %q, want latest state", got)
	}
	if s.Pending() {
		t.Error("Pending() = true after the write")
	}
	if s.LastWrite().IsZero() {
		t.Error("LastWrite() is zero after a successful write")
	}
	assertMetric(t, reg, `tdesktop_settings_save_coalesced_total 1`)
}

func TestSaveScheduler_ZeroDelayIsAsync(t *testing.T) {
	store := newRecordingStore()
	src := &blobSource{}
	src.set("x")

	loop := NewLoop()
	loop.Start()
	defer loop.Stop()

	block := make(chan struct{})
	loop.Post(func() { <-block })

	s := newTestScheduler(t, loop, src, store, nil)
	s.Schedule(0)

	if store.writeCount() != 0 {
		t.Fatal("Schedule(0) wrote synchronously")
	}
	close(block)
	store.waitWrite(t)
}

func TestSaveScheduler_SkipsUnchangedBlob(t *testing.T) {
	store := newRecordingStore()
	src := &blobSource{}
	src.set("same")
	reg := metric.NewRegistry()
	s := newTestScheduler(t, &InlineExecutor{}, src, store, reg)

	ctx := context.Background()
	if err := s.SaveNow(ctx); err != nil {
		t.Fatalf("SaveNow() error = %v", err)
	}
	if err := s.SaveNow(ctx); err != nil {
		t.Fatalf("SaveNow() error = %v", err)
	}
	if store.writeCount() != 1 {
		t.Errorf("writes = %d, want 1", store.writeCount())
	}
	assertMetric(t, reg, `tdesktop_settings_writes_total{result="unchanged"} 1`)

	src.set("different")
	if err := s.SaveNow(ctx); err != nil {
		t.Fatalf("SaveNow() error = %v", err)
	}
	if store.writeCount() != 2 {
		t.Errorf("writes = %d, want 2", store.writeCount())
	}
}

func TestSaveScheduler_Remember(t *testing.T) {
	store := newRecordingStore()
	src := &blobSource{}
	src.set("loaded")
	s := newTestScheduler(t, &InlineExecutor{}, src, store, nil)

	s.Remember([]byte("loaded"))
	if err := s.SaveNow(context.Background()); err != nil {
		t.Fatal(err)
	}
	if store.writeCount() != 0 {
		t.Errorf("writes = %d, want 0 for the blob just loaded", store.writeCount())
	}
}

func TestSaveScheduler_FailureDoesNotStickFingerprint(t *testing.T) {
	store := newRecordingStore()
	src := &blobSource{}
	src.set("v1")
	reg := metric.NewRegistry()
	s := newTestScheduler(t, &InlineExecutor{}, src, store, reg)
	ctx := context.Background()

	store.fail(errDiskFull)
	if err := s.SaveNow(ctx); !errors.Is(err, errDiskFull) {
		t.Fatalf("SaveNow() error = %v, want errDiskFull", err)
	}
	assertMetric(t, reg, `tdesktop_settings_writes_total{result="error"} 1`)
	if !s.LastWrite().IsZero() {
		t.Error("LastWrite() set by a failed write")
	}

	store.fail(nil)
	if err := s.SaveNow(ctx); err != nil {
		t.Fatalf("SaveNow() error = %v", err)
	}
	if got := string(store.lastWrite()); got != "v1" {
		t.Errorf("retry wrote %q, want v1", got)
	}
}

func TestSaveScheduler_FailedTimerWriteIsDropped(t *testing.T) {
	store := newRecordingStore()
	src := &blobSource{}
	src.set("v1")
	s := newTestScheduler(t, &InlineExecutor{}, src, store, nil)

	store.fail(errDiskFull)
	s.Schedule(time.Millisecond)
	store.waitWrite(t)
	store.noWrite(t, 50*time.Millisecond)
	if s.Pending() {
		t.Error("a failed deferred write should not stay pending")
	}
}

func TestSaveScheduler_Flush(t *testing.T) {
	store := newRecordingStore()
	src := &blobSource{}
	src.set("pending")
	s := newTestScheduler(t, &InlineExecutor{}, src, store, nil)
	ctx := context.Background()

	// Nothing pending: no write.
	if err := s.Flush(ctx); err != nil {
		t.Fatal(err)
	}
	if store.writeCount() != 0 {
		t.Fatalf("Flush() without pending save wrote")
	}

	s.Schedule(time.Hour)
	if err := s.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	<-store.written
	if got := string(store.lastWrite()); got != "pending" {
		t.Errorf("flushed %q", got)
	}
	if s.Pending() {
		t.Error("Pending() = true after Flush")
	}

	// The cancelled timer must not write again.
	store.noWrite(t, 50*time.Millisecond)
}

func TestSaveScheduler_FlushAfterExecutorStopped(t *testing.T) {
	store := newRecordingStore()
	src := &blobSource{}
	src.set("late")

	loop := NewLoop()
	loop.Start()
	s := newTestScheduler(t, loop, src, store, nil)

	s.Schedule(time.Hour)
	loop.Stop()

	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if store.writeCount() != 1 {
		t.Errorf("writes = %d, want 1", store.writeCount())
	}
}

func TestSaveScheduler_CloseDiscards(t *testing.T) {
	store := newRecordingStore()
	src := &blobSource{}
	src.set("x")
	s := newTestScheduler(t, &InlineExecutor{}, src, store, nil)

	s.Schedule(10 * time.Millisecond)
	s.Close()
	s.Schedule(10 * time.Millisecond)

	store.noWrite(t, 80*time.Millisecond)
}

func TestSaveScheduler_Limiter(t *testing.T) {
	store := newRecordingStore()

	var n atomic.Int32
	s, err := NewSaveScheduler(SchedulerConfig{
		Executor: &InlineExecutor{},
		Serialize: func() []byte {
			return []byte{byte(n.Add(1))}
		},
		Write: func(ctx context.Context, blob []byte) error {
			return store.WriteSettings(ctx, "1", blob)
		},
		Limiter: rate.NewLimiter(rate.Every(time.Hour), 1),
		Logger:  logger.Discard(),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	ctx := context.Background()
	if err := s.SaveNow(ctx); err != nil {
		t.Fatalf("first SaveNow() error = %v", err)
	}

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := s.SaveNow(short); err == nil {
		t.Error("second SaveNow() should fail while the limiter has no token")
	}
	if store.writeCount() != 1 {
		t.Errorf("writes = %d, want 1", store.writeCount())
	}
}
