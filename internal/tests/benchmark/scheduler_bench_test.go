package benchmark

import (
	"context"
	"testing"
	"time"

	"github.com/Mesbahzade/tdesktop/internal/core/service"
	"github.com/Mesbahzade/tdesktop/internal/core/settings"
	"github.com/Mesbahzade/tdesktop/internal/storage"
	"github.com/Mesbahzade/tdesktop/internal/telemetry/logger"
)

// BenchmarkScheduleCoalesce measures re-arming a pending save, the cost
// paid by every setter call in a burst.
func BenchmarkScheduleCoalesce(b *testing.B) {
	loop := service.NewLoop()
	loop.Start()
	defer loop.Stop()

	s := populatedSettings(10)
	sched, err := service.NewSaveScheduler(service.SchedulerConfig{
		Executor:  loop,
		Serialize: s.Serialize,
		Write:     func(context.Context, []byte) error { return nil },
		Logger:    logger.Discard(),
	})
	if err != nil {
		b.Fatalf("NewSaveScheduler failed: %v", err)
	}
	defer sched.Close()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sched.Schedule(time.Hour)
	}
}

// BenchmarkSessionDo measures a setter round trip through the session
// loop with auto-save scheduling.
func BenchmarkSessionDo(b *testing.B) {
	ctx := context.Background()
	sess, err := service.NewSession(service.SessionConfig{
		UserID:    "bench",
		Store:     storage.NewMemorySettingsStore(),
		Logger:    logger.Discard(),
		SaveDelay: time.Hour,
	})
	if err != nil {
		b.Fatalf("NewSession failed: %v", err)
	}
	defer sess.Close(ctx)
	if err := sess.Start(ctx); err != nil {
		b.Fatalf("Start failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		err := sess.Do(ctx, func(s *settings.Settings) {
			s.SetThirdColumnWidth(i)
		})
		if err != nil {
			b.Fatalf("Do failed: %v", err)
		}
	}
}

// BenchmarkSaveNow measures a full serialize and write.
func BenchmarkSaveNow(b *testing.B) {
	ctx := context.Background()
	s := populatedSettings(100)
	exec := &service.InlineExecutor{}
	sched, err := service.NewSaveScheduler(service.SchedulerConfig{
		Executor:  exec,
		Serialize: s.Serialize,
		Write:     func(context.Context, []byte) error { return nil },
		Logger:    logger.Discard(),
	})
	if err != nil {
		b.Fatalf("NewSaveScheduler failed: %v", err)
	}
	defer sched.Close()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Alternate values so the fingerprint never matches.
		s.SetArchiveCollapsed(i%2 == 0)
		if err := sched.SaveNow(ctx); err != nil {
			b.Fatalf("SaveNow failed: %v", err)
		}
	}
}
