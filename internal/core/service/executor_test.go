package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestLoop_RunsInPostOrder(t *testing.T) {
	loop := NewLoop()
	loop.Start()
	defer loop.Stop()

	var (
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < 100; i++ {
		i := i
		if !loop.Post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
		}) {
			t.Fatal("Post() = false on a running loop")
		}
	}
	if err := loop.Do(context.Background(), func() {}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 100 {
		t.Fatalf("ran %d functions, want 100", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("got[%d] = %d, out of order", i, v)
		}
	}
}

func TestLoop_StopDrainsQueue(t *testing.T) {
	loop := NewLoop()
	loop.Start()

	block := make(chan struct{})
	loop.Post(func() { <-block })

	ran := make(chan struct{}, 1)
	loop.Post(func() { ran <- struct{}{} })

	stopped := make(chan struct{})
	go func() {
		loop.Stop()
		close(stopped)
	}()
	close(block)

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop() did not return")
	}
	select {
	case <-ran:
	default:
		t.Error("work queued before Stop was not run")
	}

	if loop.Post(func() {}) {
		t.Error("Post() after Stop should report false")
	}
	if err := loop.Do(context.Background(), func() {}); !errors.Is(err, ErrExecutorStopped) {
		t.Errorf("Do() after Stop error = %v, want ErrExecutorStopped", err)
	}

	// Second Stop returns immediately.
	loop.Stop()
}

func TestLoop_StopWithoutStart(t *testing.T) {
	loop := NewLoop()
	loop.Post(func() { t.Error("queued work ran on a loop that never started") })
	loop.Stop()
}

func TestLoop_StartAfterStop(t *testing.T) {
	loop := NewLoop()
	loop.Stop()
	loop.Start()

	if loop.Post(func() { t.Error("posted work ran after Stop") }) {
		t.Error("Post after Stop returned true")
	}
	loop.Stop()
}

func TestRun_ContextCancelled(t *testing.T) {
	loop := NewLoop()
	loop.Start()
	defer loop.Stop()

	release := make(chan struct{})
	defer close(release)
	loop.Post(func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := Run(ctx, loop, func() {}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run() error = %v, want DeadlineExceeded", err)
	}
}

func TestInlineExecutor(t *testing.T) {
	var exec InlineExecutor
	ran := false
	if !exec.Post(func() { ran = true }) {
		t.Fatal("Post() = false")
	}
	if !ran {
		t.Error("InlineExecutor should run fn before Post returns")
	}
	if err := Run(context.Background(), &exec, func() {}); err != nil {
		t.Errorf("Run() error = %v", err)
	}
}
