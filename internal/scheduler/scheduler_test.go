package scheduler

import (
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestScheduler_RunsImmediately(t *testing.T) {
	var runs atomic.Int32
	job := func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}

	s := New("test", time.Hour, job, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	deadline := time.After(2 * time.Second)
	for runs.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("Job never ran")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if got := s.Stats().Runs; got != 1 {
		t.Errorf("Expected 1 run, got %d", got)
	}
}

func TestScheduler_NeverOverlaps(t *testing.T) {
	var active, maxActive, runs atomic.Int32
	job := func(ctx context.Context) error {
		n := active.Add(1)
		if n > maxActive.Load() {
			maxActive.Store(n)
		}
		runs.Add(1)
		time.Sleep(50 * time.Millisecond)
		active.Add(-1)
		return nil
	}

	s := New("test", time.Millisecond, job, quietLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	_ = s.Start(ctx)

	if maxActive.Load() != 1 {
		t.Errorf("Expected at most 1 concurrent execution, saw %d", maxActive.Load())
	}
	if runs.Load() == 0 {
		t.Error("Job never ran")
	}
}

func TestScheduler_SkipsWhileBusy(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var once atomic.Bool
	job := func(ctx context.Context) error {
		if once.CompareAndSwap(false, true) {
			close(started)
		}
		<-release
		return nil
	}

	s := New("test", 5*time.Millisecond, job, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// Ticks fire while the first run is blocked; each must be skipped,
	// not queued.
	go func() {
		<-started
		for s.Stats().Skips < 3 {
			time.Sleep(5 * time.Millisecond)
		}
		close(release)
		cancel()
	}()
	go func() { done <- s.Start(ctx) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Scheduler did not stop")
	}

	stats := s.Stats()
	if stats.Skips < 3 {
		t.Errorf("Expected at least 3 skipped ticks, got %d", stats.Skips)
	}
}

func TestScheduler_DoesNotQueueMissedTicks(t *testing.T) {
	release := make(chan struct{})
	var runs atomic.Int32
	job := func(ctx context.Context) error {
		runs.Add(1)
		<-release
		return nil
	}

	s := New("test", 10*time.Millisecond, job, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	// Several ticks fire while the first run is blocked.
	deadline := time.After(5 * time.Second)
	for s.Stats().Skips < 3 {
		select {
		case <-deadline:
			t.Fatal("Ticks were never skipped")
		case <-time.After(5 * time.Millisecond):
		}
	}
	// The skipped ticks must not have re-entered the job; it is still
	// inside its first invocation.
	if got := runs.Load(); got != 1 {
		t.Errorf("Expected exactly 1 run while busy, got %d", got)
	}

	cancel()
	close(release)
	<-done
}

func TestScheduler_CountsErrors(t *testing.T) {
	job := func(ctx context.Context) error {
		return errors.New("boom")
	}

	s := New("test", time.Hour, job, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	deadline := time.After(2 * time.Second)
	for s.Stats().Errors == 0 {
		select {
		case <-deadline:
			t.Fatal("Error never recorded")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	<-done
}

func TestScheduler_RecoversFromPanic(t *testing.T) {
	var runs atomic.Int32
	job := func(ctx context.Context) error {
		runs.Add(1)
		panic("boom")
	}

	s := New("test", 10*time.Millisecond, job, quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	deadline := time.After(2 * time.Second)
	for runs.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("Scheduler did not survive the panic")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	<-done

	if s.Stats().Running {
		t.Error("Scheduler still marked running after panic")
	}
}
