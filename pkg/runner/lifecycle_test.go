package runner

import (
	"context"
	"testing"
	"time"
)

type recordingDrainer struct {
	drained chan struct{}
	delay   time.Duration
}

func (d *recordingDrainer) Drain() error {
	if d.delay > 0 {
		time.Sleep(d.delay)
	}
	close(d.drained)
	return nil
}

func TestRunStopsOnContextCancel(t *testing.T) {
	drainer := &recordingDrainer{drained: make(chan struct{})}
	started := make(chan struct{})
	r := NewLifecycleRunner(drainer, Hooks{
		OnStart: func() { close(started) },
	}, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx) }()

	<-started
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("run never returned")
	}
	select {
	case <-drainer.drained:
	default:
		t.Fatalf("drainer was not invoked")
	}
	if r.State() != StateStopped {
		t.Fatalf("expected stopped state, got %d", r.State())
	}
}

func TestStopReportsDrainTimeout(t *testing.T) {
	drainer := &recordingDrainer{drained: make(chan struct{}), delay: 500 * time.Millisecond}
	r := NewLifecycleRunner(drainer, Hooks{}, 10*time.Millisecond)
	if err := r.Stop(); err == nil {
		t.Fatalf("expected drain timeout error")
	}
}

func TestRunRejectsSecondStart(t *testing.T) {
	r := NewLifecycleRunner(nil, Hooks{}, time.Second)
	if err := r.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := r.Run(context.Background()); err == nil {
		t.Fatalf("run after stop must fail")
	}
}
