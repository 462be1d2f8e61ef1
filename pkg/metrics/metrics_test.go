package metrics

import (
	"testing"
	"time"
)

func TestMemoryObserverRecordsByName(t *testing.T) {
	m := NewMemoryObserver()
	m.RecordEvent(AttemptScored("s1", "cat", 92, true))
	m.RecordEvent(SpeechLatency("s1", 120*time.Millisecond))
	m.RecordEvent(AttemptScored("s1", "dog", 40, false))

	scored := m.EventsNamed(EventAttemptScored)
	if len(scored) != 2 {
		t.Fatalf("expected 2 scored events, got %d", len(scored))
	}
	if scored[0].Value != 92 || scored[0].Tags["word"] != "cat" {
		t.Fatalf("unexpected event payload: %+v", scored[0])
	}
	if got := m.EventsNamed(EventSpeechLatency); len(got) != 1 || got[0].Value != 120 {
		t.Fatalf("latency event missing: %+v", got)
	}
}

func TestAsyncObserverFlushesOnClose(t *testing.T) {
	inner := NewMemoryObserver()
	a := NewAsyncObserver(inner, 8)
	for i := 0; i < 5; i++ {
		a.RecordEvent(SessionStarted("s1", 10))
	}
	a.Close()
	if got := len(inner.Events()); got != 5 {
		t.Fatalf("expected 5 flushed events, got %d", got)
	}
	// Recording after close is a no-op, not a panic.
	a.RecordEvent(SessionStarted("s1", 10))
	if a.Dropped() != 0 {
		t.Fatalf("buffered sends should not have dropped: %d", a.Dropped())
	}
}

func TestSamplingObserverRate(t *testing.T) {
	inner := NewMemoryObserver()
	s := NewSamplingObserver(inner, 0.5)
	for i := 0; i < 10; i++ {
		s.RecordEvent(Event{Name: "tick"})
	}
	if got := len(inner.Events()); got != 5 {
		t.Fatalf("expected every other event, got %d", got)
	}

	off := NewSamplingObserver(inner, 0)
	off.RecordEvent(Event{Name: "tick"})
	if got := len(inner.Events()); got != 5 {
		t.Fatalf("zero rate must drop everything, got %d", got)
	}
}
