// Package metrics collects lightweight gameplay and latency events.
package metrics

import "time"

// Event names emitted by the session layer.
const (
	EventSessionStarted   = "session_started"
	EventSessionCompleted = "session_completed"
	EventAttemptScored    = "attempt_scored"
	EventWordCompleted    = "word_completed"
	EventSpeechLatency    = "speech_latency_ms"
	EventSTTFinal         = "stt_final"
)

type Event struct {
	Name   string
	Time   time.Time
	Value  float64
	Tags   map[string]string
	Fields map[string]any
}

type Observer interface {
	RecordEvent(ev Event)
}

type Flusher interface {
	Flush() error
}

type NoopObserver struct{}

func (NoopObserver) RecordEvent(Event) {}

// AttemptScored builds the event recorded after every scored pronunciation
// attempt.
func AttemptScored(sessionID, word string, score int, success bool) Event {
	return Event{
		Name:  EventAttemptScored,
		Time:  time.Now(),
		Value: float64(score),
		Tags:  map[string]string{"session_id": sessionID, "word": word},
		Fields: map[string]any{
			"success": success,
		},
	}
}

// SpeechLatency records how long one synthesize-and-stream turn took.
func SpeechLatency(sessionID string, d time.Duration) Event {
	return Event{
		Name:  EventSpeechLatency,
		Time:  time.Now(),
		Value: float64(d.Milliseconds()),
		Tags:  map[string]string{"session_id": sessionID},
	}
}

// SessionStarted records a new game session with its word count.
func SessionStarted(sessionID string, wordCount int) Event {
	return Event{
		Name:  EventSessionStarted,
		Time:  time.Now(),
		Value: float64(wordCount),
		Tags:  map[string]string{"session_id": sessionID},
	}
}

// SessionCompleted records the final score of a finished session.
func SessionCompleted(sessionID string, totalScore, wordsCompleted int) Event {
	return Event{
		Name:  EventSessionCompleted,
		Time:  time.Now(),
		Value: float64(totalScore),
		Tags:  map[string]string{"session_id": sessionID},
		Fields: map[string]any{
			"words_completed": wordsCompleted,
		},
	}
}
