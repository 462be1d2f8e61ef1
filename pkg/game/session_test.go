package game

import (
	"errors"
	"testing"
)

func testWords() []WordItem {
	return []WordItem{
		{Word: "cat", Difficulty: "easy", Phonetic: "kæt", Hint: "Say 'c' like a hard 'k', then 'at'"},
		{Word: "dog", Difficulty: "easy", Phonetic: "dɔg", Hint: "Start with 'd', then 'og' like 'log'"},
		{Word: "sun", Difficulty: "easy", Phonetic: "sʌn", Hint: "Say 's' like a snake, then 'un'"},
	}
}

func TestNewSessionEmptyWordList(t *testing.T) {
	if _, err := NewSession("s1", nil); !errors.Is(err, ErrEmptyWordList) {
		t.Fatalf("expected ErrEmptyWordList, got %v", err)
	}
}

func TestTurnStateMutualExclusion(t *testing.T) {
	s, err := NewSession("s1", testWords())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	states := []TurnState{TurnSpeaking, TurnIdle, TurnWaiting, TurnBusy, TurnSpeaking, TurnWaiting}
	for _, st := range states {
		if err := s.Transition(st); err != nil {
			t.Fatalf("transition to %s: %v", st, err)
		}
		snap := s.Snapshot()
		active := 0
		if snap.BotIsSpeaking {
			active++
		}
		if snap.BotIsBusy {
			active++
		}
		if snap.WaitingForChildResponse {
			active++
		}
		if active > 1 {
			t.Fatalf("more than one turn flag active in state %s: %+v", st, snap)
		}
	}
}

func TestTransitionRejectsInvalid(t *testing.T) {
	s, _ := NewSession("s1", testWords())
	// Busy is only reachable from Waiting.
	err := s.Transition(TurnBusy)
	if err == nil {
		t.Fatalf("expected invalid transition IDLE -> BUSY to fail")
	}
	var ite *InvalidTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("expected InvalidTransitionError, got %T", err)
	}
	if s.Turn() != TurnIdle {
		t.Fatalf("state mutated on rejected transition: %s", s.Turn())
	}
}

func TestCanAcceptTranscriptOnlyWhileWaiting(t *testing.T) {
	s, _ := NewSession("s1", testWords())
	if s.CanAcceptTranscript() {
		t.Fatalf("idle session must not accept transcripts")
	}
	mustTransition(t, s, TurnSpeaking)
	if s.CanAcceptTranscript() {
		t.Fatalf("speaking session must not accept transcripts")
	}
	mustTransition(t, s, TurnWaiting)
	if !s.CanAcceptTranscript() {
		t.Fatalf("waiting session must accept transcripts")
	}
	mustTransition(t, s, TurnBusy)
	if s.CanAcceptTranscript() {
		t.Fatalf("busy session must not accept transcripts")
	}
}

func TestRecordAttemptSuccess(t *testing.T) {
	s, _ := NewSession("s1", testWords())
	// Seed a couple of failures so success resets the counter from nonzero.
	s.RecordAttempt(Attempt{Success: false})
	s.RecordAttempt(Attempt{Success: false})
	out := s.RecordAttempt(Attempt{Success: true})
	if !out.Advance {
		t.Fatalf("expected advance on success")
	}
	if out.Points != PointsPerWord {
		t.Fatalf("expected %d points, got %d", PointsPerWord, out.Points)
	}
	if s.AttemptCount() != 0 {
		t.Fatalf("expected attempt count reset, got %d", s.AttemptCount())
	}
	if s.TotalScore() != PointsPerWord {
		t.Fatalf("expected total score %d, got %d", PointsPerWord, s.TotalScore())
	}
	if s.WordsCompleted() != 1 {
		t.Fatalf("expected 1 word completed, got %d", s.WordsCompleted())
	}
}

func TestRecordAttemptThreeFailuresAdvance(t *testing.T) {
	s, _ := NewSession("s1", testWords())
	for i := 0; i < 2; i++ {
		out := s.RecordAttempt(Attempt{Success: false})
		if out.Advance {
			t.Fatalf("attempt %d must not advance", i+1)
		}
		if s.AttemptCount() != i+1 {
			t.Fatalf("expected attempt count %d, got %d", i+1, s.AttemptCount())
		}
	}
	out := s.RecordAttempt(Attempt{Success: false})
	if !out.Advance {
		t.Fatalf("third failure must signal advance")
	}
	if out.Points != 0 {
		t.Fatalf("abandoned word must award 0 points, got %d", out.Points)
	}
	if s.AttemptCount() != 0 {
		t.Fatalf("expected attempt count reset, got %d", s.AttemptCount())
	}
	if s.WordsCompleted() != 0 {
		t.Fatalf("abandoned word must not count as completed")
	}
}

func TestAdvanceWordTerminalExactlyOnce(t *testing.T) {
	words := testWords()
	s, _ := NewSession("s1", words)
	for i := 1; i < len(words); i++ {
		if !s.AdvanceWord() {
			t.Fatalf("unexpected terminal at advance %d", i)
		}
	}
	if s.AdvanceWord() {
		t.Fatalf("expected terminal on final advance")
	}
	if !s.Complete() {
		t.Fatalf("expected session complete")
	}
	if _, ok := s.CurrentWord(); ok {
		t.Fatalf("expected no current word at terminal")
	}
}

func TestAdvanceWordClosesListening(t *testing.T) {
	s, _ := NewSession("s1", testWords())
	mustTransition(t, s, TurnWaiting)
	if !s.AdvanceWord() {
		t.Fatalf("unexpected terminal")
	}
	if s.Turn() != TurnIdle {
		t.Fatalf("expected listening closed after advance, got %s", s.Turn())
	}
	if s.CanAcceptTranscript() {
		t.Fatalf("transcripts must be gated until listening is re-opened")
	}
}

func TestSnapshotFields(t *testing.T) {
	s, _ := NewSession("s1", testWords())
	s.SetRecognizerReady(true)
	s.RecordAttempt(Attempt{Success: true})
	s.AdvanceWord()
	snap := s.Snapshot()
	if snap.SessionID != "s1" {
		t.Fatalf("unexpected session id %q", snap.SessionID)
	}
	if snap.CurrentWord != "dog" {
		t.Fatalf("expected current word dog, got %q", snap.CurrentWord)
	}
	if snap.CurrentWordIndex != 1 {
		t.Fatalf("expected cursor 1, got %d", snap.CurrentWordIndex)
	}
	if !snap.STTReady {
		t.Fatalf("expected sttReady true")
	}
	if snap.TotalScore != PointsPerWord || snap.WordsCompleted != 1 {
		t.Fatalf("unexpected score fields: %+v", snap)
	}
}

func TestProgress(t *testing.T) {
	s, _ := NewSession("s1", testWords())
	p := s.Progress()
	if p.Current != 1 || p.Total != 3 || p.Percentage != 0 {
		t.Fatalf("unexpected initial progress %+v", p)
	}
	s.AdvanceWord()
	p = s.Progress()
	if p.Current != 2 || p.Percentage <= 0 {
		t.Fatalf("unexpected progress after advance %+v", p)
	}
}

func mustTransition(t *testing.T, s *Session, to TurnState) {
	t.Helper()
	if err := s.Transition(to); err != nil {
		t.Fatalf("transition to %s: %v", to, err)
	}
}
