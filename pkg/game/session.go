package game

import "errors"

const (
	// MaxAttempts caps scored attempts per word before it is abandoned.
	MaxAttempts = 3
	// PointsPerWord is awarded for every successful attempt.
	PointsPerWord = 10
)

// ErrEmptyWordList is returned when a session is started without words.
// The caller owns fallback word generation; the state machine never invents
// words on its own.
var ErrEmptyWordList = errors.New("word list is empty")

// Session owns the turn state, the word cursor and the attempt/score
// counters for one connection.
//
// Session is not internally synchronized: all mutations for one session must
// be serialized by the caller (the orchestrator holds a per-session lock).
type Session struct {
	id              string
	words           []WordItem
	cursor          int
	attemptCount    int
	totalScore      int
	wordsCompleted  int
	turn            TurnState
	recognizerReady bool
}

// NewSession constructs a session at cursor 0 with all counters zeroed and
// the turn state idle.
func NewSession(id string, words []WordItem) (*Session, error) {
	if len(words) == 0 {
		return nil, ErrEmptyWordList
	}
	return &Session{id: id, words: words, turn: TurnIdle}, nil
}

func (s *Session) ID() string { return s.id }

// Turn returns the current turn owner.
func (s *Session) Turn() TurnState { return s.turn }

// Transition moves the turn state, rejecting transitions outside the valid
// set. A transition to the current state is a no-op.
func (s *Session) Transition(to TurnState) error {
	if to == s.turn {
		return nil
	}
	if !turnTransitionValid(s.turn, to) {
		return &InvalidTransitionError{From: s.turn, To: to}
	}
	s.turn = to
	return nil
}

// SetRecognizerReady tracks whether the inbound transcript channel is usable.
// Orthogonal to turn ownership.
func (s *Session) SetRecognizerReady(ready bool) { s.recognizerReady = ready }

func (s *Session) RecognizerReady() bool { return s.recognizerReady }

// CanAcceptTranscript is the sole gate for scoring an inbound transcript:
// only while the session is waiting for the child may a final transcript
// trigger an attempt. Transcripts arriving at any other time are discarded.
func (s *Session) CanAcceptTranscript() bool {
	return s.turn == TurnWaiting
}

// RecordAttempt applies one scored attempt. Success awards PointsPerWord and
// signals advance; the third consecutive failure abandons the word and also
// signals advance, with no points. attemptCount never exceeds MaxAttempts
// before resetting.
func (s *Session) RecordAttempt(a Attempt) Outcome {
	if a.Success {
		s.totalScore += PointsPerWord
		s.wordsCompleted++
		s.attemptCount = 0
		return Outcome{Advance: true, Points: PointsPerWord}
	}
	s.attemptCount++
	if s.attemptCount >= MaxAttempts {
		s.attemptCount = 0
		return Outcome{Advance: true}
	}
	return Outcome{}
}

// AdvanceWord moves the cursor forward. It returns false exactly once per
// session, when the cursor passes the final word. On a successful advance the
// attempt counter resets and the turn drops to idle so the orchestrator must
// explicitly re-open listening.
func (s *Session) AdvanceWord() bool {
	s.cursor++
	if s.cursor >= len(s.words) {
		return false
	}
	s.attemptCount = 0
	if s.turn == TurnWaiting {
		s.turn = TurnIdle
	}
	return true
}

// CurrentWord returns the word at the cursor, or false at terminal state.
func (s *Session) CurrentWord() (WordItem, bool) {
	if s.cursor >= len(s.words) {
		return WordItem{}, false
	}
	return s.words[s.cursor], true
}

// Complete reports whether the word list is exhausted.
func (s *Session) Complete() bool {
	return s.cursor >= len(s.words)
}

func (s *Session) AttemptCount() int   { return s.attemptCount }
func (s *Session) TotalScore() int     { return s.totalScore }
func (s *Session) WordsCompleted() int { return s.wordsCompleted }
func (s *Session) WordCount() int      { return len(s.words) }

// Snapshot renders the wire representation. The turn enum is projected onto
// the boolean flags the client understands.
func (s *Session) Snapshot() Snapshot {
	current := ""
	if w, ok := s.CurrentWord(); ok {
		current = w.Word
	}
	words := make([]WordItem, len(s.words))
	copy(words, s.words)
	return Snapshot{
		BotIsSpeaking:           s.turn == TurnSpeaking,
		BotIsBusy:               s.turn == TurnBusy,
		WaitingForChildResponse: s.turn == TurnWaiting,
		STTReady:                s.recognizerReady,
		CurrentWord:             current,
		WordList:                words,
		CurrentWordIndex:        s.cursor,
		AttemptCount:            s.attemptCount,
		TotalScore:              s.totalScore,
		WordsCompleted:          s.wordsCompleted,
		SessionID:               s.id,
	}
}

// Progress reports cursor position as current/total/percentage.
func (s *Session) Progress() Progress {
	total := len(s.words)
	current := s.cursor + 1
	if current > total {
		current = total
	}
	return Progress{
		Current:    current,
		Total:      total,
		Percentage: float64(s.cursor) / float64(total) * 100,
	}
}
