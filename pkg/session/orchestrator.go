// Package session runs one live game per connection: it consumes recognizer
// output, drives the turn state machine, scores attempts, and streams
// synthesized speech back to the client.
package session

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wordwhiz/wordwhiz/pkg/adapters/stt"
	"github.com/wordwhiz/wordwhiz/pkg/adapters/tts"
	"github.com/wordwhiz/wordwhiz/pkg/audio"
	"github.com/wordwhiz/wordwhiz/pkg/frames"
	"github.com/wordwhiz/wordwhiz/pkg/game"
	"github.com/wordwhiz/wordwhiz/pkg/logging"
	"github.com/wordwhiz/wordwhiz/pkg/metrics"
	"github.com/wordwhiz/wordwhiz/pkg/redact"
	"github.com/wordwhiz/wordwhiz/pkg/scoring"
	"github.com/wordwhiz/wordwhiz/pkg/store"
	"github.com/wordwhiz/wordwhiz/pkg/transports"
	"github.com/wordwhiz/wordwhiz/pkg/tutor"
)

// persistTimeout bounds fire-and-forget store writes.
const persistTimeout = 5 * time.Second

// Config wires one orchestrator. All collaborators are required except
// Store, which may be nil when persistence is disabled.
type Config struct {
	Session     *game.Session
	Conn        transports.Conn
	Recognizer  stt.StreamingSTT
	Synthesizer tts.Synthesizer
	Feedback    tutor.FeedbackGenerator
	Store       store.Store
	Metrics     metrics.Observer
	ChildName   string
	Interests   []string
}

// Orchestrator serializes all game mutations for one session behind a
// mutex. The audio path stays off that mutex: the barge-in gate reads an
// atomic speaking flag so microphone frames are never blocked behind a
// scoring turn.
type Orchestrator struct {
	cfg    Config
	sess   *game.Session
	framer audio.Framer
	gate   *audio.Gate
	logger *slog.Logger

	mu       sync.Mutex
	speaking atomic.Bool

	// listenSince is the nanosecond timestamp when listening last opened,
	// zero while closed. Final transcripts whose frame timestamp predates
	// it were spoken against an earlier turn and are discarded.
	listenSince atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func New(cfg Config) *Orchestrator {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NoopObserver{}
	}
	o := &Orchestrator{
		cfg:    cfg,
		sess:   cfg.Session,
		framer: audio.NewFramer(),
		logger: logging.NewComponentLogger(slog.Default(), "orchestrator").With(
			slog.String("session_id", cfg.Session.ID())),
		done: make(chan struct{}),
	}
	o.gate = audio.NewGate(
		o.speaking.Load,
		func(f frames.AudioFrame) error { return cfg.Recognizer.SendAudio(f) },
	)
	return o
}

func (o *Orchestrator) SessionID() string { return o.sess.ID() }

// Start connects the recognizer, greets the child, introduces the first
// word, and opens listening. It blocks until the opening speech finishes.
func (o *Orchestrator) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	o.ctx, o.cancel = context.WithCancel(ctx)

	if err := o.cfg.Recognizer.Start(o.ctx); err != nil {
		close(o.done)
		return err
	}

	o.mu.Lock()
	o.sess.SetRecognizerReady(true)
	o.cfg.Metrics.RecordEvent(metrics.SessionStarted(o.sess.ID(), len(o.sess.Snapshot().WordList)))
	o.sendSnapshot()
	o.mu.Unlock()

	go o.consumeTranscripts()

	o.mu.Lock()
	defer o.mu.Unlock()

	o.speak(tutor.Greeting(o.cfg.ChildName, o.cfg.Interests), game.TurnIdle)

	if w, ok := o.sess.CurrentWord(); ok {
		o.speak(tutor.FirstWordIntroduction(w), game.TurnWaiting)
	}
	o.sendSnapshot()
	return nil
}

// Close tears the session down. The recognizer is released synchronously so
// no transcript can arrive after Close returns.
func (o *Orchestrator) Close() error {
	if o.cancel != nil {
		o.cancel()
	}
	err := o.cfg.Recognizer.Close()
	if o.ctx != nil {
		// Started: wait for the transcript loop to drain.
		<-o.done
	}

	o.mu.Lock()
	o.sess.SetRecognizerReady(false)
	o.mu.Unlock()

	o.logger.Info("session_closed")
	return err
}

// HandleAudio forwards one microphone chunk through the barge-in gate.
// Frames arriving while the bot speaks are dropped, never buffered.
func (o *Orchestrator) HandleAudio(samples []int16) error {
	pcm := audio.BytesFromInt16(samples)
	f := frames.NewAudioFrame(o.sess.ID(), time.Now().UnixNano(), pcm, audio.SampleRate, audio.Channels, map[string]string{
		frames.MetaSource: "client",
	})
	_, err := o.gate.Submit(f)
	return err
}

// setTurn transitions the state machine and tracks the listening window.
// Eligibility for scoring is judged against the window open time, not the
// state at dequeue time, so a duplicate final queued behind a turn in
// progress cannot leak into the next word.
func (o *Orchestrator) setTurn(to game.TurnState) error {
	if err := o.sess.Transition(to); err != nil {
		return err
	}
	if to == game.TurnWaiting {
		o.listenSince.Store(time.Now().UnixNano())
	} else {
		o.listenSince.Store(0)
	}
	return nil
}

// Snapshot renders the current wire state under the session lock.
func (o *Orchestrator) Snapshot() game.Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sess.Snapshot()
}

func (o *Orchestrator) consumeTranscripts() {
	defer close(o.done)
	for f := range o.cfg.Recognizer.Results() {
		tf, ok := f.(frames.TextFrame)
		if !ok {
			continue
		}
		meta := tf.Meta()
		isFinal := meta[frames.MetaIsFinal] == "true"
		confidence, _ := strconv.ParseFloat(meta[frames.MetaConfidence], 64)

		_ = o.cfg.Conn.SendEvent(transports.EventTranscript, transports.TranscriptData{
			Text:       tf.Text(),
			IsFinal:    isFinal,
			Confidence: confidence,
		})

		if !isFinal {
			continue
		}
		opened := o.listenSince.Load()
		if opened == 0 || tf.PTS() < opened {
			o.logger.Debug("transcript_discarded",
				slog.String("reason", "outside_listening_window"),
				slog.String("transcript", redact.Text(tf.Text())))
			continue
		}
		o.handleFinalTranscript(tf.Text(), confidence)
	}
}

func (o *Orchestrator) handleFinalTranscript(transcript string, confidence float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.sess.CanAcceptTranscript() {
		o.logger.Debug("transcript_discarded",
			slog.String("turn", o.sess.Turn().String()),
			slog.String("transcript", redact.Text(transcript)))
		return
	}
	word, ok := o.sess.CurrentWord()
	if !ok {
		return
	}

	if err := o.setTurn(game.TurnBusy); err != nil {
		o.logger.Error("turn_transition_rejected", slog.String("error", err.Error()))
		return
	}
	o.sendSnapshot()

	result := scoring.Analyze(word.Word, transcript, confidence)
	attemptNumber := o.sess.AttemptCount() + 1

	analysis := tutor.Analysis{
		TargetWord:    word.Word,
		ChildSaid:     transcript,
		Score:         result.Score,
		AttemptNumber: attemptNumber,
		MaxAttempts:   game.MaxAttempts,
		PhonemeErrors: result.PhonemeErrors,
		Confidence:    confidence,
		Success:       result.Success,
	}

	o.persistAttempt(analysis)

	outcome := o.sess.RecordAttempt(game.Attempt{
		TargetWord:           word.Word,
		ChildSaid:            transcript,
		PronunciationScore:   result.Score,
		AttemptNumber:        attemptNumber,
		MaxAttempts:          game.MaxAttempts,
		PhonemeErrors:        result.PhonemeErrors,
		RecognizerConfidence: confidence,
		Success:              result.Success,
	})

	o.logger.Info("attempt_scored",
		slog.String("word", word.Word),
		slog.String("transcript", redact.Text(transcript)),
		slog.Int("score", result.Score),
		slog.Int("attempt", attemptNumber),
		slog.Bool("success", result.Success))
	o.cfg.Metrics.RecordEvent(metrics.AttemptScored(o.sess.ID(), word.Word, result.Score, result.Success))

	feedback := o.generateFeedback(analysis)
	_ = o.cfg.Conn.SendEvent(transports.EventFeedback, transports.FeedbackData{
		Text:    feedback,
		Success: result.Success,
	})

	o.persistProgress()

	if !outcome.Advance {
		// Same word again: feedback ends with listening reopened.
		o.speak(feedback, game.TurnWaiting)
		o.sendSnapshot()
		return
	}

	o.speak(feedback, game.TurnIdle)

	if o.sess.AdvanceWord() {
		if next, ok := o.sess.CurrentWord(); ok {
			o.speak(tutor.NextWordIntroduction(next), game.TurnWaiting)
		}
		o.sendSnapshot()
		return
	}

	// Word list exhausted.
	o.persistCompletion()
	o.cfg.Metrics.RecordEvent(metrics.SessionCompleted(o.sess.ID(), o.sess.TotalScore(), o.sess.WordsCompleted()))
	o.speak(tutor.CompletionSummary(o.cfg.ChildName, o.sess.TotalScore()), game.TurnIdle)
	o.sendSnapshot()
}

// speak synthesizes text and streams it as paced audio_chunk events followed
// by audio_end, then lands the turn on endState. Synthesis failure skips the
// audio but still lands on endState so the game cannot wedge.
func (o *Orchestrator) speak(text string, endState game.TurnState) {
	if err := o.setTurn(game.TurnSpeaking); err != nil {
		o.logger.Error("turn_transition_rejected", slog.String("error", err.Error()))
		return
	}
	o.speaking.Store(true)
	o.sendSnapshot()

	started := time.Now()
	defer func() {
		o.cfg.Metrics.RecordEvent(metrics.SpeechLatency(o.sess.ID(), time.Since(started)))
		o.speaking.Store(false)
		if err := o.setTurn(endState); err != nil {
			o.logger.Error("turn_transition_rejected", slog.String("error", err.Error()))
		}
		o.sendSnapshot()
	}()

	pcm, err := o.cfg.Synthesizer.Synthesize(o.ctx, text)
	if err != nil {
		o.logger.Error("synthesis_failed", slog.String("error", err.Error()))
		return
	}

	err = o.framer.Stream(o.ctx, pcm, func(chunk []byte) error {
		return o.cfg.Conn.SendEvent(transports.EventAudioChunk, transports.AudioChunkData(chunk))
	})
	if err != nil {
		o.logger.Warn("audio_stream_interrupted", slog.String("error", err.Error()))
		return
	}
	_ = o.cfg.Conn.SendEvent(transports.EventAudioEnd, struct{}{})
}

func (o *Orchestrator) generateFeedback(analysis tutor.Analysis) string {
	feedback, err := o.cfg.Feedback.GenerateFeedback(o.ctx, analysis, o.cfg.ChildName, o.sess.TotalScore())
	if err != nil {
		o.logger.Warn("feedback_generation_failed", slog.String("error", err.Error()))
		return tutor.FallbackFeedback(analysis)
	}
	return feedback
}

func (o *Orchestrator) sendSnapshot() {
	_ = o.cfg.Conn.SendEvent(transports.EventGameState, o.sess.Snapshot())
}

// SendError reports a recoverable failure and reopens listening if the
// session was mid-attempt.
func (o *Orchestrator) SendError(message string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.sess.Turn() == game.TurnBusy {
		if err := o.setTurn(game.TurnWaiting); err != nil {
			o.logger.Error("turn_transition_rejected", slog.String("error", err.Error()))
		}
	}
	_ = o.cfg.Conn.SendEvent(transports.EventError, transports.ErrorData{Message: message})
	o.sendSnapshot()
}

func (o *Orchestrator) persistAttempt(analysis tutor.Analysis) {
	if o.cfg.Store == nil {
		return
	}
	attempt := store.WordAttempt{
		SessionID:            o.sess.ID(),
		Word:                 analysis.TargetWord,
		AttemptNumber:        analysis.AttemptNumber,
		Transcript:           analysis.ChildSaid,
		PronunciationScore:   analysis.Score,
		RecognizerConfidence: int(math.Round(analysis.Confidence * 100)),
		Success:              analysis.Success,
		PhonemeErrors:        analysis.PhonemeErrors,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := o.cfg.Store.CreateWordAttempt(ctx, attempt); err != nil {
			o.logger.Warn("attempt_persist_failed", slog.String("error", err.Error()))
		}
	}()
}

func (o *Orchestrator) persistProgress() {
	if o.cfg.Store == nil {
		return
	}
	update := store.SessionUpdate{
		TotalPoints:      o.sess.TotalScore(),
		WordsCompleted:   o.sess.WordsCompleted(),
		CurrentWordIndex: o.sess.Snapshot().CurrentWordIndex,
	}
	id := o.sess.ID()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := o.cfg.Store.UpdateGameSession(ctx, id, update); err != nil {
			o.logger.Warn("session_update_failed", slog.String("error", err.Error()))
		}
	}()
}

func (o *Orchestrator) persistCompletion() {
	if o.cfg.Store == nil {
		return
	}
	id := o.sess.ID()
	score := o.sess.TotalScore()
	completed := o.sess.WordsCompleted()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := o.cfg.Store.CompleteGameSession(ctx, id, score, completed); err != nil {
			o.logger.Warn("session_complete_failed", slog.String("error", err.Error()))
		}
	}()
}
