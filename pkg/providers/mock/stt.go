package mock

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/wordwhiz/wordwhiz/pkg/adapters/stt"
	"github.com/wordwhiz/wordwhiz/pkg/frames"
)

type STTConfig struct {
	StreamID          string
	SessionID         string
	TraceID           string
	Transcript        string
	Confidence        float64
	InterimTranscript string
	EmitInterim       bool
}

// StreamingSTT emits a scripted transcript after the first audio frame
// arrives. Useful for local runs and tests without a recognizer account.
type StreamingSTT struct {
	cfg     STTConfig
	out     chan frames.Frame
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	started bool
	emitted bool
	closed  bool
}

func NewSTT(cfg STTConfig) *StreamingSTT {
	if cfg.Transcript == "" {
		cfg.Transcript = "mock transcript"
	}
	if cfg.Confidence == 0 {
		cfg.Confidence = 0.9
	}
	return &StreamingSTT{cfg: cfg, out: make(chan frames.Frame, 16)}
}

func (s *StreamingSTT) Name() string { return "mock_stt" }

func (s *StreamingSTT) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	return nil
}

func (s *StreamingSTT) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	if !s.closed {
		s.closed = true
		close(s.out)
	}
	s.started = false
	return nil
}

// SendAudio holds the lock across emission so Close cannot interleave with
// a send. The buffer comfortably holds the scripted frames.
func (s *StreamingSTT) SendAudio(frame frames.AudioFrame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started || s.closed {
		return errors.New("not started")
	}
	if s.emitted {
		return nil
	}
	s.emitted = true

	if s.cfg.EmitInterim {
		interim := s.cfg.InterimTranscript
		if interim == "" {
			interim = s.cfg.Transcript
		}
		s.out <- frames.NewTextFrame(s.cfg.StreamID, time.Now().UnixNano(), interim, s.meta(false))
	}

	s.out <- frames.NewTextFrame(s.cfg.StreamID, time.Now().UnixNano(), s.cfg.Transcript, s.meta(true))
	return nil
}

func (s *StreamingSTT) Results() <-chan frames.Frame { return s.out }

func (s *StreamingSTT) meta(isFinal bool) map[string]string {
	meta := map[string]string{
		frames.MetaStreamID:   s.cfg.StreamID,
		frames.MetaSessionID:  s.cfg.SessionID,
		frames.MetaSource:     "stt",
		frames.MetaIsFinal:    strconv.FormatBool(isFinal),
		frames.MetaConfidence: strconv.FormatFloat(s.cfg.Confidence, 'f', -1, 64),
	}
	if s.cfg.TraceID != "" {
		meta[frames.MetaTraceID] = s.cfg.TraceID
	}
	return meta
}

var _ stt.StreamingSTT = (*StreamingSTT)(nil)
