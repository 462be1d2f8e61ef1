package stt

import (
	"context"

	"github.com/wordwhiz/wordwhiz/pkg/frames"
)

// StreamingSTT defines the contract for any speech-to-text vendor
// implementation.
type StreamingSTT interface {
	// Name returns adapter name for logging.
	Name() string
	// Start initializes the recognizer connection.
	Start(ctx context.Context) error
	// Close shuts down the recognizer connection and its result channel.
	Close() error
	// SendAudio forwards a microphone frame to the recognizer.
	SendAudio(frame frames.AudioFrame) error
	// Results returns transcript frames as they arrive. Text frames carry
	// frames.MetaIsFinal and frames.MetaConfidence metadata.
	Results() <-chan frames.Frame
}

// Config contains vendor-agnostic recognizer configuration.
type Config struct {
	StreamID   string
	SessionID  string
	TraceID    string
	SampleRate int
	Language   string
	Interim    bool
}
