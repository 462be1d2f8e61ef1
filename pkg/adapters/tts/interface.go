package tts

import "context"

// Synthesizer defines the contract for any text-to-speech vendor
// implementation. Synthesis is buffered rather than streamed: the session
// layer owns frame pacing, so adapters return the whole utterance as raw
// 16 kHz mono 16-bit linear PCM.
type Synthesizer interface {
	// Name returns adapter name for logging.
	Name() string
	// Synthesize renders text as PCM audio.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Config contains vendor-agnostic synthesizer configuration.
type Config struct {
	SampleRate int
	Channels   int
}
