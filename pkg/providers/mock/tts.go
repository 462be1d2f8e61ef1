package mock

import (
	"context"

	"github.com/wordwhiz/wordwhiz/pkg/adapters/tts"
)

type TTSConfig struct {
	SampleRate int
	// BytesPerChar scales the silent PCM output with the input text so
	// longer sentences take longer to play back.
	BytesPerChar int
}

// Synthesizer returns deterministic silent PCM sized to the input text.
type Synthesizer struct {
	cfg TTSConfig
}

func NewTTS(cfg TTSConfig) *Synthesizer {
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}
	if cfg.BytesPerChar == 0 {
		cfg.BytesPerChar = 64
	}
	return &Synthesizer{cfg: cfg}
}

func (s *Synthesizer) Name() string { return "mock_tts" }

func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	n := len(text) * s.cfg.BytesPerChar
	if n == 0 {
		n = s.cfg.BytesPerChar
	}
	// Keep sample alignment for 16-bit PCM.
	if n%2 != 0 {
		n++
	}
	return make([]byte, n), nil
}

var _ tts.Synthesizer = (*Synthesizer)(nil)
