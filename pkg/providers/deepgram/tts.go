package deepgram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/wordwhiz/wordwhiz/pkg/adapters/tts"
	"github.com/wordwhiz/wordwhiz/pkg/errorsx"
	"github.com/wordwhiz/wordwhiz/pkg/logging"
	"github.com/wordwhiz/wordwhiz/pkg/resilience"
)

const speakEndpoint = "https://api.deepgram.com/v1/speak"

type TTSConfig struct {
	APIKey     string
	Model      string
	SampleRate int
	Timeout    time.Duration
}

// Speaker synthesizes speech via Deepgram's REST speak API. Responses are
// requested as raw linear16 PCM with no container so the audio can be framed
// byte-for-byte without stripping a header first.
type Speaker struct {
	cfg    TTSConfig
	client *http.Client
	retry  resilience.RetryPolicy
	logger *slog.Logger
}

func NewSpeaker(cfg TTSConfig) *Speaker {
	if cfg.Model == "" {
		cfg.Model = "aura-luna-en"
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Speaker{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		retry:  resilience.DefaultRetryPolicy(),
		logger: logging.NewComponentLogger(slog.Default(), "deepgram_tts"),
	}
}

func (s *Speaker) Name() string { return "deepgram_speak" }

func (s *Speaker) Synthesize(ctx context.Context, text string) ([]byte, error) {
	var pcm []byte
	err := s.retry.Do(ctx, func() error {
		var err error
		pcm, err = s.synthesizeOnce(ctx, text)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pcm, nil
}

func (s *Speaker) synthesizeOnce(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}

	q := url.Values{}
	q.Set("model", s.cfg.Model)
	q.Set("encoding", "linear16")
	q.Set("sample_rate", strconv.Itoa(s.cfg.SampleRate))
	q.Set("container", "none")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, speakEndpoint+"?"+q.Encode(), bytes.NewReader(body))
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}
	req.Header.Set("Authorization", "Token "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("speak_request_failed",
			slog.String("error", err.Error()),
			slog.String("model", s.cfg.Model))
		return nil, errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		s.logger.Warn("speak_rate_limited",
			slog.String("model", s.cfg.Model),
			slog.String("status", resp.Status))
		return nil, errorsx.Wrap(
			resilience.RateLimitError{Provider: "deepgram", Message: resp.Status},
			errorsx.ReasonTTSRateLimit)
	}
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		s.logger.Error("speak_unexpected_status",
			slog.String("status", resp.Status),
			slog.String("body", string(detail)))
		return nil, errorsx.Wrap(
			fmt.Errorf("deepgram speak: %s", resp.Status),
			errorsx.ReasonTTSSynthesize)
	}

	pcm, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errorsx.Wrap(err, errorsx.ReasonTTSSynthesize)
	}

	s.logger.Debug("speak_completed",
		slog.Int("text_len", len(text)),
		slog.Int("pcm_bytes", len(pcm)),
		slog.Duration("elapsed", time.Since(start)))

	return pcm, nil
}

var _ tts.Synthesizer = (*Speaker)(nil)
