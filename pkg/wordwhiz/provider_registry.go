package wordwhiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wordwhiz/wordwhiz/pkg/adapters/stt"
	"github.com/wordwhiz/wordwhiz/pkg/adapters/tts"
	"github.com/wordwhiz/wordwhiz/pkg/audio"
	"github.com/wordwhiz/wordwhiz/pkg/configutil"
	"github.com/wordwhiz/wordwhiz/pkg/game"
	"github.com/wordwhiz/wordwhiz/pkg/providers/deepgram"
	"github.com/wordwhiz/wordwhiz/pkg/providers/mock"
	"github.com/wordwhiz/wordwhiz/pkg/resilience"
	"github.com/wordwhiz/wordwhiz/pkg/tutor"
)

// STTFactory builds a fresh recognizer per session.
type STTFactory func(streamID, sessionID, traceID string) stt.StreamingSTT

type STTFactoryBuilder func(cfg VendorConfig) (STTFactory, error)
type TTSBuilder func(cfg VendorConfig) (tts.Synthesizer, error)
type WordGenBuilder func(cfg VendorConfig) (tutor.WordListGenerator, error)
type FeedbackBuilder func(cfg VendorConfig) (tutor.FeedbackGenerator, error)

// ProviderRegistry maps vendor names from config onto concrete adapters.
type ProviderRegistry struct {
	stt      map[string]STTFactoryBuilder
	tts      map[string]TTSBuilder
	wordgen  map[string]WordGenBuilder
	feedback map[string]FeedbackBuilder
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{
		stt:      make(map[string]STTFactoryBuilder),
		tts:      make(map[string]TTSBuilder),
		wordgen:  make(map[string]WordGenBuilder),
		feedback: make(map[string]FeedbackBuilder),
	}
}

func (r *ProviderRegistry) RegisterSTT(name string, builder STTFactoryBuilder) {
	r.stt[normalizeProvider(name)] = builder
}

func (r *ProviderRegistry) RegisterTTS(name string, builder TTSBuilder) {
	r.tts[normalizeProvider(name)] = builder
}

func (r *ProviderRegistry) RegisterWordGen(name string, builder WordGenBuilder) {
	r.wordgen[normalizeProvider(name)] = builder
}

func (r *ProviderRegistry) RegisterFeedback(name string, builder FeedbackBuilder) {
	r.feedback[normalizeProvider(name)] = builder
}

func (r *ProviderRegistry) BuildSTTFactory(cfg VendorConfig) (STTFactory, error) {
	fn := r.stt[normalizeProvider(cfg.Provider)]
	if fn == nil {
		return nil, fmt.Errorf("stt provider not registered: %s", cfg.Provider)
	}
	return fn(cfg)
}

func (r *ProviderRegistry) BuildTTS(cfg VendorConfig) (tts.Synthesizer, error) {
	fn := r.tts[normalizeProvider(cfg.Provider)]
	if fn == nil {
		return nil, fmt.Errorf("tts provider not registered: %s", cfg.Provider)
	}
	return fn(cfg)
}

func (r *ProviderRegistry) BuildWordGen(cfg VendorConfig) (tutor.WordListGenerator, error) {
	fn := r.wordgen[normalizeProvider(cfg.Provider)]
	if fn == nil {
		return nil, fmt.Errorf("wordgen provider not registered: %s", cfg.Provider)
	}
	return fn(cfg)
}

func (r *ProviderRegistry) BuildFeedback(cfg VendorConfig) (tutor.FeedbackGenerator, error) {
	fn := r.feedback[normalizeProvider(cfg.Provider)]
	if fn == nil {
		return nil, fmt.Errorf("feedback provider not registered: %s", cfg.Provider)
	}
	return fn(cfg)
}

func normalizeProvider(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DefaultProviderRegistry wires every built-in vendor.
func DefaultProviderRegistry() *ProviderRegistry {
	r := NewProviderRegistry()

	r.RegisterSTT("deepgram", func(cfg VendorConfig) (STTFactory, error) {
		if err := validateSettings("vendors.stt.settings", cfg.Settings, configutil.Schema{
			Required: []string{"api_key"},
			Optional: []string{"model", "language", "sample_rate", "interim", "endpointing"},
		}); err != nil {
			return nil, err
		}
		var settings struct {
			APIKey      string `mapstructure:"api_key"`
			Model       string `mapstructure:"model"`
			Language    string `mapstructure:"language"`
			SampleRate  int    `mapstructure:"sample_rate"`
			Interim     bool   `mapstructure:"interim"`
			Endpointing int    `mapstructure:"endpointing"`
		}
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, err
		}
		if err := configutil.RequireString(settings.APIKey, "vendors.stt.settings.api_key"); err != nil {
			return nil, err
		}
		return func(streamID, sessionID, traceID string) stt.StreamingSTT {
			return deepgram.NewSTT(deepgram.STTConfig{
				APIKey:      settings.APIKey,
				Model:       settings.Model,
				Language:    settings.Language,
				SampleRate:  settings.SampleRate,
				Interim:     settings.Interim,
				Endpointing: settings.Endpointing,
				StreamID:    streamID,
				SessionID:   sessionID,
				TraceID:     traceID,
			})
		}, nil
	})

	r.RegisterSTT("mock", func(cfg VendorConfig) (STTFactory, error) {
		if err := validateSettings("vendors.stt.settings", cfg.Settings, configutil.Schema{
			Optional: []string{"transcript", "confidence", "interim"},
		}); err != nil {
			return nil, err
		}
		var settings struct {
			Transcript string  `mapstructure:"transcript"`
			Confidence float64 `mapstructure:"confidence"`
			Interim    bool    `mapstructure:"interim"`
		}
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, err
		}
		return func(streamID, sessionID, traceID string) stt.StreamingSTT {
			return mock.NewSTT(mock.STTConfig{
				StreamID:    streamID,
				SessionID:   sessionID,
				TraceID:     traceID,
				Transcript:  settings.Transcript,
				Confidence:  settings.Confidence,
				EmitInterim: settings.Interim,
			})
		}, nil
	})

	r.RegisterTTS("deepgram", func(cfg VendorConfig) (tts.Synthesizer, error) {
		if err := validateSettings("vendors.tts.settings", cfg.Settings, configutil.Schema{
			Required: []string{"api_key"},
			Optional: []string{"model", "sample_rate", "timeout_ms"},
		}); err != nil {
			return nil, err
		}
		var settings struct {
			APIKey     string `mapstructure:"api_key"`
			Model      string `mapstructure:"model"`
			SampleRate int    `mapstructure:"sample_rate"`
			TimeoutMS  int    `mapstructure:"timeout_ms"`
		}
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, err
		}
		if err := configutil.RequireString(settings.APIKey, "vendors.tts.settings.api_key"); err != nil {
			return nil, err
		}
		if settings.SampleRate == 0 {
			settings.SampleRate = audio.SampleRate
		}
		return deepgram.NewSpeaker(deepgram.TTSConfig{
			APIKey:     settings.APIKey,
			Model:      settings.Model,
			SampleRate: settings.SampleRate,
			Timeout:    time.Duration(settings.TimeoutMS) * time.Millisecond,
		}), nil
	})

	r.RegisterTTS("mock", func(cfg VendorConfig) (tts.Synthesizer, error) {
		if err := validateSettings("vendors.tts.settings", cfg.Settings, configutil.Schema{
			Optional: []string{"bytes_per_char"},
		}); err != nil {
			return nil, err
		}
		var settings struct {
			BytesPerChar int `mapstructure:"bytes_per_char"`
		}
		if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
			return nil, err
		}
		return mock.NewTTS(mock.TTSConfig{BytesPerChar: settings.BytesPerChar}), nil
	})

	r.RegisterWordGen("openai", func(cfg VendorConfig) (tutor.WordListGenerator, error) {
		client, err := buildOpenAI(cfg, "vendors.wordgen")
		if err != nil {
			return nil, err
		}
		return client, nil
	})

	r.RegisterWordGen("static", func(cfg VendorConfig) (tutor.WordListGenerator, error) {
		return staticWordGen{}, nil
	})

	r.RegisterFeedback("openai", func(cfg VendorConfig) (tutor.FeedbackGenerator, error) {
		client, err := buildOpenAI(cfg, "vendors.feedback")
		if err != nil {
			return nil, err
		}
		return client, nil
	})

	r.RegisterFeedback("static", func(cfg VendorConfig) (tutor.FeedbackGenerator, error) {
		return staticFeedback{}, nil
	})

	return r
}

func buildOpenAI(cfg VendorConfig, path string) (*tutor.OpenAI, error) {
	if err := validateSettings(path+".settings", cfg.Settings, configutil.Schema{
		Required: []string{"api_key"},
		Optional: []string{"model", "base_url", "use_circuit_breaker", "circuit_threshold", "circuit_cooldown_ms"},
	}); err != nil {
		return nil, err
	}
	var settings struct {
		APIKey            string `mapstructure:"api_key"`
		Model             string `mapstructure:"model"`
		BaseURL           string `mapstructure:"base_url"`
		UseCircuitBreaker *bool  `mapstructure:"use_circuit_breaker"`
		CircuitThreshold  int    `mapstructure:"circuit_threshold"`
		CircuitCooldownMs int    `mapstructure:"circuit_cooldown_ms"`
	}
	if err := configutil.DecodeSettings(cfg.Settings, &settings); err != nil {
		return nil, err
	}
	if err := configutil.RequireString(settings.APIKey, path+".settings.api_key"); err != nil {
		return nil, err
	}
	client := tutor.NewOpenAI(settings.APIKey, settings.Model)
	if settings.BaseURL != "" {
		client.BaseURL = settings.BaseURL
	}
	if configutil.BoolValue(settings.UseCircuitBreaker, true) {
		cooldown := time.Duration(settings.CircuitCooldownMs) * time.Millisecond
		client.Breaker = resilience.NewCircuitBreaker(settings.CircuitThreshold, cooldown)
	}
	return client, nil
}

func validateSettings(path string, input map[string]any, schema configutil.Schema) error {
	if err := configutil.ValidateSettings(input, schema); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// staticWordGen serves the curated fallback list unconditionally.
type staticWordGen struct{}

func (staticWordGen) GenerateWordList(ctx context.Context, age int, interests []string) ([]game.WordItem, error) {
	return tutor.FallbackWordList(), nil
}

// staticFeedback serves canned feedback lines unconditionally.
type staticFeedback struct{}

func (staticFeedback) GenerateFeedback(ctx context.Context, analysis tutor.Analysis, childName string, currentPoints int) (string, error) {
	return tutor.FallbackFeedback(analysis), nil
}
