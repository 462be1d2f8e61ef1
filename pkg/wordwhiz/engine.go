// Package wordwhiz wires config, vendors, storage, transport, and the
// session layer into one runnable engine.
package wordwhiz

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wordwhiz/wordwhiz/pkg/adapters/tts"
	"github.com/wordwhiz/wordwhiz/pkg/game"
	"github.com/wordwhiz/wordwhiz/pkg/logging"
	"github.com/wordwhiz/wordwhiz/pkg/metrics"
	"github.com/wordwhiz/wordwhiz/pkg/redact"
	"github.com/wordwhiz/wordwhiz/pkg/session"
	"github.com/wordwhiz/wordwhiz/pkg/store"
	"github.com/wordwhiz/wordwhiz/pkg/transports"
	"github.com/wordwhiz/wordwhiz/pkg/transports/ws"
	"github.com/wordwhiz/wordwhiz/pkg/tutor"
)

// Engine owns every long-lived collaborator and handles transport events.
type Engine struct {
	cfg        Config
	logger     *slog.Logger
	registry   *session.Registry
	transport  *ws.Transport
	store      store.Store
	sttFactory STTFactory
	synth      tts.Synthesizer
	wordgen    tutor.WordListGenerator
	feedback   tutor.FeedbackGenerator

	observer     metrics.Observer
	observerSink *metrics.AsyncObserver
	metricsFile  *os.File

	ctx    context.Context
	cancel context.CancelFunc
}

func NewEngine(ctx context.Context, cfg Config) (*Engine, error) {
	return NewEngineWithRegistry(ctx, cfg, DefaultProviderRegistry())
}

func NewEngineWithRegistry(ctx context.Context, cfg Config, providers *ProviderRegistry) (*Engine, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	sttFactory, err := providers.BuildSTTFactory(cfg.Vendors.STT)
	if err != nil {
		return nil, err
	}
	synth, err := providers.BuildTTS(cfg.Vendors.TTS)
	if err != nil {
		return nil, err
	}
	wordgen, err := providers.BuildWordGen(cfg.Vendors.WordGen)
	if err != nil {
		return nil, err
	}
	feedback, err := providers.BuildFeedback(cfg.Vendors.Feedback)
	if err != nil {
		return nil, err
	}

	st, err := buildStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(slog.Default(), "engine"),
		registry:   session.NewRegistry(),
		store:      st,
		sttFactory: sttFactory,
		synth:      synth,
		wordgen:    wordgen,
		feedback:   feedback,
	}
	if err := e.buildMetrics(cfg.Metrics); err != nil {
		st.Close()
		return nil, err
	}
	redact.SetEnabled(cfg.RedactPII)
	e.transport = ws.New(ws.Config{
		ServerAddr:     cfg.Server.Addr,
		WebsocketPath:  cfg.Server.WebsocketPath,
		AllowAnyOrigin: cfg.Server.AllowAnyOrigin,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}, e)
	return e, nil
}

// buildMetrics assembles the observer chain: jsonl sink, optional sampling,
// async decoupling. Disabled metrics cost a noop call per event.
func (e *Engine) buildMetrics(cfg MetricsConfig) error {
	if !cfg.Enabled {
		e.observer = metrics.NoopObserver{}
		return nil
	}
	w := os.Stdout
	if strings.TrimSpace(cfg.JSONLPath) != "" {
		f, err := os.OpenFile(cfg.JSONLPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open metrics sink: %w", err)
		}
		e.metricsFile = f
		w = f
	}
	var obs metrics.Observer = metrics.NewJSONLObserver(w)
	if cfg.SampleRate > 0 && cfg.SampleRate < 1 {
		obs = metrics.NewSamplingObserver(obs, cfg.SampleRate)
	}
	e.observerSink = metrics.NewAsyncObserver(obs, cfg.Buffer)
	e.observer = e.observerSink
	return nil
}

func buildStore(ctx context.Context, cfg StoreConfig) (store.Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "postgres":
		return store.NewPostgresStore(ctx, cfg.DSN)
	default:
		return store.NewMemoryStore(), nil
	}
}

func (e *Engine) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	e.ctx, e.cancel = context.WithCancel(ctx)

	if err := e.transport.Start(e.ctx); err != nil {
		return err
	}
	e.logger.Info("engine_started",
		slog.String("addr", e.cfg.Server.Addr),
		slog.String("ws_path", e.cfg.Server.WebsocketPath),
		slog.String("stt_provider", e.cfg.Vendors.STT.Provider),
		slog.String("tts_provider", e.cfg.Vendors.TTS.Provider))
	return nil
}

// Stop drains live sessions before shutting the transport down.
func (e *Engine) Stop() error {
	e.registry.SetDraining(true)
	e.registry.CloseAll()

	drainTimeout := time.Duration(e.cfg.Game.DrainTimeoutMS) * time.Millisecond
	if drainTimeout <= 0 {
		drainTimeout = 20 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	_ = e.registry.WaitForEmpty(ctx, 200*time.Millisecond)

	if e.transport != nil {
		_ = e.transport.Stop()
	}
	if e.observerSink != nil {
		e.observerSink.Close()
	}
	if e.metricsFile != nil {
		_ = e.metricsFile.Close()
	}
	if e.store != nil {
		e.store.Close()
	}
	if e.cancel != nil {
		e.cancel()
	}
	e.logger.Info("engine_stopped")
	return nil
}

func (e *Engine) Registry() *session.Registry { return e.registry }

// OnConnect implements transports.Handler.
func (e *Engine) OnConnect(conn transports.Conn) {
	e.logger.Info("client_connected", slog.String("conn_id", conn.ID()))
}

// OnMessage implements transports.Handler.
func (e *Engine) OnMessage(conn transports.Conn, env transports.Envelope) {
	switch env.Event {
	case transports.EventStartGame:
		var data transports.StartGameData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			e.sendError(conn, "Failed to process message")
			return
		}
		// Session startup speaks the greeting, so it must not block the
		// read loop.
		go e.handleStartGame(conn, data)

	case transports.EventAudioChunk:
		samples, err := transports.DecodeAudioSamples(env.Data)
		if err != nil {
			e.sendError(conn, "Failed to process message")
			return
		}
		entry, ok := e.registry.GetByConn(conn.ID())
		if !ok {
			return
		}
		if err := entry.Orch.HandleAudio(samples); err != nil {
			e.logger.Warn("audio_forward_failed",
				slog.String("conn_id", conn.ID()),
				slog.String("error", err.Error()))
		}

	default:
		e.logger.Debug("unknown_event",
			slog.String("conn_id", conn.ID()),
			slog.String("event", env.Event))
	}
}

// OnDisconnect implements transports.Handler.
func (e *Engine) OnDisconnect(conn transports.Conn) {
	e.registry.RemoveByConn(conn.ID())
	e.logger.Info("client_disconnected", slog.String("conn_id", conn.ID()))
}

func (e *Engine) handleStartGame(conn transports.Conn, data transports.StartGameData) {
	if e.registry.Draining() {
		e.sendError(conn, "Server is shutting down")
		return
	}
	if _, exists := e.registry.GetByConn(conn.ID()); exists {
		// One game per connection: a second start replaces the first.
		e.registry.RemoveByConn(conn.ID())
	}

	ctx := e.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	age := e.cfg.Game.DefaultAge
	if age <= 0 {
		age = 7
	}
	profile, err := e.store.GetOrCreateChildProfile(ctx, data.ChildName, age, data.Interests)
	if err != nil {
		e.logger.Error("profile_lookup_failed", slog.String("error", err.Error()))
		e.sendError(conn, "Failed to start game")
		return
	}

	wordList, err := e.wordgen.GenerateWordList(ctx, profile.Age, profile.Interests)
	if err != nil {
		e.logger.Warn("word_generation_failed",
			slog.String("error", err.Error()),
			slog.String("child_id", profile.ID))
		wordList = tutor.FallbackWordList()
	}

	record, err := e.store.CreateGameSession(ctx, profile.ID, wordList)
	if err != nil {
		e.logger.Error("session_create_failed", slog.String("error", err.Error()))
		e.sendError(conn, "Failed to start game")
		return
	}

	gameSess, err := game.NewSession(record.ID, wordList)
	if err != nil {
		e.sendError(conn, "Failed to start game")
		return
	}

	orch := session.New(session.Config{
		Session:     gameSess,
		Conn:        conn,
		Recognizer:  e.sttFactory(conn.ID(), record.ID, uuid.NewString()),
		Synthesizer: e.synth,
		Feedback:    e.feedback,
		Store:       e.store,
		Metrics:     e.observer,
		ChildName:   profile.Name,
		Interests:   profile.Interests,
	})

	if !e.registry.Add(conn.ID(), orch) {
		e.sendError(conn, "Failed to start game")
		return
	}
	if err := orch.Start(ctx); err != nil {
		e.logger.Error("session_start_failed",
			slog.String("session_id", record.ID),
			slog.String("error", err.Error()))
		e.registry.Remove(record.ID)
		e.sendError(conn, "Failed to start game")
		return
	}

	e.logger.Info("game_started",
		slog.String("session_id", record.ID),
		slog.String("child_id", profile.ID),
		slog.String("child_name", redact.Name(profile.Name)),
		slog.Int("word_count", len(wordList)))
}

func (e *Engine) sendError(conn transports.Conn, message string) {
	_ = conn.SendEvent(transports.EventError, transports.ErrorData{Message: message})
}

// String renders a short engine description for startup logging.
func (e *Engine) String() string {
	return fmt.Sprintf("wordwhiz engine (stt=%s tts=%s store=%s)",
		e.cfg.Vendors.STT.Provider, e.cfg.Vendors.TTS.Provider, e.cfg.Store.Driver)
}
