package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wordwhiz/wordwhiz/pkg/errorsx"
	"github.com/wordwhiz/wordwhiz/pkg/transports"
)

type Config struct {
	ServerAddr     string   `mapstructure:"server_addr"`
	WebsocketPath  string   `mapstructure:"ws_path"`
	AllowAnyOrigin bool     `mapstructure:"allow_any_origin"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (c Config) withDefaults() Config {
	if c.ServerAddr == "" {
		c.ServerAddr = ":8080"
	}
	if c.WebsocketPath == "" {
		c.WebsocketPath = "/ws"
	}
	if !c.AllowAnyOrigin && len(c.AllowedOrigins) == 0 {
		c.AllowAnyOrigin = true
	}
	return c
}

// Transport serves the browser-facing WebSocket endpoint.
type Transport struct {
	cfg      Config
	handler  transports.Handler
	server   *http.Server
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[string]*conn

	draining atomic.Bool
}

func New(cfg Config, handler transports.Handler) *Transport {
	cfg = cfg.withDefaults()
	t := &Transport{
		cfg:     cfg,
		handler: handler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		conns: make(map[string]*conn),
	}
	t.upgrader.CheckOrigin = t.checkOrigin
	return t
}

func (t *Transport) Name() string { return "websocket" }

func (t *Transport) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	mux := http.NewServeMux()
	mux.Handle(t.cfg.WebsocketPath, t)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	t.server = &http.Server{
		Addr:              t.cfg.ServerAddr,
		ReadHeaderTimeout: 5 * time.Second,
		Handler:           mux,
	}
	go func() {
		<-ctx.Done()
		_ = t.server.Close()
	}()
	go func() {
		if err := t.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("ws_transport_server_error", "error", err.Error())
		}
	}()
	return nil
}

func (t *Transport) Stop() error {
	t.draining.Store(true)
	if t.server != nil {
		_ = t.server.Close()
	}
	t.mu.Lock()
	for _, c := range t.conns {
		_ = c.Close()
	}
	t.conns = make(map[string]*conn)
	t.mu.Unlock()
	return nil
}

func (t *Transport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if t.draining.Load() {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	sock, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &conn{
		id:     uuid.NewString(),
		sock:   sock,
		sendCh: make(chan []byte, 512),
		done:   make(chan struct{}),
	}
	t.attach(c)
	go c.writeLoop()

	slog.Info("ws_client_connected", slog.String("conn_id", c.id))
	t.handler.OnConnect(c)

	defer func() {
		t.detach(c.id)
		t.handler.OnDisconnect(c)
		slog.Info("ws_client_disconnected", slog.String("conn_id", c.id))
	}()

	for {
		_, msg, err := sock.ReadMessage()
		if err != nil {
			return
		}
		var env transports.Envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			slog.Warn("ws_bad_envelope",
				slog.String("conn_id", c.id),
				slog.String("reason_code", string(errorsx.ReasonTransportEnvelope)))
			continue
		}
		t.handler.OnMessage(c, env)
	}
}

func (t *Transport) attach(c *conn) {
	t.mu.Lock()
	t.conns[c.id] = c
	t.mu.Unlock()
}

func (t *Transport) detach(id string) {
	t.mu.Lock()
	c := t.conns[id]
	delete(t.conns, id)
	t.mu.Unlock()
	if c != nil {
		_ = c.Close()
	}
}

// ConnCount reports live connections. Used by drain logic.
func (t *Transport) ConnCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.conns)
}

func (t *Transport) checkOrigin(r *http.Request) bool {
	if t.cfg.AllowAnyOrigin {
		return true
	}
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	origin = strings.TrimRight(origin, "/")
	originHost := strings.TrimPrefix(origin, "https://")
	originHost = strings.TrimPrefix(originHost, "http://")
	for _, allowed := range t.cfg.AllowedOrigins {
		a := strings.TrimSpace(allowed)
		if a == "" {
			continue
		}
		a = strings.TrimRight(a, "/")
		if strings.HasPrefix(a, "http://") || strings.HasPrefix(a, "https://") {
			if strings.EqualFold(a, origin) {
				return true
			}
			continue
		}
		if strings.EqualFold(a, originHost) {
			return true
		}
	}
	return false
}

type conn struct {
	id     string
	sock   *websocket.Conn
	sendCh chan []byte
	done   chan struct{}
	closed atomic.Bool
}

func (c *conn) ID() string { return c.id }

// SendEvent enqueues without blocking. sendCh is never closed, so a send
// racing Close parks harmlessly in the buffer; only writeLoop observes done.
func (c *conn) SendEvent(event string, data any) error {
	if c.closed.Load() {
		return errorsx.Wrap(errors.New("connection closed"), errorsx.ReasonTransportSend)
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return errorsx.Wrap(err, errorsx.ReasonTransportSend)
	}
	b, err := json.Marshal(transports.Envelope{Event: event, Data: payload})
	if err != nil {
		return errorsx.Wrap(err, errorsx.ReasonTransportSend)
	}
	select {
	case c.sendCh <- b:
	default:
		// Slow client: drop rather than stall the session loop.
	}
	return nil
}

func (c *conn) writeLoop() {
	for {
		select {
		case msg := <-c.sendCh:
			_ = c.sock.WriteMessage(websocket.TextMessage, msg)
		case <-c.done:
			return
		}
	}
}

func (c *conn) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		close(c.done)
	}
	return c.sock.Close()
}

var _ transports.Transport = (*Transport)(nil)
var _ transports.Conn = (*conn)(nil)
