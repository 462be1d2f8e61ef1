package wordwhiz

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/wordwhiz/wordwhiz/pkg/game"
	"github.com/wordwhiz/wordwhiz/pkg/transports"
	mocktransport "github.com/wordwhiz/wordwhiz/pkg/transports/mock"
)

func testConfig() Config {
	return Config{
		LogLevel:  "error",
		LogFormat: "text",
		Server:    ServerConfig{Addr: ":0", WebsocketPath: "/ws"},
		Vendors: VendorsConfig{
			STT: VendorConfig{Provider: "mock", Settings: map[string]any{
				"transcript": "cat",
				"confidence": 0.9,
			}},
			TTS:      VendorConfig{Provider: "mock"},
			WordGen:  VendorConfig{Provider: "static"},
			Feedback: VendorConfig{Provider: "static"},
		},
		Store: StoreConfig{Driver: "memory"},
		Game:  GameConfig{DefaultAge: 7},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(context.Background(), testConfig())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	t.Cleanup(func() { _ = e.Stop() })
	return e
}

func startGameEnvelope(t *testing.T) transports.Envelope {
	t.Helper()
	data, err := json.Marshal(transports.StartGameData{ChildName: "Mia", Interests: []string{"animals"}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return transports.Envelope{Event: transports.EventStartGame, Data: data}
}

func waitForSnapshot(t *testing.T, e *Engine, connID string, cond func(game.Snapshot) bool) game.Snapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if entry, ok := e.registry.GetByConn(connID); ok {
			snap := entry.Orch.Snapshot()
			if cond(snap) {
				return snap
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("snapshot condition never met")
	return game.Snapshot{}
}

func TestStartGameOpensSession(t *testing.T) {
	e := newTestEngine(t)
	conn := mocktransport.NewConn("c1")

	e.OnConnect(conn)
	e.OnMessage(conn, startGameEnvelope(t))

	snap := waitForSnapshot(t, e, "c1", func(s game.Snapshot) bool {
		return s.WaitingForChildResponse
	})
	if snap.CurrentWord != "cat" {
		t.Fatalf("expected first static word, got %q", snap.CurrentWord)
	}
	if len(snap.WordList) != 10 {
		t.Fatalf("expected static word list, got %d words", len(snap.WordList))
	}
	if len(conn.EventsNamed(transports.EventGameState)) == 0 {
		t.Fatalf("expected game_state events")
	}
	if len(conn.EventsNamed(transports.EventAudioEnd)) == 0 {
		t.Fatalf("expected opening speech")
	}
}

func TestAudioChunkDrivesAttempt(t *testing.T) {
	e := newTestEngine(t)
	conn := mocktransport.NewConn("c1")

	e.OnMessage(conn, startGameEnvelope(t))
	waitForSnapshot(t, e, "c1", func(s game.Snapshot) bool {
		return s.WaitingForChildResponse
	})

	// The scripted recognizer answers "cat" once audio arrives.
	e.OnMessage(conn, transports.Envelope{
		Event: transports.EventAudioChunk,
		Data:  json.RawMessage(`[0,0,0,0,0,0,0,0]`),
	})

	snap := waitForSnapshot(t, e, "c1", func(s game.Snapshot) bool {
		return s.TotalScore == 10
	})
	if snap.WordsCompleted != 1 || snap.CurrentWordIndex != 1 {
		t.Fatalf("expected advance after success: %+v", snap)
	}
}

func TestAudioChunkWithoutSessionIgnored(t *testing.T) {
	e := newTestEngine(t)
	conn := mocktransport.NewConn("c1")

	e.OnMessage(conn, transports.Envelope{
		Event: transports.EventAudioChunk,
		Data:  json.RawMessage(`[1,2,3]`),
	})
	if len(conn.EventsNamed(transports.EventError)) != 0 {
		t.Fatalf("orphan audio chunks must be ignored silently")
	}
}

func TestDisconnectTearsDownSession(t *testing.T) {
	e := newTestEngine(t)
	conn := mocktransport.NewConn("c1")

	e.OnMessage(conn, startGameEnvelope(t))
	waitForSnapshot(t, e, "c1", func(s game.Snapshot) bool {
		return s.WaitingForChildResponse
	})
	if e.registry.Count() != 1 {
		t.Fatalf("expected one live session")
	}

	e.OnDisconnect(conn)
	if e.registry.Count() != 0 {
		t.Fatalf("disconnect must remove the session")
	}
}

func TestMalformedStartGameRejected(t *testing.T) {
	e := newTestEngine(t)
	conn := mocktransport.NewConn("c1")

	e.OnMessage(conn, transports.Envelope{
		Event: transports.EventStartGame,
		Data:  json.RawMessage(`"not an object"`),
	})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if len(conn.EventsNamed(transports.EventError)) == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected error event for malformed start_game")
}

func TestUnknownProviderFailsConstruction(t *testing.T) {
	cfg := testConfig()
	cfg.Vendors.STT.Provider = "nope"
	if _, err := NewEngine(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for unregistered provider")
	}
}
