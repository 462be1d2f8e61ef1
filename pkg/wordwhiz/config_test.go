package wordwhiz

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
vendors:
  stt:
    provider: mock
  tts:
    provider: mock
  wordgen:
    provider: static
  feedback:
    provider: static
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.WebsocketPath != "/ws" {
		t.Fatalf("server defaults not applied: %+v", cfg.Server)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "text" {
		t.Fatalf("logging defaults not applied")
	}
	if cfg.Store.Driver != "memory" {
		t.Fatalf("store default not applied: %q", cfg.Store.Driver)
	}
	if cfg.Game.DefaultAge != 7 {
		t.Fatalf("default age not applied: %d", cfg.Game.DefaultAge)
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	t.Setenv("TEST_DG_KEY", "dg-secret")
	path := writeConfig(t, `
vendors:
  stt:
    provider: deepgram
    settings:
      api_key: ${TEST_DG_KEY}
  tts:
    provider: mock
  wordgen:
    provider: static
  feedback:
    provider: static
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := cfg.Vendors.STT.Settings["api_key"]; got != "dg-secret" {
		t.Fatalf("env not expanded in settings: %v", got)
	}
}

func TestLoadConfigRequiresPostgresDSN(t *testing.T) {
	path := writeConfig(t, `
vendors:
  stt:
    provider: mock
  tts:
    provider: mock
  wordgen:
    provider: static
  feedback:
    provider: static
store:
  driver: postgres
`)
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("postgres driver without dsn must fail validation")
	}
}

func TestValidateRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Store.Driver = "mongo"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("unknown store driver must fail validation")
	}
}
