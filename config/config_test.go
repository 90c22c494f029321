package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Memory.Backend != "file" || cfg.Memory.Path != "translation_memory.json" {
		t.Errorf("unexpected memory defaults: %+v", cfg.Memory)
	}
	if cfg.Probe.Address != "8.8.8.8:53" || cfg.Probe.Timeout != 3*time.Second {
		t.Errorf("unexpected probe defaults: %+v", cfg.Probe)
	}
	if cfg.Language.Source != "atd" || cfg.Language.Target != "en" {
		t.Errorf("unexpected language defaults: %+v", cfg.Language)
	}
	if cfg.Resolver.DecomposedPolicy != "persist" || !cfg.Resolver.Decompose {
		t.Errorf("unexpected resolver defaults: %+v", cfg.Resolver)
	}
	if cfg.RemoteModel() != "gpt-4.1" {
		t.Errorf("expected gpt-4.1, got %s", cfg.RemoteModel())
	}
	if cfg.Offline.BeamWidth != 5 {
		t.Errorf("expected beam width 5, got %d", cfg.Offline.BeamWidth)
	}
	if cfg.OfflineEnabled() {
		t.Error("offline engine should be disabled by default")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salin.yaml")
	content := `
memory:
  backend: bolt
  bolt_path: /var/lib/salin/memory.bbolt
remote:
  provider: gemini
  max_examples: 50
  breaker_cooldown: 1m
offline:
  vocab: /models/ata.vocab
  worker: ["python3", "worker.py"]
  beam_width: 2
probe:
  timeout: 500ms
server:
  allowed_origins: ["https://ata.example"]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Memory.Backend != "bolt" || cfg.Memory.BoltPath != "/var/lib/salin/memory.bbolt" {
		t.Errorf("unexpected memory config: %+v", cfg.Memory)
	}
	if cfg.Remote.MaxExamples != 50 || cfg.Remote.BreakerCooldown != time.Minute {
		t.Errorf("unexpected remote config: %+v", cfg.Remote)
	}
	if cfg.RemoteModel() != "gemini-2.0-flash" {
		t.Errorf("expected gemini default model, got %s", cfg.RemoteModel())
	}
	if !cfg.OfflineEnabled() || cfg.Offline.BeamWidth != 2 || cfg.Offline.MaxLength != 128 {
		t.Errorf("unexpected offline config: %+v", cfg.Offline)
	}
	if cfg.Probe.Timeout != 500*time.Millisecond {
		t.Errorf("unexpected probe timeout %v", cfg.Probe.Timeout)
	}
	if len(cfg.Server.AllowedOrigins) != 1 {
		t.Errorf("unexpected origins %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salin.yaml")
	os.WriteFile(path, []byte("memory:\n  path: from-file.json\n"), 0o600)

	t.Setenv("SALIN_MEMORY_PATH", "from-env.json")
	t.Setenv("SALIN_REMOTE_API_KEY", "sk-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Memory.Path != "from-env.json" {
		t.Errorf("expected env override, got %s", cfg.Memory.Path)
	}
	if cfg.RemoteAPIKey() != "sk-env" {
		t.Errorf("expected api key from env, got %q", cfg.RemoteAPIKey())
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salin.yaml")
	os.WriteFile(path, []byte("memory:\n  backend: postgres\n"), 0o600)

	if _, err := Load(path); err == nil {
		t.Error("expected validation error")
	}
}

func TestRemoteAPIKeyFallback(t *testing.T) {
	cfg := Default()
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("KEY", "sk-legacy")

	if cfg.RemoteAPIKey() != "sk-legacy" {
		t.Errorf("expected legacy KEY fallback, got %q", cfg.RemoteAPIKey())
	}

	cfg.Remote.Provider = "gemini"
	t.Setenv("GEMINI_API_KEY", "g-key")
	if cfg.RemoteAPIKey() != "g-key" {
		t.Errorf("expected gemini key, got %q", cfg.RemoteAPIKey())
	}
}
