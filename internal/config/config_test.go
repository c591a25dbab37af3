package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leandrotocalini/quorum/internal/catalog"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Listen != ":8080" {
		t.Errorf("expected :8080, got %q", cfg.Listen)
	}
	if cfg.DefaultSynthesizer != catalog.DefaultSynthesizer {
		t.Errorf("expected default synthesizer, got %q", cfg.DefaultSynthesizer)
	}
	if cfg.MaxModels != 12 {
		t.Errorf("expected max 12, got %d", cfg.MaxModels)
	}
	if cfg.HistoryDB != "quorum.db" {
		t.Errorf("expected quorum.db, got %q", cfg.HistoryDB)
	}
}

func TestLoad_FileOverridesAndBackfills(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quorum.json")
	body := `{
		"listen": ":9999",
		"apiKey": "file-key",
		"models": [{"id": "x/one", "name": "One", "provider": "X", "input_per_mtok": 1, "output_per_mtok": 2}]
	}`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Listen != ":9999" {
		t.Errorf("expected :9999, got %q", cfg.Listen)
	}
	if cfg.APIKey != "file-key" {
		t.Errorf("expected file-key, got %q", cfg.APIKey)
	}
	// Unset fields fall back to defaults.
	if cfg.MaxModels != 12 {
		t.Errorf("expected backfilled max 12, got %d", cfg.MaxModels)
	}
	if cfg.HistoryDB != "quorum.db" {
		t.Errorf("expected backfilled history path, got %q", cfg.HistoryDB)
	}
	if len(cfg.Models) != 1 || cfg.Models[0].ID != "x/one" {
		t.Errorf("unexpected models: %+v", cfg.Models)
	}
}

func TestLoad_ParseErrorSurfaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoad_EnvOverridesAPIKey(t *testing.T) {
	t.Setenv(apiKeyEnv, "env-key")

	path := filepath.Join(t.TempDir(), "quorum.json")
	if err := os.WriteFile(path, []byte(`{"apiKey": "file-key"}`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("expected env override, got %q", cfg.APIKey)
	}
}

func TestRegistry_FallsBackToBuiltinCatalog(t *testing.T) {
	cfg := Default()

	reg := cfg.Registry()
	if len(reg.List()) != len(catalog.DefaultModels()) {
		t.Errorf("expected built-in catalog, got %d models", len(reg.List()))
	}
}

func TestRegistry_UsesConfiguredModels(t *testing.T) {
	cfg := Default()
	cfg.Models = []catalog.ModelSpec{{ID: "x/one", Name: "One"}}
	cfg.MaxModels = 3

	reg := cfg.Registry()
	if len(reg.List()) != 1 {
		t.Fatalf("expected 1 model, got %d", len(reg.List()))
	}
	if reg.MaxSelection() != 3 {
		t.Errorf("expected cap 3, got %d", reg.MaxSelection())
	}
}
