package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MINDFLOW_STORE", "")
	t.Setenv("MINDFLOW_GENERATOR", "")
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, ".mindflow", "mindflow.db") {
		t.Fatalf("unexpected db path: %s", cfg.DBPath)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Generator.Backend != "gemini" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadYAMLThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".mindflow"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	yamlBody := "store:\n  backend: file\ngenerator:\n  backend: plugin\n  plugin: offline\n  manifest_path: plugins/plugins.json\n"
	if err := os.WriteFile(filepath.Join(dir, ".mindflow", "config.yaml"), []byte(yamlBody), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("GEMINI_API_KEY=from-dotenv\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("MINDFLOW_STORE", "")
	t.Setenv("MINDFLOW_GENERATOR", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Backend != "file" {
		t.Fatalf("yaml store backend not applied: %s", cfg.Store.Backend)
	}
	if cfg.Generator.APIKey != "from-dotenv" {
		t.Fatalf(".env key not applied: %q", cfg.Generator.APIKey)
	}
	if cfg.Generator.ManifestPath != filepath.Join(dir, "plugins", "plugins.json") {
		t.Fatalf("manifest path not resolved: %s", cfg.Generator.ManifestPath)
	}

	t.Setenv("MINDFLOW_STORE", "sqlite")
	cfg, err = Load(dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg.Store.Backend != "sqlite" {
		t.Fatalf("env override not applied: %s", cfg.Store.Backend)
	}
}

func TestLoadRejectsRedisWithoutAddress(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MINDFLOW_STORE", "redis")
	t.Setenv("REDIS_ADDR", "")
	if _, err := Load(dir); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadRequiresDataDir(t *testing.T) {
	t.Parallel()
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error")
	}
}
