package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	genout "mindflow/internal/modules/generation/adapter/out"
)

func TestFileManifestStoreLoadMissingReturnsEmpty(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	store := genout.NewFileManifestStore(base, filepath.Join(base, "plugins.json"))
	manifests, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected empty manifests, got %d", len(manifests))
	}
}

func TestFileManifestStoreResolvesRelativeBinary(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	raw := `[
  {
    "name": "offline",
    "version": "1.0.0",
    "binary": "plugins/offline/offline-generator",
    "sha256": "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
    "enabled": true,
    "capabilities": ["structured", "text"]
  }
]`
	path := filepath.Join(base, "plugins.json")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write plugins.json: %v", err)
	}
	manifests, err := genout.NewFileManifestStore(base, path).Load(context.Background())
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	if len(manifests) != 1 {
		t.Fatalf("expected one manifest, got %d", len(manifests))
	}
	if manifests[0].Binary != filepath.Join(base, "plugins", "offline", "offline-generator") {
		t.Fatalf("expected resolved binary path, got %s", manifests[0].Binary)
	}
}

func TestFileManifestStoreRejectsUnknownField(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	raw := `[{"name": "offline", "version": "1.0.0", "binary": "/tmp/x", "sha256": "", "enabled": true, "capabilities": [], "unknown_field": true}]`
	path := filepath.Join(base, "plugins.json")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write plugins.json: %v", err)
	}
	if _, err := genout.NewFileManifestStore(base, path).Load(context.Background()); err == nil {
		t.Fatalf("expected unknown field error")
	}
}
