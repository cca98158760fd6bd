package logger

import "testing"

func TestSanitizeRedactsSecrets(t *testing.T) {
	t.Parallel()
	got := sanitizeKVs([]any{"api_key", "abc", "topic", "go", "nested", map[string]any{"Token": "x", "ok": 1}})
	if got[1] != "[REDACTED]" {
		t.Fatalf("api key not redacted: %v", got[1])
	}
	if got[3] != "go" {
		t.Fatalf("plain value changed: %v", got[3])
	}
	nested := got[5].(map[string]any)
	if nested["Token"] != "[REDACTED]" || nested["ok"] != 1 {
		t.Fatalf("nested map not sanitized: %v", nested)
	}
}

func TestSanitizeKeepsDanglingKey(t *testing.T) {
	t.Parallel()
	got := sanitizeKVs([]any{"a", 1, "dangling"})
	if len(got) != 3 || got[2] != "dangling" {
		t.Fatalf("unexpected %v", got)
	}
}

func TestNopLoggerIsUsable(t *testing.T) {
	t.Parallel()
	log := Nop().With("module", "test")
	log.Info("hello", "k", "v")
	log.Sync()
}
