package domain_test

import (
	"encoding/json"
	"testing"

	"mindflow/internal/modules/content/domain"
)

func TestProgressCodecOrdersByTimestamp(t *testing.T) {
	t.Parallel()
	p := domain.ProgressFromPlain(map[string]int64{"c": 30, "a": 10, "b": 10})
	ids := p.IDs()
	want := []string{"a", "b", "c"}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `{"a":10,"b":10,"c":30}` {
		t.Fatalf("unexpected json %s", raw)
	}
	var back domain.Progress
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Len() != 3 || !back.Has("c") {
		t.Fatalf("decoded progress mismatch: %v", back.ToPlain())
	}
}

func TestProgressNullAndDelete(t *testing.T) {
	t.Parallel()
	var p domain.Progress
	if err := json.Unmarshal([]byte("null"), &p); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if p.Len() != 0 {
		t.Fatalf("null progress should be empty")
	}
	p.Set("x", 1)
	clone := p.Clone()
	if !p.Delete("x") || p.Has("x") {
		t.Fatalf("delete should remove x")
	}
	if !clone.Has("x") {
		t.Fatalf("clone must not share storage")
	}
	if p.Delete("x") {
		t.Fatalf("second delete should report false")
	}
}
