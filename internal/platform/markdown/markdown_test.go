package markdown

import (
	"strings"
	"testing"
)

func TestRenderFrontmatterKeepsFieldOrder(t *testing.T) {
	t.Parallel()
	out, err := RenderFrontmatter([]Field{
		{Key: "title", Value: "Goroutines"},
		{Key: "skip", Value: nil},
		{Key: "id", Value: "a1"},
		{Key: "tags", Value: []string{"go", "concurrency"}},
	}, "## Intro\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Index(out, "title:") > strings.Index(out, "id:") {
		t.Fatalf("field order lost:\n%s", out)
	}
	if strings.Contains(out, "skip") {
		t.Fatalf("nil field rendered:\n%s", out)
	}
	meta, body, err := SplitFrontmatter(out)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if meta["id"] != "a1" || !strings.Contains(body, "## Intro") {
		t.Fatalf("round trip mismatch: %v %q", meta, body)
	}
}

func TestReplaceManagedBlockPreservesUserText(t *testing.T) {
	t.Parallel()
	body := ReplaceManagedBlock("my notes\n", "progress", "- [ ] one")
	body = strings.Replace(body, "my notes", "my edited notes", 1)
	body = ReplaceManagedBlock(body, "progress", "- [x] one")
	if !strings.Contains(body, "my edited notes") {
		t.Fatalf("user text lost:\n%s", body)
	}
	if strings.Contains(body, "- [ ] one") || !strings.Contains(body, "- [x] one") {
		t.Fatalf("block not replaced:\n%s", body)
	}
	if strings.Count(body, "mindflow:progress:start") != 1 {
		t.Fatalf("block duplicated:\n%s", body)
	}
}
