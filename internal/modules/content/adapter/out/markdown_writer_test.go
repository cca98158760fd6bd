package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	contentout "mindflow/internal/modules/content/adapter/out"
	"mindflow/internal/modules/content/domain"
	"mindflow/internal/platform/markdown"
)

func TestWriteRendersFrontmatterAndManagedBlock(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writer := contentout.NewMarkdownWriter()
	doc := domain.Document{
		Dir:     "courses",
		Name:    "go-12345678",
		Fields:  []markdown.Field{{Key: "title", Value: "Go"}, {Key: "completed", Value: 0}},
		Body:    "# Go\n",
		Managed: "- [ ] Intro (article)\n",
	}
	path, err := writer.Write(context.Background(), root, doc)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if path != filepath.Join(root, "courses", "go-12345678.md") {
		t.Fatalf("path = %s", path)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	fields, body, err := markdown.SplitFrontmatter(string(raw))
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if fields["title"] != "Go" || !strings.Contains(body, "# Go") || !strings.Contains(body, "- [ ] Intro (article)") {
		t.Fatalf("unexpected file:\n%s", raw)
	}
}

func TestWriteKeepsHandEditedBody(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writer := contentout.NewMarkdownWriter()
	ctx := context.Background()
	doc := domain.Document{Dir: "courses", Name: "go", Body: "# Go\n", Managed: "- [ ] Intro\n", KeepBody: true}
	path, err := writer.Write(ctx, root, doc)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if err := os.WriteFile(path, []byte(strings.Replace(string(raw), "# Go", "# Go\n\nscribbles", 1)), 0o644); err != nil {
		t.Fatalf("edit: %v", err)
	}

	doc.Managed = "- [x] Intro\n"
	if _, err := writer.Write(ctx, root, doc); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	raw, _ = os.ReadFile(path)
	text := string(raw)
	if !strings.Contains(text, "scribbles") || !strings.Contains(text, "- [x] Intro") || strings.Contains(text, "- [ ] Intro") {
		t.Fatalf("unexpected rewrite:\n%s", text)
	}
}

func TestWriteReplacesBodyWithoutKeepBody(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	writer := contentout.NewMarkdownWriter()
	ctx := context.Background()
	doc := domain.Document{Dir: "articles", Name: "post", Body: "first\n"}
	if _, err := writer.Write(ctx, root, doc); err != nil {
		t.Fatalf("write: %v", err)
	}
	doc.Body = "second\n"
	path, err := writer.Write(ctx, root, doc)
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if strings.Contains(string(raw), "first") || !strings.Contains(string(raw), "second") {
		t.Fatalf("body not replaced:\n%s", raw)
	}
}
