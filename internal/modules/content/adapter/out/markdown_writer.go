package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mindflow/internal/modules/content/domain"
	contentout "mindflow/internal/modules/content/port/out"
	"mindflow/internal/platform/markdown"
)

type MarkdownWriter struct{}

func NewMarkdownWriter() contentout.DocumentWriter {
	return &MarkdownWriter{}
}

func (w *MarkdownWriter) Write(_ context.Context, root string, doc domain.Document) (string, error) {
	path := filepath.Join(root, doc.Dir, doc.FileName())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	body := doc.Body
	if doc.KeepBody {
		if existing, err := os.ReadFile(path); err == nil {
			_, existingBody, splitErr := markdown.SplitFrontmatter(string(existing))
			if splitErr == nil && strings.TrimSpace(existingBody) != "" {
				body = existingBody
			}
		}
	}
	if doc.Managed != "" {
		body = markdown.ReplaceManagedBlock(body, domain.ProgressBlock, doc.Managed)
	}

	rendered, err := markdown.RenderFrontmatter(doc.Fields, body)
	if err != nil {
		return "", err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", doc.FileName(), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("replace %s: %w", doc.FileName(), err)
	}
	return path, nil
}
