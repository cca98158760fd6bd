package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"mindflow/internal/modules/content/domain"
	"mindflow/internal/modules/content/dto"
	apperrors "mindflow/internal/platform/errors"
)

// ExportMarkdown writes every course and article as a markdown note under
// dir. Re-exporting refreshes frontmatter and the progress block only, so
// notes edited by hand keep their text.
func (i *Interactor) ExportMarkdown(ctx context.Context, dir string) (dto.ExportMarkdownOutput, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return dto.ExportMarkdownOutput{}, fmt.Errorf("%w: export directory is required", apperrors.ErrInvalidInput)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dto.ExportMarkdownOutput{}, fmt.Errorf("resolve export directory: %w", err)
	}

	state := i.store.Snapshot()
	folderNames := make(map[string]string, len(state.Folders))
	for _, folder := range state.Folders {
		folderNames[folder.ID] = folder.Name
	}

	docs := make([]domain.Document, 0, len(state.Courses)+len(state.Articles))
	for _, course := range state.Courses {
		docs = append(docs, domain.CourseDocument(course, folderNames[state.FolderOfCourse(course.ID)]))
	}
	for _, article := range state.Articles {
		docs = append(docs, domain.ArticleDocument(article, folderNames[state.FolderOfArticle(article.ID)]))
	}

	out := dto.ExportMarkdownOutput{Dir: abs, Paths: make([]string, 0, len(docs))}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		path, err := i.writer.Write(ctx, abs, doc)
		if err != nil {
			return out, err
		}
		out.Paths = append(out.Paths, path)
	}
	i.log.Info("exported markdown", "dir", abs, "documents", len(out.Paths))
	return out, nil
}
