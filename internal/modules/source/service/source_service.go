package service

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	gendomain "mindflow/internal/modules/generation/domain"
	"mindflow/internal/modules/source/domain"
	"mindflow/internal/modules/source/dto"
	sourceout "mindflow/internal/modules/source/port/out"
	apperrors "mindflow/internal/platform/errors"
)

type SourceService struct {
	text sourceout.TextReader
	pdf  sourceout.PDFReader
}

func NewSourceService(text sourceout.TextReader, pdf sourceout.PDFReader) *SourceService {
	return &SourceService{text: text, pdf: pdf}
}

// Load turns a user supplied value into course source material. A syllabus
// value naming an existing file is read from disk, anything else is inline text.
func (s *SourceService) Load(ctx context.Context, input dto.LoadInput) (dto.LoadOutput, error) {
	value := strings.TrimSpace(input.Value)
	if value == "" {
		return dto.LoadOutput{}, fmt.Errorf("%w: %w", apperrors.ErrInvalidInput, domain.ErrEmptySource)
	}
	var (
		content string
		origin  = "inline"
	)
	switch input.Kind {
	case gendomain.SourceSyllabus:
		content = value
		if isFile(value) {
			read, err := s.text.Read(ctx, value)
			if err != nil {
				return dto.LoadOutput{}, err
			}
			content, origin = read, filepath.Base(value)
		}
	case gendomain.SourceURL:
		parsed, err := url.Parse(value)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			return dto.LoadOutput{}, fmt.Errorf("%w: %q is not an http(s) url", apperrors.ErrInvalidInput, value)
		}
		content, origin = parsed.String(), parsed.Host
	case gendomain.SourcePDF:
		if !isFile(value) {
			return dto.LoadOutput{}, fmt.Errorf("%w: pdf %s", apperrors.ErrNotFound, value)
		}
		read, _, err := s.pdf.ReadAll(ctx, value)
		if err != nil {
			return dto.LoadOutput{}, err
		}
		content, origin = read, filepath.Base(value)
	default:
		return dto.LoadOutput{}, fmt.Errorf("%w: %w %q", apperrors.ErrInvalidInput, domain.ErrUnsupportedKind, input.Kind)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return dto.LoadOutput{}, fmt.Errorf("%w: %w: %s", apperrors.ErrInvalidInput, domain.ErrEmptySource, origin)
	}
	content, truncated := domain.Truncate(content)
	return dto.LoadOutput{
		Source:    gendomain.Source{Kind: input.Kind, Content: content},
		Origin:    origin,
		Truncated: truncated,
	}, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
