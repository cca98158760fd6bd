package out

import (
	"context"
	"fmt"
	"strings"

	sourceout "mindflow/internal/modules/source/port/out"

	"rsc.io/pdf"
)

type LocalPDFReader struct{}

func NewLocalPDFReader() sourceout.PDFReader {
	return &LocalPDFReader{}
}

func (r *LocalPDFReader) ReadAll(ctx context.Context, path string) (text string, pages int, err error) {
	defer func() {
		// rsc.io/pdf panics on malformed streams.
		if rec := recover(); rec != nil {
			text, pages, err = "", 0, fmt.Errorf("read pdf: %v", rec)
		}
	}()
	doc, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open pdf: %w", err)
	}
	total := doc.NumPage()
	var b strings.Builder
	for page := 1; page <= total; page++ {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}
		p := doc.Page(page)
		if p.V.IsNull() {
			continue
		}
		content := p.Content()
		parts := make([]string, 0, len(content.Text))
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			parts = append(parts, t.S)
		}
		if len(parts) == 0 {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(strings.Join(parts, " "))
	}
	return b.String(), total, nil
}
