package out

import "context"

type TextReader interface {
	Read(ctx context.Context, path string) (string, error)
}

// PDFReader extracts the text of every page.
type PDFReader interface {
	ReadAll(ctx context.Context, path string) (string, int, error)
}
