package out

import (
	"context"
	"fmt"
	"os"

	sourceout "mindflow/internal/modules/source/port/out"
)

type LocalTextReader struct{}

func NewLocalTextReader() sourceout.TextReader {
	return &LocalTextReader{}
}

func (r *LocalTextReader) Read(_ context.Context, path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read syllabus: %w", err)
	}
	return string(b), nil
}
