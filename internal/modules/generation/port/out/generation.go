package out

import (
	"context"

	"mindflow/internal/modules/generation/domain"
)

// Model answers one request with raw text. Structured operations expect a
// JSON document, possibly fenced.
type Model interface {
	Generate(ctx context.Context, req domain.Request) (string, error)
}

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	GetMetadata(ctx context.Context, manifest domain.Manifest) (domain.Metadata, error)
}
