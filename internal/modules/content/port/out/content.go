package out

import (
	"context"

	"mindflow/internal/modules/content/domain"
)

// SnapshotStore persists the whole learner state.
type SnapshotStore interface {
	Load(ctx context.Context) (domain.State, error)
	Save(ctx context.Context, state domain.State) error
}

type DocumentWriter interface {
	Write(ctx context.Context, root string, doc domain.Document) (string, error)
}
