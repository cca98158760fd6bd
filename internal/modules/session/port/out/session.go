package out

import (
	"context"

	"mindflow/internal/modules/session/domain"
)

// ActiveSessionStore keeps the most recent session across runs.
type ActiveSessionStore interface {
	SaveActive(ctx context.Context, session domain.Session) error
	LoadActive(ctx context.Context) (domain.Session, error)
	ClearActive(ctx context.Context) error
}
