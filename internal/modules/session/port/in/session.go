package in

import (
	"context"

	"mindflow/internal/modules/session/dto"
)

// Usecase drives study sessions. Generation failures end up on the session
// as an error message; returned errors are reserved for rejected input.
type Usecase interface {
	Open(ctx context.Context, input dto.OpenInput) (dto.SessionOutput, error)
	Reply(ctx context.Context, input dto.ReplyInput) (dto.SessionOutput, error)
	SubmitUnderstanding(ctx context.Context, input dto.UnderstandingInput) (dto.UnderstandingOutput, error)
	Get(kind string) (dto.SessionOutput, error)
	List() []dto.SessionOutput
	Close(kind string) error
	Last(ctx context.Context) (dto.SessionOutput, error)
	Subscribe() (<-chan struct{}, func())
}
