package in

import (
	"context"

	"mindflow/internal/modules/source/dto"
)

type Usecase interface {
	Load(ctx context.Context, input dto.LoadInput) (dto.LoadOutput, error)
}
