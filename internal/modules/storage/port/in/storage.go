package in

import (
	"context"

	"mindflow/internal/modules/storage/dto"
)

type Usecase interface {
	Export(ctx context.Context) (dto.ExportOutput, error)
	Import(ctx context.Context, input dto.ImportInput) error
	Reset(ctx context.Context, input dto.ResetInput) error
}
