package in

import (
	"context"

	"mindflow/internal/modules/storage/dto"
	storagein "mindflow/internal/modules/storage/port/in"
)

type CLIHandler struct {
	usecase storagein.Usecase
}

func NewCLIHandler(usecase storagein.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Export(ctx context.Context) (dto.ExportOutput, error) {
	return h.usecase.Export(ctx)
}

func (h CLIHandler) Import(ctx context.Context, payload []byte, confirm bool) error {
	return h.usecase.Import(ctx, dto.ImportInput{Payload: payload, Confirm: confirm})
}

func (h CLIHandler) Reset(ctx context.Context, confirm bool) error {
	return h.usecase.Reset(ctx, dto.ResetInput{Confirm: confirm})
}
