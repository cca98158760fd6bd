package in

import (
	"context"

	"mindflow/internal/modules/generation/dto"
	genin "mindflow/internal/modules/generation/port/in"
)

type CLIHandler struct {
	usecase genin.Usecase
}

func NewCLIHandler(usecase genin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Doctor(ctx context.Context) (dto.DoctorOutput, error) {
	return h.usecase.Doctor(ctx)
}
