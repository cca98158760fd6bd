package in

import (
	"mindflow/internal/modules/task/dto"
	taskin "mindflow/internal/modules/task/port/in"
)

type CLIHandler struct {
	usecase taskin.Usecase
}

func NewCLIHandler(usecase taskin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Board() dto.BoardOutput {
	return h.usecase.Board()
}

func (h CLIHandler) Minimize() error {
	return h.usecase.Minimize()
}

func (h CLIHandler) Restore(id string) (dto.TaskOutput, error) {
	return h.usecase.Restore(id)
}

func (h CLIHandler) Cancel(id string) bool {
	return h.usecase.Cancel(id)
}

func (h CLIHandler) Dismiss(id string) error {
	return h.usecase.Dismiss(id)
}

func (h CLIHandler) Subscribe() (<-chan struct{}, func()) {
	return h.usecase.Subscribe()
}
