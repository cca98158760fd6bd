package in

import "mindflow/internal/modules/task/dto"

// Usecase tracks background generations. Complete and Fail report false when
// the task was cancelled in the meantime.
type Usecase interface {
	Start(input dto.StartInput) (dto.TaskOutput, error)
	Complete(id string, result dto.ResultInput) (bool, error)
	Fail(id, message string) (bool, error)
	Minimize() error
	Restore(id string) (dto.TaskOutput, error)
	Cancel(id string) bool
	Dismiss(id string) error
	Board() dto.BoardOutput
	Subscribe() (<-chan struct{}, func())
}
