package usecase

import (
	"mindflow/internal/modules/task/domain"
	"mindflow/internal/modules/task/dto"
	taskin "mindflow/internal/modules/task/port/in"
	"mindflow/internal/modules/task/service"
)

type Interactor struct {
	tracker *service.Tracker
}

func NewInteractor(tracker *service.Tracker) taskin.Usecase {
	return &Interactor{tracker: tracker}
}

func (i *Interactor) Start(input dto.StartInput) (dto.TaskOutput, error) {
	task, err := i.tracker.Start(domain.Type(input.Type), input.Topic, input.Message)
	if err != nil {
		return dto.TaskOutput{}, err
	}
	return toOutput(task), nil
}

func (i *Interactor) Complete(id string, result dto.ResultInput) (bool, error) {
	return i.tracker.Complete(id, domain.Result{
		Message:   result.Message,
		CourseID:  result.CourseID,
		ProjectID: result.ProjectID,
		PlanID:    result.PlanID,
	})
}

func (i *Interactor) Fail(id, message string) (bool, error) {
	return i.tracker.Fail(id, message)
}

func (i *Interactor) Minimize() error {
	return i.tracker.Minimize()
}

func (i *Interactor) Restore(id string) (dto.TaskOutput, error) {
	task, err := i.tracker.Restore(id)
	if err != nil {
		return dto.TaskOutput{}, err
	}
	return toOutput(task), nil
}

func (i *Interactor) Cancel(id string) bool {
	return i.tracker.Cancel(id)
}

func (i *Interactor) Dismiss(id string) error {
	return i.tracker.Dismiss(id)
}

func (i *Interactor) Board() dto.BoardOutput {
	board := dto.BoardOutput{Minimized: []dto.TaskOutput{}}
	if active, ok := i.tracker.Active(); ok {
		out := toOutput(active)
		board.Active = &out
	}
	for _, task := range i.tracker.Minimized() {
		board.Minimized = append(board.Minimized, toOutput(task))
	}
	return board
}

func (i *Interactor) Subscribe() (<-chan struct{}, func()) {
	return i.tracker.Subscribe()
}

func toOutput(task domain.Task) dto.TaskOutput {
	return dto.TaskOutput{
		ID:         task.ID,
		Type:       string(task.Type),
		Topic:      task.Topic,
		Status:     string(task.Status),
		Message:    task.Message,
		CourseID:   task.CourseID,
		ProjectID:  task.ProjectID,
		PlanID:     task.PlanID,
		StartedAt:  task.StartedAt,
		FinishedAt: task.FinishedAt,
	}
}
