package usecase_test

import (
	"testing"
	"time"

	"mindflow/internal/modules/task/dto"
	"mindflow/internal/modules/task/service"
	"mindflow/internal/modules/task/usecase"
	"mindflow/internal/platform/id"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

func TestBoardReflectsTracker(t *testing.T) {
	t.Parallel()
	uc := usecase.NewInteractor(service.NewTracker(fixedClock{}, id.RandomHex{}))
	first, err := uc.Start(dto.StartInput{Type: "course_generation", Topic: "Go", Message: "Generating course..."})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := uc.Minimize(); err != nil {
		t.Fatalf("minimize: %v", err)
	}
	board := uc.Board()
	if board.Active != nil || len(board.Minimized) != 1 || board.Minimized[0].ID != first.ID {
		t.Fatalf("unexpected board %+v", board)
	}
	live, err := uc.Complete(first.ID, dto.ResultInput{Message: "Course generated!", CourseID: "c1"})
	if err != nil || !live {
		t.Fatalf("complete = %v, %v", live, err)
	}
	board = uc.Board()
	if board.Minimized[0].Status != "done" || board.Minimized[0].CourseID != "c1" {
		t.Fatalf("minimized task not finished: %+v", board.Minimized[0])
	}
}
