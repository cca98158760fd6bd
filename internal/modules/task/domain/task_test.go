package domain_test

import (
	"errors"
	"testing"
	"time"

	"mindflow/internal/modules/task/domain"
)

func TestFinishOnlyFromGenerating(t *testing.T) {
	t.Parallel()
	now := time.Now().UTC()
	task := domain.Task{ID: "t1", Status: domain.StatusGenerating}
	if err := task.Finish(domain.StatusGenerating, domain.Result{}, now); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("generating -> generating should fail, got %v", err)
	}
	if err := task.Finish(domain.StatusDone, domain.Result{Message: "ok", CourseID: "c1"}, now); err != nil {
		t.Fatalf("generating -> done: %v", err)
	}
	if task.CourseID != "c1" || !task.Terminal() {
		t.Fatalf("unexpected task %+v", task)
	}
	before := task
	if err := task.Finish(domain.StatusError, domain.Result{Message: "late"}, now); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("done -> error should fail, got %v", err)
	}
	if task != before {
		t.Fatalf("failed transition mutated task")
	}
}

func TestTypeValidate(t *testing.T) {
	t.Parallel()
	if err := domain.TypePlanGeneration.Validate(); err != nil {
		t.Fatalf("plan generation should be valid: %v", err)
	}
	if err := domain.Type("mystery").Validate(); err == nil {
		t.Fatalf("unknown type should fail")
	}
}
