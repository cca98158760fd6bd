package domain

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidTransition = errors.New("invalid task transition")

type Type string

const (
	TypeCourseGeneration  Type = "course_generation"
	TypeTopicExpansion    Type = "topic_expansion"
	TypeProjectGeneration Type = "project_generation"
	TypePlanGeneration    Type = "plan_generation"
	TypeBulkGeneration    Type = "bulk_generation"
)

func (t Type) Validate() error {
	switch t {
	case TypeCourseGeneration, TypeTopicExpansion, TypeProjectGeneration, TypePlanGeneration, TypeBulkGeneration:
		return nil
	default:
		return fmt.Errorf("unsupported task type %q", string(t))
	}
}

type Status string

const (
	StatusGenerating Status = "generating"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

type Task struct {
	ID         string
	Type       Type
	Topic      string
	Status     Status
	Message    string
	CourseID   string
	ProjectID  string
	PlanID     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Result is what a finished generation reports back.
type Result struct {
	Message   string
	CourseID  string
	ProjectID string
	PlanID    string
}

func (t Task) Terminal() bool {
	return t.Status == StatusDone || t.Status == StatusError
}

// Finish moves a generating task to done or error. Any other transition fails
// and leaves the task unchanged.
func (t *Task) Finish(status Status, result Result, at time.Time) error {
	if t.Status != StatusGenerating || (status != StatusDone && status != StatusError) {
		return fmt.Errorf("%s -> %s: %w", t.Status, status, ErrInvalidTransition)
	}
	t.Status = status
	t.Message = result.Message
	t.CourseID = result.CourseID
	t.ProjectID = result.ProjectID
	t.PlanID = result.PlanID
	t.FinishedAt = at
	return nil
}
