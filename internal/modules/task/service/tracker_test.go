package service_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"mindflow/internal/modules/task/domain"
	"mindflow/internal/modules/task/service"
	apperrors "mindflow/internal/platform/errors"
)

type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

type seqID struct {
	mu sync.Mutex
	n  int
}

func (s *seqID) New() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("task-%d", s.n)
}

func newTracker() *service.Tracker {
	return service.NewTracker(fixedClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}, &seqID{})
}

func TestStartMinimizesGeneratingForegroundTask(t *testing.T) {
	t.Parallel()
	tracker := newTracker()
	first, err := tracker.Start(domain.TypeCourseGeneration, "Go", "Generating course...")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	second, _ := tracker.Start(domain.TypePlanGeneration, "Rust", "Generating plan...")
	active, ok := tracker.Active()
	if !ok || active.ID != second.ID {
		t.Fatalf("active = %+v", active)
	}
	minimized := tracker.Minimized()
	if len(minimized) != 1 || minimized[0].ID != first.ID {
		t.Fatalf("first task should be minimized: %+v", minimized)
	}
	if _, err := tracker.Start("unknown", "x", ""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("unknown type should be invalid input, got %v", err)
	}
}

func TestStartSupersedesFinishedForegroundTask(t *testing.T) {
	t.Parallel()
	tracker := newTracker()
	first, _ := tracker.Start(domain.TypeCourseGeneration, "Go", "")
	if _, err := tracker.Complete(first.ID, domain.Result{Message: "done"}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	_, _ = tracker.Start(domain.TypeCourseGeneration, "Rust", "")
	if len(tracker.Minimized()) != 0 {
		t.Fatalf("finished task should not be minimized")
	}
}

func TestStartKeepsFinishedTaskOfAnotherType(t *testing.T) {
	t.Parallel()
	tracker := newTracker()
	first, _ := tracker.Start(domain.TypeCourseGeneration, "Go", "")
	if _, err := tracker.Complete(first.ID, domain.Result{Message: "done", CourseID: "c1"}); err != nil {
		t.Fatalf("complete: %v", err)
	}
	_, _ = tracker.Start(domain.TypePlanGeneration, "Rust", "")
	minimized := tracker.Minimized()
	if len(minimized) != 1 || minimized[0].ID != first.ID || minimized[0].Status != domain.StatusDone {
		t.Fatalf("finished course task should be kept: %+v", minimized)
	}
}

func TestCompleteAfterCancelIsDiscarded(t *testing.T) {
	t.Parallel()
	tracker := newTracker()
	task, _ := tracker.Start(domain.TypeCourseGeneration, "Go", "")
	other, _ := tracker.Start(domain.TypeTopicExpansion, "Go", "")
	if !tracker.Cancel(task.ID) {
		t.Fatalf("cancel should remove the minimized task")
	}
	live, err := tracker.Complete(task.ID, domain.Result{CourseID: "c1"})
	if err != nil || live {
		t.Fatalf("late completion = %v, %v", live, err)
	}
	if active, _ := tracker.Active(); active.ID != other.ID || active.Status != domain.StatusGenerating {
		t.Fatalf("cancel must not touch other tasks: %+v", active)
	}
	if tracker.Cancel(task.ID) {
		t.Fatalf("second cancel should report false")
	}
}

func TestFinishTwiceIsInvalid(t *testing.T) {
	t.Parallel()
	tracker := newTracker()
	task, _ := tracker.Start(domain.TypeProjectGeneration, "Go", "")
	if live, err := tracker.Fail(task.ID, "boom"); err != nil || !live {
		t.Fatalf("fail = %v, %v", live, err)
	}
	if _, err := tracker.Complete(task.ID, domain.Result{}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("error -> done should be invalid, got %v", err)
	}
	got, _ := tracker.Get(task.ID)
	if got.Status != domain.StatusError || got.Message != "boom" {
		t.Fatalf("task changed after invalid transition: %+v", got)
	}
}

func TestMinimizeRestoreDismiss(t *testing.T) {
	t.Parallel()
	tracker := newTracker()
	first, _ := tracker.Start(domain.TypeCourseGeneration, "Go", "")
	if err := tracker.Minimize(); err != nil {
		t.Fatalf("minimize: %v", err)
	}
	if _, ok := tracker.Active(); ok {
		t.Fatalf("no task should be active after minimize")
	}
	if err := tracker.Minimize(); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("minimize with nothing active should be not found, got %v", err)
	}
	second, _ := tracker.Start(domain.TypeCourseGeneration, "Rust", "")
	restored, err := tracker.Restore(first.ID)
	if err != nil || restored.ID != first.ID {
		t.Fatalf("restore = %+v, %v", restored, err)
	}
	if minimized := tracker.Minimized(); len(minimized) != 1 || minimized[0].ID != second.ID {
		t.Fatalf("generating foreground should be minimized on restore: %+v", minimized)
	}
	if err := tracker.Dismiss(first.ID); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("dismissing a generating task should fail, got %v", err)
	}
	_, _ = tracker.Complete(first.ID, domain.Result{})
	if err := tracker.Dismiss(first.ID); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if _, ok := tracker.Get(first.ID); ok {
		t.Fatalf("dismissed task still present")
	}
}

func TestSubscribeReceivesChanges(t *testing.T) {
	t.Parallel()
	tracker := newTracker()
	ch, cancel := tracker.Subscribe()
	defer cancel()
	_, _ = tracker.Start(domain.TypeCourseGeneration, "Go", "")
	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("expected change notification")
	}
}
