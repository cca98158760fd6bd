package service

import (
	"fmt"
	"sync"

	"mindflow/internal/modules/task/domain"
	"mindflow/internal/platform/clock"
	apperrors "mindflow/internal/platform/errors"
	"mindflow/internal/platform/id"
)

// Tracker holds one foreground task and any number of minimized ones.
type Tracker struct {
	clock clock.Clock
	idGen id.Generator

	mu        sync.Mutex
	active    *domain.Task
	minimized []domain.Task
	subs      map[int]chan struct{}
	nextSub   int
}

func NewTracker(clock clock.Clock, idGen id.Generator) *Tracker {
	return &Tracker{clock: clock, idGen: idGen, subs: map[int]chan struct{}{}}
}

// Start makes a new generating task the foreground one. The previous
// foreground task is minimized unless it finished and has the same type, in
// which case the new task supersedes it.
func (t *Tracker) Start(taskType domain.Type, topic, message string) (domain.Task, error) {
	if err := taskType.Validate(); err != nil {
		return domain.Task{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	task := domain.Task{
		ID:        t.idGen.New(),
		Type:      taskType,
		Topic:     topic,
		Status:    domain.StatusGenerating,
		Message:   message,
		StartedAt: t.clock.Now(),
	}
	t.mu.Lock()
	if t.active != nil && (t.active.Status == domain.StatusGenerating || t.active.Type != taskType) {
		t.minimized = append(t.minimized, *t.active)
	}
	t.active = &task
	t.mu.Unlock()
	t.notify()
	return task, nil
}

// Complete marks id done. It reports false when the task no longer exists,
// which means it was cancelled and the result must be discarded.
func (t *Tracker) Complete(id string, result domain.Result) (bool, error) {
	return t.finish(id, domain.StatusDone, result)
}

func (t *Tracker) Fail(id, message string) (bool, error) {
	return t.finish(id, domain.StatusError, domain.Result{Message: message})
}

func (t *Tracker) finish(id string, status domain.Status, result domain.Result) (bool, error) {
	t.mu.Lock()
	task := t.lookup(id)
	if task == nil {
		t.mu.Unlock()
		return false, nil
	}
	if err := task.Finish(status, result, t.clock.Now()); err != nil {
		t.mu.Unlock()
		return true, err
	}
	t.mu.Unlock()
	t.notify()
	return true, nil
}

func (t *Tracker) lookup(id string) *domain.Task {
	if t.active != nil && t.active.ID == id {
		return t.active
	}
	for i := range t.minimized {
		if t.minimized[i].ID == id {
			return &t.minimized[i]
		}
	}
	return nil
}

// Minimize sends the foreground task to the minimized list.
func (t *Tracker) Minimize() error {
	t.mu.Lock()
	if t.active == nil {
		t.mu.Unlock()
		return fmt.Errorf("active task: %w", apperrors.ErrNotFound)
	}
	t.minimized = append(t.minimized, *t.active)
	t.active = nil
	t.mu.Unlock()
	t.notify()
	return nil
}

// Restore brings a minimized task to the foreground.
func (t *Tracker) Restore(id string) (domain.Task, error) {
	t.mu.Lock()
	idx := t.minimizedIndex(id)
	if idx < 0 {
		t.mu.Unlock()
		return domain.Task{}, fmt.Errorf("minimized task %q: %w", id, apperrors.ErrNotFound)
	}
	task := t.minimized[idx]
	t.minimized = append(t.minimized[:idx:idx], t.minimized[idx+1:]...)
	if t.active != nil && t.active.Status == domain.StatusGenerating {
		t.minimized = append(t.minimized, *t.active)
	}
	t.active = &task
	t.mu.Unlock()
	t.notify()
	return task, nil
}

// Cancel forgets id wherever it is. Results that arrive later are dropped.
func (t *Tracker) Cancel(id string) bool {
	t.mu.Lock()
	removed := t.remove(id)
	t.mu.Unlock()
	if removed {
		t.notify()
	}
	return removed
}

// Dismiss clears a finished task.
func (t *Tracker) Dismiss(id string) error {
	t.mu.Lock()
	task := t.lookup(id)
	if task == nil {
		t.mu.Unlock()
		return fmt.Errorf("task %q: %w", id, apperrors.ErrNotFound)
	}
	if !task.Terminal() {
		t.mu.Unlock()
		return fmt.Errorf("dismiss %s task: %w", task.Status, domain.ErrInvalidTransition)
	}
	t.remove(id)
	t.mu.Unlock()
	t.notify()
	return nil
}

func (t *Tracker) remove(id string) bool {
	if t.active != nil && t.active.ID == id {
		t.active = nil
		return true
	}
	if idx := t.minimizedIndex(id); idx >= 0 {
		t.minimized = append(t.minimized[:idx:idx], t.minimized[idx+1:]...)
		return true
	}
	return false
}

func (t *Tracker) minimizedIndex(id string) int {
	for i := range t.minimized {
		if t.minimized[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *Tracker) Active() (domain.Task, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == nil {
		return domain.Task{}, false
	}
	return *t.active, true
}

func (t *Tracker) Minimized() []domain.Task {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]domain.Task{}, t.minimized...)
}

func (t *Tracker) Get(id string) (domain.Task, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if task := t.lookup(id); task != nil {
		return *task, true
	}
	return domain.Task{}, false
}

// Subscribe returns a channel that receives a signal after every change.
// Signals coalesce; readers should re-query the tracker.
func (t *Tracker) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	t.mu.Lock()
	key := t.nextSub
	t.nextSub++
	t.subs[key] = ch
	t.mu.Unlock()
	return ch, func() {
		t.mu.Lock()
		delete(t.subs, key)
		t.mu.Unlock()
	}
}

func (t *Tracker) notify() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, ch := range t.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
