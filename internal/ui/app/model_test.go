package app_test

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	contentdomain "mindflow/internal/modules/content/domain"
	contentdto "mindflow/internal/modules/content/dto"
	sessiondto "mindflow/internal/modules/session/dto"
	taskdto "mindflow/internal/modules/task/dto"
	apperrors "mindflow/internal/platform/errors"
	"mindflow/internal/ui/app"
	"mindflow/internal/ui/components"
)

type fakeContent struct {
	app.ContentPort
	state     contentdomain.State
	generated []string
	deleted   []string
}

func (f *fakeContent) Snapshot() contentdto.Snapshot {
	return contentdto.Snapshot{State: f.state}
}

func (f *fakeContent) Subscribe() (<-chan struct{}, func()) { return signalled(), func() {} }

func (f *fakeContent) GenerateCourse(_ context.Context, in contentdto.GenerateCourseInput) (contentdto.CourseResult, error) {
	f.generated = append(f.generated, in.Topic)
	return contentdto.CourseResult{Course: contentdomain.Course{ID: "c-new", Title: in.Topic + " basics"}}, nil
}

func (f *fakeContent) DeleteCourse(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeTasks struct{ app.TaskPort }

func (fakeTasks) Board() taskdto.BoardOutput              { return taskdto.BoardOutput{} }
func (fakeTasks) Subscribe() (<-chan struct{}, func()) { return signalled(), func() {} }

type fakeSessions struct{ app.SessionPort }

func (fakeSessions) List() []sessiondto.SessionOutput      { return nil }
func (fakeSessions) Subscribe() (<-chan struct{}, func()) { return signalled(), func() {} }
func (fakeSessions) Last(context.Context) (sessiondto.SessionOutput, error) {
	return sessiondto.SessionOutput{}, apperrors.ErrNoActiveSession
}

func signalled() <-chan struct{} {
	ch := make(chan struct{}, 1)
	ch <- struct{}{}
	return ch
}

func fixedNow() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }

// start runs Init once and feeds every resulting message back, without
// re-arming the subscription waits.
func start(t *testing.T, content *fakeContent) tea.Model {
	t.Helper()
	var model tea.Model = app.NewModel(context.Background(), content, fakeTasks{}, fakeSessions{}, fixedNow)
	model, _ = model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	msg := model.Init()()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		t.Fatalf("Init returned %T, want a batch", msg)
	}
	for _, cmd := range batch {
		if cmd == nil {
			continue
		}
		if inner := cmd(); inner != nil {
			model, _ = model.Update(inner)
		}
	}
	return model
}

func TestPaletteGeneratesCourse(t *testing.T) {
	t.Parallel()

	content := &fakeContent{state: contentdomain.EmptyState()}
	model := start(t, content)

	model, cmd := model.Update(components.PaletteSubmitMsg{Input: "course:new Go"})
	if cmd == nil {
		t.Fatal("expected a generation command")
	}
	model, _ = model.Update(cmd())

	if len(content.generated) != 1 || content.generated[0] != "Go" {
		t.Fatalf("generated = %v", content.generated)
	}
	if !strings.Contains(model.View(), "course ready: Go basics") {
		t.Fatalf("status missing from view:\n%s", model.View())
	}
}

func TestDeleteCourseWaitsForConfirmation(t *testing.T) {
	t.Parallel()

	state := contentdomain.EmptyState()
	state.Courses = []contentdomain.Course{{ID: "c1", Title: "Rust", KnowledgeLevel: contentdomain.LevelBeginner}}
	content := &fakeContent{state: state}
	model := start(t, content)

	model, cmd := model.Update(components.PaletteSubmitMsg{Input: "course:delete"})
	if cmd != nil {
		t.Fatal("delete ran before confirmation")
	}
	if !strings.Contains(model.View(), "delete this course? (y/n)") {
		t.Fatalf("confirmation prompt missing:\n%s", model.View())
	}

	model, cmd = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if cmd == nil {
		t.Fatal("confirmation produced no command")
	}
	_, _ = model.Update(cmd())
	if len(content.deleted) != 1 || content.deleted[0] != "c1" {
		t.Fatalf("deleted = %v", content.deleted)
	}
}

func TestDeclinedConfirmationDoesNothing(t *testing.T) {
	t.Parallel()

	state := contentdomain.EmptyState()
	state.Courses = []contentdomain.Course{{ID: "c1", Title: "Rust"}}
	content := &fakeContent{state: state}
	model := start(t, content)

	model, _ = model.Update(components.PaletteSubmitMsg{Input: "course:delete"})
	model, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if cmd != nil {
		t.Fatal("declined confirmation still returned a command")
	}
	if len(content.deleted) != 0 {
		t.Fatalf("deleted = %v", content.deleted)
	}
	if !strings.Contains(model.View(), "cancelled") {
		t.Fatalf("expected cancelled status:\n%s", model.View())
	}
}

func TestUnknownPaletteCommand(t *testing.T) {
	t.Parallel()

	model := start(t, &fakeContent{state: contentdomain.EmptyState()})
	model, _ = model.Update(components.PaletteSubmitMsg{Input: "nope"})
	if !strings.Contains(model.View(), "unknown command: nope") {
		t.Fatalf("view:\n%s", model.View())
	}
}
