package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	contentout "mindflow/internal/modules/content/adapter/out"
	contentdomain "mindflow/internal/modules/content/domain"
	contentdto "mindflow/internal/modules/content/dto"
	contentin "mindflow/internal/modules/content/port/in"
	contentservice "mindflow/internal/modules/content/service"
	contentusecase "mindflow/internal/modules/content/usecase"
	genout "mindflow/internal/modules/generation/adapter/out"
	gendomain "mindflow/internal/modules/generation/domain"
	genin "mindflow/internal/modules/generation/port/in"
	genservice "mindflow/internal/modules/generation/service"
	genusecase "mindflow/internal/modules/generation/usecase"
	"mindflow/internal/modules/session/domain"
	"mindflow/internal/modules/session/dto"
	sessionin "mindflow/internal/modules/session/port/in"
	"mindflow/internal/modules/session/service"
	"mindflow/internal/modules/session/usecase"
	sourceout "mindflow/internal/modules/source/adapter/out"
	sourceservice "mindflow/internal/modules/source/service"
	sourceusecase "mindflow/internal/modules/source/usecase"
	taskservice "mindflow/internal/modules/task/service"
	taskusecase "mindflow/internal/modules/task/usecase"
	apperrors "mindflow/internal/platform/errors"
	"mindflow/internal/platform/id"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }

type memorySnapshots struct {
	mu    sync.Mutex
	state contentdomain.State
}

func (m *memorySnapshots) Load(context.Context) (contentdomain.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone(), nil
}

func (m *memorySnapshots) Save(_ context.Context, state contentdomain.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state.Clone()
	return nil
}

type fixture struct {
	sessions sessionin.Usecase
	content  contentin.Usecase
	course   contentdomain.Course
}

func offlineGenerator() genin.Usecase {
	svc := genservice.NewGenerationService(genout.NewOfflineModel(), nil)
	return genusecase.NewInteractor(svc, genservice.NewDoctor(genservice.BackendConfig{Backend: gendomain.BackendOffline}, nil, nil))
}

func newFixture(t *testing.T, gen genin.Usecase) fixture {
	t.Helper()
	ctx := context.Background()
	store := contentservice.NewStore(&memorySnapshots{state: contentdomain.EmptyState()}, fixedClock{}, id.RandomHex{}, nil)
	tasks := taskusecase.NewInteractor(taskservice.NewTracker(fixedClock{}, id.RandomHex{}))
	sources := sourceusecase.NewInteractor(sourceservice.NewSourceService(sourceout.NewLocalTextReader(), sourceout.NewLocalPDFReader()))
	content := contentusecase.NewInteractor(store, gen, tasks, sources, contentout.NewMarkdownWriter(), nil)
	result, err := content.GenerateCourse(ctx, contentdto.GenerateCourseInput{Topic: "Go"})
	if err != nil {
		t.Fatalf("seed course: %v", err)
	}
	svc := service.NewSessionService(fixedClock{}, id.RandomHex{}, nil, nil)
	return fixture{sessions: usecase.NewInteractor(svc, gen, content, nil), content: content, course: result.Course}
}

func TestOpenFillsEachKind(t *testing.T) {
	t.Parallel()
	f := newFixture(t, offlineGenerator())
	ctx := context.Background()
	lesson := f.course.Topics[0].Subtopics[0]

	cases := []struct {
		input dto.OpenInput
		check func(domain.Session) bool
	}{
		{dto.OpenInput{Kind: "story", Subject: "Recursion"}, func(s domain.Session) bool { return strings.Contains(s.Text, "Recursion") }},
		{dto.OpenInput{Kind: "analogy", Subject: "Maps"}, func(s domain.Session) bool { return s.Text != "" }},
		{dto.OpenInput{Kind: "define", Subject: "closure"}, func(s domain.Session) bool { return s.Text != "" }},
		{dto.OpenInput{Kind: "flashcards", Subject: "Go"}, func(s domain.Session) bool { return len(s.Flashcards) == 3 }},
		{dto.OpenInput{Kind: "socratic", CourseID: f.course.ID, SubtopicID: lesson.ID}, func(s domain.Session) bool { return len(s.Quiz) == 3 }},
		{dto.OpenInput{Kind: "quick_quiz", Subject: "Go", Count: 4}, func(s domain.Session) bool { return len(s.Quiz) == 4 }},
		{dto.OpenInput{Kind: "practice", Subject: "Go"}, func(s domain.Session) bool { return s.Practice != nil && len(s.Practice.Concepts) == 2 }},
		{dto.OpenInput{Kind: "explore", Subject: "Go"}, func(s domain.Session) bool { return len(s.Recommendations) > 0 }},
		{dto.OpenInput{Kind: "article_ideas", Subject: "Go"}, func(s domain.Session) bool { return len(s.Items) == 3 }},
		{dto.OpenInput{Kind: "mindmap", CourseID: f.course.ID}, func(s domain.Session) bool {
			return s.MindMap != nil && len(s.MindMap.Children) == 3 && s.Subject == f.course.Title
		}},
		{dto.OpenInput{Kind: "code_explain", Code: "x := 1"}, func(s domain.Session) bool { return s.Text != "" }},
		{dto.OpenInput{Kind: "live_interview", Subject: "Go"}, func(s domain.Session) bool {
			return len(s.Transcript) == 1 && s.Transcript[0].Role == contentdomain.RoleModel
		}},
		{dto.OpenInput{Kind: "article_tutor", CourseID: f.course.ID, SubtopicID: lesson.ID}, func(s domain.Session) bool { return len(s.Transcript) == 2 }},
	}
	for _, tc := range cases {
		out, err := f.sessions.Open(ctx, tc.input)
		if err != nil {
			t.Fatalf("%s: %v", tc.input.Kind, err)
		}
		if out.Status != domain.StatusReady || !tc.check(out.Session) {
			t.Fatalf("%s: unexpected session %+v", tc.input.Kind, out.Session)
		}
	}
	if got := len(f.sessions.List()); got != len(cases) {
		t.Fatalf("expected %d open sessions, got %d", len(cases), got)
	}
}

func TestOpenRejectsBadInput(t *testing.T) {
	t.Parallel()
	f := newFixture(t, offlineGenerator())
	ctx := context.Background()
	for _, input := range []dto.OpenInput{
		{Kind: "karaoke", Subject: "x"},
		{Kind: "story"},
		{Kind: "code_explain"},
	} {
		if _, err := f.sessions.Open(ctx, input); !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Fatalf("%+v: expected invalid input, got %v", input, err)
		}
	}
	if _, err := f.sessions.Open(ctx, dto.OpenInput{Kind: "understanding", CourseID: f.course.ID, SubtopicID: "missing"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

type failingStory struct {
	genin.Usecase
}

func (failingStory) Story(context.Context, string) (string, error) {
	return "", &gendomain.CallError{Operation: gendomain.OpStory, Err: errors.New("timeout")}
}

func TestGenerationFailureBecomesSessionError(t *testing.T) {
	t.Parallel()
	f := newFixture(t, failingStory{Usecase: offlineGenerator()})
	out, err := f.sessions.Open(context.Background(), dto.OpenInput{Kind: "story", Subject: "Go"})
	if err != nil {
		t.Fatalf("generation failures are not returned: %v", err)
	}
	if out.Status != domain.StatusError || out.Error != "The AI model failed to generate content." {
		t.Fatalf("unexpected session %+v", out.Session)
	}
	if _, err := f.sessions.Open(context.Background(), dto.OpenInput{Kind: "analogy", Subject: "Go"}); err != nil {
		t.Fatalf("other kinds keep working: %v", err)
	}
}

func TestUnderstandingCheckCompletesOrAddsRemedial(t *testing.T) {
	t.Parallel()
	f := newFixture(t, offlineGenerator())
	ctx := context.Background()
	lesson := f.course.Topics[0].Subtopics[1]

	opened, err := f.sessions.Open(ctx, dto.OpenInput{Kind: "understanding", CourseID: f.course.ID, SubtopicID: lesson.ID})
	if err != nil || len(opened.Quiz) != 2 {
		t.Fatalf("open = %+v, %v", opened.Session, err)
	}
	failed, err := f.sessions.SubmitUnderstanding(ctx, dto.UnderstandingInput{Answers: []int{1, 0}})
	if err != nil || failed.Passed || failed.Correct != 1 || failed.RemedialID == "" {
		t.Fatalf("failed check = %+v, %v", failed, err)
	}
	course := f.content.State().Courses[0]
	if ti, si, ok := course.FindSubtopic(failed.RemedialID); !ok || ti != 0 || si != 2 {
		t.Fatalf("remedial should follow the lesson, got %d/%d", ti, si)
	}
	if _, err := f.sessions.Get("understanding"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("submitted check should close, got %v", err)
	}

	if _, err := f.sessions.Open(ctx, dto.OpenInput{Kind: "understanding", CourseID: f.course.ID, SubtopicID: lesson.ID}); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	passed, err := f.sessions.SubmitUnderstanding(ctx, dto.UnderstandingInput{Answers: []int{0, 0}})
	if err != nil || !passed.Passed || passed.XP != contentdomain.XPPerLesson {
		t.Fatalf("passed check = %+v, %v", passed, err)
	}
	if !f.content.State().Courses[0].Progress.Has(lesson.ID) {
		t.Fatalf("lesson should be complete")
	}
}

func TestConversationalReplies(t *testing.T) {
	t.Parallel()
	f := newFixture(t, offlineGenerator())
	ctx := context.Background()

	if _, err := f.sessions.Open(ctx, dto.OpenInput{Kind: "chat", Subject: "hello"}); err != nil {
		t.Fatalf("open chat: %v", err)
	}
	out, err := f.sessions.Reply(ctx, dto.ReplyInput{Kind: "chat", Message: "tell me more"})
	if err != nil || len(out.Transcript) != 4 {
		t.Fatalf("chat reply = %+v, %v", out.Transcript, err)
	}
	if len(f.content.State().ChatHistory) != 4 {
		t.Fatalf("chat history should be persisted")
	}

	if _, err := f.sessions.Open(ctx, dto.OpenInput{Kind: "live_interview", Subject: "Go"}); err != nil {
		t.Fatalf("open interview: %v", err)
	}
	out, err = f.sessions.Reply(ctx, dto.ReplyInput{Kind: "live_interview", Message: "Goroutines are cheap threads."})
	if err != nil || len(out.Transcript) != 3 || out.Transcript[2].Role != contentdomain.RoleModel {
		t.Fatalf("interview reply = %+v, %v", out.Transcript, err)
	}

	if _, err := f.sessions.Open(ctx, dto.OpenInput{Kind: "project_tutor", Subject: "Build a CLI"}); err != nil {
		t.Fatalf("open tutor: %v", err)
	}
	out, err = f.sessions.Reply(ctx, dto.ReplyInput{Kind: "project_tutor", Message: "func main() {}"})
	if err != nil || len(out.Transcript) != 2 || out.Text != "Build a CLI" {
		t.Fatalf("tutor reply = %+v, %v", out.Session, err)
	}

	if _, err := f.sessions.Reply(ctx, dto.ReplyInput{Kind: "story", Message: "hi"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("story takes no replies, got %v", err)
	}
	if _, err := f.sessions.Reply(ctx, dto.ReplyInput{Kind: "article_tutor", Message: "hi"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unopened session, got %v", err)
	}
}
