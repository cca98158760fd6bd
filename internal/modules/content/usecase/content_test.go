package usecase_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	contentout "mindflow/internal/modules/content/adapter/out"
	"mindflow/internal/modules/content/domain"
	"mindflow/internal/modules/content/dto"
	contentin "mindflow/internal/modules/content/port/in"
	"mindflow/internal/modules/content/service"
	"mindflow/internal/modules/content/usecase"
	genout "mindflow/internal/modules/generation/adapter/out"
	gendomain "mindflow/internal/modules/generation/domain"
	gendto "mindflow/internal/modules/generation/dto"
	genin "mindflow/internal/modules/generation/port/in"
	genservice "mindflow/internal/modules/generation/service"
	genusecase "mindflow/internal/modules/generation/usecase"
	sourceout "mindflow/internal/modules/source/adapter/out"
	sourceservice "mindflow/internal/modules/source/service"
	sourceusecase "mindflow/internal/modules/source/usecase"
	taskin "mindflow/internal/modules/task/port/in"
	taskservice "mindflow/internal/modules/task/service"
	taskusecase "mindflow/internal/modules/task/usecase"
	apperrors "mindflow/internal/platform/errors"
	"mindflow/internal/platform/id"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }

type memorySnapshots struct {
	mu      sync.Mutex
	state   domain.State
	saveErr error
}

func (m *memorySnapshots) Load(context.Context) (domain.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Clone(), nil
}

func (m *memorySnapshots) Save(_ context.Context, state domain.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.state = state.Clone()
	return nil
}

type harness struct {
	uc        contentin.Usecase
	tasks     taskin.Usecase
	snapshots *memorySnapshots
}

func offlineGenerator() genin.Usecase {
	svc := genservice.NewGenerationService(genout.NewOfflineModel(), nil)
	doctor := genservice.NewDoctor(genservice.BackendConfig{Backend: gendomain.BackendOffline}, nil, nil)
	return genusecase.NewInteractor(svc, doctor)
}

func newHarness(t *testing.T, gen genin.Usecase, seed domain.State) harness {
	t.Helper()
	snapshots := &memorySnapshots{state: seed}
	store := service.NewStore(snapshots, fixedClock{}, id.RandomHex{}, nil)
	if err := store.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	tasks := taskusecase.NewInteractor(taskservice.NewTracker(fixedClock{}, id.RandomHex{}))
	sources := sourceusecase.NewInteractor(sourceservice.NewSourceService(sourceout.NewLocalTextReader(), sourceout.NewLocalPDFReader()))
	uc := usecase.NewInteractor(store, gen, tasks, sources, contentout.NewMarkdownWriter(), nil)
	return harness{uc: uc, tasks: tasks, snapshots: snapshots}
}

func TestGenerateCourseStoresCourseAndCompletesTask(t *testing.T) {
	t.Parallel()
	h := newHarness(t, offlineGenerator(), domain.EmptyState())
	ctx := context.Background()
	folder, err := h.uc.CreateFolder(ctx, "Languages")
	if err != nil {
		t.Fatalf("folder: %v", err)
	}

	result, err := h.uc.GenerateCourse(ctx, dto.GenerateCourseInput{Topic: "Rust", Level: domain.LevelBeginner, FolderID: folder.ID})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Course.ID == "" || result.Course.TotalSubtopics() != 9 {
		t.Fatalf("unexpected course %+v", result.Course)
	}
	for _, topic := range result.Course.Topics {
		for _, sub := range topic.Subtopics {
			if sub.ID == "" || topic.ID == "" {
				t.Fatalf("ids must be assigned: %+v", topic)
			}
		}
	}
	state := h.uc.State()
	if len(state.Courses) != 1 || state.FolderOfCourse(result.Course.ID) != folder.ID {
		t.Fatalf("course not filed: %+v", state.Folders)
	}
	board := h.tasks.Board()
	if board.Active == nil || board.Active.Status != "done" || board.Active.CourseID != result.Course.ID {
		t.Fatalf("task not completed: %+v", board.Active)
	}
	if len(h.snapshots.state.Courses) != 1 {
		t.Fatalf("course not persisted")
	}
}

func TestGenerateCourseFailsTaskWhenSaveFails(t *testing.T) {
	t.Parallel()
	h := newHarness(t, offlineGenerator(), domain.EmptyState())
	diskFull := errors.New("disk full")
	h.snapshots.mu.Lock()
	h.snapshots.saveErr = diskFull
	h.snapshots.mu.Unlock()

	_, err := h.uc.GenerateCourse(context.Background(), dto.GenerateCourseInput{Topic: "Rust"})
	if !errors.Is(err, diskFull) {
		t.Fatalf("expected save error, got %v", err)
	}
	if courses := h.uc.State().Courses; len(courses) != 0 {
		t.Fatalf("unsaved course kept in state: %+v", courses)
	}
	board := h.tasks.Board()
	if board.Active == nil || board.Active.Status != "error" || board.Active.CourseID != "" {
		t.Fatalf("task should fail without a course: %+v", board.Active)
	}
	if board.Active.Message != "disk full" {
		t.Fatalf("message = %q", board.Active.Message)
	}
}

func TestGenerateCourseValidatesBeforeStartingTask(t *testing.T) {
	t.Parallel()
	h := newHarness(t, offlineGenerator(), domain.EmptyState())
	ctx := context.Background()
	if _, err := h.uc.GenerateCourse(ctx, dto.GenerateCourseInput{Topic: "  "}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if _, err := h.uc.GenerateCourse(ctx, dto.GenerateCourseInput{Topic: "Go", Level: "guru"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid level, got %v", err)
	}
	if _, err := h.uc.GenerateCourse(ctx, dto.GenerateCourseInput{Topic: "Go", SourceKind: gendomain.SourceURL, SourceValue: "ftp://x"}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("expected invalid source, got %v", err)
	}
	if board := h.tasks.Board(); board.Active != nil {
		t.Fatalf("no task should start: %+v", board.Active)
	}
}

type failingCourses struct {
	genin.Usecase
	err error
}

func (f failingCourses) Course(context.Context, gendto.CourseInput) (domain.Course, error) {
	return domain.Course{}, f.err
}

func TestGenerateCourseFailureMovesTaskToError(t *testing.T) {
	t.Parallel()
	callErr := &gendomain.CallError{Operation: gendomain.OpCourse, Err: errors.New("quota")}
	h := newHarness(t, failingCourses{Usecase: offlineGenerator(), err: callErr}, domain.EmptyState())

	result, err := h.uc.GenerateCourse(context.Background(), dto.GenerateCourseInput{Topic: "Go"})
	if !errors.Is(err, gendomain.ErrCall) {
		t.Fatalf("expected call error, got %v", err)
	}
	board := h.tasks.Board()
	if board.Active == nil || board.Active.ID != result.TaskID || board.Active.Status != "error" {
		t.Fatalf("task should be in error: %+v", board.Active)
	}
	if len(h.uc.State().Courses) != 0 {
		t.Fatalf("failed generation must not store a course")
	}
}

type gatedCourses struct {
	genin.Usecase
	started chan struct{}
	release chan struct{}
}

func (g gatedCourses) Course(ctx context.Context, input gendto.CourseInput) (domain.Course, error) {
	close(g.started)
	<-g.release
	return g.Usecase.Course(ctx, input)
}

func TestCancelledCourseIsDiscarded(t *testing.T) {
	t.Parallel()
	gen := gatedCourses{Usecase: offlineGenerator(), started: make(chan struct{}), release: make(chan struct{})}
	h := newHarness(t, gen, domain.EmptyState())

	done := make(chan error, 1)
	go func() {
		_, err := h.uc.GenerateCourse(context.Background(), dto.GenerateCourseInput{Topic: "Go"})
		done <- err
	}()
	<-gen.started
	board := h.tasks.Board()
	if board.Active == nil || !h.tasks.Cancel(board.Active.ID) {
		t.Fatalf("cancel failed: %+v", board)
	}
	close(gen.release)

	if err := <-done; !errors.Is(err, domain.ErrCancelled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if len(h.uc.State().Courses) != 0 {
		t.Fatalf("cancelled course must not be stored")
	}
}

func TestBulkGenerateCoursesReportsEachTopic(t *testing.T) {
	t.Parallel()
	h := newHarness(t, offlineGenerator(), domain.EmptyState())
	result, err := h.uc.BulkGenerateCourses(context.Background(), dto.BulkCoursesInput{Topics: []string{"Go", " ", "Rust", "Go", "Zig"}})
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}
	if len(result.Items) != 3 || result.Succeeded != 3 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(h.uc.State().Courses) != 3 {
		t.Fatalf("expected 3 stored courses")
	}
	board := h.tasks.Board()
	if board.Active == nil || board.Active.Status != "done" || !strings.Contains(board.Active.Message, "3 of 3") {
		t.Fatalf("bulk task: %+v", board.Active)
	}
}

func TestBulkGenerateCoursesFailsWhenNothingSucceeds(t *testing.T) {
	t.Parallel()
	gen := failingCourses{Usecase: offlineGenerator(), err: &gendomain.CallError{Operation: gendomain.OpCourse, Err: errors.New("down")}}
	h := newHarness(t, gen, domain.EmptyState())
	result, err := h.uc.BulkGenerateCourses(context.Background(), dto.BulkCoursesInput{Topics: []string{"Go", "Rust"}})
	if err == nil || result.Succeeded != 0 || result.Items[0].Error == "" {
		t.Fatalf("expected failure, got %+v %v", result, err)
	}
	if board := h.tasks.Board(); board.Active.Status != "error" {
		t.Fatalf("task should be in error: %+v", board.Active)
	}
}

func TestExpandTopicInsertsAfterAnchor(t *testing.T) {
	t.Parallel()
	h := newHarness(t, offlineGenerator(), domain.EmptyState())
	ctx := context.Background()
	course, err := h.uc.GenerateCourse(ctx, dto.GenerateCourseInput{Topic: "Go"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	anchor := course.Course.Topics[0].Subtopics[0]

	expanded, err := h.uc.ExpandTopic(ctx, dto.ExpandTopicInput{CourseID: course.Course.ID, SubtopicID: anchor.ID, Instruction: "more on errors"})
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	subs := expanded.Course.Topics[0].Subtopics
	if len(subs) != 5 || subs[0].ID != anchor.ID || subs[1].ID == "" || subs[1].ID == subs[2].ID {
		t.Fatalf("unexpected subtopics after expansion: %d", len(subs))
	}
	if expanded.Course.TotalSubtopics() != 11 {
		t.Fatalf("total = %d", expanded.Course.TotalSubtopics())
	}
	if _, err := h.uc.ExpandTopic(ctx, dto.ExpandTopicInput{CourseID: course.Course.ID, SubtopicID: anchor.ID}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("empty instruction should be rejected, got %v", err)
	}
}

func TestInsertRemedialMarksLessonAdaptive(t *testing.T) {
	t.Parallel()
	h := newHarness(t, offlineGenerator(), domain.EmptyState())
	ctx := context.Background()
	course, err := h.uc.GenerateCourse(ctx, dto.GenerateCourseInput{Topic: "Go"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	anchor := course.Course.Topics[1].Subtopics[2]
	remedial, err := h.uc.InsertRemedial(ctx, course.Course.ID, anchor.ID)
	if err != nil || !remedial.IsAdaptive {
		t.Fatalf("remedial = %+v, %v", remedial, err)
	}
	stored := h.uc.State().Courses[0]
	ti, si, ok := stored.FindSubtopic(remedial.ID)
	if !ok || ti != 1 || si != 3 || !stored.Topics[ti].Subtopics[si].IsAdaptive {
		t.Fatalf("remedial stored at %d/%d ok=%v", ti, si, ok)
	}
}

func TestGenerateLearningPlanFilesDailyCourses(t *testing.T) {
	t.Parallel()
	h := newHarness(t, offlineGenerator(), domain.EmptyState())
	result, err := h.uc.GenerateLearningPlan(context.Background(), "SQL", 3)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	plan := result.Plan
	if plan.Duration != 3 || len(plan.DailyTasks) != 3 || plan.FolderID != result.Folder.ID {
		t.Fatalf("unexpected plan %+v", plan)
	}
	start := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC).UnixMilli()
	if plan.StartDate != start || plan.DailyTasks[1].Date != start+24*60*60*1000 {
		t.Fatalf("dates: start %d second %d", plan.StartDate, plan.DailyTasks[1].Date)
	}
	state := h.uc.State()
	if len(state.Courses) != 3 || len(result.Folder.CourseIDs) != 3 {
		t.Fatalf("expected one course per day, folder %+v", result.Folder)
	}
	if h.tasks.Board().Active.PlanID != plan.ID {
		t.Fatalf("task should point at the plan")
	}

	if err := h.uc.RescheduleTask(context.Background(), plan.ID, plan.DailyTasks[0].ID, "2026-04-01"); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if err := h.uc.RescheduleTask(context.Background(), plan.ID, plan.DailyTasks[0].ID, "April"); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("bad date should be rejected, got %v", err)
	}
}

func TestGenerateProjectLinksCourse(t *testing.T) {
	t.Parallel()
	h := newHarness(t, offlineGenerator(), domain.EmptyState())
	ctx := context.Background()
	course, err := h.uc.GenerateCourse(ctx, dto.GenerateCourseInput{Topic: "Go"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	sub := course.Course.Topics[0].Subtopics[0]
	result, err := h.uc.GenerateProject(ctx, course.Course.ID, sub.ID)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	project := result.Project
	if project.ID == "" || project.Course == nil || project.Course.ID != course.Course.ID || len(project.Steps) == 0 {
		t.Fatalf("unexpected project %+v", project)
	}
	done, err := h.uc.ToggleProjectStep(ctx, project.ID, project.Steps[0].ID)
	if err != nil || !done {
		t.Fatalf("toggle step = %v, %v", done, err)
	}
	if _, err := h.uc.GenerateProject(ctx, course.Course.ID, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestArticlesSingleAndBulk(t *testing.T) {
	t.Parallel()
	h := newHarness(t, offlineGenerator(), domain.EmptyState())
	ctx := context.Background()
	folder, err := h.uc.CreateFolder(ctx, "Reading")
	if err != nil {
		t.Fatalf("folder: %v", err)
	}

	single, err := h.uc.GenerateArticle(ctx, dto.ArticleInput{Topic: "Testing", FolderID: folder.ID})
	if err != nil || single.Article.ID == "" || len(single.Ideas) != 3 {
		t.Fatalf("article = %+v, %v", single, err)
	}
	if _, err := h.uc.GenerateArticle(ctx, dto.ArticleInput{Topic: "Testing", CourseID: "nope"}); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown course should be rejected, got %v", err)
	}

	bulk, err := h.uc.BulkGenerateArticles(ctx, dto.BulkArticlesInput{Syllabus: "1. Variables\n2. Functions", FolderID: folder.ID})
	if err != nil || bulk.Succeeded != 2 {
		t.Fatalf("bulk = %+v, %v", bulk, err)
	}
	state := h.uc.State()
	if len(state.Articles) != 3 || len(state.Folders[0].ArticleIDs) != 3 {
		t.Fatalf("articles not filed: %+v", state.Folders[0])
	}
}

func TestFixDiagramRewritesBlock(t *testing.T) {
	t.Parallel()
	seed := domain.EmptyState()
	seed.Courses = []domain.Course{{
		ID:       "c1",
		Title:    "Graphs",
		Progress: domain.NewProgress(),
		Topics: []domain.Topic{{ID: "t1", Title: "Intro", Subtopics: []domain.Subtopic{{
			ID: "s1", Title: "Flow", Type: domain.SubtopicArticle,
			Article: &domain.ArticleData{ContentBlocks: []domain.ContentBlock{
				{ID: "b1", Type: domain.BlockDiagram, Diagram: "graph TD A-->"},
				{ID: "b2", Type: domain.BlockText, Text: "hello"},
			}},
		}}}},
	}}
	h := newHarness(t, offlineGenerator(), seed)
	ctx := context.Background()

	fixed, err := h.uc.FixDiagram(ctx, "c1", "s1", "b1")
	if err != nil || !strings.HasPrefix(fixed, "graph TD") {
		t.Fatalf("fix = %q, %v", fixed, err)
	}
	block := h.uc.State().Courses[0].Topics[0].Subtopics[0].Article.ContentBlocks[0]
	if block.Diagram != fixed {
		t.Fatalf("diagram not stored: %q", block.Diagram)
	}
	if _, err := h.uc.FixDiagram(ctx, "c1", "s1", "b2"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("text block is not a diagram, got %v", err)
	}
}

func TestToggleSubtopicAwardsXP(t *testing.T) {
	t.Parallel()
	h := newHarness(t, offlineGenerator(), domain.EmptyState())
	ctx := context.Background()
	course, err := h.uc.GenerateCourse(ctx, dto.GenerateCourseInput{Topic: "Go"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	sub := course.Course.Topics[0].Subtopics[0]
	out, err := h.uc.ToggleSubtopic(ctx, course.Course.ID, sub.ID)
	if err != nil || !out.Completed || out.XP != domain.XPPerLesson {
		t.Fatalf("toggle = %+v, %v", out, err)
	}
	again, err := h.uc.MarkSubtopicComplete(ctx, course.Course.ID, sub.ID)
	if err != nil || !again.Completed || again.XP != domain.XPPerLesson {
		t.Fatalf("mark complete should be idempotent: %+v, %v", again, err)
	}
}

func TestHabitsAndQuests(t *testing.T) {
	t.Parallel()
	h := newHarness(t, offlineGenerator(), domain.EmptyState())
	ctx := context.Background()

	habit, err := h.uc.AddHabit(ctx, dto.HabitInput{Title: "Read"})
	if err != nil || habit.Goal != domain.GoalDaily {
		t.Fatalf("habit = %+v, %v", habit, err)
	}
	toggled, err := h.uc.ToggleHabit(ctx, habit.ID, "")
	if err != nil || !toggled.Done || toggled.Streak != 1 {
		t.Fatalf("toggle habit = %+v, %v", toggled, err)
	}

	quest, err := h.uc.DailyQuest(ctx)
	if err != nil || quest.Date != "2026-03-14" || quest.Quest.XP != 200 {
		t.Fatalf("quest = %+v, %v", quest, err)
	}
	again, err := h.uc.DailyQuest(ctx)
	if err != nil || again.Quest.Title != quest.Quest.Title {
		t.Fatalf("quest should be cached for the day")
	}
	before := h.uc.State().Profile.XP
	xp, err := h.uc.CompleteQuest(ctx)
	if err != nil || xp.XP != before+200 {
		t.Fatalf("complete quest = %+v, %v", xp, err)
	}
	if _, err := h.uc.CompleteQuest(ctx); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("second completion should conflict, got %v", err)
	}
}

func TestInterviewQuestionsAvoidRepeats(t *testing.T) {
	t.Parallel()
	h := newHarness(t, offlineGenerator(), domain.EmptyState())
	ctx := context.Background()
	course, err := h.uc.GenerateCourse(ctx, dto.GenerateCourseInput{Topic: "Go"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	set, err := h.uc.GenerateInterviewQuestions(ctx, dto.InterviewInput{CourseID: course.Course.ID, Count: 2})
	if err != nil || set.QuestionCount != 2 || set.Difficulty != domain.LevelIntermediate {
		t.Fatalf("set = %+v, %v", set, err)
	}
	answer, err := h.uc.ElaborateAnswer(ctx, course.Course.ID, set.ID, 1)
	if err != nil || !strings.HasPrefix(answer, "In more depth") {
		t.Fatalf("elaborate = %q, %v", answer, err)
	}
	stored := h.uc.State().Courses[0].InterviewQuestionSets[0]
	if stored.Questions[1].Answer != answer {
		t.Fatalf("answer not stored")
	}
	if _, err := h.uc.GenerateInterviewQuestions(ctx, dto.InterviewInput{CourseID: course.Course.ID, Count: 26}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("count above limit should be rejected, got %v", err)
	}
}

func TestRecordTestResultUnlocksQuizMaster(t *testing.T) {
	t.Parallel()
	h := newHarness(t, offlineGenerator(), domain.EmptyState())
	ctx := context.Background()
	unlocked, err := h.uc.RecordTestResult(ctx, dto.TestResultInput{Topic: "Go", Level: domain.LevelBeginner, Score: 1, QuestionCount: 5})
	if err != nil || len(unlocked) != 1 || unlocked[0] != domain.AchievementQuizMaster {
		t.Fatalf("unlocked = %v, %v", unlocked, err)
	}
	if _, err := h.uc.RecordTestResult(ctx, dto.TestResultInput{Topic: "Go", Score: 1.5, QuestionCount: 5}); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Fatalf("score above 1 should be rejected, got %v", err)
	}
}

func TestChatKeepsTranscript(t *testing.T) {
	t.Parallel()
	h := newHarness(t, offlineGenerator(), domain.EmptyState())
	ctx := context.Background()
	reply, err := h.uc.Chat(ctx, "how do I start?")
	if err != nil || reply == "" {
		t.Fatalf("chat = %q, %v", reply, err)
	}
	history := h.uc.State().ChatHistory
	if len(history) != 2 || history[0].Role != domain.RoleUser || history[1].Role != domain.RoleModel {
		t.Fatalf("history = %+v", history)
	}
	if err := h.uc.ClearChat(ctx); err != nil || len(h.uc.State().ChatHistory) != 0 {
		t.Fatalf("clear chat: %v", err)
	}
}

func TestExportMarkdownPreservesEditedBody(t *testing.T) {
	t.Parallel()
	h := newHarness(t, offlineGenerator(), domain.EmptyState())
	ctx := context.Background()
	course, err := h.uc.GenerateCourse(ctx, dto.GenerateCourseInput{Topic: "Go"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := h.uc.GenerateArticle(ctx, dto.ArticleInput{Topic: "Testing"}); err != nil {
		t.Fatalf("article: %v", err)
	}
	dir := t.TempDir()
	out, err := h.uc.ExportMarkdown(ctx, dir)
	if err != nil || len(out.Paths) != 2 {
		t.Fatalf("export = %+v, %v", out, err)
	}
	coursePath := out.Paths[0]
	raw, err := os.ReadFile(coursePath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	edited := strings.Replace(string(raw), "## Notes", "## Notes\n\nMy own words.", 1)
	if err := os.WriteFile(coursePath, []byte(edited), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	sub := course.Course.Topics[0].Subtopics[0]
	if _, err := h.uc.ToggleSubtopic(ctx, course.Course.ID, sub.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := h.uc.ExportMarkdown(ctx, dir); err != nil {
		t.Fatalf("re-export: %v", err)
	}
	raw, err = os.ReadFile(coursePath)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(raw)
	if !strings.Contains(text, "My own words.") || !strings.Contains(text, "- [x] "+sub.Title) || !strings.Contains(text, "completed: 1") {
		t.Fatalf("re-export lost edits or progress:\n%s", text)
	}
	if filepath.Dir(out.Paths[1]) != filepath.Join(out.Dir, "articles") {
		t.Fatalf("article path = %s", out.Paths[1])
	}
}
