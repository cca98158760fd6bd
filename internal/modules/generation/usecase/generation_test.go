package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	contentdomain "mindflow/internal/modules/content/domain"
	genout "mindflow/internal/modules/generation/adapter/out"
	"mindflow/internal/modules/generation/domain"
	"mindflow/internal/modules/generation/dto"
	genin "mindflow/internal/modules/generation/port/in"
	"mindflow/internal/modules/generation/service"
	"mindflow/internal/modules/generation/usecase"
	apperrors "mindflow/internal/platform/errors"
)

func offlineUsecase() genin.Usecase {
	svc := service.NewGenerationService(genout.NewOfflineModel(), nil)
	doctor := service.NewDoctor(service.BackendConfig{Backend: domain.BackendOffline}, nil, nil)
	return usecase.NewInteractor(svc, doctor)
}

func TestOfflineBackendServesEveryOperation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := offlineUsecase()

	course, err := uc.Course(ctx, dto.CourseInput{Topic: "Rust ownership", Level: contentdomain.LevelBeginner})
	if err != nil {
		t.Fatalf("course: %v", err)
	}
	if course.Overview.TotalTopics != 3 || course.Overview.TotalSubtopics != 9 || course.TotalSubtopics() != 9 {
		t.Fatalf("unexpected course shape: %+v", course.Overview)
	}

	plan, err := uc.LearningPlan(ctx, "SQL", 4)
	if err != nil || len(plan.Days()) != 4 {
		t.Fatalf("plan: %v %+v", err, plan)
	}
	defaultPlan, err := uc.LearningPlan(ctx, "SQL", 0)
	if err != nil || len(defaultPlan.DailyBreakdown) != 5 {
		t.Fatalf("default plan: %v %+v", err, defaultPlan)
	}

	if post, err := uc.BlogPost(ctx, "Testing"); err != nil || post.ToArticle().Body == "" {
		t.Fatalf("blog post: %v", err)
	}
	if ideas, err := uc.ArticleIdeas(ctx, "Go"); err != nil || len(ideas) != 3 {
		t.Fatalf("ideas: %v", err)
	}
	topics, err := uc.ArticleTopics(ctx, "1. Variables\n2. Functions\n\n- Closures")
	if err != nil || strings.Join(topics, ",") != "Variables,Functions,Closures" {
		t.Fatalf("topics: %v %v", err, topics)
	}
	if _, err := uc.Flashcards(ctx, "Go"); err != nil {
		t.Fatalf("flashcards: %v", err)
	}
	if session, err := uc.PracticeSession(ctx, "Go"); err != nil || len(session.Quiz) != 3 {
		t.Fatalf("practice: %v", err)
	}
	if project, err := uc.Project(ctx, dto.ProjectInput{CourseTitle: "Go", SubtopicTitle: "HTTP"}); err != nil || len(project.Steps) != 3 {
		t.Fatalf("project: %v", err)
	}
	if subs, err := uc.FollowUpSubtopics(ctx, dto.ExpandInput{CourseTitle: "Go", TopicTitle: "Basics", SubtopicTitle: "Loops", Instruction: "more examples"}); err != nil || len(subs) != 2 {
		t.Fatalf("expand: %v", err)
	}
	if quiz, err := uc.SocraticQuiz(ctx, "lesson"); err != nil || len(quiz) != 3 {
		t.Fatalf("socratic: %v", err)
	}
	if quiz, err := uc.UnderstandingCheck(ctx, "lesson"); err != nil || len(quiz) != 2 {
		t.Fatalf("understanding: %v", err)
	}
	if sub, err := uc.RemedialSubtopic(ctx, "Pointers", "use pointers"); err != nil || sub.Article == nil {
		t.Fatalf("remedial: %v", err)
	}
	if quest, err := uc.DailyQuest(ctx); err != nil || quest.XP != 200 {
		t.Fatalf("quest: %v", err)
	}
	if recs, err := uc.RelatedTopics(ctx, "Go"); err != nil || len(recs) != 3 {
		t.Fatalf("related: %v", err)
	}
	if qs, err := uc.InterviewQuestions(ctx, dto.InterviewInput{Topic: "Go", Level: contentdomain.LevelAdvanced, Count: 4}); err != nil || len(qs) != 4 {
		t.Fatalf("interview: %v", err)
	}
	if quiz, err := uc.AssessmentQuiz(ctx, dto.QuizInput{Topic: "Go", Level: contentdomain.LevelBeginner, Count: 5}); err != nil || len(quiz) != 5 {
		t.Fatalf("assessment: %v", err)
	}
	if quiz, err := uc.QuickPracticeQuiz(ctx, dto.QuizInput{Topic: "Go", Level: contentdomain.LevelBeginner, Count: 2}); err != nil || len(quiz) != 2 {
		t.Fatalf("practice quiz: %v", err)
	}

	texts := map[string]func() (string, error){
		"story":     func() (string, error) { return uc.Story(ctx, "Go") },
		"analogy":   func() (string, error) { return uc.Analogy(ctx, "Go") },
		"define":    func() (string, error) { return uc.DefineTerm(ctx, "goroutine") },
		"elaborate": func() (string, error) { return uc.ElaborateAnswer(ctx, "What?", "That.") },
		"review":    func() (string, error) { return uc.ReviewProjectCode(ctx, dto.ReviewInput{Instructions: "sum", Code: "x := 1"}) },
		"explain":   func() (string, error) { return uc.ExplainCode(ctx, dto.ExplainCodeInput{Selected: "x := 1"}) },
		"diagram":   func() (string, error) { return uc.FixDiagram(ctx, "graph TD A-->") },
		"chat": func() (string, error) {
			return uc.Chat(ctx, dto.ChatInput{History: []contentdomain.ChatMessage{{Role: contentdomain.RoleUser, Content: "hi"}}})
		},
		"interview": func() (string, error) { return uc.LiveInterview(ctx, dto.ChatInput{Context: "Go"}) },
	}
	for name, fn := range texts {
		got, err := fn()
		if err != nil || strings.TrimSpace(got) == "" {
			t.Fatalf("%s: %q %v", name, got, err)
		}
	}

	report, err := uc.Doctor(ctx)
	if err != nil || !report.Ready {
		t.Fatalf("doctor: %v %+v", err, report)
	}
}

func TestInputValidation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	uc := offlineUsecase()
	checks := map[string]error{}
	_, checks["empty topic"] = uc.Course(ctx, dto.CourseInput{Level: contentdomain.LevelBeginner})
	_, checks["bad level"] = uc.Course(ctx, dto.CourseInput{Topic: "Go", Level: "expert"})
	_, checks["bad goal"] = uc.Course(ctx, dto.CourseInput{Topic: "Go", Level: contentdomain.LevelBeginner, Goal: "fame"})
	_, checks["negative days"] = uc.LearningPlan(ctx, "Go", -1)
	_, checks["zero questions"] = uc.InterviewQuestions(ctx, dto.InterviewInput{Topic: "Go", Level: contentdomain.LevelBeginner})
	_, checks["too many questions"] = uc.AssessmentQuiz(ctx, dto.QuizInput{Topic: "Go", Level: contentdomain.LevelBeginner, Count: 26})
	_, checks["empty chat"] = uc.Chat(ctx, dto.ChatInput{})
	_, checks["expand without instruction"] = uc.FollowUpSubtopics(ctx, dto.ExpandInput{SubtopicTitle: "Loops"})
	_, checks["blank term"] = uc.DefineTerm(ctx, "  ")
	for name, err := range checks {
		if !errors.Is(err, apperrors.ErrInvalidInput) {
			t.Errorf("%s: expected invalid input, got %v", name, err)
		}
	}
}

func TestDoctorWithoutDiagnostics(t *testing.T) {
	t.Parallel()
	svc := service.NewGenerationService(genout.NewOfflineModel(), nil)
	uc := usecase.NewInteractor(svc, nil)
	if _, err := uc.Doctor(context.Background()); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected backend unavailable, got %v", err)
	}
}
