package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	contentdomain "mindflow/internal/modules/content/domain"
	"mindflow/internal/modules/generation/domain"
	"mindflow/internal/modules/generation/dto"
	"mindflow/internal/modules/generation/service"
)

type scriptedModel struct {
	text string
	err  error
	got  []domain.Request
}

func (m *scriptedModel) Generate(_ context.Context, req domain.Request) (string, error) {
	m.got = append(m.got, req)
	return m.text, m.err
}

const courseJSON = `{
  "title": "Go Concurrency",
  "description": "Goroutines and channels",
  "about": "about",
  "category": "Programming",
  "technologies": ["Go"],
  "learningOutcomes": ["use channels"],
  "skills": ["go"],
  "overview": {"duration": "1 week", "totalTopics": 1, "totalSubtopics": 1, "keyFeatures": []},
  "topics": [{"title": "Basics", "subtopics": [{"type": "article", "title": "Goroutines", "data": {"objective": "start one", "contentBlocks": [{"type": "text", "text": "go f()"}, {"type": "code", "code": "go f()"}]}}]}]
}`

func TestCourseDecodesFencedJSON(t *testing.T) {
	t.Parallel()
	model := &scriptedModel{text: "```json\n" + courseJSON + "\n```"}
	svc := service.NewGenerationService(model, nil)
	course, err := svc.Course(context.Background(), dto.CourseInput{
		Topic:  "go concurrency",
		Level:  contentdomain.LevelIntermediate,
		Goal:   domain.GoalProject,
		Style:  domain.StyleCode,
		Source: &domain.Source{Kind: domain.SourceURL, Content: "https://go.dev/tour"},
	})
	if err != nil {
		t.Fatalf("course: %v", err)
	}
	if course.Title != "Go Concurrency" || len(course.Topics) != 1 || course.Topics[0].Subtopics[0].Article == nil {
		t.Fatalf("unexpected course: %+v", course)
	}
	if course.ID != "" || course.Topics[0].ID != "" {
		t.Fatalf("ids are assigned by the store, got %q/%q", course.ID, course.Topics[0].ID)
	}
	req := model.got[0]
	if req.Operation != domain.OpCourse || req.Schema == nil {
		t.Fatalf("expected structured course request, got %+v", req)
	}
	if !strings.Contains(req.Prompt, "https://go.dev/tour") || !strings.Contains(req.Prompt, "intermediate") {
		t.Fatalf("prompt misses source or level: %s", req.Prompt)
	}
}

func TestStructuredFailuresAreDecodeErrors(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"invalid json":       "not json at all",
		"missing title":      `{"topics": [{"title": "t", "subtopics": [{"type": "project", "title": "p", "data": {"challenge": "c"}}]}]}`,
		"no topics":          `{"title": "x", "topics": []}`,
		"bad subtopic type":  `{"title": "x", "topics": [{"title": "t", "subtopics": [{"type": "video", "title": "v", "data": {}}]}]}`,
		"quiz answer range":  `{"title": "x", "topics": [{"title": "t", "subtopics": [{"type": "quiz", "title": "q", "data": {"questions": [{"q": "?", "options": ["a", "b"], "answer": 3}]}}]}]}`,
		"unknown block type": `{"title": "x", "topics": [{"title": "t", "subtopics": [{"type": "article", "title": "a", "data": {"contentBlocks": [{"type": "video"}]}}]}]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			svc := service.NewGenerationService(&scriptedModel{text: raw}, nil)
			_, err := svc.Course(context.Background(), dto.CourseInput{Topic: "x", Level: contentdomain.LevelBeginner})
			if !errors.Is(err, domain.ErrDecode) {
				t.Fatalf("expected decode error, got %v", err)
			}
			if errors.Is(err, domain.ErrCall) {
				t.Fatalf("decode error must not be a call error")
			}
		})
	}
}

func TestModelFailureIsCallError(t *testing.T) {
	t.Parallel()
	svc := service.NewGenerationService(&scriptedModel{err: errors.New("connection refused")}, nil)
	_, err := svc.Story(context.Background(), "recursion")
	if !errors.Is(err, domain.ErrCall) {
		t.Fatalf("expected call error, got %v", err)
	}
	if err.Error() != "The AI model failed to generate content." {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestTextOperationsReturnTrimmedText(t *testing.T) {
	t.Parallel()
	model := &scriptedModel{text: "  an analogy \n"}
	svc := service.NewGenerationService(model, nil)
	got, err := svc.Analogy(context.Background(), "closures")
	if err != nil {
		t.Fatalf("analogy: %v", err)
	}
	if got != "an analogy" {
		t.Fatalf("unexpected text %q", got)
	}
	if model.got[0].Schema != nil {
		t.Fatalf("text operations must not send a schema")
	}
}

func TestFixDiagramStripsMermaidFence(t *testing.T) {
	t.Parallel()
	svc := service.NewGenerationService(&scriptedModel{text: "```mermaid\ngraph TD\n  A --> B\n```"}, nil)
	got, err := svc.FixDiagram(context.Background(), "graph TD A-->")
	if err != nil {
		t.Fatalf("fix diagram: %v", err)
	}
	if got != "graph TD\n  A --> B" {
		t.Fatalf("unexpected diagram %q", got)
	}
}

func TestListOperations(t *testing.T) {
	t.Parallel()
	svc := service.NewGenerationService(&scriptedModel{text: `["Idea one", "Idea two", "Idea three"]`}, nil)
	ideas, err := svc.ArticleIdeas(context.Background(), "Go")
	if err != nil || len(ideas) != 3 {
		t.Fatalf("ideas: %v %v", ideas, err)
	}

	empty := service.NewGenerationService(&scriptedModel{text: `[]`}, nil)
	if _, err := empty.Flashcards(context.Background(), "Go"); !errors.Is(err, domain.ErrDecode) {
		t.Fatalf("empty list must be a decode error, got %v", err)
	}

	blank := service.NewGenerationService(&scriptedModel{text: `["ok", " "]`}, nil)
	if _, err := blank.ArticleTopics(context.Background(), "syllabus"); !errors.Is(err, domain.ErrDecode) {
		t.Fatalf("blank entry must be a decode error, got %v", err)
	}
}

func TestUnderstandingCheckKeepsTwoQuestions(t *testing.T) {
	t.Parallel()
	raw := `[{"q":"1","options":["a","b"],"answer":0,"explanation":"e"},{"q":"2","options":["a","b"],"answer":1,"explanation":"e"},{"q":"3","options":["a","b"],"answer":0,"explanation":"e"}]`
	svc := service.NewGenerationService(&scriptedModel{text: raw}, nil)
	quiz, err := svc.UnderstandingCheck(context.Background(), "lesson text")
	if err != nil {
		t.Fatalf("understanding check: %v", err)
	}
	if len(quiz) != 2 || quiz[1].Question != "2" {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}
}

func TestInterviewPromptListsExistingQuestions(t *testing.T) {
	t.Parallel()
	model := &scriptedModel{text: `[{"question":"What is a goroutine?","answer":"A lightweight thread."}]`}
	svc := service.NewGenerationService(model, nil)
	got, err := svc.InterviewQuestions(context.Background(), dto.InterviewInput{
		Topic: "Go", Level: contentdomain.LevelAdvanced, Count: 1, Existing: []string{"What is a channel?"},
	})
	if err != nil {
		t.Fatalf("interview questions: %v", err)
	}
	if len(got) != 1 || got[0].Answer == "" {
		t.Fatalf("unexpected questions: %+v", got)
	}
	if !strings.Contains(model.got[0].Prompt, "- What is a channel?") {
		t.Fatalf("existing questions not passed: %s", model.got[0].Prompt)
	}
}

func TestChatSendsHistoryAndSystem(t *testing.T) {
	t.Parallel()
	model := &scriptedModel{text: "hi"}
	svc := service.NewGenerationService(model, nil)
	history := []contentdomain.ChatMessage{{Role: contentdomain.RoleUser, Content: "hello"}, {Role: contentdomain.RoleModel, Content: "hey"}, {Role: contentdomain.RoleUser, Content: "help"}}
	if _, err := svc.Chat(context.Background(), dto.ChatInput{History: history, Context: "The user is studying Go."}); err != nil {
		t.Fatalf("chat: %v", err)
	}
	req := model.got[0]
	if len(req.History) != 3 || req.History[1].Role != domain.RoleModel || !strings.Contains(req.System, "studying Go") {
		t.Fatalf("unexpected chat request: %+v", req)
	}
}
