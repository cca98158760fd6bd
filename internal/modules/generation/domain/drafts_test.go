package domain_test

import (
	"errors"
	"fmt"
	"testing"

	contentdomain "mindflow/internal/modules/content/domain"
	"mindflow/internal/modules/generation/domain"
)

func articleDraft(title string) domain.SubtopicDraft {
	return domain.SubtopicDraft{
		Type:  "article",
		Title: title,
		Data: domain.SubtopicData{
			Objective: "learn " + title,
			ContentBlocks: []domain.ContentBlockDraft{
				{Type: "text", Text: "hello"},
				{Type: "quiz", Quiz: &domain.QuizDraft{Question: "q", Options: []string{"a", "b"}, Answer: 1}},
			},
		},
	}
}

func TestCourseDraftToCourseRecomputesTotals(t *testing.T) {
	t.Parallel()
	draft := domain.CourseDraft{
		Title:    "Go",
		Overview: domain.OverviewDraft{TotalTopics: 9, TotalSubtopics: 99},
		Topics: []domain.TopicDraft{
			{Title: "Basics", Subtopics: []domain.SubtopicDraft{articleDraft("a"), articleDraft("b")}},
			{Title: "More", Subtopics: []domain.SubtopicDraft{articleDraft("c")}},
		},
	}
	if err := draft.Check(); err != nil {
		t.Fatalf("check: %v", err)
	}
	course, err := draft.ToCourse(contentdomain.LevelBeginner)
	if err != nil {
		t.Fatalf("to course: %v", err)
	}
	if course.Overview.TotalTopics != 2 || course.Overview.TotalSubtopics != 3 {
		t.Fatalf("unexpected totals: %+v", course.Overview)
	}
	if course.KnowledgeLevel != contentdomain.LevelBeginner || course.Progress.Len() != 0 {
		t.Fatalf("unexpected course: %+v", course)
	}
	block := course.Topics[0].Subtopics[0].Article.ContentBlocks[1]
	if block.Quiz == nil || block.Quiz.Answer != 1 {
		t.Fatalf("expected quiz block, got %+v", block)
	}
}

func TestVariantChecks(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		checker domain.Checker
		wantErr bool
	}{
		{name: "quiz answer in range", checker: domain.QuizDraft{Question: "q", Options: []string{"a", "b"}, Answer: 1}},
		{name: "quiz answer out of range", checker: domain.QuizDraft{Question: "q", Options: []string{"a", "b"}, Answer: 2}, wantErr: true},
		{name: "text block without text", checker: domain.ContentBlockDraft{Type: "text"}, wantErr: true},
		{name: "quiz block without quiz", checker: domain.ContentBlockDraft{Type: "quiz"}, wantErr: true},
		{name: "diagram block", checker: domain.ContentBlockDraft{Type: "diagram", Diagram: "graph TD"}},
		{name: "triage out of range", checker: domain.ContentBlockDraft{Type: "triageChallenge", TriageChallenge: &domain.TriageChallenge{Scenario: "s", Options: []domain.TriageOption{{Title: "a"}, {Title: "b"}}, CorrectOptionIndex: 5}}, wantErr: true},
		{name: "article without blocks", checker: domain.SubtopicDraft{Type: "article", Title: "t"}, wantErr: true},
		{name: "quiz subtopic without questions", checker: domain.SubtopicDraft{Type: "quiz", Title: "t"}, wantErr: true},
		{name: "project subtopic", checker: domain.SubtopicDraft{Type: "project", Title: "t", Data: domain.SubtopicData{Challenge: "c"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.checker.Check()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestWidgetBlockKeepsPayload(t *testing.T) {
	t.Parallel()
	draft := domain.ContentBlockDraft{Type: "interactiveModel", InteractiveModel: &domain.InteractiveModel{
		Title:  "net",
		Layers: []domain.ModelLayer{{Type: "input", Neurons: 2}},
	}}
	block, err := draft.ToBlock()
	if err != nil {
		t.Fatalf("to block: %v", err)
	}
	if err := block.Validate(); err != nil {
		t.Fatalf("converted block invalid: %v", err)
	}
}

func TestPlanDraftDays(t *testing.T) {
	t.Parallel()
	plan := domain.PlanDraft{PlanTitle: "p", DailyBreakdown: []domain.PlanDayDraft{{Day: 1, Title: "one", Objective: "obj"}}}
	days := plan.Days()
	if len(days) != 1 || days[0].Title != "one" || days[0].Description != "obj" {
		t.Fatalf("unexpected days: %+v", days)
	}
}

func TestErrorsCarryLearnerMessages(t *testing.T) {
	t.Parallel()
	decodeErr := error(&domain.DecodeError{Operation: domain.OpCourse, Err: errors.New("bad json")})
	if !errors.Is(decodeErr, domain.ErrDecode) || errors.Is(decodeErr, domain.ErrCall) {
		t.Fatalf("decode error classification wrong")
	}
	if decodeErr.Error() != "Failed to parse the AI's response. The format was invalid." {
		t.Fatalf("unexpected decode message: %s", decodeErr.Error())
	}
	callErr := fmt.Errorf("wrapped: %w", &domain.CallError{Operation: domain.OpStory, Err: errors.New("boom")})
	if !errors.Is(callErr, domain.ErrCall) || errors.Is(callErr, domain.ErrDecode) {
		t.Fatalf("call error classification wrong")
	}
	invalid := &domain.CallError{Operation: domain.OpStory, Err: errors.New("gemini 400 INVALID_ARGUMENT: x")}
	if invalid.Error() != "Request contains an invalid argument." {
		t.Fatalf("unexpected invalid-argument message: %s", invalid.Error())
	}
	if got := domain.Detail(callErr); got != "story: boom" {
		t.Fatalf("unexpected detail: %s", got)
	}
}
