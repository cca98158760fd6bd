package service

import (
	"context"
	"strings"

	contentdomain "mindflow/internal/modules/content/domain"
	"mindflow/internal/modules/generation/domain"
	"mindflow/internal/modules/generation/dto"
	genout "mindflow/internal/modules/generation/port/out"
	"mindflow/internal/platform/logger"

	"github.com/go-playground/validator/v10"
)

// GenerationService turns content needs into model requests and decodes the
// answers. Every call is a single attempt.
type GenerationService struct {
	model    genout.Model
	validate *validator.Validate
	log      *logger.Logger
}

func NewGenerationService(model genout.Model, log *logger.Logger) *GenerationService {
	if log == nil {
		log = logger.Nop()
	}
	return &GenerationService{model: model, validate: validator.New(), log: log}
}

func (s *GenerationService) call(ctx context.Context, req domain.Request) (string, error) {
	raw, err := s.model.Generate(ctx, req)
	if err != nil {
		callErr := &domain.CallError{Operation: req.Operation, Err: err}
		s.log.Warn("generation call failed", "operation", req.Operation, "error", callErr.Detail())
		return "", callErr
	}
	s.log.Debug("generation call completed", "operation", req.Operation, "bytes", len(raw))
	return strings.TrimSpace(raw), nil
}

func (s *GenerationService) logDecode(err error) error {
	if err != nil {
		s.log.Warn("generation response rejected", "error", domain.Detail(err))
	}
	return err
}

func objectCall[T any](ctx context.Context, s *GenerationService, req domain.Request) (T, error) {
	raw, err := s.call(ctx, req)
	if err != nil {
		var zero T
		return zero, err
	}
	out, err := decodeObject[T](s.validate, req.Operation, raw)
	return out, s.logDecode(err)
}

func listCall[T any](ctx context.Context, s *GenerationService, req domain.Request) ([]T, error) {
	raw, err := s.call(ctx, req)
	if err != nil {
		return nil, err
	}
	out, err := decodeList[T](s.validate, req.Operation, raw)
	return out, s.logDecode(err)
}

func (s *GenerationService) text(ctx context.Context, req domain.Request) (string, error) {
	return s.call(ctx, req)
}

func (s *GenerationService) Course(ctx context.Context, input dto.CourseInput) (contentdomain.Course, error) {
	prompt := coursePrompt{
		Topic:        input.Topic,
		Level:        input.Level,
		Goal:         input.Goal,
		Style:        input.Style,
		Source:       input.Source,
		Technologies: input.Technologies,
		Theory:       input.IncludeTheory,
	}
	draft, err := objectCall[domain.CourseDraft](ctx, s, domain.Request{
		Operation: domain.OpCourse,
		Prompt:    prompt.String(),
		Schema:    courseSchema(),
		Subject:   input.Topic,
	})
	if err != nil {
		return contentdomain.Course{}, err
	}
	course, err := draft.ToCourse(input.Level)
	if err != nil {
		return contentdomain.Course{}, s.logDecode(decodeError(domain.OpCourse, err))
	}
	return course, nil
}

func (s *GenerationService) LearningPlan(ctx context.Context, topic string, days int) (domain.PlanDraft, error) {
	return objectCall[domain.PlanDraft](ctx, s, domain.Request{
		Operation: domain.OpLearningPlan,
		Prompt:    learningPlanPrompt(topic, days),
		Schema:    learningPlanSchema(),
		Subject:   topic,
		Count:     days,
	})
}

func (s *GenerationService) BlogPost(ctx context.Context, topic string) (domain.BlogPostDraft, error) {
	return objectCall[domain.BlogPostDraft](ctx, s, domain.Request{
		Operation: domain.OpBlogPost,
		Prompt:    blogPostPrompt(topic),
		Schema:    blogPostSchema(),
		Subject:   topic,
	})
}

func (s *GenerationService) ArticleIdeas(ctx context.Context, courseTitle string) ([]string, error) {
	return listCall[string](ctx, s, domain.Request{
		Operation: domain.OpArticleIdeas,
		Prompt:    articleIdeasPrompt(courseTitle),
		Schema:    stringList(),
		Subject:   courseTitle,
	})
}

func (s *GenerationService) ArticleTopics(ctx context.Context, syllabus string) ([]string, error) {
	return listCall[string](ctx, s, domain.Request{
		Operation: domain.OpArticleTopics,
		Prompt:    articleTopicsPrompt(syllabus),
		Schema:    stringList(),
		Subject:   syllabus,
	})
}

func (s *GenerationService) Story(ctx context.Context, topic string) (string, error) {
	return s.text(ctx, domain.Request{Operation: domain.OpStory, Prompt: storyPrompt(topic), Subject: topic})
}

func (s *GenerationService) Analogy(ctx context.Context, topic string) (string, error) {
	return s.text(ctx, domain.Request{Operation: domain.OpAnalogy, Prompt: analogyPrompt(topic), Subject: topic})
}

func (s *GenerationService) Flashcards(ctx context.Context, topic string) ([]domain.Flashcard, error) {
	return listCall[domain.Flashcard](ctx, s, domain.Request{
		Operation: domain.OpFlashcards,
		Prompt:    flashcardsPrompt(topic),
		Schema:    flashcardSchema(),
		Subject:   topic,
	})
}

func (s *GenerationService) PracticeSession(ctx context.Context, topic string) (domain.PracticeSession, error) {
	return objectCall[domain.PracticeSession](ctx, s, domain.Request{
		Operation: domain.OpPracticeSession,
		Prompt:    practiceSessionPrompt(topic),
		Schema:    practiceSessionSchema(),
		Subject:   topic,
	})
}

func (s *GenerationService) Project(ctx context.Context, input dto.ProjectInput) (contentdomain.Project, error) {
	draft, err := objectCall[domain.ProjectDraft](ctx, s, domain.Request{
		Operation: domain.OpProject,
		Prompt:    projectPrompt(input.CourseTitle, input.SubtopicTitle, input.Objective),
		Schema:    projectSchema(),
		Subject:   input.SubtopicTitle,
	})
	if err != nil {
		return contentdomain.Project{}, err
	}
	return draft.ToProject(), nil
}

func (s *GenerationService) FollowUpSubtopics(ctx context.Context, input dto.ExpandInput) ([]contentdomain.Subtopic, error) {
	drafts, err := listCall[domain.SubtopicDraft](ctx, s, domain.Request{
		Operation: domain.OpFollowUpSubtopics,
		Prompt:    followUpPrompt(input.CourseTitle, input.TopicTitle, input.SubtopicTitle, input.Instruction),
		Schema:    arrayOf(subtopicSchema()),
		Subject:   input.SubtopicTitle,
	})
	if err != nil {
		return nil, err
	}
	subs, err := domain.SubtopicsToContent(drafts)
	if err != nil {
		return nil, s.logDecode(decodeError(domain.OpFollowUpSubtopics, err))
	}
	return subs, nil
}

func (s *GenerationService) SocraticQuiz(ctx context.Context, content string) ([]contentdomain.QuizData, error) {
	drafts, err := listCall[domain.QuizDraft](ctx, s, domain.Request{
		Operation: domain.OpSocraticQuiz,
		Prompt:    socraticQuizPrompt(content),
		Schema:    arrayOf(quizSchema()),
		Subject:   content,
		Count:     3,
	})
	if err != nil {
		return nil, err
	}
	return domain.QuizzesToContent(drafts), nil
}

func toTurns(history []contentdomain.ChatMessage) []domain.Turn {
	turns := make([]domain.Turn, 0, len(history))
	for _, msg := range history {
		role := domain.RoleUser
		if msg.Role == contentdomain.RoleModel {
			role = domain.RoleModel
		}
		turns = append(turns, domain.Turn{Role: role, Text: msg.Content})
	}
	return turns
}

func (s *GenerationService) Chat(ctx context.Context, input dto.ChatInput) (string, error) {
	return s.text(ctx, domain.Request{
		Operation: domain.OpChat,
		System:    chatSystem(input.Context),
		History:   toTurns(input.History),
		Subject:   input.Context,
	})
}

func (s *GenerationService) LiveInterview(ctx context.Context, input dto.ChatInput) (string, error) {
	if len(input.History) == 0 {
		return s.text(ctx, domain.Request{Operation: domain.OpLiveInterview, Prompt: liveInterviewStartPrompt(input.Context), Subject: input.Context})
	}
	return s.text(ctx, domain.Request{
		Operation: domain.OpLiveInterview,
		System:    liveInterviewSystem(input.Context),
		History:   toTurns(input.History),
		Subject:   input.Context,
	})
}

func (s *GenerationService) DefineTerm(ctx context.Context, term string) (string, error) {
	return s.text(ctx, domain.Request{Operation: domain.OpDefineTerm, Prompt: defineTermPrompt(term), Subject: term})
}

func (s *GenerationService) DailyQuest(ctx context.Context) (contentdomain.DailyQuest, error) {
	draft, err := objectCall[domain.QuestDraft](ctx, s, domain.Request{
		Operation: domain.OpDailyQuest,
		Prompt:    dailyQuestPrompt(),
		Schema:    questSchema(),
	})
	if err != nil {
		return contentdomain.DailyQuest{}, err
	}
	return draft.ToQuest(), nil
}

// UnderstandingCheck keeps at most two questions.
func (s *GenerationService) UnderstandingCheck(ctx context.Context, lesson string) ([]contentdomain.QuizData, error) {
	schema := boundedArray(quizSchema(), 2, 2)
	drafts, err := listCall[domain.QuizDraft](ctx, s, domain.Request{
		Operation: domain.OpUnderstandingCheck,
		Prompt:    understandingCheckPrompt(lesson),
		Schema:    schema,
		Subject:   lesson,
		Count:     2,
	})
	if err != nil {
		return nil, err
	}
	if len(drafts) > 2 {
		drafts = drafts[:2]
	}
	return domain.QuizzesToContent(drafts), nil
}

func (s *GenerationService) RemedialSubtopic(ctx context.Context, title, objective string) (contentdomain.Subtopic, error) {
	draft, err := objectCall[domain.SubtopicDraft](ctx, s, domain.Request{
		Operation: domain.OpRemedialSubtopic,
		Prompt:    remedialPrompt(title, objective),
		Schema:    subtopicSchema(),
		Subject:   title,
	})
	if err != nil {
		return contentdomain.Subtopic{}, err
	}
	sub, err := draft.ToSubtopic()
	if err != nil {
		return contentdomain.Subtopic{}, s.logDecode(decodeError(domain.OpRemedialSubtopic, err))
	}
	return sub, nil
}

func (s *GenerationService) ReviewProjectCode(ctx context.Context, input dto.ReviewInput) (string, error) {
	return s.text(ctx, domain.Request{
		Operation: domain.OpReviewProjectCode,
		Prompt:    reviewCodePrompt(input.Instructions, input.Code),
		Subject:   input.Instructions,
	})
}

func (s *GenerationService) InterviewQuestions(ctx context.Context, input dto.InterviewInput) ([]contentdomain.InterviewQuestion, error) {
	drafts, err := listCall[domain.InterviewQuestionDraft](ctx, s, domain.Request{
		Operation: domain.OpInterviewQuestions,
		Prompt:    interviewQuestionsPrompt(input.Topic, input.Level, input.Count, input.Existing),
		Schema:    interviewQuestionSchema(),
		Subject:   input.Topic,
		Count:     input.Count,
	})
	if err != nil {
		return nil, err
	}
	return domain.InterviewQuestionsToContent(drafts), nil
}

func (s *GenerationService) ElaborateAnswer(ctx context.Context, question, answer string) (string, error) {
	return s.text(ctx, domain.Request{Operation: domain.OpElaborateAnswer, Prompt: elaboratePrompt(question, answer), Subject: question})
}

func (s *GenerationService) RelatedTopics(ctx context.Context, courseTitle string) ([]domain.Recommendation, error) {
	return listCall[domain.Recommendation](ctx, s, domain.Request{
		Operation: domain.OpRelatedTopics,
		Prompt:    relatedTopicsPrompt(courseTitle),
		Schema:    recommendationSchema(),
		Subject:   courseTitle,
		Count:     3,
	})
}

func (s *GenerationService) QuickPracticeQuiz(ctx context.Context, input dto.QuizInput) ([]contentdomain.QuizData, error) {
	return s.quiz(ctx, domain.OpQuickPracticeQuiz, "practice", input)
}

func (s *GenerationService) AssessmentQuiz(ctx context.Context, input dto.QuizInput) ([]contentdomain.QuizData, error) {
	return s.quiz(ctx, domain.OpAssessmentQuiz, "assessment", input)
}

func (s *GenerationService) quiz(ctx context.Context, op domain.Operation, kind string, input dto.QuizInput) ([]contentdomain.QuizData, error) {
	drafts, err := listCall[domain.QuizDraft](ctx, s, domain.Request{
		Operation: op,
		Prompt:    quizPrompt(kind, input.Topic, input.Level, input.Count),
		Schema:    arrayOf(quizSchema()),
		Subject:   input.Topic,
		Count:     input.Count,
	})
	if err != nil {
		return nil, err
	}
	return domain.QuizzesToContent(drafts), nil
}

func (s *GenerationService) ExplainCode(ctx context.Context, input dto.ExplainCodeInput) (string, error) {
	return s.text(ctx, domain.Request{
		Operation: domain.OpExplainCode,
		Prompt:    explainCodePrompt(input.Selected, input.Context, input.Mode),
		Subject:   input.Selected,
	})
}

func (s *GenerationService) FixDiagram(ctx context.Context, syntax string) (string, error) {
	raw, err := s.text(ctx, domain.Request{Operation: domain.OpFixDiagram, Prompt: fixDiagramPrompt(syntax), Subject: syntax})
	if err != nil {
		return "", err
	}
	fixed := stripFences(raw)
	if fixed == "" {
		return "", s.logDecode(decodeError(domain.OpFixDiagram, errEmptyDiagram))
	}
	return fixed, nil
}
