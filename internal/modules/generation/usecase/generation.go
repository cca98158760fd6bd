package usecase

import (
	"context"
	"fmt"
	"strings"

	contentdomain "mindflow/internal/modules/content/domain"
	"mindflow/internal/modules/generation/domain"
	"mindflow/internal/modules/generation/dto"
	genin "mindflow/internal/modules/generation/port/in"
	"mindflow/internal/modules/generation/service"
	apperrors "mindflow/internal/platform/errors"
)

const maxQuestionCount = 25

type Interactor struct {
	svc    *service.GenerationService
	doctor *service.Doctor
}

func NewInteractor(svc *service.GenerationService, doctor *service.Doctor) genin.Usecase {
	return &Interactor{svc: svc, doctor: doctor}
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", apperrors.ErrInvalidInput, field)
	}
	return nil
}

func validCount(count int) error {
	if count < 1 || count > maxQuestionCount {
		return fmt.Errorf("%w: count must be between 1 and %d", apperrors.ErrInvalidInput, maxQuestionCount)
	}
	return nil
}

func validLevel(level contentdomain.KnowledgeLevel) error {
	if err := level.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return nil
}

func (i *Interactor) Course(ctx context.Context, input dto.CourseInput) (contentdomain.Course, error) {
	if err := required("topic", input.Topic); err != nil {
		return contentdomain.Course{}, err
	}
	if err := validLevel(input.Level); err != nil {
		return contentdomain.Course{}, err
	}
	if input.Goal == "" {
		input.Goal = domain.GoalCuriosity
	}
	if input.Style == "" {
		input.Style = domain.StyleBalanced
	}
	if err := input.Goal.Validate(); err != nil {
		return contentdomain.Course{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if err := input.Style.Validate(); err != nil {
		return contentdomain.Course{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return i.svc.Course(ctx, input)
}

func (i *Interactor) LearningPlan(ctx context.Context, topic string, days int) (domain.PlanDraft, error) {
	if err := required("topic", topic); err != nil {
		return domain.PlanDraft{}, err
	}
	if days < 0 {
		return domain.PlanDraft{}, fmt.Errorf("%w: duration must not be negative", apperrors.ErrInvalidInput)
	}
	return i.svc.LearningPlan(ctx, topic, days)
}

func (i *Interactor) BlogPost(ctx context.Context, topic string) (domain.BlogPostDraft, error) {
	if err := required("topic", topic); err != nil {
		return domain.BlogPostDraft{}, err
	}
	return i.svc.BlogPost(ctx, topic)
}

func (i *Interactor) ArticleIdeas(ctx context.Context, courseTitle string) ([]string, error) {
	if err := required("course title", courseTitle); err != nil {
		return nil, err
	}
	return i.svc.ArticleIdeas(ctx, courseTitle)
}

func (i *Interactor) ArticleTopics(ctx context.Context, syllabus string) ([]string, error) {
	if err := required("syllabus", syllabus); err != nil {
		return nil, err
	}
	return i.svc.ArticleTopics(ctx, syllabus)
}

func (i *Interactor) Story(ctx context.Context, topic string) (string, error) {
	if err := required("topic", topic); err != nil {
		return "", err
	}
	return i.svc.Story(ctx, topic)
}

func (i *Interactor) Analogy(ctx context.Context, topic string) (string, error) {
	if err := required("topic", topic); err != nil {
		return "", err
	}
	return i.svc.Analogy(ctx, topic)
}

func (i *Interactor) Flashcards(ctx context.Context, topic string) ([]domain.Flashcard, error) {
	if err := required("topic", topic); err != nil {
		return nil, err
	}
	return i.svc.Flashcards(ctx, topic)
}

func (i *Interactor) PracticeSession(ctx context.Context, topic string) (domain.PracticeSession, error) {
	if err := required("topic", topic); err != nil {
		return domain.PracticeSession{}, err
	}
	return i.svc.PracticeSession(ctx, topic)
}

func (i *Interactor) Project(ctx context.Context, input dto.ProjectInput) (contentdomain.Project, error) {
	if err := required("subtopic title", input.SubtopicTitle); err != nil {
		return contentdomain.Project{}, err
	}
	return i.svc.Project(ctx, input)
}

func (i *Interactor) FollowUpSubtopics(ctx context.Context, input dto.ExpandInput) ([]contentdomain.Subtopic, error) {
	if err := required("subtopic title", input.SubtopicTitle); err != nil {
		return nil, err
	}
	if err := required("instruction", input.Instruction); err != nil {
		return nil, err
	}
	return i.svc.FollowUpSubtopics(ctx, input)
}

func (i *Interactor) SocraticQuiz(ctx context.Context, content string) ([]contentdomain.QuizData, error) {
	if err := required("content", content); err != nil {
		return nil, err
	}
	return i.svc.SocraticQuiz(ctx, content)
}

func (i *Interactor) Chat(ctx context.Context, input dto.ChatInput) (string, error) {
	if len(input.History) == 0 {
		return "", fmt.Errorf("%w: chat history is empty", apperrors.ErrInvalidInput)
	}
	return i.svc.Chat(ctx, input)
}

func (i *Interactor) LiveInterview(ctx context.Context, input dto.ChatInput) (string, error) {
	if err := required("topic", input.Context); err != nil {
		return "", err
	}
	return i.svc.LiveInterview(ctx, input)
}

func (i *Interactor) DefineTerm(ctx context.Context, term string) (string, error) {
	if err := required("term", term); err != nil {
		return "", err
	}
	return i.svc.DefineTerm(ctx, term)
}

func (i *Interactor) DailyQuest(ctx context.Context) (contentdomain.DailyQuest, error) {
	return i.svc.DailyQuest(ctx)
}

func (i *Interactor) UnderstandingCheck(ctx context.Context, lesson string) ([]contentdomain.QuizData, error) {
	if err := required("lesson", lesson); err != nil {
		return nil, err
	}
	return i.svc.UnderstandingCheck(ctx, lesson)
}

func (i *Interactor) RemedialSubtopic(ctx context.Context, title, objective string) (contentdomain.Subtopic, error) {
	if err := required("subtopic title", title); err != nil {
		return contentdomain.Subtopic{}, err
	}
	return i.svc.RemedialSubtopic(ctx, title, objective)
}

func (i *Interactor) ReviewProjectCode(ctx context.Context, input dto.ReviewInput) (string, error) {
	if err := required("code", input.Code); err != nil {
		return "", err
	}
	return i.svc.ReviewProjectCode(ctx, input)
}

func (i *Interactor) InterviewQuestions(ctx context.Context, input dto.InterviewInput) ([]contentdomain.InterviewQuestion, error) {
	if err := required("topic", input.Topic); err != nil {
		return nil, err
	}
	if err := validLevel(input.Level); err != nil {
		return nil, err
	}
	if err := validCount(input.Count); err != nil {
		return nil, err
	}
	return i.svc.InterviewQuestions(ctx, input)
}

func (i *Interactor) ElaborateAnswer(ctx context.Context, question, answer string) (string, error) {
	if err := required("question", question); err != nil {
		return "", err
	}
	return i.svc.ElaborateAnswer(ctx, question, answer)
}

func (i *Interactor) RelatedTopics(ctx context.Context, courseTitle string) ([]domain.Recommendation, error) {
	if err := required("course title", courseTitle); err != nil {
		return nil, err
	}
	return i.svc.RelatedTopics(ctx, courseTitle)
}

func (i *Interactor) QuickPracticeQuiz(ctx context.Context, input dto.QuizInput) ([]contentdomain.QuizData, error) {
	if err := validQuiz(input); err != nil {
		return nil, err
	}
	return i.svc.QuickPracticeQuiz(ctx, input)
}

func (i *Interactor) AssessmentQuiz(ctx context.Context, input dto.QuizInput) ([]contentdomain.QuizData, error) {
	if err := validQuiz(input); err != nil {
		return nil, err
	}
	return i.svc.AssessmentQuiz(ctx, input)
}

func validQuiz(input dto.QuizInput) error {
	if err := required("topic", input.Topic); err != nil {
		return err
	}
	if err := validLevel(input.Level); err != nil {
		return err
	}
	return validCount(input.Count)
}

func (i *Interactor) ExplainCode(ctx context.Context, input dto.ExplainCodeInput) (string, error) {
	if err := required("code", input.Selected); err != nil {
		return "", err
	}
	switch input.Mode {
	case "":
		input.Mode = domain.ExplainPlain
	case domain.ExplainPlain, domain.ExplainComment, domain.ExplainRefactor:
	default:
		return "", fmt.Errorf("%w: unknown explain mode %q", apperrors.ErrInvalidInput, input.Mode)
	}
	return i.svc.ExplainCode(ctx, input)
}

func (i *Interactor) FixDiagram(ctx context.Context, syntax string) (string, error) {
	if err := required("diagram", syntax); err != nil {
		return "", err
	}
	return i.svc.FixDiagram(ctx, syntax)
}

func (i *Interactor) Doctor(ctx context.Context) (dto.DoctorOutput, error) {
	if i.doctor == nil {
		return dto.DoctorOutput{}, fmt.Errorf("%w: doctor is not configured", domain.ErrBackendUnavailable)
	}
	return i.doctor.Run(ctx)
}
