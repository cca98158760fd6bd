package in

import (
	"context"

	contentdomain "mindflow/internal/modules/content/domain"
	"mindflow/internal/modules/generation/domain"
	"mindflow/internal/modules/generation/dto"
)

// Usecase is the generation client. Failures are *domain.DecodeError or
// *domain.CallError unless the input itself was rejected.
type Usecase interface {
	Course(ctx context.Context, input dto.CourseInput) (contentdomain.Course, error)
	LearningPlan(ctx context.Context, topic string, days int) (domain.PlanDraft, error)
	BlogPost(ctx context.Context, topic string) (domain.BlogPostDraft, error)
	ArticleIdeas(ctx context.Context, courseTitle string) ([]string, error)
	ArticleTopics(ctx context.Context, syllabus string) ([]string, error)
	Story(ctx context.Context, topic string) (string, error)
	Analogy(ctx context.Context, topic string) (string, error)
	Flashcards(ctx context.Context, topic string) ([]domain.Flashcard, error)
	PracticeSession(ctx context.Context, topic string) (domain.PracticeSession, error)
	Project(ctx context.Context, input dto.ProjectInput) (contentdomain.Project, error)
	FollowUpSubtopics(ctx context.Context, input dto.ExpandInput) ([]contentdomain.Subtopic, error)
	SocraticQuiz(ctx context.Context, content string) ([]contentdomain.QuizData, error)
	Chat(ctx context.Context, input dto.ChatInput) (string, error)
	LiveInterview(ctx context.Context, input dto.ChatInput) (string, error)
	DefineTerm(ctx context.Context, term string) (string, error)
	DailyQuest(ctx context.Context) (contentdomain.DailyQuest, error)
	UnderstandingCheck(ctx context.Context, lesson string) ([]contentdomain.QuizData, error)
	RemedialSubtopic(ctx context.Context, title, objective string) (contentdomain.Subtopic, error)
	ReviewProjectCode(ctx context.Context, input dto.ReviewInput) (string, error)
	InterviewQuestions(ctx context.Context, input dto.InterviewInput) ([]contentdomain.InterviewQuestion, error)
	ElaborateAnswer(ctx context.Context, question, answer string) (string, error)
	RelatedTopics(ctx context.Context, courseTitle string) ([]domain.Recommendation, error)
	QuickPracticeQuiz(ctx context.Context, input dto.QuizInput) ([]contentdomain.QuizData, error)
	AssessmentQuiz(ctx context.Context, input dto.QuizInput) ([]contentdomain.QuizData, error)
	ExplainCode(ctx context.Context, input dto.ExplainCodeInput) (string, error)
	FixDiagram(ctx context.Context, syntax string) (string, error)
	Doctor(ctx context.Context) (dto.DoctorOutput, error)
}
