package in

import (
	"context"

	"mindflow/internal/modules/content/domain"
	"mindflow/internal/modules/content/dto"
)

// Usecase is the content store. Generation failures are returned after the
// owning task has been moved to its error state.
type Usecase interface {
	State() domain.State
	Subscribe() (<-chan struct{}, func())
	Reload(ctx context.Context) error

	GenerateCourse(ctx context.Context, input dto.GenerateCourseInput) (dto.CourseResult, error)
	BulkGenerateCourses(ctx context.Context, input dto.BulkCoursesInput) (dto.BulkResult, error)
	ExpandTopic(ctx context.Context, input dto.ExpandTopicInput) (dto.CourseResult, error)
	InsertRemedial(ctx context.Context, courseID, subtopicID string) (domain.Subtopic, error)
	ToggleSubtopic(ctx context.Context, courseID, subtopicID string) (dto.ToggleOutput, error)
	MarkSubtopicComplete(ctx context.Context, courseID, subtopicID string) (dto.ToggleOutput, error)
	SelectCourse(ctx context.Context, courseID string) error
	SaveSubtopicNote(ctx context.Context, courseID, subtopicID, note string) error
	FixDiagram(ctx context.Context, courseID, subtopicID, blockID string) (string, error)
	DeleteCourse(ctx context.Context, courseID string) error

	CreateFolder(ctx context.Context, name string) (domain.Folder, error)
	RenameFolder(ctx context.Context, folderID, name string) error
	DeleteFolder(ctx context.Context, folderID string) error
	MoveCourseToFolder(ctx context.Context, courseID, folderID string) error
	MoveArticleToFolder(ctx context.Context, articleID, folderID string) error

	GenerateArticle(ctx context.Context, input dto.ArticleInput) (dto.ArticleResult, error)
	BulkGenerateArticles(ctx context.Context, input dto.BulkArticlesInput) (dto.BulkResult, error)
	DeleteArticle(ctx context.Context, articleID string) error

	GenerateProject(ctx context.Context, courseID, subtopicID string) (dto.ProjectResult, error)
	ToggleProjectStep(ctx context.Context, projectID, stepID string) (bool, error)
	DeleteProject(ctx context.Context, projectID string) error

	GenerateLearningPlan(ctx context.Context, topic string, days int) (dto.PlanResult, error)
	RescheduleTask(ctx context.Context, planID, taskID, date string) error
	ToggleTask(ctx context.Context, planID, taskID string) (bool, error)
	RemoveTask(ctx context.Context, planID, taskID string) error
	DeletePlan(ctx context.Context, planID string) error

	AddHabit(ctx context.Context, input dto.HabitInput) (domain.Habit, error)
	ToggleHabit(ctx context.Context, habitID, date string) (dto.HabitToggleOutput, error)
	DeleteHabit(ctx context.Context, habitID string) error

	GenerateInterviewQuestions(ctx context.Context, input dto.InterviewInput) (domain.InterviewQuestionSet, error)
	ElaborateAnswer(ctx context.Context, courseID, setID string, index int) (string, error)
	RecordTestResult(ctx context.Context, input dto.TestResultInput) ([]domain.AchievementID, error)

	Chat(ctx context.Context, message string) (string, error)
	ClearChat(ctx context.Context) error
	DailyQuest(ctx context.Context) (dto.QuestOutput, error)
	CompleteQuest(ctx context.Context) (dto.XPOutput, error)
	UpNext() domain.UpNext
	ExportMarkdown(ctx context.Context, dir string) (dto.ExportMarkdownOutput, error)
}
