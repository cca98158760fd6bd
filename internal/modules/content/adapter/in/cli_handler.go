package in

import (
	"context"

	"mindflow/internal/modules/content/dto"
	contentin "mindflow/internal/modules/content/port/in"
)

type CLIHandler struct {
	usecase contentin.Usecase
}

func NewCLIHandler(usecase contentin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Snapshot() dto.Snapshot {
	return dto.Snapshot{State: h.usecase.State(), UpNext: h.usecase.UpNext()}
}

func (h CLIHandler) Subscribe() (<-chan struct{}, func()) {
	return h.usecase.Subscribe()
}

func (h CLIHandler) Reload(ctx context.Context) error {
	return h.usecase.Reload(ctx)
}

func (h CLIHandler) GenerateCourse(ctx context.Context, input dto.GenerateCourseInput) (dto.CourseResult, error) {
	return h.usecase.GenerateCourse(ctx, input)
}

func (h CLIHandler) BulkGenerateCourses(ctx context.Context, input dto.BulkCoursesInput) (dto.BulkResult, error) {
	return h.usecase.BulkGenerateCourses(ctx, input)
}

func (h CLIHandler) ExpandTopic(ctx context.Context, input dto.ExpandTopicInput) (dto.CourseResult, error) {
	return h.usecase.ExpandTopic(ctx, input)
}

func (h CLIHandler) InsertRemedial(ctx context.Context, courseID, subtopicID string) (dto.SubtopicOutput, error) {
	sub, err := h.usecase.InsertRemedial(ctx, courseID, subtopicID)
	if err != nil {
		return dto.SubtopicOutput{}, err
	}
	return dto.SubtopicOutput{ID: sub.ID, Title: sub.Title}, nil
}

func (h CLIHandler) ToggleSubtopic(ctx context.Context, courseID, subtopicID string) (dto.ToggleOutput, error) {
	return h.usecase.ToggleSubtopic(ctx, courseID, subtopicID)
}

func (h CLIHandler) MarkSubtopicComplete(ctx context.Context, courseID, subtopicID string) (dto.ToggleOutput, error) {
	return h.usecase.MarkSubtopicComplete(ctx, courseID, subtopicID)
}

func (h CLIHandler) SelectCourse(ctx context.Context, courseID string) error {
	return h.usecase.SelectCourse(ctx, courseID)
}

func (h CLIHandler) SaveSubtopicNote(ctx context.Context, courseID, subtopicID, note string) error {
	return h.usecase.SaveSubtopicNote(ctx, courseID, subtopicID, note)
}

func (h CLIHandler) FixDiagram(ctx context.Context, courseID, subtopicID, blockID string) (string, error) {
	return h.usecase.FixDiagram(ctx, courseID, subtopicID, blockID)
}

func (h CLIHandler) DeleteCourse(ctx context.Context, courseID string) error {
	return h.usecase.DeleteCourse(ctx, courseID)
}

func (h CLIHandler) CreateFolder(ctx context.Context, name string) (dto.FolderOutput, error) {
	folder, err := h.usecase.CreateFolder(ctx, name)
	if err != nil {
		return dto.FolderOutput{}, err
	}
	return dto.FolderOutput{ID: folder.ID, Name: folder.Name}, nil
}

func (h CLIHandler) RenameFolder(ctx context.Context, folderID, name string) error {
	return h.usecase.RenameFolder(ctx, folderID, name)
}

func (h CLIHandler) DeleteFolder(ctx context.Context, folderID string) error {
	return h.usecase.DeleteFolder(ctx, folderID)
}

func (h CLIHandler) MoveCourse(ctx context.Context, courseID, folderID string) error {
	return h.usecase.MoveCourseToFolder(ctx, courseID, folderID)
}

func (h CLIHandler) MoveArticle(ctx context.Context, articleID, folderID string) error {
	return h.usecase.MoveArticleToFolder(ctx, articleID, folderID)
}

func (h CLIHandler) GenerateArticle(ctx context.Context, input dto.ArticleInput) (dto.ArticleResult, error) {
	return h.usecase.GenerateArticle(ctx, input)
}

func (h CLIHandler) BulkGenerateArticles(ctx context.Context, input dto.BulkArticlesInput) (dto.BulkResult, error) {
	return h.usecase.BulkGenerateArticles(ctx, input)
}

func (h CLIHandler) DeleteArticle(ctx context.Context, articleID string) error {
	return h.usecase.DeleteArticle(ctx, articleID)
}

func (h CLIHandler) GenerateProject(ctx context.Context, courseID, subtopicID string) (dto.ProjectResult, error) {
	return h.usecase.GenerateProject(ctx, courseID, subtopicID)
}

func (h CLIHandler) ToggleProjectStep(ctx context.Context, projectID, stepID string) (bool, error) {
	return h.usecase.ToggleProjectStep(ctx, projectID, stepID)
}

func (h CLIHandler) DeleteProject(ctx context.Context, projectID string) error {
	return h.usecase.DeleteProject(ctx, projectID)
}

func (h CLIHandler) GeneratePlan(ctx context.Context, topic string, days int) (dto.PlanResult, error) {
	return h.usecase.GenerateLearningPlan(ctx, topic, days)
}

func (h CLIHandler) RescheduleTask(ctx context.Context, planID, taskID, date string) error {
	return h.usecase.RescheduleTask(ctx, planID, taskID, date)
}

func (h CLIHandler) TogglePlanTask(ctx context.Context, planID, taskID string) (bool, error) {
	return h.usecase.ToggleTask(ctx, planID, taskID)
}

func (h CLIHandler) RemovePlanTask(ctx context.Context, planID, taskID string) error {
	return h.usecase.RemoveTask(ctx, planID, taskID)
}

func (h CLIHandler) DeletePlan(ctx context.Context, planID string) error {
	return h.usecase.DeletePlan(ctx, planID)
}

func (h CLIHandler) AddHabit(ctx context.Context, input dto.HabitInput) (dto.HabitOutput, error) {
	habit, err := h.usecase.AddHabit(ctx, input)
	if err != nil {
		return dto.HabitOutput{}, err
	}
	return dto.HabitOutput{ID: habit.ID, Title: habit.Title, Goal: string(habit.Goal)}, nil
}

func (h CLIHandler) ToggleHabit(ctx context.Context, habitID, date string) (dto.HabitToggleOutput, error) {
	return h.usecase.ToggleHabit(ctx, habitID, date)
}

func (h CLIHandler) DeleteHabit(ctx context.Context, habitID string) error {
	return h.usecase.DeleteHabit(ctx, habitID)
}

func (h CLIHandler) GenerateInterview(ctx context.Context, input dto.InterviewInput) (dto.InterviewOutput, error) {
	set, err := h.usecase.GenerateInterviewQuestions(ctx, input)
	if err != nil {
		return dto.InterviewOutput{}, err
	}
	return dto.InterviewOutput{Set: set}, nil
}

func (h CLIHandler) ElaborateAnswer(ctx context.Context, courseID, setID string, index int) (string, error) {
	return h.usecase.ElaborateAnswer(ctx, courseID, setID, index)
}

func (h CLIHandler) RecordTestResult(ctx context.Context, input dto.TestResultInput) ([]string, error) {
	unlocked, err := h.usecase.RecordTestResult(ctx, input)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(unlocked))
	for _, id := range unlocked {
		out = append(out, string(id))
	}
	return out, nil
}

func (h CLIHandler) Chat(ctx context.Context, message string) (string, error) {
	return h.usecase.Chat(ctx, message)
}

func (h CLIHandler) ClearChat(ctx context.Context) error {
	return h.usecase.ClearChat(ctx)
}

func (h CLIHandler) DailyQuest(ctx context.Context) (dto.QuestOutput, error) {
	return h.usecase.DailyQuest(ctx)
}

func (h CLIHandler) CompleteQuest(ctx context.Context) (dto.XPOutput, error) {
	return h.usecase.CompleteQuest(ctx)
}

func (h CLIHandler) ExportMarkdown(ctx context.Context, dir string) (dto.ExportMarkdownOutput, error) {
	return h.usecase.ExportMarkdown(ctx, dir)
}
