package dto

import (
	"mindflow/internal/modules/content/domain"
	gendomain "mindflow/internal/modules/generation/domain"
)

type GenerateCourseInput struct {
	Topic         string
	Level         domain.KnowledgeLevel
	FolderID      string
	Goal          gendomain.LearningGoal
	Style         gendomain.LearningStyle
	SourceKind    gendomain.SourceKind
	SourceValue   string
	Technologies  []string
	IncludeTheory bool
}

type CourseResult struct {
	TaskID   string
	Course   domain.Course
	Unlocked []domain.AchievementID
}

type ExpandTopicInput struct {
	CourseID    string
	TopicID     string
	SubtopicID  string
	Instruction string
}

type BulkCoursesInput struct {
	Topics   []string
	Level    domain.KnowledgeLevel
	FolderID string
}

type BulkArticlesInput struct {
	Syllabus string
	FolderID string
}

type BulkItem struct {
	Input string
	ID    string
	Title string
	Error string
}

type BulkResult struct {
	TaskID    string
	Items     []BulkItem
	Succeeded int
}

type ToggleOutput struct {
	Completed    bool
	LevelsGained int
	XP           int
	Level        int
	Unlocked     []domain.AchievementID
}

type ProjectResult struct {
	TaskID   string
	Project  domain.Project
	Unlocked []domain.AchievementID
}

type PlanResult struct {
	TaskID string
	Plan   domain.LearningPlan
	Folder domain.Folder
}

type ArticleInput struct {
	Topic    string
	FolderID string
	CourseID string
}

type ArticleResult struct {
	Article domain.Article
	Ideas   []string
}

type InterviewInput struct {
	CourseID string
	Level    domain.KnowledgeLevel
	Count    int
}

type TestResultInput struct {
	Topic         string
	Level         domain.KnowledgeLevel
	Score         float64
	QuestionCount int
}

type HabitInput struct {
	Title string
	Goal  domain.HabitGoal
}

type HabitToggleOutput struct {
	Done     bool
	Streak   int
	Unlocked []domain.AchievementID
}

type QuestOutput struct {
	Quest domain.DailyQuest
	Date  string
}

type XPOutput struct {
	XP           int
	Level        int
	LevelsGained int
}

type ExportMarkdownOutput struct {
	Dir   string
	Paths []string
}

// Snapshot is a read-only view of the learner state for presentation layers.
type Snapshot struct {
	State  domain.State
	UpNext domain.UpNext
}

type FolderOutput struct {
	ID   string
	Name string
}

type HabitOutput struct {
	ID    string
	Title string
	Goal  string
}

type SubtopicOutput struct {
	ID    string
	Title string
}

type InterviewOutput struct {
	Set domain.InterviewQuestionSet
}
