package dto

import (
	contentdomain "mindflow/internal/modules/content/domain"
	"mindflow/internal/modules/generation/domain"
)

type CourseInput struct {
	Topic         string
	Level         contentdomain.KnowledgeLevel
	Goal          domain.LearningGoal
	Style         domain.LearningStyle
	Source        *domain.Source
	Technologies  string
	IncludeTheory bool
}

type ProjectInput struct {
	CourseTitle   string
	SubtopicTitle string
	Objective     string
}

type ExpandInput struct {
	CourseTitle   string
	TopicTitle    string
	SubtopicTitle string
	Instruction   string
}

type QuizInput struct {
	Topic string
	Level contentdomain.KnowledgeLevel
	Count int
}

type InterviewInput struct {
	Topic    string
	Level    contentdomain.KnowledgeLevel
	Count    int
	Existing []string
}

// ChatInput carries a transcript. Context is the system hint for chats and
// the topic for live interviews.
type ChatInput struct {
	History []contentdomain.ChatMessage
	Context string
}

type ReviewInput struct {
	Instructions string
	Code         string
}

type ExplainCodeInput struct {
	Selected string
	Context  string
	Mode     domain.ExplainMode
}

type DoctorOutput struct {
	Backend  string
	Model    string
	Ready    bool
	Problems []string
	Plugins  []domain.PluginCheck
}
