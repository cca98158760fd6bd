package domain

type Operation string

const (
	OpCourse             Operation = "course"
	OpLearningPlan       Operation = "learning_plan"
	OpBlogPost           Operation = "blog_post"
	OpArticleIdeas       Operation = "article_ideas"
	OpArticleTopics      Operation = "article_topics"
	OpStory              Operation = "story"
	OpAnalogy            Operation = "analogy"
	OpFlashcards         Operation = "flashcards"
	OpPracticeSession    Operation = "practice_session"
	OpProject            Operation = "project"
	OpFollowUpSubtopics  Operation = "follow_up_subtopics"
	OpSocraticQuiz       Operation = "socratic_quiz"
	OpChat               Operation = "chat"
	OpDefineTerm         Operation = "define_term"
	OpDailyQuest         Operation = "daily_quest"
	OpUnderstandingCheck Operation = "understanding_check"
	OpRemedialSubtopic   Operation = "remedial_subtopic"
	OpReviewProjectCode  Operation = "review_project_code"
	OpInterviewQuestions Operation = "interview_questions"
	OpElaborateAnswer    Operation = "elaborate_answer"
	OpRelatedTopics      Operation = "related_topics"
	OpQuickPracticeQuiz  Operation = "quick_practice_quiz"
	OpAssessmentQuiz     Operation = "assessment_quiz"
	OpExplainCode        Operation = "explain_code"
	OpFixDiagram         Operation = "fix_diagram"
	OpLiveInterview      Operation = "live_interview"
)

// Structured reports whether the operation expects a JSON payload.
func (o Operation) Structured() bool {
	switch o {
	case OpStory, OpAnalogy, OpChat, OpDefineTerm, OpReviewProjectCode, OpElaborateAnswer, OpExplainCode, OpFixDiagram, OpLiveInterview:
		return false
	default:
		return true
	}
}

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Request is one call to a model. Schema is set only for structured
// operations. Subject and Count echo the main inputs so backends that do not
// read the prompt can still answer.
type Request struct {
	Operation Operation      `json:"operation"`
	System    string         `json:"system,omitempty"`
	Prompt    string         `json:"prompt,omitempty"`
	History   []Turn         `json:"history,omitempty"`
	Schema    map[string]any `json:"schema,omitempty"`
	Subject   string         `json:"subject,omitempty"`
	Count     int            `json:"count,omitempty"`
}
