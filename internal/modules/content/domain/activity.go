package domain

type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

type TestResult struct {
	ID            string         `json:"id"`
	Topic         string         `json:"topic"`
	Difficulty    KnowledgeLevel `json:"difficulty"`
	Score         float64        `json:"score"`
	QuestionCount int            `json:"questionCount"`
	Timestamp     int64          `json:"timestamp"`
}

func (r TestResult) Perfect() bool {
	return r.Score >= 1
}

type DailyQuest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	XP          int    `json:"xp"`
	Completed   bool   `json:"completed"`
}
