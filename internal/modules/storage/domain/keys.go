package domain

// Keys name the persisted collections. The values match the browser storage
// keys of earlier releases so old backups and data stay readable.
const (
	KeyCourses          = "learnai:courses"
	KeyFolders          = "learnai:folders"
	KeyProjects         = "learnai:projects"
	KeyArticles         = "learnai:articles"
	KeyProfile          = "learnai:guest_user_profile"
	KeyLearningPlans    = "learnai:learning_plans"
	KeyChatHistory      = "mindflow:chat_history"
	KeyTestResults      = "mindflow:test_results"
	KeyTheme            = "learnai-theme"
	KeyLastActiveCourse = "learnai-last-active-course"
	KeyQuest            = "learnai-quest"
	KeyQuestDate        = "learnai-quest-date"
)

// AllKeys lists every key the snapshot store reads and writes.
var AllKeys = []string{
	KeyCourses, KeyFolders, KeyProjects, KeyArticles, KeyProfile, KeyLearningPlans,
	KeyChatHistory, KeyTestResults, KeyTheme, KeyLastActiveCourse, KeyQuest, KeyQuestDate,
}

// LearningKeys are cleared by a reset. Theme and quest survive.
var LearningKeys = []string{
	KeyCourses, KeyFolders, KeyProjects, KeyArticles, KeyProfile, KeyLearningPlans,
	KeyChatHistory, KeyTestResults, KeyLastActiveCourse,
}
