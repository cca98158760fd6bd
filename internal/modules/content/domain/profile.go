package domain

const (
	XPPerLesson    = 100
	xpPerLevel     = 500
	GuestID        = "guest"
	guestName      = "Guest"
	streakForHabit = 7
)

type AchievementID string

const (
	AchievementCuriousMind      AchievementID = "curiousMind"
	AchievementTopicExplorer    AchievementID = "topicExplorer"
	AchievementFirstSteps       AchievementID = "firstSteps"
	AchievementDedicatedLearner AchievementID = "dedicatedLearner"
	AchievementProjectStarter   AchievementID = "projectStarter"
	AchievementQuizMaster       AchievementID = "quizMaster"
)

type Achievement struct {
	ID          AchievementID
	Title       string
	Description string
}

var Achievements = []Achievement{
	{ID: AchievementCuriousMind, Title: "Curious Mind", Description: "Generate your first course."},
	{ID: AchievementTopicExplorer, Title: "Topic Explorer", Description: "Generate 5 different courses."},
	{ID: AchievementFirstSteps, Title: "First Steps", Description: "Complete your first lesson."},
	{ID: AchievementDedicatedLearner, Title: "Dedicated Learner", Description: "Keep a habit going for 7 days in a row."},
	{ID: AchievementProjectStarter, Title: "Project Starter", Description: "Generate your first project."},
	{ID: AchievementQuizMaster, Title: "Quiz Master", Description: "Get a perfect score on a test of 3 or more questions."},
}

// Profile is the single local learner.
type Profile struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Picture      string          `json:"picture,omitempty"`
	XP           int             `json:"xp"`
	Level        int             `json:"level"`
	Achievements []AchievementID `json:"achievements"`
	Habits       []Habit         `json:"habits"`
}

func GuestProfile() Profile {
	return Profile{ID: GuestID, Name: guestName, XP: 0, Level: 1, Achievements: []AchievementID{}, Habits: []Habit{}}
}

func RequiredXP(level int) int {
	return level * xpPerLevel
}

// AwardXP adds amount and levels up as many times as the new total allows.
// It returns the number of levels gained.
func (p *Profile) AwardXP(amount int) int {
	if p.Level < 1 {
		p.Level = 1
	}
	p.XP += amount
	gained := 0
	for p.XP >= RequiredXP(p.Level) {
		p.XP -= RequiredXP(p.Level)
		p.Level++
		gained++
	}
	return gained
}

func (p Profile) HasAchievement(id AchievementID) bool {
	for _, existing := range p.Achievements {
		if existing == id {
			return true
		}
	}
	return false
}

// Unlock records id and reports whether it was newly unlocked.
func (p *Profile) Unlock(id AchievementID) bool {
	if p.HasAchievement(id) {
		return false
	}
	p.Achievements = append(p.Achievements, id)
	return true
}

func (p Profile) Clone() Profile {
	out := p
	out.Achievements = append([]AchievementID(nil), p.Achievements...)
	out.Habits = make([]Habit, len(p.Habits))
	for i, habit := range p.Habits {
		out.Habits[i] = habit.Clone()
	}
	return out
}
