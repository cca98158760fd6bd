package domain

import "fmt"

const dayMillis = int64(24 * 60 * 60 * 1000)

type PlanStatus string

const (
	PlanActive    PlanStatus = "active"
	PlanCompleted PlanStatus = "completed"
	PlanArchived  PlanStatus = "archived"
)

type LearningPlan struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	StartDate  int64       `json:"startDate"`
	Duration   int         `json:"duration"`
	DailyTasks []DailyTask `json:"dailyTasks"`
	Status     PlanStatus  `json:"status"`
	FolderID   string      `json:"folderId"`
}

type DailyTask struct {
	ID        string `json:"id"`
	Day       int    `json:"day"`
	Date      int64  `json:"date"`
	CourseID  string `json:"courseId"`
	Completed bool   `json:"isCompleted"`
}

// PlanDay is one generated day of a plan before it is materialized.
type PlanDay struct {
	Title       string
	Description string
}

// BuildPlan creates the plan, one placeholder course per day, and the daily
// task pointing at each course. Task dates are startDate plus the day offset.
func BuildPlan(planID, title, topic string, startDate int64, days []PlanDay) (LearningPlan, []Course) {
	plan := LearningPlan{
		ID:         planID,
		Title:      title,
		StartDate:  startDate,
		Duration:   len(days),
		DailyTasks: make([]DailyTask, 0, len(days)),
		Status:     PlanActive,
	}
	courses := make([]Course, 0, len(days))
	for i, day := range days {
		courseID := fmt.Sprintf("course-%s-day-%d", planID, i+1)
		dayTitle := day.Title
		if dayTitle == "" {
			dayTitle = fmt.Sprintf("%s - Day %d", topic, i+1)
		}
		courses = append(courses, Course{
			ID:               courseID,
			Title:            dayTitle,
			Description:      fmt.Sprintf("Day %d of your %s learning journey", i+1, topic),
			About:            day.Description,
			Category:         "Learning Plan",
			Technologies:     []string{},
			Topics:           []Topic{},
			KnowledgeLevel:   LevelBeginner,
			Progress:         NewProgress(),
			Overview:         Overview{KeyFeatures: []string{}},
			LearningOutcomes: []string{},
			Skills:           []string{},
			LearningPlanID:   planID,
			DayInPlan:        i + 1,
		})
		plan.DailyTasks = append(plan.DailyTasks, DailyTask{
			ID:       "task-" + courseID,
			Day:      i + 1,
			Date:     startDate + int64(i)*dayMillis,
			CourseID: courseID,
		})
	}
	return plan, courses
}

func (p LearningPlan) TaskIndex(taskID string) int {
	for i, task := range p.DailyTasks {
		if task.ID == taskID {
			return i
		}
	}
	return -1
}

func (p LearningPlan) CompletedTasks() int {
	done := 0
	for _, task := range p.DailyTasks {
		if task.Completed {
			done++
		}
	}
	return done
}

func (p LearningPlan) Clone() LearningPlan {
	p.DailyTasks = append([]DailyTask(nil), p.DailyTasks...)
	return p
}
