package dto

import "time"

type StartInput struct {
	Type    string
	Topic   string
	Message string
}

type ResultInput struct {
	Message   string
	CourseID  string
	ProjectID string
	PlanID    string
}

type TaskOutput struct {
	ID         string
	Type       string
	Topic      string
	Status     string
	Message    string
	CourseID   string
	ProjectID  string
	PlanID     string
	StartedAt  time.Time
	FinishedAt time.Time
}

type BoardOutput struct {
	Active    *TaskOutput
	Minimized []TaskOutput
}
