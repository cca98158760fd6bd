package dto

import "mindflow/internal/modules/session/domain"

// OpenInput names what a session works on. Subject is the topic, term or
// first message; CourseID and SubtopicID select a lesson for the kinds that
// need one.
type OpenInput struct {
	Kind       string
	Subject    string
	CourseID   string
	SubtopicID string
	Code       string
	Context    string
	Mode       string
	Level      string
	Count      int
	Assessment bool
}

type SessionOutput struct {
	domain.Session
}

type ReplyInput struct {
	Kind    string
	Message string
}

type UnderstandingInput struct {
	Answers []int
}

type UnderstandingOutput struct {
	Correct       int
	Total         int
	Passed        bool
	XP            int
	RemedialID    string
	RemedialTitle string
}
