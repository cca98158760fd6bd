package domain

import "fmt"

type UpNextKind string

const (
	UpNextContinue   UpNextKind = "continue_course"
	UpNextStart      UpNextKind = "start_course"
	UpNextAssessment UpNextKind = "skill_assessment"
)

type UpNext struct {
	Kind        UpNextKind
	Title       string
	Description string
	CTA         string
	CourseID    string
}

// SuggestUpNext prefers the last active course while it is incomplete, then
// the first course with no progress, then a skill assessment.
func SuggestUpNext(courses []Course, lastActiveCourseID string) UpNext {
	for _, course := range courses {
		if course.ID != lastActiveCourseID || lastActiveCourseID == "" {
			continue
		}
		if !course.IsComplete() {
			return UpNext{
				Kind:        UpNextContinue,
				Title:       "Pick Up Where You Left Off",
				Description: fmt.Sprintf("You're making great progress in %q.", course.Title),
				CTA:         "Continue Learning",
				CourseID:    course.ID,
			}
		}
		break
	}
	for _, course := range courses {
		if course.Progress.Len() == 0 {
			return UpNext{
				Kind:        UpNextStart,
				Title:       "Start a New Adventure",
				Description: fmt.Sprintf("Dive into %q and expand your skills.", course.Title),
				CTA:         "Start Topic",
				CourseID:    course.ID,
			}
		}
	}
	return UpNext{
		Kind:        UpNextAssessment,
		Title:       "Discover Your Strengths",
		Description: "Take a quick skill assessment to find out what you should learn next.",
		CTA:         "Take Assessment",
	}
}
