package domain

import "fmt"

type LearningGoal string

const (
	GoalProject   LearningGoal = "project"
	GoalInterview LearningGoal = "interview"
	GoalTheory    LearningGoal = "theory"
	GoalCuriosity LearningGoal = "curiosity"
)

func (g LearningGoal) Validate() error {
	switch g {
	case GoalProject, GoalInterview, GoalTheory, GoalCuriosity:
		return nil
	default:
		return fmt.Errorf("unsupported learning goal %q", string(g))
	}
}

type LearningStyle string

const (
	StyleVisual      LearningStyle = "visual"
	StyleCode        LearningStyle = "code"
	StyleBalanced    LearningStyle = "balanced"
	StyleInteractive LearningStyle = "interactive"
)

func (s LearningStyle) Validate() error {
	switch s {
	case StyleVisual, StyleCode, StyleBalanced, StyleInteractive:
		return nil
	default:
		return fmt.Errorf("unsupported learning style %q", string(s))
	}
}

type SourceKind string

const (
	SourceSyllabus SourceKind = "syllabus"
	SourceURL      SourceKind = "url"
	SourcePDF      SourceKind = "pdf"
)

// Source is material a course should be based on.
type Source struct {
	Kind    SourceKind
	Content string
}

type ExplainMode string

const (
	ExplainPlain    ExplainMode = "explain"
	ExplainComment  ExplainMode = "comment"
	ExplainRefactor ExplainMode = "refactor"
)
