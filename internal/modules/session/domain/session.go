package domain

import (
	"fmt"
	"strings"
	"time"

	contentdomain "mindflow/internal/modules/content/domain"
	gendomain "mindflow/internal/modules/generation/domain"
)

const SchemaVersion = 1

type Kind string

const (
	KindStory         Kind = "story"
	KindAnalogy       Kind = "analogy"
	KindFlashcards    Kind = "flashcards"
	KindSocratic      Kind = "socratic"
	KindExplore       Kind = "explore"
	KindMindMap       Kind = "mindmap"
	KindDefine        Kind = "define"
	KindPractice      Kind = "practice"
	KindQuickQuiz     Kind = "quick_quiz"
	KindUnderstanding Kind = "understanding"
	KindProjectTutor  Kind = "project_tutor"
	KindArticleTutor  Kind = "article_tutor"
	KindChat          Kind = "chat"
	KindLiveInterview Kind = "live_interview"
	KindCodeExplain   Kind = "code_explain"
	KindArticleIdeas  Kind = "article_ideas"
)

var Kinds = []Kind{
	KindStory, KindAnalogy, KindFlashcards, KindSocratic, KindExplore, KindMindMap,
	KindDefine, KindPractice, KindQuickQuiz, KindUnderstanding, KindProjectTutor,
	KindArticleTutor, KindChat, KindLiveInterview, KindCodeExplain, KindArticleIdeas,
}

func (k Kind) Validate() error {
	for _, known := range Kinds {
		if k == known {
			return nil
		}
	}
	return fmt.Errorf("unsupported session kind %q", string(k))
}

// Conversational reports whether the kind keeps a transcript that grows with
// every reply.
func (k Kind) Conversational() bool {
	switch k {
	case KindChat, KindArticleTutor, KindLiveInterview, KindProjectTutor:
		return true
	default:
		return false
	}
}

// NeedsLesson reports whether the kind works on a specific subtopic.
func (k Kind) NeedsLesson() bool {
	return k == KindUnderstanding || k == KindArticleTutor
}

type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusError   Status = "error"
)

type MindMapNode struct {
	Title    string        `json:"title"`
	Children []MindMapNode `json:"children,omitempty"`
}

// Session is the state of one study dialog. Only the fields matching Kind
// are set once it is ready.
type Session struct {
	ID              string                      `json:"id"`
	Kind            Kind                        `json:"kind"`
	Subject         string                      `json:"subject"`
	CourseID        string                      `json:"courseId,omitempty"`
	SubtopicID      string                      `json:"subtopicId,omitempty"`
	Status          Status                      `json:"status"`
	Error           string                      `json:"error,omitempty"`
	Text            string                      `json:"text,omitempty"`
	Items           []string                    `json:"items,omitempty"`
	Flashcards      []gendomain.Flashcard       `json:"flashcards,omitempty"`
	Quiz            []contentdomain.QuizData    `json:"quiz,omitempty"`
	Recommendations []gendomain.Recommendation  `json:"recommendations,omitempty"`
	Practice        *gendomain.PracticeSession  `json:"practice,omitempty"`
	Transcript      []contentdomain.ChatMessage `json:"transcript,omitempty"`
	MindMap         *MindMapNode                `json:"mindMap,omitempty"`
	StartedAt       time.Time                   `json:"startedAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
}

func (s Session) Clone() Session {
	out := s
	out.Items = append([]string(nil), s.Items...)
	out.Flashcards = append([]gendomain.Flashcard(nil), s.Flashcards...)
	out.Quiz = append([]contentdomain.QuizData(nil), s.Quiz...)
	out.Recommendations = append([]gendomain.Recommendation(nil), s.Recommendations...)
	out.Transcript = append([]contentdomain.ChatMessage(nil), s.Transcript...)
	return out
}

// Fail records a generation failure as a message on the session.
func (s *Session) Fail(message string) {
	s.Status = StatusError
	s.Error = message
}

func (s *Session) Ready() {
	s.Status = StatusReady
	s.Error = ""
}

// BuildMindMap lays the course out as course, topics and subtopics.
func BuildMindMap(course contentdomain.Course) MindMapNode {
	root := MindMapNode{Title: course.Title, Children: make([]MindMapNode, 0, len(course.Topics))}
	for _, topic := range course.Topics {
		node := MindMapNode{Title: topic.Title, Children: make([]MindMapNode, 0, len(topic.Subtopics))}
		for _, sub := range topic.Subtopics {
			node.Children = append(node.Children, MindMapNode{Title: sub.Title})
		}
		root.Children = append(root.Children, node)
	}
	return root
}

// LessonText flattens a subtopic into plain text for prompts.
func LessonText(sub contentdomain.Subtopic) string {
	var b strings.Builder
	b.WriteString(sub.Title)
	b.WriteString("\n\n")
	switch {
	case sub.Article != nil:
		if sub.Article.Objective != "" {
			b.WriteString(sub.Article.Objective + "\n\n")
		}
		for _, block := range sub.Article.ContentBlocks {
			switch block.Type {
			case contentdomain.BlockText:
				b.WriteString(block.Text + "\n\n")
			case contentdomain.BlockCode:
				b.WriteString("```\n" + block.Code + "\n```\n\n")
			}
		}
	case sub.Quiz != nil:
		b.WriteString(sub.Quiz.Description + "\n")
		for _, q := range sub.Quiz.Questions {
			b.WriteString("- " + q.Question + "\n")
		}
	case sub.Project != nil:
		b.WriteString(sub.Project.Description + "\n\n" + sub.Project.Challenge + "\n")
	}
	return strings.TrimSpace(b.String())
}

// Score counts the answers that match the quiz key. Missing answers count as
// wrong.
func Score(quiz []contentdomain.QuizData, answers []int) int {
	correct := 0
	for i, q := range quiz {
		if i < len(answers) && answers[i] == q.Answer {
			correct++
		}
	}
	return correct
}
