package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

type KnowledgeLevel string

const (
	LevelBeginner     KnowledgeLevel = "beginner"
	LevelIntermediate KnowledgeLevel = "intermediate"
	LevelAdvanced     KnowledgeLevel = "advanced"
)

func (l KnowledgeLevel) Validate() error {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return nil
	default:
		return fmt.Errorf("unsupported knowledge level %q", string(l))
	}
}

type SubtopicType string

const (
	SubtopicArticle SubtopicType = "article"
	SubtopicQuiz    SubtopicType = "quiz"
	SubtopicProject SubtopicType = "project"
)

type BlockType string

const (
	BlockText                    BlockType = "text"
	BlockCode                    BlockType = "code"
	BlockQuiz                    BlockType = "quiz"
	BlockDiagram                 BlockType = "diagram"
	BlockInteractiveModel        BlockType = "interactiveModel"
	BlockHyperparameterSimulator BlockType = "hyperparameterSimulator"
	BlockTriageChallenge         BlockType = "triageChallenge"
)

type Course struct {
	ID                    string                 `json:"id"`
	Title                 string                 `json:"title"`
	Description           string                 `json:"description"`
	Category              string                 `json:"category"`
	Technologies          []string               `json:"technologies"`
	Topics                []Topic                `json:"topics"`
	KnowledgeLevel        KnowledgeLevel         `json:"knowledgeLevel"`
	Progress              Progress               `json:"progress"`
	About                 string                 `json:"about"`
	Overview              Overview               `json:"overview"`
	LearningOutcomes      []string               `json:"learningOutcomes"`
	Skills                []string               `json:"skills"`
	InterviewQuestionSets []InterviewQuestionSet `json:"interviewQuestionSets,omitempty"`
	LearningPlanID        string                 `json:"learningPlanId,omitempty"`
	DayInPlan             int                    `json:"dayInPlan,omitempty"`
}

type Overview struct {
	Duration       string   `json:"duration"`
	TotalTopics    int      `json:"totalTopics"`
	TotalSubtopics int      `json:"totalSubtopics"`
	KeyFeatures    []string `json:"keyFeatures"`
}

type Topic struct {
	ID        string     `json:"id,omitempty"`
	Title     string     `json:"title"`
	Subtopics []Subtopic `json:"subtopics"`
}

// Subtopic carries exactly one of Article, Quiz or Project, matching Type.
type Subtopic struct {
	ID         string
	Title      string
	Type       SubtopicType
	Notes      string
	IsAdaptive bool
	Article    *ArticleData
	Quiz       *QuizActivity
	Project    *ProjectActivity
}

type ArticleData struct {
	Objective     string         `json:"objective"`
	ContentBlocks []ContentBlock `json:"contentBlocks"`
}

type QuizActivity struct {
	Description string     `json:"description"`
	Questions   []QuizData `json:"questions"`
}

type ProjectActivity struct {
	Description string `json:"description"`
	CodeStub    string `json:"codeStub"`
	Challenge   string `json:"challenge"`
}

type QuizData struct {
	Question    string   `json:"q"`
	Options     []string `json:"options"`
	Answer      int      `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
}

// ContentBlock sets only the field named by Type. The interactive widgets
// are kept as raw JSON payloads.
type ContentBlock struct {
	ID                      string          `json:"id"`
	Type                    BlockType       `json:"type"`
	Text                    string          `json:"text,omitempty"`
	Code                    string          `json:"code,omitempty"`
	Quiz                    *QuizData       `json:"quiz,omitempty"`
	Diagram                 string          `json:"diagram,omitempty"`
	InteractiveModel        json.RawMessage `json:"interactiveModel,omitempty"`
	HyperparameterSimulator json.RawMessage `json:"hyperparameterSimulator,omitempty"`
	TriageChallenge         json.RawMessage `json:"triageChallenge,omitempty"`
}

type InterviewQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type InterviewQuestionSet struct {
	ID            string              `json:"id"`
	Timestamp     int64               `json:"timestamp"`
	Difficulty    KnowledgeLevel      `json:"difficulty"`
	QuestionCount int                 `json:"questionCount"`
	Questions     []InterviewQuestion `json:"questions"`
}

type CourseRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type subtopicJSON struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Type       SubtopicType    `json:"type"`
	Notes      string          `json:"notes,omitempty"`
	IsAdaptive bool            `json:"isAdaptive,omitempty"`
	Data       json.RawMessage `json:"data"`
}

func (s Subtopic) MarshalJSON() ([]byte, error) {
	var data any
	switch s.Type {
	case SubtopicArticle:
		data = s.Article
	case SubtopicQuiz:
		data = s.Quiz
	case SubtopicProject:
		data = s.Project
	default:
		return nil, fmt.Errorf("unsupported subtopic type %q", string(s.Type))
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(subtopicJSON{ID: s.ID, Title: s.Title, Type: s.Type, Notes: s.Notes, IsAdaptive: s.IsAdaptive, Data: raw})
}

func (s *Subtopic) UnmarshalJSON(raw []byte) error {
	var wire subtopicJSON
	if err := json.Unmarshal(raw, &wire); err != nil {
		return err
	}
	out := Subtopic{ID: wire.ID, Title: wire.Title, Type: wire.Type, Notes: wire.Notes, IsAdaptive: wire.IsAdaptive}
	data := wire.Data
	if len(data) == 0 || string(data) == "null" {
		data = []byte("{}")
	}
	switch wire.Type {
	case SubtopicArticle:
		out.Article = &ArticleData{}
		if err := json.Unmarshal(data, out.Article); err != nil {
			return fmt.Errorf("decode article subtopic %s: %w", wire.ID, err)
		}
	case SubtopicQuiz:
		out.Quiz = &QuizActivity{}
		if err := json.Unmarshal(data, out.Quiz); err != nil {
			return fmt.Errorf("decode quiz subtopic %s: %w", wire.ID, err)
		}
	case SubtopicProject:
		out.Project = &ProjectActivity{}
		if err := json.Unmarshal(data, out.Project); err != nil {
			return fmt.Errorf("decode project subtopic %s: %w", wire.ID, err)
		}
	default:
		return fmt.Errorf("unsupported subtopic type %q", string(wire.Type))
	}
	*s = out
	return nil
}

func (s Subtopic) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("subtopic title is required")
	}
	switch s.Type {
	case SubtopicArticle:
		if s.Article == nil || s.Quiz != nil || s.Project != nil {
			return fmt.Errorf("article subtopic %q must carry only article data", s.Title)
		}
		for _, block := range s.Article.ContentBlocks {
			if err := block.Validate(); err != nil {
				return err
			}
		}
	case SubtopicQuiz:
		if s.Quiz == nil || s.Article != nil || s.Project != nil {
			return fmt.Errorf("quiz subtopic %q must carry only quiz data", s.Title)
		}
	case SubtopicProject:
		if s.Project == nil || s.Article != nil || s.Quiz != nil {
			return fmt.Errorf("project subtopic %q must carry only project data", s.Title)
		}
	default:
		return fmt.Errorf("unsupported subtopic type %q", string(s.Type))
	}
	return nil
}

func (b ContentBlock) Validate() error {
	switch b.Type {
	case BlockText, BlockCode, BlockDiagram:
		return nil
	case BlockQuiz:
		if b.Quiz == nil {
			return fmt.Errorf("quiz block %s has no quiz", b.ID)
		}
		if b.Quiz.Answer < 0 || b.Quiz.Answer >= len(b.Quiz.Options) {
			return fmt.Errorf("quiz block %s answer out of range", b.ID)
		}
		return nil
	case BlockInteractiveModel:
		return requirePayload(b.ID, b.Type, b.InteractiveModel)
	case BlockHyperparameterSimulator:
		return requirePayload(b.ID, b.Type, b.HyperparameterSimulator)
	case BlockTriageChallenge:
		return requirePayload(b.ID, b.Type, b.TriageChallenge)
	default:
		return fmt.Errorf("unsupported content block type %q", string(b.Type))
	}
}

func requirePayload(id string, kind BlockType, raw json.RawMessage) error {
	if len(raw) == 0 || !json.Valid(raw) {
		return fmt.Errorf("%s block %s has no valid payload", kind, id)
	}
	return nil
}

// EnsureIDs fills any missing topic, subtopic and block id. Existing ids are kept.
func (c *Course) EnsureIDs(newID func() string) {
	if c.ID == "" {
		c.ID = newID()
	}
	for ti := range c.Topics {
		topic := &c.Topics[ti]
		if topic.ID == "" {
			topic.ID = newID()
		}
		for si := range topic.Subtopics {
			EnsureSubtopicIDs(&topic.Subtopics[si], newID)
		}
	}
}

func EnsureSubtopicIDs(s *Subtopic, newID func() string) {
	if s.ID == "" {
		s.ID = newID()
	}
	if s.Article == nil {
		return
	}
	for bi := range s.Article.ContentBlocks {
		if s.Article.ContentBlocks[bi].ID == "" {
			s.Article.ContentBlocks[bi].ID = newID()
		}
	}
}

func (c Course) Ref() *CourseRef {
	return &CourseRef{ID: c.ID, Title: c.Title}
}

// TopicIndex finds a topic by id, falling back to title for topics stored
// before ids were assigned.
func (c Course) TopicIndex(topicRef string) int {
	for i, topic := range c.Topics {
		if topic.ID != "" && topic.ID == topicRef {
			return i
		}
	}
	for i, topic := range c.Topics {
		if topic.Title == topicRef {
			return i
		}
	}
	return -1
}

// FindSubtopic returns topic and subtopic positions of subtopicID.
func (c Course) FindSubtopic(subtopicID string) (int, int, bool) {
	for ti, topic := range c.Topics {
		for si, sub := range topic.Subtopics {
			if sub.ID == subtopicID {
				return ti, si, true
			}
		}
	}
	return -1, -1, false
}

func (c Course) SubtopicIDs() []string {
	out := []string{}
	for _, topic := range c.Topics {
		for _, sub := range topic.Subtopics {
			out = append(out, sub.ID)
		}
	}
	return out
}

func (c Course) TotalSubtopics() int {
	total := 0
	for _, topic := range c.Topics {
		total += len(topic.Subtopics)
	}
	return total
}

func (c Course) PercentComplete() float64 {
	total := c.TotalSubtopics()
	if total == 0 {
		return 0
	}
	return float64(c.Progress.Len()) * 100 / float64(total)
}

func (c Course) IsComplete() bool {
	total := c.TotalSubtopics()
	return total > 0 && c.Progress.Len() >= total
}

func (c Course) Clone() Course {
	out := c
	out.Technologies = append([]string(nil), c.Technologies...)
	out.LearningOutcomes = append([]string(nil), c.LearningOutcomes...)
	out.Skills = append([]string(nil), c.Skills...)
	out.Overview.KeyFeatures = append([]string(nil), c.Overview.KeyFeatures...)
	out.Progress = c.Progress.Clone()
	out.Topics = make([]Topic, len(c.Topics))
	for i, topic := range c.Topics {
		out.Topics[i] = Topic{ID: topic.ID, Title: topic.Title, Subtopics: append([]Subtopic(nil), topic.Subtopics...)}
	}
	out.InterviewQuestionSets = make([]InterviewQuestionSet, len(c.InterviewQuestionSets))
	for i, set := range c.InterviewQuestionSets {
		set.Questions = append([]InterviewQuestion(nil), set.Questions...)
		out.InterviewQuestionSets[i] = set
	}
	if c.InterviewQuestionSets == nil {
		out.InterviewQuestionSets = nil
	}
	return out
}
