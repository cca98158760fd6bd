package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	contentdomain "mindflow/internal/modules/content/domain"
)

// Checker is implemented by drafts that need rules struct tags cannot express.
type Checker interface {
	Check() error
}

type QuizDraft struct {
	Question    string   `json:"q" validate:"required"`
	Options     []string `json:"options" validate:"min=2,max=4,dive,required"`
	Answer      int      `json:"answer" validate:"gte=0"`
	Explanation string   `json:"explanation"`
}

func (q QuizDraft) Check() error {
	if q.Answer >= len(q.Options) {
		return fmt.Errorf("quiz %q answer %d out of range", q.Question, q.Answer)
	}
	return nil
}

func (q QuizDraft) ToQuiz() contentdomain.QuizData {
	return contentdomain.QuizData{
		Question:    q.Question,
		Options:     append([]string(nil), q.Options...),
		Answer:      q.Answer,
		Explanation: q.Explanation,
	}
}

func QuizzesToContent(drafts []QuizDraft) []contentdomain.QuizData {
	out := make([]contentdomain.QuizData, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, d.ToQuiz())
	}
	return out
}

type ModelLayer struct {
	Type       string `json:"type" validate:"oneof=input hidden output"`
	Neurons    int    `json:"neurons" validate:"gte=1"`
	Activation string `json:"activation,omitempty" validate:"omitempty,oneof=relu sigmoid tanh"`
}

type InteractiveModel struct {
	Title          string       `json:"title" validate:"required"`
	Description    string       `json:"description"`
	Layers         []ModelLayer `json:"layers" validate:"min=1,dive"`
	SampleInput    []float64    `json:"sampleInput"`
	ExpectedOutput []float64    `json:"expectedOutput"`
}

type ParameterOption struct {
	Label       string `json:"label" validate:"required"`
	Description string `json:"description"`
}

type Parameter struct {
	Name    string            `json:"name" validate:"required"`
	Options []ParameterOption `json:"options" validate:"min=1,dive"`
}

type OutcomeResult struct {
	TrainingLoss   []float64 `json:"trainingLoss"`
	ValidationLoss []float64 `json:"validationLoss"`
	Description    string    `json:"description"`
}

type Outcome struct {
	Combination string        `json:"combination" validate:"required"`
	Result      OutcomeResult `json:"result"`
}

type HyperparameterSimulator struct {
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters" validate:"min=1,dive"`
	Outcomes    []Outcome   `json:"outcomes" validate:"min=1,dive"`
}

type TriageOption struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

type TriageChallenge struct {
	Scenario           string         `json:"scenario" validate:"required"`
	Evidence           string         `json:"evidence"`
	Options            []TriageOption `json:"options" validate:"min=2,dive"`
	CorrectOptionIndex int            `json:"correctOptionIndex" validate:"gte=0"`
	Explanation        string         `json:"explanation"`
}

func (t TriageChallenge) Check() error {
	if t.CorrectOptionIndex >= len(t.Options) {
		return fmt.Errorf("triage challenge correct option %d out of range", t.CorrectOptionIndex)
	}
	return nil
}

// ContentBlockDraft holds one generated block. The widget payloads stay raw
// and are checked against their typed shapes by the decoder.
type ContentBlockDraft struct {
	Type                    string                   `json:"type" validate:"required,oneof=text code quiz diagram interactiveModel hyperparameterSimulator triageChallenge"`
	Text                    string                   `json:"text,omitempty"`
	Code                    string                   `json:"code,omitempty"`
	Diagram                 string                   `json:"diagram,omitempty"`
	Quiz                    *QuizDraft               `json:"quiz,omitempty"`
	InteractiveModel        *InteractiveModel        `json:"interactiveModel,omitempty"`
	HyperparameterSimulator *HyperparameterSimulator `json:"hyperparameterSimulator,omitempty"`
	TriageChallenge         *TriageChallenge         `json:"triageChallenge,omitempty"`
}

func (b ContentBlockDraft) Check() error {
	missing := false
	switch contentdomain.BlockType(b.Type) {
	case contentdomain.BlockText:
		missing = strings.TrimSpace(b.Text) == ""
	case contentdomain.BlockCode:
		missing = strings.TrimSpace(b.Code) == ""
	case contentdomain.BlockDiagram:
		missing = strings.TrimSpace(b.Diagram) == ""
	case contentdomain.BlockQuiz:
		if b.Quiz == nil {
			missing = true
		} else if err := b.Quiz.Check(); err != nil {
			return err
		}
	case contentdomain.BlockInteractiveModel:
		missing = b.InteractiveModel == nil
	case contentdomain.BlockHyperparameterSimulator:
		missing = b.HyperparameterSimulator == nil
	case contentdomain.BlockTriageChallenge:
		if b.TriageChallenge == nil {
			missing = true
		} else if err := b.TriageChallenge.Check(); err != nil {
			return err
		}
	}
	if missing {
		return fmt.Errorf("%s block has no %s payload", b.Type, b.Type)
	}
	return nil
}

func (b ContentBlockDraft) ToBlock() (contentdomain.ContentBlock, error) {
	block := contentdomain.ContentBlock{Type: contentdomain.BlockType(b.Type)}
	var err error
	switch block.Type {
	case contentdomain.BlockText:
		block.Text = b.Text
	case contentdomain.BlockCode:
		block.Code = b.Code
	case contentdomain.BlockDiagram:
		block.Diagram = b.Diagram
	case contentdomain.BlockQuiz:
		quiz := b.Quiz.ToQuiz()
		block.Quiz = &quiz
	case contentdomain.BlockInteractiveModel:
		block.InteractiveModel, err = json.Marshal(b.InteractiveModel)
	case contentdomain.BlockHyperparameterSimulator:
		block.HyperparameterSimulator, err = json.Marshal(b.HyperparameterSimulator)
	case contentdomain.BlockTriageChallenge:
		block.TriageChallenge, err = json.Marshal(b.TriageChallenge)
	}
	return block, err
}

// SubtopicData is the union of every subtopic payload field; Type decides
// which fields are meaningful.
type SubtopicData struct {
	Objective     string              `json:"objective,omitempty"`
	ContentBlocks []ContentBlockDraft `json:"contentBlocks,omitempty" validate:"dive"`
	Description   string              `json:"description,omitempty"`
	Questions     []QuizDraft         `json:"questions,omitempty" validate:"dive"`
	CodeStub      string              `json:"codeStub,omitempty"`
	Challenge     string              `json:"challenge,omitempty"`
}

type SubtopicDraft struct {
	Type  string       `json:"type" validate:"required,oneof=article quiz project"`
	Title string       `json:"title" validate:"required"`
	Data  SubtopicData `json:"data"`
}

func (s SubtopicDraft) Check() error {
	switch contentdomain.SubtopicType(s.Type) {
	case contentdomain.SubtopicArticle:
		if len(s.Data.ContentBlocks) == 0 {
			return fmt.Errorf("article subtopic %q has no content blocks", s.Title)
		}
		for _, block := range s.Data.ContentBlocks {
			if err := block.Check(); err != nil {
				return fmt.Errorf("subtopic %q: %w", s.Title, err)
			}
		}
	case contentdomain.SubtopicQuiz:
		if len(s.Data.Questions) == 0 {
			return fmt.Errorf("quiz subtopic %q has no questions", s.Title)
		}
		for _, q := range s.Data.Questions {
			if err := q.Check(); err != nil {
				return fmt.Errorf("subtopic %q: %w", s.Title, err)
			}
		}
	case contentdomain.SubtopicProject:
		if strings.TrimSpace(s.Data.Description) == "" && strings.TrimSpace(s.Data.Challenge) == "" {
			return fmt.Errorf("project subtopic %q has no description", s.Title)
		}
	}
	return nil
}

// ToSubtopic converts the draft without ids; callers assign them.
func (s SubtopicDraft) ToSubtopic() (contentdomain.Subtopic, error) {
	out := contentdomain.Subtopic{Title: s.Title, Type: contentdomain.SubtopicType(s.Type)}
	switch out.Type {
	case contentdomain.SubtopicArticle:
		blocks := make([]contentdomain.ContentBlock, 0, len(s.Data.ContentBlocks))
		for _, draft := range s.Data.ContentBlocks {
			block, err := draft.ToBlock()
			if err != nil {
				return contentdomain.Subtopic{}, fmt.Errorf("convert block of %q: %w", s.Title, err)
			}
			blocks = append(blocks, block)
		}
		out.Article = &contentdomain.ArticleData{Objective: s.Data.Objective, ContentBlocks: blocks}
	case contentdomain.SubtopicQuiz:
		out.Quiz = &contentdomain.QuizActivity{Description: s.Data.Description, Questions: QuizzesToContent(s.Data.Questions)}
	case contentdomain.SubtopicProject:
		out.Project = &contentdomain.ProjectActivity{Description: s.Data.Description, CodeStub: s.Data.CodeStub, Challenge: s.Data.Challenge}
	default:
		return contentdomain.Subtopic{}, fmt.Errorf("unsupported subtopic type %q", s.Type)
	}
	return out, nil
}

func SubtopicsToContent(drafts []SubtopicDraft) ([]contentdomain.Subtopic, error) {
	out := make([]contentdomain.Subtopic, 0, len(drafts))
	for _, draft := range drafts {
		sub, err := draft.ToSubtopic()
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

type OverviewDraft struct {
	Duration       string   `json:"duration"`
	TotalTopics    int      `json:"totalTopics"`
	TotalSubtopics int      `json:"totalSubtopics"`
	KeyFeatures    []string `json:"keyFeatures" validate:"max=6"`
}

type TopicDraft struct {
	Title     string          `json:"title" validate:"required"`
	Subtopics []SubtopicDraft `json:"subtopics" validate:"min=1,dive"`
}

type CourseDraft struct {
	Title            string        `json:"title" validate:"required"`
	Description      string        `json:"description"`
	About            string        `json:"about"`
	Category         string        `json:"category"`
	Technologies     []string      `json:"technologies"`
	LearningOutcomes []string      `json:"learningOutcomes"`
	Skills           []string      `json:"skills"`
	Overview         OverviewDraft `json:"overview"`
	Topics           []TopicDraft  `json:"topics" validate:"min=1,dive"`
}

func (c CourseDraft) Check() error {
	for _, topic := range c.Topics {
		for _, sub := range topic.Subtopics {
			if err := sub.Check(); err != nil {
				return fmt.Errorf("topic %q: %w", topic.Title, err)
			}
		}
	}
	return nil
}

// ToCourse builds a course without ids or progress. Overview totals are
// recomputed from the generated tree.
func (c CourseDraft) ToCourse(level contentdomain.KnowledgeLevel) (contentdomain.Course, error) {
	course := contentdomain.Course{
		Title:            c.Title,
		Description:      c.Description,
		About:            c.About,
		Category:         c.Category,
		Technologies:     nonNil(c.Technologies),
		LearningOutcomes: nonNil(c.LearningOutcomes),
		Skills:           nonNil(c.Skills),
		KnowledgeLevel:   level,
		Progress:         contentdomain.NewProgress(),
		Overview: contentdomain.Overview{
			Duration:    c.Overview.Duration,
			KeyFeatures: nonNil(c.Overview.KeyFeatures),
		},
	}
	for _, topicDraft := range c.Topics {
		subs, err := SubtopicsToContent(topicDraft.Subtopics)
		if err != nil {
			return contentdomain.Course{}, err
		}
		course.Topics = append(course.Topics, contentdomain.Topic{Title: topicDraft.Title, Subtopics: subs})
	}
	course.Overview.TotalTopics = len(course.Topics)
	course.Overview.TotalSubtopics = course.TotalSubtopics()
	return course, nil
}

type PlanDayDraft struct {
	Day       int    `json:"day" validate:"gte=1"`
	Title     string `json:"title" validate:"required"`
	Objective string `json:"objective"`
}

type PlanDraft struct {
	PlanTitle       string         `json:"planTitle" validate:"required"`
	OptimalDuration int            `json:"optimalDuration" validate:"gte=0"`
	DailyBreakdown  []PlanDayDraft `json:"dailyBreakdown" validate:"min=1,dive"`
}

func (p PlanDraft) Days() []contentdomain.PlanDay {
	out := make([]contentdomain.PlanDay, 0, len(p.DailyBreakdown))
	for _, day := range p.DailyBreakdown {
		out = append(out, contentdomain.PlanDay{Title: day.Title, Description: day.Objective})
	}
	return out
}

type BlogPostDraft struct {
	Title         string   `json:"title" validate:"required"`
	Subtitle      string   `json:"subtitle"`
	BlogPost      string   `json:"blogPost" validate:"required"`
	RelatedTopics []string `json:"relatedTopics" validate:"dive,required"`
}

func (b BlogPostDraft) ToArticle() contentdomain.Article {
	return contentdomain.Article{Title: b.Title, Subtitle: b.Subtitle, Body: b.BlogPost}
}

type Flashcard struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

type PracticeConcept struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	CodeExample string `json:"codeExample"`
}

type PracticeSession struct {
	Topic    string            `json:"topic"`
	Concepts []PracticeConcept `json:"concepts" validate:"min=1,dive"`
	Quiz     []QuizDraft       `json:"quiz" validate:"dive"`
}

func (p PracticeSession) Check() error {
	for _, q := range p.Quiz {
		if err := q.Check(); err != nil {
			return err
		}
	}
	return nil
}

type ProjectStepDraft struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	CodeStub    string `json:"codeStub"`
	Challenge   string `json:"challenge"`
}

type ProjectDraft struct {
	Title       string             `json:"title" validate:"required"`
	Description string             `json:"description"`
	Steps       []ProjectStepDraft `json:"steps" validate:"min=1,dive"`
}

// ToProject converts the draft without ids or progress.
func (p ProjectDraft) ToProject() contentdomain.Project {
	project := contentdomain.Project{Title: p.Title, Description: p.Description, Progress: contentdomain.NewProgress()}
	for _, step := range p.Steps {
		project.Steps = append(project.Steps, contentdomain.ProjectStep{
			Title:       step.Title,
			Description: step.Description,
			CodeStub:    step.CodeStub,
			Challenge:   step.Challenge,
		})
	}
	return project
}

type QuestDraft struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	XP          int    `json:"xp" validate:"gt=0"`
}

func (q QuestDraft) ToQuest() contentdomain.DailyQuest {
	return contentdomain.DailyQuest{Title: q.Title, Description: q.Description, XP: q.XP}
}

type Recommendation struct {
	Topic  string `json:"topic" validate:"required"`
	Reason string `json:"reason"`
}

type InterviewQuestionDraft struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
}

func InterviewQuestionsToContent(drafts []InterviewQuestionDraft) []contentdomain.InterviewQuestion {
	out := make([]contentdomain.InterviewQuestion, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, contentdomain.InterviewQuestion{Question: d.Question, Answer: d.Answer})
	}
	return out
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
