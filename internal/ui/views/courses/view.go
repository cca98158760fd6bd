package courses

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	contentdomain "mindflow/internal/modules/content/domain"
	"mindflow/internal/ui/components"
	"mindflow/internal/ui/theme"
)

// ─── messages ────────────────────────────────────────────────────────────────

// ToggleLessonMsg asks the parent to toggle a lesson's completion.
type ToggleLessonMsg struct {
	CourseID   string
	SubtopicID string
}

// SelectCourseMsg is sent when a course is opened, so it becomes the active one.
type SelectCourseMsg struct {
	CourseID string
}

// ─── list items ──────────────────────────────────────────────────────────────

type courseItem struct {
	course contentdomain.Course
	folder string
}

func (i courseItem) Title() string { return i.course.Title }
func (i courseItem) Description() string {
	desc := fmt.Sprintf("%s  %.0f%%", i.course.KnowledgeLevel, i.course.PercentComplete())
	if i.folder != "" {
		desc += "  ▸ " + i.folder
	}
	return desc
}
func (i courseItem) FilterValue() string { return i.course.Title }

type lessonItem struct {
	topic string
	sub   contentdomain.Subtopic
	done  bool
}

func (i lessonItem) Title() string { return components.Check(i.done) + " " + i.sub.Title }
func (i lessonItem) Description() string {
	desc := i.topic + " · " + string(i.sub.Type)
	if i.sub.IsAdaptive {
		desc += " · review"
	}
	return desc
}
func (i lessonItem) FilterValue() string { return i.sub.Title }

// ─── model ───────────────────────────────────────────────────────────────────

type mode int

const (
	modeCourses mode = iota
	modeLessons
)

// Model lists courses and, once one is opened, its lessons.
type Model struct {
	courses  list.Model
	lessons  list.Model
	preview  viewport.Model
	mode     mode
	all      []contentdomain.Course
	folders  map[string]string
	courseID string
	width    int
	height   int
}

func New() Model {
	return Model{
		courses: components.NewList("Courses"),
		lessons: components.NewList("Lessons"),
		preview: components.NewPreview(),
		folders: map[string]string{},
	}
}

// SetCourses replaces the listed courses. folders maps course id to folder name.
func (m *Model) SetCourses(courses []contentdomain.Course, folders map[string]string) tea.Cmd {
	m.all = courses
	m.folders = folders
	items := make([]list.Item, len(courses))
	for i, c := range courses {
		items[i] = courseItem{course: c, folder: folders[c.ID]}
	}
	cmds := []tea.Cmd{m.courses.SetItems(items)}
	if m.mode == modeLessons {
		if _, ok := m.course(m.courseID); ok {
			cmds = append(cmds, m.loadLessons())
		} else {
			m.mode = modeCourses
			m.courseID = ""
		}
	}
	m.refreshPreview()
	return tea.Batch(cmds...)
}

// SetUpNext shows the suggested next step in the course list title.
func (m *Model) SetUpNext(next contentdomain.UpNext) {
	m.courses.Title = "Courses"
	if next.Title != "" {
		m.courses.Title += " · next: " + next.Title
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		components.ResizeSplit(&m.courses, &m.preview, m.width, m.height)
		components.ResizeSplit(&m.lessons, &m.preview, m.width, m.height)
		m.refreshPreview()

	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch msg.String() {
		case "enter":
			if m.mode == modeCourses {
				if item, ok := m.courses.SelectedItem().(courseItem); ok {
					m.mode = modeLessons
					m.courseID = item.course.ID
					m.lessons.ResetSelected()
					cmds = append(cmds, m.loadLessons(), selectCourse(item.course.ID))
					m.refreshPreview()
				}
				return m, tea.Batch(cmds...)
			}
		case "esc", "backspace":
			if m.mode == modeLessons {
				m.mode = modeCourses
				m.refreshPreview()
				return m, nil
			}
		case " ", "x":
			if m.mode == modeLessons {
				if item, ok := m.lessons.SelectedItem().(lessonItem); ok {
					courseID, subID := m.courseID, item.sub.ID
					return m, func() tea.Msg { return ToggleLessonMsg{CourseID: courseID, SubtopicID: subID} }
				}
			}
		}
	}

	active := &m.courses
	if m.mode == modeLessons {
		active = &m.lessons
	}
	prev := active.Index()
	var lCmd tea.Cmd
	*active, lCmd = active.Update(msg)
	cmds = append(cmds, lCmd)
	if active.Index() != prev {
		m.refreshPreview()
	}

	var vCmd tea.Cmd
	m.preview, vCmd = m.preview.Update(msg)
	cmds = append(cmds, vCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	left := m.courses.View()
	if m.mode == modeLessons {
		left = m.lessons.View()
	}
	return components.Split(m.width, m.height, left, m.preview)
}

// Selected returns the highlighted course and, when lessons are shown, the
// highlighted lesson.
func (m Model) Selected() (courseID, subtopicID string) {
	if m.mode == modeLessons {
		if item, ok := m.lessons.SelectedItem().(lessonItem); ok {
			return m.courseID, item.sub.ID
		}
		return m.courseID, ""
	}
	if item, ok := m.courses.SelectedItem().(courseItem); ok {
		return item.course.ID, ""
	}
	return "", ""
}

func (m Model) Filtering() bool {
	if m.mode == modeLessons {
		return m.lessons.FilterState() == list.Filtering
	}
	return m.courses.FilterState() == list.Filtering
}

// ─── private ─────────────────────────────────────────────────────────────────

func selectCourse(id string) tea.Cmd {
	return func() tea.Msg { return SelectCourseMsg{CourseID: id} }
}

func (m Model) course(id string) (contentdomain.Course, bool) {
	for _, c := range m.all {
		if c.ID == id {
			return c, true
		}
	}
	return contentdomain.Course{}, false
}

func (m *Model) loadLessons() tea.Cmd {
	c, ok := m.course(m.courseID)
	if !ok {
		return nil
	}
	m.lessons.Title = c.Title
	var items []list.Item
	for _, topic := range c.Topics {
		for _, sub := range topic.Subtopics {
			items = append(items, lessonItem{topic: topic.Title, sub: sub, done: c.Progress.Has(sub.ID)})
		}
	}
	return m.lessons.SetItems(items)
}

func (m *Model) refreshPreview() {
	if m.mode == modeLessons {
		if item, ok := m.lessons.SelectedItem().(lessonItem); ok {
			m.preview.SetContent(renderLesson(item.sub, item.done, m.preview.Width))
			m.preview.GotoTop()
			return
		}
	}
	if item, ok := m.courses.SelectedItem().(courseItem); ok {
		m.preview.SetContent(renderCourse(item.course, item.folder))
		return
	}
	m.preview.SetContent(theme.Muted.Render("No courses yet. Press : and run course:new <topic>"))
}

func renderCourse(c contentdomain.Course, folder string) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(c.Title) + "\n")
	if c.Description != "" {
		sb.WriteString(c.Description + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(theme.Muted.Render("level:    ") + string(c.KnowledgeLevel) + "\n")
	sb.WriteString(fmt.Sprintf("%s%d/%d (%.0f%%)\n", theme.Muted.Render("progress: "), c.Progress.Len(), c.TotalSubtopics(), c.PercentComplete()))
	if c.Overview.Duration != "" {
		sb.WriteString(theme.Muted.Render("duration: ") + c.Overview.Duration + "\n")
	}
	if folder != "" {
		sb.WriteString(theme.Muted.Render("folder:   ") + folder + "\n")
	}
	if len(c.Technologies) > 0 {
		sb.WriteString(theme.Muted.Render("tech:     ") + strings.Join(c.Technologies, ", ") + "\n")
	}
	for _, topic := range c.Topics {
		sb.WriteString("\n" + theme.Hot.Render(topic.Title) + "\n")
		for _, sub := range topic.Subtopics {
			sb.WriteString(fmt.Sprintf("  %s %s\n", components.Check(c.Progress.Has(sub.ID)), sub.Title))
		}
	}
	if len(c.LearningOutcomes) > 0 {
		sb.WriteString("\n" + theme.Title.Render("Outcomes") + "\n")
		for _, o := range c.LearningOutcomes {
			sb.WriteString("  • " + o + "\n")
		}
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: lessons  : palette"))
	return sb.String()
}

func renderLesson(sub contentdomain.Subtopic, done bool, width int) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(sub.Title) + "  " + components.Check(done) + "\n\n")
	switch {
	case sub.Article != nil:
		if sub.Article.Objective != "" {
			sb.WriteString(theme.Muted.Render(sub.Article.Objective) + "\n\n")
		}
		for _, block := range sub.Article.ContentBlocks {
			sb.WriteString(renderBlock(block, width))
			sb.WriteString("\n")
		}
	case sub.Quiz != nil:
		sb.WriteString(sub.Quiz.Description + "\n\n")
		for i, q := range sub.Quiz.Questions {
			sb.WriteString(renderQuiz(i+1, q))
		}
	case sub.Project != nil:
		sb.WriteString(sub.Project.Description + "\n\n")
		if sub.Project.Challenge != "" {
			sb.WriteString(theme.Hot.Render("Challenge") + "\n" + sub.Project.Challenge + "\n\n")
		}
		if sub.Project.CodeStub != "" {
			sb.WriteString(theme.Code.Render(sub.Project.CodeStub) + "\n")
		}
	}
	if sub.Notes != "" {
		sb.WriteString("\n" + theme.Title.Render("Notes") + "\n" + sub.Notes + "\n")
	}
	sb.WriteString("\n" + theme.Muted.Render("space: toggle done  esc: back  : study:<kind>"))
	return sb.String()
}

func renderBlock(block contentdomain.ContentBlock, width int) string {
	switch block.Type {
	case contentdomain.BlockText:
		return lipgloss.NewStyle().Width(max(width-2, 20)).Render(block.Text) + "\n"
	case contentdomain.BlockCode:
		return theme.Code.Render(block.Code) + "\n"
	case contentdomain.BlockDiagram:
		return theme.Muted.Render("diagram "+block.ID) + "\n" + theme.Code.Render(block.Diagram) + "\n"
	case contentdomain.BlockQuiz:
		if block.Quiz != nil {
			return renderQuiz(0, *block.Quiz)
		}
	}
	return theme.Muted.Render(fmt.Sprintf("[%s]", block.Type)) + "\n"
}

func renderQuiz(n int, q contentdomain.QuizData) string {
	var sb strings.Builder
	prefix := "Q"
	if n > 0 {
		prefix = fmt.Sprintf("%d.", n)
	}
	sb.WriteString(theme.Hot.Render(prefix) + " " + q.Question + "\n")
	for j, opt := range q.Options {
		sb.WriteString(fmt.Sprintf("   %d) %s\n", j+1, opt))
	}
	return sb.String() + "\n"
}
