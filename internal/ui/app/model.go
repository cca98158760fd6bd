package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	contentdto "mindflow/internal/modules/content/dto"
	sessiondto "mindflow/internal/modules/session/dto"
	taskdto "mindflow/internal/modules/task/dto"
	"mindflow/internal/ui/components"
	"mindflow/internal/ui/theme"
	articlesview "mindflow/internal/ui/views/articles"
	coursesview "mindflow/internal/ui/views/courses"
	habitsview "mindflow/internal/ui/views/habits"
	projectsview "mindflow/internal/ui/views/projects"
	studyview "mindflow/internal/ui/views/study"
	tasksview "mindflow/internal/ui/views/tasks"
)

// ─── ports ───────────────────────────────────────────────────────────────────
// Each port is the minimal interface that this orchestration layer requires.

type ContentPort interface {
	Snapshot() contentdto.Snapshot
	Subscribe() (<-chan struct{}, func())

	GenerateCourse(ctx context.Context, input contentdto.GenerateCourseInput) (contentdto.CourseResult, error)
	BulkGenerateCourses(ctx context.Context, input contentdto.BulkCoursesInput) (contentdto.BulkResult, error)
	ExpandTopic(ctx context.Context, input contentdto.ExpandTopicInput) (contentdto.CourseResult, error)
	ToggleSubtopic(ctx context.Context, courseID, subtopicID string) (contentdto.ToggleOutput, error)
	SelectCourse(ctx context.Context, courseID string) error
	DeleteCourse(ctx context.Context, courseID string) error
	CreateFolder(ctx context.Context, name string) (contentdto.FolderOutput, error)
	MoveCourse(ctx context.Context, courseID, folderID string) error

	GenerateArticle(ctx context.Context, input contentdto.ArticleInput) (contentdto.ArticleResult, error)
	DeleteArticle(ctx context.Context, articleID string) error

	GenerateProject(ctx context.Context, courseID, subtopicID string) (contentdto.ProjectResult, error)
	ToggleProjectStep(ctx context.Context, projectID, stepID string) (bool, error)
	DeleteProject(ctx context.Context, projectID string) error

	GeneratePlan(ctx context.Context, topic string, days int) (contentdto.PlanResult, error)

	AddHabit(ctx context.Context, input contentdto.HabitInput) (contentdto.HabitOutput, error)
	ToggleHabit(ctx context.Context, habitID, date string) (contentdto.HabitToggleOutput, error)
	DeleteHabit(ctx context.Context, habitID string) error

	DailyQuest(ctx context.Context) (contentdto.QuestOutput, error)
	CompleteQuest(ctx context.Context) (contentdto.XPOutput, error)
	ExportMarkdown(ctx context.Context, dir string) (contentdto.ExportMarkdownOutput, error)
}

type TaskPort interface {
	Board() taskdto.BoardOutput
	Minimize() error
	Restore(id string) (taskdto.TaskOutput, error)
	Cancel(id string) bool
	Dismiss(id string) error
	Subscribe() (<-chan struct{}, func())
}

type SessionPort interface {
	Open(ctx context.Context, input sessiondto.OpenInput) (sessiondto.SessionOutput, error)
	Reply(ctx context.Context, kind, message string) (sessiondto.SessionOutput, error)
	SubmitUnderstanding(ctx context.Context, answers []int) (sessiondto.UnderstandingOutput, error)
	Get(kind string) (sessiondto.SessionOutput, error)
	List() []sessiondto.SessionOutput
	Close(kind string) error
	Last(ctx context.Context) (sessiondto.SessionOutput, error)
	Subscribe() (<-chan struct{}, func())
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabCourses tabID = iota
	tabArticles
	tabProjects
	tabHabits
	tabTasks
	tabCount
)

var tabLabels = [tabCount]string{
	"Courses", "Articles", "Projects", "Habits", "Tasks",
}

// ─── async messages ───────────────────────────────────────────────────────────

// refreshMsg loads every view once at startup.
type refreshMsg struct{}

type contentChangedMsg struct{}

type tasksChangedMsg struct{}

type sessionsChangedMsg struct{}

// resultMsg reports the outcome of a background operation in the status bar.
type resultMsg struct {
	status string
	err    error
}

type sessionMsg struct {
	out  sessiondto.SessionOutput
	err  error
	show bool
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab      key.Binding
	Jump     key.Binding
	Help     key.Binding
	Palette  key.Binding
	Quit     key.Binding
	Enter    key.Binding
	Back     key.Binding
	Toggle   key.Binding
	Confirm  key.Binding
	Minimize key.Binding
	Cancel   key.Binding
	Study    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		Jump:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "jump to tab")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:     key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Toggle:   key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle done")),
		Confirm:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm delete")),
		Minimize: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "minimize task")),
		Cancel:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cancel task")),
		Study:    key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "close study session")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Jump, k.Enter, k.Back, k.Toggle},
		{k.Minimize, k.Cancel, k.Confirm, k.Study},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the task bar, the
// help overlay, the command palette and the study overlay. Views only render
// and emit messages; every change goes through the ports.
type Model struct {
	ctx context.Context
	now func() time.Time

	content  ContentPort
	tasks    TaskPort
	sessions SessionPort

	contentCh  <-chan struct{}
	tasksCh    <-chan struct{}
	sessionsCh <-chan struct{}
	unsubs     []func()

	courseView  coursesview.Model
	articleView articlesview.Model
	projectView projectsview.Model
	habitView   habitsview.Model
	taskView    tasksview.Model
	studyView   studyview.Model

	snapshot  contentdto.Snapshot
	board     taskdto.BoardOutput
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	pending   *confirmation
	status    string
	width     int
	height    int
}

// confirmation is a destructive action waiting for the y key.
type confirmation struct {
	prompt string
	run    tea.Cmd
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(ctx context.Context, content ContentPort, tasks TaskPort, sessions SessionPort, now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	m := Model{
		ctx:         ctx,
		now:         now,
		content:     content,
		tasks:       tasks,
		sessions:    sessions,
		courseView:  coursesview.New(),
		articleView: articlesview.New(),
		projectView: projectsview.New(),
		habitView:   habitsview.New(),
		taskView:    tasksview.New(),
		studyView:   studyview.New(),
		activeTab:   tabCourses,
		keys:        defaultKeys(),
		help:        help.New(),
		palette:     components.NewPalette(),
		status:      "ready",
	}
	var unsub func()
	m.contentCh, unsub = content.Subscribe()
	m.unsubs = append(m.unsubs, unsub)
	m.tasksCh, unsub = tasks.Subscribe()
	m.unsubs = append(m.unsubs, unsub)
	m.sessionsCh, unsub = sessions.Subscribe()
	m.unsubs = append(m.unsubs, unsub)
	return m
}

// Close drops the store, tracker and session subscriptions.
func (m Model) Close() {
	for _, unsub := range m.unsubs {
		unsub()
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return refreshMsg{} },
		wait(m.contentCh, contentChangedMsg{}),
		wait(m.tasksCh, tasksChangedMsg{}),
		wait(m.sessionsCh, sessionsChangedMsg{}),
		m.lastSessionCmd(),
	)
}

// wait turns one subscription signal into msg. A closed channel ends the loop.
func wait(ch <-chan struct{}, msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return msg
	}
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		if _, ok := msg.(tea.KeyMsg); ok {
			var cmd tea.Cmd
			m.palette, cmd = m.palette.Update(msg)
			return m, cmd
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.propagateSize()
		return m, nil

	case refreshMsg:
		m.board = m.tasks.Board()
		return m, tea.Batch(m.applySnapshot(), m.taskView.SetBoard(m.board, m.sessions.List()))

	case contentChangedMsg:
		return m, tea.Batch(m.applySnapshot(), wait(m.contentCh, contentChangedMsg{}))

	case tasksChangedMsg:
		m.board = m.tasks.Board()
		return m, tea.Batch(m.taskView.SetBoard(m.board, m.sessions.List()), wait(m.tasksCh, tasksChangedMsg{}))

	case sessionsChangedMsg:
		if m.studyView.Visible() {
			if out, err := m.sessions.Get(m.studyView.Kind()); err == nil {
				m.studyView.Refresh(out)
			} else {
				m.studyView.Hide()
			}
		}
		return m, tea.Batch(m.taskView.SetBoard(m.board, m.sessions.List()), wait(m.sessionsCh, sessionsChangedMsg{}))

	case resultMsg:
		switch {
		case msg.err != nil:
			m.status = msg.err.Error()
		case msg.status != "":
			m.status = msg.status
		}
		return m, nil

	case sessionMsg:
		if msg.err != nil {
			m.status = "study: " + msg.err.Error()
			return m, nil
		}
		if msg.show {
			m.status = fmt.Sprintf("study %s: %s", msg.out.Kind, msg.out.Subject)
			m.studyView.SetSize(m.width, m.contentHeight())
			return m, m.studyView.Show(msg.out)
		}
		m.studyView.Refresh(msg.out)
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case coursesview.ToggleLessonMsg:
		return m, m.toggleLessonCmd(msg.CourseID, msg.SubtopicID)
	case coursesview.SelectCourseMsg:
		return m, m.selectCourseCmd(msg.CourseID)
	case projectsview.ToggleStepMsg:
		return m, m.toggleStepCmd(msg.ProjectID, msg.StepID)
	case habitsview.ToggleHabitMsg:
		return m, m.toggleHabitCmd(msg.HabitID)
	case tasksview.TaskActionMsg:
		return m, m.taskActionCmd(msg.Action, msg.TaskID)
	case tasksview.ShowSessionMsg:
		out, err := m.sessions.Get(msg.Kind)
		return m, func() tea.Msg { return sessionMsg{out: out, err: err, show: true} }
	case studyview.ReplyMsg:
		return m, m.replyCmd(msg.Kind, msg.Message)
	case studyview.AnswersMsg:
		return m, m.answersCmd(msg.Answers)
	case studyview.CloseMsg:
		return m, m.closeSessionCmd(msg.Kind)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.studyView.Visible() {
			var cmd tea.Cmd
			m.studyView, cmd = m.studyView.Update(msg)
			return m, cmd
		}
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if m.pending != nil {
			p := m.pending
			m.pending = nil
			if msg.String() == "y" {
				m.status = "working…"
				return m, p.run
			}
			m.status = "cancelled"
			return m, nil
		}

		// Yield to sub-view when its search filter is active.
		if m.subViewFiltering() {
			break
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "1", "2", "3", "4", "5":
			m.activeTab = tabID(msg.String()[0] - '1')
			return m, nil
		case "?":
			m.showHelp = !m.showHelp
			return m, nil
		case ":":
			return m, m.palette.Open()
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabCourses:
		m.courseView, tabCmd = m.courseView.Update(msg)
	case tabArticles:
		m.articleView, tabCmd = m.articleView.Update(msg)
	case tabProjects:
		m.projectView, tabCmd = m.projectView.Update(msg)
	case tabHabits:
		m.habitView, tabCmd = m.habitView.Update(msg)
	case tabTasks:
		m.taskView, tabCmd = m.taskView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := m.height - lipgloss.Height(tabBar) - lipgloss.Height(statusBar)
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).
			Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH,
			lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.studyView.Visible():
		content = lipgloss.NewStyle().Height(contentH).Render(m.studyView.View())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabCourses:
		return m.courseView.View()
	case tabArticles:
		return m.articleView.View()
	case tabProjects:
		return m.projectView.View()
	case tabHabits:
		return m.habitView.View()
	case tabTasks:
		return m.taskView.View()
	}
	return ""
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := tabLabels[i]
		if i == tabTasks && m.taskCount() > 0 {
			label = fmt.Sprintf("%s (%d)", label, m.taskCount())
		}
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(" " + label + " ")
		} else {
			parts[i] = theme.Muted.Render(" " + label + " ")
		}
	}
	sep := theme.Muted.Render(" │ ")
	profile := m.snapshot.State.Profile
	right := theme.Level.Render(fmt.Sprintf("lvl %d · %d xp", profile.Level, profile.XP))
	bar := "mindflow  " + strings.Join(parts, sep)
	gap := m.width - lipgloss.Width(bar) - lipgloss.Width(right)
	if gap > 0 {
		bar += strings.Repeat(" ", gap) + right
	}
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.pending != nil {
		left = theme.Hot.Render(m.pending.prompt + " (y/n)")
	}
	if task := m.board.Active; task != nil {
		marker := "⟳"
		switch task.Status {
		case "done":
			marker = "✓"
		case "error":
			marker = "✗"
		}
		left = theme.Hot.Render(fmt.Sprintf("%s %s: %s", marker, task.Topic, task.Message)) + "  " + left
	}
	if n := len(m.board.Minimized); n > 0 {
		left += theme.Muted.Render(fmt.Sprintf("  +%d in background", n))
	}
	right := theme.Muted.Render("?:help  tab:switch  :::palette  q:quit")
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m Model) taskCount() int {
	n := len(m.board.Minimized)
	if m.board.Active != nil {
		n++
	}
	return n
}

// subViewFiltering reports whether the active tab's list filter is open,
// in which case global key bindings must yield to allow free typing.
func (m Model) subViewFiltering() bool {
	switch m.activeTab {
	case tabCourses:
		return m.courseView.Filtering()
	case tabArticles:
		return m.articleView.Filtering()
	case tabProjects:
		return m.projectView.Filtering()
	case tabHabits:
		return m.habitView.Filtering()
	case tabTasks:
		return m.taskView.Filtering()
	}
	return false
}

func (m Model) contentHeight() int {
	return max(m.height-3, 1)
}

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	m.courseView, _ = m.courseView.Update(sz)
	m.articleView, _ = m.articleView.Update(sz)
	m.projectView, _ = m.projectView.Update(sz)
	m.habitView, _ = m.habitView.Update(sz)
	m.taskView, _ = m.taskView.Update(sz)
	m.studyView.SetSize(m.width, m.contentHeight())
}

// applySnapshot pushes the current store state into every view.
func (m *Model) applySnapshot() tea.Cmd {
	m.snapshot = m.content.Snapshot()
	state := m.snapshot.State

	courseFolders := map[string]string{}
	articleFolders := map[string]string{}
	for _, f := range state.Folders {
		for _, id := range f.CourseIDs {
			courseFolders[id] = f.Name
		}
		for _, id := range f.ArticleIDs {
			articleFolders[id] = f.Name
		}
	}

	m.courseView.SetUpNext(m.snapshot.UpNext)

	now := m.now()
	quest := state.Quest
	if state.QuestDate != now.UTC().Format("2006-01-02") {
		quest = nil
	}
	return tea.Batch(
		m.courseView.SetCourses(state.Courses, courseFolders),
		m.articleView.SetArticles(state.Articles, articleFolders),
		m.projectView.SetProjects(state.Projects),
		m.habitView.SetProfile(state.Profile, quest, now),
	)
}
