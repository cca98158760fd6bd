package tasks

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	sessiondto "mindflow/internal/modules/session/dto"
	taskdto "mindflow/internal/modules/task/dto"
	"mindflow/internal/ui/components"
	"mindflow/internal/ui/theme"
)

type Action string

const (
	ActionMinimize Action = "minimize"
	ActionRestore  Action = "restore"
	ActionCancel   Action = "cancel"
	ActionDismiss  Action = "dismiss"
)

// TaskActionMsg asks the parent to apply an action to a task.
type TaskActionMsg struct {
	Action Action
	TaskID string
}

// ShowSessionMsg asks the parent to bring a study session to the front.
type ShowSessionMsg struct {
	Kind string
}

type taskItem struct {
	task   taskdto.TaskOutput
	active bool
}

func (i taskItem) Title() string {
	marker := "  "
	if i.active {
		marker = "▶ "
	}
	return marker + i.task.Topic
}
func (i taskItem) Description() string {
	return fmt.Sprintf("%s  %s  %s", i.task.Type, i.task.Status, i.task.Message)
}
func (i taskItem) FilterValue() string { return i.task.Topic }

type sessionItem struct{ session sessiondto.SessionOutput }

func (i sessionItem) Title() string { return "◆ " + i.session.Subject }
func (i sessionItem) Description() string {
	return fmt.Sprintf("study %s  %s", i.session.Kind, i.session.Status)
}
func (i sessionItem) FilterValue() string { return i.session.Subject }

// Model shows background generation tasks and open study sessions.
type Model struct {
	list    list.Model
	preview viewport.Model
	width   int
	height  int
}

func New() Model {
	return Model{
		list:    components.NewList("Tasks"),
		preview: components.NewPreview(),
	}
}

func (m *Model) SetBoard(board taskdto.BoardOutput, sessions []sessiondto.SessionOutput) tea.Cmd {
	var items []list.Item
	if board.Active != nil {
		items = append(items, taskItem{task: *board.Active, active: true})
	}
	for _, t := range board.Minimized {
		items = append(items, taskItem{task: t})
	}
	for _, s := range sessions {
		items = append(items, sessionItem{session: s})
	}
	cmd := m.list.SetItems(items)
	m.refresh()
	return cmd
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		components.ResizeSplit(&m.list, &m.preview, m.width, m.height)
		m.refresh()
	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		if cmd := m.keyAction(msg.String()); cmd != nil {
			return m, cmd
		}
	}

	prev := m.list.Index()
	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	if m.list.Index() != prev {
		m.refresh()
	}
	return m, tea.Batch(cmds...)
}

func (m Model) keyAction(key string) tea.Cmd {
	switch item := m.list.SelectedItem().(type) {
	case taskItem:
		var action Action
		switch key {
		case "m":
			action = ActionMinimize
		case "r", "enter":
			action = ActionRestore
		case "c":
			action = ActionCancel
		case "x", "d":
			action = ActionDismiss
		default:
			return nil
		}
		id := item.task.ID
		return func() tea.Msg { return TaskActionMsg{Action: action, TaskID: id} }
	case sessionItem:
		if key == "enter" {
			kind := string(item.session.Kind)
			return func() tea.Msg { return ShowSessionMsg{Kind: kind} }
		}
	}
	return nil
}

func (m Model) View() string {
	return components.Split(m.width, m.height, m.list.View(), m.preview)
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) refresh() {
	var sb strings.Builder
	switch item := m.list.SelectedItem().(type) {
	case taskItem:
		t := item.task
		sb.WriteString(theme.Title.Render(t.Topic) + "\n\n")
		sb.WriteString(theme.Muted.Render("type:    ") + t.Type + "\n")
		sb.WriteString(theme.Muted.Render("status:  ") + t.Status + "\n")
		sb.WriteString(theme.Muted.Render("message: ") + t.Message + "\n")
		sb.WriteString(theme.Muted.Render("started: ") + t.StartedAt.Format(time.Kitchen) + "\n")
		if !t.FinishedAt.IsZero() {
			sb.WriteString(theme.Muted.Render("done:    ") + t.FinishedAt.Format(time.Kitchen) + "\n")
		}
		sb.WriteString("\n" + theme.Muted.Render("m: minimize  r: restore  c: cancel  x: dismiss"))
	case sessionItem:
		s := item.session
		sb.WriteString(theme.Title.Render(s.Subject) + "\n\n")
		sb.WriteString(theme.Muted.Render("kind:    ") + string(s.Kind) + "\n")
		sb.WriteString(theme.Muted.Render("status:  ") + string(s.Status) + "\n")
		if s.Error != "" {
			sb.WriteString(theme.Bad.Render(s.Error) + "\n")
		}
		sb.WriteString("\n" + theme.Muted.Render("enter: open"))
	default:
		sb.WriteString(theme.Muted.Render("Nothing running. Generations and study sessions show up here."))
	}
	m.preview.SetContent(sb.String())
}
