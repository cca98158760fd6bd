package study

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "mindflow/internal/modules/session/dto"
	"mindflow/internal/ui/theme"
)

// ─── messages ────────────────────────────────────────────────────────────────

// ReplyMsg carries a learner message for a conversational session.
type ReplyMsg struct {
	Kind    string
	Message string
}

// AnswersMsg carries zero-based option picks for an understanding check.
type AnswersMsg struct {
	Answers []int
}

// CloseMsg asks the parent to close the session of Kind.
type CloseMsg struct {
	Kind string
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the overlay that shows one study session.
type Model struct {
	session sessiondto.SessionOutput
	body    viewport.Model
	input   textinput.Model
	visible bool
	note    string
	width   int
	height  int
}

func New() Model {
	ti := textinput.New()
	ti.CharLimit = 2000
	vp := viewport.New(0, 0)
	return Model{input: ti, body: vp}
}

func (m Model) Visible() bool { return m.visible }

func (m Model) Kind() string { return string(m.session.Kind) }

// Show brings s to the front.
func (m *Model) Show(s sessiondto.SessionOutput) tea.Cmd {
	m.visible = true
	m.note = ""
	m.set(s)
	m.body.GotoBottom()
	if m.takesInput() {
		m.input.SetValue("")
		if m.session.Kind == "understanding" {
			m.input.Placeholder = "option numbers, e.g. 1 3"
		} else {
			m.input.Placeholder = "reply…"
		}
		return m.input.Focus()
	}
	m.input.Blur()
	return nil
}

// Refresh updates the shown session when s is the same kind.
func (m *Model) Refresh(s sessiondto.SessionOutput) {
	if s.Kind != m.session.Kind {
		return
	}
	m.set(s)
	m.body.GotoBottom()
}

// Hide removes the overlay; the session stays open.
func (m *Model) Hide() {
	m.visible = false
	m.input.Blur()
}

// Note shows a one-line result under the session, such as a quiz score.
func (m *Model) Note(text string) {
	m.note = text
	m.body.SetContent(m.render())
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.body.Width = max(width-4, 1)
	m.body.Height = max(height-6, 1)
	m.body.SetContent(m.render())
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			m.Hide()
			return m, nil
		case "ctrl+x":
			kind := string(m.session.Kind)
			m.Hide()
			return m, func() tea.Msg { return CloseMsg{Kind: kind} }
		case "enter":
			if m.takesInput() {
				return m, m.submit()
			}
		}
	}

	var cmds []tea.Cmd
	if m.takesInput() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	var vCmd tea.Cmd
	m.body, vCmd = m.body.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	header := theme.Title.Render(fmt.Sprintf("%s · %s", m.session.Kind, m.session.Subject))
	if m.session.Status == "loading" {
		header += theme.Muted.Render("  generating…")
	}
	parts := []string{header, m.body.View()}
	if m.takesInput() {
		parts = append(parts, "> "+m.input.View())
	}
	parts = append(parts, theme.Muted.Render("esc: hide  ctrl+x: close session  ↑/↓: scroll"))
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Peach).
		Background(theme.Mantle).
		Width(max(m.width-2, 1)).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// ─── private ─────────────────────────────────────────────────────────────────

func (m *Model) set(s sessiondto.SessionOutput) {
	m.session = s
	m.body.SetContent(m.render())
}

func (m Model) takesInput() bool {
	if m.session.Status != "ready" {
		return false
	}
	return m.session.Kind.Conversational() || m.session.Kind == "understanding"
}

func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return nil
	}
	m.input.SetValue("")
	kind := string(m.session.Kind)
	if m.session.Kind != "understanding" {
		return func() tea.Msg { return ReplyMsg{Kind: kind, Message: text} }
	}
	fields := strings.Fields(strings.ReplaceAll(text, ",", " "))
	answers := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 {
			m.Note("answers are option numbers starting at 1")
			return nil
		}
		answers = append(answers, n-1)
	}
	return func() tea.Msg { return AnswersMsg{Answers: answers} }
}

func (m Model) render() string {
	s := m.session
	width := max(m.body.Width-2, 20)
	wrap := lipgloss.NewStyle().Width(width)
	var sb strings.Builder
	if s.Error != "" {
		sb.WriteString(theme.Bad.Render(s.Error) + "\n")
	}
	if s.Text != "" {
		sb.WriteString(wrap.Render(s.Text) + "\n\n")
	}
	for _, item := range s.Items {
		sb.WriteString(wrap.Render("• "+item) + "\n")
	}
	for i, card := range s.Flashcards {
		sb.WriteString(fmt.Sprintf("%s %s\n   %s\n", theme.Hot.Render(strconv.Itoa(i+1)+"."), card.Question, theme.Muted.Render(card.Answer)))
	}
	for i, q := range s.Quiz {
		sb.WriteString(theme.Hot.Render(strconv.Itoa(i+1)+".") + " " + q.Question + "\n")
		for j, opt := range q.Options {
			sb.WriteString(fmt.Sprintf("   %d) %s\n", j+1, opt))
		}
	}
	for _, rec := range s.Recommendations {
		sb.WriteString("• " + theme.Title.Render(rec.Topic) + " " + rec.Reason + "\n")
	}
	if s.Practice != nil {
		for _, concept := range s.Practice.Concepts {
			sb.WriteString(theme.Title.Render(concept.Title) + "\n" + wrap.Render(concept.Description) + "\n")
			if concept.CodeExample != "" {
				sb.WriteString(theme.Muted.Render(concept.CodeExample) + "\n")
			}
			sb.WriteString("\n")
		}
		for i, q := range s.Practice.Quiz {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, q.Question))
		}
	}
	if s.MindMap != nil {
		sb.WriteString(theme.Title.Render(s.MindMap.Title) + "\n")
		for _, topic := range s.MindMap.Children {
			sb.WriteString("├─ " + topic.Title + "\n")
			for _, sub := range topic.Children {
				sb.WriteString("│  └─ " + sub.Title + "\n")
			}
		}
	}
	for _, msg := range s.Transcript {
		who := theme.Muted.Render("you")
		if msg.Role == "model" {
			who = theme.Title.Render("tutor")
		}
		sb.WriteString(who + "\n" + wrap.Render(msg.Content) + "\n\n")
	}
	if m.note != "" {
		sb.WriteString("\n" + theme.Hot.Render(m.note) + "\n")
	}
	return sb.String()
}
