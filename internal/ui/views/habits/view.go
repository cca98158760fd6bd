package habits

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	contentdomain "mindflow/internal/modules/content/domain"
	"mindflow/internal/ui/components"
	"mindflow/internal/ui/theme"
)

const dateLayout = "2006-01-02"

// ToggleHabitMsg asks the parent to toggle a habit for today.
type ToggleHabitMsg struct {
	HabitID string
}

type habitItem struct {
	habit  contentdomain.Habit
	today  string
	streak int
}

func (i habitItem) Title() string {
	return components.Check(i.habit.DoneOn(i.today)) + " " + i.habit.Title
}
func (i habitItem) Description() string {
	return fmt.Sprintf("%s  streak %d", i.habit.Goal, i.streak)
}
func (i habitItem) FilterValue() string { return i.habit.Title }

// Model lists habits with their streaks and the profile summary.
type Model struct {
	list    list.Model
	preview viewport.Model
	profile contentdomain.Profile
	quest   *contentdomain.DailyQuest
	width   int
	height  int
}

func New() Model {
	return Model{
		list:    components.NewList("Habits"),
		preview: components.NewPreview(),
	}
}

// SetProfile replaces the habits shown. now decides today and the streaks.
func (m *Model) SetProfile(profile contentdomain.Profile, quest *contentdomain.DailyQuest, now time.Time) tea.Cmd {
	m.profile = profile
	m.quest = quest
	today := now.UTC().Format(dateLayout)
	items := make([]list.Item, len(profile.Habits))
	for i, h := range profile.Habits {
		items[i] = habitItem{habit: h, today: today, streak: h.Streak(now)}
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
		if !m.Filtering() && (msg.String() == " " || msg.String() == "x") {
			if item, ok := m.list.SelectedItem().(habitItem); ok {
				id := item.habit.ID
				return m, func() tea.Msg { return ToggleHabitMsg{HabitID: id} }
			}
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

func (m Model) View() string {
	return components.Split(m.width, m.height, m.list.View(), m.preview)
}

func (m Model) SelectedID() (string, bool) {
	if item, ok := m.list.SelectedItem().(habitItem); ok {
		return item.habit.ID, true
	}
	return "", false
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) refresh() {
	var sb strings.Builder
	p := m.profile
	sb.WriteString(theme.Title.Render(p.Name) + "\n")
	sb.WriteString(fmt.Sprintf("level %d  %d/%d xp\n", p.Level, p.XP, contentdomain.RequiredXP(p.Level)))
	if len(p.Achievements) > 0 {
		sb.WriteString("\n" + theme.Hot.Render("Achievements") + "\n")
		for _, a := range contentdomain.Achievements {
			if p.HasAchievement(a.ID) {
				sb.WriteString("  ★ " + a.Title + "\n")
			}
		}
	}
	if m.quest != nil {
		sb.WriteString("\n" + theme.Hot.Render("Today's quest") + "\n")
		sb.WriteString(fmt.Sprintf("  %s %s (+%d xp)\n  %s\n", components.Check(m.quest.Completed), m.quest.Title, m.quest.XP, m.quest.Description))
	}

	if item, ok := m.list.SelectedItem().(habitItem); ok {
		sb.WriteString("\n" + theme.Title.Render(item.habit.Title) + "\n")
		days := make([]string, 0, len(item.habit.History))
		for day := range item.habit.History {
			days = append(days, day)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(days)))
		if len(days) > 7 {
			days = days[:7]
		}
		if len(days) > 0 {
			sb.WriteString(theme.Muted.Render("recent: ") + strings.Join(days, " ") + "\n")
		}
		sb.WriteString("\n" + theme.Muted.Render("space: toggle today"))
	} else {
		sb.WriteString("\n" + theme.Muted.Render("No habits yet. Press : and run habit:new <title>"))
	}
	m.preview.SetContent(sb.String())
}
