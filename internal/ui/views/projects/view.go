package projects

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	contentdomain "mindflow/internal/modules/content/domain"
	"mindflow/internal/ui/components"
	"mindflow/internal/ui/theme"
)

// ToggleStepMsg asks the parent to toggle a project step.
type ToggleStepMsg struct {
	ProjectID string
	StepID    string
}

type projectItem struct{ project contentdomain.Project }

func (i projectItem) Title() string { return i.project.Title }
func (i projectItem) Description() string {
	desc := fmt.Sprintf("%d/%d steps", i.project.Progress.Len(), len(i.project.Steps))
	if i.project.Course != nil {
		desc += "  ▸ " + i.project.Course.Title
	}
	return desc
}
func (i projectItem) FilterValue() string { return i.project.Title }

type stepItem struct {
	step contentdomain.ProjectStep
	done bool
}

func (i stepItem) Title() string       { return components.Check(i.done) + " " + i.step.Title }
func (i stepItem) Description() string { return i.step.Description }
func (i stepItem) FilterValue() string { return i.step.Title }

// Model lists projects; enter opens the steps of the selected one.
type Model struct {
	projects  list.Model
	steps     list.Model
	preview   viewport.Model
	all       []contentdomain.Project
	projectID string
	inSteps   bool
	width     int
	height    int
}

func New() Model {
	return Model{
		projects: components.NewList("Projects"),
		steps:    components.NewList("Steps"),
		preview:  components.NewPreview(),
	}
}

func (m *Model) SetProjects(projects []contentdomain.Project) tea.Cmd {
	m.all = projects
	items := make([]list.Item, len(projects))
	for i, p := range projects {
		items[i] = projectItem{project: p}
	}
	cmds := []tea.Cmd{m.projects.SetItems(items)}
	if m.inSteps {
		if p, ok := m.project(); ok {
			cmds = append(cmds, m.loadSteps(p))
		} else {
			m.inSteps = false
		}
	}
	m.refresh()
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		components.ResizeSplit(&m.projects, &m.preview, m.width, m.height)
		components.ResizeSplit(&m.steps, &m.preview, m.width, m.height)
		m.refresh()

	case tea.KeyMsg:
		if m.Filtering() {
			break
		}
		switch msg.String() {
		case "enter":
			if !m.inSteps {
				if item, ok := m.projects.SelectedItem().(projectItem); ok {
					m.inSteps = true
					m.projectID = item.project.ID
					m.steps.ResetSelected()
					cmd := m.loadSteps(item.project)
					m.refresh()
					return m, cmd
				}
			}
		case "esc", "backspace":
			if m.inSteps {
				m.inSteps = false
				m.refresh()
				return m, nil
			}
		case " ", "x":
			if m.inSteps {
				if item, ok := m.steps.SelectedItem().(stepItem); ok {
					projectID, stepID := m.projectID, item.step.ID
					return m, func() tea.Msg { return ToggleStepMsg{ProjectID: projectID, StepID: stepID} }
				}
			}
		}
	}

	active := &m.projects
	if m.inSteps {
		active = &m.steps
	}
	prev := active.Index()
	var lCmd tea.Cmd
	*active, lCmd = active.Update(msg)
	cmds = append(cmds, lCmd)
	if active.Index() != prev {
		m.refresh()
	}

	var vCmd tea.Cmd
	m.preview, vCmd = m.preview.Update(msg)
	cmds = append(cmds, vCmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	left := m.projects.View()
	if m.inSteps {
		left = m.steps.View()
	}
	return components.Split(m.width, m.height, left, m.preview)
}

func (m Model) SelectedID() (string, bool) {
	if m.inSteps {
		return m.projectID, m.projectID != ""
	}
	if item, ok := m.projects.SelectedItem().(projectItem); ok {
		return item.project.ID, true
	}
	return "", false
}

func (m Model) Filtering() bool {
	if m.inSteps {
		return m.steps.FilterState() == list.Filtering
	}
	return m.projects.FilterState() == list.Filtering
}

func (m Model) project() (contentdomain.Project, bool) {
	for _, p := range m.all {
		if p.ID == m.projectID {
			return p, true
		}
	}
	return contentdomain.Project{}, false
}

func (m *Model) loadSteps(p contentdomain.Project) tea.Cmd {
	m.steps.Title = p.Title
	items := make([]list.Item, len(p.Steps))
	for i, step := range p.Steps {
		items[i] = stepItem{step: step, done: p.Progress.Has(step.ID)}
	}
	return m.steps.SetItems(items)
}

func (m *Model) refresh() {
	if m.inSteps {
		if item, ok := m.steps.SelectedItem().(stepItem); ok {
			var sb strings.Builder
			sb.WriteString(theme.Title.Render(item.step.Title) + "  " + components.Check(item.done) + "\n\n")
			sb.WriteString(item.step.Description + "\n\n")
			if item.step.Challenge != "" {
				sb.WriteString(theme.Hot.Render("Challenge") + "\n" + item.step.Challenge + "\n\n")
			}
			if item.step.CodeStub != "" {
				sb.WriteString(theme.Code.Render(item.step.CodeStub) + "\n")
			}
			sb.WriteString("\n" + theme.Muted.Render("space: toggle step  esc: back"))
			m.preview.SetContent(sb.String())
			return
		}
	}
	item, ok := m.projects.SelectedItem().(projectItem)
	if !ok {
		m.preview.SetContent(theme.Muted.Render("No projects yet. Open a lesson and run project:new"))
		return
	}
	p := item.project
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(p.Title) + "\n\n" + p.Description + "\n\n")
	for _, step := range p.Steps {
		sb.WriteString(fmt.Sprintf("  %s %s\n", components.Check(p.Progress.Has(step.ID)), step.Title))
	}
	sb.WriteString("\n" + theme.Muted.Render("enter: steps"))
	m.preview.SetContent(sb.String())
}
