package articles

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	contentdomain "mindflow/internal/modules/content/domain"
	"mindflow/internal/ui/components"
	"mindflow/internal/ui/theme"
)

type articleItem struct {
	article contentdomain.Article
	folder  string
}

func (i articleItem) Title() string { return i.article.Title }
func (i articleItem) Description() string {
	if i.folder != "" {
		return i.article.Subtitle + "  ▸ " + i.folder
	}
	return i.article.Subtitle
}
func (i articleItem) FilterValue() string { return i.article.Title }

// Model lists articles with a scrollable reader for the selected one.
type Model struct {
	list    list.Model
	reader  viewport.Model
	width   int
	height  int
	shownID string
}

func New() Model {
	return Model{
		list:   components.NewList("Articles"),
		reader: components.NewPreview(),
	}
}

// SetArticles replaces the listed articles. folders maps article id to folder name.
func (m *Model) SetArticles(articles []contentdomain.Article, folders map[string]string) tea.Cmd {
	items := make([]list.Item, len(articles))
	for i, a := range articles {
		items[i] = articleItem{article: a, folder: folders[a.ID]}
	}
	cmd := m.list.SetItems(items)
	m.refresh(false)
	return cmd
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd

	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		components.ResizeSplit(&m.list, &m.reader, m.width, m.height)
		m.refresh(false)
	}

	prev := m.list.Index()
	var lCmd tea.Cmd
	m.list, lCmd = m.list.Update(msg)
	cmds = append(cmds, lCmd)
	if m.list.Index() != prev {
		m.refresh(true)
	}

	var vCmd tea.Cmd
	m.reader, vCmd = m.reader.Update(msg)
	cmds = append(cmds, vCmd)

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	return components.Split(m.width, m.height, m.list.View(), m.reader)
}

func (m Model) SelectedID() (string, bool) {
	if item, ok := m.list.SelectedItem().(articleItem); ok {
		return item.article.ID, true
	}
	return "", false
}

func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m *Model) refresh(top bool) {
	item, ok := m.list.SelectedItem().(articleItem)
	if !ok {
		m.shownID = ""
		m.reader.SetContent(theme.Muted.Render("No articles yet. Press : and run article:new <topic>"))
		return
	}
	m.reader.SetContent(render(item.article, m.reader.Width))
	if top || item.article.ID != m.shownID {
		m.reader.GotoTop()
	}
	m.shownID = item.article.ID
}

func render(a contentdomain.Article, width int) string {
	var sb strings.Builder
	sb.WriteString(theme.Title.Render(a.Title) + "\n")
	if a.Subtitle != "" {
		sb.WriteString(theme.Muted.Render(a.Subtitle) + "\n")
	}
	if a.Course != nil {
		sb.WriteString(theme.Muted.Render("from course: "+a.Course.Title) + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Width(max(width-2, 20)).Render(a.Body))
	return sb.String()
}
