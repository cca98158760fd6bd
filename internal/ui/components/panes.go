package components

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"mindflow/internal/ui/theme"
)

// NewList returns a filterable list styled for the tab views.
func NewList(title string) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 0, 0)
	l.Title = title
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	return l
}

func NewPreview() viewport.Model {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Background(theme.Mantle).
		Foreground(theme.Text).
		Padding(1)
	return vp
}

// SplitWidths divides width into a list column and a preview column.
func SplitWidths(width int) (int, int) {
	listW := width * 4 / 10
	return listW, width - listW
}

// Split renders a list on the left and a bordered preview on the right.
func Split(width, height int, left string, preview viewport.Model) string {
	listW, detailW := SplitWidths(width)
	listPane := lipgloss.NewStyle().
		Width(listW).
		Height(height).
		Render(left)

	detailPane := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Surface1).
		Background(theme.Mantle).
		Width(max(detailW-2, 1)).
		Height(max(height-2, 1)).
		Render(preview.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, detailPane)
}

// ResizeSplit sizes a list and its preview for Split.
func ResizeSplit(l *list.Model, preview *viewport.Model, width, height int) {
	listW, detailW := SplitWidths(width)
	l.SetSize(listW, height)
	preview.Width = max(detailW-4, 1)
	preview.Height = max(height-4, 1)
}

func Check(done bool) string {
	if done {
		return theme.Done.Render("✓")
	}
	return "·"
}
