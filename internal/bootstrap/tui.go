package bootstrap

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	uiapp "mindflow/internal/ui/app"
)

func RunTUI(ctx context.Context, app *App) error {
	model := uiapp.NewModel(ctx, app.ContentCLI, app.TaskCLI, app.SessionCLI, app.Clock.Now)
	defer model.Close()
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
