package ui

import (
	"context"

	"alcyxob/fitness-testkit/internal/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Run shows the settings screen until the user quits.
func Run(ctx context.Context, controller *theme.Controller) error {
	app := NewApp(ctx, controller, Options{SystemDark: lipgloss.HasDarkBackground()})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
