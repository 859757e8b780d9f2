package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// NewProgram builds the full-screen program and attaches it to bridge so the
// controller's view calls reach it.
func NewProgram(ctx context.Context, ctrl Controller, bridge *Bridge) *tea.Program {
	p := tea.NewProgram(
		NewModel(ctx, ctrl),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	bridge.Attach(p)
	return p
}
