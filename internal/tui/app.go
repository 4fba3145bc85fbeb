// Package tui implements the coedit session monitor: a read-only terminal
// dashboard that joins a session as a guest and mirrors participants,
// turn state, file versions, and the live event feed.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// App wraps the Bubbletea program.
type App struct {
	model Model
}

// New connects to the server and creates the monitor application.
func New(addr, sessionID string) (*App, error) {
	c, err := dialMonitor(addr, sessionID)
	if err != nil {
		return nil, err
	}
	return &App{model: NewModel(sessionID, c)}, nil
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a.model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
