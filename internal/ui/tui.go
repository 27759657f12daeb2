// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program and the command channel back to the demo
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Command is a user request from the monitor
type Command int

const (
	CommandPlay Command = iota
	CommandStopAll
	CommandTogglePause
	CommandGainUp
	CommandGainDown
	CommandQuit
)

// Controls carries commands from the TUI to the application
type Controls struct {
	Commands chan Command
}

// NewControls creates a new command handler
func NewControls() *Controls {
	return &Controls{
		Commands: make(chan Command, 10),
	}
}

// send never blocks the UI; commands are dropped if nobody is listening
func (c *Controls) send(cmd Command) {
	if c == nil {
		return
	}
	select {
	case c.Commands <- cmd:
	default:
	}
}

// NewModel creates a new TUI model
func NewModel(controls *Controls) Model {
	return Model{
		controls: controls,
	}
}

// Run creates the TUI program; the caller runs it
func Run(controls *Controls) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(controls), tea.WithAltScreen())
	return p, nil
}
