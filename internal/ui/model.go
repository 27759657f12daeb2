// ABOUTME: Bubbletea model for the voice pool monitor
// ABOUTME: Defines monitor state, key handling and rendering
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Resonate-Protocol/voicepool-go/pkg/voice"
)

// Model represents the TUI state
type Model struct {
	// Pool
	stats voice.Stats
	slots []voice.SlotInfo

	// Events
	lastEvent *voice.Event
	events    int

	// Loader
	loaded  int
	toLoad  int
	loadErr string

	// Display
	showSlots bool
	width     int
	height    int

	controls *Controls
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case SnapshotMsg:
		m.stats = msg.Stats
		m.slots = msg.Slots
	case EventMsg:
		e := voice.Event(msg)
		m.lastEvent = &e
		m.events++
	case LoadMsg:
		m.loaded = msg.Completed
		m.toLoad = msg.Total
		if msg.Err != nil {
			m.loadErr = msg.Err.Error()
		}
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderLoader()
	s += m.renderGrid()
	s += m.renderStats()

	if m.showSlots {
		s += m.renderSlots()
	}

	s += m.renderHelp()

	return s
}

// renderHeader renders pool occupancy
func (m Model) renderHeader() string {
	usage := fmt.Sprintf("%d/%d sources in use", m.stats.Active, m.stats.Size)
	bar := renderBar(m.stats.Active, m.stats.Size, 20)

	return fmt.Sprintf(`┌─ Voice Pool ─────────────────────────────────────────┐
│ Usage:  [%s] %-23s │
├──────────────────────────────────────────────────────┤
`, bar, usage)
}

// renderLoader renders clip loading progress until everything is loaded
func (m Model) renderLoader() string {
	switch {
	case m.loadErr != "":
		return fmt.Sprintf("│ Load failed: %-39s │\n", truncate(m.loadErr, 39))
	case m.toLoad > 0 && m.loaded < m.toLoad:
		return fmt.Sprintf("│ Loading clips: %d/%d%-30s │\n", m.loaded, m.toLoad, "")
	default:
		return ""
	}
}

// renderGrid renders one glyph per slot
func (m Model) renderGrid() string {
	if len(m.slots) == 0 {
		return "│ No voices                                            │\n"
	}

	const perRow = 48
	var b strings.Builder
	for start := 0; start < len(m.slots); start += perRow {
		end := min(start+perRow, len(m.slots))
		row := ""
		for _, slot := range m.slots[start:end] {
			row += slotGlyph(slot)
		}
		fmt.Fprintf(&b, "│ %s%s │\n", row, strings.Repeat(" ", 52-(end-start)))
	}
	return b.String()
}

// renderStats renders lifetime counters and the last event
func (m Model) renderStats() string {
	last := "(none)"
	if m.lastEvent != nil {
		last = fmt.Sprintf("%s at %s", m.lastEvent.Name, m.lastEvent.Position)
	}

	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ Plays: %d  Paused: %d  Reclaimed: %d  Exhausted: %d%-4s │
│ Last:  %-45s │
`, m.stats.Plays, m.stats.Paused, m.stats.Reclaimed, m.stats.Exhausted, "", truncate(last, 45))
}

// renderSlots lists every leased slot
func (m Model) renderSlots() string {
	s := "│ SLOTS:                                               │\n"
	for _, slot := range m.slots {
		if !slot.Active {
			continue
		}
		state := "playing"
		if slot.Paused {
			state = "paused"
		} else if !slot.Playing {
			state = "finished"
		}
		line := fmt.Sprintf("%3d %-16s %-8s vol %.2f", slot.Index, truncate(slot.Name, 16), state, slot.Volume)
		s += fmt.Sprintf("│   %-50s │\n", line)
	}
	return s
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ p:Play spc:Pause +/-:Gain s:Stop l:Slots q:Quit      │
└──────────────────────────────────────────────────────┘
`
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.controls.send(CommandQuit)
		return m, tea.Quit
	case "p":
		m.controls.send(CommandPlay)
	case "s":
		m.controls.send(CommandStopAll)
	case " ":
		m.controls.send(CommandTogglePause)
	case "+", "=", "up":
		m.controls.send(CommandGainUp)
	case "-", "down":
		m.controls.send(CommandGainDown)
	case "l":
		m.showSlots = !m.showSlots
	}

	return m, nil
}

// SnapshotMsg refreshes pool state
type SnapshotMsg struct {
	Stats voice.Stats
	Slots []voice.SlotInfo
}

// EventMsg reports an audio event
type EventMsg voice.Event

// LoadMsg reports clip loading progress
type LoadMsg struct {
	Completed int
	Total     int
	Err       error
}

// Utility functions
func slotGlyph(slot voice.SlotInfo) string {
	switch {
	case !slot.Active:
		return "·"
	case slot.Paused:
		return "‖"
	case slot.Playing:
		return "▶"
	default:
		return "□"
	}
}

func renderBar(value, max, width int) string {
	filled := 0
	if max > 0 {
		filled = (value * width) / max
	}
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
