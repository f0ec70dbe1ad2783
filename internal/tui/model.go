// Package tui implements the terminal user interface using Bubble Tea.
package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/berth-dev/playback/internal/assistant"
	"github.com/berth-dev/playback/internal/config"
)

// Model holds the UI state shared by the views. The conversation itself
// lives in the Assistant; the model only keeps what the terminal needs.
type Model struct {
	Assistant *assistant.Assistant
	Cfg       *config.Config

	// Bubbles components
	Composer textinput.Model
	Viewport viewport.Model
	Spinner  spinner.Model

	// Composing is true while the operator is typing into the composer.
	Composing bool
	// Busy counts operations still running off the UI loop.
	Busy int
	// Status is a one-line notice shown above the key help.
	Status string
	// LastNav is the most recent navigation requested by an action button.
	LastNav assistant.Navigation

	// Terminal dimensions
	Width  int
	Height int

	// Ctrl+C confirmation state
	CtrlCPending bool // True when waiting for second Ctrl+C press
}

// NewModel creates a new Model for a.
func NewModel(a *assistant.Assistant, cfg *config.Config) *Model {
	ti := textinput.New()
	ti.Placeholder = "输入需求，或按 1-4 播放演示场景"
	ti.CharLimit = 500
	ti.Width = 70

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(primaryColor))

	vp := viewport.New(80, 20)

	return &Model{
		Assistant: a,
		Cfg:       cfg,
		Composer:  ti,
		Viewport:  vp,
		Spinner:   sp,

		// Default dimensions (will be updated on WindowSizeMsg)
		Width:  80,
		Height: 24,
	}
}

// ContentWidth is the usable width inside the outer box.
func (m *Model) ContentWidth() int {
	w := m.Width - 4
	if w < 20 {
		w = 20
	}
	return w
}
