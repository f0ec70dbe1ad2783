package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the TUI. The single-letter controls
// apply while the composer is not focused.
type KeyMap struct {
	// Playback
	Start      key.Binding
	Pause      key.Binding
	Stop       key.Binding
	NewSession key.Binding

	// Replies
	Confirm key.Binding
	Reject  key.Binding

	// Action buttons
	Tasks    key.Binding
	Audience key.Binding

	// Composer
	Focus key.Binding
	Blur  key.Binding
	Send  key.Binding

	// Control
	Up    key.Binding
	Down  key.Binding
	CtrlC key.Binding
}

// DefaultKeyMap provides the default key bindings for the TUI.
var DefaultKeyMap = KeyMap{
	Start: key.NewBinding(
		key.WithKeys("1", "2", "3", "4"),
		key.WithHelp("1-4", "play scenario"),
	),
	Pause: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "pause/resume"),
	),
	Stop: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "stop"),
	),
	NewSession: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "new session"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "confirm audience"),
	),
	Reject: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "adjust audience"),
	),
	Tasks: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "push tasks"),
	),
	Audience: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "audience"),
	),
	Focus: key.NewBinding(
		key.WithKeys("tab", "i"),
		key.WithHelp("tab", "type a message"),
	),
	Blur: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "leave composer"),
	),
	Send: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "scroll up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "scroll down"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "exit"),
	),
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Pause, k.Stop, k.NewSession, k.Focus, k.CtrlC}
}

// FullHelp returns every binding grouped by concern.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Pause, k.Stop, k.NewSession},
		{k.Confirm, k.Reject, k.Tasks, k.Audience},
		{k.Focus, k.Blur, k.Send, k.Up, k.Down, k.CtrlC},
	}
}
