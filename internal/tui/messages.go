package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/berth-dev/playback/internal/assistant"
)

// ChangedMsg signals that the conversation, the signals or the playback
// state changed and the screen should be redrawn.
type ChangedMsg struct{}

// OpDoneMsg reports the outcome of an operation that ran off the UI loop.
type OpDoneMsg struct {
	Op  string
	Err error
}

// NavigateMsg is emitted when an action button asks to leave the chat.
type NavigateMsg struct {
	Target assistant.Navigation
}

// CtrlCResetMsg clears a pending Ctrl+C confirmation.
type CtrlCResetMsg struct{}

// WaitForChange returns a command that delivers ChangedMsg on the next
// notification from ch, or nothing once ch is closed.
func WaitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return ChangedMsg{}
	}
}
