package components

import tea "github.com/charmbracelet/bubbletea"

// HelpClosedMsg is emitted when the help overlay is dismissed.
type HelpClosedMsg struct{}

// InputClosedMsg is emitted when an input component leaves edit mode,
// whether it committed or was cancelled.
type InputClosedMsg struct {
	Committed bool
}

func closedCmd(committed bool) tea.Cmd {
	return func() tea.Msg { return InputClosedMsg{Committed: committed} }
}
