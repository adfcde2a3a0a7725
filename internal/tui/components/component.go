// Package components provides the input primitives of the todo lists TUI:
// an editable span, an add-item form, the login form, a progress bar and the
// help overlay.
package components

import tea "github.com/charmbracelet/bubbletea"

// Component is a sub-model embedded in the App. Update returns the
// component itself so callers can keep their concrete pointer.
type Component interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Component, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Focusable is a component holding keyboard focus while it is open.
type Focusable interface {
	Component
	Focus()
	Blur()
	Focused() bool
}

var (
	_ Component = (*EditableSpan)(nil)
	_ Component = (*LoginForm)(nil)
	_ Component = (*HelpModel)(nil)
	_ Focusable = (*AddItemForm)(nil)
)
