package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hy4ri/todolists-tui/internal/tui/styles"
	"github.com/hy4ri/todolists-tui/internal/tui/utils"
)

// ErrTitleRequired is shown when an empty value is committed where one is
// required.
const ErrTitleRequired = "Title is required"

// EditableSpan shows a value and switches to a text input on Edit.
// Committing calls OnChange with the new value unless it is unchanged.
type EditableSpan struct {
	Value      string
	OnChange   func(value string)
	AllowEmpty bool
	// Validate, when set, returns a message for values that cannot be
	// committed.
	Validate func(value string) string

	input   textinput.Model
	editing bool
	err     string
	width   int
}

// NewEditableSpan creates a span in view mode.
func NewEditableSpan(value string, onChange func(string)) *EditableSpan {
	ti := textinput.New()
	ti.CharLimit = 100
	ti.Prompt = ""
	return &EditableSpan{Value: value, OnChange: onChange, input: ti}
}

// Edit switches to edit mode with the current value.
func (e *EditableSpan) Edit() tea.Cmd {
	e.editing = true
	e.err = ""
	e.input.SetValue(e.Value)
	e.input.CursorEnd()
	return e.input.Focus()
}

// Editing reports whether the span is in edit mode.
func (e *EditableSpan) Editing() bool {
	return e.editing
}

// Err returns the validation error of the last commit.
func (e *EditableSpan) Err() string {
	return e.err
}

// Commit leaves edit mode and reports the value. It stays in edit mode when
// the value is empty and empty values are not allowed.
func (e *EditableSpan) Commit() bool {
	value := strings.TrimSpace(e.input.Value())
	if value == "" && !e.AllowEmpty {
		e.err = ErrTitleRequired
		return false
	}
	if e.Validate != nil {
		if msg := e.Validate(value); msg != "" {
			e.err = msg
			return false
		}
	}

	e.editing = false
	e.err = ""
	e.input.Blur()
	if value != e.Value {
		e.Value = value
		if e.OnChange != nil {
			e.OnChange(value)
		}
	}
	return true
}

// Cancel leaves edit mode without reporting.
func (e *EditableSpan) Cancel() {
	e.editing = false
	e.err = ""
	e.input.Blur()
}

// Init implements Component.
func (e *EditableSpan) Init() tea.Cmd {
	return nil
}

// Update implements Component.
func (e *EditableSpan) Update(msg tea.Msg) (Component, tea.Cmd) {
	if !e.editing {
		return e, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			if e.Commit() {
				return e, closedCmd(true)
			}
			return e, nil
		case "esc":
			e.Cancel()
			return e, closedCmd(false)
		}
	}

	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	if e.err != "" && e.input.Value() != "" {
		e.err = ""
	}
	return e, cmd
}

// View implements Component.
func (e *EditableSpan) View() string {
	if !e.editing {
		if e.width > 0 {
			return utils.TruncateString(e.Value, e.width)
		}
		return e.Value
	}

	out := styles.InputFocused.Render(e.input.View())
	if e.err != "" {
		out += "\n" + styles.InputError.Render(e.err)
	}
	return out
}

// SetSize implements Component.
func (e *EditableSpan) SetSize(width, height int) {
	e.width = width
	if width > 4 {
		e.input.Width = width - 4
	}
}
