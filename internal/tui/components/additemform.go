package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hy4ri/todolists-tui/internal/tui/styles"
)

// AddItemForm is a single input that submits a new item title. Empty
// titles are rejected; a disabled form ignores input.
type AddItemForm struct {
	OnSubmit func(title string)
	Disabled bool

	input textinput.Model
	err   string
	width int
}

// NewAddItemForm creates a form with a placeholder.
func NewAddItemForm(placeholder string, onSubmit func(string)) *AddItemForm {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 100
	ti.Prompt = "+ "
	return &AddItemForm{OnSubmit: onSubmit, input: ti}
}

// Submit reports the trimmed title and clears the input. It returns false
// when the form is disabled or the title is empty.
func (f *AddItemForm) Submit() bool {
	if f.Disabled {
		return false
	}

	title := strings.TrimSpace(f.input.Value())
	if title == "" {
		f.err = ErrTitleRequired
		return false
	}

	f.err = ""
	f.input.SetValue("")
	if f.OnSubmit != nil {
		f.OnSubmit(title)
	}
	return true
}

// Err returns the validation error of the last submit.
func (f *AddItemForm) Err() string {
	return f.err
}

// SetValue replaces the input text.
func (f *AddItemForm) SetValue(v string) {
	f.input.SetValue(v)
}

// Value returns the input text.
func (f *AddItemForm) Value() string {
	return f.input.Value()
}

// Reset clears the input and error.
func (f *AddItemForm) Reset() {
	f.input.SetValue("")
	f.err = ""
}

// Focus implements Focusable.
func (f *AddItemForm) Focus() {
	f.input.Focus()
}

// Blur implements Focusable.
func (f *AddItemForm) Blur() {
	f.input.Blur()
}

// Focused implements Focusable.
func (f *AddItemForm) Focused() bool {
	return f.input.Focused()
}

// Init implements Component.
func (f *AddItemForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements Component.
func (f *AddItemForm) Update(msg tea.Msg) (Component, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			if f.Submit() {
				return f, closedCmd(true)
			}
			return f, nil
		case "esc":
			f.Reset()
			return f, closedCmd(false)
		}
	}

	if f.Disabled {
		return f, nil
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	if f.err != "" && f.input.Value() != "" {
		f.err = ""
	}
	return f, cmd
}

// View implements Component.
func (f *AddItemForm) View() string {
	style := styles.Input
	if f.input.Focused() {
		style = styles.InputFocused
	}
	if f.Disabled {
		style = styles.InputDisabled
	}
	if f.width > 0 {
		style = style.Width(f.width - 2)
	}

	out := style.Render(f.input.View())
	if f.err != "" {
		out += "\n" + styles.InputError.Render(f.err)
	}
	return out
}

// SetSize implements Component.
func (f *AddItemForm) SetSize(width, height int) {
	f.width = width
	if width > 8 {
		f.input.Width = width - 8
	}
}

var _ Focusable = (*AddItemForm)(nil)
