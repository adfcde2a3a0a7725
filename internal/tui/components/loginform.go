package components

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hy4ri/todolists-tui/internal/tui/styles"
)

var emailPattern = regexp.MustCompile(`^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,4}$`)

// Login form validation messages.
const (
	ErrEmailRequired    = "Email is required"
	ErrEmailInvalid     = "Invalid email address"
	ErrPasswordRequired = "Password is required"
)

// LoginSubmitMsg carries valid credentials from the login form.
type LoginSubmitMsg struct {
	Email    string
	Password string
	Remember bool
}

const (
	fieldEmail = iota
	fieldPassword
	fieldRemember
	fieldCount
)

// LoginForm collects email, password and the remember flag.
type LoginForm struct {
	email    textinput.Model
	password textinput.Model
	remember bool

	focus    int
	errors   map[int]string
	Disabled bool
	width    int
}

// NewLoginForm creates an empty form focused on the email field.
func NewLoginForm() *LoginForm {
	email := textinput.New()
	email.Placeholder = "Email"
	email.CharLimit = 100
	email.Focus()

	password := textinput.New()
	password.Placeholder = "Password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 100

	return &LoginForm{email: email, password: password, errors: map[int]string{}}
}

// ValidateLogin checks the credentials and returns the error per field.
func ValidateLogin(email, password string) (emailErr, passwordErr string) {
	email = strings.TrimSpace(email)
	switch {
	case email == "":
		emailErr = ErrEmailRequired
	case !emailPattern.MatchString(strings.ToUpper(email)):
		emailErr = ErrEmailInvalid
	}
	if password == "" {
		passwordErr = ErrPasswordRequired
	}
	return emailErr, passwordErr
}

// Submit validates the form and returns the submit message when valid.
func (f *LoginForm) Submit() (LoginSubmitMsg, bool) {
	emailErr, passwordErr := ValidateLogin(f.email.Value(), f.password.Value())
	f.errors = map[int]string{}
	if emailErr != "" {
		f.errors[fieldEmail] = emailErr
	}
	if passwordErr != "" {
		f.errors[fieldPassword] = passwordErr
	}
	if len(f.errors) > 0 {
		return LoginSubmitMsg{}, false
	}
	return LoginSubmitMsg{
		Email:    strings.TrimSpace(f.email.Value()),
		Password: f.password.Value(),
		Remember: f.remember,
	}, true
}

// SetValues fills the form, as when restoring remembered credentials.
func (f *LoginForm) SetValues(email, password string, remember bool) {
	f.email.SetValue(email)
	f.password.SetValue(password)
	f.remember = remember
}

// ClearPassword empties the password after a failed login.
func (f *LoginForm) ClearPassword() {
	f.password.SetValue("")
}

// Errors returns the validation error per field name.
func (f *LoginForm) Errors() (email, password string) {
	return f.errors[fieldEmail], f.errors[fieldPassword]
}

// Remember reports whether the remember checkbox is set.
func (f *LoginForm) Remember() bool {
	return f.remember
}

func (f *LoginForm) setFocus(i int) {
	f.focus = (i + fieldCount) % fieldCount
	f.email.Blur()
	f.password.Blur()
	switch f.focus {
	case fieldEmail:
		f.email.Focus()
	case fieldPassword:
		f.password.Focus()
	}
}

// Init implements Component.
func (f *LoginForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements Component.
func (f *LoginForm) Update(msg tea.Msg) (Component, tea.Cmd) {
	if f.Disabled {
		return f, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "down":
			f.setFocus(f.focus + 1)
			return f, nil
		case "shift+tab", "up":
			f.setFocus(f.focus - 1)
			return f, nil
		case " ":
			if f.focus == fieldRemember {
				f.remember = !f.remember
				return f, nil
			}
		case "enter":
			if f.focus == fieldRemember {
				f.remember = !f.remember
				return f, nil
			}
			if submit, ok := f.Submit(); ok {
				return f, func() tea.Msg { return submit }
			}
			return f, nil
		}
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldEmail:
		f.email, cmd = f.email.Update(msg)
	case fieldPassword:
		f.password, cmd = f.password.Update(msg)
	}
	return f, cmd
}

// View implements Component.
func (f *LoginForm) View() string {
	field := func(i int, label string, in textinput.Model) string {
		style := styles.Input
		if f.focus == i {
			style = styles.InputFocused
		}
		if f.Disabled {
			style = styles.InputDisabled
		}
		if f.width > 0 {
			style = style.Width(f.width)
		}
		out := styles.InputLabel.Render(label) + "\n" + style.Render(in.View())
		if err := f.errors[i]; err != "" {
			out += "\n" + styles.InputError.Render(err)
		}
		return out
	}

	box := styles.CheckboxUnchecked
	if f.remember {
		box = styles.CheckboxChecked
	}
	remember := box + " Remember me"
	if f.focus == fieldRemember {
		remember = styles.HelpKey.Render(remember)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		field(fieldEmail, "Email", f.email),
		field(fieldPassword, "Password", f.password),
		"",
		remember,
	)
}

// SetSize implements Component.
func (f *LoginForm) SetSize(width, height int) {
	f.width = width
	if width > 4 {
		f.email.Width = width - 4
		f.password.Width = width - 4
	}
}
