package components

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hy4ri/todolists-tui/internal/view"
)

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	space = tea.KeyMsg{Type: tea.KeySpace}
)

func typeText(c Component, s string) {
	for _, r := range s {
		c.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func msgOf(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	return cmd()
}

func TestEditableSpanCommit(t *testing.T) {
	var got []string
	span := NewEditableSpan("Milk", func(v string) { got = append(got, v) })

	span.Edit()
	if !span.Editing() {
		t.Fatal("expected edit mode")
	}
	span.input.SetValue("Oat milk")

	_, cmd := span.Update(enter)
	if msg, ok := msgOf(t, cmd).(InputClosedMsg); !ok || !msg.Committed {
		t.Errorf("expected committed close, got %#v", msg)
	}
	if span.Editing() {
		t.Error("expected view mode after commit")
	}
	if len(got) != 1 || got[0] != "Oat milk" {
		t.Errorf("expected one change to %q, got %v", "Oat milk", got)
	}
	if span.View() != "Oat milk" {
		t.Errorf("unexpected view %q", span.View())
	}
}

func TestEditableSpanUnchangedValue(t *testing.T) {
	calls := 0
	span := NewEditableSpan("Milk", func(string) { calls++ })

	span.Edit()
	span.Update(enter)

	if calls != 0 {
		t.Errorf("expected no change for an unchanged value, got %d", calls)
	}
}

func TestEditableSpanRejectsEmpty(t *testing.T) {
	calls := 0
	span := NewEditableSpan("Milk", func(string) { calls++ })

	span.Edit()
	span.input.SetValue("   ")
	span.Update(enter)

	if !span.Editing() {
		t.Error("expected to stay in edit mode")
	}
	if span.Err() != ErrTitleRequired {
		t.Errorf("expected %q, got %q", ErrTitleRequired, span.Err())
	}
	if calls != 0 {
		t.Errorf("expected no change, got %d", calls)
	}

	span.AllowEmpty = true
	span.Update(enter)
	if span.Editing() || calls != 1 || span.Value != "" {
		t.Errorf("expected empty value to be accepted, editing=%v calls=%d value=%q", span.Editing(), calls, span.Value)
	}
}

func TestEditableSpanCancel(t *testing.T) {
	calls := 0
	span := NewEditableSpan("Milk", func(string) { calls++ })

	span.Edit()
	typeText(span, " and bread")
	_, cmd := span.Update(esc)

	if msg, ok := msgOf(t, cmd).(InputClosedMsg); !ok || msg.Committed {
		t.Errorf("expected cancelled close, got %#v", msg)
	}
	if calls != 0 || span.Value != "Milk" {
		t.Errorf("cancel changed the value: calls=%d value=%q", calls, span.Value)
	}
}

func TestEditableSpanIgnoresKeysInViewMode(t *testing.T) {
	span := NewEditableSpan("Milk", nil)
	_, cmd := span.Update(enter)
	if cmd != nil || span.Editing() {
		t.Error("expected view mode to ignore keys")
	}
}

func TestAddItemForm(t *testing.T) {
	var got []string
	form := NewAddItemForm("New task", func(v string) { got = append(got, v) })
	form.Focus()

	_, cmd := form.Update(enter)
	if cmd != nil {
		t.Error("expected no close on empty submit")
	}
	if form.Err() != ErrTitleRequired {
		t.Errorf("expected %q, got %q", ErrTitleRequired, form.Err())
	}

	typeText(form, "Buy milk")
	if form.Err() != "" {
		t.Error("expected typing to clear the error")
	}

	_, cmd = form.Update(enter)
	if msg, ok := msgOf(t, cmd).(InputClosedMsg); !ok || !msg.Committed {
		t.Errorf("expected committed close, got %#v", msg)
	}
	if len(got) != 1 || got[0] != "Buy milk" {
		t.Errorf("expected one submit of %q, got %v", "Buy milk", got)
	}
	if form.Value() != "" {
		t.Errorf("expected input to be cleared, got %q", form.Value())
	}
}

func TestAddItemFormTrimsTitle(t *testing.T) {
	var got string
	form := NewAddItemForm("", func(v string) { got = v })
	form.SetValue("  Bread  ")

	if !form.Submit() {
		t.Fatal("expected submit to succeed")
	}
	if got != "Bread" {
		t.Errorf("expected trimmed title, got %q", got)
	}
}

func TestAddItemFormDisabled(t *testing.T) {
	calls := 0
	form := NewAddItemForm("", func(string) { calls++ })
	form.SetValue("Bread")
	form.Disabled = true

	if form.Submit() {
		t.Error("expected disabled form to reject submit")
	}
	if calls != 0 {
		t.Errorf("expected no submit, got %d", calls)
	}
	if form.Value() != "Bread" {
		t.Error("expected disabled form to keep its input")
	}
}

func TestValidateLogin(t *testing.T) {
	tests := []struct {
		name         string
		email        string
		password     string
		wantEmail    string
		wantPassword string
	}{
		{"valid", "free@samuraijs.com", "secret", "", ""},
		{"empty email", "", "secret", ErrEmailRequired, ""},
		{"invalid email", "not-an-email", "secret", ErrEmailInvalid, ""},
		{"empty password", "a@b.io", "", "", ErrPasswordRequired},
		{"both empty", "", "", ErrEmailRequired, ErrPasswordRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			emailErr, passwordErr := ValidateLogin(tt.email, tt.password)
			if emailErr != tt.wantEmail {
				t.Errorf("email error = %q, want %q", emailErr, tt.wantEmail)
			}
			if passwordErr != tt.wantPassword {
				t.Errorf("password error = %q, want %q", passwordErr, tt.wantPassword)
			}
		})
	}
}

func TestLoginFormSubmit(t *testing.T) {
	form := NewLoginForm()
	typeText(form, "me@example.com")
	form.Update(tab)
	typeText(form, "hunter2")
	form.Update(tab)
	form.Update(space)

	if !form.Remember() {
		t.Fatal("expected space on the checkbox to set remember")
	}

	form.Update(tab)
	_, cmd := form.Update(enter)
	submit, ok := msgOf(t, cmd).(LoginSubmitMsg)
	if !ok {
		t.Fatalf("expected LoginSubmitMsg")
	}
	want := LoginSubmitMsg{Email: "me@example.com", Password: "hunter2", Remember: true}
	if submit != want {
		t.Errorf("got %+v, want %+v", submit, want)
	}
}

func TestLoginFormShowsErrors(t *testing.T) {
	form := NewLoginForm()
	_, cmd := form.Update(enter)
	if cmd != nil {
		t.Error("expected no submit for an empty form")
	}

	emailErr, passwordErr := form.Errors()
	if emailErr != ErrEmailRequired || passwordErr != ErrPasswordRequired {
		t.Errorf("unexpected errors %q, %q", emailErr, passwordErr)
	}
	if !strings.Contains(form.View(), ErrEmailRequired) {
		t.Error("expected the view to show the email error")
	}
}

func TestLoginFormDisabled(t *testing.T) {
	form := NewLoginForm()
	form.SetValues("me@example.com", "pw", false)
	form.Disabled = true

	if _, cmd := form.Update(enter); cmd != nil {
		t.Error("expected disabled form to ignore enter")
	}
}

func TestHelpCloses(t *testing.T) {
	for _, key := range []string{"esc", "?", "q"} {
		h := NewHelp("General")
		var msg tea.KeyMsg
		if key == "esc" {
			msg = esc
		} else {
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
		}
		_, cmd := h.Update(msg)
		if _, ok := msgOf(t, cmd).(HelpClosedMsg); !ok {
			t.Errorf("%s: expected HelpClosedMsg", key)
		}
	}
}

func TestHelpView(t *testing.T) {
	h := NewHelp("General")
	h.SetSize(100, 40)
	h.SetKeymap([][]string{
		{"General", ""},
		{"q", "Quit"},
		{"Tasks", ""},
		{"a", "Add task"},
	})

	out := h.View()
	for _, want := range []string{"Quit", "Add task", "General", "Tasks"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected help to contain %q", want)
		}
	}
}

func TestProgressBarLabel(t *testing.T) {
	bar := NewProgressBar(20)
	out := bar.View(view.Progress{Completed: 2, Total: 3})
	if !strings.Contains(out, "2/3") {
		t.Errorf("expected count label, got %q", out)
	}
	if bar.Width() != 20 {
		t.Errorf("expected width 20, got %d", bar.Width())
	}
}

func TestEditableSpanValidate(t *testing.T) {
	calls := 0
	span := NewEditableSpan("", func(string) { calls++ })
	span.AllowEmpty = true
	span.Validate = func(v string) string {
		if v == "bad" {
			return "Invalid"
		}
		return ""
	}

	span.Edit()
	span.input.SetValue("bad")
	span.Update(enter)
	if !span.Editing() || span.Err() != "Invalid" || calls != 0 {
		t.Errorf("expected rejection, editing=%v err=%q calls=%d", span.Editing(), span.Err(), calls)
	}

	span.input.SetValue("good")
	span.Update(enter)
	if span.Editing() || calls != 1 {
		t.Errorf("expected commit, editing=%v calls=%d", span.Editing(), calls)
	}
}
