package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/todolists-tui/internal/api"
	"github.com/hy4ri/todolists-tui/internal/auth"
	"github.com/hy4ri/todolists-tui/internal/ops"
	"github.com/hy4ri/todolists-tui/internal/store"
	"github.com/hy4ri/todolists-tui/internal/tui/components"
	"github.com/hy4ri/todolists-tui/internal/view"
)

// DeadlineLayout is how deadlines are typed in.
const DeadlineLayout = "2006-01-02"

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.SetSize(msg.Width, msg.Height)
		formWidth := msg.Width - 8
		if formWidth > 50 {
			formWidth = 50
		}
		a.loginForm.SetSize(formWidth, 0)
		a.render()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case stateChangedMsg:
		a.render()
		return a, a.waitForChange()

	case sessionMsg:
		if msg.err != nil {
			a.logger.Error("failed to start session", "err", msg.err)
		}
		a.render()
		return a, nil

	case loginResultMsg:
		a.loginForm.Disabled = false
		if msg.err != nil && !errors.Is(msg.err, auth.ErrNotRemembered) {
			a.loginForm.ClearPassword()
			if errors.Is(msg.err, ops.ErrCaptchaRequired) {
				a.statusMsg = "Captcha required: press ctrl+o to log in on the web"
			}
			return a, nil
		}
		a.loginForm = components.NewLoginForm()
		a.loginForm.SetSize(a.width-8, 0)
		a.statusMsg = "Logged in"
		if msg.err != nil {
			a.statusMsg = "Logged in, but the system keyring is unavailable so the login is not remembered"
		}
		a.render()
		return a, nil

	case logoutResultMsg:
		if msg.err == nil {
			a.statusMsg = "Logged out"
		}
		a.render()
		return a, nil

	case statusMsg:
		a.statusMsg = msg.msg
		return a, nil

	case checkDueMsg:
		return a, a.handleCheckDue(time.Time(msg))

	case components.LoginSubmitMsg:
		a.loginForm.Disabled = true
		a.statusMsg = ""
		return a, a.login(msg)

	case components.InputClosedMsg:
		a.closeInput()
		return a, nil

	case components.HelpClosedMsg:
		a.showHelp = false
		return a, nil
	}

	// Cursor blinks and other component messages.
	return a, a.updateInputs(msg)
}

func (a *App) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch {
	case a.route == RouteLogin:
		_, cmd = a.loginForm.Update(msg)
	case a.span != nil:
		_, cmd = a.span.Update(msg)
	case a.addForm != nil:
		_, cmd = a.addForm.Update(msg)
	}
	return cmd
}

// render recomputes the screen from the store. Nothing is rendered before
// the session check finished.
func (a *App) render() {
	state := a.store.GetState()
	if !state.App.IsInitialized {
		return
	}

	a.out = a.collection.Render(view.CollectionProps{
		Demo:        a.demo,
		Width:       a.width,
		Breakpoints: a.cfg.UI.Breakpoints,
	})

	if a.out.Redirect != "" {
		if a.route != a.out.Redirect {
			a.closeInput()
			a.focusPanel, a.focusRow = 0, 0
		}
		a.route = a.out.Redirect
		return
	}

	a.route = RouteLists
	a.clampFocus()
	if a.mode == modeAddTask && a.addForm != nil {
		if p, ok := a.focusedPanel(); ok {
			a.addForm.Disabled = p.Disabled
		}
	}
}

func (a *App) clampFocus() {
	n := len(a.out.Panels)
	if a.focusPanel >= n {
		a.focusPanel = n - 1
	}
	if a.focusPanel < 0 {
		a.focusPanel = 0
	}

	p, ok := a.focusedPanel()
	if !ok {
		a.focusRow = 0
		return
	}
	if a.focusRow >= len(p.Rows) {
		a.focusRow = len(p.Rows) - 1
	}
	if a.focusRow < 0 {
		a.focusRow = 0
	}
}

func (a *App) focusedPanel() (view.PanelView, bool) {
	if a.focusPanel < 0 || a.focusPanel >= len(a.out.Panels) {
		return view.PanelView{}, false
	}
	return a.out.Panels[a.focusPanel], true
}

func (a *App) focusedRow() (view.TaskRow, bool) {
	p, ok := a.focusedPanel()
	if !ok || a.focusRow < 0 || a.focusRow >= len(p.Rows) {
		return view.TaskRow{}, false
	}
	return p.Rows[a.focusRow], true
}

// panelByID finds a panel in the latest render.
func (a *App) panelByID(id string) (view.PanelView, bool) {
	for _, p := range a.out.Panels {
		if p.ID() == id {
			return p, true
		}
	}
	return view.PanelView{}, false
}

// focusList moves the focus to the list with the given id, if rendered.
func (a *App) focusList(id string) {
	for i, p := range a.out.Panels {
		if p.ID() == id {
			a.focusPanel = i
			return
		}
	}
}

// focusTask moves the row focus to the task with the given id.
func (a *App) focusTask(id string) {
	p, ok := a.focusedPanel()
	if !ok {
		return
	}
	for i, r := range p.Rows {
		if r.Task.ID == id {
			a.focusRow = i
			return
		}
	}
}

func (a *App) closeInput() {
	a.mode = modeNormal
	a.span = nil
	a.addForm = nil
	a.pendingDelete = ""
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.Close()
	return a, tea.Quit
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a.quit()
	}

	if a.showHelp {
		_, cmd := a.help.Update(msg)
		return a, cmd
	}

	if !a.store.GetState().App.IsInitialized {
		if msg.String() == a.keymap.Quit.Key {
			return a.quit()
		}
		return a, nil
	}

	if a.route == RouteLogin {
		return a.handleLoginKey(msg)
	}

	switch a.mode {
	case modeAddTask, modeAddList:
		_, cmd := a.addForm.Update(msg)
		return a, cmd
	case modeEditTask, modeRenameList, modeEditDescription, modeEditDeadline:
		_, cmd := a.span.Update(msg)
		return a, cmd
	case modeConfirmDelete:
		return a.handleConfirmDelete(msg)
	}

	action, ok := a.keyState.HandleKey(msg, a.keymap, a.cfg.UI.VimMode)
	if !ok || action == "" {
		return a, nil
	}
	return a.handleAction(action)
}

func (a *App) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+o":
		return a, openLoginPage
	case "esc":
		a.statusMsg = ""
		a.ops.ClearError()
		return a, nil
	}
	_, cmd := a.loginForm.Update(msg)
	return a, cmd
}

func openLoginPage() tea.Msg {
	if err := auth.OpenLoginPage(); err != nil {
		return statusMsg{msg: fmt.Sprintf("Failed to open browser: %v", err)}
	}
	return statusMsg{msg: "Opened " + auth.LoginPageURL}
}

func (a *App) handleConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "y" || msg.String() == "Y" {
		if p, ok := a.panelByID(a.pendingDelete); ok {
			p.Remove()
		}
	}
	a.closeInput()
	return a, nil
}

func (a *App) handleAction(action string) (tea.Model, tea.Cmd) {
	switch action {
	case ActionQuit:
		return a.quit()
	case ActionHelp:
		a.showHelp = true
		return a, nil
	case ActionBack:
		a.statusMsg = ""
		a.ops.ClearError()
		return a, nil
	case ActionRefresh:
		a.statusMsg = "Refreshing..."
		a.runner.Go("refresh", a.ops.RefreshAll)
		return a, nil
	case ActionLogout:
		return a, a.logout()
	case ActionHalfUp:
		a.board.HalfViewUp()
		return a, nil
	case ActionHalfDown:
		a.board.HalfViewDown()
		return a, nil
	case ActionNewList:
		return a, a.openAddList()
	}

	if len(a.out.Panels) == 0 {
		return a, nil
	}

	switch action {
	case ActionUp:
		a.moveRow(-1)
	case ActionDown:
		a.moveRow(1)
	case ActionTop:
		a.focusRow = 0
	case ActionBottom:
		if p, ok := a.focusedPanel(); ok {
			a.focusRow = len(p.Rows) - 1
		}
		a.clampFocus()
	case ActionLeft:
		a.movePanel(-1)
	case ActionRight:
		a.movePanel(1)
	case ActionFilterAll, ActionFilterActive, ActionFilterDone:
		a.applyFilter(action)
	case ActionRenameList:
		return a, a.openRenameList()
	case ActionDeleteList:
		if p, ok := a.focusedPanel(); ok && !p.Disabled {
			a.mode = modeConfirmDelete
			a.pendingDelete = p.ID()
		}
	case ActionMoveListLeft, ActionMoveListRight:
		a.moveList(action)
	case ActionAddTask:
		return a, a.openAddTask()
	default:
		return a.handleTaskAction(action)
	}
	return a, nil
}

// handleTaskAction runs an action on the focused task.
func (a *App) handleTaskAction(action string) (tea.Model, tea.Cmd) {
	row, ok := a.focusedRow()
	if !ok {
		return a, nil
	}

	switch action {
	case ActionToggle:
		row.ToggleStatus()
	case ActionCyclePriority:
		row.ChangePriority(row.Task.Priority.Next())
	case ActionDeleteTask:
		row.Remove()
	case ActionMoveTaskDown:
		a.moveTask(row, 1)
	case ActionMoveTaskUp:
		a.moveTask(row, -1)
	case ActionCopy:
		return a, copyTitle(row.Task.Title)
	case ActionEditTask:
		return a, a.openSpan(modeEditTask, row.Task.Title, false, row.ChangeTitle)
	case ActionEditDescription:
		return a, a.openSpan(modeEditDescription, row.Task.Description, true, row.ChangeDescription)
	case ActionEditDeadline:
		var current string
		if !row.Task.Deadline.IsZero() {
			current = row.Task.Deadline.Format(DeadlineLayout)
		}
		cmd := a.openSpan(modeEditDeadline, current, true, func(v string) {
			d, _ := parseDeadline(v)
			row.ChangeDeadline(d)
		})
		a.span.Validate = func(v string) string {
			if _, err := parseDeadline(v); err != nil {
				return "Use YYYY-MM-DD"
			}
			return ""
		}
		return a, cmd
	}
	return a, nil
}

// parseDeadline reads a typed deadline. Empty clears it.
func parseDeadline(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(DeadlineLayout, v)
}

func (a *App) moveRow(delta int) {
	a.focusRow += delta
	a.clampFocus()
}

func (a *App) movePanel(delta int) {
	n := len(a.out.Panels)
	if n == 0 {
		return
	}
	a.focusPanel = (a.focusPanel + delta + n) % n
	a.focusRow = 0
	a.clampFocus()
}

func (a *App) moveTask(row view.TaskRow, delta int) {
	row.Move(delta)
	a.render()
	a.focusTask(row.Task.ID)
}

func (a *App) moveList(action string) {
	p, ok := a.focusedPanel()
	if !ok {
		return
	}
	delta := 1
	if action == ActionMoveListLeft {
		delta = -1
	}
	p.Move(delta)
	a.render()
	a.focusList(p.ID())
}

func (a *App) applyFilter(action string) {
	p, ok := a.focusedPanel()
	if !ok {
		return
	}
	want := map[string]store.FilterValue{
		ActionFilterAll:    store.FilterAll,
		ActionFilterActive: store.FilterActive,
		ActionFilterDone:   store.FilterCompleted,
	}[action]
	for _, f := range p.Filters {
		if f.Value == want {
			f.Click()
		}
	}
	a.focusRow = 0
	a.render()
}

func (a *App) openSpan(mode inputMode, value string, allowEmpty bool, onChange func(string)) tea.Cmd {
	a.span = components.NewEditableSpan(value, onChange)
	a.span.AllowEmpty = allowEmpty
	a.span.SetSize(a.inputWidth(), 1)
	a.mode = mode
	return a.span.Edit()
}

func (a *App) openRenameList() tea.Cmd {
	p, ok := a.focusedPanel()
	if !ok {
		return nil
	}
	return a.openSpan(modeRenameList, p.Todolist.Title, false, p.Rename)
}

func (a *App) openAddTask() tea.Cmd {
	p, ok := a.focusedPanel()
	if !ok {
		return nil
	}
	id := p.ID()
	a.addForm = components.NewAddItemForm("New task", func(title string) {
		if p, ok := a.panelByID(id); ok {
			p.AddTask(title)
		}
	})
	a.addForm.Disabled = p.Disabled
	return a.openForm(modeAddTask)
}

func (a *App) openAddList() tea.Cmd {
	if a.route != RouteLists {
		return nil
	}
	a.addForm = components.NewAddItemForm("New list", func(title string) {
		a.out.AddTodolist(title)
	})
	return a.openForm(modeAddList)
}

func (a *App) openForm(mode inputMode) tea.Cmd {
	a.addForm.SetSize(a.inputWidth(), 1)
	a.addForm.Focus()
	a.mode = mode
	return a.addForm.Init()
}

func (a *App) inputWidth() int {
	w := a.width - 4
	if w > 60 {
		w = 60
	}
	return w
}

func (a *App) login(req components.LoginSubmitMsg) tea.Cmd {
	return func() tea.Msg {
		if a.session == nil {
			return loginResultMsg{err: a.ops.Login(a.ctx, api.LoginRequest{
				Email:      req.Email,
				Password:   req.Password,
				RememberMe: req.Remember,
			})}
		}
		return loginResultMsg{err: a.session.Login(a.ctx, req.Email, req.Password, req.Remember)}
	}
}

func (a *App) logout() tea.Cmd {
	return func() tea.Msg {
		if a.session == nil {
			return logoutResultMsg{err: a.ops.Logout(a.ctx)}
		}
		return logoutResultMsg{err: a.session.Logout(a.ctx)}
	}
}

// copyTitle copies a task title to the clipboard.
func copyTitle(title string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(title); err != nil {
			return statusMsg{msg: fmt.Sprintf("Failed to copy: %v", err)}
		}
		return statusMsg{msg: "Copied: " + title}
	}
}

// handleCheckDue announces tasks whose deadline has come and schedules the
// next check.
func (a *App) handleCheckDue(now time.Time) tea.Cmd {
	cmds := []tea.Cmd{checkDueCmd()}
	for _, rem := range a.reminders.Due(now, a.store.GetState()) {
		rem := rem
		cmds = append(cmds, func() tea.Msg {
			if err := a.reminders.Notify(rem); err != nil {
				a.logger.Warn("failed to send notification", "err", err)
			}
			return nil
		})
	}
	return tea.Batch(cmds...)
}
