package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hy4ri/todolists-tui/internal/api"
	"github.com/hy4ri/todolists-tui/internal/store"
	"github.com/hy4ri/todolists-tui/internal/tui/components"
	"github.com/hy4ri/todolists-tui/internal/tui/styles"
	"github.com/hy4ri/todolists-tui/internal/tui/utils"
	"github.com/hy4ri/todolists-tui/internal/view"
)

// minPanelWidth keeps a panel readable on narrow terminals.
const minPanelWidth = 24

func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	if a.showHelp {
		return a.help.View()
	}

	state := a.store.GetState()
	if !state.App.IsInitialized {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
			a.spinner.View()+" Loading...")
	}

	if a.route == RouteLogin {
		return a.renderLogin(state)
	}

	header := a.renderHeader(state)
	footer := a.renderFooter(state)

	a.board.Width = a.width
	a.board.Height = a.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if a.board.Height < 1 {
		a.board.Height = 1
	}
	a.board.SetContent(a.renderBoard())

	return lipgloss.JoinVertical(lipgloss.Left, header, a.board.View(), footer)
}

func (a *App) renderHeader(state store.State) string {
	title := styles.Title.Render("Todo lists")
	if a.demo {
		title += styles.Subtitle.Render(" (demo)")
	}

	var right string
	if state.App.Status == store.StatusLoading {
		right = a.spinner.View() + " "
	}
	if state.Auth.Login != "" {
		right += styles.Subtitle.Render(state.Auth.Login)
	}

	gap := a.width - lipgloss.Width(title) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return " " + title + strings.Repeat(" ", gap) + right + "\n"
}

// renderBoard lays the panels out in the columns computed by the view.
func (a *App) renderBoard() string {
	if len(a.out.Panels) == 0 {
		return styles.PanelEmpty.Render("No lists yet. Press " + a.keymap.NewList.Key + " to create one.")
	}

	n := len(a.out.Columns)
	width := a.width / n
	if width < minPanelWidth {
		width = minPanelWidth
	}

	focusedID := ""
	if p, ok := a.focusedPanel(); ok {
		focusedID = p.ID()
	}

	cols := make([]string, 0, n)
	for _, col := range a.out.Columns {
		rendered := make([]string, 0, len(col))
		for _, p := range col {
			rendered = append(rendered, a.renderPanel(p, p.ID() == focusedID, width))
		}
		cols = append(cols, lipgloss.NewStyle().Width(width).Render(
			lipgloss.JoinVertical(lipgloss.Left, rendered...)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

func (a *App) renderPanel(p view.PanelView, focused bool, width int) string {
	frame := styles.Panel
	switch {
	case p.Disabled:
		frame = styles.PanelDisabled
	case focused:
		frame = styles.PanelFocused
	}
	// Border and padding take four cells.
	inner := width - 4

	var b strings.Builder

	title := p.Todolist.Title
	if focused && a.mode == modeRenameList && a.span != nil {
		title = a.span.View()
	} else {
		title = styles.Title.Render(utils.TruncateString(title, inner))
	}
	b.WriteString(title + "\n")
	if p.AddedDate != "" {
		b.WriteString(styles.PanelDate.Render(p.AddedDate) + "\n")
	}

	tabs := make([]string, 0, len(p.Filters))
	for _, f := range p.Filters {
		if f.Active {
			tabs = append(tabs, styles.TabActive.Render(f.Label))
		} else {
			tabs = append(tabs, styles.Tab.Render(f.Label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n")

	barWidth := inner - 8
	if barWidth < 4 {
		barWidth = 4
	}
	b.WriteString(components.NewProgressBar(barWidth).View(p.Progress) + "\n")

	if len(p.Rows) == 0 {
		b.WriteString(styles.PanelEmpty.Render("No tasks") + "\n")
	}
	now := time.Now()
	for i, row := range p.Rows {
		selected := focused && i == a.focusRow
		b.WriteString(a.renderRow(row, selected, inner, now) + "\n")
	}

	if focused && a.mode == modeAddTask && a.addForm != nil {
		b.WriteString(a.addForm.View() + "\n")
	}

	return frame.Width(width - 2).Render(strings.TrimRight(b.String(), "\n"))
}

func priorityMark(p api.TaskPriority) string {
	switch p {
	case api.PriorityUrgently:
		return "!!!"
	case api.PriorityHi:
		return "!!"
	case api.PriorityMiddle:
		return "!"
	case api.PriorityLater:
		return "~"
	default:
		return ""
	}
}

func (a *App) renderRow(row view.TaskRow, selected bool, width int, now time.Time) string {
	task := row.Task

	box := styles.CheckboxUnchecked
	if task.IsCompleted() {
		box = styles.CheckboxChecked
	}

	var suffix string
	if mark := priorityMark(task.Priority); mark != "" {
		suffix += " " + styles.GetPriorityStyle(task.Priority).Render(mark)
	}
	if due := task.DeadlineDisplay(now); due != "" {
		dueStyle := styles.TaskDue
		switch {
		case task.IsOverdue(now):
			dueStyle = styles.TaskDueOverdue
		case due == "today":
			dueStyle = styles.TaskDueToday
		}
		suffix += dueStyle.Render(due)
	}

	title := task.Title
	editing := selected && a.mode == modeEditTask && a.span != nil
	if editing {
		title = a.span.View()
	} else {
		avail := width - 6 - lipgloss.Width(suffix)
		if avail < 4 {
			avail = 4
		}
		title = utils.TruncateString(title, avail)
		if task.IsCompleted() {
			title = styles.TaskCompleted.Render(title)
		}
	}

	line := box + " " + title + suffix
	if !selected {
		return styles.TaskItem.Render(line)
	}

	out := styles.TaskSelected.Render(line)
	switch {
	case a.mode == modeEditDescription && a.span != nil:
		out += "\n" + styles.InputLabel.Render("Description") + "\n" + a.span.View()
	case a.mode == modeEditDeadline && a.span != nil:
		out += "\n" + styles.InputLabel.Render("Deadline (YYYY-MM-DD, empty clears)") + "\n" + a.span.View()
	case task.Description != "":
		out += "\n" + styles.TaskDescription.Render(utils.TruncateString(task.Description, width-6))
	}
	return out
}

func (a *App) renderFooter(state store.State) string {
	var parts []string

	switch a.mode {
	case modeAddList:
		if a.addForm != nil {
			parts = append(parts, styles.InputLabel.Render("New list")+"\n"+a.addForm.View())
		}
	case modeConfirmDelete:
		if p, ok := a.panelByID(a.pendingDelete); ok {
			dialog := styles.DialogTitle.Foreground(styles.ErrorColor).Render("Delete list?") + "\n" +
				fmt.Sprintf("Are you sure you want to delete %q?\n", p.Todolist.Title) +
				styles.HelpDesc.Render("This will delete all tasks in this list.") + "\n\n" +
				styles.HelpDesc.Render("y: confirm • n/Esc: cancel")
			parts = append(parts, styles.Dialog.BorderForeground(styles.ErrorColor).Render(dialog))
		}
	}

	parts = append(parts, a.renderStatusBar(state))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) renderStatusBar(state store.State) string {
	var content string
	switch {
	case state.App.Error != "":
		content = styles.StatusBarError.Render(state.App.Error) +
			styles.StatusBarText.Render("  (esc to dismiss)")
	case a.statusMsg != "":
		content = styles.StatusBarSuccess.Render(a.statusMsg)
	default:
		hints := []string{
			a.keymap.AddTask.Key + " add",
			a.keymap.ToggleTask.Key + " done",
			a.keymap.NewList.Key + " new list",
			"1/2/3 filter",
			a.keymap.Help.Key + " help",
			a.keymap.Quit.Key + " quit",
		}
		for i, h := range hints {
			k, desc, _ := strings.Cut(h, " ")
			if i > 0 {
				content += styles.StatusBarText.Render(" • ")
			}
			content += styles.StatusBarKey.Render(k) + styles.StatusBarText.Render(" "+desc)
		}
	}
	return styles.StatusBar.Width(a.width).Render(content)
}

func (a *App) renderLogin(state store.State) string {
	var b strings.Builder
	b.WriteString(styles.DialogTitle.Render("Log in") + "\n")
	b.WriteString(styles.HelpDesc.Render("Use the account of the todo lists service.") + "\n\n")
	b.WriteString(a.loginForm.View() + "\n\n")

	if state.App.Status == store.StatusLoading {
		b.WriteString(a.spinner.View() + " Logging in...\n")
	}
	b.WriteString(styles.HelpDesc.Render("tab: next field • enter: log in • ctrl+o: web login • ctrl+c: quit"))

	dialog := styles.Dialog.Render(b.String())
	body := lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, dialog)
	return lipgloss.JoinVertical(lipgloss.Left, body, a.renderStatusBar(state))
}
