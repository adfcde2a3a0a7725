package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hy4ri/todolists-tui/internal/ops"
	"github.com/hy4ri/todolists-tui/internal/store"
)

// Deadlines carry no time of day; a task is announced at reminderHour on
// its deadline. Reminders further than reminderWindow in the past, as on
// a late start, are dropped silently.
const (
	reminderHour   = 9
	reminderWindow = 60 * time.Minute
)

type checkDueMsg time.Time

func checkDueCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return checkDueMsg(t)
	})
}

// Reminder is a task whose deadline has come.
type Reminder struct {
	TodolistTitle string
	TaskTitle     string
}

// Reminders tracks which tasks were announced.
type Reminders struct {
	notifier ops.Notifier
	notified map[string]bool
}

// NewReminders creates a tracker that announces through n.
func NewReminders(n ops.Notifier) *Reminders {
	return &Reminders{notifier: n, notified: make(map[string]bool)}
}

// Due returns the tasks to announce at now and marks them as announced.
// Completed tasks and tasks without a deadline are skipped.
func (r *Reminders) Due(now time.Time, state store.State) []Reminder {
	var out []Reminder
	for _, tl := range state.Todolists {
		for _, task := range state.Tasks[tl.ID] {
			if r.notified[task.ID] || task.IsCompleted() || task.Deadline.IsZero() {
				continue
			}

			y, m, d := task.Deadline.Date()
			at := time.Date(y, m, d, reminderHour, 0, 0, 0, now.Location())
			if now.Before(at) {
				continue
			}

			r.notified[task.ID] = true
			if now.Sub(at) > reminderWindow {
				continue
			}
			out = append(out, Reminder{TodolistTitle: tl.Title, TaskTitle: task.Title})
		}
	}
	return out
}

// Notify sends one desktop notification.
func (r *Reminders) Notify(rem Reminder) error {
	return r.notifier.Notify(rem.TodolistTitle, "Task due: "+rem.TaskTitle)
}
