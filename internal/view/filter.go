// Package view is the rendering-independent core of the todo list screen:
// task filtering, the todo list panel and the panel collection with its
// column layout. The TUI draws what this package computes.
package view

import (
	"github.com/hy4ri/todolists-tui/internal/api"
	"github.com/hy4ri/todolists-tui/internal/store"
)

// FilterTasks returns the tasks visible under filter, in their original
// order. Active keeps New tasks and Completed keeps Completed ones; other
// statuses only show under All. The input is never modified.
func FilterTasks(tasks []api.Task, filter store.FilterValue) []api.Task {
	var want api.TaskStatus
	switch filter {
	case store.FilterActive:
		want = api.TaskStatusNew
	case store.FilterCompleted:
		want = api.TaskStatusCompleted
	default:
		return tasks
	}

	out := make([]api.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == want {
			out = append(out, t)
		}
	}
	return out
}

// Progress counts completed tasks.
type Progress struct {
	Completed int
	Total     int
}

// ProgressOf computes the progress of a full, unfiltered task list.
func ProgressOf(tasks []api.Task) Progress {
	p := Progress{Total: len(tasks)}
	for _, t := range tasks {
		if t.Status == api.TaskStatusCompleted {
			p.Completed++
		}
	}
	return p
}

// Ratio returns the completed share in [0, 1]. An empty list is 0.
func (p Progress) Ratio() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total)
}
