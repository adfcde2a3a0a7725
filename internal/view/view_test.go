package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hy4ri/todolists-tui/internal/api"
	"github.com/hy4ri/todolists-tui/internal/store"
)

// fakeOps records every operation it receives.
type fakeOps struct {
	mu      sync.Mutex
	calls   []string
	patches []store.TaskPatch
}

func (f *fakeOps) record(format string, args ...interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeOps) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeOps) FetchTodolists(ctx context.Context) error {
	f.record("FetchTodolists")
	return nil
}

func (f *fakeOps) FetchTasks(ctx context.Context, id string) error {
	f.record("FetchTasks %s", id)
	return nil
}

func (f *fakeOps) AddTodolist(ctx context.Context, title string) error {
	f.record("AddTodolist %s", title)
	return nil
}

func (f *fakeOps) RemoveTodolist(ctx context.Context, id string) error {
	f.record("RemoveTodolist %s", id)
	return nil
}

func (f *fakeOps) ChangeTodolistTitle(ctx context.Context, id, title string) error {
	f.record("ChangeTodolistTitle %s %s", id, title)
	return nil
}

func (f *fakeOps) MoveTodolist(ctx context.Context, id string, delta int) error {
	f.record("MoveTodolist %s %d", id, delta)
	return nil
}

func (f *fakeOps) AddTask(ctx context.Context, title, id string) error {
	f.record("AddTask %s %s", title, id)
	return nil
}

func (f *fakeOps) RemoveTask(ctx context.Context, taskID, id string) error {
	f.record("RemoveTask %s %s", taskID, id)
	return nil
}

func (f *fakeOps) UpdateTask(ctx context.Context, taskID string, patch store.TaskPatch, id string) error {
	f.record("UpdateTask %s %s", taskID, id)
	f.mu.Lock()
	f.patches = append(f.patches, patch)
	f.mu.Unlock()
	return nil
}

func (f *fakeOps) MoveTask(ctx context.Context, id, taskID string, delta int) error {
	f.record("MoveTask %s %s %d", id, taskID, delta)
	return nil
}

// deferredRunner keeps operations until the test runs them, so tests can
// observe cancellation.
type deferredRunner struct {
	ctxs []context.Context
	fns  []func(context.Context) error
}

func (r *deferredRunner) Go(name string, fn func(ctx context.Context) error) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	r.ctxs = append(r.ctxs, ctx)
	r.fns = append(r.fns, fn)
	return cancel
}

// callRecorder builds callbacks that record their arguments.
type callRecorder struct {
	calls []string
}

func (r *callRecorder) callbacks() *Callbacks {
	rec := func(format string, args ...interface{}) {
		r.calls = append(r.calls, fmt.Sprintf(format, args...))
	}
	return &Callbacks{
		AddTask:    func(title, id string) { rec("AddTask(%q, %q)", title, id) },
		RemoveTask: func(taskID, id string) { rec("RemoveTask(%q, %q)", taskID, id) },
		ChangeTaskStatus: func(taskID string, s api.TaskStatus, id string) {
			rec("ChangeTaskStatus(%q, %d, %q)", taskID, s, id)
		},
		ChangeTaskTitle: func(taskID, title, id string) { rec("ChangeTaskTitle(%q, %q, %q)", taskID, title, id) },
		ChangeTaskDescription: func(taskID, d, id string) {
			rec("ChangeTaskDescription(%q, %q, %q)", taskID, d, id)
		},
		ChangeTaskDeadline: func(taskID string, d time.Time, id string) {
			rec("ChangeTaskDeadline(%q, %s, %q)", taskID, d.Format("2006-01-02"), id)
		},
		ChangeTaskPriority: func(taskID string, p api.TaskPriority, id string) {
			rec("ChangeTaskPriority(%q, %d, %q)", taskID, p, id)
		},
		MoveTask:            func(taskID string, delta int, id string) { rec("MoveTask(%q, %d, %q)", taskID, delta, id) },
		ChangeFilter:        func(f store.FilterValue, id string) { rec("ChangeFilter(%q, %q)", f, id) },
		RemoveTodolist:      func(id string) { rec("RemoveTodolist(%q)", id) },
		ChangeTodolistTitle: func(id, title string) { rec("ChangeTodolistTitle(%q, %q)", id, title) },
		MoveTodolist:        func(id string, delta int) { rec("MoveTodolist(%q, %d)", id, delta) },
	}
}

func domain(id string, filter store.FilterValue) store.TodolistDomain {
	return store.TodolistDomain{
		Todolist:     api.Todolist{ID: id, Title: "list " + id},
		Filter:       filter,
		EntityStatus: store.StatusIdle,
	}
}

func l1Tasks() []api.Task {
	return []api.Task{
		{ID: "1", TodoListID: "L1", Title: "A", Status: api.TaskStatusNew},
		{ID: "2", TodoListID: "L1", Title: "B", Status: api.TaskStatusCompleted},
	}
}

func rowIDs(rows []TaskRow) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.Task.ID
	}
	return ids
}

func sameIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
