package view

import (
	"context"
	"time"

	"github.com/hy4ri/todolists-tui/internal/api"
	"github.com/hy4ri/todolists-tui/internal/ops"
	"github.com/hy4ri/todolists-tui/internal/store"
)

// DateLayout formats the creation date of a list.
const DateLayout = "01/02/2006"

// Callbacks are the intents a panel and its rows emit. Nil callbacks are
// ignored.
type Callbacks struct {
	AddTask               func(title, todolistID string)
	RemoveTask            func(taskID, todolistID string)
	ChangeTaskStatus      func(taskID string, status api.TaskStatus, todolistID string)
	ChangeTaskTitle       func(taskID, title, todolistID string)
	ChangeTaskDescription func(taskID, description, todolistID string)
	ChangeTaskDeadline    func(taskID string, deadline time.Time, todolistID string)
	ChangeTaskPriority    func(taskID string, priority api.TaskPriority, todolistID string)
	MoveTask              func(taskID string, delta int, todolistID string)

	ChangeFilter        func(filter store.FilterValue, todolistID string)
	RemoveTodolist      func(todolistID string)
	ChangeTodolistTitle func(todolistID, title string)
	MoveTodolist        func(todolistID string, delta int)
}

// TaskRow is one task bound to its list. Every method forwards to the
// callbacks as is.
type TaskRow struct {
	Task       api.Task
	TodolistID string
	cb         *Callbacks
}

// ChangeStatus requests a status change.
func (r TaskRow) ChangeStatus(status api.TaskStatus) {
	if r.cb.ChangeTaskStatus != nil {
		r.cb.ChangeTaskStatus(r.Task.ID, status, r.TodolistID)
	}
}

// ToggleStatus flips the task between New and Completed.
func (r TaskRow) ToggleStatus() {
	if r.Task.Status == api.TaskStatusCompleted {
		r.ChangeStatus(api.TaskStatusNew)
		return
	}
	r.ChangeStatus(api.TaskStatusCompleted)
}

// ChangeTitle requests a new title.
func (r TaskRow) ChangeTitle(title string) {
	if r.cb.ChangeTaskTitle != nil {
		r.cb.ChangeTaskTitle(r.Task.ID, title, r.TodolistID)
	}
}

// ChangeDescription requests a new description.
func (r TaskRow) ChangeDescription(description string) {
	if r.cb.ChangeTaskDescription != nil {
		r.cb.ChangeTaskDescription(r.Task.ID, description, r.TodolistID)
	}
}

// ChangeDeadline requests a new deadline. The zero time clears it.
func (r TaskRow) ChangeDeadline(deadline time.Time) {
	if r.cb.ChangeTaskDeadline != nil {
		r.cb.ChangeTaskDeadline(r.Task.ID, deadline, r.TodolistID)
	}
}

// ChangePriority requests a new priority.
func (r TaskRow) ChangePriority(priority api.TaskPriority) {
	if r.cb.ChangeTaskPriority != nil {
		r.cb.ChangeTaskPriority(r.Task.ID, priority, r.TodolistID)
	}
}

// Remove requests the removal of the task.
func (r TaskRow) Remove() {
	if r.cb.RemoveTask != nil {
		r.cb.RemoveTask(r.Task.ID, r.TodolistID)
	}
}

// Move requests moving the task delta positions.
func (r TaskRow) Move(delta int) {
	if r.cb.MoveTask != nil {
		r.cb.MoveTask(r.Task.ID, delta, r.TodolistID)
	}
}

// FilterButton is one of the three filter controls of a panel.
type FilterButton struct {
	Value  store.FilterValue
	Label  string
	Active bool

	todolistID string
	cb         *Callbacks
}

// Click selects the button's filter.
func (b FilterButton) Click() {
	if b.cb.ChangeFilter != nil {
		b.cb.ChangeFilter(b.Value, b.todolistID)
	}
}

var filterLabels = map[store.FilterValue]string{
	store.FilterAll:       "All",
	store.FilterActive:    "Active",
	store.FilterCompleted: "Completed",
}

// PanelProps is the input of a panel.
type PanelProps struct {
	Todolist  store.TodolistDomain
	Tasks     []api.Task
	Demo      bool
	Callbacks *Callbacks
}

// PanelView is what a panel renders.
type PanelView struct {
	Todolist  store.TodolistDomain
	AddedDate string
	Rows      []TaskRow
	Filters   []FilterButton
	Progress  Progress

	// Disabled is set while an operation on the list is in flight. Adding
	// tasks and removing the list are ignored then.
	Disabled bool

	cb *Callbacks
}

// ID returns the list id.
func (v PanelView) ID() string {
	return v.Todolist.ID
}

// Rename requests a new list title.
func (v PanelView) Rename(title string) {
	if v.cb.ChangeTodolistTitle != nil {
		v.cb.ChangeTodolistTitle(v.Todolist.ID, title)
	}
}

// AddTask requests a new task.
func (v PanelView) AddTask(title string) {
	if v.Disabled || v.cb.AddTask == nil {
		return
	}
	v.cb.AddTask(title, v.Todolist.ID)
}

// Remove requests the removal of the list.
func (v PanelView) Remove() {
	if v.Disabled || v.cb.RemoveTodolist == nil {
		return
	}
	v.cb.RemoveTodolist(v.Todolist.ID)
}

// Move requests moving the list delta positions.
func (v PanelView) Move(delta int) {
	if v.cb.MoveTodolist != nil {
		v.cb.MoveTodolist(v.Todolist.ID, delta)
	}
}

type panelKey struct {
	id   string
	demo bool
}

// Panel is one todo list. It fetches the list's tasks when mounted and
// again whenever the list id or demo flag changes.
type Panel struct {
	runner ops.Runner
	fetch  func(ctx context.Context, todolistID string) error

	props   PanelProps
	key     panelKey
	mounted bool
	cancel  context.CancelFunc
}

// NewPanel creates an unmounted panel. fetch loads the tasks of a list; it
// runs on runner.
func NewPanel(runner ops.Runner, fetch func(ctx context.Context, todolistID string) error) *Panel {
	return &Panel{runner: runner, fetch: fetch}
}

// Sync renders the panel with new props, running the fetch effect when the
// (list id, demo) pair differs from the previous render.
func (p *Panel) Sync(props PanelProps) PanelView {
	p.props = props

	key := panelKey{id: props.Todolist.ID, demo: props.Demo}
	if !p.mounted || key != p.key {
		p.stopFetch()
		p.mounted = true
		p.key = key
		if !props.Demo && p.fetch != nil {
			id := key.id
			p.cancel = p.runner.Go("fetch tasks", func(ctx context.Context) error {
				return p.fetch(ctx, id)
			})
		}
	}

	return p.View()
}

// Unmount cancels an in-flight fetch. A later Sync mounts the panel again.
func (p *Panel) Unmount() {
	p.stopFetch()
	p.mounted = false
}

func (p *Panel) stopFetch() {
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
}

// View computes the panel from the current props.
func (p *Panel) View() PanelView {
	props := p.props
	cb := props.Callbacks
	if cb == nil {
		cb = &Callbacks{}
	}
	tl := props.Todolist

	visible := FilterTasks(props.Tasks, tl.Filter)
	rows := make([]TaskRow, len(visible))
	for i, t := range visible {
		rows[i] = TaskRow{Task: t, TodolistID: tl.ID, cb: cb}
	}

	filters := make([]FilterButton, len(store.Filters))
	for i, f := range store.Filters {
		filters[i] = FilterButton{
			Value:      f,
			Label:      filterLabels[f],
			Active:     tl.Filter == f,
			todolistID: tl.ID,
			cb:         cb,
		}
	}

	var added string
	if !tl.AddedDate.IsZero() {
		added = tl.AddedDate.Format(DateLayout)
	}

	return PanelView{
		Todolist:  tl,
		AddedDate: added,
		Rows:      rows,
		Filters:   filters,
		Progress:  ProgressOf(props.Tasks),
		Disabled:  tl.IsLoading(),
		cb:        cb,
	}
}
