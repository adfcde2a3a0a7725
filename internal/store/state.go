// Package store holds the process-wide application state. State is only
// changed by dispatching actions, which pure reducers apply.
package store

import "github.com/hy4ri/todolists-tui/internal/api"

// FilterValue selects which tasks a todo list shows.
type FilterValue string

const (
	FilterAll       FilterValue = "all"
	FilterActive    FilterValue = "active"
	FilterCompleted FilterValue = "completed"
)

// Filters lists the filter values in display order.
var Filters = []FilterValue{FilterAll, FilterActive, FilterCompleted}

// RequestStatus tracks an in-flight request for the app or a single entity.
type RequestStatus string

const (
	StatusIdle      RequestStatus = "idle"
	StatusLoading   RequestStatus = "loading"
	StatusSucceeded RequestStatus = "succeeded"
	StatusFailed    RequestStatus = "failed"
)

// TodolistDomain is a todo list plus its UI-side state.
type TodolistDomain struct {
	api.Todolist
	Filter       FilterValue
	EntityStatus RequestStatus
}

// IsLoading reports whether an operation on the list is in flight.
func (t TodolistDomain) IsLoading() bool {
	return t.EntityStatus == StatusLoading
}

// TasksState maps a todo list id to its tasks in display order.
type TasksState map[string][]api.Task

// AppState is the global request status and error.
type AppState struct {
	Status        RequestStatus
	Error         string
	IsInitialized bool
}

// AuthState describes the session.
type AuthState struct {
	IsLoggedIn bool
	Login      string
}

// State is the whole application state.
type State struct {
	App       AppState
	Auth      AuthState
	Todolists []TodolistDomain
	Tasks     TasksState
}

// InitialState returns the state before anything is loaded.
func InitialState() State {
	return State{
		App:       AppState{Status: StatusIdle},
		Todolists: []TodolistDomain{},
		Tasks:     TasksState{},
	}
}

// Todolist returns the list with the given id.
func (s State) Todolist(id string) (TodolistDomain, bool) {
	for _, tl := range s.Todolists {
		if tl.ID == id {
			return tl, true
		}
	}
	return TodolistDomain{}, false
}

// Task returns the task with the given id from a list.
func (s State) Task(todolistID, taskID string) (api.Task, bool) {
	for _, t := range s.Tasks[todolistID] {
		if t.ID == taskID {
			return t, true
		}
	}
	return api.Task{}, false
}

// TaskPatch is a partial task update. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *api.TaskStatus
	Priority    *api.TaskPriority
	StartDate   *api.Time
	Deadline    *api.Time
}

// Apply returns m with the patch's non-nil fields applied.
func (p TaskPatch) Apply(m api.UpdateTaskModel) api.UpdateTaskModel {
	if p.Title != nil {
		m.Title = *p.Title
	}
	if p.Description != nil {
		m.Description = *p.Description
	}
	if p.Status != nil {
		m.Status = *p.Status
	}
	if p.Priority != nil {
		m.Priority = *p.Priority
	}
	if p.StartDate != nil {
		m.StartDate = *p.StartDate
	}
	if p.Deadline != nil {
		m.Deadline = *p.Deadline
	}
	return m
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.StartDate == nil && p.Deadline == nil
}
