package store

import "github.com/hy4ri/todolists-tui/internal/api"

// Action is a state change request handled by the reducers.
type Action interface {
	action()
}

// App actions.
type (
	SetAppStatus      struct{ Status RequestStatus }
	SetAppError       struct{ Error string }
	SetAppInitialized struct{ Value bool }
)

// Auth actions.
type (
	SetLoggedIn struct {
		Value bool
		Login string
	}
	// ClearData drops all lists and tasks, e.g. after logout.
	ClearData struct{}
)

// Todolist actions.
type (
	SetTodolists        struct{ Todolists []api.Todolist }
	AddTodolist         struct{ Todolist api.Todolist }
	RemoveTodolist      struct{ ID string }
	ChangeTodolistTitle struct {
		ID    string
		Title string
	}
	ChangeTodolistFilter struct {
		ID     string
		Filter FilterValue
	}
	ChangeTodolistEntityStatus struct {
		ID     string
		Status RequestStatus
	}
	// ReorderTodolist moves a list after AfterID, or to the front when empty.
	ReorderTodolist struct {
		ID      string
		AfterID string
	}
)

// Task actions.
type (
	SetTasks struct {
		TodolistID string
		Tasks      []api.Task
	}
	AddTask    struct{ Task api.Task }
	RemoveTask struct {
		TodolistID string
		TaskID     string
	}
	UpdateTask struct {
		TodolistID string
		TaskID     string
		Model      api.UpdateTaskModel
	}
	// ReorderTask moves a task after AfterID, or to the front when empty.
	ReorderTask struct {
		TodolistID string
		TaskID     string
		AfterID    string
	}
)

func (SetAppStatus) action()               {}
func (SetAppError) action()                {}
func (SetAppInitialized) action()          {}
func (SetLoggedIn) action()                {}
func (ClearData) action()                  {}
func (SetTodolists) action()               {}
func (AddTodolist) action()                {}
func (RemoveTodolist) action()             {}
func (ChangeTodolistTitle) action()        {}
func (ChangeTodolistFilter) action()       {}
func (ChangeTodolistEntityStatus) action() {}
func (ReorderTodolist) action()            {}
func (SetTasks) action()                   {}
func (AddTask) action()                    {}
func (RemoveTask) action()                 {}
func (UpdateTask) action()                 {}
func (ReorderTask) action()                {}
