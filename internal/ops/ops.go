// Package ops implements the asynchronous data operations. Each operation
// performs the request through the backend and records the outcome in the
// store: app status, per-list entity status and errors.
package ops

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/hy4ri/todolists-tui/internal/api"
	"github.com/hy4ri/todolists-tui/internal/store"
)

// API is the backend used by the operations. Both *api.Client and
// *api.Memory implement it.
type API interface {
	GetTodolists(ctx context.Context) ([]api.Todolist, error)
	CreateTodolist(ctx context.Context, title string) (*api.Todolist, error)
	DeleteTodolist(ctx context.Context, id string) error
	UpdateTodolistTitle(ctx context.Context, id, title string) error
	ReorderTodolist(ctx context.Context, id, afterID string) error

	GetTasks(ctx context.Context, todolistID string) ([]api.Task, error)
	CreateTask(ctx context.Context, todolistID, title string) (*api.Task, error)
	UpdateTask(ctx context.Context, todolistID, taskID string, model api.UpdateTaskModel) (*api.Task, error)
	DeleteTask(ctx context.Context, todolistID, taskID string) error
	ReorderTask(ctx context.Context, todolistID, taskID, afterID string) error

	Me(ctx context.Context) (*api.Me, error)
	Login(ctx context.Context, req api.LoginRequest) (int, error)
	Logout(ctx context.Context) error
}

var (
	_ API = (*api.Client)(nil)
	_ API = (*api.Memory)(nil)
)

// ErrTaskNotFound is returned by UpdateTask for a task missing from the state.
var ErrTaskNotFound = errors.New("task not found")

// ErrCaptchaRequired is returned by Login when the service asks for a captcha.
var ErrCaptchaRequired = errors.New("captcha required, log in through the website first")

// maxParallelFetches bounds the task fetches started by RefreshAll.
const maxParallelFetches = 4

// Operations runs requests against the backend and dispatches the results.
type Operations struct {
	api    API
	store  *store.Store
	logger *log.Logger
	notify Notifier
}

// New creates the operations for a backend and store.
func New(backend API, s *store.Store, logger *log.Logger) *Operations {
	return &Operations{
		api:    backend,
		store:  s,
		logger: logger,
	}
}

// SetNotifier sets the notifier told about failed operations.
func (o *Operations) SetNotifier(n Notifier) {
	o.notify = n
}

// Store returns the store the operations write to.
func (o *Operations) Store() *store.Store {
	return o.store
}

func (o *Operations) dispatch(actions ...store.Action) {
	for _, a := range actions {
		o.store.Dispatch(a)
	}
}

func (o *Operations) start() {
	o.dispatch(store.SetAppStatus{Status: store.StatusLoading})
}

func (o *Operations) succeed() {
	o.dispatch(store.SetAppStatus{Status: store.StatusSucceeded})
}

// fail records err in the store. Cancelled operations leave the state alone.
func (o *Operations) fail(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		o.logger.Debug("operation cancelled", "op", op)
		if o.store.GetState().App.Status == store.StatusLoading {
			o.dispatch(store.SetAppStatus{Status: store.StatusIdle})
		}
		return err
	}

	msg := api.UserMessage(err)
	if errors.Is(err, ErrCaptchaRequired) {
		msg = ErrCaptchaRequired.Error()
	}
	o.logger.Error("operation failed", "op", op, "err", err)

	if apiErr, ok := api.IsAPIError(err); ok && apiErr.IsUnauthorized() {
		o.dispatch(store.SetLoggedIn{Value: false})
	}
	o.dispatch(
		store.SetAppError{Error: msg},
		store.SetAppStatus{Status: store.StatusFailed},
	)

	if o.notify != nil {
		if nerr := o.notify.Notify("Todolists", msg); nerr != nil {
			o.logger.Warn("failed to send notification", "err", nerr)
		}
	}
	return err
}

// trackList marks the list as loading while fn runs.
func (o *Operations) trackList(id string, fn func() error) error {
	o.dispatch(store.ChangeTodolistEntityStatus{ID: id, Status: store.StatusLoading})
	err := fn()
	o.dispatch(store.ChangeTodolistEntityStatus{ID: id, Status: store.StatusIdle})
	return err
}

// ClearError dismisses the current error.
func (o *Operations) ClearError() {
	o.dispatch(store.SetAppError{Error: ""})
}

// FetchTodolists loads every todo list.
func (o *Operations) FetchTodolists(ctx context.Context) error {
	o.logger.Debug("fetch todolists")
	o.start()

	todolists, err := o.api.GetTodolists(ctx)
	if err != nil {
		return o.fail(ctx, "fetch todolists", fmt.Errorf("failed to fetch todolists: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return o.fail(ctx, "fetch todolists", err)
	}

	o.dispatch(store.SetTodolists{Todolists: todolists})
	o.succeed()
	return nil
}

// FetchTasks loads the tasks of one list.
func (o *Operations) FetchTasks(ctx context.Context, todolistID string) error {
	o.logger.Debug("fetch tasks", "list", todolistID)
	o.start()

	tasks, err := o.api.GetTasks(ctx, todolistID)
	if err != nil {
		return o.fail(ctx, "fetch tasks", fmt.Errorf("failed to fetch tasks: %w", err))
	}
	if err := ctx.Err(); err != nil {
		return o.fail(ctx, "fetch tasks", err)
	}

	o.dispatch(store.SetTasks{TodolistID: todolistID, Tasks: tasks})
	o.succeed()
	return nil
}

// RefreshAll reloads the lists and then the tasks of every list concurrently.
// A failing list does not stop the others; the first error is returned and
// the app status ends as failed.
func (o *Operations) RefreshAll(ctx context.Context) error {
	if err := o.FetchTodolists(ctx); err != nil {
		return err
	}

	var g errgroup.Group
	g.SetLimit(maxParallelFetches)
	for _, tl := range o.store.GetState().Todolists {
		id := tl.ID
		g.Go(func() error {
			return o.FetchTasks(ctx, id)
		})
	}
	if err := g.Wait(); err != nil {
		if ctx.Err() == nil {
			o.dispatch(store.SetAppStatus{Status: store.StatusFailed})
		}
		return err
	}
	return nil
}

// AddTodolist creates a list with the given title.
func (o *Operations) AddTodolist(ctx context.Context, title string) error {
	o.logger.Debug("add todolist", "title", title)
	o.start()

	tl, err := o.api.CreateTodolist(ctx, title)
	if err != nil {
		return o.fail(ctx, "add todolist", fmt.Errorf("failed to create todolist: %w", err))
	}

	o.dispatch(store.AddTodolist{Todolist: *tl})
	o.succeed()
	return nil
}

// RemoveTodolist deletes a list.
func (o *Operations) RemoveTodolist(ctx context.Context, id string) error {
	o.logger.Debug("remove todolist", "list", id)
	o.start()

	err := o.trackList(id, func() error {
		return o.api.DeleteTodolist(ctx, id)
	})
	if err != nil {
		return o.fail(ctx, "remove todolist", fmt.Errorf("failed to delete todolist: %w", err))
	}

	o.dispatch(store.RemoveTodolist{ID: id})
	o.succeed()
	return nil
}

// ChangeTodolistTitle renames a list.
func (o *Operations) ChangeTodolistTitle(ctx context.Context, id, title string) error {
	o.logger.Debug("rename todolist", "list", id, "title", title)
	o.start()

	err := o.trackList(id, func() error {
		return o.api.UpdateTodolistTitle(ctx, id, title)
	})
	if err != nil {
		return o.fail(ctx, "rename todolist", fmt.Errorf("failed to rename todolist: %w", err))
	}

	o.dispatch(store.ChangeTodolistTitle{ID: id, Title: title})
	o.succeed()
	return nil
}

// ReorderTodolist moves a list after afterID, or to the front when empty.
func (o *Operations) ReorderTodolist(ctx context.Context, id, afterID string) error {
	o.logger.Debug("reorder todolist", "list", id, "after", afterID)
	o.start()

	err := o.trackList(id, func() error {
		return o.api.ReorderTodolist(ctx, id, afterID)
	})
	if err != nil {
		return o.fail(ctx, "reorder todolist", fmt.Errorf("failed to reorder todolist: %w", err))
	}

	o.dispatch(store.ReorderTodolist{ID: id, AfterID: afterID})
	o.succeed()
	return nil
}

// MoveTodolist moves a list delta positions. Moves past either end are
// ignored.
func (o *Operations) MoveTodolist(ctx context.Context, id string, delta int) error {
	tls := o.store.GetState().Todolists
	ids := make([]string, len(tls))
	for i, tl := range tls {
		ids[i] = tl.ID
	}

	afterID, ok := anchorFor(ids, id, delta)
	if !ok {
		return nil
	}
	return o.ReorderTodolist(ctx, id, afterID)
}

// AddTask creates a task in a list.
func (o *Operations) AddTask(ctx context.Context, title, todolistID string) error {
	o.logger.Debug("add task", "list", todolistID, "title", title)
	o.start()

	var task *api.Task
	err := o.trackList(todolistID, func() (err error) {
		task, err = o.api.CreateTask(ctx, todolistID, title)
		return err
	})
	if err != nil {
		return o.fail(ctx, "add task", fmt.Errorf("failed to create task: %w", err))
	}

	o.dispatch(store.AddTask{Task: *task})
	o.succeed()
	return nil
}

// RemoveTask deletes a task.
func (o *Operations) RemoveTask(ctx context.Context, taskID, todolistID string) error {
	o.logger.Debug("remove task", "list", todolistID, "task", taskID)
	o.start()

	if err := o.api.DeleteTask(ctx, todolistID, taskID); err != nil {
		return o.fail(ctx, "remove task", fmt.Errorf("failed to delete task: %w", err))
	}

	o.dispatch(store.RemoveTask{TodolistID: todolistID, TaskID: taskID})
	o.succeed()
	return nil
}

// UpdateTask applies a partial update. The service replaces every field, so
// the patch is merged into the task's current model from the state.
func (o *Operations) UpdateTask(ctx context.Context, taskID string, patch store.TaskPatch, todolistID string) error {
	task, ok := o.store.GetState().Task(todolistID, taskID)
	if !ok {
		o.logger.Warn("task not found in the state", "list", todolistID, "task", taskID)
		return fmt.Errorf("task %s: %w", taskID, ErrTaskNotFound)
	}
	if patch.IsEmpty() {
		return nil
	}

	o.logger.Debug("update task", "list", todolistID, "task", taskID)
	o.start()

	model := patch.Apply(task.UpdateModel())
	updated, err := o.api.UpdateTask(ctx, todolistID, taskID, model)
	if err != nil {
		return o.fail(ctx, "update task", fmt.Errorf("failed to update task: %w", err))
	}
	if updated != nil {
		model = updated.UpdateModel()
	}

	o.dispatch(store.UpdateTask{TodolistID: todolistID, TaskID: taskID, Model: model})
	o.succeed()
	return nil
}

// ReorderTask moves a task after afterID, or to the front when empty.
func (o *Operations) ReorderTask(ctx context.Context, todolistID, taskID, afterID string) error {
	o.logger.Debug("reorder task", "list", todolistID, "task", taskID, "after", afterID)
	o.start()

	if err := o.api.ReorderTask(ctx, todolistID, taskID, afterID); err != nil {
		return o.fail(ctx, "reorder task", fmt.Errorf("failed to reorder task: %w", err))
	}

	o.dispatch(store.ReorderTask{TodolistID: todolistID, TaskID: taskID, AfterID: afterID})
	o.succeed()
	return nil
}

// MoveTask moves a task delta positions within its list. Moves past either
// end are ignored.
func (o *Operations) MoveTask(ctx context.Context, todolistID, taskID string, delta int) error {
	tasks := o.store.GetState().Tasks[todolistID]
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}

	afterID, ok := anchorFor(ids, taskID, delta)
	if !ok {
		return nil
	}
	return o.ReorderTask(ctx, todolistID, taskID, afterID)
}

// anchorFor returns the id the item must follow after moving it delta
// positions, "" meaning the front. It reports false when the move is a no-op.
func anchorFor(ids []string, id string, delta int) (string, bool) {
	from := -1
	for i := range ids {
		if ids[i] == id {
			from = i
			break
		}
	}
	to := from + delta
	if from < 0 || delta == 0 || to < 0 || to >= len(ids) {
		return "", false
	}

	rest := make([]string, 0, len(ids)-1)
	rest = append(rest, ids[:from]...)
	rest = append(rest, ids[from+1:]...)
	if to == 0 {
		return "", true
	}
	return rest[to-1], true
}

// Initialize checks the session and marks the app initialized.
func (o *Operations) Initialize(ctx context.Context) error {
	o.logger.Debug("initialize")
	o.start()
	defer o.dispatch(store.SetAppInitialized{Value: true})

	me, err := o.api.Me(ctx)
	if err != nil {
		// A rejected envelope only means there is no session.
		if _, ok := api.IsResultError(err); ok {
			o.dispatch(store.SetLoggedIn{Value: false})
			o.succeed()
			return nil
		}
		return o.fail(ctx, "initialize", fmt.Errorf("failed to check session: %w", err))
	}

	o.dispatch(store.SetLoggedIn{Value: true, Login: me.Login})
	o.succeed()
	return nil
}

// Login starts a session.
func (o *Operations) Login(ctx context.Context, req api.LoginRequest) error {
	o.logger.Debug("login", "email", req.Email)
	o.start()

	if _, err := o.api.Login(ctx, req); err != nil {
		if resErr, ok := api.IsResultError(err); ok && resErr.IsCaptchaRequired() {
			err = fmt.Errorf("%w: %v", ErrCaptchaRequired, err)
		}
		return o.fail(ctx, "login", fmt.Errorf("failed to log in: %w", err))
	}

	login := req.Email
	if me, err := o.api.Me(ctx); err == nil {
		login = me.Login
	} else {
		o.logger.Warn("failed to load profile after login", "err", err)
	}

	o.dispatch(store.SetLoggedIn{Value: true, Login: login})
	o.succeed()
	return nil
}

// Logout ends the session and drops all loaded data.
func (o *Operations) Logout(ctx context.Context) error {
	o.logger.Debug("logout")
	o.start()

	if err := o.api.Logout(ctx); err != nil {
		return o.fail(ctx, "logout", fmt.Errorf("failed to log out: %w", err))
	}

	o.dispatch(
		store.SetLoggedIn{Value: false},
		store.ClearData{},
	)
	o.succeed()
	return nil
}
