package view

import (
	"context"
	"time"

	"github.com/hy4ri/todolists-tui/internal/api"
	"github.com/hy4ri/todolists-tui/internal/ops"
	"github.com/hy4ri/todolists-tui/internal/store"
)

// LoginPath is where logged out users are sent.
const LoginPath = "/login"

// Operations are the data operations the collection delegates to.
// *ops.Operations implements it.
type Operations interface {
	FetchTodolists(ctx context.Context) error
	FetchTasks(ctx context.Context, todolistID string) error
	AddTodolist(ctx context.Context, title string) error
	RemoveTodolist(ctx context.Context, id string) error
	ChangeTodolistTitle(ctx context.Context, id, title string) error
	MoveTodolist(ctx context.Context, id string, delta int) error
	AddTask(ctx context.Context, title, todolistID string) error
	RemoveTask(ctx context.Context, taskID, todolistID string) error
	UpdateTask(ctx context.Context, taskID string, patch store.TaskPatch, todolistID string) error
	MoveTask(ctx context.Context, todolistID, taskID string, delta int) error
}

var _ Operations = (*ops.Operations)(nil)

// CollectionProps is the input of a collection render.
type CollectionProps struct {
	Demo bool
	// Width is the available width in terminal cells.
	Width int
	// Breakpoints are the descending widths below which a column is dropped.
	Breakpoints []int
}

// Output is the result of rendering the collection. When Redirect is set
// nothing else is.
type Output struct {
	Redirect string
	Panels   []PanelView
	Columns  [][]PanelView

	collection *Collection
}

// AddTodolist requests a new list.
func (o Output) AddTodolist(title string) {
	if o.collection == nil || o.Redirect != "" {
		return
	}
	o.collection.addTodolist(title)
}

type collectionKey struct {
	demo     bool
	loggedIn bool
}

// Collection is the screen listing every todo list.
type Collection struct {
	store  *store.Store
	ops    Operations
	runner ops.Runner

	callbacks *Callbacks
	panels    map[string]*Panel

	key     collectionKey
	mounted bool
	cancel  context.CancelFunc
}

// NewCollection creates the collection. Its callbacks are bound once and
// stay the same across renders.
func NewCollection(s *store.Store, o Operations, runner ops.Runner) *Collection {
	c := &Collection{
		store:  s,
		ops:    o,
		runner: runner,
		panels: make(map[string]*Panel),
	}
	c.callbacks = c.bindCallbacks()
	return c
}

func (c *Collection) bindCallbacks() *Callbacks {
	run := func(name string, fn func(ctx context.Context) error) {
		c.runner.Go(name, fn)
	}
	update := func(taskID string, patch store.TaskPatch, todolistID string) {
		run("update task", func(ctx context.Context) error {
			return c.ops.UpdateTask(ctx, taskID, patch, todolistID)
		})
	}

	return &Callbacks{
		AddTask: func(title, todolistID string) {
			run("add task", func(ctx context.Context) error {
				return c.ops.AddTask(ctx, title, todolistID)
			})
		},
		RemoveTask: func(taskID, todolistID string) {
			run("remove task", func(ctx context.Context) error {
				return c.ops.RemoveTask(ctx, taskID, todolistID)
			})
		},
		ChangeTaskStatus: func(taskID string, status api.TaskStatus, todolistID string) {
			update(taskID, store.TaskPatch{Status: &status}, todolistID)
		},
		ChangeTaskTitle: func(taskID, title, todolistID string) {
			update(taskID, store.TaskPatch{Title: &title}, todolistID)
		},
		ChangeTaskDescription: func(taskID, description, todolistID string) {
			update(taskID, store.TaskPatch{Description: &description}, todolistID)
		},
		ChangeTaskDeadline: func(taskID string, deadline time.Time, todolistID string) {
			d := api.NewTime(deadline)
			update(taskID, store.TaskPatch{Deadline: &d}, todolistID)
		},
		ChangeTaskPriority: func(taskID string, priority api.TaskPriority, todolistID string) {
			update(taskID, store.TaskPatch{Priority: &priority}, todolistID)
		},
		MoveTask: func(taskID string, delta int, todolistID string) {
			run("move task", func(ctx context.Context) error {
				return c.ops.MoveTask(ctx, todolistID, taskID, delta)
			})
		},
		ChangeFilter: func(filter store.FilterValue, todolistID string) {
			c.store.Dispatch(store.ChangeTodolistFilter{ID: todolistID, Filter: filter})
		},
		RemoveTodolist: func(todolistID string) {
			run("remove todolist", func(ctx context.Context) error {
				return c.ops.RemoveTodolist(ctx, todolistID)
			})
		},
		ChangeTodolistTitle: func(todolistID, title string) {
			run("rename todolist", func(ctx context.Context) error {
				return c.ops.ChangeTodolistTitle(ctx, todolistID, title)
			})
		},
		MoveTodolist: func(todolistID string, delta int) {
			run("move todolist", func(ctx context.Context) error {
				return c.ops.MoveTodolist(ctx, todolistID, delta)
			})
		},
	}
}

func (c *Collection) addTodolist(title string) {
	c.runner.Go("add todolist", func(ctx context.Context) error {
		return c.ops.AddTodolist(ctx, title)
	})
}

// Render computes the screen from the current state. It runs the list
// fetch once per change of the (demo, logged in) pair and keeps one
// mounted panel per list.
func (c *Collection) Render(props CollectionProps) Output {
	state := c.store.GetState()

	key := collectionKey{demo: props.Demo, loggedIn: state.Auth.IsLoggedIn}
	if !c.mounted || key != c.key {
		c.stopFetch()
		c.mounted = true
		c.key = key
		if key.loggedIn && !key.demo {
			c.cancel = c.runner.Go("fetch todolists", c.ops.FetchTodolists)
		}
	}

	if !state.Auth.IsLoggedIn {
		c.unmountPanels(nil)
		return Output{Redirect: LoginPath}
	}

	seen := make(map[string]bool, len(state.Todolists))
	views := make([]PanelView, 0, len(state.Todolists))
	for _, tl := range state.Todolists {
		seen[tl.ID] = true

		p, ok := c.panels[tl.ID]
		if !ok {
			p = NewPanel(c.runner, c.ops.FetchTasks)
			c.panels[tl.ID] = p
		}

		tasks := state.Tasks[tl.ID]
		if tasks == nil {
			tasks = []api.Task{}
		}
		views = append(views, p.Sync(PanelProps{
			Todolist:  tl,
			Tasks:     tasks,
			Demo:      props.Demo,
			Callbacks: c.callbacks,
		}))
	}
	c.unmountPanels(seen)

	return Output{
		Panels:     views,
		Columns:    Masonry(views, ColumnCount(props.Width, props.Breakpoints)),
		collection: c,
	}
}

// Close unmounts the collection, cancelling every fetch it started.
func (c *Collection) Close() {
	c.stopFetch()
	c.mounted = false
	c.unmountPanels(nil)
}

// unmountPanels drops the panels whose ids are not in keep.
func (c *Collection) unmountPanels(keep map[string]bool) {
	for id, p := range c.panels {
		if !keep[id] {
			p.Unmount()
			delete(c.panels, id)
		}
	}
}

func (c *Collection) stopFetch() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}
