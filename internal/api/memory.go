package api

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is an in-process backend with the same method set as Client.
// It backs demo mode, where nothing may touch the network.
type Memory struct {
	mu        sync.Mutex
	todolists []Todolist
	tasks     map[string][]Task
	loggedIn  bool
	now       func() time.Time
}

// NewMemory creates an empty in-memory backend with a logged-in session.
func NewMemory() *Memory {
	return &Memory{
		tasks:    make(map[string][]Task),
		loggedIn: true,
		now:      time.Now,
	}
}

// NewDemoMemory creates an in-memory backend seeded with sample lists.
func NewDemoMemory() *Memory {
	m := NewMemory()
	learn := m.seedList("What to learn")
	m.seedTask(learn, "HTML & CSS", TaskStatusCompleted, PriorityLow)
	m.seedTask(learn, "JavaScript", TaskStatusCompleted, PriorityMiddle)
	m.seedTask(learn, "Go", TaskStatusNew, PriorityHi)
	m.seedTask(learn, "Bubble Tea", TaskStatusNew, PriorityMiddle)

	buy := m.seedList("What to buy")
	m.seedTask(buy, "Milk", TaskStatusNew, PriorityLow)
	m.seedTask(buy, "Bread", TaskStatusCompleted, PriorityLow)
	m.seedTask(buy, "Coffee", TaskStatusNew, PriorityUrgently)

	m.seedList("Someday")
	return m
}

func (m *Memory) seedList(title string) string {
	tl := Todolist{ID: uuid.NewString(), Title: title, AddedDate: NewTime(m.now()), Order: len(m.todolists)}
	m.todolists = append(m.todolists, tl)
	m.tasks[tl.ID] = []Task{}
	return tl.ID
}

func (m *Memory) seedTask(todolistID, title string, status TaskStatus, priority TaskPriority) {
	m.tasks[todolistID] = append(m.tasks[todolistID], Task{
		ID:         uuid.NewString(),
		TodoListID: todolistID,
		Title:      title,
		Status:     status,
		Priority:   priority,
		Order:      len(m.tasks[todolistID]),
		AddedDate:  NewTime(m.now()),
	})
}

// Snapshot returns copies of the stored lists and tasks.
func (m *Memory) Snapshot() ([]Todolist, map[string][]Task) {
	m.mu.Lock()
	defer m.mu.Unlock()

	todolists := append([]Todolist(nil), m.todolists...)
	tasks := make(map[string][]Task, len(m.tasks))
	for id, ts := range m.tasks {
		tasks[id] = append([]Task{}, ts...)
	}
	return todolists, tasks
}

func (m *Memory) indexOfList(id string) int {
	for i := range m.todolists {
		if m.todolists[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Memory) indexOfTask(todolistID, taskID string) int {
	for i := range m.tasks[todolistID] {
		if m.tasks[todolistID][i].ID == taskID {
			return i
		}
	}
	return -1
}

// GetTodolists implements the client method of the same name.
func (m *Memory) GetTodolists(ctx context.Context) ([]Todolist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	todolists, _ := m.Snapshot()
	return todolists, nil
}

// CreateTodolist implements the client method of the same name.
// New lists go to the front, as the service does.
func (m *Memory) CreateTodolist(ctx context.Context, title string) (*Todolist, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, &ResultError{ResultCode: ResultCodeError, Messages: []string{"Title is required"}}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	tl := Todolist{ID: uuid.NewString(), Title: title, AddedDate: NewTime(m.now())}
	m.todolists = append([]Todolist{tl}, m.todolists...)
	m.tasks[tl.ID] = []Task{}
	return &tl, nil
}

// DeleteTodolist implements the client method of the same name.
func (m *Memory) DeleteTodolist(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOfList(id)
	if i < 0 {
		return fmt.Errorf("todolist %s: %w", id, ErrNotFound)
	}
	m.todolists = append(m.todolists[:i:i], m.todolists[i+1:]...)
	delete(m.tasks, id)
	return nil
}

// UpdateTodolistTitle implements the client method of the same name.
func (m *Memory) UpdateTodolistTitle(ctx context.Context, id, title string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOfList(id)
	if i < 0 {
		return fmt.Errorf("todolist %s: %w", id, ErrNotFound)
	}
	m.todolists[i].Title = title
	return nil
}

// ReorderTodolist implements the client method of the same name.
func (m *Memory) ReorderTodolist(ctx context.Context, id, afterID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOfList(id)
	if i < 0 {
		return fmt.Errorf("todolist %s: %w", id, ErrNotFound)
	}
	moved := m.todolists[i]
	rest := append(m.todolists[:i:i], m.todolists[i+1:]...)

	pos := 0
	if afterID != "" {
		pos = -1
		for j := range rest {
			if rest[j].ID == afterID {
				pos = j + 1
				break
			}
		}
		if pos < 0 {
			return fmt.Errorf("todolist %s: %w", afterID, ErrNotFound)
		}
	}

	out := make([]Todolist, 0, len(rest)+1)
	out = append(out, rest[:pos]...)
	out = append(out, moved)
	out = append(out, rest[pos:]...)
	m.todolists = out
	return nil
}

// GetTasks implements the client method of the same name.
func (m *Memory) GetTasks(ctx context.Context, todolistID string) ([]Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOfList(todolistID) < 0 {
		return nil, fmt.Errorf("todolist %s: %w", todolistID, ErrNotFound)
	}
	return append([]Task{}, m.tasks[todolistID]...), nil
}

// CreateTask implements the client method of the same name.
func (m *Memory) CreateTask(ctx context.Context, todolistID, title string) (*Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if title == "" {
		return nil, &ResultError{ResultCode: ResultCodeError, Messages: []string{"Title is required"}}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexOfList(todolistID) < 0 {
		return nil, fmt.Errorf("todolist %s: %w", todolistID, ErrNotFound)
	}
	task := Task{
		ID:         uuid.NewString(),
		TodoListID: todolistID,
		Title:      title,
		Status:     TaskStatusNew,
		AddedDate:  NewTime(m.now()),
	}
	m.tasks[todolistID] = append([]Task{task}, m.tasks[todolistID]...)
	return &task, nil
}

// UpdateTask implements the client method of the same name.
func (m *Memory) UpdateTask(ctx context.Context, todolistID, taskID string, model UpdateTaskModel) (*Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOfTask(todolistID, taskID)
	if i < 0 {
		return nil, fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	updated := model.Apply(m.tasks[todolistID][i])
	m.tasks[todolistID][i] = updated
	return &updated, nil
}

// DeleteTask implements the client method of the same name.
func (m *Memory) DeleteTask(ctx context.Context, todolistID, taskID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOfTask(todolistID, taskID)
	if i < 0 {
		return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	ts := m.tasks[todolistID]
	m.tasks[todolistID] = append(ts[:i:i], ts[i+1:]...)
	return nil
}

// ReorderTask implements the client method of the same name.
func (m *Memory) ReorderTask(ctx context.Context, todolistID, taskID, afterID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOfTask(todolistID, taskID)
	if i < 0 {
		return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
	}
	ts := m.tasks[todolistID]
	moved := ts[i]
	rest := append(ts[:i:i], ts[i+1:]...)

	pos := 0
	if afterID != "" {
		pos = -1
		for j := range rest {
			if rest[j].ID == afterID {
				pos = j + 1
				break
			}
		}
		if pos < 0 {
			return fmt.Errorf("task %s: %w", afterID, ErrNotFound)
		}
	}

	out := make([]Task, 0, len(ts))
	out = append(out, rest[:pos]...)
	out = append(out, moved)
	out = append(out, rest[pos:]...)
	m.tasks[todolistID] = out
	return nil
}

// Me implements the client method of the same name.
func (m *Memory) Me(ctx context.Context) (*Me, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.loggedIn {
		return nil, &ResultError{ResultCode: ResultCodeError, Messages: []string{"You are not authorized"}}
	}
	return &Me{ID: 1, Email: "demo@example.com", Login: "demo"}, nil
}

// Login implements the client method of the same name. Any non-empty
// credentials are accepted.
func (m *Memory) Login(ctx context.Context, req LoginRequest) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if req.Email == "" || req.Password == "" {
		return 0, &ResultError{ResultCode: ResultCodeError, Messages: []string{"Incorrect Email or Password"}}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.loggedIn = true
	return 1, nil
}

// Logout implements the client method of the same name.
func (m *Memory) Logout(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.loggedIn = false
	return nil
}
