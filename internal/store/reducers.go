package store

import "github.com/hy4ri/todolists-tui/internal/api"

// Reducer computes the next state. It must not modify its input.
type Reducer func(State, Action) State

// Reduce is the root reducer.
func Reduce(s State, a Action) State {
	return State{
		App:       reduceApp(s.App, a),
		Auth:      reduceAuth(s.Auth, a),
		Todolists: reduceTodolists(s.Todolists, a),
		Tasks:     reduceTasks(s.Tasks, a),
	}
}

func reduceApp(s AppState, a Action) AppState {
	switch a := a.(type) {
	case SetAppStatus:
		s.Status = a.Status
	case SetAppError:
		s.Error = a.Error
	case SetAppInitialized:
		s.IsInitialized = a.Value
	}
	return s
}

func reduceAuth(s AuthState, a Action) AuthState {
	if a, ok := a.(SetLoggedIn); ok {
		s.IsLoggedIn = a.Value
		s.Login = a.Login
	}
	return s
}

func newDomain(tl api.Todolist) TodolistDomain {
	return TodolistDomain{Todolist: tl, Filter: FilterAll, EntityStatus: StatusIdle}
}

// mapTodolist returns a copy of s with fn applied to the list with the given id.
func mapTodolist(s []TodolistDomain, id string, fn func(*TodolistDomain)) []TodolistDomain {
	out := make([]TodolistDomain, len(s))
	copy(out, s)
	for i := range out {
		if out[i].ID == id {
			fn(&out[i])
		}
	}
	return out
}

func reduceTodolists(s []TodolistDomain, a Action) []TodolistDomain {
	switch a := a.(type) {
	case SetTodolists:
		// Lists already on screen keep their filter and status.
		out := make([]TodolistDomain, 0, len(a.Todolists))
		for _, tl := range a.Todolists {
			d := newDomain(tl)
			for _, prev := range s {
				if prev.ID == tl.ID {
					d.Filter = prev.Filter
					d.EntityStatus = prev.EntityStatus
					break
				}
			}
			out = append(out, d)
		}
		return out
	case AddTodolist:
		out := make([]TodolistDomain, 0, len(s)+1)
		out = append(out, newDomain(a.Todolist))
		return append(out, s...)
	case RemoveTodolist:
		out := make([]TodolistDomain, 0, len(s))
		for _, tl := range s {
			if tl.ID != a.ID {
				out = append(out, tl)
			}
		}
		return out
	case ChangeTodolistTitle:
		return mapTodolist(s, a.ID, func(tl *TodolistDomain) { tl.Title = a.Title })
	case ChangeTodolistFilter:
		return mapTodolist(s, a.ID, func(tl *TodolistDomain) { tl.Filter = a.Filter })
	case ChangeTodolistEntityStatus:
		return mapTodolist(s, a.ID, func(tl *TodolistDomain) { tl.EntityStatus = a.Status })
	case ReorderTodolist:
		return moveAfter(s, func(tl TodolistDomain) string { return tl.ID }, a.ID, a.AfterID)
	case ClearData:
		return []TodolistDomain{}
	}
	return s
}

// copyTasks returns a shallow copy of the map; slices are shared and must be
// replaced, not modified.
func copyTasks(s TasksState) TasksState {
	out := make(TasksState, len(s))
	for id, ts := range s {
		out[id] = ts
	}
	return out
}

func reduceTasks(s TasksState, a Action) TasksState {
	switch a := a.(type) {
	case SetTodolists:
		out := make(TasksState, len(a.Todolists))
		for _, tl := range a.Todolists {
			if ts, ok := s[tl.ID]; ok {
				out[tl.ID] = ts
			} else {
				out[tl.ID] = []api.Task{}
			}
		}
		return out
	case AddTodolist:
		out := copyTasks(s)
		out[a.Todolist.ID] = []api.Task{}
		return out
	case RemoveTodolist:
		out := copyTasks(s)
		delete(out, a.ID)
		return out
	case ClearData:
		return TasksState{}
	case SetTasks:
		out := copyTasks(s)
		out[a.TodolistID] = append([]api.Task{}, a.Tasks...)
		return out
	case AddTask:
		out := copyTasks(s)
		ts := make([]api.Task, 0, len(s[a.Task.TodoListID])+1)
		ts = append(ts, a.Task)
		out[a.Task.TodoListID] = append(ts, s[a.Task.TodoListID]...)
		return out
	case RemoveTask:
		prev, ok := s[a.TodolistID]
		if !ok {
			return s
		}
		out := copyTasks(s)
		ts := make([]api.Task, 0, len(prev))
		for _, t := range prev {
			if t.ID != a.TaskID {
				ts = append(ts, t)
			}
		}
		out[a.TodolistID] = ts
		return out
	case UpdateTask:
		prev, ok := s[a.TodolistID]
		if !ok {
			return s
		}
		out := copyTasks(s)
		ts := make([]api.Task, len(prev))
		copy(ts, prev)
		for i := range ts {
			if ts[i].ID == a.TaskID {
				ts[i] = a.Model.Apply(ts[i])
			}
		}
		out[a.TodolistID] = ts
		return out
	case ReorderTask:
		prev, ok := s[a.TodolistID]
		if !ok {
			return s
		}
		out := copyTasks(s)
		out[a.TodolistID] = moveAfter(prev, func(t api.Task) string { return t.ID }, a.TaskID, a.AfterID)
		return out
	}
	return s
}

// moveAfter returns a copy of items with the item id placed right after
// afterID, or first when afterID is empty. Unknown ids leave the order as is.
func moveAfter[T any](items []T, key func(T) string, id, afterID string) []T {
	from := -1
	for i, it := range items {
		if key(it) == id {
			from = i
			break
		}
	}
	if from < 0 {
		return items
	}

	rest := make([]T, 0, len(items))
	rest = append(rest, items[:from]...)
	rest = append(rest, items[from+1:]...)

	to := 0
	if afterID != "" {
		to = -1
		for i, it := range rest {
			if key(it) == afterID {
				to = i + 1
				break
			}
		}
		if to < 0 {
			return items
		}
	}

	out := make([]T, 0, len(items))
	out = append(out, rest[:to]...)
	out = append(out, items[from])
	return append(out, rest[to:]...)
}
