package store

import (
	"testing"

	"github.com/hy4ri/todolists-tui/internal/api"
)

func stateWithLists(ids ...string) State {
	s := InitialState()
	tls := make([]api.Todolist, 0, len(ids))
	for _, id := range ids {
		tls = append(tls, api.Todolist{ID: id, Title: "list " + id})
	}
	return Reduce(s, SetTodolists{Todolists: tls})
}

func taskIDs(ts []api.Task) []string {
	ids := make([]string, 0, len(ts))
	for _, t := range ts {
		ids = append(ids, t.ID)
	}
	return ids
}

func listIDs(tls []TodolistDomain) []string {
	ids := make([]string, 0, len(tls))
	for _, tl := range tls {
		ids = append(ids, tl.ID)
	}
	return ids
}

func equalIDs(a, b []string) bool {
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

func TestSetTodolistsCreatesTaskEntries(t *testing.T) {
	s := stateWithLists("L1", "L2")

	if len(s.Todolists) != 2 {
		t.Fatalf("expected 2 lists, got %d", len(s.Todolists))
	}

	for _, tl := range s.Todolists {
		if tl.Filter != FilterAll {
			t.Errorf("expected filter all for %s, got %s", tl.ID, tl.Filter)
		}
		if tl.EntityStatus != StatusIdle {
			t.Errorf("expected idle status for %s, got %s", tl.ID, tl.EntityStatus)
		}
		ts, ok := s.Tasks[tl.ID]
		if !ok || ts == nil {
			t.Errorf("expected empty task entry for %s", tl.ID)
		}
	}
}

func TestSetTodolistsKeepsExistingState(t *testing.T) {
	s := stateWithLists("L1", "L2")
	s = Reduce(s, ChangeTodolistFilter{ID: "L1", Filter: FilterCompleted})
	s = Reduce(s, SetTasks{TodolistID: "L1", Tasks: []api.Task{{ID: "t1", TodoListID: "L1"}}})

	s = Reduce(s, SetTodolists{Todolists: []api.Todolist{{ID: "L1"}, {ID: "L3"}}})

	if got := listIDs(s.Todolists); !equalIDs(got, []string{"L1", "L3"}) {
		t.Fatalf("unexpected lists %v", got)
	}
	if s.Todolists[0].Filter != FilterCompleted {
		t.Errorf("expected filter to survive refresh, got %s", s.Todolists[0].Filter)
	}
	if len(s.Tasks["L1"]) != 1 {
		t.Errorf("expected tasks of L1 to survive refresh")
	}
	if _, ok := s.Tasks["L2"]; ok {
		t.Error("expected tasks of removed list to be dropped")
	}
	if _, ok := s.Tasks["L3"]; !ok {
		t.Error("expected task entry for new list")
	}
}

func TestAddAndRemoveTodolist(t *testing.T) {
	s := stateWithLists("L1")
	s = Reduce(s, AddTodolist{Todolist: api.Todolist{ID: "L2", Title: "New"}})

	if got := listIDs(s.Todolists); !equalIDs(got, []string{"L2", "L1"}) {
		t.Fatalf("expected new list first, got %v", got)
	}
	if _, ok := s.Tasks["L2"]; !ok {
		t.Error("expected task entry for added list")
	}

	s = Reduce(s, RemoveTodolist{ID: "L1"})
	if got := listIDs(s.Todolists); !equalIDs(got, []string{"L2"}) {
		t.Errorf("unexpected lists after removal: %v", got)
	}
	if _, ok := s.Tasks["L1"]; ok {
		t.Error("expected task entry of removed list to be dropped")
	}
}

func TestTodolistFieldActions(t *testing.T) {
	tests := []struct {
		name   string
		action Action
		check  func(TodolistDomain) bool
	}{
		{"title", ChangeTodolistTitle{ID: "L1", Title: "Renamed"}, func(tl TodolistDomain) bool { return tl.Title == "Renamed" }},
		{"filter", ChangeTodolistFilter{ID: "L1", Filter: FilterActive}, func(tl TodolistDomain) bool { return tl.Filter == FilterActive }},
		{"entity status", ChangeTodolistEntityStatus{ID: "L1", Status: StatusLoading}, func(tl TodolistDomain) bool { return tl.IsLoading() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := stateWithLists("L1", "L2")
			after := Reduce(before, tt.action)

			l1, _ := after.Todolist("L1")
			if !tt.check(l1) {
				t.Errorf("action not applied: %+v", l1)
			}

			l2Before, _ := before.Todolist("L2")
			l2After, _ := after.Todolist("L2")
			if l2Before != l2After {
				t.Errorf("other list changed: %+v -> %+v", l2Before, l2After)
			}

			l1Before, _ := before.Todolist("L1")
			if tt.check(l1Before) {
				t.Error("reducer modified its input")
			}
		})
	}
}

func TestTaskActions(t *testing.T) {
	s := stateWithLists("L1", "L2")
	s = Reduce(s, SetTasks{TodolistID: "L1", Tasks: []api.Task{
		{ID: "a", TodoListID: "L1", Title: "A"},
		{ID: "b", TodoListID: "L1", Title: "B"},
	}})
	s = Reduce(s, SetTasks{TodolistID: "L2", Tasks: []api.Task{{ID: "x", TodoListID: "L2"}}})

	s = Reduce(s, AddTask{Task: api.Task{ID: "c", TodoListID: "L1", Title: "C"}})
	if got := taskIDs(s.Tasks["L1"]); !equalIDs(got, []string{"c", "a", "b"}) {
		t.Fatalf("expected new task first, got %v", got)
	}

	before := s
	s = Reduce(s, UpdateTask{TodolistID: "L1", TaskID: "a", Model: api.UpdateTaskModel{Title: "A2", Status: api.TaskStatusCompleted}})
	task, _ := s.Task("L1", "a")
	if task.Title != "A2" || !task.IsCompleted() {
		t.Errorf("task not updated: %+v", task)
	}
	if task.TodoListID != "L1" {
		t.Errorf("identity fields must be kept, got %+v", task)
	}
	if old, _ := before.Task("L1", "a"); old.Title != "A" {
		t.Error("reducer modified its input")
	}

	s = Reduce(s, RemoveTask{TodolistID: "L1", TaskID: "b"})
	if got := taskIDs(s.Tasks["L1"]); !equalIDs(got, []string{"c", "a"}) {
		t.Errorf("unexpected tasks after removal: %v", got)
	}

	if got := taskIDs(s.Tasks["L2"]); !equalIDs(got, []string{"x"}) {
		t.Errorf("other list changed: %v", got)
	}
}

func TestTaskActionsOnUnknownList(t *testing.T) {
	s := stateWithLists("L1")

	for _, a := range []Action{
		RemoveTask{TodolistID: "missing", TaskID: "a"},
		UpdateTask{TodolistID: "missing", TaskID: "a"},
		ReorderTask{TodolistID: "missing", TaskID: "a"},
	} {
		next := Reduce(s, a)
		if _, ok := next.Tasks["missing"]; ok {
			t.Errorf("%T created an entry for an unknown list", a)
		}
	}
}

func TestReorder(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		afterID string
		want    []string
	}{
		{"to front", "c", "", []string{"c", "a", "b"}},
		{"after first", "c", "a", []string{"a", "c", "b"}},
		{"to end", "a", "c", []string{"b", "c", "a"}},
		{"unknown id", "z", "", []string{"a", "b", "c"}},
		{"unknown anchor", "a", "z", []string{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stateWithLists("a", "b", "c")
			s = Reduce(s, SetTasks{TodolistID: "a", Tasks: []api.Task{{ID: "a"}, {ID: "b"}, {ID: "c"}}})

			lists := Reduce(s, ReorderTodolist{ID: tt.id, AfterID: tt.afterID})
			if got := listIDs(lists.Todolists); !equalIDs(got, tt.want) {
				t.Errorf("lists: got %v, want %v", got, tt.want)
			}

			tasks := Reduce(s, ReorderTask{TodolistID: "a", TaskID: tt.id, AfterID: tt.afterID})
			if got := taskIDs(tasks.Tasks["a"]); !equalIDs(got, tt.want) {
				t.Errorf("tasks: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppAndAuthActions(t *testing.T) {
	s := InitialState()
	s = Reduce(s, SetAppStatus{Status: StatusLoading})
	s = Reduce(s, SetAppError{Error: "boom"})
	s = Reduce(s, SetAppInitialized{Value: true})
	s = Reduce(s, SetLoggedIn{Value: true, Login: "demo"})

	if s.App.Status != StatusLoading || s.App.Error != "boom" || !s.App.IsInitialized {
		t.Errorf("unexpected app state: %+v", s.App)
	}
	if !s.Auth.IsLoggedIn || s.Auth.Login != "demo" {
		t.Errorf("unexpected auth state: %+v", s.Auth)
	}
}

func TestClearData(t *testing.T) {
	s := stateWithLists("L1", "L2")
	s = Reduce(s, ClearData{})

	if len(s.Todolists) != 0 || len(s.Tasks) != 0 {
		t.Errorf("expected empty state, got %d lists and %d task entries", len(s.Todolists), len(s.Tasks))
	}
}

func TestTaskPatchApply(t *testing.T) {
	title := "New"
	status := api.TaskStatusCompleted
	base := api.UpdateTaskModel{Title: "Old", Description: "keep", Priority: api.PriorityHi}

	got := TaskPatch{Title: &title, Status: &status}.Apply(base)

	if got.Title != "New" || got.Status != api.TaskStatusCompleted {
		t.Errorf("patch not applied: %+v", got)
	}
	if got.Description != "keep" || got.Priority != api.PriorityHi {
		t.Errorf("unpatched fields changed: %+v", got)
	}

	if !(TaskPatch{}).IsEmpty() {
		t.Error("expected zero patch to be empty")
	}
	if (TaskPatch{Title: &title}).IsEmpty() {
		t.Error("expected patch with title to be non-empty")
	}
}
