package ops

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/hy4ri/todolists-tui/internal/api"
	"github.com/hy4ri/todolists-tui/internal/logging"
	"github.com/hy4ri/todolists-tui/internal/store"
)

// fakeAPI wraps the in-memory backend and lets tests inject failures.
type fakeAPI struct {
	*api.Memory
	errs     map[string]error
	listErrs map[string]error
	onDelete func()

	mu    sync.Mutex
	calls map[string]int
}

func newFakeAPI(mem *api.Memory) *fakeAPI {
	return &fakeAPI{Memory: mem, errs: map[string]error{}, listErrs: map[string]error{}, calls: map[string]int{}}
}

func (f *fakeAPI) count(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeAPI) called(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) GetTodolists(ctx context.Context) ([]api.Todolist, error) {
	f.count("GetTodolists")
	if err := f.errs["GetTodolists"]; err != nil {
		return nil, err
	}
	return f.Memory.GetTodolists(ctx)
}

func (f *fakeAPI) GetTasks(ctx context.Context, id string) ([]api.Task, error) {
	f.count("GetTasks")
	if err := f.errs["GetTasks"]; err != nil {
		return nil, err
	}
	if err := f.listErrs[id]; err != nil {
		return nil, err
	}
	return f.Memory.GetTasks(ctx, id)
}

func (f *fakeAPI) DeleteTodolist(ctx context.Context, id string) error {
	f.count("DeleteTodolist")
	if f.onDelete != nil {
		f.onDelete()
	}
	if err := f.errs["DeleteTodolist"]; err != nil {
		return err
	}
	return f.Memory.DeleteTodolist(ctx, id)
}

func (f *fakeAPI) UpdateTask(ctx context.Context, listID, taskID string, m api.UpdateTaskModel) (*api.Task, error) {
	f.count("UpdateTask")
	return f.Memory.UpdateTask(ctx, listID, taskID, m)
}

func (f *fakeAPI) Login(ctx context.Context, req api.LoginRequest) (int, error) {
	f.count("Login")
	if err := f.errs["Login"]; err != nil {
		return 0, err
	}
	return f.Memory.Login(ctx, req)
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(title, message string) error {
	n.messages = append(n.messages, message)
	return nil
}

func setup(t *testing.T) (*Operations, *fakeAPI, *recordingNotifier) {
	t.Helper()
	backend := newFakeAPI(api.NewDemoMemory())
	o := New(backend, store.New(store.InitialState()), logging.Discard())
	n := &recordingNotifier{}
	o.SetNotifier(n)
	return o, backend, n
}

func TestFetchTodolists(t *testing.T) {
	o, _, _ := setup(t)

	if err := o.FetchTodolists(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := o.Store().GetState()
	if len(s.Todolists) != 3 {
		t.Fatalf("expected 3 lists, got %d", len(s.Todolists))
	}
	for _, tl := range s.Todolists {
		if _, ok := s.Tasks[tl.ID]; !ok {
			t.Errorf("missing task entry for %s", tl.Title)
		}
	}
	if s.App.Status != store.StatusSucceeded {
		t.Errorf("expected succeeded status, got %s", s.App.Status)
	}
}

func TestFetchFailureSetsError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"server message", &api.ResultError{ResultCode: api.ResultCodeError, Messages: []string{"Nope"}}, "Nope"},
		{"generic", errors.New("connection reset"), "Some error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, backend, n := setup(t)
			backend.errs["GetTodolists"] = tt.err

			if err := o.FetchTodolists(context.Background()); err == nil {
				t.Fatal("expected error")
			}

			s := o.Store().GetState()
			if s.App.Error != tt.wantMsg {
				t.Errorf("expected error %q, got %q", tt.wantMsg, s.App.Error)
			}
			if s.App.Status != store.StatusFailed {
				t.Errorf("expected failed status, got %s", s.App.Status)
			}
			if len(n.messages) != 1 || n.messages[0] != tt.wantMsg {
				t.Errorf("expected one notification, got %v", n.messages)
			}
		})
	}
}

func TestUnauthorizedLogsOut(t *testing.T) {
	o, backend, _ := setup(t)
	o.Store().Dispatch(store.SetLoggedIn{Value: true})
	backend.errs["GetTodolists"] = &api.APIError{StatusCode: 401, Message: "unauthorized"}

	_ = o.FetchTodolists(context.Background())

	if o.Store().GetState().Auth.IsLoggedIn {
		t.Error("expected 401 to end the session")
	}
}

func TestCancelledFetchDoesNotWriteState(t *testing.T) {
	o, _, n := setup(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := o.FetchTodolists(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	s := o.Store().GetState()
	if len(s.Todolists) != 0 {
		t.Errorf("expected no lists, got %d", len(s.Todolists))
	}
	if s.App.Error != "" {
		t.Errorf("expected no error message, got %q", s.App.Error)
	}
	if len(n.messages) != 0 {
		t.Errorf("expected no notification, got %v", n.messages)
	}
}

func TestRefreshAllLoadsEveryList(t *testing.T) {
	o, backend, _ := setup(t)

	if err := o.RefreshAll(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := o.Store().GetState()
	if backend.called("GetTasks") != len(s.Todolists) {
		t.Errorf("expected %d task fetches, got %d", len(s.Todolists), backend.called("GetTasks"))
	}

	_, want := backend.Snapshot()
	for _, tl := range s.Todolists {
		if len(s.Tasks[tl.ID]) != len(want[tl.ID]) {
			t.Errorf("list %s: expected %d tasks, got %d", tl.Title, len(want[tl.ID]), len(s.Tasks[tl.ID]))
		}
	}
}

func TestRefreshAllLoadsHealthyListsWhenOneFails(t *testing.T) {
	o, backend, n := setup(t)

	lists, want := backend.Snapshot()
	broken := lists[0].ID
	backend.listErrs[broken] = &api.APIError{StatusCode: 500, Message: "boom"}

	if err := o.RefreshAll(context.Background()); err == nil {
		t.Fatal("expected error from the failing list")
	}

	s := o.Store().GetState()
	if s.App.Status != store.StatusFailed {
		t.Errorf("expected failed status, got %s", s.App.Status)
	}
	if s.App.Error == "" {
		t.Error("expected an error message")
	}
	if len(n.messages) != 1 {
		t.Errorf("expected one notification, got %v", n.messages)
	}

	for _, tl := range lists[1:] {
		if len(s.Tasks[tl.ID]) != len(want[tl.ID]) {
			t.Errorf("list %s: expected %d tasks, got %d", tl.Title, len(want[tl.ID]), len(s.Tasks[tl.ID]))
		}
	}
	if len(s.Tasks[broken]) != 0 {
		t.Errorf("expected no tasks for the failing list, got %d", len(s.Tasks[broken]))
	}
}

func TestCancelledFetchKeepsFailedStatus(t *testing.T) {
	o, _, _ := setup(t)
	o.Store().Dispatch(store.SetAppStatus{Status: store.StatusFailed})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = o.fail(ctx, "fetch tasks", context.Canceled)

	if got := o.Store().GetState().App.Status; got != store.StatusFailed {
		t.Errorf("expected failed status to stay, got %s", got)
	}
}

func TestAddTodolistAndTask(t *testing.T) {
	o, _, _ := setup(t)
	ctx := context.Background()
	_ = o.FetchTodolists(ctx)

	if err := o.AddTodolist(ctx, "Errands"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := o.Store().GetState()
	first := s.Todolists[0]
	if first.Title != "Errands" {
		t.Fatalf("expected new list first, got %q", first.Title)
	}

	if err := o.AddTask(ctx, "Buy milk", first.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s = o.Store().GetState()
	if len(s.Tasks[first.ID]) != 1 || s.Tasks[first.ID][0].Title != "Buy milk" {
		t.Errorf("unexpected tasks: %+v", s.Tasks[first.ID])
	}
	if tl, _ := s.Todolist(first.ID); tl.IsLoading() {
		t.Error("expected list to be idle after adding a task")
	}
}

func TestAddTaskEmptyTitle(t *testing.T) {
	o, _, _ := setup(t)
	ctx := context.Background()
	_ = o.FetchTodolists(ctx)
	id := o.Store().GetState().Todolists[0].ID

	if err := o.AddTask(ctx, "", id); err == nil {
		t.Fatal("expected error")
	}

	if got := o.Store().GetState().App.Error; got != "Title is required" {
		t.Errorf("expected server message, got %q", got)
	}
}

func TestRemoveTodolistTracksEntityStatus(t *testing.T) {
	o, backend, _ := setup(t)
	ctx := context.Background()
	_ = o.FetchTodolists(ctx)
	id := o.Store().GetState().Todolists[0].ID

	var during store.RequestStatus
	backend.onDelete = func() {
		tl, _ := o.Store().GetState().Todolist(id)
		during = tl.EntityStatus
	}
	backend.errs["DeleteTodolist"] = errors.New("boom")

	if err := o.RemoveTodolist(ctx, id); err == nil {
		t.Fatal("expected error")
	}

	if during != store.StatusLoading {
		t.Errorf("expected loading during the request, got %s", during)
	}
	tl, ok := o.Store().GetState().Todolist(id)
	if !ok {
		t.Fatal("failed removal must keep the list")
	}
	if tl.EntityStatus != store.StatusIdle {
		t.Errorf("expected idle after failure, got %s", tl.EntityStatus)
	}

	delete(backend.errs, "DeleteTodolist")
	if err := o.RemoveTodolist(ctx, id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := o.Store().GetState()
	if _, ok := s.Todolist(id); ok {
		t.Error("expected list to be removed")
	}
	if _, ok := s.Tasks[id]; ok {
		t.Error("expected task entry to be removed")
	}
}

func TestChangeTodolistTitle(t *testing.T) {
	o, _, _ := setup(t)
	ctx := context.Background()
	_ = o.FetchTodolists(ctx)
	id := o.Store().GetState().Todolists[1].ID

	if err := o.ChangeTodolistTitle(ctx, id, "Groceries"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tl, _ := o.Store().GetState().Todolist(id); tl.Title != "Groceries" {
		t.Errorf("expected renamed list, got %q", tl.Title)
	}
}

func TestUpdateTaskMergesPatch(t *testing.T) {
	o, backend, _ := setup(t)
	ctx := context.Background()
	_ = o.RefreshAll(ctx)

	tl := o.Store().GetState().Todolists[0]
	task := o.Store().GetState().Tasks[tl.ID][0]

	priority := api.PriorityUrgently
	if err := o.UpdateTask(ctx, task.ID, store.TaskPatch{Priority: &priority}, tl.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, _ := o.Store().GetState().Task(tl.ID, task.ID)
	if got.Priority != api.PriorityUrgently {
		t.Errorf("expected priority urgently, got %s", got.Priority)
	}
	if got.Title != task.Title || got.Status != task.Status {
		t.Errorf("unpatched fields changed: %+v", got)
	}

	_, stored := backend.Snapshot()
	for _, st := range stored[tl.ID] {
		if st.ID == task.ID && st.Title != task.Title {
			t.Errorf("backend lost the title: %+v", st)
		}
	}
}

func TestUpdateUnknownTask(t *testing.T) {
	o, backend, _ := setup(t)
	title := "x"

	err := o.UpdateTask(context.Background(), "missing", store.TaskPatch{Title: &title}, "L1")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
	if backend.called("UpdateTask") != 0 {
		t.Error("expected no request for an unknown task")
	}
}

func TestMoveTask(t *testing.T) {
	o, _, _ := setup(t)
	ctx := context.Background()
	_ = o.RefreshAll(ctx)

	tl := o.Store().GetState().Todolists[0]
	before := o.Store().GetState().Tasks[tl.ID]

	if err := o.MoveTask(ctx, tl.ID, before[1].ID, -1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after := o.Store().GetState().Tasks[tl.ID]
	if after[0].ID != before[1].ID || after[1].ID != before[0].ID {
		t.Errorf("expected first two tasks swapped")
	}

	if err := o.MoveTask(ctx, tl.ID, after[0].ID, -1); err != nil {
		t.Fatalf("moving past the front should be a no-op, got %v", err)
	}
}

func TestMoveTodolist(t *testing.T) {
	o, _, _ := setup(t)
	ctx := context.Background()
	_ = o.FetchTodolists(ctx)

	before := o.Store().GetState().Todolists
	if err := o.MoveTodolist(ctx, before[0].ID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	after := o.Store().GetState().Todolists
	if after[0].ID != before[1].ID || after[1].ID != before[0].ID {
		t.Errorf("expected first two lists swapped")
	}

	remote, _ := o.api.(*fakeAPI).Snapshot()
	if remote[1].ID != before[0].ID {
		t.Errorf("expected backend order to follow")
	}
}

func TestAnchorFor(t *testing.T) {
	ids := []string{"a", "b", "c"}

	tests := []struct {
		name   string
		id     string
		delta  int
		want   string
		wantOK bool
	}{
		{"up to front", "b", -1, "", true},
		{"up", "c", -1, "a", true},
		{"down", "a", 1, "b", true},
		{"down to end", "b", 1, "c", true},
		{"past front", "a", -1, "", false},
		{"past end", "c", 1, "", false},
		{"unknown", "z", 1, "", false},
		{"zero", "b", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := anchorFor(ids, tt.id, tt.delta)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("anchorFor(%q, %d) = %q, %v; want %q, %v", tt.id, tt.delta, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestInitialize(t *testing.T) {
	o, backend, _ := setup(t)
	ctx := context.Background()

	if err := o.Initialize(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := o.Store().GetState()
	if !s.Auth.IsLoggedIn || s.Auth.Login != "demo" || !s.App.IsInitialized {
		t.Errorf("unexpected state: %+v %+v", s.Auth, s.App)
	}

	_ = backend.Logout(ctx)
	if err := o.Initialize(ctx); err != nil {
		t.Fatalf("no session is not an error, got %v", err)
	}
	s = o.Store().GetState()
	if s.Auth.IsLoggedIn {
		t.Error("expected logged out")
	}
	if s.App.Error != "" {
		t.Errorf("expected no error, got %q", s.App.Error)
	}
}

func TestLoginAndLogout(t *testing.T) {
	o, _, _ := setup(t)
	ctx := context.Background()
	_ = o.FetchTodolists(ctx)

	if err := o.Logout(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := o.Store().GetState()
	if s.Auth.IsLoggedIn || len(s.Todolists) != 0 || len(s.Tasks) != 0 {
		t.Errorf("expected cleared state after logout: %+v", s)
	}

	if err := o.Login(ctx, api.LoginRequest{Email: "a@b.c", Password: "pw"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s := o.Store().GetState(); !s.Auth.IsLoggedIn || s.Auth.Login != "demo" {
		t.Errorf("unexpected auth state: %+v", s.Auth)
	}
}

func TestLoginCaptcha(t *testing.T) {
	o, backend, _ := setup(t)
	backend.errs["Login"] = &api.ResultError{ResultCode: api.ResultCodeCaptcha, Messages: []string{"Incorrect anti-bot symbols"}}

	err := o.Login(context.Background(), api.LoginRequest{Email: "a@b.c", Password: "pw"})
	if !errors.Is(err, ErrCaptchaRequired) {
		t.Fatalf("expected ErrCaptchaRequired, got %v", err)
	}
	if got := o.Store().GetState().App.Error; got != ErrCaptchaRequired.Error() {
		t.Errorf("unexpected error message %q", got)
	}
}
