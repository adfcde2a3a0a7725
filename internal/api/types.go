// Package api provides a client for the todo-lists REST API.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ResultCode is the status code carried in every response envelope.
type ResultCode int

const (
	ResultCodeOK      ResultCode = 0
	ResultCodeError   ResultCode = 1
	ResultCodeCaptcha ResultCode = 10
)

// Response is the envelope wrapping every mutating response.
type Response[D any] struct {
	ResultCode   ResultCode   `json:"resultCode"`
	Messages     []string     `json:"messages"`
	FieldsErrors []FieldError `json:"fieldsErrors,omitempty"`
	Data         D            `json:"data"`
}

// FieldError is a validation error for a single request field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// TaskStatus is the completion state of a task.
type TaskStatus int

const (
	TaskStatusNew        TaskStatus = 0
	TaskStatusInProgress TaskStatus = 1
	TaskStatusCompleted  TaskStatus = 2
	TaskStatusDraft      TaskStatus = 3
)

// String returns a human-readable status name.
func (s TaskStatus) String() string {
	switch s {
	case TaskStatusNew:
		return "new"
	case TaskStatusInProgress:
		return "in progress"
	case TaskStatusCompleted:
		return "completed"
	case TaskStatusDraft:
		return "draft"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// TaskPriority is the priority of a task.
type TaskPriority int

const (
	PriorityLow      TaskPriority = 0
	PriorityMiddle   TaskPriority = 1
	PriorityHi       TaskPriority = 2
	PriorityUrgently TaskPriority = 3
	PriorityLater    TaskPriority = 4
)

// String returns a human-readable priority name.
func (p TaskPriority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMiddle:
		return "middle"
	case PriorityHi:
		return "hi"
	case PriorityUrgently:
		return "urgently"
	case PriorityLater:
		return "later"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// Next cycles to the following priority, wrapping after Later.
func (p TaskPriority) Next() TaskPriority {
	if p >= PriorityLater || p < PriorityLow {
		return PriorityLow
	}
	return p + 1
}

// Time is a timestamp as sent by the service. The service omits the zone
// and sends null for unset values.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid time %q", s)
}

// MarshalJSON implements json.Marshaler.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format("2006-01-02T15:04:05"))
}

// NewTime wraps a time.Time.
func NewTime(tm time.Time) Time {
	return Time{Time: tm}
}

// Todolist represents a todo list.
type Todolist struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	AddedDate Time   `json:"addedDate"`
	Order     int    `json:"order"`
}

// Task represents a task within a todo list.
type Task struct {
	ID          string       `json:"id"`
	TodoListID  string       `json:"todoListId"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	StartDate   Time         `json:"startDate"`
	Deadline    Time         `json:"deadline"`
	Order       int          `json:"order"`
	AddedDate   Time         `json:"addedDate"`
}

// IsCompleted returns true if the task is completed.
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// IsOverdue returns true if the task has a deadline in the past and is not completed.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Deadline.IsZero() || t.IsCompleted() {
		return false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, t.Deadline.Location())
	return t.Deadline.Before(today)
}

// DeadlineDisplay returns a human-readable deadline string.
func (t *Task) DeadlineDisplay(now time.Time) string {
	if t.Deadline.IsZero() {
		return ""
	}

	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	dy, dm, dd := t.Deadline.Date()
	due := time.Date(dy, dm, dd, 0, 0, 0, 0, time.UTC)
	diff := int(due.Sub(today).Hours() / 24)

	switch {
	case diff < -1:
		return fmt.Sprintf("%d days ago", -diff)
	case diff == -1:
		return "yesterday"
	case diff == 0:
		return "today"
	case diff == 1:
		return "tomorrow"
	case diff < 7:
		return due.Weekday().String()
	default:
		return due.Format("Jan 2")
	}
}

// UpdateModel returns the full update model for the task. The service
// replaces every field on update, so callers patch this model.
func (t *Task) UpdateModel() UpdateTaskModel {
	return UpdateTaskModel{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		StartDate:   t.StartDate,
		Deadline:    t.Deadline,
	}
}

// UpdateTaskModel is the request body for updating a task.
type UpdateTaskModel struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	StartDate   Time         `json:"startDate"`
	Deadline    Time         `json:"deadline"`
}

// Apply copies the model onto the task, keeping identity fields.
func (m UpdateTaskModel) Apply(t Task) Task {
	t.Title = m.Title
	t.Description = m.Description
	t.Status = m.Status
	t.Priority = m.Priority
	t.StartDate = m.StartDate
	t.Deadline = m.Deadline
	return t
}

// TasksResponse is the body returned when listing tasks.
type TasksResponse struct {
	Items      []Task  `json:"items"`
	TotalCount int     `json:"totalCount"`
	Error      *string `json:"error"`
}

// ItemData wraps a single created or updated item.
type ItemData[T any] struct {
	Item T `json:"item"`
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"rememberMe"`
	Captcha    string `json:"captcha,omitempty"`
}

// LoginData is returned by a successful login.
type LoginData struct {
	UserID int `json:"userId"`
}

// Me describes the authenticated user.
type Me struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Login string `json:"login"`
}

// titleRequest is the body for creating and renaming items.
type titleRequest struct {
	Title string `json:"title"`
}

// reorderRequest is the body for moving an item after another one.
// A nil PutAfterItemID moves the item to the front.
type reorderRequest struct {
	PutAfterItemID *string `json:"putAfterItemId"`
}
