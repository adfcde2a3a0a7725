package api

import (
	"context"
	"fmt"
	"net/http"
)

// GetTodolists returns all todo lists of the current user.
func (c *Client) GetTodolists(ctx context.Context) ([]Todolist, error) {
	var todolists []Todolist
	if err := c.Get(ctx, "/todo-lists", &todolists); err != nil {
		return nil, fmt.Errorf("failed to get todolists: %w", err)
	}
	return todolists, nil
}

// CreateTodolist creates a new todo list.
func (c *Client) CreateTodolist(ctx context.Context, title string) (*Todolist, error) {
	data, err := doEnvelope[ItemData[Todolist]](ctx, c, http.MethodPost, "/todo-lists", titleRequest{Title: title})
	if err != nil {
		return nil, fmt.Errorf("failed to create todolist: %w", err)
	}
	return &data.Item, nil
}

// DeleteTodolist deletes a todo list.
func (c *Client) DeleteTodolist(ctx context.Context, id string) error {
	if _, err := doEnvelope[struct{}](ctx, c, http.MethodDelete, "/todo-lists/"+id, nil); err != nil {
		return fmt.Errorf("failed to delete todolist %s: %w", id, err)
	}
	return nil
}

// UpdateTodolistTitle renames a todo list.
func (c *Client) UpdateTodolistTitle(ctx context.Context, id, title string) error {
	if _, err := doEnvelope[struct{}](ctx, c, http.MethodPut, "/todo-lists/"+id, titleRequest{Title: title}); err != nil {
		return fmt.Errorf("failed to update todolist %s: %w", id, err)
	}
	return nil
}

// ReorderTodolist moves a todo list after afterID, or to the front when
// afterID is empty.
func (c *Client) ReorderTodolist(ctx context.Context, id, afterID string) error {
	req := reorderRequest{}
	if afterID != "" {
		req.PutAfterItemID = &afterID
	}
	if _, err := doEnvelope[struct{}](ctx, c, http.MethodPut, "/todo-lists/"+id+"/reorder", req); err != nil {
		return fmt.Errorf("failed to reorder todolist %s: %w", id, err)
	}
	return nil
}
