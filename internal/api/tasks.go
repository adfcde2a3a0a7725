package api

import (
	"context"
	"fmt"
	"net/http"
)

// GetTasks returns the tasks of a todo list.
func (c *Client) GetTasks(ctx context.Context, todolistID string) ([]Task, error) {
	var resp TasksResponse
	if err := c.Get(ctx, "/todo-lists/"+todolistID+"/tasks", &resp); err != nil {
		return nil, fmt.Errorf("failed to get tasks for todolist %s: %w", todolistID, err)
	}
	if resp.Error != nil && *resp.Error != "" {
		return nil, fmt.Errorf("failed to get tasks for todolist %s: %w", todolistID,
			&ResultError{ResultCode: ResultCodeError, Messages: []string{*resp.Error}})
	}
	if resp.Items == nil {
		return []Task{}, nil
	}
	return resp.Items, nil
}

// CreateTask creates a new task in a todo list.
func (c *Client) CreateTask(ctx context.Context, todolistID, title string) (*Task, error) {
	data, err := doEnvelope[ItemData[Task]](ctx, c, http.MethodPost, "/todo-lists/"+todolistID+"/tasks", titleRequest{Title: title})
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return &data.Item, nil
}

// UpdateTask replaces the editable fields of a task.
func (c *Client) UpdateTask(ctx context.Context, todolistID, taskID string, model UpdateTaskModel) (*Task, error) {
	data, err := doEnvelope[ItemData[Task]](ctx, c, http.MethodPut, "/todo-lists/"+todolistID+"/tasks/"+taskID, model)
	if err != nil {
		return nil, fmt.Errorf("failed to update task %s: %w", taskID, err)
	}
	return &data.Item, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, todolistID, taskID string) error {
	if _, err := doEnvelope[struct{}](ctx, c, http.MethodDelete, "/todo-lists/"+todolistID+"/tasks/"+taskID, nil); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", taskID, err)
	}
	return nil
}

// ReorderTask moves a task after afterID, or to the front when afterID is empty.
func (c *Client) ReorderTask(ctx context.Context, todolistID, taskID, afterID string) error {
	req := reorderRequest{}
	if afterID != "" {
		req.PutAfterItemID = &afterID
	}
	if _, err := doEnvelope[struct{}](ctx, c, http.MethodPut, "/todo-lists/"+todolistID+"/tasks/"+taskID+"/reorder", req); err != nil {
		return fmt.Errorf("failed to reorder task %s: %w", taskID, err)
	}
	return nil
}
