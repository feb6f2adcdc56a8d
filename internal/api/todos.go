package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rajeshprivate007/taskflow-frontend/internal/model"
)

// TaskInput holds the fields the client can set when creating a todo.
type TaskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Status      string     `json:"status,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	DueTime     string     `json:"dueTime,omitempty"`
	Category    string     `json:"category,omitempty"`
	Starred     bool       `json:"starred,omitempty"`
}

// TaskPatch is a partial update; nil fields are left untouched by the
// backend.
type TaskPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Status      *string    `json:"status,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	DueTime     *string    `json:"dueTime,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Starred     *bool      `json:"starred,omitempty"`
}

// TodoPage is one page of the filtered list, as the backend shapes it.
type TodoPage struct {
	Todos []model.Task `json:"todos"`
	Total int          `json:"total"`
	Page  int          `json:"page"`
	Pages int          `json:"pages"`
}

type BulkRequest struct {
	Action string   `json:"action"`
	IDs    []string `json:"ids"`
}

type BulkResult struct {
	Modified int `json:"modified"`
}

func (c *Client) ListTodos(ctx context.Context, filter model.Filter) (TodoPage, error) {
	var page TodoPage
	if err := c.do(ctx, http.MethodGet, "/todos", filter.Values(), nil, &page); err != nil {
		return TodoPage{}, err
	}
	return page, nil
}

func (c *Client) GetTodo(ctx context.Context, id string) (model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodGet, "/todos/"+id, nil, nil, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (c *Client) CreateTodo(ctx context.Context, input TaskInput) (model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPost, "/todos", nil, input, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (c *Client) UpdateTodo(ctx context.Context, id string, patch TaskPatch) (model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPut, "/todos/"+id, nil, patch, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (c *Client) ToggleTodo(ctx context.Context, id string) (model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPatch, "/todos/"+id+"/toggle", nil, nil, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+id, nil, nil, nil)
}

func (c *Client) ArchiveTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPatch, "/todos/"+id+"/archive", nil, nil, nil)
}

// AddSubtask returns the full parent task with the new subtask appended.
func (c *Client) AddSubtask(ctx context.Context, id, title string) (model.Task, error) {
	var task model.Task
	body := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPost, "/todos/"+id+"/subtasks", nil, body, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (c *Client) ToggleSubtask(ctx context.Context, id, subtaskID string) (model.Task, error) {
	var task model.Task
	if err := c.do(ctx, http.MethodPatch, "/todos/"+id+"/subtasks/"+subtaskID, nil, nil, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (c *Client) AddComment(ctx context.Context, id, text string) (model.Task, error) {
	var task model.Task
	body := map[string]string{"text": text}
	if err := c.do(ctx, http.MethodPost, "/todos/"+id+"/comments", nil, body, &task); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	var stats model.Stats
	if err := c.do(ctx, http.MethodGet, "/todos/stats/overview", nil, nil, &stats); err != nil {
		return model.Stats{}, err
	}
	return stats, nil
}

func (c *Client) Bulk(ctx context.Context, req BulkRequest) (BulkResult, error) {
	var result BulkResult
	if err := c.do(ctx, http.MethodPost, "/todos/bulk", nil, req, &result); err != nil {
		return BulkResult{}, err
	}
	return result, nil
}
