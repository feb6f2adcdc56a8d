// Package todo is the single source of truth for the task list, its
// server-computed statistics, and the active filter parameters. Every
// mutation reconciles local state from the backend response; nothing is
// inserted or removed optimistically.
package todo

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rajeshprivate007/taskflow-frontend/internal/api"
	"github.com/rajeshprivate007/taskflow-frontend/internal/model"
)

// Store is driven from a single goroutine. Overlapping Load calls are
// not de-duplicated or cancelled: the response that resolves last wins,
// regardless of issue order. Callers wanting race-free behavior must
// debounce at the call site.
type Store struct {
	api     *api.Client
	log     zerolog.Logger
	tasks   []model.Task
	stats   model.Stats
	filters model.Filter
	loading bool
}

func New(client *api.Client, log zerolog.Logger) *Store {
	return &Store{
		api:     client,
		log:     log,
		filters: model.DefaultFilter(),
	}
}

func (s *Store) Tasks() []model.Task {
	return s.tasks
}

func (s *Store) Stats() model.Stats {
	return s.stats
}

func (s *Store) Filters() model.Filter {
	return s.filters
}

func (s *Store) Loading() bool {
	return s.loading
}

// Load merges the patch into the current filters and replaces the local
// list with the matching page from the backend.
func (s *Store) Load(ctx context.Context, patch model.FilterPatch) error {
	s.loading = true
	defer func() { s.loading = false }()

	s.filters = s.filters.Merge(patch)

	page, err := s.api.ListTodos(ctx, s.filters)
	if err != nil {
		return err
	}

	s.tasks = page.Todos
	return nil
}

// RefreshStats replaces the stats snapshot wholesale from the backend.
func (s *Store) RefreshStats(ctx context.Context) error {
	stats, err := s.api.Stats(ctx)
	if err != nil {
		return err
	}
	s.stats = stats
	return nil
}

func (s *Store) Create(ctx context.Context, input api.TaskInput) (model.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return model.Task{}, fmt.Errorf("title is required")
	}

	s.loading = true
	defer func() { s.loading = false }()

	created, err := s.api.CreateTodo(ctx, input)
	if err != nil {
		return model.Task{}, err
	}

	s.tasks = append([]model.Task{created}, s.tasks...)
	s.reloadStats(ctx)
	return created, nil
}

func (s *Store) Update(ctx context.Context, id string, patch api.TaskPatch) (model.Task, error) {
	s.loading = true
	defer func() { s.loading = false }()

	updated, err := s.api.UpdateTodo(ctx, id, patch)
	if err != nil {
		return model.Task{}, err
	}

	s.replace(updated)
	s.reloadStats(ctx)
	return updated, nil
}

func (s *Store) Toggle(ctx context.Context, id string) (model.Task, error) {
	updated, err := s.api.ToggleTodo(ctx, id)
	if err != nil {
		return model.Task{}, err
	}

	s.replace(updated)
	s.reloadStats(ctx)
	return updated, nil
}

// Delete removes the todo from the backend first; the item stays visible
// until the backend confirms.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.loading = true
	defer func() { s.loading = false }()

	if err := s.api.DeleteTodo(ctx, id); err != nil {
		return err
	}

	s.remove(id)
	s.reloadStats(ctx)
	return nil
}

// Archive is a soft delete from the client's perspective: the item
// leaves the active list but is not necessarily destroyed server-side.
func (s *Store) Archive(ctx context.Context, id string) error {
	s.loading = true
	defer func() { s.loading = false }()

	if err := s.api.ArchiveTodo(ctx, id); err != nil {
		return err
	}

	s.remove(id)
	s.reloadStats(ctx)
	return nil
}

func (s *Store) AddSubtask(ctx context.Context, id, title string) (model.Task, error) {
	updated, err := s.api.AddSubtask(ctx, id, title)
	if err != nil {
		return model.Task{}, err
	}
	s.replace(updated)
	return updated, nil
}

func (s *Store) ToggleSubtask(ctx context.Context, id, subtaskID string) (model.Task, error) {
	updated, err := s.api.ToggleSubtask(ctx, id, subtaskID)
	if err != nil {
		return model.Task{}, err
	}
	s.replace(updated)
	return updated, nil
}

func (s *Store) AddComment(ctx context.Context, id, text string) (model.Task, error) {
	updated, err := s.api.AddComment(ctx, id, text)
	if err != nil {
		return model.Task{}, err
	}
	s.replace(updated)
	return updated, nil
}

// Bulk applies the operation server-side, then reloads the full list and
// stats. Bulk effects are not predictable enough to patch locally.
func (s *Store) Bulk(ctx context.Context, req api.BulkRequest) error {
	s.loading = true
	defer func() { s.loading = false }()

	if _, err := s.api.Bulk(ctx, req); err != nil {
		return err
	}

	page, err := s.api.ListTodos(ctx, s.filters)
	if err != nil {
		return err
	}
	s.tasks = page.Todos
	s.reloadStats(ctx)
	return nil
}

// Search reloads with the given term, resetting to the first page.
func (s *Store) Search(ctx context.Context, term string) error {
	page := 1
	return s.Load(ctx, model.FilterPatch{Search: &term, Page: &page})
}

// Filter reloads with the given filter changes, resetting to the first
// page.
func (s *Store) Filter(ctx context.Context, patch model.FilterPatch) error {
	page := 1
	patch.Page = &page
	return s.Load(ctx, patch)
}

func (s *Store) replace(updated model.Task) {
	for i, task := range s.tasks {
		if task.ID == updated.ID {
			s.tasks[i] = updated
			return
		}
	}
}

func (s *Store) remove(id string) {
	kept := s.tasks[:0]
	for _, task := range s.tasks {
		if task.ID != id {
			kept = append(kept, task)
		}
	}
	s.tasks = kept
}

// reloadStats keeps the aggregate snapshot in step after a mutation. A
// failed refresh does not undo the mutation that already succeeded.
func (s *Store) reloadStats(ctx context.Context) {
	if err := s.RefreshStats(ctx); err != nil {
		s.log.Warn().Str("error", api.Message(err)).Msg("stats refresh failed")
	}
}
