package tui

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rajeshprivate007/taskflow-frontend/internal/api"
	"github.com/rajeshprivate007/taskflow-frontend/internal/model"
	"github.com/rajeshprivate007/taskflow-frontend/internal/storage"
	"github.com/rajeshprivate007/taskflow-frontend/internal/testutil"
	"github.com/rajeshprivate007/taskflow-frontend/internal/todo"
)

func newTestUI(t *testing.T) (*UI, *testutil.Server, model.User) {
	t.Helper()
	server := testutil.NewServer(t)
	kv := storage.NewMemory()
	client := api.NewClient(server.URL(), kv)

	user := server.RegisterUser("Alice", "alice@example.com", "secret")
	if err := kv.Set(storage.KeyToken, server.TokenFor(user.Email)); err != nil {
		t.Fatalf("set token: %v", err)
	}

	ui := &UI{
		todos:         todo.New(client, zerolog.Nop()),
		showCompleted: true,
	}
	return ui, server, user
}

func TestToggleTaskMarksCompleted(t *testing.T) {
	ui, server, user := newTestUI(t)
	server.SeedTask(user.ID, model.Task{Title: "Water plants"})
	ui.reloadAll()

	if len(ui.visible) != 1 {
		t.Fatalf("expected 1 visible task, got %d", len(ui.visible))
	}
	ui.selected = 0

	if err := ui.toggleTask(nil, nil); err != nil {
		t.Fatalf("toggle task: %v", err)
	}
	if got := ui.todos.Tasks()[0].Status; got != model.StatusCompleted {
		t.Fatalf("expected status %q, got %q", model.StatusCompleted, got)
	}
}

func TestDeleteTaskRemovesFromList(t *testing.T) {
	ui, server, user := newTestUI(t)
	server.SeedTask(user.ID, model.Task{Title: "Old chore"})
	server.SeedTask(user.ID, model.Task{Title: "Keep me"})
	ui.reloadAll()

	if len(ui.visible) != 2 {
		t.Fatalf("expected 2 visible tasks, got %d", len(ui.visible))
	}
	ui.selected = 0
	doomed := ui.visible[0].ID

	if err := ui.deleteTask(nil, nil); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	for _, task := range ui.todos.Tasks() {
		if task.ID == doomed {
			t.Fatalf("deleted task still present")
		}
	}
	if len(ui.visible) != 1 {
		t.Fatalf("expected 1 visible task after delete, got %d", len(ui.visible))
	}
}

func TestToggleCompletedHidesDoneTasks(t *testing.T) {
	ui, server, user := newTestUI(t)
	server.SeedTask(user.ID, model.Task{Title: "Done already", Status: model.StatusCompleted})
	server.SeedTask(user.ID, model.Task{Title: "Still open"})
	ui.reloadAll()

	if len(ui.visible) != 2 {
		t.Fatalf("expected 2 visible tasks, got %d", len(ui.visible))
	}

	if err := ui.toggleCompleted(nil, nil); err != nil {
		t.Fatalf("toggle completed: %v", err)
	}
	if len(ui.visible) != 1 {
		t.Fatalf("expected 1 visible task, got %d", len(ui.visible))
	}
	if ui.visible[0].Title != "Still open" {
		t.Fatalf("expected open task to remain, got %q", ui.visible[0].Title)
	}
}

func TestSelectionClampedAfterShrink(t *testing.T) {
	ui, server, user := newTestUI(t)
	server.SeedTask(user.ID, model.Task{Title: "One"})
	server.SeedTask(user.ID, model.Task{Title: "Two"})
	ui.reloadAll()

	ui.selected = 1
	if err := ui.deleteTask(nil, nil); err != nil {
		t.Fatalf("delete task: %v", err)
	}
	if ui.selected != 0 {
		t.Fatalf("expected selection clamped to 0, got %d", ui.selected)
	}
}

func TestFormatTask(t *testing.T) {
	due := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	task := model.Task{
		Title:    "Ship release",
		Status:   model.StatusInProgress,
		Priority: model.PriorityHigh,
		Starred:  true,
		DueDate:  &due,
		DueTime:  "09:30",
		Category: "work",
		Subtasks: []model.Subtask{
			{Title: "tag", Completed: true},
			{Title: "announce"},
		},
	}

	got := formatTask(task)
	want := "[~] * Ship release !high (Mar 14 09:30) #work 1/2"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	plain := formatTask(model.Task{Title: "Plain", Status: model.StatusPending})
	if plain != "[ ] Plain" {
		t.Fatalf("expected %q, got %q", "[ ] Plain", plain)
	}
}

func TestHistogramBar(t *testing.T) {
	if got := histogramBar(0, 5, 4); got != "    " {
		t.Fatalf("expected blank bar, got %q", got)
	}
	if got := histogramBar(5, 5, 4); got != "████" {
		t.Fatalf("expected full bar, got %q", got)
	}
	if got := histogramBar(1, 100, 4); got != "█   " {
		t.Fatalf("expected minimum one cell, got %q", got)
	}
}
