package view

import (
	"testing"
	"time"

	"github.com/rajeshprivate007/taskflow-frontend/internal/model"
)

func TestSortGroupsAndDueOrder(t *testing.T) {
	a := task("A", model.StatusPending, date(2024, 1, 2), "")
	b := task("B", model.StatusCompleted, date(2024, 1, 1), "")
	c := task("C", model.StatusPending, nil, "")

	sorted := Sort([]model.Task{a, b, c})

	got := titles(sorted)
	want := []string{"A", "C", "B"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestSortUsesDueTimeWithinSameDay(t *testing.T) {
	early := task("early", model.StatusPending, date(2024, 3, 5), "09:00")
	late := task("late", model.StatusPending, date(2024, 3, 5), "17:30")

	sorted := Sort([]model.Task{late, early})
	if sorted[0].Title != "early" || sorted[1].Title != "late" {
		t.Fatalf("expected due time to break the tie, got %v", titles(sorted))
	}
}

func TestSortIsStableForTies(t *testing.T) {
	first := task("first", model.StatusPending, nil, "")
	second := task("second", model.StatusPending, nil, "")
	third := task("third", model.StatusPending, nil, "")

	sorted := Sort([]model.Task{first, second, third})
	got := titles(sorted)
	want := []string{"first", "second", "third"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected stable order %v, got %v", want, got)
		}
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	input := []model.Task{
		task("done", model.StatusCompleted, nil, ""),
		task("open", model.StatusPending, nil, ""),
	}

	Sort(input)
	if input[0].Title != "done" {
		t.Fatalf("expected input untouched, got %v", titles(input))
	}
}

func TestVisibleHidesCompleted(t *testing.T) {
	tasks := []model.Task{
		task("open", model.StatusPending, nil, ""),
		task("done", model.StatusCompleted, nil, ""),
	}

	if got := Visible(tasks, true); len(got) != 2 {
		t.Fatalf("expected 2 visible tasks, got %d", len(got))
	}

	visible := Visible(tasks, false)
	if len(visible) != 1 || visible[0].Title != "open" {
		t.Fatalf("expected only 'open' visible, got %v", titles(visible))
	}
}

func TestCompletionRate(t *testing.T) {
	if rate := CompletionRate(model.Stats{}); rate != 0 {
		t.Fatalf("expected 0%% for empty stats, got %d", rate)
	}
	if rate := CompletionRate(model.Stats{Total: 10, Completed: 3}); rate != 30 {
		t.Fatalf("expected 30%%, got %d", rate)
	}
	if rate := CompletionRate(model.Stats{Total: 3, Completed: 2}); rate != 67 {
		t.Fatalf("expected 67%%, got %d", rate)
	}
}

func TestWeeklyProductivityBuckets(t *testing.T) {
	now := time.Date(2024, 6, 14, 15, 0, 0, 0, time.Local)

	today := task("today", model.StatusCompleted, nil, "")
	today.UpdatedAt = now.Add(-2 * time.Hour)

	yesterday := task("yesterday", model.StatusCompleted, nil, "")
	yesterday.UpdatedAt = now.AddDate(0, 0, -1)

	tooOld := task("old", model.StatusCompleted, nil, "")
	tooOld.UpdatedAt = now.AddDate(0, 0, -10)

	open := task("open", model.StatusPending, nil, "")
	open.UpdatedAt = now

	days := WeeklyProductivity([]model.Task{today, yesterday, tooOld, open}, now)
	if len(days) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(days))
	}
	if days[6].Count != 1 {
		t.Fatalf("expected 1 completion today, got %d", days[6].Count)
	}
	if days[5].Count != 1 {
		t.Fatalf("expected 1 completion yesterday, got %d", days[5].Count)
	}
	for i := 0; i < 5; i++ {
		if days[i].Count != 0 {
			t.Fatalf("expected empty bucket %d, got %d", i, days[i].Count)
		}
	}
	if days[6].Day != now.Weekday().String()[:3] {
		t.Fatalf("expected last bucket labeled %q, got %q", now.Weekday().String()[:3], days[6].Day)
	}
}

func task(title, status string, due *time.Time, dueTime string) model.Task {
	return model.Task{
		ID:      title,
		Title:   title,
		Status:  status,
		DueDate: due,
		DueTime: dueTime,
	}
}

func date(year int, month time.Month, day int) *time.Time {
	value := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &value
}

func titles(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Title)
	}
	return out
}
