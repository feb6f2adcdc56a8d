// Package view holds the pure functions that shape a task snapshot for
// display. Nothing here talks to the network or mutates its input.
package view

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rajeshprivate007/taskflow-frontend/internal/model"
)

// farFuture sorts tasks without a due date after every dated task within
// their group.
var farFuture = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// Sort returns a new slice ordered for display: incomplete tasks first,
// then completed, each group ascending by effective due date and time.
// Ties keep their original order.
func Sort(tasks []model.Task) []model.Task {
	sorted := make([]model.Task, len(tasks))
	copy(sorted, tasks)

	sort.SliceStable(sorted, func(i, j int) bool {
		iDone := sorted[i].Status == model.StatusCompleted
		jDone := sorted[j].Status == model.StatusCompleted
		if iDone != jDone {
			return !iDone
		}
		return effectiveDue(sorted[i]).Before(effectiveDue(sorted[j]))
	})

	return sorted
}

// Visible applies the local show-completed toggle. This is the only
// filtering the client performs itself; everything else is sent
// upstream.
func Visible(tasks []model.Task, showCompleted bool) []model.Task {
	if showCompleted {
		return tasks
	}
	visible := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Status != model.StatusCompleted {
			visible = append(visible, task)
		}
	}
	return visible
}

// CompletionRate is the completed share of the stats snapshot as a whole
// percentage, rounded to nearest.
func CompletionRate(stats model.Stats) int {
	if stats.Total <= 0 {
		return 0
	}
	return int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
}

// DayCount is one bucket of the weekly productivity histogram.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// WeeklyProductivity counts tasks completed on each of the trailing 7
// calendar days including today, oldest first. A task counts on the
// local calendar day its last update landed on.
func WeeklyProductivity(tasks []model.Task, now time.Time) []DayCount {
	days := make([]DayCount, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		count := 0
		for _, task := range tasks {
			if task.Status == model.StatusCompleted && sameDay(task.UpdatedAt.Local(), day) {
				count++
			}
		}
		days = append(days, DayCount{Day: day.Weekday().String()[:3], Count: count})
	}
	return days
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// effectiveDue combines due date and due time into one sortable instant.
func effectiveDue(task model.Task) time.Time {
	if task.DueDate == nil {
		return farFuture
	}

	due := *task.DueDate
	if task.DueTime == "" {
		return due
	}

	parts := strings.SplitN(task.DueTime, ":", 2)
	if len(parts) != 2 {
		return due
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return due
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return due
	}

	year, month, day := due.Date()
	return time.Date(year, month, day, hours, minutes, 0, 0, due.Location())
}
