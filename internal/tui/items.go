package tui

import (
	"fmt"
	"strings"

	"github.com/rajeshprivate007/taskflow-frontend/internal/model"
)

func statusMarker(status string) string {
	switch status {
	case model.StatusCompleted:
		return "[x]"
	case model.StatusInProgress:
		return "[~]"
	default:
		return "[ ]"
	}
}

func formatTask(task model.Task) string {
	parts := []string{statusMarker(task.Status)}
	if task.Starred {
		parts = append(parts, "*")
	}
	parts = append(parts, task.Title)
	if task.Priority == model.PriorityHigh {
		parts = append(parts, "!high")
	}
	if task.DueDate != nil {
		due := task.DueDate.Format("Jan 02")
		if task.DueTime != "" {
			due += " " + task.DueTime
		}
		parts = append(parts, "("+due+")")
	}
	if task.Category != "" {
		parts = append(parts, "#"+task.Category)
	}
	if len(task.Subtasks) > 0 {
		done := 0
		for _, sub := range task.Subtasks {
			if sub.Completed {
				done++
			}
		}
		parts = append(parts, fmt.Sprintf("%d/%d", done, len(task.Subtasks)))
	}
	return strings.Join(parts, " ")
}

func histogramBar(count, max, width int) string {
	if max <= 0 || count <= 0 {
		return strings.Repeat(" ", width)
	}
	filled := count * width / max
	if filled < 1 {
		filled = 1
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat(" ", width-filled)
}
