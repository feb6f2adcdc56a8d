package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rajeshprivate007/taskflow-frontend/internal/api"
	"github.com/rajeshprivate007/taskflow-frontend/internal/model"
	"github.com/rajeshprivate007/taskflow-frontend/internal/view"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := newApp()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := app.requireAuth(cmd.Context()); err != nil {
			return err
		}

		patch := model.FilterPatch{}
		if value, _ := cmd.Flags().GetString("search"); value != "" {
			patch.Search = &value
		}
		if value, _ := cmd.Flags().GetString("status"); value != "" {
			patch.Status = &value
		}
		if value, _ := cmd.Flags().GetString("priority"); value != "" {
			patch.Priority = &value
		}
		if value, _ := cmd.Flags().GetString("category"); value != "" {
			patch.Category = &value
		}
		if starred, _ := cmd.Flags().GetBool("starred"); starred {
			value := "true"
			patch.Starred = &value
		}
		if page, _ := cmd.Flags().GetInt("page"); page > 0 {
			patch.Page = &page
		}

		if err := app.todos.Load(cmd.Context(), patch); err != nil {
			return err
		}

		showCompleted, _ := cmd.Flags().GetBool("all")
		tasks := view.Visible(view.Sort(app.todos.Tasks()), showCompleted)
		if len(tasks) == 0 {
			fmt.Println("No tasks")
			return nil
		}

		for _, task := range tasks {
			fmt.Println(formatTaskLine(task))
		}
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Create a task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := newApp()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := app.requireAuth(cmd.Context()); err != nil {
			return err
		}

		input := api.TaskInput{Title: strings.Join(args, " ")}
		input.Description, _ = cmd.Flags().GetString("description")
		input.Priority, _ = cmd.Flags().GetString("priority")
		input.Category, _ = cmd.Flags().GetString("category")
		input.DueTime, _ = cmd.Flags().GetString("due-time")
		if value, _ := cmd.Flags().GetString("due"); value != "" {
			due, err := time.Parse("2006-01-02", value)
			if err != nil {
				return fmt.Errorf("invalid --due date %q, want YYYY-MM-DD", value)
			}
			input.DueDate = &due
		}

		created, err := app.todos.Create(cmd.Context(), input)
		if err != nil {
			return err
		}

		fmt.Printf("Created %s: %s\n", created.ID, created.Title)
		return nil
	},
}

var doneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a task's completion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := newApp()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := app.requireAuth(cmd.Context()); err != nil {
			return err
		}

		updated, err := app.todos.Toggle(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s is now %s\n", updated.Title, updated.Status)
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := newApp()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := app.requireAuth(cmd.Context()); err != nil {
			return err
		}

		if err := app.todos.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Println("Deleted", args[0])
		return nil
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive <id>",
	Short: "Archive a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := newApp()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := app.requireAuth(cmd.Context()); err != nil {
			return err
		}

		if err := app.todos.Archive(cmd.Context(), args[0]); err != nil {
			return err
		}

		fmt.Println("Archived", args[0])
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := newApp()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := app.requireAuth(cmd.Context()); err != nil {
			return err
		}

		if err := app.todos.Load(cmd.Context(), model.FilterPatch{}); err != nil {
			return err
		}
		if err := app.todos.RefreshStats(cmd.Context()); err != nil {
			return err
		}

		stats := app.todos.Stats()
		fmt.Printf("Total:       %d\n", stats.Total)
		fmt.Printf("Completed:   %d (%d%%)\n", stats.Completed, view.CompletionRate(stats))
		fmt.Printf("In progress: %d\n", stats.InProgress)
		fmt.Printf("Pending:     %d\n", stats.Pending)
		fmt.Printf("High prio:   %d\n", stats.HighPriority)
		fmt.Printf("Overdue:     %d\n", stats.Overdue)

		fmt.Println("\nCompleted this week:")
		for _, day := range view.WeeklyProductivity(app.todos.Tasks(), time.Now()) {
			fmt.Printf("  %s %s\n", day.Day, strings.Repeat("#", day.Count))
		}
		return nil
	},
}

func formatTaskLine(task model.Task) string {
	marker := "[ ]"
	switch task.Status {
	case model.StatusCompleted:
		marker = "[x]"
	case model.StatusInProgress:
		marker = "[~]"
	}

	line := fmt.Sprintf("%s %s  %s", marker, task.ID, task.Title)
	if task.Starred {
		line += " *"
	}
	if task.Priority == model.PriorityHigh {
		line += " !high"
	}
	if task.DueDate != nil {
		line += " (due " + task.DueDate.Format("2006-01-02")
		if task.DueTime != "" {
			line += " " + task.DueTime
		}
		line += ")"
	}
	if task.Category != "" {
		line += " #" + task.Category
	}
	return line
}

func init() {
	listCmd.Flags().String("search", "", "search in title and description")
	listCmd.Flags().String("status", "", "filter by status (pending, in-progress, completed)")
	listCmd.Flags().String("priority", "", "filter by priority (low, medium, high)")
	listCmd.Flags().String("category", "", "filter by category")
	listCmd.Flags().Bool("starred", false, "only starred tasks")
	listCmd.Flags().Int("page", 0, "result page")
	listCmd.Flags().Bool("all", true, "include completed tasks")

	addCmd.Flags().String("description", "", "task description")
	addCmd.Flags().String("priority", "", "priority (low, medium, high)")
	addCmd.Flags().String("category", "", "category")
	addCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
	addCmd.Flags().String("due-time", "", "due time (HH:MM)")

	rootCmd.AddCommand(listCmd, addCmd, doneCmd, rmCmd, archiveCmd, statsCmd)
}
