package cli

import (
	"github.com/spf13/cobra"

	"github.com/rajeshprivate007/taskflow-frontend/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive terminal UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := newApp()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := app.requireAuth(cmd.Context()); err != nil {
			return err
		}

		return tui.Run(app.sess, app.todos)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
