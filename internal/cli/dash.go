package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/rajeshprivate007/taskflow-frontend/internal/model"
	"github.com/rajeshprivate007/taskflow-frontend/internal/web"
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Serve a local read-only dashboard",
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

		port, _ := cmd.Flags().GetInt("port")
		addr := fmt.Sprintf(":%d", port)
		handler := web.NewServer(app.sess, app.todos).Handler()

		app.log.Info().Str("addr", addr).Msg("dashboard listening")
		fmt.Printf("Dashboard running at http://localhost%s\n", addr)
		return http.ListenAndServe(addr, handler)
	},
}

func init() {
	dashCmd.Flags().Int("port", 8080, "listen port")
	rootCmd.AddCommand(dashCmd)
}
