package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rajeshprivate007/taskflow-frontend/internal/api"
	"github.com/rajeshprivate007/taskflow-frontend/internal/config"
	"github.com/rajeshprivate007/taskflow-frontend/internal/session"
	"github.com/rajeshprivate007/taskflow-frontend/internal/storage"
	"github.com/rajeshprivate007/taskflow-frontend/internal/todo"
)

var (
	configPathFlag string
	apiURLFlag     string
	verboseFlag    bool
)

var rootCmd = &cobra.Command{
	Use:           "taskflow",
	Short:         "Task management client",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPathFlag, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "backend API base URL")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", api.Message(err))
		os.Exit(1)
	}
}

type app struct {
	cfg   config.Config
	kv    storage.Store
	sess  *session.Store
	todos *todo.Store
	log   zerolog.Logger
}

func newApp() (*app, func(), error) {
	cfgPath := configPathFlag
	if cfgPath == "" {
		path, err := config.DefaultConfigPath()
		if err != nil {
			return nil, nil, err
		}
		cfgPath = path
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, err
	}
	if apiURLFlag != "" {
		cfg.APIBaseURL = apiURLFlag
	}

	level := zerolog.WarnLevel
	if verboseFlag {
		level = zerolog.DebugLevel
	}
	consoleWriter := zerolog.NewConsoleWriter()
	consoleWriter.Out = os.Stderr
	log := zerolog.New(consoleWriter).Level(level).With().Timestamp().Logger()

	dbPath := filepath.Join(cfg.DataDir, "taskflow.db")
	if err := config.EnsureDir(dbPath); err != nil {
		return nil, nil, err
	}
	kv, err := storage.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open local store: %w", err)
	}

	httpClient := &http.Client{Timeout: time.Duration(cfg.HTTPTimeoutSeconds) * time.Second}
	client := api.NewClient(cfg.APIBaseURL, kv, api.WithHTTPClient(httpClient), api.WithLogger(log))

	a := &app{
		cfg:   cfg,
		kv:    kv,
		sess:  session.New(client, kv, log),
		todos: todo.New(client, log),
		log:   log,
	}
	return a, func() { _ = kv.Close() }, nil
}

func (a *app) requireAuth(ctx context.Context) error {
	if err := a.sess.Bootstrap(ctx); err != nil {
		return err
	}
	if !a.sess.Authenticated() {
		return fmt.Errorf("not signed in, run 'taskflow login' first")
	}
	return nil
}
