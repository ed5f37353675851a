package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/config"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/logging"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/orchestrator"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/store"
	"github.com/Sanket-HP/sifra-ai-backend-brain/internal/tasks"
)

// #region app

// app is the wiring shared by every subcommand.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	store    *store.Store
	pipeline *orchestrator.Pipeline
	runner   *tasks.Runner
}

var (
	configPath string
	dbPath     string
	logLevel   string
	noStore    bool
	asJSON     bool

	current *app
)

func newApp() (*app, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	log := zap.NewNop()
	if cfg.EnableLogs {
		log, err = logging.NewLogger(cfg.LogLevel, cfg.LogJSON)
		if err != nil {
			return nil, err
		}
	}

	a := &app{cfg: cfg, log: log}
	a.pipeline = orchestrator.NewPipeline(logging.NewStageObserver(log))

	var recorder tasks.RunRecorder
	if !noStore {
		a.store, err = store.NewStore(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open store %s: %w", cfg.DBPath, err)
		}
		recorder = a.store
	}
	a.runner = tasks.NewRunner(a.pipeline, cfg.TaskSettings(), recorder, log)
	return a, nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("close store", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}

// #endregion

// #region root

var rootCmd = &cobra.Command{
	Use:   "sifra",
	Short: "SIFRA reasoning core: goal-driven dataset analysis",
	Long: `sifra encodes a goal and a numeric dataset into intent, context, meaning
and emotion vectors, runs the trend, correlation and variation channels,
and fuses them into a memory signature.

Datasets are JSON: a list of rows ([[1,2],[3,4]]) or a flat list ([1,2,3]).
Run without arguments to open the interactive dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		current = a
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMenu(cmd.Context(), current, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "sifra.yaml", "YAML settings file (defaults apply when missing)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite run store (overrides db_path and "+config.EnvDB+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides log_level)")
	rootCmd.PersistentFlags().BoolVar(&noStore, "no-store", false, "Do not record runs in the store")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print results as JSON")

	rootCmd.AddCommand(runCmd, batchCmd, menuCmd)
	for _, c := range taskCommands() {
		rootCmd.AddCommand(c)
	}
}

// execute runs cmd and then releases the app, whether or not the command failed.
func execute(cmd *cobra.Command) error {
	defer func() {
		if current != nil {
			current.close()
		}
	}()
	return cmd.Execute()
}

func main() {
	if err := execute(rootCmd); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// #endregion
