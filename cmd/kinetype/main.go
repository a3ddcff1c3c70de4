// Package main provides the CLI entrypoint for kinetype.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/kinetype/internal/catalog"
	"github.com/verte-zerg/kinetype/internal/config"
	"github.com/verte-zerg/kinetype/internal/engine"
	"github.com/verte-zerg/kinetype/internal/placement"
	"github.com/verte-zerg/kinetype/internal/store"
)

const envFile = ".env"

var (
	learnerID      string
	catalogPath    string
	placementItems int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "kinetype",
		Short:         "Adaptive spelling and typing practice",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&learnerID, "learner", config.DefaultLearner, "learner id")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "TOML word catalog (default: built-in)")
	rootCmd.PersistentFlags().IntVar(&placementItems, "placement-items", placement.DefaultItems, "words in the placement test")
	addPracticeFlags(rootCmd)

	rootCmd.AddCommand(newPlacementCmd())
	rootCmd.AddCommand(newProgressCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCatalogCmd())

	return rootCmd
}

// app is the wiring shared by every command that touches learner state.
type app struct {
	env     config.Env
	file    config.FileConfig
	store   *store.Store
	catalog *catalog.Catalog
	engine  *engine.Engine
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if cerr := a.store.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

// loadSettings resolves env, the config file and the shared flags. Flags win
// over the config file, which wins over env and defaults.
func loadSettings(cmd *cobra.Command) (config.Env, config.FileConfig, error) {
	env, err := config.LoadEnv(envFile)
	if err != nil {
		return config.Env{}, config.FileConfig{}, fmt.Errorf("failed to load env: %w", err)
	}
	fileCfg, err := config.LoadConfig(env.Config())
	if err != nil {
		return config.Env{}, config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	if env.Learner != "" && !cmd.Flags().Changed("learner") {
		learnerID = env.Learner
	}
	applyStringConfig(cmd, "learner", &learnerID, fileCfg.Practice.Learner)
	applyStringConfig(cmd, "catalog", &catalogPath, fileCfg.Practice.Catalog)
	applyIntConfig(cmd, "placement-items", &placementItems, fileCfg.Placement.Items)
	if learnerID == "" {
		return config.Env{}, config.FileConfig{}, fmt.Errorf("--learner must not be empty")
	}
	if placementItems <= 0 {
		return config.Env{}, config.FileConfig{}, fmt.Errorf("--placement-items must be > 0")
	}
	return env, fileCfg, nil
}

func openApp(cmd *cobra.Command) (*app, error) {
	env, fileCfg, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	st, err := store.Open(env.DB())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	eng := engine.New(cat, st,
		engine.WithPlacementItems(placementItems),
		engine.WithLogger(func(format string, args ...any) { logErrf(format+"\n", args...) }),
	)
	return &app{env: env, file: fileCfg, store: st, catalog: cat, engine: eng}, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
