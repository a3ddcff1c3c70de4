package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/kinetype/internal/config"
	"github.com/verte-zerg/kinetype/internal/model"
	"github.com/verte-zerg/kinetype/internal/placement"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	env, err := config.LoadEnv(envFile)
	if err != nil {
		return fmt.Errorf("failed to load env: %w", err)
	}
	path := env.Config()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# kinetype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# learner = %q          # Learner id (also KINETYPE_LEARNER)
# catalog = ""              # TOML word catalog; empty uses the built-in list
# words = %d                # Words per session
# caps = %q             # Capitalize words: never, sometimes, often
# punct = %q            # Trailing punctuation: never, sometimes, often
# struggle-pct = %.2f       # Share of struggle words
# new-pct = %.2f            # Share of new words near the learner's level
# confidence-pct = %.2f     # Share of easy confidence words
# boosters = %d              # Easy words that open each session

[placement]
# items = %d                # Words in the placement test
`,
		config.DefaultLearner,
		model.DefaultSessionSize,
		model.Never,
		model.Never,
		model.DefaultStrugglePct,
		model.DefaultNewPct,
		model.DefaultConfidencePct,
		model.DefaultBoosters,
		placement.DefaultItems,
	)
}
