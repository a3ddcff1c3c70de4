package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/kinetype/internal/config"
	"github.com/verte-zerg/kinetype/internal/model"
	"github.com/verte-zerg/kinetype/internal/tui"
)

var (
	practiceWords         int
	practiceCaps          string
	practicePunct         string
	practiceStrugglePct   float64
	practiceNewPct        float64
	practiceConfidencePct float64
	practiceBoosters      int
)

func addPracticeFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&practiceWords, "words", model.DefaultSessionSize, "words per session")
	cmd.Flags().StringVar(&practiceCaps, "caps", string(model.Never), "capitalize words: never, sometimes or often")
	cmd.Flags().StringVar(&practicePunct, "punct", string(model.Never), "add trailing punctuation: never, sometimes or often")
	cmd.Flags().Float64Var(&practiceStrugglePct, "struggle-pct", model.DefaultStrugglePct, "share of struggle words")
	cmd.Flags().Float64Var(&practiceNewPct, "new-pct", model.DefaultNewPct, "share of new words near the learner's level")
	cmd.Flags().Float64Var(&practiceConfidencePct, "confidence-pct", model.DefaultConfidencePct, "share of easy confidence words")
	cmd.Flags().IntVar(&practiceBoosters, "boosters", model.DefaultBoosters, "easy words that open each session")
}

func practiceSpec(cmd *cobra.Command, fileCfg config.FileConfig) (model.SessionSpec, error) {
	p := fileCfg.Practice
	applyIntConfig(cmd, "words", &practiceWords, p.Words)
	applyStringConfig(cmd, "caps", &practiceCaps, p.Caps)
	applyStringConfig(cmd, "punct", &practicePunct, p.Punct)
	applyFloatConfig(cmd, "struggle-pct", &practiceStrugglePct, p.StrugglePct)
	applyFloatConfig(cmd, "new-pct", &practiceNewPct, p.NewPct)
	applyFloatConfig(cmd, "confidence-pct", &practiceConfidencePct, p.ConfidencePct)
	applyIntConfig(cmd, "boosters", &practiceBoosters, p.Boosters)

	spec := model.SessionSpec{
		Size:           practiceWords,
		Capitalization: model.Frequency(practiceCaps),
		Punctuation:    model.Frequency(practicePunct),
		StrugglePct:    practiceStrugglePct,
		NewPct:         practiceNewPct,
		ConfidencePct:  practiceConfidencePct,
		Boosters:       practiceBoosters,
	}
	normalized, err := spec.Normalize()
	if err != nil {
		return model.SessionSpec{}, err
	}
	return normalized, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	spec, err := practiceSpec(cmd, a.file)
	if err != nil {
		return err
	}

	progress, err := a.engine.Progress(context.Background(), learnerID)
	if err != nil {
		return err
	}
	if !progress.HasCompletedPlacement {
		logErrln("No placement yet; starting the placement test.")
		placed, err := runPlacementTUI(a)
		if err != nil {
			return err
		}
		if !placed {
			return nil
		}
	}

	m := tui.NewPracticeModel(a.engine, learnerID, spec)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := m.Err(); err != nil {
		return err
	}
	if n := m.Sessions(); n > 0 {
		logErrf("Recorded %d session(s) for %s.\n", n, learnerID)
	}
	return nil
}

func newPlacementCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "placement",
		Short: "Run the placement test",
		Args:  cobra.NoArgs,
		RunE:  runPlacementCmd,
	}
}

func runPlacementCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	_, err = runPlacementTUI(a)
	return err
}

func runPlacementTUI(a *app) (bool, error) {
	m := tui.NewPlacementModel(a.engine, learnerID)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return false, fmt.Errorf("failed to run placement TUI: %w", err)
	}
	if err := m.Err(); err != nil {
		return false, err
	}
	if !m.Completed() {
		logErrln("Placement cancelled; nothing was saved.")
		return false, nil
	}
	res := m.Result()
	logErrf("Placement done: level %d, %d/%d correct.\n", res.Level, res.Correct, len(res.Attempts))
	return true, nil
}
