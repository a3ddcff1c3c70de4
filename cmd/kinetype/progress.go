package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/kinetype/internal/stats"
)

var (
	progressLast  int
	progressColor bool
)

func newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Show level, struggle words and session history",
		Args:  cobra.NoArgs,
		RunE:  runProgressCmd,
	}
	cmd.Flags().IntVar(&progressLast, "last", 0, "limit to last N sessions")
	cmd.Flags().BoolVar(&progressColor, "color", false, "force colour output")
	return cmd
}

func runProgressCmd(cmd *cobra.Command, _ []string) error {
	if progressLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	report, err := stats.BuildReport(context.Background(), a.store, learnerID, progressLast)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	return stats.Render(out, report, stats.RenderOptions{
		Width: stats.TerminalWidth(),
		Color: stats.ShouldUseColor(out, progressColor),
	})
}
