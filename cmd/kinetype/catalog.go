package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/kinetype/internal/catalog"
	"github.com/verte-zerg/kinetype/internal/model"
)

var importCfg = catalog.DefaultImportConfig()

var importOut string

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show word counts per phonics group and difficulty",
		Args:  cobra.NoArgs,
		RunE:  runCatalogCmd,
	}
	cmd.AddCommand(newCatalogImportCmd())
	return cmd
}

func runCatalogCmd(cmd *cobra.Command, _ []string) error {
	if _, _, err := loadSettings(cmd); err != nil {
		return err
	}
	cat, err := catalog.Load(catalogPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	out := cmd.OutOrStdout()
	header := []string{fmt.Sprintf("%-14s", "group"), fmt.Sprintf("%5s", "total")}
	for d := model.MinDifficulty; d <= model.MaxDifficulty; d++ {
		header = append(header, fmt.Sprintf("%3d", d))
	}
	if _, err := fmt.Fprintln(out, strings.Join(header, " ")); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for _, gc := range cat.Counts() {
		row := []string{fmt.Sprintf("%-14s", gc.Group), fmt.Sprintf("%5d", gc.Total)}
		for d := model.MinDifficulty; d <= model.MaxDifficulty; d++ {
			cell := "."
			if n := gc.ByDifficulty[d]; n > 0 {
				cell = strconv.Itoa(n)
			}
			row = append(row, fmt.Sprintf("%3s", cell))
		}
		if _, err := fmt.Fprintln(out, strings.Join(row, " ")); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if _, err := fmt.Fprintf(out, "%d words, max difficulty %d\n", cat.Len(), cat.MaxDifficulty()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newCatalogImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Convert a spreadsheet word list to a TOML catalog",
		Args:  cobra.ExactArgs(1),
		RunE:  runCatalogImportCmd,
	}
	cmd.Flags().StringVar(&importCfg.Sheet, "sheet", importCfg.Sheet, "sheet name (empty: first sheet)")
	cmd.Flags().StringVar(&importCfg.TextColumn, "text-col", importCfg.TextColumn, "column holding the word")
	cmd.Flags().StringVar(&importCfg.DifficultyColumn, "difficulty-col", importCfg.DifficultyColumn, "column holding the difficulty (1-10)")
	cmd.Flags().StringVar(&importCfg.PatternColumn, "pattern-col", importCfg.PatternColumn, "column holding the phonics pattern")
	cmd.Flags().StringVar(&importCfg.SentenceColumn, "sentence-col", importCfg.SentenceColumn, "column holding an example sentence (empty: none)")
	cmd.Flags().IntVar(&importCfg.StartRow, "start-row", importCfg.StartRow, "first data row (1-based)")
	cmd.Flags().StringVar(&importOut, "out", "", "output TOML path (required)")
	return cmd
}

func runCatalogImportCmd(cmd *cobra.Command, args []string) error {
	if importOut == "" {
		return fmt.Errorf("--out is required")
	}
	cfg := importCfg
	cfg.Path = args[0]
	res, err := catalog.ImportXLSX(cfg)
	if err != nil {
		return err
	}
	for _, reason := range res.Rejected {
		logErrf("skipped %s\n", reason)
	}
	if _, err := catalog.New(res.Items); err != nil {
		return fmt.Errorf("imported words do not form a valid catalog: %w", err)
	}
	if err := catalog.Write(importOut, res.Items); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d words to %s (%d rows skipped)\n", len(res.Items), importOut, len(res.Rejected))
	return err
}
