package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/report"
	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/stats"
)

var (
	outliersOut    string
	outliersTables bool
)

var outliersCmd = &cobra.Command{
	Use:   "outliers",
	Short: "Compute superlative records across the whole dataset",
	RunE:  runOutliers,
}

func init() {
	outliersCmd.Flags().StringVar(&outliersOut, "out", "", "output file (default stdout)")
	outliersCmd.Flags().BoolVar(&outliersTables, "tables", false, "print a table instead of JSON")
	rootCmd.AddCommand(outliersCmd)
}

func runOutliers(cmd *cobra.Command, args []string) error {
	s, err := loadSnapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	rep := stats.BuildOutliers(s, engineConfig())
	if outliersTables {
		report.PrintSuperlatives(os.Stdout, rep)
		return nil
	}
	return writeArtifact(outliersOut, rep)
}
