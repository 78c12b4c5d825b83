package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/report"
	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/stats"
)

var (
	analyzeOut    string
	analyzeTables bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the full analysis and emit the results artifact",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", "", "output file (default stdout)")
	analyzeCmd.Flags().BoolVar(&analyzeTables, "tables", false, "print summary tables instead of JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	s, err := loadSnapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	a := stats.BuildAnalysis(s, engineConfig())
	if analyzeTables {
		report.PrintOverall(os.Stdout, a.Overall)
		report.PrintPlayerTable(os.Stdout, a.Players)
		report.PrintCharacterTable(os.Stdout, a.Characters)
		report.PrintRivalryTable(os.Stdout, a.Rivalries)
		report.PrintLeaderboard(os.Stdout, a.Leaderboard)
		return nil
	}
	return writeArtifact(analyzeOut, a)
}
