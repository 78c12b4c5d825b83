package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/report"
	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/stats"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Overview of the local snapshot",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	players, matches, participants, err := db.Counts()
	db.Close()
	if err != nil {
		return fmt.Errorf("count rows: %w", err)
	}
	fmt.Printf("snapshot: %s\n", dbPath)
	fmt.Printf("players: %d  matches: %d  participants: %d\n", players, matches, participants)
	if matches == 0 {
		return nil
	}

	s, err := loadSnapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	a := stats.BuildAnalysis(s, engineConfig())
	report.PrintOverall(os.Stdout, a.Overall)
	report.PrintPlayerTable(os.Stdout, a.Players)
	return nil
}
