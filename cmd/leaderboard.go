package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/report"
	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/stats"
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Print the elo leaderboard",
	RunE:  runLeaderboard,
}

func init() {
	rootCmd.AddCommand(leaderboardCmd)
}

func runLeaderboard(cmd *cobra.Command, args []string) error {
	s, err := loadSnapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	a := stats.BuildAnalysis(s, engineConfig())
	report.PrintLeaderboard(os.Stdout, a.Leaderboard)
	report.PrintRivalryTable(os.Stdout, a.Rivalries)
	return nil
}
