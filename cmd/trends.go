package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/stats"
)

var trendsOut string

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Behavioural trend analysis (momentum, fatigue, clutch, and more)",
	RunE:  runTrends,
}

func init() {
	trendsCmd.Flags().StringVar(&trendsOut, "out", "", "output file (default stdout)")
	rootCmd.AddCommand(trendsCmd)
}

func runTrends(cmd *cobra.Command, args []string) error {
	s, err := loadSnapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	return writeArtifact(trendsOut, stats.BuildTrends(s, engineConfig()))
}
