package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/stats"
)

var bettingOut string

var bettingCmd = &cobra.Command{
	Use:   "betting",
	Short: "Head-to-head odds sheet for office bragging rights",
	RunE:  runBetting,
}

func init() {
	bettingCmd.Flags().StringVar(&bettingOut, "out", "", "output file (default stdout)")
	rootCmd.AddCommand(bettingCmd)
}

func runBetting(cmd *cobra.Command, args []string) error {
	s, err := loadSnapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	return writeArtifact(bettingOut, stats.BuildBetting(s))
}
