package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/stats"
)

var teamsOut string

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "Team, duo, and partnership stats",
	RunE:  runTeams,
}

func init() {
	teamsCmd.Flags().StringVar(&teamsOut, "out", "", "output file (default stdout)")
	rootCmd.AddCommand(teamsCmd)
}

func runTeams(cmd *cobra.Command, args []string) error {
	s, err := loadSnapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	return writeArtifact(teamsOut, stats.BuildTeams(s))
}
