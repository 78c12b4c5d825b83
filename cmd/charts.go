package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/stats"
)

var chartsOut string

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Dashboard data series (activity, distributions, player network)",
	RunE:  runCharts,
}

func init() {
	chartsCmd.Flags().StringVar(&chartsOut, "out", "", "output file (default stdout)")
	rootCmd.AddCommand(chartsCmd)
}

func runCharts(cmd *cobra.Command, args []string) error {
	s, err := loadSnapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	return writeArtifact(chartsOut, stats.BuildCharts(s, engineConfig()))
}
