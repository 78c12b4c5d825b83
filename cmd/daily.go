package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/report"
	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/stats"
)

var (
	dailyDate    string
	dailyModel   string
	dailyOut     string
	dailyHistory string
	dailyNoLLM   bool
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Generate the daily report (LLM narrative with templated fallback)",
	Long: `Computes stats for one report day (reset hour 8 AM local to 8 AM the
next day), writes a narrative via the Anthropic API when ANTHROPIC_API_KEY
is set, and appends the report to the history file.`,
	RunE: runDaily,
}

func init() {
	dailyCmd.Flags().StringVar(&dailyDate, "date", "", "report date YYYY-MM-DD (default: today, local)")
	dailyCmd.Flags().StringVar(&dailyModel, "model", report.DefaultNarrativeModel, "model used for the narrative")
	dailyCmd.Flags().StringVar(&dailyOut, "out", "", "output file (default stdout)")
	dailyCmd.Flags().StringVar(&dailyHistory, "history",
		filepath.Join(mustUserHome(), ".smashmetrics", "report_history.json"),
		"report history file (empty to skip)")
	dailyCmd.Flags().BoolVar(&dailyNoLLM, "no-llm", false, "skip the model and use the templated report")
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(cmd *cobra.Command, args []string) error {
	cfg := engineConfig()

	day := cfg.Local(time.Now())
	if dailyDate != "" {
		parsed, err := time.Parse("2006-01-02", dailyDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		day = parsed
	}
	from, to := cfg.DayWindow(day.Year(), day.Month(), day.Day())

	s, err := loadSnapshot()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	ds, err := stats.BuildDaily(s, cfg, from, to)
	if err != nil {
		return fmt.Errorf("build daily stats: %w", err)
	}

	var rep *report.Report
	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if dailyNoLLM || apiKey == "" {
		rep = report.FallbackReport(ds)
	} else {
		rep, err = report.GenerateNarrative(cmd.Context(), apiKey, dailyModel, ds)
		if err != nil {
			fmt.Fprintf(os.Stderr, "narrative failed, using template: %v\n", err)
			rep = report.FallbackReport(ds)
		}
	}

	if dailyHistory != "" {
		if err := os.MkdirAll(filepath.Dir(dailyHistory), 0755); err != nil {
			return fmt.Errorf("create history dir: %w", err)
		}
		if err := report.SaveToHistory(dailyHistory, rep); err != nil {
			return fmt.Errorf("save history: %w", err)
		}
	}

	report.PrintDailyTable(os.Stderr, ds)
	return writeArtifact(dailyOut, rep)
}
