package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/newsletter"
	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/report"
)

var (
	sendDate    string
	sendHistory string
	sendDryRun  bool
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a daily report to the newsletter",
	Long: `Formats a report from the history file as HTML and publishes it via the
Beehiiv API (BEEHIIV_API_KEY and BEEHIIV_PUBLICATION_ID). With --dry-run the
HTML is printed instead of sent.`,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVar(&sendDate, "date", "", "report date YYYY-MM-DD (default: newest in history)")
	sendCmd.Flags().StringVar(&sendHistory, "history",
		filepath.Join(mustUserHome(), ".smashmetrics", "report_history.json"),
		"report history file")
	sendCmd.Flags().BoolVar(&sendDryRun, "dry-run", false, "print the HTML instead of sending")
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	reports, err := report.LoadHistory(sendHistory)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if len(reports) == 0 {
		return fmt.Errorf("no reports in %s; run the daily command first", sendHistory)
	}

	rep := &reports[0]
	if sendDate != "" {
		rep = nil
		for i := range reports {
			if reports[i].Date == sendDate {
				rep = &reports[i]
				break
			}
		}
		if rep == nil {
			return fmt.Errorf("no report for %s in history", sendDate)
		}
	}

	html := report.EmailHTML(rep)
	if sendDryRun {
		fmt.Println(html)
		return nil
	}

	client := newsletter.NewClient(os.Getenv("BEEHIIV_API_KEY"), os.Getenv("BEEHIIV_PUBLICATION_ID"))
	result, err := client.PublishPost(cmd.Context(), rep.Headline, html)
	if err != nil {
		return fmt.Errorf("publish newsletter: %w", err)
	}
	fmt.Fprintf(os.Stderr, "published post %s (%s)\n", result.Data.ID, result.Data.Status)
	return nil
}
