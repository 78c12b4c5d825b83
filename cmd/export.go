package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/ingest"
	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/model"
)

var exportCSVDir string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Pull the live leaderboard database into the local snapshot",
	Long: `Reads players, matches, and match_participants from the Postgres
database named by DATABASE_URL and stores them in the local snapshot.
With --csv-dir, timestamped CSV copies are written as well.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportCSVDir, "csv-dir", "", "also write timestamped CSV exports into this directory")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL is not set")
	}

	fmt.Fprintln(os.Stderr, "exporting from postgres...")
	players, matches, parts, err := ingest.ExportPostgres(cmd.Context(), databaseURL)
	if err != nil {
		return fmt.Errorf("export postgres: %w", err)
	}
	fmt.Fprintf(os.Stderr, "fetched %d players, %d matches, %d participants\n",
		len(players), len(matches), len(parts))

	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if err := db.InsertPlayers(players); err != nil {
		return fmt.Errorf("store players: %w", err)
	}
	if err := db.InsertMatches(matches); err != nil {
		return fmt.Errorf("store matches: %w", err)
	}
	if err := db.InsertParticipants(parts); err != nil {
		return fmt.Errorf("store participants: %w", err)
	}
	fmt.Fprintf(os.Stderr, "snapshot updated at %s\n", dbPath)

	if exportCSVDir != "" {
		if err := writeCSVExports(exportCSVDir, players, matches, parts); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVExports(dir string, players []model.Player, matches []model.Match, parts []model.MatchParticipant) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create csv dir: %w", err)
	}
	stamp := time.Now().UTC().Format("20060102_150405")

	write := func(name string, fn func(f *os.File) error) error {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", name, stamp))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create %s: %w", path, err)
		}
		defer f.Close()
		if err := fn(f); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", path)
		return nil
	}

	if err := write("players", func(f *os.File) error { return ingest.WritePlayersCSV(f, players) }); err != nil {
		return err
	}
	if err := write("matches", func(f *os.File) error { return ingest.WriteMatchesCSV(f, matches) }); err != nil {
		return err
	}
	return write("match_participants", func(f *os.File) error { return ingest.WriteParticipantsCSV(f, parts) })
}
