package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/snapshot"
	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/stats"
	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/storage"
)

var (
	dbPath        string
	tzOffsetHours int
)

var rootCmd = &cobra.Command{
	Use:   "smashmetrics",
	Short: "Analytics for the office Smash leaderboard",
	Long: `smashmetrics snapshots the office Smash Bros leaderboard database and
computes player, rivalry, and trend analytics from it.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is optional; existing environment variables win.
		_ = godotenv.Load()
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db",
		filepath.Join(mustUserHome(), ".smashmetrics", "snapshot.db"),
		"path to the snapshot database")
	rootCmd.PersistentFlags().IntVar(&tzOffsetHours, "tz-offset", -8,
		"UTC offset in hours used for local-time bucketing")
}

func mustUserHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func engineConfig() stats.Config {
	cfg := stats.DefaultConfig()
	cfg.UTCOffset = time.Duration(tzOffsetHours) * time.Hour
	return cfg
}

func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return storage.Open(dbPath)
}

// loadSnapshot opens the snapshot database, reads all three tables, and
// builds the indexes.
func loadSnapshot() (*snapshot.Snapshot, error) {
	db, err := openDB()
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	players, err := db.LoadPlayers()
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	matches, err := db.LoadMatches()
	if err != nil {
		return nil, fmt.Errorf("load matches: %w", err)
	}
	parts, err := db.LoadParticipants()
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}
	return snapshot.Build(players, matches, parts)
}

// writeArtifact marshals v as indented JSON to outPath, or stdout when the
// path is empty.
func writeArtifact(outPath string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}
	data = append(data, '\n')
	if outPath == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", outPath)
	return nil
}
