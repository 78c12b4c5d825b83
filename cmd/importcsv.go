package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/ingest"
)

var (
	importPlayersPath      string
	importMatchesPath      string
	importParticipantsPath string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load CSV exports into the local snapshot",
	RunE:  runImport,
}

func init() {
	importCmd.Flags().StringVar(&importPlayersPath, "players", "", "players CSV file")
	importCmd.Flags().StringVar(&importMatchesPath, "matches", "", "matches CSV file")
	importCmd.Flags().StringVar(&importParticipantsPath, "participants", "", "match_participants CSV file")
	importCmd.MarkFlagRequired("players")
	importCmd.MarkFlagRequired("matches")
	importCmd.MarkFlagRequired("participants")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	pf, err := os.Open(importPlayersPath)
	if err != nil {
		return fmt.Errorf("open players csv: %w", err)
	}
	defer pf.Close()
	players, err := ingest.ReadPlayersCSV(pf)
	if err != nil {
		return fmt.Errorf("read players csv: %w", err)
	}

	mf, err := os.Open(importMatchesPath)
	if err != nil {
		return fmt.Errorf("open matches csv: %w", err)
	}
	defer mf.Close()
	matches, err := ingest.ReadMatchesCSV(mf)
	if err != nil {
		return fmt.Errorf("read matches csv: %w", err)
	}

	xf, err := os.Open(importParticipantsPath)
	if err != nil {
		return fmt.Errorf("open participants csv: %w", err)
	}
	defer xf.Close()
	parts, err := ingest.ReadParticipantsCSV(xf)
	if err != nil {
		return fmt.Errorf("read participants csv: %w", err)
	}

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

	fmt.Fprintf(os.Stderr, "imported %d players, %d matches, %d participants into %s\n",
		len(players), len(matches), len(parts), dbPath)
	return nil
}
