// Package ingest pulls leaderboard data into the local snapshot, either from
// the live Postgres database or from CSV exports of it.
package ingest

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/model"
)

// ExportPostgres reads the players, matches, and match_participants tables
// from the live database.
func ExportPostgres(ctx context.Context, databaseURL string) ([]model.Player, []model.Match, []model.MatchParticipant, error) {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	defer conn.Close(ctx)

	players, err := fetchPlayers(ctx, conn)
	if err != nil {
		return nil, nil, nil, err
	}
	matches, err := fetchMatches(ctx, conn)
	if err != nil {
		return nil, nil, nil, err
	}
	parts, err := fetchParticipants(ctx, conn)
	if err != nil {
		return nil, nil, nil, err
	}
	return players, matches, parts, nil
}

func fetchPlayers(ctx context.Context, conn *pgx.Conn) ([]model.Player, error) {
	rows, err := conn.Query(ctx, `SELECT id, name, elo, country, inactive, created_at FROM public.players ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	out := []model.Player{}
	for rows.Next() {
		var p model.Player
		var elo *int
		var country *string
		var inactive *bool
		if err := rows.Scan(&p.ID, &p.Name, &elo, &country, &inactive, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		if elo != nil {
			p.Elo = *elo
		} else {
			p.Elo = model.DefaultElo
		}
		if country != nil {
			p.Country = *country
		}
		if inactive != nil {
			p.Inactive = *inactive
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func fetchMatches(ctx context.Context, conn *pgx.Conn) ([]model.Match, error) {
	rows, err := conn.Query(ctx, `SELECT id, created_at FROM public.matches ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	out := []model.Match{}
	for rows.Next() {
		var m model.Match
		if err := rows.Scan(&m.ID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func fetchParticipants(ctx context.Context, conn *pgx.Conn) ([]model.MatchParticipant, error) {
	rows, err := conn.Query(ctx, `SELECT id, match_id, player_id, smash_character, is_cpu,
		total_kos, total_falls, total_sds, has_won, created_at
		FROM public.match_participants ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	out := []model.MatchParticipant{}
	for rows.Next() {
		var p model.MatchParticipant
		if err := rows.Scan(&p.ID, &p.MatchID, &p.PlayerID, &p.SmashCharacter, &p.IsCPU,
			&p.TotalKOs, &p.TotalFalls, &p.TotalSDs, &p.HasWon, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
