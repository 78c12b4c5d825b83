package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/model"
)

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// InsertPlayers upserts players in one transaction.
func (d *DB) InsertPlayers(players []model.Player) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO players
		(id, name, elo, country, inactive, created_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare players: %w", err)
	}
	defer stmt.Close()

	for _, p := range players {
		elo := p.Elo
		if elo == 0 {
			elo = model.DefaultElo
		}
		if _, err := stmt.Exec(p.ID, p.Name, elo, p.Country, boolInt(p.Inactive), p.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("insert player %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// InsertMatches upserts matches in one transaction.
func (d *DB) InsertMatches(matches []model.Match) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO matches (id, created_at) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare matches: %w", err)
	}
	defer stmt.Close()

	for _, m := range matches {
		if _, err := stmt.Exec(m.ID, m.CreatedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("insert match %d: %w", m.ID, err)
		}
	}
	return tx.Commit()
}

// InsertParticipants upserts participant rows in one transaction.
func (d *DB) InsertParticipants(parts []model.MatchParticipant) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR REPLACE INTO match_participants
		(id, match_id, player_id, smash_character, is_cpu,
		 total_kos, total_falls, total_sds, has_won, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare participants: %w", err)
	}
	defer stmt.Close()

	for _, p := range parts {
		if _, err := stmt.Exec(
			p.ID, p.MatchID, p.PlayerID, p.SmashCharacter, boolInt(p.IsCPU),
			p.TotalKOs, p.TotalFalls, p.TotalSDs, boolInt(p.HasWon),
			p.CreatedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("insert participant %d: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func parseStoredTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

// LoadPlayers reads the whole players table.
func (d *DB) LoadPlayers() ([]model.Player, error) {
	rows, err := d.conn.Query(`SELECT id, name, elo, country, inactive, created_at FROM players ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	out := []model.Player{}
	for rows.Next() {
		var p model.Player
		var inactive int
		var created string
		if err := rows.Scan(&p.ID, &p.Name, &p.Elo, &p.Country, &inactive, &created); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.Inactive = inactive != 0
		if p.CreatedAt, err = parseStoredTime(created); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// LoadMatches reads the whole matches table in chronological order.
func (d *DB) LoadMatches() ([]model.Match, error) {
	rows, err := d.conn.Query(`SELECT id, created_at FROM matches ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	out := []model.Match{}
	for rows.Next() {
		var m model.Match
		var created string
		if err := rows.Scan(&m.ID, &created); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		if m.CreatedAt, err = parseStoredTime(created); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// LoadParticipants reads the whole match_participants table.
func (d *DB) LoadParticipants() ([]model.MatchParticipant, error) {
	rows, err := d.conn.Query(`SELECT id, match_id, player_id, smash_character, is_cpu,
		total_kos, total_falls, total_sds, has_won, created_at
		FROM match_participants ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	out := []model.MatchParticipant{}
	for rows.Next() {
		var p model.MatchParticipant
		var isCPU, hasWon int
		var created string
		if err := rows.Scan(&p.ID, &p.MatchID, &p.PlayerID, &p.SmashCharacter, &isCPU,
			&p.TotalKOs, &p.TotalFalls, &p.TotalSDs, &hasWon, &created); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		p.IsCPU = isCPU != 0
		p.HasWon = hasWon != 0
		if p.CreatedAt, err = parseStoredTime(created); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Counts returns the table row counts for the summary command.
func (d *DB) Counts() (players, matches, participants int, err error) {
	count := func(table string) (int, error) {
		var n int
		err := d.conn.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n)
		if err != nil && err != sql.ErrNoRows {
			return 0, fmt.Errorf("count %s: %w", table, err)
		}
		return n, nil
	}
	if players, err = count("players"); err != nil {
		return
	}
	if matches, err = count("matches"); err != nil {
		return
	}
	participants, err = count("match_participants")
	return
}
