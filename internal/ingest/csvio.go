package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/model"
)

// CSV column layouts. Readers require the header row the writers emit.
var (
	playerHeader      = []string{"id", "name", "elo", "country", "inactive", "created_at"}
	matchHeader       = []string{"id", "created_at"}
	participantHeader = []string{"id", "match_id", "player_id", "smash_character", "is_cpu", "total_kos", "total_falls", "total_sds", "has_won", "created_at"}
)

func formatTime(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

func parseBool(s string) bool { return s == "true" || s == "1" || s == "t" }

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// WritePlayersCSV writes players with a header row.
func WritePlayersCSV(w io.Writer, players []model.Player) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(playerHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range players {
		rec := []string{
			strconv.FormatInt(p.ID, 10), p.Name, strconv.Itoa(p.Elo), p.Country, formatBool(p.Inactive), formatTime(p.CreatedAt),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write player %d: %w", p.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadPlayersCSV reads what WritePlayersCSV wrote.
func ReadPlayersCSV(r io.Reader) ([]model.Player, error) {
	records, err := readAll(r, playerHeader)
	if err != nil {
		return nil, err
	}
	out := []model.Player{}
	for i, rec := range records {
		var p model.Player
		if p.ID, err = strconv.ParseInt(rec[0], 10, 64); err != nil {
			return nil, fmt.Errorf("row %d: parse id: %w", i+2, err)
		}
		p.Name = rec[1]
		if rec[2] != "" {
			if p.Elo, err = strconv.Atoi(rec[2]); err != nil {
				return nil, fmt.Errorf("row %d: parse elo: %w", i+2, err)
			}
		}
		p.Country = rec[3]
		p.Inactive = parseBool(rec[4])
		if p.CreatedAt, err = parseTime(rec[5]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// WriteMatchesCSV writes matches with a header row.
func WriteMatchesCSV(w io.Writer, matches []model.Match) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(matchHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, m := range matches {
		if err := cw.Write([]string{strconv.FormatInt(m.ID, 10), formatTime(m.CreatedAt)}); err != nil {
			return fmt.Errorf("write match %d: %w", m.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadMatchesCSV reads what WriteMatchesCSV wrote.
func ReadMatchesCSV(r io.Reader) ([]model.Match, error) {
	records, err := readAll(r, matchHeader)
	if err != nil {
		return nil, err
	}
	out := []model.Match{}
	for i, rec := range records {
		var m model.Match
		if m.ID, err = strconv.ParseInt(rec[0], 10, 64); err != nil {
			return nil, fmt.Errorf("row %d: parse id: %w", i+2, err)
		}
		if m.CreatedAt, err = parseTime(rec[1]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// WriteParticipantsCSV writes participant rows with a header row.
func WriteParticipantsCSV(w io.Writer, parts []model.MatchParticipant) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(participantHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, p := range parts {
		rec := []string{
			strconv.FormatInt(p.ID, 10),
			strconv.FormatInt(p.MatchID, 10),
			strconv.FormatInt(p.PlayerID, 10),
			p.SmashCharacter,
			formatBool(p.IsCPU),
			strconv.Itoa(p.TotalKOs),
			strconv.Itoa(p.TotalFalls),
			strconv.Itoa(p.TotalSDs),
			formatBool(p.HasWon),
			formatTime(p.CreatedAt),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write participant %d: %w", p.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadParticipantsCSV reads what WriteParticipantsCSV wrote.
func ReadParticipantsCSV(r io.Reader) ([]model.MatchParticipant, error) {
	records, err := readAll(r, participantHeader)
	if err != nil {
		return nil, err
	}
	out := []model.MatchParticipant{}
	for i, rec := range records {
		var p model.MatchParticipant
		if p.ID, err = strconv.ParseInt(rec[0], 10, 64); err != nil {
			return nil, fmt.Errorf("row %d: parse id: %w", i+2, err)
		}
		if p.MatchID, err = strconv.ParseInt(rec[1], 10, 64); err != nil {
			return nil, fmt.Errorf("row %d: parse match_id: %w", i+2, err)
		}
		if p.PlayerID, err = strconv.ParseInt(rec[2], 10, 64); err != nil {
			return nil, fmt.Errorf("row %d: parse player_id: %w", i+2, err)
		}
		p.SmashCharacter = rec[3]
		p.IsCPU = parseBool(rec[4])
		if p.TotalKOs, err = strconv.Atoi(rec[5]); err != nil {
			return nil, fmt.Errorf("row %d: parse total_kos: %w", i+2, err)
		}
		if p.TotalFalls, err = strconv.Atoi(rec[6]); err != nil {
			return nil, fmt.Errorf("row %d: parse total_falls: %w", i+2, err)
		}
		if p.TotalSDs, err = strconv.Atoi(rec[7]); err != nil {
			return nil, fmt.Errorf("row %d: parse total_sds: %w", i+2, err)
		}
		p.HasWon = parseBool(rec[8])
		if p.CreatedAt, err = parseTime(rec[9]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func readAll(r io.Reader, header []string) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv: missing header row")
	}
	for i, want := range header {
		if records[0][i] != want {
			return nil, fmt.Errorf("read csv: header column %d is %q, want %q", i+1, records[0][i], want)
		}
	}
	return records[1:], nil
}
