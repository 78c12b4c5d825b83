// Package snapshot builds the in-memory indexes the aggregation engine runs
// over: name resolution, per-player histories, per-match groupings, and match
// format classification. All filtering of CPU entries and of participants
// that reference unknown players happens here, once, so the stats code never
// has to re-check.
package snapshot

import (
	"fmt"
	"sort"
	"time"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/model"
)

// FormatKind distinguishes the broad shapes a match can take.
type FormatKind int

const (
	// OneOnOne is a single winner against a single loser.
	OneOnOne FormatKind = iota
	// TeamVsTeam is any match with more than two human participants and at
	// least one player on each side.
	TeamVsTeam
	// Unbalanced means everyone won or everyone lost. These show up when a
	// match was recorded mid-edit; they are kept for volume counts but
	// excluded from head-to-head and team extraction.
	Unbalanced
)

// Format classifies one match by the win/loss split of its participants.
type Format struct {
	Kind       FormatKind
	WinnerSize int
	LoserSize  int
}

// Label renders the side sizes as "1v1", "2v2", "3v1" and so on.
func (f Format) Label() string {
	return fmt.Sprintf("%dv%d", f.WinnerSize, f.LoserSize)
}

// Snapshot holds the immutable dataset plus the indexes over it. Build is the
// only constructor; every accessor returns data in a deterministic order.
type Snapshot struct {
	players []model.Player
	matches []model.Match

	names     map[int64]string
	elos      map[int64]int
	countries map[int64]string

	byPlayer  map[int64][]model.MatchParticipant
	byMatch   map[int64][]model.MatchParticipant
	matchByID map[int64]model.Match

	playerIDs []int64
	matchIDs  []int64
}

// Build indexes the raw tables. It returns an error when a table is missing
// outright; empty slices are a valid, empty dataset. CPU participants and
// participants whose player_id resolves to no known player are dropped here.
func Build(players []model.Player, matches []model.Match, participants []model.MatchParticipant) (*Snapshot, error) {
	if players == nil {
		return nil, fmt.Errorf("build snapshot: players table missing")
	}
	if matches == nil {
		return nil, fmt.Errorf("build snapshot: matches table missing")
	}
	if participants == nil {
		return nil, fmt.Errorf("build snapshot: match_participants table missing")
	}

	s := &Snapshot{
		players:   players,
		matches:   matches,
		names:     make(map[int64]string, len(players)),
		elos:      make(map[int64]int, len(players)),
		countries: make(map[int64]string, len(players)),
		byPlayer:  make(map[int64][]model.MatchParticipant),
		byMatch:   make(map[int64][]model.MatchParticipant),
		matchByID: make(map[int64]model.Match, len(matches)),
	}

	for _, p := range players {
		s.names[p.ID] = p.Name
		elo := p.Elo
		if elo == 0 {
			elo = model.DefaultElo
		}
		s.elos[p.ID] = elo
		if p.Country != "" {
			s.countries[p.ID] = p.Country
		}
	}

	for _, m := range matches {
		s.matchByID[m.ID] = m
	}

	for _, mp := range participants {
		if mp.IsCPU {
			continue
		}
		if _, ok := s.names[mp.PlayerID]; !ok {
			continue
		}
		if _, ok := s.matchByID[mp.MatchID]; !ok {
			continue
		}
		s.byPlayer[mp.PlayerID] = append(s.byPlayer[mp.PlayerID], mp)
		s.byMatch[mp.MatchID] = append(s.byMatch[mp.MatchID], mp)
	}

	for id := range s.byPlayer {
		hist := s.byPlayer[id]
		sort.Slice(hist, func(i, j int) bool {
			if !hist[i].CreatedAt.Equal(hist[j].CreatedAt) {
				return hist[i].CreatedAt.Before(hist[j].CreatedAt)
			}
			return hist[i].ID < hist[j].ID
		})
		s.playerIDs = append(s.playerIDs, id)
	}
	sort.Slice(s.playerIDs, func(i, j int) bool { return s.playerIDs[i] < s.playerIDs[j] })

	for id := range s.byMatch {
		s.matchIDs = append(s.matchIDs, id)
	}
	sort.Slice(s.matchIDs, func(i, j int) bool {
		mi, mj := s.matchByID[s.matchIDs[i]], s.matchByID[s.matchIDs[j]]
		if !mi.CreatedAt.Equal(mj.CreatedAt) {
			return mi.CreatedAt.Before(mj.CreatedAt)
		}
		return mi.ID < mj.ID
	})

	return s, nil
}

// Name resolves a player id. The second return is false for unknown ids.
func (s *Snapshot) Name(id int64) (string, bool) {
	n, ok := s.names[id]
	return n, ok
}

// Elo returns the stored rating for a known player, or the default.
func (s *Snapshot) Elo(id int64) int {
	if e, ok := s.elos[id]; ok {
		return e
	}
	return model.DefaultElo
}

// Country returns the player's country, empty when unset.
func (s *Snapshot) Country(id int64) string { return s.countries[id] }

// Players returns the raw players table.
func (s *Snapshot) Players() []model.Player { return s.players }

// Matches returns the raw matches table.
func (s *Snapshot) Matches() []model.Match { return s.matches }

// Match looks up one match by id.
func (s *Snapshot) Match(id int64) (model.Match, bool) {
	m, ok := s.matchByID[id]
	return m, ok
}

// PlayerIDs lists every player with at least one indexed game, ascending.
func (s *Snapshot) PlayerIDs() []int64 { return s.playerIDs }

// MatchIDs lists every match with at least one indexed participant, in
// chronological order.
func (s *Snapshot) MatchIDs() []int64 { return s.matchIDs }

// History returns a player's games sorted by created_at ascending.
func (s *Snapshot) History(playerID int64) []model.MatchParticipant {
	return s.byPlayer[playerID]
}

// MatchEntries returns the indexed participants of one match.
func (s *Snapshot) MatchEntries(matchID int64) []model.MatchParticipant {
	return s.byMatch[matchID]
}

// Classify derives the match format from the win/loss split of its indexed
// participants.
func (s *Snapshot) Classify(matchID int64) Format {
	return ClassifyEntries(s.byMatch[matchID])
}

// ClassifyEntries is Classify over an explicit participant slice.
func ClassifyEntries(entries []model.MatchParticipant) Format {
	var won, lost int
	for _, e := range entries {
		if e.HasWon {
			won++
		} else {
			lost++
		}
	}
	f := Format{WinnerSize: won, LoserSize: lost}
	switch {
	case won == 0 || lost == 0:
		f.Kind = Unbalanced
	case won == 1 && lost == 1:
		f.Kind = OneOnOne
	default:
		f.Kind = TeamVsTeam
	}
	return f
}

// Sides splits a match's participants into winners and losers.
func (s *Snapshot) Sides(matchID int64) (winners, losers []model.MatchParticipant) {
	for _, e := range s.byMatch[matchID] {
		if e.HasWon {
			winners = append(winners, e)
		} else {
			losers = append(losers, e)
		}
	}
	return winners, losers
}

// DateRange returns the created_at bounds over indexed matches. ok is false
// for an empty snapshot.
func (s *Snapshot) DateRange() (first, last time.Time, ok bool) {
	if len(s.matchIDs) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first = s.matchByID[s.matchIDs[0]].CreatedAt
	last = s.matchByID[s.matchIDs[len(s.matchIDs)-1]].CreatedAt
	return first, last, true
}
