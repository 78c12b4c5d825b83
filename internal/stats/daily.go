package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/model"
	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/snapshot"
)

// Daily report floors.
const (
	minDailyRankedGames = 3
	topDailyCharacters  = 5
	topDailyRivalries   = 5
	topDailyStreaks     = 5
)

// PerfectGame is one flawless win inside the report window.
type PerfectGame struct {
	Player    string `json:"player"`
	Character string `json:"character"`
	KOs       int    `json:"kos"`
}

// DailyStats summarizes one report day.
type DailyStats struct {
	Date          string           `json:"date"`
	TotalMatches  int              `json:"total_matches"`
	TotalKOs      int              `json:"total_kos"`
	TotalFalls    int              `json:"total_falls"`
	TotalSDs      int              `json:"total_sds"`
	Players       []PlayerStat     `json:"player_stats"`
	MostActive    string           `json:"most_active"`
	BestKD        string           `json:"best_kd"`
	Hottest       string           `json:"hottest"`
	TopCharacters []NameCount      `json:"top_characters"`
	PerfectGames  []PerfectGame    `json:"perfect_games"`
	MostKOs       SingleGameRecord `json:"most_kos"`
	Rivalries     []Rivalry        `json:"rivalries"`
	WinStreaks    []StreakEntry    `json:"win_streaks"`
}

// BuildDaily restricts the snapshot to one report window and summarizes it.
// The window is half-open: [from, to).
func BuildDaily(s *snapshot.Snapshot, cfg Config, from, to time.Time) (DailyStats, error) {
	var matches []model.Match
	participants := []model.MatchParticipant{}
	for _, matchID := range s.MatchIDs() {
		m, _ := s.Match(matchID)
		if m.CreatedAt.Before(from) || !m.CreatedAt.Before(to) {
			continue
		}
		matches = append(matches, m)
		participants = append(participants, s.MatchEntries(matchID)...)
	}
	if matches == nil {
		matches = []model.Match{}
	}

	day, err := snapshot.Build(s.Players(), matches, participants)
	if err != nil {
		return DailyStats{}, fmt.Errorf("daily window: %w", err)
	}

	ds := DailyStats{
		Date:         cfg.Local(from).Format("2006-01-02"),
		TotalMatches: len(day.MatchIDs()),
	}

	for _, matchID := range day.MatchIDs() {
		for _, e := range day.MatchEntries(matchID) {
			ds.TotalKOs += e.TotalKOs
			ds.TotalFalls += e.TotalFalls
			ds.TotalSDs += e.TotalSDs
		}
	}

	ds.Players = playerStats(day)
	if len(ds.Players) > 0 {
		ds.MostActive = ds.Players[0].Name
	}

	bestKD, bestWR := -1.0, -1.0
	for _, p := range ds.Players {
		if !qualifies(p.Games, minDailyRankedGames) {
			continue
		}
		if p.KDRatio > bestKD {
			bestKD = p.KDRatio
			ds.BestKD = p.Name
		}
		if p.WinRate > bestWR {
			bestWR = p.WinRate
			ds.Hottest = p.Name
		}
	}

	charCounts := make(map[string]int)
	for _, id := range day.PlayerIDs() {
		name, _ := day.Name(id)
		hist := day.History(id)
		for _, p := range hist {
			charCounts[p.SmashCharacter]++
			if p.IsPerfectGame() {
				ds.PerfectGames = append(ds.PerfectGames, PerfectGame{Player: name, Character: p.SmashCharacter, KOs: p.TotalKOs})
			}
			if p.TotalKOs > ds.MostKOs.Value {
				ds.MostKOs = SingleGameRecord{Player: name, Value: p.TotalKOs, Character: p.SmashCharacter, Won: p.HasWon}
			}
		}
		if run := maxRun(outcomes(hist), true); run >= minStreakLen {
			ds.WinStreaks = append(ds.WinStreaks, StreakEntry{Name: name, Length: run})
		}
	}
	for ch, n := range charCounts {
		ds.TopCharacters = append(ds.TopCharacters, NameCount{Name: ch, Count: n})
	}
	sortNameCounts(ds.TopCharacters)
	ds.TopCharacters = capLen(ds.TopCharacters, topDailyCharacters)

	sort.Slice(ds.WinStreaks, func(i, j int) bool {
		if ds.WinStreaks[i].Length != ds.WinStreaks[j].Length {
			return ds.WinStreaks[i].Length > ds.WinStreaks[j].Length
		}
		return ds.WinStreaks[i].Name < ds.WinStreaks[j].Name
	})
	if len(ds.WinStreaks) > topDailyStreaks {
		ds.WinStreaks = ds.WinStreaks[:topDailyStreaks]
	}

	// Within a single day two meetings already make a rivalry.
	h2h := headToHeads(day)
	for _, key := range sortedPairKeys(h2h) {
		rec := h2h[key]
		if rec.Total() < 2 {
			continue
		}
		dom := rec.WinsA
		if rec.WinsB > dom {
			dom = rec.WinsB
		}
		ds.Rivalries = append(ds.Rivalries, Rivalry{
			PlayerA: key.A, PlayerB: key.B, WinsA: rec.WinsA, WinsB: rec.WinsB,
			Total: rec.Total(), Dominance: pct(dom, rec.Total()),
		})
	}
	sort.Slice(ds.Rivalries, func(i, j int) bool {
		if ds.Rivalries[i].Total != ds.Rivalries[j].Total {
			return ds.Rivalries[i].Total > ds.Rivalries[j].Total
		}
		return ds.Rivalries[i].PlayerA < ds.Rivalries[j].PlayerA
	})
	if len(ds.Rivalries) > topDailyRivalries {
		ds.Rivalries = ds.Rivalries[:topDailyRivalries]
	}

	sort.Slice(ds.PerfectGames, func(i, j int) bool {
		if ds.PerfectGames[i].KOs != ds.PerfectGames[j].KOs {
			return ds.PerfectGames[i].KOs > ds.PerfectGames[j].KOs
		}
		return ds.PerfectGames[i].Player < ds.PerfectGames[j].Player
	})

	return ds, nil
}
