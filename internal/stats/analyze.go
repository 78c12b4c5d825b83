package stats

import (
	"sort"
	"time"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/snapshot"
)

// Thresholds for the full analysis artifact. Selection is always gated on
// these before any ranking happens.
const (
	minRivalryMeetings  = 3
	minLeaderboardGames = 5
	minOneTrickGames    = 10
	minFormGames        = 10
	minMatchupMeetings  = 3
	minStreakLen        = 3

	topRivalries = 20
	topMatchups  = 30
	topJourneys  = 10
)

// Analysis is the full-analysis JSON artifact.
type Analysis struct {
	GeneratedAt       string                     `json:"generated_at"`
	Overall           OverallStats               `json:"overall_stats"`
	Players           []PlayerStat               `json:"player_stats"`
	Characters        []CharacterStat            `json:"character_stats"`
	Rivalries         []Rivalry                  `json:"rivalries"`
	TimeTrends        TimeTrends                 `json:"time_trends"`
	FunFacts          FunFacts                   `json:"fun_facts"`
	Leaderboard       []LeaderboardEntry         `json:"leaderboard"`
	CharacterMatchups []CharacterMatchup         `json:"character_matchups"`
	RecentForm        []RecentForm               `json:"recent_form"`
	Journeys          map[string][]MonthlyRecord `json:"player_journeys"`
}

// OverallStats summarizes the whole dataset.
type OverallStats struct {
	TotalMatches        int     `json:"total_matches"`
	TotalPlayers        int     `json:"total_players"`
	ActivePlayers       int     `json:"active_players"`
	FirstMatch          string  `json:"first_match"`
	LastMatch           string  `json:"last_match"`
	DaysOfPlay          int     `json:"days_of_play"`
	TotalKOs            int     `json:"total_kos"`
	TotalFalls          int     `json:"total_falls"`
	TotalSDs            int     `json:"total_sds"`
	UniqueCharacters    int     `json:"unique_characters"`
	AvgMatchesPerDay    float64 `json:"avg_matches_per_day"`
	AvgParticipantsGame float64 `json:"avg_participants_per_match"`
}

// PlayerStat is one player's aggregate line.
type PlayerStat struct {
	Name              string  `json:"name"`
	Games             int     `json:"games"`
	Wins              int     `json:"wins"`
	Losses            int     `json:"losses"`
	WinRate           float64 `json:"win_rate"`
	KOs               int     `json:"kos"`
	Falls             int     `json:"falls"`
	SDs               int     `json:"sds"`
	KDRatio           float64 `json:"kd_ratio"`
	FavoriteCharacter string  `json:"favorite_character"`
	CharactersPlayed  int     `json:"characters_played"`
	Elo               int     `json:"elo"`
}

// CharacterStat is one character's aggregate line across all players.
type CharacterStat struct {
	Character     string  `json:"character"`
	TimesPlayed   int     `json:"times_played"`
	Wins          int     `json:"wins"`
	WinRate       float64 `json:"win_rate"`
	AvgKOs        float64 `json:"avg_kos"`
	AvgFalls      float64 `json:"avg_falls"`
	UniquePlayers int     `json:"unique_players"`
}

// Rivalry is a qualified 1v1 head-to-head.
type Rivalry struct {
	PlayerA   string  `json:"player_a"`
	PlayerB   string  `json:"player_b"`
	WinsA     int     `json:"wins_a"`
	WinsB     int     `json:"wins_b"`
	Total     int     `json:"total_matches"`
	Dominance float64 `json:"dominance"`
}

// TimeTrends groups activity by calendar buckets.
type TimeTrends struct {
	Monthly     []MonthCount `json:"monthly"`
	Weekday     []DayCount   `json:"weekday"`
	Hourly      []HourCount  `json:"hourly"`
	BusiestDays []DayCount   `json:"busiest_days"`
}

// NameCount pairs a player with a count for simple top lists.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// OneTrick is a player who leans hard on a single character.
type OneTrick struct {
	Name      string  `json:"name"`
	Character string  `json:"character"`
	Games     int     `json:"games"`
	Share     float64 `json:"share"`
}

// StreakEntry is one player's longest run.
type StreakEntry struct {
	Name   string `json:"name"`
	Length int    `json:"length"`
}

// SingleGameRecord is a per-game extreme.
type SingleGameRecord struct {
	Player    string `json:"player"`
	Value     int    `json:"value"`
	Character string `json:"character"`
	Won       bool   `json:"won"`
}

// FunFacts collects the novelty stats of the full analysis.
type FunFacts struct {
	PerfectGameCount   int              `json:"perfect_game_count"`
	PerfectGamePlayers []NameCount      `json:"perfect_game_players"`
	MostKOsSingleMatch SingleGameRecord `json:"most_kos_single_match"`
	TopSDPlayers       []NameCount      `json:"top_sd_players"`
	MostDiverse        []NameCount      `json:"most_diverse"`
	OneTricks          []OneTrick       `json:"one_tricks"`
	WinStreaks         []StreakEntry    `json:"win_streaks"`
	ComebackWins       int              `json:"comeback_wins"`
	Countries          []string         `json:"countries"`
	AvgKOsPerMatch     float64          `json:"avg_kos_per_match"`
}

// LeaderboardEntry is one elo-ranked row.
type LeaderboardEntry struct {
	Rank    int     `json:"rank"`
	Name    string  `json:"name"`
	Elo     int     `json:"elo"`
	Games   int     `json:"games"`
	WinRate float64 `json:"win_rate"`
	KDRatio float64 `json:"kd_ratio"`
}

// CharacterMatchup is a qualified 1v1 character-vs-character record.
type CharacterMatchup struct {
	CharacterA string  `json:"character_a"`
	CharacterB string  `json:"character_b"`
	WinsA      int     `json:"wins_a"`
	WinsB      int     `json:"wins_b"`
	Total      int     `json:"total"`
	WinRateA   float64 `json:"win_rate_a"`
	WinRateB   float64 `json:"win_rate_b"`
}

// RecentForm compares a player's last ten games to the ten before.
// CurrentStreak is positive for a run of wins, negative for losses.
type RecentForm struct {
	Name          string `json:"name"`
	LastWins      int    `json:"last_10_wins"`
	PrevWins      int    `json:"prev_10_wins"`
	CurrentStreak int    `json:"current_streak"`
	Status        string `json:"status"`
}

// MonthlyRecord is one month of a player's journey.
type MonthlyRecord struct {
	Month   string  `json:"month"`
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
}

// BuildAnalysis computes the full analysis artifact.
func BuildAnalysis(s *snapshot.Snapshot, cfg Config) Analysis {
	return Analysis{
		GeneratedAt:       time.Now().UTC().Format(time.RFC3339),
		Overall:           overallStats(s),
		Players:           playerStats(s),
		Characters:        characterStats(s),
		Rivalries:         rivalries(s),
		TimeTrends:        timeTrends(s, cfg),
		FunFacts:          funFacts(s),
		Leaderboard:       eloLeaderboard(s),
		CharacterMatchups: characterMatchups(s),
		RecentForm:        recentForm(s),
		Journeys:          playerJourneys(s, cfg),
	}
}

func overallStats(s *snapshot.Snapshot) OverallStats {
	var o OverallStats
	o.TotalMatches = len(s.Matches())
	o.TotalPlayers = len(s.Players())
	for _, p := range s.Players() {
		if !p.Inactive {
			o.ActivePlayers++
		}
	}

	chars := make(map[string]struct{})
	var participants int
	for _, matchID := range s.MatchIDs() {
		for _, e := range s.MatchEntries(matchID) {
			participants++
			chars[e.SmashCharacter] = struct{}{}
			o.TotalKOs += e.TotalKOs
			o.TotalFalls += e.TotalFalls
			o.TotalSDs += e.TotalSDs
		}
	}
	o.UniqueCharacters = len(chars)

	// DaysOfPlay is the calendar span between the first and last match, not
	// a count of distinct play dates.
	if first, last, ok := s.DateRange(); ok {
		o.FirstMatch = first.UTC().Format(time.RFC3339)
		o.LastMatch = last.UTC().Format(time.RFC3339)
		o.DaysOfPlay = int(last.Sub(first).Hours() / 24)
	}
	if n := len(s.MatchIDs()); n > 0 {
		spanDays := o.DaysOfPlay
		if spanDays < 1 {
			spanDays = 1
		}
		o.AvgMatchesPerDay = round1(float64(n) / float64(spanDays))
		o.AvgParticipantsGame = round2(float64(participants) / float64(n))
	}
	return o
}

func playerStats(s *snapshot.Snapshot) []PlayerStat {
	var out []PlayerStat
	for _, id := range s.PlayerIDs() {
		hist := s.History(id)
		var line Line
		for _, p := range hist {
			line.Add(p)
		}
		counts := characterCounts(hist)
		fav, _ := topCharacter(counts)
		name, _ := s.Name(id)
		out = append(out, PlayerStat{
			Name:              name,
			Games:             line.Games,
			Wins:              line.Wins,
			Losses:            line.Losses(),
			WinRate:           line.WinRate(),
			KOs:               line.KOs,
			Falls:             line.Falls,
			SDs:               line.SDs,
			KDRatio:           line.KDRatio(),
			FavoriteCharacter: fav,
			CharactersPlayed:  len(counts),
			Elo:               s.Elo(id),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Games != out[j].Games {
			return out[i].Games > out[j].Games
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func characterStats(s *snapshot.Snapshot) []CharacterStat {
	type charAcc struct {
		line    Line
		players map[int64]struct{}
	}
	accs := make(map[string]*charAcc)
	for _, id := range s.PlayerIDs() {
		for _, p := range s.History(id) {
			acc := accs[p.SmashCharacter]
			if acc == nil {
				acc = &charAcc{players: make(map[int64]struct{})}
				accs[p.SmashCharacter] = acc
			}
			acc.line.Add(p)
			acc.players[id] = struct{}{}
		}
	}
	out := make([]CharacterStat, 0, len(accs))
	for ch, acc := range accs {
		cs := CharacterStat{
			Character:     ch,
			TimesPlayed:   acc.line.Games,
			Wins:          acc.line.Wins,
			WinRate:       acc.line.WinRate(),
			UniquePlayers: len(acc.players),
		}
		if acc.line.Games > 0 {
			cs.AvgKOs = round2(float64(acc.line.KOs) / float64(acc.line.Games))
			cs.AvgFalls = round2(float64(acc.line.Falls) / float64(acc.line.Games))
		}
		out = append(out, cs)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TimesPlayed != out[j].TimesPlayed {
			return out[i].TimesPlayed > out[j].TimesPlayed
		}
		return out[i].Character < out[j].Character
	})
	return out
}

func rivalries(s *snapshot.Snapshot) []Rivalry {
	h2h := headToHeads(s)
	var out []Rivalry
	for _, key := range sortedPairKeys(h2h) {
		rec := h2h[key]
		if !qualifies(rec.Total(), minRivalryMeetings) {
			continue
		}
		dom := rec.WinsA
		if rec.WinsB > dom {
			dom = rec.WinsB
		}
		out = append(out, Rivalry{
			PlayerA:   key.A,
			PlayerB:   key.B,
			WinsA:     rec.WinsA,
			WinsB:     rec.WinsB,
			Total:     rec.Total(),
			Dominance: pct(dom, rec.Total()),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		if out[i].PlayerA != out[j].PlayerA {
			return out[i].PlayerA < out[j].PlayerA
		}
		return out[i].PlayerB < out[j].PlayerB
	})
	if len(out) > topRivalries {
		out = out[:topRivalries]
	}
	return out
}

func timeTrends(s *snapshot.Snapshot, cfg Config) TimeTrends {
	monthly := make(map[string]int)
	weekday := make(map[time.Weekday]int)
	hourly := make(map[int]int)
	daily := make(map[string]int)
	for _, matchID := range s.MatchIDs() {
		m, _ := s.Match(matchID)
		monthly[cfg.MonthKey(m.CreatedAt)]++
		weekday[cfg.Weekday(m.CreatedAt)]++
		hourly[cfg.Hour(m.CreatedAt)]++
		daily[cfg.DateKey(m.CreatedAt)]++
	}

	var tt TimeTrends
	months := make([]string, 0, len(monthly))
	for m := range monthly {
		months = append(months, m)
	}
	sort.Strings(months)
	for _, m := range months {
		tt.Monthly = append(tt.Monthly, MonthCount{Month: m, Matches: monthly[m]})
	}
	for _, wd := range weekdayOrder {
		tt.Weekday = append(tt.Weekday, DayCount{Day: wd.String(), Matches: weekday[wd]})
	}
	for h := 0; h < 24; h++ {
		tt.Hourly = append(tt.Hourly, HourCount{Hour: h, Matches: hourly[h]})
	}
	for d, n := range daily {
		tt.BusiestDays = append(tt.BusiestDays, DayCount{Day: d, Matches: n})
	}
	sort.Slice(tt.BusiestDays, func(i, j int) bool {
		if tt.BusiestDays[i].Matches != tt.BusiestDays[j].Matches {
			return tt.BusiestDays[i].Matches > tt.BusiestDays[j].Matches
		}
		return tt.BusiestDays[i].Day < tt.BusiestDays[j].Day
	})
	if len(tt.BusiestDays) > 10 {
		tt.BusiestDays = tt.BusiestDays[:10]
	}
	return tt
}

func funFacts(s *snapshot.Snapshot) FunFacts {
	var ff FunFacts
	perfect := make(map[string]int)
	var totalKOs int

	for _, id := range s.PlayerIDs() {
		name, _ := s.Name(id)
		hist := s.History(id)
		for _, p := range hist {
			if p.IsPerfectGame() {
				ff.PerfectGameCount++
				perfect[name]++
			}
			if p.TotalKOs > ff.MostKOsSingleMatch.Value ||
				(p.TotalKOs == ff.MostKOsSingleMatch.Value && p.TotalKOs > 0 && name < ff.MostKOsSingleMatch.Player) {
				ff.MostKOsSingleMatch = SingleGameRecord{
					Player: name, Value: p.TotalKOs, Character: p.SmashCharacter, Won: p.HasWon,
				}
			}
			totalKOs += p.TotalKOs
		}

		var line Line
		for _, p := range hist {
			line.Add(p)
		}
		ff.TopSDPlayers = append(ff.TopSDPlayers, NameCount{Name: name, Count: line.SDs})
		ff.MostDiverse = append(ff.MostDiverse, NameCount{Name: name, Count: len(characterCounts(hist))})

		if qualifies(line.Games, minOneTrickGames) {
			ch, n := topCharacter(characterCounts(hist))
			if share := pct(n, line.Games); share >= 50 {
				ff.OneTricks = append(ff.OneTricks, OneTrick{Name: name, Character: ch, Games: line.Games, Share: share})
			}
		}
		if run := maxRun(outcomes(hist), true); run >= minStreakLen {
			ff.WinStreaks = append(ff.WinStreaks, StreakEntry{Name: name, Length: run})
		}
	}

	for name, n := range perfect {
		ff.PerfectGamePlayers = append(ff.PerfectGamePlayers, NameCount{Name: name, Count: n})
	}
	sortNameCounts(ff.PerfectGamePlayers)
	ff.PerfectGamePlayers = capLen(ff.PerfectGamePlayers, 5)
	sortNameCounts(ff.TopSDPlayers)
	ff.TopSDPlayers = capLen(ff.TopSDPlayers, 5)
	sortNameCounts(ff.MostDiverse)
	ff.MostDiverse = capLen(ff.MostDiverse, 5)

	sort.Slice(ff.OneTricks, func(i, j int) bool {
		if ff.OneTricks[i].Share != ff.OneTricks[j].Share {
			return ff.OneTricks[i].Share > ff.OneTricks[j].Share
		}
		if ff.OneTricks[i].Games != ff.OneTricks[j].Games {
			return ff.OneTricks[i].Games > ff.OneTricks[j].Games
		}
		return ff.OneTricks[i].Name < ff.OneTricks[j].Name
	})
	if len(ff.OneTricks) > 10 {
		ff.OneTricks = ff.OneTricks[:10]
	}
	sort.Slice(ff.WinStreaks, func(i, j int) bool {
		if ff.WinStreaks[i].Length != ff.WinStreaks[j].Length {
			return ff.WinStreaks[i].Length > ff.WinStreaks[j].Length
		}
		return ff.WinStreaks[i].Name < ff.WinStreaks[j].Name
	})
	if len(ff.WinStreaks) > 10 {
		ff.WinStreaks = ff.WinStreaks[:10]
	}

	// A 1v1 win with self-destructs on the winning side means the winner
	// climbed back from gifted stocks.
	for _, matchID := range s.MatchIDs() {
		if s.Classify(matchID).Kind != snapshot.OneOnOne {
			continue
		}
		winners, _ := s.Sides(matchID)
		if winners[0].TotalSDs > 0 {
			ff.ComebackWins++
		}
	}

	countries := make(map[string]struct{})
	for _, p := range s.Players() {
		if p.Country != "" {
			countries[p.Country] = struct{}{}
		}
	}
	for c := range countries {
		ff.Countries = append(ff.Countries, c)
	}
	sort.Strings(ff.Countries)

	if n := len(s.MatchIDs()); n > 0 {
		ff.AvgKOsPerMatch = round1(float64(totalKOs) / float64(n))
	}
	return ff
}

func sortNameCounts(nc []NameCount) {
	sort.Slice(nc, func(i, j int) bool {
		if nc[i].Count != nc[j].Count {
			return nc[i].Count > nc[j].Count
		}
		return nc[i].Name < nc[j].Name
	})
}

func capLen(nc []NameCount, n int) []NameCount {
	if len(nc) > n {
		return nc[:n]
	}
	return nc
}

func eloLeaderboard(s *snapshot.Snapshot) []LeaderboardEntry {
	var out []LeaderboardEntry
	for _, id := range s.PlayerIDs() {
		hist := s.History(id)
		if !qualifies(len(hist), minLeaderboardGames) {
			continue
		}
		var line Line
		for _, p := range hist {
			line.Add(p)
		}
		name, _ := s.Name(id)
		out = append(out, LeaderboardEntry{
			Name:    name,
			Elo:     s.Elo(id),
			Games:   line.Games,
			WinRate: line.WinRate(),
			KDRatio: line.KDRatio(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Elo != out[j].Elo {
			return out[i].Elo > out[j].Elo
		}
		if out[i].Games != out[j].Games {
			return out[i].Games > out[j].Games
		}
		return out[i].Name < out[j].Name
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func characterMatchups(s *snapshot.Snapshot) []CharacterMatchup {
	type rec struct{ winsA, winsB int }
	recs := make(map[pairKey]*rec)
	for _, matchID := range s.MatchIDs() {
		if s.Classify(matchID).Kind != snapshot.OneOnOne {
			continue
		}
		winners, losers := s.Sides(matchID)
		wc, lc := winners[0].SmashCharacter, losers[0].SmashCharacter
		if wc == lc {
			continue
		}
		key := makePairKey(wc, lc)
		r := recs[key]
		if r == nil {
			r = &rec{}
			recs[key] = r
		}
		if wc == key.A {
			r.winsA++
		} else {
			r.winsB++
		}
	}
	var out []CharacterMatchup
	for key, r := range recs {
		total := r.winsA + r.winsB
		if !qualifies(total, minMatchupMeetings) {
			continue
		}
		out = append(out, CharacterMatchup{
			CharacterA: key.A,
			CharacterB: key.B,
			WinsA:      r.winsA,
			WinsB:      r.winsB,
			Total:      total,
			WinRateA:   pct(r.winsA, total),
			WinRateB:   pct(r.winsB, total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		if out[i].CharacterA != out[j].CharacterA {
			return out[i].CharacterA < out[j].CharacterA
		}
		return out[i].CharacterB < out[j].CharacterB
	})
	if len(out) > topMatchups {
		out = out[:topMatchups]
	}
	return out
}

func recentForm(s *snapshot.Snapshot) []RecentForm {
	var out []RecentForm
	for _, id := range s.PlayerIDs() {
		hist := s.History(id)
		if !qualifies(len(hist), minFormGames) {
			continue
		}
		name, _ := s.Name(id)
		n := len(hist)
		last := hist[n-10:]
		prevStart := n - 20
		if prevStart < 0 {
			prevStart = 0
		}
		prev := hist[prevStart : n-10]

		var lastWins, prevWins int
		for _, p := range last {
			if p.HasWon {
				lastWins++
			}
		}
		for _, p := range prev {
			if p.HasWon {
				prevWins++
			}
		}
		status := "steady"
		switch {
		case lastWins > prevWins+2:
			status = "hot"
		case lastWins < prevWins-2:
			status = "cold"
		}
		outc := outcomes(hist)
		streak := currentRun(outc, true)
		if streak == 0 {
			streak = -currentRun(outc, false)
		}
		out = append(out, RecentForm{Name: name, LastWins: lastWins, PrevWins: prevWins, CurrentStreak: streak, Status: status})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastWins != out[j].LastWins {
			return out[i].LastWins > out[j].LastWins
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func playerJourneys(s *snapshot.Snapshot, cfg Config) map[string][]MonthlyRecord {
	type withGames struct {
		id    int64
		games int
	}
	var active []withGames
	for _, id := range s.PlayerIDs() {
		active = append(active, withGames{id: id, games: len(s.History(id))})
	}
	sort.Slice(active, func(i, j int) bool {
		if active[i].games != active[j].games {
			return active[i].games > active[j].games
		}
		ni, _ := s.Name(active[i].id)
		nj, _ := s.Name(active[j].id)
		return ni < nj
	})
	if len(active) > topJourneys {
		active = active[:topJourneys]
	}

	out := make(map[string][]MonthlyRecord, len(active))
	for _, a := range active {
		byMonth := make(map[string]*Line)
		for _, p := range s.History(a.id) {
			key := cfg.MonthKey(p.CreatedAt)
			line := byMonth[key]
			if line == nil {
				line = &Line{}
				byMonth[key] = line
			}
			line.Add(p)
		}
		months := make([]string, 0, len(byMonth))
		for m := range byMonth {
			months = append(months, m)
		}
		sort.Strings(months)
		name, _ := s.Name(a.id)
		for _, m := range months {
			line := byMonth[m]
			out[name] = append(out[name], MonthlyRecord{
				Month: m, Games: line.Games, Wins: line.Wins, WinRate: line.WinRate(),
			})
		}
	}
	return out
}
