package stats

import (
	"math"
	"sort"
	"time"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/snapshot"
)

// Trend analysis floors.
const (
	minTrendGames      = 50
	minMomentumSamples = 20
	minHourBucketGames = 20
	minLopsidedGames   = 10
	minRevengeGames    = 5
	minClutchGames     = 30
	minClutchSamples   = 10
	minDominantGames   = 15
	minWarmupFirsts    = 10
	minWarmupOthers    = 20
	minSpeedGames      = 30
	streakinessRunLen  = 5
)

// TrendReport is the behavioural trends JSON artifact.
type TrendReport struct {
	GeneratedAt      string             `json:"generated_at"`
	HourlyPattern    HourlyPattern      `json:"hourly_pattern"`
	Momentum         MomentumReport     `json:"momentum"`
	Fatigue          FatigueReport      `json:"fatigue"`
	LopsidedMatchups []LopsidedMatchup  `json:"lopsided_matchups"`
	RevengeGames     []RevengeEntry     `json:"revenge_games"`
	Clutch           ClutchReport       `json:"clutch_factor"`
	DayActivity      DayActivityReport  `json:"day_activity"`
	Streakiness      []StreakinessEntry `json:"streakiness"`
	DominantMatchups []DominantMatchup  `json:"dominant_matchups"`
	Warmup           WarmupReport       `json:"warmup"`
	PeakMonths       []PeakMonth        `json:"peak_months"`
	GameSpeed        GameSpeedReport    `json:"game_speed"`
}

// HourBucket is one player's record in one local hour.
type HourBucket struct {
	Player  string  `json:"player"`
	Hour    int     `json:"hour"`
	Games   int     `json:"games"`
	WinRate float64 `json:"win_rate"`
}

// HourlyPattern holds the strongest and weakest qualified player-hour
// buckets.
type HourlyPattern struct {
	Best  *HourBucket `json:"best,omitempty"`
	Worst *HourBucket `json:"worst,omitempty"`
}

// MomentumEntry measures how one player's results depend on the previous
// result.
type MomentumEntry struct {
	Player      string  `json:"player"`
	AfterWinWR  float64 `json:"after_win_win_rate"`
	AfterLossWR float64 `json:"after_loss_win_rate"`
	Delta       float64 `json:"delta"`
}

// MomentumReport summarizes momentum across qualified players.
type MomentumReport struct {
	LeagueAvgDelta float64        `json:"league_avg_delta"`
	BiggestRider   *MomentumEntry `json:"biggest_rider,omitempty"`
	BiggestReverse *MomentumEntry `json:"biggest_reverse,omitempty"`
}

// FatigueReport compares early-session and deep-session win rates across
// the whole league.
type FatigueReport struct {
	EarlyGames   int     `json:"early_games"`
	EarlyWinRate float64 `json:"early_win_rate"`
	LateGames    int     `json:"late_games"`
	LateWinRate  float64 `json:"late_win_rate"`
	Delta        float64 `json:"delta"`
}

// LopsidedMatchup is a character matchup far from even.
type LopsidedMatchup struct {
	Winner  string  `json:"winner"`
	Loser   string  `json:"loser"`
	WinRate float64 `json:"win_rate"`
	Total   int     `json:"total"`
}

// RevengeEntry measures a player's results right after losing to the same
// opponent.
type RevengeEntry struct {
	Player     string  `json:"player"`
	RevengeWR  float64 `json:"revenge_win_rate"`
	BaselineWR float64 `json:"baseline_win_rate"`
	Boost      float64 `json:"boost"`
	Samples    int     `json:"samples"`
}

// ClutchEntry is a player's close-game vs blowout split.
type ClutchEntry struct {
	Player    string  `json:"player"`
	CloseWR   float64 `json:"close_win_rate"`
	BlowoutWR float64 `json:"blowout_win_rate"`
	Factor    float64 `json:"factor"`
}

// ClutchReport holds the extremes of the clutch split.
type ClutchReport struct {
	MostClutch  *ClutchEntry `json:"most_clutch,omitempty"`
	LeastClutch *ClutchEntry `json:"least_clutch,omitempty"`
}

// DayActivityReport summarizes weekday activity shape.
type DayActivityReport struct {
	Busiest           string  `json:"busiest"`
	Quietest          string  `json:"quietest"`
	FridayMondayRatio float64 `json:"friday_monday_ratio"`
}

// StreakinessEntry counts how often a player strings five or more wins.
type StreakinessEntry struct {
	Player     string `json:"player"`
	Streaks    int    `json:"streaks"`
	LongestRun int    `json:"longest_run"`
}

// DominantMatchup is a directed player-vs-player edge with a heavy skew.
type DominantMatchup struct {
	Player  string  `json:"player"`
	Victim  string  `json:"victim"`
	Wins    int     `json:"wins"`
	Total   int     `json:"total"`
	WinRate float64 `json:"win_rate"`
}

// WarmupEntry is a player's first-game-of-session split.
type WarmupEntry struct {
	Player      string  `json:"player"`
	FirstGameWR float64 `json:"first_game_win_rate"`
	RestWR      float64 `json:"rest_win_rate"`
	Delta       float64 `json:"delta"`
}

// WarmupReport holds the extremes of the warmup split.
type WarmupReport struct {
	SlowestStarter *WarmupEntry `json:"slowest_starter,omitempty"`
	FastestStarter *WarmupEntry `json:"fastest_starter,omitempty"`
}

// PeakMonth is a player's best calendar month.
type PeakMonth struct {
	Player  string  `json:"player"`
	Month   string  `json:"month"`
	Games   int     `json:"games"`
	WinRate float64 `json:"win_rate"`
}

// GameSpeedEntry is a player's average gap between back-to-back games.
type GameSpeedEntry struct {
	Player     string  `json:"player"`
	AvgGapMins float64 `json:"avg_gap_minutes"`
	Samples    int     `json:"samples"`
}

// GameSpeedReport holds the fastest and slowest back-to-back players.
type GameSpeedReport struct {
	Fastest *GameSpeedEntry `json:"fastest,omitempty"`
	Slowest *GameSpeedEntry `json:"slowest,omitempty"`
}

// BuildTrends computes the behavioural trend artifact.
func BuildTrends(s *snapshot.Snapshot, cfg Config) TrendReport {
	aggs := buildPlayerAggs(s)
	return TrendReport{
		GeneratedAt:      time.Now().UTC().Format(time.RFC3339),
		HourlyPattern:    hourlyPattern(aggs, cfg),
		Momentum:         momentum(aggs),
		Fatigue:          fatigue(aggs, cfg),
		LopsidedMatchups: lopsidedMatchups(s),
		RevengeGames:     revengeGames(s),
		Clutch:           clutchFactor(aggs, cfg),
		DayActivity:      dayActivity(s, cfg),
		Streakiness:      streakiness(aggs),
		DominantMatchups: dominantMatchups(s),
		Warmup:           warmup(aggs, cfg),
		PeakMonths:       peakMonths(aggs, cfg),
		GameSpeed:        gameSpeed(aggs, cfg),
	}
}

func hourlyPattern(aggs []playerAgg, cfg Config) HourlyPattern {
	var pat HourlyPattern
	for _, a := range aggs {
		byHour := make(map[int]*Line)
		for _, p := range a.hist {
			h := cfg.Hour(p.CreatedAt)
			line := byHour[h]
			if line == nil {
				line = &Line{}
				byHour[h] = line
			}
			line.Add(p)
		}
		for h := 0; h < 24; h++ {
			line := byHour[h]
			if line == nil || !qualifies(line.Games, minHourBucketGames) {
				continue
			}
			b := HourBucket{Player: a.name, Hour: h, Games: line.Games, WinRate: line.WinRate()}
			if pat.Best == nil || b.WinRate > pat.Best.WinRate {
				cp := b
				pat.Best = &cp
			}
			if pat.Worst == nil || b.WinRate < pat.Worst.WinRate {
				cp := b
				pat.Worst = &cp
			}
		}
	}
	return pat
}

func momentum(aggs []playerAgg) MomentumReport {
	var rep MomentumReport
	var deltas []float64
	for _, a := range aggs {
		if !qualifies(a.line.Games, minTrendGames) {
			continue
		}
		var afterWin, afterLoss Line
		for i := 1; i < len(a.hist); i++ {
			if a.outc[i-1] {
				afterWin.Add(a.hist[i])
			} else {
				afterLoss.Add(a.hist[i])
			}
		}
		if !qualifies(afterWin.Games, minMomentumSamples) || !qualifies(afterLoss.Games, minMomentumSamples) {
			continue
		}
		e := MomentumEntry{
			Player:      a.name,
			AfterWinWR:  afterWin.WinRate(),
			AfterLossWR: afterLoss.WinRate(),
		}
		e.Delta = round1(e.AfterWinWR - e.AfterLossWR)
		deltas = append(deltas, e.Delta)
		if rep.BiggestRider == nil || e.Delta > rep.BiggestRider.Delta {
			cp := e
			rep.BiggestRider = &cp
		}
		if rep.BiggestReverse == nil || e.Delta < rep.BiggestReverse.Delta {
			cp := e
			rep.BiggestReverse = &cp
		}
	}
	if len(deltas) > 0 {
		var sum float64
		for _, d := range deltas {
			sum += d
		}
		rep.LeagueAvgDelta = round1(sum / float64(len(deltas)))
	}
	return rep
}

func fatigue(aggs []playerAgg, cfg Config) FatigueReport {
	var early, late Line
	for _, a := range aggs {
		for _, sess := range cfg.sessions(a.hist) {
			for i, p := range sess {
				switch {
				case i < 3:
					early.Add(p)
				case i >= 7:
					late.Add(p)
				}
			}
		}
	}
	return FatigueReport{
		EarlyGames:   early.Games,
		EarlyWinRate: early.WinRate(),
		LateGames:    late.Games,
		LateWinRate:  late.WinRate(),
		Delta:        round1(early.WinRate() - late.WinRate()),
	}
}

func lopsidedMatchups(s *snapshot.Snapshot) []LopsidedMatchup {
	all := characterMatchupsUnfiltered(s)
	var out []LopsidedMatchup
	for _, m := range all {
		if !qualifies(m.Total, minLopsidedGames) {
			continue
		}
		switch {
		case m.WinRateA > 70:
			out = append(out, LopsidedMatchup{Winner: m.CharacterA, Loser: m.CharacterB, WinRate: m.WinRateA, Total: m.Total})
		case m.WinRateA < 30:
			out = append(out, LopsidedMatchup{Winner: m.CharacterB, Loser: m.CharacterA, WinRate: m.WinRateB, Total: m.Total})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di := math.Abs(out[i].WinRate - 50)
		dj := math.Abs(out[j].WinRate - 50)
		if di != dj {
			return di > dj
		}
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Winner < out[j].Winner
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

// characterMatchupsUnfiltered is the matchup table without the meeting
// floor, for callers that apply their own.
func characterMatchupsUnfiltered(s *snapshot.Snapshot) []CharacterMatchup {
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
		out = append(out, CharacterMatchup{
			CharacterA: key.A, CharacterB: key.B,
			WinsA: r.winsA, WinsB: r.winsB, Total: total,
			WinRateA: pct(r.winsA, total), WinRateB: pct(r.winsB, total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CharacterA != out[j].CharacterA {
			return out[i].CharacterA < out[j].CharacterA
		}
		return out[i].CharacterB < out[j].CharacterB
	})
	return out
}

func revengeGames(s *snapshot.Snapshot) []RevengeEntry {
	type duelRec struct {
		opponent int64
		won      bool
		at       time.Time
	}
	duels := make(map[int64][]duelRec)
	for _, matchID := range s.MatchIDs() {
		if s.Classify(matchID).Kind != snapshot.OneOnOne {
			continue
		}
		m, _ := s.Match(matchID)
		winners, losers := s.Sides(matchID)
		w, l := winners[0].PlayerID, losers[0].PlayerID
		duels[w] = append(duels[w], duelRec{opponent: l, won: true, at: m.CreatedAt})
		duels[l] = append(duels[l], duelRec{opponent: w, won: false, at: m.CreatedAt})
	}

	var out []RevengeEntry
	for _, id := range s.PlayerIDs() {
		seq := duels[id]
		lastResult := make(map[int64]bool)
		var revenge, normal Line
		for _, d := range seq {
			prev, seen := lastResult[d.opponent]
			row := Line{}
			row.Games = 1
			if d.won {
				row.Wins = 1
			}
			if seen && !prev {
				revenge.Games += row.Games
				revenge.Wins += row.Wins
			} else {
				normal.Games += row.Games
				normal.Wins += row.Wins
			}
			lastResult[d.opponent] = d.won
		}
		if !qualifies(revenge.Games, minRevengeGames) || normal.Games == 0 {
			continue
		}
		name, _ := s.Name(id)
		e := RevengeEntry{
			Player:     name,
			RevengeWR:  revenge.WinRate(),
			BaselineWR: normal.WinRate(),
			Samples:    revenge.Games,
		}
		e.Boost = round1(e.RevengeWR - e.BaselineWR)
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Boost != out[j].Boost {
			return out[i].Boost > out[j].Boost
		}
		if out[i].Samples != out[j].Samples {
			return out[i].Samples > out[j].Samples
		}
		return out[i].Player < out[j].Player
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

func clutchFactor(aggs []playerAgg, cfg Config) ClutchReport {
	var rep ClutchReport
	for _, a := range aggs {
		if !qualifies(a.line.Games, minClutchGames) {
			continue
		}
		var closeGames, blowout Line
		for _, p := range a.hist {
			margin := p.TotalKOs - p.TotalFalls
			if margin < 0 {
				margin = -margin
			}
			switch {
			case p.TotalKOs >= 2 && margin <= cfg.CloseMargin:
				closeGames.Add(p)
			case margin >= cfg.BlowoutMargin:
				blowout.Add(p)
			}
		}
		if !qualifies(closeGames.Games, minClutchSamples) || !qualifies(blowout.Games, minClutchSamples) {
			continue
		}
		e := ClutchEntry{Player: a.name, CloseWR: closeGames.WinRate(), BlowoutWR: blowout.WinRate()}
		e.Factor = round1(e.CloseWR - e.BlowoutWR)
		if rep.MostClutch == nil || e.Factor > rep.MostClutch.Factor {
			cp := e
			rep.MostClutch = &cp
		}
		if rep.LeastClutch == nil || e.Factor < rep.LeastClutch.Factor {
			cp := e
			rep.LeastClutch = &cp
		}
	}
	return rep
}

func dayActivity(s *snapshot.Snapshot, cfg Config) DayActivityReport {
	counts := make(map[time.Weekday]int)
	for _, matchID := range s.MatchIDs() {
		m, _ := s.Match(matchID)
		counts[cfg.Weekday(m.CreatedAt)]++
	}
	var rep DayActivityReport
	busiest, quietest := -1, -1
	for _, wd := range weekdayOrder {
		n := counts[wd]
		if busiest < 0 || n > busiest {
			busiest = n
			rep.Busiest = wd.String()
		}
		if quietest < 0 || n < quietest {
			quietest = n
			rep.Quietest = wd.String()
		}
	}
	if mon := counts[time.Monday]; mon > 0 {
		rep.FridayMondayRatio = round1(float64(counts[time.Friday]) / float64(mon))
	}
	return rep
}

func streakiness(aggs []playerAgg) []StreakinessEntry {
	var out []StreakinessEntry
	for _, a := range aggs {
		if !qualifies(a.line.Games, minTrendGames) {
			continue
		}
		runs := countRuns(a.outc, true, streakinessRunLen)
		if runs == 0 {
			continue
		}
		out = append(out, StreakinessEntry{Player: a.name, Streaks: runs, LongestRun: maxRun(a.outc, true)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Streaks != out[j].Streaks {
			return out[i].Streaks > out[j].Streaks
		}
		if out[i].LongestRun != out[j].LongestRun {
			return out[i].LongestRun > out[j].LongestRun
		}
		return out[i].Player < out[j].Player
	})
	return out
}

func dominantMatchups(s *snapshot.Snapshot) []DominantMatchup {
	h2h := headToHeads(s)
	var out []DominantMatchup
	for _, key := range sortedPairKeys(h2h) {
		rec := h2h[key]
		if !qualifies(rec.Total(), minDominantGames) {
			continue
		}
		if wr := pct(rec.WinsA, rec.Total()); wr >= 65 {
			out = append(out, DominantMatchup{Player: key.A, Victim: key.B, Wins: rec.WinsA, Total: rec.Total(), WinRate: wr})
		}
		if wr := pct(rec.WinsB, rec.Total()); wr >= 65 {
			out = append(out, DominantMatchup{Player: key.B, Victim: key.A, Wins: rec.WinsB, Total: rec.Total(), WinRate: wr})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WinRate != out[j].WinRate {
			return out[i].WinRate > out[j].WinRate
		}
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Player < out[j].Player
	})
	if len(out) > 5 {
		out = out[:5]
	}
	return out
}

func warmup(aggs []playerAgg, cfg Config) WarmupReport {
	var rep WarmupReport
	for _, a := range aggs {
		var first, rest Line
		for _, sess := range cfg.sessions(a.hist) {
			for i, p := range sess {
				if i == 0 {
					first.Add(p)
				} else {
					rest.Add(p)
				}
			}
		}
		if !qualifies(first.Games, minWarmupFirsts) || !qualifies(rest.Games, minWarmupOthers) {
			continue
		}
		e := WarmupEntry{Player: a.name, FirstGameWR: first.WinRate(), RestWR: rest.WinRate()}
		e.Delta = round1(e.RestWR - e.FirstGameWR)
		if rep.SlowestStarter == nil || e.Delta > rep.SlowestStarter.Delta {
			cp := e
			rep.SlowestStarter = &cp
		}
		if rep.FastestStarter == nil || e.Delta < rep.FastestStarter.Delta {
			cp := e
			rep.FastestStarter = &cp
		}
	}
	return rep
}

func peakMonths(aggs []playerAgg, cfg Config) []PeakMonth {
	var out []PeakMonth
	for _, a := range aggs {
		if !qualifies(a.line.Games, minSpeedGames) {
			continue
		}
		byMonth := make(map[string]*Line)
		for _, p := range a.hist {
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
		var best *PeakMonth
		for _, m := range months {
			line := byMonth[m]
			if !qualifies(line.Games, minLeaderboardGames) {
				continue
			}
			cand := PeakMonth{Player: a.name, Month: m, Games: line.Games, WinRate: line.WinRate()}
			if best == nil || cand.WinRate > best.WinRate ||
				(cand.WinRate == best.WinRate && cand.Games > best.Games) {
				cp := cand
				best = &cp
			}
		}
		if best != nil {
			out = append(out, *best)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WinRate != out[j].WinRate {
			return out[i].WinRate > out[j].WinRate
		}
		if out[i].Games != out[j].Games {
			return out[i].Games > out[j].Games
		}
		return out[i].Player < out[j].Player
	})
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

func gameSpeed(aggs []playerAgg, cfg Config) GameSpeedReport {
	var rep GameSpeedReport
	for _, a := range aggs {
		if !qualifies(a.line.Games, minSpeedGames) {
			continue
		}
		var total time.Duration
		var samples int
		for i := 1; i < len(a.hist); i++ {
			gap := a.hist[i].CreatedAt.Sub(a.hist[i-1].CreatedAt)
			if gap < time.Hour {
				total += gap
				samples++
			}
		}
		if samples == 0 {
			continue
		}
		e := GameSpeedEntry{
			Player:     a.name,
			AvgGapMins: round1(total.Minutes() / float64(samples)),
			Samples:    samples,
		}
		if rep.Fastest == nil || e.AvgGapMins < rep.Fastest.AvgGapMins {
			cp := e
			rep.Fastest = &cp
		}
		if rep.Slowest == nil || e.AvgGapMins > rep.Slowest.AvgGapMins {
			cp := e
			rep.Slowest = &cp
		}
	}
	return rep
}
