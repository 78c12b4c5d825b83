package stats

import (
	"math"
	"sort"
	"time"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/snapshot"
)

// Odds sheet floors.
const (
	minBettingMeetings = 5
	minUpsetMeetings   = 15
	minSafeBetMeetings = 20
	minPowerGames      = 30
	minPowerOpponents  = 3
)

// BettingMatchup is one priced head-to-head.
type BettingMatchup struct {
	PlayerA    string  `json:"player_a"`
	PlayerB    string  `json:"player_b"`
	WinsA      int     `json:"wins_a"`
	WinsB      int     `json:"wins_b"`
	Total      int     `json:"total"`
	ProbA      float64 `json:"prob_a"`
	ProbB      float64 `json:"prob_b"`
	AmericanA  int     `json:"american_a"`
	AmericanB  int     `json:"american_b"`
	DecimalA   float64 `json:"decimal_a"`
	DecimalB   float64 `json:"decimal_b"`
	Confidence string  `json:"confidence"`
}

// PowerRank is one player's standing by head-to-head record alone.
type PowerRank struct {
	Name      string  `json:"name"`
	H2HGames  int     `json:"h2h_games"`
	H2HWins   int     `json:"h2h_wins"`
	H2HRate   float64 `json:"h2h_rate"`
	Opponents int     `json:"opponents"`
}

// BettingReport is the odds-sheet JSON artifact.
type BettingReport struct {
	GeneratedAt   string           `json:"generated_at"`
	Matchups      []BettingMatchup `json:"matchups"`
	UpsetAlerts   []BettingMatchup `json:"upset_alerts"`
	SafestBets    []BettingMatchup `json:"safest_bets"`
	PowerRankings []PowerRank      `json:"power_rankings"`
}

// americanOdds converts a win probability to American odds, clamped to
// +-999 so a lopsided record stays printable.
func americanOdds(p float64) int {
	if p <= 0 {
		return 999
	}
	if p >= 1 {
		return -999
	}
	if p >= 0.5 {
		odds := int(p / (1 - p) * 100)
		if odds > 999 {
			odds = 999
		}
		return -odds
	}
	odds := int((1 - p) / p * 100)
	if odds > 999 {
		odds = 999
	}
	return odds
}

// decimalOdds converts a win probability to decimal odds, two decimals.
func decimalOdds(p float64) float64 {
	if p <= 0 {
		return 99
	}
	if p >= 1 {
		return 1
	}
	return round2(1 / p)
}

func confidenceLabel(total int) string {
	switch {
	case total >= 30:
		return "high"
	case total >= 15:
		return "medium"
	default:
		return "low"
	}
}

// BuildBetting prices every qualified head-to-head.
func BuildBetting(s *snapshot.Snapshot) BettingReport {
	rep := BettingReport{GeneratedAt: time.Now().UTC().Format(time.RFC3339)}
	h2h := headToHeads(s)

	for _, key := range sortedPairKeys(h2h) {
		rec := h2h[key]
		total := rec.Total()
		if !qualifies(total, minBettingMeetings) {
			continue
		}
		pA := float64(rec.WinsA) / float64(total)
		pB := 1 - pA
		rep.Matchups = append(rep.Matchups, BettingMatchup{
			PlayerA: key.A, PlayerB: key.B,
			WinsA: rec.WinsA, WinsB: rec.WinsB, Total: total,
			ProbA: round1(pA * 100), ProbB: round1(pB * 100),
			AmericanA: americanOdds(pA), AmericanB: americanOdds(pB),
			DecimalA: decimalOdds(pA), DecimalB: decimalOdds(pB),
			Confidence: confidenceLabel(total),
		})
	}
	sort.Slice(rep.Matchups, func(i, j int) bool {
		if rep.Matchups[i].Total != rep.Matchups[j].Total {
			return rep.Matchups[i].Total > rep.Matchups[j].Total
		}
		if rep.Matchups[i].PlayerA != rep.Matchups[j].PlayerA {
			return rep.Matchups[i].PlayerA < rep.Matchups[j].PlayerA
		}
		return rep.Matchups[i].PlayerB < rep.Matchups[j].PlayerB
	})

	for _, m := range rep.Matchups {
		underdog := math.Min(m.ProbA, m.ProbB)
		if underdog >= 35 && m.Total >= minUpsetMeetings {
			rep.UpsetAlerts = append(rep.UpsetAlerts, m)
		}
	}

	var safe []BettingMatchup
	for _, m := range rep.Matchups {
		if m.Total >= minSafeBetMeetings {
			safe = append(safe, m)
		}
	}
	sort.Slice(safe, func(i, j int) bool {
		di := math.Abs(safe[i].ProbA - 50)
		dj := math.Abs(safe[j].ProbA - 50)
		if di != dj {
			return di > dj
		}
		if safe[i].Total != safe[j].Total {
			return safe[i].Total > safe[j].Total
		}
		return safe[i].PlayerA < safe[j].PlayerA
	})
	if len(safe) > 10 {
		safe = safe[:10]
	}
	rep.SafestBets = safe

	type powerAcc struct {
		games, wins int
		opponents   map[string]struct{}
	}
	power := make(map[string]*powerAcc)
	for _, key := range sortedPairKeys(h2h) {
		rec := h2h[key]
		for _, side := range []struct {
			name, opp string
			wins      int
		}{
			{key.A, key.B, rec.WinsA},
			{key.B, key.A, rec.WinsB},
		} {
			acc := power[side.name]
			if acc == nil {
				acc = &powerAcc{opponents: make(map[string]struct{})}
				power[side.name] = acc
			}
			acc.games += rec.Total()
			acc.wins += side.wins
			acc.opponents[side.opp] = struct{}{}
		}
	}
	names := make([]string, 0, len(power))
	for n := range power {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		acc := power[n]
		if !qualifies(acc.games, minPowerGames) || !qualifies(len(acc.opponents), minPowerOpponents) {
			continue
		}
		rep.PowerRankings = append(rep.PowerRankings, PowerRank{
			Name: n, H2HGames: acc.games, H2HWins: acc.wins,
			H2HRate: pct(acc.wins, acc.games), Opponents: len(acc.opponents),
		})
	}
	sort.Slice(rep.PowerRankings, func(i, j int) bool {
		if rep.PowerRankings[i].H2HRate != rep.PowerRankings[j].H2HRate {
			return rep.PowerRankings[i].H2HRate > rep.PowerRankings[j].H2HRate
		}
		if rep.PowerRankings[i].H2HGames != rep.PowerRankings[j].H2HGames {
			return rep.PowerRankings[i].H2HGames > rep.PowerRankings[j].H2HGames
		}
		return rep.PowerRankings[i].Name < rep.PowerRankings[j].Name
	})

	return rep
}
