package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/snapshot"
)

// Chart feed floors.
const (
	minChartGames      = 5
	minChartCharPlays  = 5
	minDistGames       = 20
	minSeriesGames     = 30
	minNetworkGames    = 10
	minNetworkEdge     = 3
	minChartMomentum   = 5
	topChartCharacters = 20
	topMatrixPlayers   = 10
)

// ChartPlayer is one row of the dashboard player series.
type ChartPlayer struct {
	Name      string  `json:"name"`
	Games     int     `json:"games"`
	WinRate   float64 `json:"win_rate"`
	KDRatio   float64 `json:"kd_ratio"`
	SDRate    float64 `json:"sd_rate"`
	Momentum  float64 `json:"momentum"`
	Diversity int     `json:"diversity"`
}

// Bin is one histogram bucket.
type Bin struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// HeatCell is one weekday-by-hour activity cell.
type HeatCell struct {
	Day     string `json:"day"`
	Hour    int    `json:"hour"`
	Matches int    `json:"matches"`
}

// Matrix is a square head-to-head win grid over the listed players.
type Matrix struct {
	Players []string `json:"players"`
	Wins    [][]int  `json:"wins"`
}

// CumulativePoint is one sampled point of the all-time games curve.
type CumulativePoint struct {
	Date  string `json:"date"`
	Total int    `json:"total"`
}

// NetworkNode is one player in the who-plays-whom graph.
type NetworkNode struct {
	Name  string `json:"name"`
	Games int    `json:"games"`
	Size  int    `json:"size"`
}

// NetworkEdge is one qualified pair in the graph, with per-direction wins.
type NetworkEdge struct {
	A        string  `json:"a"`
	B        string  `json:"b"`
	Games    int     `json:"games"`
	WinRateA float64 `json:"win_rate_a"`
	WinRateB float64 `json:"win_rate_b"`
}

// Network is the full graph.
type Network struct {
	Nodes []NetworkNode `json:"nodes"`
	Edges []NetworkEdge `json:"edges"`
}

// ChartData is the dashboard feed artifact.
type ChartData struct {
	GeneratedAt         string            `json:"generated_at"`
	Players             []ChartPlayer     `json:"players"`
	WinRateDistribution []Bin             `json:"win_rate_distribution"`
	HourlyActivity      []HourCount       `json:"hourly_activity"`
	WeekdayActivity     []DayCount        `json:"weekday_activity"`
	MonthlyActivity     []MonthCount      `json:"monthly_activity"`
	Characters          []CharacterStat   `json:"characters"`
	TopCharacters       []CharacterStat   `json:"top_characters"`
	HeadToHeadMatrix    Matrix            `json:"head_to_head_matrix"`
	ActivityHeatmap     []HeatCell        `json:"activity_heatmap"`
	StreakDistribution  []Bin             `json:"streak_distribution"`
	CumulativeGames     []CumulativePoint `json:"cumulative_games"`
	PlayerNetwork       Network           `json:"player_network"`
}

// BuildCharts computes the dashboard feed.
func BuildCharts(s *snapshot.Snapshot, cfg Config) ChartData {
	aggs := buildPlayerAggs(s)
	tt := timeTrends(s, cfg)
	cd := ChartData{
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		HourlyActivity:  tt.Hourly,
		WeekdayActivity: tt.Weekday,
		MonthlyActivity: tt.Monthly,
	}

	for _, a := range aggs {
		if !qualifies(a.line.Games, minChartGames) {
			continue
		}
		cp := ChartPlayer{
			Name:      a.name,
			Games:     a.line.Games,
			WinRate:   a.line.WinRate(),
			KDRatio:   a.line.KDRatio(),
			SDRate:    a.line.SDRate(),
			Diversity: len(characterCounts(a.hist)),
		}
		var afterWin, afterLoss Line
		for i := 1; i < len(a.hist); i++ {
			if a.outc[i-1] {
				afterWin.Add(a.hist[i])
			} else {
				afterLoss.Add(a.hist[i])
			}
		}
		if qualifies(afterWin.Games, minChartMomentum) && qualifies(afterLoss.Games, minChartMomentum) {
			cp.Momentum = round1(afterWin.WinRate() - afterLoss.WinRate())
		}
		cd.Players = append(cd.Players, cp)
	}

	cd.WinRateDistribution = winRateDistribution(aggs)

	allChars := characterStats(s)
	for _, cs := range allChars {
		if qualifies(cs.TimesPlayed, minChartCharPlays) {
			cd.Characters = append(cd.Characters, cs)
		}
	}
	if len(allChars) > topChartCharacters {
		cd.TopCharacters = allChars[:topChartCharacters]
	} else {
		cd.TopCharacters = allChars
	}

	cd.HeadToHeadMatrix = headToHeadMatrix(s, aggs)
	cd.ActivityHeatmap = activityHeatmap(s, cfg)
	cd.StreakDistribution = streakDistribution(aggs)
	cd.CumulativeGames = cumulativeGames(s, cfg)
	cd.PlayerNetwork = playerNetwork(s, aggs)
	return cd
}

func winRateDistribution(aggs []playerAgg) []Bin {
	counts := make(map[int]int)
	for _, a := range aggs {
		if !qualifies(a.line.Games, minDistGames) {
			continue
		}
		bucket := int(a.line.WinRate()) / 10 * 10
		if bucket > 90 {
			bucket = 90
		}
		counts[bucket]++
	}
	var out []Bin
	for b := 0; b < 100; b += 10 {
		out = append(out, Bin{Label: fmt.Sprintf("%d-%d%%", b, b+10), Count: counts[b]})
	}
	return out
}

func headToHeadMatrix(s *snapshot.Snapshot, aggs []playerAgg) Matrix {
	top := aggs
	if len(top) > topMatrixPlayers {
		top = top[:topMatrixPlayers]
	}
	idx := make(map[string]int, len(top))
	var m Matrix
	for i, a := range top {
		m.Players = append(m.Players, a.name)
		idx[a.name] = i
	}
	m.Wins = make([][]int, len(top))
	for i := range m.Wins {
		m.Wins[i] = make([]int, len(top))
	}
	for _, matchID := range s.MatchIDs() {
		if s.Classify(matchID).Kind != snapshot.OneOnOne {
			continue
		}
		winners, losers := s.Sides(matchID)
		wName, _ := s.Name(winners[0].PlayerID)
		lName, _ := s.Name(losers[0].PlayerID)
		wi, wok := idx[wName]
		li, lok := idx[lName]
		if wok && lok {
			m.Wins[wi][li]++
		}
	}
	return m
}

func activityHeatmap(s *snapshot.Snapshot, cfg Config) []HeatCell {
	counts := make(map[time.Weekday]map[int]int)
	for _, matchID := range s.MatchIDs() {
		m, _ := s.Match(matchID)
		wd, h := cfg.Weekday(m.CreatedAt), cfg.Hour(m.CreatedAt)
		if counts[wd] == nil {
			counts[wd] = make(map[int]int)
		}
		counts[wd][h]++
	}
	var out []HeatCell
	for _, wd := range weekdayOrder {
		for h := 0; h < 24; h++ {
			out = append(out, HeatCell{Day: wd.String(), Hour: h, Matches: counts[wd][h]})
		}
	}
	return out
}

// streakDistribution buckets every maximal win run across all players by
// length: 1..9 exact, 10+ pooled.
func streakDistribution(aggs []playerAgg) []Bin {
	counts := make(map[int]int)
	for _, a := range aggs {
		cur := 0
		flush := func() {
			if cur == 0 {
				return
			}
			b := cur
			if b > 10 {
				b = 10
			}
			counts[b]++
			cur = 0
		}
		for _, won := range a.outc {
			if won {
				cur++
			} else {
				flush()
			}
		}
		flush()
	}
	var out []Bin
	for n := 1; n < 10; n++ {
		out = append(out, Bin{Label: fmt.Sprintf("%d", n), Count: counts[n]})
	}
	out = append(out, Bin{Label: "10+", Count: counts[10]})
	return out
}

func cumulativeGames(s *snapshot.Snapshot, cfg Config) []CumulativePoint {
	daily := make(map[string]int)
	for _, matchID := range s.MatchIDs() {
		m, _ := s.Match(matchID)
		daily[cfg.DateKey(m.CreatedAt)]++
	}
	dates := make([]string, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var out []CumulativePoint
	total := 0
	for i, d := range dates {
		total += daily[d]
		if i%7 == 0 || i == len(dates)-1 {
			out = append(out, CumulativePoint{Date: d, Total: total})
		}
	}
	return out
}

func playerNetwork(s *snapshot.Snapshot, aggs []playerAgg) Network {
	var net Network
	included := make(map[string]struct{})
	for _, a := range aggs {
		if !qualifies(a.line.Games, minNetworkGames) {
			continue
		}
		size := 10 + a.line.Games/30
		if size > 50 {
			size = 50
		}
		net.Nodes = append(net.Nodes, NetworkNode{Name: a.name, Games: a.line.Games, Size: size})
		included[a.name] = struct{}{}
	}

	h2h := headToHeads(s)
	for _, key := range sortedPairKeys(h2h) {
		rec := h2h[key]
		if rec.Total() < minNetworkEdge {
			continue
		}
		if _, ok := included[key.A]; !ok {
			continue
		}
		if _, ok := included[key.B]; !ok {
			continue
		}
		net.Edges = append(net.Edges, NetworkEdge{
			A: key.A, B: key.B, Games: rec.Total(),
			WinRateA: pct(rec.WinsA, rec.Total()),
			WinRateB: pct(rec.WinsB, rec.Total()),
		})
	}
	return net
}
