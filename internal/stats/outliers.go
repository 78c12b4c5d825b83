package stats

import (
	"fmt"
	"sort"
	"time"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/model"
	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/snapshot"
)

// Outlier sample floors. A player or character only enters a superlative
// once they clear the floor for that family.
const (
	minOutlierGames     = 50
	minSDProneGames     = 30
	minSplitGames       = 10
	minNightGames       = 20
	minCharPlays        = 20
	minDayGames         = 20
	minComebackSDGames  = 10
	minImprovementGames = 100
)

// Superlative is one "most/least X" record.
type Superlative struct {
	Stat   string `json:"stat"`
	Player string `json:"player"`
	Value  string `json:"value"`
	Detail string `json:"detail,omitempty"`
}

// OutlierReport is the superlatives JSON artifact.
type OutlierReport struct {
	GeneratedAt  string        `json:"generated_at"`
	Superlatives []Superlative `json:"superlatives"`
}

// playerAgg caches everything the outlier scans need per player.
type playerAgg struct {
	id   int64
	name string
	line Line
	hist []model.MatchParticipant
	outc []bool
}

func buildPlayerAggs(s *snapshot.Snapshot) []playerAgg {
	var aggs []playerAgg
	for _, id := range s.PlayerIDs() {
		hist := s.History(id)
		name, _ := s.Name(id)
		a := playerAgg{id: id, name: name, hist: hist, outc: outcomes(hist)}
		for _, p := range hist {
			a.line.Add(p)
		}
		aggs = append(aggs, a)
	}
	// Games desc then name asc, so a strict-greater scan realizes the
	// standard tie-break without extra bookkeeping.
	sort.Slice(aggs, func(i, j int) bool {
		if aggs[i].line.Games != aggs[j].line.Games {
			return aggs[i].line.Games > aggs[j].line.Games
		}
		return aggs[i].name < aggs[j].name
	})
	return aggs
}

// pickMax scans qualified players for the largest metric value. ok is false
// when nobody qualifies.
func pickMax(aggs []playerAgg, minGames int, metric func(playerAgg) float64) (playerAgg, float64, bool) {
	var best playerAgg
	var bestV float64
	found := false
	for _, a := range aggs {
		if !qualifies(a.line.Games, minGames) {
			continue
		}
		v := metric(a)
		if !found || v > bestV {
			best, bestV, found = a, v, true
		}
	}
	return best, bestV, found
}

func pickMin(aggs []playerAgg, minGames int, metric func(playerAgg) float64) (playerAgg, float64, bool) {
	return pickMax(aggs, minGames, func(a playerAgg) float64 { return -metric(a) })
}

// BuildOutliers computes every superlative the dataset supports.
func BuildOutliers(s *snapshot.Snapshot, cfg Config) OutlierReport {
	aggs := buildPlayerAggs(s)
	rep := OutlierReport{GeneratedAt: time.Now().UTC().Format(time.RFC3339)}
	add := func(stat, player, value, detail string) {
		rep.Superlatives = append(rep.Superlatives, Superlative{Stat: stat, Player: player, Value: value, Detail: detail})
	}

	if len(aggs) > 0 {
		detail := ""
		if len(aggs) > 1 {
			detail = fmt.Sprintf("runner-up: %s (%d games)", aggs[1].name, aggs[1].line.Games)
		}
		add("Biggest Grinder", aggs[0].name, fmt.Sprintf("%d games", aggs[0].line.Games), detail)
	}

	if a, v, ok := pickMax(aggs, minOutlierGames, func(a playerAgg) float64 { return a.line.WinRate() }); ok {
		add("Most Dominant", a.name, fmt.Sprintf("%.1f%% win rate", v), fmt.Sprintf("%d games", a.line.Games))
	}
	if a, v, ok := pickMin(aggs, minOutlierGames, func(a playerAgg) float64 { return a.line.WinRate() }); ok {
		add("Biggest Underdog", a.name, fmt.Sprintf("%.1f%% win rate", -v), fmt.Sprintf("%d games", a.line.Games))
	}

	if a, v, ok := pickMax(aggs, 1, func(a playerAgg) float64 { return float64(maxRun(a.outc, true)) }); ok && v > 0 {
		add("Longest Win Streak", a.name, fmt.Sprintf("%d in a row", int(v)), "")
	}
	if a, v, ok := pickMax(aggs, 1, func(a playerAgg) float64 { return float64(maxRun(a.outc, false)) }); ok && v > 0 {
		add("Longest Losing Streak", a.name, fmt.Sprintf("%d in a row", int(v)), "")
	}

	if a, v, ok := pickMax(aggs, minOutlierGames, func(a playerAgg) float64 { return a.line.KDRatio() }); ok {
		add("Best KD", a.name, fmt.Sprintf("%.2f", v), fmt.Sprintf("%d KOs / %d falls", a.line.KOs, a.line.Falls))
	}
	if a, v, ok := pickMin(aggs, minOutlierGames, func(a playerAgg) float64 { return a.line.KDRatio() }); ok {
		add("Worst KD", a.name, fmt.Sprintf("%.2f", -v), fmt.Sprintf("%d KOs / %d falls", a.line.KOs, a.line.Falls))
	}

	if a, v, ok := pickMax(aggs, 1, func(a playerAgg) float64 { return float64(a.line.SDs) }); ok && v > 0 {
		add("Most Self-Destructs", a.name, fmt.Sprintf("%d SDs", int(v)), "")
	}
	if a, v, ok := pickMax(aggs, minSDProneGames, func(a playerAgg) float64 { return a.line.SDRate() }); ok {
		add("Most SD-Prone", a.name, fmt.Sprintf("%.3f SDs per game", v), fmt.Sprintf("%d games", a.line.Games))
	}
	if a, v, ok := pickMin(aggs, minOutlierGames, func(a playerAgg) float64 { return a.line.SDRate() }); ok {
		add("Cleanest Player", a.name, fmt.Sprintf("%.3f SDs per game", -v), fmt.Sprintf("%d games", a.line.Games))
	}

	if a, v, ok := pickMax(aggs, 1, func(a playerAgg) float64 { return float64(len(characterCounts(a.hist))) }); ok {
		add("Most Diverse", a.name, fmt.Sprintf("%d characters", int(v)), "")
	}
	if a, _, ok := pickMax(aggs, minOutlierGames, func(a playerAgg) float64 {
		_, n := topCharacter(characterCounts(a.hist))
		return pct(n, a.line.Games)
	}); ok {
		ch, n := topCharacter(characterCounts(a.hist))
		add("Biggest One-Trick", a.name, fmt.Sprintf("%.1f%% on %s", pct(n, a.line.Games), ch), fmt.Sprintf("%d of %d games", n, a.line.Games))
	}

	addWeekendSplits(&rep, aggs, cfg)
	addNightOwls(&rep, aggs, cfg)
	addGiantKiller(&rep, s)
	addCharacterExtremes(&rep, s)
	addBiggestRivalry(&rep, s)
	addDayPerformance(&rep, aggs, cfg)

	if a, v, ok := pickMax(aggs, 1, func(a playerAgg) float64 {
		line := comebackLine(a.hist)
		if !qualifies(line.Games, minComebackSDGames) {
			return -1
		}
		return line.WinRate()
	}); ok && v >= 0 {
		line := comebackLine(a.hist)
		add("Comeback King", a.name, fmt.Sprintf("%.1f%% win rate after self-destructing", v), fmt.Sprintf("%d games with SDs", line.Games))
	}

	addImprovement(&rep, aggs)

	if a, v, ok := pickMax(aggs, 1, func(a playerAgg) float64 {
		n := 0
		for _, p := range a.hist {
			if p.IsPerfectGame() {
				n++
			}
		}
		return float64(n)
	}); ok && v > 0 {
		add("Perfect Game Master", a.name, fmt.Sprintf("%d perfect games", int(v)), "3+ KOs, no falls, won")
	}

	addSingleGameRecords(&rep, aggs)
	return rep
}

func comebackLine(hist []model.MatchParticipant) Line {
	var line Line
	for _, p := range hist {
		if p.TotalSDs > 0 {
			line.Add(p)
		}
	}
	return line
}

func addWeekendSplits(rep *OutlierReport, aggs []playerAgg, cfg Config) {
	type split struct {
		a                playerAgg
		weekend, weekday Line
	}
	var best, worst *split
	var bestDiff, worstDiff float64
	for i := range aggs {
		a := aggs[i]
		var sp split
		sp.a = a
		for _, p := range a.hist {
			if cfg.IsWeekend(p.CreatedAt) {
				sp.weekend.Add(p)
			} else {
				sp.weekday.Add(p)
			}
		}
		if !qualifies(sp.weekend.Games, minSplitGames) || !qualifies(sp.weekday.Games, minSplitGames) {
			continue
		}
		diff := sp.weekend.WinRate() - sp.weekday.WinRate()
		if best == nil || diff > bestDiff {
			cp := sp
			best, bestDiff = &cp, diff
		}
		if worst == nil || diff < worstDiff {
			cp := sp
			worst, worstDiff = &cp, diff
		}
	}
	if best != nil {
		rep.Superlatives = append(rep.Superlatives, Superlative{
			Stat: "Weekend Warrior", Player: best.a.name,
			Value:  fmt.Sprintf("%+.1f%% on weekends", bestDiff),
			Detail: fmt.Sprintf("%.1f%% weekend vs %.1f%% weekday", best.weekend.WinRate(), best.weekday.WinRate()),
		})
	}
	if worst != nil {
		rep.Superlatives = append(rep.Superlatives, Superlative{
			Stat: "Weekday Grinder", Player: worst.a.name,
			Value:  fmt.Sprintf("%+.1f%% on weekdays", -worstDiff),
			Detail: fmt.Sprintf("%.1f%% weekday vs %.1f%% weekend", worst.weekday.WinRate(), worst.weekend.WinRate()),
		})
	}
}

func isNightHour(h int) bool { return h >= 22 || h <= 4 }

func addNightOwls(rep *OutlierReport, aggs []playerAgg, cfg Config) {
	nightLine := func(a playerAgg) Line {
		var line Line
		for _, p := range a.hist {
			if isNightHour(cfg.Hour(p.CreatedAt)) {
				line.Add(p)
			}
		}
		return line
	}
	if a, v, ok := pickMax(aggs, 1, func(a playerAgg) float64 { return float64(nightLine(a).Games) }); ok && v > 0 {
		rep.Superlatives = append(rep.Superlatives, Superlative{
			Stat: "Biggest Night Owl", Player: a.name,
			Value:  fmt.Sprintf("%d late-night games", int(v)),
			Detail: fmt.Sprintf("%.1f%% of their games", pct(int(v), a.line.Games)),
		})
	}
	if a, v, ok := pickMax(aggs, 1, func(a playerAgg) float64 {
		line := nightLine(a)
		if !qualifies(line.Games, minNightGames) {
			return -1
		}
		return line.WinRate()
	}); ok && v >= 0 {
		rep.Superlatives = append(rep.Superlatives, Superlative{
			Stat: "Late-Night Specialist", Player: a.name,
			Value:  fmt.Sprintf("%.1f%% win rate after 10 PM", v),
			Detail: fmt.Sprintf("%d late-night games", nightLine(a).Games),
		})
	}
}

func addGiantKiller(rep *OutlierReport, s *snapshot.Snapshot) {
	var topID int64
	topElo := -1
	for _, id := range s.PlayerIDs() {
		if e := s.Elo(id); e > topElo {
			topElo, topID = e, id
		}
	}
	if topElo < 0 {
		return
	}
	topName, _ := s.Name(topID)

	wins := make(map[string]int)
	for _, matchID := range s.MatchIDs() {
		if s.Classify(matchID).Kind != snapshot.OneOnOne {
			continue
		}
		winners, losers := s.Sides(matchID)
		if losers[0].PlayerID != topID {
			continue
		}
		n, _ := s.Name(winners[0].PlayerID)
		wins[n]++
	}
	var bestName string
	bestWins := 0
	names := make([]string, 0, len(wins))
	for n := range wins {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		if wins[n] > bestWins {
			bestName, bestWins = n, wins[n]
		}
	}
	if bestWins > 0 {
		rep.Superlatives = append(rep.Superlatives, Superlative{
			Stat: "Giant Killer", Player: bestName,
			Value:  fmt.Sprintf("%d wins over %s", bestWins, topName),
			Detail: fmt.Sprintf("%s holds the top elo (%d)", topName, topElo),
		})
	}
}

func addCharacterExtremes(rep *OutlierReport, s *snapshot.Snapshot) {
	lines := make(map[string]*Line)
	for _, id := range s.PlayerIDs() {
		for _, p := range s.History(id) {
			line := lines[p.SmashCharacter]
			if line == nil {
				line = &Line{}
				lines[p.SmashCharacter] = line
			}
			line.Add(p)
		}
	}
	chars := make([]string, 0, len(lines))
	for ch := range lines {
		chars = append(chars, ch)
	}
	sort.Strings(chars)

	var cursed, blessed string
	cursedWR, blessedWR := 101.0, -1.0
	for _, ch := range chars {
		line := lines[ch]
		if !qualifies(line.Games, minCharPlays) {
			continue
		}
		if wr := line.WinRate(); wr < cursedWR {
			cursed, cursedWR = ch, wr
		}
		if wr := line.WinRate(); wr > blessedWR {
			blessed, blessedWR = ch, wr
		}
	}
	if cursed != "" {
		rep.Superlatives = append(rep.Superlatives, Superlative{
			Stat: "Most Cursed Character", Player: cursed,
			Value:  fmt.Sprintf("%.1f%% win rate", cursedWR),
			Detail: fmt.Sprintf("%d games played", lines[cursed].Games),
		})
	}
	if blessed != "" {
		rep.Superlatives = append(rep.Superlatives, Superlative{
			Stat: "Most Blessed Character", Player: blessed,
			Value:  fmt.Sprintf("%.1f%% win rate", blessedWR),
			Detail: fmt.Sprintf("%d games played", lines[blessed].Games),
		})
	}
}

func addBiggestRivalry(rep *OutlierReport, s *snapshot.Snapshot) {
	h2h := headToHeads(s)
	var bestKey pairKey
	bestTotal := 0
	for _, key := range sortedPairKeys(h2h) {
		if t := h2h[key].Total(); t > bestTotal {
			bestKey, bestTotal = key, t
		}
	}
	if bestTotal > 0 {
		rec := h2h[bestKey]
		rep.Superlatives = append(rep.Superlatives, Superlative{
			Stat: "Biggest Rivalry", Player: bestKey.A + " vs " + bestKey.B,
			Value:  fmt.Sprintf("%d matches", bestTotal),
			Detail: fmt.Sprintf("%d-%d", rec.WinsA, rec.WinsB),
		})
	}
}

func addDayPerformance(rep *OutlierReport, aggs []playerAgg, cfg Config) {
	type dayLine struct {
		a  playerAgg
		wd time.Weekday
		l  Line
	}
	var best, worst *dayLine
	for i := range aggs {
		a := aggs[i]
		byDay := make(map[time.Weekday]*Line)
		for _, p := range a.hist {
			wd := cfg.Weekday(p.CreatedAt)
			line := byDay[wd]
			if line == nil {
				line = &Line{}
				byDay[wd] = line
			}
			line.Add(p)
		}
		for _, wd := range weekdayOrder {
			line := byDay[wd]
			if line == nil || !qualifies(line.Games, minDayGames) {
				continue
			}
			if best == nil || line.WinRate() > best.l.WinRate() {
				best = &dayLine{a: a, wd: wd, l: *line}
			}
			if worst == nil || line.WinRate() < worst.l.WinRate() {
				worst = &dayLine{a: a, wd: wd, l: *line}
			}
		}
	}
	if best != nil {
		rep.Superlatives = append(rep.Superlatives, Superlative{
			Stat: "Best Day Performance", Player: best.a.name,
			Value:  fmt.Sprintf("%.1f%% on %ss", best.l.WinRate(), best.wd),
			Detail: fmt.Sprintf("%d games", best.l.Games),
		})
	}
	if worst != nil {
		rep.Superlatives = append(rep.Superlatives, Superlative{
			Stat: "Worst Day Performance", Player: worst.a.name,
			Value:  fmt.Sprintf("%.1f%% on %ss", worst.l.WinRate(), worst.wd),
			Detail: fmt.Sprintf("%d games", worst.l.Games),
		})
	}
}

func addImprovement(rep *OutlierReport, aggs []playerAgg) {
	delta := func(a playerAgg) (float64, bool) {
		if !qualifies(a.line.Games, minImprovementGames) {
			return 0, false
		}
		var first, last Line
		for _, p := range a.hist[:50] {
			first.Add(p)
		}
		for _, p := range a.hist[len(a.hist)-50:] {
			last.Add(p)
		}
		return last.WinRate() - first.WinRate(), true
	}
	if a, v, ok := pickMax(aggs, minImprovementGames, func(a playerAgg) float64 {
		d, ok := delta(a)
		if !ok {
			return -1000
		}
		return d
	}); ok && v > -1000 {
		rep.Superlatives = append(rep.Superlatives, Superlative{
			Stat: "Most Improved", Player: a.name,
			Value:  fmt.Sprintf("%+.1f%% win rate", v),
			Detail: "first 50 games vs last 50",
		})
	}
	if a, v, ok := pickMin(aggs, minImprovementGames, func(a playerAgg) float64 {
		d, ok := delta(a)
		if !ok {
			return 1000
		}
		return d
	}); ok && -v < 1000 {
		rep.Superlatives = append(rep.Superlatives, Superlative{
			Stat: "Fallen Off", Player: a.name,
			Value:  fmt.Sprintf("%+.1f%% win rate", -v),
			Detail: "first 50 games vs last 50",
		})
	}
}

func addSingleGameRecords(rep *OutlierReport, aggs []playerAgg) {
	var koRec, sdRec SingleGameRecord
	for _, a := range aggs {
		for _, p := range a.hist {
			if p.TotalKOs > koRec.Value {
				koRec = SingleGameRecord{Player: a.name, Value: p.TotalKOs, Character: p.SmashCharacter, Won: p.HasWon}
			}
			if p.TotalSDs > sdRec.Value {
				sdRec = SingleGameRecord{Player: a.name, Value: p.TotalSDs, Character: p.SmashCharacter, Won: p.HasWon}
			}
		}
	}
	if koRec.Value > 0 {
		rep.Superlatives = append(rep.Superlatives, Superlative{
			Stat: "Most KOs In One Game", Player: koRec.Player,
			Value:  fmt.Sprintf("%d KOs", koRec.Value),
			Detail: fmt.Sprintf("as %s", koRec.Character),
		})
	}
	if sdRec.Value > 0 {
		rep.Superlatives = append(rep.Superlatives, Superlative{
			Stat: "Most SDs In One Game", Player: sdRec.Player,
			Value:  fmt.Sprintf("%d SDs", sdRec.Value),
			Detail: fmt.Sprintf("as %s", sdRec.Character),
		})
	}
}
