// Package stats is the aggregation engine: pure functions over an indexed
// snapshot that produce the JSON artifact structs the CLI writes out. Nothing
// in here touches storage or the network.
package stats

import (
	"math"
	"time"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/model"
)

// Config carries the tunables the engine needs. The zero value is not
// useful; start from DefaultConfig.
type Config struct {
	// UTCOffset shifts match timestamps into office-local time before any
	// hour/weekday/month bucketing. The leaderboard lives on the US west
	// coast, hence the -8h default.
	UTCOffset time.Duration
	// SessionGap is the idle time that ends a play session.
	SessionGap time.Duration
	// ResetHour is the local hour at which a "day" rolls over for daily
	// reports.
	ResetHour int
	// CloseMargin and BlowoutMargin bound the |KOs-falls| heuristic that
	// splits close games from blowouts.
	CloseMargin   int
	BlowoutMargin int
}

// DefaultConfig matches the behaviour of the production dashboard feeds.
func DefaultConfig() Config {
	return Config{
		UTCOffset:     -8 * time.Hour,
		SessionGap:    30 * time.Minute,
		ResetHour:     8,
		CloseMargin:   1,
		BlowoutMargin: 2,
	}
}

// Local shifts a UTC timestamp into office-local time.
func (c Config) Local(t time.Time) time.Time {
	return t.UTC().Add(c.UTCOffset)
}

// Hour returns the local hour 0-23.
func (c Config) Hour(t time.Time) int { return c.Local(t).Hour() }

// Weekday returns the local weekday.
func (c Config) Weekday(t time.Time) time.Weekday { return c.Local(t).Weekday() }

// MonthKey returns the local "YYYY-MM" bucket.
func (c Config) MonthKey(t time.Time) string { return c.Local(t).Format("2006-01") }

// DateKey returns the local "YYYY-MM-DD" bucket.
func (c Config) DateKey(t time.Time) string { return c.Local(t).Format("2006-01-02") }

// PeriodLabel names the local time-of-day bucket.
func (c Config) PeriodLabel(t time.Time) string {
	switch h := c.Hour(t); {
	case h >= 22 || h <= 4:
		return "Late Night"
	case h <= 11:
		return "Morning"
	case h <= 17:
		return "Afternoon"
	default:
		return "Evening"
	}
}

// IsWeekend reports whether the local timestamp falls on Saturday or Sunday.
func (c Config) IsWeekend(t time.Time) bool {
	wd := c.Weekday(t)
	return wd == time.Saturday || wd == time.Sunday
}

// weekdayOrder lists weekdays Monday-first, the way every weekday table in
// the artifacts is laid out.
var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Line accumulates one entity's counting stats. Methods are safe on an empty
// line: every ratio guards its denominator.
type Line struct {
	Games int `json:"games"`
	Wins  int `json:"wins"`
	KOs   int `json:"kos"`
	Falls int `json:"falls"`
	SDs   int `json:"sds"`
}

// Add folds one participant row into the line.
func (l *Line) Add(p model.MatchParticipant) {
	l.Games++
	if p.HasWon {
		l.Wins++
	}
	l.KOs += p.TotalKOs
	l.Falls += p.TotalFalls
	l.SDs += p.TotalSDs
}

// Losses is games minus wins.
func (l Line) Losses() int { return l.Games - l.Wins }

// WinRate is wins over games as a percentage, one decimal place. Zero games
// is zero percent.
func (l Line) WinRate() float64 {
	if l.Games == 0 {
		return 0
	}
	return round1(float64(l.Wins) / float64(l.Games) * 100)
}

// KDRatio is KOs per fall, two decimal places. A line with no falls divides
// by one, so the ratio equals the KO count.
func (l Line) KDRatio() float64 {
	falls := l.Falls
	if falls == 0 {
		falls = 1
	}
	return round2(float64(l.KOs) / float64(falls))
}

// SDRate is self-destructs per game, three decimal places.
func (l Line) SDRate() float64 {
	if l.Games == 0 {
		return 0
	}
	return round3(float64(l.SDs) / float64(l.Games))
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

// qualifies gates an entity into a ranked result. It runs before any
// extremum or top-N selection, never after.
func qualifies(n, min int) bool { return n >= min }

// pct is a guarded percentage with one decimal place.
func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

// outcomes projects a chronological history onto win/loss booleans.
func outcomes(hist []model.MatchParticipant) []bool {
	out := make([]bool, len(hist))
	for i, p := range hist {
		out[i] = p.HasWon
	}
	return out
}

// characterCounts tallies games per character over a history.
func characterCounts(hist []model.MatchParticipant) map[string]int {
	counts := make(map[string]int)
	for _, p := range hist {
		counts[p.SmashCharacter]++
	}
	return counts
}

// topCharacter returns the most-played character and its count. Ties break
// toward the alphabetically first name so reruns are stable.
func topCharacter(counts map[string]int) (string, int) {
	best, bestN := "", 0
	for ch, n := range counts {
		if n > bestN || (n == bestN && (best == "" || ch < best)) {
			best, bestN = ch, n
		}
	}
	return best, bestN
}
