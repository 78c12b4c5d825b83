package stats

import (
	"time"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/model"
)

// sessions splits a chronological history into play sessions: a gap longer
// than cfg.SessionGap between consecutive games starts a new session.
func (c Config) sessions(hist []model.MatchParticipant) [][]model.MatchParticipant {
	if len(hist) == 0 {
		return nil
	}
	var out [][]model.MatchParticipant
	start := 0
	for i := 1; i < len(hist); i++ {
		if hist[i].CreatedAt.Sub(hist[i-1].CreatedAt) > c.SessionGap {
			out = append(out, hist[start:i])
			start = i
		}
	}
	return append(out, hist[start:])
}

// DayWindow returns the UTC bounds of the report day containing the given
// local date: [date reset-hour local, next day reset-hour local).
func (c Config) DayWindow(year int, month time.Month, day int) (from, to time.Time) {
	localStart := time.Date(year, month, day, c.ResetHour, 0, 0, 0, time.UTC)
	from = localStart.Add(-c.UTCOffset)
	return from, from.Add(24 * time.Hour)
}

// HourCount is one hourly activity bucket.
type HourCount struct {
	Hour    int `json:"hour"`
	Matches int `json:"matches"`
}

// DayCount is one labeled daily or weekday bucket.
type DayCount struct {
	Day     string `json:"day"`
	Matches int    `json:"matches"`
}

// MonthCount is one monthly activity bucket.
type MonthCount struct {
	Month   string `json:"month"`
	Matches int    `json:"matches"`
}
