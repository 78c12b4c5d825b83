// Package model defines the leaderboard entities and the derived-metric
// helpers shared by the aggregation and reporting layers.
package model

import "time"

// DefaultElo is assigned when the upstream players row carries no rating.
const DefaultElo = 1200

// Player is one row of the players table.
type Player struct {
	ID        int64
	Name      string
	Elo       int
	Country   string
	Inactive  bool
	CreatedAt time.Time
}

// Match is one row of the matches table. Participants are stored separately
// and joined by MatchID.
type Match struct {
	ID        int64
	CreatedAt time.Time
}

// MatchParticipant is one player's line in one match.
type MatchParticipant struct {
	ID             int64
	MatchID        int64
	PlayerID       int64
	SmashCharacter string
	IsCPU          bool
	TotalKOs       int
	TotalFalls     int
	TotalSDs       int
	HasWon         bool
	CreatedAt      time.Time
}

// KDRatio returns KOs per fall. A participant who never fell divides by one,
// so the ratio equals the KO count rather than blowing up.
func (p *MatchParticipant) KDRatio() float64 {
	falls := p.TotalFalls
	if falls == 0 {
		falls = 1
	}
	return float64(p.TotalKOs) / float64(falls)
}

// IsPerfectGame reports a won game with at least three KOs and no falls.
func (p *MatchParticipant) IsPerfectGame() bool {
	return p.HasWon && p.TotalKOs >= 3 && p.TotalFalls == 0
}
