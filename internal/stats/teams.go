package stats

import (
	"sort"
	"time"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/snapshot"
)

// Team play floors and caps.
const (
	minDuoGames        = 2
	minTeamGames       = 2
	minTeamPlayerGames = 3
	minPartnerGames    = 2
	topTeamRecords     = 20
)

// TeamsReport is the team-play JSON artifact.
type TeamsReport struct {
	GeneratedAt    string           `json:"generated_at"`
	Formats        []FormatCount    `json:"formats"`
	BestDuos       []DuoRecord      `json:"best_duos"`
	MostActiveDuos []DuoRecord      `json:"most_active_duos"`
	Compositions   []TeamRecord     `json:"team_compositions"`
	PlayerRankings []TeamPlayerRank `json:"player_rankings"`
	BestPartners   []PartnershipRec `json:"best_partnerships"`
	ActivePartners []PartnershipRec `json:"most_active_partnerships"`
	Summary        TeamsSummary     `json:"summary"`
}

// FormatCount is one "NvM" histogram bucket.
type FormatCount struct {
	Format  string `json:"format"`
	Matches int    `json:"matches"`
}

// DuoRecord is a 2v2 pairing's record.
type DuoRecord struct {
	Duo     string  `json:"duo"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Total   int     `json:"total"`
	WinRate float64 `json:"win_rate"`
}

// TeamRecord is any-size composition's record.
type TeamRecord struct {
	Team    string  `json:"team"`
	Size    int     `json:"size"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	KOs     int     `json:"kos"`
	Falls   int     `json:"falls"`
	WinRate float64 `json:"win_rate"`
}

// TeamPlayerRank is one player's record across team matches only.
type TeamPlayerRank struct {
	Name         string  `json:"name"`
	TeamGames    int     `json:"team_games"`
	TeamWins     int     `json:"team_wins"`
	TeamWinRate  float64 `json:"team_win_rate"`
	BestTeammate string  `json:"best_teammate"`
}

// PartnershipRec is an unordered pair's shared-side record.
type PartnershipRec struct {
	Pair    string  `json:"pair"`
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
}

// TeamsSummary holds the headline counts.
type TeamsSummary struct {
	TeamMatches   int `json:"team_matches"`
	DistinctTeams int `json:"distinct_teams"`
	DistinctDuos  int `json:"distinct_duos"`
}

// BuildTeams computes the team-play artifact.
func BuildTeams(s *snapshot.Snapshot) TeamsReport {
	rep := TeamsReport{GeneratedAt: time.Now().UTC().Format(time.RFC3339)}

	formats := make(map[string]int)
	type duoAcc struct{ wins, losses int }
	duos := make(map[string]*duoAcc)
	type teamAcc struct {
		size                     int
		wins, losses, kos, falls int
	}
	teams := make(map[string]*teamAcc)
	type partnerAcc struct{ games, wins int }
	partners := make(map[pairKey]*partnerAcc)
	type rankAcc struct {
		games, wins int
		teammates   map[string]int
	}
	ranks := make(map[int64]*rankAcc)

	for _, matchID := range s.MatchIDs() {
		f := s.Classify(matchID)
		formats[f.Label()]++
		if f.Kind != snapshot.TeamVsTeam {
			continue
		}
		rep.Summary.TeamMatches++
		winners, losers := s.Sides(matchID)

		if f.WinnerSize == 2 && f.LoserSize == 2 {
			wKey, lKey := teamKey(winners, s), teamKey(losers, s)
			if duos[wKey] == nil {
				duos[wKey] = &duoAcc{}
			}
			duos[wKey].wins++
			if duos[lKey] == nil {
				duos[lKey] = &duoAcc{}
			}
			duos[lKey].losses++
		}

		for _, won := range []bool{true, false} {
			entries := winners
			if !won {
				entries = losers
			}
			key := teamKey(entries, s)
			acc := teams[key]
			if acc == nil {
				acc = &teamAcc{size: len(entries)}
				teams[key] = acc
			}
			if won {
				acc.wins++
			} else {
				acc.losses++
			}
			for _, e := range entries {
				acc.kos += e.TotalKOs
				acc.falls += e.TotalFalls
			}

			for _, pk := range sidePairs(entries, s) {
				pa := partners[pk]
				if pa == nil {
					pa = &partnerAcc{}
					partners[pk] = pa
				}
				pa.games++
				if won {
					pa.wins++
				}
			}

			for _, e := range entries {
				ra := ranks[e.PlayerID]
				if ra == nil {
					ra = &rankAcc{teammates: make(map[string]int)}
					ranks[e.PlayerID] = ra
				}
				ra.games++
				if won {
					ra.wins++
				}
				selfName, _ := s.Name(e.PlayerID)
				for _, other := range entries {
					n, _ := s.Name(other.PlayerID)
					if n != selfName {
						ra.teammates[n]++
					}
				}
			}
		}
	}

	for label, n := range formats {
		rep.Formats = append(rep.Formats, FormatCount{Format: label, Matches: n})
	}
	sort.Slice(rep.Formats, func(i, j int) bool {
		if rep.Formats[i].Matches != rep.Formats[j].Matches {
			return rep.Formats[i].Matches > rep.Formats[j].Matches
		}
		return rep.Formats[i].Format < rep.Formats[j].Format
	})

	var duoRecs []DuoRecord
	for key, acc := range duos {
		total := acc.wins + acc.losses
		if !qualifies(total, minDuoGames) {
			continue
		}
		duoRecs = append(duoRecs, DuoRecord{
			Duo: key, Wins: acc.wins, Losses: acc.losses, Total: total,
			WinRate: pct(acc.wins, total),
		})
	}
	rep.Summary.DistinctDuos = len(duos)
	rep.BestDuos = sortDuoRecords(duoRecs, func(a, b DuoRecord) bool {
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Duo < b.Duo
	})
	rep.MostActiveDuos = sortDuoRecords(duoRecs, func(a, b DuoRecord) bool {
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		return a.Duo < b.Duo
	})

	for key, acc := range teams {
		total := acc.wins + acc.losses
		if !qualifies(total, minTeamGames) {
			continue
		}
		rep.Compositions = append(rep.Compositions, TeamRecord{
			Team: key, Size: acc.size, Wins: acc.wins, Losses: acc.losses,
			KOs: acc.kos, Falls: acc.falls, WinRate: pct(acc.wins, total),
		})
	}
	rep.Summary.DistinctTeams = len(teams)
	sort.Slice(rep.Compositions, func(i, j int) bool {
		a, b := rep.Compositions[i], rep.Compositions[j]
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		if a.Wins+a.Losses != b.Wins+b.Losses {
			return a.Wins+a.Losses > b.Wins+b.Losses
		}
		return a.Team < b.Team
	})
	if len(rep.Compositions) > topTeamRecords {
		rep.Compositions = rep.Compositions[:topTeamRecords]
	}

	for id, acc := range ranks {
		if !qualifies(acc.games, minTeamPlayerGames) {
			continue
		}
		name, _ := s.Name(id)
		bestMate, bestN := "", 0
		mates := make([]string, 0, len(acc.teammates))
		for m := range acc.teammates {
			mates = append(mates, m)
		}
		sort.Strings(mates)
		for _, m := range mates {
			if acc.teammates[m] > bestN {
				bestMate, bestN = m, acc.teammates[m]
			}
		}
		rep.PlayerRankings = append(rep.PlayerRankings, TeamPlayerRank{
			Name: name, TeamGames: acc.games, TeamWins: acc.wins,
			TeamWinRate: pct(acc.wins, acc.games), BestTeammate: bestMate,
		})
	}
	sort.Slice(rep.PlayerRankings, func(i, j int) bool {
		a, b := rep.PlayerRankings[i], rep.PlayerRankings[j]
		if a.TeamWinRate != b.TeamWinRate {
			return a.TeamWinRate > b.TeamWinRate
		}
		if a.TeamGames != b.TeamGames {
			return a.TeamGames > b.TeamGames
		}
		return a.Name < b.Name
	})

	var partnerRecs []PartnershipRec
	for pk, acc := range partners {
		if !qualifies(acc.games, minPartnerGames) {
			continue
		}
		partnerRecs = append(partnerRecs, PartnershipRec{
			Pair: pk.A + " & " + pk.B, Games: acc.games, Wins: acc.wins,
			WinRate: pct(acc.wins, acc.games),
		})
	}
	rep.BestPartners = sortPartnershipRecs(partnerRecs, func(a, b PartnershipRec) bool {
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		if a.Games != b.Games {
			return a.Games > b.Games
		}
		return a.Pair < b.Pair
	})
	rep.ActivePartners = sortPartnershipRecs(partnerRecs, func(a, b PartnershipRec) bool {
		if a.Games != b.Games {
			return a.Games > b.Games
		}
		return a.Pair < b.Pair
	})

	return rep
}

func sortDuoRecords(recs []DuoRecord, less func(a, b DuoRecord) bool) []DuoRecord {
	out := make([]DuoRecord, len(recs))
	copy(out, recs)
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if len(out) > topTeamRecords {
		out = out[:topTeamRecords]
	}
	return out
}

func sortPartnershipRecs(recs []PartnershipRec, less func(a, b PartnershipRec) bool) []PartnershipRec {
	out := make([]PartnershipRec, len(recs))
	copy(out, recs)
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if len(out) > topTeamRecords {
		out = out[:topTeamRecords]
	}
	return out
}
