package stats

import (
	"sort"
	"strings"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/model"
	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/snapshot"
)

// pairKey identifies an unordered pair of names; A is always the
// alphabetically smaller one so both directions land on the same key.
type pairKey struct {
	A, B string
}

func makePairKey(a, b string) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{A: a, B: b}
}

// headToHead is the merged record of every 1v1 between two players. WinsA
// counts wins by the alphabetically first name.
type headToHead struct {
	WinsA int
	WinsB int
}

func (h headToHead) Total() int { return h.WinsA + h.WinsB }

// headToHeads walks every balanced 1v1 once and merges the two win
// directions into a single record per pair.
func headToHeads(s *snapshot.Snapshot) map[pairKey]headToHead {
	out := make(map[pairKey]headToHead)
	for _, matchID := range s.MatchIDs() {
		if s.Classify(matchID).Kind != snapshot.OneOnOne {
			continue
		}
		winners, losers := s.Sides(matchID)
		wName, _ := s.Name(winners[0].PlayerID)
		lName, _ := s.Name(losers[0].PlayerID)
		key := makePairKey(wName, lName)
		rec := out[key]
		if wName == key.A {
			rec.WinsA++
		} else {
			rec.WinsB++
		}
		out[key] = rec
	}
	return out
}

// sortedPairKeys returns the map's keys in deterministic order.
func sortedPairKeys(m map[pairKey]headToHead) []pairKey {
	keys := make([]pairKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].A != keys[j].A {
			return keys[i].A < keys[j].A
		}
		return keys[i].B < keys[j].B
	})
	return keys
}

// teamKey renders a side's members as a canonical, order-independent label.
func teamKey(entries []model.MatchParticipant, s *snapshot.Snapshot) string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		n, _ := s.Name(e.PlayerID)
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, " & ")
}

// sidePairs yields every unordered pair of names within one side, each once.
func sidePairs(entries []model.MatchParticipant, s *snapshot.Snapshot) []pairKey {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		n, _ := s.Name(e.PlayerID)
		names = append(names, n)
	}
	sort.Strings(names)
	var out []pairKey
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			out = append(out, pairKey{A: names[i], B: names[j]})
		}
	}
	return out
}
