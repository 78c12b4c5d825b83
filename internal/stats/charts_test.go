package stats

import (
	"testing"
	"time"
)

func TestStreakDistribution(t *testing.T) {
	f := newFixture()
	// Alice: win, win, loss, win, win, win. Two win runs of lengths 2 and 3;
	// Bob's mirror sequence has a single win run of length 1.
	seq := []bool{true, true, false, true, true, true}
	for i, aliceWins := range seq {
		at := base.Add(time.Duration(i) * time.Hour)
		if aliceWins {
			f.duel(at, alice, bob, "Fox", "Kirby")
		} else {
			f.duel(at, bob, alice, "Kirby", "Fox")
		}
	}
	s := f.snapshot(t)

	bins := streakDistribution(buildPlayerAggs(s))
	if len(bins) != 10 {
		t.Fatalf("want 10 bins, got %d", len(bins))
	}
	got := make(map[string]int)
	for _, b := range bins {
		got[b.Label] = b.Count
	}
	// Alice contributes runs of 2 and 3; Bob a single run of 1.
	if got["1"] != 1 || got["2"] != 1 || got["3"] != 1 {
		t.Errorf("run counts wrong: %v", got)
	}
}

func TestWinRateDistributionBuckets(t *testing.T) {
	f := newFixture()
	// 20 games each: Alice wins 15 (75%), Bob 5 (25%).
	for i := 0; i < 15; i++ {
		f.duel(base.Add(time.Duration(i)*time.Hour), alice, bob, "Fox", "Kirby")
	}
	for i := 15; i < 20; i++ {
		f.duel(base.Add(time.Duration(i)*time.Hour), bob, alice, "Kirby", "Fox")
	}
	s := f.snapshot(t)

	bins := winRateDistribution(buildPlayerAggs(s))
	got := make(map[string]int)
	for _, b := range bins {
		got[b.Label] = b.Count
	}
	if got["70-80%"] != 1 {
		t.Errorf("want Alice in 70-80%%, got %v", got)
	}
	if got["20-30%"] != 1 {
		t.Errorf("want Bob in 20-30%%, got %v", got)
	}
}

func TestHeadToHeadMatrix(t *testing.T) {
	f := newFixture()
	f.duel(base, alice, bob, "Fox", "Kirby")
	f.duel(base.Add(time.Hour), alice, bob, "Fox", "Kirby")
	f.duel(base.Add(2*time.Hour), bob, alice, "Kirby", "Fox")
	s := f.snapshot(t)

	aggs := buildPlayerAggs(s)
	m := headToHeadMatrix(s, aggs)
	if len(m.Players) != 2 {
		t.Fatalf("want 2 players in matrix, got %d", len(m.Players))
	}
	idx := make(map[string]int)
	for i, n := range m.Players {
		idx[n] = i
	}
	if m.Wins[idx["Alice"]][idx["Bob"]] != 2 {
		t.Errorf("Alice over Bob: want 2, got %d", m.Wins[idx["Alice"]][idx["Bob"]])
	}
	if m.Wins[idx["Bob"]][idx["Alice"]] != 1 {
		t.Errorf("Bob over Alice: want 1, got %d", m.Wins[idx["Bob"]][idx["Alice"]])
	}
}

func TestCumulativeGamesSamplesLastDay(t *testing.T) {
	f := newFixture()
	// Nine daily matches. Sampling keeps day 0, day 7, and the final day.
	for i := 0; i < 9; i++ {
		f.duel(base.AddDate(0, 0, i), alice, bob, "Fox", "Kirby")
	}
	s := f.snapshot(t)

	points := cumulativeGames(s, DefaultConfig())
	if len(points) != 3 {
		t.Fatalf("want 3 sampled points, got %d", len(points))
	}
	last := points[len(points)-1]
	if last.Total != 9 {
		t.Errorf("final total: want 9, got %d", last.Total)
	}
}

func TestPlayerNetworkFloors(t *testing.T) {
	f := newFixture()
	// Alice and Bob clear the node floor; Cara and Dan do not.
	for i := 0; i < 10; i++ {
		f.duel(base.Add(time.Duration(i)*time.Hour), alice, bob, "Fox", "Kirby")
	}
	f.duel(base.Add(20*time.Hour), cara, dan, "Yoshi", "Samus")
	s := f.snapshot(t)

	net := playerNetwork(s, buildPlayerAggs(s))
	if len(net.Nodes) != 2 {
		t.Fatalf("want 2 nodes, got %d", len(net.Nodes))
	}
	if len(net.Edges) != 1 {
		t.Fatalf("want 1 edge, got %d", len(net.Edges))
	}
	e := net.Edges[0]
	if e.A != "Alice" || e.B != "Bob" || e.Games != 10 || e.WinRateA != 100 {
		t.Errorf("edge wrong: %+v", e)
	}
}
