package stats

import (
	"testing"
	"time"
)

func TestFatigueSessionBuckets(t *testing.T) {
	f := newFixture()
	// One ten-game session: positions 1-3 are early, 8-10 are late.
	for i := 0; i < 10; i++ {
		f.duel(base.Add(time.Duration(i*5)*time.Minute), alice, bob, "Fox", "Kirby")
	}
	s := f.snapshot(t)

	rep := fatigue(buildPlayerAggs(s), DefaultConfig())
	if rep.EarlyGames != 6 {
		t.Errorf("early games: want 6 (3 per player), got %d", rep.EarlyGames)
	}
	if rep.LateGames != 6 {
		t.Errorf("late games: want 6, got %d", rep.LateGames)
	}
}

func TestDayActivity(t *testing.T) {
	f := newFixture()
	// base is a Monday local; two matches Friday, one Monday.
	f.duel(base, alice, bob, "Fox", "Kirby")
	f.duel(base.AddDate(0, 0, 4), alice, bob, "Fox", "Kirby")
	f.duel(base.AddDate(0, 0, 4).Add(time.Hour), alice, bob, "Fox", "Kirby")
	s := f.snapshot(t)

	rep := dayActivity(s, DefaultConfig())
	if rep.Busiest != "Friday" {
		t.Errorf("busiest: want Friday, got %s", rep.Busiest)
	}
	if rep.Quietest != "Tuesday" {
		t.Errorf("quietest: want Tuesday (first empty weekday), got %s", rep.Quietest)
	}
	if rep.FridayMondayRatio != 2 {
		t.Errorf("friday/monday ratio: want 2, got %v", rep.FridayMondayRatio)
	}
}

func TestLopsidedMatchups(t *testing.T) {
	f := newFixture()
	// Fox beats Kirby ten straight: clears the floor at 100% win rate.
	for i := 0; i < 10; i++ {
		f.duel(base.Add(time.Duration(i)*time.Hour), alice, bob, "Fox", "Kirby")
	}
	// Yoshi/Samus meet only five times: below the floor.
	for i := 0; i < 5; i++ {
		f.duel(base.Add(time.Duration(20+i)*time.Hour), cara, dan, "Yoshi", "Samus")
	}
	s := f.snapshot(t)

	out := lopsidedMatchups(s)
	if len(out) != 1 {
		t.Fatalf("want 1 lopsided matchup, got %d", len(out))
	}
	if out[0].Winner != "Fox" || out[0].Loser != "Kirby" || out[0].WinRate != 100 {
		t.Errorf("unexpected matchup: %+v", out[0])
	}
}

func TestDominantMatchupsDirected(t *testing.T) {
	f := newFixture()
	for i := 0; i < 15; i++ {
		f.duel(base.Add(time.Duration(i)*time.Hour), alice, bob, "Fox", "Kirby")
	}
	s := f.snapshot(t)

	out := dominantMatchups(s)
	if len(out) != 1 {
		t.Fatalf("want 1 dominant edge, got %d", len(out))
	}
	d := out[0]
	if d.Player != "Alice" || d.Victim != "Bob" {
		t.Errorf("edge direction wrong: %s over %s", d.Player, d.Victim)
	}
	if d.Wins != 15 || d.Total != 15 || d.WinRate != 100 {
		t.Errorf("edge record wrong: %+v", d)
	}
}

func TestRevengeGames(t *testing.T) {
	f := newFixture()
	// Alice alternates loss then win against Bob, ten games. Every game she
	// plays right after a loss is a win.
	for i := 0; i < 5; i++ {
		f.duel(base.Add(time.Duration(2*i)*time.Hour), bob, alice, "Kirby", "Fox")
		f.duel(base.Add(time.Duration(2*i+1)*time.Hour), alice, bob, "Fox", "Kirby")
	}
	s := f.snapshot(t)

	out := revengeGames(s)
	if len(out) != 1 {
		t.Fatalf("want 1 qualified revenge entry, got %d", len(out))
	}
	e := out[0]
	if e.Player != "Alice" {
		t.Fatalf("want Alice, got %s", e.Player)
	}
	if e.RevengeWR != 100 || e.BaselineWR != 0 || e.Boost != 100 {
		t.Errorf("revenge split wrong: %+v", e)
	}
	if e.Samples != 5 {
		t.Errorf("samples: want 5, got %d", e.Samples)
	}
}
