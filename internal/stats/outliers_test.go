package stats

import (
	"testing"
	"time"
)

func findSuperlative(t *testing.T, rep OutlierReport, stat string) Superlative {
	t.Helper()
	for _, s := range rep.Superlatives {
		if s.Stat == stat {
			return s
		}
	}
	t.Fatalf("superlative %q missing", stat)
	return Superlative{}
}

func hasSuperlative(rep OutlierReport, stat string) bool {
	for _, s := range rep.Superlatives {
		if s.Stat == stat {
			return true
		}
	}
	return false
}

func TestBuildPlayerAggsOrder(t *testing.T) {
	f := newFixture()
	f.duel(base, alice, bob, "Fox", "Kirby")
	f.duel(base.Add(time.Hour), alice, cara, "Fox", "Yoshi")
	s := f.snapshot(t)

	aggs := buildPlayerAggs(s)
	if len(aggs) != 3 {
		t.Fatalf("want 3 aggs, got %d", len(aggs))
	}
	if aggs[0].name != "Alice" {
		t.Errorf("want Alice first on games, got %s", aggs[0].name)
	}
	// Bob and Cara tie on games; name breaks it.
	if aggs[1].name != "Bob" || aggs[2].name != "Cara" {
		t.Errorf("tie-break: want Bob then Cara, got %s then %s", aggs[1].name, aggs[2].name)
	}
}

func TestOutliersGrinderAndStreaks(t *testing.T) {
	f := newFixture()
	for i := 0; i < 4; i++ {
		f.duel(base.Add(time.Duration(i)*time.Hour), alice, bob, "Fox", "Kirby")
	}
	f.duel(base.Add(10*time.Hour), cara, dan, "Yoshi", "Samus")
	s := f.snapshot(t)

	rep := BuildOutliers(s, DefaultConfig())
	grinder := findSuperlative(t, rep, "Biggest Grinder")
	if grinder.Player != "Alice" || grinder.Value != "4 games" {
		t.Errorf("grinder: want Alice with 4 games, got %+v", grinder)
	}
	if grinder.Detail != "runner-up: Bob (4 games)" {
		t.Errorf("runner-up detail wrong: %q", grinder.Detail)
	}

	streak := findSuperlative(t, rep, "Longest Win Streak")
	if streak.Player != "Alice" || streak.Value != "4 in a row" {
		t.Errorf("win streak: want Alice with 4, got %+v", streak)
	}
	losing := findSuperlative(t, rep, "Longest Losing Streak")
	if losing.Player != "Bob" || losing.Value != "4 in a row" {
		t.Errorf("losing streak: want Bob with 4, got %+v", losing)
	}
}

func TestOutliersFloorsSuppressSmallSamples(t *testing.T) {
	f := newFixture()
	f.duel(base, alice, bob, "Fox", "Kirby")
	s := f.snapshot(t)

	rep := BuildOutliers(s, DefaultConfig())
	for _, stat := range []string{"Most Dominant", "Biggest Underdog", "Best KD", "Most Improved"} {
		if hasSuperlative(rep, stat) {
			t.Errorf("%q awarded below its sample floor", stat)
		}
	}
}

func TestOutliersNightOwlIncludesEarlyMorning(t *testing.T) {
	f := newFixture()
	// 11:00 UTC is 03:00 office-local, inside the late-night window.
	at := time.Date(2025, 6, 3, 11, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		f.duel(at.Add(time.Duration(i)*time.Minute), alice, bob, "Fox", "Kirby")
	}
	s := f.snapshot(t)

	owl := findSuperlative(t, BuildOutliers(s, DefaultConfig()), "Biggest Night Owl")
	if owl.Player != "Alice" || owl.Value != "5 late-night games" {
		t.Errorf("night owl: want Alice with 5 late-night games, got %+v", owl)
	}
}

func TestOutliersWeekendSplitEmittedAtFloor(t *testing.T) {
	f := newFixture()
	// Ten weekday and ten weekend games with identical results. The split
	// emits once both floors pass, however small the gap.
	for i := 0; i < 10; i++ {
		f.duel(base.Add(time.Duration(i)*time.Hour), alice, bob, "Fox", "Kirby")
	}
	weekend := base.AddDate(0, 0, 5)
	for i := 0; i < 10; i++ {
		f.duel(weekend.Add(time.Duration(i)*time.Hour), alice, bob, "Fox", "Kirby")
	}
	s := f.snapshot(t)

	rep := BuildOutliers(s, DefaultConfig())
	warrior := findSuperlative(t, rep, "Weekend Warrior")
	if warrior.Player != "Alice" || warrior.Value != "+0.0% on weekends" {
		t.Errorf("weekend warrior: %+v", warrior)
	}
	if !hasSuperlative(rep, "Weekday Grinder") {
		t.Error("weekday grinder missing")
	}
}

func TestOutliersGiantKiller(t *testing.T) {
	f := newFixture()
	// Dan holds the top elo (1240); Cara beats him twice.
	f.duel(base, cara, dan, "Yoshi", "Samus")
	f.duel(base.Add(time.Hour), cara, dan, "Yoshi", "Samus")
	f.duel(base.Add(2*time.Hour), dan, cara, "Samus", "Yoshi")
	s := f.snapshot(t)

	gk := findSuperlative(t, BuildOutliers(s, DefaultConfig()), "Giant Killer")
	if gk.Player != "Cara" || gk.Value != "2 wins over Dan" {
		t.Errorf("giant killer: want Cara with 2 wins over Dan, got %+v", gk)
	}
}

func TestOutliersBiggestRivalryAndRecords(t *testing.T) {
	f := newFixture()
	f.duel(base, alice, bob, "Fox", "Kirby")
	f.duel(base.Add(time.Hour), bob, alice, "Kirby", "Fox")
	f.duel(base.Add(2*time.Hour), cara, dan, "Yoshi", "Samus")
	f.addMatch(base.Add(3*time.Hour),
		entry{player: alice, char: "Fox", kos: 5, falls: 1, won: true},
		entry{player: dan, char: "Samus", kos: 1, falls: 5, sds: 2, won: false},
	)
	s := f.snapshot(t)

	rep := BuildOutliers(s, DefaultConfig())
	riv := findSuperlative(t, rep, "Biggest Rivalry")
	if riv.Player != "Alice vs Bob" || riv.Value != "2 matches" || riv.Detail != "1-1" {
		t.Errorf("rivalry: %+v", riv)
	}
	ko := findSuperlative(t, rep, "Most KOs In One Game")
	if ko.Player != "Alice" || ko.Value != "5 KOs" {
		t.Errorf("KO record: %+v", ko)
	}
	sd := findSuperlative(t, rep, "Most SDs In One Game")
	if sd.Player != "Dan" || sd.Value != "2 SDs" {
		t.Errorf("SD record: %+v", sd)
	}
}
