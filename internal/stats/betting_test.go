package stats

import (
	"testing"
	"time"
)

func TestAmericanOdds(t *testing.T) {
	cases := []struct {
		p    float64
		want int
	}{
		{0.5, -100},
		{0.75, -300},
		{0.25, 300},
		{0, 999},
		{1, -999},
		{0.999, -999}, // clamp
	}
	for _, tc := range cases {
		if got := americanOdds(tc.p); got != tc.want {
			t.Errorf("americanOdds(%v): want %d, got %d", tc.p, tc.want, got)
		}
	}
}

func TestDecimalOdds(t *testing.T) {
	if got := decimalOdds(0.5); got != 2 {
		t.Errorf("decimalOdds(0.5): want 2, got %v", got)
	}
	if got := decimalOdds(0.4); got != 2.5 {
		t.Errorf("decimalOdds(0.4): want 2.5, got %v", got)
	}
	if got := decimalOdds(0); got != 99 {
		t.Errorf("decimalOdds(0): want 99, got %v", got)
	}
}

func TestConfidenceLabel(t *testing.T) {
	cases := []struct {
		total int
		want  string
	}{
		{5, "low"}, {15, "medium"}, {29, "medium"}, {30, "high"},
	}
	for _, tc := range cases {
		if got := confidenceLabel(tc.total); got != tc.want {
			t.Errorf("confidenceLabel(%d): want %s, got %s", tc.total, tc.want, got)
		}
	}
}

func TestBuildBettingFloorsAndProbabilities(t *testing.T) {
	f := newFixture()
	// Alice beats Bob 6, Bob beats Alice 2: eight meetings, qualifies at 5.
	for i := 0; i < 6; i++ {
		f.duel(base.Add(time.Duration(i)*time.Hour), alice, bob, "Fox", "Kirby")
	}
	f.duel(base.Add(6*time.Hour), bob, alice, "Kirby", "Fox")
	f.duel(base.Add(7*time.Hour), bob, alice, "Kirby", "Fox")
	// Cara/Dan only meet three times: below the floor.
	for i := 0; i < 3; i++ {
		f.duel(base.Add(time.Duration(10+i)*time.Hour), cara, dan, "Yoshi", "Samus")
	}
	s := f.snapshot(t)

	rep := BuildBetting(s)
	if len(rep.Matchups) != 1 {
		t.Fatalf("want 1 priced matchup, got %d", len(rep.Matchups))
	}
	m := rep.Matchups[0]
	if m.PlayerA != "Alice" || m.PlayerB != "Bob" {
		t.Errorf("unexpected pair %s/%s", m.PlayerA, m.PlayerB)
	}
	if m.ProbA != 75 || m.ProbB != 25 {
		t.Errorf("probs: want 75/25, got %v/%v", m.ProbA, m.ProbB)
	}
	if m.AmericanA != -300 || m.AmericanB != 300 {
		t.Errorf("american: want -300/+300, got %d/%d", m.AmericanA, m.AmericanB)
	}
	if m.Confidence != "low" {
		t.Errorf("confidence: want low, got %s", m.Confidence)
	}
}
