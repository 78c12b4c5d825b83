package stats

import (
	"testing"
	"time"
)

func TestHeadToHeadMergesDirections(t *testing.T) {
	f := newFixture()
	f.duel(base, alice, bob, "Fox", "Kirby")
	f.duel(base.Add(time.Hour), alice, bob, "Fox", "Kirby")
	f.duel(base.Add(2*time.Hour), bob, alice, "Kirby", "Fox")
	s := f.snapshot(t)

	h2h := headToHeads(s)
	rec, ok := h2h[pairKey{A: "Alice", B: "Bob"}]
	if !ok {
		t.Fatal("expected Alice/Bob record")
	}
	if rec.WinsA != 2 || rec.WinsB != 1 || rec.Total() != 3 {
		t.Errorf("want 2-1 over 3, got %d-%d over %d", rec.WinsA, rec.WinsB, rec.Total())
	}
}

func TestRivalriesQualificationBeforeSelection(t *testing.T) {
	f := newFixture()
	// Alice/Bob meet three times: qualifies at the floor of 3.
	f.duel(base, alice, bob, "Fox", "Kirby")
	f.duel(base.Add(time.Hour), alice, bob, "Fox", "Kirby")
	f.duel(base.Add(2*time.Hour), bob, alice, "Kirby", "Fox")
	// Cara/Dan meet twice: below the floor, excluded no matter how lopsided.
	f.duel(base.Add(3*time.Hour), cara, dan, "Yoshi", "Samus")
	f.duel(base.Add(4*time.Hour), cara, dan, "Yoshi", "Samus")
	s := f.snapshot(t)

	rivs := rivalries(s)
	if len(rivs) != 1 {
		t.Fatalf("want exactly 1 qualified rivalry, got %d", len(rivs))
	}
	r := rivs[0]
	if r.PlayerA != "Alice" || r.PlayerB != "Bob" {
		t.Errorf("unexpected pair %s/%s", r.PlayerA, r.PlayerB)
	}
	if r.Dominance != 66.7 {
		t.Errorf("dominance: want 66.7, got %v", r.Dominance)
	}
}

func TestPlayerStatsSortedByGames(t *testing.T) {
	f := newFixture()
	f.duel(base, alice, bob, "Fox", "Kirby")
	f.duel(base.Add(time.Hour), alice, cara, "Fox", "Yoshi")
	s := f.snapshot(t)

	ps := playerStats(s)
	if len(ps) != 3 {
		t.Fatalf("want 3 players, got %d", len(ps))
	}
	if ps[0].Name != "Alice" || ps[0].Games != 2 {
		t.Errorf("want Alice first with 2 games, got %s with %d", ps[0].Name, ps[0].Games)
	}
	// Bob and Cara tie on games; alphabetical order breaks it.
	if ps[1].Name != "Bob" || ps[2].Name != "Cara" {
		t.Errorf("tie-break: want Bob then Cara, got %s then %s", ps[1].Name, ps[2].Name)
	}
	if ps[0].FavoriteCharacter != "Fox" {
		t.Errorf("favorite: want Fox, got %s", ps[0].FavoriteCharacter)
	}
}

func TestPlayerStatsKDWithZeroFalls(t *testing.T) {
	f := newFixture()
	f.addMatch(base,
		entry{player: alice, char: "Fox", kos: 3, falls: 0, won: true},
		entry{player: bob, char: "Kirby", kos: 0, falls: 3, won: false},
	)
	s := f.snapshot(t)

	for _, p := range playerStats(s) {
		if p.Name == "Alice" && p.KDRatio != 3 {
			t.Errorf("Alice KD with zero falls: want 3, got %v", p.KDRatio)
		}
	}
}

func TestEloLeaderboardFloorAndRanks(t *testing.T) {
	f := newFixture()
	// Alice and Bob reach five games; Cara only two.
	for i := 0; i < 5; i++ {
		f.duel(base.Add(time.Duration(i)*time.Hour), alice, bob, "Fox", "Kirby")
	}
	f.duel(base.Add(10*time.Hour), cara, dan, "Yoshi", "Samus")
	f.duel(base.Add(11*time.Hour), cara, dan, "Yoshi", "Samus")
	s := f.snapshot(t)

	lb := eloLeaderboard(s)
	if len(lb) != 2 {
		t.Fatalf("want 2 qualified players, got %d", len(lb))
	}
	// Bob carries the higher stored elo (1220 vs 1210).
	if lb[0].Name != "Bob" || lb[0].Rank != 1 {
		t.Errorf("want Bob ranked 1, got %s ranked %d", lb[0].Name, lb[0].Rank)
	}
	if lb[1].Name != "Alice" || lb[1].Rank != 2 {
		t.Errorf("want Alice ranked 2, got %s ranked %d", lb[1].Name, lb[1].Rank)
	}
}

func TestCharacterMatchupsSkipMirrors(t *testing.T) {
	f := newFixture()
	for i := 0; i < 3; i++ {
		f.duel(base.Add(time.Duration(i)*time.Hour), alice, bob, "Fox", "Fox")
	}
	for i := 0; i < 3; i++ {
		f.duel(base.Add(time.Duration(10+i)*time.Hour), alice, bob, "Fox", "Kirby")
	}
	s := f.snapshot(t)

	ms := characterMatchups(s)
	if len(ms) != 1 {
		t.Fatalf("want 1 matchup (mirror excluded), got %d", len(ms))
	}
	m := ms[0]
	if m.CharacterA != "Fox" || m.CharacterB != "Kirby" {
		t.Errorf("unexpected pair %s/%s", m.CharacterA, m.CharacterB)
	}
	if m.WinsA != 3 || m.WinsB != 0 || m.WinRateA != 100 {
		t.Errorf("want Fox 3-0 at 100%%, got %d-%d at %v", m.WinsA, m.WinsB, m.WinRateA)
	}
}

func TestRecentFormHot(t *testing.T) {
	f := newFixture()
	// Ten losses then ten wins for Alice.
	for i := 0; i < 10; i++ {
		f.duel(base.Add(time.Duration(i)*time.Hour), bob, alice, "Kirby", "Fox")
	}
	for i := 10; i < 20; i++ {
		f.duel(base.Add(time.Duration(i)*time.Hour), alice, bob, "Fox", "Kirby")
	}
	s := f.snapshot(t)

	forms := recentForm(s)
	for _, rf := range forms {
		switch rf.Name {
		case "Alice":
			if rf.LastWins != 10 || rf.PrevWins != 0 || rf.Status != "hot" {
				t.Errorf("Alice: want 10/0 hot, got %d/%d %s", rf.LastWins, rf.PrevWins, rf.Status)
			}
			if rf.CurrentStreak != 10 {
				t.Errorf("Alice streak: want 10, got %d", rf.CurrentStreak)
			}
		case "Bob":
			if rf.Status != "cold" {
				t.Errorf("Bob: want cold, got %s", rf.Status)
			}
			if rf.CurrentStreak != -10 {
				t.Errorf("Bob streak: want -10, got %d", rf.CurrentStreak)
			}
		}
	}
}

func TestOverallStats(t *testing.T) {
	f := newFixture()
	// First and last match are 49 hours apart, a two-day calendar span.
	f.duel(base, alice, bob, "Fox", "Kirby")
	f.duel(base.Add(time.Hour), alice, cara, "Fox", "Yoshi")
	f.duel(base.Add(49*time.Hour), bob, cara, "Kirby", "Yoshi")
	s := f.snapshot(t)

	o := overallStats(s)
	if o.TotalMatches != 3 || o.ActivePlayers != 4 {
		t.Errorf("want 3 matches / 4 active, got %d / %d", o.TotalMatches, o.ActivePlayers)
	}
	if o.DaysOfPlay != 2 {
		t.Errorf("days of play: want 2, got %d", o.DaysOfPlay)
	}
	if o.UniqueCharacters != 3 {
		t.Errorf("unique characters: want 3, got %d", o.UniqueCharacters)
	}
	if o.AvgParticipantsGame != 2 {
		t.Errorf("avg participants: want 2, got %v", o.AvgParticipantsGame)
	}
	if o.AvgMatchesPerDay != 1.5 {
		t.Errorf("avg matches/day: want 1.5, got %v", o.AvgMatchesPerDay)
	}
}

func TestActivePlayersExcludesInactive(t *testing.T) {
	f := newFixture()
	// Cara is flagged inactive but still has games; Dan is active and never
	// plays. The count follows the flag, not play history.
	for i := range f.players {
		if f.players[i].ID == cara {
			f.players[i].Inactive = true
		}
	}
	f.duel(base, alice, cara, "Fox", "Yoshi")
	s := f.snapshot(t)

	o := overallStats(s)
	if o.TotalPlayers != 4 {
		t.Fatalf("total players: want 4, got %d", o.TotalPlayers)
	}
	if o.ActivePlayers != 3 {
		t.Errorf("active players: want 3, got %d", o.ActivePlayers)
	}
}

func TestOverallStatsSameDayFloorsSpan(t *testing.T) {
	f := newFixture()
	f.duel(base, alice, bob, "Fox", "Kirby")
	f.duel(base.Add(time.Hour), alice, bob, "Fox", "Kirby")
	s := f.snapshot(t)

	o := overallStats(s)
	if o.DaysOfPlay != 0 {
		t.Errorf("same-day span: want 0, got %d", o.DaysOfPlay)
	}
	// The per-day average still divides by at least one day.
	if o.AvgMatchesPerDay != 2 {
		t.Errorf("avg matches/day: want 2, got %v", o.AvgMatchesPerDay)
	}
}

func TestFunFactsPerfectGamesAndStreaks(t *testing.T) {
	f := newFixture()
	// Three straight perfect wins for Alice, then a loss.
	for i := 0; i < 3; i++ {
		f.addMatch(base.Add(time.Duration(i)*time.Hour),
			entry{player: alice, char: "Fox", kos: 3, falls: 0, won: true},
			entry{player: bob, char: "Kirby", kos: 0, falls: 3, sds: 1, won: false},
		)
	}
	f.duel(base.Add(5*time.Hour), bob, alice, "Kirby", "Fox")
	s := f.snapshot(t)

	ff := funFacts(s)
	if ff.PerfectGameCount != 3 {
		t.Errorf("perfect games: want 3, got %d", ff.PerfectGameCount)
	}
	if len(ff.WinStreaks) != 1 || ff.WinStreaks[0].Name != "Alice" || ff.WinStreaks[0].Length != 3 {
		t.Errorf("win streaks: want Alice/3, got %+v", ff.WinStreaks)
	}
	if ff.MostKOsSingleMatch.Player != "Alice" || ff.MostKOsSingleMatch.Value != 3 {
		t.Errorf("most KOs: want Alice/3, got %+v", ff.MostKOsSingleMatch)
	}
}
