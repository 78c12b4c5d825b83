package snapshot

import (
	"testing"
	"time"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/model"
)

var testTime = time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC)

func testPlayers() []model.Player {
	return []model.Player{
		{ID: 1, Name: "Alice", Elo: 1300, CreatedAt: testTime},
		{ID: 2, Name: "Bob", CreatedAt: testTime},
	}
}

func TestBuildRejectsMissingTables(t *testing.T) {
	if _, err := Build(nil, []model.Match{}, []model.MatchParticipant{}); err == nil {
		t.Error("nil players: want error")
	}
	if _, err := Build(testPlayers(), nil, []model.MatchParticipant{}); err == nil {
		t.Error("nil matches: want error")
	}
	if _, err := Build(testPlayers(), []model.Match{}, nil); err == nil {
		t.Error("nil participants: want error")
	}
	if _, err := Build([]model.Player{}, []model.Match{}, []model.MatchParticipant{}); err != nil {
		t.Errorf("empty tables are valid, got %v", err)
	}
}

func TestBuildDropsUnknownAndCPUEntries(t *testing.T) {
	matches := []model.Match{{ID: 10, CreatedAt: testTime}}
	parts := []model.MatchParticipant{
		{ID: 100, MatchID: 10, PlayerID: 1, SmashCharacter: "Fox", HasWon: true, CreatedAt: testTime},
		{ID: 101, MatchID: 10, PlayerID: 999, SmashCharacter: "Kirby", CreatedAt: testTime}, // unknown player
		{ID: 102, MatchID: 10, PlayerID: 2, SmashCharacter: "Samus", IsCPU: true, CreatedAt: testTime},
	}
	s, err := Build(testPlayers(), matches, parts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	entries := s.MatchEntries(10)
	if len(entries) != 1 || entries[0].PlayerID != 1 {
		t.Errorf("want only Alice's entry indexed, got %d entries", len(entries))
	}
	if got := s.PlayerIDs(); len(got) != 1 || got[0] != 1 {
		t.Errorf("want only player 1 active, got %v", got)
	}
}

func TestEloDefault(t *testing.T) {
	s, err := Build(testPlayers(), []model.Match{}, []model.MatchParticipant{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := s.Elo(1); got != 1300 {
		t.Errorf("stored elo: want 1300, got %d", got)
	}
	if got := s.Elo(2); got != model.DefaultElo {
		t.Errorf("missing elo: want default %d, got %d", model.DefaultElo, got)
	}
}

func TestHistorySortedByTime(t *testing.T) {
	matches := []model.Match{
		{ID: 10, CreatedAt: testTime},
		{ID: 11, CreatedAt: testTime.Add(time.Hour)},
	}
	parts := []model.MatchParticipant{
		{ID: 101, MatchID: 11, PlayerID: 1, CreatedAt: testTime.Add(time.Hour)},
		{ID: 100, MatchID: 10, PlayerID: 1, CreatedAt: testTime},
	}
	s, err := Build(testPlayers(), matches, parts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	hist := s.History(1)
	if len(hist) != 2 {
		t.Fatalf("want 2 games, got %d", len(hist))
	}
	if hist[0].ID != 100 || hist[1].ID != 101 {
		t.Errorf("history not chronological: %d then %d", hist[0].ID, hist[1].ID)
	}
}

func TestClassifyEntries(t *testing.T) {
	cases := []struct {
		name  string
		won   []bool
		kind  FormatKind
		label string
	}{
		{"1v1", []bool{true, false}, OneOnOne, "1v1"},
		{"2v2", []bool{true, true, false, false}, TeamVsTeam, "2v2"},
		{"2v1", []bool{true, true, false}, TeamVsTeam, "2v1"},
		{"all won", []bool{true, true}, Unbalanced, "2v0"},
		{"all lost", []bool{false}, Unbalanced, "0v1"},
	}
	for _, tc := range cases {
		var entries []model.MatchParticipant
		for i, w := range tc.won {
			entries = append(entries, model.MatchParticipant{ID: int64(i), HasWon: w})
		}
		f := ClassifyEntries(entries)
		if f.Kind != tc.kind {
			t.Errorf("%s: kind want %v, got %v", tc.name, tc.kind, f.Kind)
		}
		if f.Label() != tc.label {
			t.Errorf("%s: label want %s, got %s", tc.name, tc.label, f.Label())
		}
	}
}

func TestSides(t *testing.T) {
	matches := []model.Match{{ID: 10, CreatedAt: testTime}}
	parts := []model.MatchParticipant{
		{ID: 100, MatchID: 10, PlayerID: 1, HasWon: true, CreatedAt: testTime},
		{ID: 101, MatchID: 10, PlayerID: 2, HasWon: false, CreatedAt: testTime},
	}
	s, err := Build(testPlayers(), matches, parts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	winners, losers := s.Sides(10)
	if len(winners) != 1 || winners[0].PlayerID != 1 {
		t.Errorf("winners wrong: %+v", winners)
	}
	if len(losers) != 1 || losers[0].PlayerID != 2 {
		t.Errorf("losers wrong: %+v", losers)
	}
}

func TestDateRange(t *testing.T) {
	s, err := Build(testPlayers(), []model.Match{}, []model.MatchParticipant{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, _, ok := s.DateRange(); ok {
		t.Error("empty snapshot: want ok=false")
	}
}
