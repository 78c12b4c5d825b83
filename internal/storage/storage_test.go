package storage

import (
	"testing"
	"time"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open :memory: db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var storedAt = time.Date(2025, 6, 2, 20, 30, 0, 0, time.UTC)

func TestPlayerRoundTrip(t *testing.T) {
	db := openMemDB(t)
	in := []model.Player{
		{ID: 1, Name: "Alice", Elo: 1337, Country: "US", CreatedAt: storedAt},
		{ID: 2, Name: "Bob", Inactive: true, CreatedAt: storedAt.Add(time.Minute)},
	}
	if err := db.InsertPlayers(in); err != nil {
		t.Fatalf("InsertPlayers: %v", err)
	}

	out, err := db.LoadPlayers()
	if err != nil {
		t.Fatalf("LoadPlayers: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("want 2 players, got %d", len(out))
	}
	if out[0].Name != "Alice" || out[0].Elo != 1337 || out[0].Country != "US" {
		t.Errorf("player 1 mangled: %+v", out[0])
	}
	// A zero elo is normalized to the default on insert.
	if out[1].Elo != model.DefaultElo {
		t.Errorf("zero elo: want default %d, got %d", model.DefaultElo, out[1].Elo)
	}
	if out[0].Inactive || !out[1].Inactive {
		t.Errorf("inactive flags mangled: %v / %v", out[0].Inactive, out[1].Inactive)
	}
	if !out[0].CreatedAt.Equal(storedAt) {
		t.Errorf("created_at: want %v, got %v", storedAt, out[0].CreatedAt)
	}
}

func TestParticipantRoundTrip(t *testing.T) {
	db := openMemDB(t)
	if err := db.InsertMatches([]model.Match{{ID: 10, CreatedAt: storedAt}}); err != nil {
		t.Fatalf("InsertMatches: %v", err)
	}
	in := []model.MatchParticipant{
		{ID: 100, MatchID: 10, PlayerID: 1, SmashCharacter: "Fox", TotalKOs: 3, TotalFalls: 1, HasWon: true, CreatedAt: storedAt},
		{ID: 101, MatchID: 10, PlayerID: 2, SmashCharacter: "Kirby", TotalKOs: 1, TotalFalls: 3, TotalSDs: 1, IsCPU: true, CreatedAt: storedAt},
	}
	if err := db.InsertParticipants(in); err != nil {
		t.Fatalf("InsertParticipants: %v", err)
	}

	out, err := db.LoadParticipants()
	if err != nil {
		t.Fatalf("LoadParticipants: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("want 2 participants, got %d", len(out))
	}
	if !out[0].HasWon || out[0].IsCPU {
		t.Errorf("participant 100 flags mangled: %+v", out[0])
	}
	if out[1].HasWon || !out[1].IsCPU {
		t.Errorf("participant 101 flags mangled: %+v", out[1])
	}
	if out[1].TotalSDs != 1 {
		t.Errorf("total_sds: want 1, got %d", out[1].TotalSDs)
	}
}

func TestInsertIsIdempotent(t *testing.T) {
	db := openMemDB(t)
	matches := []model.Match{{ID: 10, CreatedAt: storedAt}, {ID: 11, CreatedAt: storedAt.Add(time.Hour)}}
	if err := db.InsertMatches(matches); err != nil {
		t.Fatalf("InsertMatches: %v", err)
	}
	if err := db.InsertMatches(matches); err != nil {
		t.Fatalf("re-insert: %v", err)
	}
	out, err := db.LoadMatches()
	if err != nil {
		t.Fatalf("LoadMatches: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("re-insert duplicated rows: want 2, got %d", len(out))
	}
	if out[0].ID != 10 || out[1].ID != 11 {
		t.Errorf("matches out of order: %d then %d", out[0].ID, out[1].ID)
	}
}

func TestLoadEmptyTablesReturnsNonNil(t *testing.T) {
	db := openMemDB(t)
	players, err := db.LoadPlayers()
	if err != nil {
		t.Fatalf("LoadPlayers: %v", err)
	}
	if players == nil {
		t.Error("empty players table: want non-nil slice")
	}
	parts, err := db.LoadParticipants()
	if err != nil {
		t.Fatalf("LoadParticipants: %v", err)
	}
	if parts == nil {
		t.Error("empty participants table: want non-nil slice")
	}
}

func TestCounts(t *testing.T) {
	db := openMemDB(t)
	if err := db.InsertPlayers([]model.Player{{ID: 1, Name: "Alice", CreatedAt: storedAt}}); err != nil {
		t.Fatalf("InsertPlayers: %v", err)
	}
	if err := db.InsertMatches([]model.Match{{ID: 10, CreatedAt: storedAt}, {ID: 11, CreatedAt: storedAt}}); err != nil {
		t.Fatalf("InsertMatches: %v", err)
	}
	players, matches, parts, err := db.Counts()
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if players != 1 || matches != 2 || parts != 0 {
		t.Errorf("counts: want 1/2/0, got %d/%d/%d", players, matches, parts)
	}
}
