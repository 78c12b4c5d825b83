package ingest

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/model"
)

var csvAt = time.Date(2025, 6, 2, 20, 30, 0, 0, time.UTC)

func TestPlayersCSVRoundTrip(t *testing.T) {
	in := []model.Player{
		{ID: 1, Name: "Alice", Elo: 1337, Country: "US", CreatedAt: csvAt},
		{ID: 2, Name: "Bob, Jr.", Inactive: true, CreatedAt: csvAt.Add(time.Minute)},
	}
	var buf bytes.Buffer
	if err := WritePlayersCSV(&buf, in); err != nil {
		t.Fatalf("WritePlayersCSV: %v", err)
	}
	out, err := ReadPlayersCSV(&buf)
	if err != nil {
		t.Fatalf("ReadPlayersCSV: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("want 2 players, got %d", len(out))
	}
	if out[0] != in[0] {
		t.Errorf("player 1 mangled:\n got %+v\nwant %+v", out[0], in[0])
	}
	// Quoted comma in the name must survive.
	if out[1].Name != "Bob, Jr." {
		t.Errorf("name with comma: got %q", out[1].Name)
	}
	if !out[1].Inactive {
		t.Error("inactive flag lost in round trip")
	}
}

func TestParticipantsCSVRoundTrip(t *testing.T) {
	in := []model.MatchParticipant{
		{ID: 100, MatchID: 10, PlayerID: 1, SmashCharacter: "Fox", TotalKOs: 3, TotalFalls: 1, HasWon: true, CreatedAt: csvAt},
		{ID: 101, MatchID: 10, PlayerID: 2, SmashCharacter: "Kirby", TotalSDs: 2, IsCPU: true, CreatedAt: csvAt},
	}
	var buf bytes.Buffer
	if err := WriteParticipantsCSV(&buf, in); err != nil {
		t.Fatalf("WriteParticipantsCSV: %v", err)
	}
	out, err := ReadParticipantsCSV(&buf)
	if err != nil {
		t.Fatalf("ReadParticipantsCSV: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("want 2 participants, got %d", len(out))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("participant %d mangled:\n got %+v\nwant %+v", in[i].ID, out[i], in[i])
		}
	}
}

func TestReadMatchesCSVRejectsShortRows(t *testing.T) {
	input := "id,created_at\n10\n"
	if _, err := ReadMatchesCSV(strings.NewReader(input)); err == nil {
		t.Error("short row: want error")
	}
}

func TestReadPlayersCSVRequiresHeader(t *testing.T) {
	if _, err := ReadPlayersCSV(strings.NewReader("")); err == nil {
		t.Error("empty input: want missing header error")
	}
}

func TestReadPlayersCSVBadTime(t *testing.T) {
	input := "id,name,elo,country,inactive,created_at\n1,Alice,1200,US,false,not-a-time\n"
	if _, err := ReadPlayersCSV(strings.NewReader(input)); err == nil {
		t.Error("bad timestamp: want error")
	}
}

func TestReadPlayersCSVRejectsWrongHeader(t *testing.T) {
	input := "id,name,rating,country,inactive,created_at\n"
	_, err := ReadPlayersCSV(strings.NewReader(input))
	if err == nil {
		t.Fatal("mismatched header: want error")
	}
	if !strings.Contains(err.Error(), "elo") {
		t.Errorf("error should name the expected column, got %v", err)
	}
}

func TestWriteMatchesCSVEmitsHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMatchesCSV(&buf, nil); err != nil {
		t.Fatalf("WriteMatchesCSV: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "id,created_at" {
		t.Errorf("empty export: want bare header, got %q", got)
	}
	out, err := ReadMatchesCSV(&buf)
	if err != nil {
		t.Fatalf("ReadMatchesCSV: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("want no matches, got %d", len(out))
	}
}
