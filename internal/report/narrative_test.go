package report

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/stats"
)

func sampleDay() stats.DailyStats {
	return stats.DailyStats{
		Date:         "2025-06-02",
		TotalMatches: 12,
		TotalKOs:     40,
		MostActive:   "Alice",
		BestKD:       "Alice",
		Hottest:      "Bob",
		PerfectGames: []stats.PerfectGame{{Player: "Alice", Character: "Fox", KOs: 3}},
		WinStreaks:   []stats.StreakEntry{{Name: "Bob", Length: 4}},
	}
}

func TestFallbackReportQuietDay(t *testing.T) {
	rep := FallbackReport(stats.DailyStats{Date: "2025-06-02"})
	if rep.Source != "template" {
		t.Errorf("source: want template, got %s", rep.Source)
	}
	if !strings.Contains(rep.Headline, "quiet day") {
		t.Errorf("quiet-day headline missing: %q", rep.Headline)
	}
	if rep.PlayerOfTheDay.Name != "" {
		t.Errorf("quiet day should have no player of the day, got %q", rep.PlayerOfTheDay.Name)
	}
}

func TestFallbackReportActiveDay(t *testing.T) {
	rep := FallbackReport(sampleDay())
	if !strings.Contains(rep.Headline, "12 matches") {
		t.Errorf("headline missing match count: %q", rep.Headline)
	}
	// The hottest player outranks the most active one for player of the day.
	if rep.PlayerOfTheDay.Name != "Bob" {
		t.Errorf("player of the day: want Bob, got %q", rep.PlayerOfTheDay.Name)
	}
	if len(rep.Highlights) == 0 || len(rep.Highlights) > 4 {
		t.Fatalf("want 1..4 highlights, got %d", len(rep.Highlights))
	}
	joined := strings.Join(rep.Highlights, "\n")
	if !strings.Contains(joined, "Perfect game by Alice") {
		t.Errorf("perfect game highlight missing:\n%s", joined)
	}
	if !strings.Contains(joined, "Bob won 4 in a row") {
		t.Errorf("streak highlight missing:\n%s", joined)
	}
}

func TestLoadHistoryMissingFile(t *testing.T) {
	reports, err := LoadHistory(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should be empty history, got %v", err)
	}
	if reports != nil {
		t.Errorf("want nil history, got %d reports", len(reports))
	}
}

func TestSaveToHistoryDedupesByDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := SaveToHistory(path, &Report{Date: "2025-06-01", Headline: "first"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := SaveToHistory(path, &Report{Date: "2025-06-02", Headline: "second"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := SaveToHistory(path, &Report{Date: "2025-06-01", Headline: "rewritten"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	reports, err := LoadHistory(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("want 2 reports after dedupe, got %d", len(reports))
	}
	// Newest first, and the re-saved date carries the new headline.
	if reports[0].Date != "2025-06-02" {
		t.Errorf("want newest first, got %s", reports[0].Date)
	}
	if reports[1].Headline != "rewritten" {
		t.Errorf("dedupe kept the old report: %q", reports[1].Headline)
	}
}

func TestSaveToHistoryTrims(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	for day := 1; day <= historyLimit+5; day++ {
		rep := &Report{Date: fmt.Sprintf("2025-05-%02d", day)}
		if err := SaveToHistory(path, rep); err != nil {
			t.Fatalf("save day %d: %v", day, err)
		}
	}
	reports, err := LoadHistory(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(reports) != historyLimit {
		t.Errorf("want history trimmed to %d, got %d", historyLimit, len(reports))
	}
	if reports[0].Date != fmt.Sprintf("2025-05-%02d", historyLimit+5) {
		t.Errorf("newest report missing after trim: %s", reports[0].Date)
	}
}
