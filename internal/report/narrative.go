package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/stats"
)

// DefaultNarrativeModel writes the daily report.
const DefaultNarrativeModel = "claude-sonnet-4-5-20250929"

// historyLimit caps how many daily reports the history file keeps.
const historyLimit = 30

// PlayerOfTheDay names the standout player and why.
type PlayerOfTheDay struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Report is one daily report, narrative plus the stats it was written from.
type Report struct {
	Date           string           `json:"date"`
	GeneratedAt    string           `json:"generated_at"`
	Headline       string           `json:"headline"`
	Body           string           `json:"report"`
	PlayerOfTheDay PlayerOfTheDay   `json:"player_of_the_day"`
	Highlights     []string         `json:"highlights"`
	Source         string           `json:"source"`
	Stats          stats.DailyStats `json:"stats"`
}

const narrativeSystemPrompt = `You are the hype-man commentator for an office Super Smash Bros leaderboard.
You are given one day of match statistics as JSON. Write a short, punchy
daily report. Respond with ONLY a JSON object, no markdown fences, shaped as:
{"headline": "...", "report": "...", "player_of_the_day": {"name": "...", "reason": "..."}, "highlights": ["...", "..."]}
Keep the headline under 80 characters, the report under 150 words, and list
at most four highlights. Only reference players and numbers present in the
input.`

// llmResponse is the JSON contract the model is asked to honor.
type llmResponse struct {
	Headline       string         `json:"headline"`
	Report         string         `json:"report"`
	PlayerOfTheDay PlayerOfTheDay `json:"player_of_the_day"`
	Highlights     []string       `json:"highlights"`
}

// GenerateNarrative asks the model for a daily report. The caller is
// expected to fall back to FallbackReport on error.
func GenerateNarrative(ctx context.Context, apiKey, modelID string, ds stats.DailyStats) (*Report, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("narrative: no API key configured")
	}
	if modelID == "" {
		modelID = DefaultNarrativeModel
	}

	payload, err := json.Marshal(ds)
	if err != nil {
		return nil, fmt.Errorf("narrative: marshal day stats: %w", err)
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: narrativeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(string(payload))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("narrative: model call: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var resp llmResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &resp); err != nil {
		return nil, fmt.Errorf("narrative: parse model response: %w", err)
	}
	return &Report{
		Date:           ds.Date,
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
		Headline:       resp.Headline,
		Body:           resp.Report,
		PlayerOfTheDay: resp.PlayerOfTheDay,
		Highlights:     resp.Highlights,
		Source:         "claude",
		Stats:          ds,
	}, nil
}

// FallbackReport builds a deterministic templated report when the model is
// unavailable.
func FallbackReport(ds stats.DailyStats) *Report {
	rep := &Report{
		Date:        ds.Date,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Source:      "template",
		Stats:       ds,
	}
	if ds.TotalMatches == 0 {
		rep.Headline = fmt.Sprintf("A quiet day on the leaderboard (%s)", ds.Date)
		rep.Body = "No matches were played today. The setup misses you."
		return rep
	}

	rep.Headline = fmt.Sprintf("%d matches on %s", ds.TotalMatches, ds.Date)
	var b strings.Builder
	fmt.Fprintf(&b, "%d matches were played with %d total KOs.", ds.TotalMatches, ds.TotalKOs)
	if ds.MostActive != "" {
		fmt.Fprintf(&b, " %s put in the most games.", ds.MostActive)
		rep.PlayerOfTheDay = PlayerOfTheDay{Name: ds.MostActive, Reason: "most games played"}
	}
	if ds.Hottest != "" {
		fmt.Fprintf(&b, " %s had the best win rate of the day.", ds.Hottest)
		rep.PlayerOfTheDay = PlayerOfTheDay{Name: ds.Hottest, Reason: "best win rate of the day"}
	}
	rep.Body = b.String()

	if ds.BestKD != "" {
		rep.Highlights = append(rep.Highlights, fmt.Sprintf("%s topped the KD chart", ds.BestKD))
	}
	for _, pg := range ds.PerfectGames {
		rep.Highlights = append(rep.Highlights, fmt.Sprintf("Perfect game by %s (%s, %d KOs)", pg.Player, pg.Character, pg.KOs))
		if len(rep.Highlights) >= 4 {
			break
		}
	}
	if len(rep.Highlights) < 4 && len(ds.WinStreaks) > 0 {
		s := ds.WinStreaks[0]
		rep.Highlights = append(rep.Highlights, fmt.Sprintf("%s won %d in a row", s.Name, s.Length))
	}
	return rep
}

// LoadHistory reads the report history file. A missing file is an empty
// history.
func LoadHistory(path string) ([]Report, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	var reports []Report
	if err := json.Unmarshal(data, &reports); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	return reports, nil
}

// SaveToHistory inserts a report, dedupes by date (newest wins), sorts
// newest first, trims to the history limit, and writes the file back.
func SaveToHistory(path string, rep *Report) error {
	reports, err := LoadHistory(path)
	if err != nil {
		return err
	}
	kept := reports[:0]
	for _, r := range reports {
		if r.Date != rep.Date {
			kept = append(kept, r)
		}
	}
	kept = append(kept, *rep)
	sort.Slice(kept, func(i, j int) bool { return kept[i].Date > kept[j].Date })
	if len(kept) > historyLimit {
		kept = kept[:historyLimit]
	}
	data, err := json.MarshalIndent(kept, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
