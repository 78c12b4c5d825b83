// Package report renders aggregation results: terminal tables for the CLI,
// a narrative daily report, and the HTML the newsletter sender posts.
package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/thecooltechguy/smash-leaderboard-metrics/internal/stats"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// sampleFlag marks rows whose sample size makes the rates shaky.
func sampleFlag(games int) string {
	switch {
	case games >= 50:
		return ""
	case games >= 20:
		return "LOW"
	default:
		return "VERY LOW"
	}
}

// PrintLeaderboard renders the elo leaderboard.
func PrintLeaderboard(w io.Writer, entries []stats.LeaderboardEntry) {
	fmt.Fprintln(w, "\n=== Leaderboard ===")
	if len(entries) == 0 {
		fmt.Fprintln(w, "no qualified players")
		return
	}
	table := newTable(w)
	table.Header("#", "PLAYER", "ELO", "GAMES", "WIN%", "KD", "SAMPLE")
	for _, e := range entries {
		table.Append(
			fmt.Sprintf("%d", e.Rank),
			e.Name,
			fmt.Sprintf("%d", e.Elo),
			fmt.Sprintf("%d", e.Games),
			fmt.Sprintf("%.1f", e.WinRate),
			fmt.Sprintf("%.2f", e.KDRatio),
			sampleFlag(e.Games),
		)
	}
	table.Render()
}

// PrintPlayerTable renders per-player aggregate lines.
func PrintPlayerTable(w io.Writer, players []stats.PlayerStat) {
	fmt.Fprintln(w, "\n=== Players ===")
	if len(players) == 0 {
		fmt.Fprintln(w, "no players")
		return
	}
	table := newTable(w)
	table.Header("PLAYER", "GAMES", "W", "L", "WIN%", "KOS", "FALLS", "SDS", "KD", "MAIN", "ELO")
	for _, p := range players {
		main := p.FavoriteCharacter
		if main == "" {
			main = "—"
		}
		table.Append(
			p.Name,
			fmt.Sprintf("%d", p.Games),
			fmt.Sprintf("%d", p.Wins),
			fmt.Sprintf("%d", p.Losses),
			fmt.Sprintf("%.1f", p.WinRate),
			fmt.Sprintf("%d", p.KOs),
			fmt.Sprintf("%d", p.Falls),
			fmt.Sprintf("%d", p.SDs),
			fmt.Sprintf("%.2f", p.KDRatio),
			main,
			fmt.Sprintf("%d", p.Elo),
		)
	}
	table.Render()
}

// PrintRivalryTable renders head-to-head records.
func PrintRivalryTable(w io.Writer, rivalries []stats.Rivalry) {
	fmt.Fprintln(w, "\n=== Rivalries ===")
	if len(rivalries) == 0 {
		fmt.Fprintln(w, "no qualified rivalries")
		return
	}
	table := newTable(w)
	table.Header("MATCHUP", "RECORD", "TOTAL", "DOMINANCE")
	for _, r := range rivalries {
		table.Append(
			r.PlayerA+" vs "+r.PlayerB,
			fmt.Sprintf("%d-%d", r.WinsA, r.WinsB),
			fmt.Sprintf("%d", r.Total),
			fmt.Sprintf("%.1f%%", r.Dominance),
		)
	}
	table.Render()
}

// PrintCharacterTable renders per-character aggregate lines.
func PrintCharacterTable(w io.Writer, chars []stats.CharacterStat) {
	fmt.Fprintln(w, "\n=== Characters ===")
	if len(chars) == 0 {
		fmt.Fprintln(w, "no characters")
		return
	}
	table := newTable(w)
	table.Header("CHARACTER", "PLAYED", "WIN%", "AVG KOS", "AVG FALLS", "PLAYERS")
	for _, c := range chars {
		table.Append(
			c.Character,
			fmt.Sprintf("%d", c.TimesPlayed),
			fmt.Sprintf("%.1f", c.WinRate),
			fmt.Sprintf("%.2f", c.AvgKOs),
			fmt.Sprintf("%.2f", c.AvgFalls),
			fmt.Sprintf("%d", c.UniquePlayers),
		)
	}
	table.Render()
}

// PrintOverall renders the headline dataset numbers.
func PrintOverall(w io.Writer, o stats.OverallStats) {
	fmt.Fprintln(w, "\n=== Overview ===")
	table := newTable(w)
	table.Header("MATCHES", "PLAYERS", "ACTIVE", "DAYS", "KOS", "FALLS", "SDS", "CHARS", "AVG/DAY")
	table.Append(
		fmt.Sprintf("%d", o.TotalMatches),
		fmt.Sprintf("%d", o.TotalPlayers),
		fmt.Sprintf("%d", o.ActivePlayers),
		fmt.Sprintf("%d", o.DaysOfPlay),
		fmt.Sprintf("%d", o.TotalKOs),
		fmt.Sprintf("%d", o.TotalFalls),
		fmt.Sprintf("%d", o.TotalSDs),
		fmt.Sprintf("%d", o.UniqueCharacters),
		fmt.Sprintf("%.1f", o.AvgMatchesPerDay),
	)
	table.Render()
}

// PrintDailyTable renders one report day's stats.
func PrintDailyTable(w io.Writer, ds stats.DailyStats) {
	fmt.Fprintf(w, "\n=== Daily Report %s ===\n", ds.Date)
	fmt.Fprintf(w, "matches: %d  kos: %d  falls: %d  sds: %d\n", ds.TotalMatches, ds.TotalKOs, ds.TotalFalls, ds.TotalSDs)
	if ds.TotalMatches == 0 {
		return
	}
	table := newTable(w)
	table.Header("PLAYER", "GAMES", "W", "L", "WIN%", "KD")
	for _, p := range ds.Players {
		table.Append(
			p.Name,
			fmt.Sprintf("%d", p.Games),
			fmt.Sprintf("%d", p.Wins),
			fmt.Sprintf("%d", p.Losses),
			fmt.Sprintf("%.1f", p.WinRate),
			fmt.Sprintf("%.2f", p.KDRatio),
		)
	}
	table.Render()
	if ds.MostActive != "" {
		fmt.Fprintf(w, "most active: %s\n", ds.MostActive)
	}
	if ds.BestKD != "" {
		fmt.Fprintf(w, "best kd: %s  hottest: %s\n", ds.BestKD, ds.Hottest)
	}
	for _, pg := range ds.PerfectGames {
		fmt.Fprintf(w, "perfect game: %s (%s, %d KOs)\n", pg.Player, pg.Character, pg.KOs)
	}
}

// PrintSuperlatives renders the outlier list.
func PrintSuperlatives(w io.Writer, rep stats.OutlierReport) {
	fmt.Fprintln(w, "\n=== Superlatives ===")
	if len(rep.Superlatives) == 0 {
		fmt.Fprintln(w, "not enough data")
		return
	}
	table := newTable(w)
	table.Header("STAT", "PLAYER", "VALUE", "DETAIL")
	for _, s := range rep.Superlatives {
		detail := s.Detail
		if detail == "" {
			detail = "—"
		}
		table.Append(s.Stat, s.Player, s.Value, detail)
	}
	table.Render()
}
