package report

import (
	"fmt"
	"html"
	"strings"
)

// EmailHTML renders a report as the inline-styled HTML body the newsletter
// expects. Everything user-derived is escaped.
func EmailHTML(rep *Report) string {
	esc := html.EscapeString
	var b strings.Builder

	b.WriteString(`<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;color:#1a1a2e;">`)
	fmt.Fprintf(&b, `<h1 style="color:#e94560;">%s</h1>`, esc(rep.Headline))
	fmt.Fprintf(&b, `<p style="font-size:15px;line-height:1.6;">%s</p>`, esc(rep.Body))

	if rep.PlayerOfTheDay.Name != "" {
		fmt.Fprintf(&b, `<div style="background:#f8f8f8;border-left:4px solid #e94560;padding:10px 14px;margin:16px 0;">
<strong>Player of the Day: %s</strong><br>%s</div>`,
			esc(rep.PlayerOfTheDay.Name), esc(rep.PlayerOfTheDay.Reason))
	}

	if len(rep.Highlights) > 0 {
		b.WriteString(`<h2 style="font-size:17px;">Highlights</h2><ul>`)
		for _, h := range rep.Highlights {
			fmt.Fprintf(&b, `<li style="margin:4px 0;">%s</li>`, esc(h))
		}
		b.WriteString(`</ul>`)
	}

	if len(rep.Stats.Players) > 0 {
		b.WriteString(`<h2 style="font-size:17px;">The Numbers</h2>`)
		b.WriteString(`<table style="border-collapse:collapse;width:100%;font-size:13px;">`)
		b.WriteString(`<tr style="background:#1a1a2e;color:#fff;">` +
			`<th style="padding:6px;text-align:left;">Player</th>` +
			`<th style="padding:6px;">Games</th><th style="padding:6px;">W-L</th>` +
			`<th style="padding:6px;">Win%</th><th style="padding:6px;">KD</th></tr>`)
		players := rep.Stats.Players
		if len(players) > 10 {
			players = players[:10]
		}
		for i, p := range players {
			bg := "#ffffff"
			if i%2 == 1 {
				bg = "#f4f4f4"
			}
			fmt.Fprintf(&b, `<tr style="background:%s;">`+
				`<td style="padding:6px;">%s</td>`+
				`<td style="padding:6px;text-align:center;">%d</td>`+
				`<td style="padding:6px;text-align:center;">%d-%d</td>`+
				`<td style="padding:6px;text-align:center;">%.1f%%</td>`+
				`<td style="padding:6px;text-align:center;">%.2f</td></tr>`,
				bg, esc(p.Name), p.Games, p.Wins, p.Losses, p.WinRate, p.KDRatio)
		}
		b.WriteString(`</table>`)
	}

	if len(rep.Stats.Rivalries) > 0 {
		b.WriteString(`<h2 style="font-size:17px;">Rivalries of the Day</h2><ul>`)
		rivalries := rep.Stats.Rivalries
		if len(rivalries) > 3 {
			rivalries = rivalries[:3]
		}
		for _, r := range rivalries {
			fmt.Fprintf(&b, `<li style="margin:4px 0;">%s vs %s: %d-%d</li>`,
				esc(r.PlayerA), esc(r.PlayerB), r.WinsA, r.WinsB)
		}
		b.WriteString(`</ul>`)
	}

	if len(rep.Stats.PerfectGames) > 0 {
		b.WriteString(`<h2 style="font-size:17px;">Perfect Games</h2><ul>`)
		for _, pg := range rep.Stats.PerfectGames {
			fmt.Fprintf(&b, `<li style="margin:4px 0;">%s as %s (%d KOs, zero falls)</li>`,
				esc(pg.Player), esc(pg.Character), pg.KOs)
		}
		b.WriteString(`</ul>`)
	}

	b.WriteString(`<p style="font-size:11px;color:#888;margin-top:24px;">Generated by smashmetrics.</p></div>`)
	return b.String()
}
