// Package main is the entry point for the smashmetrics CLI tool, which
// snapshots the office Smash leaderboard database and computes player,
// rivalry, and trend analytics from it.
package main

import "github.com/thecooltechguy/smash-leaderboard-metrics/cmd"

func main() {
	cmd.Execute()
}
