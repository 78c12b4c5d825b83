package stats

// maxRun scans a win/loss sequence once, left to right, and returns the
// longest run of target. Empty input is zero.
func maxRun(seq []bool, target bool) int {
	var cur, best int
	for _, v := range seq {
		if v == target {
			cur++
			if cur > best {
				best = cur
			}
		} else {
			cur = 0
		}
	}
	return best
}

// currentRun returns the length of the run target ends the sequence with.
func currentRun(seq []bool, target bool) int {
	n := 0
	for i := len(seq) - 1; i >= 0; i-- {
		if seq[i] != target {
			break
		}
		n++
	}
	return n
}

// countRuns counts maximal runs of target with length >= minLen. This is the
// "streakiness" measure: how often a player strings results together, not
// just how long their best string was.
func countRuns(seq []bool, target bool, minLen int) int {
	var cur, runs int
	for _, v := range seq {
		if v == target {
			cur++
			continue
		}
		if cur >= minLen {
			runs++
		}
		cur = 0
	}
	if cur >= minLen {
		runs++
	}
	return runs
}
