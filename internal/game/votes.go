package game

// resolveVotes tallies a voter -> target map and returns the target with
// the strictly highest count, or "" when nobody voted. The same algorithm
// serves the werewolf kill and the day execution. Ties are broken by the
// lowest target id; map iteration order never influences the result.
func resolveVotes(votes map[string]string) string {
	counts := make(map[string]int)
	for _, targetID := range votes {
		counts[targetID]++
	}

	winner := ""
	maxVotes := 0
	for targetID, count := range counts {
		switch {
		case count > maxVotes:
			maxVotes = count
			winner = targetID
		case count == maxVotes && targetID < winner:
			winner = targetID
		}
	}
	return winner
}
