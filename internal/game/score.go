package game

// Score compares two codes and returns the black/white peg result.
//
// Pass 1 counts positional matches (black) and tallies the colors left over
// on both sides. Pass 2 sums, per color, the smaller of the two leftover
// tallies (white), so a repeated color is matched at most once per occurrence.
//
// Score is symmetric: Score(a, b) == Score(b, a).
func Score(a, b Code) Feedback {
	var fb Feedback
	var restA, restB [Colors + 1]int
	for i := 0; i < Pegs; i++ {
		if a[i] == b[i] {
			fb.Black++
			continue
		}
		restA[a[i]]++
		restB[b[i]]++
	}
	for color := 1; color <= Colors; color++ {
		fb.White += min(restA[color], restB[color])
	}
	return fb
}
