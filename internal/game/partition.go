package game

// Buckets counts candidates per feedback, indexed (Pegs+1)*black + white.
// Every black+white <= 4 pair has a slot, the unreachable 31 included; it
// and the black+white > 4 slots stay zero.
type Buckets [(Pegs + 1) * (Pegs + 1)]int

// Count returns the bucket size for f.
func (b *Buckets) Count(f Feedback) int { return b[f.index()] }

// Max is the size of the largest bucket.
func (b *Buckets) Max() int {
	worst := 0
	for _, n := range b {
		if n > worst {
			worst = n
		}
	}
	return worst
}

// Partition groups candidates by the feedback each would give against guess.
func Partition(guess Code, candidates *Set) Buckets {
	var b Buckets
	candidates.Each(func(c Code) bool {
		b[Score(guess, c).index()]++
		return true
	})
	return b
}

// WorstCase is the number of candidates left indistinguishable in the
// largest partition after guess is scored. Empty candidates give 0.
func WorstCase(guess Code, candidates *Set) int {
	b := Partition(guess, candidates)
	return b.Max()
}
