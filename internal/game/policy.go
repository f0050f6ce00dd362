package game

import "math/rand"

// TieBreak picks the next guess from a minimax pool.
// extension reports that the guess is not itself a candidate.
type TieBreak interface {
	Pick(pool, candidates *Set) (guess Code, extension bool)
}

// Strict is Knuth's rule: the smallest pool member that could be the
// answer, else the smallest pool member overall.
type Strict struct{}

func (Strict) Pick(pool, candidates *Set) (Code, bool) {
	if in, ok := pool.Intersect(candidates).Min(); ok {
		return in, false
	}
	g, _ := pool.Min()
	return g, true
}

// Relaxed draws uniformly from the whole pool.
type Relaxed struct {
	rng *rand.Rand
}

// NewRelaxed builds a relaxed tie-break drawing from a source seeded with seed.
func NewRelaxed(seed int64) *Relaxed {
	return &Relaxed{rng: rand.New(rand.NewSource(seed))}
}

func (r *Relaxed) Pick(pool, candidates *Set) (Code, bool) {
	codes := pool.Codes()
	if len(codes) == 0 {
		return Code{}, true
	}
	g := codes[r.rng.Intn(len(codes))]
	return g, !candidates.Has(g)
}
