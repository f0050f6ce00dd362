// internal/game/minimax.go
//
// Minimax guess selection (Knuth, "The Computer as Master Mind").
// Responsibilities:
//   - Score every code in the universe by its worst-case partition size
//     against the current candidate set.
//   - Keep the smallest worst case and every code attaining it (the pool).
//
// Notes:
//   - The pool may hold codes outside the candidate set ("extensions").
//   - The scan is fork-join: each worker fills its own slice range, the
//     aggregation runs sequentially in ascending code order.

package game

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// Selection is the result of a minimax scan.
type Selection struct {
	MinWorst int  // smallest worst-case partition size found
	Pool     *Set // every universe code attaining MinWorst
}

// Observer receives timing and size information after each scan.
type Observer interface {
	ObserveSelection(candidates, minWorst, poolSize int, took time.Duration)
}

// Selector finds the minimax guesses for a candidate set.
// It only reads the universe and is safe for concurrent use.
type Selector struct {
	universe *Universe
	workers  int
	observer Observer
}

// NewSelector builds a selector over u. workers <= 0 means GOMAXPROCS.
func NewSelector(u *Universe, workers int, obs Observer) *Selector {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Selector{universe: u, workers: workers, observer: obs}
}

// Select returns the minimum worst case and the pool of codes attaining it.
//
// With two or fewer candidates the candidates themselves are returned with a
// worst case of 1: guessing either one settles the round.
func (s *Selector) Select(ctx context.Context, candidates *Set) (Selection, error) {
	if candidates.Len() <= 2 {
		return Selection{MinWorst: 1, Pool: candidates.Clone()}, nil
	}
	start := time.Now()

	worst, err := s.scan(ctx, candidates.Codes())
	if err != nil {
		return Selection{}, err
	}

	how := candidates.Len()
	pool := candidates.Clone()
	for i, v := range worst {
		switch {
		case v > 0 && v < how:
			pool = NewSet(s.universe.codes[i])
			how = v
		case v == how:
			pool.Add(s.universe.codes[i])
		}
	}

	if s.observer != nil {
		s.observer.ObserveSelection(candidates.Len(), how, pool.Len(), time.Since(start))
	}
	return Selection{MinWorst: how, Pool: pool}, nil
}

// scan computes the worst case of every universe code, indexed by rank.
func (s *Selector) scan(ctx context.Context, cands []Code) ([]int, error) {
	codes := s.universe.codes
	worst := make([]int, len(codes))
	chunk := (len(codes) + s.workers - 1) / s.workers

	g, ctx := errgroup.WithContext(ctx)
	for lo := 0; lo < len(codes); lo += chunk {
		lo := lo
		hi := min(lo+chunk, len(codes))
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if i%64 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				worst[i] = worstCaseOf(codes[i], cands)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return worst, nil
}

// worstCaseOf is WorstCase over a materialised candidate slice.
func worstCaseOf(guess Code, cands []Code) int {
	var b Buckets
	for _, c := range cands {
		b[Score(guess, c).index()]++
	}
	return b.Max()
}
