package game

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu    sync.Mutex
	calls int
	last  [3]int
}

func (o *recordingObserver) ObserveSelection(candidates, minWorst, poolSize int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	o.last = [3]int{candidates, minWorst, poolSize}
}

func TestSelect_FullUniverse(t *testing.T) {
	u := NewUniverse()
	obs := &recordingObserver{}
	sel, err := NewSelector(u, 4, obs).Select(context.Background(), u.All())
	require.NoError(t, err)

	assert.Equal(t, 256, sel.MinWorst)
	assert.Equal(t, 90, sel.Pool.Len())
	first, ok := sel.Pool.Min()
	require.True(t, ok)
	assert.Equal(t, StrictOpening, first, "the fixed opening is the smallest minimax code")

	assert.Equal(t, 1, obs.calls)
	assert.Equal(t, [3]int{UniverseSize, 256, 90}, obs.last)
}

func TestSelect_TwoCandidatesSkipsScan(t *testing.T) {
	u := NewUniverse()
	obs := &recordingObserver{}
	cands := NewSet(MustCode("1234"), MustCode("4321"))

	sel, err := NewSelector(u, 0, obs).Select(context.Background(), cands)
	require.NoError(t, err)

	assert.Equal(t, 1, sel.MinWorst)
	assert.True(t, sel.Pool.Equal(cands))
	assert.Zero(t, obs.calls, "no universe scan for two candidates")
}

func TestSelect_PoolMayExtendBeyondCandidates(t *testing.T) {
	u := NewUniverse()
	opening := MustCode("1122")
	cands := u.All().Filter(func(c Code) bool { return Score(c, opening) == Feedback{1, 1} })
	require.Equal(t, 208, cands.Len())

	sel, err := NewSelector(u, 0, nil).Select(context.Background(), cands)
	require.NoError(t, err)

	require.Zero(t, sel.Pool.Intersect(cands).Len(), "no candidate reaches the minimax value")
	g, ext := Strict{}.Pick(sel.Pool, cands)
	assert.True(t, ext)
	assert.Equal(t, MustCode("1134"), g)
	assert.Equal(t, sel.MinWorst, WorstCase(g, cands))
}

func TestSelect_DeterministicAcrossWorkerCounts(t *testing.T) {
	u := NewUniverse()
	cands := u.All().Filter(func(c Code) bool { return Score(c, StrictOpening) == Feedback{0, 0} })

	one, err := NewSelector(u, 1, nil).Select(context.Background(), cands)
	require.NoError(t, err)
	many, err := NewSelector(u, 7, nil).Select(context.Background(), cands)
	require.NoError(t, err)

	assert.Equal(t, one.MinWorst, many.MinWorst)
	assert.True(t, one.Pool.Equal(many.Pool))
	for _, c := range many.Pool.Codes() {
		require.Equal(t, many.MinWorst, WorstCase(c, cands))
	}
}

func TestSelect_Cancelled(t *testing.T) {
	u := NewUniverse()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewSelector(u, 2, nil).Select(ctx, u.All())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStrictPick(t *testing.T) {
	pool := NewSet(MustCode("1134"), MustCode("2255"), MustCode("3456"))

	g, ext := Strict{}.Pick(pool, NewSet(MustCode("3456"), MustCode("2255")))
	assert.Equal(t, MustCode("2255"), g)
	assert.False(t, ext)

	g, ext = Strict{}.Pick(pool, NewSet(MustCode("6666")))
	assert.Equal(t, MustCode("1134"), g)
	assert.True(t, ext)
}

func TestRelaxedPick_Reproducible(t *testing.T) {
	u := NewUniverse()
	pool := u.All().Filter(func(c Code) bool { return c[0] == 3 })
	cands := NewSet(MustCode("3111"))

	a, b := NewRelaxed(42), NewRelaxed(42)
	for i := 0; i < 20; i++ {
		ga, exta := a.Pick(pool, cands)
		gb, extb := b.Pick(pool, cands)
		require.Equal(t, ga, gb)
		require.Equal(t, exta, extb)
		require.True(t, pool.Has(ga))
		require.Equal(t, !cands.Has(ga), exta)
	}
}

func BenchmarkSelect(b *testing.B) {
	u := NewUniverse()
	s := NewSelector(u, 0, nil)
	cands := u.All().Filter(func(c Code) bool { return Score(c, StrictOpening) == Feedback{1, 0} })
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.Select(ctx, cands); err != nil {
			b.Fatal(err)
		}
	}
}
