package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// solve plays a round against secret, answering each guess truthfully.
func solve(t testing.TB, e *Engine, secret Code, mode Mode) *Round {
	t.Helper()
	ctx := context.Background()
	r, err := e.NewRound(ctx, "", mode)
	require.NoError(t, err)
	for i := 0; i < 20 && r.Status() == StatusContinuing; i++ {
		g, _ := r.NextGuess()
		_, err := r.SubmitFeedback(ctx, Score(g, secret))
		require.NoError(t, err)
	}
	return r
}

func TestRound_OpeningStrict(t *testing.T) {
	e := NewEngine(NewUniverse(), Options{})
	r, err := e.NewRound(context.Background(), "r1", ModeStrict)
	require.NoError(t, err)

	g, ext := r.NextGuess()
	assert.Equal(t, MustCode("1122"), g)
	assert.False(t, ext)
	assert.Equal(t, UniverseSize, r.CandidateCount())
	assert.Equal(t, "r1", r.ID())
	assert.Equal(t, StatusContinuing, r.Status())
}

func TestRound_FirstFeedbackPrunes(t *testing.T) {
	e := NewEngine(NewUniverse(), Options{})
	r, err := e.NewRound(context.Background(), "", ModeStrict)
	require.NoError(t, err)

	st, err := r.SubmitFeedback(context.Background(), Feedback{1, 1})
	require.NoError(t, err)
	assert.Equal(t, StatusContinuing, st)

	cands := NewSet(r.Candidates()...)
	assert.Equal(t, 208, r.CandidateCount())
	assert.Less(t, cands.Len(), UniverseSize)
	assert.False(t, cands.Has(MustCode("1122")))
	assert.True(t, cands.Has(MustCode("1234")))

	g, ext := r.NextGuess()
	assert.Equal(t, MustCode("1134"), g)
	assert.True(t, ext, "1134 cannot be the secret but splits best")
}

func TestRound_SolvesSixSixSixSix(t *testing.T) {
	e := NewEngine(NewUniverse(), Options{})
	r := solve(t, e, MustCode("6666"), ModeStrict)

	require.Equal(t, StatusSuccess, r.Status())
	secret, ok := r.Secret()
	require.True(t, ok)
	assert.Equal(t, MustCode("6666"), secret)

	turns := r.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, MustCode("1122"), turns[0].Guess)
	assert.Equal(t, Feedback{0, 0}, turns[0].Feedback)
	assert.Equal(t, MustCode("3345"), turns[1].Guess)
	assert.Equal(t, 256, turns[1].Candidates)
	assert.Equal(t, MustCode("6666"), turns[2].Guess)
	assert.LessOrEqual(t, r.Guesses(), 5)
	assert.False(t, r.FinishedAt().IsZero())
}

func TestRound_TwoCandidatesResolveDirectly(t *testing.T) {
	e := NewEngine(NewUniverse(), Options{})
	r := solve(t, e, MustCode("1234"), ModeStrict)

	require.Equal(t, StatusSuccess, r.Status())
	turns := r.Turns()
	require.Len(t, turns, 3)
	assert.Equal(t, 2, turns[2].Candidates)
	assert.Equal(t, MustCode("1234"), turns[2].Guess)
	assert.False(t, turns[2].Extension)
}

func TestRound_WinEndsRoundImmediately(t *testing.T) {
	e := NewEngine(NewUniverse(), Options{})
	r, err := e.NewRound(context.Background(), "", ModeStrict)
	require.NoError(t, err)

	st, err := r.SubmitFeedback(context.Background(), Win)
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, st)
	assert.Equal(t, UniverseSize, r.CandidateCount(), "no pruning after a win")

	_, err = r.SubmitFeedback(context.Background(), Feedback{0, 0})
	assert.ErrorIs(t, err, ErrRoundOver)
}

func TestRound_MalformedFeedbackLeavesRoundUntouched(t *testing.T) {
	e := NewEngine(NewUniverse(), Options{})
	r, err := e.NewRound(context.Background(), "", ModeStrict)
	require.NoError(t, err)

	for _, fb := range []Feedback{{3, 1}, {2, 3}, {5, 0}, {-1, 1}} {
		st, err := r.SubmitFeedback(context.Background(), fb)
		require.Error(t, err, "%v", fb)
		assert.Equal(t, StatusContinuing, st)
	}
	assert.Zero(t, r.Guesses())
	assert.Equal(t, UniverseSize, r.CandidateCount())
}

func TestRound_ContradictionNoCandidates(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(NewUniverse(), Options{})
	r, err := e.NewRound(ctx, "", ModeStrict)
	require.NoError(t, err)

	// 1122 -> 11, 1134 -> 30 leaves two candidates, both sharing pegs with 1234.
	_, err = r.SubmitFeedback(ctx, Feedback{1, 1})
	require.NoError(t, err)
	_, err = r.SubmitFeedback(ctx, Feedback{3, 0})
	require.NoError(t, err)
	require.Equal(t, 2, r.CandidateCount())
	g, _ := r.NextGuess()
	require.Equal(t, MustCode("1234"), g)

	st, err := r.SubmitFeedback(ctx, Feedback{0, 0})
	require.NoError(t, err, "a contradiction is a round status, not an error")
	assert.Equal(t, StatusContradiction, st)
	assert.ErrorIs(t, r.Err(), ErrNoCandidates)
	assert.Zero(t, r.CandidateCount())

	_, err = r.SubmitFeedback(ctx, Feedback{0, 0})
	assert.ErrorIs(t, err, ErrRoundOver)
}

func TestRound_ContradictionOnLastCandidate(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(NewUniverse(), Options{})
	r, err := e.NewRound(ctx, "", ModeStrict)
	require.NoError(t, err)

	// 1122 -> 00, 3345 -> 00 leaves only 6666.
	_, err = r.SubmitFeedback(ctx, Feedback{0, 0})
	require.NoError(t, err)
	_, err = r.SubmitFeedback(ctx, Feedback{0, 0})
	require.NoError(t, err)
	require.Equal(t, 1, r.CandidateCount())
	g, _ := r.NextGuess()
	require.Equal(t, MustCode("6666"), g)

	st, err := r.SubmitFeedback(ctx, Feedback{0, 0})
	require.NoError(t, err)
	assert.Equal(t, StatusContradiction, st)
	assert.ErrorIs(t, r.Err(), ErrMustBeLast)
}

func TestRound_PruningIdempotentAndMonotonic(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(NewUniverse(), Options{})
	secret := MustCode("5432")
	r, err := e.NewRound(ctx, "", ModeStrict)
	require.NoError(t, err)

	prev := r.CandidateCount()
	for r.Status() == StatusContinuing {
		g, _ := r.NextGuess()
		fb := Score(g, secret)
		_, err := r.SubmitFeedback(ctx, fb)
		require.NoError(t, err)
		if r.Status() != StatusContinuing {
			break
		}

		now := NewSet(r.Candidates()...)
		again := now.Filter(func(c Code) bool { return Score(c, g) == fb })
		require.True(t, again.Equal(now), "re-filtering by the same feedback is a no-op")
		require.Less(t, now.Len(), prev, "non-winning feedback always shrinks the set")
		prev = now.Len()
	}
	assert.Equal(t, StatusSuccess, r.Status())
	assert.Equal(t, 5, r.Guesses())
}

func TestRound_RelaxedReproducibleFromSeed(t *testing.T) {
	seed := func(string) int64 { return 99 }
	secret := MustCode("2516")

	a := solve(t, NewEngine(NewUniverse(), Options{Seed: seed}), secret, ModeRelaxed)
	b := solve(t, NewEngine(NewUniverse(), Options{Seed: seed}), secret, ModeRelaxed)

	require.Equal(t, StatusSuccess, a.Status())
	assert.Equal(t, a.Turns(), b.Turns())

	first := a.Turns()[0]
	assert.Equal(t, UniverseSize, first.Candidates)
	assert.False(t, first.Extension)
}

func TestRound_RelaxedOpeningFromPool(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(NewUniverse(), Options{})
	sel, err := e.Opening(ctx)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		r, err := e.NewRound(ctx, "", ModeRelaxed)
		require.NoError(t, err)
		g, ext := r.NextGuess()
		assert.True(t, sel.Pool.Has(g))
		assert.False(t, ext)
		assert.Equal(t, ModeRelaxed, r.Mode())
	}
}

type fixedTieBreak struct{ picks int }

func (f *fixedTieBreak) Pick(pool, candidates *Set) (Code, bool) {
	f.picks++
	g, _ := pool.Min()
	return g, !candidates.Has(g)
}

func TestRound_InjectedTieBreak(t *testing.T) {
	ctx := context.Background()
	e := NewEngine(NewUniverse(), Options{})
	tb := &fixedTieBreak{}
	r, err := e.NewRoundWith(ctx, "custom", ModeStrict, tb)
	require.NoError(t, err)

	_, err = r.SubmitFeedback(ctx, Feedback{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 1, tb.picks)
}

func TestStrict_EverySecretWithinFive(t *testing.T) {
	if testing.Short() {
		t.Skip("full 1296-secret sweep")
	}
	e := NewEngine(NewUniverse(), Options{})
	worst := 0
	for _, secret := range e.Universe().Codes() {
		r := solve(t, e, secret, ModeStrict)
		require.Equal(t, StatusSuccess, r.Status(), "secret %s", secret)
		got, _ := r.Secret()
		require.Equal(t, secret, got)
		worst = max(worst, r.Guesses())
	}
	assert.LessOrEqual(t, worst, 5)
}
