package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/internal/game"
)

func newRound(t *testing.T, e *game.Engine, id string) *game.Round {
	t.Helper()
	r, err := e.NewRound(context.Background(), id, game.ModeStrict)
	require.NoError(t, err)
	return r
}

func TestMemory_SaveGetDelete(t *testing.T) {
	ctx := context.Background()
	e := game.NewEngine(game.NewUniverse(), game.Options{})
	s := NewMemoryStore()

	r := newRound(t, e, "a")
	require.NoError(t, s.Save(ctx, Entry{Round: r, Owner: "user-1", Palette: "colors"}))
	assert.Equal(t, 1, s.Len())

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Same(t, r, got.Round)
	assert.Equal(t, "user-1", got.Owner)
	assert.Equal(t, "colors", got.Palette)
	assert.False(t, got.Touched.IsZero())

	assert.Error(t, s.Save(ctx, Entry{}))

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Delete(ctx, "a"))
	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_Sweep(t *testing.T) {
	ctx := context.Background()
	e := game.NewEngine(game.NewUniverse(), game.Options{})
	m := NewMemoryStore().(*memory)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m.nowFunc = func() time.Time { return now.Add(-2 * time.Hour) }
	require.NoError(t, m.Save(ctx, Entry{Round: newRound(t, e, "old")}))
	m.nowFunc = func() time.Time { return now }
	require.NoError(t, m.Save(ctx, Entry{Round: newRound(t, e, "fresh")}))

	assert.Equal(t, 1, m.Sweep(ctx, now.Add(-time.Hour)))
	_, err := m.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(ctx, "fresh")
	assert.NoError(t, err)
}
