package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorstCase_KnownOpenings(t *testing.T) {
	all := NewUniverse().All()

	// Knuth's table for the five opening patterns.
	assert.Equal(t, 625, WorstCase(MustCode("1111"), all))
	assert.Equal(t, 317, WorstCase(MustCode("1112"), all))
	assert.Equal(t, 256, WorstCase(MustCode("1122"), all))
	assert.Equal(t, 276, WorstCase(MustCode("1123"), all))
	assert.Equal(t, 312, WorstCase(MustCode("1234"), all))
}

func TestWorstCase_Empty(t *testing.T) {
	assert.Equal(t, 0, WorstCase(MustCode("1234"), NewSet()))
}

func TestWorstCase_Bounds(t *testing.T) {
	u := NewUniverse()
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 200; trial++ {
		s := NewSet()
		n := 1 + rng.Intn(40)
		for s.Len() < n {
			s.Add(u.Codes()[rng.Intn(u.Len())])
		}
		guess := u.Codes()[rng.Intn(u.Len())]

		wc := WorstCase(guess, s)
		require.GreaterOrEqual(t, wc, 1)
		require.LessOrEqual(t, wc, s.Len())

		b := Partition(guess, s)
		nonEmpty := 0
		total := 0
		for _, f := range Outcomes {
			if b.Count(f) > 0 {
				nonEmpty++
			}
			total += b.Count(f)
		}
		require.Equal(t, s.Len(), total, "every candidate lands in a reachable bucket")
		require.Equal(t, wc == s.Len(), nonEmpty == 1, "worst case equals |S| iff one bucket")
	}
}

func TestPartition_ImpossibleBucketStaysEmpty(t *testing.T) {
	u := NewUniverse()
	all := u.All()
	for _, g := range u.Codes()[:50] {
		b := Partition(g, all)
		assert.Zero(t, b.Count(Feedback{3, 1}))
	}
}

func BenchmarkWorstCase(b *testing.B) {
	all := NewUniverse().All()
	g := MustCode("1122")
	for i := 0; i < b.N; i++ {
		_ = WorstCase(g, all)
	}
}
