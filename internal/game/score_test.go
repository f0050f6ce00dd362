package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_Examples(t *testing.T) {
	cases := []struct {
		a, b string
		want Feedback
	}{
		{"1122", "1122", Feedback{4, 0}},
		{"1122", "1234", Feedback{1, 1}},
		{"1122", "2211", Feedback{0, 4}},
		{"1122", "6666", Feedback{0, 0}},
		{"1111", "1222", Feedback{1, 0}},
		{"1234", "4321", Feedback{0, 4}},
		{"5432", "1234", Feedback{1, 2}},
		{"5432", "5431", Feedback{3, 0}},
		{"5432", "4321", Feedback{0, 3}},
		{"1123", "3111", Feedback{1, 2}},
		{"6543", "3456", Feedback{0, 4}},
	}
	for _, tc := range cases {
		got := Score(MustCode(tc.a), MustCode(tc.b))
		assert.Equal(t, tc.want, got, "Score(%s, %s)", tc.a, tc.b)
	}
}

func TestScore_Properties(t *testing.T) {
	codes := NewUniverse().Codes()
	for _, a := range codes {
		require.Equal(t, Feedback{4, 0}, Score(a, a), "identity for %s", a)
		for _, b := range codes {
			fb := Score(a, b)
			if fb != Score(b, a) {
				t.Fatalf("Score not symmetric for %s, %s", a, b)
			}
			if fb.Black+fb.White > Pegs {
				t.Fatalf("Score(%s, %s) = %v exceeds %d pegs", a, b, fb, Pegs)
			}
			if fb.Black == 3 && fb.White == 1 {
				t.Fatalf("Score(%s, %s) produced the impossible 31", a, b)
			}
			if fb.Validate() != nil {
				t.Fatalf("Score(%s, %s) = %v fails validation", a, b, fb)
			}
		}
	}
}

func TestNewCode_Contract(t *testing.T) {
	_, err := NewCode([]int{1, 2, 3})
	assert.ErrorIs(t, err, ErrCodeLength)

	_, err = NewCode([]int{1, 2, 3, 4, 5})
	assert.ErrorIs(t, err, ErrCodeLength)

	_, err = NewCode([]int{0, 2, 3, 4})
	assert.ErrorIs(t, err, ErrCodeSymbol)

	_, err = NewCode([]int{1, 2, 3, 7})
	assert.ErrorIs(t, err, ErrCodeSymbol)

	c, err := NewCode([]int{6, 5, 4, 3})
	require.NoError(t, err)
	assert.Equal(t, "6543", c.String())
}

func TestParseCode(t *testing.T) {
	c, err := ParseCode(" 1234 ")
	require.NoError(t, err)
	assert.Equal(t, Code{1, 2, 3, 4}, c)

	_, err = ParseCode("123")
	assert.ErrorIs(t, err, ErrCodeLength)
	_, err = ParseCode("1237")
	assert.ErrorIs(t, err, ErrCodeSymbol)
	_, err = ParseCode("12a4")
	assert.ErrorIs(t, err, ErrCodeSymbol)
}

func TestFeedback_Validate(t *testing.T) {
	cases := []struct {
		fb   Feedback
		want error
	}{
		{Feedback{0, 0}, nil},
		{Feedback{4, 0}, nil},
		{Feedback{0, 4}, nil},
		{Feedback{2, 2}, nil},
		{Feedback{3, 0}, nil},
		{Feedback{3, 1}, ErrFeedbackImpossible},
		{Feedback{2, 3}, ErrFeedbackColumns},
		{Feedback{5, 0}, ErrFeedbackRange},
		{Feedback{-1, 0}, ErrFeedbackRange},
	}
	for _, tc := range cases {
		err := tc.fb.Validate()
		if tc.want == nil {
			assert.NoError(t, err, "%v", tc.fb)
			continue
		}
		assert.ErrorIs(t, err, tc.want, "%v", tc.fb)
	}
	assert.Len(t, Outcomes, 14)
}

func TestUniverse(t *testing.T) {
	u := NewUniverse()
	require.Equal(t, UniverseSize, u.Len())
	codes := u.Codes()
	assert.Equal(t, MustCode("1111"), codes[0])
	assert.Equal(t, MustCode("6666"), codes[len(codes)-1])
	for i, c := range codes {
		require.Equal(t, i, c.Index())
		if i > 0 {
			require.True(t, codes[i-1].Less(c), "%s < %s", codes[i-1], c)
		}
	}
	assert.Equal(t, UniverseSize, u.All().Len())
}

func TestCode_TextRoundTrip(t *testing.T) {
	b, err := MustCode("3456").MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "3456", string(b))

	var c Code
	require.NoError(t, c.UnmarshalText([]byte("6543")))
	assert.Equal(t, MustCode("6543"), c)
}

func BenchmarkScore(b *testing.B) {
	g1, g2 := MustCode("1234"), MustCode("3316")
	for i := 0; i < b.N; i++ {
		_ = Score(g1, g2)
	}
}
