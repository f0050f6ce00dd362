package palette

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/internal/game"
)

func TestBuiltins(t *testing.T) {
	require.NoError(t, Init())
	assert.Equal(t, []string{"colors", "digits", "initials"}, Names())

	c := game.MustCode("1346")

	d, err := Builtin("digits")
	require.NoError(t, err)
	assert.Equal(t, "1346", d.Format(c))
	assert.Equal(t, 4, d.Width())
	assert.Equal(t, "", d.Gap())

	in, err := Builtin("Initials")
	require.NoError(t, err)
	assert.Equal(t, "rgbp", in.Format(c))
	assert.Equal(t, " ", in.Gap())
	assert.Equal(t, "#d62728", in.Color(1))

	col, err := Builtin("colors")
	require.NoError(t, err)
	assert.Equal(t, "Red Green Blue Purple", col.Format(c))
	assert.Equal(t, 6*4+3, col.Width())

	_, err = Builtin("pastels")
	assert.ErrorIs(t, err, ErrUnknown)
}

func TestLetters(t *testing.T) {
	tests := []struct {
		in      string
		wantErr error
	}{
		{"abcdef", nil},
		{"AbCdEf", nil},
		{"abcde", ErrLetters},
		{"abcdea", ErrLetters},
		{"abcdeA", ErrLetters},
		{"abc1ef", ErrEnglishLetters},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := Letters(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, KindLetters, p.Kind)
		})
	}
}

func TestWords(t *testing.T) {
	p, err := Words("Red,Yellow,Green,Blue,Tan,Purple")
	require.NoError(t, err)
	assert.Equal(t, "Yellow Yellow Tan Red", p.Format(game.MustCode("2251")))

	_, err = Words("a,b,c,d,e")
	assert.ErrorIs(t, err, ErrWords)
	_, err = Words("a,b,c,d,e,a")
	assert.ErrorIs(t, err, ErrWords)
	_, err = Words("a,b,c,d,e,")
	assert.ErrorIs(t, err, ErrWords)
	_, err = Words("a,b,c,d,e,f g")
	assert.ErrorIs(t, err, ErrEnglishLetters)
}

func TestParse(t *testing.T) {
	letters, err := Letters("rygbtp")
	require.NoError(t, err)
	words, err := Words("Red,Yellow,Green,Blue,Tan,Purple")
	require.NoError(t, err)

	tests := []struct {
		name string
		p    *Palette
		in   string
		want string
	}{
		{"digits", Digits(), "6543", "6543"},
		{"letters", letters, "rygb", "1234"},
		{"letters folded", letters, "PPTR", "6651"},
		{"letters accept digits", letters, "1122", "1122"},
		{"words", words, "red Tan purple BLUE", "1564"},
		{"words commas", words, "Green,Green,Yellow,Red", "3321"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.p.Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, game.MustCode(tt.want), got)
		})
	}

	_, err = letters.Parse("rygz")
	assert.ErrorIs(t, err, game.ErrCodeSymbol)
	_, err = words.Parse("Red Red")
	assert.ErrorIs(t, err, game.ErrCodeLength)
	_, err = Digits().Parse("1170")
	assert.ErrorIs(t, err, game.ErrCodeSymbol)
}

func TestFormatParseRoundTrip(t *testing.T) {
	words, err := Words("one,two,three,four,five,six")
	require.NoError(t, err)
	for _, c := range game.NewUniverse().Codes() {
		got, err := words.Parse(words.Format(c))
		require.NoError(t, err)
		require.Equal(t, c, got)
	}
}

func TestParseDefinitions(t *testing.T) {
	got, err := parseDefinitions([]string{
		"mono letters abcdef",
		"fruit words apple,pear,plum,fig,kiwi,lime #111111,#222222,#333333,#444444,#555555,#666666",
	})
	require.NoError(t, err)
	assert.Equal(t, "abcd", got["mono"].Format(game.MustCode("1234")))
	assert.Equal(t, "#666666", got["fruit"].Color(6))

	_, err = parseDefinitions([]string{"broken"})
	assert.Error(t, err)
	_, err = parseDefinitions([]string{"x shapes a,b,c,d,e,f"})
	assert.Error(t, err)
	_, err = parseDefinitions([]string{"x words a,b,c,d,e,f #1,#2"})
	assert.Error(t, err)
}

func TestReadPaletteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palettes.txt")
	require.NoError(t, os.WriteFile(path, []byte("# comment\n\nmono letters abcdef\n"), 0o644))

	lines, err := readPaletteFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"mono letters abcdef"}, lines)
}
