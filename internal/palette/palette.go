// internal/palette/palette.go
//
// Symbol palettes used to show and read codes.
//
// Responsibilities:
//   - Load built-in palettes from MASTERMIND_PALETTES_FILE or fall back to the
//     embedded assets/palettes.txt.
//   - Build custom palettes from a 6-letter string or 6 comma-separated words.
//   - Format a code in a palette and parse a palette string back into a code.
//
// Palette kinds:
//   - "digits":  1..6, the canonical form.
//   - "letters": one letter per color; codes print as 4 letters ("rygb").
//   - "words":   one word per color; codes print as 4 words joined by spaces.
//
// Constraints:
//   • Custom symbols must be English letters and pairwise distinct
//     (case-insensitively, since parsing folds case).
//   • Initialization is run once (sync.Once).

package palette

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/robalobadob/mastermind/assets"
	"github.com/robalobadob/mastermind/internal/game"
)

// Kind is the shape of a palette's symbols.
type Kind string

const (
	KindDigits  Kind = "digits"
	KindLetters Kind = "letters"
	KindWords   Kind = "words"
)

var (
	ErrLetters        = errors.New("requires 6 different letters")
	ErrWords          = errors.New("requires 6 different words")
	ErrEnglishLetters = errors.New("requires English letters")
	ErrUnknown        = errors.New("unknown palette")
)

// Palette maps peg values 1..6 to display symbols.
type Palette struct {
	Name    string
	Kind    Kind
	symbols [game.Colors]string
	colors  [game.Colors]string // optional terminal colors ("#rrggbb")
	width   int
}

func newPalette(name string, kind Kind, syms []string) *Palette {
	p := &Palette{Name: name, Kind: kind}
	longest := 0
	for i, s := range syms {
		p.symbols[i] = s
		longest = max(longest, len(s))
	}
	switch kind {
	case KindWords:
		p.width = longest*game.Pegs + game.Pegs - 1
	default:
		p.width = game.Pegs
	}
	return p
}

// Digits is the canonical palette.
func Digits() *Palette {
	return newPalette(string(KindDigits), KindDigits, []string{"1", "2", "3", "4", "5", "6"})
}

// Letters builds a palette from a string of 6 distinct English letters.
func Letters(s string) (*Palette, error) {
	s = strings.TrimSpace(s)
	if len(s) != game.Colors {
		return nil, fmt.Errorf("%w but is %q", ErrLetters, s)
	}
	if !isAlpha(s) {
		return nil, ErrEnglishLetters
	}
	syms := strings.Split(s, "")
	if !distinct(syms) {
		return nil, fmt.Errorf("%w but is %q", ErrLetters, s)
	}
	return newPalette(s, KindLetters, syms), nil
}

// Words builds a palette from 6 distinct comma-separated words.
func Words(s string) (*Palette, error) {
	syms := strings.Split(strings.TrimSpace(s), ",")
	if len(syms) != game.Colors || !distinct(syms) {
		return nil, ErrWords
	}
	for _, w := range syms {
		if w == "" {
			return nil, ErrWords
		}
		if !isAlpha(w) {
			return nil, ErrEnglishLetters
		}
	}
	return newPalette(s, KindWords, syms), nil
}

// Width is the display width of a formatted code.
func (p *Palette) Width() int { return p.width }

// Gap separates a formatted code from a trailing marker: none for digits.
func (p *Palette) Gap() string {
	if p.Kind == KindDigits {
		return ""
	}
	return " "
}

// Symbol returns the symbol for peg value v (1..6).
func (p *Palette) Symbol(v uint8) string { return p.symbols[v-1] }

// Color returns the terminal color for peg value v, or "" when unset.
func (p *Palette) Color(v uint8) string { return p.colors[v-1] }

// Symbols returns the symbols for each peg of c.
func (p *Palette) Symbols(c game.Code) []string {
	out := make([]string, game.Pegs)
	for i, v := range c {
		out[i] = p.Symbol(v)
	}
	return out
}

// Format renders c in the palette.
func (p *Palette) Format(c game.Code) string {
	sep := ""
	if p.Kind == KindWords {
		sep = " "
	}
	return strings.Join(p.Symbols(c), sep)
}

// Parse reads a code written in the palette, case-insensitively.
// The 4-digit form is always accepted.
func (p *Palette) Parse(s string) (game.Code, error) {
	s = strings.TrimSpace(s)
	if c, err := game.ParseCode(s); err == nil {
		return c, nil
	}

	var parts []string
	switch p.Kind {
	case KindWords:
		parts = strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
	case KindLetters:
		parts = strings.Split(s, "")
	default:
		return game.ParseCode(s)
	}
	if len(parts) != game.Pegs {
		return game.Code{}, fmt.Errorf("%w: %q", game.ErrCodeLength, s)
	}

	pegs := make([]int, game.Pegs)
	for i, part := range parts {
		pegs[i] = p.lookup(part)
		if pegs[i] == 0 {
			return game.Code{}, fmt.Errorf("%w: %q is not in palette %s", game.ErrCodeSymbol, part, p.Name)
		}
	}
	return game.NewCode(pegs)
}

func (p *Palette) lookup(sym string) int {
	for i, s := range p.symbols {
		if strings.EqualFold(s, sym) {
			return i + 1
		}
	}
	return 0
}

// --- built-in registry ---

var (
	initOnce   sync.Once
	builtins   map[string]*Palette
	initialErr error
)

// Init loads the built-in palettes exactly once.
// MASTERMIND_PALETTES_FILE replaces the embedded definitions.
func Init() error {
	initOnce.Do(func() {
		var lines []string
		if path := os.Getenv("MASTERMIND_PALETTES_FILE"); path != "" {
			lines, initialErr = readPaletteFile(path)
		} else {
			lines, initialErr = assets.PaletteLines()
		}
		if initialErr != nil {
			return
		}
		builtins, initialErr = parseDefinitions(lines)
		if initialErr == nil && len(builtins) == 0 {
			initialErr = errors.New("palette: no palettes defined")
		}
	})
	return initialErr
}

// Builtin returns a built-in palette by name.
func Builtin(name string) (*Palette, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	p, ok := builtins[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknown, name)
	}
	return p, nil
}

// Names lists the built-in palette names in order.
func Names() []string {
	if Init() != nil {
		return nil
	}
	out := make([]string, 0, len(builtins))
	for n := range builtins {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// readPaletteFile loads definition lines from a file, skipping blanks and comments.
func readPaletteFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			out = append(out, line)
		}
	}
	return out, sc.Err()
}

// parseDefinitions turns "<name> <kind> <symbols> [colors]" lines into palettes.
func parseDefinitions(lines []string) (map[string]*Palette, error) {
	out := make(map[string]*Palette, len(lines))
	for _, line := range lines {
		f := strings.Fields(line)
		if len(f) < 3 || len(f) > 4 {
			return nil, fmt.Errorf("palette: malformed line %q", line)
		}
		name := strings.ToLower(f[0])

		var p *Palette
		var err error
		switch Kind(f[1]) {
		case KindDigits:
			p = Digits()
		case KindLetters:
			p, err = Letters(strings.ReplaceAll(f[2], ",", ""))
		case KindWords:
			p, err = Words(f[2])
		default:
			err = fmt.Errorf("unknown kind %q", f[1])
		}
		if err != nil {
			return nil, fmt.Errorf("palette %s: %w", name, err)
		}
		p.Name = name

		if len(f) == 4 {
			cols := strings.Split(f[3], ",")
			if len(cols) != game.Colors {
				return nil, fmt.Errorf("palette %s: need %d colors", name, game.Colors)
			}
			copy(p.colors[:], cols)
		}
		out[name] = p
	}
	return out, nil
}

// distinct reports whether the symbols differ pairwise, ignoring case.
func distinct(syms []string) bool {
	seen := make(map[string]struct{}, len(syms))
	for _, s := range syms {
		k := strings.ToLower(s)
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
	}
	return true
}

// isAlpha reports whether s is all ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return s != ""
}
