// internal/game/types.go
//
// Core type definitions for the Master Mind codebreaker.
// Defines:
//   - Code: a 4-peg code over 6 colors (values 1..6).
//   - Feedback: black/white peg result of scoring a guess.
//   - Universe: every legal code, built once and shared read-only.
//   - Status / Mode: round outcome and guess-selection policy names.

package game

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Pegs is the number of positions in a code.
	Pegs = 4
	// Colors is the size of the symbol alphabet.
	Colors = 6
	// UniverseSize is Colors^Pegs.
	UniverseSize = 1296
)

var (
	ErrCodeLength = errors.New("code must have exactly 4 pegs")
	ErrCodeSymbol = errors.New("code symbols must be in 1..6")

	ErrFeedbackRange      = errors.New("feedback digits must be in 0..4")
	ErrFeedbackColumns    = errors.New("feedback exceeds the number of columns")
	ErrFeedbackImpossible = errors.New("feedback 3 black 1 white is impossible")
)

// Code is an ordered sequence of 4 pegs, each 1..6.
// The zero value is not a legal code.
type Code [Pegs]uint8

// NewCode builds a Code from a slice of peg values.
// Returns ErrCodeLength or ErrCodeSymbol on contract violations.
func NewCode(pegs []int) (Code, error) {
	var c Code
	if len(pegs) != Pegs {
		return c, fmt.Errorf("%w: got %d", ErrCodeLength, len(pegs))
	}
	for i, p := range pegs {
		if p < 1 || p > Colors {
			return Code{}, fmt.Errorf("%w: position %d is %d", ErrCodeSymbol, i+1, p)
		}
		c[i] = uint8(p)
	}
	return c, nil
}

// MustCode parses a 4-digit string such as "1122" and panics on error.
// Intended for constants and tests.
func MustCode(s string) Code {
	c, err := ParseCode(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseCode parses the 4-digit form of a code ("1122").
func ParseCode(s string) (Code, error) {
	s = strings.TrimSpace(s)
	if len(s) != Pegs {
		return Code{}, fmt.Errorf("%w: %q", ErrCodeLength, s)
	}
	pegs := make([]int, Pegs)
	for i := 0; i < Pegs; i++ {
		pegs[i] = int(s[i]) - '0'
	}
	return NewCode(pegs)
}

// Valid reports whether every peg is in 1..6.
func (c Code) Valid() bool {
	for _, p := range c {
		if p < 1 || p > Colors {
			return false
		}
	}
	return true
}

// Index is the base-6 rank of the code, 0..1295, in ascending code order.
func (c Code) Index() int {
	n := 0
	for _, p := range c {
		n = n*Colors + int(p-1)
	}
	return n
}

// codeAt is the inverse of Index.
func codeAt(idx int) Code {
	var c Code
	for i := Pegs - 1; i >= 0; i-- {
		c[i] = uint8(idx%Colors) + 1
		idx /= Colors
	}
	return c
}

// Less orders codes lexicographically by position.
func (c Code) Less(o Code) bool {
	for i := range c {
		if c[i] != o[i] {
			return c[i] < o[i]
		}
	}
	return false
}

// String renders the digit form, e.g. "1122".
func (c Code) String() string {
	var b [Pegs]byte
	for i, p := range c {
		b[i] = '0' + p
	}
	return string(b[:])
}

// MarshalText encodes the digit form so codes read naturally in JSON.
func (c Code) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, ErrCodeSymbol
	}
	return []byte(c.String()), nil
}

// UnmarshalText accepts the digit form.
func (c *Code) UnmarshalText(b []byte) error {
	parsed, err := ParseCode(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Feedback is the black/white peg result of scoring a guess.
type Feedback struct {
	Black int `json:"black"`
	White int `json:"white"`
}

// Win is the all-black feedback.
var Win = Feedback{Black: Pegs}

// Validate rejects feedback no pair of codes can produce.
func (f Feedback) Validate() error {
	if f.Black < 0 || f.Black > Pegs || f.White < 0 || f.White > Pegs {
		return ErrFeedbackRange
	}
	if f.Black+f.White > Pegs {
		return fmt.Errorf("%w: %d", ErrFeedbackColumns, f.Black+f.White)
	}
	if f.Black == Pegs-1 && f.White == 1 {
		return ErrFeedbackImpossible
	}
	return nil
}

// String renders the two-digit operator form, e.g. "11".
func (f Feedback) String() string {
	return fmt.Sprintf("%d%d", f.Black, f.White)
}

// index maps a feedback into a (Pegs+1)^2 frequency array.
func (f Feedback) index() int { return (Pegs+1)*f.Black + f.White }

// Outcomes lists the 14 feedbacks a pair of codes can produce.
var Outcomes = func() []Feedback {
	var out []Feedback
	for b := 0; b <= Pegs; b++ {
		for w := 0; w <= Pegs-b; w++ {
			f := Feedback{Black: b, White: w}
			if f.Validate() == nil {
				out = append(out, f)
			}
		}
	}
	return out
}()

// Universe is the immutable set of all 1296 codes in ascending order.
type Universe struct {
	codes []Code
	all   *Set
}

// NewUniverse enumerates every code once.
func NewUniverse() *Universe {
	u := &Universe{codes: make([]Code, UniverseSize)}
	all := &Set{}
	for i := 0; i < UniverseSize; i++ {
		u.codes[i] = codeAt(i)
		all.Add(u.codes[i])
	}
	u.all = all
	return u
}

// Codes returns the universe in ascending order. Callers must not modify it.
func (u *Universe) Codes() []Code { return u.codes }

// Len is always UniverseSize.
func (u *Universe) Len() int { return len(u.codes) }

// All returns a fresh candidate set holding every code.
func (u *Universe) All() *Set { return u.all.Clone() }

// Status is the coarse state of a round.
type Status string

const (
	StatusContinuing    Status = "continuing"
	StatusSuccess       Status = "success"
	StatusContradiction Status = "contradiction"
)

// Mode selects the guess-selection policy.
type Mode string

const (
	ModeStrict  Mode = "strict"
	ModeRelaxed Mode = "relaxed"
)

// ParseMode accepts "strict" (or empty) and "relaxed".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(ModeStrict):
		return ModeStrict, nil
	case string(ModeRelaxed), "relax":
		return ModeRelaxed, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}
