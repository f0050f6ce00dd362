// internal/game/engine.go
//
// Session loop for the codebreaker.
// Responsibilities:
//   - Hold the shared, read-only universe and minimax selector (Engine).
//   - Start rounds with the fixed or relaxed opening guess.
//   - Apply oracle feedback: prune the candidate set, detect success and
//     contradictions, and choose the next guess via the tie-break policy.
//
// State transitions of a Round:
//   continuing → success        (feedback is all black)
//   continuing → contradiction  (feedback inconsistent with every candidate)
//
// Notes:
//   - Round methods lock the round; an HTTP handler and a metrics scrape may
//     touch the same round concurrently.

package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// StrictOpening is the canonical two-pair first guess. Scanning the full
// universe always yields the same pool, so strict rounds skip the scan.
var StrictOpening = Code{1, 1, 2, 2}

var (
	ErrRoundOver = errors.New("round is over")

	// Contradiction reasons reported by Round.Err.
	ErrNoCandidates = errors.New("no candidates left")
	ErrMustBeLast   = errors.New("that had to be the right one")
)

// Options tunes an Engine.
type Options struct {
	Workers  int                        // selector workers; <= 0 means GOMAXPROCS
	Observer Observer                   // optional scan observer
	Seed     func(roundID string) int64 // relaxed-mode seed; nil uses the clock
}

// Engine is shared by every round of a process.
type Engine struct {
	universe *Universe
	selector *Selector
	seed     func(string) int64

	mu      sync.Mutex
	opening *Selection // full-universe selection, computed on first relaxed round
}

// NewEngine wires a selector over u.
func NewEngine(u *Universe, opts Options) *Engine {
	seed := opts.Seed
	if seed == nil {
		seed = func(string) int64 { return time.Now().UnixNano() }
	}
	return &Engine{
		universe: u,
		selector: NewSelector(u, opts.Workers, opts.Observer),
		seed:     seed,
	}
}

// Universe returns the shared universe.
func (e *Engine) Universe() *Universe { return e.universe }

// Selector returns the shared selector.
func (e *Engine) Selector() *Selector { return e.selector }

// Opening returns the minimax selection for the full universe.
// A cancelled computation is not cached.
func (e *Engine) Opening(ctx context.Context) (Selection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.opening != nil {
		return *e.opening, nil
	}
	sel, err := e.selector.Select(ctx, e.universe.All())
	if err != nil {
		return Selection{}, err
	}
	e.opening = &sel
	return sel, nil
}

// NewRound starts a round with the policy implied by mode.
// An empty id gets a fresh UUID.
func (e *Engine) NewRound(ctx context.Context, id string, mode Mode) (*Round, error) {
	if id == "" {
		id = uuid.NewString()
	}
	var tb TieBreak = Strict{}
	if mode == ModeRelaxed {
		tb = NewRelaxed(e.seed(id))
	}
	return e.NewRoundWith(ctx, id, mode, tb)
}

// NewRoundWith starts a round with an explicit tie-break policy.
func (e *Engine) NewRoundWith(ctx context.Context, id string, mode Mode, tb TieBreak) (*Round, error) {
	if id == "" {
		id = uuid.NewString()
	}
	r := &Round{
		id:         id,
		mode:       mode,
		engine:     e,
		tieBreak:   tb,
		candidates: e.universe.All(),
		guess:      StrictOpening,
		status:     StatusContinuing,
		startedAt:  time.Now().UTC(),
	}
	if mode == ModeRelaxed {
		sel, err := e.Opening(ctx)
		if err != nil {
			return nil, fmt.Errorf("opening selection: %w", err)
		}
		r.guess, r.extension = tb.Pick(sel.Pool, r.candidates)
	}
	return r, nil
}

// Turn records one guess and the feedback it received.
type Turn struct {
	Guess      Code     `json:"guess"`
	Extension  bool     `json:"extension"`
	Feedback   Feedback `json:"feedback"`
	Candidates int      `json:"candidates"` // candidate count when the guess was made
}

// Round is one codebreaking attempt against a single secret.
type Round struct {
	mu sync.Mutex

	id       string
	mode     Mode
	engine   *Engine
	tieBreak TieBreak

	candidates *Set
	guess      Code
	extension  bool
	turns      []Turn

	status     Status
	err        error
	secret     Code
	startedAt  time.Time
	finishedAt time.Time
}

func (r *Round) ID() string { return r.id }

func (r *Round) Mode() Mode { return r.mode }

func (r *Round) StartedAt() time.Time { return r.startedAt }

// NextGuess returns the guess awaiting feedback and whether it is an
// extension (a code already known not to be the secret).
func (r *Round) NextGuess() (Code, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.guess, r.extension
}

// CandidateCount is the number of codes still consistent with all feedback.
func (r *Round) CandidateCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.candidates.Len()
}

// Candidates lists the remaining codes in ascending order.
func (r *Round) Candidates() []Code {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.candidates.Codes()
}

// Turns returns a copy of the guess/feedback history.
func (r *Round) Turns() []Turn {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Turn(nil), r.turns...)
}

// Guesses is the number of guesses that received feedback.
func (r *Round) Guesses() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.turns)
}

func (r *Round) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Err is the contradiction reason, nil unless the status is contradiction.
func (r *Round) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Secret returns the solved code once the round succeeded.
func (r *Round) Secret() (Code, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.secret, r.status == StatusSuccess
}

// FinishedAt is zero while the round continues.
func (r *Round) FinishedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finishedAt
}

// SubmitFeedback applies the oracle's answer to the current guess.
//
// Malformed feedback and feedback on a finished round return an error and
// leave the round untouched. A contradiction is a status, not an error; the
// reason is available from Err.
func (r *Round) SubmitFeedback(ctx context.Context, fb Feedback) (Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusContinuing {
		return r.status, ErrRoundOver
	}
	if err := fb.Validate(); err != nil {
		return r.status, fmt.Errorf("feedback %s: %w", fb, err)
	}

	turn := Turn{Guess: r.guess, Extension: r.extension, Feedback: fb, Candidates: r.candidates.Len()}

	if fb.Black == Pegs {
		r.turns = append(r.turns, turn)
		r.secret = r.guess
		return r.finish(StatusSuccess, nil), nil
	}
	if r.candidates.Len() < 2 {
		r.turns = append(r.turns, turn)
		return r.finish(StatusContradiction, ErrMustBeLast), nil
	}

	guess := r.guess
	next := r.candidates.Filter(func(c Code) bool { return Score(c, guess) == fb })
	if next.Len() == 0 {
		r.turns = append(r.turns, turn)
		r.candidates = next
		return r.finish(StatusContradiction, ErrNoCandidates), nil
	}

	var g Code
	var ext bool
	if next.Len() <= 2 {
		g, ext = r.tieBreak.Pick(next, next)
	} else {
		sel, err := r.engine.selector.Select(ctx, next)
		if err != nil {
			return r.status, err
		}
		g, ext = r.tieBreak.Pick(sel.Pool, next)
	}

	r.turns = append(r.turns, turn)
	r.candidates = next
	r.guess, r.extension = g, ext
	return r.status, nil
}

// finish must be called with r.mu held.
func (r *Round) finish(st Status, reason error) Status {
	r.status = st
	r.err = reason
	r.finishedAt = time.Now().UTC()
	return st
}
