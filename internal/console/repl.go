// internal/console/repl.go
//
// Terminal collaborator for the codebreaker.
// Responsibilities:
//   - Show each guess in the chosen palette and read the operator's
//     black/white answer, re-prompting on malformed input.
//   - Feed validated answers to the round and report success or
//     contradiction, then start the next round.
//   - End on a quit word, EOF or context cancellation with a goodbye.
//
// Notes:
//   - Output layout matches the classic line-oriented program; styling is
//     added only when Options.Styled is set (see IsTerminal).
//   - Finished rounds go to the optional Recorder and to metrics.

package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/history"
	"github.com/robalobadob/mastermind/internal/metrics"
	"github.com/robalobadob/mastermind/internal/palette"
)

// Options mirrors the command-line display switches.
type Options struct {
	Relax     bool             // random pick from the minimax pool
	ShowCount bool             // prefix each guess with the candidate count
	ShowX     bool             // mark extension guesses with x (strict) or X (relaxed)
	Choices   int              // list candidates when at most this many remain
	Palette   *palette.Palette // nil means digits
	Styled    bool             // colors and emphasis
	Hint      string           // optional line printed under the banner
}

// Recorder stores finished rounds.
type Recorder interface {
	Record(ctx context.Context, r history.Result) error
}

// Session is one interactive run over in/out.
type Session struct {
	engine  *game.Engine
	in      io.Reader
	out     io.Writer
	opts    Options
	rec     Recorder
	metrics *metrics.Metrics
	st      styles
}

// NewSession wires a REPL. rec and m may be nil.
func NewSession(e *game.Engine, in io.Reader, out io.Writer, opts Options, rec Recorder, m *metrics.Metrics) *Session {
	if opts.Palette == nil {
		opts.Palette = palette.Digits()
	}
	return &Session{
		engine:  e,
		in:      in,
		out:     out,
		opts:    opts,
		rec:     rec,
		metrics: m,
		st:      newStyles(out, opts.Styled),
	}
}

// errEOF ends the session after the input is exhausted.
var errEOF = errors.New("eof")

// Run plays rounds until the operator quits, input ends or ctx is cancelled.
// Those three endings return nil; other errors are returned as-is.
func (s *Session) Run(ctx context.Context) error {
	lines := readLines(s.in)

	fmt.Fprintln(s.out, s.st.render(s.st.banner, "Master Mind"))
	if s.opts.Hint != "" {
		fmt.Fprintln(s.out, s.opts.Hint)
	}
	fmt.Fprintln(s.out)

	var err error
	for err == nil {
		err = s.playRound(ctx, lines)
	}

	switch {
	case errors.Is(err, errEOF):
		fmt.Fprintln(s.out, "EOF reached")
	case errors.Is(err, ErrQuit), errors.Is(err, context.Canceled):
		fmt.Fprintln(s.out, "Interrupt")
	default:
		return err
	}
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "Goodbye and thanks for playing!")
	return nil
}

func (s *Session) mode() game.Mode {
	if s.opts.Relax {
		return game.ModeRelaxed
	}
	return game.ModeStrict
}

// playRound runs one round to its end. A nil return starts the next round.
func (s *Session) playRound(ctx context.Context, lines <-chan string) error {
	r, err := s.engine.NewRound(ctx, "", s.mode())
	if err != nil {
		return err
	}
	s.metrics.RoundStarted(r.Mode(), history.SourceConsole)
	log.Debug().Str("round", r.ID()).Str("mode", string(r.Mode())).Msg("round started")

	for r.Status() == game.StatusContinuing {
		guess, ext := r.NextGuess()
		count := r.CandidateCount()
		if ext {
			s.metrics.ExtensionGuess(r.Mode())
		}
		if count <= s.opts.Choices {
			s.printCandidates(r.Candidates())
		}

		fb, err := s.ask(ctx, lines, guess, ext, count)
		if err != nil {
			return err
		}
		st, err := r.SubmitFeedback(ctx, fb)
		if err != nil {
			return err
		}
		log.Debug().Str("round", r.ID()).Str("feedback", fb.String()).
			Int("candidates", r.CandidateCount()).Msg("feedback applied")

		switch st {
		case game.StatusSuccess:
			fmt.Fprintln(s.out, s.st.render(s.st.success, " SUCCESS: all black"))
			fmt.Fprintln(s.out)
		case game.StatusContradiction:
			msg := " *** ERROR: No candidates left; I quit!"
			if errors.Is(r.Err(), game.ErrMustBeLast) {
				msg = " *** ERROR: that had to be the right one!!!"
			}
			fmt.Fprintln(s.out, s.st.render(s.st.failure, msg))
		}
	}

	s.finish(ctx, r)
	return nil
}

// ask prompts until a well-formed answer arrives.
func (s *Session) ask(ctx context.Context, lines <-chan string, guess game.Code, ext bool, count int) (game.Feedback, error) {
	prompt := s.prompt(guess, ext, count)
	for {
		fmt.Fprint(s.out, prompt)
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return game.Feedback{}, ctx.Err()
		case l, ok := <-lines:
			if !ok {
				return game.Feedback{}, errEOF
			}
			line = l
		}

		fb, err := ParseFeedback(line)
		if errors.Is(err, ErrQuit) {
			return fb, err
		}
		if err != nil {
			fmt.Fprintln(s.out, err.Error())
			continue
		}
		return fb, nil
	}
}

// prompt renders "Guess <code> result: " with the code right-aligned to a
// fixed width, so successive prompts line up.
func (s *Session) prompt(guess game.Code, ext bool, count int) string {
	p := s.opts.Palette
	plain := p.Format(guess)
	styled := s.st.code(p, guess)
	width := p.Width()

	if s.opts.ShowX {
		width += len(p.Gap()) + 1
		if ext {
			mark := "x"
			if s.opts.Relax {
				mark = "X"
			}
			plain += p.Gap() + mark
			styled += p.Gap() + s.st.render(s.st.failure, mark)
		}
	}
	if s.opts.ShowCount {
		plain = fmt.Sprintf("%4d(%s)", count, plain)
		styled = fmt.Sprintf("%4d(%s)", count, styled)
		width += 6
	}

	pad := ""
	if n := width - len(plain); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	return "Guess " + pad + styled + " result: "
}

func (s *Session) printCandidates(codes []game.Code) {
	var b strings.Builder
	b.WriteString("Remaining candidates:")
	for _, c := range codes {
		b.WriteByte(' ')
		b.WriteString(c.String())
	}
	fmt.Fprintln(s.out, b.String())
}

// finish reports a finished round to metrics and the recorder.
func (s *Session) finish(ctx context.Context, r *game.Round) {
	s.metrics.RoundFinished(r.Mode(), r.Status(), r.Guesses())
	if s.rec == nil {
		return
	}
	if err := s.rec.Record(ctx, history.FromRound(r, history.SourceConsole)); err != nil {
		log.Warn().Err(err).Str("round", r.ID()).Msg("record round")
	}
}

// readLines feeds input lines to a channel that is closed at EOF.
func readLines(in io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			ch <- sc.Text()
		}
	}()
	return ch
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// ------------------------------- styling -----------------------------------

type styles struct {
	enabled  bool
	renderer *lipgloss.Renderer
	banner   lipgloss.Style
	success  lipgloss.Style
	failure  lipgloss.Style
}

func newStyles(out io.Writer, enabled bool) styles {
	r := lipgloss.NewRenderer(out)
	st := styles{
		enabled:  enabled,
		renderer: r,
		banner:   r.NewStyle(),
		success:  r.NewStyle(),
		failure:  r.NewStyle(),
	}
	if enabled {
		st.banner = st.banner.Bold(true)
		st.success = st.success.Foreground(lipgloss.Color("#2ca02c")).Bold(true)
		st.failure = st.failure.Foreground(lipgloss.Color("#d62728"))
	}
	return st
}

func (st styles) render(sty lipgloss.Style, s string) string {
	if !st.enabled {
		return s
	}
	return sty.Render(s)
}

// code renders a guess with each peg in its palette color, when styled.
func (st styles) code(p *palette.Palette, c game.Code) string {
	if !st.enabled {
		return p.Format(c)
	}
	sep := ""
	if p.Kind == palette.KindWords {
		sep = " "
	}
	parts := make([]string, 0, game.Pegs)
	for _, v := range c {
		sty := st.renderer.NewStyle().Bold(true)
		if col := p.Color(v); col != "" {
			sty = sty.Foreground(lipgloss.Color(col))
		}
		parts = append(parts, sty.Render(p.Symbol(v)))
	}
	return strings.Join(parts, sep)
}
