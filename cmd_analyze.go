package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/internal/console"
	"github.com/robalobadob/mastermind/internal/game"
)

var (
	analyzeOpenings bool
	analyzeTop      int
	analyzePool     int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [GUESS:BW ...]",
	Short: "Show the minimax choice after a sequence of guesses and answers",
	Long: `Replays guess/answer pairs against all 1296 codes and prints, after each
step, the remaining candidates, the best worst case, the pool of guesses
attaining it and the guess the strict rule picks.

Examples:
  mastermind analyze                    # the opening position
  mastermind analyze 1122:11 1134:30    # two steps into a round
  mastermind analyze --openings --top 5 # rank first guesses by worst case`,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.BoolVar(&analyzeOpenings, "openings", false, "rank every first guess by its worst case")
	f.IntVar(&analyzeTop, "top", 10, "rows shown by --openings")
	f.IntVar(&analyzePool, "pool", 12, "pool members listed per step (0 for all)")
}

// step is one parsed GUESS:BW argument.
type step struct {
	guess game.Code
	fb    game.Feedback
}

func parseStep(arg string) (step, error) {
	g, b, ok := strings.Cut(arg, ":")
	if !ok {
		return step{}, fmt.Errorf("%q: want GUESS:BW, e.g. 1122:11", arg)
	}
	guess, err := game.ParseCode(g)
	if err != nil {
		return step{}, fmt.Errorf("%q: %w", arg, err)
	}
	fb, err := console.ParseFeedback(b)
	if err != nil {
		return step{}, fmt.Errorf("%q: %w", arg, err)
	}
	return step{guess: guess, fb: fb}, nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd, true); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	u := game.NewUniverse()

	if analyzeOpenings {
		if len(args) > 0 {
			return fmt.Errorf("--openings takes no GUESS:BW arguments")
		}
		rankOpenings(out, u, analyzeTop)
		return nil
	}

	steps := make([]step, 0, len(args))
	for _, a := range args {
		s, err := parseStep(a)
		if err != nil {
			return err
		}
		steps = append(steps, s)
	}

	sel := game.NewSelector(u, 0, nil)
	cands := u.All()
	report := func(label string) error {
		fmt.Fprintf(out, "%s: %d candidates\n", label, cands.Len())
		if cands.Len() == 0 {
			fmt.Fprintln(out, "  no candidates left")
			return nil
		}
		s, err := sel.Select(cmd.Context(), cands)
		if err != nil {
			return err
		}
		pick, ext := game.Strict{}.Pick(s.Pool, cands)
		note := ""
		if ext {
			note = " (cannot be the code)"
		}
		fmt.Fprintf(out, "  worst case %d, pool %d: %s\n", s.MinWorst, s.Pool.Len(), listCodes(s.Pool.Codes(), analyzePool))
		fmt.Fprintf(out, "  strict choice %s%s\n", pick, note)
		return nil
	}

	if err := report("start"); err != nil {
		return err
	}
	for _, st := range steps {
		if st.fb == game.Win {
			fmt.Fprintf(out, "after %s:%s: solved\n", st.guess, st.fb)
			return nil
		}
		guess, fb := st.guess, st.fb
		cands = cands.Filter(func(c game.Code) bool { return game.Score(c, guess) == fb })
		if err := report(fmt.Sprintf("after %s:%s", guess, fb)); err != nil {
			return err
		}
		if cands.Len() == 0 {
			return nil
		}
	}
	return nil
}

func listCodes(codes []game.Code, limit int) string {
	var b strings.Builder
	for i, c := range codes {
		if limit > 0 && i == limit {
			fmt.Fprintf(&b, " ... (%d more)", len(codes)-limit)
			break
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(c.String())
	}
	return b.String()
}

type opening struct {
	code  game.Code
	worst int
}

// rankOpenings scores every code against the full universe.
func rankOpenings(out io.Writer, u *game.Universe, top int) {
	all := u.All()
	codes := u.Codes()
	ranked := make([]opening, 0, len(codes))

	bar := progressbar.Default(int64(len(codes)), "scoring openings")
	for _, c := range codes {
		ranked = append(ranked, opening{code: c, worst: game.WorstCase(c, all)})
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].worst < ranked[j].worst })
	if top <= 0 || top > len(ranked) {
		top = len(ranked)
	}
	fmt.Fprintf(out, "%-6s %s\n", "guess", "worst case")
	for _, o := range ranked[:top] {
		fmt.Fprintf(out, "%-6s %d\n", o.code, o.worst)
	}
}
