package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/internal/console"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/history"
	"github.com/robalobadob/mastermind/internal/metrics"
	"github.com/robalobadob/mastermind/internal/seed"
)

// runPlay is the default command: the program breaks codes the operator
// holds, one round after another.
func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, true)
	if err != nil {
		return err
	}
	f := cmd.Flags()
	if f.Changed("relax") {
		cfg.Play.Relax = relax
	}
	if f.Changed("show-count") {
		cfg.Play.ShowCount = showCount
	}
	if f.Changed("show-x") || f.Changed("show-extension") {
		cfg.Play.ShowX = showX
	}
	if f.Changed("choices") {
		if choices < 0 {
			return fmt.Errorf("--choices: %d is not a positive number", choices)
		}
		cfg.Play.Choices = choices
	}
	if f.Changed("history") {
		cfg.Play.History = withHistory
	}
	pal, err := choosePalette(cmd, cfg.Play.Palette)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.NewRegistry())
	engine := game.NewEngine(game.NewUniverse(), game.Options{
		Workers:  cfg.Workers,
		Observer: m,
		Seed:     seed.Func(cfg.SeedSalt),
	})

	var rec console.Recorder
	if cfg.Play.History {
		db, err := openHistory(cfg.Database)
		if err != nil {
			return fmt.Errorf("history: %w", err)
		}
		defer db.Close()
		rec = history.NewStore(db)
		log.Debug().Str("path", cfg.Database).Msg("recording rounds")
	}

	opts := console.Options{
		Relax:     cfg.Play.Relax,
		ShowCount: cfg.Play.ShowCount,
		ShowX:     cfg.Play.ShowX,
		Choices:   cfg.Play.Choices,
		Palette:   pal,
		Styled:    console.IsTerminal(os.Stdout),
	}
	if len(os.Args) == 1 {
		opts.Hint = fmt.Sprintf(`Invoke "%s -h" for options and other help`, filepath.Base(os.Args[0]))
	}

	return console.NewSession(engine, os.Stdin, os.Stdout, opts, rec, m).Run(ctx)
}
