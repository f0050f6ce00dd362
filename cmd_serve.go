package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/httpserver"
	"github.com/robalobadob/mastermind/internal/metrics"
	"github.com/robalobadob/mastermind/internal/palette"
	"github.com/robalobadob/mastermind/internal/seed"
	"github.com/robalobadob/mastermind/internal/store"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve rounds over HTTP to a remote oracle",
	Long: `Starts the HTTP service. A client holds the secret code and answers each
guess with black and white counts; the service proposes the guesses.

Environment: PORT, DATABASE_PATH, JWT_SECRET, CLIENT_ORIGIN, SEED_SALT,
LOG_LEVEL, MASTERMIND_WORKERS (a .env file is read when present).`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (overrides PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, false)
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Server.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	if err := palette.Init(); err != nil {
		log.Fatal().Err(err).Msg("failed to load palettes")
	}

	db, err := openHistory(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database).Msg("open database")
	}
	defer db.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	engine := game.NewEngine(game.NewUniverse(), game.Options{
		Workers:  cfg.Workers,
		Observer: m,
		Seed:     seed.Func(cfg.SeedSalt),
	})
	// warm the relaxed-mode opening before the first request
	if _, err := engine.Opening(cmd.Context()); err != nil {
		return err
	}

	srv := httpserver.New(httpserver.Deps{
		Engine:   engine,
		Store:    store.NewMemoryStore(),
		DB:       db,
		Config:   cfg.Server,
		Metrics:  m,
		Gatherer: reg,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("port", cfg.Server.Port).Str("db", cfg.Database).Msg("starting mastermind server")
	if err := srv.Start(ctx, ":"+cfg.Server.Port); err != nil {
		log.Error().Err(err).Msg("server exited")
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
