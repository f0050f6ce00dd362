// internal/httpserver/server.go
//
// HTTP server wiring for the Master Mind codebreaker.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics", /history/*.
//   - Round endpoints (optional auth): /round/new, /round/feedback, /round/{id}.
//   - Auth + profile/stat endpoints (require auth): /auth/*, /stats/me, /rounds/mine.
//   - Background eviction of idle rounds from the in-memory store.
//
// Notes:
//   - CORS is origin‑aware and credentials‑enabled (so cookies work).
//   - The remote client is the oracle: it holds the secret and answers each
//     guess with black/white counts. The server never sees the secret.

package httpserver

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/mastermind/internal/config"
	"github.com/robalobadob/mastermind/internal/game"
	"github.com/robalobadob/mastermind/internal/history"
	"github.com/robalobadob/mastermind/internal/metrics"
	"github.com/robalobadob/mastermind/internal/store"
)

// Deps are the collaborators a Server needs. Metrics and Gatherer may be nil.
type Deps struct {
	Engine   *game.Engine
	Store    store.Store
	DB       *sql.DB
	Config   config.Server
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// Server bundles router, engine, in-memory round store, and DB handle.
type Server struct {
	r        *chi.Mux
	engine   *game.Engine
	store    store.Store
	db       *sql.DB
	history  *history.Store
	cfg      config.Server
	metrics  *metrics.Metrics
	validate *validator.Validate
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	s := &Server{
		r:        chi.NewRouter(),
		engine:   d.Engine,
		store:    d.Store,
		db:       d.DB,
		history:  history.NewStore(d.DB),
		cfg:      d.Config,
		metrics:  d.Metrics,
		validate: validator.New(),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)
	s.r.Use(cors(d.Config.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"mastermind","endpoints":["/health","/metrics","POST /round/new","POST /round/feedback","GET /round/{id}","/history/*","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	if d.Gatherer != nil {
		s.r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	// Rounds: OPTIONAL AUTH (guests can play)
	s.mountRounds(s.r.With(s.withOptionalAuth()))

	// Aggregate history: public
	s.mountHistory(s.r)

	// Auth + profile/stats (require auth)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start serves HTTP on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 5 * time.Second}

	go s.sweepLoop(ctx, 10*time.Minute)

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// sweepLoop evicts rounds idle for longer than the configured TTL.
func (s *Server) sweepLoop(ctx context.Context, every time.Duration) {
	if s.cfg.RoundTTL <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.store.Sweep(ctx, now.Add(-s.cfg.RoundTTL)); n > 0 {
				log.Info().Int("evicted", n).Msg("swept idle rounds")
			}
			s.metrics.SetActiveRounds(s.store.Len())
		}
	}
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
