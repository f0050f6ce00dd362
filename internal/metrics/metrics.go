// internal/metrics/metrics.go
//
// Prometheus metrics for the codebreaker.
//   - Minimax scan latency and sizes (implements game.Observer).
//   - Round lifecycle: started, finished by status, guesses per solved round.
//   - Active rounds held by the HTTP service.
//
// A nil *Metrics is valid and records nothing.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/robalobadob/mastermind/internal/game"
)

const namespace = "mastermind"

type Metrics struct {
	selectLatency    prometheus.Histogram
	selectCandidates prometheus.Histogram
	poolSize         prometheus.Histogram
	roundsStarted    *prometheus.CounterVec
	roundsFinished   *prometheus.CounterVec
	guesses          *prometheus.HistogramVec
	extensions       *prometheus.CounterVec
	activeRounds     prometheus.Gauge
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		selectLatency: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "selector",
			Name:      "scan_seconds",
			Help:      "Time to score the universe against a candidate set",
			Buckets:   []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		selectCandidates: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "selector",
			Name:      "candidates",
			Help:      "Candidate set size per scan",
			Buckets:   []float64{3, 5, 10, 25, 50, 100, 250, 500, 1296},
		}),
		poolSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "selector",
			Name:      "pool_size",
			Help:      "Number of codes attaining the minimax value",
			Buckets:   []float64{1, 2, 5, 10, 25, 50, 100, 250},
		}),
		roundsStarted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rounds",
			Name:      "started_total",
			Help:      "Rounds started",
		}, []string{"mode", "source"}),
		roundsFinished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rounds",
			Name:      "finished_total",
			Help:      "Rounds finished by status",
		}, []string{"mode", "status"}),
		guesses: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rounds",
			Name:      "guesses",
			Help:      "Guesses needed by solved rounds",
			Buckets:   []float64{1, 2, 3, 4, 5, 6, 7, 8},
		}, []string{"mode"}),
		extensions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rounds",
			Name:      "extension_guesses_total",
			Help:      "Guesses made with a code that cannot be the secret",
		}, []string{"mode"}),
		activeRounds: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "rounds",
			Name:      "active",
			Help:      "Rounds held in memory by the HTTP service",
		}),
	}
}

// ObserveSelection implements game.Observer.
func (m *Metrics) ObserveSelection(candidates, minWorst, poolSize int, took time.Duration) {
	if m == nil {
		return
	}
	m.selectLatency.Observe(took.Seconds())
	m.selectCandidates.Observe(float64(candidates))
	m.poolSize.Observe(float64(poolSize))
}

func (m *Metrics) RoundStarted(mode game.Mode, source string) {
	if m == nil {
		return
	}
	m.roundsStarted.WithLabelValues(string(mode), source).Inc()
}

// RoundFinished counts a finished round; guesses only feed the histogram on success.
func (m *Metrics) RoundFinished(mode game.Mode, st game.Status, guesses int) {
	if m == nil {
		return
	}
	m.roundsFinished.WithLabelValues(string(mode), string(st)).Inc()
	if st == game.StatusSuccess {
		m.guesses.WithLabelValues(string(mode)).Observe(float64(guesses))
	}
}

func (m *Metrics) ExtensionGuess(mode game.Mode) {
	if m == nil {
		return
	}
	m.extensions.WithLabelValues(string(mode)).Inc()
}

func (m *Metrics) SetActiveRounds(n int) {
	if m == nil {
		return
	}
	m.activeRounds.Set(float64(n))
}

var _ game.Observer = (*Metrics)(nil)
