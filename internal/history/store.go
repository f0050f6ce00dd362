package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robalobadob/mastermind/internal/game"
)

// Source names where a round was played.
const (
	SourceConsole = "console"
	SourceHTTP    = "http"
)

// Result is one finished round as stored in the rounds table.
type Result struct {
	RoundID    string      `json:"roundId"`
	UserID     string      `json:"userId,omitempty"`
	AnonID     string      `json:"-"`
	Source     string      `json:"source"`
	Mode       game.Mode   `json:"mode"`
	Status     game.Status `json:"status"`
	Reason     string      `json:"reason,omitempty"`
	Guesses    int         `json:"guesses"`
	Secret     string      `json:"secret,omitempty"`
	Turns      []game.Turn `json:"turns,omitempty"`
	StartedAt  time.Time   `json:"startedAt"`
	FinishedAt time.Time   `json:"finishedAt"`
}

// FromRound snapshots a round. The caller sets the owner fields.
func FromRound(r *game.Round, source string) Result {
	res := Result{
		RoundID:    r.ID(),
		Source:     source,
		Mode:       r.Mode(),
		Status:     r.Status(),
		Guesses:    r.Guesses(),
		Turns:      r.Turns(),
		StartedAt:  r.StartedAt(),
		FinishedAt: r.FinishedAt(),
	}
	if c, ok := r.Secret(); ok {
		res.Secret = c.String()
	}
	if err := r.Err(); err != nil {
		res.Reason = err.Error()
	}
	return res
}

// Summary aggregates rounds of one mode (or all modes).
type Summary struct {
	Mode           string  `json:"mode,omitempty"`
	Rounds         int     `json:"rounds"`
	Solved         int     `json:"solved"`
	Contradictions int     `json:"contradictions"`
	AvgGuesses     float64 `json:"avgGuesses"`
	MaxGuesses     int     `json:"maxGuesses"`
}

// Bucket counts solved rounds that took Guesses guesses.
type Bucket struct {
	Guesses int `json:"guesses"`
	Rounds  int `json:"rounds"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts or replaces a finished round.
func (s *Store) Record(ctx context.Context, r Result) error {
	turns, err := json.Marshal(r.Turns)
	if err != nil {
		return fmt.Errorf("encode turns: %w", err)
	}
	if r.Source == "" {
		r.Source = SourceConsole
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO rounds
			(id, user_id, anonymous_id, source, mode, status, reason, guesses, secret, turns, started_at, finished_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		r.RoundID, nullable(r.UserID), nullable(r.AnonID), r.Source, string(r.Mode), string(r.Status),
		nullable(r.Reason), r.Guesses, nullable(r.Secret), string(turns),
		r.StartedAt.UTC().Format(time.RFC3339), nullableTime(r.FinishedAt),
	)
	return err
}

// Recent returns the newest rounds owned by a user or anonymous id.
func (s *Store) Recent(ctx context.Context, owner string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, COALESCE(user_id,''), source, mode, status, COALESCE(reason,''), guesses,
		       COALESCE(secret,''), turns, started_at, COALESCE(finished_at,'')
		FROM rounds
		WHERE user_id=? OR anonymous_id=?
		ORDER BY started_at DESC, id
		LIMIT ?`, owner, owner, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Result{}
	for rows.Next() {
		var (
			r                 Result
			mode, status      string
			turns             string
			started, finished string
		)
		if err := rows.Scan(&r.RoundID, &r.UserID, &r.Source, &mode, &status, &r.Reason, &r.Guesses,
			&r.Secret, &turns, &started, &finished); err != nil {
			return nil, err
		}
		r.Mode, r.Status = game.Mode(mode), game.Status(status)
		if err := json.Unmarshal([]byte(turns), &r.Turns); err != nil {
			return nil, fmt.Errorf("decode turns of %s: %w", r.RoundID, err)
		}
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Summary aggregates all rounds, or only those of mode when it is non-empty.
func (s *Store) Summary(ctx context.Context, mode string) (Summary, error) {
	sum := Summary{Mode: mode}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1),
		       COALESCE(SUM(status='success'),0),
		       COALESCE(SUM(status='contradiction'),0),
		       COALESCE(AVG(CASE WHEN status='success' THEN guesses END),0.0),
		       COALESCE(MAX(CASE WHEN status='success' THEN guesses END),0)
		FROM rounds
		WHERE ?='' OR mode=?`, mode, mode,
	).Scan(&sum.Rounds, &sum.Solved, &sum.Contradictions, &sum.AvgGuesses, &sum.MaxGuesses)
	return sum, err
}

// Distribution counts solved rounds per guess count, ascending.
func (s *Store) Distribution(ctx context.Context, mode string) ([]Bucket, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT guesses, COUNT(1)
		FROM rounds
		WHERE status='success' AND (?='' OR mode=?)
		GROUP BY guesses
		ORDER BY guesses`, mode, mode,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Bucket{}
	for rows.Next() {
		var b Bucket
		if err := rows.Scan(&b.Guesses, &b.Rounds); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ClaimAnon transfers anonymous rounds to a user account.
func (s *Store) ClaimAnon(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE rounds SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	return err
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// parseTime parses RFC3339 timestamps; on error returns zero time.
func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
