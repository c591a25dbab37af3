// Package history persists finished rounds to SQLite so the answer history
// survives restarts. Persistence happens after the terminal event is emitted;
// a write failure is logged and never reaches the progress stream.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/leandrotocalini/quorum/internal/council"
)

// Round is one persisted round with its full response list.
type Round struct {
	ID     string                  `json:"id"`
	Result council.AggregateResult `json:"result"`
}

// Summary is the list view of a round, without response bodies.
type Summary struct {
	ID           string    `json:"id"`
	Query        string    `json:"query"`
	ModelCount   int       `json:"modelCount"`
	SuccessCount int       `json:"successCount"`
	TotalCostUSD float64   `json:"totalCostUsd"`
	DurationMS   int64     `json:"durationMs"`
	CompletedAt  time.Time `json:"completedAt"`
}

// Store is a SQLite-backed round archive.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the history database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS rounds (
			id             TEXT PRIMARY KEY,
			query          TEXT NOT NULL,
			synthesis      TEXT NOT NULL,
			model_count    INTEGER NOT NULL,
			success_count  INTEGER NOT NULL,
			total_cost_usd REAL NOT NULL,
			has_estimated  INTEGER NOT NULL DEFAULT 0,
			duration_ms    INTEGER NOT NULL,
			synthesizer    TEXT NOT NULL DEFAULT '',
			completed_at   TEXT NOT NULL,
			responses      TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create rounds table: %w", err)
	}

	return &Store{db: db}, nil
}

// SaveRound archives one finished round and returns its ID.
func (s *Store) SaveRound(res *council.AggregateResult) (string, error) {
	responses, err := json.Marshal(res.Responses)
	if err != nil {
		return "", fmt.Errorf("marshal responses: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.Exec(
		`INSERT INTO rounds (id, query, synthesis, model_count, success_count, total_cost_usd, has_estimated, duration_ms, synthesizer, completed_at, responses)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, res.Query, res.Synthesis, res.ModelCount, res.SuccessCount,
		res.TotalCostUSD, boolToInt(res.HasEstimatedCosts), res.DurationMS,
		res.SynthesizerModel, res.CompletedAt.Format(time.RFC3339Nano), string(responses),
	)
	if err != nil {
		return "", fmt.Errorf("insert round: %w", err)
	}
	return id, nil
}

// ListRounds returns the most recent rounds, newest first.
func (s *Store) ListRounds(limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, query, model_count, success_count, total_cost_usd, duration_ms, completed_at
		 FROM rounds ORDER BY completed_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sm Summary
		var completedAt string
		if err := rows.Scan(&sm.ID, &sm.Query, &sm.ModelCount, &sm.SuccessCount, &sm.TotalCostUSD, &sm.DurationMS, &completedAt); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		sm.CompletedAt, _ = time.Parse(time.RFC3339Nano, completedAt)
		out = append(out, sm)
	}
	return out, rows.Err()
}

// GetRound loads one round by ID. Returns nil, nil when not found.
func (s *Store) GetRound(id string) (*Round, error) {
	row := s.db.QueryRow(
		`SELECT query, synthesis, model_count, success_count, total_cost_usd, has_estimated, duration_ms, synthesizer, completed_at, responses
		 FROM rounds WHERE id = ?`, id,
	)

	var r Round
	r.ID = id
	var hasEstimated int
	var completedAt, responses string
	err := row.Scan(&r.Result.Query, &r.Result.Synthesis, &r.Result.ModelCount,
		&r.Result.SuccessCount, &r.Result.TotalCostUSD, &hasEstimated,
		&r.Result.DurationMS, &r.Result.SynthesizerModel, &completedAt, &responses)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get round: %w", err)
	}

	r.Result.HasEstimatedCosts = hasEstimated != 0
	r.Result.CompletedAt, _ = time.Parse(time.RFC3339Nano, completedAt)
	if err := json.Unmarshal([]byte(responses), &r.Result.Responses); err != nil {
		return nil, fmt.Errorf("parse responses: %w", err)
	}
	return &r, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
