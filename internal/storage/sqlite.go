// Package storage provides SQLite-based persistence for session results.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// The engine never reads it back; it only serves the results browser.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/live-arcade/internal/meter"
)

// Store manages the SQLite database connection for session results.
type Store struct {
	db *sql.DB
}

// Result is the summary of one finished session.
type Result struct {
	ID           string // ULID, sortable by start time
	ModeID       string
	Score        int
	Counters     meter.Counters
	Participants int
	Viewers      int // Participants that were not ambient bots
	Boosts       int
	Winner       string // Display name of the top participant, if any
	WinnerScore  int
	StartedAt    time.Time
	Duration     time.Duration
	CreatedAt    time.Time
}

// Stats aggregates every stored session of a mode.
type Stats struct {
	Sessions   int
	BestScore  int
	TotalLikes int
	TotalGifts int
	TotalCoins int
	TotalTime  time.Duration
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			mode_id TEXT NOT NULL,
			score INTEGER NOT NULL DEFAULT 0,
			chats INTEGER NOT NULL DEFAULT 0,
			likes INTEGER NOT NULL DEFAULT 0,
			gifts INTEGER NOT NULL DEFAULT 0,
			joins INTEGER NOT NULL DEFAULT 0,
			shares INTEGER NOT NULL DEFAULT 0,
			coins INTEGER NOT NULL DEFAULT 0,
			participants INTEGER NOT NULL DEFAULT 0,
			viewers INTEGER NOT NULL DEFAULT 0,
			boosts INTEGER NOT NULL DEFAULT 0,
			winner TEXT,
			winner_score INTEGER NOT NULL DEFAULT 0,
			started_at_ms INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_mode_id ON sessions(mode_id);
		CREATE INDEX IF NOT EXISTS idx_sessions_top ON sessions(mode_id, score DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// NewID returns a session id ordered by the session start time.
func NewID(started time.Time) string {
	return ulid.MustNew(ulid.Timestamp(started), ulid.DefaultEntropy()).String()
}

// SaveResult records a finished session and returns its id. A result
// without an id gets one derived from its start time.
func (s *Store) SaveResult(r Result) (string, error) {
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now()
	}
	if r.ID == "" {
		r.ID = NewID(r.StartedAt)
	}
	_, err := s.db.Exec(
		`INSERT INTO sessions
		 (id, mode_id, score, chats, likes, gifts, joins, shares, coins,
		  participants, viewers, boosts, winner, winner_score, started_at_ms, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.ModeID,
		r.Score,
		r.Counters.Chats,
		r.Counters.Likes,
		r.Counters.Gifts,
		r.Counters.Joins,
		r.Counters.Shares,
		r.Counters.Coins,
		r.Participants,
		r.Viewers,
		r.Boosts,
		r.Winner,
		r.WinnerScore,
		r.StartedAt.UnixMilli(),
		r.Duration.Milliseconds(),
	)
	if err != nil {
		return "", fmt.Errorf("storage: cannot save result: %w", err)
	}
	return r.ID, nil
}

const resultColumns = `id, mode_id, score, chats, likes, gifts, joins, shares, coins,
		participants, viewers, boosts, winner, winner_score, started_at_ms, duration_ms, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (Result, error) {
	var r Result
	var winner sql.NullString
	var startedMS, durationMS int64
	var createdAt any
	err := row.Scan(
		&r.ID,
		&r.ModeID,
		&r.Score,
		&r.Counters.Chats,
		&r.Counters.Likes,
		&r.Counters.Gifts,
		&r.Counters.Joins,
		&r.Counters.Shares,
		&r.Counters.Coins,
		&r.Participants,
		&r.Viewers,
		&r.Boosts,
		&winner,
		&r.WinnerScore,
		&startedMS,
		&durationMS,
		&createdAt,
	)
	if err != nil {
		return r, err
	}
	if winner.Valid {
		r.Winner = winner.String
	}
	r.StartedAt = time.UnixMilli(startedMS)
	r.Duration = time.Duration(durationMS) * time.Millisecond
	r.CreatedAt = parseTime(createdAt)
	return r, nil
}

// parseTime handles both time.Time and the SQLite text form.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func (s *Store) queryResults(query string, args ...any) ([]Result, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return results, nil
}

// RecentResults retrieves the most recently started sessions.
func (s *Store) RecentResults(limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryResults(
		`SELECT `+resultColumns+`
		 FROM sessions
		 ORDER BY id DESC
		 LIMIT ?`,
		limit,
	)
}

// TopResults retrieves the best-scoring sessions of a mode.
// An empty mode id ranks every mode together.
func (s *Store) TopResults(modeID string, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryResults(
		`SELECT `+resultColumns+`
		 FROM sessions
		 WHERE ? = '' OR mode_id = ?
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		modeID, modeID, limit,
	)
}

// ResultByID retrieves one session. Returns nil if it does not exist.
func (s *Store) ResultByID(id string) (*Result, error) {
	r, err := scanResult(s.db.QueryRow(
		`SELECT `+resultColumns+`
		 FROM sessions
		 WHERE id = ?`,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query result: %w", err)
	}
	return &r, nil
}

// ModeStats aggregates the stored sessions of a mode.
// An empty mode id aggregates every mode.
func (s *Store) ModeStats(modeID string) (Stats, error) {
	var st Stats
	var best, likes, gifts, coins, ms sql.NullInt64
	err := s.db.QueryRow(
		`SELECT COUNT(*), MAX(score), SUM(likes), SUM(gifts), SUM(coins), SUM(duration_ms)
		 FROM sessions
		 WHERE ? = '' OR mode_id = ?`,
		modeID, modeID,
	).Scan(&st.Sessions, &best, &likes, &gifts, &coins, &ms)
	if err != nil {
		return st, fmt.Errorf("storage: cannot query stats: %w", err)
	}
	st.BestScore = int(best.Int64)
	st.TotalLikes = int(likes.Int64)
	st.TotalGifts = int(gifts.Int64)
	st.TotalCoins = int(coins.Int64)
	st.TotalTime = time.Duration(ms.Int64) * time.Millisecond
	return st, nil
}

// ClearResults deletes the stored sessions of a mode.
func (s *Store) ClearResults(modeID string) error {
	_, err := s.db.Exec("DELETE FROM sessions WHERE mode_id = ?", modeID)
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}
