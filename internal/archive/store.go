// Package archive indexes saved sessions in SQLite so totals can be
// reported across every session ever played.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/magic8ball/internal/db"
	"github.com/ziadkadry99/magic8ball/internal/oracle"
	"github.com/ziadkadry99/magic8ball/internal/record"
)

// ErrNotFound is returned when a session is not in the archive.
var ErrNotFound = errors.New("session not archived")

// Session is an archived session without its answers.
type Session struct {
	ID             string
	StartTime      time.Time
	EndTime        time.Time
	TotalQuestions int
	FilePath       string
}

// Totals aggregates every archived session.
type Totals struct {
	Sessions  int
	Questions int
	Stats     oracle.Stats
}

// Store provides archive operations on top of the database.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Add archives rec, replacing any previous archive of the same session.
func (s *Store) Add(ctx context.Context, rec *record.Record, filePath string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning archive transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"answers", "session_stats"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE session_id = ?`, rec.SessionID); err != nil {
			return fmt.Errorf("clearing archived %s of %s: %w", table, rec.SessionID, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, rec.SessionID); err != nil {
		return fmt.Errorf("clearing archived session %s: %w", rec.SessionID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions (id, start_time, end_time, total_questions, file_path)
		VALUES (?, ?, ?, ?, ?)`,
		rec.SessionID,
		formatTime(rec.StartTime),
		formatTime(rec.EndTime),
		rec.TotalQuestions,
		filePath,
	)
	if err != nil {
		return fmt.Errorf("inserting session %s: %w", rec.SessionID, err)
	}

	for i, e := range rec.History {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO answers (id, session_id, seq, question, answer, asked_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), rec.SessionID, i+1, e.Question, e.Answer, formatTime(e.Timestamp),
		)
		if err != nil {
			return fmt.Errorf("inserting answer %d of session %s: %w", i+1, rec.SessionID, err)
		}
	}

	for _, cat := range oracle.Categories {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO session_stats (session_id, category, count) VALUES (?, ?, ?)`,
			rec.SessionID, string(cat), rec.Stats[cat],
		)
		if err != nil {
			return fmt.Errorf("inserting %s stats of session %s: %w", cat, rec.SessionID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing archive of session %s: %w", rec.SessionID, err)
	}
	return nil
}

// List returns archived sessions, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Session, error) {
	query := `SELECT id, start_time, end_time, total_questions, file_path FROM sessions ORDER BY start_time DESC`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var (
			sess       Session
			start, end string
		)
		if err := rows.Scan(&sess.ID, &start, &end, &sess.TotalQuestions, &sess.FilePath); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if sess.StartTime, err = parseTime(start); err != nil {
			return nil, err
		}
		if sess.EndTime, err = parseTime(end); err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// Get returns the archived session with the given ID.
func (s *Store) Get(ctx context.Context, id string) (*Session, error) {
	var (
		sess       Session
		start, end string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, start_time, end_time, total_questions, file_path
		FROM sessions WHERE id = ?`, id).Scan(&sess.ID, &start, &end, &sess.TotalQuestions, &sess.FilePath)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying session %s: %w", id, err)
	}
	if sess.StartTime, err = parseTime(start); err != nil {
		return nil, err
	}
	if sess.EndTime, err = parseTime(end); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Stats returns the per-category counts archived for a session.
func (s *Store) Stats(ctx context.Context, id string) (oracle.Stats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT category, count FROM session_stats WHERE session_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("querying stats of %s: %w", id, err)
	}
	defer rows.Close()

	stats := oracle.Stats{}
	for rows.Next() {
		var (
			cat   string
			count int
		)
		if err := rows.Scan(&cat, &count); err != nil {
			return nil, fmt.Errorf("scanning stats: %w", err)
		}
		stats[oracle.Category(cat)] = count
	}
	return stats, rows.Err()
}

// Answers returns the archived answers of a session in order.
func (s *Store) Answers(ctx context.Context, sessionID string) ([]oracle.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question, answer, asked_at FROM answers
		WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying answers of %s: %w", sessionID, err)
	}
	defer rows.Close()

	var out []oracle.Entry
	for rows.Next() {
		var (
			e     oracle.Entry
			asked string
		)
		if err := rows.Scan(&e.Question, &e.Answer, &asked); err != nil {
			return nil, fmt.Errorf("scanning answer: %w", err)
		}
		if e.Timestamp, err = parseTime(asked); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Totals sums questions and per-category counts over every archived session.
func (s *Store) Totals(ctx context.Context) (Totals, error) {
	t := Totals{Stats: oracle.Stats{}}
	for _, cat := range oracle.Categories {
		t.Stats[cat] = 0
	}

	var questions sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*), SUM(total_questions) FROM sessions`).Scan(&t.Sessions, &questions)
	if err != nil {
		return t, fmt.Errorf("counting sessions: %w", err)
	}
	t.Questions = int(questions.Int64)

	rows, err := s.db.QueryContext(ctx, `SELECT category, SUM(count) FROM session_stats GROUP BY category`)
	if err != nil {
		return t, fmt.Errorf("summing stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cat   string
			count int
		)
		if err := rows.Scan(&cat, &count); err != nil {
			return t, fmt.Errorf("scanning stats: %w", err)
		}
		t.Stats[oracle.Category(cat)] = count
	}
	return t, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", time.DateTime} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing archived time %q", s)
}

// Load rebuilds the full record of an archived session.
func (s *Store) Load(ctx context.Context, id string) (*record.Record, error) {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.Answers(ctx, id)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []oracle.Entry{}
	}
	stats, err := s.Stats(ctx, id)
	if err != nil {
		return nil, err
	}
	return &record.Record{
		SessionID:      sess.ID,
		StartTime:      sess.StartTime,
		EndTime:        sess.EndTime,
		TotalQuestions: sess.TotalQuestions,
		Stats:          stats,
		History:        history,
	}, nil
}
