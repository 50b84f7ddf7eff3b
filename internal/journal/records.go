package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ddpsdk/internal/services"
	"ddpsdk/internal/services/ddp"
)

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

var _ ddp.Recorder = (*Store)(nil)

// Record inserts one finished operation. Re-recording an id replaces the row.
func (s *Store) Record(ctx context.Context, rec ddp.Record) error {
	if rec.ID == "" {
		return errors.New("journal: record id required")
	}
	startedAt := rec.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	return s.execWithRetry(ctx, `INSERT OR REPLACE INTO invocations
		(id, operation, input, output, started_at, duration_ms, exit_code, outcome, track_count, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Operation,
		rec.Input,
		rec.Output,
		startedAt.UTC().Format(time.RFC3339Nano),
		rec.Duration.Milliseconds(),
		rec.ExitCode,
		string(rec.Outcome),
		rec.TrackCount,
		rec.Error,
	)
}

// List returns the most recent operations, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]ddp.Record, error) {
	ctx = ensureContext(ctx)
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, operation, input, output, started_at, duration_ms,
		exit_code, outcome, track_count, error
		FROM invocations ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list invocations: %w", err)
	}
	defer rows.Close()

	var records []ddp.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invocations: %w", err)
	}
	return records, nil
}

// Get returns one operation by id, or nil when absent.
func (s *Store) Get(ctx context.Context, id string) (*ddp.Record, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT id, operation, input, output, started_at, duration_ms,
		exit_code, outcome, track_count, error
		FROM invocations WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CountByOutcome summarizes the journal.
func (s *Store) CountByOutcome(ctx context.Context) (map[services.Outcome]int, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT outcome, COUNT(1) FROM invocations GROUP BY outcome")
	if err != nil {
		return nil, fmt.Errorf("count invocations: %w", err)
	}
	defer rows.Close()

	counts := make(map[services.Outcome]int)
	for rows.Next() {
		var outcome string
		var count int
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, fmt.Errorf("scan outcome count: %w", err)
		}
		counts[services.Outcome(outcome)] = count
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (ddp.Record, error) {
	var (
		rec        ddp.Record
		startedAt  string
		durationMS int64
		outcome    string
	)
	if err := row.Scan(&rec.ID, &rec.Operation, &rec.Input, &rec.Output, &startedAt, &durationMS,
		&rec.ExitCode, &outcome, &rec.TrackCount, &rec.Error); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, err
		}
		return rec, fmt.Errorf("scan invocation: %w", err)
	}
	if parsed, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
		rec.StartedAt = parsed
	}
	rec.Duration = time.Duration(durationMS) * time.Millisecond
	rec.Outcome = services.Outcome(outcome)
	return rec, nil
}
