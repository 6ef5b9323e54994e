package action

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Repository defines the interface for dispatch audit persistence.
// This abstraction allows different implementations (SQLite, mock)
// and enables unit testing without database dependencies.
type Repository interface {
	Create(ctx context.Context, rec *DispatchRecord) error
	GetByID(ctx context.Context, id string) (*DispatchRecord, error)
	List(ctx context.Context, limit int) ([]DispatchRecord, error)
	ListByAction(ctx context.Context, action string, limit int) ([]DispatchRecord, error)
}

// dispatchColumns is the SELECT column list for dispatch log queries.
const dispatchColumns = `id, action, participant_id, category, handler_category,
			outcome, target, error, duration_ms, created_at`

// defaultListLimit caps audit queries that don't specify a limit.
const defaultListLimit = 100

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed dispatch log repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Create inserts a dispatch record.
func (r *SQLiteRepository) Create(ctx context.Context, rec *DispatchRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO dispatch_log (
			id, action, participant_id, category, handler_category,
			outcome, target, error, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID,
		rec.Action,
		nullableString(rec.ParticipantID),
		nullableString(rec.Category),
		nullableString(rec.HandlerCategory),
		rec.Outcome,
		nullableString(rec.Target),
		rec.Error,
		rec.DurationMS,
		rec.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting dispatch record: %w", err)
	}
	return nil
}

// GetByID retrieves a dispatch record by its identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*DispatchRecord, error) {
	query := `SELECT ` + dispatchColumns + ` FROM dispatch_log WHERE id = ?`

	rec, err := scanDispatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDispatchNotFound
		}
		return nil, fmt.Errorf("querying dispatch by id: %w", err)
	}
	return rec, nil
}

// List retrieves the most recent dispatch records, newest first.
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]DispatchRecord, error) {
	query := `SELECT ` + dispatchColumns + ` FROM dispatch_log ORDER BY created_at DESC LIMIT ?`
	return r.queryDispatches(ctx, query, clampLimit(limit))
}

// ListByAction retrieves recent dispatch records for one action, newest first.
func (r *SQLiteRepository) ListByAction(ctx context.Context, action string, limit int) ([]DispatchRecord, error) {
	query := `SELECT ` + dispatchColumns + ` FROM dispatch_log WHERE action = ? ORDER BY created_at DESC LIMIT ?`
	return r.queryDispatches(ctx, query, action, clampLimit(limit))
}

// queryDispatches runs a multi-row dispatch query.
func (r *SQLiteRepository) queryDispatches(ctx context.Context, query string, args ...any) ([]DispatchRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying dispatch log: %w", err)
	}
	defer rows.Close()

	var records []DispatchRecord
	for rows.Next() {
		rec, scanErr := scanDispatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scanning dispatch record: %w", scanErr)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating dispatch log: %w", err)
	}
	return records, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for shared scanning.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDispatch scans one dispatch record from a row.
func scanDispatch(row rowScanner) (*DispatchRecord, error) {
	var (
		rec             DispatchRecord
		participantID   sql.NullString
		category        sql.NullString
		handlerCategory sql.NullString
		target          sql.NullString
		errMsg          sql.NullString
		createdAt       string
	)

	err := row.Scan(
		&rec.ID,
		&rec.Action,
		&participantID,
		&category,
		&handlerCategory,
		&rec.Outcome,
		&target,
		&errMsg,
		&rec.DurationMS,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	rec.ParticipantID = participantID.String
	rec.Category = category.String
	rec.HandlerCategory = handlerCategory.String
	rec.Target = target.String
	if errMsg.Valid {
		rec.Error = &errMsg.String
	}

	ts, parseErr := time.Parse(time.RFC3339Nano, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, parseErr)
	}
	rec.CreatedAt = ts

	return &rec, nil
}

// nullableString converts an empty string to NULL for storage.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// clampLimit applies the default limit when the caller's is unusable.
func clampLimit(limit int) int {
	if limit <= 0 || limit > defaultListLimit {
		return defaultListLimit
	}
	return limit
}
