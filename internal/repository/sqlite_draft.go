package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/deeg9/rfqengine/internal/engine"
)

// SQLiteDraftRepo implements DraftRepo using a SQLite database.
type SQLiteDraftRepo struct {
	db *sql.DB
}

// NewSQLiteDraftRepo creates a new SQLiteDraftRepo.
func NewSQLiteDraftRepo(db *sql.DB) *SQLiteDraftRepo {
	return &SQLiteDraftRepo{db: db}
}

// Save upserts a draft. A draft without an ID gets one assigned.
func (r *SQLiteDraftRepo) Save(ctx context.Context, d *Draft) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := nowUTC()
	query := `INSERT INTO drafts (id, form_id, name, answers, step, score, band, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			answers = excluded.answers,
			step = excluded.step,
			score = excluded.score,
			band = excluded.band,
			updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		d.ID,
		d.FormID,
		d.Name,
		string(d.Answers),
		d.Step,
		d.Score,
		string(d.Band),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("saving draft: %w", err)
	}
	return nil
}

func (r *SQLiteDraftRepo) GetByID(ctx context.Context, id string) (*Draft, error) {
	query := `SELECT id, form_id, name, answers, step, score, band, created_at, updated_at
		FROM drafts WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	d, err := scanDraft(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("draft %q: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return d, nil
}

func (r *SQLiteDraftRepo) ListByForm(ctx context.Context, formID string) ([]*Draft, error) {
	query := `SELECT id, form_id, name, answers, step, score, band, created_at, updated_at
		FROM drafts WHERE form_id = ? ORDER BY updated_at DESC`
	return r.queryDrafts(ctx, query, formID)
}

func (r *SQLiteDraftRepo) List(ctx context.Context) ([]*Draft, error) {
	query := `SELECT id, form_id, name, answers, step, score, band, created_at, updated_at
		FROM drafts ORDER BY updated_at DESC`
	return r.queryDrafts(ctx, query)
}

func (r *SQLiteDraftRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting draft: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("draft %q: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteDraftRepo) queryDrafts(ctx context.Context, query string, args ...any) ([]*Draft, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing drafts: %w", err)
	}
	defer rows.Close()

	var drafts []*Draft
	for rows.Next() {
		d, err := scanDraft(rows.Scan)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating drafts: %w", err)
	}
	return drafts, nil
}

func scanDraft(scan func(dest ...any) error) (*Draft, error) {
	d := &Draft{}
	var answersStr, bandStr, createdAtStr, updatedAtStr string
	err := scan(
		&d.ID, &d.FormID, &d.Name, &answersStr,
		&d.Step, &d.Score, &bandStr,
		&createdAtStr, &updatedAtStr,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scanning draft: %w", err)
	}
	d.Answers = []byte(answersStr)
	d.Band = engine.Band(bandStr)

	var parseErr error
	d.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	d.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return d, nil
}
