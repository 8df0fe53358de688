package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deeg9/rfqengine/internal/blueprint"
	"github.com/deeg9/rfqengine/internal/engine"
)

// SQLiteBlueprintRepo implements BlueprintRepo using a SQLite database.
// Blueprint definitions and completeness configs are stored as JSON
// documents keyed by form id.
type SQLiteBlueprintRepo struct {
	db *sql.DB
}

// NewSQLiteBlueprintRepo creates a new SQLiteBlueprintRepo.
func NewSQLiteBlueprintRepo(db *sql.DB) *SQLiteBlueprintRepo {
	return &SQLiteBlueprintRepo{db: db}
}

func (r *SQLiteBlueprintRepo) Put(ctx context.Context, rec *BlueprintRecord) error {
	definition, err := json.Marshal(rec.Blueprint)
	if err != nil {
		return fmt.Errorf("marshaling blueprint: %w", err)
	}
	var config interface{}
	if rec.Config != nil {
		data, err := json.Marshal(rec.Config)
		if err != nil {
			return fmt.Errorf("marshaling completeness config: %w", err)
		}
		config = string(data)
	}

	now := nowUTC()
	query := `INSERT INTO blueprints (form_id, title, category, definition, config, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(form_id) DO UPDATE SET
			title = excluded.title,
			category = excluded.category,
			definition = excluded.definition,
			config = excluded.config,
			updated_at = excluded.updated_at`
	_, err = r.db.ExecContext(ctx, query,
		rec.Blueprint.FormID,
		rec.Blueprint.Title,
		rec.Blueprint.Category,
		string(definition),
		config,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("upserting blueprint: %w", err)
	}
	return nil
}

func (r *SQLiteBlueprintRepo) GetByFormID(ctx context.Context, formID string) (*BlueprintRecord, error) {
	query := `SELECT definition, config, created_at, updated_at FROM blueprints WHERE form_id = ?`
	row := r.db.QueryRowContext(ctx, query, formID)

	var definition string
	var config sql.NullString
	var createdAtStr, updatedAtStr string
	if err := row.Scan(&definition, &config, &createdAtStr, &updatedAtStr); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("blueprint %q: %w", formID, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning blueprint: %w", err)
	}
	return buildBlueprintRecord(definition, config, createdAtStr, updatedAtStr)
}

func (r *SQLiteBlueprintRepo) List(ctx context.Context) ([]*BlueprintRecord, error) {
	query := `SELECT definition, config, created_at, updated_at FROM blueprints ORDER BY form_id`
	return r.queryRecords(ctx, query)
}

func (r *SQLiteBlueprintRepo) ListByCategory(ctx context.Context, category string) ([]*BlueprintRecord, error) {
	query := `SELECT definition, config, created_at, updated_at FROM blueprints WHERE category = ? ORDER BY form_id`
	return r.queryRecords(ctx, query, category)
}

func (r *SQLiteBlueprintRepo) Delete(ctx context.Context, formID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blueprints WHERE form_id = ?`, formID)
	if err != nil {
		return fmt.Errorf("deleting blueprint: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("blueprint %q: %w", formID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteBlueprintRepo) queryRecords(ctx context.Context, query string, args ...any) ([]*BlueprintRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing blueprints: %w", err)
	}
	defer rows.Close()

	var records []*BlueprintRecord
	for rows.Next() {
		var definition string
		var config sql.NullString
		var createdAtStr, updatedAtStr string
		if err := rows.Scan(&definition, &config, &createdAtStr, &updatedAtStr); err != nil {
			return nil, fmt.Errorf("scanning blueprint: %w", err)
		}
		rec, err := buildBlueprintRecord(definition, config, createdAtStr, updatedAtStr)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating blueprints: %w", err)
	}
	return records, nil
}

func buildBlueprintRecord(definition string, config sql.NullString, createdAtStr, updatedAtStr string) (*BlueprintRecord, error) {
	rec := &BlueprintRecord{}
	if err := json.Unmarshal([]byte(definition), &rec.Blueprint); err != nil {
		return nil, fmt.Errorf("parsing blueprint definition: %w", err)
	}
	if config.Valid && config.String != "" {
		cfg, err := engine.ParseConfig([]byte(config.String))
		if err != nil {
			return nil, fmt.Errorf("parsing completeness config: %w", err)
		}
		rec.Config = cfg
	}

	var parseErr error
	rec.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	rec.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAtStr)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}
	return rec, nil
}

// Index rebuilds the navigable index for a stored record, re-running
// blueprint validation so a corrupt row cannot reach the wizard.
func (rec *BlueprintRecord) Index() (*blueprint.Index, error) {
	return blueprint.FromBlueprint(&rec.Blueprint)
}
