package repository

import (
	"context"
	"database/sql"
	"fmt"

	"ga-reports/internal/domain"
)

// FieldRepo implements domain.FieldRepository over the SQLite catalog.
type FieldRepo struct {
	db *sql.DB
}

// NewFieldRepo creates a new FieldRepo.
func NewFieldRepo(db *sql.DB) *FieldRepo {
	return &FieldRepo{db: db}
}

var _ domain.FieldRepository = (*FieldRepo)(nil)

// ReplaceAll swaps the whole catalog for the given definitions. The delete
// and all inserts run in one transaction, so readers either see the previous
// catalog or the new one, never the empty window in between.
func (r *FieldRepo) ReplaceAll(ctx context.Context, fields []domain.FieldDefinition) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog replace: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM ga_fields`); err != nil {
		return fmt.Errorf("clear ga_fields: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ga_fields (gaid, type, data_type, column_group, ui_name, description, calculation)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare ga_fields insert: %w", err)
	}
	defer stmt.Close() //nolint:errcheck

	for _, f := range fields {
		if _, err := stmt.ExecContext(ctx,
			f.ID, string(f.Kind), f.DataType, f.Group, f.UIName, f.Description,
			nullStrFromPtr(f.Calculation),
		); err != nil {
			return fmt.Errorf("insert field %q: %w", f.ID, mapDBError(err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit catalog replace: %w", err)
	}
	return nil
}

// Get returns the definition for a field ID.
func (r *FieldRepo) Get(ctx context.Context, id string) (*domain.FieldDefinition, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT gaid, type, data_type, column_group, ui_name, description, calculation
		FROM ga_fields WHERE gaid = ?`, id)

	f, err := scanField(row)
	if err != nil {
		return nil, mapDBError(err)
	}
	return f, nil
}

// GetAll returns the whole catalog keyed by field ID.
func (r *FieldRepo) GetAll(ctx context.Context) (map[string]domain.FieldDefinition, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT gaid, type, data_type, column_group, ui_name, description, calculation
		FROM ga_fields`)
	if err != nil {
		return nil, fmt.Errorf("query ga_fields: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	fields := make(map[string]domain.FieldDefinition)
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, err
		}
		fields[f.ID] = *f
	}
	return fields, rows.Err()
}

// List returns a page of the catalog ordered by field ID.
func (r *FieldRepo) List(ctx context.Context, page domain.PageRequest) ([]domain.FieldDefinition, int64, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT gaid, type, data_type, column_group, ui_name, description, calculation
		FROM ga_fields ORDER BY gaid LIMIT ? OFFSET ?`,
		page.Limit(), page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list ga_fields: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var fields []domain.FieldDefinition
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, 0, err
		}
		fields = append(fields, *f)
	}
	return fields, total, rows.Err()
}

// Count returns the number of catalog entries.
func (r *FieldRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ga_fields`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count ga_fields: %w", err)
	}
	return count, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanField(s scanner) (*domain.FieldDefinition, error) {
	var f domain.FieldDefinition
	var kind string
	var calculation sql.NullString
	if err := s.Scan(&f.ID, &kind, &f.DataType, &f.Group, &f.UIName, &f.Description, &calculation); err != nil {
		return nil, err
	}
	f.Kind = domain.FieldKind(kind)
	f.Calculation = ptrFromNullStr(calculation)
	return &f, nil
}
