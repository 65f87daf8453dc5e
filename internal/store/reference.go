package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ReferenceStore records which templates a dialog references. A dialog's
// references are the usage scope shown in the table's "Been used" column.
type ReferenceStore struct {
	db *sql.DB
}

// NewReferenceStore creates a new ReferenceStore.
func NewReferenceStore(db *sql.DB) *ReferenceStore {
	return &ReferenceStore{db: db}
}

// ReferencedNames returns the set of template names the dialog references.
// The set is empty, not nil, for a dialog with no references.
func (s *ReferenceStore) ReferencedNames(ctx context.Context, dialogID string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT template_name FROM lg_references WHERE dialog_id = $1
	`, dialogID)
	if err != nil {
		return nil, fmt.Errorf("list references: %w", err)
	}
	defer rows.Close()

	names := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan reference: %w", err)
		}
		names[name] = true
	}
	return names, rows.Err()
}

// SetReferences replaces the dialog's references with names.
func (s *ReferenceStore) SetReferences(ctx context.Context, dialogID string, names []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM lg_references WHERE dialog_id = $1`, dialogID); err != nil {
		return fmt.Errorf("clear references: %w", err)
	}
	for _, name := range names {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO lg_references (dialog_id, template_name) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, dialogID, name); err != nil {
			return fmt.Errorf("insert reference: %w", err)
		}
	}
	return tx.Commit()
}
