// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"lgstudio/internal/models"
)

// templateRevisionColumns lists all columns for lg_template_revisions SELECTs.
const templateRevisionColumns = `id, file_id, template_name, previous_name, body, action, created_at`

// RevisionStore provides read access to template revisions. Revisions are
// written by FileStore inside each mutation's transaction.
type RevisionStore struct {
	db *sql.DB
}

// NewRevisionStore creates a new RevisionStore backed by the given database.
func NewRevisionStore(db *sql.DB) *RevisionStore {
	return &RevisionStore{db: db}
}

// scanTemplateRevision scans a single lg_template_revisions row.
func scanTemplateRevision(scanner interface{ Scan(...any) error }) (*models.TemplateRevision, error) {
	var r models.TemplateRevision
	err := scanner.Scan(
		&r.ID, &r.FileID, &r.TemplateName, &r.PreviousName,
		&r.Body, &r.Action, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func insertRevision(ctx context.Context, tx *sql.Tx, rev *models.TemplateRevision) error {
	if rev.ID == uuid.Nil {
		rev.ID = uuid.New()
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO lg_template_revisions (id, file_id, template_name, previous_name, body, action)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rev.ID, rev.FileID, rev.TemplateName, rev.PreviousName, rev.Body, rev.Action)
	if err != nil {
		return fmt.Errorf("insert template revision: %w", err)
	}
	return nil
}

// ListByTemplate returns all revisions of a template in a file, newest
// first. Revisions made under a previous name are not followed.
func (s *RevisionStore) ListByTemplate(ctx context.Context, fileID, name string) ([]*models.TemplateRevision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+templateRevisionColumns+`
		FROM lg_template_revisions
		WHERE file_id = $1 AND template_name = $2
		ORDER BY created_at DESC
	`, fileID, name)
	if err != nil {
		return nil, fmt.Errorf("list template revisions: %w", err)
	}
	defer rows.Close()

	var revisions []*models.TemplateRevision
	for rows.Next() {
		r, err := scanTemplateRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template revision: %w", err)
		}
		revisions = append(revisions, r)
	}
	return revisions, rows.Err()
}

// FindByID returns a single template revision by its ID. Returns nil if
// not found.
func (s *RevisionStore) FindByID(ctx context.Context, id uuid.UUID) (*models.TemplateRevision, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+templateRevisionColumns+`
		FROM lg_template_revisions
		WHERE id = $1
	`, id)
	r, err := scanTemplateRevision(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template revision: %w", err)
	}
	return r, nil
}
