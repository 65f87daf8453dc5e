// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"lgstudio/internal/models"
)

// ProjectStore handles projects and their locale settings.
type ProjectStore struct {
	db *sql.DB
}

// NewProjectStore creates a new ProjectStore.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

// Get returns the project with its languages in configured order. Returns
// nil if not found.
func (s *ProjectStore) Get(ctx context.Context, id string) (*models.Project, error) {
	p := &models.Project{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, default_language, updated_at FROM lg_projects WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Locales.DefaultLanguage, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT locale FROM lg_project_languages WHERE project_id = $1 ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list project languages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var locale string
		if err := rows.Scan(&locale); err != nil {
			return nil, fmt.Errorf("scan project language: %w", err)
		}
		p.Locales.Languages = append(p.Locales.Languages, locale)
	}
	return p, rows.Err()
}

// Upsert creates or replaces a project and its languages. The locale
// settings must be valid.
func (s *ProjectStore) Upsert(ctx context.Context, p *models.Project) error {
	if err := p.Locales.Validate(); err != nil {
		return fmt.Errorf("upsert project: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO lg_projects (id, name, default_language) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, default_language = EXCLUDED.default_language, updated_at = NOW()
	`, p.ID, p.Name, p.Locales.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("upsert project: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM lg_project_languages WHERE project_id = $1`, p.ID); err != nil {
		return fmt.Errorf("clear project languages: %w", err)
	}
	for i, locale := range p.Locales.Languages {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO lg_project_languages (project_id, locale, position) VALUES ($1, $2, $3)
		`, p.ID, locale, i); err != nil {
			return fmt.Errorf("insert project language: %w", err)
		}
	}
	return tx.Commit()
}
