// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"lgstudio/internal/lgfile"
	"lgstudio/internal/lgtable"
	"lgstudio/internal/models"
)

var (
	// ErrNameTaken is returned when a mutation would give two templates in
	// one file the same name.
	ErrNameTaken = errors.New("template name already exists in file")
	// ErrTemplateNotFound is returned when a remove or copy names a
	// template the file does not contain.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrFileNotFound is returned by operations that need an existing file.
	ErrFileNotFound = errors.New("lg file not found")
)

// FileStore handles lg files and their templates. It is the mutation sink
// the table core writes through.
type FileStore struct {
	db *sql.DB
}

var _ lgtable.MutationSink = (*FileStore)(nil)

// NewFileStore creates a new FileStore with the given database connection.
func NewFileStore(db *sql.DB) *FileStore {
	return &FileStore{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Get retrieves a file with its templates in display order. Returns nil if
// not found.
func (s *FileStore) Get(ctx context.Context, id string) (*models.TemplateFile, error) {
	return getFile(ctx, s.db, id)
}

func getFile(ctx context.Context, q querier, id string) (*models.TemplateFile, error) {
	f := &models.TemplateFile{}
	err := q.QueryRowContext(ctx, `
		SELECT id, dialog_id, locale, preamble, content, is_content_unparsed, updated_at
		FROM lg_files WHERE id = $1
	`, id).Scan(&f.ID, &f.DialogID, &f.Locale, &f.Preamble, &f.Content, &f.IsContentUnparsed, &f.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find lg file: %w", err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT name, body FROM lg_templates
		WHERE file_id = $1
		ORDER BY position
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Template
		if err := rows.Scan(&t.Name, &t.Body); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		f.Templates = append(f.Templates, t)
	}
	return f, rows.Err()
}

// LoadCompanion returns the dialog's file for locale, or nil if the file
// does not exist. The file may still be unparsed; callers check
// IsContentUnparsed.
func (s *FileStore) LoadCompanion(ctx context.Context, dialogID, locale string) (*models.TemplateFile, error) {
	return s.Get(ctx, models.FileID(dialogID, locale))
}

// ListByDialog returns the dialog's files ordered by locale, without
// their templates.
func (s *FileStore) ListByDialog(ctx context.Context, dialogID string) ([]models.TemplateFile, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, dialog_id, locale, is_content_unparsed, updated_at
		FROM lg_files WHERE dialog_id = $1
		ORDER BY locale
	`, dialogID)
	if err != nil {
		return nil, fmt.Errorf("list lg files: %w", err)
	}
	defer rows.Close()

	var files []models.TemplateFile
	for rows.Next() {
		var f models.TemplateFile
		if err := rows.Scan(&f.ID, &f.DialogID, &f.Locale, &f.IsContentUnparsed, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan lg file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Import stores raw .lg content for a dialog and locale, replacing any
// previous file. The file is left unparsed; EnsureParsed splits it.
func (s *FileStore) Import(ctx context.Context, dialogID, locale, content string) (string, error) {
	id := models.FileID(dialogID, locale)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO lg_files (id, dialog_id, locale, preamble, content, is_content_unparsed)
		VALUES ($1, $2, $3, '', $4, TRUE)
		ON CONFLICT (id) DO UPDATE SET
			preamble = '', content = EXCLUDED.content,
			is_content_unparsed = TRUE, updated_at = NOW()
	`, id, dialogID, locale, content)
	if err != nil {
		return "", fmt.Errorf("import lg file: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM lg_templates WHERE file_id = $1`, id); err != nil {
		return "", fmt.Errorf("clear templates: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit import: %w", err)
	}
	return id, nil
}

// EnsureParsed splits an unparsed file's content into templates and
// returns the parsed file. Already parsed files are returned unchanged.
// Returns nil if the file does not exist.
func (s *FileStore) EnsureParsed(ctx context.Context, id string) (*models.TemplateFile, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var (
		content  string
		unparsed bool
	)
	err = tx.QueryRowContext(ctx, `
		SELECT content, is_content_unparsed FROM lg_files WHERE id = $1 FOR UPDATE
	`, id).Scan(&content, &unparsed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lock lg file: %w", err)
	}

	if unparsed {
		doc, err := lgfile.Parse(content)
		if err != nil {
			return nil, fmt.Errorf("parse lg file %s: %w", id, err)
		}
		for pos, t := range doc.Templates {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO lg_templates (file_id, name, body, position) VALUES ($1, $2, $3, $4)
			`, id, t.Name, t.Body, pos); err != nil {
				return nil, fmt.Errorf("insert parsed template: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE lg_files SET preamble = $1, content = '', is_content_unparsed = FALSE, updated_at = NOW()
			WHERE id = $2
		`, doc.Preamble, id); err != nil {
			return nil, fmt.Errorf("mark lg file parsed: %w", err)
		}
	}

	f, err := getFile(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit parse: %w", err)
	}
	return f, nil
}

// Export renders a file back to .lg content. Unparsed files are returned
// as imported.
func (s *FileStore) Export(ctx context.Context, id string) (string, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if f == nil {
		return "", ErrFileNotFound
	}
	if f.IsContentUnparsed {
		return f.Content, nil
	}
	return lgfile.Format(lgfile.Document{Preamble: f.Preamble, Templates: f.Templates}), nil
}

// UpdateTemplate replaces the named template. A template missing from the
// file is appended instead, which is how a default-locale body gets filled
// in for a template that was never localized. A missing file is created.
func (s *FileStore) UpdateTemplate(ctx context.Context, m lgtable.UpdateTemplate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := ensureFile(ctx, tx, m.FileID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE lg_templates SET name = $1, body = $2
		WHERE file_id = $3 AND name = $4
	`, m.Template.Name, m.Template.Body, m.FileID, m.TemplateName)
	if err != nil {
		return mapWriteErr("update template", err)
	}
	n, _ := res.RowsAffected()
	action := models.RevisionUpdate
	if n == 0 {
		if err := appendTemplate(ctx, tx, m.FileID, m.Template); err != nil {
			return err
		}
		action = models.RevisionCreate
	}

	rev := &models.TemplateRevision{
		FileID:       m.FileID,
		TemplateName: m.Template.Name,
		Body:         m.Template.Body,
		Action:       action,
	}
	if m.TemplateName != m.Template.Name {
		rev.PreviousName = m.TemplateName
	}
	if err := finishMutation(ctx, tx, m.FileID, rev); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateTemplate appends a template to the file, creating the file if needed.
func (s *FileStore) CreateTemplate(ctx context.Context, m lgtable.CreateTemplate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := ensureFile(ctx, tx, m.FileID); err != nil {
		return err
	}
	if err := appendTemplate(ctx, tx, m.FileID, m.Template); err != nil {
		return err
	}
	if err := finishMutation(ctx, tx, m.FileID, &models.TemplateRevision{
		FileID:       m.FileID,
		TemplateName: m.Template.Name,
		Body:         m.Template.Body,
		Action:       models.RevisionCreate,
	}); err != nil {
		return err
	}
	return tx.Commit()
}

// RemoveTemplate deletes the named template from the file.
func (s *FileStore) RemoveTemplate(ctx context.Context, m lgtable.RemoveTemplate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var body string
	err = tx.QueryRowContext(ctx, `
		DELETE FROM lg_templates WHERE file_id = $1 AND name = $2
		RETURNING body
	`, m.FileID, m.TemplateName).Scan(&body)
	if err == sql.ErrNoRows {
		return ErrTemplateNotFound
	}
	if err != nil {
		return fmt.Errorf("remove template: %w", err)
	}

	if err := finishMutation(ctx, tx, m.FileID, &models.TemplateRevision{
		FileID:       m.FileID,
		TemplateName: m.TemplateName,
		Body:         body,
		Action:       models.RevisionRemove,
	}); err != nil {
		return err
	}
	return tx.Commit()
}

// CopyTemplate appends a copy of From named To.
func (s *FileStore) CopyTemplate(ctx context.Context, m lgtable.CopyTemplate) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var body string
	err = tx.QueryRowContext(ctx, `
		SELECT body FROM lg_templates WHERE file_id = $1 AND name = $2
	`, m.FileID, m.From).Scan(&body)
	if err == sql.ErrNoRows {
		return ErrTemplateNotFound
	}
	if err != nil {
		return fmt.Errorf("find copy source: %w", err)
	}

	if err := appendTemplate(ctx, tx, m.FileID, models.Template{Name: m.To, Body: body}); err != nil {
		return err
	}
	if err := finishMutation(ctx, tx, m.FileID, &models.TemplateRevision{
		FileID:       m.FileID,
		TemplateName: m.To,
		PreviousName: m.From,
		Body:         body,
		Action:       models.RevisionCopy,
	}); err != nil {
		return err
	}
	return tx.Commit()
}

// ensureFile creates an empty, parsed file row for id if none exists.
func ensureFile(ctx context.Context, tx *sql.Tx, id string) error {
	dialogID, locale, ok := models.SplitFileID(id)
	if !ok {
		return fmt.Errorf("invalid lg file id %q", id)
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO lg_files (id, dialog_id, locale, is_content_unparsed)
		VALUES ($1, $2, $3, FALSE)
		ON CONFLICT (id) DO NOTHING
	`, id, dialogID, locale)
	if err != nil {
		return fmt.Errorf("ensure lg file: %w", err)
	}
	return nil
}

func appendTemplate(ctx context.Context, tx *sql.Tx, fileID string, t models.Template) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO lg_templates (file_id, name, body, position)
		SELECT $1, $2, $3, COALESCE(MAX(position) + 1, 0)
		FROM lg_templates WHERE file_id = $1
	`, fileID, t.Name, t.Body)
	if err != nil {
		return mapWriteErr("insert template", err)
	}
	return nil
}

// finishMutation bumps the file's timestamp and records a revision.
func finishMutation(ctx context.Context, tx *sql.Tx, fileID string, rev *models.TemplateRevision) error {
	if _, err := tx.ExecContext(ctx, `UPDATE lg_files SET updated_at = NOW() WHERE id = $1`, fileID); err != nil {
		return fmt.Errorf("touch lg file: %w", err)
	}
	return insertRevision(ctx, tx, rev)
}

// mapWriteErr turns a unique violation on (file_id, name) into ErrNameTaken.
func mapWriteErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrNameTaken
	}
	return fmt.Errorf("%s: %w", op, err)
}
