// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package lgtable

import (
	"context"

	"lgstudio/internal/models"
)

// UpdateTemplate replaces the template called TemplateName in FileID.
type UpdateTemplate struct {
	FileID       string
	TemplateName string
	Template     models.Template
}

// CreateTemplate appends a template to FileID.
type CreateTemplate struct {
	FileID   string
	Template models.Template
}

// RemoveTemplate deletes a template from FileID.
type RemoveTemplate struct {
	FileID       string
	TemplateName string
}

// CopyTemplate duplicates From as To inside FileID.
type CopyTemplate struct {
	FileID string
	From   string
	To     string
}

// MutationSink persists table mutations. Errors belong to the host.
type MutationSink interface {
	UpdateTemplate(ctx context.Context, m UpdateTemplate) error
	CreateTemplate(ctx context.Context, m CreateTemplate) error
	RemoveTemplate(ctx context.Context, m RemoveTemplate) error
	CopyTemplate(ctx context.Context, m CopyTemplate) error
}

// TargetFile picks the file an edit applies to: the default-locale column
// writes to the default file, every other column to the active file.
func TargetFile(role Role, activeFileID, defaultFileID string) string {
	if role == RoleDefaultLocaleBody {
		return defaultFileID
	}
	return activeFileID
}

// Dispatch sends edit, merged over current, to fileID. Callers must have
// dropped no-op edits already.
func Dispatch(ctx context.Context, sink MutationSink, fileID string, current models.Template, edit Edit) error {
	return sink.UpdateTemplate(ctx, UpdateTemplate{
		FileID:       fileID,
		TemplateName: current.Name,
		Template:     edit.Apply(current),
	})
}

// AddTemplate creates a new template with a free name and returns it.
func AddTemplate(ctx context.Context, sink MutationSink, fileID string, existing []string) (models.Template, error) {
	t := models.Template{Name: NewTemplateName(existing), Body: NewTemplateBody}
	if err := sink.CreateTemplate(ctx, CreateTemplate{FileID: fileID, Template: t}); err != nil {
		return models.Template{}, err
	}
	return t, nil
}

// DuplicateTemplate copies from under a free "_Copy" name and returns the
// new name.
func DuplicateTemplate(ctx context.Context, sink MutationSink, fileID string, existing []string, from string) (string, error) {
	to := CopyName(existing, from)
	if err := sink.CopyTemplate(ctx, CopyTemplate{FileID: fileID, From: from, To: to}); err != nil {
		return "", err
	}
	return to, nil
}

// DeleteTemplate removes name from fileID.
func DeleteTemplate(ctx context.Context, sink MutationSink, fileID, name string) error {
	return sink.RemoveTemplate(ctx, RemoveTemplate{FileID: fileID, TemplateName: name})
}

// CellEdit normalizes raw as typed into row's cell under role. It returns
// the template the edit is merged over: the active template for name and
// body cells, the default-locale template for the default-locale cell. It
// returns false for no-op edits and for cells that are not editable.
func CellEdit(role Role, row DisplayRow, raw string) (models.Template, Edit, bool) {
	current := models.Template{Name: row.Name, Body: row.Body}

	switch role {
	case RoleName:
		e, ok := NormalizeName(raw, row.Name)
		return current, e, ok
	case RolePrimaryBody, RoleLocalizedBody:
		e, ok := NormalizeBody(raw, row.Body)
		return current, e, ok
	case RoleDefaultLocaleBody:
		if row.Companion == nil {
			return models.Template{}, Edit{}, false
		}
		current.Body = row.Companion.Body
		e, ok := NormalizeBody(raw, current.Body)
		return current, e, ok
	default:
		return models.Template{}, Edit{}, false
	}
}
