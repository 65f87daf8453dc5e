// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers for lgstudio. The Table
// handler group serves a dialog's template table and turns cell edits into
// store mutations through the lgtable core.
package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"lgstudio/internal/lgtable"
	"lgstudio/internal/models"
	"lgstudio/internal/notify"
	"lgstudio/internal/store"
)

// FileRepo is the part of store.FileStore the handlers use.
type FileRepo interface {
	lgtable.MutationSink
	Get(ctx context.Context, id string) (*models.TemplateFile, error)
	EnsureParsed(ctx context.Context, id string) (*models.TemplateFile, error)
}

// ProjectRepo reads and writes project locale settings.
type ProjectRepo interface {
	Get(ctx context.Context, id string) (*models.Project, error)
	Upsert(ctx context.Context, p *models.Project) error
}

// ReferenceRepo reads and writes a dialog's template references.
type ReferenceRepo interface {
	ReferencedNames(ctx context.Context, dialogID string) (map[string]bool, error)
	SetReferences(ctx context.Context, dialogID string, names []string) error
}

// FileCache caches parsed files between requests.
type FileCache interface {
	Get(ctx context.Context, id string) (*models.TemplateFile, bool)
	Set(ctx context.Context, f *models.TemplateFile)
	Invalidate(ctx context.Context, id string)
}

// Table groups the template table handlers and their dependencies.
type Table struct {
	files    FileRepo
	projects ProjectRepo
	refs     ReferenceRepo
	cache    FileCache
	notifier notify.Notifier
	defaults models.LocaleSettings

	// parsing holds the ids of files being parsed in the background.
	parsing sync.Map
	wg      sync.WaitGroup
}

// NewTable creates a Table handler group. cache may be nil to disable
// file caching; a nil notifier logs events. defaults are the locale
// settings of projects that have none stored.
func NewTable(files FileRepo, projects ProjectRepo, refs ReferenceRepo, cache FileCache, notifier notify.Notifier, defaults models.LocaleSettings) *Table {
	if notifier == nil {
		notifier = notify.Log{}
	}
	return &Table{
		files:    files,
		projects: projects,
		refs:     refs,
		cache:    cache,
		notifier: notifier,
		defaults: defaults,
	}
}

// Wait blocks until background parses started by requests have finished.
func (h *Table) Wait() {
	h.wg.Wait()
}

// view is one request's snapshot plus the file ids edits are routed to.
type view struct {
	snap          lgtable.Snapshot
	fileID        string
	defaultFileID string
	// defaultPending is set while the default-locale file exists but has
	// not been parsed yet.
	defaultPending bool
}

// tableResponse is the JSON body of GET .../table.
type tableResponse struct {
	lgtable.Table
	Locale         string `json:"locale"`
	DefaultLocale  string `json:"defaultLocale"`
	FileID         string `json:"fileId"`
	DefaultFileID  string `json:"defaultFileId"`
	DefaultPending bool   `json:"defaultPending,omitempty"`
}

// Show renders the table for a dialog in the requested locale. An
// unparsed default-locale file is parsed in the background; until then
// the table shows empty companions.
func (h *Table) Show(w http.ResponseWriter, r *http.Request) {
	v, err := h.load(r, false)
	if err != nil {
		h.fail(w, "load table", err)
		return
	}

	writeJSON(w, http.StatusOK, tableResponse{
		Table:          lgtable.Build(v.snap),
		Locale:         v.snap.ActiveLocale,
		DefaultLocale:  v.snap.DefaultLocale,
		FileID:         v.fileID,
		DefaultFileID:  v.defaultFileID,
		DefaultPending: v.defaultPending,
	})
}

// cellRequest is the JSON body of PATCH .../table.
type cellRequest struct {
	Template string `json:"template"`
	Column   string `json:"column"`
	Value    string `json:"value"`
}

// EditCell applies one cell edit. No-op edits answer 204 and write nothing.
func (h *Table) EditCell(w http.ResponseWriter, r *http.Request) {
	var req cellRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	// Always edit against the stored state, never a cached copy, so the
	// no-op check compares with what is really persisted.
	v, err := h.load(r, true)
	if err != nil {
		h.fail(w, "load table", err)
		return
	}
	table := lgtable.Build(v.snap)

	role, ok := lgtable.RoleForKey(table.Columns, req.Column)
	if !ok || role == lgtable.RoleUsage || role == lgtable.RoleActions {
		writeError(w, http.StatusBadRequest, "Column is not editable.")
		return
	}
	row := findRow(table.Rows, req.Template)
	if row == nil {
		writeError(w, http.StatusNotFound, "Template not found.")
		return
	}

	current, edit, changed := lgtable.CellEdit(role, *row, req.Value)
	if !changed {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if msg := validateEdit(edit); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if role == lgtable.RoleDefaultLocaleBody && v.defaultPending {
		writeError(w, http.StatusConflict, "The default-locale file is still loading.")
		return
	}

	fileID := lgtable.TargetFile(role, v.fileID, v.defaultFileID)
	if err := lgtable.Dispatch(r.Context(), h.files, fileID, current, edit); err != nil {
		h.fail(w, "update template", err)
		return
	}

	updated := edit.Apply(current)
	h.afterMutation(r.Context(), fileID, notify.EventTemplateUpdated, map[string]any{
		"file":     fileID,
		"template": current.Name,
		"field":    edit.Field.String(),
		"name":     updated.Name,
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"fileId":   fileID,
		"template": updated,
	})
}

// load builds the request's snapshot from the project's locale settings,
// the ?locale= and ?usage= query parameters, and the stored files. fresh
// bypasses the file cache.
func (h *Table) load(r *http.Request, fresh bool) (*view, error) {
	ctx := r.Context()
	projectID := chi.URLParam(r, "projectID")
	dialogID := chi.URLParam(r, "dialogID")

	settings, err := h.localeSettings(ctx, projectID)
	if err != nil {
		return nil, err
	}
	active := settings.Resolve(r.URL.Query().Get("locale"))

	v := &view{
		snap: lgtable.Snapshot{
			ActiveLocale:  active,
			DefaultLocale: settings.DefaultLanguage,
		},
		fileID:        models.FileID(dialogID, active),
		defaultFileID: models.FileID(dialogID, settings.DefaultLanguage),
	}

	v.snap.ActiveFile, err = h.activeFile(ctx, v.fileID, fresh)
	if err != nil {
		return nil, err
	}

	if v.defaultFileID == v.fileID {
		v.snap.DefaultFile = v.snap.ActiveFile
	} else {
		def, err := h.loadFile(ctx, v.defaultFileID, fresh)
		if err != nil {
			return nil, err
		}
		if def != nil && def.IsContentUnparsed {
			v.defaultPending = true
			h.parseInBackground(ctx, v.defaultFileID)
			def = nil
		}
		v.snap.DefaultFile = def
	}

	if scope := r.URL.Query().Get("usage"); scope != "" {
		v.snap.Referenced, err = h.refs.ReferencedNames(ctx, scope)
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}

// localeSettings returns the project's settings, or the configured
// defaults when the project has none stored.
func (h *Table) localeSettings(ctx context.Context, projectID string) (models.LocaleSettings, error) {
	p, err := h.projects.Get(ctx, projectID)
	if err != nil {
		return models.LocaleSettings{}, err
	}
	if p == nil {
		return h.defaults, nil
	}
	return p.Locales, nil
}

// activeFile loads the file being edited, parsing it first if needed.
func (h *Table) activeFile(ctx context.Context, id string, fresh bool) (*models.TemplateFile, error) {
	f, err := h.loadFile(ctx, id, fresh)
	if err != nil || f == nil || !f.IsContentUnparsed {
		return f, err
	}

	f, err = h.files.EnsureParsed(ctx, id)
	if err != nil {
		return nil, err
	}
	if f != nil && h.cache != nil {
		h.cache.Set(ctx, f)
	}
	h.notifier.Notify(ctx, notify.EventFileParsed, map[string]any{"file": id})
	return f, nil
}

// loadFile reads a file through the cache. Returns nil if not found.
func (h *Table) loadFile(ctx context.Context, id string, fresh bool) (*models.TemplateFile, error) {
	if !fresh && h.cache != nil {
		if f, ok := h.cache.Get(ctx, id); ok {
			return f, nil
		}
	}

	f, err := h.files.Get(ctx, id)
	if err != nil || f == nil {
		return nil, err
	}
	if h.cache != nil {
		h.cache.Set(ctx, f)
	}
	return f, nil
}

// parseInBackground parses a file without holding up the request. At most
// one parse per file runs at a time.
func (h *Table) parseInBackground(ctx context.Context, id string) {
	if _, busy := h.parsing.LoadOrStore(id, struct{}{}); busy {
		return
	}
	ctx = context.WithoutCancel(ctx)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer h.parsing.Delete(id)

		f, err := h.files.EnsureParsed(ctx, id)
		if err != nil {
			slog.Warn("background parse failed", "file", id, "error", err)
			return
		}
		if f == nil {
			return
		}
		if h.cache != nil {
			h.cache.Invalidate(ctx, id)
		}
		h.notifier.Notify(ctx, notify.EventFileParsed, map[string]any{
			"file":      id,
			"templates": len(f.Templates),
		})
	}()
}

// afterMutation drops the file from the cache and announces the event.
func (h *Table) afterMutation(ctx context.Context, fileID, event string, detail map[string]any) {
	if h.cache != nil {
		h.cache.Invalidate(ctx, fileID)
	}
	h.notifier.Notify(ctx, event, detail)
}

// fail maps store errors to HTTP statuses.
func (h *Table) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, store.ErrNameTaken):
		writeError(w, http.StatusConflict, "A template with that name already exists.")
	case errors.Is(err, store.ErrTemplateNotFound):
		writeError(w, http.StatusNotFound, "Template not found.")
	case errors.Is(err, store.ErrFileNotFound):
		writeError(w, http.StatusNotFound, "File not found.")
	default:
		slog.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error.")
	}
}

func findRow(rows []lgtable.DisplayRow, name string) *lgtable.DisplayRow {
	for i := range rows {
		if rows[i].Name == name {
			return &rows[i]
		}
	}
	return nil
}
