package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"lgstudio/internal/lgtable"
	"lgstudio/internal/notify"
	"lgstudio/internal/preview"
)

// CreateTemplate adds a template with a free "TemplateName" name to the
// active locale's file.
func (h *Table) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	v, err := h.load(r, true)
	if err != nil {
		h.fail(w, "load table", err)
		return
	}

	t, err := lgtable.AddTemplate(r.Context(), h.files, v.fileID, v.snap.ActiveFile.Names())
	if err != nil {
		h.fail(w, "create template", err)
		return
	}

	h.afterMutation(r.Context(), v.fileID, notify.EventTemplateCreated, map[string]any{
		"file":     v.fileID,
		"template": t.Name,
	})
	writeJSON(w, http.StatusCreated, map[string]any{
		"fileId":   v.fileID,
		"template": t,
	})
}

// CopyTemplate duplicates a template under a free "<name>_Copy" name.
func (h *Table) CopyTemplate(w http.ResponseWriter, r *http.Request) {
	name := templateParam(r)
	v, err := h.load(r, true)
	if err != nil {
		h.fail(w, "load table", err)
		return
	}
	if v.snap.ActiveFile.Find(name) == nil {
		writeError(w, http.StatusNotFound, "Template not found.")
		return
	}

	to, err := lgtable.DuplicateTemplate(r.Context(), h.files, v.fileID, v.snap.ActiveFile.Names(), name)
	if err != nil {
		h.fail(w, "copy template", err)
		return
	}

	h.afterMutation(r.Context(), v.fileID, notify.EventTemplateCopied, map[string]any{
		"file":     v.fileID,
		"template": name,
		"name":     to,
	})
	writeJSON(w, http.StatusCreated, map[string]any{
		"fileId": v.fileID,
		"name":   to,
	})
}

// DeleteTemplate removes a template from the active locale's file.
func (h *Table) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	name := templateParam(r)
	v, err := h.load(r, true)
	if err != nil {
		h.fail(w, "load table", err)
		return
	}
	if v.snap.ActiveFile.Find(name) == nil {
		writeError(w, http.StatusNotFound, "Template not found.")
		return
	}

	if err := lgtable.DeleteTemplate(r.Context(), h.files, v.fileID, name); err != nil {
		h.fail(w, "delete template", err)
		return
	}

	h.afterMutation(r.Context(), v.fileID, notify.EventTemplateRemoved, map[string]any{
		"file":     v.fileID,
		"template": name,
	})
	w.WriteHeader(http.StatusNoContent)
}

// PreviewTemplate renders a template body of the active locale as HTML.
func (h *Table) PreviewTemplate(w http.ResponseWriter, r *http.Request) {
	name := templateParam(r)
	v, err := h.load(r, false)
	if err != nil {
		h.fail(w, "load table", err)
		return
	}
	t := v.snap.ActiveFile.Find(name)
	if t == nil {
		writeError(w, http.StatusNotFound, "Template not found.")
		return
	}

	html, err := preview.Render(t.Body)
	if err != nil {
		slog.Error("preview render failed", "template", name, "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error.")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

// templateParam returns the {name} URL parameter, unescaped.
func templateParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}
