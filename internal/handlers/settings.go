package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"lgstudio/internal/models"
)

// UpdateProject stores a project's name and locale settings.
func (h *Table) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var p models.Project
	if !decodeJSON(w, r, &p) {
		return
	}
	p.ID = chi.URLParam(r, "projectID")
	p.Name = strings.TrimSpace(p.Name)

	if msg := validateProject(&p); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}
	if err := h.projects.Upsert(r.Context(), &p); err != nil {
		h.fail(w, "update project", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// referencesRequest is the JSON body of PUT .../references.
type referencesRequest struct {
	Templates []string `json:"templates"`
}

// SetReferences replaces the templates a dialog references, which is the
// usage scope the "Been used" column reads.
func (h *Table) SetReferences(w http.ResponseWriter, r *http.Request) {
	var req referencesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := validateReferences(req.Templates); msg != "" {
		writeError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	dialogID := chi.URLParam(r, "dialogID")
	if err := h.refs.SetReferences(r.Context(), dialogID, req.Templates); err != nil {
		h.fail(w, "set references", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
