// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package lgtable derives the editable template table shown for a dialog:
// which rows and columns to display for the active locale, and which
// mutation to send to the store when a cell is edited.
//
// Everything here is a pure function over an explicit snapshot. Hosts
// re-invoke Build whenever the underlying files change; nothing is cached
// and nothing blocks. Persistence is reached only through MutationSink.
package lgtable

import (
	"encoding/json"

	"lgstudio/internal/models"
)

// Companion is the default-locale body shown next to a row when the active
// locale is not the default one. An empty Body means the template has not
// been localized yet (or the default file is still loading).
type Companion struct {
	Locale string
	Body   string
}

// DisplayRow is one table row. It has no identity beyond Name and is
// rebuilt from scratch on every Build.
type DisplayRow struct {
	Name      string
	Body      string
	Companion *Companion
	Used      bool
}

// MarshalJSON flattens the companion into a "body-<locale>" key, which is
// also the key of the default-locale column.
func (r DisplayRow) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"name": r.Name,
		"body": r.Body,
		"used": r.Used,
	}
	if r.Companion != nil {
		m[CompanionKey(r.Companion.Locale)] = r.Companion.Body
	}
	return json.Marshal(m)
}

// CompanionKey is the column/JSON key for a locale's body.
func CompanionKey(locale string) string {
	return "body-" + locale
}

// Snapshot is everything Build needs, captured at one point in time.
// DefaultFile may be nil while the companion file is unavailable.
// Referenced is nil when no usage scope is selected.
type Snapshot struct {
	ActiveFile    *models.TemplateFile
	DefaultFile   *models.TemplateFile
	ActiveLocale  string
	DefaultLocale string
	Referenced    map[string]bool
}

// Table is the display model for one snapshot.
type Table struct {
	Columns []ColumnSpec `json:"columns"`
	Rows    []DisplayRow `json:"rows"`
}

// Build merges rows, marks usage and plans columns for a snapshot.
func Build(s Snapshot) Table {
	var active, defaults []models.Template
	if s.ActiveFile != nil {
		active = s.ActiveFile.Templates
	}
	if s.DefaultFile != nil && !s.DefaultFile.IsContentUnparsed {
		defaults = s.DefaultFile.Templates
	}

	rows := MergeRows(active, defaults, s.ActiveLocale, s.DefaultLocale)
	hasUsage := s.Referenced != nil
	if hasUsage {
		MarkUsage(rows, s.Referenced)
	}

	return Table{
		Columns: PlanColumns(s.ActiveLocale, s.DefaultLocale, hasUsage),
		Rows:    rows,
	}
}
