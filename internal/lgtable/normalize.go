// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package lgtable

import (
	"strings"

	"lgstudio/internal/models"
)

// Field identifies which template field an edit replaces.
type Field int

const (
	FieldName Field = iota
	FieldBody
)

func (f Field) String() string {
	if f == FieldName {
		return "name"
	}
	return "body"
}

// Edit is a normalized value ready to persist.
type Edit struct {
	Field Field
	Value string
}

// Apply returns t with the edited field replaced.
func (e Edit) Apply(t models.Template) models.Template {
	switch e.Field {
	case FieldName:
		t.Name = e.Value
	case FieldBody:
		t.Body = e.Value
	}
	return t
}

// NormalizeName cleans a name typed into the name cell. The table shows
// names as "#Name", so one leading '#' is dropped. It returns false when
// nothing should be written: the result is empty or equals current.
func NormalizeName(raw, current string) (Edit, bool) {
	name := strings.TrimSpace(raw)
	name = strings.TrimPrefix(name, "#")
	name = strings.TrimSpace(name)
	if name == "" || name == current {
		return Edit{}, false
	}
	return Edit{Field: FieldName, Value: name}, true
}

// NormalizeBody cleans a body typed into a response cell. A body that does
// not start with one of the line markers '-' or '[' becomes a single "- "
// response line. It returns false when nothing should be written.
func NormalizeBody(raw, current string) (Edit, bool) {
	body := strings.TrimSpace(raw)
	if body == "" || body == current {
		return Edit{}, false
	}
	if !strings.HasPrefix(body, "-") && !strings.HasPrefix(body, "[") {
		body = "- " + body
		if body == current {
			return Edit{}, false
		}
	}
	return Edit{Field: FieldBody, Value: body}, true
}
