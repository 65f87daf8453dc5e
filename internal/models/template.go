// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"
)

// Template is a single named language-generation template inside one
// locale file. Name is unique within its file; Body is opaque text,
// normally one or more "- " prefixed response lines.
type Template struct {
	Name string `json:"name"`
	Body string `json:"body"`
}

// TemplateFile is the set of templates a dialog owns for one locale.
// Files are created by import and parsed lazily: while IsContentUnparsed
// is true only Content is populated and Templates is empty.
type TemplateFile struct {
	ID                string     `json:"id"`
	DialogID          string     `json:"dialog_id"`
	Locale            string     `json:"locale"`
	Templates         []Template `json:"templates"`
	Preamble          string     `json:"preamble,omitempty"`
	Content           string     `json:"content,omitempty"`
	IsContentUnparsed bool       `json:"is_content_unparsed"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// FileID returns the canonical id for a dialog's file in the given locale,
// e.g. "main.en-us".
func FileID(dialogID, locale string) string {
	return dialogID + "." + locale
}

// SplitFileID is the inverse of FileID. The locale is everything after the
// last dot, so dialog ids may themselves contain dots.
func SplitFileID(id string) (dialogID, locale string, ok bool) {
	i := strings.LastIndexByte(id, '.')
	if i <= 0 || i == len(id)-1 {
		return "", "", false
	}
	return id[:i], id[i+1:], true
}

// Names returns the template names in file order.
func (f *TemplateFile) Names() []string {
	if f == nil {
		return nil
	}
	names := make([]string, len(f.Templates))
	for i, t := range f.Templates {
		names[i] = t.Name
	}
	return names
}

// Find returns the template with the given name, or nil.
func (f *TemplateFile) Find(name string) *Template {
	if f == nil {
		return nil
	}
	for i := range f.Templates {
		if f.Templates[i].Name == name {
			return &f.Templates[i]
		}
	}
	return nil
}
