// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug turns arbitrary strings into dialog ids and reads the
// dialog and locale out of .lg file names.
package slug

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

var (
	// disallowed matches anything that isn't a letter, digit, space,
	// underscore or hyphen.
	disallowed = regexp.MustCompile(`[^a-z0-9\s_-]`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a dialog id from the given string. Underscores are
// kept, since dialog names commonly use them.
// Example: "Add To-Do Item!" → "add-to-do-item", "add_item" → "add_item"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = disallowed.ReplaceAllString(result, "")
	result = strings.Join(strings.Fields(result), "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}

// FromFileName splits an .lg file name of the form "<dialog>.<locale>.lg"
// into a dialog id and a locale code. The locale must be a valid BCP 47
// tag; the dialog part goes through Generate.
func FromFileName(path string) (dialogID, locale string, ok bool) {
	base := filepath.Base(path)
	if !strings.EqualFold(filepath.Ext(base), ".lg") {
		return "", "", false
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))

	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return "", "", false
	}
	locale = strings.ToLower(base[i+1:])
	if _, err := language.Parse(locale); err != nil {
		return "", "", false
	}
	dialogID = Generate(base[:i])
	if dialogID == "" {
		return "", "", false
	}
	return dialogID, locale, true
}
