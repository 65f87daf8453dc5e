// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"slices"
	"time"

	"golang.org/x/text/language"
)

// LocaleSettings lists the locales a project is authored in and which one
// is the fallback. Codes are kept exactly as configured ("en-us"), since
// file ids and column keys are built from them.
type LocaleSettings struct {
	Languages       []string `json:"languages"`
	DefaultLanguage string   `json:"default_language"`
}

// Validate checks that every code is a well-formed BCP 47 tag and that the
// default language is one of the configured languages.
func (s LocaleSettings) Validate() error {
	if len(s.Languages) == 0 {
		return fmt.Errorf("no languages configured")
	}
	seen := make(map[string]bool, len(s.Languages))
	for _, code := range s.Languages {
		if _, err := language.Parse(code); err != nil {
			return fmt.Errorf("invalid locale %q: %w", code, err)
		}
		if seen[code] {
			return fmt.Errorf("locale %q listed twice", code)
		}
		seen[code] = true
	}
	if !s.Has(s.DefaultLanguage) {
		return fmt.Errorf("default language %q is not in languages", s.DefaultLanguage)
	}
	return nil
}

// Has reports whether the locale code is configured.
func (s LocaleSettings) Has(locale string) bool {
	return slices.Contains(s.Languages, locale)
}

// Resolve returns the requested locale when it is configured and the
// default language otherwise.
func (s LocaleSettings) Resolve(requested string) string {
	if requested != "" && s.Has(requested) {
		return requested
	}
	return s.DefaultLanguage
}

// Project is the unit that owns dialogs and their locale settings.
type Project struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Locales   LocaleSettings `json:"locales"`
	UpdatedAt time.Time      `json:"updated_at"`
}
