// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package lgtable

import "lgstudio/internal/models"

// MergeRows builds one row per active template, in active order. When the
// locales differ each row also carries the default-locale body of the
// template with the same name, or "" if there is none. A nil defaults
// slice is treated as an empty default file.
func MergeRows(active, defaults []models.Template, activeLocale, defaultLocale string) []DisplayRow {
	rows := make([]DisplayRow, len(active))

	if activeLocale == defaultLocale {
		for i, t := range active {
			rows[i] = DisplayRow{Name: t.Name, Body: t.Body}
		}
		return rows
	}

	byName := make(map[string]string, len(defaults))
	for _, t := range defaults {
		if _, dup := byName[t.Name]; !dup {
			byName[t.Name] = t.Body
		}
	}

	for i, t := range active {
		rows[i] = DisplayRow{
			Name: t.Name,
			Body: t.Body,
			Companion: &Companion{
				Locale: defaultLocale,
				Body:   byName[t.Name],
			},
		}
	}
	return rows
}

// MarkUsage sets Used on every row whose name is referenced in the
// selected usage scope.
func MarkUsage(rows []DisplayRow, referenced map[string]bool) {
	for i := range rows {
		rows[i].Used = referenced[rows[i].Name]
	}
}
