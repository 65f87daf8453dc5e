// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package lgtable

import "strconv"

const (
	// NewTemplateBase is the name given to templates added from the table.
	NewTemplateBase = "TemplateName"
	// NewTemplateBody is the body given to templates added from the table.
	NewTemplateBody = "- TemplateValue"
	copySuffix      = "_Copy"
)

// AllocateName returns base if it is free, otherwise base followed by the
// smallest positive integer that makes it free (base1, base2, ...).
func AllocateName(existing []string, base string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		taken[n] = struct{}{}
	}

	name := base
	for i := 1; ; i++ {
		if _, ok := taken[name]; !ok {
			return name
		}
		name = base + strconv.Itoa(i)
	}
}

// CopyName returns the name for a copy of from: from_Copy, from_Copy1, ...
func CopyName(existing []string, from string) string {
	return AllocateName(existing, from+copySuffix)
}

// NewTemplateName returns the name for a freshly added template.
func NewTemplateName(existing []string) string {
	return AllocateName(existing, NewTemplateBase)
}
