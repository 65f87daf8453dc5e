// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package lgtable

import "fmt"

// Role is the semantic meaning of a table column.
type Role string

const (
	RoleName              Role = "name"
	RolePrimaryBody       Role = "primary-body"
	RoleLocalizedBody     Role = "localized-body"
	RoleDefaultLocaleBody Role = "default-locale-body"
	RoleUsage             Role = "usage"
	RoleActions           Role = "actions"
)

// ColumnSpec describes one visible column.
type ColumnSpec struct {
	Key    string `json:"key"`
	Header string `json:"header"`
	Role   Role   `json:"role"`
}

type planKey struct {
	sameLocale bool
	hasUsage   bool
}

// columnPlans is the full decision table. Every combination is listed so
// each one can be checked on its own.
var columnPlans = map[planKey][]Role{
	{sameLocale: true, hasUsage: true}:   {RoleName, RolePrimaryBody, RoleUsage, RoleActions},
	{sameLocale: true, hasUsage: false}:  {RoleName, RolePrimaryBody, RoleActions},
	{sameLocale: false, hasUsage: true}:  {RoleName, RoleLocalizedBody, RoleDefaultLocaleBody, RoleUsage, RoleActions},
	{sameLocale: false, hasUsage: false}: {RoleName, RoleLocalizedBody, RoleDefaultLocaleBody, RoleActions},
}

// PlanColumns returns the ordered columns for the given locale pair and
// whether a usage scope is selected.
func PlanColumns(activeLocale, defaultLocale string, hasUsageScope bool) []ColumnSpec {
	roles := columnPlans[planKey{sameLocale: activeLocale == defaultLocale, hasUsage: hasUsageScope}]

	cols := make([]ColumnSpec, len(roles))
	for i, role := range roles {
		cols[i] = columnFor(role, activeLocale, defaultLocale)
	}
	return cols
}

func columnFor(role Role, activeLocale, defaultLocale string) ColumnSpec {
	switch role {
	case RoleName:
		return ColumnSpec{Key: "name", Header: "Name", Role: role}
	case RolePrimaryBody:
		return ColumnSpec{Key: "body", Header: "Responses", Role: role}
	case RoleLocalizedBody:
		return ColumnSpec{Key: "body", Header: fmt.Sprintf("Responses - %s", activeLocale), Role: role}
	case RoleDefaultLocaleBody:
		return ColumnSpec{Key: CompanionKey(defaultLocale), Header: fmt.Sprintf("Responses - %s (default)", defaultLocale), Role: role}
	case RoleUsage:
		return ColumnSpec{Key: "used", Header: "Been used", Role: role}
	default:
		return ColumnSpec{Key: "actions", Header: "", Role: RoleActions}
	}
}

// RoleForKey maps a column key back to its role within a plan. It reports
// false for keys that are not editable cells of that plan.
func RoleForKey(cols []ColumnSpec, key string) (Role, bool) {
	for _, c := range cols {
		if c.Key == key {
			return c.Role, true
		}
	}
	return "", false
}
