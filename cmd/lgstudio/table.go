// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"lgstudio/internal/lgtable"
	"lgstudio/internal/models"
	"lgstudio/internal/store"
)

var tableCmd = &cobra.Command{
	Use:   "table <project> <dialog>",
	Short: "Print a dialog's template table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		locale, _ := cmd.Flags().GetString("locale")
		usage, _ := cmd.Flags().GetString("usage")
		ctx := cmd.Context()

		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		settings := cfg.Locales
		p, err := store.NewProjectStore(db).Get(ctx, args[0])
		if err != nil {
			return err
		}
		if p != nil {
			settings = p.Locales
		}

		snap := lgtable.Snapshot{
			ActiveLocale:  settings.Resolve(locale),
			DefaultLocale: settings.DefaultLanguage,
		}

		files := store.NewFileStore(db)
		snap.ActiveFile, err = files.EnsureParsed(ctx, models.FileID(args[1], snap.ActiveLocale))
		if err != nil {
			return err
		}
		snap.DefaultFile, err = files.LoadCompanion(ctx, args[1], snap.DefaultLocale)
		if err != nil {
			return err
		}
		if snap.DefaultFile != nil && snap.DefaultFile.IsContentUnparsed {
			snap.DefaultFile, err = files.EnsureParsed(ctx, snap.DefaultFile.ID)
			if err != nil {
				return err
			}
		}
		if usage != "" {
			snap.Referenced, err = store.NewReferenceStore(db).ReferencedNames(ctx, usage)
			if err != nil {
				return err
			}
		}

		return printTable(cmd.OutOrStdout(), lgtable.Build(snap))
	},
}

func init() {
	tableCmd.Flags().String("locale", "", "Locale to show (default: the project's default locale)")
	tableCmd.Flags().String("usage", "", "Dialog whose template references fill the usage column")
	rootCmd.AddCommand(tableCmd)
}

// printTable writes the table in aligned columns. The actions column has
// nothing to print and is skipped.
func printTable(out io.Writer, t lgtable.Table) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)

	var cols []lgtable.ColumnSpec
	for _, c := range t.Columns {
		if c.Role != lgtable.RoleActions {
			cols = append(cols, c)
		}
	}

	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = strings.ToUpper(c.Header)
	}
	fmt.Fprintln(w, strings.Join(headers, "\t")+"\t")

	for _, row := range t.Rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = cellText(c.Role, row)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t")+"\t")
	}
	return w.Flush()
}

// cellText renders one cell on a single line.
func cellText(role lgtable.Role, row lgtable.DisplayRow) string {
	switch role {
	case lgtable.RoleName:
		return "#" + row.Name
	case lgtable.RolePrimaryBody, lgtable.RoleLocalizedBody:
		return oneLine(row.Body)
	case lgtable.RoleDefaultLocaleBody:
		if row.Companion == nil {
			return ""
		}
		return oneLine(row.Companion.Body)
	case lgtable.RoleUsage:
		if row.Used {
			return "yes"
		}
		return "no"
	}
	return ""
}

func oneLine(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), "\n", " ⏎ ")
}
