// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"lgstudio/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history <fileID> <template>",
	Short: "List the stored revisions of a template",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		_, db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		revisions, err := store.NewRevisionStore(db).ListByTemplate(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if len(revisions) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No revisions of #%s in %s.\n", args[1], args[0])
			return nil
		}
		if limit > 0 && len(revisions) > limit {
			revisions = revisions[:limit]
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ID\tWHEN\tACTION\tNAME\tBODY\t")
		for _, r := range revisions {
			name := "#" + r.TemplateName
			if r.PreviousName != "" && r.PreviousName != r.TemplateName {
				name = "#" + r.PreviousName + " → " + name
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
				r.ID, r.CreatedAt.Format(time.DateTime), r.Action, name, oneLine(r.Body))
		}
		return w.Flush()
	},
}

var revisionCmd = &cobra.Command{
	Use:   "revision <id>",
	Short: "Print the body stored in one revision",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid revision id: %w", err)
		}

		_, db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		r, err := store.NewRevisionStore(db).FindByID(cmd.Context(), id)
		if err != nil {
			return err
		}
		if r == nil {
			return fmt.Errorf("revision %s not found", id)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s\n", r.TemplateName, r.Body)
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Number of revisions to show (0 for all)")
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(revisionCmd)
}
