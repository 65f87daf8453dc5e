// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"lgstudio/internal/cache"
	"lgstudio/internal/config"
	"lgstudio/internal/models"
	"lgstudio/internal/slug"
	"lgstudio/internal/store"
)

var importCmd = &cobra.Command{
	Use:   "import <file|->",
	Short: "Import a .lg file for a dialog and locale",
	Long: `Import stores the raw content of a .lg file, replacing any previous file
for the same dialog and locale. With no --dialog/--locale flags they are
read from a file name of the form <dialog>.<locale>.lg.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dialogID, _ := cmd.Flags().GetString("dialog")
		locale, _ := cmd.Flags().GetString("locale")
		noParse, _ := cmd.Flags().GetBool("no-parse")

		dialogID, locale, err := importTarget(args[0], dialogID, locale)
		if err != nil {
			return err
		}

		content, err := readSource(cmd.InOrStdin(), args[0])
		if err != nil {
			return err
		}

		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		files := store.NewFileStore(db)
		id, err := files.Import(cmd.Context(), dialogID, locale, content)
		if err != nil {
			return err
		}
		invalidateCached(cmd.Context(), cfg, id)
		if noParse {
			slog.Info("file imported", "file", id)
			return nil
		}

		f, err := files.EnsureParsed(cmd.Context(), id)
		if err != nil {
			return err
		}
		slog.Info("file imported", "file", id, "templates", len(f.Templates))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <fileID>",
	Short: "Write a stored file back out as .lg content",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		_, db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		content, err := store.NewFileStore(db).Export(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("export %s: %w", args[0], err)
		}

		if output == "" || output == "-" {
			_, err = io.WriteString(cmd.OutOrStdout(), content)
			return err
		}
		return os.WriteFile(output, []byte(content), 0o644)
	},
}

var filesCmd = &cobra.Command{
	Use:   "files <dialog>",
	Short: "List a dialog's files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		list, err := store.NewFileStore(db).ListByDialog(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No files for dialog %s.\n", args[0])
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "FILE\tLOCALE\tPARSED\tUPDATED\t")
		for _, f := range list {
			fmt.Fprintf(w, "%s\t%s\t%t\t%s\t\n", f.ID, f.Locale, !f.IsContentUnparsed, f.UpdatedAt.Format(time.DateTime))
		}
		return w.Flush()
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "cache-clear",
	Short: "Drop every cached file from Valkey",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			return err
		}
		defer client.Close()

		cache.NewFileCache(client, cfg.FileCacheTTL).InvalidateAll(cmd.Context())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(cacheClearCmd)

	importCmd.Flags().StringP("dialog", "d", "", "Dialog id (default: taken from the file name)")
	importCmd.Flags().StringP("locale", "L", "", "Locale code (default: taken from the file name)")
	importCmd.Flags().Bool("no-parse", false, "Store the file unparsed; it is parsed on first use")
	rootCmd.AddCommand(importCmd)

	exportCmd.Flags().StringP("output", "o", "", "Output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}

// importTarget resolves the dialog and locale for an import. Explicit
// values win; missing ones come from the file name.
func importTarget(path, dialogID, locale string) (string, string, error) {
	if dialogID == "" || locale == "" {
		d, l, ok := slug.FromFileName(path)
		if !ok {
			return "", "", fmt.Errorf("cannot tell dialog and locale from %q; use --dialog and --locale", path)
		}
		if dialogID == "" {
			dialogID = d
		}
		if locale == "" {
			locale = l
		}
	}

	locale = strings.ToLower(locale)
	if _, err := language.Parse(locale); err != nil {
		return "", "", fmt.Errorf("invalid locale %q: %w", locale, err)
	}
	if _, _, ok := models.SplitFileID(models.FileID(dialogID, locale)); !ok {
		return "", "", fmt.Errorf("invalid dialog id %q", dialogID)
	}
	return dialogID, locale, nil
}

// invalidateCached drops a re-imported file from a running server's cache.
// Valkey being unreachable only earns a warning; the entry expires anyway.
func invalidateCached(ctx context.Context, cfg *config.Config, id string) {
	client, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
	if err != nil {
		slog.Warn("file cache not invalidated", "file", id, "error", err)
		return
	}
	defer client.Close()
	cache.NewFileCache(client, cfg.FileCacheTTL).Invalidate(ctx, id)
}

func readSource(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}
