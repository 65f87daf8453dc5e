// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lgstudio/internal/cache"
	"lgstudio/internal/database"
	"lgstudio/internal/handlers"
	"lgstudio/internal/middleware"
	"lgstudio/internal/notify"
	"lgstudio/internal/router"
	"lgstudio/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		slog.Info("configuration loaded",
			"env", cfg.Env,
			"addr", cfg.Addr(),
			"locales", cfg.Locales.Languages,
			"default_locale", cfg.Locales.DefaultLanguage,
		)

		// Seed development data (no-op if data already exists).
		if cfg.IsDev() {
			if err := database.Seed(db); err != nil {
				return err
			}
		}

		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			return err
		}
		defer valkeyClient.Close()

		files := store.NewFileStore(db)
		fileCache := cache.NewFileCache(valkeyClient, cfg.FileCacheTTL)
		notifier := notify.Multi{notify.Log{}, notify.NewValkey(valkeyClient, cfg.NotifyChannel)}

		table := handlers.NewTable(files, store.NewProjectStore(db), store.NewReferenceStore(db),
			fileCache, notifier, cfg.Locales)

		var limiter *middleware.WriteLimiter
		if cfg.WriteRateLimit > 0 {
			limiter = middleware.NewWriteLimiter(cfg.WriteRateLimit, time.Minute)
			defer limiter.Stop()
		}

		srv := &http.Server{
			Addr:         cfg.Addr(),
			Handler:      router.New(table, limiter),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() {
			slog.Info("server starting", "addr", cfg.Addr())
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errc <- err
			}
			close(errc)
		}()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
			slog.Info("shutdown signal received")
		}

		// Give active requests up to 30 seconds to complete.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		table.Wait()

		slog.Info("server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
