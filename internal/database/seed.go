package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Seed populates the database with a sample project for development: an
// English default locale, a French locale, and a "main" dialog whose
// French file has a template the English file lacks.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM lg_projects").Scan(&count); err != nil {
		return fmt.Errorf("seed check projects: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO lg_projects (id, name, default_language) VALUES ($1, $2, $3)
	`, "sample", "Sample Bot", "en-us"); err != nil {
		return fmt.Errorf("seed insert project: %w", err)
	}
	for i, locale := range []string{"en-us", "fr"} {
		if _, err := tx.Exec(`
			INSERT INTO lg_project_languages (project_id, locale, position) VALUES ($1, $2, $3)
		`, "sample", locale, i); err != nil {
			return fmt.Errorf("seed insert language: %w", err)
		}
	}

	files := []struct {
		id, dialog, locale string
		templates          [][2]string
	}{
		{"main.en-us", "main", "en-us", [][2]string{
			{"Greeting", "- Hello\n- Hi there"},
			{"Bye", "- Goodbye"},
		}},
		{"main.fr", "main", "fr", [][2]string{
			{"Greeting", "- Bonjour"},
			{"Bye", "- Au revoir"},
			{"Thanks", "- Merci"},
		}},
	}
	for _, f := range files {
		if _, err := tx.Exec(`
			INSERT INTO lg_files (id, dialog_id, locale, is_content_unparsed) VALUES ($1, $2, $3, FALSE)
		`, f.id, f.dialog, f.locale); err != nil {
			return fmt.Errorf("seed insert file: %w", err)
		}
		for pos, t := range f.templates {
			if _, err := tx.Exec(`
				INSERT INTO lg_templates (file_id, name, body, position) VALUES ($1, $2, $3, $4)
			`, f.id, t[0], t[1], pos); err != nil {
				return fmt.Errorf("seed insert template: %w", err)
			}
		}
	}

	if _, err := tx.Exec(`
		INSERT INTO lg_references (dialog_id, template_name) VALUES ('main', 'Greeting')
	`); err != nil {
		return fmt.Errorf("seed insert reference: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with sample project", "project", "sample", "dialog", "main")
	return nil
}
