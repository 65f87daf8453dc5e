package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"lgstudio/internal/lgtable"
	"lgstudio/internal/models"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"fatal", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestImportTarget(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		dialog     string
		locale     string
		wantDialog string
		wantLocale string
		wantErr    bool
	}{
		{"from file name", "dialogs/main.en-us.lg", "", "", "main", "en-us", false},
		{"flags win", "main.en-us.lg", "help", "fr", "help", "fr", false},
		{"locale flag only", "main.en-us.lg", "", "FR", "main", "fr", false},
		{"stdin needs flags", "-", "", "", "", "", true},
		{"stdin with flags", "-", "main", "de", "main", "de", false},
		{"bad locale flag", "-", "main", "not a locale", "", "", true},
		{"unrecognised name", "common.lg", "", "", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, l, err := importTarget(tt.path, tt.dialog, tt.locale)
			if (err != nil) != tt.wantErr {
				t.Fatalf("importTarget error = %v, wantErr %v", err, tt.wantErr)
			}
			if d != tt.wantDialog || l != tt.wantLocale {
				t.Errorf("importTarget = (%q, %q), want (%q, %q)", d, l, tt.wantDialog, tt.wantLocale)
			}
		})
	}
}

func TestReadSourceStdin(t *testing.T) {
	got, err := readSource(strings.NewReader("# A\n- a\n"), "-")
	if err != nil {
		t.Fatal(err)
	}
	if got != "# A\n- a\n" {
		t.Errorf("readSource = %q", got)
	}
}

func TestCellText(t *testing.T) {
	row := lgtable.DisplayRow{
		Name:      "Greeting",
		Body:      "- Bonjour\n- Salut",
		Companion: &lgtable.Companion{Locale: "en-us", Body: "- Hello"},
		Used:      true,
	}

	tests := []struct {
		role lgtable.Role
		want string
	}{
		{lgtable.RoleName, "#Greeting"},
		{lgtable.RoleLocalizedBody, "- Bonjour ⏎ - Salut"},
		{lgtable.RoleDefaultLocaleBody, "- Hello"},
		{lgtable.RoleUsage, "yes"},
		{lgtable.RoleActions, ""},
	}
	for _, tt := range tests {
		if got := cellText(tt.role, row); got != tt.want {
			t.Errorf("cellText(%s) = %q, want %q", tt.role, got, tt.want)
		}
	}

	if got := cellText(lgtable.RoleDefaultLocaleBody, lgtable.DisplayRow{Name: "X"}); got != "" {
		t.Errorf("missing companion = %q, want empty", got)
	}
}

func TestPrintTable(t *testing.T) {
	table := lgtable.Build(lgtable.Snapshot{
		ActiveFile: &models.TemplateFile{Templates: []models.Template{
			{Name: "Greeting", Body: "- Bonjour"},
		}},
		DefaultFile: &models.TemplateFile{Templates: []models.Template{
			{Name: "Greeting", Body: "- Hello"},
			{Name: "Bye", Body: "- Goodbye"},
		}},
		ActiveLocale:  "fr",
		DefaultLocale: "en-us",
	})

	var buf bytes.Buffer
	if err := printTable(&buf, table); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1 row:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "NAME") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Contains(buf.String(), "ACTIONS") {
		t.Errorf("actions column printed:\n%s", buf.String())
	}
	if !strings.Contains(lines[1], "#Greeting") || !strings.Contains(lines[1], "- Hello") {
		t.Errorf("row = %q, want name and companion", lines[1])
	}
	if strings.Contains(buf.String(), "#Bye") {
		t.Errorf("default-only template printed as a row:\n%s", buf.String())
	}
}
