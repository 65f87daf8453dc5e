package store

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"lgstudio/internal/models"
)

func TestProjectStoreUpsertAndGet(t *testing.T) {
	db := testDB(t)
	s := NewProjectStore(db)
	ctx := context.Background()

	id := "proj-" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanProjects(t, db, id) })

	p := &models.Project{
		ID:      id,
		Name:    "Test Bot",
		Locales: models.LocaleSettings{Languages: []string{"en-us", "fr"}, DefaultLanguage: "en-us"},
	}
	if err := s.Upsert(ctx, p); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.Locales.DefaultLanguage != "en-us" || len(got.Locales.Languages) != 2 {
		t.Fatalf("Get = %+v", got)
	}

	// Replace languages.
	p.Locales = models.LocaleSettings{Languages: []string{"de"}, DefaultLanguage: "de"}
	if err := s.Upsert(ctx, p); err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	got, _ = s.Get(ctx, id)
	if len(got.Locales.Languages) != 1 || got.Locales.Languages[0] != "de" {
		t.Errorf("languages = %v, want [de]", got.Locales.Languages)
	}
}

func TestProjectStoreRejectsInvalidLocales(t *testing.T) {
	db := testDB(t)
	s := NewProjectStore(db)

	err := s.Upsert(context.Background(), &models.Project{
		ID:      "invalid",
		Locales: models.LocaleSettings{Languages: []string{"en-us"}, DefaultLanguage: "fr"},
	})
	if err == nil {
		t.Error("expected error for default language outside languages")
	}
}

func TestProjectStoreGetMissing(t *testing.T) {
	db := testDB(t)
	s := NewProjectStore(db)

	got, err := s.Get(context.Background(), "no-such-project")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Error("expected nil for missing project")
	}
}
