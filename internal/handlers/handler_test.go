// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests:
// in-memory fakes for the stores, cache and notifier, and a chi mux with
// the same routes the router mounts.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"lgstudio/internal/lgfile"
	"lgstudio/internal/lgtable"
	"lgstudio/internal/models"
	"lgstudio/internal/store"
)

// fakeFiles is an in-memory FileRepo with the same upsert and uniqueness
// rules as store.FileStore.
type fakeFiles struct {
	mu      sync.Mutex
	files   map[string]*models.TemplateFile
	writes  int
	failGet error
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{files: map[string]*models.TemplateFile{}}
}

// put stores a parsed file built from name/body pairs.
func (f *fakeFiles) put(id string, pairs ...string) {
	dialog, locale, _ := models.SplitFileID(id)
	file := &models.TemplateFile{ID: id, DialogID: dialog, Locale: locale}
	for i := 0; i+1 < len(pairs); i += 2 {
		file.Templates = append(file.Templates, models.Template{Name: pairs[i], Body: pairs[i+1]})
	}
	f.mu.Lock()
	f.files[id] = file
	f.mu.Unlock()
}

// putRaw stores an unparsed file.
func (f *fakeFiles) putRaw(id, content string) {
	dialog, locale, _ := models.SplitFileID(id)
	f.mu.Lock()
	f.files[id] = &models.TemplateFile{ID: id, DialogID: dialog, Locale: locale, Content: content, IsContentUnparsed: true}
	f.mu.Unlock()
}

// templates returns a copy of a file's templates.
func (f *fakeFiles) templates(id string) []models.Template {
	f.mu.Lock()
	defer f.mu.Unlock()
	if file := f.files[id]; file != nil {
		return slices.Clone(file.Templates)
	}
	return nil
}

func (f *fakeFiles) writeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes
}

func (f *fakeFiles) Get(_ context.Context, id string) (*models.TemplateFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	return cloneFile(f.files[id]), nil
}

func (f *fakeFiles) EnsureParsed(_ context.Context, id string) (*models.TemplateFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	file := f.files[id]
	if file == nil {
		return nil, nil
	}
	if file.IsContentUnparsed {
		doc, err := lgfile.Parse(file.Content)
		if err != nil {
			return nil, err
		}
		file.Templates = doc.Templates
		file.Content = ""
		file.IsContentUnparsed = false
	}
	return cloneFile(file), nil
}

func (f *fakeFiles) UpdateTemplate(_ context.Context, m lgtable.UpdateTemplate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	file := f.ensure(m.FileID)
	if m.Template.Name != m.TemplateName && file.Find(m.Template.Name) != nil {
		return store.ErrNameTaken
	}
	f.writes++
	if t := file.Find(m.TemplateName); t != nil {
		*t = m.Template
		return nil
	}
	file.Templates = append(file.Templates, m.Template)
	return nil
}

func (f *fakeFiles) CreateTemplate(_ context.Context, m lgtable.CreateTemplate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	file := f.ensure(m.FileID)
	if file.Find(m.Template.Name) != nil {
		return store.ErrNameTaken
	}
	f.writes++
	file.Templates = append(file.Templates, m.Template)
	return nil
}

func (f *fakeFiles) RemoveTemplate(_ context.Context, m lgtable.RemoveTemplate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	file := f.files[m.FileID]
	if file.Find(m.TemplateName) == nil {
		return store.ErrTemplateNotFound
	}
	f.writes++
	file.Templates = slices.DeleteFunc(file.Templates, func(t models.Template) bool {
		return t.Name == m.TemplateName
	})
	return nil
}

func (f *fakeFiles) CopyTemplate(_ context.Context, m lgtable.CopyTemplate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	file := f.files[m.FileID]
	src := file.Find(m.From)
	if src == nil {
		return store.ErrTemplateNotFound
	}
	if file.Find(m.To) != nil {
		return store.ErrNameTaken
	}
	f.writes++
	file.Templates = append(file.Templates, models.Template{Name: m.To, Body: src.Body})
	return nil
}

func (f *fakeFiles) ensure(id string) *models.TemplateFile {
	if file := f.files[id]; file != nil {
		return file
	}
	dialog, locale, _ := models.SplitFileID(id)
	file := &models.TemplateFile{ID: id, DialogID: dialog, Locale: locale}
	f.files[id] = file
	return file
}

func cloneFile(f *models.TemplateFile) *models.TemplateFile {
	if f == nil {
		return nil
	}
	c := *f
	c.Templates = slices.Clone(f.Templates)
	return &c
}

// fakeProjects holds projects in memory.
type fakeProjects struct {
	mu       sync.Mutex
	projects map[string]*models.Project
}

func (p *fakeProjects) Get(_ context.Context, id string) (*models.Project, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if pr, ok := p.projects[id]; ok {
		c := *pr
		return &c, nil
	}
	return nil, nil
}

func (p *fakeProjects) Upsert(_ context.Context, pr *models.Project) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.projects == nil {
		p.projects = map[string]*models.Project{}
	}
	c := *pr
	p.projects[pr.ID] = &c
	return nil
}

// fakeRefs holds dialog references in memory.
type fakeRefs struct {
	mu   sync.Mutex
	refs map[string][]string
}

func (r *fakeRefs) ReferencedNames(_ context.Context, dialogID string) (map[string]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := map[string]bool{}
	for _, n := range r.refs[dialogID] {
		names[n] = true
	}
	return names, nil
}

func (r *fakeRefs) SetReferences(_ context.Context, dialogID string, names []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refs == nil {
		r.refs = map[string][]string{}
	}
	r.refs[dialogID] = slices.Clone(names)
	return nil
}

// fakeCache is an in-memory FileCache that records invalidations.
type fakeCache struct {
	mu          sync.Mutex
	files       map[string]*models.TemplateFile
	hits        int
	invalidated []string
}

func (c *fakeCache) Get(_ context.Context, id string) (*models.TemplateFile, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.files[id]
	if ok {
		c.hits++
	}
	return cloneFile(f), ok
}

func (c *fakeCache) Set(_ context.Context, f *models.TemplateFile) {
	if f.IsContentUnparsed {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.files == nil {
		c.files = map[string]*models.TemplateFile{}
	}
	c.files[f.ID] = cloneFile(f)
}

func (c *fakeCache) Invalidate(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, id)
	c.invalidated = append(c.invalidated, id)
}

// recordingNotifier keeps every event it receives.
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Notify(_ context.Context, event string, _ map[string]any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) has(event string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Contains(n.events, event)
}

// testEnv holds a Table wired to fakes. The "bot" project is authored in
// en-us (default) and fr; dialog "main" has both files.
type testEnv struct {
	Files    *fakeFiles
	Projects *fakeProjects
	Refs     *fakeRefs
	Cache    *fakeCache
	Notifier *recordingNotifier
	Table    *Table
	Mux      http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		Files: newFakeFiles(),
		Projects: &fakeProjects{projects: map[string]*models.Project{
			"bot": {ID: "bot", Name: "Bot", Locales: models.LocaleSettings{
				Languages:       []string{"en-us", "fr"},
				DefaultLanguage: "en-us",
			}},
		}},
		Refs:     &fakeRefs{},
		Cache:    &fakeCache{},
		Notifier: &recordingNotifier{},
	}
	env.Files.put("main.en-us", "Greeting", "- Hello", "Bye", "- Goodbye")
	env.Files.put("main.fr", "Greeting", "- Bonjour", "Thanks", "- Merci")

	env.Table = NewTable(env.Files, env.Projects, env.Refs, env.Cache, env.Notifier,
		models.LocaleSettings{Languages: []string{"en-us"}, DefaultLanguage: "en-us"})
	env.Mux = testMux(env.Table)
	t.Cleanup(env.Table.Wait)
	return env
}

// testMux mounts the table routes the same way the router does.
func testMux(h *Table) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/projects/{projectID}", func(r chi.Router) {
		r.Put("/", h.UpdateProject)
		r.Route("/dialogs/{dialogID}", func(r chi.Router) {
			r.Get("/table", h.Show)
			r.Patch("/table", h.EditCell)
			r.Put("/references", h.SetReferences)
			r.Post("/templates", h.CreateTemplate)
			r.Post("/templates/{name}/copy", h.CopyTemplate)
			r.Delete("/templates/{name}", h.DeleteTemplate)
			r.Get("/templates/{name}/preview", h.PreviewTemplate)
		})
	})
	return r
}

// do sends a request through the mux and returns the recorder.
func (env *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	env.Mux.ServeHTTP(rec, req)
	return rec
}

// decodedTable is the client view of a table response.
type decodedTable struct {
	Columns        []lgtable.ColumnSpec `json:"columns"`
	Rows           []map[string]any     `json:"rows"`
	Locale         string               `json:"locale"`
	DefaultLocale  string               `json:"defaultLocale"`
	FileID         string               `json:"fileId"`
	DefaultFileID  string               `json:"defaultFileId"`
	DefaultPending bool                 `json:"defaultPending"`
}

func decodeTable(t *testing.T, rec *httptest.ResponseRecorder) decodedTable {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var out decodedTable
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode table: %v", err)
	}
	return out
}

func columnKeys(cols []lgtable.ColumnSpec) []string {
	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = c.Key
	}
	return keys
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return body["error"]
}

var errBoom = errors.New("boom")
