package importer_test

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/codepilotrules/go-docs/internal/identity"
	"github.com/codepilotrules/go-docs/internal/importer"
	"github.com/codepilotrules/go-docs/internal/markdown"
	"github.com/codepilotrules/go-docs/internal/pages"
)

func docsTree() fstest.MapFS {
	return fstest.MapFS{
		"index.md":          {Data: []byte("---\ntitle: Home\n---\nWelcome to the docs.")},
		"guides/index.md":   {Data: []byte("# Guides\nAll guides.")},
		"guides/setup.md":   {Data: []byte("---\ntitle: Setup\ntags: [Go, tooling]\norder: 1\n---\nInstall **gofmt**.")},
		"guides/style.html": {Data: []byte("<title>Style</title><main><p>Be kind.</p></main>")},
		"reference.md":      {Data: []byte("---\ntitle: API Reference\nparent: setup\n---\nSee `go doc`.")},
		"drafts/wip.md":     {Data: []byte("---\ntitle: Work in progress\ndraft: true\n---\nTBD")},
	}
}

func newImporter(t *testing.T, files fstest.MapFS) (*importer.Importer, pages.Service) {
	t.Helper()
	source, err := markdown.NewService(markdown.Config{Recursive: true}, markdown.WithFS(files))
	if err != nil {
		t.Fatalf("markdown service: %v", err)
	}
	svc := pages.NewService(pages.NewMemoryPageRepository())
	imp, err := importer.New(importer.Config{Pages: svc, Source: source})
	if err != nil {
		t.Fatalf("importer: %v", err)
	}
	return imp, svc
}

func mustGetBySlug(t *testing.T, svc pages.Service, slug string) *pages.Page {
	t.Helper()
	page, err := svc.GetBySlug(context.Background(), slug)
	if err != nil {
		t.Fatalf("get %s: %v", slug, err)
	}
	return page
}

func TestImportDirectoryBuildsHierarchy(t *testing.T) {
	ctx := context.Background()
	imp, svc := newImporter(t, docsTree())

	result, err := imp.ImportDirectory(ctx, importer.Options{Dir: "."})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Err() != nil {
		t.Fatalf("unexpected file errors: %v", result.Err())
	}
	if result.Created() != 6 || result.Updated() != 0 || result.Skipped() != 0 {
		t.Fatalf("unexpected counts: created=%d updated=%d skipped=%d", result.Created(), result.Updated(), result.Skipped())
	}

	wantPaths := map[string]string{
		"home":             "/docs/home",
		"guides":           "/docs/guides",
		"setup":            "/docs/guides/setup",
		"style":            "/docs/guides/style",
		"api-reference":    "/docs/guides/setup/api-reference",
		"work-in-progress": "/docs/work-in-progress",
	}
	for slug, path := range wantPaths {
		if got := mustGetBySlug(t, svc, slug).Path; got != path {
			t.Fatalf("expected %s at %s, got %s", slug, path, got)
		}
	}

	setup := mustGetBySlug(t, svc, "setup")
	if setup.ID != identity.PageUUID("guides/setup.md") {
		t.Fatalf("expected deterministic id for setup")
	}
	if setup.OrderIndex != 1 || mustGetBySlug(t, svc, "style").OrderIndex != 0 {
		t.Fatalf("expected frontmatter order to pin setup after style")
	}
	if len(setup.Tags) != 2 || setup.Tags[0] != "go" {
		t.Fatalf("unexpected tags %v", setup.Tags)
	}
	if setup.Status != "published" || mustGetBySlug(t, svc, "work-in-progress").Status != "draft" {
		t.Fatalf("expected published pages and a draft")
	}
	if mustGetBySlug(t, svc, "style").Excerpt != "Be kind." {
		t.Fatalf("expected html body converted to markdown content")
	}
}

func TestImportDirectoryIsIdempotent(t *testing.T) {
	ctx := context.Background()
	files := docsTree()
	imp, svc := newImporter(t, files)

	if _, err := imp.ImportDirectory(ctx, importer.Options{}); err != nil {
		t.Fatalf("first import: %v", err)
	}
	again, err := imp.ImportDirectory(ctx, importer.Options{})
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if again.Skipped() != 6 || again.Created() != 0 || again.Updated() != 0 {
		t.Fatalf("expected all skipped, got created=%d updated=%d skipped=%d", again.Created(), again.Updated(), again.Skipped())
	}

	files["guides/setup.md"] = &fstest.MapFile{Data: []byte("---\ntitle: Setup\ntags: [go]\norder: 1\n---\nInstall **staticcheck**.")}
	changed, err := imp.ImportDirectory(ctx, importer.Options{})
	if err != nil {
		t.Fatalf("third import: %v", err)
	}
	if changed.Updated() != 1 || changed.Skipped() != 5 {
		t.Fatalf("expected one update, got updated=%d skipped=%d", changed.Updated(), changed.Skipped())
	}
	setup := mustGetBySlug(t, svc, "setup")
	if setup.Excerpt != "Install staticcheck." || len(setup.Tags) != 1 {
		t.Fatalf("expected updated content and tags, got %q %v", setup.Excerpt, setup.Tags)
	}
}

func TestImportDirectoryDryRunWritesNothing(t *testing.T) {
	ctx := context.Background()
	imp, svc := newImporter(t, docsTree())

	result, err := imp.ImportDirectory(ctx, importer.Options{DryRun: true})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !result.DryRun || result.Created() != 6 {
		t.Fatalf("expected six planned creates, got %d", result.Created())
	}
	all, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 0 {
		t.Fatalf("expected no pages after dry run, got %d", len(all))
	}
}

func TestImportDirectoryCollectsFileErrors(t *testing.T) {
	ctx := context.Background()
	imp, _ := newImporter(t, fstest.MapFS{
		"ok.md":     {Data: []byte("# Fine\nbody")},
		"orphan.md": {Data: []byte("---\ntitle: Orphan\nparent: missing\n---\nx")},
		"a.md":      {Data: []byte("---\ntitle: A\nslug: a-page\nparent: b-page\n---\nx")},
		"b.md":      {Data: []byte("---\ntitle: B\nslug: b-page\nparent: a-page\n---\nx")},
		"bad.md":    {Data: []byte("---\ntitle: Bad\nstatus: retired\n---\nx")},
	})

	result, err := imp.ImportDirectory(ctx, importer.Options{})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Created() != 1 {
		t.Fatalf("expected only ok.md to import, got %d", result.Created())
	}
	if len(result.Errors) != 4 {
		t.Fatalf("expected 4 file errors, got %v", result.Errors)
	}
	joined := result.Err()
	for _, target := range []error{importer.ErrParentUnresolved, importer.ErrParentCycle, importer.ErrParentFailed, importer.ErrStatusUnknown} {
		if !errors.Is(joined, target) {
			t.Fatalf("expected %v in %v", target, joined)
		}
	}
	var fileErr *importer.FileError
	if !errors.As(joined, &fileErr) || fileErr.Path == "" {
		t.Fatalf("expected FileError with path, got %v", joined)
	}
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := importer.New(importer.Config{}); !errors.Is(err, importer.ErrPagesServiceRequired) {
		t.Fatalf("expected ErrPagesServiceRequired, got %v", err)
	}
	svc := pages.NewService(pages.NewMemoryPageRepository())
	if _, err := importer.New(importer.Config{Pages: svc}); !errors.Is(err, importer.ErrSourceRequired) {
		t.Fatalf("expected ErrSourceRequired, got %v", err)
	}
}
