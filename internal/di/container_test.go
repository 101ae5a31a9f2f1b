package di_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-command/dispatcher"

	pagescmd "github.com/codepilotrules/go-docs/internal/commands/pages"
	"github.com/codepilotrules/go-docs/internal/di"
	"github.com/codepilotrules/go-docs/internal/importer"
	"github.com/codepilotrules/go-docs/internal/logging/gologger"
	"github.com/codepilotrules/go-docs/internal/pages"
	"github.com/codepilotrules/go-docs/internal/runtimeconfig"
	"github.com/codepilotrules/go-docs/pkg/testsupport"
)

func newContainer(t *testing.T, cfg runtimeconfig.Config, opts ...di.Option) *di.Container {
	t.Helper()
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Close(); err != nil {
			t.Errorf("close container: %v", err)
		}
	})
	return container
}

func TestNewContainerDefaultsToMemoryStorage(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Import = false

	container := newContainer(t, cfg)

	if _, ok := container.PageRepository().(*pages.MemoryPageRepository); !ok {
		t.Fatalf("expected memory repository, got %T", container.PageRepository())
	}
	if container.BunDB() != nil {
		t.Fatal("expected no database handle for memory storage")
	}
	if container.AdminAPI() == nil {
		t.Fatal("expected admin API to be configured")
	}
	if container.LoggerProvider() != nil {
		t.Fatal("expected logging to stay off unless the logger feature is enabled")
	}

	ctx := context.Background()
	page, err := container.PageService().Create(ctx, pages.CreatePageRequest{Title: "Getting Started", Markdown: "Hello."})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	if page.Path != "/docs/getting-started" {
		t.Fatalf("expected configured path prefix, got %s", page.Path)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Pages.SlugMaxLength = 0

	_, err := di.NewContainer(cfg)
	if !errors.Is(err, runtimeconfig.ErrSlugMaxLengthInvalid) {
		t.Fatalf("expected ErrSlugMaxLengthInvalid, got %v", err)
	}
}

func TestNewContainerAppliesPageConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Import = false
	cfg.Pages.PathPrefix = "/rules"
	cfg.Pages.SlugMaxLength = 8
	cfg.Pages.SlugPlaceholder = "page"

	container := newContainer(t, cfg)
	ctx := context.Background()

	long, err := container.PageService().Create(ctx, pages.CreatePageRequest{Title: "Extremely long title"})
	if err != nil {
		t.Fatalf("create long page: %v", err)
	}
	if len(long.Slug) > 8 {
		t.Fatalf("expected slug truncated to 8 runes, got %q", long.Slug)
	}
	if !strings.HasPrefix(long.Path, "/rules/") {
		t.Fatalf("expected /rules prefix, got %s", long.Path)
	}

	symbols, err := container.PageService().Create(ctx, pages.CreatePageRequest{Title: "!!!"})
	if err != nil {
		t.Fatalf("create symbol page: %v", err)
	}
	if symbols.Slug != "page" {
		t.Fatalf("expected placeholder slug, got %q", symbols.Slug)
	}
}

func TestNewContainerUsesBunStorage(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Import = false
	cfg.Storage.Provider = "bun"
	cfg.Storage.Dialect = "sqlite"
	cfg.Storage.DSN = testsupport.SQLiteMemoryDSN(t.Name())

	container := newContainer(t, cfg)

	if container.BunDB() == nil {
		t.Fatal("expected database handle for bun storage")
	}
	if _, ok := container.PageRepository().(*pages.BunPageRepository); !ok {
		t.Fatalf("expected bun repository, got %T", container.PageRepository())
	}

	ctx := context.Background()
	created, err := container.PageService().Create(ctx, pages.CreatePageRequest{
		Title:    "Style Guide",
		Markdown: "# Style\n- use **gofmt**",
		Tags:     []string{"go"},
	})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}

	fetched, err := container.PageService().GetBySlug(ctx, "style-guide")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if fetched.ID != created.ID {
		t.Fatalf("expected %s, got %s", created.ID, fetched.ID)
	}
	if len(fetched.Tags) != 1 || fetched.Tags[0] != "go" {
		t.Fatalf("expected tags to round trip, got %v", fetched.Tags)
	}
}

func TestNewContainerImportsFromContentFS(t *testing.T) {
	files := fstest.MapFS{
		"index.md":        {Data: []byte("---\ntitle: Home\n---\nWelcome.")},
		"guides/setup.md": {Data: []byte("---\ntitle: Setup\n---\nInstall **gofmt**.")},
	}

	container := newContainer(t, runtimeconfig.DefaultConfig(), di.WithContentFS(files))
	if container.MarkdownService() == nil || container.Importer() == nil {
		t.Fatal("expected markdown service and importer to be configured")
	}

	result, err := container.Importer().ImportDirectory(context.Background(), importer.Options{Dir: "."})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if result.Err() != nil {
		t.Fatalf("unexpected file errors: %v", result.Err())
	}
	if result.Created() != 2 {
		t.Fatalf("expected 2 pages created, got %d", result.Created())
	}

	setup, err := container.PageService().GetBySlug(context.Background(), "setup")
	if err != nil {
		t.Fatalf("get setup: %v", err)
	}
	if setup.Excerpt != "Install gofmt." {
		t.Fatalf("unexpected excerpt %q", setup.Excerpt)
	}
}

func TestNewContainerImportCommandHonoursFeatureGate(t *testing.T) {
	files := fstest.MapFS{"index.md": {Data: []byte("# Home\nWelcome.")}}

	container := newContainer(t, runtimeconfig.DefaultConfig(), di.WithContentFS(files))
	handler := container.Commands().Import
	if handler == nil {
		t.Fatal("expected import handler")
	}

	container.Config.Features.Import = false
	err := handler.Execute(context.Background(), pagescmd.ImportPagesCommand{Dir: "."})
	if !errors.Is(err, pagescmd.ErrImportDisabled) {
		t.Fatalf("expected ErrImportDisabled, got %v", err)
	}
}

func TestNewContainerWiresPreviewRenderer(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Import = false

	container := newContainer(t, cfg)
	preview, err := container.PageService().Preview(context.Background(), pages.PreviewPageRequest{Markdown: "**bold**"})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(preview.HTML, "<strong>bold</strong>") {
		t.Fatalf("expected rendered html, got %q", preview.HTML)
	}

	cfg.Features.Preview = false
	disabled := newContainer(t, cfg)
	if _, err := disabled.PageService().Preview(context.Background(), pages.PreviewPageRequest{Markdown: "x"}); !errors.Is(err, pages.ErrPreviewRendererMissing) {
		t.Fatalf("expected ErrPreviewRendererMissing, got %v", err)
	}
}

func TestNewContainerRegistersDispatcherHandlers(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Import = false
	cfg.Commands.AutoRegisterDispatcher = true

	container := newContainer(t, cfg)

	ctx := context.Background()
	if err := dispatcher.Dispatch(ctx, pagescmd.CreatePageCommand{Title: "Dispatched"}); err != nil {
		t.Fatalf("dispatch create: %v", err)
	}
	page, err := container.PageService().GetBySlug(ctx, "dispatched")
	if err != nil {
		t.Fatalf("expected dispatched page: %v", err)
	}
	if err := dispatcher.Dispatch(ctx, pagescmd.PublishPageCommand{PageID: page.ID}); err != nil {
		t.Fatalf("dispatch publish: %v", err)
	}
	published, err := container.PageService().Get(ctx, page.ID)
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	if published.Status != "published" {
		t.Fatalf("expected published, got %s", published.Status)
	}
}

func TestNewContainerSkipsCommandsWhenDisabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Import = false
	cfg.Commands.Enabled = false

	container := newContainer(t, cfg)
	if container.Commands() != nil {
		t.Fatal("expected no command handlers")
	}
}

func TestConfigureLoggerProviderUsesGoLoggerAdapter(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Import = false
	cfg.Features.Logger = true
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"
	cfg.Logging.Format = "json"

	container := newContainer(t, cfg)

	provider, ok := container.LoggerProvider().(*gologger.Provider)
	if !ok {
		t.Fatalf("expected go-logger provider, got %T", container.LoggerProvider())
	}
	if logger := provider.GetLogger("docs.test"); logger == nil {
		t.Fatal("expected logger from go-logger provider, got nil")
	}
}

func TestConfigureLoggerProviderDefaultsToConsole(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Import = false
	cfg.Features.Logger = true
	cfg.Logging.Provider = "console"

	container := newContainer(t, cfg)

	if container.LoggerProvider() == nil {
		t.Fatal("expected console provider")
	}
	if _, ok := container.LoggerProvider().(*gologger.Provider); ok {
		t.Fatal("expected console provider, got go-logger")
	}
}
