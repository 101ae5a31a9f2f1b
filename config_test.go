package docs_test

import (
	"context"
	"errors"
	"testing"

	docs "github.com/codepilotrules/go-docs"
	"github.com/codepilotrules/go-docs/pages"
)

func TestConfigValidateDefaults(t *testing.T) {
	if err := docs.DefaultConfig().Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestConfigValidateBunRequiresDSN(t *testing.T) {
	cfg := docs.DefaultConfig()
	cfg.Storage.Provider = "bun"
	cfg.Storage.DSN = ""

	if err := cfg.Validate(); !errors.Is(err, docs.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
}

func TestConfigValidateDispatcherRequiresCommands(t *testing.T) {
	cfg := docs.DefaultConfig()
	cfg.Commands.Enabled = false
	cfg.Commands.AutoRegisterDispatcher = true

	if err := cfg.Validate(); !errors.Is(err, docs.ErrDispatcherRequiresCommands) {
		t.Fatalf("expected ErrDispatcherRequiresCommands, got %v", err)
	}
}

func TestConfigValidateLoggingProviderUnknown(t *testing.T) {
	cfg := docs.DefaultConfig()
	cfg.Features.Logger = true
	cfg.Logging.Provider = "syslog"

	if err := cfg.Validate(); !errors.Is(err, docs.ErrLoggingProviderUnknown) {
		t.Fatalf("expected ErrLoggingProviderUnknown, got %v", err)
	}
}

func TestNewModuleExposesServices(t *testing.T) {
	cfg := docs.DefaultConfig()
	cfg.Features.Import = false

	module, err := docs.New(cfg)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })

	if module.Pages() == nil || module.AdminAPI() == nil || module.Commands() == nil {
		t.Fatal("expected pages, admin API and commands to be configured")
	}
	if module.Importer() != nil {
		t.Fatal("expected importer to be nil when import is disabled")
	}
	if module.Markdown() != nil {
		t.Fatal("expected markdown service to be nil when import is disabled")
	}

	page, err := module.Pages().Create(context.Background(), pages.CreatePageRequest{Title: "Rules", Markdown: "# Rules"})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	if page.Path != "/docs/rules" {
		t.Fatalf("unexpected path %s", page.Path)
	}
}

func TestConvertBuildsDocument(t *testing.T) {
	doc := docs.Convert("# Title\nbody")
	if len(doc.Children) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(doc.Children))
	}
}
