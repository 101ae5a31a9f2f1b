// Package docs is the entry point for the CodePilotRules documentation hub:
// a markdown to rich-text converter and a hierarchical page organizer.
package docs

import (
	"github.com/codepilotrules/go-docs/internal/di"
	cmshttp "github.com/codepilotrules/go-docs/internal/http"
	"github.com/codepilotrules/go-docs/internal/importer"
	"github.com/codepilotrules/go-docs/internal/pages"
	"github.com/codepilotrules/go-docs/internal/richtext"
	"github.com/codepilotrules/go-docs/pkg/interfaces"
)

// PageService exports the pages service contract.
type PageService = pages.Service

// Importer exports the directory importer.
type Importer = importer.Importer

// AdminAPI exports the HTTP adapter over the page service.
type AdminAPI = cmshttp.AdminAPI

// CommandHandlers exports the page command handlers.
type CommandHandlers = di.CommandHandlers

// Document exports the rich-text document tree.
type Document = richtext.Document

// Module represents the top level documentation runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Close releases resources owned by the module.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// Pages returns the configured page service.
func (m *Module) Pages() PageService {
	return m.container.PageService()
}

// Importer returns the directory importer, or nil when import is disabled or
// the content directory does not exist.
func (m *Module) Importer() *Importer {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Importer()
}

// AdminAPI returns the HTTP adapter.
func (m *Module) AdminAPI() *AdminAPI {
	return m.container.AdminAPI()
}

// Commands returns the command handlers, or nil when commands are disabled.
func (m *Module) Commands() *CommandHandlers {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Commands()
}

// Markdown returns the markdown service when import is configured.
func (m *Module) Markdown() interfaces.MarkdownService {
	if m == nil || m.container == nil {
		return nil
	}
	if svc := m.container.MarkdownService(); svc != nil {
		return svc
	}
	return nil
}

// Convert turns markdown source into a rich-text document.
func Convert(markdown string) *Document {
	return richtext.Convert(markdown)
}
