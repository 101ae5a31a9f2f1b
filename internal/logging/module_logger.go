package logging

import (
	"context"
	"strings"

	"github.com/codepilotrules/go-docs/pkg/interfaces"
)

const (
	rootModule     = "docs"
	pagesModule    = "docs.pages"
	markdownModule = "docs.markdown"
	importerModule = "docs.importer"
	httpModule     = "docs.http"
	commandsModule = "docs.commands"
)

const (
	fieldImportPath   = "import_path"
	fieldImportSlug   = "slug"
	fieldImportAction = "import_action"
)

// ModuleLogger returns a logger scoped to module. A nil provider yields a
// no-op logger; every entry carries the module name as a field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if strings.TrimSpace(module) == "" {
		module = rootModule
	}

	var logger interfaces.Logger = NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{"module": module})
	}
	return logger
}

// PagesLogger returns the logger for the page organizer.
func PagesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pagesModule)
}

// MarkdownLogger returns the logger for markdown rendering.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// ImporterLogger returns the logger for directory imports.
func ImporterLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, importerModule)
}

// HTTPLogger returns the logger for the admin HTTP adapter.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// CommandsLogger returns the logger for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithImportContext tags logger with the file path, target slug and import
// action. Blank values are skipped.
func WithImportContext(logger interfaces.Logger, path, slug, action string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldImportPath] = trimmed
	}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields[fieldImportSlug] = trimmed
	}
	if trimmed := strings.TrimSpace(action); trimmed != "" {
		fields[fieldImportAction] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that discards everything.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
