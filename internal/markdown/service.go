package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/codepilotrules/go-docs/internal/logging"
	"github.com/codepilotrules/go-docs/pkg/interfaces"
)

var ErrDocumentRequired = errors.New("markdown service: document is nil")

// Config controls discovery and rendering.
type Config struct {
	BasePath  string
	Patterns  []string
	Recursive bool
	Parser    interfaces.ParseOptions
}

// Service implements interfaces.MarkdownService over a directory.
type Service struct {
	cfg    Config
	parser interfaces.MarkdownParser
	loader *Loader
	logger interfaces.Logger
}

var _ interfaces.MarkdownService = (*Service)(nil)

// ServiceOption customises the service.
type ServiceOption func(*Service)

// WithParser replaces the default goldmark parser.
func WithParser(parser interfaces.MarkdownParser) ServiceOption {
	return func(s *Service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFS roots the loader at filesystem instead of BasePath on disk.
func WithFS(filesystem fs.FS) ServiceOption {
	return func(s *Service) {
		if filesystem != nil {
			s.loader = NewLoader(filesystem, s.loaderConfig())
		}
	}
}

// NewService builds a service rooted at cfg.BasePath.
func NewService(cfg Config, opts ...ServiceOption) (*Service, error) {
	s := &Service{cfg: cfg, parser: NewGoldmarkParser(cfg.Parser), logger: logging.NoOp()}
	for _, opt := range opts {
		opt(s)
	}
	if s.loader == nil {
		filesystem, err := prepareFilesystem(cfg.BasePath)
		if err != nil {
			return nil, err
		}
		s.loader = NewLoader(filesystem, s.loaderConfig())
	}
	return s, nil
}

func (s *Service) loaderConfig() LoaderConfig {
	return LoaderConfig{BasePath: s.cfg.BasePath, Patterns: s.cfg.Patterns, Recursive: s.cfg.Recursive}
}

// Parser exposes the configured renderer.
func (s *Service) Parser() interfaces.MarkdownParser {
	return s.parser
}

// Load reads and renders a single document.
func (s *Service) Load(ctx context.Context, path string, opts interfaces.LoadOptions) (*interfaces.Document, error) {
	result, err := s.loader.LoadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	if _, err := s.RenderDocument(ctx, result.Document, opts.Parser); err != nil {
		return nil, err
	}
	return result.Document, nil
}

// LoadDirectory reads and renders every matching document under dir.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	results, err := s.loader.LoadDirectory(ctx, dir, LoadParams{Pattern: opts.Pattern, Recursive: opts.Recursive})
	if err != nil {
		return nil, err
	}
	docs := make([]*interfaces.Document, 0, len(results))
	for _, result := range results {
		if _, err := s.RenderDocument(ctx, result.Document, opts.Parser); err != nil {
			return nil, err
		}
		docs = append(docs, result.Document)
	}
	s.logger.Debug("markdown directory loaded", "dir", dir, "documents", len(docs))
	return docs, nil
}

// Render converts markdown to HTML, merging opts over the configured defaults.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.parser.ParseWithOptions(markdown, mergeParseOptions(s.cfg.Parser, opts))
}

// RenderDocument renders doc.Body into doc.BodyHTML.
func (s *Service) RenderDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ParseOptions) ([]byte, error) {
	if doc == nil {
		return nil, ErrDocumentRequired
	}
	html, err := s.Render(ctx, doc.Body, opts)
	if err != nil {
		return nil, fmt.Errorf("markdown render document %s: %w", doc.FilePath, err)
	}
	doc.BodyHTML = html
	return html, nil
}

func mergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	result.Sanitize = result.Sanitize || override.Sanitize
	result.HardWraps = result.HardWraps || override.HardWraps
	result.SafeMode = result.SafeMode || override.SafeMode
	return result
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
