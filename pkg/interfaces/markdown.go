package interfaces

import (
	"context"
	"time"
)

// MarkdownParser converts raw Markdown bytes into HTML.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown rendering. Field names stay readable for
// configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// MarkdownService loads documentation sources from disk and renders them.
type MarkdownService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document, opts ParseOptions) ([]byte, error)
}

// SourceFormat records the on-disk format a document was read from.
type SourceFormat string

const (
	SourceMarkdown SourceFormat = "markdown"
	SourceHTML     SourceFormat = "html"
)

// Document is a documentation source file with parsed metadata. Body always
// holds Markdown; HTML sources are converted when loaded.
type Document struct {
	FilePath     string
	Format       SourceFormat
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum is the SHA-256 of the original file content.
	Checksum []byte
}

// FrontMatter holds the page metadata recognised in documentation sources.
// Parent references another page by slug; Order pins the sibling position.
type FrontMatter struct {
	Title   string         `yaml:"title" json:"title"`
	Slug    string         `yaml:"slug" json:"slug"`
	Parent  string         `yaml:"parent" json:"parent"`
	Order   *int           `yaml:"order" json:"order,omitempty"`
	Summary string         `yaml:"summary" json:"summary"`
	Status  string         `yaml:"status" json:"status"`
	Tags    []string       `yaml:"tags" json:"tags"`
	Draft   bool           `yaml:"draft" json:"draft"`
	Custom  map[string]any `yaml:",inline" json:"custom"`
	Raw     map[string]any `yaml:"-" json:"raw"`
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
	Parser    ParseOptions
}
