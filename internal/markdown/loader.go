package markdown

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codepilotrules/go-docs/pkg/interfaces"
)

// DefaultPatterns lists the file globs discovered when none are configured.
var DefaultPatterns = []string{"*.md", "*.markdown", "*.html", "*.htm"}

// LoaderConfig configures how documentation sources are discovered.
type LoaderConfig struct {
	// BasePath is the directory the filesystem is rooted at. Absolute paths
	// passed to the loader are made relative to it.
	BasePath string
	// Patterns limits discovered files by base name. Defaults to DefaultPatterns.
	Patterns []string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader turns filesystem paths into Documents.
type Loader struct {
	fs        fs.FS
	basePath  string
	patterns  []string
	recursive bool
}

// NewLoader constructs a Loader over filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	patterns := compactPatterns(cfg.Patterns)
	if len(patterns) == 0 {
		patterns = append([]string(nil), DefaultPatterns...)
	}
	base := ""
	if strings.TrimSpace(cfg.BasePath) != "" {
		base = filepath.Clean(cfg.BasePath)
	}
	return &Loader{
		fs:        filesystem,
		basePath:  base,
		patterns:  patterns,
		recursive: cfg.Recursive,
	}
}

// LoadParams are per-call overrides.
type LoadParams struct {
	Pattern   string
	Recursive *bool
}

// DocumentResult pairs a parsed document with its raw source.
type DocumentResult struct {
	Document *interfaces.Document
	Source   []byte
}

// LoadFile reads and parses a single source file.
func (l *Loader) LoadFile(ctx context.Context, name string) (*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := l.makeRelative(name)
	if err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}
	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader stat %s: %w", rel, err)
	}

	var doc *interfaces.Document
	if isHTML(rel) {
		doc, err = BuildHTMLDocument(rel, data, info.ModTime())
	} else {
		doc, err = BuildDocument(rel, data, info.ModTime())
	}
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(data)
	doc.Checksum = sum[:]

	return &DocumentResult{Document: doc, Source: data}, nil
}

// LoadDirectory discovers and parses every matching file below dir, sorted
// by path.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, params LoadParams) ([]*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := l.makeRelative(dir)
	if err != nil {
		return nil, err
	}

	recursive := l.recursive
	if params.Recursive != nil {
		recursive = *params.Recursive
	}
	patterns := l.patterns
	if override := compactPatterns([]string{params.Pattern}); len(override) > 0 {
		patterns = override
	}

	var results []*DocumentResult
	err = fs.WalkDir(l.fs, root, func(current string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if current != root && !recursive {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !matchesAny(current, patterns) {
			return nil
		}
		result, err := l.LoadFile(ctx, current)
		if err != nil {
			return err
		}
		results = append(results, result)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Document.FilePath < results[j].Document.FilePath
	})
	return results, nil
}

func (l *Loader) makeRelative(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return ".", nil
	}
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) {
		if l.basePath == "" {
			return "", fmt.Errorf("markdown loader: absolute path %s provided without base path", name)
		}
		rel, err := filepath.Rel(l.basePath, clean)
		if err != nil {
			return "", fmt.Errorf("markdown loader: make relative %s: %w", name, err)
		}
		clean = rel
	}
	return filepath.ToSlash(clean), nil
}

// matchesAny compares patterns without a slash against the base name and
// patterns with one against the full relative path. "**/" segments are
// dropped.
func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		pattern = strings.ReplaceAll(filepath.ToSlash(pattern), "**/", "")
		target := path.Base(name)
		if strings.Contains(pattern, "/") {
			target = name
		}
		if ok, err := path.Match(pattern, target); err == nil && ok {
			return true
		}
	}
	return false
}

func compactPatterns(patterns []string) []string {
	out := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		for _, part := range strings.Split(pattern, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

func isHTML(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".html", ".htm":
		return true
	default:
		return false
	}
}
