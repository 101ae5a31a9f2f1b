package markdown

import (
	"bytes"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/codepilotrules/go-docs/pkg/interfaces"
)

// ParseFrontMatter splits source into page metadata and the Markdown body.
// Sources without a frontmatter block return empty metadata and the whole
// input as body.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta.toFrontMatter(), body, nil
}

// BuildDocument parses a Markdown source into a Document. BodyHTML is left
// empty for lazy rendering.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	meta, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}
	return &interfaces.Document{
		FilePath:     path,
		Format:       interfaces.SourceMarkdown,
		FrontMatter:  meta,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title   string         `yaml:"title"`
	Slug    string         `yaml:"slug"`
	Parent  string         `yaml:"parent"`
	Order   *int           `yaml:"order"`
	Summary string         `yaml:"summary"`
	Status  string         `yaml:"status"`
	Tags    []string       `yaml:"tags"`
	Draft   bool           `yaml:"draft"`
	Custom  map[string]any `yaml:",inline"`
}

func (env frontMatterEnvelope) toFrontMatter() interfaces.FrontMatter {
	custom := maps.Clone(env.Custom)
	if custom == nil {
		custom = map[string]any{}
	}

	raw := maps.Clone(custom)
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			raw[key] = value
		}
	}
	set("title", env.Title)
	set("slug", env.Slug)
	set("parent", env.Parent)
	set("summary", env.Summary)
	set("status", env.Status)
	if env.Order != nil {
		raw["order"] = *env.Order
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	raw["draft"] = env.Draft

	var order *int
	if env.Order != nil {
		value := *env.Order
		order = &value
	}

	return interfaces.FrontMatter{
		Title:   strings.TrimSpace(env.Title),
		Slug:    strings.TrimSpace(env.Slug),
		Parent:  strings.TrimSpace(env.Parent),
		Order:   order,
		Summary: strings.TrimSpace(env.Summary),
		Status:  strings.ToLower(strings.TrimSpace(env.Status)),
		Tags:    append([]string(nil), env.Tags...),
		Draft:   env.Draft,
		Custom:  custom,
		Raw:     raw,
	}
}
