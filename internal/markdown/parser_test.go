package markdown

import (
	"strings"
	"testing"
	"time"

	"github.com/codepilotrules/go-docs/pkg/interfaces"
)

const setupSource = `---
title: Setup
slug: setup
parent: intro
order: 2
status: Published
tags: [go, tooling]
owner: docs-team
---
# Setup

Install **gofmt** first.
`

func TestParseFrontMatter(t *testing.T) {
	fm, body, err := ParseFrontMatter([]byte(setupSource))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}

	if fm.Title != "Setup" || fm.Slug != "setup" || fm.Parent != "intro" {
		t.Fatalf("unexpected identity fields: %+v", fm)
	}
	if fm.Order == nil || *fm.Order != 2 {
		t.Fatalf("expected order 2, got %v", fm.Order)
	}
	if fm.Status != "published" {
		t.Fatalf("expected status to be lower-cased, got %q", fm.Status)
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "go" {
		t.Fatalf("unexpected tags %#v", fm.Tags)
	}
	if fm.Custom["owner"] != "docs-team" {
		t.Fatalf("expected custom field, got %#v", fm.Custom)
	}
	if fm.Raw["parent"] != "intro" || fm.Raw["order"] != 2 {
		t.Fatalf("expected raw metadata, got %#v", fm.Raw)
	}
	if !strings.HasPrefix(strings.TrimSpace(string(body)), "# Setup") {
		t.Fatalf("body not split from frontmatter: %q", body)
	}
}

func TestParseFrontMatterWithoutBlock(t *testing.T) {
	fm, body, err := ParseFrontMatter([]byte("# Plain\n\ntext"))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm.Title != "" || fm.Order != nil {
		t.Fatalf("expected empty metadata, got %+v", fm)
	}
	if string(body) != "# Plain\n\ntext" {
		t.Fatalf("expected full body, got %q", body)
	}
}

func TestBuildDocument(t *testing.T) {
	modified := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	doc, err := BuildDocument("guides/setup.md", []byte(setupSource), modified)
	if err != nil {
		t.Fatalf("BuildDocument: %v", err)
	}
	if doc.FilePath != "guides/setup.md" || doc.Format != interfaces.SourceMarkdown {
		t.Fatalf("unexpected document header: %+v", doc)
	}
	if !doc.LastModified.Equal(modified) || len(doc.BodyHTML) != 0 {
		t.Fatalf("expected modified time and lazy HTML")
	}
}

func TestBuildHTMLDocument(t *testing.T) {
	source := `<html><head><title>Style Guide</title></head>
<body><nav>skip me</nav><main><h1>Style</h1><p>Prefer <strong>small</strong> functions.</p></main></body></html>`

	doc, err := BuildHTMLDocument("style.html", []byte(source), time.Now())
	if err != nil {
		t.Fatalf("BuildHTMLDocument: %v", err)
	}
	if doc.Format != interfaces.SourceHTML || doc.FrontMatter.Title != "Style Guide" {
		t.Fatalf("unexpected document: %+v", doc.FrontMatter)
	}
	body := string(doc.Body)
	if !strings.Contains(body, "# Style") || !strings.Contains(body, "**small**") {
		t.Fatalf("expected markdown body, got %q", body)
	}
	if strings.Contains(body, "skip me") {
		t.Fatalf("expected content outside <main> to be dropped, got %q", body)
	}
}

func TestBuildHTMLDocumentFallsBackToHeading(t *testing.T) {
	doc, err := BuildHTMLDocument("a.html", []byte("<h1>  Only   Heading </h1><p>x</p>"), time.Now())
	if err != nil {
		t.Fatalf("BuildHTMLDocument: %v", err)
	}
	if doc.FrontMatter.Title != "Only Heading" {
		t.Fatalf("expected h1 title, got %q", doc.FrontMatter.Title)
	}
}

func TestGoldmarkParserParse(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.Parse([]byte("# Heading\n\nHello **world**"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := string(html)
	if !strings.Contains(got, "<h1") || !strings.Contains(got, "Heading</h1>") {
		t.Fatalf("expected rendered heading, got %q", got)
	}
	if !strings.Contains(got, "<strong>world</strong>") {
		t.Fatalf("expected <strong>, got %q", got)
	}
}

func TestGoldmarkParserOptions(t *testing.T) {
	parser := NewGoldmarkParser(interfaces.ParseOptions{})

	html, err := parser.ParseWithOptions([]byte("line one\nline two"), interfaces.ParseOptions{HardWraps: true})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	if !strings.Contains(string(html), "line one<br>") {
		t.Fatalf("expected hard wraps, got %q", html)
	}

	safe, err := parser.ParseWithOptions([]byte("<script>alert(1)</script>"), interfaces.ParseOptions{SafeMode: true})
	if err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	if strings.Contains(string(safe), "<script>") {
		t.Fatalf("expected raw html to be omitted in safe mode, got %q", safe)
	}

	if len(parser.engines) != 2 {
		t.Fatalf("expected one cached engine per option set, got %d", len(parser.engines))
	}
	if _, err := parser.ParseWithOptions([]byte("again"), interfaces.ParseOptions{HardWraps: true}); err != nil {
		t.Fatalf("ParseWithOptions: %v", err)
	}
	if len(parser.engines) != 2 {
		t.Fatalf("expected engine reuse, got %d engines", len(parser.engines))
	}
}
