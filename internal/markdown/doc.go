// Package markdown loads documentation sources from disk and renders them to
// HTML with goldmark. Markdown files may carry YAML frontmatter; HTML files
// are converted to Markdown on load so every Document body is Markdown.
package markdown
