package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/codepilotrules/go-docs/pkg/interfaces"
)

// contentRoots are tried in order when picking the part of an HTML page
// that holds the documentation body.
var contentRoots = []atom.Atom{atom.Main, atom.Article, atom.Body}

// BuildHTMLDocument converts an HTML source into a Markdown Document. The
// title comes from <title>, falling back to the first <h1>.
func BuildHTMLDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	root, err := html.Parse(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("parse html %s: %w", path, err)
	}

	content := root
	for _, tag := range contentRoots {
		if node := findElement(root, tag); node != nil {
			content = node
			break
		}
	}

	body, err := htmltomarkdown.ConvertNode(content)
	if err != nil {
		return nil, fmt.Errorf("convert html %s: %w", path, err)
	}

	title := textOf(findElement(root, atom.Title))
	if title == "" {
		title = textOf(findElement(content, atom.H1))
	}

	meta := interfaces.FrontMatter{
		Title:  title,
		Custom: map[string]any{},
		Raw:    map[string]any{},
	}
	if title != "" {
		meta.Raw["title"] = title
	}

	return &interfaces.Document{
		FilePath:     path,
		Format:       interfaces.SourceHTML,
		FrontMatter:  meta,
		Body:         bytes.TrimSpace(body),
		LastModified: modified,
	}, nil
}

func findElement(node *html.Node, tag atom.Atom) *html.Node {
	if node == nil {
		return nil
	}
	if node.Type == html.ElementNode && node.DataAtom == tag {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

func textOf(node *html.Node) string {
	if node == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return strings.Join(strings.Fields(b.String()), " ")
}
