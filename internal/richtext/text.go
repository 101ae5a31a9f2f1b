package richtext

import (
	"strings"
	"unicode/utf8"
)

// PlainText flattens the document to text, one block per line.
func PlainText(doc *Document) string {
	if doc == nil {
		return ""
	}
	lines := make([]string, 0, len(doc.Children))
	for _, block := range doc.Children {
		switch typed := block.(type) {
		case *List:
			for _, item := range typed.Items {
				lines = append(lines, joinRuns(item.Children))
			}
		case *CodeBlock:
			lines = append(lines, typed.Text)
		default:
			var b strings.Builder
			Walk(block, func(n Node) bool {
				if run, ok := n.(*TextRun); ok {
					b.WriteString(run.Text)
				}
				return true
			})
			lines = append(lines, b.String())
		}
	}
	return strings.Join(lines, "\n")
}

// Excerpt returns the first paragraph's text truncated to limit runes.
func Excerpt(doc *Document, limit int) string {
	if doc == nil {
		return ""
	}
	for _, block := range doc.Children {
		paragraph, ok := block.(*Paragraph)
		if !ok {
			continue
		}
		text := strings.TrimSpace(joinRuns(paragraph.Children))
		if text == "" {
			continue
		}
		if limit <= 0 || utf8.RuneCountInString(text) <= limit {
			return text
		}
		runes := []rune(text)
		return strings.TrimSpace(string(runes[:limit])) + "…"
	}
	return ""
}

func joinRuns(runs []*TextRun) string {
	var b strings.Builder
	for _, run := range runs {
		b.WriteString(run.Text)
	}
	return b.String()
}
