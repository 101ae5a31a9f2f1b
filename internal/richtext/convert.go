package richtext

import (
	"regexp"
	"strings"
)

const codeFence = "```"

var (
	unorderedItemPattern = regexp.MustCompile(`^[-*] `)
	orderedItemPattern   = regexp.MustCompile(`^\d+\. `)
)

// Convert parses the supported markdown dialect into a document tree. It never
// fails: unrecognised input degrades to paragraphs and an unterminated fence
// absorbs the rest of the input.
func Convert(markdown string) *Document {
	lines := splitLines(markdown)
	doc := &Document{Children: []Node{}}

	for i := 0; i < len(lines); {
		line := lines[i]
		switch {
		case strings.TrimSpace(line) == "":
			i++
		case strings.HasPrefix(line, "#"):
			doc.Children = append(doc.Children, parseHeading(line))
			i++
		case strings.HasPrefix(line, codeFence):
			var block *CodeBlock
			block, i = parseCodeBlock(lines, i)
			doc.Children = append(doc.Children, block)
		case isListLine(line):
			var list *List
			list, i = parseList(lines, i)
			doc.Children = append(doc.Children, list)
		default:
			doc.Children = append(doc.Children, &Paragraph{Children: parseInlineRuns(line)})
			i++
		}
	}

	return doc
}

func splitLines(markdown string) []string {
	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func parseHeading(line string) *Heading {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	text := strings.TrimLeft(line[level:], " \t")
	if level > MaxHeadingLevel {
		level = MaxHeadingLevel
	}
	return &Heading{
		Level:    level,
		Children: []*TextRun{{Text: text}},
	}
}

func parseCodeBlock(lines []string, start int) (*CodeBlock, int) {
	language := strings.TrimSpace(strings.TrimPrefix(lines[start], codeFence))
	if language == "" {
		language = DefaultCodeLanguage
	}

	body := []string{}
	i := start + 1
	for ; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), codeFence) {
			i++
			break
		}
		body = append(body, lines[i])
	}

	return &CodeBlock{
		Language: language,
		Text:     strings.Join(body, "\n"),
	}, i
}

func isListLine(line string) bool {
	return unorderedItemPattern.MatchString(line) || orderedItemPattern.MatchString(line)
}

func listPrefix(ordered bool) *regexp.Regexp {
	if ordered {
		return orderedItemPattern
	}
	return unorderedItemPattern
}

func parseList(lines []string, start int) (*List, int) {
	ordered := orderedItemPattern.MatchString(lines[start])
	prefix := listPrefix(ordered)
	list := &List{Ordered: ordered}

	i := start
	for i < len(lines) {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			i++
			continue
		}
		loc := prefix.FindStringIndex(line)
		if loc == nil {
			break
		}
		list.Items = append(list.Items, &ListItem{
			Value:    len(list.Items) + 1,
			Children: parseBoldRuns(line[loc[1]:]),
		})
		i++
	}

	return list, i
}
