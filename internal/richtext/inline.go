package richtext

import (
	"regexp"
	"sort"
)

var (
	boldSpanPattern = regexp.MustCompile(`\*\*(.+?)\*\*`)
	codeSpanPattern = regexp.MustCompile("`([^`]+)`")
)

type spanMatch struct {
	start int
	end   int
	text  string
	bold  bool
	code  bool
}

// parseBoldRuns splits text around every **bold** span. Empty slices are omitted.
func parseBoldRuns(text string) []*TextRun {
	return buildRuns(text, collectSpans(text, boldSpanPattern, true, false))
}

// parseInlineRuns collects bold and code spans independently and orders them by
// start offset. Overlapping spans are not reconciled.
func parseInlineRuns(text string) []*TextRun {
	matches := collectSpans(text, boldSpanPattern, true, false)
	matches = append(matches, collectSpans(text, codeSpanPattern, false, true)...)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].start < matches[j].start
	})
	return buildRuns(text, matches)
}

func collectSpans(text string, pattern *regexp.Regexp, bold, code bool) []spanMatch {
	indexes := pattern.FindAllStringSubmatchIndex(text, -1)
	out := make([]spanMatch, 0, len(indexes))
	for _, idx := range indexes {
		out = append(out, spanMatch{
			start: idx[0],
			end:   idx[1],
			text:  text[idx[2]:idx[3]],
			bold:  bold,
			code:  code,
		})
	}
	return out
}

func buildRuns(text string, matches []spanMatch) []*TextRun {
	if len(matches) == 0 {
		return []*TextRun{{Text: text}}
	}

	runs := make([]*TextRun, 0, len(matches)*2+1)
	cursor := 0
	for _, match := range matches {
		// an overlapping span may start behind the cursor; the plain slice is skipped
		if match.start > cursor {
			runs = append(runs, &TextRun{Text: text[cursor:match.start]})
		}
		if match.text != "" {
			runs = append(runs, &TextRun{Text: match.text, Bold: match.bold, Code: match.code})
		}
		if match.end > cursor {
			cursor = match.end
		}
	}
	if cursor < len(text) {
		runs = append(runs, &TextRun{Text: text[cursor:]})
	}
	if len(runs) == 0 {
		return []*TextRun{{Text: text}}
	}
	return runs
}
