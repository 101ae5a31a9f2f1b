package richtext_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codepilotrules/go-docs/internal/richtext"
)

func TestConvertHeading(t *testing.T) {
	doc := richtext.Convert("# Hello")

	want := &richtext.Document{Children: []richtext.Node{
		&richtext.Heading{Level: 1, Children: []*richtext.TextRun{{Text: "Hello"}}},
	}}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("unexpected document (-want +got):\n%s", diff)
	}
}

func TestConvertHeadingClampsLevel(t *testing.T) {
	doc := richtext.Convert("####### Deep")

	require.Len(t, doc.Children, 1)
	heading, ok := doc.Children[0].(*richtext.Heading)
	require.True(t, ok, "expected heading, got %T", doc.Children[0])
	assert.Equal(t, 6, heading.Level)
	assert.Equal(t, "Deep", heading.Children[0].Text)
}

func TestConvertHeadingSkipsInlineFormatting(t *testing.T) {
	doc := richtext.Convert("## The **real** `deal`")

	heading := doc.Children[0].(*richtext.Heading)
	require.Len(t, heading.Children, 1)
	assert.Equal(t, "The **real** `deal`", heading.Children[0].Text)
	assert.False(t, heading.Children[0].Bold)
}

func TestConvertCodeBlock(t *testing.T) {
	doc := richtext.Convert("```js\nconst x = 1;\n```")

	want := &richtext.Document{Children: []richtext.Node{
		&richtext.CodeBlock{Language: "js", Text: "const x = 1;"},
	}}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("unexpected document (-want +got):\n%s", diff)
	}
}

func TestConvertCodeBlockKeepsMarkdownVerbatim(t *testing.T) {
	doc := richtext.Convert("```\n# not a heading\n- not a list\n\n**raw**\n```\nafter")

	require.Len(t, doc.Children, 2)
	block := doc.Children[0].(*richtext.CodeBlock)
	assert.Equal(t, richtext.DefaultCodeLanguage, block.Language)
	assert.Equal(t, "# not a heading\n- not a list\n\n**raw**", block.Text)
	assert.IsType(t, &richtext.Paragraph{}, doc.Children[1])
}

func TestConvertUnterminatedCodeBlockAbsorbsRest(t *testing.T) {
	doc := richtext.Convert("intro\n```go\nfunc main() {}\n# tail")

	require.Len(t, doc.Children, 2)
	block := doc.Children[1].(*richtext.CodeBlock)
	assert.Equal(t, "go", block.Language)
	assert.Equal(t, "func main() {}\n# tail", block.Text)
}

func TestConvertUnorderedList(t *testing.T) {
	doc := richtext.Convert("- a\n- b\n- c")

	require.Len(t, doc.Children, 1)
	list := doc.Children[0].(*richtext.List)
	assert.False(t, list.Ordered)
	require.Len(t, list.Items, 3)
	for idx, text := range []string{"a", "b", "c"} {
		assert.Equal(t, idx+1, list.Items[idx].Value)
		assert.Equal(t, text, list.Items[idx].Children[0].Text)
	}
}

func TestConvertListSkipsBlankLinesAndStopsOnStyleSwitch(t *testing.T) {
	doc := richtext.Convert("1. one\n\n2. two\n* three\n* four\nplain")

	require.Len(t, doc.Children, 3)

	ordered := doc.Children[0].(*richtext.List)
	assert.True(t, ordered.Ordered)
	require.Len(t, ordered.Items, 2)
	assert.Equal(t, "two", ordered.Items[1].Children[0].Text)
	assert.Equal(t, 2, ordered.Items[1].Value)

	bullets := doc.Children[1].(*richtext.List)
	assert.False(t, bullets.Ordered)
	require.Len(t, bullets.Items, 2)
	assert.Equal(t, 1, bullets.Items[0].Value)

	assert.IsType(t, &richtext.Paragraph{}, doc.Children[2])
}

func TestConvertListItemBoldSpans(t *testing.T) {
	doc := richtext.Convert("- use **gofmt** always")

	item := doc.Children[0].(*richtext.List).Items[0]
	want := []*richtext.TextRun{
		{Text: "use "},
		{Text: "gofmt", Bold: true},
		{Text: " always"},
	}
	if diff := cmp.Diff(want, item.Children); diff != "" {
		t.Fatalf("unexpected runs (-want +got):\n%s", diff)
	}
}

func TestConvertParagraphBoldSpan(t *testing.T) {
	doc := richtext.Convert("**bold** then plain")

	paragraph := doc.Children[0].(*richtext.Paragraph)
	want := []*richtext.TextRun{
		{Text: "bold", Bold: true},
		{Text: " then plain"},
	}
	if diff := cmp.Diff(want, paragraph.Children); diff != "" {
		t.Fatalf("unexpected runs (-want +got):\n%s", diff)
	}
}

func TestConvertParagraphMixedSpansInOrder(t *testing.T) {
	doc := richtext.Convert("run `go test` with **care** now")

	paragraph := doc.Children[0].(*richtext.Paragraph)
	want := []*richtext.TextRun{
		{Text: "run "},
		{Text: "go test", Code: true},
		{Text: " with "},
		{Text: "care", Bold: true},
		{Text: " now"},
	}
	if diff := cmp.Diff(want, paragraph.Children); diff != "" {
		t.Fatalf("unexpected runs (-want +got):\n%s", diff)
	}
}

func TestConvertEachLineIsAParagraph(t *testing.T) {
	doc := richtext.Convert("first line\nsecond line\n\nthird line")

	require.Len(t, doc.Children, 3)
	for _, child := range doc.Children {
		assert.IsType(t, &richtext.Paragraph{}, child)
	}
}

func TestConvertOverlappingSpansDoNotPanic(t *testing.T) {
	doc := richtext.Convert("**`x`** tail")

	paragraph := doc.Children[0].(*richtext.Paragraph)
	require.NotEmpty(t, paragraph.Children)
	assert.Equal(t, " tail", paragraph.Children[len(paragraph.Children)-1].Text)
}

func TestConvertNeverEmitsEmptyBlocks(t *testing.T) {
	doc := richtext.Convert("\n\n# \n- \n```\n```\n\n   \ntext\r\n")

	require.NotEmpty(t, doc.Children)
	richtext.Walk(doc, func(n richtext.Node) bool {
		if n.Kind() == richtext.KindTextRun {
			return true
		}
		assert.NotEmpty(t, richtext.Children(n), "node %s has no children", n.Kind())
		return true
	})
	last := doc.Children[len(doc.Children)-1].(*richtext.Paragraph)
	assert.Equal(t, "text", last.Children[0].Text)
}

func TestConvertEmptyInput(t *testing.T) {
	doc := richtext.Convert("")
	assert.Empty(t, doc.Children)
	assert.Equal(t, richtext.KindDocument, doc.Kind())
}
