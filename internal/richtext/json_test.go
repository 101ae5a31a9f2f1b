package richtext_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codepilotrules/go-docs/internal/richtext"
	"github.com/codepilotrules/go-docs/pkg/testsupport"
)

const sampleMarkdown = "# Rules\n" +
	"Prefer **small** functions and `go vet`.\n" +
	"```go\nfunc main() {}\n```\n" +
	"1. first\n2. **second**\n"

func TestMarshalRoundTrip(t *testing.T) {
	doc := richtext.Convert(sampleMarkdown)

	payload, err := richtext.Marshal(doc)
	require.NoError(t, err)

	decoded, err := richtext.Unmarshal(payload)
	require.NoError(t, err)

	if diff := cmp.Diff(doc, decoded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalEditorShape(t *testing.T) {
	payload, err := richtext.Marshal(richtext.Convert(sampleMarkdown))
	require.NoError(t, err)

	var raw struct {
		Root struct {
			Type     string `json:"type"`
			Children []struct {
				Type     string `json:"type"`
				Tag      string `json:"tag"`
				Language string `json:"language"`
				ListType string `json:"listType"`
				Children []struct {
					Type   string `json:"type"`
					Text   string `json:"text"`
					Format json.RawMessage `json:"format"`
					Value  int             `json:"value"`
				} `json:"children"`
			} `json:"children"`
		} `json:"root"`
	}
	require.NoError(t, json.Unmarshal(payload, &raw))

	assert.Equal(t, "root", raw.Root.Type)
	require.Len(t, raw.Root.Children, 4)

	heading := raw.Root.Children[0]
	assert.Equal(t, "heading", heading.Type)
	assert.Equal(t, "h1", heading.Tag)

	paragraph := raw.Root.Children[1]
	require.Len(t, paragraph.Children, 5)
	assert.JSONEq(t, `1`, string(paragraph.Children[1].Format))
	assert.JSONEq(t, `16`, string(paragraph.Children[3].Format))

	code := raw.Root.Children[2]
	assert.Equal(t, "code", code.Type)
	assert.Equal(t, "go", code.Language)
	assert.Equal(t, "func main() {}", code.Children[0].Text)

	list := raw.Root.Children[3]
	assert.Equal(t, "list", list.Type)
	assert.Equal(t, "number", list.ListType)
	assert.Equal(t, "ol", list.Tag)
	assert.Equal(t, []int{1, 2}, []int{list.Children[0].Value, list.Children[1].Value})
	assert.Equal(t, "listitem", list.Children[0].Type)
	assert.JSONEq(t, `""`, string(list.Children[0].Format))
}

func TestUnmarshalCodeWithLineBreaks(t *testing.T) {
	payload := []byte(`{"root":{"type":"root","children":[
		{"type":"code","children":[
			{"type":"code-highlight","text":"a := 1"},
			{"type":"linebreak"},
			{"type":"text","text":"b := 2"}
		]}
	]}}`)

	doc, err := richtext.Unmarshal(payload)
	require.NoError(t, err)
	require.Len(t, doc.Children, 1)

	block := doc.Children[0].(*richtext.CodeBlock)
	assert.Equal(t, richtext.DefaultCodeLanguage, block.Language)
	assert.Equal(t, "a := 1\nb := 2", block.Text)
}

func TestUnmarshalAssignsMissingListValues(t *testing.T) {
	payload := []byte(`{"root":{"type":"root","children":[
		{"type":"list","listType":"bullet","children":[
			{"type":"listitem","children":[{"type":"text","text":"x"}]},
			{"type":"listitem","children":[{"type":"text","text":"y","format":1}]}
		]}
	]}}`)

	doc, err := richtext.Unmarshal(payload)
	require.NoError(t, err)

	list := doc.Children[0].(*richtext.List)
	assert.False(t, list.Ordered)
	assert.Equal(t, 1, list.Items[0].Value)
	assert.Equal(t, 2, list.Items[1].Value)
	assert.True(t, list.Items[1].Children[0].Bold)
}

func TestUnmarshalErrors(t *testing.T) {
	_, err := richtext.Unmarshal([]byte(`{}`))
	assert.True(t, errors.Is(err, richtext.ErrMissingRoot))

	_, err = richtext.Unmarshal([]byte(`{"root":{"type":"root","children":[{"type":"table","children":[]}]}}`))
	assert.True(t, errors.Is(err, richtext.ErrUnknownNodeType))

	_, err = richtext.Unmarshal([]byte(`{"root":{"type":"paragraph","children":[]}}`))
	assert.True(t, errors.Is(err, richtext.ErrUnknownNodeType))

	_, err = richtext.Unmarshal([]byte(`not json`))
	assert.Error(t, err)
}

func TestMarshalMatchesGolden(t *testing.T) {
	source := testsupport.Testdata(t, "heading_list.md")

	payload, err := richtext.Marshal(richtext.Convert(string(source)))
	require.NoError(t, err)

	testsupport.AssertGoldenJSON(t, "heading_list.golden.json", payload)
}
