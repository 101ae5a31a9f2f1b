package richtext_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codepilotrules/go-docs/internal/richtext"
)

func TestValidateJSONAcceptsMarshalledDocuments(t *testing.T) {
	payload, err := richtext.Marshal(richtext.Convert(sampleMarkdown))
	require.NoError(t, err)

	assert.NoError(t, richtext.ValidateJSON(payload))
}

func TestValidateJSONRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"missing root":  `{"content":[]}`,
		"unknown block": `{"root":{"type":"root","children":[{"type":"table","children":[]}]}}`,
		"text without text": `{"root":{"type":"root","children":[
			{"type":"paragraph","children":[{"type":"text"}]}
		]}}`,
		"negative format": `{"root":{"type":"root","children":[
			{"type":"paragraph","children":[{"type":"text","text":"x","format":-1}]}
		]}}`,
		"malformed": `{"root":`,
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			err := richtext.ValidateJSON([]byte(payload))
			require.Error(t, err)
			assert.True(t, errors.Is(err, richtext.ErrDocumentInvalid))

			var validationErr *richtext.ValidationError
			require.True(t, errors.As(err, &validationErr))
		})
	}
}

func TestValidateJSONReportsLocations(t *testing.T) {
	err := richtext.ValidateJSON([]byte(`{"root":{"type":"root","children":[{"type":"table","children":[]}]}}`))

	var validationErr *richtext.ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.NotEmpty(t, validationErr.Issues)
	assert.Contains(t, validationErr.Error(), "/root/children/0")
}

func TestPlainTextAndExcerpt(t *testing.T) {
	doc := richtext.Convert(sampleMarkdown)

	assert.Equal(t, "Rules\nPrefer small functions and go vet.\nfunc main() {}\nfirst\nsecond", richtext.PlainText(doc))
	assert.Equal(t, "Prefer small…", richtext.Excerpt(doc, 12))
	assert.Equal(t, "Prefer small functions and go vet.", richtext.Excerpt(doc, 0))
	assert.Empty(t, richtext.Excerpt(richtext.Convert("# only a heading"), 20))
}
