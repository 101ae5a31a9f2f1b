package richtext

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed document.schema.json
var documentSchemaSource []byte

const documentSchemaURL = "richtext-document.schema.json"

var ErrDocumentInvalid = errors.New("richtext: document does not match schema")

var (
	compiledOnce   sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// Issue is a single schema violation.
type Issue struct {
	Location string
	Message  string
}

// ValidationError lists every schema violation found in a payload.
type ValidationError struct {
	Issues []Issue
	Cause  error
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", ErrDocumentInvalid.Error(), e.Cause)
		}
		return ErrDocumentInvalid.Error()
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "#"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return fmt.Sprintf("%s: %s", ErrDocumentInvalid.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrDocumentInvalid
}

// ValidateJSON checks raw editor JSON against the embedded document schema.
func ValidateJSON(data []byte) error {
	schema, err := documentSchema()
	if err != nil {
		return err
	}

	var payload any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return &ValidationError{Cause: err}
	}

	if err := schema.Validate(payload); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return &ValidationError{Issues: collectIssues(validationErr), Cause: err}
		}
		return &ValidationError{Cause: err}
	}
	return nil
}

func documentSchema() (*jsonschema.Schema, error) {
	compiledOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(documentSchemaURL, bytes.NewReader(documentSchemaSource)); err != nil {
			compileErr = fmt.Errorf("richtext: load schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(documentSchemaURL)
	})
	return compiledSchema, compileErr
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	issues := []Issue{}
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
