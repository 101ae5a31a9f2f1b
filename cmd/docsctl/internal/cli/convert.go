package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/codepilotrules/go-docs/internal/markdown"
	"github.com/codepilotrules/go-docs/internal/richtext"
	"github.com/codepilotrules/go-docs/pkg/interfaces"
)

const (
	formatJSON = "json"
	formatText = "text"
	formatHTML = "html"
)

type convertOptions struct {
	format   string
	validate bool
	excerpt  int
}

func newConvertCommand() *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert <file|->",
		Short: "Convert a markdown or html document to editor JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.InOrStdin(), cmd.OutOrStdout(), args[0], *opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "Output format: json, text or html")
	cmd.Flags().BoolVar(&opts.validate, "validate", true, "Validate json output against the document schema")
	cmd.Flags().IntVar(&opts.excerpt, "excerpt", 0, "Print an excerpt of at most N runes instead of the document")

	return cmd
}

func runConvert(stdin io.Reader, out io.Writer, name string, opts convertOptions) error {
	source, err := readSource(stdin, name)
	if err != nil {
		return err
	}

	doc, err := buildSourceDocument(name, source)
	if err != nil {
		return err
	}
	tree := richtext.Convert(string(doc.Body))

	if opts.excerpt > 0 {
		_, err := fmt.Fprintln(out, richtext.Excerpt(tree, opts.excerpt))
		return err
	}

	switch strings.ToLower(strings.TrimSpace(opts.format)) {
	case formatJSON, "":
		payload, err := richtext.Marshal(tree)
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		if opts.validate {
			if err := richtext.ValidateJSON(payload); err != nil {
				return err
			}
		}
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, payload, "", "  "); err != nil {
			return fmt.Errorf("format document: %w", err)
		}
		pretty.WriteByte('\n')
		_, err = out.Write(pretty.Bytes())
		return err
	case formatText:
		_, err := fmt.Fprintln(out, richtext.PlainText(tree))
		return err
	case formatHTML:
		rendered, err := markdown.NewGoldmarkParser(interfaces.ParseOptions{}).Parse(doc.Body)
		if err != nil {
			return fmt.Errorf("render html: %w", err)
		}
		_, err = out.Write(rendered)
		return err
	default:
		return fmt.Errorf("unsupported format %q", opts.format)
	}
}

func readSource(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// buildSourceDocument strips front matter from markdown and converts html
// sources to markdown so both reach the converter as a markdown body.
func buildSourceDocument(name string, source []byte) (*interfaces.Document, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == ".html" || ext == ".htm" {
		return markdown.BuildHTMLDocument(name, source, time.Now())
	}
	return markdown.BuildDocument(name, source, time.Now())
}
