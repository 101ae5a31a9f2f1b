package richtext

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownNodeType = errors.New("richtext: unknown node type")
	ErrMissingRoot     = errors.New("richtext: document root missing")
)

// Editor text format bit flags.
const (
	formatBold = 1 << 0
	formatCode = 1 << 4
)

const editorNodeVersion = 1

// wireNode mirrors the editor's serialized node shape. Fields not used by a
// node type are omitted.
type wireNode struct {
	Type      string      `json:"type"`
	Version   int         `json:"version"`
	Children  []*wireNode `json:"children,omitempty"`
	Direction string      `json:"direction,omitempty"`
	Format    any         `json:"format,omitempty"`
	Indent    *int        `json:"indent,omitempty"`
	Tag       string      `json:"tag,omitempty"`
	Language  string      `json:"language,omitempty"`
	ListType  string      `json:"listType,omitempty"`
	Start     int         `json:"start,omitempty"`
	Value     int         `json:"value,omitempty"`
	Text      *string     `json:"text,omitempty"`
	Detail    *int        `json:"detail,omitempty"`
	Mode      string      `json:"mode,omitempty"`
	Style     *string     `json:"style,omitempty"`
}

type wireDocument struct {
	Root *wireNode `json:"root"`
}

// Marshal encodes the document using the editor's JSON document model.
func Marshal(doc *Document) ([]byte, error) {
	if doc == nil {
		doc = &Document{}
	}
	wire, err := toWire(doc)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireDocument{Root: wire})
}

// Unmarshal decodes editor JSON into a typed document tree.
func Unmarshal(data []byte) (*Document, error) {
	var envelope wireDocument
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("richtext: decode document: %w", err)
	}
	if envelope.Root == nil {
		return nil, ErrMissingRoot
	}
	node, err := fromWire(envelope.Root)
	if err != nil {
		return nil, err
	}
	doc, ok := node.(*Document)
	if !ok {
		return nil, fmt.Errorf("%w: root is %q", ErrUnknownNodeType, envelope.Root.Type)
	}
	return doc, nil
}

func toWire(n Node) (*wireNode, error) {
	switch typed := n.(type) {
	case *Document:
		children, err := nodesToWire(typed.Children)
		if err != nil {
			return nil, err
		}
		return blockWire("root", children), nil
	case *Heading:
		level := typed.Level
		if level < 1 {
			level = 1
		}
		if level > MaxHeadingLevel {
			level = MaxHeadingLevel
		}
		wire := blockWire("heading", runsToWire(typed.Children))
		wire.Tag = fmt.Sprintf("h%d", level)
		return wire, nil
	case *Paragraph:
		return blockWire("paragraph", runsToWire(typed.Children)), nil
	case *CodeBlock:
		wire := blockWire("code", []*wireNode{textWire(&TextRun{Text: typed.Text})})
		wire.Language = typed.Language
		return wire, nil
	case *List:
		items := make([]*wireNode, 0, len(typed.Items))
		for _, item := range typed.Items {
			child, err := toWire(item)
			if err != nil {
				return nil, err
			}
			items = append(items, child)
		}
		wire := blockWire("list", items)
		wire.Start = 1
		if typed.Ordered {
			wire.ListType = "number"
			wire.Tag = "ol"
		} else {
			wire.ListType = "bullet"
			wire.Tag = "ul"
		}
		return wire, nil
	case *ListItem:
		wire := blockWire("listitem", runsToWire(typed.Children))
		wire.Value = typed.Value
		return wire, nil
	case *TextRun:
		return textWire(typed), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownNodeType, n)
	}
}

func nodesToWire(nodes []Node) ([]*wireNode, error) {
	out := make([]*wireNode, 0, len(nodes))
	for _, child := range nodes {
		wire, err := toWire(child)
		if err != nil {
			return nil, err
		}
		out = append(out, wire)
	}
	return out, nil
}

func blockWire(kind string, children []*wireNode) *wireNode {
	indent := 0
	if children == nil {
		children = []*wireNode{}
	}
	return &wireNode{
		Type:      kind,
		Version:   editorNodeVersion,
		Children:  children,
		Direction: "ltr",
		Format:    "",
		Indent:    &indent,
	}
}

func runsToWire(runs []*TextRun) []*wireNode {
	out := make([]*wireNode, 0, len(runs))
	for _, run := range runs {
		out = append(out, textWire(run))
	}
	return out
}

func textWire(run *TextRun) *wireNode {
	format := 0
	if run.Bold {
		format |= formatBold
	}
	if run.Code {
		format |= formatCode
	}
	text := run.Text
	detail := 0
	style := ""
	return &wireNode{
		Type:    "text",
		Version: editorNodeVersion,
		Format:  format,
		Text:    &text,
		Detail:  &detail,
		Mode:    "normal",
		Style:   &style,
	}
}

func fromWire(w *wireNode) (Node, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: nil node", ErrUnknownNodeType)
	}
	switch w.Type {
	case "root":
		doc := &Document{Children: make([]Node, 0, len(w.Children))}
		for _, child := range w.Children {
			node, err := fromWire(child)
			if err != nil {
				return nil, err
			}
			doc.Children = append(doc.Children, node)
		}
		return doc, nil
	case "heading":
		level := 1
		if _, err := fmt.Sscanf(w.Tag, "h%d", &level); err != nil || level < 1 {
			level = 1
		}
		if level > MaxHeadingLevel {
			level = MaxHeadingLevel
		}
		runs, err := wireToRuns(w.Children)
		if err != nil {
			return nil, err
		}
		return &Heading{Level: level, Children: runs}, nil
	case "paragraph":
		runs, err := wireToRuns(w.Children)
		if err != nil {
			return nil, err
		}
		return &Paragraph{Children: runs}, nil
	case "code":
		var b strings.Builder
		for _, child := range w.Children {
			switch child.Type {
			case "text", "code-highlight":
				if child.Text != nil {
					b.WriteString(*child.Text)
				}
			case "linebreak":
				b.WriteString("\n")
			default:
				return nil, fmt.Errorf("%w: %q inside code", ErrUnknownNodeType, child.Type)
			}
		}
		language := strings.TrimSpace(w.Language)
		if language == "" {
			language = DefaultCodeLanguage
		}
		return &CodeBlock{Language: language, Text: b.String()}, nil
	case "list":
		list := &List{Ordered: w.ListType == "number" || w.Tag == "ol"}
		for idx, child := range w.Children {
			node, err := fromWire(child)
			if err != nil {
				return nil, err
			}
			item, ok := node.(*ListItem)
			if !ok {
				return nil, fmt.Errorf("%w: %q inside list", ErrUnknownNodeType, child.Type)
			}
			if item.Value <= 0 {
				item.Value = idx + 1
			}
			list.Items = append(list.Items, item)
		}
		return list, nil
	case "listitem":
		runs, err := wireToRuns(w.Children)
		if err != nil {
			return nil, err
		}
		return &ListItem{Value: w.Value, Children: runs}, nil
	case "text":
		return wireToRun(w), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, w.Type)
	}
}

func wireToRuns(children []*wireNode) ([]*TextRun, error) {
	runs := make([]*TextRun, 0, len(children))
	for _, child := range children {
		if child == nil || child.Type != "text" {
			kind := "<nil>"
			if child != nil {
				kind = child.Type
			}
			return nil, fmt.Errorf("%w: %q in inline position", ErrUnknownNodeType, kind)
		}
		runs = append(runs, wireToRun(child))
	}
	return runs, nil
}

func wireToRun(w *wireNode) *TextRun {
	run := &TextRun{}
	if w.Text != nil {
		run.Text = *w.Text
	}
	format := formatBits(w.Format)
	run.Bold = format&formatBold != 0
	run.Code = format&formatCode != 0
	return run
}

func formatBits(raw any) int {
	switch typed := raw.(type) {
	case float64:
		return int(typed)
	case int:
		return typed
	case json.Number:
		value, _ := typed.Int64()
		return int(value)
	default:
		return 0
	}
}
