package richtext

// Kind identifies the variant of a document node.
type Kind string

const (
	KindDocument  Kind = "document"
	KindHeading   Kind = "heading"
	KindParagraph Kind = "paragraph"
	KindCodeBlock Kind = "code_block"
	KindList      Kind = "list"
	KindListItem  Kind = "list_item"
	KindTextRun   Kind = "text_run"
)

const (
	// MaxHeadingLevel bounds heading depth; deeper `#` runs are clamped.
	MaxHeadingLevel = 6
	// DefaultCodeLanguage is used when a fence carries no language tag.
	DefaultCodeLanguage = "text"
)

// Node is the closed set of document tree variants. The unexported marker keeps
// the set sealed so serialisation switches stay exhaustive.
type Node interface {
	Kind() Kind
	node()
}

// Document is the root of a converted markdown source.
type Document struct {
	Children []Node
}

// Heading is a section title, levels 1 through 6.
type Heading struct {
	Level    int
	Children []*TextRun
}

// Paragraph holds one line of prose split into styled runs.
type Paragraph struct {
	Children []*TextRun
}

// CodeBlock holds verbatim fenced content.
type CodeBlock struct {
	Language string
	Text     string
}

// List wraps bulleted or numbered items.
type List struct {
	Ordered bool
	Items   []*ListItem
}

// ListItem carries its 1-based position in the parent list.
type ListItem struct {
	Value    int
	Children []*TextRun
}

// TextRun is an inline span. Bold and Code are independent flags.
type TextRun struct {
	Text string
	Bold bool
	Code bool
}

func (*Document) Kind() Kind  { return KindDocument }
func (*Heading) Kind() Kind   { return KindHeading }
func (*Paragraph) Kind() Kind { return KindParagraph }
func (*CodeBlock) Kind() Kind { return KindCodeBlock }
func (*List) Kind() Kind      { return KindList }
func (*ListItem) Kind() Kind  { return KindListItem }
func (*TextRun) Kind() Kind   { return KindTextRun }

func (*Document) node()  {}
func (*Heading) node()   {}
func (*Paragraph) node() {}
func (*CodeBlock) node() {}
func (*List) node()      {}
func (*ListItem) node()  {}
func (*TextRun) node()   {}

// Children returns the direct children of n in document order. Code blocks
// expose their payload as a single plain run.
func Children(n Node) []Node {
	switch typed := n.(type) {
	case *Document:
		return append([]Node(nil), typed.Children...)
	case *Heading:
		return runsToNodes(typed.Children)
	case *Paragraph:
		return runsToNodes(typed.Children)
	case *CodeBlock:
		return []Node{&TextRun{Text: typed.Text}}
	case *List:
		out := make([]Node, 0, len(typed.Items))
		for _, item := range typed.Items {
			out = append(out, item)
		}
		return out
	case *ListItem:
		return runsToNodes(typed.Children)
	default:
		return nil
	}
}

func runsToNodes(runs []*TextRun) []Node {
	out := make([]Node, 0, len(runs))
	for _, run := range runs {
		out = append(out, run)
	}
	return out
}

// Walk visits n and its descendants depth-first, stopping a branch when fn
// returns false.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	if _, ok := n.(*TextRun); ok {
		return
	}
	for _, child := range Children(n) {
		Walk(child, fn)
	}
}
