package text

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
)

// Document is a prompt prepared for analysis. All matching runs against
// Norm; Plain keeps the original casing for display and extraction captures.
type Document struct {
	// Raw is the input exactly as given.
	Raw string

	// Plain is the input with markdown syntax stripped. Code block and
	// inline code content is preserved verbatim.
	Plain string

	// Norm is Plain lowercased with every whitespace run (including
	// newlines) collapsed to a single space, so multi-line phrasing
	// cannot defeat single-line patterns.
	Norm string

	// WordCount is the number of whitespace-separated fields in Plain.
	WordCount int
}

// Normalize prepares raw prompt text for rule evaluation and structure
// extraction. Empty or whitespace-only input is valid and yields an empty
// Norm with WordCount zero.
func Normalize(raw string) *Document {
	plain := stripMarkdown([]byte(raw))
	fields := strings.Fields(plain)

	return &Document{
		Raw:       raw,
		Plain:     plain,
		Norm:      strings.ToLower(strings.Join(fields, " ")),
		WordCount: len(fields),
	}
}

// stripMarkdown walks the goldmark AST and collects the text content,
// dropping heading markers, emphasis, list bullets, and link syntax.
func stripMarkdown(source []byte) string {
	md := goldmark.New()
	reader := gtext.NewReader(source)
	doc := md.Parser().Parse(reader)

	var buf bytes.Buffer

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if n.Type() == ast.TypeBlock && buf.Len() > 0 {
			buf.WriteByte('\n')
		}

		switch node := n.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.AutoLink:
			buf.Write(node.URL(source))
		case *ast.FencedCodeBlock:
			writeLines(&buf, node, source)
		case *ast.CodeBlock:
			writeLines(&buf, node, source)
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(buf.String())
}

func writeLines(buf *bytes.Buffer, n ast.Node, source []byte) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
}
