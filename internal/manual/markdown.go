package manual

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// FromMarkdown renders Markdown by walking the goldmark AST.
func FromMarkdown(title, source string) (*Document, error) {
	src := []byte(source)
	root := markdown.Parser().Parse(text.NewReader(src))

	r := &mdRenderer{src: src, doc: &Document{Title: title}}
	r.blocks(root, 0)
	return r.doc, nil
}

type mdRenderer struct {
	src []byte
	doc *Document
}

func (r *mdRenderer) blocks(parent ast.Node, depth int) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		r.block(n, depth)
	}
}

func (r *mdRenderer) block(n ast.Node, depth int) {
	switch node := n.(type) {
	case *ast.Heading:
		r.doc.add(Block{Kind: BlockHeading, Level: node.Level, Text: r.inline(node)})
	case *ast.Paragraph, *ast.TextBlock:
		r.doc.add(Block{Kind: BlockParagraph, Text: r.inline(node)})
	case *ast.List:
		r.list(node, depth)
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		r.doc.add(Block{Kind: BlockCode, Text: r.lines(node)})
	case *ast.ThematicBreak:
		r.doc.add(Block{Kind: BlockRule})
	case *ast.HTMLBlock:
		// Raw HTML inside Markdown goes through the HTML renderer.
		if sub, err := FromHTML("", r.lines(node)); err == nil {
			r.doc.Blocks = append(r.doc.Blocks, sub.Blocks...)
		}
	case *extast.Table:
		for row := node.FirstChild(); row != nil; row = row.NextSibling() {
			var cells []string
			for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
				cells = append(cells, r.inline(cell))
			}
			r.doc.add(Block{Kind: BlockParagraph, Text: strings.Join(cells, " | ")})
		}
	default:
		// Blockquotes and other containers contribute their children.
		r.blocks(n, depth)
	}
}

func (r *mdRenderer) list(list *ast.List, depth int) {
	ordinal := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		b := Block{Kind: BlockListItem, Level: depth}
		if list.IsOrdered() {
			b.Ordinal = ordinal
			ordinal++
		}

		var parts []string
		var nested []*ast.List
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				nested = append(nested, sub)
				continue
			}
			parts = append(parts, r.inline(c))
		}
		b.Text = strings.Join(parts, " ")
		r.doc.add(b)

		for _, sub := range nested {
			r.list(sub, depth+1)
		}
	}
}

// inline concatenates the text of n's inline descendants.
func (r *mdRenderer) inline(n ast.Node) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := c.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(r.src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.AutoLink:
			b.Write(node.URL(r.src))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		case *extast.TaskCheckBox:
			if node.IsChecked {
				b.WriteString("[x] ")
			} else {
				b.WriteString("[ ] ")
			}
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// lines returns the raw source lines of a block node.
func (r *mdRenderer) lines(n ast.Node) string {
	var b strings.Builder
	segs := n.Lines()
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		b.Write(seg.Value(r.src))
	}
	return strings.TrimRight(b.String(), "\n")
}
