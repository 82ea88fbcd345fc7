package manual

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// FromHTML renders a trusted HTML fragment. The fragment is not sanitized;
// script and style elements are skipped only because they carry no text.
func FromHTML(title, fragment string) (*Document, error) {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	r := &htmlRenderer{doc: &Document{Title: title}}
	r.container(root, 0)
	r.flush()
	return r.doc, nil
}

type htmlRenderer struct {
	doc     *Document
	pending strings.Builder
}

// flush emits loose inline text gathered between block elements.
func (r *htmlRenderer) flush() {
	if r.pending.Len() == 0 {
		return
	}
	r.doc.add(Block{Kind: BlockParagraph, Text: r.pending.String()})
	r.pending.Reset()
}

func (r *htmlRenderer) container(n *html.Node, depth int) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.node(c, depth)
	}
}

func (r *htmlRenderer) node(n *html.Node, depth int) {
	switch n.Type {
	case html.TextNode:
		r.pending.WriteString(n.Data)
		return
	case html.ElementNode:
	case html.DocumentNode:
		r.container(n, depth)
		return
	default:
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Head, atom.Template, atom.Noscript:
		return
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		r.flush()
		level := int(n.Data[1] - '0')
		r.doc.add(Block{Kind: BlockHeading, Level: level, Text: inlineText(n)})
	case atom.P, atom.Blockquote, atom.Dt, atom.Dd, atom.Figcaption, atom.Caption:
		r.flush()
		r.paragraph(n)
	case atom.Pre:
		r.flush()
		r.doc.add(Block{Kind: BlockCode, Text: rawText(n)})
	case atom.Hr:
		r.flush()
		r.doc.add(Block{Kind: BlockRule})
	case atom.Br:
		r.flush()
	case atom.Ul, atom.Ol:
		r.flush()
		r.list(n, depth)
	case atom.Tr:
		r.flush()
		var cells []string
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode {
				cells = append(cells, inlineText(c))
			}
		}
		r.doc.add(Block{Kind: BlockParagraph, Text: strings.Join(cells, " | ")})
	case atom.Html, atom.Body, atom.Div, atom.Section, atom.Article, atom.Main,
		atom.Header, atom.Footer, atom.Nav, atom.Aside, atom.Table, atom.Thead,
		atom.Tbody, atom.Tfoot, atom.Dl, atom.Figure, atom.Details:
		r.flush()
		r.container(n, depth)
		r.flush()
	default:
		// Inline element: its text joins the pending paragraph.
		r.pending.WriteString(inlineText(n))
		r.pending.WriteByte(' ')
	}
}

// paragraph splits a paragraph at <br> boundaries.
func (r *htmlRenderer) paragraph(n *html.Node) {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Br {
			r.doc.add(Block{Kind: BlockParagraph, Text: b.String()})
			b.Reset()
			continue
		}
		writeText(&b, c)
	}
	r.doc.add(Block{Kind: BlockParagraph, Text: b.String()})
}

func (r *htmlRenderer) list(n *html.Node, depth int) {
	ordered := n.DataAtom == atom.Ol
	ordinal := 1
	if ordered {
		for _, a := range n.Attr {
			if a.Key == "start" {
				if _, err := fmt.Sscanf(a.Val, "%d", &ordinal); err != nil {
					ordinal = 1
				}
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.DataAtom != atom.Li {
			continue
		}
		item := Block{Kind: BlockListItem, Level: depth}
		if ordered {
			item.Ordinal = ordinal
			ordinal++
		}

		// Text of the item itself, then any nested lists beneath it.
		var b strings.Builder
		var nested []*html.Node
		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			if gc.Type == html.ElementNode && (gc.DataAtom == atom.Ul || gc.DataAtom == atom.Ol) {
				nested = append(nested, gc)
				continue
			}
			writeText(&b, gc)
		}
		item.Text = b.String()
		r.doc.add(item)
		for _, sub := range nested {
			r.list(sub, depth+1)
		}
	}
}

func inlineText(n *html.Node) string {
	var b strings.Builder
	writeText(&b, n)
	return b.String()
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style:
			return
		case atom.Br:
			b.WriteByte(' ')
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if n.Type == html.ElementNode && n.DataAtom == atom.Td {
		b.WriteByte(' ')
	}
}

// rawText keeps whitespace for <pre> content.
func rawText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Trim(b.String(), "\n")
}
