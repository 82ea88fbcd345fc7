package export

import "github.com/muurk/techguide/internal/manual"

// DefaultPageWidth is the print width in columns for A4 Courier at 10pt.
const DefaultPageWidth = 90

// Page is a print surface for headless exports. It is also a results view:
// rendering a document onto it lays the document out at a fixed width.
type Page struct {
	Width int

	c   Constraints
	doc *manual.Document
}

// NewPage returns an unbounded page of the given width.
func NewPage(width int) *Page {
	if width <= 0 {
		width = DefaultPageWidth
	}
	return &Page{Width: width, c: Constraints{Height: Unbounded, Overflow: OverflowVisible}}
}

func (p *Page) Constraints() Constraints     { return p.c }
func (p *Page) SetConstraints(c Constraints) { p.c = c }
func (p *Page) Parent() Pane                 { return nil }

// Clear removes the document.
func (p *Page) Clear() { p.doc = nil }

// Render replaces the document.
func (p *Page) Render(doc *manual.Document) { p.doc = doc }

// Lines lays out the document, honouring the current constraints.
func (p *Page) Lines() []string {
	if p.doc == nil {
		return nil
	}
	lines := p.doc.Lines(p.Width)
	if p.c.Overflow == OverflowVisible || p.c.Height == Unbounded {
		return lines
	}
	start := min(p.c.ScrollOffset, len(lines))
	return lines[start:min(start+p.c.Height, len(lines))]
}
