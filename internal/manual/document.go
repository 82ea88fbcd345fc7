package manual

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// BlockKind identifies the type of a document block.
type BlockKind int

const (
	BlockHeading BlockKind = iota
	BlockParagraph
	BlockListItem
	BlockCode
	BlockRule
)

// String returns the block kind name.
func (k BlockKind) String() string {
	switch k {
	case BlockHeading:
		return "heading"
	case BlockParagraph:
		return "paragraph"
	case BlockListItem:
		return "list_item"
	case BlockCode:
		return "code"
	case BlockRule:
		return "rule"
	default:
		return fmt.Sprintf("BlockKind(%d)", int(k))
	}
}

// Block is one unit of rendered content.
type Block struct {
	Kind BlockKind

	// Level is the heading level (1-6) for headings and the nesting depth
	// (0-based) for list items.
	Level int

	// Ordinal is the item number for ordered list items, 0 for bullets.
	Ordinal int

	// Text is the block's plain text. Code blocks keep their newlines.
	Text string
}

// Document is a rendered manual.
type Document struct {
	// Title is the device the manual was requested for.
	Title  string
	Blocks []Block
}

// Empty reports whether the document has no blocks with content.
func (d *Document) Empty() bool {
	if d == nil {
		return true
	}
	for _, b := range d.Blocks {
		if b.Kind == BlockRule || strings.TrimSpace(b.Text) != "" {
			return false
		}
	}
	return true
}

// Headings returns the text of every heading block, in order.
func (d *Document) Headings() []string {
	var out []string
	for _, b := range d.Blocks {
		if b.Kind == BlockHeading {
			out = append(out, b.Text)
		}
	}
	return out
}

func (d *Document) add(b Block) {
	if b.Kind != BlockRule && b.Kind != BlockCode {
		b.Text = collapseSpace(b.Text)
		if b.Text == "" {
			return
		}
	}
	d.Blocks = append(d.Blocks, b)
}

// Lines lays the document out as plain text wrapped at width columns.
// A width of zero or less disables wrapping.
func (d *Document) Lines(width int) []string {
	var lines []string
	for i, b := range d.Blocks {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, b.Lines(width)...)
	}
	return lines
}

// Text is Lines joined with newlines.
func (d *Document) Text(width int) string {
	return strings.Join(d.Lines(width), "\n")
}

// Marker returns the list prefix for a list item ("• " or "3. ").
func (b Block) Marker() string {
	if b.Ordinal > 0 {
		return fmt.Sprintf("%d. ", b.Ordinal)
	}
	return "• "
}

// Lines lays out a single block as plain text.
func (b Block) Lines(width int) []string {
	switch b.Kind {
	case BlockHeading:
		text := b.Text
		if b.Level <= 2 {
			text = strings.ToUpper(text)
		}
		return wrap(text, width)
	case BlockListItem:
		indent := strings.Repeat("  ", b.Level)
		marker := b.Marker()
		hang := indent + strings.Repeat(" ", ansi.StringWidth(marker))
		lines := wrap(b.Text, width-len(hang))
		for i := range lines {
			if i == 0 {
				lines[i] = indent + marker + lines[i]
			} else {
				lines[i] = hang + lines[i]
			}
		}
		return lines
	case BlockCode:
		var out []string
		for _, l := range strings.Split(strings.TrimRight(b.Text, "\n"), "\n") {
			out = append(out, "    "+l)
		}
		return out
	case BlockRule:
		n := width
		if n <= 0 || n > 40 {
			n = 40
		}
		return []string{strings.Repeat("─", n)}
	default:
		return wrap(b.Text, width)
	}
}

func wrap(text string, width int) []string {
	if width > 0 {
		text = ansi.Wordwrap(text, width, "")
	}
	return strings.Split(text, "\n")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
