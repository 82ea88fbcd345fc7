package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/techguide/internal/export"
	"github.com/muurk/techguide/internal/manual"
)

var (
	headingStyle = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)
	markerStyle  = lipgloss.NewStyle().Foreground(SecondaryColor)
	codeStyle    = lipgloss.NewStyle().Foreground(SubtleColor)
)

// frame is the body area of the application container. Its height clips
// whatever region is visible.
type frame struct {
	c export.Constraints
}

func (f *frame) Constraints() export.Constraints     { return f.c }
func (f *frame) SetConstraints(c export.Constraints) { f.c = c }
func (f *frame) Parent() export.Pane                 { return nil }

// clip applies the frame height to rendered content.
func (f *frame) clip(content string) string {
	if f.c.Overflow == export.OverflowVisible || f.c.Height == export.Unbounded {
		return content
	}
	return lipgloss.NewStyle().MaxHeight(f.c.Height).Render(content)
}

// resultsPane shows the manual in a viewport. It is both the results view
// and the export surface: its viewport height and offset are the layout
// constraints lifted during capture.
type resultsPane struct {
	vp       viewport.Model
	parent   *frame
	doc      *manual.Document
	width    int
	overflow export.Overflow
}

func newResultsPane(parent *frame) *resultsPane {
	return &resultsPane{
		vp:       viewport.New(DefaultWidth, DefaultHeight),
		parent:   parent,
		width:    DefaultWidth,
		overflow: export.OverflowScroll,
	}
}

func (p *resultsPane) Constraints() export.Constraints {
	return export.Constraints{
		Height:       p.vp.Height,
		Overflow:     p.overflow,
		ScrollOffset: p.vp.YOffset,
	}
}

func (p *resultsPane) SetConstraints(c export.Constraints) {
	p.overflow = c.Overflow
	height := c.Height
	if c.Overflow == export.OverflowVisible || height == export.Unbounded {
		height = p.vp.TotalLineCount()
	}
	p.vp.Height = height
	p.vp.SetYOffset(c.ScrollOffset)
}

func (p *resultsPane) Parent() export.Pane {
	if p.parent == nil {
		return nil
	}
	return p.parent
}

// Lines returns the rows the viewport currently shows.
func (p *resultsPane) Lines() []string {
	if p.doc == nil {
		return nil
	}
	lines := strings.Split(p.vp.View(), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func (p *resultsPane) Clear() {
	p.doc = nil
	p.vp.SetContent("")
	p.vp.GotoTop()
}

func (p *resultsPane) Render(doc *manual.Document) {
	p.doc = doc
	p.refresh()
	p.vp.GotoTop()
}

// Resize sets the wrap width and visible height.
func (p *resultsPane) Resize(width, height int) {
	p.width = width
	p.vp.Width = width
	p.vp.Height = height
	p.refresh()
}

func (p *resultsPane) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	return cmd
}

func (p *resultsPane) View() string { return p.vp.View() }

func (p *resultsPane) ScrollPercent() float64 { return p.vp.ScrollPercent() }

func (p *resultsPane) refresh() {
	if p.doc == nil {
		p.vp.SetContent("")
		return
	}
	p.vp.SetContent(renderDocument(p.doc, p.width))
}

// renderDocument styles a document for the terminal. The plain layout is
// Document.Lines; styling only adds color.
func renderDocument(doc *manual.Document, width int) string {
	var b strings.Builder
	for i, blk := range doc.Blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		lines := blk.Lines(width)
		for j, line := range lines {
			if j > 0 {
				b.WriteByte('\n')
			}
			switch blk.Kind {
			case manual.BlockHeading:
				b.WriteString(headingStyle.Render(line))
			case manual.BlockCode, manual.BlockRule:
				b.WriteString(codeStyle.Render(line))
			case manual.BlockListItem:
				b.WriteString(styleMarker(line, blk.Marker()))
			default:
				b.WriteString(line)
			}
		}
	}
	return b.String()
}

func styleMarker(line, marker string) string {
	trimmed := strings.TrimLeft(line, " ")
	if !strings.HasPrefix(trimmed, marker) {
		return line
	}
	indent := line[:len(line)-len(trimmed)]
	return indent + markerStyle.Render(marker) + trimmed[len(marker):]
}
