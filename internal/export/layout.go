package export

import (
	"errors"
	"fmt"

	"github.com/muurk/techguide/internal/manualapi"
)

// Overflow controls what a pane does with content taller than its height.
type Overflow int

const (
	// OverflowHidden clips content to the pane height.
	OverflowHidden Overflow = iota
	// OverflowScroll clips content to a window at the scroll offset.
	OverflowScroll
	// OverflowVisible shows all content regardless of height.
	OverflowVisible
)

// String returns the CSS-style name of the overflow mode.
func (o Overflow) String() string {
	switch o {
	case OverflowHidden:
		return "hidden"
	case OverflowScroll:
		return "scroll"
	case OverflowVisible:
		return "visible"
	default:
		return fmt.Sprintf("Overflow(%d)", int(o))
	}
}

// Unbounded is the Height of a pane without a height limit.
const Unbounded = 0

// Constraints are the layout properties Capture neutralizes.
type Constraints struct {
	Height       int
	Overflow     Overflow
	ScrollOffset int
}

// neutral lets a pane grow to fit its content.
var neutral = Constraints{Height: Unbounded, Overflow: OverflowVisible, ScrollOffset: 0}

// Pane is a layout node with constraints and an optional parent.
type Pane interface {
	Constraints() Constraints
	SetConstraints(Constraints)
	Parent() Pane
}

// Surface is the pane whose content is exported.
type Surface interface {
	Pane
	// Lines returns the content visible under the current constraints.
	Lines() []string
}

// ErrNothingToExport is returned when the surface renders no content.
var ErrNothingToExport = errors.New("nothing to export")

// Capture returns every line of the surface. Constraints of the surface and
// its ancestors are lifted for the duration of the call and restored before
// Capture returns, including when Lines panics.
func Capture(surface Surface) (lines []string, err error) {
	if surface == nil {
		return nil, manualapi.NewExportError("no results to export", ErrNothingToExport)
	}

	var chain []Pane
	for p := Pane(surface); p != nil; p = p.Parent() {
		chain = append(chain, p)
	}

	saved := make([]Constraints, len(chain))
	for i, p := range chain {
		saved[i] = p.Constraints()
	}

	defer func() {
		// Outermost first; the surface itself is restored last.
		for i := len(chain) - 1; i >= 0; i-- {
			chain[i].SetConstraints(saved[i])
		}
		if r := recover(); r != nil {
			lines = nil
			err = manualapi.NewExportError("capturing results failed", fmt.Errorf("%v", r))
		}
	}()

	for _, p := range chain {
		p.SetConstraints(neutral)
	}

	lines = surface.Lines()
	if len(lines) == 0 {
		return nil, manualapi.NewExportError("no results to export", ErrNothingToExport)
	}
	return lines, nil
}
