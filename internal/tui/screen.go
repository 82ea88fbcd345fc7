package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/muurk/techguide/internal/controller"
)

// screen holds the widget state the controller drives. Its methods satisfy
// the controller handles; the Bubble Tea model renders it.
type screen struct {
	region   controller.Region
	input    textinput.Model
	body     *frame
	results  *resultsPane
	message  string
	label    string
	disabled bool
}

func newScreen() *screen {
	ti := textinput.New()
	ti.Placeholder = "e.g. Samsung TV"
	ti.Prompt = "› "
	ti.PromptStyle = FocusedInputStyle
	ti.CharLimit = 120

	body := &frame{}
	return &screen{
		input:   ti,
		body:    body,
		results: newResultsPane(body),
	}
}

func (s *screen) handles() controller.Handles {
	return controller.Handles{
		Regions: s,
		Input:   s,
		Results: s.results,
		Errors:  s,
		Export:  s,
		Surface: s.results,
	}
}

func (s *screen) Show(r controller.Region) { s.region = r }

func (s *screen) Value() string { return s.input.Value() }

func (s *screen) SetValue(v string) {
	s.input.SetValue(v)
	s.input.CursorEnd()
}

func (s *screen) Focus() { s.input.Focus() }

func (s *screen) SetMessage(m string) { s.message = m }

func (s *screen) SetLabel(l string) { s.label = l }

func (s *screen) SetDisabled(d bool) { s.disabled = d }
