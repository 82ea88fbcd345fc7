package controller

import (
	"github.com/muurk/techguide/internal/export"
	"github.com/muurk/techguide/internal/manual"
)

// RegionSwitcher shows exactly one region and hides the others.
type RegionSwitcher interface {
	Show(region Region)
}

// Input is the device name input control.
type Input interface {
	Value() string
	SetValue(value string)
	Focus()
}

// ResultsView displays a rendered manual.
type ResultsView interface {
	Clear()
	Render(doc *manual.Document)
}

// ErrorView displays the message of the Error region.
type ErrorView interface {
	SetMessage(message string)
}

// ExportButton reflects the state of a PDF export.
type ExportButton interface {
	SetLabel(label string)
	SetDisabled(disabled bool)
}

// Handles are the UI capabilities the controller drives. Any nil field is
// replaced by an inert stub; a nil Surface disables export.
type Handles struct {
	Regions RegionSwitcher
	Input   Input
	Results ResultsView
	Errors  ErrorView
	Export  ExportButton

	// Surface is the results pane captured by the PDF export.
	Surface export.Surface
}

// inert satisfies every handle and does nothing.
type inert struct{}

func (inert) Show(Region)             {}
func (inert) Value() string           { return "" }
func (inert) SetValue(string)         {}
func (inert) Focus()                  {}
func (inert) Clear()                  {}
func (inert) Render(*manual.Document) {}
func (inert) SetMessage(string)       {}
func (inert) SetLabel(string)         {}
func (inert) SetDisabled(bool)        {}

func (h Handles) withDefaults() Handles {
	if h.Regions == nil {
		h.Regions = inert{}
	}
	if h.Input == nil {
		h.Input = inert{}
	}
	if h.Results == nil {
		h.Results = inert{}
	}
	if h.Errors == nil {
		h.Errors = inert{}
	}
	if h.Export == nil {
		h.Export = inert{}
	}
	return h
}
