package manualapi

import (
	"fmt"
	"strings"

	"github.com/muurk/techguide/internal/manual"
)

// Result is a successful lookup. It is one of Content, Steps or Redirect.
type Result interface {
	isResult()
}

// Content is an inline manual body to render directly.
type Content struct {
	Format manual.Mode
	Body   string
}

// Steps is a structured step list.
type Steps struct {
	Steps []manual.Step
}

// Redirect names a manual resource that must be probed and loaded.
type Redirect struct {
	ManualID string
}

func (Content) isResult()  {}
func (Steps) isResult()    {}
func (Redirect) isResult() {}

// Field is the response field carrying the payload for a deployment.
type Field string

const (
	FieldHTML     Field = "html"
	FieldMarkdown Field = "markdown"
	FieldSteps    Field = "steps"
	FieldManualID Field = "manual_id"
)

// DefaultField is the field used by the subtitle search endpoint.
const DefaultField = FieldHTML

// ParseField validates a payload field name.
func ParseField(s string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return DefaultField, nil
	case FieldHTML, FieldMarkdown, FieldSteps, FieldManualID:
		return f, nil
	default:
		return "", fmt.Errorf("unknown result field %q (want html, markdown, steps or manual_id)", s)
	}
}
