package manual

import (
	"fmt"
	"strings"
)

// Mode selects how inline content returned by the service is rendered.
type Mode string

const (
	// ModeSteps treats content as a JSON step list ({"steps":[...]} or [...]).
	ModeSteps Mode = "steps"
	// ModeHTML treats content as a trusted HTML fragment.
	ModeHTML Mode = "html"
	// ModeMarkdown treats content as Markdown.
	ModeMarkdown Mode = "markdown"
)

// DefaultMode matches the step-list payload served under the "html" field.
const DefaultMode = ModeSteps

// Modes lists the supported render modes.
func Modes() []Mode {
	return []Mode{ModeSteps, ModeHTML, ModeMarkdown}
}

// ParseMode validates a mode name. "md" is accepted for markdown.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(DefaultMode):
		return DefaultMode, nil
	case "html":
		return ModeHTML, nil
	case "markdown", "md":
		return ModeMarkdown, nil
	default:
		return "", fmt.Errorf("unknown render mode %q (want steps, html or markdown)", s)
	}
}

// Render converts a content body to a Document using the given mode.
func Render(mode Mode, title, body string) (*Document, error) {
	switch mode {
	case ModeSteps:
		steps, err := ParseSteps([]byte(body))
		if err != nil {
			return nil, err
		}
		return FromSteps(title, steps), nil
	case ModeHTML:
		return FromHTML(title, body)
	case ModeMarkdown:
		return FromMarkdown(title, body)
	default:
		return nil, fmt.Errorf("unknown render mode %q", mode)
	}
}
