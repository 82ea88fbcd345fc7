package manual

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Step is one entry of a structured manual.
type Step struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ErrNoSteps is returned when a step payload decodes but holds no steps.
var ErrNoSteps = errors.New("manual contains no steps")

// ParseSteps decodes a step list. It accepts a bare array, an object with a
// "steps" key, or a JSON string wrapping either of those.
func ParseSteps(data []byte) ([]Step, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, ErrNoSteps
	}

	switch data[0] {
	case '"':
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, fmt.Errorf("decoding wrapped steps: %w", err)
		}
		return ParseSteps([]byte(inner))
	case '[':
		var steps []Step
		if err := json.Unmarshal(data, &steps); err != nil {
			return nil, fmt.Errorf("decoding steps: %w", err)
		}
		if len(steps) == 0 {
			return nil, ErrNoSteps
		}
		return steps, nil
	default:
		var wrapper struct {
			Steps []Step `json:"steps"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("decoding steps: %w", err)
		}
		if len(wrapper.Steps) == 0 {
			return nil, ErrNoSteps
		}
		return wrapper.Steps, nil
	}
}

// FromSteps renders each step as a level-3 heading followed by a paragraph.
func FromSteps(title string, steps []Step) *Document {
	doc := &Document{Title: title}
	for _, st := range steps {
		doc.add(Block{Kind: BlockHeading, Level: 3, Text: st.Title})
		doc.add(Block{Kind: BlockParagraph, Text: st.Description})
	}
	return doc
}
