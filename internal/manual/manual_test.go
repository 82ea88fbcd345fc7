package manual

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeSteps, false},
		{"steps", ModeSteps, false},
		{"HTML", ModeHTML, false},
		{"md", ModeMarkdown, false},
		{"markdown", ModeMarkdown, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseSteps(t *testing.T) {
	want := []Step{{Title: "Remove back cover", Description: "Use a plastic pry tool."}}

	inputs := map[string]string{
		"array":          `[{"title":"Remove back cover","description":"Use a plastic pry tool."}]`,
		"object":         `{"steps":[{"title":"Remove back cover","description":"Use a plastic pry tool."}]}`,
		"wrapped string": `"{\"steps\":[{\"title\":\"Remove back cover\",\"description\":\"Use a plastic pry tool.\"}]}"`,
	}
	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			got, err := ParseSteps([]byte(in))
			if err != nil {
				t.Fatalf("ParseSteps() error = %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("ParseSteps() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestParseStepsErrors(t *testing.T) {
	if _, err := ParseSteps([]byte(`{"steps":[]}`)); !errors.Is(err, ErrNoSteps) {
		t.Errorf("empty steps error = %v, want ErrNoSteps", err)
	}
	if _, err := ParseSteps([]byte("   ")); !errors.Is(err, ErrNoSteps) {
		t.Errorf("blank input error = %v, want ErrNoSteps", err)
	}
	if _, err := ParseSteps([]byte(`{"steps":`)); err == nil {
		t.Error("truncated JSON should fail")
	}
}

func TestFromSteps(t *testing.T) {
	doc := FromSteps("iPhone 12", []Step{
		{Title: "Power off", Description: "Hold the side button."},
		{Title: "Heat the screen", Description: "Apply heat for 90 seconds."},
	})

	if doc.Title != "iPhone 12" {
		t.Errorf("Title = %q", doc.Title)
	}
	if len(doc.Blocks) != 4 {
		t.Fatalf("got %d blocks, want 4", len(doc.Blocks))
	}
	if doc.Blocks[0].Kind != BlockHeading || doc.Blocks[0].Level != 3 {
		t.Errorf("first block = %+v, want level-3 heading", doc.Blocks[0])
	}
	if doc.Blocks[1].Kind != BlockParagraph || doc.Blocks[1].Text != "Hold the side button." {
		t.Errorf("second block = %+v", doc.Blocks[1])
	}
}

func TestFromHTML(t *testing.T) {
	fragment := `
<h2>Battery replacement</h2>
<p>Disconnect   the <b>battery</b> first.<br>Then wait.</p>
<script>alert("x")</script>
<ol start="3"><li>Open case<ul><li>Mind the clips</li></ul></li><li>Lift battery</li></ol>
<pre>torque: 0.1 Nm
screw: T5</pre>
<hr>
loose trailing text`

	doc, err := FromHTML("Pixel 6", fragment)
	if err != nil {
		t.Fatalf("FromHTML() error = %v", err)
	}

	want := []Block{
		{Kind: BlockHeading, Level: 2, Text: "Battery replacement"},
		{Kind: BlockParagraph, Text: "Disconnect the battery first."},
		{Kind: BlockParagraph, Text: "Then wait."},
		{Kind: BlockListItem, Level: 0, Ordinal: 3, Text: "Open case"},
		{Kind: BlockListItem, Level: 1, Text: "Mind the clips"},
		{Kind: BlockListItem, Level: 0, Ordinal: 4, Text: "Lift battery"},
		{Kind: BlockCode, Text: "torque: 0.1 Nm\nscrew: T5"},
		{Kind: BlockRule},
		{Kind: BlockParagraph, Text: "loose trailing text"},
	}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Errorf("FromHTML() blocks =\n%+v\nwant\n%+v", doc.Blocks, want)
	}
}

func TestFromMarkdown(t *testing.T) {
	src := "# Samsung TV\n\nUnplug the set\nbefore opening.\n\n1. Remove stand\n2. Remove screws\n   - eight of them\n\n```\nM4x10\n```\n\n---\n"

	doc, err := FromMarkdown("Samsung TV", src)
	if err != nil {
		t.Fatalf("FromMarkdown() error = %v", err)
	}

	want := []Block{
		{Kind: BlockHeading, Level: 1, Text: "Samsung TV"},
		{Kind: BlockParagraph, Text: "Unplug the set before opening."},
		{Kind: BlockListItem, Level: 0, Ordinal: 1, Text: "Remove stand"},
		{Kind: BlockListItem, Level: 0, Ordinal: 2, Text: "Remove screws"},
		{Kind: BlockListItem, Level: 1, Text: "eight of them"},
		{Kind: BlockCode, Text: "M4x10"},
		{Kind: BlockRule},
	}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Errorf("FromMarkdown() blocks =\n%+v\nwant\n%+v", doc.Blocks, want)
	}
}

func TestRenderDispatch(t *testing.T) {
	doc, err := Render(ModeMarkdown, "Kindle", "## Charging")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := doc.Headings(); len(got) != 1 || got[0] != "Charging" {
		t.Errorf("Headings() = %v", got)
	}

	if _, err := Render(ModeSteps, "Kindle", "<p>not json</p>"); err == nil {
		t.Error("steps mode should reject non-JSON content")
	}
}

func TestDocumentLines(t *testing.T) {
	doc := &Document{Blocks: []Block{
		{Kind: BlockHeading, Level: 1, Text: "Intro"},
		{Kind: BlockListItem, Ordinal: 1, Text: "alpha beta gamma delta"},
	}}

	lines := doc.Lines(12)
	if lines[0] != "INTRO" {
		t.Errorf("heading line = %q, want INTRO", lines[0])
	}
	if lines[1] != "" {
		t.Errorf("expected blank separator, got %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "1. ") {
		t.Errorf("list line = %q, want ordinal marker", lines[2])
	}
	for _, l := range lines[3:] {
		if !strings.HasPrefix(l, "   ") {
			t.Errorf("continuation %q should hang under the marker", l)
		}
	}
}

func TestDocumentEmpty(t *testing.T) {
	var nilDoc *Document
	if !nilDoc.Empty() {
		t.Error("nil document should be empty")
	}
	doc, _ := FromHTML("x", "<p>   </p>")
	if !doc.Empty() {
		t.Errorf("whitespace-only document should be empty, got %+v", doc.Blocks)
	}
}
