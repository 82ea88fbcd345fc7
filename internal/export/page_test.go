package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/techguide/internal/manual"
)

func TestPageLaysOutDocument(t *testing.T) {
	page := NewPage(0)
	assert.Equal(t, DefaultPageWidth, page.Width)
	assert.Nil(t, page.Lines())

	doc := &manual.Document{Title: "Kettle", Blocks: []manual.Block{
		{Kind: manual.BlockHeading, Level: 1, Text: "Descaling"},
		{Kind: manual.BlockParagraph, Text: strings.Repeat("vinegar ", 30)},
	}}
	page.Render(doc)

	lines, err := Capture(page)
	require.NoError(t, err)
	assert.Equal(t, "DESCALING", lines[0])
	assert.Greater(t, len(lines), 3, "long paragraph wraps")
	for _, l := range lines {
		assert.LessOrEqual(t, len(l), DefaultPageWidth)
	}

	page.Clear()
	_, err = Capture(page)
	assert.ErrorIs(t, err, ErrNothingToExport)
}

func TestPageHonoursConstraints(t *testing.T) {
	page := NewPage(40)
	page.Render(&manual.Document{Blocks: []manual.Block{
		{Kind: manual.BlockParagraph, Text: "one"},
		{Kind: manual.BlockParagraph, Text: "two"},
		{Kind: manual.BlockParagraph, Text: "three"},
	}})
	page.SetConstraints(Constraints{Height: 1, Overflow: OverflowScroll, ScrollOffset: 2})

	assert.Equal(t, []string{"two"}, page.Lines())

	lines, err := Capture(page)
	require.NoError(t, err)
	assert.Len(t, lines, 5)
	assert.Equal(t, Constraints{Height: 1, Overflow: OverflowScroll, ScrollOffset: 2}, page.Constraints())
}
