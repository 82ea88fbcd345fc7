package tui

import (
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/techguide/internal/logging"
)

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

// copiedMsg reports the result of copying the manual text.
type copiedMsg struct {
	lines int
	err   error
}

// copyManual copies the rendered manual as plain text.
func (m AppModel) copyManual() tea.Cmd {
	doc := m.ctl.Document()
	if doc == nil || doc.Empty() {
		return nil
	}
	text := doc.Text(ContentWidth(m.Width))
	lines := len(doc.Lines(ContentWidth(m.Width)))
	return func() tea.Msg {
		if err := clipboardWrite(text); err != nil {
			logging.Warn("Clipboard copy failed", zap.Error(err))
			return copiedMsg{err: err}
		}
		return copiedMsg{lines: lines}
	}
}
