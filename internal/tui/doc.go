// Package tui implements the full-screen terminal interface for techguide.
//
// The interface is a Bubble Tea program driving a controller.Controller.
// The controller owns the lookup state machine; this package supplies the
// handles it drives (region switcher, input, results pane, error view and
// export button) and runs the blocking work as tea.Cmds.
//
// # Regions
//
// Exactly one region is visible at a time:
//   - Home: device name input
//   - Loading: spinner while the lookup is in flight
//   - Results: scrollable manual with a PDF export button
//   - Error: message with retry and home actions
//
// All regions share RenderApplicationContainer for the header, the
// context-sensitive help footer and the outer border.
//
// # Usage
//
//	app := tui.New(ctx, client, tui.Options{ExportDir: dir})
//	program := tea.NewProgram(app, tea.WithAltScreen())
//	if _, err := program.Run(); err != nil {
//	    log.Fatal(err)
//	}
package tui
