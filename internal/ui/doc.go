// Package ui renders the output of the non-interactive techguide commands.
//
// Components follow a "run once and exit" pattern: a Header describing the
// command, the command's own output, then a Result box. Everything is styled
// with Lipgloss and sized to the terminal.
//
// Example:
//
//	fmt.Println(ui.NewHeader("Manual export", "techguide export", []ui.Param{
//	    {Key: "Device", Value: device},
//	    {Key: "Server", Value: server},
//	}).Render())
//
//	fmt.Println(ui.NewSuccessResult("PDF written", []ui.Param{
//	    {Key: "File", Value: path},
//	}).Render())
package ui
