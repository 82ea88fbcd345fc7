// Package export turns the rendered results pane into a paginated PDF.
//
// A terminal pane only shows the lines that fit its height at its current
// scroll offset. To capture the whole manual, Capture temporarily lifts the
// height, overflow and scroll constraints of the pane and every ancestor,
// reads the full content, and restores every constraint before returning,
// whether capture succeeded, failed or panicked. The captured lines are then
// typeset by a Job into an A4 document named after the device.
//
//	lines, err := export.Capture(resultsPane)
//	if err != nil {
//	    return err
//	}
//	job := export.NewJob("Samsung TV", exportDir, lines)
//	pages, err := job.Write(ctx)
package export
