package controller

import (
	"context"
	"time"

	"github.com/muurk/techguide/internal/export"
	"github.com/muurk/techguide/internal/manualapi"
)

// Export button labels.
const (
	LabelIdle = "Download PDF"
	LabelBusy = "Generating PDF..."
	LabelDone = "✓ Downloaded"
)

// ExportResetDelay is how long the done label stays before reverting.
const ExportResetDelay = 2 * time.Second

// Exporting reports whether an export is in progress.
func (c *Controller) Exporting() bool { return c.exporting }

// ExportDir returns the directory exports are written to.
func (c *Controller) ExportDir() string { return c.exportDir }

// BeginExport captures the results pane and returns a job to write. It
// returns a nil job and nil error when export is unavailable (no surface),
// already running, or the done label has not reverted yet. Capture failures are shown in the Error region.
func (c *Controller) BeginExport() (*export.Job, error) {
	if c.h.Surface == nil || c.exporting || c.exportDone {
		return nil, nil
	}
	if c.state != RegionResults || c.doc == nil || c.device == "" {
		err := manualapi.NewExportError("no device selected for download", nil)
		c.fail(err)
		return nil, err
	}

	c.exporting = true
	c.h.Export.SetLabel(LabelBusy)
	c.h.Export.SetDisabled(true)

	lines, err := export.Capture(c.h.Surface)
	if err != nil {
		c.FinishExport(err)
		return nil, err
	}
	return export.NewJob(c.device, c.exportDir, lines), nil
}

// FinishExport records the result of writing a job. On success the button
// shows LabelDone until RevertExportButton; on failure it is reset and the
// error is shown.
func (c *Controller) FinishExport(err error) {
	c.exporting = false
	if err != nil {
		c.RevertExportButton()
		if _, ok := manualapi.KindOf(err); !ok {
			err = manualapi.NewExportError("export failed", err)
		}
		c.fail(err)
		return
	}
	c.exportDone = true
	c.h.Export.SetLabel(LabelDone)
}

// RevertExportButton puts the button back to its idle state.
func (c *Controller) RevertExportButton() {
	if c.exporting {
		return
	}
	c.exportDone = false
	c.h.Export.SetLabel(LabelIdle)
	c.h.Export.SetDisabled(false)
}

// Export captures and writes the PDF synchronously and returns its path.
// A nil error with an empty path means export is unavailable.
func (c *Controller) Export(ctx context.Context) (string, error) {
	job, err := c.BeginExport()
	if err != nil || job == nil {
		return "", err
	}
	_, err = job.Write(ctx)
	c.FinishExport(err)
	if err != nil {
		return "", err
	}
	return job.Path, nil
}
