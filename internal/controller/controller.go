package controller

import (
	"context"
	"strings"
	"time"

	"github.com/muurk/techguide/internal/logging"
	"github.com/muurk/techguide/internal/manual"
	"github.com/muurk/techguide/internal/manualapi"
)

// Lookup is the subset of the manual service the controller needs.
// *manualapi.Client implements it.
type Lookup interface {
	Search(ctx context.Context, device string) (manualapi.Result, error)
	Probe(ctx context.Context, manualID string) error
	LoadManual(ctx context.Context, manualID string) (manualapi.Content, error)
}

// Pending describes the single request a submission must issue.
type Pending struct {
	Token  uint64
	Device string
}

// Outcome is a resolved search, ready to be applied with Complete.
type Outcome struct {
	Token   uint64
	Device  string
	Doc     *manual.Document
	Err     error
	Elapsed time.Duration
}

// Controller is the view controller. Create it with New.
type Controller struct {
	lookup    Lookup
	h         Handles
	exportDir string

	state   Region
	device  string
	message string
	lastErr error
	doc     *manual.Document
	token   uint64

	exporting  bool
	exportDone bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithExportDir sets the directory PDF exports are written to.
func WithExportDir(dir string) Option {
	return func(c *Controller) { c.exportDir = dir }
}

// New builds a controller in the Home region. Missing handles are replaced
// with inert stubs; New never fails on an incomplete UI.
func New(lookup Lookup, h Handles, opts ...Option) *Controller {
	c := &Controller{
		lookup:    lookup,
		h:         h.withDefaults(),
		exportDir: ".",
	}
	for _, opt := range opts {
		opt(c)
	}

	c.h.Export.SetLabel(LabelIdle)
	c.h.Export.SetDisabled(false)
	c.show(RegionHome)
	c.h.Input.Focus()
	return c
}

// State returns the visible region.
func (c *Controller) State() Region { return c.state }

// CurrentDevice returns the remembered device, "" when no search is active.
func (c *Controller) CurrentDevice() string { return c.device }

// Message returns the text of the Error region.
func (c *Controller) Message() string { return c.message }

// Err returns the error behind the Error region, if any.
func (c *Controller) Err() error { return c.lastErr }

// Document returns the manual shown in the Results region.
func (c *Controller) Document() *manual.Document { return c.doc }

// Token returns the current generation token.
func (c *Controller) Token() uint64 { return c.token }

// SubmitInput submits the current value of the input control.
func (c *Controller) SubmitInput() (Pending, bool) {
	return c.SubmitSearch(c.h.Input.Value())
}

// SubmitSearch starts a search. Empty input (after trimming) shows the
// validation error and returns false without any request; a search still in
// flight is abandoned. Otherwise the
// device is remembered, Loading is shown and the returned Pending must be
// passed to Resolve.
func (c *Controller) SubmitSearch(device string) (Pending, bool) {
	device = strings.TrimSpace(device)
	if device == "" {
		c.token++
		c.fail(manualapi.NewValidationError(manualapi.MsgDeviceRequired))
		return Pending{}, false
	}

	c.device = device
	c.token++
	c.show(RegionLoading)
	logging.LogSearch(c.token, device)

	return Pending{Token: c.token, Device: device}, true
}

// Resolve performs the lookup for p. It reads no controller state besides
// the lookup client and may run on any goroutine.
func (c *Controller) Resolve(ctx context.Context, p Pending) Outcome {
	start := time.Now()
	doc, err := c.fetch(ctx, p.Device)
	return Outcome{
		Token:   p.Token,
		Device:  p.Device,
		Doc:     doc,
		Err:     err,
		Elapsed: time.Since(start),
	}
}

func (c *Controller) fetch(ctx context.Context, device string) (*manual.Document, error) {
	result, err := c.lookup.Search(ctx, device)
	if err != nil {
		return nil, err
	}

	var doc *manual.Document
	switch r := result.(type) {
	case manualapi.Steps:
		doc = manual.FromSteps(device, r.Steps)

	case manualapi.Content:
		doc, err = renderContent(device, r)

	case manualapi.Redirect:
		if err := c.lookup.Probe(ctx, r.ManualID); err != nil {
			return nil, err
		}
		content, err := c.lookup.LoadManual(ctx, r.ManualID)
		if err != nil {
			return nil, err
		}
		doc, err = renderContent(device, content)
		if err != nil {
			return nil, err
		}

	default:
		return nil, manualapi.NewMalformedError("unsupported result type", nil)
	}
	if err != nil {
		return nil, err
	}

	if doc.Empty() {
		return nil, manualapi.NewApplicationError(manualapi.MsgNotFound, 0)
	}
	return doc, nil
}

func renderContent(device string, content manualapi.Content) (*manual.Document, error) {
	doc, err := manual.Render(content.Format, device, content.Body)
	if err != nil {
		return nil, manualapi.NewMalformedError("failed to render manual", err)
	}
	return doc, nil
}

// Complete applies an outcome. Outcomes from superseded submissions are
// discarded and Complete returns false.
func (c *Controller) Complete(o Outcome) bool {
	if o.Token != c.token {
		logging.LogStaleResponse(o.Token, c.token)
		return false
	}

	logging.LogOutcome(o.Token, o.Device, o.Elapsed, o.Err)
	if o.Err != nil {
		c.fail(o.Err)
		return true
	}
	c.RenderResults(o.Doc)
	return true
}

// Search runs a whole search synchronously and returns its error, if any.
func (c *Controller) Search(ctx context.Context, device string) error {
	p, ok := c.SubmitSearch(device)
	if !ok {
		return c.lastErr
	}
	o := c.Resolve(ctx, p)
	c.Complete(o)
	return o.Err
}

// RenderResults replaces the results content with doc and shows Results.
func (c *Controller) RenderResults(doc *manual.Document) {
	c.h.Results.Clear()
	c.doc = doc
	c.lastErr = nil
	c.message = ""
	c.h.Results.Render(doc)
	c.show(RegionResults)
}

// ResetToHome forgets the current search, shows Home and clears and focuses
// the input. Any search still in flight is superseded.
func (c *Controller) ResetToHome() {
	c.token++
	c.device = ""
	c.doc = nil
	c.h.Results.Clear()
	c.show(RegionHome)
	c.h.Input.SetValue("")
	c.h.Input.Focus()
}

// RetryLastSearch resubmits the remembered device, or resets to Home when
// there is none.
func (c *Controller) RetryLastSearch() (Pending, bool) {
	if c.device == "" {
		c.ResetToHome()
		return Pending{}, false
	}
	c.h.Input.SetValue(c.device)
	return c.SubmitSearch(c.device)
}

func (c *Controller) fail(err error) {
	c.lastErr = err
	c.message = manualapi.UserMessage(err)
	c.h.Errors.SetMessage(c.message)
	c.show(RegionError)
}

func (c *Controller) show(r Region) {
	c.state = r
	c.h.Regions.Show(r)
}
