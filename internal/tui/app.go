package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/techguide/internal/controller"
	"github.com/muurk/techguide/internal/export"
	"github.com/muurk/techguide/internal/manualapi"
)

// Messages for async operations
type outcomeMsg struct {
	outcome controller.Outcome
}

type exportDoneMsg struct {
	path  string
	pages int
	err   error
}

type exportResetMsg struct{}

// Options configure the application model.
type Options struct {
	// Server is shown in the header.
	Server string

	// ExportDir is where PDFs are written. Empty means the working directory.
	ExportDir string

	// Device, when set, is searched for as soon as the program starts.
	Device string

	// ResetDelay overrides controller.ExportResetDelay.
	ResetDelay time.Duration
}

// AppModel is the top-level Bubble Tea model.
type AppModel struct {
	ctx context.Context
	ctl *controller.Controller
	scr *screen

	spinner     spinner.Model
	Help        help.Model
	HomeKeys    homeKeyMap
	LoadingKeys loadingKeyMap
	ResultsKeys resultsKeyMap
	ErrorKeys   errorKeyMap

	server     string
	device     string
	resetDelay time.Duration
	status     string

	Width  int
	Height int
}

// New creates the application model in the Home region.
func New(ctx context.Context, lookup controller.Lookup, opts Options) AppModel {
	scr := newScreen()

	var ctlOpts []controller.Option
	if opts.ExportDir != "" {
		ctlOpts = append(ctlOpts, controller.WithExportDir(opts.ExportDir))
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	resetDelay := opts.ResetDelay
	if resetDelay <= 0 {
		resetDelay = controller.ExportResetDelay
	}

	m := AppModel{
		ctx:         ctx,
		ctl:         controller.New(lookup, scr.handles(), ctlOpts...),
		scr:         scr,
		spinner:     s,
		Help:        help.New(),
		HomeKeys:    newHomeKeys(),
		LoadingKeys: newLoadingKeys(),
		ResultsKeys: newResultsKeys(),
		ErrorKeys:   newErrorKeys(),
		server:      opts.Server,
		device:      strings.TrimSpace(opts.Device),
		resetDelay:  resetDelay,
	}
	m.resize(DefaultWidth, DefaultHeight)
	return m
}

// Controller returns the controller driven by the model.
func (m AppModel) Controller() *controller.Controller { return m.ctl }

// Init starts the cursor blink and the initial search, if any.
func (m AppModel) Init() tea.Cmd {
	if m.device == "" {
		return textinput.Blink
	}
	m.scr.SetValue(m.device)
	return m.submit(m.ctl.SubmitInput())
}

// Update handles all messages and routes keys to the visible region
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case outcomeMsg:
		m.ctl.Complete(msg.outcome)
		return m, nil

	case exportDoneMsg:
		m.ctl.FinishExport(msg.err)
		if msg.err != nil {
			m.status = ""
			return m, nil
		}
		m.status = fmt.Sprintf("Saved %s (%d pages)", msg.path, msg.pages)
		return m, tea.Tick(m.resetDelay, func(time.Time) tea.Msg { return exportResetMsg{} })

	case exportResetMsg:
		m.ctl.RevertExportButton()
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.status = "Copy failed: " + msg.err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("Copied %d lines to the clipboard", msg.lines)
		return m, nil

	case spinner.TickMsg:
		if m.ctl.State() != controller.RegionLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	if m.ctl.State() == controller.RegionHome {
		var cmd tea.Cmd
		m.scr.input, cmd = m.scr.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.ctl.State() {
	case controller.RegionHome:
		switch {
		case key.Matches(msg, m.HomeKeys.Submit):
			m.status = ""
			return m, m.submit(m.ctl.SubmitInput())
		case key.Matches(msg, m.HomeKeys.Clear):
			m.scr.SetValue("")
			return m, nil
		}
		var cmd tea.Cmd
		m.scr.input, cmd = m.scr.input.Update(msg)
		return m, cmd

	case controller.RegionLoading:
		if key.Matches(msg, m.LoadingKeys.Cancel) {
			m.ctl.ResetToHome()
		}
		return m, nil

	case controller.RegionResults:
		switch {
		case key.Matches(msg, m.ResultsKeys.Download):
			return m, m.download()
		case key.Matches(msg, m.ResultsKeys.Copy):
			return m, m.copyManual()
		case key.Matches(msg, m.ResultsKeys.Home):
			return m.goHome()
		case key.Matches(msg, m.ResultsKeys.Quit):
			return m, tea.Quit
		}
		return m, m.scr.results.Update(msg)

	case controller.RegionError:
		switch {
		case key.Matches(msg, m.ErrorKeys.Retry):
			return m, m.submit(m.ctl.RetryLastSearch())
		case key.Matches(msg, m.ErrorKeys.Home):
			return m.goHome()
		case key.Matches(msg, m.ErrorKeys.Quit):
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m AppModel) goHome() (tea.Model, tea.Cmd) {
	// The running write reports back to the Results region.
	if m.ctl.Exporting() {
		return m, nil
	}
	m.status = ""
	m.ctl.ResetToHome()
	return m, textinput.Blink
}

// submit starts the spinner and resolves p off the event loop.
func (m AppModel) submit(p controller.Pending, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	ctl, ctx := m.ctl, m.ctx
	resolve := func() tea.Msg {
		return outcomeMsg{outcome: ctl.Resolve(ctx, p)}
	}
	return tea.Batch(m.spinner.Tick, resolve)
}

// download captures the results pane and writes the PDF off the event loop.
func (m AppModel) download() tea.Cmd {
	job, err := m.ctl.BeginExport()
	if err != nil || job == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		pages, err := job.Write(ctx)
		return exportDoneMsg{path: job.Path, pages: pages, err: err}
	}
}

func (m *AppModel) resize(width, height int) {
	m.Width = width
	m.Height = height

	body := BodyHeight(height)
	m.scr.body.SetConstraints(export.Constraints{Height: body, Overflow: export.OverflowHidden})
	// Title and button rows sit around the pane.
	m.scr.results.Resize(ContentWidth(width), max(body-4, 1))
	m.scr.input.Width = ContentWidth(width) - 4
	m.Help.Width = width - 4
}

// View renders the visible region inside the application container
func (m AppModel) View() string {
	var content, helpText string

	switch m.ctl.State() {
	case controller.RegionHome:
		content = m.buildHomeContent()
		helpText = m.Help.View(m.HomeKeys)
	case controller.RegionLoading:
		content = m.buildLoadingContent()
		helpText = m.Help.View(m.LoadingKeys)
	case controller.RegionResults:
		content = m.buildResultsContent()
		helpText = m.Help.View(m.ResultsKeys)
	case controller.RegionError:
		content = m.buildErrorContent()
		helpText = m.Help.View(m.ErrorKeys)
	}

	return RenderApplicationContainer(m.scr.body.clip(content), helpText, m.server, m.Width, m.Height)
}

func (m AppModel) buildHomeContent() string {
	var b strings.Builder
	b.WriteString(RenderTitle("Find a device manual"))
	b.WriteString("\n")
	b.WriteString(RenderSubtitle("Type a device name and press enter."))
	b.WriteString("\n\n")
	b.WriteString(m.scr.input.View())
	if m.status != "" {
		b.WriteString("\n\n")
		b.WriteString(StatusStyle.Render(m.status))
	}
	return b.String()
}

func (m AppModel) buildLoadingContent() string {
	return fmt.Sprintf("\n %s Looking up the manual for %s...\n\n %s",
		m.spinner.View(),
		lipgloss.NewStyle().Bold(true).Render(m.ctl.CurrentDevice()),
		RenderSubtitle("Generating a manual can take up to a minute."))
}

func (m AppModel) buildResultsContent() string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(m.ctl.CurrentDevice()))
	b.WriteString("\n\n")
	b.WriteString(m.scr.results.View())
	b.WriteString("\n\n")

	done := m.scr.label == controller.LabelDone
	b.WriteString(RenderButton(m.scr.label, m.scr.disabled, done))
	b.WriteString("  ")
	b.WriteString(StatusStyle.Render(fmt.Sprintf("%3.0f%%", m.scr.results.ScrollPercent()*100)))
	if m.status != "" {
		b.WriteString("  ")
		b.WriteString(StatusStyle.Render(m.status))
	}
	return b.String()
}

func (m AppModel) buildErrorContent() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(RenderError(m.scr.message))
	if hint := manualapi.Hint(m.ctl.Err()); hint != "" {
		b.WriteString("\n\n")
		b.WriteString(HintStyle.Render(hint))
	}
	if device := m.ctl.CurrentDevice(); device != "" {
		b.WriteString("\n\n")
		b.WriteString(RenderSubtitle(fmt.Sprintf("Press r to search for %q again.", device)))
	}
	return b.String()
}
