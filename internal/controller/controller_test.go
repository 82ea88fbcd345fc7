package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/techguide/internal/manual"
	"github.com/muurk/techguide/internal/manualapi"
)

// fakeUI records everything the controller does to its handles.
type fakeUI struct {
	shown    []Region
	value    string
	focused  int
	rendered []*manual.Document
	clears   int
	message  string
	label    string
	disabled bool
}

func (f *fakeUI) Show(r Region)               { f.shown = append(f.shown, r) }
func (f *fakeUI) Value() string               { return f.value }
func (f *fakeUI) SetValue(v string)           { f.value = v }
func (f *fakeUI) Focus()                      { f.focused++ }
func (f *fakeUI) Clear()                      { f.clears++ }
func (f *fakeUI) Render(d *manual.Document)   { f.rendered = append(f.rendered, d) }
func (f *fakeUI) SetMessage(m string)         { f.message = m }
func (f *fakeUI) SetLabel(l string)           { f.label = l }
func (f *fakeUI) SetDisabled(disabled bool)   { f.disabled = disabled }
func (f *fakeUI) last() Region                { return f.shown[len(f.shown)-1] }
func (f *fakeUI) handles() Handles {
	return Handles{Regions: f, Input: f, Results: f, Errors: f, Export: f}
}

// service is a scripted manual service.
type service struct {
	mu       sync.Mutex
	bodies   []string
	search   func(w http.ResponseWriter, device string)
	probe    int
	loads    int
	manual   string
	mimeType string
}

func (s *service) handler(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.Method == http.MethodPost:
		raw, _ := io.ReadAll(r.Body)
		var req struct {
			Device string `json:"device"`
		}
		_ = json.Unmarshal(raw, &req)
		s.mu.Lock()
		s.bodies = append(s.bodies, string(raw))
		s.mu.Unlock()
		s.search(w, req.Device)
	case r.Method == http.MethodHead:
		w.WriteHeader(s.probe)
	case r.Method == http.MethodGet:
		s.mu.Lock()
		s.loads++
		s.mu.Unlock()
		w.Header().Set("Content-Type", s.mimeType)
		_, _ = io.WriteString(w, s.manual)
	}
}

func (s *service) requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.bodies...)
}

func newHarness(t *testing.T, svc *service, configure func(*manualapi.Client)) (*Controller, *fakeUI) {
	t.Helper()
	client := manualapi.NewClient(newServer(t, svc))
	if configure != nil {
		configure(client)
	}
	ui := &fakeUI{}
	return New(client, ui.handles()), ui
}

func newServer(t *testing.T, svc *service) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(svc.handler))
	t.Cleanup(server.Close)
	return server.URL
}

func stepsReply(w http.ResponseWriter, device string) {
	_, _ = io.WriteString(w, `{"success": true, "html": "{\"steps\":[{\"title\":\"Unplug `+device+`\",\"description\":\"Wait ten seconds.\"}]}"}`)
}

func TestNewStartsAtHome(t *testing.T) {
	ui := &fakeUI{}
	c := New(nil, ui.handles())

	assert.Equal(t, RegionHome, c.State())
	assert.Equal(t, []Region{RegionHome}, ui.shown)
	assert.Equal(t, 1, ui.focused)
	assert.Equal(t, LabelIdle, ui.label)
}

func TestNewWithoutHandlesNeverPanics(t *testing.T) {
	svc := &service{search: stepsReply}
	server := httptest.NewServer(http.HandlerFunc(svc.handler))
	defer server.Close()

	c := New(manualapi.NewClient(server.URL), Handles{})

	require.NotPanics(t, func() {
		_, ok := c.SubmitInput()
		assert.False(t, ok, "inert input has an empty value")
		require.NoError(t, c.Search(context.Background(), "Kindle"))
		path, err := c.Export(context.Background())
		assert.NoError(t, err)
		assert.Empty(t, path, "export is a no-op without a surface")
		c.RevertExportButton()
		c.ResetToHome()
		c.RetryLastSearch()
	})
	assert.Equal(t, RegionHome, c.State())
}

func TestSubmitSearchShowsLoadingBeforeResolve(t *testing.T) {
	svc := &service{search: stepsReply}
	c, ui := newHarness(t, svc, nil)

	p, ok := c.SubmitSearch("  Samsung TV ")
	require.True(t, ok)
	assert.Equal(t, RegionLoading, c.State())
	assert.Equal(t, RegionLoading, ui.last())
	assert.Equal(t, "Samsung TV", c.CurrentDevice())
	assert.Empty(t, svc.requests(), "no request before Resolve")

	applied := c.Complete(c.Resolve(context.Background(), p))
	require.True(t, applied)
	assert.Equal(t, RegionResults, c.State())
	require.Len(t, ui.rendered, 1)
	assert.Equal(t, []string{"Unplug Samsung TV"}, ui.rendered[0].Headings())
	assert.Equal(t, []string{`{"device":"Samsung TV"}`}, svc.requests())
}

func TestEveryResolutionEndsInExactlyOneRegion(t *testing.T) {
	replies := map[string]func(w http.ResponseWriter, device string){
		"success": stepsReply,
		"app failure": func(w http.ResponseWriter, _ string) {
			_, _ = io.WriteString(w, `{"success": false}`)
		},
		"malformed": func(w http.ResponseWriter, _ string) {
			_, _ = io.WriteString(w, `not json`)
		},
		"server down": func(w http.ResponseWriter, _ string) {
			w.WriteHeader(http.StatusBadGateway)
		},
	}

	for name, reply := range replies {
		t.Run(name, func(t *testing.T) {
			c, ui := newHarness(t, &service{search: reply}, nil)
			_ = c.Search(context.Background(), "Pixel 6")

			tail := ui.shown[len(ui.shown)-2:]
			assert.Equal(t, RegionLoading, tail[0])
			assert.Contains(t, []Region{RegionResults, RegionError}, tail[1])
			assert.Equal(t, tail[1], c.State())
		})
	}
}

func TestEmptyInputGoesStraightToError(t *testing.T) {
	for _, in := range []string{"", "   "} {
		svc := &service{search: stepsReply}
		c, ui := newHarness(t, svc, nil)

		_, ok := c.SubmitSearch(in)
		assert.False(t, ok)
		assert.Equal(t, RegionError, c.State())
		assert.Equal(t, "device name required", ui.message)
		assert.NotContains(t, ui.shown, RegionLoading)
		assert.Empty(t, svc.requests())
		assert.True(t, manualapi.IsValidationError(c.Err()))
	}
}

func TestResetToHomeClearsState(t *testing.T) {
	starts := map[string]func(c *Controller, ui *fakeUI){
		"from results": func(c *Controller, ui *fakeUI) { _ = c.Search(context.Background(), "Kindle") },
		"from error":   func(c *Controller, ui *fakeUI) { c.SubmitSearch("") },
		"from loading": func(c *Controller, ui *fakeUI) { ui.value = "Kindle"; c.SubmitInput() },
		"from home":    func(c *Controller, ui *fakeUI) { ui.value = "typed but not sent" },
	}

	for name, start := range starts {
		t.Run(name, func(t *testing.T) {
			c, ui := newHarness(t, &service{search: stepsReply}, nil)
			start(c, ui)
			focused := ui.focused

			c.ResetToHome()
			assert.Equal(t, RegionHome, c.State())
			assert.Empty(t, c.CurrentDevice())
			assert.Empty(t, ui.value)
			assert.Nil(t, c.Document())
			assert.Equal(t, focused+1, ui.focused)
		})
	}
}

func TestRetryReissuesLastSearch(t *testing.T) {
	svc := &service{search: stepsReply}
	c, ui := newHarness(t, svc, nil)

	require.NoError(t, c.Search(context.Background(), "Samsung TV"))
	p, ok := c.RetryLastSearch()
	require.True(t, ok)
	assert.Equal(t, "Samsung TV", ui.value)
	c.Complete(c.Resolve(context.Background(), p))

	reqs := svc.requests()
	require.Len(t, reqs, 2)
	assert.JSONEq(t, `{"device": "Samsung TV"}`, reqs[1])
}

func TestRetryWithoutDeviceGoesHome(t *testing.T) {
	svc := &service{search: stepsReply}
	c, _ := newHarness(t, svc, nil)
	c.SubmitSearch("")

	_, ok := c.RetryLastSearch()
	assert.False(t, ok)
	assert.Equal(t, RegionHome, c.State())
	assert.Empty(t, svc.requests())
}

func TestRedirectProbeFailureEndsInError(t *testing.T) {
	svc := &service{
		search: func(w http.ResponseWriter, _ string) {
			_, _ = io.WriteString(w, `{"success": true, "manual_id": "devices/abc123"}`)
		},
		probe:  http.StatusNotFound,
		manual: "<h1>never loaded</h1>",
	}
	c, ui := newHarness(t, svc, func(cl *manualapi.Client) { cl.Field = manualapi.FieldManualID })

	err := c.Search(context.Background(), "Samsung TV")
	assert.True(t, manualapi.IsVerificationError(err))
	assert.Equal(t, RegionError, c.State())
	assert.Empty(t, ui.rendered)
	assert.Zero(t, svc.loads, "manual must not be loaded after a failed probe")
}

func TestRedirectLoadsManual(t *testing.T) {
	svc := &service{
		search: func(w http.ResponseWriter, _ string) {
			_, _ = io.WriteString(w, `{"success": true, "manual_id": "devices/abc123"}`)
		},
		probe:    http.StatusOK,
		manual:   "## Remove the stand\n\nFour screws.",
		mimeType: "text/markdown",
	}
	c, _ := newHarness(t, svc, func(cl *manualapi.Client) { cl.Field = manualapi.FieldManualID })

	require.NoError(t, c.Search(context.Background(), "Samsung TV"))
	assert.Equal(t, RegionResults, c.State())
	assert.Equal(t, []string{"Remove the stand"}, c.Document().Headings())
	assert.Equal(t, 1, svc.loads)
}

func TestServerMessageShownVerbatim(t *testing.T) {
	svc := &service{search: func(w http.ResponseWriter, _ string) {
		_, _ = io.WriteString(w, `{"success": false, "error": "not supported"}`)
	}}
	c, ui := newHarness(t, svc, nil)

	_ = c.Search(context.Background(), "Toaster")
	assert.Equal(t, RegionError, c.State())
	assert.Equal(t, "not supported", ui.message)
	assert.Equal(t, "not supported", c.Message())
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name  string
		reply func(w http.ResponseWriter, device string)
		mode  manual.Mode
		want  string
	}{
		{
			name:  "not found default",
			reply: func(w http.ResponseWriter, _ string) { _, _ = io.WriteString(w, `{"success": false}`) },
			want:  manualapi.MsgNotFound,
		},
		{
			name:  "malformed body",
			reply: func(w http.ResponseWriter, _ string) { _, _ = io.WriteString(w, `<html>`) },
			want:  manualapi.MsgMalformed,
		},
		{
			name:  "unrenderable content",
			reply: func(w http.ResponseWriter, _ string) { _, _ = io.WriteString(w, `{"success": true, "html": "<p>not steps</p>"}`) },
			mode:  manual.ModeSteps,
			want:  manualapi.MsgMalformed,
		},
		{
			name:  "content renders to nothing",
			reply: func(w http.ResponseWriter, _ string) { _, _ = io.WriteString(w, `{"success": true, "html": "<p> </p>"}`) },
			mode:  manual.ModeHTML,
			want:  manualapi.MsgNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ui := newHarness(t, &service{search: tt.reply}, func(cl *manualapi.Client) {
				if tt.mode != "" {
					cl.Mode = tt.mode
				}
			})
			_ = c.Search(context.Background(), "Kindle")
			assert.Equal(t, RegionError, c.State())
			assert.Equal(t, tt.want, ui.message)
		})
	}
}

func TestTransportFailureMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	client := manualapi.NewClient(server.URL)
	server.Close()

	ui := &fakeUI{}
	c := New(client, ui.handles())
	err := c.Search(context.Background(), "Kindle")

	assert.True(t, manualapi.IsTransportError(err))
	assert.Equal(t, manualapi.MsgConnection, ui.message)
}

func TestStaleResponsesAreDiscarded(t *testing.T) {
	svc := &service{search: stepsReply}
	c, ui := newHarness(t, svc, nil)
	ctx := context.Background()

	first, _ := c.SubmitSearch("Old Phone")
	second, _ := c.SubmitSearch("New Phone")
	assert.Greater(t, second.Token, first.Token)

	newer := c.Resolve(ctx, second)
	older := c.Resolve(ctx, first)

	assert.True(t, c.Complete(newer))
	assert.False(t, c.Complete(older), "late response from the first search must be dropped")

	require.Len(t, ui.rendered, 1)
	assert.Equal(t, []string{"Unplug New Phone"}, c.Document().Headings())
	assert.Equal(t, "New Phone", c.CurrentDevice())
}

func TestEmptySubmitAbandonsSearchInFlight(t *testing.T) {
	svc := &service{search: stepsReply}
	c, ui := newHarness(t, svc, nil)

	p, ok := c.SubmitSearch("Samsung TV")
	require.True(t, ok)
	_, ok = c.SubmitSearch("   ")
	require.False(t, ok)
	require.Equal(t, RegionError, c.State())

	assert.False(t, c.Complete(c.Resolve(context.Background(), p)))
	assert.Equal(t, RegionError, c.State())
	assert.Equal(t, manualapi.MsgDeviceRequired, c.Message())
	assert.Empty(t, ui.rendered)
}

func TestResponseAfterGoingHomeIsDiscarded(t *testing.T) {
	c, ui := newHarness(t, &service{search: stepsReply}, nil)

	p, _ := c.SubmitSearch("Kindle")
	c.ResetToHome()

	assert.False(t, c.Complete(c.Resolve(context.Background(), p)))
	assert.Equal(t, RegionHome, c.State())
	assert.Empty(t, ui.rendered)
}

func TestRenderResultsClearsPreviousContent(t *testing.T) {
	c, ui := newHarness(t, &service{search: stepsReply}, nil)

	require.NoError(t, c.Search(context.Background(), "A"))
	clears := ui.clears
	require.NoError(t, c.Search(context.Background(), "B"))

	assert.Equal(t, clears+1, ui.clears)
	assert.True(t, strings.HasSuffix(c.Document().Headings()[0], "B"))
}
