package manualapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/muurk/techguide/internal/logging"
	"github.com/muurk/techguide/internal/manual"
	"github.com/muurk/techguide/internal/version"
)

const (
	// DefaultSearchPath is the lookup endpoint of the subtitle-based service.
	DefaultSearchPath = "/api/search-subtitles"

	// GenerationSearchPath is the lookup endpoint of the generation service,
	// which answers with a manual_id.
	GenerationSearchPath = "/api/manual-generation"

	// DefaultManualPath is the prefix of manual resources.
	DefaultManualPath = "/api/manual"

	// DefaultTimeout covers slow manual generation upstream.
	DefaultTimeout = 60 * time.Second

	// maxBodySize caps how much of a response body is read.
	maxBodySize = 16 << 20
)

// Client talks to the manual lookup service.
// A Client is safe for concurrent use once configured.
type Client struct {
	// BaseURL is the service root (e.g., "http://192.168.1.20:5000")
	BaseURL string

	// SearchPath is the POST lookup endpoint.
	SearchPath string

	// ManualPath is the prefix for manual resources addressed by manual_id.
	ManualPath string

	// Field is the response field holding the payload.
	Field Field

	// Mode is how inline content bodies are rendered.
	Mode manual.Mode

	// HTTPClient is the underlying HTTP client.
	HTTPClient *http.Client

	// UserAgent is sent with every request.
	UserAgent string
}

// NewClient creates a client for the service at baseURL with default paths.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		SearchPath: DefaultSearchPath,
		ManualPath: DefaultManualPath,
		Field:      DefaultField,
		Mode:       manual.DefaultMode,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		UserAgent:  version.UserAgent(),
	}
}

// SetTimeout sets the HTTP request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SearchURL returns the full lookup endpoint URL.
func (c *Client) SearchURL() string {
	return c.BaseURL + "/" + strings.Trim(c.SearchPath, "/")
}

// ManualURL returns the resource URL for a manual id. Each path segment of
// the id is escaped, so "devices/abc 1" becomes ".../devices/abc%201".
func (c *Client) ManualURL(manualID string) string {
	segments := strings.Split(strings.Trim(manualID, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.BaseURL + "/" + strings.Trim(c.ManualPath, "/") + "/" + strings.Join(segments, "/")
}

type searchRequest struct {
	Device string `json:"device"`
}

// Search issues exactly one lookup request for device.
func (c *Client) Search(ctx context.Context, device string) (Result, error) {
	device = strings.TrimSpace(device)
	if device == "" {
		return nil, NewValidationError(MsgDeviceRequired)
	}

	payload, err := json.Marshal(searchRequest{Device: device})
	if err != nil {
		return nil, fmt.Errorf("encoding search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.SearchURL(), bytes.NewReader(payload))
	if err != nil {
		return nil, NewTransportError("failed to create search request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.decorate(req)

	logging.LogHTTPRequest(req.Method, req.URL.String())
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, NewTransportError("search request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, NewTransportError("failed to read response body", err)
	}

	return c.decodeSearch(resp.StatusCode, body)
}

// decodeSearch interprets a lookup response.
func (c *Client) decodeSearch(status int, body []byte) (Result, error) {
	ok2xx := status >= 200 && status < 300

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		if !ok2xx {
			return nil, NewStatusError(status)
		}
		if err == nil {
			err = errors.New("response is not a JSON object")
		}
		return nil, NewMalformedError("failed to parse search response", err)
	}

	var success bool
	if raw, present := fields["success"]; present {
		if err := json.Unmarshal(raw, &success); err != nil {
			return nil, NewMalformedError("success field is not a boolean", err)
		}
	}

	var serverMsg string
	if raw, present := fields["error"]; present {
		_ = json.Unmarshal(raw, &serverMsg)
	}

	if !success || !ok2xx {
		return nil, NewApplicationError(serverMsg, status)
	}

	raw, present := fields[string(c.Field)]
	if !present || isNull(raw) {
		return nil, NewApplicationError(MsgNotFound, status)
	}

	switch c.Field {
	case FieldManualID:
		id, err := decodeID(raw)
		if err != nil {
			return nil, NewMalformedError("manual_id is not a string", err)
		}
		if id == "" {
			return nil, NewApplicationError(MsgNotFound, status)
		}
		return Redirect{ManualID: id}, nil

	case FieldSteps:
		return c.decodeSteps(raw, status)

	default:
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			// Structured payload under a content field: accept a step list.
			return c.decodeSteps(raw, status)
		}
		if strings.TrimSpace(text) == "" {
			return nil, NewApplicationError(MsgNotFound, status)
		}
		return Content{Format: c.Mode, Body: text}, nil
	}
}

func (c *Client) decodeSteps(raw json.RawMessage, status int) (Result, error) {
	steps, err := manual.ParseSteps(raw)
	if errors.Is(err, manual.ErrNoSteps) {
		return nil, NewApplicationError(MsgNotFound, status)
	}
	if err != nil {
		return nil, NewMalformedError("failed to parse steps", err)
	}
	return Steps{Steps: steps}, nil
}

// Probe checks that a manual resource exists without transferring its body.
func (c *Client) Probe(ctx context.Context, manualID string) error {
	target := c.ManualURL(manualID)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return NewVerificationError("failed to create probe request", 0, err)
	}
	c.decorate(req)

	logging.LogHTTPRequest(req.Method, target)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		verr := NewVerificationError("manual probe failed", 0, err)
		logging.LogProbe(target, 0, verr)
		return verr
	}
	_ = resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		verr := NewVerificationError(fmt.Sprintf("manual probe returned %d", resp.StatusCode), resp.StatusCode, nil)
		logging.LogProbe(target, resp.StatusCode, verr)
		return verr
	}

	logging.LogProbe(target, resp.StatusCode, nil)
	return nil
}

// LoadManual fetches a manual resource. The body format follows the
// Content-Type: Markdown types render as Markdown, everything else as HTML.
func (c *Client) LoadManual(ctx context.Context, manualID string) (Content, error) {
	target := c.ManualURL(manualID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Content{}, NewTransportError("failed to create manual request", err)
	}
	req.Header.Set("Accept", "text/html, text/markdown;q=0.9")
	c.decorate(req)

	logging.LogHTTPRequest(req.Method, target)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return Content{}, NewTransportError("manual request failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Content{}, NewStatusError(resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return Content{}, NewTransportError("failed to read manual body", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return Content{}, NewApplicationError(MsgNotFound, resp.StatusCode)
	}

	return Content{Format: formatFor(resp.Header.Get("Content-Type")), Body: string(body)}, nil
}

func (c *Client) decorate(req *http.Request) {
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
}

func formatFor(contentType string) manual.Mode {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return manual.ModeHTML
	}
	switch mediaType {
	case "text/markdown", "text/x-markdown":
		return manual.ModeMarkdown
	default:
		return manual.ModeHTML
	}
}

func isNull(raw json.RawMessage) bool {
	return len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeID accepts a string or numeric manual id.
func decodeID(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s), nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
