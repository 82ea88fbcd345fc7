package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/muurk/techguide/internal/config"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func manualServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestLookupJSON(t *testing.T) {
	var posted []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		posted = append(posted, string(raw))
		_, _ = io.WriteString(w, `{"success": true, "html": "<h2>Pairing</h2><ol><li>Hold the button</li></ol>"}`)
	}))
	defer server.Close()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"lookup",
		"--config", filepath.Join(t.TempDir(), "config.yaml"),
		"--server", server.URL,
		"--mode", "html",
		"--format", "json",
		"Samsung", "TV",
	})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	require.Len(t, posted, 1)
	assert.JSONEq(t, `{"device": "Samsung TV"}`, posted[0])

	var got jsonManual
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "Samsung TV", got.Device)
	require.Len(t, got.Blocks, 2)
	assert.Equal(t, jsonBlock{Kind: "heading", Level: 2, Text: "Pairing"}, got.Blocks[0])
	assert.Equal(t, jsonBlock{Kind: "list_item", Ordinal: 1, Text: "Hold the button"}, got.Blocks[1])
}

func TestExportWritesSanitizedPDF(t *testing.T) {
	server := manualServer(t, `{"success": true, "html": "<h2>Pairing</h2><p>Hold the button.</p>"}`)
	dir := t.TempDir()

	stdout, _, err := execute(t,
		"export",
		"--config", filepath.Join(t.TempDir(), "config.yaml"),
		"--server", server.URL,
		"--field", "html",
		"--mode", "html",
		"--export-dir", dir,
		"Samsung", "TV/2",
	)
	require.NoError(t, err)

	path := filepath.Join(dir, "Samsung_TV_2.pdf")
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
	assert.Contains(t, stdout, "PDF written")
}

func TestExportReportsLookupFailure(t *testing.T) {
	server := manualServer(t, `{"success": false, "error": "not supported"}`)
	dir := t.TempDir()

	_, stderr, err := execute(t,
		"export",
		"--config", filepath.Join(t.TempDir(), "config.yaml"),
		"--server", server.URL,
		"--field", "html",
		"--mode", "html",
		"--export-dir", dir,
		"Toaster",
	)
	require.EqualError(t, err, "lookup failed")
	assert.Contains(t, stderr, "Lookup failed")
	assert.Contains(t, stderr, "not supported")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no PDF is written when the lookup fails")
}

func TestConfigShowAppliesFlagOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	file := `version: 1
server:
  base_url: http://file.local:5000
  search_path: /api/manual-generation
  timeout: 20s
render:
  mode: steps
`
	require.NoError(t, os.WriteFile(path, []byte(file), 0o600))

	stdout, _, err := execute(t,
		"config", "show",
		"--config", path,
		"--server", "http://flag.local:9000/",
		"--mode", "markdown",
		"--timeout", "90s",
	)
	require.NoError(t, err)

	var got config.Settings
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "http://flag.local:9000", got.Server.BaseURL)
	assert.Equal(t, "markdown", got.Render.Mode)
	assert.Equal(t, 90*time.Second, got.Server.Timeout)
	assert.Equal(t, "/api/manual-generation", got.Server.SearchPath, "file values without a flag are kept")
}
