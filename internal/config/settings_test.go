package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/muurk/techguide/internal/manual"
	"github.com/muurk/techguide/internal/manualapi"
)

func TestGetConfigDirHonoursXDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and other Unix systems")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if want := filepath.Join(dir, "techguide"); got != want {
		t.Errorf("GetConfigDir() = %q, want %q", got, want)
	}

	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if filepath.Base(path) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with config.yaml, got %q", path)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Server.Timeout != manualapi.DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", s.Server.Timeout, manualapi.DefaultTimeout)
	}
	if s.Server.SearchPath != manualapi.DefaultSearchPath {
		t.Errorf("SearchPath = %q", s.Server.SearchPath)
	}
	if s.Render.Mode != string(manual.DefaultMode) {
		t.Errorf("Mode = %q", s.Render.Mode)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `version: 1
server:
  base_url: http://10.0.0.5:8080
  result_field: manual_id
  timeout: 90s
render:
  mode: markdown
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Server.BaseURL != "http://10.0.0.5:8080" {
		t.Errorf("BaseURL = %q", s.Server.BaseURL)
	}
	if s.Server.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v, want 90s", s.Server.Timeout)
	}
	if s.Server.ManualPath != manualapi.DefaultManualPath {
		t.Errorf("ManualPath = %q, want default", s.Server.ManualPath)
	}

	client, err := s.Client()
	if err != nil {
		t.Fatalf("Client() error = %v", err)
	}
	if client.Field != manualapi.FieldManualID || client.Mode != manual.ModeMarkdown {
		t.Errorf("client field/mode = %s/%s", client.Field, client.Mode)
	}
	if client.HTTPClient.Timeout != 90*time.Second {
		t.Errorf("client timeout = %v", client.HTTPClient.Timeout)
	}
	if got := client.SearchURL(); got != "http://10.0.0.5:8080/api/search-subtitles" {
		t.Errorf("SearchURL() = %q", got)
	}
}

func TestLoadRejectsBadFiles(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"wrong version", "version: 2\n", "unsupported config version"},
		{"unknown key", "version: 1\nserver:\n  base: http://x\n", "failed to parse"},
		{"bad field", "version: 1\nserver:\n  result_field: pdf\n", "result_field"},
		{"bad mode", "version: 1\nrender:\n  mode: rtf\n", "render.mode"},
		{"relative url", "version: 1\nserver:\n  base_url: localhost\n", "base_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0600); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	s := Defaults()
	s.Server.BaseURL = "http://manuals.lan:5000"
	s.Export.Dir = "/tmp/manuals"
	s.Discovery.Enabled = true
	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(raw), "# techguide settings") {
		t.Error("saved file is missing its header")
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *loaded != *s {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, s)
	}
}
