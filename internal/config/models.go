package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/muurk/techguide/internal/manual"
	"github.com/muurk/techguide/internal/manualapi"
)

// CurrentVersion is the settings file format version.
const CurrentVersion = 1

// Settings represents the entire settings file.
type Settings struct {
	Version   int       `yaml:"version"`
	Server    Server    `yaml:"server"`
	Render    Render    `yaml:"render"`
	Export    Export    `yaml:"export"`
	Discovery Discovery `yaml:"discovery"`
}

// Server describes the manual lookup service.
type Server struct {
	BaseURL     string        `yaml:"base_url"`
	SearchPath  string        `yaml:"search_path"`
	ManualPath  string        `yaml:"manual_path"`
	ResultField string        `yaml:"result_field"` // html, markdown, steps or manual_id
	Timeout     time.Duration `yaml:"timeout"`
}

// Render controls how inline content is laid out.
type Render struct {
	Mode string `yaml:"mode"` // steps, html or markdown
}

// Export controls PDF output.
type Export struct {
	Dir string `yaml:"dir,omitempty"` // empty means the working directory
}

// Discovery controls mDNS lookup of backends.
type Discovery struct {
	Enabled bool          `yaml:"enabled"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultBaseURL is used when neither the file nor a flag names a server.
const DefaultBaseURL = "http://localhost:5000"

// Defaults returns settings matching the client defaults.
func Defaults() *Settings {
	return &Settings{
		Version: CurrentVersion,
		Server: Server{
			BaseURL:     DefaultBaseURL,
			SearchPath:  manualapi.DefaultSearchPath,
			ManualPath:  manualapi.DefaultManualPath,
			ResultField: string(manualapi.DefaultField),
			Timeout:     manualapi.DefaultTimeout,
		},
		Render: Render{
			Mode: string(manual.DefaultMode),
		},
		Discovery: Discovery{
			Enabled: false,
			Timeout: 3 * time.Second,
		},
	}
}

// fillDefaults sets zero fields to their defaults.
func (s *Settings) fillDefaults() {
	d := Defaults()
	if s.Server.BaseURL == "" {
		s.Server.BaseURL = d.Server.BaseURL
	}
	if s.Server.SearchPath == "" {
		s.Server.SearchPath = d.Server.SearchPath
	}
	if s.Server.ManualPath == "" {
		s.Server.ManualPath = d.Server.ManualPath
	}
	if s.Server.ResultField == "" {
		s.Server.ResultField = d.Server.ResultField
	}
	if s.Server.Timeout == 0 {
		s.Server.Timeout = d.Server.Timeout
	}
	if s.Render.Mode == "" {
		s.Render.Mode = d.Render.Mode
	}
	if s.Discovery.Timeout == 0 {
		s.Discovery.Timeout = d.Discovery.Timeout
	}
}

// Validate checks every field and reports all problems at once.
func (s *Settings) Validate() error {
	var errs []error

	if u, err := url.Parse(s.Server.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("server.base_url %q is not an absolute URL", s.Server.BaseURL))
	}
	if _, err := manualapi.ParseField(s.Server.ResultField); err != nil {
		errs = append(errs, fmt.Errorf("server.result_field: %w", err))
	}
	if s.Server.Timeout < 0 {
		errs = append(errs, errors.New("server.timeout must not be negative"))
	}
	if _, err := manual.ParseMode(s.Render.Mode); err != nil {
		errs = append(errs, fmt.Errorf("render.mode: %w", err))
	}
	if s.Discovery.Timeout < 0 {
		errs = append(errs, errors.New("discovery.timeout must not be negative"))
	}

	return errors.Join(errs...)
}

// Client builds a lookup client from the server and render settings.
// Settings must be valid.
func (s *Settings) Client() (*manualapi.Client, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	field, _ := manualapi.ParseField(s.Server.ResultField)
	mode, _ := manual.ParseMode(s.Render.Mode)

	client := manualapi.NewClient(s.Server.BaseURL)
	client.SearchPath = s.Server.SearchPath
	client.ManualPath = s.Server.ManualPath
	client.Field = field
	client.Mode = mode
	if s.Server.Timeout > 0 {
		client.SetTimeout(s.Server.Timeout)
	}
	return client, nil
}
