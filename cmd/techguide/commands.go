package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/techguide/internal/config"
	"github.com/muurk/techguide/internal/controller"
	"github.com/muurk/techguide/internal/discovery"
	"github.com/muurk/techguide/internal/export"
	"github.com/muurk/techguide/internal/logging"
	"github.com/muurk/techguide/internal/manual"
	"github.com/muurk/techguide/internal/manualapi"
	"github.com/muurk/techguide/internal/tui"
	"github.com/muurk/techguide/internal/ui"
	"github.com/muurk/techguide/internal/urls"
)

// Global flags
var (
	configPath  string
	serverURL   string
	resultField string
	renderMode  string
	searchPath  string
	manualPath  string
	timeout     time.Duration
	exportDir   string
	logLevel    string
	logFile     string
)

// settings is the loaded configuration with flags applied.
var settings *config.Settings

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Settings file (default: <config dir>/config.yaml)")
	flags.StringVar(&serverURL, "server", "", "Manual service base URL (e.g., http://192.168.1.20:5000)")
	flags.StringVar(&resultField, "field", "", "Response field holding the manual (html, markdown, steps, manual_id)")
	flags.StringVar(&renderMode, "mode", "", "How inline content is rendered (steps, html, markdown)")
	flags.StringVar(&searchPath, "search-path", "", "Lookup endpoint path")
	flags.StringVar(&manualPath, "manual-path", "", "Manual resource path prefix")
	flags.DurationVar(&timeout, "timeout", 0, "HTTP timeout (e.g., 30s, 2m)")
	flags.StringVar(&exportDir, "export-dir", "", "Directory PDFs are written to")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); also "+logging.LogLevelEnvVar)
	flags.StringVar(&logFile, "log-file", "", "Log file (default: stderr, or techguide.log in the config dir for the UI)")

	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads settings, applies flag overrides and starts logging.
func setup(cmd *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		var err error
		if path, err = config.GetConfigPath(); err != nil {
			return err
		}
	}

	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	applyFlags(cmd, loaded)
	if err := loaded.Validate(); err != nil {
		return err
	}
	settings = loaded

	output := logFile
	if output == "" && cmd == rootCmd {
		// The UI owns the terminal.
		output = filepath.Join(filepath.Dir(path), "techguide.log")
		if logLevel != "" || os.Getenv(logging.LogLevelEnvVar) != "" {
			if err := os.MkdirAll(filepath.Dir(output), 0700); err != nil {
				return fmt.Errorf("failed to create log directory: %w", err)
			}
		}
	}
	if err := logging.Initialize(logLevel, output); err != nil {
		return err
	}
	logging.Debug("Settings loaded", zap.String("path", path), zap.String("server", settings.Server.BaseURL))
	return nil
}

func applyFlags(cmd *cobra.Command, s *config.Settings) {
	changed := cmd.Flags().Changed
	if changed("server") {
		s.Server.BaseURL = strings.TrimRight(serverURL, "/")
	}
	if changed("field") {
		s.Server.ResultField = resultField
	}
	if changed("mode") {
		s.Render.Mode = renderMode
	}
	if changed("search-path") {
		s.Server.SearchPath = searchPath
	}
	if changed("manual-path") {
		s.Server.ManualPath = manualPath
	}
	if changed("timeout") {
		s.Server.Timeout = timeout
	}
	if changed("export-dir") {
		s.Export.Dir = exportDir
	}
}

// newClient builds the lookup client. With discovery enabled and no
// --server flag, the first service found on the network is used.
func newClient(cmd *cobra.Command) (*manualapi.Client, error) {
	if settings.Discovery.Enabled && !cmd.Flags().Changed("server") {
		scanner := discovery.NewScanner()
		scanner.Timeout = settings.Discovery.Timeout
		srv, err := scanner.First(cmd.Context())
		switch {
		case err == nil:
			settings.Server.BaseURL = srv.BaseURL()
		case errors.Is(err, discovery.ErrNoServers):
			logging.Warn("Discovery found nothing, using configured server", zap.String("server", settings.Server.BaseURL))
		default:
			logging.Warn("Discovery failed", zap.Error(err))
		}
	}
	return settings.Client()
}

func runInteractive(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal(os.Stdout) {
		return errors.New("the interactive UI needs a terminal; use 'techguide lookup <device>' instead")
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	model := tui.New(cmd.Context(), client, tui.Options{
		Server:    client.BaseURL,
		ExportDir: settings.Export.Dir,
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("ui error: %w", err)
	}
	return nil
}

// lookupCmd prints a manual without the UI
var lookupCmd = &cobra.Command{
	Use:   "lookup <device...>",
	Short: "Look up a device manual and print it",
	Long: `Send one lookup request for the device and print the rendered manual.

Words are joined with spaces, so quoting the device name is optional.`,
	Example: `  # Print the manual as text
  techguide lookup Samsung TV

  # Machine-readable output
  techguide lookup "Pixel 6" --format json

  # Service that answers with a manual id
  techguide lookup Kindle --field manual_id --search-path /api/manual-generation`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

var (
	outputFormat string
	outputWidth  int
)

func init() {
	lookupCmd.Flags().StringVar(&outputFormat, "format", "text", "Output format (text, json)")
	lookupCmd.Flags().IntVar(&outputWidth, "width", 0, "Wrap width (default: terminal width)")
}

type jsonBlock struct {
	Kind    string `json:"kind"`
	Level   int    `json:"level,omitempty"`
	Ordinal int    `json:"ordinal,omitempty"`
	Text    string `json:"text"`
}

type jsonManual struct {
	Device string      `json:"device"`
	Blocks []jsonBlock `json:"blocks"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	if outputFormat != "text" && outputFormat != "json" {
		return fmt.Errorf("unknown format %q (want text or json)", outputFormat)
	}
	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	ctl := controller.New(client, controller.Handles{})
	if err := ctl.Search(cmd.Context(), strings.Join(args, " ")); err != nil {
		return reportFailure(cmd, "Lookup failed", ctl, err)
	}
	doc := ctl.Document()

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(toJSON(ctl.CurrentDevice(), doc))
	}

	width := outputWidth
	if width <= 0 {
		width = ui.GetTerminalWidth()
	}
	_, err = fmt.Fprintln(out, doc.Text(width))
	return err
}

func toJSON(device string, doc *manual.Document) jsonManual {
	m := jsonManual{Device: device, Blocks: make([]jsonBlock, 0, len(doc.Blocks))}
	for _, b := range doc.Blocks {
		m.Blocks = append(m.Blocks, jsonBlock{Kind: b.Kind.String(), Level: b.Level, Ordinal: b.Ordinal, Text: b.Text})
	}
	return m
}

// exportCmd writes a manual to PDF without the UI
var exportCmd = &cobra.Command{
	Use:   "export <device...>",
	Short: "Look up a device manual and save it as a PDF",
	Long: `Look up the device and write <device>.pdf to the export directory.

Characters other than ASCII letters and digits in the device name become
underscores in the file name.`,
	Example: `  # Writes ./Samsung_TV.pdf
  techguide export Samsung TV

  # Into a specific directory
  techguide export "Pixel 6" --export-dir ~/manuals`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	client, err := newClient(cmd)
	if err != nil {
		return err
	}
	device := strings.Join(args, " ")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.NewHeader("Manual export", "techguide export", []ui.Param{
		{Key: "Device", Value: device},
		{Key: "Server", Value: client.BaseURL},
	}).Render())

	page := export.NewPage(export.DefaultPageWidth)
	var opts []controller.Option
	if settings.Export.Dir != "" {
		opts = append(opts, controller.WithExportDir(settings.Export.Dir))
	}
	ctl := controller.New(client, controller.Handles{Results: page, Surface: page}, opts...)

	bar := newProgress(cmd, 2)
	bar.Describe("Looking up manual")
	if err := ctl.Search(cmd.Context(), device); err != nil {
		_ = bar.Exit()
		return reportFailure(cmd, "Lookup failed", ctl, err)
	}
	_ = bar.Add(1)
	bar.Describe("Writing PDF")
	path, err := ctl.Export(cmd.Context())
	if err != nil {
		_ = bar.Exit()
		return reportFailure(cmd, "Export failed", ctl, err)
	}
	_ = bar.Finish()

	fmt.Fprintln(out, ui.NewSuccessResult("PDF written", []ui.Param{
		{Key: "File", Value: path},
		{Key: "Sections", Value: fmt.Sprint(len(ctl.Document().Headings()))},
	}).Render())
	return nil
}

// newProgress returns a step bar on stderr, hidden unless stderr is a terminal.
func newProgress(cmd *cobra.Command, steps int) *progressbar.ProgressBar {
	return progressbar.NewOptions(steps,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetVisibility(ui.IsTerminal(os.Stderr)),
		progressbar.OptionSetWidth(30),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

// reportFailure prints the controller's message in a failure box and returns
// a short error for the exit status.
func reportFailure(cmd *cobra.Command, title string, ctl *controller.Controller, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), ui.NewFailureResult(title, errors.New(ctl.Message()),
		manualapi.Hint(err),
		"More help: "+urls.Troubleshooting,
	).Render())
	logging.Debug("Command failed", zap.Error(err))
	return errors.New(strings.ToLower(title))
}

// scanCmd lists manual services on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for manual services on the network",
	Long: `Scan for manual services using mDNS/DNS-SD (` + discovery.ServiceType + `).

Services found here can be passed to --server, or picked automatically by
setting discovery.enabled in the settings file.`,
	Example: `  techguide scan
  techguide scan --scan-timeout 10s`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

var scanTimeout time.Duration

func init() {
	scanCmd.Flags().DurationVar(&scanTimeout, "scan-timeout", discovery.DefaultScanTimeout, "How long to listen for answers")
}

func runScan(cmd *cobra.Command, args []string) error {
	fmt.Printf("Scanning for manual services (timeout: %s)...\n\n", scanTimeout)

	scanner := discovery.NewScanner()
	scanner.Timeout = scanTimeout
	servers, err := scanner.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(servers) == 0 {
		fmt.Println("No services found.")
		fmt.Println("\nTroubleshooting:")
		fmt.Println("  - Ensure the manual service is running and advertising " + discovery.ServiceType)
		fmt.Println("  - Check that multicast (UDP 5353) is allowed on this network")
		fmt.Println("  - Try a longer --scan-timeout")
		fmt.Println("\nService setup: " + urls.ServiceSetup)
		return nil
	}

	fmt.Printf("Found %d service(s):\n\n", len(servers))
	for i, srv := range servers {
		fmt.Printf("%d. %s\n", i+1, srv.Instance)
		fmt.Printf("   URL:      %s\n", srv.BaseURL())
		fmt.Printf("   Host:     %s\n", strings.TrimSuffix(srv.Host, "."))
		if v := srv.GetMetadata("version"); v != "" {
			fmt.Printf("   Version:  %s\n", v)
		}
		fmt.Println()
	}
	fmt.Println("Use 'techguide --server <url>' to connect to one of them")
	return nil
}

// configCmd inspects and creates the settings file
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the settings file",
	Long: `Show or create the settings file.

Every key is documented at ` + urls.Configuration + `.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := settings.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var forceInit bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current settings to the settings file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			var err error
			if path, err = config.GetConfigPath(); err != nil {
				return err
			}
		}
		if _, err := os.Stat(path); err == nil && !forceInit {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := settings.Save(path); err != nil {
			return err
		}
		fmt.Printf("Settings written to %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configShowCmd, configInitCmd)
}
