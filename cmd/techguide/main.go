// Techguide looks up device manuals from a manual service.
//
// Running without arguments opens the interactive terminal UI: type a device
// name, read the manual, download it as a PDF. The subcommands do the same
// without the UI, for scripts.
//
// Usage:
//
//	techguide [command] [flags]
//
// See 'techguide --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/techguide/internal/logging"
	"github.com/muurk/techguide/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "techguide",
	Short: "Device manual lookup",
	Long: `Look up repair and setup manuals for devices.

Type a device name and techguide asks the manual service for its manual,
shows it in a scrollable view and can save it as a PDF.

If no command is specified, the interactive UI launches.`,
	Version:       version.Version,
	Args:          cobra.NoArgs,
	RunE:          runInteractive,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Assigned here rather than in the literal: setup refers to rootCmd.
	rootCmd.PersistentPreRunE = setup
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("techguide %s\n", version.Full())
	},
}
