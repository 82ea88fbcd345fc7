// Package urls holds the project and documentation URLs shown by the CLI
// and the terminal UI, so they can be updated in one place before release.
//
// Usage:
//
//	fmt.Printf("For more information, see: %s\n", urls.ServiceSetup)
package urls
