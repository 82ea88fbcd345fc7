// Package logging provides structured logging for the techguide client.
//
// The package wraps a zap logger behind package-level helpers. Logging is
// silent by default: nothing is written unless a level is passed to
// Initialize or the TECHGUIDE_LOG_LEVEL environment variable is set. The
// interactive UI owns the terminal, so it sends log output to a file.
//
//	if err := logging.Initialize("debug", "/tmp/techguide.log"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
//	logging.LogSearch(token, "Samsung TV")
//
// Lookup-specific helpers (LogSearch, LogOutcome, LogProbe, LogExport,
// LogStaleResponse) keep field names consistent across packages.
package logging
