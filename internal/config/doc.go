// Package config manages the techguide settings file.
//
// Settings are stored as YAML in a platform-appropriate location:
//   - Linux: $XDG_CONFIG_HOME/techguide/config.yaml or $HOME/.config/techguide/config.yaml
//   - macOS: $HOME/.config/techguide/config.yaml
//   - Windows: %LOCALAPPDATA%\techguide\config.yaml
//
// A missing file is not an error: Load returns Defaults. Command-line flags
// override whatever the file holds.
//
// # Usage Example
//
//	settings, err := config.LoadDefault()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	settings.Server.BaseURL = "http://192.168.1.20:5000"
//	if err := settings.SaveDefault(); err != nil {
//	    log.Fatal(err)
//	}
//
// Writes go to a temporary file first and are renamed into place.
package config
