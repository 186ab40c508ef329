// Package config provides the persisted state devterm reads and writes.
//
// Three YAML documents are managed here:
//
//   - User settings: a small key/value store shared by every project
//     (openDevToolsAtStartup, sendTo). Stored in the user config directory.
//   - Session: the signed-in platform identity. Stored next to the user
//     settings with user-only permissions.
//   - Project state: per-project settings (dev, minify, hostType) and the
//     packager info written by the running bundler (ports, tunnel URL).
//     Stored under <project>/.devterm/.
//
// # Configuration File Location
//
// The user configuration directory follows platform conventions:
//   - Linux: $XDG_CONFIG_HOME/devterm or $HOME/.config/devterm
//   - macOS: $HOME/.config/devterm
//   - Windows: %LOCALAPPDATA%\devterm
//
// # Usage Example
//
//	settings, err := config.DefaultUserSettings()
//	if err != nil {
//	    return err
//	}
//	open, err := settings.Bool(config.KeyOpenDevToolsAtStartup, true)
//	if err != nil {
//	    return err
//	}
//	err = settings.Set(config.KeyOpenDevToolsAtStartup, !open)
//
// # Concurrency
//
// Every read goes to disk and every write is a read-modify-write followed by
// an atomic rename, serialized by a per-store mutex. There is no cross-process
// locking: the last writer wins.
package config
