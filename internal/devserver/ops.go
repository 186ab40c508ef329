package devserver

import (
	"context"

	"github.com/muurk/devterm/internal/config"
	"github.com/muurk/devterm/internal/devices"
)

// ProjectStore reads and writes per-project state
type ProjectStore interface {
	ReadProjectSettings(projectDir string) (config.ProjectSettings, error)
	WriteProjectSettings(projectDir string, settings config.ProjectSettings) error
	ReadPackagerInfo(projectDir string) (config.PackagerInfo, error)
}

// SettingsStore is the persisted user key/value store
type SettingsStore interface {
	Bool(key string, def bool) (bool, error)
	String(key string, def string) (string, error)
	Set(key string, value any) error
}

// URLBuilder constructs the URL a device opens
type URLBuilder interface {
	ShareableURL(projectDir string, hostType string) (string, error)
}

// Auth is the platform account of the user
type Auth interface {
	// CurrentUsername returns the locally known username, "" when signed out
	CurrentUsername() string
	// Session asks the platform for the signed-in username, "" when signed out
	Session(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	// InteractiveLogin owns stdin until it returns
	InteractiveLogin(ctx context.Context) (string, error)
}

// LinkSender delivers a project link by email or SMS
type LinkSender interface {
	SendLink(ctx context.Context, recipient, url string) error
}

// DeviceLauncher opens the project on a device
type DeviceLauncher interface {
	OpenAndroid(ctx context.Context, projectDir string) devices.Result
	OpenIOSSimulator(ctx context.Context, projectDir string) devices.Result
}

// Bundler controls the running bundler
type Bundler interface {
	Restart(ctx context.Context, projectDir string, reset bool) error
}

// Browser opens URLs in the default web browser
type Browser interface {
	OpenURL(url string) error
}

// BrowserFunc adapts a function to Browser
type BrowserFunc func(url string) error

// OpenURL calls f(url)
func (f BrowserFunc) OpenURL(url string) error {
	return f(url)
}

// Ops groups the external operations the controller calls
type Ops struct {
	Projects ProjectStore
	Settings SettingsStore
	URLs     URLBuilder
	Auth     Auth
	Links    LinkSender
	Devices  DeviceLauncher
	Bundler  Bundler
	Browser  Browser
}
