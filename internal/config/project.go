package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Host types a project URL can be built for.
const (
	HostTypeLAN       = "lan"
	HostTypeLocalhost = "localhost"
	HostTypeTunnel    = "tunnel"
)

// ProjectSettings are the per-project bundler options.
type ProjectSettings struct {
	HostType string `yaml:"host_type"` // lan, localhost or tunnel
	Dev      bool   `yaml:"dev"`       // development build (as opposed to production)
	Minify   bool   `yaml:"minify"`    // minify bundles
	HTTPS    bool   `yaml:"https"`     // serve over https
}

// DefaultProjectSettings returns the settings used when a project has none.
func DefaultProjectSettings() ProjectSettings {
	return ProjectSettings{
		HostType: HostTypeLAN,
		Dev:      true,
		Minify:   false,
	}
}

// PackagerInfo is written by the running bundler and read by devterm.
type PackagerInfo struct {
	PackagerPort int    `yaml:"packager_port"`
	DevToolsPort int    `yaml:"devtools_port"`
	TunnelURL    string `yaml:"tunnel_url,omitempty"`
	PackagerPID  int    `yaml:"packager_pid,omitempty"`
}

// ProjectStore reads and writes the files under <project>/.devterm/.
type ProjectStore struct {
	mu sync.Mutex
}

// NewProjectStore creates a project store
func NewProjectStore() *ProjectStore {
	return &ProjectStore{}
}

// ReadProjectSettings returns the project's settings, or the defaults when
// the project has never been configured.
func (p *ProjectStore) ReadProjectSettings(projectDir string) (ProjectSettings, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	settings := DefaultProjectSettings()
	found, err := readYAML(filepath.Join(ProjectStateDir(projectDir), settingsFile), &settings)
	if err != nil {
		return ProjectSettings{}, fmt.Errorf("failed to read project settings: %w", err)
	}
	if !found {
		return DefaultProjectSettings(), nil
	}
	if settings.HostType == "" {
		settings.HostType = HostTypeLAN
	}
	return settings, nil
}

// WriteProjectSettings replaces the project's settings.
func (p *ProjectStore) WriteProjectSettings(projectDir string, settings ProjectSettings) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := writeYAML(filepath.Join(ProjectStateDir(projectDir), settingsFile), settings); err != nil {
		return fmt.Errorf("failed to write project settings: %w", err)
	}
	return nil
}

// ReadPackagerInfo returns the packager info of the running bundler. A project
// whose bundler never started yields the zero value.
func (p *ProjectStore) ReadPackagerInfo(projectDir string) (PackagerInfo, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var info PackagerInfo
	if _, err := readYAML(filepath.Join(ProjectStateDir(projectDir), packagerInfoDoc), &info); err != nil {
		return PackagerInfo{}, fmt.Errorf("failed to read packager info: %w", err)
	}
	return info, nil
}

// WritePackagerInfo replaces the packager info. Bundlers call this on startup.
func (p *ProjectStore) WritePackagerInfo(projectDir string, info PackagerInfo) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := writeYAML(filepath.Join(ProjectStateDir(projectDir), packagerInfoDoc), info); err != nil {
		return fmt.Errorf("failed to write packager info: %w", err)
	}
	return nil
}

// readYAML decodes path into out. found is false when the file is missing.
func readYAML(path string, out any) (found bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return true, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

func writeYAML(path string, in any) error {
	data, err := marshalYAML(in)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data, 0644)
}

func marshalYAML(in any) ([]byte, error) {
	data, err := yaml.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", in, err)
	}
	return data, nil
}
