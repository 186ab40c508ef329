package config

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Keys understood by the user settings store.
const (
	KeyOpenDevToolsAtStartup = "openDevToolsAtStartup"
	KeySendTo                = "sendTo"
)

const settingsVersion = 1

// settingsDocument is the on-disk layout of the user settings file.
type settingsDocument struct {
	Version  int            `yaml:"version"`
	Settings map[string]any `yaml:"settings,omitempty"`
}

// UserSettings is a persisted key/value store backed by a YAML file.
type UserSettings struct {
	path string
	mu   sync.Mutex
}

// NewUserSettings returns a store backed by the file at path. The file is
// created on the first Set.
func NewUserSettings(path string) *UserSettings {
	return &UserSettings{path: path}
}

// DefaultUserSettings returns the store at the OS-specific settings path.
func DefaultUserSettings() (*UserSettings, error) {
	path, err := GetSettingsPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings path: %w", err)
	}
	return NewUserSettings(path), nil
}

// Path returns the backing file path
func (s *UserSettings) Path() string {
	return s.path
}

// Get returns the raw value stored under key, or def when the key is unset.
func (s *UserSettings) Get(key string, def any) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	value, ok := doc.Settings[key]
	if !ok || value == nil {
		return def, nil
	}
	return value, nil
}

// Bool returns the boolean stored under key, or def when unset.
func (s *UserSettings) Bool(key string, def bool) (bool, error) {
	value, err := s.Get(key, def)
	if err != nil {
		return false, err
	}
	b, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("setting %q holds %T, not a boolean", key, value)
	}
	return b, nil
}

// String returns the string stored under key, or def when unset.
func (s *UserSettings) String(key string, def string) (string, error) {
	value, err := s.Get(key, def)
	if err != nil {
		return "", err
	}
	str, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("setting %q holds %T, not a string", key, value)
	}
	return str, nil
}

// Set stores value under key and writes the file.
func (s *UserSettings) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	doc.Settings[key] = value
	return s.save(doc)
}

// All returns a copy of every stored setting.
func (s *UserSettings) All() (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(doc.Settings))
	for k, v := range doc.Settings {
		out[k] = v
	}
	return out, nil
}

func (s *UserSettings) load() (*settingsDocument, error) {
	doc := &settingsDocument{Version: settingsVersion, Settings: map[string]any{}}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	if doc.Version != settingsVersion {
		return nil, fmt.Errorf("unsupported settings version: %d (expected %d)", doc.Version, settingsVersion)
	}
	if doc.Settings == nil {
		doc.Settings = map[string]any{}
	}
	return doc, nil
}

func (s *UserSettings) save(doc *settingsDocument) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	header := []byte("# devterm user settings\n# Location: " + s.path + "\n\n")
	if err := writeFileAtomic(s.path, append(header, data...), 0600); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
