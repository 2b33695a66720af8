// Package config persists application settings: the default baud rate,
// the history cap, and the ports the user has connected to before.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"serterm/pkg/serialdev"
)

// authorizedPortsMax caps how many remembered ports are kept.
const authorizedPortsMax = 8

// Settings is the persisted application configuration.
type Settings struct {
	DefaultBaud int `json:"default_baud"`
	HistoryMax  int `json:"history_max"`
	// AuthorizedPorts lists previously used ports, most recent first.
	AuthorizedPorts []string `json:"authorized_ports,omitempty"`
	LogLevel        string   `json:"log_level"`
}

// DefaultSettings returns the settings used when no file exists yet.
func DefaultSettings() Settings {
	return Settings{
		DefaultBaud: 115200,
		HistoryMax:  50,
		LogLevel:    "info",
	}
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	if err := serialdev.ValidateBaud(s.DefaultBaud); err != nil {
		return fmt.Errorf("invalid default baud: %w", err)
	}
	if s.HistoryMax <= 0 {
		return fmt.Errorf("history max must be positive, got: %d", s.HistoryMax)
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", s.LogLevel)
	}
	return nil
}

// DefaultPath returns the settings file location under the XDG config dir.
func DefaultPath() (string, error) {
	path, err := xdg.ConfigFile("serterm/config.json")
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	return path, nil
}

// HistoryPath returns the history store location under the XDG data dir.
func HistoryPath() (string, error) {
	path, err := xdg.DataFile("serterm/history.db")
	if err != nil {
		return "", fmt.Errorf("failed to resolve history path: %w", err)
	}
	return path, nil
}

// Manager loads and saves the settings file.
type Manager struct {
	path string
}

// NewManager creates a manager for the settings file at path.
func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Path returns the settings file location.
func (m *Manager) Path() string { return m.path }

// Load reads the settings file. A missing or unreadable file yields the
// defaults; Load never fails.
func (m *Manager) Load() Settings {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return DefaultSettings()
	}
	settings := DefaultSettings()
	if err := json.Unmarshal(data, &settings); err != nil {
		return DefaultSettings()
	}
	if settings.Validate() != nil {
		return DefaultSettings()
	}
	return settings
}

// Save writes the settings atomically: temp file first, then rename.
func (m *Manager) Save(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	tempPath := m.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temporary settings file: %w", err)
	}
	if err := os.Rename(tempPath, m.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename temporary settings file: %w", err)
	}
	return nil
}

// RememberPort records name as the most recently used port, deduplicating
// and capping the remembered list.
func (m *Manager) RememberPort(name string) error {
	if name == "" {
		return nil
	}
	settings := m.Load()

	ports := make([]string, 0, len(settings.AuthorizedPorts)+1)
	ports = append(ports, name)
	for _, p := range settings.AuthorizedPorts {
		if p != name {
			ports = append(ports, p)
		}
	}
	if len(ports) > authorizedPortsMax {
		ports = ports[:authorizedPortsMax]
	}
	settings.AuthorizedPorts = ports

	return m.Save(settings)
}

// ForgetPort drops name from the remembered list.
func (m *Manager) ForgetPort(name string) error {
	settings := m.Load()
	ports := make([]string, 0, len(settings.AuthorizedPorts))
	for _, p := range settings.AuthorizedPorts {
		if p != name {
			ports = append(ports, p)
		}
	}
	settings.AuthorizedPorts = ports
	return m.Save(settings)
}

// AuthorizedPorts returns the remembered ports, most recent first.
func (m *Manager) AuthorizedPorts() []string {
	return m.Load().AuthorizedPorts
}
