package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(filepath.Join(t.TempDir(), "config.json"))
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults", func(s *Settings) {}, false},
		{"bad baud", func(s *Settings) { s.DefaultBaud = 1234 }, true},
		{"zero history", func(s *Settings) { s.HistoryMax = 0 }, true},
		{"bad log level", func(s *Settings) { s.LogLevel = "loud" }, true},
		{"debug level", func(s *Settings) { s.LogLevel = "debug" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := DefaultSettings()
			tt.mutate(&settings)

			err := settings.Validate()

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestManager_LoadMissingFileYieldsDefaults(t *testing.T) {
	m := testManager(t)

	assert.Equal(t, DefaultSettings(), m.Load())
}

func TestManager_LoadCorruptFileYieldsDefaults(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "not json"},
		{"invalid values", `{"default_baud":1234,"history_max":50,"log_level":"info"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testManager(t)
			require.NoError(t, os.WriteFile(m.Path(), []byte(tt.data), 0o644))

			assert.Equal(t, DefaultSettings(), m.Load())
		})
	}
}

func TestManager_SaveRoundTrip(t *testing.T) {
	m := testManager(t)

	settings := DefaultSettings()
	settings.DefaultBaud = 9600
	settings.AuthorizedPorts = []string{"/dev/ttyUSB0"}
	require.NoError(t, m.Save(settings))

	assert.Equal(t, settings, m.Load())

	// No temp file left behind.
	_, err := os.Stat(m.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestManager_SaveRejectsInvalid(t *testing.T) {
	m := testManager(t)

	settings := DefaultSettings()
	settings.HistoryMax = -1

	require.Error(t, m.Save(settings))
	_, err := os.Stat(m.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestManager_RememberPort(t *testing.T) {
	m := testManager(t)

	require.NoError(t, m.RememberPort("/dev/ttyUSB0"))
	require.NoError(t, m.RememberPort("/dev/ttyACM0"))

	assert.Equal(t, []string{"/dev/ttyACM0", "/dev/ttyUSB0"}, m.AuthorizedPorts())

	// Reconnecting moves the port back to the front.
	require.NoError(t, m.RememberPort("/dev/ttyUSB0"))
	assert.Equal(t, []string{"/dev/ttyUSB0", "/dev/ttyACM0"}, m.AuthorizedPorts())

	// Empty names are ignored.
	require.NoError(t, m.RememberPort(""))
	assert.Equal(t, []string{"/dev/ttyUSB0", "/dev/ttyACM0"}, m.AuthorizedPorts())
}

func TestManager_RememberPortCaps(t *testing.T) {
	m := testManager(t)

	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"}
	for _, name := range names {
		require.NoError(t, m.RememberPort(name))
	}

	ports := m.AuthorizedPorts()
	require.Len(t, ports, authorizedPortsMax)
	assert.Equal(t, "i", ports[0])
	assert.NotContains(t, ports, "a")
}

func TestManager_ForgetPort(t *testing.T) {
	m := testManager(t)
	require.NoError(t, m.RememberPort("/dev/ttyUSB0"))
	require.NoError(t, m.RememberPort("/dev/ttyACM0"))

	require.NoError(t, m.ForgetPort("/dev/ttyUSB0"))

	assert.Equal(t, []string{"/dev/ttyACM0"}, m.AuthorizedPorts())

	// Forgetting an unknown port is not an error.
	require.NoError(t, m.ForgetPort("/dev/ttyS99"))
}
