package serialdev

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBaud(t *testing.T) {
	tests := []struct {
		baud    int
		wantErr bool
	}{
		{9600, false},
		{115200, false},
		{921600, false},
		{0, true},
		{1234, true},
		{-9600, true},
	}

	for _, tt := range tests {
		err := ValidateBaud(tt.baud)
		if tt.wantErr {
			assert.Error(t, err, "baud %d", tt.baud)
		} else {
			assert.NoError(t, err, "baud %d", tt.baud)
		}
	}
}

func staticList(ports ...string) func() ([]string, error) {
	return func() ([]string, error) {
		return ports, nil
	}
}

func TestPortBridge_RequestDevice(t *testing.T) {
	bridge := &PortBridge{
		List: staticList("/dev/ttyUSB0", "/dev/ttyACM0"),
		Chooser: func(ports []string) (string, error) {
			require.Equal(t, []string{"/dev/ttyUSB0", "/dev/ttyACM0"}, ports)
			return "/dev/ttyACM0", nil
		},
	}

	device, err := bridge.RequestDevice()

	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", device.Name())
}

func TestPortBridge_RequestDeviceNoPorts(t *testing.T) {
	bridge := &PortBridge{List: staticList()}

	_, err := bridge.RequestDevice()

	require.ErrorIs(t, err, ErrNoDevice)
}

func TestPortBridge_RequestDeviceDismissed(t *testing.T) {
	tests := []struct {
		name    string
		chooser func(ports []string) (string, error)
		wantErr error
	}{
		{
			name:    "no chooser",
			chooser: nil,
			wantErr: ErrNoDeviceChosen,
		},
		{
			name: "empty choice",
			chooser: func(ports []string) (string, error) {
				return "", nil
			},
			wantErr: ErrNoDeviceChosen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bridge := &PortBridge{
				List:    staticList("/dev/ttyUSB0"),
				Chooser: tt.chooser,
			}

			_, err := bridge.RequestDevice()

			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPortBridge_RequestDeviceChooserError(t *testing.T) {
	chooserErr := errors.New("interrupted")
	bridge := &PortBridge{
		List: staticList("/dev/ttyUSB0"),
		Chooser: func(ports []string) (string, error) {
			return "", chooserErr
		},
	}

	_, err := bridge.RequestDevice()

	require.ErrorIs(t, err, chooserErr)
}

func TestPortBridge_ListAuthorizedDevices(t *testing.T) {
	bridge := &PortBridge{
		List:       staticList("/dev/ttyUSB0", "/dev/ttyACM0"),
		Authorized: func() []string { return []string{"/dev/ttyACM0", "/dev/ttyS99"} },
	}

	devices, err := bridge.ListAuthorizedDevices()

	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "/dev/ttyACM0", devices[0].Name())
}

func TestPortBridge_ListAuthorizedDevicesNoneRemembered(t *testing.T) {
	bridge := &PortBridge{List: staticList("/dev/ttyUSB0")}

	devices, err := bridge.ListAuthorizedDevices()

	require.NoError(t, err)
	assert.Empty(t, devices)
}

func TestNamedDevice(t *testing.T) {
	device := NamedDevice("/dev/ttyUSB0")

	assert.Equal(t, "/dev/ttyUSB0", device.Name())
}

func TestNamedDevice_OpenRejectsInvalidBaud(t *testing.T) {
	device := NamedDevice("/dev/ttyUSB0")

	_, err := device.Open(1234)

	require.Error(t, err)
}
