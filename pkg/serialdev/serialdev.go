// Package serialdev bridges the session layer to physical serial ports.
//
// It plays the role of the platform transport: enumerating ports, prompting
// the user for one, reopening previously used ports without a prompt, and
// handing out open Port handles whose read and write halves the session
// layer owns exclusively.
package serialdev

import (
	"errors"
	"fmt"
	"io"

	"go.bug.st/serial"
)

// Errors reported by the bridge.
var (
	// ErrNoDevice means no serial ports are present on the system.
	ErrNoDevice = errors.New("no serial ports found")
	// ErrNoDeviceChosen means the user dismissed the port chooser.
	ErrNoDeviceChosen = errors.New("no serial port chosen")
)

// validBaudRates is the set of rates the bridge will open a port at.
var validBaudRates = []int{9600, 19200, 38400, 57600, 115200, 230400, 460800, 921600}

// ValidateBaud checks that baud is one of the supported rates.
func ValidateBaud(baud int) error {
	for _, rate := range validBaudRates {
		if baud == rate {
			return nil
		}
	}
	return fmt.Errorf("invalid baud rate: %d", baud)
}

// Port is one open serial session. Either stream half may be nil when the
// underlying device cannot provide it; callers must check before use.
type Port interface {
	Readable() io.Reader
	Writable() io.Writer
	Close() error
}

// Device is a handle to a serial device that can be opened into a Port.
// A Device may be opened at most once per session; after the resulting
// Port is closed a fresh Open is required.
type Device interface {
	Name() string
	Open(baud int) (Port, error)
}

// Bridge is the platform surface the session layer talks to. It never
// holds open ports itself.
type Bridge interface {
	// RequestDevice prompts the user to choose from the ports currently
	// present and returns a handle to the chosen one.
	RequestDevice() (Device, error)
	// ListAuthorizedDevices returns handles for previously used ports
	// that are currently present, without prompting.
	ListAuthorizedDevices() ([]Device, error)
}

// ListPorts returns the names of the serial ports present on the system.
func ListPorts() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to get ports list: %w", err)
	}
	return ports, nil
}

// PortBridge implements Bridge over go.bug.st/serial.
type PortBridge struct {
	// Chooser presents the given port names to the user and returns the
	// chosen one. Returning an error aborts the request.
	Chooser func(ports []string) (string, error)
	// Authorized returns the port names the user has connected to before.
	Authorized func() []string
	// List enumerates present ports. Defaults to ListPorts.
	List func() ([]string, error)
}

func (b *PortBridge) list() ([]string, error) {
	if b.List != nil {
		return b.List()
	}
	return ListPorts()
}

// RequestDevice enumerates ports and asks the Chooser to pick one.
func (b *PortBridge) RequestDevice() (Device, error) {
	ports, err := b.list()
	if err != nil {
		return nil, err
	}
	if len(ports) == 0 {
		return nil, ErrNoDevice
	}
	if b.Chooser == nil {
		return nil, ErrNoDeviceChosen
	}
	name, err := b.Chooser(ports)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, ErrNoDeviceChosen
	}
	return &portDevice{name: name}, nil
}

// ListAuthorizedDevices returns handles for remembered ports that are
// currently present. No prompt is shown.
func (b *PortBridge) ListAuthorizedDevices() ([]Device, error) {
	if b.Authorized == nil {
		return nil, nil
	}
	present, err := b.list()
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(present))
	for _, p := range present {
		known[p] = true
	}
	var devices []Device
	for _, name := range b.Authorized() {
		if known[name] {
			devices = append(devices, &portDevice{name: name})
		}
	}
	return devices, nil
}

// NamedDevice returns a handle for an explicitly named port, bypassing
// both the chooser and the authorized list.
func NamedDevice(name string) Device {
	return &portDevice{name: name}
}

// portDevice opens real ports through go.bug.st/serial.
type portDevice struct {
	name string
}

func (d *portDevice) Name() string { return d.name }

func (d *portDevice) Open(baud int) (Port, error) {
	if err := ValidateBaud(baud); err != nil {
		return nil, err
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		StopBits: serial.OneStopBit,
		Parity:   serial.NoParity,
	}
	port, err := serial.Open(d.name, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", d.name, err)
	}
	return &streamPort{port: port}, nil
}

// streamPort adapts serial.Port to the Port interface. The underlying
// handle serves both stream halves.
type streamPort struct {
	port serial.Port
}

func (p *streamPort) Readable() io.Reader { return p.port }
func (p *streamPort) Writable() io.Writer { return p.port }

func (p *streamPort) Close() error {
	if err := p.port.Close(); err != nil {
		return fmt.Errorf("failed to close serial port: %w", err)
	}
	return nil
}
