// Package conn owns the lifecycle of the single active serial session:
// opening a device, running the inbound read loop, writing outbound text,
// and tearing everything down exactly once no matter which side fails
// first.
package conn

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"

	"serterm/pkg/serialdev"
)

// State is the lifecycle phase of the manager.
type State int

const (
	// StateIdle means no device is held.
	StateIdle State = iota
	// StateOpening means a device open is in progress.
	StateOpening
	// StateOpen means the read loop is active and sends are enabled.
	StateOpen
	// StateClosing means teardown is in progress.
	StateClosing
	// StateError is the terminal phase of a failed session; it decays to
	// Idle after cleanup.
	StateError
)

// String returns the string representation of State.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpening:
		return "opening"
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Sink receives the manager's outbound feeds. Methods may be called from
// the read loop goroutine and must not block indefinitely.
type Sink interface {
	// Data receives decoded inbound text, including inline error
	// annotations from the read loop.
	Data(text string)
	// Connectivity receives connection state flips. The false flip is
	// delivered exactly once per session.
	Connectivity(connected bool)
	// Availability receives changes to whether a previously authorized
	// device is present.
	Availability(available bool)
}

// Manager binds one serial device to its exclusive reader and writer for
// the duration of a session. At most one session is open at a time;
// opening a new one tears down the old one first.
type Manager struct {
	bridge  serialdev.Bridge
	sink    Sink
	watcher *serialdev.Watcher

	mu        sync.Mutex
	state     State
	device    serialdev.Device
	port      serialdev.Port
	reader    io.Reader
	writer    io.Writer
	baud      int
	connected bool
	available bool
	gen       uint64
}

// NewManager creates a manager over the given transport bridge. sink is
// required. watcher may be nil; when present the manager owns it for its
// whole lifetime, pointing it at the open port and stopping it in Close.
func NewManager(bridge serialdev.Bridge, sink Sink, watcher *serialdev.Watcher) *Manager {
	m := &Manager{
		bridge:  bridge,
		sink:    sink,
		watcher: watcher,
		state:   StateIdle,
	}
	if watcher != nil {
		watcher.Start(m.deviceGone)
	}
	return m
}

// Close stops the disconnect watcher and tears down any open session.
// The manager must not be reused afterwards.
func (m *Manager) Close() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
	m.Disconnect()
}

// State returns the current lifecycle phase.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Connected reports whether a session is open.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// Device returns the name of the open device, or "" when idle.
func (m *Manager) Device() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.device == nil {
		return ""
	}
	return m.device.Name()
}

// Baud returns the baud rate of the open session, or 0 when idle.
func (m *Manager) Baud() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.connected {
		return 0
	}
	return m.baud
}

// CheckAvailability queries whether any previously authorized device is
// present, without prompting. Transport errors are swallowed and count as
// unavailable. The sink is notified when the flag changes.
func (m *Manager) CheckAvailability() {
	available := false
	if m.bridge != nil {
		devices, err := m.bridge.ListAuthorizedDevices()
		if err != nil {
			log.Debug().Err(err).Msg("availability check failed")
		} else {
			available = len(devices) > 0
		}
	}

	m.mu.Lock()
	changed := m.available != available
	m.available = available
	m.mu.Unlock()

	if changed {
		m.sink.Availability(available)
	}
}

// Available reports the result of the last availability check.
func (m *Manager) Available() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.available
}

// Connect prompts the user to choose a device and opens it at the given
// baud rate.
func (m *Manager) Connect(baud int) error {
	if m.bridge == nil {
		return ErrUnsupportedPlatform
	}
	device, err := m.bridge.RequestDevice()
	if err != nil {
		return err
	}
	return m.Open(device, baud)
}

// QuickConnect opens a previously authorized device without prompting,
// falling back to Connect when none is present.
func (m *Manager) QuickConnect(baud int) error {
	if m.bridge == nil {
		return ErrUnsupportedPlatform
	}
	devices, err := m.bridge.ListAuthorizedDevices()
	if err != nil || len(devices) == 0 {
		return m.Connect(baud)
	}
	return m.Open(devices[0], baud)
}

// Open tears down any existing session, opens device at the given baud
// rate, claims its reader and writer exclusively, and starts the read
// loop. Failures tear the partial session down before returning.
func (m *Manager) Open(device serialdev.Device, baud int) error {
	m.Disconnect()

	m.setState(StateOpening)
	port, err := device.Open(baud)
	if err != nil {
		m.setState(StateError)
		m.Disconnect()
		return &OpenError{Cause: err}
	}

	reader := port.Readable()
	writer := port.Writable()
	if reader == nil || writer == nil {
		if cerr := port.Close(); cerr != nil {
			log.Debug().Err(cerr).Msg("closing unstreamable port")
		}
		m.setState(StateError)
		m.Disconnect()
		return ErrPortNotStreamable
	}

	decoder := NewStreamDecoder()

	m.mu.Lock()
	m.gen++
	gen := m.gen
	m.device = device
	m.port = port
	m.reader = reader
	m.writer = writer
	m.baud = baud
	m.connected = true
	m.state = StateOpen
	m.mu.Unlock()

	if m.watcher != nil {
		m.watcher.Watch(device.Name())
	}
	log.Info().Str("port", device.Name()).Int("baud", baud).Msg("serial port opened")
	m.sink.Connectivity(true)

	go m.readLoop(gen, reader, decoder)
	return nil
}

// Send encodes text as UTF-8 and writes it to the open session. A write
// failure tears the session down before the error is returned.
func (m *Manager) Send(text string) error {
	m.mu.Lock()
	writer := m.writer
	m.mu.Unlock()
	if writer == nil {
		return ErrNotConnected
	}

	if _, err := writer.Write([]byte(text)); err != nil {
		log.Warn().Err(err).Msg("serial write failed")
		m.Disconnect()
		return &SendError{Cause: err}
	}
	return nil
}

// Disconnect tears down the session: best effort, idempotent, and safe to
// call from any state, including concurrently with an exiting read loop.
// All release errors are swallowed; the goal is a clean idle state.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	m.gen++ // invalidate any live read loop's teardown
	wasConnected := m.teardownLocked()
	m.mu.Unlock()

	m.finishTeardown(wasConnected)
}

// teardownLocked releases the session's resources in order: reader, writer,
// device handle. Each step is guarded so it is safe even if already
// cleared. Returns whether the session was connected.
func (m *Manager) teardownLocked() bool {
	if m.port == nil && !m.connected {
		m.state = StateIdle
		return false
	}

	m.state = StateClosing
	m.reader = nil
	m.writer = nil
	if m.port != nil {
		if err := m.port.Close(); err != nil {
			log.Debug().Err(err).Msg("closing serial port")
		}
		m.port = nil
	}
	m.device = nil
	wasConnected := m.connected
	m.connected = false
	m.state = StateIdle
	return wasConnected
}

// finishTeardown performs the post-teardown notifications that must not
// run under the lock.
func (m *Manager) finishTeardown(wasConnected bool) {
	if m.watcher != nil {
		m.watcher.Unwatch()
	}
	m.CheckAvailability()
	if wasConnected {
		log.Info().Msg("serial port closed")
		m.sink.Connectivity(false)
	}
}

// readLoop drains the inbound stream for one session. It never panics
// past its own boundary: read failures become inline log annotations and
// every exit path converges on the shared teardown.
func (m *Manager) readLoop(gen uint64, reader io.Reader, decoder *StreamDecoder) {
	buf := make([]byte, 4096)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			if text := decoder.Decode(buf[:n]); text != "" {
				m.sink.Data(text)
			}
		}
		if err != nil {
			if err != io.EOF {
				m.sink.Data(fmt.Sprintf("\r\n[read error: %v]\r\n", err))
				log.Warn().Err(err).Msg("serial read failed")
			}
			break
		}
	}

	if tail := decoder.Flush(); tail != "" {
		m.sink.Data(tail)
	}

	// A newer Open may have claimed the manager while this loop was
	// blocked; its generation check makes this a no-op then.
	m.mu.Lock()
	if gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.gen++
	wasConnected := m.teardownLocked()
	m.mu.Unlock()

	m.finishTeardown(wasConnected)
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// deviceGone handles the platform-level disconnect notification: an
// inbound log line followed by the ordinary teardown path.
func (m *Manager) deviceGone(name string) {
	m.sink.Data(fmt.Sprintf("\r\n[%s disconnected]\r\n", name))
	m.Disconnect()
}
