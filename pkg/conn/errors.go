package conn

import (
	"errors"
	"fmt"
)

// Errors surfaced to callers of the manager. Teardown failures are never
// surfaced; only the connect/send paths report.
var (
	// ErrUnsupportedPlatform means no serial transport is available.
	ErrUnsupportedPlatform = errors.New("serial transport is not available on this platform")
	// ErrPortNotStreamable means the opened device lacks a readable or
	// writable channel.
	ErrPortNotStreamable = errors.New("serial port is not readable and writable")
	// ErrNotConnected means a send was attempted with no active session.
	ErrNotConnected = errors.New("not connected to a serial port")
)

// OpenError reports a failed open. The session is torn down before it is
// returned.
type OpenError struct {
	Cause error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("failed to open serial port: %v", e.Cause)
}

func (e *OpenError) Unwrap() error { return e.Cause }

// SendError reports a failed write. The session is torn down as a side
// effect; callers must not assume the connection survived.
type SendError struct {
	Cause error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("failed to write to serial port: %v", e.Cause)
}

func (e *SendError) Unwrap() error { return e.Cause }
