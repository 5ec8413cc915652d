// Package device provides the channel a command stream travels through to
// reach a printer. A channel is exclusive and scoped: Open acquires the
// device, Send is exactly one transmission attempt, Close always releases the
// handle. Dry-run jobs get a recording channel that never touches hardware,
// so sending logic never branches on a dry-run flag.
package device

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
)

// Channel carries encoded command bytes to one device.
//
// Send is a single attempt: it is never retried internally, because resending
// to a physical printer risks duplicate output. Copy counts belong inside the
// command stream, not in repeated Send calls. Close is idempotent and
// releases the underlying handle on every exit path.
type Channel interface {
	Send(data []byte) error
	Close() error
}

// Error classification for non-dry-run channels. Callers match with
// errors.Is and decide themselves whether a resend is safe.
var (
	ErrNotFound         = errors.New("device: not found")
	ErrPermissionDenied = errors.New("device: permission denied")
	ErrTimeout          = errors.New("device: timeout")
	ErrWriteFailure     = errors.New("device: write failure")
	// ErrBusy is returned by Open when another channel already holds the
	// device.
	ErrBusy = errors.New("device: busy")
)

// errClosed guards use-after-close on any channel implementation. It is a
// usage error, not a device error.
var errClosed = errors.New("device: channel closed")

var serialPortPattern = regexp.MustCompile(`^(?i:COM\d+)$|^/dev/(tty|cu\.)`)

// Open acquires a channel for the device identifier. With dryRun set the
// identifier is accepted but never opened. Otherwise the identifier selects
// the transport: "usb:VID:PID" claims a USB printer interface, serial port
// names ("COM3", "/dev/ttyUSB0", "/dev/cu.usbmodem1") open a serial port, and
// anything else is written as a raw device file (e.g. "/dev/usb/lp0").
func Open(path string, dryRun bool) (Channel, error) {
	if dryRun {
		return NewDryRun(path), nil
	}
	if strings.HasPrefix(path, "usb:") {
		return openUSB(path)
	}
	if serialPortPattern.MatchString(path) {
		return openSerial(path)
	}
	return openFile(path)
}

// classify maps an OS-level error onto the package's error taxonomy, keeping
// the cause in the chain. fallback covers causes with no specific class:
// ErrNotFound when opening, ErrWriteFailure when sending.
func classify(err, fallback error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
	case os.IsTimeout(err):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	default:
		return fmt.Errorf("%w: %v", fallback, err)
	}
}
