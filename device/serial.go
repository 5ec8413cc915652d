package device

import (
	"errors"
	"fmt"
	"sync"

	"go.bug.st/serial"
)

// Thermal printers on serial links speak 9600 8N1 unless reconfigured.
var serialMode = &serial.Mode{
	BaudRate: 9600,
	DataBits: 8,
	Parity:   serial.NoParity,
	StopBits: serial.OneStopBit,
}

// SerialChannel writes to a serial port (COM port or /dev/tty*). The OS keeps
// the port exclusive while it is open.
type SerialChannel struct {
	path string

	mu     sync.Mutex
	port   serial.Port
	closed bool
}

func openSerial(path string) (*SerialChannel, error) {
	port, err := serial.Open(path, serialMode)
	if err != nil {
		return nil, classifySerial(err)
	}
	return &SerialChannel{path: path, port: port}, nil
}

// Send writes data to the port in one attempt, draining short writes.
func (c *SerialChannel) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errClosed
	}

	written := 0
	for written < len(data) {
		n, err := c.port.Write(data[written:])
		written += n
		if err != nil {
			return fmt.Errorf("wrote %d/%d bytes to %s: %w", written, len(data), c.path, classify(err, ErrWriteFailure))
		}
		if n == 0 {
			return fmt.Errorf("wrote %d/%d bytes to %s: %w: zero-byte write", written, len(data), c.path, ErrWriteFailure)
		}
	}
	return nil
}

// Close releases the port. Safe to call more than once.
func (c *SerialChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.port.Close()
}

func classifySerial(err error) error {
	var portErr *serial.PortError
	if errors.As(err, &portErr) {
		switch portErr.Code() {
		case serial.PortNotFound:
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		case serial.PermissionDenied:
			return fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		case serial.PortBusy:
			return fmt.Errorf("%w: %v", ErrBusy, err)
		}
	}
	return classify(err, ErrNotFound)
}
