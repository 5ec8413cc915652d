package device

import (
	"fmt"
	"os"
	"sync"
)

// FileChannel writes to a raw printer device file such as /dev/usb/lp0.
// Exclusivity is enforced with an advisory lock on the open descriptor, so a
// second Open against the same path fails with ErrBusy while the first
// channel is alive.
type FileChannel struct {
	path string

	mu     sync.Mutex
	f      *os.File
	closed bool
}

func openFile(path string) (*FileChannel, error) {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, classify(err, ErrNotFound)
	}
	if err := lockFile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s held by another channel: %v", ErrBusy, path, err)
	}
	return &FileChannel{path: path, f: f}, nil
}

// Send writes data to the device in one attempt. Kernel writes to character
// devices may be short, so the buffer is drained in a loop; any error,
// including one after a partial write, is reported and never retried.
func (c *FileChannel) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errClosed
	}

	written := 0
	for written < len(data) {
		n, err := c.f.Write(data[written:])
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

// Close releases the lock and the file handle. Safe to call more than once.
func (c *FileChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	unlockFile(c.f)
	return c.f.Close()
}
