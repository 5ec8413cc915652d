package device

import (
	"bytes"
	"sync"
)

// DryRun is a Channel that records instead of transmitting. Send always
// succeeds; by construction a dry-run job can never see a device error.
type DryRun struct {
	path string

	mu     sync.Mutex
	buf    bytes.Buffer
	closed bool
}

// NewDryRun creates a recording channel for the given device identifier. The
// identifier is kept for display only and never opened.
func NewDryRun(path string) *DryRun {
	return &DryRun{path: path}
}

// Send records data.
func (d *DryRun) Send(data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return errClosed
	}
	d.buf.Write(data)
	return nil
}

// Sent returns a copy of everything that would have been written to the
// device so far.
func (d *DryRun) Sent() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]byte, d.buf.Len())
	copy(out, d.buf.Bytes())
	return out
}

// Path returns the device identifier the job targeted.
func (d *DryRun) Path() string { return d.path }

// Close marks the channel closed. Recorded bytes stay readable via Sent.
func (d *DryRun) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}
