package device

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/gousb"
)

// USB printer-class interface code.
// Reference: http://www.usb.org/developers/defined_class
const ifaceClassPrinter = 0x07

// USBChannel writes to a USB printer claimed through its printer-class
// interface. Claiming the interface is the exclusivity: a second claim on the
// same device fails at the OS level.
type USBChannel struct {
	path string

	mu     sync.Mutex
	ctx    *gousb.Context
	dev    *gousb.Device
	iface  *gousb.Interface
	done   func()
	out    *gousb.OutEndpoint
	closed bool
}

// openUSB opens a "usb:VID:PID" identifier, with VID and PID as four hex
// digits (e.g. usb:04b8:0202).
func openUSB(path string) (*USBChannel, error) {
	vid, pid, err := parseUSBPath(path)
	if err != nil {
		return nil, err
	}

	ctx := gousb.NewContext()
	dev, err := ctx.OpenDeviceWithVIDPID(vid, pid)
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("%w: open %s: %v", ErrNotFound, path, err)
	}
	if dev == nil {
		ctx.Close()
		return nil, fmt.Errorf("%w: no USB device matches %s", ErrNotFound, path)
	}
	dev.SetAutoDetach(true)

	iface, done, err := claimPrinterInterface(dev)
	if err != nil {
		dev.Close()
		ctx.Close()
		return nil, err
	}

	out, err := findOutEndpoint(iface)
	if err != nil {
		done()
		dev.Close()
		ctx.Close()
		return nil, err
	}

	return &USBChannel{path: path, ctx: ctx, dev: dev, iface: iface, done: done, out: out}, nil
}

func parseUSBPath(path string) (gousb.ID, gousb.ID, error) {
	parts := strings.Split(strings.TrimPrefix(path, "usb:"), ":")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 4 {
		return 0, 0, fmt.Errorf("%w: malformed USB identifier %q, want usb:VID:PID with four hex digits each", ErrNotFound, path)
	}
	vid, err := strconv.ParseUint(parts[0], 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad vendor id in %q: %v", ErrNotFound, path, err)
	}
	pid, err := strconv.ParseUint(parts[1], 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad product id in %q: %v", ErrNotFound, path, err)
	}
	return gousb.ID(vid), gousb.ID(pid), nil
}

func claimPrinterInterface(dev *gousb.Device) (*gousb.Interface, func(), error) {
	cfgNum, err := dev.ActiveConfigNum()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: active config: %v", ErrNotFound, err)
	}
	cfg, err := dev.Config(cfgNum)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: config %d: %v", ErrBusy, cfgNum, err)
	}

	num := -1
	for _, iface := range cfg.Desc.Interfaces {
		for _, alt := range iface.AltSettings {
			if alt.Class == ifaceClassPrinter {
				num = iface.Number
				break
			}
		}
		if num >= 0 {
			break
		}
	}
	if num < 0 {
		cfg.Close()
		return nil, nil, fmt.Errorf("%w: device has no printer interface", ErrNotFound)
	}

	iface, err := cfg.Interface(num, 0)
	if err != nil {
		cfg.Close()
		return nil, nil, fmt.Errorf("%w: claim interface %d: %v", ErrBusy, num, err)
	}
	done := func() {
		iface.Close()
		cfg.Close()
	}
	return iface, done, nil
}

func findOutEndpoint(iface *gousb.Interface) (*gousb.OutEndpoint, error) {
	for _, epDesc := range iface.Setting.Endpoints {
		if epDesc.Direction == gousb.EndpointDirectionOut {
			ep, err := iface.OutEndpoint(epDesc.Number)
			if err == nil {
				return ep, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: no output endpoint on printer interface", ErrNotFound)
}

// Send writes data to the out endpoint in one attempt.
func (c *USBChannel) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return errClosed
	}

	n, err := c.out.Write(data)
	if err != nil {
		return fmt.Errorf("wrote %d/%d bytes to %s: %w", n, len(data), c.path, classify(err, ErrWriteFailure))
	}
	if n != len(data) {
		return fmt.Errorf("wrote %d/%d bytes to %s: %w: short write", n, len(data), c.path, ErrWriteFailure)
	}
	return nil
}

// Close releases the interface, device and USB context in order. Safe to
// call more than once.
func (c *USBChannel) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	if c.done != nil {
		c.done()
	}
	var errs []error
	if err := c.dev.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := c.ctx.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("close %s: %v", c.path, errs)
	}
	return nil
}
