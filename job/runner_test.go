package job

import (
	"errors"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nixxel-company-limited/tspl-label-printer/device"
	"github.com/nixxel-company-limited/tspl-label-printer/label"
	"github.com/nixxel-company-limited/tspl-label-printer/layout"
	"github.com/nixxel-company-limited/tspl-label-printer/tspl"
)

// MockChannel is a mock implementation of device.Channel for testing.
type MockChannel struct {
	sent    []byte
	sendErr error
	closed  bool
}

func (m *MockChannel) Send(data []byte) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, data...)
	return nil
}

func (m *MockChannel) Close() error {
	m.closed = true
	return nil
}

func testRunner() *Runner {
	return NewWithLogger(log.New(io.Discard, "", 0))
}

func testConfig() label.Config {
	return label.Config{
		BarcodeData:   "123456789012",
		BarcodeType:   label.EAN13,
		TopText:       "PRODUCT NAME",
		BottomText:    "Made in USA",
		WidthMM:       100,
		HeightMM:      50,
		BarHeightMM:   15,
		BarMultiplier: 2,
		FontSizePt:    24,
		Copies:        1,
		Orientation:   label.OrientationNormal,
		Device:        "/dev/usb/lp0",
	}
}

func TestPrintSendsEncodedStream(t *testing.T) {
	cfg := testConfig()
	ch := &MockChannel{}

	stream, err := testRunner().Print(cfg, ch)
	require.NoError(t, err)
	assert.Equal(t, stream, ch.sent, "channel receives exactly the encoded stream")

	lay, err := layout.Compute(cfg)
	require.NoError(t, err)
	want, err := tspl.Encode(cfg, lay)
	require.NoError(t, err)
	assert.Equal(t, want, stream)
}

func TestPrintDryRunTranscript(t *testing.T) {
	cfg := testConfig()
	cfg.DryRun = true
	cfg.Device = "/nonexistent/path"

	ch, err := device.Open(cfg.Device, cfg.DryRun)
	require.NoError(t, err)
	defer ch.Close()

	stream, err := testRunner().Print(cfg, ch)
	require.NoError(t, err, "dry-run never produces a device error")
	assert.Equal(t, stream, ch.(*device.DryRun).Sent())
}

func TestPrintRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Copies = 0
	ch := &MockChannel{}

	_, err := testRunner().Print(cfg, ch)
	var verr *label.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, ch.sent, "nothing reaches the channel on validation failure")
}

func TestPrintStopsOnLayoutFailure(t *testing.T) {
	cfg := testConfig()
	cfg.HeightMM = 20
	ch := &MockChannel{}

	_, err := testRunner().Print(cfg, ch)
	require.ErrorIs(t, err, layout.ErrContentTooLarge)
	assert.Empty(t, ch.sent, "no command stream on layout failure")
}

func TestPrintPropagatesDeviceError(t *testing.T) {
	cfg := testConfig()
	ch := &MockChannel{sendErr: device.ErrWriteFailure}

	_, err := testRunner().Print(cfg, ch)
	assert.ErrorIs(t, err, device.ErrWriteFailure, "surfaced verbatim, never retried")
}

func TestPrintDoesNotRetry(t *testing.T) {
	cfg := testConfig()
	calls := 0
	ch := &countingChannel{onSend: func() error {
		calls++
		return errors.New("printer jam")
	}}

	_, err := testRunner().Print(cfg, ch)
	require.Error(t, err)
	assert.Equal(t, 1, calls, "send is exactly one attempt")
}

type countingChannel struct {
	onSend func() error
}

func (c *countingChannel) Send([]byte) error { return c.onSend() }
func (c *countingChannel) Close() error      { return nil }
