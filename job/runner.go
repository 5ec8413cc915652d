// Package job runs one print job as the synchronous pipeline
// validate → layout → encode → send. Nothing here spawns background work;
// every step runs in the caller's goroutine and every failure is returned at
// the step that detected it.
package job

import (
	"fmt"
	"log"
	"os"

	"github.com/nixxel-company-limited/tspl-label-printer/device"
	"github.com/nixxel-company-limited/tspl-label-printer/label"
	"github.com/nixxel-company-limited/tspl-label-printer/layout"
	"github.com/nixxel-company-limited/tspl-label-printer/tspl"
)

// Runner executes print jobs over a caller-supplied channel.
type Runner struct {
	logger *log.Logger
}

// New creates a runner logging to stdout.
func New() *Runner {
	return NewWithLogger(log.New(os.Stdout, "[JOB] ", log.LstdFlags|log.Lmsgprefix))
}

// NewWithLogger creates a runner with a custom logger.
func NewWithLogger(logger *log.Logger) *Runner {
	return &Runner{logger: logger}
}

// Print validates cfg, computes the layout, encodes the command stream and
// sends it through ch in one attempt. It returns the encoded stream so
// dry-run callers can display what would have been printed. The channel's
// lifetime stays with the caller; Print never closes it.
func (r *Runner) Print(cfg label.Config, ch device.Channel) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lay, err := layout.Compute(cfg)
	if err != nil {
		return nil, err
	}
	r.logger.Printf("layout: %d elements on %dx%d dots", len(lay.Elements), lay.WidthDots, lay.HeightDots)

	stream, err := tspl.Encode(cfg, lay)
	if err != nil {
		return nil, err
	}
	r.logger.Printf("encoded %d bytes, %d copies", len(stream), cfg.Copies)

	if err := ch.Send(stream); err != nil {
		return nil, fmt.Errorf("send to %s: %w", cfg.Device, err)
	}
	r.logger.Printf("sent to %s", cfg.Device)
	return stream, nil
}
