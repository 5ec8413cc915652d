package label

import "fmt"

// BarcodeType identifies one of the supported symbologies.
type BarcodeType string

const (
	Code128 BarcodeType = "code128"
	Code39  BarcodeType = "code39"
	EAN13   BarcodeType = "ean13"
	EAN8    BarcodeType = "ean8"
	UPCA    BarcodeType = "upca"
)

// Orientation selects the print direction of the label.
type Orientation int

const (
	// OrientationNormal prints human-friendly, readable as the label comes out.
	OrientationNormal Orientation = iota
	// OrientationRotated prints paper-friendly, rotated 180 degrees.
	OrientationRotated
)

// Printer-supported bounds, in millimeters. The device resolution is fixed
// at 8 dots/mm (203 dpi).
const (
	MinWidthMM  = 10
	MaxWidthMM  = 120
	MinHeightMM = 5
	MaxHeightMM = 300

	MinBarHeightMM = 2
	MaxBarHeightMM = 200

	MinFontSizePt = 8
	MaxFontSizePt = 96

	MaxCopies = 100
)

// Config describes one label job. It is a plain value: construct it with New,
// hand it to the pipeline, and discard it. The pipeline never mutates it.
type Config struct {
	// Barcode payload and symbology.
	BarcodeData string
	BarcodeType BarcodeType

	// Optional text rows above and below the barcode.
	TopText    string
	BottomText string

	// Physical label dimensions in millimeters.
	WidthMM  int
	HeightMM int

	// Barcode geometry: bar height in millimeters and the narrow-bar width
	// multiplier (1-5 dots per module).
	BarHeightMM   int
	BarMultiplier int

	// Text font size in points (built-in vector font).
	FontSizePt int

	// Print settings.
	Copies      int
	Orientation Orientation

	// Target device identifier (path, port name or usb:VID:PID). Never opened
	// in dry-run mode.
	Device string
	DryRun bool
}

// ValidationError reports a Config field that violates an invariant.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("label: invalid %s: %s", e.Field, e.Reason)
}

// New validates cfg and returns it unchanged on success. A Config that has
// passed New satisfies every invariant the layout engine and encoder rely on.
func New(cfg Config) (Config, error) {
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every Config invariant and returns the first violation.
func (c Config) Validate() error {
	if c.WidthMM < MinWidthMM || c.WidthMM > MaxWidthMM {
		return &ValidationError{"width", fmt.Sprintf("%d mm outside %d-%d mm", c.WidthMM, MinWidthMM, MaxWidthMM)}
	}
	if c.HeightMM < MinHeightMM || c.HeightMM > MaxHeightMM {
		return &ValidationError{"height", fmt.Sprintf("%d mm outside %d-%d mm", c.HeightMM, MinHeightMM, MaxHeightMM)}
	}
	if c.BarHeightMM < MinBarHeightMM || c.BarHeightMM > MaxBarHeightMM {
		return &ValidationError{"bar height", fmt.Sprintf("%d mm outside %d-%d mm", c.BarHeightMM, MinBarHeightMM, MaxBarHeightMM)}
	}
	if c.BarMultiplier < 1 || c.BarMultiplier > 5 {
		return &ValidationError{"bar multiplier", fmt.Sprintf("%d outside 1-5", c.BarMultiplier)}
	}
	if c.FontSizePt < MinFontSizePt || c.FontSizePt > MaxFontSizePt {
		return &ValidationError{"font size", fmt.Sprintf("%d pt outside %d-%d pt", c.FontSizePt, MinFontSizePt, MaxFontSizePt)}
	}
	if c.Copies < 1 || c.Copies > MaxCopies {
		return &ValidationError{"copies", fmt.Sprintf("%d outside 1-%d", c.Copies, MaxCopies)}
	}
	if c.Orientation != OrientationNormal && c.Orientation != OrientationRotated {
		return &ValidationError{"orientation", fmt.Sprintf("unknown value %d", c.Orientation)}
	}
	if err := checkPayload(c.BarcodeType, c.BarcodeData); err != nil {
		return err
	}
	return nil
}
