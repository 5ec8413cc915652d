// Package tspl serializes a label configuration and its computed layout into
// a TSPL command stream. Output is deterministic: the same config and layout
// always produce byte-identical commands.
package tspl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nixxel-company-limited/tspl-label-printer/label"
	"github.com/nixxel-company-limited/tspl-label-printer/layout"
)

// GapMM is the blank strip between die-cut labels, used by the printer for
// calibration between jobs.
const GapMM = 2

// codepage is the CODEPAGE argument sent before any text command.
const codepage = "UTF-8"

// font is the printer's built-in vector font; its x/y multipliers are the
// glyph size in points.
const font = "0"

var (
	// ErrInvalidCharacter is returned when text or payload contains a byte
	// the quoted TSPL field cannot carry.
	ErrInvalidCharacter = errors.New("tspl: invalid character")
	// ErrUnsupportedSymbology is returned for a barcode type with no TSPL
	// type code. Unreachable with a validated config.
	ErrUnsupportedSymbology = errors.New("tspl: unsupported symbology")
)

// typeCodes maps each symbology to its TSPL BARCODE type code.
var typeCodes = map[label.BarcodeType]string{
	label.Code128: "128",
	label.Code39:  "39",
	label.EAN13:   "EAN13",
	label.EAN8:    "EAN8",
	label.UPCA:    "UPCA",
}

// Encode produces the command stream for one label job. Commands are emitted
// in fixed order, one per line: SIZE, GAP, CODEPAGE, DIRECTION, CLS, the
// placed elements top to bottom, and PRINT. No partial stream is returned on
// error.
func Encode(cfg label.Config, lay layout.Layout) ([]byte, error) {
	code, ok := typeCodes[cfg.BarcodeType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSymbology, cfg.BarcodeType)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("SIZE %d,%d\n", cfg.WidthMM, cfg.HeightMM))
	b.WriteString(fmt.Sprintf("GAP %d,0\n", GapMM))
	b.WriteString(fmt.Sprintf("CODEPAGE %s\n", codepage))
	b.WriteString(fmt.Sprintf("DIRECTION %d\n", direction(cfg.Orientation)))
	b.WriteString("CLS\n")

	for _, e := range lay.Elements {
		switch e.Kind {
		case layout.KindTopText, layout.KindBottomText:
			text := cfg.TopText
			if e.Kind == layout.KindBottomText {
				text = cfg.BottomText
			}
			quoted, err := quote(text)
			if err != nil {
				return nil, err
			}
			b.WriteString(fmt.Sprintf("TEXT %d,%d,\"%s\",0,%d,%d,1,%s\n",
				e.X, e.Y, font, cfg.FontSizePt, cfg.FontSizePt, quoted))
		case layout.KindBarcode:
			content, err := barcodeContent(cfg)
			if err != nil {
				return nil, err
			}
			quoted, err := quote(content)
			if err != nil {
				return nil, err
			}
			b.WriteString(fmt.Sprintf("BARCODE %d,%d,\"%s\",%d,1,0,%d,%d,%s\n",
				e.X, e.Y, code, e.Height, cfg.BarMultiplier, 2*cfg.BarMultiplier, quoted))
		}
	}

	b.WriteString(fmt.Sprintf("PRINT %d,1\n", cfg.Copies))
	return []byte(b.String()), nil
}

// barcodeContent returns the data the printer renders. Fixed-length
// symbologies carry their computed check digit.
func barcodeContent(cfg label.Config) (string, error) {
	switch cfg.BarcodeType {
	case label.EAN13, label.EAN8, label.UPCA:
		return fmt.Sprintf("%s%d", cfg.BarcodeData, label.CheckDigit(cfg.BarcodeData)), nil
	case label.Code128, label.Code39:
		return cfg.BarcodeData, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedSymbology, cfg.BarcodeType)
	}
}

// quote wraps s in double quotes for embedding in a command. Quoting is the
// protocol's escape for the comma field delimiter; a literal double quote is
// emitted as the TSPL2 escape sequence \["]. Control characters and
// non-ASCII bytes have no representation in the stream and are rejected.
func quote(s string) (string, error) {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch {
		case r == '"':
			b.WriteString(`\["]`)
		case r < 0x20 || r > 0x7e:
			return "", fmt.Errorf("%w: %q", ErrInvalidCharacter, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String(), nil
}

func direction(o label.Orientation) int {
	if o == label.OrientationRotated {
		return 0
	}
	return 1
}
