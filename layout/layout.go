// Package layout converts physical label measurements into device-space
// placement. It is the single source of truth for element positions: both the
// TSPL encoder and the preview renderer consume the same Layout value.
package layout

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/nixxel-company-limited/tspl-label-printer/label"
)

// DotsPerMM is the fixed device resolution (203 dpi).
const DotsPerMM = 8

// ptToMM converts font points to millimeters (1 pt = 1/72 inch).
const ptToMM = 0.352777

// Text extents are estimated with a monospace approximation: every glyph is
// assumed to be avgCharWidthRatio times the font height wide. The estimate is
// deliberately fixed so that encoder and preview always agree on placement.
const avgCharWidthRatio = 0.6

// Fixed margins, in dots: the offset from the label's top edge to the first
// element, and the gap between stacked elements.
const (
	topMarginDots  = 10
	elementGapDots = 16
)

// ErrContentTooLarge is returned when the stacked elements do not fit the
// label. No partial layout is ever produced.
var ErrContentTooLarge = errors.New("layout: content too large for label")

// Kind names a placed element.
type Kind int

const (
	KindTopText Kind = iota
	KindBarcode
	KindBottomText
)

func (k Kind) String() string {
	switch k {
	case KindTopText:
		return "top text"
	case KindBarcode:
		return "barcode"
	case KindBottomText:
		return "bottom text"
	default:
		return "unknown"
	}
}

// Element is one placed visual element in device space (dots, origin top-left).
type Element struct {
	Kind   Kind
	X      int
	Y      int
	Width  int
	Height int
}

// Layout holds the placed elements for one label, top to bottom, plus the
// label extent in dots.
type Layout struct {
	WidthDots  int
	HeightDots int
	Elements   []Element
}

// Element returns the placed element of the given kind, if present.
func (l Layout) Element(k Kind) (Element, bool) {
	for _, e := range l.Elements {
		if e.Kind == k {
			return e, true
		}
	}
	return Element{}, false
}

// TextHeightDots returns the estimated glyph height, in dots, of text set at
// the given point size.
func TextHeightDots(fontSizePt int) int {
	return int(math.Round(float64(fontSizePt) * ptToMM * DotsPerMM))
}

// TextWidthDots returns the estimated width, in dots, of text set at the
// given point size, using the fixed average character-width ratio.
func TextWidthDots(text string, fontSizePt int) int {
	perChar := int(math.Round(float64(TextHeightDots(fontSizePt)) * avgCharWidthRatio))
	return perChar * utf8.RuneCountInString(text)
}

// Compute places the label elements. It is a pure function of cfg: calling it
// twice with the same config yields identical results. Elements stack
// vertically in fixed order (top text, barcode, bottom text), each centered
// horizontally. It fails with ErrContentTooLarge before producing any layout
// when an element is wider than the label or the stack is taller than it.
// A config that skipped validation can also fail earlier: an unknown
// symbology surfaces as the label package's validation error, unchanged.
func Compute(cfg label.Config) (Layout, error) {
	lay := Layout{
		WidthDots:  cfg.WidthMM * DotsPerMM,
		HeightDots: cfg.HeightMM * DotsPerMM,
	}

	modules, err := label.ModuleCount(cfg.BarcodeType, cfg.BarcodeData)
	if err != nil {
		return Layout{}, err
	}
	barWidth := modules * cfg.BarMultiplier
	barHeight := cfg.BarHeightMM * DotsPerMM

	y := topMarginDots
	var elems []Element

	place := func(kind Kind, w, h int) error {
		if w > lay.WidthDots {
			return fmt.Errorf("%w: %s is %d dots wide, label is %d", ErrContentTooLarge, kind, w, lay.WidthDots)
		}
		if len(elems) > 0 {
			y += elementGapDots
		}
		elems = append(elems, Element{
			Kind:   kind,
			X:      (lay.WidthDots - w) / 2,
			Y:      y,
			Width:  w,
			Height: h,
		})
		y += h
		return nil
	}

	if cfg.TopText != "" {
		if err := place(KindTopText, TextWidthDots(cfg.TopText, cfg.FontSizePt), TextHeightDots(cfg.FontSizePt)); err != nil {
			return Layout{}, err
		}
	}
	if err := place(KindBarcode, barWidth, barHeight); err != nil {
		return Layout{}, err
	}
	if cfg.BottomText != "" {
		if err := place(KindBottomText, TextWidthDots(cfg.BottomText, cfg.FontSizePt), TextHeightDots(cfg.FontSizePt)); err != nil {
			return Layout{}, err
		}
	}

	if y > lay.HeightDots {
		return Layout{}, fmt.Errorf("%w: elements need %d dots, label is %d", ErrContentTooLarge, y, lay.HeightDots)
	}

	lay.Elements = elems
	return lay, nil
}
