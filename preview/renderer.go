// Package preview rasterizes a label to an image for human verification. It
// draws from the same layout the TSPL encoder consumes, so element positions
// in the preview always match what the printer is told to do. No device I/O
// happens here; persisting the image is the caller's job.
package preview

import (
	"fmt"
	"image"
	"sync"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/ean"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/nixxel-company-limited/tspl-label-printer/label"
	"github.com/nixxel-company-limited/tspl-label-printer/layout"
)

// DefaultDPI is the preview resolution. It is independent of the printer's
// 203 dpi device resolution and chosen higher for on-screen sharpness.
const DefaultDPI = 300

const borderWidthMM = 0.2

var (
	fontOnce   sync.Once
	fontFamily *canvas.FontFamily
	fontErr    error
)

func previewFont() (*canvas.FontFamily, error) {
	fontOnce.Do(func() {
		fontFamily = canvas.NewFontFamily("go")
		fontErr = fontFamily.LoadFont(goregular.TTF, 0, canvas.FontRegular)
	})
	return fontFamily, fontErr
}

// Render rasterizes the label at DefaultDPI.
func Render(cfg label.Config) (image.Image, error) {
	return RenderAtDPI(cfg, DefaultDPI)
}

// RenderAtDPI rasterizes the label at the given resolution. It computes the
// layout once and draws every element at its layout position; a config whose
// content does not fit produces no image.
func RenderAtDPI(cfg label.Config, dpi float64) (image.Image, error) {
	lay, err := layout.Compute(cfg)
	if err != nil {
		return nil, err
	}

	family, err := previewFont()
	if err != nil {
		return nil, fmt.Errorf("preview: load font: %w", err)
	}
	face := family.Face(float64(cfg.FontSizePt), canvas.Black, canvas.FontRegular, canvas.FontNormal)

	c := canvas.New(float64(cfg.WidthMM), float64(cfg.HeightMM))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // top-left origin, like the layout

	// Label background with a thin border marking the die-cut edge.
	ctx.SetFillColor(canvas.White)
	ctx.DrawPath(0, 0, canvas.Rectangle(float64(cfg.WidthMM), float64(cfg.HeightMM)))
	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(canvas.Black)
	ctx.SetStrokeWidth(borderWidthMM)
	ctx.DrawPath(0, 0, canvas.Rectangle(float64(cfg.WidthMM), float64(cfg.HeightMM)))
	ctx.SetStrokeColor(canvas.Transparent)

	for _, e := range lay.Elements {
		x := dotsToMM(e.X)
		y := dotsToMM(e.Y)
		switch e.Kind {
		case layout.KindTopText, layout.KindBottomText:
			text := cfg.TopText
			if e.Kind == layout.KindBottomText {
				text = cfg.BottomText
			}
			line := canvas.NewTextLine(face, text, canvas.Left)
			baseline := y + face.Metrics().Ascent
			ctx.SetFillColor(canvas.Black)
			ctx.DrawText(x, baseline, line)
		case layout.KindBarcode:
			img, err := barcodeImage(cfg, e)
			if err != nil {
				return nil, err
			}
			// The scaled pattern is one pixel per dot; DPMM 8 makes its
			// physical size equal the layout extent.
			ctx.DrawImage(x, y, img, canvas.DPMM(layout.DotsPerMM))
		}
	}

	return rasterizer.Draw(c, canvas.DPMM(dpi/25.4), canvas.DefaultColorSpace), nil
}

// barcodeImage encodes the payload with the element's symbology and scales
// the pattern to the element extent in dots.
func barcodeImage(cfg label.Config, e layout.Element) (image.Image, error) {
	bc, err := encodePattern(cfg.BarcodeType, cfg.BarcodeData)
	if err != nil {
		return nil, fmt.Errorf("preview: encode %s pattern: %w", cfg.BarcodeType, err)
	}

	// The encoder's module count can differ slightly from the layout
	// estimate; never scale below the native pattern width. At multiplier 1
	// the drawn pattern can then overhang the centered layout extent, and on
	// a tight label its right edge. The overhang stays visible in the preview
	// rather than being silently distorted to fit.
	w := e.Width
	if native := bc.Bounds().Dx(); native > w {
		w = native
	}
	scaled, err := barcode.Scale(bc, w, e.Height)
	if err != nil {
		return nil, fmt.Errorf("preview: scale %s pattern: %w", cfg.BarcodeType, err)
	}
	return scaled, nil
}

// encodePattern produces the bar/space pattern from the same symbology rules
// the printer applies. UPC-A is the EAN-13 pattern with a leading zero.
func encodePattern(t label.BarcodeType, data string) (barcode.Barcode, error) {
	switch t {
	case label.EAN13, label.EAN8:
		return ean.Encode(data)
	case label.UPCA:
		return ean.Encode("0" + data)
	case label.Code128:
		return code128.Encode(data)
	case label.Code39:
		return code39.Encode(data, false, false)
	default:
		return nil, fmt.Errorf("unknown symbology %q", t)
	}
}

func dotsToMM(d int) float64 {
	return float64(d) / layout.DotsPerMM
}
