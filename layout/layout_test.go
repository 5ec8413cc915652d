package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nixxel-company-limited/tspl-label-printer/label"
)

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
	}
}

func TestComputeIsDeterministic(t *testing.T) {
	cfg := testConfig()

	first, err := Compute(cfg)
	require.NoError(t, err)
	second, err := Compute(cfg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeStacksElementsInOrder(t *testing.T) {
	lay, err := Compute(testConfig())
	require.NoError(t, err)
	require.Len(t, lay.Elements, 3)

	top, ok := lay.Element(KindTopText)
	require.True(t, ok)
	bar, ok := lay.Element(KindBarcode)
	require.True(t, ok)
	bottom, ok := lay.Element(KindBottomText)
	require.True(t, ok)

	assert.Less(t, top.Y, bar.Y, "top text above barcode")
	assert.Less(t, bar.Y, bottom.Y, "barcode above bottom text")
	assert.GreaterOrEqual(t, bar.Y, top.Y+top.Height, "no overlap")
	assert.GreaterOrEqual(t, bottom.Y, bar.Y+bar.Height, "no overlap")
}

func TestComputeCentersElements(t *testing.T) {
	lay, err := Compute(testConfig())
	require.NoError(t, err)

	for _, e := range lay.Elements {
		assert.Equal(t, (lay.WidthDots-e.Width)/2, e.X, "%s centered", e.Kind)
	}
}

func TestComputeBarcodeExtent(t *testing.T) {
	cfg := testConfig()
	lay, err := Compute(cfg)
	require.NoError(t, err)

	bar, ok := lay.Element(KindBarcode)
	require.True(t, ok)
	// EAN-13 is 95 modules; multiplier 2 makes 190 dots.
	assert.Equal(t, 190, bar.Width)
	assert.Equal(t, cfg.BarHeightMM*DotsPerMM, bar.Height)
}

func TestComputeOmitsEmptyText(t *testing.T) {
	cfg := testConfig()
	cfg.TopText = ""
	cfg.BottomText = ""

	lay, err := Compute(cfg)
	require.NoError(t, err)
	require.Len(t, lay.Elements, 1)
	assert.Equal(t, KindBarcode, lay.Elements[0].Kind)
}

func TestComputeFailsWhenStackTooTall(t *testing.T) {
	cfg := testConfig()
	// 20 mm label cannot hold a 15 mm barcode plus two 24 pt text rows.
	cfg.HeightMM = 20

	lay, err := Compute(cfg)
	require.ErrorIs(t, err, ErrContentTooLarge)
	assert.Empty(t, lay.Elements)
}

func TestComputeFailsWhenBarcodeTooWide(t *testing.T) {
	cfg := testConfig()
	cfg.BarcodeType = label.Code128
	cfg.BarcodeData = "AVERYLONGASSETIDENTIFIER-2024-000001"
	cfg.BarMultiplier = 5

	_, err := Compute(cfg)
	require.ErrorIs(t, err, ErrContentTooLarge)
}

func TestComputePassesThroughSymbologyError(t *testing.T) {
	cfg := testConfig()
	cfg.BarcodeType = "qr"

	lay, err := Compute(cfg)
	var verr *label.ValidationError
	require.ErrorAs(t, err, &verr, "unknown symbology surfaces as the label validation error")
	assert.Equal(t, "barcode type", verr.Field)
	assert.Empty(t, lay.Elements)
}

func TestTextExtentEstimate(t *testing.T) {
	// 24 pt = 8.47 mm = 67.7 dots, rounded to 68; per-glyph width is 0.6 of
	// that, rounded to 41.
	assert.Equal(t, 68, TextHeightDots(24))
	assert.Equal(t, 41*4, TextWidthDots("ABCD", 24))
	assert.Equal(t, 0, TextWidthDots("", 24))
}
