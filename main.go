package main

import (
	"fmt"
	"image/png"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/nixxel-company-limited/tspl-label-printer/device"
	"github.com/nixxel-company-limited/tspl-label-printer/job"
	"github.com/nixxel-company-limited/tspl-label-printer/label"
	"github.com/nixxel-company-limited/tspl-label-printer/preview"
)

func main() {
	// Initialize Viper to read from environment variables
	viper.AutomaticEnv()
	viper.SetDefault("PRINTER_DEVICE", "/dev/usb/lp0")
	viper.SetDefault("DRY_RUN", true)
	viper.SetDefault("BARCODE_TYPE", string(label.Code128))
	viper.SetDefault("BARCODE_DATA", "123456789012")
	viper.SetDefault("LABEL_WIDTH_MM", 100)
	viper.SetDefault("LABEL_HEIGHT_MM", 50)
	viper.SetDefault("BAR_HEIGHT_MM", 15)
	viper.SetDefault("BAR_MULTIPLIER", 2)
	viper.SetDefault("FONT_SIZE_PT", 24)
	viper.SetDefault("COPIES", 1)
	viper.SetDefault("ORIENTATION", "normal")
	viper.SetDefault("PREVIEW_PATH", "")

	cfg, err := label.New(label.Config{
		BarcodeData:   viper.GetString("BARCODE_DATA"),
		BarcodeType:   label.BarcodeType(viper.GetString("BARCODE_TYPE")),
		TopText:       viper.GetString("TOP_TEXT"),
		BottomText:    viper.GetString("BOTTOM_TEXT"),
		WidthMM:       viper.GetInt("LABEL_WIDTH_MM"),
		HeightMM:      viper.GetInt("LABEL_HEIGHT_MM"),
		BarHeightMM:   viper.GetInt("BAR_HEIGHT_MM"),
		BarMultiplier: viper.GetInt("BAR_MULTIPLIER"),
		FontSizePt:    viper.GetInt("FONT_SIZE_PT"),
		Copies:        viper.GetInt("COPIES"),
		Orientation:   parseOrientation(viper.GetString("ORIENTATION")),
		Device:        viper.GetString("PRINTER_DEVICE"),
		DryRun:        viper.GetBool("DRY_RUN"),
	})
	if err != nil {
		log.Fatal(err)
	}

	ch, err := device.Open(cfg.Device, cfg.DryRun)
	if err != nil {
		log.Fatal(err)
	}
	defer ch.Close()

	stream, err := job.New().Print(cfg, ch)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DryRun {
		fmt.Print(string(stream))
	}

	if path := viper.GetString("PREVIEW_PATH"); path != "" {
		if err := writePreview(cfg, path); err != nil {
			log.Fatal(err)
		}
		log.Printf("Preview written to %s", path)
	}
}

// parseOrientation maps the ORIENTATION setting onto the label type. Unknown
// values are passed through as an out-of-range Orientation so validation
// reports them.
func parseOrientation(s string) label.Orientation {
	switch s {
	case "rotated":
		return label.OrientationRotated
	case "normal":
		return label.OrientationNormal
	default:
		return label.Orientation(-1)
	}
}

// writePreview renders the label and persists it as PNG. Image persistence
// belongs to the caller, so it lives here rather than in the preview package.
func writePreview(cfg label.Config, path string) error {
	img, err := preview.Render(cfg)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
