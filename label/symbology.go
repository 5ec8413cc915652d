package label

import (
	"fmt"
	"strings"
)

// Per-symbology payload rules. Fixed-length symbologies take the payload
// without its check digit; the check digit is always computed, never supplied.

const code39Charset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ-. $/+%"

func checkPayload(t BarcodeType, data string) error {
	switch t {
	case EAN13:
		return checkDigits(t, data, 12)
	case EAN8:
		return checkDigits(t, data, 7)
	case UPCA:
		return checkDigits(t, data, 11)
	case Code39:
		if data == "" {
			return &ValidationError{"barcode data", "empty payload"}
		}
		for _, r := range data {
			if !strings.ContainsRune(code39Charset, r) {
				return &ValidationError{"barcode data", fmt.Sprintf("%q not in Code 39 charset", r)}
			}
		}
		return nil
	case Code128:
		if data == "" {
			return &ValidationError{"barcode data", "empty payload"}
		}
		for _, r := range data {
			if r < 0x20 || r > 0x7e {
				return &ValidationError{"barcode data", fmt.Sprintf("%q not printable ASCII", r)}
			}
		}
		return nil
	default:
		return &ValidationError{"barcode type", fmt.Sprintf("unknown symbology %q", t)}
	}
}

func checkDigits(t BarcodeType, data string, n int) error {
	if len(data) != n {
		return &ValidationError{"barcode data", fmt.Sprintf("%s requires exactly %d digits, got %d", t, n, len(data))}
	}
	for _, r := range data {
		if r < '0' || r > '9' {
			return &ValidationError{"barcode data", fmt.Sprintf("%s accepts digits only, got %q", t, r)}
		}
	}
	return nil
}

// CheckDigit computes the EAN/UPC modulo-10 check digit for a digit string.
// The rightmost digit carries weight 3, alternating leftwards with weight 1,
// which covers EAN-13 (12 digits), EAN-8 (7) and UPC-A (11) alike.
func CheckDigit(digits string) int {
	sum := 0
	weight := 3
	for i := len(digits) - 1; i >= 0; i-- {
		sum += int(digits[i]-'0') * weight
		weight = 4 - weight
	}
	return (10 - sum%10) % 10
}

// ModuleCount returns the number of modules (narrow-bar widths) the symbology
// needs to encode data, check digit and start/stop patterns included.
func ModuleCount(t BarcodeType, data string) (int, error) {
	switch t {
	case EAN13, UPCA:
		// 3 + 42 + 5 + 42 + 3 guard and digit modules.
		return 95, nil
	case EAN8:
		return 67, nil
	case Code128:
		// Start, data and check symbols are 11 modules, the stop symbol 13.
		// One symbol per payload character (code set B).
		return 11*(len(data)+2) + 13, nil
	case Code39:
		// 13 modules per character at wide ratio 2 (inter-character gap
		// included), start and stop '*' added, no gap after the last one.
		return 13*(len(data)+2) - 1, nil
	default:
		return 0, &ValidationError{"barcode type", fmt.Sprintf("unknown symbology %q", t)}
	}
}
