//go:build !linux && !darwin

package device

import "os"

// Advisory file locks are unavailable here; exclusivity relies on the OS
// driver rejecting concurrent opens (Windows printer ports do).
func lockFile(f *os.File) error { return nil }

func unlockFile(f *os.File) {}
