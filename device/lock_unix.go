//go:build linux || darwin

package device

import (
	"os"
	"syscall"
)

// lockFile takes a non-blocking exclusive advisory lock on f, so only one
// channel can hold a device path at a time.
func lockFile(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
}

func unlockFile(f *os.File) {
	_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}
