//go:build linux

package engine

import (
	"os"

	"golang.org/x/sys/unix"
)

// syncData flushes f's data (not its metadata) to stable storage.
//
//nolint:gosec // G115: fd values are small non-negative integers
func syncData(f *os.File) error {
	return unix.Fdatasync(int(f.Fd()))
}
