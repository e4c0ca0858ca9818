//go:build !linux

package engine

import "os"

// syncData falls back to a full fsync where fdatasync is unavailable.
func syncData(f *os.File) error {
	return f.Sync()
}
