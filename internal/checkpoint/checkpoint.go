// Package checkpoint persists the resume offset of an in-flight copy in a
// sidecar file next to the destination.
//
// The sidecar holds exactly 8 bytes: the big-endian int64 offset of the next
// byte to copy. Anything else found at that path is treated as a foreign
// file and left alone.
package checkpoint

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shaladdle/rcopy/internal/copyerr"
)

// Suffix is appended to the destination path to name its checkpoint.
const Suffix = ".progress"

// Size is the on-disk size of a valid checkpoint.
const Size = 8

// Path returns the checkpoint path for a destination file.
func Path(dst string) string {
	return dst + Suffix
}

// Read loads the checkpoint at path and validates it against the source
// size. found is false (with a nil error) when no checkpoint exists.
func Read(path string, srcSize int64) (offset int64, found bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, false, nil
		}
		return 0, false, copyerr.Transient("open checkpoint", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, false, copyerr.Transient("stat checkpoint", path, err)
	}
	if !info.Mode().IsRegular() || info.Size() != Size {
		return 0, false, copyerr.InvalidCheckpoint(path,
			fmt.Errorf("%w (got %d bytes)", copyerr.ErrWrongSize, info.Size()))
	}

	var buf [Size]byte
	if _, err := io.ReadFull(f, buf[:]); err != nil {
		return 0, false, copyerr.Transient("read checkpoint", path, err)
	}

	offset = int64(binary.BigEndian.Uint64(buf[:])) //nolint:gosec // G115: sign is part of the format
	if offset < 0 || offset > srcSize {
		return 0, false, copyerr.InvalidCheckpoint(path,
			fmt.Errorf("%w (offset %d, source size %d)", copyerr.ErrOutOfRange, offset, srcSize))
	}
	return offset, true, nil
}

// Write replaces the checkpoint at path with offset. The encoding goes out
// in a single write call. When sync is set the file is flushed to stable
// storage before Write returns.
func Write(path string, offset int64, sync bool) error {
	var buf [Size]byte
	binary.BigEndian.PutUint64(buf[:], uint64(offset)) //nolint:gosec // G115: sign is part of the format

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return copyerr.Transient("create checkpoint", path, err)
	}
	if _, err := f.Write(buf[:]); err != nil {
		f.Close()
		return copyerr.Transient("write checkpoint", path, err)
	}
	if sync {
		if err := f.Sync(); err != nil {
			f.Close()
			return copyerr.Transient("sync checkpoint", path, err)
		}
	}
	if err := f.Close(); err != nil {
		return copyerr.Transient("close checkpoint", path, err)
	}
	return nil
}

// Remove deletes the checkpoint at path. A missing checkpoint is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove checkpoint %s: %w", path, err)
	}
	return nil
}

// Store is the sidecar-file checkpoint backend used by copy sessions.
type Store struct {
	// Sync flushes every checkpoint write to stable storage.
	Sync bool
}

// Read implements engine.CheckpointStore.
func (s Store) Read(path string, srcSize int64) (int64, bool, error) {
	return Read(path, srcSize)
}

// Write implements engine.CheckpointStore.
func (s Store) Write(path string, offset int64) error {
	return Write(path, offset, s.Sync)
}

// Remove implements engine.CheckpointStore.
func (s Store) Remove(path string) error {
	return Remove(path)
}
