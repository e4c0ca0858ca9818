package engine

import (
	"errors"
	"io"
	"sync"

	"github.com/shaladdle/rcopy/internal/copyerr"
)

// DefaultChunkSize is the unit of transfer and checkpointing. Larger chunks
// mean fewer checkpoint writes; smaller chunks mean less re-copying after a
// crash.
const DefaultChunkSize = 8 << 20 // 8 MiB

// MaxChunkSize bounds the chunk size; buffers are allocated per chunk.
const MaxChunkSize = 1 << 30 // 1 GiB

// readAheadFactor sizes the source read buffer relative to the chunk size.
const readAheadFactor = 2

var chunkPool = sync.Pool{
	New: func() any {
		b := make([]byte, DefaultChunkSize)
		return &b
	},
}

// getChunkBuf returns a buffer of exactly size bytes and a release func.
// Default-sized buffers are pooled.
func getChunkBuf(size int) ([]byte, func()) {
	if size != DefaultChunkSize {
		return make([]byte, size), func() {}
	}
	bufp := chunkPool.Get().(*[]byte) //nolint:forcetypeassert // pool only holds *[]byte
	return *bufp, func() { chunkPool.Put(bufp) }
}

// CopyChunk fills buf from r, stopping early only at end of stream, and
// writes the filled prefix to w. It returns the number of bytes copied.
// Failures other than end of stream are classified as transient.
func CopyChunk(w io.Writer, r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return 0, copyerr.Transient("read", "", err)
	}
	if n == 0 {
		return 0, nil
	}

	written, err := w.Write(buf[:n])
	if err != nil {
		return 0, copyerr.Transient("write", "", err)
	}
	if written != n {
		return 0, copyerr.Transient("write", "", io.ErrShortWrite)
	}
	return n, nil
}
