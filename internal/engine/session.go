package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/shaladdle/rcopy/internal/checkpoint"
	"github.com/shaladdle/rcopy/internal/copyerr"
)

// progressBuffer bounds the number of undelivered progress events.
const progressBuffer = 16

// Task names one file to copy.
type Task struct {
	SrcPath string
	DstPath string
}

// ProgressInfo reports bytes durably copied so far out of the source size.
type ProgressInfo struct {
	Current int64
	Total   int64
}

// CheckpointStore persists resume offsets. checkpoint.Store is the on-disk
// implementation.
type CheckpointStore interface {
	Read(path string, srcSize int64) (offset int64, found bool, err error)
	Write(path string, offset int64) error
	Remove(path string) error
}

// Options controls a copy session.
type Options struct {
	// Store persists checkpoints. Defaults to checkpoint.Store{}.
	Store CheckpointStore
	// Limiter, if set, throttles source reads.
	Limiter *rate.Limiter
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Retrier drives re-attempts after transient failures.
	Retrier Retrier
	// ChunkSize defaults to DefaultChunkSize.
	ChunkSize int
	// SyncData flushes destination data to stable storage before each
	// checkpoint write.
	SyncData bool
}

func (o Options) withDefaults() Options {
	if o.Store == nil {
		o.Store = checkpoint.Store{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	return o
}

// Session copies one file, resuming from its checkpoint. A Session is not
// safe for concurrent use; the files it touches must not be shared with
// other sessions.
type Session struct {
	logger   *slog.Logger
	task     Task
	ckptPath string
	opts     Options
}

// NewSession prepares a session for task.
func NewSession(task Task, opts Options) *Session {
	opts = opts.withDefaults()
	return &Session{
		task:     task,
		opts:     opts,
		ckptPath: checkpoint.Path(task.DstPath),
		logger: opts.Logger.With(
			"session", uuid.New().String()[:8],
			"src", task.SrcPath,
			"dst", task.DstPath,
		),
	}
}

// CheckpointPath returns where this session keeps its checkpoint.
func (s *Session) CheckpointPath() string { return s.ckptPath }

// Attempt performs one pass over the file from its checkpoint to the end,
// reporting progress on progress (which may be nil). The checkpoint is only
// ever advanced after the bytes it covers have been written.
//
//nolint:gocyclo // linear sequence of open/validate/copy/finish steps
func (s *Session) Attempt(ctx context.Context, progress chan<- ProgressInfo) error {
	src, err := os.Open(s.task.SrcPath)
	if err != nil {
		return copyerr.Transient("open", s.task.SrcPath, err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return copyerr.Transient("stat", s.task.SrcPath, err)
	}
	total := info.Size()

	// Resolve the checkpoint before touching the destination, so a foreign
	// file at the checkpoint path leaves the destination untouched.
	start, found, err := s.opts.Store.Read(s.ckptPath, total)
	if err != nil {
		return err
	}

	dst, err := os.OpenFile(s.task.DstPath, os.O_WRONLY|os.O_CREATE, info.Mode().Perm())
	if err != nil {
		return copyerr.Transient("open", s.task.DstPath, err)
	}
	defer func() {
		if dst != nil {
			dst.Close()
		}
	}()

	if start > 0 {
		dstInfo, err := dst.Stat()
		if err != nil {
			return copyerr.Transient("stat", s.task.DstPath, err)
		}
		if dstInfo.Size() < start {
			s.logger.Warn("destination shorter than checkpoint, restarting from zero",
				"checkpoint", start, "dst_size", dstInfo.Size())
			start = 0
		}
	}

	if _, err := src.Seek(start, io.SeekStart); err != nil {
		return copyerr.Transient("seek", s.task.SrcPath, err)
	}
	if _, err := dst.Seek(start, io.SeekStart); err != nil {
		return copyerr.Transient("seek", s.task.DstPath, err)
	}

	if found {
		s.logger.Debug("resuming", "offset", start, "total", total)
	}

	var r io.Reader = src
	if s.opts.Limiter != nil {
		r = newRateLimitedReader(ctx, r, s.opts.Limiter)
	}
	reader := bufio.NewReaderSize(r, readAheadFactor*s.opts.ChunkSize)

	if err := sendProgress(ctx, progress, ProgressInfo{Current: start, Total: total}); err != nil {
		return err
	}

	buf, release := getChunkBuf(s.opts.ChunkSize)
	defer release()

	pos := start
	for pos < total {
		if err := ctx.Err(); err != nil {
			return err
		}

		want := min(int64(len(buf)), total-pos)
		n, err := CopyChunk(dst, reader, buf[:want])
		if err != nil {
			return fmt.Errorf("copy %s at offset %d: %w", s.task.SrcPath, pos, err)
		}
		if n == 0 {
			return copyerr.Transient("read", s.task.SrcPath,
				fmt.Errorf("source ended at %d of %d bytes: %w", pos, total, io.ErrUnexpectedEOF))
		}

		if s.opts.SyncData {
			if err := syncData(dst); err != nil {
				return copyerr.Transient("sync", s.task.DstPath, err)
			}
		}

		pos += int64(n)
		if err := s.opts.Store.Write(s.ckptPath, pos); err != nil {
			return err
		}
		if err := sendProgress(ctx, progress, ProgressInfo{Current: pos, Total: total}); err != nil {
			return err
		}
	}

	// Drop any tail left by an older, longer file at the destination.
	if err := dst.Truncate(total); err != nil {
		return copyerr.Transient("truncate", s.task.DstPath, err)
	}
	err = dst.Close()
	dst = nil
	if err != nil {
		return copyerr.Transient("close", s.task.DstPath, err)
	}

	if err := s.opts.Store.Remove(s.ckptPath); err != nil {
		s.logger.Warn("checkpoint not removed after copy", "checkpoint", s.ckptPath, "error", err)
	}
	return nil
}

func sendProgress(ctx context.Context, ch chan<- ProgressInfo, p ProgressInfo) error {
	if ch == nil {
		return nil
	}
	select {
	case ch <- p:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Transfer is a copy session running in the background.
type Transfer struct {
	err      error
	progress chan ProgressInfo
	done     chan struct{}
}

// Copy starts copying task in a new goroutine, retrying transient failures
// per opts.Retrier. Progress events arrive in order on Progress(), which is
// closed when the session ends; Wait returns the final error.
func Copy(ctx context.Context, task Task, opts Options) *Transfer {
	s := NewSession(task, opts)

	retrier := s.opts.Retrier
	onRetry := retrier.OnRetry
	retrier.OnRetry = func(attempt int, delay time.Duration, err error) {
		s.logger.Debug("attempt failed, retrying",
			"attempt", attempt, "delay", delay, "error", err)
		if onRetry != nil {
			onRetry(attempt, delay, err)
		}
	}

	t := &Transfer{
		progress: make(chan ProgressInfo, progressBuffer),
		done:     make(chan struct{}),
	}
	go func() {
		defer close(t.done)
		defer close(t.progress)
		t.err = retrier.Do(ctx, func(ctx context.Context, _ int) error {
			return s.Attempt(ctx, t.progress)
		})
	}()
	return t
}

// Progress returns the ordered stream of progress events.
func (t *Transfer) Progress() <-chan ProgressInfo { return t.progress }

// Wait blocks until the session ends and returns its error.
func (t *Transfer) Wait() error {
	<-t.done
	return t.err
}
