package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/shaladdle/rcopy/internal/checkpoint"
	"github.com/shaladdle/rcopy/internal/event"
	"github.com/shaladdle/rcopy/internal/stats"
)

// ErrDirConflict is returned when a destination directory would have to be
// created where a non-directory already exists.
var ErrDirConflict = errors.New("destination path exists and is not a directory")

// Config describes a copy run.
type Config struct {
	// Events, if set, receives run events in order. Sends block until the
	// consumer reads or ctx is done.
	Events chan<- event.Event
	// Stats defaults to a fresh collector.
	Stats *stats.Collector
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// Limiter, if set, caps read bandwidth across the whole run.
	Limiter *rate.Limiter
	// Clock drives retry backoff. Defaults to the real clock.
	Clock clockwork.Clock

	Src string
	Dst string

	// MaxWait caps the delay between retries. Defaults to DefaultMaxWait.
	MaxWait   time.Duration
	ChunkSize int
	// SyncData flushes file data before each checkpoint write.
	SyncData bool
	// Verify compares BLAKE3 checksums after each copied file.
	Verify bool
	// DryRun reports what would be copied without writing anything.
	DryRun bool
}

// Result is the outcome of a copy run.
type Result struct {
	Stats stats.Snapshot
	Err   error
}

// Run mirrors cfg.Src into cfg.Dst one file at a time, blocking until the
// run completes or the first file fails.
func Run(ctx context.Context, cfg Config) Result {
	if cfg.Stats == nil {
		cfg.Stats = stats.NewCollector()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	r := &runner{cfg: cfg, logger: cfg.Logger}
	err := r.run(ctx)
	return Result{Stats: cfg.Stats.Snapshot(), Err: err}
}

type runner struct {
	logger *slog.Logger
	cfg    Config
}

func (r *runner) run(ctx context.Context) error {
	scanner := NewScanner(ScannerConfig{
		SrcRoot: r.cfg.Src,
		DstRoot: r.cfg.Dst,
		Logger:  r.logger,
	})
	tasks, err := scanner.Scan(ctx)
	if err != nil {
		return err
	}

	var totalSize int64
	for _, t := range tasks {
		totalSize += t.Size
	}
	r.cfg.Stats.SetTotals(int64(len(tasks)), totalSize)
	r.logger.Debug("scan complete", "files", len(tasks), "bytes", totalSize)
	if err := r.emit(ctx, event.Event{
		Type:      event.ScanComplete,
		Total:     int64(len(tasks)),
		TotalSize: totalSize,
	}); err != nil {
		return err
	}

	for _, t := range tasks {
		if err := r.copyFile(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

func (r *runner) copyFile(ctx context.Context, t FileTask) error {
	if r.alreadyCopied(t) {
		r.logger.Debug("skipping file with matching size", "path", t.RelPath, "size", t.Size)
		r.cfg.Stats.AddFilesSkipped(1)
		r.cfg.Stats.AddBytesSkipped(t.Size)
		return r.emit(ctx, event.Event{Type: event.FileSkipped, Path: t.RelPath, Size: t.Size})
	}

	if err := r.ensureDir(ctx, filepath.Dir(t.DstPath)); err != nil {
		return r.fail(ctx, t, err)
	}

	if err := r.emit(ctx, event.Event{Type: event.FileStarted, Path: t.RelPath, Size: t.Size}); err != nil {
		return err
	}

	if r.cfg.DryRun {
		r.cfg.Stats.AddFilesCopied(1)
		return r.emit(ctx, event.Event{
			Type:    event.FileCompleted,
			Path:    t.RelPath,
			Size:    t.Size,
			Current: t.Size,
		})
	}

	if err := r.transfer(ctx, t); err != nil {
		return r.fail(ctx, t, err)
	}

	if r.cfg.Verify {
		if err := VerifyFile(ctx, t.SrcPath, t.DstPath); err != nil {
			r.cfg.Stats.AddFilesVerifyFailed(1)
			if emitErr := r.emit(ctx, event.Event{
				Type:  event.VerifyFailed,
				Path:  t.RelPath,
				Error: err,
			}); emitErr != nil {
				return emitErr
			}
			return r.fail(ctx, t, err)
		}
		r.cfg.Stats.AddFilesVerified(1)
		if err := r.emit(ctx, event.Event{Type: event.VerifyOK, Path: t.RelPath}); err != nil {
			return err
		}
	}

	r.cfg.Stats.AddFilesCopied(1)
	return r.emit(ctx, event.Event{
		Type:    event.FileCompleted,
		Path:    t.RelPath,
		Size:    t.Size,
		Current: t.Size,
	})
}

// alreadyCopied reports whether the destination is a regular file of the
// source's size. Any file beside it is left alone, even one named like a
// checkpoint, since the source tree may contain such names itself.
func (r *runner) alreadyCopied(t FileTask) bool {
	info, err := os.Stat(t.DstPath)
	return err == nil && info.Mode().IsRegular() && info.Size() == t.Size
}

func (r *runner) transfer(ctx context.Context, t FileTask) error {
	opts := Options{
		Store:     checkpoint.Store{Sync: r.cfg.SyncData},
		Limiter:   r.cfg.Limiter,
		Logger:    r.logger,
		ChunkSize: r.cfg.ChunkSize,
		SyncData:  r.cfg.SyncData,
		Retrier: Retrier{
			Clock:   r.cfg.Clock,
			MaxWait: r.cfg.MaxWait,
			OnRetry: func(attempt int, delay time.Duration, err error) {
				r.cfg.Stats.AddRetries(1)
				_ = r.emit(ctx, event.Event{
					Type:    event.FileRetry,
					Path:    t.RelPath,
					Attempt: attempt,
					Delay:   delay,
					Error:   err,
				})
			},
		},
	}

	tr := Copy(ctx, t.Task(), opts)

	// The first event of a transfer is its resume offset, not new bytes.
	last := int64(-1)
	var emitErr error
	for p := range tr.Progress() {
		if last >= 0 && p.Current > last {
			r.cfg.Stats.AddBytesCopied(p.Current - last)
		}
		last = p.Current
		if emitErr == nil {
			emitErr = r.emit(ctx, event.Event{
				Type:    event.FileProgress,
				Path:    t.RelPath,
				Current: p.Current,
				Size:    p.Total,
			})
		}
	}

	if err := tr.Wait(); err != nil {
		return err
	}
	return emitErr
}

func (r *runner) fail(ctx context.Context, t FileTask, err error) error {
	r.cfg.Stats.AddFilesFailed(1)
	r.logger.Error("copy failed", "path", t.RelPath, "error", err)
	if emitErr := r.emit(ctx, event.Event{
		Type:  event.FileFailed,
		Path:  t.RelPath,
		Size:  t.Size,
		Error: err,
	}); emitErr != nil {
		r.logger.Debug("failure event not delivered", "path", t.RelPath, "error", emitErr)
	}
	return err
}

// ensureDir makes dir exist as a directory. It walks up to the first
// existing ancestor, which must be a directory, and creates everything
// below it.
func (r *runner) ensureDir(ctx context.Context, dir string) error {
	existing := dir
	for {
		info, err := os.Stat(existing)
		if err == nil {
			if !info.IsDir() {
				return fmt.Errorf("%w: %s", ErrDirConflict, existing)
			}
			break
		}
		// ENOTDIR means some ancestor is a file; keep walking up to find it.
		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
			return fmt.Errorf("stat %s: %w", existing, err)
		}
		parent := filepath.Dir(existing)
		if parent == existing {
			break
		}
		existing = parent
	}
	if existing == dir {
		return nil
	}

	if r.cfg.DryRun {
		r.logger.Info("would create directory", "path", dir)
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	r.cfg.Stats.AddDirsCreated(1)
	return r.emit(ctx, event.Event{Type: event.DirCreated, Path: dir})
}

func (r *runner) emit(ctx context.Context, e event.Event) error {
	if r.cfg.Events == nil {
		return nil
	}
	e.Timestamp = time.Now()
	select {
	case r.cfg.Events <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
