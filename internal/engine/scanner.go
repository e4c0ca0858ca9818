package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// ScannerConfig controls scanner behavior.
type ScannerConfig struct {
	Logger  *slog.Logger
	SrcRoot string
	DstRoot string
}

// Scanner walks a source tree in lexical order and yields one FileTask per
// regular file. Symlinks are followed when they resolve to a regular file
// and skipped otherwise.
type Scanner struct {
	cfg ScannerConfig
}

// NewScanner creates a scanner with the given config.
func NewScanner(cfg ScannerConfig) *Scanner {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Scanner{cfg: cfg}
}

// Scan returns every file under SrcRoot. If SrcRoot is itself a file, the
// result is a single task whose destination is DstRoot, or DstRoot joined
// with the source's base name when DstRoot is an existing directory.
func (s *Scanner) Scan(ctx context.Context) ([]FileTask, error) {
	var tasks []FileTask
	err := s.Walk(ctx, func(t FileTask) error {
		tasks = append(tasks, t)
		return nil
	})
	return tasks, err
}

// Walk calls fn for each task in lexical order. An error from fn stops the
// walk and is returned unchanged.
func (s *Scanner) Walk(ctx context.Context, fn func(FileTask) error) error {
	root := s.cfg.SrcRoot
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}

	if !info.IsDir() {
		if !info.Mode().IsRegular() {
			return fmt.Errorf("source %s is not a regular file or directory", root)
		}
		dst := s.cfg.DstRoot
		if dstInfo, err := os.Stat(dst); err == nil && dstInfo.IsDir() {
			dst = filepath.Join(dst, filepath.Base(root))
		}
		return fn(FileTask{
			SrcPath: root,
			DstPath: dst,
			RelPath: filepath.Base(root),
			Size:    info.Size(),
			Mode:    info.Mode(),
		})
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		// Stat follows symlinks, so a link to a regular file copies its target.
		fi, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				s.cfg.Logger.Warn("skipping entry that vanished or dangles", "path", path)
				return nil
			}
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if !fi.Mode().IsRegular() {
			s.cfg.Logger.Debug("skipping non-regular entry", "path", path, "mode", fi.Mode().String())
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("rel path for %s: %w", path, err)
		}

		return fn(FileTask{
			SrcPath: path,
			DstPath: filepath.Join(s.cfg.DstRoot, rel),
			RelPath: rel,
			Size:    fi.Size(),
			Mode:    fi.Mode(),
		})
	})
}
