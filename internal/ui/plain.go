package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/shaladdle/rcopy/internal/stats"
)

const plainProgressInterval = 5 * time.Second

// plainPresenter prints one line per finished file to stdout and periodic
// run progress to stderr. Used when stderr is not a terminal.
type plainPresenter struct {
	w       io.Writer
	errW    io.Writer
	stats   stats.Reader
	verbose bool
	dryRun  bool
}

func (p *plainPresenter) Run(events <-chan Event) error {
	progress := time.NewTicker(plainProgressInterval)
	defer progress.Stop()
	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-tick.C:
			p.stats.Tick()
		case <-progress.C:
			p.printProgress()
		}
	}
}

func (p *plainPresenter) handleEvent(ev Event) {
	switch ev.Type {
	case FileCompleted:
		if p.dryRun {
			fmt.Fprintf(p.w, "would copy: %s  %s\n", ev.Path, FormatBytes(ev.Size))
			return
		}
		fmt.Fprintf(p.w, "%s %s  %s\n",
			FormatProgress(ev.Size, ev.Size), ev.Path, FormatRate(p.stats.RollingSpeed(5)))
	case FileSkipped:
		fmt.Fprintf(p.w, "%s %s (skipped)\n", FormatProgress(ev.Size, ev.Size), ev.Path)
	case FileFailed:
		msg := "error"
		if ev.Error != nil {
			msg = ev.Error.Error()
		}
		fmt.Fprintf(p.w, "%s  failed: %s\n", ev.Path, msg)
	case FileRetry:
		fmt.Fprintf(p.errW, "retry: %s attempt %d failed, next in %s: %v\n",
			ev.Path, ev.Attempt+1, ev.Delay, ev.Error)
	case VerifyFailed:
		fmt.Fprintf(p.w, "MISMATCH: %s\n", ev.Path)
	case DirCreated:
		if p.verbose {
			fmt.Fprintf(p.w, "mkdir: %s\n", ev.Path)
		}
	case VerifyOK:
		if p.verbose {
			fmt.Fprintf(p.w, "verified: %s\n", ev.Path)
		}
	}
}

func (p *plainPresenter) printProgress() {
	snap := p.stats.Snapshot()
	done := snap.BytesCopied + snap.BytesSkipped
	if snap.BytesTotal > 0 {
		fmt.Fprintf(p.errW, "progress: %s %s/%s %s/%s files %s eta %s\n",
			FormatPercent(done, snap.BytesTotal),
			FormatBytes(done), FormatBytes(snap.BytesTotal),
			FormatCount(snap.FilesCopied+snap.FilesSkipped), FormatCount(snap.FilesTotal),
			FormatRate(p.stats.RollingSpeed(10)),
			FormatETA(p.stats.ETA()),
		)
		return
	}
	fmt.Fprintf(p.errW, "progress: %s copied %s files\n",
		FormatBytes(snap.BytesCopied),
		FormatCount(snap.FilesCopied),
	)
}

func (p *plainPresenter) Summary() string {
	return completionSummary(p.stats.Snapshot(), p.dryRun)
}
