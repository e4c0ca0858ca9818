package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/shaladdle/rcopy/internal/stats"
)

const (
	clearLine       = "\r\033[K"
	redrawInterval  = 100 * time.Millisecond
	defaultTermCols = 80
)

// IsTTY reports whether the given file descriptor refers to a terminal.
func IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

// TermWidth returns the terminal width in columns, or 80 if it cannot be determined.
func TermWidth(fd uintptr) int {
	w, _, err := term.GetSize(int(fd))
	if err != nil || w <= 0 {
		return defaultTermCols
	}
	return w
}

// ttyPresenter redraws a single status line for the file in flight and
// scrolls a line per finished file above it.
type ttyPresenter struct {
	w       io.Writer
	stats   stats.Reader
	width   int
	verbose bool
	dryRun  bool

	current   Event // last FileProgress for the file in flight
	inFlight  bool
	lineDrawn bool
	lastDraw  time.Time
}

func (p *ttyPresenter) Run(events <-chan Event) error {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				p.clear()
				return nil
			}
			p.handleEvent(ev)
		case <-tick.C:
			p.stats.Tick()
			p.draw(true)
		}
	}
}

func (p *ttyPresenter) handleEvent(ev Event) {
	switch ev.Type {
	case FileStarted:
		p.current = Event{Type: FileProgress, Path: ev.Path, Size: ev.Size}
		p.inFlight = true
		p.draw(true)

	case FileProgress:
		p.current = ev
		p.inFlight = true
		// Always draw the final chunk so 100% is never skipped.
		p.draw(ev.Current == ev.Size)

	case FileCompleted:
		p.inFlight = false
		if p.dryRun {
			p.println(fmt.Sprintf("%s  %s  %s",
				styleIconSkipped.Render("·"), styleFilePath.Render(ev.Path),
				styleFileSize.Render(FormatBytes(ev.Size)+" (would copy)")))
			return
		}
		p.println(fmt.Sprintf("%s  %s  %s  %s",
			styleIconDone.Render("✓"), styleFilePath.Render(ev.Path),
			styleFileSize.Render(FormatBytes(ev.Size)),
			styleFileSpeed.Render(FormatRate(p.stats.RollingSpeed(5)))))

	case FileSkipped:
		p.println(fmt.Sprintf("%s  %s  %s",
			styleIconSkipped.Render("–"), styleFilePath.Render(ev.Path),
			styleFileSize.Render("(skipped)")))

	case FileFailed:
		p.inFlight = false
		msg := "error"
		if ev.Error != nil {
			msg = ev.Error.Error()
		}
		p.println(fmt.Sprintf("%s  %s  %s",
			styleIconFailed.Render("✗"), styleFilePath.Render(ev.Path), styleError.Render(msg)))

	case FileRetry:
		p.println(fmt.Sprintf("%s  %s  %s",
			styleIconRetry.Render("↻"), styleFilePath.Render(ev.Path),
			styleFileSize.Render(fmt.Sprintf("attempt %d failed, retrying in %s: %v",
				ev.Attempt+1, ev.Delay, ev.Error))))

	case VerifyFailed:
		p.println(fmt.Sprintf("%s  %s  %s",
			styleIconFailed.Render("✗"), styleFilePath.Render(ev.Path), styleError.Render("checksum mismatch")))

	case DirCreated:
		if p.verbose {
			p.println(styleFileSize.Render("mkdir " + ev.Path))
		}
	}
}

// statusLine renders the in-place line for the file in flight:
// [ 45% ] path  12.0 MiB/40.0 MiB  5.10 MB/s  eta 6s
func (p *ttyPresenter) statusLine() string {
	ev := p.current
	rate := p.stats.RollingSpeed(5)
	tail := fmt.Sprintf("  %s/%s  %s  eta %s",
		FormatBytes(ev.Current), FormatBytes(ev.Size), FormatRate(rate), FormatETA(p.stats.ETA()))
	head := fmt.Sprintf("[ %4s ] ", FormatPercent(ev.Current, ev.Size))

	width := p.width
	if width <= 0 {
		width = defaultTermCols
	}
	// Leave one column so the cursor never wraps.
	room := width - 1 - len(head) - len(tail)
	path := TruncatePath(ev.Path, max(room, 8))

	return stylePercent.Render(head) + styleFilePath.Render(path) + styleFileSpeed.Render(tail)
}

func (p *ttyPresenter) draw(force bool) {
	if !p.inFlight {
		return
	}
	now := time.Now()
	if !force && now.Sub(p.lastDraw) < redrawInterval {
		return
	}
	p.lastDraw = now
	fmt.Fprint(p.w, clearLine+p.statusLine())
	p.lineDrawn = true
}

func (p *ttyPresenter) clear() {
	if p.lineDrawn {
		fmt.Fprint(p.w, clearLine)
		p.lineDrawn = false
	}
}

// println prints a scrolling line above the status line and redraws it.
func (p *ttyPresenter) println(s string) {
	p.clear()
	fmt.Fprintln(p.w, strings.TrimRight(s, " "))
	p.draw(true)
}

func (p *ttyPresenter) Summary() string {
	return completionSummary(p.stats.Snapshot(), p.dryRun)
}
