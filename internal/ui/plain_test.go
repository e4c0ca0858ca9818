package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaladdle/rcopy/internal/stats"
)

func runPlain(t *testing.T, p *plainPresenter, evs ...Event) {
	t.Helper()
	events := make(chan Event, len(evs))
	for _, ev := range evs {
		events <- ev
	}
	close(events)
	require.NoError(t, p.Run(events))
}

func newPlain(out, errOut *bytes.Buffer) *plainPresenter {
	return &plainPresenter{w: out, errW: errOut, stats: stats.NewCollector()}
}

func TestPlainPresenterFileCompleted(t *testing.T) {
	var out, errOut bytes.Buffer
	runPlain(t, newPlain(&out, &errOut),
		Event{Type: FileCompleted, Path: "dir/file.txt", Size: 1024, Current: 1024},
		Event{Type: FileCompleted, Path: "dir/big.bin", Size: 100 << 20, Current: 100 << 20},
	)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "[ 1024/1024 ] dir/file.txt"), lines[0])
	assert.Contains(t, lines[1], "dir/big.bin")
}

func TestPlainPresenterProgressEventsAreQuiet(t *testing.T) {
	var out, errOut bytes.Buffer
	runPlain(t, newPlain(&out, &errOut),
		Event{Type: FileStarted, Path: "f", Size: 10},
		Event{Type: FileProgress, Path: "f", Current: 5, Size: 10},
	)
	assert.Empty(t, out.String())
}

func TestPlainPresenterFileSkipped(t *testing.T) {
	var out, errOut bytes.Buffer
	runPlain(t, newPlain(&out, &errOut), Event{Type: FileSkipped, Path: "skip.txt", Size: 42})

	assert.Equal(t, "[ 42/42 ] skip.txt (skipped)\n", out.String())
}

func TestPlainPresenterFileFailed(t *testing.T) {
	var out, errOut bytes.Buffer
	runPlain(t, newPlain(&out, &errOut),
		Event{Type: FileFailed, Path: "fail.txt", Size: 512, Error: assert.AnError})

	assert.Contains(t, out.String(), "fail.txt")
	assert.Contains(t, out.String(), assert.AnError.Error())
}

func TestPlainPresenterFileRetry(t *testing.T) {
	var out, errOut bytes.Buffer
	runPlain(t, newPlain(&out, &errOut), Event{
		Type:    FileRetry,
		Path:    "flaky.bin",
		Attempt: 0,
		Delay:   time.Millisecond,
		Error:   errors.New("input/output error"),
	})

	assert.Empty(t, out.String())
	assert.Equal(t, "retry: flaky.bin attempt 1 failed, next in 1ms: input/output error\n", errOut.String())
}

func TestPlainPresenterVerifyFailed(t *testing.T) {
	var out, errOut bytes.Buffer
	runPlain(t, newPlain(&out, &errOut), Event{Type: VerifyFailed, Path: "bad/file.txt"})
	assert.Contains(t, out.String(), "MISMATCH: bad/file.txt")
}

func TestPlainPresenterVerboseDirCreated(t *testing.T) {
	var out, errOut bytes.Buffer
	p := newPlain(&out, &errOut)
	runPlain(t, p, Event{Type: DirCreated, Path: "/dst/a/b"})
	assert.Empty(t, out.String())

	p.verbose = true
	runPlain(t, p, Event{Type: DirCreated, Path: "/dst/a/b"})
	assert.Equal(t, "mkdir: /dst/a/b\n", out.String())
}

func TestPlainPresenterDryRun(t *testing.T) {
	var out, errOut bytes.Buffer
	p := newPlain(&out, &errOut)
	p.dryRun = true
	runPlain(t, p, Event{Type: FileCompleted, Path: "a.txt", Size: 2048, Current: 2048})
	assert.Equal(t, "would copy: a.txt  2.0 KiB\n", out.String())
}

func TestPlainPresenterPrintProgress(t *testing.T) {
	var out, errOut bytes.Buffer
	collector := stats.NewCollector()
	collector.SetTotals(4, 1000)
	collector.AddBytesCopied(250)
	collector.AddBytesSkipped(250)
	collector.AddFilesCopied(1)
	collector.AddFilesSkipped(1)

	p := &plainPresenter{w: &out, errW: &errOut, stats: collector}
	p.printProgress()

	assert.Contains(t, errOut.String(), "progress: 50%")
	assert.Contains(t, errOut.String(), "2/4 files")
}

func TestPlainPresenterSummary(t *testing.T) {
	collector := stats.NewCollector()
	collector.AddFilesCopied(100)
	collector.AddFilesSkipped(3)
	collector.AddBytesCopied(1024 * 1024)

	p := &plainPresenter{stats: collector}
	s := p.Summary()
	assert.Contains(t, s, "files 100")
	assert.Contains(t, s, "skipped 3")
	assert.Contains(t, s, "size 1.0 MiB")
	assert.Contains(t, s, "errors 0")
}
