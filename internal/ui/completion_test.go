package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/shaladdle/rcopy/internal/stats"
)

func TestCompletionSummary(t *testing.T) {
	snap := stats.Snapshot{
		FilesCopied: 48917,
		BytesCopied: 2 << 30,
		Elapsed:     3*time.Minute + 17*time.Second,
	}
	s := completionSummary(snap, false)
	assert.Contains(t, s, "done ✓")
	assert.Contains(t, s, "files 48,917")
	assert.Contains(t, s, "size 2.0 GiB")
	assert.Contains(t, s, "time 3m 17s")
	assert.NotContains(t, s, "skipped")
	assert.NotContains(t, s, "retries")
	assert.Contains(t, s, "errors 0")
}

func TestCompletionSummaryFailures(t *testing.T) {
	snap := stats.Snapshot{
		FilesCopied:   2,
		FilesFailed:   1,
		Retries:       7,
		FilesVerified: 2,
		Elapsed:       time.Second,
	}
	s := completionSummary(snap, false)
	assert.Contains(t, s, "done ✗")
	assert.Contains(t, s, "retries 7")
	assert.Contains(t, s, "verified 2")
	assert.Contains(t, s, "errors 1")
}

func TestCompletionSummaryDryRun(t *testing.T) {
	s := completionSummary(stats.Snapshot{FilesCopied: 5}, true)
	assert.Contains(t, s, "dry run ✓  would copy 5")
}
