package ui

import (
	"fmt"
	"strings"

	"github.com/shaladdle/rcopy/internal/stats"
)

// completionSummary builds a final summary line from a snapshot.
// Format: done ✓  files 12  skipped 3  size 2.1 GiB  avg 641 MB/s  time 3m 17s  errors 0
func completionSummary(snap stats.Snapshot, dryRun bool) string {
	avgSpeed := 0.0
	if snap.Elapsed.Seconds() > 0 {
		avgSpeed = float64(snap.BytesCopied) / snap.Elapsed.Seconds()
	}

	icon := "✓"
	if snap.FilesFailed > 0 || snap.FilesVerifyFailed > 0 {
		icon = "✗"
	}

	var b strings.Builder
	if dryRun {
		fmt.Fprintf(&b, "dry run %s  would copy %s", icon, FormatCount(snap.FilesCopied))
	} else {
		fmt.Fprintf(&b, "done %s  files %s", icon, FormatCount(snap.FilesCopied))
	}
	if snap.FilesSkipped > 0 {
		fmt.Fprintf(&b, "  skipped %s", FormatCount(snap.FilesSkipped))
	}
	fmt.Fprintf(&b, "  size %s  avg %s  time %s",
		FormatBytes(snap.BytesCopied),
		FormatRate(avgSpeed),
		FormatDuration(snap.Elapsed),
	)
	if snap.Retries > 0 {
		fmt.Fprintf(&b, "  retries %s", FormatCount(snap.Retries))
	}
	if snap.FilesVerified > 0 || snap.FilesVerifyFailed > 0 {
		fmt.Fprintf(&b, "  verified %s", FormatCount(snap.FilesVerified))
	}
	fmt.Fprintf(&b, "  errors %d", snap.FilesFailed)

	return b.String()
}
