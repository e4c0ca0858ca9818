package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	ScanComplete Type = iota + 1
	FileStarted
	FileProgress
	FileRetry
	FileCompleted
	FileFailed
	FileSkipped
	DirCreated
	VerifyOK
	VerifyFailed
)

var typeNames = [...]string{
	ScanComplete:  "ScanComplete",
	FileStarted:   "FileStarted",
	FileProgress:  "FileProgress",
	FileRetry:     "FileRetry",
	FileCompleted: "FileCompleted",
	FileFailed:    "FileFailed",
	FileSkipped:   "FileSkipped",
	DirCreated:    "DirCreated",
	VerifyOK:      "VerifyOK",
	VerifyFailed:  "VerifyFailed",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event is a single progress report from a directory copy run.
type Event struct {
	Timestamp time.Time
	Error     error
	Path      string        // path relative to the source root
	Current   int64         // bytes copied so far (FileProgress, FileCompleted)
	Size      int64         // file size
	Total     int64         // total files (ScanComplete)
	TotalSize int64         // total bytes (ScanComplete)
	Attempt   int           // failed attempt number (FileRetry)
	Delay     time.Duration // backoff before the next attempt (FileRetry)
	Type      Type
}
