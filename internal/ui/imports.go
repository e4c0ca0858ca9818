package ui

import "github.com/shaladdle/rcopy/internal/event"

// Event is re-exported so presenters read like the engine's own vocabulary.
type Event = event.Event

// Re-export event types for convenience.
const (
	ScanComplete  = event.ScanComplete
	FileStarted   = event.FileStarted
	FileProgress  = event.FileProgress
	FileRetry     = event.FileRetry
	FileCompleted = event.FileCompleted
	FileFailed    = event.FileFailed
	FileSkipped   = event.FileSkipped
	DirCreated    = event.DirCreated
	VerifyOK      = event.VerifyOK
	VerifyFailed  = event.VerifyFailed
)
