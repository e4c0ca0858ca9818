package engine

import "io/fs"

// FileTask describes one file of a directory copy.
type FileTask struct {
	SrcPath string
	DstPath string
	RelPath string
	Size    int64
	Mode    fs.FileMode
}

// Task returns the single-file copy task for t.
func (t FileTask) Task() Task {
	return Task{SrcPath: t.SrcPath, DstPath: t.DstPath}
}
