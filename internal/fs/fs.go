// Package fs defines the filesystem abstraction used by SaveGuard.
// It provides the FS interface and the FileInfo type shared across the system.
package fs

import (
	"context"
	"time"
)

type FileInfo struct {
	Path  string
	Size  int64
	MTime time.Time
}

type FS interface {
	Stat(path string) (FileInfo, error)
	// CopyFile copies src over dst with bounded retry, waiting out
	// transient locks held by the game process.
	CopyFile(ctx context.Context, src, dst string) error
	// CopyOnce is a single unretried attempt.
	CopyOnce(src, dst string) error
	MkdirAll(path string) error
	RemoveAll(path string) error
}
