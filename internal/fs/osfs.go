package fs

import (
	"context"
	"os"
	"time"
)

// OSFS is the concrete implementation of FS backed by the local OS
// filesystem, configured with the retry bounds for contended copies.
type OSFS struct {
	maxAttempts int
	retryDelay  time.Duration
}

func New(maxAttempts int, retryDelay time.Duration) *OSFS {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &OSFS{maxAttempts: maxAttempts, retryDelay: retryDelay}
}

func (o *OSFS) Stat(path string) (FileInfo, error) {
	st, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}
	return FileInfo{
		Path:  path,
		Size:  st.Size(),
		MTime: st.ModTime(),
	}, nil
}

func (o *OSFS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

func (o *OSFS) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

func (o *OSFS) CopyFile(ctx context.Context, src, dst string) error {
	return copyWithRetry(ctx, src, dst, o.maxAttempts, o.retryDelay)
}

func (o *OSFS) CopyOnce(src, dst string) error {
	return copyOnce(src, dst)
}
