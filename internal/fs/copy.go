package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// ErrSourceMissing reports a source file that does not exist. It is
// permanent: retrying cannot help, so the retry loop bails immediately.
var ErrSourceMissing = errors.New("source file missing")

// copyWithRetry performs up to maxAttempts copies with a fixed delay
// between them. Save files are written by a live game process that may
// hold an exclusive lock mid-save; waiting out the lock is the normal
// case, not an error. The wait is interruptible via ctx.
func copyWithRetry(ctx context.Context, src, dst string, maxAttempts int, retryDelay time.Duration) error {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if _, err := os.Stat(src); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%w: %s", ErrSourceMissing, src)
			}
			lastErr = err
		} else if err := copyOnce(src, dst); err == nil {
			return nil
		} else {
			lastErr = err
		}

		if attempt == maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	return fmt.Errorf("copy failed after %d attempts: %w", maxAttempts, lastErr)
}

// copyOnce copies src into a temporary sibling of dst and renames it
// into place, so a failed attempt never leaves a truncated destination.
func copyOnce(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".partial"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Sync(); err != nil {
		out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
