// Package restore puts a selected snapshot back over the live saves,
// guarded by a pre-restore safety snapshot.
package restore

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/gooiestman/HOL2-SaveGuard/internal/audit"
	"github.com/gooiestman/HOL2-SaveGuard/internal/fs"
	"github.com/gooiestman/HOL2-SaveGuard/internal/logging"
	"github.com/gooiestman/HOL2-SaveGuard/internal/snapshot"
)

// ListLimit caps how many snapshots the CLI shows for selection. The
// full set is still enumerated and managed; this is display only.
const ListLimit = 20

// ErrSafetyBackupFailed is returned instead of restoring when the
// pre-restore safety snapshot fails entirely and the policy requires it.
var ErrSafetyBackupFailed = errors.New("pre-restore safety snapshot failed")

// Result counts per-file outcomes of one restore. A partial failure
// leaves the save directory mixing old and new files; that is surfaced
// here, never rolled back.
type Result struct {
	Restored int
	Failed   int
}

type Coordinator struct {
	fs            fs.FS
	log           logging.Logger
	audit         *audit.Log
	writer        *snapshot.Writer
	requireSafety bool
}

func New(filesystem fs.FS, log logging.Logger, auditLog *audit.Log, writer *snapshot.Writer, requireSafety bool) *Coordinator {
	return &Coordinator{
		fs:            filesystem,
		log:           log,
		audit:         auditLog,
		writer:        writer,
		requireSafety: requireSafety,
	}
}

// ListNewestFirst enumerates all snapshots under root, newest first.
func ListNewestFirst(root string) ([]snapshot.Snapshot, error) {
	snaps, err := snapshot.List(root)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(snaps)-1; i < j; i, j = i+1, j-1 {
		snaps[i], snaps[j] = snaps[j], snaps[i]
	}
	return snaps, nil
}

// Restore overwrites live save files in sourceDir from the selected
// snapshot. The selection must already be confirmed by the caller; no
// interaction happens here.
//
// A safety snapshot of the current saves is always attempted first.
// Unless the require-safety policy is set, a failed safety snapshot only
// logs a warning — blocking would leave the user stuck exactly when the
// live saves are already broken.
//
// Only files present in the snapshot are restored, each with a single
// unretried copy: nothing is holding save-file locks during an
// operator-driven restore, so the monitor-path retry loop buys nothing.
func (c *Coordinator) Restore(ctx context.Context, snap snapshot.Snapshot, sourceDir string, targets []string) (Result, error) {
	safety, err := c.writer.Write(ctx, sourceDir, targets, snapshot.ReasonSafety)
	if err != nil || !safety.Success {
		if c.requireSafety {
			return Result{}, fmt.Errorf("%w (snapshot %s)", ErrSafetyBackupFailed, snap.Name)
		}
		c.log.Warn("safety snapshot failed, restoring anyway", "snapshot", snap.Name, "error", err)
	}

	files, err := snap.Files()
	if err != nil {
		return Result{}, fmt.Errorf("reading snapshot %s: %w", snap.Name, err)
	}

	var res Result
	for _, name := range files {
		src := filepath.Join(snap.Path, name)
		dst := filepath.Join(sourceDir, name)
		if err := c.fs.CopyOnce(src, dst); err != nil {
			c.log.Error("restore copy failed", "file", name, "error", err)
			res.Failed++
			continue
		}
		c.log.Info("restored file", "file", name, "from", snap.Name)
		res.Restored++
	}

	if err := c.audit.Restore(snap.Name, res.Restored, res.Failed); err != nil {
		c.log.Error("audit append failed", "error", err)
	}
	return res, nil
}
