package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gooiestman/HOL2-SaveGuard/internal/audit"
	"github.com/gooiestman/HOL2-SaveGuard/internal/fs"
	"github.com/gooiestman/HOL2-SaveGuard/internal/logging"
)

// FileResult is the outcome for one target file within a snapshot.
type FileResult struct {
	Name string
	OK   bool
	Size int64 // bytes copied; meaningless when !OK
}

// Result is the outcome of one snapshot write. Success means at least
// one file made it; a snapshot where every file failed or nothing was
// present still exists on disk (with its manifest) as an audit trail.
type Result struct {
	Success bool
	Path    string
	Files   []FileResult
}

// Writer copies save files into timestamped snapshot directories.
type Writer struct {
	root  string
	fs    fs.FS
	log   logging.Logger
	audit *audit.Log
	now   func() time.Time
}

func NewWriter(root string, filesystem fs.FS, log logging.Logger, auditLog *audit.Log) *Writer {
	return &Writer{
		root:  root,
		fs:    filesystem,
		log:   log,
		audit: auditLog,
		now:   time.Now,
	}
}

// Write creates one snapshot of the target files found in sourceDir.
// Absent targets are skipped silently (unused slots are normal); a file
// that fails to copy is recorded and does not abort the rest. The only
// hard errors are a missing source directory and failure to create the
// snapshot directory itself.
func (w *Writer) Write(ctx context.Context, sourceDir string, targets []string, reason string) (Result, error) {
	if st, err := os.Stat(sourceDir); err != nil || !st.IsDir() {
		return Result{}, fmt.Errorf("%w: %s", ErrSourceNotFound, sourceDir)
	}

	created := w.now()
	dir := filepath.Join(w.root, created.Format(Layout))
	if err := w.fs.MkdirAll(dir); err != nil {
		return Result{}, fmt.Errorf("creating snapshot dir: %w", err)
	}
	w.log.Debug("snapshot dir created", "dir", dir, "reason", reason)

	res := Result{Path: dir}
	for _, name := range targets {
		src := filepath.Join(sourceDir, name)
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}

		if err := w.fs.CopyFile(ctx, src, filepath.Join(dir, name)); err != nil {
			w.log.Warn("snapshot copy failed", "file", name, "error", err)
			res.Files = append(res.Files, FileResult{Name: name})
			w.auditFile(audit.OutcomeFail, name, -1, reason)
			continue
		}

		var size int64
		if info, err := w.fs.Stat(filepath.Join(dir, name)); err == nil {
			size = info.Size
		}
		res.Files = append(res.Files, FileResult{Name: name, OK: true, Size: size})
		res.Success = true
		w.auditFile(audit.OutcomeOK, name, size, reason)
	}

	if err := writeManifest(filepath.Join(dir, ManifestName), created, reason, sourceDir, res.Files); err != nil {
		w.log.Error("writing manifest", "dir", dir, "error", err)
	}

	w.log.Info("snapshot written",
		"dir", dir, "reason", reason, "files", len(res.Files), "success", res.Success)
	return res, nil
}

func (w *Writer) auditFile(outcome, name string, size int64, reason string) {
	if err := w.audit.FileOutcome(outcome, name, size, reason); err != nil {
		w.log.Error("audit append failed", "error", err)
	}
}
