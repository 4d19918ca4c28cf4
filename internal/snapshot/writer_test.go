package snapshot

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gooiestman/HOL2-SaveGuard/internal/audit"
	"github.com/gooiestman/HOL2-SaveGuard/internal/fs"
	"github.com/gooiestman/HOL2-SaveGuard/internal/logging"
)

func newTestWriter(t *testing.T, root string) (*Writer, string) {
	t.Helper()
	auditPath := filepath.Join(root, "saveguard.log")
	w := NewWriter(root, fs.New(2, 5*time.Millisecond), logging.Nop{}, audit.New(auditPath))
	return w, auditPath
}

func TestWriteSnapshot(t *testing.T) {
	source := t.TempDir()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(source, "Slot0.sav"), []byte("slot zero"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(source, "Profile.sav"), []byte("profile"), 0o644))

	w, auditPath := newTestWriter(t, root)
	res, err := w.Write(context.Background(), source, []string{"Slot0.sav", "Slot1.sav", "Profile.sav"}, ReasonManual)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Regexp(t, `\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}$`, res.Path)

	// Slot1.sav is absent and skipped silently, not failed
	require.Len(t, res.Files, 2)
	assert.Equal(t, "Slot0.sav", res.Files[0].Name)
	assert.True(t, res.Files[0].OK)
	assert.Equal(t, int64(len("slot zero")), res.Files[0].Size)
	assert.Equal(t, "Profile.sav", res.Files[1].Name)
	assert.True(t, res.Files[1].OK)

	copied, err := os.ReadFile(filepath.Join(res.Path, "Slot0.sav"))
	require.NoError(t, err)
	assert.Equal(t, "slot zero", string(copied))

	manifest, err := os.ReadFile(filepath.Join(res.Path, ManifestName))
	require.NoError(t, err)
	text := string(manifest)
	assert.Contains(t, text, "reason: manual\n")
	assert.Contains(t, text, "source: "+source+"\n")
	assert.Contains(t, text, "OK Slot0.sav (")
	assert.Contains(t, text, "OK Profile.sav (")
	assert.NotContains(t, text, "Slot1.sav")

	auditData, err := os.ReadFile(auditPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(auditData)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], " OK Slot0.sav ")
	assert.True(t, strings.HasSuffix(lines[0], " manual"))
}

func TestWriteSnapshotNoTargetsPresent(t *testing.T) {
	source := t.TempDir()
	root := t.TempDir()

	w, auditPath := newTestWriter(t, root)
	res, err := w.Write(context.Background(), source, []string{"Slot0.sav", "Slot1.sav"}, ReasonAutoTimer)
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Empty(t, res.Files)

	// the directory and manifest still exist as an audit trail
	manifest, err := os.ReadFile(filepath.Join(res.Path, ManifestName))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(manifest), "files:\n"))

	_, err = os.Stat(auditPath)
	assert.True(t, os.IsNotExist(err), "no copies attempted, no audit lines")
}

func TestWriteSnapshotMissingSourceDir(t *testing.T) {
	root := t.TempDir()
	w, _ := newTestWriter(t, root)

	_, err := w.Write(context.Background(), filepath.Join(root, "nope"), []string{"Slot0.sav"}, ReasonManual)
	require.ErrorIs(t, err, ErrSourceNotFound)
}

func TestWriteSnapshotPerFileFailureDoesNotAbort(t *testing.T) {
	source := t.TempDir()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(source, "Slot0.sav"), []byte("ok"), 0o644))
	// a directory with a target's name makes that copy fail while the
	// rest of the snapshot proceeds
	require.NoError(t, os.Mkdir(filepath.Join(source, "Slot1.sav"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(source, "Profile.sav"), []byte("p"), 0o644))

	w, _ := newTestWriter(t, root)
	res, err := w.Write(context.Background(), source, []string{"Slot0.sav", "Slot1.sav", "Profile.sav"}, ReasonManual)
	require.NoError(t, err)

	assert.True(t, res.Success)
	require.Len(t, res.Files, 3)
	assert.True(t, res.Files[0].OK)
	assert.False(t, res.Files[1].OK)
	assert.True(t, res.Files[2].OK)

	manifest, _ := os.ReadFile(filepath.Join(res.Path, ManifestName))
	assert.Contains(t, string(manifest), "FAIL Slot1.sav\n")
}

func TestWriteSnapshotFixedTimestampName(t *testing.T) {
	source := t.TempDir()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(source, "Slot0.sav"), []byte("x"), 0o644))

	w, _ := newTestWriter(t, root)
	w.now = func() time.Time {
		return time.Date(2026, 8, 29, 14, 3, 7, 0, time.Local)
	}

	res, err := w.Write(context.Background(), source, []string{"Slot0.sav"}, ReasonManual)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "2026-08-29_14-03-07"), res.Path)
}
