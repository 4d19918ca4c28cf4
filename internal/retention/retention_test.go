package retention

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gooiestman/HOL2-SaveGuard/internal/logging"
	"github.com/gooiestman/HOL2-SaveGuard/internal/snapshot"
)

func mkSnapshotDirs(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		dir := filepath.Join(root, name)
		require.NoError(t, os.Mkdir(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Slot0.sav"), []byte("x"), 0o644))
	}
}

func listNames(t *testing.T, root string) []string {
	t.Helper()
	snaps, err := snapshot.List(root)
	require.NoError(t, err)
	names := make([]string, len(snaps))
	for i, s := range snaps {
		names[i] = s.Name
	}
	return names
}

func TestCleanupDisabled(t *testing.T) {
	root := t.TempDir()
	mkSnapshotDirs(t, root, "2026-01-01_00-00-00", "2026-01-02_00-00-00")

	m := New(logging.Nop{})
	assert.Equal(t, 0, m.Cleanup(root, Policy{}))
	assert.Len(t, listNames(t, root), 2)
}

func TestCleanupByCount(t *testing.T) {
	root := t.TempDir()
	mkSnapshotDirs(t, root,
		"2026-01-01_00-00-00",
		"2026-01-02_00-00-00",
		"2026-01-03_00-00-00",
		"2026-01-04_00-00-00",
		"2026-01-05_00-00-00",
	)

	m := New(logging.Nop{})
	removed := m.Cleanup(root, Policy{MaxCount: 3})

	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{
		"2026-01-03_00-00-00",
		"2026-01-04_00-00-00",
		"2026-01-05_00-00-00",
	}, listNames(t, root))
}

func TestCleanupByAge(t *testing.T) {
	root := t.TempDir()
	mkSnapshotDirs(t, root,
		"2026-01-01_12-00-00",
		"2026-01-05_12-00-00",
		"2026-01-09_12-00-00",
	)

	m := New(logging.Nop{})
	m.now = func() time.Time {
		return time.Date(2026, 1, 10, 12, 0, 0, 0, time.Local)
	}

	removed := m.Cleanup(root, Policy{MaxAgeDays: 7})

	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{
		"2026-01-05_12-00-00",
		"2026-01-09_12-00-00",
	}, listNames(t, root))
}

func TestCleanupAgeBeforeCount(t *testing.T) {
	root := t.TempDir()
	mkSnapshotDirs(t, root,
		"2026-01-01_12-00-00", // expired
		"2026-01-02_12-00-00", // expired
		"2026-01-08_12-00-00",
		"2026-01-09_12-00-00",
		"2026-01-10_12-00-00",
	)

	m := New(logging.Nop{})
	m.now = func() time.Time {
		return time.Date(2026, 1, 10, 13, 0, 0, 0, time.Local)
	}

	// age pass removes 2, count pass trims the survivors to 2
	removed := m.Cleanup(root, Policy{MaxCount: 2, MaxAgeDays: 7})

	assert.Equal(t, 3, removed)
	assert.Equal(t, []string{
		"2026-01-09_12-00-00",
		"2026-01-10_12-00-00",
	}, listNames(t, root))
}

func TestCleanupIgnoresForeignDirectories(t *testing.T) {
	root := t.TempDir()
	mkSnapshotDirs(t, root, "2026-01-01_00-00-00", "2026-01-02_00-00-00")
	require.NoError(t, os.Mkdir(filepath.Join(root, "keep-me"), 0o755))

	m := New(logging.Nop{})
	m.Cleanup(root, Policy{MaxCount: 1})

	_, err := os.Stat(filepath.Join(root, "keep-me"))
	assert.NoError(t, err)
}
