package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListOrdersOldestFirstAndIgnoresNoise(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{
		"2026-03-02_10-00-00",
		"2026-03-01_09-30-00",
		"2026-03-01_23-59-59",
		"not-a-snapshot",
		".tmp-2026-03-01_00-00-00",
	} {
		require.NoError(t, os.Mkdir(filepath.Join(root, name), 0o755))
	}
	// a matching *file* must be ignored too
	require.NoError(t, os.WriteFile(filepath.Join(root, "2026-03-03_00-00-00"), nil, 0o644))

	snaps, err := List(root)
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	assert.Equal(t, "2026-03-01_09-30-00", snaps[0].Name)
	assert.Equal(t, "2026-03-01_23-59-59", snaps[1].Name)
	assert.Equal(t, "2026-03-02_10-00-00", snaps[2].Name)
}

func TestListMissingRoot(t *testing.T) {
	snaps, err := List(filepath.Join(t.TempDir(), "nowhere"))
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestSnapshotFilesExcludesManifest(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "2026-03-01_09-30-00")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Slot1.sav"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Slot0.sav"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestName), []byte("created: x\n"), 0o644))

	snaps, err := List(root)
	require.NoError(t, err)
	require.Len(t, snaps, 1)

	files, err := snaps[0].Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"Slot0.sav", "Slot1.sav"}, files)
}
