package signature

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestComputeStable(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Slot0.sav", "save data")

	first := Compute(path)
	second := Compute(path)

	require.True(t, first.Present)
	assert.True(t, first.Equal(second))
	assert.True(t, second.Equal(first))
}

func TestComputeMissingFile(t *testing.T) {
	sig := Compute(filepath.Join(t.TempDir(), "nope.sav"))
	assert.False(t, sig.Present)
}

func TestAbsentNeverEqual(t *testing.T) {
	dir := t.TempDir()
	present := Compute(writeFile(t, dir, "Slot0.sav", "x"))
	absent := Compute(filepath.Join(dir, "missing.sav"))
	absentAgain := Compute(filepath.Join(dir, "missing.sav"))

	assert.False(t, absent.Equal(present))
	assert.False(t, present.Equal(absent))
	// two absent reads are still "unknown", never equal
	assert.False(t, absent.Equal(absentAgain))
}

func TestEqualDetectsSizeAndMTime(t *testing.T) {
	a := Signature{Present: true, MTime: 100, Size: 5}
	assert.True(t, a.Equal(Signature{Present: true, MTime: 100, Size: 5}))
	assert.False(t, a.Equal(Signature{Present: true, MTime: 101, Size: 5}))
	assert.False(t, a.Equal(Signature{Present: true, MTime: 100, Size: 6}))
}

func TestTrackerDetectsModification(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Slot0.sav", "one")

	tr := NewTracker(dir, []string{"Slot0.sav"})
	tr.Commit(tr.Observe())

	assert.False(t, tr.Changed(tr.Observe()))

	// grow the file so the size part of the signature moves even if
	// mtime granularity is coarse
	writeFile(t, dir, "Slot0.sav", "one and then some")
	cur := tr.Observe()
	assert.True(t, tr.Changed(cur))

	tr.Commit(cur)
	assert.False(t, tr.Changed(tr.Observe()))
}

func TestTrackerDetectsDeletion(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "Slot0.sav", "data")

	tr := NewTracker(dir, []string{"Slot0.sav"})
	tr.Commit(tr.Observe())

	require.NoError(t, os.Remove(path))
	assert.True(t, tr.Changed(tr.Observe()), "deletion must register as a change")
}

func TestTrackerDetectsAppearance(t *testing.T) {
	dir := t.TempDir()

	tr := NewTracker(dir, []string{"Slot1.sav"})
	tr.Commit(tr.Observe())

	writeFile(t, dir, "Slot1.sav", "fresh slot")
	assert.True(t, tr.Changed(tr.Observe()))
}
