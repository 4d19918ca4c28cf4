// Package signature detects save-file changes from cheap stat reads,
// without ever opening the files for content access.
package signature

import (
	"os"
	"path/filepath"
)

// Signature fingerprints one file by modification time and size. A
// missing file yields the zero Signature with Present false.
type Signature struct {
	Present bool
	MTime   int64 // unix nanoseconds
	Size    int64
}

// Compute stats path and returns its current signature. No side effects;
// stable across calls while the file is untouched.
func Compute(path string) Signature {
	st, err := os.Stat(path)
	if err != nil {
		return Signature{}
	}
	return Signature{
		Present: true,
		MTime:   st.ModTime().UnixNano(),
		Size:    st.Size(),
	}
}

// Equal reports whether two signatures match. An absent signature never
// equals anything, including another absent read: a missing file is
// treated as unknown/changed so the next cycle attempts a safety copy.
func (s Signature) Equal(o Signature) bool {
	return s.Present && o.Present && s.MTime == o.MTime && s.Size == o.Size
}

// Tracker owns the per-session map of last-known signatures for a fixed
// target set. It is rebuilt at monitor start; nothing is persisted.
type Tracker struct {
	dir   string
	files []string
	last  map[string]Signature
}

func NewTracker(dir string, files []string) *Tracker {
	return &Tracker{
		dir:   dir,
		files: append([]string(nil), files...),
		last:  make(map[string]Signature, len(files)),
	}
}

// Observe computes a fresh signature for every target file.
func (t *Tracker) Observe() map[string]Signature {
	cur := make(map[string]Signature, len(t.files))
	for _, name := range t.files {
		cur[name] = Compute(filepath.Join(t.dir, name))
	}
	return cur
}

// Changed reports whether any observed signature differs from the last
// committed one, including transitions to or from absence.
func (t *Tracker) Changed(cur map[string]Signature) bool {
	for _, name := range t.files {
		if !t.last[name].Equal(cur[name]) {
			return true
		}
	}
	return false
}

// Commit records the observed signatures as the new baseline for every
// tracked file, changed or not.
func (t *Tracker) Commit(cur map[string]Signature) {
	for _, name := range t.files {
		t.last[name] = cur[name]
	}
}
