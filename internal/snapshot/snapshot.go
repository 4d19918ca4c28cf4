// Package snapshot creates and enumerates timestamped save snapshots.
package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"
)

// Layout is the canonical snapshot directory name. One-second
// resolution: two snapshots within the same second share a directory
// and the second overwrites the first. Zero-padded, so lexicographic
// order equals chronological order — external tooling may rely on this.
const Layout = "2006-01-02_15-04-05"

// ManifestName is the per-snapshot manifest file.
const ManifestName = "manifest.txt"

// Snapshot trigger reasons, recorded in manifests and the audit log.
const (
	ReasonManual    = "manual"
	ReasonAutoTimer = "auto-timer"
	ReasonSafety    = "pre-restore-safety"
)

// ErrSourceNotFound reports a missing save directory. Fatal to starting
// a backup or a monitoring session; never retried.
var ErrSourceNotFound = errors.New("save directory not found")

var namePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}$`)

// Snapshot is one existing snapshot directory.
type Snapshot struct {
	Name      string
	Path      string
	Timestamp time.Time
}

// List enumerates the snapshot directories under root whose names match
// the canonical pattern, oldest first. Anything else under root is
// ignored. A missing root is an empty list, not an error.
func List(root string) ([]Snapshot, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var snaps []Snapshot
	for _, e := range entries {
		if !e.IsDir() || !namePattern.MatchString(e.Name()) {
			continue
		}
		ts, err := time.ParseInLocation(Layout, e.Name(), time.Local)
		if err != nil {
			continue
		}
		snaps = append(snaps, Snapshot{
			Name:      e.Name(),
			Path:      filepath.Join(root, e.Name()),
			Timestamp: ts,
		})
	}

	sort.Slice(snaps, func(i, j int) bool { return snaps[i].Name < snaps[j].Name })
	return snaps, nil
}

// Files lists the save files inside a snapshot directory, excluding the
// manifest, in name order.
func (s Snapshot) Files() ([]string, error) {
	entries, err := os.ReadDir(s.Path)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || e.Name() == ManifestName {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
