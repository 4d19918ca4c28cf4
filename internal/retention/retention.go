// Package retention prunes old snapshots by age and count.
package retention

import (
	"os"
	"time"

	"github.com/gooiestman/HOL2-SaveGuard/internal/logging"
	"github.com/gooiestman/HOL2-SaveGuard/internal/snapshot"
)

// Policy bounds the snapshot set. Zero means unbounded for either limit.
type Policy struct {
	MaxCount   int
	MaxAgeDays int
}

type Manager struct {
	log logging.Logger
	now func() time.Time
}

func New(log logging.Logger) *Manager {
	return &Manager{log: log, now: time.Now}
}

// Cleanup deletes expired snapshots under root and returns how many were
// removed. The age pass runs first, then the count pass trims the
// already-aged set. Deletion is best-effort: one stuck directory must
// not stop the rest.
func (m *Manager) Cleanup(root string, p Policy) int {
	if p.MaxCount == 0 && p.MaxAgeDays == 0 {
		return 0
	}

	snaps, err := snapshot.List(root)
	if err != nil {
		m.log.Warn("retention: listing snapshots", "root", root, "error", err)
		return 0
	}

	removed := 0

	if p.MaxAgeDays > 0 {
		cutoff := m.now().AddDate(0, 0, -p.MaxAgeDays)
		for _, s := range snaps {
			if !s.Timestamp.Before(cutoff) {
				continue
			}
			removed += m.remove(s)
		}
		if snaps, err = snapshot.List(root); err != nil {
			m.log.Warn("retention: re-listing snapshots", "root", root, "error", err)
			return removed
		}
	}

	if p.MaxCount > 0 && len(snaps) > p.MaxCount {
		for _, s := range snaps[:len(snaps)-p.MaxCount] {
			removed += m.remove(s)
		}
	}

	return removed
}

func (m *Manager) remove(s snapshot.Snapshot) int {
	if err := os.RemoveAll(s.Path); err != nil {
		m.log.Warn("retention: delete failed", "snapshot", s.Name, "error", err)
		return 0
	}
	m.log.Info("retention: removed snapshot", "snapshot", s.Name)
	return 1
}
