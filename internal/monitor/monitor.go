// Package monitor drives the periodic change-detection cycle: observe
// signatures, snapshot on change, then apply retention.
package monitor

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gooiestman/HOL2-SaveGuard/internal/config"
	"github.com/gooiestman/HOL2-SaveGuard/internal/fsprobe"
	"github.com/gooiestman/HOL2-SaveGuard/internal/logging"
	"github.com/gooiestman/HOL2-SaveGuard/internal/mailbox"
	"github.com/gooiestman/HOL2-SaveGuard/internal/retention"
	"github.com/gooiestman/HOL2-SaveGuard/internal/signature"
	"github.com/gooiestman/HOL2-SaveGuard/internal/snapshot"
)

// Monitor owns one monitoring session: the signature baseline, the
// check interval, and the serialization of everything that creates or
// deletes snapshots. It runs until its context is cancelled; per-file
// and per-snapshot failures degrade to logged results, never to a loop
// exit.
type Monitor struct {
	sourceDir     string
	backupRoot    string
	targets       []string
	interval      time.Duration
	mode          string
	debounce      time.Duration
	sweepSchedule string
	policy        retention.Policy

	writer  *snapshot.Writer
	retain  *retention.Manager
	tracker *signature.Tracker
	log     logging.Logger
	wake    *mailbox.Mailbox[struct{}]

	// mu serializes check and sweep: no two snapshot-producing or
	// snapshot-deleting operations may overlap on the same backup root.
	mu sync.Mutex
}

func New(cfg *config.Config, writer *snapshot.Writer, retain *retention.Manager, log logging.Logger) *Monitor {
	targets := cfg.TargetFiles()
	return &Monitor{
		sourceDir:     cfg.Source.Path,
		backupRoot:    cfg.Backup.Root,
		targets:       targets,
		interval:      time.Duration(cfg.Source.Watch.IntervalMinutes) * time.Minute,
		mode:          cfg.Source.Watch.Mode,
		debounce:      cfg.Source.Watch.DebounceWindow,
		sweepSchedule: cfg.Backup.SweepSchedule,
		policy: retention.Policy{
			MaxCount:   cfg.Backup.Retention.MaxCount,
			MaxAgeDays: cfg.Backup.Retention.MaxAgeDays,
		},
		writer:  writer,
		retain:  retain,
		tracker: signature.NewTracker(cfg.Source.Path, targets),
		log:     log,
		wake:    mailbox.New[struct{}](),
	}
}

// Run computes the baseline and cycles until ctx is cancelled. An
// in-flight check finishes before Run returns.
func (m *Monitor) Run(ctx context.Context) error {
	if st, err := os.Stat(m.sourceDir); err != nil || !st.IsDir() {
		return fmt.Errorf("%w: %s", snapshot.ErrSourceNotFound, m.sourceDir)
	}

	m.tracker.Commit(m.tracker.Observe())
	m.log.Info("monitoring started",
		"source", m.sourceDir, "interval", m.interval, "targets", len(m.targets))

	if m.sweepSchedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(m.sweepSchedule, m.sweep); err != nil {
			return fmt.Errorf("retention sweep schedule: %w", err)
		}
		c.Start()
		defer func() { <-c.Stop().Done() }()
	}

	if m.notifyEnabled() {
		go func() {
			if err := m.watch(ctx); err != nil {
				m.log.Warn("fsnotify watch stopped, interval checks continue", "error", err)
			}
		}()
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Info("monitoring stopped")
			return nil
		case <-ticker.C:
			m.check(ctx)
		case <-m.wake.Signal():
			m.wake.TryTake()
			m.check(ctx)
		}
	}
}

func (m *Monitor) notifyEnabled() bool {
	switch m.mode {
	case "fsnotify":
		return true
	case "auto":
		res := fsprobe.Probe(m.sourceDir)
		if !res.FsnotifySupported {
			m.log.Warn("fsnotify disabled, polling only", "reason", res.Reason)
			return false
		}
		return true
	default:
		return false
	}
}

// check recomputes all signatures; any difference (including absence
// transitions) marks the whole set changed and triggers one snapshot
// followed by retention. The baseline is re-committed for every file
// afterwards. A silent cycle writes nothing at all.
func (m *Monitor) check(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur := m.tracker.Observe()
	if !m.tracker.Changed(cur) {
		m.log.Debug("no changes detected")
		return
	}

	res, err := m.writer.Write(ctx, m.sourceDir, m.targets, snapshot.ReasonAutoTimer)
	if err != nil {
		m.log.Error("snapshot failed", "error", err)
		return
	}
	if !res.Success {
		m.log.Warn("snapshot wrote no files", "dir", res.Path)
	}

	m.retain.Cleanup(m.backupRoot, m.policy)
	m.tracker.Commit(cur)
}

// sweep is the cron-scheduled retention pass. It ages out snapshots on
// a clock even when no saves change, under the same serialization lock
// as check.
func (m *Monitor) sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := m.retain.Cleanup(m.backupRoot, m.policy)
	m.log.Debug("scheduled retention sweep", "removed", removed)
}
