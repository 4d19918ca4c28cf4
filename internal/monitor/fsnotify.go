package monitor

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watch feeds debounced save-directory events into the wake mailbox.
// The mailbox coalesces bursts (games write several files per save)
// into at most one pending wake-up; the main loop still decides whether
// anything actually changed by comparing signatures.
func (m *Monitor) watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(m.sourceDir); err != nil {
		return err
	}

	isTarget := make(map[string]bool, len(m.targets))
	for _, name := range m.targets {
		isTarget[name] = true
	}

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isTarget[filepath.Base(ev.Name)] {
				continue
			}
			m.log.Debug("save file event", "name", ev.Name, "op", ev.Op.String())

			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(m.debounce, func() {
				m.wake.Put(struct{}{})
			})

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			m.log.Warn("fsnotify error", "error", err)
		}
	}
}
