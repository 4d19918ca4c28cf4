// Package audit appends SaveGuard's plain-text audit trail. One line per
// file-copy outcome and one per restore event, whitespace-delimited:
//
//	2026-08-29_14-03-07 OK Slot0.sav 48216 auto-timer
//	2026-08-29_14-03-07 FAIL Slot1.sav - auto-timer
//	2026-08-29_14-10-42 RESTORE 2026-08-29_14-03-07 2 0
//
// The file is append-only and never rotated or truncated.
package audit

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

const (
	OutcomeOK   = "OK"
	OutcomeFail = "FAIL"

	timeLayout = "2006-01-02_15-04-05"
)

type Log struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Log {
	return &Log{path: path}
}

// FileOutcome records one copy attempt. A negative size is written as
// "-" (failed copies have no meaningful size).
func (l *Log) FileOutcome(outcome, file string, size int64, reason string) error {
	sizeField := "-"
	if size >= 0 {
		sizeField = strconv.FormatInt(size, 10)
	}
	return l.append(fmt.Sprintf("%s %s %s %s %s",
		time.Now().Format(timeLayout), outcome, file, sizeField, reason))
}

// Restore records a completed restore with its per-file counts.
func (l *Log) Restore(fromSnapshot string, restored, failed int) error {
	return l.append(fmt.Sprintf("%s RESTORE %s %d %d",
		time.Now().Format(timeLayout), fromSnapshot, restored, failed))
}

func (l *Log) append(line string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("appending audit log: %w", err)
	}
	return nil
}
