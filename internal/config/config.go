package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// The save files SaveGuard knows how to track. Slot selection expands
// against this fixed set; the profile file rides along when enabled.
const (
	SlotCount   = 4
	slotPattern = "Slot%d.sav"
	ProfileName = "Profile.sav"
)

type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Backup  BackupConfig  `yaml:"backup"`
	Restore RestoreConfig `yaml:"restore"`
	Logging LoggingConfig `yaml:"logging"`
}

type SourceConfig struct {
	Path    string        `yaml:"path"`
	Slots   SlotSelection `yaml:"slots"`
	Profile bool          `yaml:"profile"`
	Watch   WatchConfig   `yaml:"watch"`
}

type WatchConfig struct {
	Mode            string        `yaml:"mode"` // "auto", "poll", "fsnotify"
	IntervalMinutes int           `yaml:"intervalMinutes"`
	DebounceWindow  time.Duration `yaml:"debounceWindow"`
}

type BackupConfig struct {
	Root          string          `yaml:"root"`
	AuditLog      string          `yaml:"auditLog"` // default: <root>/saveguard.log
	MaxAttempts   int             `yaml:"maxAttempts"`
	RetryDelay    time.Duration   `yaml:"retryDelay"`
	Retention     RetentionConfig `yaml:"retention"`
	SweepSchedule string          `yaml:"sweepSchedule"` // cron expression, empty = off
}

type RetentionConfig struct {
	MaxCount   int `yaml:"maxCount"`   // 0 = unbounded
	MaxAgeDays int `yaml:"maxAgeDays"` // 0 = unbounded
}

type RestoreConfig struct {
	// RequireSafetyBackup aborts a restore when the pre-restore safety
	// snapshot fails entirely. Off by default: the safety net is
	// best-effort and a restore is usually wanted most when the live
	// saves are already damaged.
	RequireSafetyBackup bool `yaml:"requireSafetyBackup"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`  // "debug", "info", "warn", "error"
	File       string `yaml:"file"`   // empty = stderr only
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

// SlotSelection is either the scalar "all" or an explicit list of slot
// indices, e.g. `slots: [0, 2]`.
type SlotSelection struct {
	All     bool
	Indices []int
}

func (s *SlotSelection) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var raw string
		if err := value.Decode(&raw); err != nil {
			return err
		}
		if raw != "all" {
			return fmt.Errorf("slots: expected \"all\" or a list of indices, got %q", raw)
		}
		s.All = true
		return nil
	}

	var indices []int
	if err := value.Decode(&indices); err != nil {
		return fmt.Errorf("slots: %w", err)
	}
	for _, i := range indices {
		if i < 0 || i >= SlotCount {
			return fmt.Errorf("slots: index %d out of range 0..%d", i, SlotCount-1)
		}
	}
	s.Indices = indices
	return nil
}

// TargetFiles derives the ordered set of filenames to track: selected
// slots in ascending order, then the profile file when enabled. The
// result is stable for the duration of a monitoring session.
func (c *Config) TargetFiles() []string {
	var names []string

	if c.Source.Slots.All {
		for i := 0; i < SlotCount; i++ {
			names = append(names, fmt.Sprintf(slotPattern, i))
		}
	} else {
		seen := make(map[int]bool, len(c.Source.Slots.Indices))
		for _, i := range c.Source.Slots.Indices {
			if seen[i] {
				continue
			}
			seen[i] = true
			names = append(names, fmt.Sprintf(slotPattern, i))
		}
	}

	if c.Source.Profile {
		names = append(names, ProfileName)
	}
	return names
}
