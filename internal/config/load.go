package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// replaces $(VAR) with os.Getenv(VAR)
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		key := mapEnvKey(envPattern.FindStringSubmatch(m)[1])
		return os.Getenv(key)
	})
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// expand $(ENV_VAR) placeholders before unmarshalling
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Source.Watch.Mode == "" {
		c.Source.Watch.Mode = "poll"
	}
	if c.Source.Watch.IntervalMinutes == 0 {
		c.Source.Watch.IntervalMinutes = 5
	}
	if c.Source.Watch.DebounceWindow == 0 {
		c.Source.Watch.DebounceWindow = 500 * time.Millisecond
	}
	if !c.Source.Slots.All && len(c.Source.Slots.Indices) == 0 {
		c.Source.Slots.All = true
	}
	if c.Backup.MaxAttempts == 0 {
		c.Backup.MaxAttempts = 5
	}
	if c.Backup.RetryDelay == 0 {
		c.Backup.RetryDelay = 500 * time.Millisecond
	}
	if c.Backup.AuditLog == "" && c.Backup.Root != "" {
		c.Backup.AuditLog = filepath.Join(c.Backup.Root, "saveguard.log")
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = 14
	}
}

func (c *Config) Validate() error {
	if c.Source.Path == "" {
		return fmt.Errorf("source.path is required")
	}
	if c.Backup.Root == "" {
		return fmt.Errorf("backup.root is required")
	}
	if n := c.Source.Watch.IntervalMinutes; n < 1 || n > 60 {
		return fmt.Errorf("source.watch.intervalMinutes must be 1..60, got %d", n)
	}
	switch c.Source.Watch.Mode {
	case "auto", "poll", "fsnotify":
	default:
		return fmt.Errorf("source.watch.mode must be auto, poll or fsnotify, got %q", c.Source.Watch.Mode)
	}
	if c.Backup.MaxAttempts < 1 {
		return fmt.Errorf("backup.maxAttempts must be >= 1, got %d", c.Backup.MaxAttempts)
	}
	if c.Backup.RetryDelay < 0 {
		return fmt.Errorf("backup.retryDelay must not be negative")
	}
	if c.Backup.Retention.MaxCount < 0 || c.Backup.Retention.MaxAgeDays < 0 {
		return fmt.Errorf("backup.retention limits must not be negative")
	}
	if s := c.Backup.SweepSchedule; s != "" {
		if _, err := cron.ParseStandard(s); err != nil {
			return fmt.Errorf("backup.sweepSchedule: %w", err)
		}
	}
	return nil
}
