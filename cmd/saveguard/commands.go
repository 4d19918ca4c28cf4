package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gooiestman/HOL2-SaveGuard/internal/audit"
	"github.com/gooiestman/HOL2-SaveGuard/internal/config"
	"github.com/gooiestman/HOL2-SaveGuard/internal/fs"
	"github.com/gooiestman/HOL2-SaveGuard/internal/logging"
	"github.com/gooiestman/HOL2-SaveGuard/internal/monitor"
	"github.com/gooiestman/HOL2-SaveGuard/internal/restore"
	"github.com/gooiestman/HOL2-SaveGuard/internal/retention"
	"github.com/gooiestman/HOL2-SaveGuard/internal/snapshot"
)

// app bundles the wired-up core components behind the CLI.
type app struct {
	cfg    *config.Config
	fs     fs.FS
	log    logging.Logger
	audit  *audit.Log
	writer *snapshot.Writer
	retain *retention.Manager
}

func buildApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Backup.Root, 0o755); err != nil {
		return nil, fmt.Errorf("creating backup root: %w", err)
	}

	log := logging.New(cfg.Logging)
	filesystem := fs.New(cfg.Backup.MaxAttempts, cfg.Backup.RetryDelay)
	auditLog := audit.New(cfg.Backup.AuditLog)

	return &app{
		cfg:    cfg,
		fs:     filesystem,
		log:    log,
		audit:  auditLog,
		writer: snapshot.NewWriter(cfg.Backup.Root, filesystem, log, auditLog),
		retain: retention.New(log),
	}, nil
}

func (a *app) policy() retention.Policy {
	return retention.Policy{
		MaxCount:   a.cfg.Backup.Retention.MaxCount,
		MaxAgeDays: a.cfg.Backup.Retention.MaxAgeDays,
	}
}

func newMonitorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Watch the save directory and back up on change",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			m := monitor.New(a.cfg, a.writer, a.retain, a.log)
			return m.Run(ctx)
		},
	}
}

func newBackupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Take one snapshot now",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			res, err := a.writer.Write(ctx, a.cfg.Source.Path, a.cfg.TargetFiles(), snapshot.ReasonManual)
			if err != nil {
				return err
			}
			a.retain.Cleanup(a.cfg.Backup.Root, a.policy())

			printResult(cmd, res)
			if !res.Success {
				return fmt.Errorf("no files were backed up")
			}
			return nil
		},
	}
}

func newSnapshotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshots",
		Short: "List existing snapshots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}

			snaps, err := restore.ListNewestFirst(a.cfg.Backup.Root)
			if err != nil {
				return err
			}
			if len(snaps) == 0 {
				cmd.Println("no snapshots yet")
				return nil
			}

			shown := snaps
			if len(shown) > restore.ListLimit {
				shown = shown[:restore.ListLimit]
			}
			for i, s := range shown {
				files, _ := s.Files()
				var total int64
				for _, name := range files {
					if info, err := a.fs.Stat(filepath.Join(s.Path, name)); err == nil {
						total += info.Size
					}
				}
				cmd.Printf("%2d  %s  %d file(s)  %s\n", i+1, s.Name, len(files), humanize.Bytes(uint64(total)))
			}
			if len(snaps) > len(shown) {
				cmd.Printf("... and %d more\n", len(snaps)-len(shown))
			}
			return nil
		},
	}
}

func newRestoreCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "restore <snapshot|number>",
		Short: "Restore save files from a snapshot (takes a safety backup first)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp()
			if err != nil {
				return err
			}

			snaps, err := restore.ListNewestFirst(a.cfg.Backup.Root)
			if err != nil {
				return err
			}

			sel, err := selectSnapshot(snaps, args[0])
			if err != nil {
				return err
			}

			if !yes && !confirm(cmd, sel.Name) {
				cmd.Println("aborted")
				return nil
			}

			ctx, cancel := signalContext()
			defer cancel()

			coord := restore.New(a.fs, a.log, a.audit, a.writer, a.cfg.Restore.RequireSafetyBackup)
			res, err := coord.Restore(ctx, sel, a.cfg.Source.Path, a.cfg.TargetFiles())
			if err != nil {
				return err
			}

			cmd.Printf("restored %d file(s), %d failed\n", res.Restored, res.Failed)
			if res.Failed > 0 {
				return fmt.Errorf("restore completed with failures")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	return cmd
}

// selectSnapshot resolves either a 1-based index from the snapshots
// listing or a canonical snapshot name.
func selectSnapshot(snaps []snapshot.Snapshot, arg string) (snapshot.Snapshot, error) {
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 1 || n > len(snaps) {
			return snapshot.Snapshot{}, fmt.Errorf("snapshot number %d out of range 1..%d", n, len(snaps))
		}
		return snaps[n-1], nil
	}
	for _, s := range snaps {
		if s.Name == arg {
			return s, nil
		}
	}
	return snapshot.Snapshot{}, fmt.Errorf("no snapshot named %q", arg)
}

// confirm requires the user to type YES before overwriting live saves.
func confirm(cmd *cobra.Command, name string) bool {
	cmd.Printf("This overwrites your current save files from %s.\nType YES to continue: ", name)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line) == "YES"
}

func printResult(cmd *cobra.Command, res snapshot.Result) {
	cmd.Printf("snapshot: %s\n", res.Path)
	for _, f := range res.Files {
		if f.OK {
			cmd.Printf("  OK   %s (%s)\n", f.Name, humanize.Bytes(uint64(f.Size)))
		} else {
			cmd.Printf("  FAIL %s\n", f.Name)
		}
	}
	if len(res.Files) == 0 {
		cmd.Println("  no save files present")
	}
}
