// Package commands wires the fiver CLI: six subcommands over a delta
// versioning store (track, diff, history, list, status, restore) plus the
// shared configuration, logging and output plumbing.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fiver/internal/cli/output"
	"fiver/internal/config"
	"fiver/internal/delta"
	"fiver/internal/logger"
	"fiver/internal/meta"
	"fiver/internal/store"
)

var (
	cfg *config.Config

	flagStorageDir string
	flagLogLevel   string
	flagQuiet      bool
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:     "fiver",
	Short:   "A fast file versioning system using delta compression",
	Version: meta.BuildString(),
	Long: `fiver records successive snapshots of files as compact binary deltas.

Each tracked revision is stored as a delta against the previous revision, so
a long history of a large file costs little more than the bytes that actually
changed. Any revision can be reconstructed or restored at any time.

Examples:
  fiver track document.pdf -m "Added new chapter"
  fiver diff document.pdf
  fiver history document.pdf
  fiver restore document.pdf --version 2 -o old_version.pdf`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if flagStorageDir != "" {
			cfg.StorageDir = flagStorageDir
		}
		if flagLogLevel != "" {
			cfg.LogLevel = flagLogLevel
		}
		if flagVerbose {
			cfg.LogLevel = "debug"
		}
		logger.Setup(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
		return nil
	},
}

// Execute runs the CLI and returns the failing command's error, if any.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagStorageDir, "storage-dir", "", "storage directory (overrides config, default .fiver)")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&flagQuiet, "quiet", false, "suppress non-error output")
	pf.BoolVar(&flagVerbose, "verbose", false, "enable verbose (debug) logging")

	rootCmd.AddCommand(trackCmd, diffCmd, historyCmd, listCmd, statusCmd, restoreCmd)
}

// openStore opens the configured storage directory with the configured
// engine tuning.
func openStore() (*store.Store, error) {
	return store.Open(cfg.StorageDir, store.Options{
		MaxVersions: cfg.MaxVersions,
		Params: delta.Params{
			Window:   cfg.Window,
			MinMatch: cfg.MinMatch,
			Buckets:  cfg.Buckets,
		},
	})
}

func success(format string, args ...any) {
	if !flagQuiet {
		output.Success(os.Stdout, format, args...)
	}
}

func info(format string, args ...any) {
	if !flagQuiet {
		output.Info(os.Stdout, format, args...)
	}
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n uint64) string {
	switch {
	case n >= 1<<30:
		return fmt.Sprintf("%.1f GiB", float64(n)/(1<<30))
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
