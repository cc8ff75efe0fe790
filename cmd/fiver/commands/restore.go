package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fiver/internal/store"
)

var (
	restoreVersion int
	restoreOutput  string
	restoreForce   bool
)

var restoreCmd = &cobra.Command{
	Use:   "restore <file>",
	Short: "Restore a file to a specific version",
	Long: `Reconstruct a stored revision and write it back to disk.

By default the original path is the destination and an existing file is not
overwritten; use --output to write elsewhere or --force to overwrite.

Examples:
  fiver restore document.pdf --version 2
  fiver restore document.pdf --version 1 --output old_version.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runRestore,
}

func init() {
	restoreCmd.Flags().IntVarP(&restoreVersion, "version", "v", 0, "version to restore (required)")
	restoreCmd.Flags().StringVarP(&restoreOutput, "output", "o", "", "output path (default: original path)")
	restoreCmd.Flags().BoolVarP(&restoreForce, "force", "f", false, "overwrite an existing file")
	_ = restoreCmd.MarkFlagRequired("version")
}

func runRestore(cmd *cobra.Command, args []string) error {
	path := args[0]
	st, err := openStore()
	if err != nil {
		return err
	}

	latest, tracked, err := st.Latest(path)
	if err != nil {
		return err
	}
	if !tracked {
		return fmt.Errorf("%s: %w", path, store.ErrNotTracked)
	}
	if restoreVersion < 1 || restoreVersion > latest {
		return fmt.Errorf("%s: version %d: %w (have 1..%d)", path, restoreVersion, store.ErrVersionNotFound, latest)
	}

	data, err := st.Reconstruct(path, restoreVersion)
	if err != nil {
		return err
	}

	dest := restoreOutput
	if dest == "" {
		dest = path
	}
	if !restoreForce {
		if _, err := os.Stat(dest); err == nil {
			return fmt.Errorf("refusing to overwrite %s (use --force)", dest)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}

	success("Restored %s to version %d (%s)", dest, restoreVersion, formatBytes(uint64(len(data))))
	return nil
}
