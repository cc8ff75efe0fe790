package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fiver/internal/cli/output"
)

var statusJSON bool

var statusCmd = &cobra.Command{
	Use:   "status <file>",
	Short: "Show current status of a file",
	Long: `Report whether a file is tracked, its latest version, and whether the
working copy differs from the latest recorded revision.

Examples:
  fiver status document.pdf
  fiver status document.pdf --json`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output in JSON format")
}

// Working-copy states relative to the latest revision.
const (
	stateClean    = "up to date"
	stateModified = "modified"
	stateMissing  = "missing"
)

func runStatus(cmd *cobra.Command, args []string) error {
	path := args[0]
	st, err := openStore()
	if err != nil {
		return err
	}

	latest, tracked, err := st.Latest(path)
	if err != nil {
		return err
	}

	result := struct {
		File     string `json:"file"`
		Tracked  bool   `json:"tracked"`
		Latest   int    `json:"latest,omitempty"`
		Versions int    `json:"versions,omitempty"`
		State    string `json:"state,omitempty"`
		Message  string `json:"lastMessage,omitempty"`
	}{File: path, Tracked: tracked}

	if tracked {
		m, err := st.LoadMeta(path, latest)
		if err != nil {
			return err
		}
		stored, err := st.Reconstruct(path, latest)
		if err != nil {
			return err
		}
		result.Latest = latest
		result.Versions = latest
		result.Message = m.Message

		working, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			result.State = stateMissing
		case err != nil:
			return fmt.Errorf("read %s: %w", path, err)
		case bytes.Equal(working, stored):
			result.State = stateClean
		default:
			result.State = stateModified
		}
	}

	if statusJSON {
		return output.PrintJSON(os.Stdout, result)
	}
	if !tracked {
		info("%s is not tracked", path)
		return nil
	}
	info("%s: %d version(s), latest v%d, working copy %s", path, result.Versions, latest, result.State)
	return nil
}
