package commands

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fiver/internal/cli/output"
	"fiver/internal/delta"
	"fiver/internal/diffview"
	"fiver/internal/store"
)

var (
	diffVersion int
	diffJSON    bool
	diffBrief   bool
)

var diffCmd = &cobra.Command{
	Use:   "diff <file>",
	Short: "Show differences between versions",
	Long: `Compare the working file against a stored revision (latest by default).

The comparison reconstructs the stored revision and renders a unified text
patch. With --brief only a summary of the change is printed.

Examples:
  fiver diff document.txt
  fiver diff document.txt --version 2
  fiver diff document.txt --json`,
	Args: cobra.ExactArgs(1),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().IntVarP(&diffVersion, "version", "v", 0, "compare with version N (default: latest)")
	diffCmd.Flags().BoolVar(&diffJSON, "json", false, "output in JSON format")
	diffCmd.Flags().BoolVar(&diffBrief, "brief", false, "show only a summary")
}

func runDiff(cmd *cobra.Command, args []string) error {
	path := args[0]
	st, err := openStore()
	if err != nil {
		return err
	}

	latest, ok, err := st.Latest(path)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: %w", path, store.ErrNotTracked)
	}

	base := diffVersion
	if base == 0 {
		base = latest
	}
	if base < 1 || base > latest {
		return fmt.Errorf("%s: version %d: %w (have 1..%d)", path, base, store.ErrVersionNotFound, latest)
	}

	stored, err := st.Reconstruct(path, base)
	if err != nil {
		return err
	}
	working, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	if diffBrief {
		return briefDiff(path, base, stored, working)
	}

	patch, oversize := diffview.Unified(
		fmt.Sprintf("%s@v%d", path, base), path, stored, working,
		diffview.Options{},
	)
	if diffJSON {
		return output.PrintJSON(os.Stdout, struct {
			File     string `json:"file"`
			Version  int    `json:"version"`
			Patch    string `json:"patch"`
			Oversize bool   `json:"oversize,omitempty"`
		}{path, base, patch, oversize})
	}
	if patch == "" {
		info("%s matches version %d", path, base)
		return nil
	}
	fmt.Print(patch)
	return nil
}

// briefDiff builds a throwaway delta from the stored revision to the working
// file and reports its shape instead of a textual patch.
func briefDiff(path string, base int, stored, working []byte) error {
	d, err := delta.Build(stored, working)
	if err != nil {
		return err
	}
	changed := !bytes.Equal(stored, working)
	if diffJSON {
		return output.PrintJSON(os.Stdout, struct {
			File      string `json:"file"`
			Version   int    `json:"version"`
			Changed   bool   `json:"changed"`
			Ops       int    `json:"ops"`
			DeltaSize uint32 `json:"deltaSize"`
		}{path, base, changed, d.OperationCount(), d.DeltaSize})
	}
	if !changed {
		info("%s matches version %d", path, base)
		return nil
	}
	info("%s differs from version %d: %d ops, %s of new data",
		path, base, d.OperationCount(), formatBytes(uint64(d.DeltaSize)))
	return nil
}
