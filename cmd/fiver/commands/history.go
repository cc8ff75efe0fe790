package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fiver/internal/cli/output"
	"fiver/internal/store"
)

var (
	historyFormat string
	historyLimit  int
)

var historyCmd = &cobra.Command{
	Use:   "history <file>",
	Short: "Show version history of a file",
	Long: `List every recorded revision of a file, oldest first.

Examples:
  fiver history document.pdf
  fiver history document.pdf --format json
  fiver history document.pdf --limit 5`,
	Args: cobra.ExactArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyFormat, "format", "table", "output format (table, json, brief)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "show only the last N versions")
}

// versionEntry is the JSON projection of one revision's metadata.
type versionEntry struct {
	Version   uint32    `json:"version"`
	Tracked   time.Time `json:"tracked"`
	RefSize   uint32    `json:"refSize"`
	DeltaSize uint32    `json:"deltaSize"`
	Ops       uint32    `json:"ops"`
	Checksum  string    `json:"checksum"`
	Message   string    `json:"message,omitempty"`
}

// historyTable renders version metadata as a table.
type historyTable []versionEntry

func (ht historyTable) Headers() []string {
	return []string{"VERSION", "DATE", "REF SIZE", "DELTA", "OPS", "MESSAGE"}
}

func (ht historyTable) Rows() [][]string {
	rows := make([][]string, 0, len(ht))
	for _, e := range ht {
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.Version),
			e.Tracked.Format("2006-01-02 15:04:05"),
			formatBytes(uint64(e.RefSize)),
			formatBytes(uint64(e.DeltaSize)),
			fmt.Sprintf("%d", e.Ops),
			e.Message,
		})
	}
	return rows
}

func runHistory(cmd *cobra.Command, args []string) error {
	path := args[0]
	st, err := openStore()
	if err != nil {
		return err
	}

	versions, err := st.Versions(path)
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		return fmt.Errorf("%s: %w", path, store.ErrNotTracked)
	}
	if historyLimit > 0 && len(versions) > historyLimit {
		versions = versions[len(versions)-historyLimit:]
	}

	entries := make([]versionEntry, 0, len(versions))
	for _, v := range versions {
		m, err := st.LoadMeta(path, v)
		if err != nil {
			return err
		}
		entries = append(entries, versionEntry{
			Version:   m.Version,
			Tracked:   m.Timestamp,
			RefSize:   m.OriginalSize,
			DeltaSize: m.DeltaSize,
			Ops:       m.OperationCount,
			Checksum:  m.Checksum,
			Message:   m.Message,
		})
	}

	switch historyFormat {
	case "json":
		return output.PrintJSON(os.Stdout, entries)
	case "brief":
		for _, e := range entries {
			fmt.Printf("v%d  %s  %s\n", e.Version, e.Tracked.Format("2006-01-02"), e.Message)
		}
		return nil
	default:
		return output.PrintTable(os.Stdout, historyTable(entries))
	}
}
