package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fiver/internal/cli/output"
	"fiver/internal/store"
)

var listFormat string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tracked files",
	Long: `List every tracked file with its version count and cumulative delta size.

Examples:
  fiver list
  fiver list --format json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVar(&listFormat, "format", "table", "output format (table, json)")
}

// summaryTable renders per-file summaries as a table.
type summaryTable []store.Summary

func (st summaryTable) Headers() []string {
	return []string{"NAME", "VERSIONS", "LAST TRACKED", "TOTAL DELTA"}
}

func (st summaryTable) Rows() [][]string {
	rows := make([][]string, 0, len(st))
	for _, s := range st {
		rows = append(rows, []string{
			s.Name,
			fmt.Sprintf("%d", s.Versions),
			s.LastTracked.Format("2006-01-02 15:04:05"),
			formatBytes(s.TotalDeltaBytes),
		})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	summaries, err := st.Summaries()
	if err != nil {
		return err
	}

	if listFormat == "json" {
		return output.PrintJSON(os.Stdout, summaries)
	}
	if len(summaries) == 0 {
		info("No tracked files.")
		return nil
	}
	return output.PrintTable(os.Stdout, summaryTable(summaries))
}
