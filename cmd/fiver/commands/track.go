package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var trackMessage string

var trackCmd = &cobra.Command{
	Use:   "track <file>",
	Short: "Track a new version of a file",
	Long: `Record the current contents of a file as its next revision.

The first track of a file stores it whole; every later track stores only a
delta against the previous revision.

Examples:
  fiver track document.pdf
  fiver track document.pdf --message "Added new chapter"`,
	Args: cobra.ExactArgs(1),
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().StringVarP(&trackMessage, "message", "m", "", "message for this version")
}

func runTrack(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	m, err := st.Track(path, data, trackMessage)
	if err != nil {
		return err
	}

	success("Tracked %s as version %d (%d ops, %s delta)",
		path, m.Version, m.OperationCount, formatBytes(uint64(m.DeltaSize)))
	return nil
}
