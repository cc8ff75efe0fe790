// Command fiver is a local file versioning tool: it records revisions of
// files as binary deltas in a flat storage directory and reconstructs,
// compares or restores any recorded revision.
package main

import (
	"fmt"
	"os"

	"fiver/cmd/fiver/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fiver: error: %v\n", err)
		os.Exit(1)
	}
}
