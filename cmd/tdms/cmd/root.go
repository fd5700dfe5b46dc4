package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// commandRan marks that a command got past argument validation; it keeps
// usage errors (exit 2) apart from run failures (exit 1).
var commandRan bool

var rootCmd = &cobra.Command{
	Use:   "tdms",
	Short: "tdms - inspect National Instruments TDMS files",
	Long: `tdms decodes the on-disk structure of NI TDMS files without a vendor SDK,
for schema verification, data-location discovery and reverse engineering.

Examples:
  tdms structure capture.tdms                  # write capture.tdms.structure.xml
  tdms structure capture.tdms report.xml       # explicit report path
  tdms structure --format yaml capture.tdms    # YAML report`,
	Version: "1.0.0",
}

// Execute runs the root command. A usage error exits with 2, a failed run
// (unreadable input, decode error, report write error) with 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		if commandRan {
			os.Exit(1)
		}
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
