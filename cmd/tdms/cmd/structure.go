package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/totonga/tdms-tools/pkg/report"
	"github.com/totonga/tdms-tools/pkg/tdms"
)

var (
	reportFormat string
)

var structureCmd = &cobra.Command{
	Use:   "structure <tdms-file> [report-file]",
	Short: "Dump the segment structure of a TDMS file into a report",
	Long: `Walk a TDMS file segment by segment and write its structure (lead-ins,
object lists, raw-data descriptors, properties, chunk geometry) into a
tree-structured report. Raw sample data is not decoded, only located.

When no report file is given, the report is written next to the input as
<tdms-file>.structure.<format>.

Examples:
  tdms structure capture.tdms
  tdms structure capture.tdms /tmp/report.xml
  tdms structure --format yaml capture.tdms`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runStructure,
}

func init() {
	rootCmd.AddCommand(structureCmd)

	structureCmd.Flags().StringVarP(&reportFormat, "format", "f", "xml",
		"report format: xml or yaml")
}

func newSink(w io.Writer) report.Sink {
	if reportFormat == "yaml" {
		return report.NewYAMLSink(w)
	}
	return report.NewXMLSink(w)
}

func runStructure(cmd *cobra.Command, args []string) error {
	if reportFormat != "xml" && reportFormat != "yaml" {
		return fmt.Errorf("unknown report format %q (want xml or yaml)", reportFormat)
	}

	input := args[0]
	output := input + ".structure." + reportFormat
	if len(args) > 1 {
		output = args[1]
	}

	// Argument validation is done; anything failing from here on is a
	// run failure, not a usage error.
	commandRan = true
	cmd.SilenceUsage = true

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	sink := newSink(out)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr,
			&slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	// Flush the sink even when decoding fails so the report file always
	// covers everything decoded up to the failure point.
	decodeErr := tdms.DumpStructure(input, sink, logger)
	flushErr := sink.Flush()
	closeErr := out.Close()

	if decodeErr != nil {
		return fmt.Errorf("decode %s: %w", input, decodeErr)
	}
	if flushErr != nil {
		return fmt.Errorf("write report: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close report: %w", closeErr)
	}

	fmt.Printf("Structure written to %s\n", output)
	return nil
}
