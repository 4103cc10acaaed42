package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"sheetsplit/adapters/excel"
	"sheetsplit/domain/sheet"
	"sheetsplit/internal/logging"
	"sheetsplit/internal/splitter"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "sheetsplit",
		Short:         "Inspect how sheetsplit partitions a workbook",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newPlanCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newPlanCmd() *cobra.Command {
	var sheetName string

	cmd := &cobra.Command{
		Use:   "plan [file]",
		Short: "Show which data rows would land in each output file",
		Long: `Decode a local workbook and print the partition plan without writing any files.

Example: sheetsplit plan orders.xlsx --sheet Data`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			reader := excel.NewReader(excel.ReaderConfig{SheetName: sheetName, TrimHeader: true}, nil)
			ds, err := reader.Decode(args[0], data)
			if err != nil {
				return err
			}
			return renderPlan(cmd.OutOrStdout(), ds)
		},
	}

	cmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet to read (defaults to the first sheet)")

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the sheetsplit version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), logging.Version())
		},
	}
}

// renderPlan prints the header, row totals and one table line per output file
func renderPlan(w io.Writer, ds *sheet.Dataset) error {
	total := ds.RowCount()
	kept := splitter.Truncated(total)

	fmt.Fprintf(w, "Columns: %d\n", len(ds.Header))
	fmt.Fprintf(w, "Data rows: %d (kept %d)\n", total, kept)

	plan := splitter.Plan(total)
	if len(plan) == 0 {
		fmt.Fprintln(w, "No data rows after the header; nothing to split.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("File", "Rows", "First row", "Last row")
	for _, b := range plan {
		chunk := sheet.Chunk{Index: b.Index}
		// Sheet row numbers are offset by one for the header.
		row := []string{chunk.FileName(), strconv.Itoa(b.Rows), strconv.Itoa(b.First + 1), strconv.Itoa(b.Last + 1)}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}
