package main

import (
	"fmt"
	"math"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/labplot/internal/ingest"
)

func newInspectCommand() *cobra.Command {
	var profileID string

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show how a file is sniffed and projected",
		Long: `Inspect reads one instrument export with the given profile and prints the
detected delimiter, header offset and encoding, followed by a summary of
every projected column.`,
		Example: `  labctl inspect run42.dat --profile ppms`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := ingest.Lookup(profileID)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			t, err := ingest.Project(f, p)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			meta := t.Meta()
			fmt.Fprintf(out, "delimiter:     %q\n", meta.Delimiter)
			fmt.Fprintf(out, "header offset: %d\n", meta.HeaderOffset)
			fmt.Fprintf(out, "encoding:      %s", meta.Encoding)
			if meta.Degraded {
				fmt.Fprint(out, " (not valid UTF-8)")
			}
			fmt.Fprintf(out, "\nrows:          %d (%d dropped)\n", t.Len(), meta.Dropped)

			return summarize(cmd, t)
		},
	}

	cmd.Flags().StringVarP(&profileID, "profile", "p", ingest.ProfilePPMS, "instrument profile id")
	return cmd
}

// summarize prints count, range and mean of every column, ignoring missing cells.
func summarize(cmd *cobra.Command, t *ingest.Table) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(cmd.OutOrStdout())
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Column", "Values", "Missing", "Min", "Max", "Mean"})

	for _, name := range t.Columns() {
		c, err := t.Col(name)
		if err != nil {
			return err
		}
		var data stats.Float64Data
		for _, v := range t.Values(c) {
			if !math.IsNaN(v) {
				data = append(data, v)
			}
		}
		missing := t.Len() - len(data)
		if len(data) == 0 {
			tw.AppendRow(table.Row{name, 0, missing, "", "", ""})
			continue
		}

		lo, _ := data.Min()
		hi, _ := data.Max()
		mean, _ := data.Mean()
		tw.AppendRow(table.Row{name, len(data), missing, format(lo), format(hi), format(mean)})
	}
	tw.Render()
	return nil
}

func format(v float64) string {
	return fmt.Sprintf("%.6g", v)
}
