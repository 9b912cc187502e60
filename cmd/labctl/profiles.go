package main

import (
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/labplot/internal/core"
	"github.com/JonMunkholm/labplot/internal/ingest"
)

func newProfilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List instrument profiles and the workflows that use them",
		Example: `  labctl profiles
  labctl profiles --profiles extra.tsv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			users := make(map[string][]string)
			for _, wf := range core.Workflows() {
				users[wf.Profile] = append(users[wf.Profile], wf.Key)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Header", "Columns", "Rules", "Workflows"})
			for _, p := range ingest.Profiles() {
				t.AppendRow(table.Row{p.ID, headerLabel(p.HeaderSkip), columnsLabel(p), rulesLabel(p), strings.Join(users[p.ID], ", ")})
			}
			t.Render()
			return nil
		},
	}
}

func headerLabel(skip int) string {
	if skip == ingest.AutoDetect {
		return "[Data]"
	}
	return "skip " + strconv.Itoa(skip)
}

func columnsLabel(p ingest.InstrumentProfile) string {
	parts := make([]string, len(p.SourceColumns))
	for i, pos := range p.SourceColumns {
		parts[i] = strconv.Itoa(pos) + ":" + p.OutputNames[i]
	}
	return strings.Join(parts, " ")
}

func rulesLabel(p ingest.InstrumentProfile) string {
	var rules []string
	if q := p.Quantize; q != nil {
		rules = append(rules, "ceil "+q.Column+"/"+strconv.FormatFloat(q.Step, 'g', -1, 64))
	}
	if p.DropIncomplete {
		rules = append(rules, "drop incomplete")
	}
	return strings.Join(rules, ", ")
}
