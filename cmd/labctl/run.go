package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/labplot/internal/core"
	"github.com/JonMunkholm/labplot/internal/export"
	"github.com/JonMunkholm/labplot/internal/plot"
)

type runOptions struct {
	files   map[string]string
	params  map[string]string
	date    string
	deck    bool
	project bool
	pngs    bool
	outDir  string
	width   int
	height  int
}

func newRunCommand() *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run <workflow>",
		Short: "Run a workflow on local files",
		Long: `Run projects the given files, builds the workflow's graphs and renders
them. Slide bundles and the project archive are written to --out when asked for.`,
		Example: `  labctl run ppms --file datafile=run42.dat --param pressure=1.5 --png
  labctl run dewar --file cooling=c.dat --file warming=w.dat --param pressure=2 --deck --project`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWorkflow(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.StringToStringVar(&opts.files, "file", nil, "input file as field=path (repeatable)")
	f.StringToStringVar(&opts.params, "param", nil, "numeric parameter as name=value (repeatable)")
	f.StringVar(&opts.date, "date", time.Now().Format("2006-01-02"), "date shown on the graphs")
	f.BoolVar(&opts.deck, "deck", false, "write the slide bundle")
	f.BoolVar(&opts.project, "project", false, "write the project archive")
	f.BoolVar(&opts.pngs, "png", false, "write every graph as a PNG file")
	f.StringVarP(&opts.outDir, "out", "o", ".", "output directory")
	f.IntVar(&opts.width, "width", 1200, "graph width in pixels")
	f.IntVar(&opts.height, "height", 800, "graph height in pixels")
	return cmd
}

func runWorkflow(cmd *cobra.Command, key string, opts runOptions) error {
	wf, err := core.LookupWorkflow(key)
	if err != nil {
		return fmt.Errorf("%w (known: %s)", err, knownWorkflows())
	}

	req := core.Request{
		Workflow: wf.Key,
		Files:    make(map[string]core.File, len(opts.files)),
		Params: core.Params{
			Numbers:     make(map[string]float64, len(opts.params)),
			Date:        opts.date,
			CreateDeck:  opts.deck,
			SaveProject: opts.project,
		},
	}
	for field, path := range opts.files {
		fh, err := os.Open(path)
		if err != nil {
			return err
		}
		defer fh.Close()
		req.Files[field] = core.File{Name: path, Data: fh}
	}
	for name, raw := range opts.params {
		v, err := core.ParseNumber(name, raw)
		if err != nil {
			return err
		}
		req.Params.Numbers[name] = v
	}

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return err
	}
	svc := core.NewService(plot.NewChartHost(opts.width, opts.height), export.New(opts.outDir, ""))

	res, err := svc.Run(cmd.Context(), req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.pngs {
		for _, a := range res.Artifacts {
			path := filepath.Join(opts.outDir, a.Name+".png")
			if err := os.WriteFile(path, a.PNG, 0o644); err != nil {
				return err
			}
			fmt.Fprintln(out, "wrote", path)
		}
	}
	for _, path := range []string{res.Deck, res.Project} {
		if path != "" {
			fmt.Fprintln(out, "wrote", path)
		}
	}
	fmt.Fprintf(out, "%s (%d graphs, %d rows)\n", res.Message, res.Graphs, res.Rows)
	return nil
}

func knownWorkflows() string {
	var keys []string
	for _, wf := range core.Workflows() {
		keys = append(keys, wf.Key)
	}
	return strings.Join(keys, ", ")
}
