// Command labctl drives the measurement workflows from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/labplot/internal/ingest"
	"github.com/JonMunkholm/labplot/internal/logging"
)

var (
	profilesFile string
	logLevel     string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "labctl",
		Short: "Inspect instrument exports and run measurement workflows",
		Long: `labctl reads instrument exports the same way the web service does.

Use it to check how a file is sniffed and projected, or to run a workflow
without the browser and write the graphs to disk.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logging.Setup(logLevel, "text")
			if profilesFile == "" {
				return nil
			}
			if _, err := ingest.LoadProfiles(profilesFile); err != nil {
				return err
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&profilesFile, "profiles", os.Getenv("PROFILES_FILE"), "tab-separated file with extra instrument profiles")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newProfilesCommand(),
		newInspectCommand(),
		newRunCommand(),
	)
	return root
}
