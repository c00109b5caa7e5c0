package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Persistent flags available to all subcommands
	configFile string
	jsonOutput bool

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seedapi",
		Short: "seedapi serves seed data as an in-memory REST API",
		Long: `seedapi loads companies, cities, tags, jobs and cvs from a seed document
and serves them under /api/<name> with list, get, create, update and delete.
Changes live in memory only; POST /api/_reset restores the seed.

Configuration can be provided via flags, SEEDAPI_* environment variables, or a
.seedapirc.yaml file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true, // We handle errors in Execute()
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to a config file (default: ./.seedapirc.yaml when present)")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")

	cmd.AddCommand(newServeCmd(), newValidateCmd(), newConfigCmd(), newVersionCmd())
	return cmd
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
