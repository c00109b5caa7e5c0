package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/getmockd/seedapi/pkg/cli/internal/output"
	"github.com/getmockd/seedapi/pkg/config"
)

// ConfigOutput is the effective configuration with the source of each value.
type ConfigOutput struct {
	Config  *config.Config    `json:"config"`
	Sources map[string]string `json:"sources"`
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show effective configuration",
		Long: `Show the configuration serve would use, merged from defaults, the config
file and SEEDAPI_* environment variables. Each value's source is listed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadAll(configFile)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				return output.JSON(w, ConfigOutput{Config: cfg, Sources: cfg.Sources})
			}

			if err := output.YAML(w, cfg); err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}

			keys := make([]string, 0, len(cfg.Sources))
			for k := range cfg.Sources {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			fmt.Fprintln(w)
			tw := output.Table(w)
			fmt.Fprintln(tw, "KEY\tSOURCE")
			for _, k := range keys {
				fmt.Fprintf(tw, "%s\t%s\n", k, cfg.Sources[k])
			}
			return tw.Flush()
		},
	}
}
