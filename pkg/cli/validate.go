package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/seedapi/pkg/cli/internal/output"
	"github.com/getmockd/seedapi/pkg/config"
	"github.com/getmockd/seedapi/pkg/seed"
	"github.com/getmockd/seedapi/pkg/stateful"
)

// CollectionReport describes one collection of a validated seed.
type CollectionReport struct {
	Name    string `json:"name"`
	Items   int    `json:"items"`
	Skipped int    `json:"skipped,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// ValidateOutput is the result of validating a seed document. Clean is false
// when any collection produced a warning.
type ValidateOutput struct {
	Source      string             `json:"source"`
	Clean       bool               `json:"clean"`
	Collections []CollectionReport `json:"collections"`
	Ignored     []string           `json:"ignored,omitempty"`
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [seed-file]",
		Short: "Parse a seed document and report what would be served",
		Long: `Parse a seed document without starting the server. Each collection is
reported with its item count; keys that are not arrays and elements that are not
objects are reported as warnings. The seed file defaults to the configured one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				cfg, err := config.LoadAll(configFile)
				if err != nil {
					return err
				}
				path = cfg.SeedFile
			}

			out, err := validateSeed(cmd, path)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if jsonOutput {
				return output.JSON(w, out)
			}

			fmt.Fprintf(w, "Seed: %s\n\n", out.Source)
			tw := output.Table(w)
			fmt.Fprintln(tw, "COLLECTION\tITEMS\tNOTES")
			for _, c := range out.Collections {
				notes := c.Warning
				if c.Skipped > 0 {
					if notes != "" {
						notes += "; "
					}
					notes += fmt.Sprintf("%d non-object elements skipped", c.Skipped)
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Name, c.Items, notes)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			for _, key := range out.Ignored {
				output.Warn(cmd.ErrOrStderr(), "key %q is not a collection and is ignored", key)
			}
			return nil
		},
	}
}

// validateSeed loads path and reports every collection. Read and parse
// failures are returned as errors.
func validateSeed(cmd *cobra.Command, path string) (*ValidateOutput, error) {
	snap, err := seed.NewFileSource(path).Load(cmd.Context())
	if err != nil {
		return nil, err
	}

	out := &ValidateOutput{Source: snap.Source, Clean: true}
	known := make(map[string]bool, len(stateful.CollectionNames))
	for _, name := range stateful.CollectionNames {
		known[name] = true

		records, skipped, err := snap.Collection(name)
		report := CollectionReport{Name: name, Items: len(records), Skipped: skipped}
		var shapeErr *seed.ShapeError
		if errors.As(err, &shapeErr) {
			report.Warning = shapeErr.Error()
		}
		if report.Warning != "" || report.Skipped > 0 {
			out.Clean = false
		}
		out.Collections = append(out.Collections, report)
	}

	for _, key := range snap.Keys() {
		if !known[key] {
			out.Ignored = append(out.Ignored, key)
		}
	}
	return out, nil
}
