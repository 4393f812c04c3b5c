package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bricesodini/orch-csv/pkg/mapping"
)

// newValidateCommand creates the validate command.
func (a *App) newValidateCommand() *cobra.Command {
	var mappingFile string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a mapping file",
		Long: `Validate loads a mapping file and checks its shape: alias tables,
project profiles, list/boolean field declarations, and merge key lists.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := mapping.Load(expandUser(mappingFile))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "mapping file OK\n")
			fmt.Fprintf(out, "  aliases:    %d fields\n", len(cfg.Aliases))
			fmt.Fprintf(out, "  projects:   %d profiles\n", len(cfg.Projects))
			fmt.Fprintf(out, "  delimiter:  %s\n", cfg.CSVDelimiter)
			fmt.Fprintf(out, "  encoding:   %s\n", cfg.CSVEncoding)
			if cfg.Extras.All {
				fmt.Fprintf(out, "  extras:     all\n")
			} else {
				fmt.Fprintf(out, "  extras:     %d fields\n", len(cfg.Extras.Fields))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&mappingFile, "mapping", "mapping.yaml", "mapping file to validate")
	return cmd
}
