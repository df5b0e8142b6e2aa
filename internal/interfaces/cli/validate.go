package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gizitrack/stuntmap/internal/app"
	"github.com/gizitrack/stuntmap/internal/application/analytics"
)

func newValidateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load both sources, verify they parse, and report name mismatches",
		Long:  "validate loads the screening records and the boundary catalog exactly\nlike the server would, fails on any load error, and reports region names\nthat do not reconcile between the two sources.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}

			components, err := app.Build(cfg, log)
			if err != nil {
				return err
			}
			defer components.Close()

			ds, err := components.Service.Dataset(cmd.Context(), analytics.Selection{})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "records:    %d rows, %d regions\n", ds.Summary.TotalRecords, ds.Summary.RegionCount)
			fmt.Fprintf(out, "boundaries: %d regions\n", len(ds.Features))

			if len(ds.Diagnostics.UnmatchedStatsKeys) == 0 && len(ds.Diagnostics.UnmatchedFeatureKeys) == 0 {
				fmt.Fprintln(out, "all region names reconcile")
				return nil
			}
			if len(ds.Diagnostics.UnmatchedStatsNames) > 0 {
				fmt.Fprintf(out, "record regions with no boundary: %v\n", ds.Diagnostics.UnmatchedStatsNames)
			}
			if len(ds.Diagnostics.UnmatchedFeatureKeys) > 0 {
				fmt.Fprintf(out, "boundary regions with no records: %v\n", ds.Diagnostics.UnmatchedFeatureKeys)
			}
			return nil
		},
	}
}
