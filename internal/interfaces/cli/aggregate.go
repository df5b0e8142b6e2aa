package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gizitrack/stuntmap/internal/app"
	"github.com/gizitrack/stuntmap/internal/application/analytics"
)

type aggregateOptions struct {
	regions    []string
	facilities []string
	jsonOut    bool
}

func newAggregateCommand(opts *RootOptions) *cobra.Command {
	aggOpts := &aggregateOptions{}

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Run the aggregation once and print the per-region statistics",
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

			ds, err := components.Service.Dataset(cmd.Context(), analytics.Selection{
				Regions:    aggOpts.regions,
				Facilities: aggOpts.facilities,
			})
			if err != nil {
				return err
			}

			if aggOpts.jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(ds)
			}
			printDataset(cmd, ds)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&aggOpts.regions, "region", nil, "restrict to these regions (repeatable; omit for all)")
	cmd.Flags().StringSliceVar(&aggOpts.facilities, "facility", nil, "restrict to these facilities (repeatable; omit for all)")
	cmd.Flags().BoolVar(&aggOpts.jsonOut, "json", false, "emit the full dataset as JSON")
	return cmd
}

func printDataset(cmd *cobra.Command, ds *analytics.Dataset) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REGION\tTOTAL\tSTUNTING\tPCT\tCATEGORY\tPREDICTION")
	for _, row := range ds.Stats {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%s\t%s\n",
			row.RawName, row.Total, row.Stunting, row.Percentage, row.Category, row.Prediction)
	}
	w.Flush()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%d records, %d stunting (%.2f%%) across %d regions\n",
		ds.Summary.TotalRecords, ds.Summary.TotalStunting,
		ds.Summary.OverallPercentage, ds.Summary.RegionCount)

	if len(ds.Diagnostics.UnmatchedStatsNames) > 0 {
		fmt.Fprintf(out, "warning: regions without boundary match: %v\n",
			ds.Diagnostics.UnmatchedStatsNames)
	}
}
