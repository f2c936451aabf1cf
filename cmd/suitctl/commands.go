package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/config"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/dataset"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/insight"
	"github.com/KerimM-bit/GeoSuit-Dashboard/internal/repository"
)

func load(cmd *cobra.Command, cfg *config.Config) (*dataset.Dataset, error) {
	src, err := dataset.NewSource(cfg.Data)
	if err != nil {
		return nil, err
	}
	return dataset.NewLoader(src).Load(cmd.Context())
}

func districtsCmd(cfg *config.Config) *cobra.Command {
	var table string

	cmd := &cobra.Command{
		Use:   "districts",
		Short: "List the districts of a table in sorted order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ds, err := load(cmd, cfg)
			if err != nil {
				return err
			}

			var names []string
			switch table {
			case "binary":
				names = dataset.Districts(ds.Binary)
			case "ndvi":
				names = dataset.Districts(ds.Ndvi)
			default:
				return fmt.Errorf("unknown table %q, want binary or ndvi", table)
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&table, "table", "t", "binary", "table to list: binary or ndvi")
	return cmd
}

func summaryCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "summary [district]",
		Short: "Print total, suitable area and suitable share of a district",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := load(cmd, cfg)
			if err != nil {
				return err
			}

			rows := ds.BinaryFor(args[0])
			if len(rows) == 0 {
				return fmt.Errorf("district %q not found in the binary table", args[0])
			}
			for _, m := range insight.Summarize(rows).Metrics() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", m.Label, m.Value)
			}
			return nil
		},
	}
}

func insightCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "insight [district]",
		Short: "Compare mean NDVI of suitable and unsuitable land in a district",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := load(cmd, cfg)
			if err != nil {
				return err
			}

			ins, err := insight.Ndvi(args[0], ds.NdviFor(args[0]))
			var missing *insight.MissingClassError
			if errors.As(err, &missing) {
				fmt.Fprintf(cmd.OutOrStdout(), "Insufficient data for this district: %v\n", err)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ins.Sentence())
			return nil
		},
	}
}

func snapshotCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot [sqlite-path]",
		Short: "Copy the validated tables into a SQLite file for DATA_SOURCE=sqlite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := load(cmd, cfg)
			if err != nil {
				return err
			}

			db, err := repository.NewSQLiteDB(args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.ReplaceAll(cmd.Context(), ds.Binary, ds.Ndvi); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d binary and %d ndvi rows to %s\n",
				len(ds.Binary), len(ds.Ndvi), args[0])
			return nil
		},
	}
}
