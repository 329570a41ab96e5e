package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yourorg/property-portal/internal/env"
	"github.com/yourorg/property-portal/internal/store"
)

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show the catalog's source and record counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			st := repo.Status()
			return opts.emit(cmd.OutOrStdout(), st, func(tw *tabwriter.Writer) {
				fmt.Fprintf(tw, "source\t%s\n", st.Source)
				fmt.Fprintf(tw, "managers\t%d\n", st.Counts.Managers)
				fmt.Fprintf(tw, "properties\t%d\n", st.Counts.Properties)
				fmt.Fprintf(tw, "units\t%d\n", st.Counts.Units)
				fmt.Fprintf(tw, "tenants\t%d\n", st.Counts.Tenants)
				fmt.Fprintf(tw, "vendors\t%d\n", st.Counts.Vendors)
			})
		},
	}
	cmd.AddCommand(newSeedCmd(opts))
	return cmd
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var (
		dsn     string
		migrate bool
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the Postgres tables and replace their rows with the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env.Load()
			if dsn == "" {
				dsn = env.Get("PG_DSN", "")
			}
			if !cmd.Flags().Changed("migrate") {
				migrate = env.GetBool("PG_MIGRATE", true)
			}
			src, _ := opts.source()
			snap, err := src.Load(cmd.Context())
			if err != nil {
				return err
			}
			st, err := store.Open(cmd.Context(), dsn)
			if err != nil {
				return err
			}
			defer st.Close()
			if migrate {
				if err := st.Migrate(cmd.Context()); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}
			if err := st.Seed(cmd.Context(), snap); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d properties, %d tenants, %d vendors\n",
				len(snap.Properties), len(snap.Tenants), len(snap.Vendors))
			return nil
		},
	}
	cmd.Flags().StringVar(&dsn, "dsn", "", "Postgres connection string (defaults to $PG_DSN, .env included)")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "create the tables before seeding (defaults to $PG_MIGRATE)")
	return cmd
}
