package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yourorg/property-portal/internal/catalog"
	"github.com/yourorg/property-portal/internal/filter"
	"github.com/yourorg/property-portal/internal/model"
)

func criteria(q string, fields map[string]string) filter.Criteria {
	c := filter.Criteria{Query: q}
	for k, v := range fields {
		if v != "" {
			c = c.With(k, v)
		}
	}
	return c
}

func newPropertiesCmd(opts *rootOptions) *cobra.Command {
	var q, typ, status string
	cmd := &cobra.Command{
		Use:   "properties",
		Short: "List properties matching a query and filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			c := criteria(q, map[string]string{catalog.FieldType: typ, catalog.FieldStatus: status})
			props := catalog.PropertyFilter.Apply(repo.Properties(), c)
			return opts.emit(cmd.OutOrStdout(), props, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "ID\tNAME\tCITY\tTYPE\tSTATUS\tOCCUPANCY")
				for _, p := range props {
					fmt.Fprintf(tw, "%s\t%s\t%s, %s\t%s\t%s\t%.0f%%\n",
						p.ID, p.Name, p.Address.City, p.Address.State, p.Type, p.Status, p.OccupancyRate())
				}
				noResults(tw, len(props))
			})
		},
	}
	cmd.Flags().StringVarP(&q, "query", "q", "", "free-text query (name, city, state)")
	cmd.Flags().StringVar(&typ, "type", filter.All, "property type or all")
	cmd.Flags().StringVar(&status, "status", filter.All, "property status or all")
	return cmd
}

func newTenantsCmd(opts *rootOptions) *cobra.Command {
	var q, status string
	cmd := &cobra.Command{
		Use:   "tenants",
		Short: "List tenants matching a query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			tenants := catalog.TenantFilter.Apply(repo.Tenants(), criteria(q, map[string]string{catalog.FieldStatus: status}))
			return opts.emit(cmd.OutOrStdout(), tenants, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPHONE\tSTATUS")
				for _, t := range tenants {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.FullName(), t.Email, t.Phone, model.ActiveLabel(t.Active))
				}
				noResults(tw, len(tenants))
			})
		},
	}
	cmd.Flags().StringVarP(&q, "query", "q", "", "free-text query (name, email, phone)")
	cmd.Flags().StringVar(&status, "status", filter.All, "active, inactive or all")
	return cmd
}

func newVendorsCmd(opts *rootOptions) *cobra.Command {
	var q, specialty, status string
	cmd := &cobra.Command{
		Use:   "vendors",
		Short: "List vendors matching a query and specialty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			c := criteria(q, map[string]string{catalog.FieldSpecialty: specialty, catalog.FieldStatus: status})
			vendors := catalog.VendorFilter.Apply(repo.Vendors(), c)
			return opts.emit(cmd.OutOrStdout(), vendors, func(tw *tabwriter.Writer) {
				fmt.Fprintln(tw, "ID\tNAME\tSPECIALTIES\tRATING\tJOBS\tSTATUS")
				for _, v := range vendors {
					specs := make([]string, 0, len(v.Specialties))
					for _, s := range v.Specialties {
						specs = append(specs, string(s))
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%d\t%s\n",
						v.ID, v.Name, strings.Join(specs, ","), v.Rating, v.TotalJobs, model.ActiveLabel(v.Active))
				}
				noResults(tw, len(vendors))
			})
		},
	}
	cmd.Flags().StringVarP(&q, "query", "q", "", "free-text query (name, email, phone)")
	cmd.Flags().StringVar(&specialty, "specialty", filter.All, "vendor specialty or all")
	cmd.Flags().StringVar(&status, "status", filter.All, "active, inactive or all")
	return cmd
}

func noResults(tw *tabwriter.Writer, n int) {
	if n == 0 {
		fmt.Fprintln(tw, "no results; drop the query and filters to see everything")
	}
}
