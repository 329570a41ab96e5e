package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yourorg/property-portal/internal/catalog"
)

type rootOptions struct {
	catalogPath string
	output      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "propctl",
		Short:        "Inspect the property portal catalog",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.catalogPath, "catalog", "", "catalog file (YAML or JSON); the built-in sample when empty")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "output format: table, json or yaml")

	root.AddCommand(
		newPropertiesCmd(opts),
		newTenantsCmd(opts),
		newVendorsCmd(opts),
		newValidateCmd(),
		newCatalogCmd(opts),
	)
	return root
}

func (o *rootOptions) source() (catalog.Source, string) {
	if o.catalogPath == "" {
		return catalog.Sample(), "sample"
	}
	return catalog.File(o.catalogPath), "file"
}

func (o *rootOptions) load(ctx context.Context) (*catalog.Repository, error) {
	src, name := o.source()
	snap, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.NewRepository(snap, name), nil
}

// emit writes v as JSON or YAML, or calls table for the default format.
func (o *rootOptions) emit(w io.Writer, v any, table func(tw *tabwriter.Writer)) error {
	switch o.output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", o.output)
	}
}
