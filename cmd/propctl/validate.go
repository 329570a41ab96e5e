package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yourorg/property-portal/internal/forms"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "validate <property|tenant|vendor> <file>",
		Short:     "Check a form file the way the onboarding screens do",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(forms.KindProperty), string(forms.KindTenant), string(forms.KindVendor)},
		RunE: func(cmd *cobra.Command, args []string) error {
			f := forms.New(forms.Kind(strings.ToLower(args[0])))
			if f == nil {
				return fmt.Errorf("unknown form kind %q", args[0])
			}
			if err := decodeForm(args[1], f); err != nil {
				return err
			}
			f.Normalize()
			if err := forms.Validate(f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok %s %s\n", f.Kind(), f.Reference())
			return nil
		},
	}
}

func decodeForm(path string, f forms.Form) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		return dec.Decode(f)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	return dec.Decode(f)
}
