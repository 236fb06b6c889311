package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/structsearch/structsearch/internal/config"
)

// newFieldsCmd creates the fields command, which prints the declared schema.
func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "Show the declared field schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := config.Load(schemaPath)
			if err != nil {
				return err
			}
			reg, facets, err := schema.Build()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-20s %-10s %-7s %s\n", "FIELD", "TYPE", "STORED", "FACET")
			for _, def := range reg.Definitions() {
				vt, _ := reg.Resolve(def.Name)
				facetMark := ""
				if facets.IsFacetField(def.Name) {
					facetMark = "yes"
				}
				fmt.Fprintf(out, "%-20s %-10s %-7v %s\n", def.Name, def.TypeKey, vt.Store(), facetMark)
			}
			return nil
		},
	}
}
