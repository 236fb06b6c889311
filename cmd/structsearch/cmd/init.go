package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/structsearch/structsearch/configs"
)

// newInitCmd creates the init command, which writes a starter schema file.
func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter schema file",
		Long: `Init writes the example schema declaration to the --schema path.
Edit it to declare your fields, then run 'structsearch index'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(schemaPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", schemaPath)
			}
			if err := os.WriteFile(schemaPath, []byte(configs.SchemaTemplate), 0o644); err != nil {
				return fmt.Errorf("failed to write schema: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", schemaPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing schema file")
	return cmd
}
