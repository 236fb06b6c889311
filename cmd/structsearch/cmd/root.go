// Package cmd provides the CLI commands for structsearch.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/structsearch/structsearch/internal/logging"
	"github.com/structsearch/structsearch/pkg/version"
)

// Persistent flags shared by all subcommands.
var (
	schemaPath string
	indexPath  string
	logFile    string
	debugMode  bool
)

// NewRootCmd creates the root command for the structsearch CLI.
func NewRootCmd() *cobra.Command {
	var logCleanup func()

	cmd := &cobra.Command{
		Use:   "structsearch",
		Short: "Structured document search with typed fields",
		Long: `structsearch indexes loosely-typed documents against a declared
field schema and answers typed, faceted queries over them.

Declare per-field value semantics once in a schema file, index documents
as attribute bags, then search with managed queries and ranges.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("structsearch version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&schemaPath, "schema", "schema.yaml", "Path to the index schema file")
	cmd.PersistentFlags().StringVar(&indexPath, "index", ".structsearch/index", "Path to the index directory")
	cmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write JSON logs to this file")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg := logging.DefaultConfig()
		if debugMode {
			cfg.Level = "debug"
		}
		cfg.FilePath = logFile

		cleanup, err := logging.Setup(cfg)
		if err != nil {
			return err
		}
		logCleanup = cleanup
		return nil
	}
	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			logCleanup()
		}
	}

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newIndexCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newFieldsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
