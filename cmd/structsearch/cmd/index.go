package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/structsearch/structsearch/internal/config"
	"github.com/structsearch/structsearch/pkg/indexer"
)

// newIndexCmd creates the index command, which loads NDJSON documents into
// the index. Each line is one JSON object; the "id" member identifies the
// document and the remaining members form the attribute bag.
func newIndexCmd() *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "index [file]",
		Short: "Index documents from an NDJSON file",
		Long: `Index reads newline-delimited JSON documents and writes them into
the index through the declared field types. Pass "-" or no argument to
read from stdin.

Each line is one document:

  {"id": "sku-1", "title": "Espresso grinder", "price": 129.5}`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := config.Load(schemaPath)
			if err != nil {
				return err
			}
			reg, _, err := schema.Build()
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open documents file: %w", err)
				}
				defer func() { _ = f.Close() }()
				in = f
			}

			docs, err := readDocuments(in)
			if err != nil {
				return err
			}

			idx, err := indexer.Open(indexPath, indexer.BuildIndexMapping(reg))
			if err != nil {
				return err
			}
			ix := indexer.New(idx, reg, indexer.Options{BatchSize: batchSize})
			defer func() { _ = ix.Close() }()

			if err := ix.Index(cmd.Context(), docs); err != nil {
				return err
			}

			count, err := ix.Count()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d documents (%d total in index)\n", len(docs), count)
			return nil
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch", indexer.DefaultBatchSize, "Documents per backend batch")
	return cmd
}

// readDocuments parses NDJSON into attribute-bag documents. Lines that are
// blank are skipped; a line without an "id" member is an input error.
func readDocuments(r io.Reader) ([]indexer.Document, error) {
	var docs []indexer.Document
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var attrs map[string]any
		if err := json.Unmarshal(raw, &attrs); err != nil {
			return nil, fmt.Errorf("line %d: invalid JSON: %w", line, err)
		}
		id, ok := attrs["id"].(string)
		if !ok || id == "" {
			return nil, fmt.Errorf("line %d: missing string \"id\" member", line)
		}
		delete(attrs, "id")
		docs = append(docs, indexer.Document{ID: id, Attrs: attrs})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read documents: %w", err)
	}
	return docs, nil
}
