package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/structsearch/structsearch/internal/config"
	"github.com/structsearch/structsearch/internal/criteria"
	"github.com/structsearch/structsearch/pkg/indexer"
	"github.com/structsearch/structsearch/pkg/searcher"
)

// newSearchCmd creates the search command. The query argument runs as a
// managed query over the target fields (all registered fields by default);
// range flags add a managed range clause on top.
func newSearchCmd() *cobra.Command {
	var (
		fields    []string
		rangeMin  string
		rangeMax  string
		exclMin   bool
		exclMax   bool
		orderBy   string
		desc      bool
		size      int
		from      int
		show      []string
		fuzziness int
		boost     float64
		jsonOut   bool
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the index",
		Long: `Search runs a managed query: the value is resolved through each
target field's declared value type, and fields that cannot represent it
contribute nothing. With no query argument all documents match.

Range bounds (--min/--max) apply to range-capable fields only.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := config.Load(schemaPath)
			if err != nil {
				return err
			}
			reg, facets, err := schema.Build()
			if err != nil {
				return err
			}

			idx, err := indexer.Open(indexPath, indexer.BuildIndexMapping(reg))
			if err != nil {
				return err
			}
			defer func() { _ = idx.Close() }()

			s, err := searcher.New(idx, reg, facets, searcher.Options{})
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			b := criteria.New(reg)
			params := criteria.ManagedParams{Fuzziness: fuzziness, Boost: boost}
			hasClause := false
			if len(args) == 1 && args[0] != "" {
				b.ManagedQuery(args[0], fields, params)
				hasClause = true
			}
			if rangeMin != "" || rangeMax != "" {
				var lower, upper any
				if rangeMin != "" {
					lower = rangeMin
				}
				if rangeMax != "" {
					upper = rangeMax
				}
				b.ManagedRangeQuery(lower, upper, fields, !exclMin, !exclMax, params)
				hasClause = true
			}
			if !hasClause {
				b.MatchAll()
			}
			if orderBy != "" {
				b.OrderBy(orderBy, desc)
			}

			result, err := s.Search(cmd.Context(), searcher.Request{
				Criteria: b,
				Size:     size,
				From:     from,
				Fields:   show,
			})
			if err != nil {
				return err
			}

			if jsonOut || !isatty.IsTerminal(os.Stdout.Fd()) {
				return printJSON(cmd, result)
			}
			printPlain(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&fields, "fields", nil, "Target fields (default: all registered fields)")
	cmd.Flags().StringVar(&rangeMin, "min", "", "Lower range bound")
	cmd.Flags().StringVar(&rangeMax, "max", "", "Upper range bound")
	cmd.Flags().BoolVar(&exclMin, "exclusive-min", false, "Exclude the lower bound")
	cmd.Flags().BoolVar(&exclMax, "exclusive-max", false, "Exclude the upper bound")
	cmd.Flags().StringVar(&orderBy, "order-by", "", "Sort results on this field")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	cmd.Flags().IntVar(&size, "size", searcher.DefaultSize, "Maximum hits to return")
	cmd.Flags().IntVar(&from, "from", 0, "Hits to skip (pagination)")
	cmd.Flags().StringSliceVar(&show, "show", nil, "Stored fields to include in hits")
	cmd.Flags().IntVar(&fuzziness, "fuzziness", 0, "Edit-distance allowance for text fields")
	cmd.Flags().Float64Var(&boost, "boost", 0, "Score boost for produced fragments")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output JSON")

	return cmd
}

func printJSON(cmd *cobra.Command, result *searcher.Result) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func printPlain(cmd *cobra.Command, result *searcher.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d hits (%s)\n", result.Total, result.Took)
	for _, hit := range result.Hits {
		fmt.Fprintf(out, "  %-24s %.4f", hit.ID, hit.Score)
		if len(hit.Fields) > 0 {
			parts := make([]string, 0, len(hit.Fields))
			for k, v := range hit.Fields {
				parts = append(parts, fmt.Sprintf("%s=%v", k, v))
			}
			fmt.Fprintf(out, "  %s", strings.Join(parts, " "))
		}
		fmt.Fprintln(out)
	}
	for field, fr := range result.Facets {
		fmt.Fprintf(out, "facet %s:\n", field)
		for _, t := range fr.Terms {
			fmt.Fprintf(out, "  %-20s %d\n", t.Term, t.Count)
		}
		for _, r := range fr.Ranges {
			fmt.Fprintf(out, "  %-20s %d\n", r.Name, r.Count)
		}
	}
}
