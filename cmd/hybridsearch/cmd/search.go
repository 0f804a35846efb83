package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verdantcart/hybridsearch/internal/catalog"
	"github.com/verdantcart/hybridsearch/internal/search"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	mode       string
	limit      int
	offset     int
	categories []string
	priceMin   float64
	priceMax   float64
	inStock    bool
	graphBoost bool
	expand     bool
	facets     bool
	format     string
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the product catalog",
		Long: `Search the product catalog with hybrid retrieval.

Examples:
  hybridsearch search "turmeric powder"
  hybridsearch search "immunity booster" --graph-boost --expand
  hybridsearch search "rice" --mode keyword_only --category Grains
  hybridsearch search "honey" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd.Context(), cmd, query, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mode, "mode", "m", "hybrid", "Search mode: hybrid, semantic_only, keyword_only")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 10, "Maximum number of results")
	cmd.Flags().IntVar(&opts.offset, "offset", 0, "Pagination offset")
	cmd.Flags().StringSliceVar(&opts.categories, "category", nil, "Filter by category (repeatable)")
	cmd.Flags().Float64Var(&opts.priceMin, "price-min", 0, "Minimum price filter")
	cmd.Flags().Float64Var(&opts.priceMax, "price-max", 0, "Maximum price filter")
	cmd.Flags().BoolVar(&opts.inStock, "in-stock", false, "Only in-stock products")
	cmd.Flags().BoolVar(&opts.graphBoost, "graph-boost", false, "Apply graph relevance and popularity scoring")
	cmd.Flags().BoolVar(&opts.expand, "expand", false, "Expand the query with synonyms and related categories")
	cmd.Flags().BoolVar(&opts.facets, "facets", false, "Include facet counts")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runSearch(ctx context.Context, cmd *cobra.Command, query string, opts searchOptions) error {
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.engine.IndexCatalog(ctx); err != nil {
		return err
	}

	resp, err := a.engine.Search(ctx, query, buildSearchOptions(cmd, opts))
	if err != nil {
		return err
	}

	if opts.format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	printResults(cmd, query, resp)
	return nil
}

func buildSearchOptions(cmd *cobra.Command, opts searchOptions) search.Options {
	filters := catalog.Filters{Categories: opts.categories}
	if cmd.Flags().Changed("price-min") {
		filters.PriceMin = &opts.priceMin
	}
	if cmd.Flags().Changed("price-max") {
		filters.PriceMax = &opts.priceMax
	}
	if opts.inStock {
		t := true
		filters.InStock = &t
	}

	return search.Options{
		Mode:          search.Mode(opts.mode),
		Filters:       filters,
		Offset:        opts.offset,
		Limit:         opts.limit,
		GraphBoost:    opts.graphBoost,
		ExpandQuery:   opts.expand,
		IncludeFacets: opts.facets,
	}
}

func printResults(cmd *cobra.Command, query string, resp *search.Response) {
	out := cmd.OutOrStdout()

	if len(resp.Results) == 0 {
		fmt.Fprintf(out, "No results for %q\n", query)
		return
	}

	fmt.Fprintf(out, "%d results for %q (%dms)\n\n", resp.TotalCount, query, resp.ExecutionTimeMs)

	if exp := resp.QueryExpansion; exp != nil && (len(exp.ExpandedTerms) > 0 || len(exp.Synonyms) > 0) {
		fmt.Fprintf(out, "Expanded with: %s\n\n",
			strings.Join(append(append([]string{}, exp.ExpandedTerms...), exp.Synonyms...), ", "))
	}

	for i, r := range resp.Results {
		fmt.Fprintf(out, "%2d. %s  $%.2f  [%s]\n", i+1, r.Name, r.Price, r.MatchType)
		fmt.Fprintf(out, "    score %.3f (semantic %.2f, keyword %.2f, graph %.2f, popularity %.2f)\n",
			r.FinalScore, r.SemanticScore, r.KeywordScore, r.GraphScore, r.PopularityScore)
		if r.Explanation != "" {
			fmt.Fprintf(out, "    %s\n", r.Explanation)
		}
	}

	if resp.Facets != nil {
		fmt.Fprintln(out, "\nCategories:")
		for _, f := range resp.Facets.Categories {
			fmt.Fprintf(out, "  %s (%d)\n", f.Label, f.Count)
		}
		fmt.Fprintln(out, "Price:")
		for _, f := range resp.Facets.PriceBuckets {
			fmt.Fprintf(out, "  %s (%d)\n", f.Label, f.Count)
		}
	}
}
