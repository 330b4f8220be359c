package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"rentgrip/internal/config"
	"rentgrip/internal/domain"
	"rentgrip/internal/engine"
	"rentgrip/internal/filters"
)

type queryOptions struct {
	search     string
	categories []string
	brands     []string
	conditions []string
	locations  []string
	minPrice   float64
	maxPrice   float64
	minSet     bool
	maxSet     bool
	sort       string
	page       int
	pageSize   int
	output     string
}

func newQueryCmd(opts *globalOptions) *cobra.Command {
	q := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query [search text]",
		Short: "Print one page of filtered, searched and sorted results",
		Long: `Run a search and filter combination against the catalog and print one
page of results.

Facet flags may be repeated. Values within one facet are alternatives;
different facets must all match.`,
		Example: `  rentgrip query drill
  rentgrip query --brand Bosch --brand Makita --condition new
  rentgrip query --category "Tools/Power/Drills" --max-price 30 --sort price-asc
  rentgrip query tent -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				q.search = args[0]
			}
			q.minSet = cmd.Flags().Changed("min-price")
			q.maxSet = cmd.Flags().Changed("max-price")
			format, err := parseFormat(q.output)
			if err != nil {
				return err
			}

			cfg, err := loadCommandConfig(cmd, opts)
			if err != nil {
				return err
			}
			v, err := runQuery(cmd.Context(), cfg, q)
			if err != nil {
				return err
			}
			return writeQueryResult(cmd.OutOrStdout(), format, v)
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&q.categories, "category", nil, `category path "Category[/Subcategory[/Leaf]]" (repeatable)`)
	f.StringArrayVar(&q.brands, "brand", nil, "brand to include (repeatable)")
	f.StringArrayVar(&q.conditions, "condition", nil, "condition to include (repeatable)")
	f.StringArrayVar(&q.locations, "location", nil, "location to include (repeatable)")
	f.Float64Var(&q.minPrice, "min-price", 0, "lowest price per period")
	f.Float64Var(&q.maxPrice, "max-price", 0, "highest price per period")
	f.StringVar(&q.sort, "sort", "", "most-recent, price-asc, price-desc or rating-desc")
	f.IntVar(&q.page, "page", 1, "page to print")
	f.IntVar(&q.pageSize, "page-size", 0, "items per page (default from config)")
	f.StringVarP(&q.output, "output", "o", string(FormatText), "output format: text, json or yaml")
	return cmd
}

// mutations turns the facet flags into filter edits
func (q *queryOptions) mutations() ([]filters.Mutation, error) {
	var out []filters.Mutation
	for _, raw := range q.categories {
		p, err := parseCategoryPath(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, filters.TogglePath(p))
	}
	for _, group := range []struct {
		dim    filters.Dimension
		values []string
	}{
		{filters.DimBrand, q.brands},
		{filters.DimCondition, q.conditions},
		{filters.DimLocation, q.locations},
	} {
		for _, v := range group.values {
			out = append(out, filters.ToggleValue(group.dim, v))
		}
	}
	if q.minSet || q.maxSet {
		hi := q.maxPrice
		if !q.maxSet {
			// clamped to the catalog maximum
			hi = math.Inf(1)
		}
		out = append(out, filters.SetPrice(q.minPrice, hi))
	}
	return out, nil
}

func parseCategoryPath(raw string) (filters.CategoryPath, error) {
	parts := strings.Split(raw, "/")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) > 3 {
		return filters.CategoryPath{}, fmt.Errorf("invalid category path %q", raw)
	}
	for _, part := range parts {
		if part == "" {
			return filters.CategoryPath{}, fmt.Errorf("invalid category path %q", raw)
		}
	}
	p := filters.CategoryPath{Category: parts[0]}
	if len(parts) > 1 {
		p.Subcategory = parts[1]
	}
	if len(parts) > 2 {
		p.Leaf = parts[2]
	}
	return p, nil
}

// loadCommandConfig loads config and sends logs to stderr
func loadCommandConfig(cmd *cobra.Command, opts *globalOptions) (*config.Config, error) {
	cfg, err := loadConfig(opts, nil)
	if err != nil {
		return nil, err
	}
	if _, err := setupLogging(cfg, cmd.ErrOrStderr()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadEngine builds an engine over the configured source and performs the
// first refresh. The provider enforces the configured refresh timeout.
func loadEngine(ctx context.Context, cfg *config.Config, extra ...engine.Option) (*engine.Engine, func(), error) {
	provider, closeProvider, err := openProvider(cfg)
	if err != nil {
		return nil, nil, err
	}
	eng := engine.New(provider, engineOptions(cfg, extra...)...)
	cleanup := func() {
		eng.Dispose()
		closeProvider()
	}

	if err := eng.Refresh(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return eng, cleanup, nil
}

func runQuery(ctx context.Context, cfg *config.Config, q *queryOptions) (engine.View, error) {
	var extra []engine.Option
	if q.pageSize > 0 {
		extra = append(extra, engine.WithPageSize(q.pageSize))
	}
	if q.sort != "" {
		mode, ok := domain.ParseSortMode(q.sort)
		if !ok {
			return engine.View{}, fmt.Errorf("unknown sort mode %q", q.sort)
		}
		extra = append(extra, engine.WithSortMode(mode))
	}

	eng, cleanup, err := loadEngine(ctx, cfg, extra...)
	if err != nil {
		return engine.View{}, err
	}
	defer cleanup()

	muts, err := q.mutations()
	if err != nil {
		return engine.View{}, err
	}
	if len(muts) > 0 {
		eng.OpenFilters()
		for _, m := range muts {
			if err := eng.SetDraftFilter(m); err != nil {
				eng.CancelFilters()
				return engine.View{}, fmt.Errorf("invalid %s filter: %w", m.Dimension, err)
			}
		}
		eng.ApplyFilters()
	}

	if q.search != "" {
		eng.SetSearchText(q.search)
		eng.CommitSearch()
	}
	if q.page > 1 {
		eng.GoToPage(q.page)
	}
	return eng.View(), nil
}
