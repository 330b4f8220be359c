// Package query turns a catalog snapshot plus committed selection, search
// text and sort mode into an ordered result list.
package query

import (
	"errors"
	"sort"
	"strings"

	"rentgrip/internal/domain"
	"rentgrip/internal/filters"
	"rentgrip/internal/logging"
	"rentgrip/internal/search"
)

// Input is everything a result list depends on
type Input struct {
	Items     []domain.Item
	Index     *search.Index // built over Items, same order
	Selection filters.Selection
	Query     string
	Sort      domain.SortMode
}

// Matches reports whether item satisfies every active dimension of sel.
// Dimensions combine with AND, values within one dimension with OR.
func Matches(sel filters.Selection, item domain.Item) bool {
	if r, ok := sel.Price(); ok && !r.Contains(item.PricePerPeriod) {
		return false
	}
	if set := sel.Values(filters.DimBrand); set.Len() > 0 && !set.Has(item.Brand) {
		return false
	}
	if set := sel.Values(filters.DimCondition); set.Len() > 0 && !set.Has(item.Condition) {
		return false
	}
	if set := sel.Values(filters.DimLocation); set.Len() > 0 && !set.Has(item.Location) {
		return false
	}
	if sel.HasCategoryFilter() && !sel.IncludesCategory(item.Category.Name, item.Category.Subcategory, item.Category.Leaf) {
		return false
	}
	return true
}

// Evaluate runs facet filtering, then text search, then sorting. It never
// fails and never truncates; an empty catalog yields an empty list.
func Evaluate(in Input) []domain.Item {
	survivors := make([]int, 0, len(in.Items))
	keep := make(map[int]struct{}, len(in.Items))
	for pos, item := range in.Items {
		if Matches(in.Selection, item) {
			survivors = append(survivors, pos)
			keep[pos] = struct{}{}
		}
	}

	ranked := false
	if strings.TrimSpace(in.Query) != "" {
		matches, err := in.Index.Query(in.Query)
		switch {
		case errors.Is(err, search.ErrEmptyQuery):
			// punctuation only, behaves like no query
		case err != nil:
			logging.Warn().Err(err).Str("query", in.Query).Msg("search failed")
			survivors = survivors[:0]
			ranked = true
		default:
			survivors = survivors[:0]
			for _, m := range matches {
				if _, ok := keep[m.Position]; ok {
					survivors = append(survivors, m.Position)
				}
			}
			ranked = true
		}
	}

	out := make([]domain.Item, len(survivors))
	for i, pos := range survivors {
		out[i] = in.Items[pos]
	}
	sortItems(out, in.Sort, ranked)
	return out
}

// sortItems orders items in place. Sorts are stable, so ties keep search
// rank or catalog order. Most-recent leaves a ranked list alone.
func sortItems(items []domain.Item, mode domain.SortMode, ranked bool) {
	switch mode {
	case domain.SortPriceAsc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].PricePerPeriod < items[j].PricePerPeriod
		})
	case domain.SortPriceDesc:
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].PricePerPeriod > items[j].PricePerPeriod
		})
	case domain.SortRatingDesc:
		sort.SliceStable(items, func(i, j int) bool {
			a, b := items[i], items[j]
			if a.HasRating() != b.HasRating() {
				return a.HasRating()
			}
			return a.RatingOr(0) > b.RatingOr(0)
		})
	default:
		if ranked {
			return
		}
		sort.SliceStable(items, func(i, j int) bool {
			return items[i].ID > items[j].ID
		})
	}
}
