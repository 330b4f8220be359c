package logic

import (
	"fmt"
	"math"

	"rentgrip/internal/catalog"
	"rentgrip/internal/filters"
)

// FacetEntry is one selectable row of the filter panel
type FacetEntry struct {
	Label    string
	Depth    int // indentation for category tree rows
	Selected bool
	Mutation filters.Mutation
}

// priceBands is how many ranges the price tab offers below the catalog maximum
const priceBands = 4

// FacetEntries lists the rows the panel shows for dim, marking what sel has chosen
func FacetEntries(dim filters.Dimension, f catalog.Facets, sel filters.Selection) []FacetEntry {
	switch dim {
	case filters.DimCategory:
		return categoryEntries(f, sel)
	case filters.DimPrice:
		return priceEntries(f, sel)
	case filters.DimBrand:
		return valueEntries(dim, f.Brands, sel)
	case filters.DimCondition:
		return valueEntries(dim, f.Conditions, sel)
	case filters.DimLocation:
		return valueEntries(dim, f.Locations, sel)
	}
	return nil
}

func valueEntries(dim filters.Dimension, values []string, sel filters.Selection) []FacetEntry {
	chosen := sel.Values(dim)
	out := make([]FacetEntry, 0, len(values))
	for _, v := range values {
		label := v
		if label == "" {
			continue
		}
		out = append(out, FacetEntry{
			Label:    label,
			Selected: chosen.Has(v),
			Mutation: filters.ToggleValue(dim, v),
		})
	}
	return out
}

func categoryEntries(f catalog.Facets, sel filters.Selection) []FacetEntry {
	var out []FacetEntry
	add := func(p filters.CategoryPath, label string, depth int) {
		out = append(out, FacetEntry{
			Label:    label,
			Depth:    depth,
			Selected: sel.IsSelected(p),
			Mutation: filters.TogglePath(p),
		})
	}
	for _, c := range f.Categories {
		add(filters.CategoryPath{Category: c.Name}, c.Name, 0)
		for _, s := range c.Subcategories {
			add(filters.CategoryPath{Category: c.Name, Subcategory: s.Name}, s.Name, 1)
			for _, l := range s.Leaves {
				add(filters.CategoryPath{Category: c.Name, Subcategory: s.Name, Leaf: l}, l, 2)
			}
		}
	}
	return out
}

// priceEntries offers "any price" followed by ranges splitting the catalog
// maximum into equal bands
func priceEntries(f catalog.Facets, sel filters.Selection) []FacetEntry {
	current, has := sel.Price()
	out := []FacetEntry{{
		Label:    "Any price",
		Selected: !has,
		Mutation: filters.ClearDimension(filters.DimPrice),
	}}
	if !f.HasPrices || f.MaxPrice <= 0 {
		return out
	}

	step := f.MaxPrice / priceBands
	for i := 0; i < priceBands; i++ {
		lo := roundPrice(step * float64(i))
		hi := roundPrice(step * float64(i+1))
		if i == priceBands-1 {
			hi = f.MaxPrice
		}
		r := filters.PriceRange{Min: lo, Max: hi}
		out = append(out, FacetEntry{
			Label:    fmt.Sprintf("%s - %s", FormatPrice(lo), FormatPrice(hi)),
			Selected: has && current == r,
			Mutation: filters.SetPrice(lo, hi),
		})
	}
	return out
}

func roundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatPrice renders an amount with two decimals, dropping ".00"
func FormatPrice(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
