package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentgrip/internal/catalog"
	"rentgrip/internal/domain"
	"rentgrip/internal/filters"
)

func facets() catalog.Facets {
	return catalog.Facets{
		Brands:     []string{"Bosch", "Epson"},
		Conditions: []string{"new", "used"},
		Locations:  []string{"Lisbon"},
		Categories: []domain.CategoryNode{
			{Name: "Tools", Subcategories: []domain.SubcategoryNode{
				{Name: "Power", Leaves: []string{"Drills"}},
			}},
			{Name: "Electronics"},
		},
		MaxPrice:  100,
		HasPrices: true,
	}
}

func labels(entries []FacetEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Label
	}
	return out
}

func TestValueEntriesMarkSelection(t *testing.T) {
	sel := filters.Selection{}.Toggle(filters.DimBrand, "Epson")

	got := FacetEntries(filters.DimBrand, facets(), sel)
	require.Len(t, got, 2)
	assert.Equal(t, []string{"Bosch", "Epson"}, labels(got))
	assert.False(t, got[0].Selected)
	assert.True(t, got[1].Selected)
	assert.Equal(t, filters.ToggleValue(filters.DimBrand, "Bosch"), got[0].Mutation)
}

func TestCategoryEntriesFlattenTree(t *testing.T) {
	sel := filters.Selection{}.ToggleSubcategory("Tools", "Power")

	got := FacetEntries(filters.DimCategory, facets(), sel)
	assert.Equal(t, []string{"Tools", "Power", "Drills", "Electronics"}, labels(got))
	assert.Equal(t, []int{0, 1, 2, 0}, []int{got[0].Depth, got[1].Depth, got[2].Depth, got[3].Depth})
	assert.True(t, got[1].Selected)
	assert.False(t, got[3].Selected)
	assert.Equal(t, filters.CategoryPath{Category: "Tools", Subcategory: "Power", Leaf: "Drills"}, got[2].Mutation.Path)
}

func TestPriceEntriesSplitMaximum(t *testing.T) {
	sel := filters.Selection{}.WithPrice(&filters.PriceRange{Min: 25, Max: 50})

	got := FacetEntries(filters.DimPrice, facets(), sel)
	assert.Equal(t, []string{"Any price", "0 - 25", "25 - 50", "50 - 75", "75 - 100"}, labels(got))
	assert.False(t, got[0].Selected)
	assert.True(t, got[2].Selected)
	assert.True(t, got[0].Mutation.Clear)
}

func TestPriceEntriesWithoutPrices(t *testing.T) {
	got := FacetEntries(filters.DimPrice, catalog.Facets{}, filters.Selection{})
	require.Len(t, got, 1)
	assert.True(t, got[0].Selected)
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "20", FormatPrice(20))
	assert.Equal(t, "12.50", FormatPrice(12.5))
}

func TestNavigatorMove(t *testing.T) {
	n := Navigator{Rows: 3, CurrentPage: 1, TotalPages: 2}

	c, mv := n.Move(1, 1)
	assert.Equal(t, 2, c)
	assert.Equal(t, StayOnPage, mv)

	_, mv = n.Move(2, 1)
	assert.Equal(t, ToNextPage, mv)

	c, mv = n.Move(0, -1)
	assert.Equal(t, 0, c)
	assert.Equal(t, StayOnPage, mv, "first page does not wrap")

	last := Navigator{Rows: 2, CurrentPage: 2, TotalPages: 2}
	c, mv = last.Move(1, 1)
	assert.Equal(t, 1, c)
	assert.Equal(t, StayOnPage, mv)
	_, mv = last.Move(0, -1)
	assert.Equal(t, ToPrevPage, mv)

	c, mv = Navigator{}.Move(0, 1)
	assert.Equal(t, 0, c)
	assert.Equal(t, StayOnPage, mv)
	assert.Equal(t, 1, last.End())
}
