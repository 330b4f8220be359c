package catalog

import (
	"sort"

	"rentgrip/internal/domain"
)

// Facets lists the values each filter dimension can take in a snapshot
type Facets struct {
	Brands     []string
	Conditions []string
	Locations  []string
	Categories []domain.CategoryNode
	MaxPrice   float64
	HasPrices  bool
}

// ComputeFacets derives the facet universe from items and the provider tree.
// Categories that only appear on items are merged into the tree.
func ComputeFacets(items []domain.Item, tree []domain.CategoryNode) Facets {
	brands := make(map[string]struct{})
	conditions := make(map[string]struct{})
	locations := make(map[string]struct{})
	cats := make(map[string]map[string]map[string]struct{})

	addPath := func(c, s, l string) {
		if c == "" {
			return
		}
		subs, ok := cats[c]
		if !ok {
			subs = make(map[string]map[string]struct{})
			cats[c] = subs
		}
		if s == "" {
			return
		}
		leaves, ok := subs[s]
		if !ok {
			leaves = make(map[string]struct{})
			subs[s] = leaves
		}
		if l != "" {
			leaves[l] = struct{}{}
		}
	}

	for _, node := range tree {
		addPath(node.Name, "", "")
		for _, sub := range node.Subcategories {
			addPath(node.Name, sub.Name, "")
			for _, leaf := range sub.Leaves {
				addPath(node.Name, sub.Name, leaf)
			}
		}
	}

	var f Facets
	for _, item := range items {
		if item.Brand != "" {
			brands[item.Brand] = struct{}{}
		}
		if item.Condition != "" {
			conditions[item.Condition] = struct{}{}
		}
		if item.Location != "" {
			locations[item.Location] = struct{}{}
		}
		addPath(item.Category.Name, item.Category.Subcategory, item.Category.Leaf)

		if !f.HasPrices || item.PricePerPeriod > f.MaxPrice {
			f.MaxPrice = item.PricePerPeriod
		}
		f.HasPrices = true
	}

	f.Brands = sortedKeys(brands)
	f.Conditions = sortedKeys(conditions)
	f.Locations = sortedKeys(locations)

	for _, name := range sortedKeys(cats) {
		node := domain.CategoryNode{Name: name}
		for _, subName := range sortedKeys(cats[name]) {
			node.Subcategories = append(node.Subcategories, domain.SubcategoryNode{
				Name:   subName,
				Leaves: sortedKeys(cats[name][subName]),
			})
		}
		f.Categories = append(f.Categories, node)
	}
	return f
}

// Subcategories returns the subcategory names of category c
func (f Facets) Subcategories(c string) []domain.SubcategoryNode {
	for _, node := range f.Categories {
		if node.Name == c {
			return node.Subcategories
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
