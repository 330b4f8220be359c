// Package filters holds facet selections and the draft/commit workflow
// around them.
package filters

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Dimension is one facet
type Dimension int

const (
	DimPrice Dimension = iota
	DimBrand
	DimCondition
	DimLocation
	DimCategory
)

// Dimensions lists every facet in display order
var Dimensions = []Dimension{DimCategory, DimBrand, DimCondition, DimLocation, DimPrice}

func (d Dimension) String() string {
	switch d {
	case DimPrice:
		return "price"
	case DimBrand:
		return "brand"
	case DimCondition:
		return "condition"
	case DimLocation:
		return "location"
	case DimCategory:
		return "category"
	default:
		return fmt.Sprintf("dimension(%d)", int(d))
	}
}

// PriceRange is an inclusive price bound
type PriceRange struct {
	Min float64
	Max float64
}

// Contains reports whether price lies within the range, bounds included
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price <= r.Max
}

func (r PriceRange) String() string {
	if math.IsInf(r.Max, 1) {
		return fmt.Sprintf("%g+", r.Min)
	}
	return fmt.Sprintf("%g-%g", r.Min, r.Max)
}

// CategoryPath addresses a node of the category tree. Empty trailing parts
// address the whole category or subcategory.
type CategoryPath struct {
	Category    string
	Subcategory string
	Leaf        string
}

// Set is a read-only string set
type Set struct {
	m map[string]struct{}
}

// Has reports membership
func (s Set) Has(v string) bool {
	_, ok := s.m[v]
	return ok
}

// Len returns the number of members
func (s Set) Len() int {
	return len(s.m)
}

// Values returns the members sorted
func (s Set) Values() []string {
	out := make([]string, 0, len(s.m))
	for v := range s.m {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s Set) toggle(v string) Set {
	m := make(map[string]struct{}, len(s.m)+1)
	for k := range s.m {
		m[k] = struct{}{}
	}
	if _, ok := m[v]; ok {
		delete(m, v)
	} else {
		m[v] = struct{}{}
	}
	return Set{m: m}
}

// category -> subcategory -> leaves. An empty inner map selects the whole
// category, an empty leaf set the whole subcategory.
type categoryTree map[string]map[string]map[string]struct{}

func (t categoryTree) clone() categoryTree {
	out := make(categoryTree, len(t))
	for c, subs := range t {
		cs := make(map[string]map[string]struct{}, len(subs))
		for s, leaves := range subs {
			ls := make(map[string]struct{}, len(leaves))
			for l := range leaves {
				ls[l] = struct{}{}
			}
			cs[s] = ls
		}
		out[c] = cs
	}
	return out
}

// Selection is an immutable set of facet constraints. The zero value
// selects nothing and so constrains nothing.
type Selection struct {
	price      *PriceRange
	brands     Set
	conditions Set
	locations  Set
	categories categoryTree
}

// Price returns the active price range
func (s Selection) Price() (PriceRange, bool) {
	if s.price == nil {
		return PriceRange{}, false
	}
	return *s.price, true
}

// Values returns the selected values of a set dimension
func (s Selection) Values(dim Dimension) Set {
	switch dim {
	case DimBrand:
		return s.brands
	case DimCondition:
		return s.conditions
	case DimLocation:
		return s.locations
	default:
		return Set{}
	}
}

// HasCategoryFilter reports whether any category node is selected
func (s Selection) HasCategoryFilter() bool {
	return len(s.categories) > 0
}

// IncludesCategory reports whether an item filed under (c, sub, leaf)
// falls inside the selected category nodes
func (s Selection) IncludesCategory(c, sub, leaf string) bool {
	subs, ok := s.categories[c]
	if !ok {
		return false
	}
	if len(subs) == 0 {
		return true
	}
	leaves, ok := subs[sub]
	if !ok {
		return false
	}
	if len(leaves) == 0 {
		return true
	}
	_, ok = leaves[leaf]
	return ok
}

// IsSelected reports whether exactly this path is a selected node
func (s Selection) IsSelected(p CategoryPath) bool {
	subs, ok := s.categories[p.Category]
	if !ok {
		return false
	}
	if p.Subcategory == "" {
		return true
	}
	leaves, ok := subs[p.Subcategory]
	if !ok {
		return false
	}
	if p.Leaf == "" {
		return true
	}
	_, ok = leaves[p.Leaf]
	return ok
}

// CategoryPaths lists the selected nodes in sorted order
func (s Selection) CategoryPaths() []CategoryPath {
	var out []CategoryPath
	for c, subs := range s.categories {
		if len(subs) == 0 {
			out = append(out, CategoryPath{Category: c})
			continue
		}
		for sub, leaves := range subs {
			if len(leaves) == 0 {
				out = append(out, CategoryPath{Category: c, Subcategory: sub})
				continue
			}
			for l := range leaves {
				out = append(out, CategoryPath{Category: c, Subcategory: sub, Leaf: l})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Subcategory != b.Subcategory {
			return a.Subcategory < b.Subcategory
		}
		return a.Leaf < b.Leaf
	})
	return out
}

// ActiveDimensions counts dimensions that constrain results
func (s Selection) ActiveDimensions() int {
	n := 0
	if s.price != nil {
		n++
	}
	for _, set := range []Set{s.brands, s.conditions, s.locations} {
		if set.Len() > 0 {
			n++
		}
	}
	if len(s.categories) > 0 {
		n++
	}
	return n
}

// IsEmpty reports whether the selection constrains nothing
func (s Selection) IsEmpty() bool {
	return s.ActiveDimensions() == 0
}

// WithPrice returns a copy with the price range replaced; nil clears it
func (s Selection) WithPrice(r *PriceRange) Selection {
	if r != nil {
		cp := *r
		r = &cp
	}
	s.price = r
	return s
}

// Toggle returns a copy with value added to or removed from a set dimension
func (s Selection) Toggle(dim Dimension, value string) Selection {
	switch dim {
	case DimBrand:
		s.brands = s.brands.toggle(value)
	case DimCondition:
		s.conditions = s.conditions.toggle(value)
	case DimLocation:
		s.locations = s.locations.toggle(value)
	}
	return s
}

// Clear returns a copy without any constraint on dim
func (s Selection) Clear(dim Dimension) Selection {
	switch dim {
	case DimPrice:
		s.price = nil
	case DimBrand:
		s.brands = Set{}
	case DimCondition:
		s.conditions = Set{}
	case DimLocation:
		s.locations = Set{}
	case DimCategory:
		s.categories = nil
	}
	return s
}

// ToggleCategory selects the whole category c, or drops it if any part of
// it is selected
func (s Selection) ToggleCategory(c string) Selection {
	t := s.categories.clone()
	if _, ok := t[c]; ok {
		delete(t, c)
	} else {
		t[c] = map[string]map[string]struct{}{}
	}
	s.categories = t
	return s
}

// ToggleSubcategory selects or drops the whole subcategory sub of c
func (s Selection) ToggleSubcategory(c, sub string) Selection {
	t := s.categories.clone()
	subs, ok := t[c]
	if !ok {
		subs = map[string]map[string]struct{}{}
		t[c] = subs
	}
	if _, ok := subs[sub]; ok {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(t, c)
		}
	} else {
		subs[sub] = map[string]struct{}{}
	}
	s.categories = t
	return s
}

// ToggleLeaf selects or drops one leaf. Dropping the last leaf drops the
// subcategory, dropping the last subcategory drops the category.
func (s Selection) ToggleLeaf(c, sub, leaf string) Selection {
	t := s.categories.clone()
	subs, ok := t[c]
	if !ok {
		subs = map[string]map[string]struct{}{}
		t[c] = subs
	}
	leaves, ok := subs[sub]
	if !ok {
		leaves = map[string]struct{}{}
		subs[sub] = leaves
	}
	if _, ok := leaves[leaf]; ok {
		delete(leaves, leaf)
		if len(leaves) == 0 {
			delete(subs, sub)
		}
		if len(subs) == 0 {
			delete(t, c)
		}
	} else {
		leaves[leaf] = struct{}{}
	}
	s.categories = t
	return s
}

// TogglePath dispatches to the toggle matching the depth of p
func (s Selection) TogglePath(p CategoryPath) Selection {
	switch {
	case p.Leaf != "":
		return s.ToggleLeaf(p.Category, p.Subcategory, p.Leaf)
	case p.Subcategory != "":
		return s.ToggleSubcategory(p.Category, p.Subcategory)
	default:
		return s.ToggleCategory(p.Category)
	}
}

// Key is a canonical encoding; equal selections have equal keys
func (s Selection) Key() string {
	var b strings.Builder
	if s.price != nil {
		b.WriteString("p=")
		b.WriteString(strconv.FormatFloat(s.price.Min, 'g', -1, 64))
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(s.price.Max, 'g', -1, 64))
		b.WriteByte(';')
	}
	for _, part := range []struct {
		tag string
		set Set
	}{{"b", s.brands}, {"c", s.conditions}, {"l", s.locations}} {
		if part.set.Len() == 0 {
			continue
		}
		b.WriteString(part.tag)
		b.WriteByte('=')
		for _, v := range part.set.Values() {
			b.WriteString(strconv.Quote(v))
		}
		b.WriteByte(';')
	}
	if paths := s.CategoryPaths(); len(paths) > 0 {
		b.WriteString("k=")
		for _, p := range paths {
			b.WriteString(strconv.Quote(p.Category))
			b.WriteByte('/')
			b.WriteString(strconv.Quote(p.Subcategory))
			b.WriteByte('/')
			b.WriteString(strconv.Quote(p.Leaf))
		}
		b.WriteByte(';')
	}
	return b.String()
}

// Equal compares two selections by value
func (s Selection) Equal(o Selection) bool {
	return s.Key() == o.Key()
}
