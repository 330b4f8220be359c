package domain

import "strings"

// Condition values carried by items. Anything else is kept verbatim.
const (
	ConditionNew         = "new"
	ConditionUsed        = "used"
	ConditionUnspecified = ""
)

// Item represents a rentable catalog item
type Item struct {
	ID               int64       `json:"id" yaml:"id" validate:"required"`
	Name             string      `json:"name" yaml:"name" validate:"required"`
	ShortDescription string      `json:"short_description,omitempty" yaml:"short_description,omitempty"`
	Description      string      `json:"description,omitempty" yaml:"description,omitempty"`
	Brand            string      `json:"brand,omitempty" yaml:"brand,omitempty"`
	Category         CategoryRef `json:"category" yaml:"category"`
	PricePerPeriod   float64     `json:"price" yaml:"price" validate:"gte=0"`
	Period           string      `json:"period,omitempty" yaml:"period,omitempty"` // display only ("day", "week")
	Condition        string      `json:"condition,omitempty" yaml:"condition,omitempty"`
	Location         string      `json:"location,omitempty" yaml:"location,omitempty"`
	Rating           *float64    `json:"rating,omitempty" yaml:"rating,omitempty"`
}

// CategoryRef places an item in the category tree
type CategoryRef struct {
	Name        string `json:"name" yaml:"name"`
	Subcategory string `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Leaf        string `json:"leaf,omitempty" yaml:"leaf,omitempty"`
}

// String renders the path as "Name / Subcategory / Leaf", skipping empty parts
func (c CategoryRef) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Name, c.Subcategory, c.Leaf} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " / ")
}

// HasRating reports whether the item carries a rating
func (i Item) HasRating() bool {
	return i.Rating != nil
}

// RatingOr returns the rating or fallback when unspecified
func (i Item) RatingOr(fallback float64) float64 {
	if i.Rating == nil {
		return fallback
	}
	return *i.Rating
}

// CategoryNode is one category of the provider-supplied tree
type CategoryNode struct {
	Name          string            `json:"name" yaml:"name"`
	Subcategories []SubcategoryNode `json:"subcategories,omitempty" yaml:"subcategories,omitempty"`
}

// SubcategoryNode is one subcategory with its leaf labels
type SubcategoryNode struct {
	Name   string   `json:"name" yaml:"name"`
	Leaves []string `json:"leaves,omitempty" yaml:"leaves,omitempty"`
}

// SortMode represents the result ordering
type SortMode int

const (
	SortMostRecent SortMode = iota
	SortPriceAsc
	SortPriceDesc
	SortRatingDesc
)

// SortModes lists every mode in cycling order
var SortModes = []SortMode{SortMostRecent, SortPriceAsc, SortPriceDesc, SortRatingDesc}

func (m SortMode) String() string {
	switch m {
	case SortMostRecent:
		return "most-recent"
	case SortPriceAsc:
		return "price-asc"
	case SortPriceDesc:
		return "price-desc"
	case SortRatingDesc:
		return "rating-desc"
	default:
		return "unknown"
	}
}

// Next returns the following mode, wrapping around
func (m SortMode) Next() SortMode {
	for i, mode := range SortModes {
		if mode == m {
			return SortModes[(i+1)%len(SortModes)]
		}
	}
	return SortMostRecent
}

// ParseSortMode accepts the String() form plus a few aliases
func ParseSortMode(s string) (SortMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "most-recent", "recent", "newest":
		return SortMostRecent, true
	case "price-asc", "price", "cheapest":
		return SortPriceAsc, true
	case "price-desc":
		return SortPriceDesc, true
	case "rating-desc", "rating", "top-rated":
		return SortRatingDesc, true
	}
	return SortMostRecent, false
}

// CatalogStatus describes the health of the current catalog snapshot
type CatalogStatus string

const (
	StatusIdle    CatalogStatus = "idle"    // nothing loaded yet
	StatusLoading CatalogStatus = "loading" // refresh in flight
	StatusReady   CatalogStatus = "ready"
	StatusStale   CatalogStatus = "stale" // last refresh failed, previous snapshot kept
	StatusError   CatalogStatus = "error" // refresh failed and nothing was ever loaded
)
