package state

import (
	"rentgrip/internal/filters"
)

// AppState contains the UI-only state. Catalog data, filters, search and
// paging live in the engine.
type AppState struct {
	// Result list
	Cursor int // row within the current page

	// Filter panel
	FilterTab    int // index into filters.Dimensions
	FilterCursor int // row within the active tab

	// UI state
	ShowHelp         bool
	HelpScrollOffset int // scroll offset for help popup
	StatusMessage    string
	Loading          bool // a refresh is in flight
}

// NewAppState creates a new application state
func NewAppState() *AppState {
	return &AppState{}
}

// CurrentDimension is the facet shown by the filter panel
func (s *AppState) CurrentDimension() filters.Dimension {
	n := len(filters.Dimensions)
	return filters.Dimensions[((s.FilterTab%n)+n)%n]
}

// StepFilterTab moves to the next or previous facet tab, wrapping around
func (s *AppState) StepFilterTab(delta int) {
	n := len(filters.Dimensions)
	s.FilterTab = ((s.FilterTab+delta)%n + n) % n
	s.FilterCursor = 0
}

// ClampCursor keeps the result cursor within a page of rows items
func (s *AppState) ClampCursor(rows int) {
	s.Cursor = clamp(s.Cursor, rows)
}

// ClampFilterCursor keeps the panel cursor within entries rows
func (s *AppState) ClampFilterCursor(entries int) {
	s.FilterCursor = clamp(s.FilterCursor, entries)
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
