package engine

import (
	"time"

	"rentgrip/internal/domain"
	"rentgrip/internal/eventbus"
	"rentgrip/internal/search"
)

type settings struct {
	pageSize        int
	debounce        time.Duration
	sortMode        domain.SortMode
	searchOpts      search.Options
	cacheSize       int
	bus             eventbus.EventBus
	initialSearch   string
	initialCategory string
}

func defaultSettings() settings {
	return settings{
		pageSize:   12,
		debounce:   300 * time.Millisecond,
		sortMode:   domain.SortMostRecent,
		searchOpts: search.DefaultOptions(),
		cacheSize:  128,
	}
}

// Option configures an Engine
type Option func(*settings)

// WithPageSize sets the number of items per page
func WithPageSize(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithDebounce sets the search quiet period; 0 commits every keystroke
func WithDebounce(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.debounce = d
		}
	}
}

// WithSortMode sets the initial sort mode
func WithSortMode(m domain.SortMode) Option {
	return func(s *settings) {
		s.sortMode = m
	}
}

// WithSearchOptions sets field weights and the match threshold
func WithSearchOptions(o search.Options) Option {
	return func(s *settings) {
		s.searchOpts = o
	}
}

// WithCacheSize bounds the result memo; 0 disables it
func WithCacheSize(n int) Option {
	return func(s *settings) {
		s.cacheSize = n
	}
}

// WithEventBus publishes on bus instead of a private one. The engine does
// not close a bus it was given.
func WithEventBus(bus eventbus.EventBus) Option {
	return func(s *settings) {
		s.bus = bus
	}
}

// WithInitialSearch starts with text already committed
func WithInitialSearch(text string) Option {
	return func(s *settings) {
		s.initialSearch = text
	}
}

// WithInitialCategory starts with the whole category name selected
func WithInitialCategory(name string) Option {
	return func(s *settings) {
		s.initialCategory = name
	}
}
