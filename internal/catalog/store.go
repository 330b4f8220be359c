// Package catalog holds the loaded item snapshot and the providers that feed it.
package catalog

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"rentgrip/internal/domain"
	"rentgrip/internal/logging"
	"rentgrip/internal/search"
)

// Snapshot is an immutable view of one loaded catalog
type Snapshot struct {
	Version    uint64
	Items      []domain.Item
	Categories []domain.CategoryNode
	Facets     Facets
	Index      *search.Index
	LoadedAt   time.Time
}

// Len returns the number of items
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// SkippedItem records an item dropped at load time
type SkippedItem struct {
	Position int
	ID       int64
	Reason   string
}

// LoadReport summarizes what Load kept, fixed and dropped
type LoadReport struct {
	Loaded     int
	Normalized int
	Skipped    []SkippedItem
}

// Store owns the current snapshot
type Store struct {
	mu       sync.RWMutex
	current  *Snapshot
	opts     search.Options
	validate *validator.Validate
}

// NewStore creates an empty store; opts configure every index it builds
func NewStore(opts search.Options) *Store {
	return &Store{
		opts:     opts,
		validate: validator.New(),
		current:  &Snapshot{Index: search.Build(nil, opts)},
	}
}

// Current returns the active snapshot. Never nil.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Loaded reports whether any catalog has been loaded yet
func (s *Store) Loaded() bool {
	return s.Current().Version > 0
}

// Load normalizes c, derives facets and the search index, and swaps the
// result in as the current snapshot
func (s *Store) Load(c Catalog) (*Snapshot, LoadReport) {
	items, report := s.normalize(c.Items)

	snap := &Snapshot{
		Items:      items,
		Categories: c.Categories,
		Facets:     ComputeFacets(items, c.Categories),
		Index:      search.Build(items, s.opts),
		LoadedAt:   time.Now(),
	}

	s.mu.Lock()
	snap.Version = s.current.Version + 1
	s.current = snap
	s.mu.Unlock()

	logging.Info().
		Uint64("version", snap.Version).
		Int("items", report.Loaded).
		Int("normalized", report.Normalized).
		Int("skipped", len(report.Skipped)).
		Msg("catalog loaded")
	return snap, report
}

func (s *Store) normalize(in []domain.Item) ([]domain.Item, LoadReport) {
	var report LoadReport
	out := make([]domain.Item, 0, len(in))
	seen := make(map[int64]struct{}, len(in))

	for pos, item := range in {
		if err := s.validate.Struct(item); err != nil {
			report.Skipped = append(report.Skipped, SkippedItem{Position: pos, ID: item.ID, Reason: describe(err)})
			continue
		}
		if _, dup := seen[item.ID]; dup {
			report.Skipped = append(report.Skipped, SkippedItem{Position: pos, ID: item.ID, Reason: "duplicate id"})
			continue
		}
		seen[item.ID] = struct{}{}

		changed := false
		if cond := strings.ToLower(strings.TrimSpace(item.Condition)); cond != item.Condition {
			item.Condition = cond
			changed = true
		}
		if item.Rating != nil && (*item.Rating < 0 || *item.Rating > 5) {
			item.Rating = nil
			changed = true
		}
		if changed {
			report.Normalized++
		}
		out = append(out, item)
	}

	for _, sk := range report.Skipped {
		logging.Warn().Int("position", sk.Position).Int64("id", sk.ID).Str("reason", sk.Reason).Msg("skipping catalog item")
	}
	report.Loaded = len(out)
	return out, report
}

func describe(err error) string {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("%s fails %q", fe.Field(), fe.Tag())
	}
	return err.Error()
}
