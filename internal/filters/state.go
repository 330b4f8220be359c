package filters

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
)

var (
	// ErrInvalidPriceRange is returned for a negative minimum or min > max
	ErrInvalidPriceRange = errors.New("invalid price range")
	// ErrEmptyValue is returned when a facet value is blank
	ErrEmptyValue = errors.New("empty filter value")
	// ErrUnknownDimension is returned for a dimension outside Dimensions
	ErrUnknownDimension = errors.New("unknown filter dimension")
)

// Mutation is one draft edit
type Mutation struct {
	Dimension Dimension
	Value     string       // brand, condition or location to toggle
	Price     *PriceRange  // replacement range; nil clears the price filter
	Path      CategoryPath // category node to toggle
	Clear     bool         // drop every constraint on Dimension
}

// ToggleValue toggles a brand, condition or location
func ToggleValue(dim Dimension, value string) Mutation {
	return Mutation{Dimension: dim, Value: value}
}

// SetPrice replaces the price range
func SetPrice(lo, hi float64) Mutation {
	return Mutation{Dimension: DimPrice, Price: &PriceRange{Min: lo, Max: hi}}
}

// TogglePath toggles a category node
func TogglePath(p CategoryPath) Mutation {
	return Mutation{Dimension: DimCategory, Path: p}
}

// ClearDimension removes every constraint on dim
func ClearDimension(dim Dimension) Mutation {
	return Mutation{Dimension: dim, Clear: true}
}

// State tracks the committed selection and an optional draft
type State struct {
	mu         sync.RWMutex
	committed  Selection
	draft      *Selection
	priceLimit float64
	hasLimit   bool
}

// NewState creates a state with nothing selected
func NewState() *State {
	return &State{}
}

// Committed returns the selection results are computed from
func (s *State) Committed() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed
}

// Draft returns the pending selection, if a draft is open
func (s *State) Draft() (Selection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.draft == nil {
		return Selection{}, false
	}
	return *s.draft, true
}

// SetPriceLimit records the catalog's highest price. Range maxima above it
// are clamped, minima above it rejected.
func (s *State) SetPriceLimit(limit float64, known bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.priceLimit = limit
	s.hasLimit = known
}

// OpenDraft starts a draft from the committed selection, replacing any
// open draft
func (s *State) OpenDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.committed
	s.draft = &d
}

// MutateDraft applies m to the draft, opening one if needed. On error the
// draft is left unchanged.
func (s *State) MutateDraft(m Mutation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.committed
	if s.draft != nil {
		base = *s.draft
	}
	next, err := s.apply(base, m)
	if err != nil {
		return err
	}
	s.draft = &next
	return nil
}

func (s *State) apply(sel Selection, m Mutation) (Selection, error) {
	if m.Clear {
		switch m.Dimension {
		case DimPrice, DimBrand, DimCondition, DimLocation, DimCategory:
			return sel.Clear(m.Dimension), nil
		}
		return sel, fmt.Errorf("%w: %d", ErrUnknownDimension, int(m.Dimension))
	}

	switch m.Dimension {
	case DimPrice:
		if m.Price == nil {
			return sel.WithPrice(nil), nil
		}
		r, err := s.checkPrice(*m.Price)
		if err != nil {
			return sel, err
		}
		return sel.WithPrice(&r), nil

	case DimBrand, DimCondition, DimLocation:
		v := strings.TrimSpace(m.Value)
		if v == "" {
			return sel, fmt.Errorf("%w: %s", ErrEmptyValue, m.Dimension)
		}
		if m.Dimension == DimCondition {
			v = strings.ToLower(v)
		}
		return sel.Toggle(m.Dimension, v), nil

	case DimCategory:
		p := m.Path
		if p.Category == "" || (p.Leaf != "" && p.Subcategory == "") {
			return sel, fmt.Errorf("%w: category path %+v", ErrEmptyValue, p)
		}
		return sel.TogglePath(p), nil
	}
	return sel, fmt.Errorf("%w: %d", ErrUnknownDimension, int(m.Dimension))
}

// must be called with mu held
func (s *State) checkPrice(r PriceRange) (PriceRange, error) {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || r.Min < 0 || r.Min > r.Max {
		return r, fmt.Errorf("%w: %s", ErrInvalidPriceRange, r)
	}
	if s.hasLimit && r.Min > s.priceLimit {
		return r, fmt.Errorf("%w: %s above catalog maximum %g", ErrInvalidPriceRange, r, s.priceLimit)
	}
	if s.hasLimit && r.Max > s.priceLimit {
		r.Max = s.priceLimit
	}
	return r, nil
}

// Apply promotes the draft to committed and closes it. Reports whether the
// committed selection changed.
func (s *State) Apply() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return false
	}
	changed := !s.committed.Equal(*s.draft)
	s.committed = *s.draft
	s.draft = nil
	return changed
}

// Cancel discards the draft
func (s *State) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
}

// ResetAll clears the committed selection and any draft. Reports whether
// anything was committed before.
func (s *State) ResetAll() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := !s.committed.IsEmpty()
	s.committed = Selection{}
	s.draft = nil
	return changed
}

// Commit replaces the committed selection directly, bypassing the draft
func (s *State) Commit(sel Selection) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	changed := !s.committed.Equal(sel)
	s.committed = sel
	return changed
}
