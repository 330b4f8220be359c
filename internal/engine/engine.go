// Package engine wires the catalog, filters, search, pipeline and pager
// into one browsing session.
//
// Every command runs under one mutex, so commands from the UI goroutine and
// debounced search promotions are applied in a single total order. Each
// committed change recomputes results synchronously.
package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"rentgrip/internal/catalog"
	"rentgrip/internal/debounce"
	"rentgrip/internal/domain"
	"rentgrip/internal/eventbus"
	"rentgrip/internal/filters"
	"rentgrip/internal/logging"
	"rentgrip/internal/pagination"
	"rentgrip/internal/query"
)

// View is a consistent snapshot of everything a consumer renders
type View struct {
	ResultCount     int
	PageItems       []domain.Item
	CurrentPage     int
	TotalPages      int
	PageSize        int
	PageStart       int
	Facets          catalog.Facets
	Status          domain.CatalogStatus
	Err             error
	Committed       filters.Selection
	Draft           filters.Selection
	DraftOpen       bool
	SearchText      string
	CommittedSearch string
	SortMode        domain.SortMode
	Version         uint64
	LoadReport      catalog.LoadReport
}

// Engine is one browsing session over a catalog provider
type Engine struct {
	mu        sync.Mutex
	provider  catalog.Provider
	store     *catalog.Store
	filters   *filters.State
	pipeline  *query.Pipeline
	debouncer *debounce.Debouncer
	bus       eventbus.EventBus
	ownsBus   bool
	log       zerolog.Logger

	searchText      string
	committedSearch string
	sortMode        domain.SortMode
	page            pagination.State
	results         []domain.Item
	status          domain.CatalogStatus
	err             error
	report          catalog.LoadReport
	disposed        bool
}

// New creates an engine. Nothing is fetched until Refresh is called.
func New(provider catalog.Provider, opts ...Option) *Engine {
	cfg := defaultSettings()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Engine{
		provider: provider,
		store:    catalog.NewStore(cfg.searchOpts),
		filters:  filters.NewState(),
		pipeline: query.NewPipeline(cfg.cacheSize),
		bus:      cfg.bus,
		log:      logging.Component("engine"),
		sortMode: cfg.sortMode,
		page:     pagination.NewState(cfg.pageSize),
		status:   domain.StatusIdle,
	}
	if e.bus == nil {
		e.bus = eventbus.New()
		e.ownsBus = true
	}
	e.debouncer = debounce.New(cfg.debounce, e.promoteSearch)

	if text := strings.TrimSpace(cfg.initialSearch); text != "" {
		e.searchText = text
		e.committedSearch = text
	}
	if cfg.initialCategory != "" {
		e.filters.Commit(filters.Selection{}.ToggleCategory(cfg.initialCategory))
	}

	e.mu.Lock()
	e.recompute()
	e.mu.Unlock()
	return e
}

// Events returns the bus change notifications go out on
func (e *Engine) Events() eventbus.EventBus {
	return e.bus
}

// Dispose stops pending search promotion and closes the engine's own bus
func (e *Engine) Dispose() {
	e.debouncer.Stop()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return
	}
	e.disposed = true
	if e.ownsBus {
		e.bus.Close()
	}
}

// View returns the current state
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := e.store.Current()
	page := pagination.Paginate(e.results, e.page)
	draft, open := e.filters.Draft()
	return View{
		ResultCount:     len(e.results),
		PageItems:       slices.Clone(page.Items),
		CurrentPage:     page.Current,
		TotalPages:      page.TotalPages,
		PageSize:        e.page.PageSize,
		PageStart:       page.Start,
		Facets:          snap.Facets,
		Status:          e.status,
		Err:             e.err,
		Committed:       e.filters.Committed(),
		Draft:           draft,
		DraftOpen:       open,
		SearchText:      e.searchText,
		CommittedSearch: e.committedSearch,
		SortMode:        e.sortMode,
		Version:         snap.Version,
		LoadReport:      e.report,
	}
}

// Results returns every result in order, not just the current page
func (e *Engine) Results() []domain.Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.results)
}

// Refresh fetches the catalog and swaps it in. On failure the previous
// results stay and the status becomes stale, or error if nothing was ever
// loaded.
func (e *Engine) Refresh(ctx context.Context) error {
	e.mu.Lock()
	e.status = domain.StatusLoading
	e.mu.Unlock()

	c, err := e.provider.Fetch(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		e.err = err
		if e.store.Loaded() {
			e.status = domain.StatusStale
		} else {
			e.status = domain.StatusError
		}
		e.log.Warn().Err(err).Str("status", string(e.status)).Msg("catalog refresh failed")
		e.bus.Publish(domain.CatalogRefreshFailedEvent{Err: err, Status: e.status})
		return fmt.Errorf("failed to refresh catalog: %w", err)
	}

	snap, report := e.store.Load(c)
	e.report = report
	e.err = nil
	e.status = domain.StatusReady
	e.filters.SetPriceLimit(snap.Facets.MaxPrice, snap.Facets.HasPrices)
	e.recompute()

	e.bus.Publish(domain.CatalogLoadedEvent{
		Version:   snap.Version,
		ItemCount: snap.Len(),
		Skipped:   len(report.Skipped),
	})
	return nil
}

// OpenFilters starts a draft from the committed filters
func (e *Engine) OpenFilters() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filters.OpenDraft()
}

// SetDraftFilter edits the draft. Invalid edits leave it unchanged.
func (e *Engine) SetDraftFilter(m filters.Mutation) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.filters.MutateDraft(m); err != nil {
		e.log.Debug().Err(err).Str("dimension", m.Dimension.String()).Msg("draft edit rejected")
		return err
	}
	return nil
}

// ApplyFilters commits the draft. Reports whether the committed filters changed.
func (e *Engine) ApplyFilters() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.filters.Apply() {
		return false
	}
	e.recompute()
	e.bus.Publish(domain.FiltersAppliedEvent{ActiveDimensions: e.filters.Committed().ActiveDimensions()})
	return true
}

// CancelFilters drops the draft
func (e *Engine) CancelFilters() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filters.Cancel()
}

// ResetAllFilters clears every committed filter and any draft
func (e *Engine) ResetAllFilters() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.filters.ResetAll() {
		return
	}
	e.recompute()
	e.bus.Publish(domain.FiltersResetEvent{})
}

// SetSearchText records raw input; it is committed once typing pauses
func (e *Engine) SetSearchText(text string) {
	e.mu.Lock()
	if e.disposed {
		e.mu.Unlock()
		return
	}
	e.searchText = text
	e.mu.Unlock()

	e.debouncer.Input(text)
}

// CommitSearch commits the raw search text now
func (e *Engine) CommitSearch() {
	if e.debouncer.Flush() {
		return
	}
	e.mu.Lock()
	text := e.searchText
	e.mu.Unlock()
	e.commitSearch(text)
}

// promoteSearch commits debounced text unless newer raw text has replaced it
func (e *Engine) promoteSearch(text string) {
	e.mu.Lock()
	stale := text != e.searchText
	e.mu.Unlock()
	if stale {
		e.log.Debug().Str("text", text).Msg("dropping superseded search text")
		return
	}
	e.commitSearch(text)
}

func (e *Engine) commitSearch(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return
	}
	text = strings.TrimSpace(text)
	if text == e.committedSearch {
		return
	}
	e.committedSearch = text
	e.recompute()
	e.bus.Publish(domain.SearchCommittedEvent{Query: text})
}

// SetSortMode changes the ordering
func (e *Engine) SetSortMode(mode domain.SortMode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if mode == e.sortMode {
		return
	}
	old := e.sortMode
	e.sortMode = mode
	e.recompute()
	e.bus.Publish(domain.SortModeChangedEvent{OldMode: old, NewMode: mode})
}

// CycleSortMode moves to the next sort mode
func (e *Engine) CycleSortMode() domain.SortMode {
	e.mu.Lock()
	next := e.sortMode.Next()
	e.mu.Unlock()
	e.SetSortMode(next)
	return next
}

// GoToPage moves to page n, clamped to the valid range
func (e *Engine) GoToPage(n int) {
	e.movePage(func(s pagination.State, count int) pagination.State { return s.GoTo(n, count) })
}

// NextPage moves forward one page, stopping at the last
func (e *Engine) NextPage() {
	e.movePage(pagination.State.Next)
}

// PrevPage moves back one page, stopping at the first
func (e *Engine) PrevPage() {
	e.movePage(pagination.State.Prev)
}

// FirstPage moves to page 1
func (e *Engine) FirstPage() {
	e.movePage(pagination.State.First)
}

// LastPage moves to the final page
func (e *Engine) LastPage() {
	e.movePage(pagination.State.Last)
}

func (e *Engine) movePage(move func(pagination.State, int) pagination.State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	old := e.page.Current
	e.page = move(e.page, len(e.results))
	if e.page.Current != old {
		e.bus.Publish(domain.PageChangedEvent{OldPage: old, NewPage: e.page.Current})
	}
}

// must be called with mu held
func (e *Engine) recompute() {
	snap := e.store.Current()
	e.results = e.pipeline.Run(snap.Version, query.Input{
		Items:     snap.Items,
		Index:     snap.Index,
		Selection: e.filters.Committed(),
		Query:     e.committedSearch,
		Sort:      e.sortMode,
	})

	old := e.page.Current
	e.page = e.page.Clamp(len(e.results))
	total := pagination.TotalPages(len(e.results), e.page.PageSize)

	e.log.Debug().
		Int("results", len(e.results)).
		Int("page", e.page.Current).
		Int("pages", total).
		Msg("results recomputed")

	if e.page.Current != old {
		e.bus.Publish(domain.PageChangedEvent{OldPage: old, NewPage: e.page.Current})
	}
	e.bus.Publish(domain.ResultsRecomputedEvent{
		ResultCount: len(e.results),
		TotalPages:  total,
		CurrentPage: e.page.Current,
	})
}
