package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentgrip/internal/catalog"
	"rentgrip/internal/domain"
	"rentgrip/internal/eventbus"
	"rentgrip/internal/filters"
)

func sample() catalog.Catalog {
	return catalog.Catalog{Items: []domain.Item{
		{ID: 1, Name: "Heavy Duty Drill", Brand: "Bosch", PricePerPeriod: 20, Condition: "new", Category: domain.CategoryRef{Name: "Tools"}},
		{ID: 2, Name: "Projector HD", Brand: "Epson", PricePerPeriod: 45, Condition: "used", Category: domain.CategoryRef{Name: "Electronics"}},
	}}
}

// switchable serves a catalog until told to fail
type switchable struct {
	mu   sync.Mutex
	c    catalog.Catalog
	fail error
}

func (s *switchable) Fetch(ctx context.Context) (catalog.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return catalog.Catalog{}, s.fail
	}
	return s.c, nil
}

func (s *switchable) setFail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

func newLoaded(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e := New(catalog.Static(sample()), append([]Option{WithDebounce(0)}, opts...)...)
	t.Cleanup(e.Dispose)
	require.NoError(t, e.Refresh(context.Background()))
	return e
}

func ids(items []domain.Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestInitialStateBeforeRefresh(t *testing.T) {
	e := New(catalog.Static(sample()))
	defer e.Dispose()

	v := e.View()
	assert.Equal(t, domain.StatusIdle, v.Status)
	assert.Equal(t, 0, v.ResultCount)
	assert.Equal(t, 1, v.CurrentPage)
	assert.Equal(t, 1, v.TotalPages)
	assert.Equal(t, domain.SortMostRecent, v.SortMode)
}

func TestRefreshLoadsCatalog(t *testing.T) {
	e := newLoaded(t)

	v := e.View()
	assert.Equal(t, domain.StatusReady, v.Status)
	assert.Equal(t, 2, v.ResultCount)
	assert.Equal(t, []int64{2, 1}, ids(v.PageItems))
	assert.Equal(t, uint64(1), v.Version)
	assert.Equal(t, []string{"Bosch", "Epson"}, v.Facets.Brands)
	assert.NoError(t, v.Err)
}

func TestDrillProjectorThroughEngine(t *testing.T) {
	e := newLoaded(t)

	e.OpenFilters()
	require.NoError(t, e.SetDraftFilter(filters.SetPrice(0, 30)))
	assert.Equal(t, 2, e.View().ResultCount, "draft edits do not change results")
	require.True(t, e.ApplyFilters())
	assert.Equal(t, []int64{1}, ids(e.Results()))

	e.ResetAllFilters()
	e.SetSearchText("projetor")
	got := e.Results()
	require.NotEmpty(t, got)
	assert.Equal(t, int64(2), got[0].ID)
	assert.Equal(t, "projetor", e.View().CommittedSearch)
}

func TestCancelKeepsCommitted(t *testing.T) {
	e := newLoaded(t)

	e.OpenFilters()
	require.NoError(t, e.SetDraftFilter(filters.ToggleValue(filters.DimBrand, "Epson")))
	assert.True(t, e.View().DraftOpen)
	e.CancelFilters()

	v := e.View()
	assert.False(t, v.DraftOpen)
	assert.True(t, v.Committed.IsEmpty())
	assert.Equal(t, 2, v.ResultCount)
}

func TestInvalidPriceKeepsDraft(t *testing.T) {
	e := newLoaded(t)

	e.OpenFilters()
	require.NoError(t, e.SetDraftFilter(filters.SetPrice(10, 20)))
	err := e.SetDraftFilter(filters.SetPrice(30, 20))
	assert.ErrorIs(t, err, filters.ErrInvalidPriceRange)

	r, ok := e.View().Draft.Price()
	require.True(t, ok)
	assert.Equal(t, filters.PriceRange{Min: 10, Max: 20}, r)
}

func TestPageClampsAfterFiltering(t *testing.T) {
	e := newLoaded(t, WithPageSize(1))

	e.GoToPage(2)
	v := e.View()
	assert.Equal(t, 2, v.CurrentPage)
	assert.Equal(t, 2, v.TotalPages)

	require.NoError(t, e.SetDraftFilter(filters.ToggleValue(filters.DimCondition, "new")))
	require.True(t, e.ApplyFilters())

	v = e.View()
	assert.Equal(t, 1, v.ResultCount)
	assert.Equal(t, 1, v.CurrentPage)
	assert.Equal(t, 1, v.TotalPages)
}

func TestPagingDoesNotWrap(t *testing.T) {
	e := newLoaded(t, WithPageSize(1))

	e.PrevPage()
	assert.Equal(t, 1, e.View().CurrentPage)
	e.LastPage()
	e.NextPage()
	assert.Equal(t, 2, e.View().CurrentPage)
	e.FirstPage()
	assert.Equal(t, 1, e.View().CurrentPage)
	e.GoToPage(40)
	assert.Equal(t, 2, e.View().CurrentPage)
}

func TestSortModeChange(t *testing.T) {
	e := newLoaded(t)

	e.SetSortMode(domain.SortPriceAsc)
	assert.Equal(t, []int64{1, 2}, ids(e.Results()))
	assert.Equal(t, domain.SortPriceDesc, e.CycleSortMode())
	assert.Equal(t, []int64{2, 1}, ids(e.Results()))
}

func TestRefreshFailureKeepsLastGoodResults(t *testing.T) {
	p := &switchable{c: sample()}
	e := New(p, WithDebounce(0))
	defer e.Dispose()
	require.NoError(t, e.Refresh(context.Background()))

	boom := errors.New("upstream down")
	p.setFail(boom)
	err := e.Refresh(context.Background())
	require.ErrorIs(t, err, boom)

	v := e.View()
	assert.Equal(t, domain.StatusStale, v.Status)
	assert.ErrorIs(t, v.Err, boom)
	assert.Equal(t, 2, v.ResultCount)

	p.setFail(nil)
	require.NoError(t, e.Refresh(context.Background()))
	v = e.View()
	assert.Equal(t, domain.StatusReady, v.Status)
	assert.NoError(t, v.Err)
	assert.Equal(t, uint64(2), v.Version)
}

func TestRefreshFailureWithoutSnapshot(t *testing.T) {
	p := &switchable{fail: catalog.ErrProviderUnavailable}
	e := New(p)
	defer e.Dispose()

	err := e.Refresh(context.Background())
	require.ErrorIs(t, err, catalog.ErrProviderUnavailable)

	v := e.View()
	assert.Equal(t, domain.StatusError, v.Status)
	assert.Equal(t, 0, v.ResultCount)
}

func TestInitialOptions(t *testing.T) {
	e := New(catalog.Static(sample()),
		WithInitialSearch("  drill "),
		WithInitialCategory("Tools"),
		WithSortMode(domain.SortPriceDesc),
	)
	defer e.Dispose()
	require.NoError(t, e.Refresh(context.Background()))

	v := e.View()
	assert.Equal(t, "drill", v.CommittedSearch)
	assert.Equal(t, "drill", v.SearchText)
	assert.True(t, v.Committed.IncludesCategory("Tools", "", ""))
	assert.Equal(t, []int64{1}, ids(v.PageItems))
	assert.Equal(t, domain.SortPriceDesc, v.SortMode)
}

func TestDebouncedSearchAndFlush(t *testing.T) {
	e := New(catalog.Static(sample()), WithDebounce(time.Hour))
	defer e.Dispose()
	require.NoError(t, e.Refresh(context.Background()))

	e.SetSearchText("proj")
	v := e.View()
	assert.Equal(t, "proj", v.SearchText)
	assert.Equal(t, "", v.CommittedSearch)
	assert.Equal(t, 2, v.ResultCount)

	e.CommitSearch()
	v = e.View()
	assert.Equal(t, "proj", v.CommittedSearch)
	assert.Equal(t, []int64{2}, ids(v.PageItems))

	e.SetSearchText("")
	e.CommitSearch()
	assert.Equal(t, 2, e.View().ResultCount)
}

func TestEventsArePublished(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	var mu sync.Mutex
	var seen []eventbus.EventType
	record := func(ev eventbus.DomainEvent) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, ev.Type())
	}
	for _, typ := range []eventbus.EventType{
		eventbus.EventCatalogLoaded, eventbus.EventFiltersApplied, eventbus.EventFiltersReset,
		eventbus.EventSearchCommitted, eventbus.EventSortModeChanged,
	} {
		bus.Subscribe(typ, record)
	}

	e := New(catalog.Static(sample()), WithEventBus(bus), WithDebounce(0))
	require.NoError(t, e.Refresh(context.Background()))
	require.NoError(t, e.SetDraftFilter(filters.ToggleValue(filters.DimBrand, "Bosch")))
	e.ApplyFilters()
	e.ResetAllFilters()
	e.SetSearchText("drill")
	e.SetSortMode(domain.SortRatingDesc)
	e.Dispose()

	want := []eventbus.EventType{
		eventbus.EventCatalogLoaded, eventbus.EventFiltersApplied, eventbus.EventFiltersReset,
		eventbus.EventSearchCommitted, eventbus.EventSortModeChanged,
	}
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == len(want)
	}, time.Second, 5*time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, want, seen)
}

func TestDisposeStopsSearch(t *testing.T) {
	e := New(catalog.Static(sample()), WithDebounce(0))
	require.NoError(t, e.Refresh(context.Background()))
	e.Dispose()
	e.Dispose()

	e.SetSearchText("drill")
	assert.Equal(t, "", e.View().CommittedSearch)
}

func TestSupersededSearchPromotionIsDropped(t *testing.T) {
	e := newLoaded(t, WithDebounce(time.Hour))

	e.SetSearchText("drill")
	e.CommitSearch()
	e.SetSearchText("projector")

	// a timer callback that started before the last keystroke arrives late
	e.promoteSearch("drill proj")
	assert.Equal(t, "drill", e.View().CommittedSearch)

	e.CommitSearch()
	v := e.View()
	assert.Equal(t, "projector", v.CommittedSearch)
	assert.Equal(t, []int64{2}, ids(v.PageItems))
}
