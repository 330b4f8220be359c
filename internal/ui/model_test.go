package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentgrip/internal/catalog"
	"rentgrip/internal/config"
	"rentgrip/internal/domain"
	"rentgrip/internal/engine"
	"rentgrip/internal/filters"
	inputtypes "rentgrip/internal/ui/input/types"
	"rentgrip/internal/ui/views"
)

func testCatalog() catalog.Catalog {
	return catalog.Catalog{Items: []domain.Item{
		{ID: 1, Name: "Heavy Duty Drill", Brand: "Bosch", PricePerPeriod: 20, Condition: "new", Category: domain.CategoryRef{Name: "Tools"}},
		{ID: 2, Name: "Projector HD", Brand: "Epson", PricePerPeriod: 45, Condition: "used", Category: domain.CategoryRef{Name: "Electronics"}},
		{ID: 3, Name: "Camping Tent", Brand: "Coleman", PricePerPeriod: 30, Condition: "used", Category: domain.CategoryRef{Name: "Outdoor"}},
	}}
}

func newTestModel(t *testing.T, opts ...engine.Option) (*Model, *engine.Engine) {
	t.Helper()
	eng := engine.New(catalog.Static(testCatalog()), append([]engine.Option{engine.WithDebounce(0)}, opts...)...)
	t.Cleanup(eng.Dispose)
	require.NoError(t, eng.Refresh(context.Background()))

	m := NewModel(eng, config.DefaultConfig())
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, eng
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

func typeText(m *Model, text string) {
	for _, r := range text {
		press(m, string(r))
	}
}

func ids(items []domain.Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestViewShowsResults(t *testing.T) {
	m, _ := newTestModel(t)

	out := views.StripANSI(m.View())
	assert.Contains(t, out, "Camping Tent")
	assert.Contains(t, out, "Projector HD")
	assert.Contains(t, out, "1-3 of 3 items")
}

func TestSearchFromKeyboard(t *testing.T) {
	m, eng := newTestModel(t)

	press(m, "/")
	assert.Equal(t, inputtypes.ModeSearch, m.inputHandler.CurrentMode())
	typeText(m, "drill")
	assert.Contains(t, views.StripANSI(m.View()), "Search: drill")

	press(m, "enter")
	assert.Equal(t, inputtypes.ModeNormal, m.inputHandler.CurrentMode())
	assert.Equal(t, "drill", eng.View().CommittedSearch)
	assert.Equal(t, []int64{1}, ids(eng.Results()))

	press(m, "esc")
	assert.Equal(t, "", eng.View().CommittedSearch)
	assert.Len(t, eng.Results(), 3)
}

func TestFilterPanelAppliesDraft(t *testing.T) {
	m, eng := newTestModel(t)

	press(m, "f")
	assert.True(t, eng.View().DraftOpen)
	assert.Contains(t, views.StripANSI(m.View()), "Category")

	// Brand is the second tab; its first entry is Bosch
	press(m, "tab", " ")
	assert.Len(t, eng.Results(), 3, "draft does not touch results")
	assert.Contains(t, views.StripANSI(m.View()), "[x] Bosch")

	press(m, "enter")
	assert.False(t, eng.View().DraftOpen)
	assert.True(t, eng.View().Committed.Values(filters.DimBrand).Has("Bosch"))
	assert.Equal(t, []int64{1}, ids(eng.Results()))

	press(m, "R")
	assert.True(t, eng.View().Committed.IsEmpty())
}

func TestFilterPanelEscDiscards(t *testing.T) {
	m, eng := newTestModel(t)

	press(m, "f", "tab", " ", "esc")
	assert.False(t, eng.View().DraftOpen)
	assert.True(t, eng.View().Committed.IsEmpty())
	assert.Equal(t, inputtypes.ModeNormal, m.inputHandler.CurrentMode())
}

func TestSortAndPaging(t *testing.T) {
	m, eng := newTestModel(t, engine.WithPageSize(2))

	press(m, "s")
	assert.Equal(t, domain.SortPriceAsc, eng.View().SortMode)
	assert.Equal(t, []int64{1, 3}, ids(eng.View().PageItems))

	press(m, "l")
	assert.Equal(t, 2, eng.View().CurrentPage)
	press(m, "l")
	assert.Equal(t, 2, eng.View().CurrentPage, "no wraparound")

	press(m, "h")
	assert.Equal(t, 1, eng.View().CurrentPage)

	// Moving down off the last row continues on the next page
	press(m, "j", "j")
	assert.Equal(t, 2, eng.View().CurrentPage)
	assert.Equal(t, 0, m.state.Cursor)

	press(m, "k")
	assert.Equal(t, 1, eng.View().CurrentPage)
	assert.Equal(t, 1, m.state.Cursor)

	press(m, "G")
	assert.Equal(t, 2, eng.View().CurrentPage)
	press(m, "g", "g")
	assert.Equal(t, 1, eng.View().CurrentPage)
}

func TestHelpPopup(t *testing.T) {
	m, _ := newTestModel(t)

	press(m, "?")
	out := views.StripANSI(m.View())
	assert.Contains(t, out, "rentgrip help")
	assert.Contains(t, out, "clear search")

	press(m, "esc")
	assert.False(t, m.state.ShowHelp)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)

	cmd := press(m, "q")
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestOpenItemWithoutProgram(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Nil(t, press(m, "enter"))
}

func TestRefreshDoneAndEvents(t *testing.T) {
	m, _ := newTestModel(t)

	m.state.Loading = true
	m.Update(refreshDoneMsg{})
	assert.False(t, m.state.Loading)

	m.Update(EventMsg{Event: domain.SortModeChangedEvent{NewMode: domain.SortRatingDesc}})
	assert.Equal(t, "Sorted by rating-desc", m.state.StatusMessage)

	m.Update(clearStatusMsg{text: "something older"})
	assert.Equal(t, "Sorted by rating-desc", m.state.StatusMessage)
	m.Update(clearStatusMsg{text: "Sorted by rating-desc"})
	assert.Equal(t, "", m.state.StatusMessage)
}
