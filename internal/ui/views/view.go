package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"rentgrip/internal/domain"
	"rentgrip/internal/engine"
)

// ReadyMarker is printed once the catalog is on screen when e2e mode is on
const ReadyMarker = "__READY__"

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width            int
	Height           int
	Catalog          engine.View
	Cursor           int
	InputMode        string // "search", "filter" or empty
	TextInput        string // rendered search input, prompt included
	FilterPanel      FilterPanelState
	StatusMessage    string
	Loading          bool
	Spinner          string
	Paginator        string
	ShowHelp         bool
	HelpContent      string
	HelpScrollOffset int
	ShortHelp        string
	EmitReady        bool
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	itemRender  *ItemRenderer
	panelRender *FilterPanelRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(showRatings bool) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		itemRender:  NewItemRenderer(styles, showRatings),
		panelRender: NewFilterPanelRenderer(styles),
		popupRender: NewPopupRenderer(styles),
	}
}

// Styles exposes the palette for other renderers
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	if state.ShowHelp {
		return r.popupRender.RenderPopup(state.HelpContent, state.HelpScrollOffset, state.Height, state.Width)
	}

	content := &strings.Builder{}
	content.WriteString(r.renderTitle(state))
	content.WriteString("\n\n")

	if state.InputMode == "search" {
		content.WriteString(r.styles.Search.Render(state.TextInput))
		content.WriteString("\n\n")
	}

	if state.InputMode == "filter" {
		content.WriteString(r.panelRender.Render(state.FilterPanel))
	} else {
		content.WriteString(r.renderMain(state))
	}

	footer := r.renderFooter(state)

	// Push the footer to the bottom of the screen
	currentLines := strings.Count(content.String(), "\n") + 1
	footerLines := strings.Count(footer, "\n") + 1
	availableLines := state.Height - 2 // Main padding
	if availableLines <= 0 {
		availableLines = 22
	}
	if pad := availableLines - currentLines - footerLines; pad > 0 {
		content.WriteString(strings.Repeat("\n", pad))
	}
	content.WriteString("\n")
	content.WriteString(footer)

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	return mainStyle.Render(content.String())
}

// renderTitle draws the logo with right-aligned indicators
func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("rentgrip")

	var indicators []string
	if state.Loading {
		indicators = append(indicators, r.styles.StatusLoading.Render(state.Spinner+" Loading"))
	}
	if q := state.Catalog.CommittedSearch; q != "" {
		indicators = append(indicators, r.styles.Search.Render(fmt.Sprintf("[Search: %s]", q)))
	}
	if n := state.Catalog.Committed.ActiveDimensions(); n > 0 {
		indicators = append(indicators, r.styles.Filter.Render(fmt.Sprintf("[Filters: %d]", n)))
	}
	indicators = append(indicators, r.styles.Dim.Render("sort: "+state.Catalog.SortMode.String()))

	right := strings.Join(indicators, "  ")
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(right)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + right
}

func (r *Renderer) renderMain(state ViewState) string {
	v := state.Catalog
	switch {
	case v.Status == domain.StatusError && v.Version == 0:
		msg := "Catalog unavailable"
		if v.Err != nil {
			msg = fmt.Sprintf("Catalog unavailable: %v", v.Err)
		}
		return r.styles.StatusError.Render(msg) + "\n" + r.styles.Dim.Render("Press r to retry.")
	case v.Version == 0:
		return r.styles.Dim.Render("Loading catalog...")
	case v.ResultCount == 0:
		return r.styles.Dim.Render("No items match. Press R to reset filters or esc to clear the search.")
	}

	width := state.Width - 4
	if width <= 0 {
		width = 76
	}
	lines := make([]string, 0, len(v.PageItems))
	for i, item := range v.PageItems {
		lines = append(lines, r.itemRender.RenderItem(item, i == state.Cursor, width))
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderFooter(state ViewState) string {
	v := state.Catalog
	var lines []string

	if v.ResultCount > 0 {
		summary := fmt.Sprintf("%d-%d of %d items • page %d/%d",
			v.PageStart+1, v.PageStart+len(v.PageItems), v.ResultCount, v.CurrentPage, v.TotalPages)
		if state.Paginator != "" && v.TotalPages > 1 {
			summary += "  " + state.Paginator
		}
		lines = append(lines, r.styles.Status.Render(summary))
	}

	switch {
	case v.Status == domain.StatusStale:
		lines = append(lines, r.styles.StatusWarning.Render("Showing last loaded catalog; refresh failed"))
	case state.StatusMessage != "":
		lines = append(lines, r.styles.Status.Render(state.StatusMessage))
	}

	if state.ShortHelp != "" {
		lines = append(lines, state.ShortHelp)
	}
	if state.EmitReady && v.Version > 0 {
		lines = append(lines, ReadyMarker)
	}
	return strings.Join(lines, "\n")
}
