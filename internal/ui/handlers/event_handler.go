package handlers

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"rentgrip/internal/domain"
	"rentgrip/internal/eventbus"
	"rentgrip/internal/ui/state"
)

// EventHandler handles domain events and updates UI state
type EventHandler struct {
	state *state.AppState
}

// NewEventHandler creates a new event handler
func NewEventHandler(appState *state.AppState) *EventHandler {
	return &EventHandler{state: appState}
}

// HandleEvent processes domain events and returns any necessary commands
func (h *EventHandler) HandleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case domain.CatalogLoadedEvent:
		h.state.Loading = false
		if e.Skipped > 0 {
			h.state.StatusMessage = fmt.Sprintf("Loaded %d items (%d skipped)", e.ItemCount, e.Skipped)
		} else {
			h.state.StatusMessage = fmt.Sprintf("Loaded %d items", e.ItemCount)
		}

	case domain.CatalogRefreshFailedEvent:
		h.state.Loading = false
		h.state.StatusMessage = fmt.Sprintf("Error: %v", e.Err)

	case domain.FiltersAppliedEvent:
		h.state.Cursor = 0
		if e.ActiveDimensions == 0 {
			h.state.StatusMessage = "Filters cleared"
		} else {
			h.state.StatusMessage = fmt.Sprintf("Filters applied (%d active)", e.ActiveDimensions)
		}

	case domain.FiltersResetEvent:
		h.state.Cursor = 0
		h.state.StatusMessage = "Filters cleared"

	case domain.SearchCommittedEvent:
		h.state.Cursor = 0
		if e.Query == "" {
			h.state.StatusMessage = "Search cleared"
		} else {
			h.state.StatusMessage = fmt.Sprintf("Search: %s", e.Query)
		}

	case domain.SortModeChangedEvent:
		h.state.StatusMessage = fmt.Sprintf("Sorted by %s", e.NewMode)

	case domain.PageChangedEvent:
		// Cursor placement after a page move is decided by the caller
	}

	return nil
}
