package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// PageAction moves between result pages
type PageAction struct {
	Direction string // "next", "prev", "first", "last"
}

func (a PageAction) Type() string { return "page" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data interface{} // Optional data for the mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Filter panel actions
type FilterTabAction struct {
	Delta int
}

func (a FilterTabAction) Type() string { return "filter_tab" }

type FilterCursorAction struct {
	Delta int
}

func (a FilterCursorAction) Type() string { return "filter_cursor" }

type ToggleFacetAction struct{}

func (a ToggleFacetAction) Type() string { return "toggle_facet" }

type ClearFacetAction struct{}

func (a ClearFacetAction) Type() string { return "clear_facet" }

type ApplyFiltersAction struct{}

func (a ApplyFiltersAction) Type() string { return "apply_filters" }

type CancelFiltersAction struct{}

func (a CancelFiltersAction) Type() string { return "cancel_filters" }

type ResetFiltersAction struct{}

func (a ResetFiltersAction) Type() string { return "reset_filters" }

// Command actions
type RefreshAction struct{}

func (a RefreshAction) Type() string { return "refresh" }

type CycleSortAction struct{}

func (a CycleSortAction) Type() string { return "cycle_sort" }

type ClearSearchAction struct{}

func (a ClearSearchAction) Type() string { return "clear_search" }

type OpenItemAction struct{}

func (a OpenItemAction) Type() string { return "open_item" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type ScrollHelpAction struct {
	Delta int
}

func (a ScrollHelpAction) Type() string { return "scroll_help" }

type OpenHelpPagerAction struct{}

func (a OpenHelpPagerAction) Type() string { return "open_help_pager" }

type QuitAction struct {
	Force bool
}

func (a QuitAction) Type() string { return "quit" }
