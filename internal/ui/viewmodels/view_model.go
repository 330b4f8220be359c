package viewmodels

import (
	"github.com/charmbracelet/bubbles/paginator"

	"rentgrip/internal/engine"
	"rentgrip/internal/ui/logic"
	"rentgrip/internal/ui/state"
	"rentgrip/internal/ui/views"
)

// ViewModel transforms engine and UI state into view-ready data
type ViewModel struct {
	state     *state.AppState
	width     int
	height    int
	paginator paginator.Model
}

// NewViewModel creates a new view model
func NewViewModel(appState *state.AppState) *ViewModel {
	p := paginator.New()
	p.Type = paginator.Dots
	p.ActiveDot = "●"
	p.InactiveDot = "○"
	return &ViewModel{
		state:     appState,
		paginator: p,
	}
}

// SetDimensions sets the current terminal dimensions
func (vm *ViewModel) SetDimensions(width, height int) {
	vm.width = width
	vm.height = height
}

// Inputs are the per-frame values owned by the model
type Inputs struct {
	Catalog   engine.View
	InputMode string
	TextInput string
	Spinner   string
	ShortHelp string
	Help      string
	EmitReady bool
}

// BuildViewState assembles everything the renderer draws
func (vm *ViewModel) BuildViewState(in Inputs) views.ViewState {
	v := in.Catalog
	vm.state.ClampCursor(len(v.PageItems))

	vs := views.ViewState{
		Width:            vm.width,
		Height:           vm.height,
		Catalog:          v,
		Cursor:           vm.state.Cursor,
		InputMode:        in.InputMode,
		TextInput:        in.TextInput,
		StatusMessage:    vm.state.StatusMessage,
		Loading:          vm.state.Loading,
		Spinner:          in.Spinner,
		Paginator:        vm.paginatorView(v),
		ShowHelp:         vm.state.ShowHelp,
		HelpContent:      in.Help,
		HelpScrollOffset: vm.state.HelpScrollOffset,
		ShortHelp:        in.ShortHelp,
		EmitReady:        in.EmitReady,
	}
	if in.InputMode == "filter" {
		vs.FilterPanel = vm.BuildFilterPanel(v)
	}
	return vs
}

// BuildFilterPanel lists the active tab against the draft, or the committed
// filters when no draft is open
func (vm *ViewModel) BuildFilterPanel(v engine.View) views.FilterPanelState {
	sel := v.Committed
	if v.DraftOpen {
		sel = v.Draft
	}
	dim := vm.state.CurrentDimension()
	entries := logic.FacetEntries(dim, v.Facets, sel)
	vm.state.ClampFilterCursor(len(entries))

	// Title, tabs, hints and border take roughly twelve rows
	height := vm.height - 12
	if height < 3 {
		height = 3
	}
	return views.FilterPanelState{
		Active:  dim,
		Entries: entries,
		Cursor:  vm.state.FilterCursor,
		Draft:   sel,
		Height:  height,
	}
}

func (vm *ViewModel) paginatorView(v engine.View) string {
	if v.TotalPages <= 1 || v.TotalPages > 20 {
		return ""
	}
	vm.paginator.TotalPages = v.TotalPages
	vm.paginator.Page = v.CurrentPage - 1
	return vm.paginator.View()
}
