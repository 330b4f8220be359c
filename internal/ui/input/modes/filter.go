package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"rentgrip/internal/ui/input/types"
)

// FilterMode drives the filter panel. Edits go to the draft; Enter applies
// and Esc discards.
type FilterMode struct{}

func NewFilterMode() *FilterMode {
	return &FilterMode{}
}

func (m *FilterMode) Name() string {
	return "filter"
}

func (m *FilterMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *FilterMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *FilterMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true

	case "esc", "q":
		return []types.Action{
			types.CancelFiltersAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true

	case "enter":
		return []types.Action{
			types.ApplyFiltersAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true

	case "tab", "l", "right", "]":
		return []types.Action{types.FilterTabAction{Delta: 1}}, true

	case "shift+tab", "h", "left", "[":
		return []types.Action{types.FilterTabAction{Delta: -1}}, true

	case "j", "down":
		return []types.Action{types.FilterCursorAction{Delta: 1}}, true

	case "k", "up":
		return []types.Action{types.FilterCursorAction{Delta: -1}}, true

	case " ", "x":
		if ctx.FilterEntries() > 0 {
			return []types.Action{types.ToggleFacetAction{}}, true
		}
		return nil, true

	case "c":
		return []types.Action{types.ClearFacetAction{}}, true

	case "R":
		return []types.Action{
			types.ResetFiltersAction{},
			types.ChangeModeAction{Mode: types.ModeNormal},
		}, true
	}

	// Swallow everything else so stray keys do not leak into normal mode
	return nil, true
}
