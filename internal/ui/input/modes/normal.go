package modes

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"rentgrip/internal/ui/input/types"
)

// ggTimeout bounds the gap between the two presses of "gg"
const ggTimeout = 500 * time.Millisecond

type NormalMode struct {
	lastKeyWasG bool
	lastGTime   time.Time
	now         func() time.Time
}

func NewNormalMode() *NormalMode {
	return &NormalMode{now: time.Now}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	m.lastKeyWasG = false
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if ctx.ShowingHelp() {
		return m.handleHelpKey(msg)
	}

	wasG := m.lastKeyWasG
	m.lastKeyWasG = false

	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyEsc:
		// Esc clears a committed search
		if ctx.SearchText() != "" {
			return []types.Action{types.ClearSearchAction{}}, true
		}
		return nil, false

	case tea.KeyUp:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyLeft, tea.KeyPgUp:
		return []types.Action{types.PageAction{Direction: "prev"}}, true

	case tea.KeyRight, tea.KeyPgDown:
		return []types.Action{types.PageAction{Direction: "next"}}, true

	case tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case tea.KeyEnd:
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case tea.KeyEnter:
		if ctx.TotalItems() > 0 {
			return []types.Action{types.OpenItemAction{}}, true
		}
		return nil, false
	}

	switch msg.String() {
	case "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case "h":
		return []types.Action{types.PageAction{Direction: "prev"}}, true

	case "l":
		return []types.Action{types.PageAction{Direction: "next"}}, true

	case "g":
		// gg jumps to the first page
		if wasG && m.now().Sub(m.lastGTime) < ggTimeout {
			return []types.Action{types.PageAction{Direction: "first"}}, true
		}
		m.lastKeyWasG = true
		m.lastGTime = m.now()
		return nil, true

	case "G":
		return []types.Action{types.PageAction{Direction: "last"}}, true

	case "/":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch, Data: ctx.SearchText()}}, true

	case "f", "F":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeFilter}}, true

	case "R":
		return []types.Action{types.ResetFiltersAction{}}, true

	case "s":
		return []types.Action{types.CycleSortAction{}}, true

	case "r":
		return []types.Action{types.RefreshAction{}}, true

	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true

	case "q":
		return []types.Action{types.QuitAction{}}, true
	}

	return nil, false
}

// handleHelpKey scrolls or closes the help popup
func (m *NormalMode) handleHelpKey(msg tea.KeyMsg) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "?", "esc", "q":
		return []types.Action{types.ToggleHelpAction{}}, true
	case "j", "down":
		return []types.Action{types.ScrollHelpAction{Delta: 1}}, true
	case "k", "up":
		return []types.Action{types.ScrollHelpAction{Delta: -1}}, true
	case "p":
		return []types.Action{types.OpenHelpPagerAction{}}, true
	}
	return nil, true
}
