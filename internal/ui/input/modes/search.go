package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"rentgrip/internal/ui/input/types"
)

// SearchMode edits the search text. Every edit is sent to the engine, which
// commits it once typing pauses; Enter commits at once and Esc clears.
type SearchMode struct {
	TextInputMode
}

func NewSearchMode(ti *textinput.Model) *SearchMode {
	return &SearchMode{
		TextInputMode: NewTextInputMode(types.ModeSearch, "search", "Search: ", ti),
	}
}
