package input

import (
	"rentgrip/internal/engine"
	"rentgrip/internal/ui/logic"
	"rentgrip/internal/ui/state"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State *state.AppState
	View  engine.View
}

// CurrentIndex returns the cursor row on the current page
func (c *ModelContext) CurrentIndex() int {
	return c.State.Cursor
}

// TotalItems returns the number of rows on the current page
func (c *ModelContext) TotalItems() int {
	return len(c.View.PageItems)
}

func (c *ModelContext) CurrentPage() int {
	return c.View.CurrentPage
}

func (c *ModelContext) TotalPages() int {
	return c.View.TotalPages
}

// SearchText returns the raw search text
func (c *ModelContext) SearchText() string {
	return c.View.SearchText
}

// FilterEntries returns the number of rows in the active filter tab
func (c *ModelContext) FilterEntries() int {
	sel := c.View.Committed
	if c.View.DraftOpen {
		sel = c.View.Draft
	}
	return len(logic.FacetEntries(c.State.CurrentDimension(), c.View.Facets, sel))
}

func (c *ModelContext) ShowingHelp() bool {
	return c.State.ShowHelp
}
