package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"rentgrip/internal/filters"
	"rentgrip/internal/ui/logic"
)

// FilterPanelState is what the panel needs from the model
type FilterPanelState struct {
	Active  filters.Dimension
	Entries []logic.FacetEntry
	Cursor  int
	Draft   filters.Selection
	Height  int // rows available for entries
}

// FilterPanelRenderer draws the facet tabs and the entries of the active tab
type FilterPanelRenderer struct {
	styles *Styles
}

func NewFilterPanelRenderer(styles *Styles) *FilterPanelRenderer {
	return &FilterPanelRenderer{styles: styles}
}

func (r *FilterPanelRenderer) Render(ps FilterPanelState) string {
	var b strings.Builder

	tabs := make([]string, 0, len(filters.Dimensions))
	for _, dim := range filters.Dimensions {
		label := tabLabel(dim, ps.Draft)
		if dim == ps.Active {
			tabs = append(tabs, r.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, r.styles.Tab.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	if len(ps.Entries) == 0 {
		b.WriteString(r.styles.Dim.Render("No values in this catalog"))
		b.WriteString("\n")
	}

	start, end := window(len(ps.Entries), ps.Cursor, ps.Height)
	for i := start; i < end; i++ {
		e := ps.Entries[i]
		box := "[ ]"
		if e.Selected {
			box = "[x]"
		}
		line := fmt.Sprintf("%s%s %s", strings.Repeat("  ", e.Depth), box, e.Label)
		if i == ps.Cursor {
			line = r.styles.HighlightBg.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if end < len(ps.Entries) {
		b.WriteString(r.styles.Dim.Render(fmt.Sprintf("  ... %d more", len(ps.Entries)-end)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(r.styles.Help.Render("space toggle • tab next facet • c clear facet • enter apply • esc cancel • R reset all"))

	return r.styles.Panel.Render(b.String())
}

func tabLabel(dim filters.Dimension, draft filters.Selection) string {
	name := strings.ToUpper(dim.String()[:1]) + dim.String()[1:]
	n := 0
	switch dim {
	case filters.DimPrice:
		if r, ok := draft.Price(); ok {
			return fmt.Sprintf("%s %s", name, r)
		}
	case filters.DimCategory:
		n = len(draft.CategoryPaths())
	default:
		n = draft.Values(dim).Len()
	}
	if n > 0 {
		return fmt.Sprintf("%s (%d)", name, n)
	}
	return name
}

// window returns the slice of rows to show so cursor stays visible
func window(total, cursor, height int) (int, int) {
	if height <= 0 || total <= height {
		return 0, total
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > total {
		start = total - height
	}
	return start, start + height
}
