package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"rentgrip/internal/domain"
	"rentgrip/internal/ui/logic"
)

// ItemRenderer handles rendering of catalog rows
type ItemRenderer struct {
	styles      *Styles
	showRatings bool
}

// NewItemRenderer creates a new item renderer
func NewItemRenderer(styles *Styles, showRatings bool) *ItemRenderer {
	return &ItemRenderer{
		styles:      styles,
		showRatings: showRatings,
	}
}

// RenderItem renders one result row
func (r *ItemRenderer) RenderItem(item domain.Item, isSelected bool, width int) string {
	price := r.styles.Price.Render(FormatRate(item))

	var parts []string
	parts = append(parts, item.Name)
	if item.Brand != "" {
		parts = append(parts, r.styles.Brand.Render(item.Brand))
	}
	if item.Condition != "" {
		parts = append(parts, r.styles.Dim.Render("("+item.Condition+")"))
	}
	if r.showRatings {
		parts = append(parts, r.styles.Rating.Render(FormatRating(item)))
	}
	left := strings.Join(parts, " ")

	// Right-align the price when the row fits
	gap := width - lipgloss.Width(left) - lipgloss.Width(price) - 2
	if gap < 2 {
		gap = 2
	}
	line := "  " + left + strings.Repeat(" ", gap) + price
	if isSelected {
		line = "> " + left + strings.Repeat(" ", gap) + price
		return r.styles.HighlightBg.Render(line)
	}
	return line
}

// FormatRate renders the price per period
func FormatRate(item domain.Item) string {
	p := logic.FormatPrice(item.PricePerPeriod)
	if item.Period == "" {
		return p
	}
	return fmt.Sprintf("%s/%s", p, item.Period)
}

// FormatRating renders the rating, or a dash when the item has none
func FormatRating(item domain.Item) string {
	if !item.HasRating() {
		return "★ -"
	}
	return fmt.Sprintf("★ %.1f", *item.Rating)
}

// RenderItemDetail renders the full item description shown in the pager
func RenderItemDetail(item domain.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", item.Name)
	b.WriteString(strings.Repeat("=", len([]rune(item.Name))))
	b.WriteString("\n\n")

	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%-10s %s\n", label+":", value)
		}
	}
	row("ID", fmt.Sprintf("%d", item.ID))
	row("Price", FormatRate(item))
	row("Brand", item.Brand)
	row("Category", item.Category.String())
	row("Condition", item.Condition)
	row("Location", item.Location)
	row("Rating", FormatRating(item))

	if item.ShortDescription != "" {
		b.WriteString("\n")
		b.WriteString(item.ShortDescription)
		b.WriteString("\n")
	}
	if item.Description != "" {
		b.WriteString("\n")
		b.WriteString(item.Description)
		b.WriteString("\n")
	}
	return b.String()
}
