package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopup centers content in a bordered box over the whole screen
func (pr *PopupRenderer) RenderPopup(content string, scroll, height, width int) string {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	// Leave room for the border and padding
	maxLines := height - 6
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if maxLines > 0 && len(lines) > maxLines {
		scroll = ClampScroll(scroll, len(lines), maxLines)
		lines = lines[scroll : scroll+maxLines]
	}

	box := pr.styles.Popup.Render(strings.Join(lines, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// ClampScroll keeps a scroll offset within the content
func ClampScroll(scroll, total, visible int) int {
	if scroll > total-visible {
		scroll = total - visible
	}
	if scroll < 0 {
		scroll = 0
	}
	return scroll
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes color and style codes
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}
