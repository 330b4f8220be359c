package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Filter        lipgloss.Style
	Search        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Highlight     lipgloss.Style
	HighlightBg   lipgloss.Style
	Price         lipgloss.Style
	Brand         lipgloss.Style
	Rating        lipgloss.Style
	Tab           lipgloss.Style
	ActiveTab     lipgloss.Style
	Panel         lipgloss.Style
	Popup         lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Filter:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Search:      lipgloss.NewStyle().Foreground(lipgloss.Color("51")),  // cyan
		Help:        lipgloss.NewStyle().Faint(true),
		Main:        lipgloss.NewStyle().Padding(1, 2),
		Highlight:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		HighlightBg: lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Price:       lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true),
		Brand:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Rating:      lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Tab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("99")).
			Bold(true).
			Padding(0, 1),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("99")).
			Padding(0, 1),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(1, 2),
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}
