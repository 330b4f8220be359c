package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	keys keyMap
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer(keys keyMap) *HelpRenderer {
	return &HelpRenderer{keys: keys}
}

// RenderHelpContent lists every binding grouped by section
func (r *HelpRenderer) RenderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99"))

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")).
		Width(10)

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var b strings.Builder
	b.WriteString(titleStyle.Render("rentgrip help"))
	b.WriteString("\n")

	for i, group := range r.keys.FullHelp() {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(helpSectionTitles[i]))
		b.WriteString("\n")
		for _, binding := range group {
			h := binding.Help()
			b.WriteString(fmt.Sprintf("  %s %s\n", keyStyle.Render(h.Key), descStyle.Render(h.Desc)))
		}
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")).
		Render("  j/k scroll • p open in pager • ? or esc close"))
	return b.String()
}

// newHelpModel returns the footer help line renderer
func newHelpModel() help.Model {
	h := help.New()
	h.ShortSeparator = " • "
	return h
}

// PagerOps runs the ov pager with the terminal released from Bubble Tea
type PagerOps struct {
	program *tea.Program
}

// NewPagerOps creates a new pager operations instance
func NewPagerOps(program *tea.Program) *PagerOps {
	return &PagerOps{program: program}
}

// Show displays content in ov until the user quits it
func (p *PagerOps) Show(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Give ov time to leave the alternate screen before taking it back
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
