package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the bindings shown in the footer and the help screen. Input
// handling itself lives in the input package.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Prev    key.Binding
	Next    key.Binding
	First   key.Binding
	Last    key.Binding
	Open    key.Binding
	Search  key.Binding
	Clear   key.Binding
	Filters key.Binding
	Reset   key.Binding
	Sort    key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding

	// filter panel
	Toggle     key.Binding
	NextFacet  key.Binding
	ClearFacet key.Binding
	Apply      key.Binding
	Cancel     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Prev:    key.NewBinding(key.WithKeys("left", "h", "pgup"), key.WithHelp("←/h", "prev page")),
		Next:    key.NewBinding(key.WithKeys("right", "l", "pgdown"), key.WithHelp("→/l", "next page")),
		First:   key.NewBinding(key.WithKeys("g"), key.WithHelp("gg", "first page")),
		Last:    key.NewBinding(key.WithKeys("G"), key.WithHelp("G", "last page")),
		Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "item details")),
		Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Clear:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear search")),
		Filters: key.NewBinding(key.WithKeys("f", "F"), key.WithHelp("f", "filters")),
		Reset:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset filters")),
		Sort:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle sort")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload catalog")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Toggle:     key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "toggle value")),
		NextFacet:  key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "next/prev facet")),
		ClearFacet: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear facet")),
		Apply:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply filters")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "discard changes")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Filters, k.Sort, k.Next, k.Open, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Prev, k.Next, k.First, k.Last, k.Open},
		{k.Search, k.Clear, k.Sort},
		{k.Filters, k.Toggle, k.NextFacet, k.ClearFacet, k.Apply, k.Cancel, k.Reset},
		{k.Refresh, k.Help, k.Quit},
	}
}

// helpSectionTitles names the FullHelp groups
var helpSectionTitles = []string{"Browsing", "Search & Sort", "Filters", "Other"}
