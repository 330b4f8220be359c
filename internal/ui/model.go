package ui

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"rentgrip/internal/config"
	"rentgrip/internal/engine"
	"rentgrip/internal/eventbus"
	"rentgrip/internal/filters"
	"rentgrip/internal/logging"
	"rentgrip/internal/ui/coordinator"
	"rentgrip/internal/ui/handlers"
	"rentgrip/internal/ui/input"
	inputtypes "rentgrip/internal/ui/input/types"
	"rentgrip/internal/ui/logic"
	"rentgrip/internal/ui/state"
	"rentgrip/internal/ui/viewmodels"
	"rentgrip/internal/ui/views"
)

// E2EEnv makes the view print a readiness marker for terminal tests
const E2EEnv = "RENTGRIP_E2E_TEST"

// statusTimeout is how long a status message stays on screen
const statusTimeout = 3 * time.Second

// clearStatusMsg clears the status message it was scheduled for
type clearStatusMsg struct {
	text string
}

// Model represents the application state
type Model struct {
	engine         *engine.Engine
	config         *config.Config
	state          *state.AppState
	width          int
	height         int
	keys           keyMap
	help           help.Model
	helpRenderer   *HelpRenderer
	spinner        spinner.Model
	renderer       *views.Renderer
	viewModel      *viewmodels.ViewModel
	inputHandler   *input.Handler
	eventHandler   *handlers.EventHandler
	coordinator    *coordinator.Coordinator
	program        *tea.Program
	refreshTimeout time.Duration
	emitReady      bool
	inPagerMode    bool
	log            zerolog.Logger
}

// NewModel creates a browser over eng
func NewModel(eng *engine.Engine, cfg *config.Config) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	appState := state.NewAppState()
	keys := newKeyMap()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		engine:       eng,
		config:       cfg,
		state:        appState,
		keys:         keys,
		help:         newHelpModel(),
		helpRenderer: NewHelpRenderer(keys),
		spinner:      sp,
		renderer:     views.NewRenderer(cfg.UI.ShowRatings),
		viewModel:    viewmodels.NewViewModel(appState),
		inputHandler: input.New(),
		eventHandler: handlers.NewEventHandler(appState),
		emitReady:    os.Getenv(E2EEnv) != "",
		log:          logging.Component("ui"),
	}
	if cfg.Catalog.RefreshTimeoutMS > 0 {
		m.refreshTimeout = time.Duration(cfg.Catalog.RefreshTimeoutMS) * time.Millisecond
	}
	return m
}

// SetProgram sets the program reference for terminal management and starts
// forwarding engine events to it
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	if m.coordinator != nil {
		m.coordinator.Stop()
	}
	m.coordinator = coordinator.NewCoordinator(m.engine.Events(), func(ev eventbus.DomainEvent) tea.Msg {
		return EventMsg{Event: ev}
	}, p.Send)
}

// Init starts the first catalog load
func (m *Model) Init() tea.Cmd {
	return m.refresh()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.viewModel.SetDimensions(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		ctx := &input.ModelContext{
			State: m.state,
			View:  m.engine.View(),
		}

		actions, cmd := m.inputHandler.HandleKey(msg, ctx)

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		return m, tea.Batch(cmds...)

	default:
		if cmd := m.inputHandler.Update(msg); cmd != nil {
			return m, cmd
		}
		return m.handleNonKeyboardMsg(msg)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}

	mode := ""
	textInput := ""
	switch m.inputHandler.CurrentMode() {
	case inputtypes.ModeSearch:
		mode = "search"
		if ti := m.inputHandler.TextInput(); ti != nil {
			textInput = m.inputHandler.Prompt() + ti.View()
		}
	case inputtypes.ModeFilter:
		mode = "filter"
	}

	helpContent := ""
	if m.state.ShowHelp {
		helpContent = m.helpRenderer.RenderHelpContent()
	}

	vs := m.viewModel.BuildViewState(viewmodels.Inputs{
		Catalog:   m.engine.View(),
		InputMode: mode,
		TextInput: textInput,
		Spinner:   m.spinner.View(),
		ShortHelp: m.help.View(m.keys),
		Help:      helpContent,
		EmitReady: m.emitReady,
	})
	return m.renderer.Render(vs)
}

// Close stops event forwarding
func (m *Model) Close() {
	if m.coordinator != nil {
		m.coordinator.Stop()
	}
}

// refresh reloads the catalog in the background
func (m *Model) refresh() tea.Cmd {
	if m.state.Loading {
		return nil
	}
	m.state.Loading = true
	eng := m.engine
	timeout := m.refreshTimeout
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return refreshDoneMsg{err: eng.Refresh(ctx)}
	})
}

// showInPager returns a command that shows content using the ov pager
func (m *Model) showInPager(what, content string) tea.Cmd {
	if m.program == nil {
		return nil
	}
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})
		err := NewPagerOps(m.program).Show(content)
		m.program.Send(resumeRenderingMsg{})
		return pagerDoneMsg{what: what, err: err}
	}
}

func (m *Model) setStatus(text string) tea.Cmd {
	m.state.StatusMessage = text
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{text: text} })
}

func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.navigate(a.Direction)

	case inputtypes.PageAction:
		switch a.Direction {
		case "next":
			m.engine.NextPage()
		case "prev":
			m.engine.PrevPage()
		case "first":
			m.engine.FirstPage()
		case "last":
			m.engine.LastPage()
		}
		m.state.Cursor = 0

	case inputtypes.ChangeModeAction:
		if a.Mode == inputtypes.ModeFilter {
			m.engine.OpenFilters()
			m.state.FilterCursor = 0
		}

	case inputtypes.UpdateTextAction:
		m.engine.SetSearchText(a.Text)

	case inputtypes.SubmitTextAction:
		m.engine.SetSearchText(a.Text)
		m.engine.CommitSearch()
		m.state.Cursor = 0

	case inputtypes.CancelTextAction, inputtypes.ClearSearchAction:
		m.engine.SetSearchText("")
		m.engine.CommitSearch()
		m.state.Cursor = 0

	case inputtypes.FilterTabAction:
		m.state.StepFilterTab(a.Delta)

	case inputtypes.FilterCursorAction:
		m.state.FilterCursor += a.Delta
		m.state.ClampFilterCursor(len(m.currentFacetEntries()))

	case inputtypes.ToggleFacetAction:
		entries := m.currentFacetEntries()
		m.state.ClampFilterCursor(len(entries))
		if len(entries) == 0 {
			return nil
		}
		if err := m.engine.SetDraftFilter(entries[m.state.FilterCursor].Mutation); err != nil {
			return m.setStatus("Invalid filter: " + err.Error())
		}

	case inputtypes.ClearFacetAction:
		if err := m.engine.SetDraftFilter(filters.ClearDimension(m.state.CurrentDimension())); err != nil {
			return m.setStatus("Invalid filter: " + err.Error())
		}

	case inputtypes.ApplyFiltersAction:
		if !m.engine.ApplyFilters() {
			return m.setStatus("Filters unchanged")
		}

	case inputtypes.CancelFiltersAction:
		m.engine.CancelFilters()

	case inputtypes.ResetFiltersAction:
		m.engine.ResetAllFilters()

	case inputtypes.CycleSortAction:
		m.engine.CycleSortMode()

	case inputtypes.RefreshAction:
		return m.refresh()

	case inputtypes.OpenItemAction:
		v := m.engine.View()
		m.state.ClampCursor(len(v.PageItems))
		if len(v.PageItems) == 0 {
			return nil
		}
		item := v.PageItems[m.state.Cursor]
		return m.showInPager("item", views.RenderItemDetail(item))

	case inputtypes.ToggleHelpAction:
		m.state.ShowHelp = !m.state.ShowHelp
		m.state.HelpScrollOffset = 0

	case inputtypes.ScrollHelpAction:
		lines := strings.Count(m.helpRenderer.RenderHelpContent(), "\n") + 1
		m.state.HelpScrollOffset = views.ClampScroll(m.state.HelpScrollOffset+a.Delta, lines, m.height-6)

	case inputtypes.OpenHelpPagerAction:
		m.state.ShowHelp = false
		return m.showInPager("help", views.StripANSI(m.helpRenderer.RenderHelpContent()))

	case inputtypes.QuitAction:
		m.Close()
		return tea.Quit
	}
	return nil
}

// navigate moves the cursor and crosses page boundaries at the edges
func (m *Model) navigate(direction string) {
	v := m.engine.View()
	nav := logic.Navigator{Rows: len(v.PageItems), CurrentPage: v.CurrentPage, TotalPages: v.TotalPages}

	switch direction {
	case "home":
		m.state.Cursor = nav.Home()
		return
	case "end":
		m.state.Cursor = nav.End()
		return
	}

	delta := 1
	if direction == "up" {
		delta = -1
	}
	cursor, move := nav.Move(m.state.Cursor, delta)
	switch move {
	case logic.ToNextPage:
		m.engine.NextPage()
		m.state.Cursor = 0
	case logic.ToPrevPage:
		m.engine.PrevPage()
		m.state.Cursor = len(m.engine.View().PageItems) - 1
	default:
		m.state.Cursor = cursor
	}
}

func (m *Model) currentFacetEntries() []logic.FacetEntry {
	return m.viewModel.BuildFilterPanel(m.engine.View()).Entries
}

func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		return m, m.eventHandler.HandleEvent(msg.Event)

	case spinner.TickMsg:
		// Stop ticking once nothing is loading
		if !m.state.Loading || m.inPagerMode {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case refreshDoneMsg:
		m.state.Loading = false
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("refresh failed")
			return m, m.setStatus("Error: " + msg.err.Error())
		}
		v := m.engine.View()
		m.state.ClampCursor(len(v.PageItems))
		if n := len(v.LoadReport.Skipped); n > 0 {
			m.log.Info().Int("skipped", n).Msg("catalog loaded with skipped items")
		}
		return m, nil

	case pagerDoneMsg:
		if msg.err != nil {
			m.log.Error().Err(msg.err).Str("pager", msg.what).Msg("pager failed")
			return m, m.setStatus("Pager failed: " + msg.err.Error())
		}
		return m, nil

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		// A newer message replaced this one
		if m.state.StatusMessage == msg.text {
			m.state.StatusMessage = ""
		}
		return m, nil
	}
	return m, nil
}
