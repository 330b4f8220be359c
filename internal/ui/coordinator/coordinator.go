// Package coordinator connects engine notifications to the Bubble Tea program.
package coordinator

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"rentgrip/internal/eventbus"
)

// forwarded lists the events that change what the screen shows. Debounced
// search promotions arrive on a timer goroutine and reach the screen only
// through these.
var forwarded = []eventbus.EventType{
	eventbus.EventCatalogLoaded,
	eventbus.EventCatalogRefreshFailed,
	eventbus.EventFiltersApplied,
	eventbus.EventFiltersReset,
	eventbus.EventSearchCommitted,
	eventbus.EventSortModeChanged,
	eventbus.EventPageChanged,
}

// Coordinator forwards bus events to a sink, usually tea.Program.Send
type Coordinator struct {
	mu     sync.Mutex
	unsubs []func()
	sink   func(tea.Msg)
	wrap   func(eventbus.DomainEvent) tea.Msg
}

// NewCoordinator subscribes to bus; each event is wrapped and handed to sink
func NewCoordinator(bus eventbus.EventBus, wrap func(eventbus.DomainEvent) tea.Msg, sink func(tea.Msg)) *Coordinator {
	c := &Coordinator{sink: sink, wrap: wrap}
	for _, typ := range forwarded {
		c.unsubs = append(c.unsubs, bus.Subscribe(typ, c.forward))
	}
	return c
}

func (c *Coordinator) forward(ev eventbus.DomainEvent) {
	c.mu.Lock()
	sink := c.sink
	c.mu.Unlock()
	if sink != nil {
		sink(c.wrap(ev))
	}
}

// Stop unsubscribes; events already in flight are dropped
func (c *Coordinator) Stop() {
	c.mu.Lock()
	c.sink = nil
	unsubs := c.unsubs
	c.unsubs = nil
	c.mu.Unlock()
	for _, u := range unsubs {
		u()
	}
}
