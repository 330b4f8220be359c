package eventbus

import (
	"runtime/debug"
	"sync"

	"rentgrip/internal/domain"
	"rentgrip/internal/logging"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventCatalogLoaded        = domain.EventCatalogLoaded
	EventCatalogRefreshFailed = domain.EventCatalogRefreshFailed
	EventFiltersApplied       = domain.EventFiltersApplied
	EventFiltersReset         = domain.EventFiltersReset
	EventSearchCommitted      = domain.EventSearchCommitted
	EventSortModeChanged      = domain.EventSortModeChanged
	EventPageChanged          = domain.EventPageChanged
	EventResultsRecomputed    = domain.EventResultsRecomputed
	EventConfigLoaded         = domain.EventConfigLoaded
	EventConfigSaved          = domain.EventConfigSaved
)

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
}

// New creates a new event bus
func New() EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	select {
	case <-b.quit:
		return
	default:
	}

	switch event.Type() {
	case EventResultsRecomputed, EventPageChanged:
		// too frequent to log
	default:
		logging.Debug().Str("event", string(event.Type())).Msg("publishing event")
	}

	select {
	case b.eventChan <- event:
	default:
		logging.Warn().Str("event", string(event.Type())).Msg("event bus channel full, dropping event")
	}
}

// Subscribe subscribes to events of a specific type.
// Returns an unsubscribe function.
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close delivers events already queued, then stops dispatching. Events
// published after Close are dropped.
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
		b.wg.Wait()
	})
}

// dispatch delivers events to subscribers in publish order
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.dispatchOne(event)

		case <-b.quit:
			for {
				select {
				case event := <-b.eventChan:
					b.dispatchOne(event)
				default:
					return
				}
			}
		}
	}
}

func (b *bus) dispatchOne(event DomainEvent) {
	b.mu.RLock()
	subs := make([]subscription, len(b.handlers[event.Type()]))
	copy(subs, b.handlers[event.Type()])
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(s.handler, event)
	}
}

func (b *bus) deliver(h EventHandler, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error().
				Str("event", string(event.Type())).
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("event handler panic")
		}
	}()
	h(event)
}
