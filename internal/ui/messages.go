package ui

import (
	"rentgrip/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// refreshDoneMsg carries the outcome of a catalog refresh
type refreshDoneMsg struct {
	err error
}

// pagerDoneMsg is sent when the ov pager exits
type pagerDoneMsg struct {
	what string
	err  error
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
