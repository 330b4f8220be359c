package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventCatalogLoaded        EventType = "CatalogLoaded"
	EventCatalogRefreshFailed EventType = "CatalogRefreshFailed"
	EventFiltersApplied       EventType = "FiltersApplied"
	EventFiltersReset         EventType = "FiltersReset"
	EventSearchCommitted      EventType = "SearchCommitted"
	EventSortModeChanged      EventType = "SortModeChanged"
	EventPageChanged          EventType = "PageChanged"
	EventResultsRecomputed    EventType = "ResultsRecomputed"
	EventConfigLoaded         EventType = "ConfigLoaded"
	EventConfigSaved          EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// CatalogLoadedEvent is emitted after a snapshot replaced the previous one
type CatalogLoadedEvent struct {
	Version   uint64
	ItemCount int
	Skipped   int
}

func (e CatalogLoadedEvent) Type() EventType { return EventCatalogLoaded }

// CatalogRefreshFailedEvent is emitted when the provider could not deliver a catalog
type CatalogRefreshFailedEvent struct {
	Err    error
	Status CatalogStatus
}

func (e CatalogRefreshFailedEvent) Type() EventType { return EventCatalogRefreshFailed }

// FiltersAppliedEvent is emitted when the draft became the committed selection
type FiltersAppliedEvent struct {
	ActiveDimensions int
}

func (e FiltersAppliedEvent) Type() EventType { return EventFiltersApplied }

// FiltersResetEvent is emitted when all committed filters were cleared
type FiltersResetEvent struct{}

func (e FiltersResetEvent) Type() EventType { return EventFiltersReset }

// SearchCommittedEvent is emitted when search text was promoted
type SearchCommittedEvent struct {
	Query string
}

func (e SearchCommittedEvent) Type() EventType { return EventSearchCommitted }

// SortModeChangedEvent is emitted when the sort mode changes
type SortModeChangedEvent struct {
	OldMode SortMode
	NewMode SortMode
}

func (e SortModeChangedEvent) Type() EventType { return EventSortModeChanged }

// PageChangedEvent is emitted when the current page moves
type PageChangedEvent struct {
	OldPage int
	NewPage int
}

func (e PageChangedEvent) Type() EventType { return EventPageChanged }

// ResultsRecomputedEvent is emitted after every pipeline evaluation
type ResultsRecomputedEvent struct {
	ResultCount int
	TotalPages  int
	CurrentPage int
}

func (e ResultsRecomputedEvent) Type() EventType { return EventResultsRecomputed }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
