package event_bus

import "github.com/klokku/marketevents/pkg/marketevent"

const (
	UpcomingEventsLoaded EventType = "market_events.upcoming.loaded"
	RangeEventsLoaded    EventType = "market_events.range.loaded"
)

// EventsLoaded is published after a fetch completes, including fallbacks
// to the empty result.
type EventsLoaded struct {
	Symbol    string
	StartDate string // range fetches only
	EndDate   string // range fetches only
	Count     int
	Events    []marketevent.MarketEvent
}
