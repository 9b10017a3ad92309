package marketevent

import "github.com/klokku/marketevents/internal/utils"

// GetHighImpactEvents keeps events whose Impact is exactly "High".
func GetHighImpactEvents(events []MarketEvent) []MarketEvent {
	return filter(events, func(e MarketEvent) bool {
		return e.Impact == ImpactHigh
	})
}

// GetTodayEvents keeps events dated on the clock's current local date.
func GetTodayEvents(events []MarketEvent, clock utils.Clock) []MarketEvent {
	today := utils.Today(clock)
	return filter(events, func(e MarketEvent) bool {
		return e.EventDate == today
	})
}

func filter(events []MarketEvent, keep func(MarketEvent) bool) []MarketEvent {
	out := make([]MarketEvent, 0, len(events))
	for _, e := range events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
