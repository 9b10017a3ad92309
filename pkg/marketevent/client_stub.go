package marketevent

import (
	"context"
	"sync"
)

type rangeKey struct {
	symbol    string
	startDate string
	endDate   string
}

// StubClient serves canned responses. Unknown symbols yield EmptyResponse().
type StubClient struct {
	mu       sync.RWMutex
	upcoming map[string]EventsResponse
	ranges   map[rangeKey]EventsResponse
	calls    []string
}

func NewStubClient() *StubClient {
	return &StubClient{
		upcoming: make(map[string]EventsResponse),
		ranges:   make(map[rangeKey]EventsResponse),
	}
}

func (s *StubClient) SetUpcoming(symbol string, events ...MarketEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upcoming[symbol] = EventsResponse{Events: events, Count: len(events), Symbol: symbol}
}

func (s *StubClient) SetRange(symbol string, startDate string, endDate string, events ...MarketEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ranges[rangeKey{symbol, startDate, endDate}] = EventsResponse{Events: events, Count: len(events), Symbol: symbol}
}

func (s *StubClient) GetUpcomingEvents(ctx context.Context, symbol string) EventsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	symbol = symbolOrDefault(symbol)
	s.calls = append(s.calls, endpointUpcoming+":"+symbol)
	if resp, ok := s.upcoming[symbol]; ok {
		return resp
	}
	return EmptyResponse()
}

func (s *StubClient) GetEventsByDateRange(ctx context.Context, symbol string, startDate string, endDate string) EventsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	symbol = symbolOrDefault(symbol)
	s.calls = append(s.calls, endpointRange+":"+symbol+":"+startDate+":"+endDate)
	if resp, ok := s.ranges[rangeKey{symbol, startDate, endDate}]; ok {
		return resp
	}
	return EmptyResponse()
}

// Calls lists the requests seen so far, e.g. "upcoming:SPY".
func (s *StubClient) Calls() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}
