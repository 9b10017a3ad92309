package marketevent

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klokku/marketevents/internal/metrics"
	log "github.com/sirupsen/logrus"
)

const (
	upcomingPath = "/api/market-events/upcoming"
	rangePath    = "/api/market-events/range"

	endpointUpcoming = "upcoming"
	endpointRange    = "range"

	DefaultTimeout = 15 * time.Second
)

// Client fetches market events. Failures never reach the caller: they are
// logged and replaced with EmptyResponse().
type Client interface {
	GetUpcomingEvents(ctx context.Context, symbol string) EventsResponse
	GetEventsByDateRange(ctx context.Context, symbol string, startDate string, endDate string) EventsResponse
}

type StatusError struct {
	Endpoint   string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("market events %s endpoint returned status %s", e.Endpoint, e.Status)
}

type ClientImpl struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *ClientImpl {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ClientImpl{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP uses the given http.Client as is.
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *ClientImpl {
	return &ClientImpl{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *ClientImpl) GetUpcomingEvents(ctx context.Context, symbol string) EventsResponse {
	resp, err := c.FetchUpcomingEvents(ctx, symbol)
	if err != nil {
		log.WithFields(log.Fields{
			"endpoint": endpointUpcoming,
			"symbol":   symbolOrDefault(symbol),
		}).Errorf("Error fetching market events: %v", err)
		return EmptyResponse()
	}
	return resp
}

func (c *ClientImpl) GetEventsByDateRange(ctx context.Context, symbol string, startDate string, endDate string) EventsResponse {
	resp, err := c.FetchEventsByDateRange(ctx, symbol, startDate, endDate)
	if err != nil {
		log.WithFields(log.Fields{
			"endpoint": endpointRange,
			"symbol":   symbolOrDefault(symbol),
			"start":    startDate,
			"end":      endDate,
		}).Errorf("Error fetching market events: %v", err)
		return EmptyResponse()
	}
	return resp
}

// FetchUpcomingEvents is the strict form of GetUpcomingEvents.
func (c *ClientImpl) FetchUpcomingEvents(ctx context.Context, symbol string) (EventsResponse, error) {
	params := url.Values{}
	params.Set("symbol", symbolOrDefault(symbol))
	return c.fetch(ctx, endpointUpcoming, upcomingPath, params)
}

// FetchEventsByDateRange is the strict form of GetEventsByDateRange.
func (c *ClientImpl) FetchEventsByDateRange(ctx context.Context, symbol string, startDate string, endDate string) (EventsResponse, error) {
	params := url.Values{}
	params.Set("symbol", symbolOrDefault(symbol))
	params.Set("start", startDate)
	params.Set("end", endDate)
	return c.fetch(ctx, endpointRange, rangePath, params)
}

func (c *ClientImpl) fetch(ctx context.Context, endpoint string, path string, params url.Values) (EventsResponse, error) {
	started := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return EventsResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log.Debugf("Fetching market events from %s", req.URL.String())

	res, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveFetch(endpoint, metrics.OutcomeTransportError, time.Since(started), 0)
		return EventsResponse{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, res.Body)
		metrics.ObserveFetch(endpoint, metrics.OutcomeHTTPError, time.Since(started), 0)
		return EventsResponse{}, &StatusError{Endpoint: endpoint, StatusCode: res.StatusCode, Status: res.Status}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		metrics.ObserveFetch(endpoint, metrics.OutcomeTransportError, time.Since(started), 0)
		return EventsResponse{}, fmt.Errorf("failed to read response body: %w", err)
	}

	events, err := DecodeResponse(body)
	if err != nil {
		metrics.ObserveFetch(endpoint, metrics.OutcomeMalformed, time.Since(started), 0)
		return EventsResponse{}, err
	}

	metrics.ObserveFetch(endpoint, metrics.OutcomeOK, time.Since(started), len(events.Events))
	log.Tracef("Market events returned from %s: %d", endpoint, len(events.Events))
	return events, nil
}

func symbolOrDefault(symbol string) string {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return DefaultSymbol
	}
	return symbol
}
