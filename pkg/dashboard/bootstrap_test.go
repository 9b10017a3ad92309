package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/klokku/marketevents/internal/event_bus"
	"github.com/klokku/marketevents/internal/utils"
	"github.com/klokku/marketevents/pkg/dom"
	"github.com/klokku/marketevents/pkg/marketevent"
	"github.com/klokku/marketevents/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 1, 4, 9, 0, 0, 0, time.Local)

func upcoming() []marketevent.MarketEvent {
	return []marketevent.MarketEvent{
		{EventDate: "2024-01-04", Title: "Jobless Claims", Impact: "Medium"},
		{EventDate: "2024-01-05", EventTime: "08:30", Title: "Nonfarm Payrolls", Impact: "High"},
	}
}

func week() []marketevent.MarketEvent {
	return []marketevent.MarketEvent{
		{EventDate: "2024-01-05", Title: "Nonfarm Payrolls", Impact: "High"},
		{EventDate: "2024-01-05", Title: "Unemployment Rate", Impact: "High"},
		{EventDate: "2024-01-10", Title: "CPI", Impact: "High"},
	}
}

func TestOnReady(t *testing.T) {
	t.Run("renders both containers", func(t *testing.T) {
		client := marketevent.NewStubClient()
		client.SetUpcoming("SPY", upcoming()...)
		client.SetRange("SPY", "2024-01-04", "2024-01-11", week()...)
		doc := NewDocument()
		bootstrap := NewBootstrap(client, doc, &utils.MockClock{FixedNow: now}, nil, "", 0)

		bootstrap.OnReady(context.Background()).Wait()

		table := doc.GetElementByID(render.DefaultTableContainerID).InnerHTML()
		assert.Contains(t, table, "Nonfarm Payrolls")
		assert.Contains(t, table, "Jobless Claims")
		calendar := doc.GetElementByID(render.DefaultCalendarContainerID).InnerHTML()
		assert.Equal(t, 2, strings.Count(calendar, "<h3 "))
		assert.ElementsMatch(t, []string{"upcoming:SPY", "range:SPY:2024-01-04:2024-01-11"}, client.Calls())
	})

	t.Run("failed fetches render the placeholder", func(t *testing.T) {
		client := marketevent.NewStubClient()
		doc := NewDocument()

		NewBootstrap(client, doc, &utils.MockClock{FixedNow: now}, nil, "QQQ", 0).OnReady(context.Background()).Wait()

		assert.Contains(t, doc.GetElementByID(render.DefaultTableContainerID).InnerHTML(), "No events found")
		assert.NotContains(t, doc.GetElementByID(render.DefaultCalendarContainerID).InnerHTML(), "<h3")
		assert.ElementsMatch(t, []string{"upcoming:QQQ", "range:QQQ:2024-01-04:2024-01-11"}, client.Calls())
	})

	t.Run("missing containers do not stop the chains", func(t *testing.T) {
		client := marketevent.NewStubClient()
		client.SetUpcoming("SPY", upcoming()...)
		doc := dom.NewDocument("empty")
		bus := event_bus.NewEventBus()
		var mu sync.Mutex
		var loaded []event_bus.EventType
		for _, eventType := range []event_bus.EventType{event_bus.UpcomingEventsLoaded, event_bus.RangeEventsLoaded} {
			event_bus.SubscribeTyped(bus, eventType, func(e event_bus.EventT[event_bus.EventsLoaded]) error {
				mu.Lock()
				defer mu.Unlock()
				loaded = append(loaded, e.Type)
				return nil
			})
		}

		NewBootstrap(client, doc, &utils.MockClock{FixedNow: now}, bus, "", 0).OnReady(context.Background()).Wait()

		assert.ElementsMatch(t, []event_bus.EventType{event_bus.UpcomingEventsLoaded, event_bus.RangeEventsLoaded}, loaded)
	})

	t.Run("publishes upcoming events", func(t *testing.T) {
		client := marketevent.NewStubClient()
		client.SetUpcoming("SPY", upcoming()...)
		bus := event_bus.NewEventBus()
		received := make(chan event_bus.EventsLoaded, 1)
		event_bus.SubscribeTyped(bus, event_bus.UpcomingEventsLoaded, func(e event_bus.EventT[event_bus.EventsLoaded]) error {
			received <- e.Data
			return nil
		})

		NewBootstrap(client, NewDocument(), &utils.MockClock{FixedNow: now}, bus, "", 0).OnReady(context.Background()).Wait()

		payload := <-received
		assert.Equal(t, "SPY", payload.Symbol)
		assert.Equal(t, 2, payload.Count)
		assert.Len(t, payload.Events, 2)
	})

	t.Run("range chain does not wait for a slow upcoming fetch", func(t *testing.T) {
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if strings.HasSuffix(r.URL.Path, "/upcoming") {
				<-release
			}
			_, _ = w.Write([]byte(`{"events":[{"EventDate":"2024-01-05","Title":"CPI","Impact":"High"}],"count":1}`))
		}))
		defer server.Close()
		defer close(release)

		doc := NewDocument()
		run := NewBootstrap(marketevent.NewClient(server.URL, time.Second*5), doc, &utils.MockClock{FixedNow: now}, nil, "", 0).
			OnReady(context.Background())

		assert.Eventually(t, func() bool {
			return strings.Contains(doc.GetElementByID(render.DefaultCalendarContainerID).InnerHTML(), "CPI")
		}, 2*time.Second, 10*time.Millisecond)
		assert.Empty(t, doc.GetElementByID(render.DefaultTableContainerID).InnerHTML())

		release <- struct{}{}
		run.Wait()
		assert.Contains(t, doc.GetElementByID(render.DefaultTableContainerID).InnerHTML(), "CPI")
	})
}

func TestNewBootstrap_Defaults(t *testing.T) {
	bootstrap := NewBootstrap(marketevent.NewStubClient(), NewDocument(), nil, nil, "", -1)

	assert.Equal(t, marketevent.DefaultSymbol, bootstrap.Symbol())
	assert.Equal(t, DefaultRangeDays, bootstrap.rangeDays)
	require.NotNil(t, bootstrap.clock)
}
