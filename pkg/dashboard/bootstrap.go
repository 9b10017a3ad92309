package dashboard

import (
	"context"
	"sync"

	"github.com/klokku/marketevents/internal/event_bus"
	"github.com/klokku/marketevents/internal/utils"
	"github.com/klokku/marketevents/pkg/dom"
	"github.com/klokku/marketevents/pkg/marketevent"
	"github.com/klokku/marketevents/pkg/render"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultRangeDays = 7
	DocumentTitle    = "Market Events"
)

// NewDocument returns a document holding the table and calendar containers.
func NewDocument() *dom.Document {
	return dom.NewDocument(DocumentTitle, render.DefaultTableContainerID, render.DefaultCalendarContainerID)
}

// Bootstrap loads events into a document once it is ready.
type Bootstrap struct {
	client    marketevent.Client
	doc       *dom.Document
	clock     utils.Clock
	bus       *event_bus.EventBus
	symbol    string
	rangeDays int
}

// NewBootstrap returns a Bootstrap for symbol (SPY when empty) covering
// rangeDays days from today (DefaultRangeDays when not positive). bus may be nil.
func NewBootstrap(client marketevent.Client, doc *dom.Document, clock utils.Clock, bus *event_bus.EventBus, symbol string, rangeDays int) *Bootstrap {
	if symbol == "" {
		symbol = marketevent.DefaultSymbol
	}
	if rangeDays <= 0 {
		rangeDays = DefaultRangeDays
	}
	if clock == nil {
		clock = utils.SystemClock{}
	}
	return &Bootstrap{
		client:    client,
		doc:       doc,
		clock:     clock,
		bus:       bus,
		symbol:    symbol,
		rangeDays: rangeDays,
	}
}

func (b *Bootstrap) Symbol() string {
	return b.symbol
}

func (b *Bootstrap) Document() *dom.Document {
	return b.doc
}

// Run tracks the two load chains started by OnReady.
type Run struct {
	wg sync.WaitGroup
}

// Wait blocks until both chains have finished.
func (r *Run) Wait() {
	r.wg.Wait()
}

// OnReady starts the upcoming-events chain and the this-week chain. They are
// independent: neither waits for the other and a failure in one does not
// affect the other.
func (b *Bootstrap) OnReady(ctx context.Context) *Run {
	run := &Run{}
	run.wg.Add(2)
	go func() {
		defer run.wg.Done()
		b.loadUpcoming(ctx)
	}()
	go func() {
		defer run.wg.Done()
		b.loadThisWeek(ctx)
	}()
	return run
}

func (b *Bootstrap) loadUpcoming(ctx context.Context) {
	resp := b.client.GetUpcomingEvents(ctx, b.symbol)
	log.Infof("Loaded %d upcoming events for %s", resp.Count, b.symbol)

	render.DisplayEventsTable(b.doc, resp.Events, render.DefaultTableContainerID)

	b.publish(ctx, event_bus.UpcomingEventsLoaded, event_bus.EventsLoaded{
		Symbol: b.symbol,
		Count:  resp.Count,
		Events: resp.Events,
	})
}

func (b *Bootstrap) loadThisWeek(ctx context.Context) {
	start, end := utils.DateRange(b.clock, b.rangeDays)
	resp := b.client.GetEventsByDateRange(ctx, b.symbol, start, end)
	log.Infof("This week: %d events", resp.Count)

	render.DisplayEventsCalendar(b.doc, resp.Events, render.DefaultCalendarContainerID)

	b.publish(ctx, event_bus.RangeEventsLoaded, event_bus.EventsLoaded{
		Symbol:    b.symbol,
		StartDate: start,
		EndDate:   end,
		Count:     resp.Count,
		Events:    resp.Events,
	})
}

func (b *Bootstrap) publish(ctx context.Context, eventType event_bus.EventType, payload event_bus.EventsLoaded) {
	if b.bus == nil {
		return
	}
	if err := b.bus.Publish(event_bus.NewEvent(ctx, eventType, payload)); err != nil {
		log.Warnf("Failed to publish %s: %v", eventType, err)
	}
}
