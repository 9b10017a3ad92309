package render

import (
	"html/template"
	"strings"

	"github.com/klokku/marketevents/internal/metrics"
	"github.com/klokku/marketevents/pkg/dom"
	"github.com/klokku/marketevents/pkg/marketevent"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTableContainerID    = "market-events-table"
	DefaultCalendarContainerID = "events-calendar"

	viewTable    = "table"
	viewCalendar = "calendar"
)

var tableHeaders = []string{"Date", "Event", "Impact", "Forecast", "Previous", "Actual"}

var funcs = template.FuncMap{
	"impactColor": ImpactColor,
	"borderColor": BorderColor,
}

var (
	tableTmpl    = template.Must(template.New("table").Funcs(funcs).Parse(tableTemplate))
	calendarTmpl = template.Must(template.New("calendar").Funcs(funcs).Parse(calendarTemplate))
)

// ImpactColor returns the badge classes for an impact, matched case-insensitively.
func ImpactColor(impact marketevent.Impact) string {
	switch impact.Level() {
	case "high":
		return "bg-red-100 text-red-800"
	case "medium":
		return "bg-yellow-100 text-yellow-800"
	case "low":
		return "bg-green-100 text-green-800"
	default:
		return "bg-gray-100 text-gray-800"
	}
}

// BorderColor returns the calendar border class. Only exact "High" and
// "Medium" are distinguished; everything else is green.
func BorderColor(impact marketevent.Impact) string {
	switch impact {
	case marketevent.ImpactHigh:
		return "border-red-500"
	case marketevent.ImpactMedium:
		return "border-yellow-500"
	default:
		return "border-green-500"
	}
}

type DateGroup struct {
	Date   string
	Events []marketevent.MarketEvent
}

// GroupByDate groups events by EventDate. Groups appear in the order their
// date is first seen and keep the arrival order of their events.
func GroupByDate(events []marketevent.MarketEvent) []DateGroup {
	groups := make([]DateGroup, 0)
	index := make(map[string]int)
	for _, e := range events {
		i, ok := index[e.EventDate]
		if !ok {
			i = len(groups)
			index[e.EventDate] = i
			groups = append(groups, DateGroup{Date: e.EventDate})
		}
		groups[i].Events = append(groups[i].Events, e)
	}
	return groups
}

func RenderTable(events []marketevent.MarketEvent) (string, error) {
	if len(events) == 0 {
		return noEventsHTML, nil
	}

	var b strings.Builder
	err := tableTmpl.Execute(&b, struct {
		Headers []string
		Events  []marketevent.MarketEvent
	}{tableHeaders, events})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

func RenderCalendar(events []marketevent.MarketEvent) (string, error) {
	var b strings.Builder
	if err := calendarTmpl.Execute(&b, GroupByDate(events)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderInto replaces the container contents; a nil container is ignored.
func RenderInto(container *dom.Container, html string) {
	if container == nil {
		return
	}
	container.SetInnerHTML(html)
}

// DisplayEventsTable renders events as a table into the container with the
// given id. A missing container is a silent no-op.
func DisplayEventsTable(doc *dom.Document, events []marketevent.MarketEvent, containerID string) {
	if containerID == "" {
		containerID = DefaultTableContainerID
	}
	display(doc, containerID, viewTable, events, RenderTable)
}

// DisplayEventsCalendar renders events grouped by date into the container
// with the given id. A missing container is a silent no-op.
func DisplayEventsCalendar(doc *dom.Document, events []marketevent.MarketEvent, containerID string) {
	if containerID == "" {
		containerID = DefaultCalendarContainerID
	}
	display(doc, containerID, viewCalendar, events, RenderCalendar)
}

func display(doc *dom.Document, containerID string, view string, events []marketevent.MarketEvent,
	renderFn func([]marketevent.MarketEvent) (string, error)) {
	container := doc.GetElementByID(containerID)
	if container == nil {
		log.Debugf("Container %s not found, skipping %s render", containerID, view)
		metrics.ObserveRender(view, "skipped")
		return
	}

	html, err := renderFn(events)
	if err != nil {
		log.Errorf("Failed to render %s into %s: %v", view, containerID, err)
		metrics.ObserveRender(view, "error")
		return
	}

	RenderInto(container, html)
	metrics.ObserveRender(view, "ok")
}
