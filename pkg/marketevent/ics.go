package marketevent

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	log "github.com/sirupsen/logrus"
)

const icsProductID = "-//klokku//marketevents//EN"

// ToCalendar converts events into an iCalendar with one all-day VEVENT per
// event. Events with an unparseable date are skipped.
func ToCalendar(symbol string, events []MarketEvent, stamp time.Time) *ics.Calendar {
	symbol = symbolOrDefault(symbol)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)

	for i, e := range events {
		day, err := e.Date()
		if err != nil {
			log.Warnf("Skipping event %q in calendar export: %v", e.Title, err)
			continue
		}

		vevent := cal.AddEvent(fmt.Sprintf("%s-%s-%d@marketevents", symbol, e.EventDate, i))
		vevent.SetDtStampTime(stamp.UTC())
		vevent.SetAllDayStartAt(day)
		vevent.SetAllDayEndAt(day.AddDate(0, 0, 1))
		vevent.SetSummary(e.Title)
		if desc := icsDescription(e); desc != "" {
			vevent.SetDescription(desc)
		}
		if e.Impact.IsSet() {
			vevent.AddProperty(ics.ComponentPropertyCategories, string(e.Impact))
		}
	}

	return cal
}

// WriteICS serializes events as an iCalendar document.
func WriteICS(w io.Writer, symbol string, events []MarketEvent, stamp time.Time) error {
	_, err := io.WriteString(w, ToCalendar(symbol, events, stamp).Serialize())
	return err
}

func icsDescription(e MarketEvent) string {
	var parts []string
	if e.Description != "" {
		parts = append(parts, e.Description)
	}
	if e.EventTime != "" {
		parts = append(parts, "Time: "+e.EventTime)
	}
	if e.Forecast.IsSet() || e.Previous.IsSet() || e.Actual.IsSet() {
		parts = append(parts, fmt.Sprintf("Forecast: %s, Previous: %s, Actual: %s",
			e.Forecast.OrDash(), e.Previous.OrDash(), e.Actual.OrDash()))
	}
	return strings.Join(parts, "\n")
}
