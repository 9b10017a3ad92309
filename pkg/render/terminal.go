package render

import (
	"fmt"
	"io"

	"github.com/klokku/marketevents/pkg/marketevent"
	"github.com/olekukonko/tablewriter"
)

// WriteTable prints events as a plain-text table.
func WriteTable(w io.Writer, events []marketevent.MarketEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found")
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Date", "Time", "Event", "Impact", "Forecast", "Previous", "Actual"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, e := range events {
		impact := "-"
		if e.Impact.IsSet() {
			impact = string(e.Impact)
		}
		eventTime := e.EventTime
		if eventTime == "" {
			eventTime = "-"
		}
		table.Append([]string{
			e.EventDate,
			eventTime,
			e.Title,
			impact,
			e.Forecast.OrDash(),
			e.Previous.OrDash(),
			e.Actual.OrDash(),
		})
	}

	table.Render()
}
