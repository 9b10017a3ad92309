package dashboard

import (
	"bytes"
	"fmt"
	"mime"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/klokku/marketevents/internal/rest"
	"github.com/klokku/marketevents/internal/utils"
	"github.com/klokku/marketevents/pkg/marketevent"
	"github.com/klokku/marketevents/pkg/render"
	log "github.com/sirupsen/logrus"
)

type symbolQuery struct {
	Symbol string `schema:"symbol"`
}

type rangeQuery struct {
	Symbol string `schema:"symbol"`
	Start  string `schema:"start"`
	End    string `schema:"end"`
}

type Handler struct {
	bootstrap *Bootstrap
	client    marketevent.Client
	clock     utils.Clock
	decoder   *schema.Decoder
}

func NewHandler(bootstrap *Bootstrap) *Handler {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &Handler{
		bootstrap: bootstrap,
		client:    bootstrap.client,
		clock:     bootstrap.clock,
		decoder:   decoder,
	}
}

// Page writes the full document with its current container contents.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.bootstrap.Document().Render(&buf); err != nil {
		log.Errorf("failed to render page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (h *Handler) TableFragment(w http.ResponseWriter, r *http.Request) {
	var query symbolQuery
	if !h.decode(w, r, &query) {
		return
	}
	resp := h.client.GetUpcomingEvents(r.Context(), h.symbol(query.Symbol))

	html, err := render.RenderTable(resp.Events)
	h.writeFragment(w, html, err)
}

func (h *Handler) CalendarFragment(w http.ResponseWriter, r *http.Request) {
	query, ok := h.decodeRange(w, r)
	if !ok {
		return
	}
	resp := h.client.GetEventsByDateRange(r.Context(), query.Symbol, query.Start, query.End)

	html, err := render.RenderCalendar(resp.Events)
	h.writeFragment(w, html, err)
}

// ExportICS serves the events of a date range as an iCalendar file.
func (h *Handler) ExportICS(w http.ResponseWriter, r *http.Request) {
	query, ok := h.decodeRange(w, r)
	if !ok {
		return
	}
	resp := h.client.GetEventsByDateRange(r.Context(), query.Symbol, query.Start, query.End)

	var buf bytes.Buffer
	if err := marketevent.WriteICS(&buf, query.Symbol, resp.Events, h.clock.Now()); err != nil {
		log.Errorf("failed to write calendar: %v", err)
		http.Error(w, "failed to write calendar", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment("marketevents-"+query.Symbol+".ics"))
	_, _ = buf.WriteTo(w)
}

// attachment quotes or encodes filename as needed for the header.
func attachment(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

func (h *Handler) TodayEvents(w http.ResponseWriter, r *http.Request) {
	var query symbolQuery
	if !h.decode(w, r, &query) {
		return
	}
	symbol := h.symbol(query.Symbol)
	resp := h.client.GetUpcomingEvents(r.Context(), symbol)

	h.writeEvents(w, symbol, marketevent.GetTodayEvents(resp.Events, h.clock))
}

func (h *Handler) HighImpactEvents(w http.ResponseWriter, r *http.Request) {
	var query symbolQuery
	if !h.decode(w, r, &query) {
		return
	}
	symbol := h.symbol(query.Symbol)
	resp := h.client.GetUpcomingEvents(r.Context(), symbol)

	h.writeEvents(w, symbol, marketevent.GetHighImpactEvents(resp.Events))
}

func (h *Handler) symbol(symbol string) string {
	if symbol == "" {
		return h.bootstrap.Symbol()
	}
	return symbol
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := h.decoder.Decode(dst, r.URL.Query()); err != nil {
		log.Debugf("invalid query %q: %v", r.URL.RawQuery, err)
		rest.WriteError(w, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return false
	}
	return true
}

// decodeRange fills in the default symbol and the default window of
// rangeDays days from today, and rejects malformed or inverted dates.
func (h *Handler) decodeRange(w http.ResponseWriter, r *http.Request) (rangeQuery, bool) {
	var query rangeQuery
	if !h.decode(w, r, &query) {
		return query, false
	}
	query.Symbol = h.symbol(query.Symbol)

	defaultStart, defaultEnd := utils.DateRange(h.clock, h.bootstrap.rangeDays)
	if query.Start == "" {
		query.Start = defaultStart
	}
	if query.End == "" {
		query.End = defaultEnd
	}

	start, err := utils.ParseDate(query.Start)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid start date", "expected YYYY-MM-DD, got "+query.Start)
		return query, false
	}
	end, err := utils.ParseDate(query.End)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid end date", "expected YYYY-MM-DD, got "+query.End)
		return query, false
	}
	if end.Before(start) {
		rest.WriteError(w, http.StatusBadRequest, "Invalid date range", "end date is before start date")
		return query, false
	}
	return query, true
}

func (h *Handler) writeFragment(w http.ResponseWriter, html string, err error) {
	if err != nil {
		log.Errorf("failed to render fragment: %v", err)
		http.Error(w, "failed to render events", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprint(w, html)
}

func (h *Handler) writeEvents(w http.ResponseWriter, symbol string, events []marketevent.MarketEvent) {
	rest.WriteJSON(w, http.StatusOK, marketevent.EventsResponse{
		Events: events,
		Count:  len(events),
		Symbol: symbol,
	})
}
