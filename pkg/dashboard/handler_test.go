package dashboard

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/klokku/marketevents/internal/rest"
	"github.com/klokku/marketevents/internal/utils"
	"github.com/klokku/marketevents/pkg/marketevent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandler(t *testing.T) (*mux.Router, *marketevent.StubClient, *Bootstrap) {
	t.Helper()
	client := marketevent.NewStubClient()
	client.SetUpcoming("SPY", upcoming()...)
	client.SetRange("SPY", "2024-01-04", "2024-01-11", week()...)
	client.SetRange("QQQ", "2024-01-01", "2024-01-31", week()[2:]...)
	bootstrap := NewBootstrap(client, NewDocument(), &utils.MockClock{FixedNow: now}, nil, "", 0)
	handler := NewHandler(bootstrap)

	router := mux.NewRouter()
	router.HandleFunc("/", handler.Page).Methods("GET")
	router.HandleFunc("/fragments/table", handler.TableFragment).Methods("GET")
	router.HandleFunc("/fragments/calendar", handler.CalendarFragment).Methods("GET")
	router.HandleFunc("/events.ics", handler.ExportICS).Methods("GET")
	router.HandleFunc("/api/today", handler.TodayEvents).Methods("GET")
	router.HandleFunc("/api/high-impact", handler.HighImpactEvents).Methods("GET")
	return router, client, bootstrap
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func TestHandler_Page(t *testing.T) {
	router, _, bootstrap := setupHandler(t)
	bootstrap.OnReady(context.Background()).Wait()

	rr := get(router, "/")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), `<section id="market-events-table"`)
	assert.Contains(t, rr.Body.String(), `<section id="events-calendar"`)
	assert.Contains(t, rr.Body.String(), "Nonfarm Payrolls")
}

func TestHandler_Fragments(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		router, client, _ := setupHandler(t)

		rr := get(router, "/fragments/table")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "<table")
		assert.Contains(t, rr.Body.String(), "Jobless Claims")
		assert.Equal(t, []string{"upcoming:SPY"}, client.Calls())
	})

	t.Run("table for unknown symbol", func(t *testing.T) {
		router, _, _ := setupHandler(t)

		rr := get(router, "/fragments/table?symbol=AAPL")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "No events found")
	})

	t.Run("calendar with default range", func(t *testing.T) {
		router, client, _ := setupHandler(t)

		rr := get(router, "/fragments/calendar")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "2024-01-10")
		assert.Equal(t, []string{"range:SPY:2024-01-04:2024-01-11"}, client.Calls())
	})

	t.Run("calendar with explicit range", func(t *testing.T) {
		router, client, _ := setupHandler(t)

		rr := get(router, "/fragments/calendar?symbol=QQQ&start=2024-01-01&end=2024-01-31")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "CPI")
		assert.Equal(t, []string{"range:QQQ:2024-01-01:2024-01-31"}, client.Calls())
	})

	t.Run("invalid dates", func(t *testing.T) {
		for _, target := range []string{
			"/fragments/calendar?start=01/02/2024",
			"/fragments/calendar?end=tomorrow",
			"/fragments/calendar?start=2024-02-01&end=2024-01-01",
			"/events.ics?start=2024-13-01",
		} {
			router, client, _ := setupHandler(t)

			rr := get(router, target)

			assert.Equal(t, http.StatusBadRequest, rr.Code, target)
			var body rest.ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
			assert.NotEmpty(t, body.Details)
			assert.Empty(t, client.Calls())
		}
	})
}

func TestHandler_ExportICS(t *testing.T) {
	router, _, _ := setupHandler(t)

	rr := get(router, "/events.ics")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), "marketevents-SPY.ics")
	assert.Contains(t, rr.Body.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, rr.Body.String(), "SUMMARY:CPI")
}

func TestHandler_ExportICS_QuotesFilename(t *testing.T) {
	router, client, _ := setupHandler(t)

	rr := get(router, "/events.ics?symbol=a%22b%3B%20c")

	assert.Equal(t, http.StatusOK, rr.Code)
	disposition, params, err := mime.ParseMediaType(rr.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, `marketevents-a"b; c.ics`, params["filename"])
	assert.Equal(t, []string{`range:a"b; c:2024-01-04:2024-01-11`}, client.Calls())
}

func TestHandler_Filters(t *testing.T) {
	t.Run("today", func(t *testing.T) {
		router, _, _ := setupHandler(t)

		rr := get(router, "/api/today")

		assert.Equal(t, http.StatusOK, rr.Code)
		var body marketevent.EventsResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, 1, body.Count)
		assert.Equal(t, "SPY", body.Symbol)
		assert.Equal(t, "Jobless Claims", body.Events[0].Title)
	})

	t.Run("high impact", func(t *testing.T) {
		router, _, _ := setupHandler(t)

		rr := get(router, "/api/high-impact?symbol=SPY")

		assert.Equal(t, http.StatusOK, rr.Code)
		var body marketevent.EventsResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		require.Equal(t, 1, body.Count)
		assert.Equal(t, "Nonfarm Payrolls", body.Events[0].Title)
	})

	t.Run("no events serialises an empty list", func(t *testing.T) {
		router, _, _ := setupHandler(t)

		rr := get(router, "/api/high-impact?symbol=AAPL")

		assert.JSONEq(t, `{"events":[],"count":0,"symbol":"AAPL"}`, rr.Body.String())
	})
}
