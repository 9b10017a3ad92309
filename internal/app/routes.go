package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/klokku/marketevents/internal/metrics"
)

// RegisterRoutes registers all endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Dashboard
	r.HandleFunc("/", deps.DashboardHandler.Page).Methods("GET")
	r.HandleFunc("/fragments/table", deps.DashboardHandler.TableFragment).Methods("GET")
	r.HandleFunc("/fragments/calendar", deps.DashboardHandler.CalendarFragment).Methods("GET")
	r.HandleFunc("/events.ics", deps.DashboardHandler.ExportICS).Methods("GET")

	// Filters
	r.HandleFunc("/api/today", deps.DashboardHandler.TodayEvents).Methods("GET")
	r.HandleFunc("/api/high-impact", deps.DashboardHandler.HighImpactEvents).Methods("GET")

	// Operations
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")
}
