package handler

import (
	"net/http"

	"matching-engine/internal/store"
)

// EventHandler exposes the notification log.
type EventHandler struct {
	events *store.EventLog
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(events *store.EventLog) *EventHandler {
	return &EventHandler{events: events}
}

// List handles GET /events. An optional security_isin query parameter
// narrows the log to one security.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	if isin := r.URL.Query().Get("security_isin"); isin != "" {
		WriteJSON(w, http.StatusOK, eventsResponse{Events: h.events.ListBySecurity(isin)})
		return
	}
	WriteJSON(w, http.StatusOK, eventsResponse{Events: h.events.List()})
}
