package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"courtside_server/services"

	"github.com/gorilla/mux"
)

// EventController exposes organizer event CRUD.
type EventController struct {
	Events *services.EventService
}

func NewEventController(events *services.EventService) *EventController {
	return &EventController{Events: events}
}

// HandleCreateEvent - organizer creates a session
func (c *EventController) HandleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var request services.CreateEventInput
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	log.Printf("📅 Creating event %q (%s, %d slots)", request.Title, request.Mode, request.SlotsAvailable)

	ev, err := c.Events.CreateEvent(r.Context(), request)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "event": ev})
}

// HandleGetEvent - fetch one event with its live counters
func (c *EventController) HandleGetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := mux.Vars(r)["eventId"]
	ev, err := c.Events.GetEvent(r.Context(), eventID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// HandleListEvents - list all events
func (c *EventController) HandleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := c.Events.ListEvents(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}
