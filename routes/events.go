package routes

import (
	"courtside_server/controllers"
	"courtside_server/services"

	"github.com/gorilla/mux"
)

// RegisterEventRoutes sets up routes for event management under /api/events
func RegisterEventRoutes(r *mux.Router, eventService *services.EventService) {
	controller := controllers.NewEventController(eventService)

	eventRouter := r.PathPrefix("/api/events").Subrouter()
	eventRouter.HandleFunc("", controller.HandleCreateEvent).Methods("POST")
	eventRouter.HandleFunc("", controller.HandleListEvents).Methods("GET")
	eventRouter.HandleFunc("/{eventId}", controller.HandleGetEvent).Methods("GET")
}
