package routes

import (
	"courtside_server/controllers"
	"courtside_server/services"

	"github.com/gorilla/mux"
)

// RegisterNotificationRoutes sets up routes for the notification feed under /api/notifications
func RegisterNotificationRoutes(r *mux.Router, notificationService *services.NotificationService) {
	controller := controllers.NewNotificationController(notificationService)

	notificationRouter := r.PathPrefix("/api/notifications").Subrouter()
	notificationRouter.HandleFunc("/{userId}", controller.HandleGetNotifications).Methods("GET")
}
