package controllers

import (
	"net/http"
	"strconv"

	"courtside_server/services"

	"github.com/gorilla/mux"
)

// NotificationController exposes the read-only notification feed.
type NotificationController struct {
	Notifications *services.NotificationService
}

func NewNotificationController(notifications *services.NotificationService) *NotificationController {
	return &NotificationController{Notifications: notifications}
}

// HandleGetNotifications - latest notifications for a user, newest first
func (c *NotificationController) HandleGetNotifications(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	var limit int32
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = int32(n)
		}
	}

	notifications, err := c.Notifications.Feed(r.Context(), userID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}
