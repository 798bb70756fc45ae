package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"courtside_server/services"
)

// RosterController exposes individual registration and withdrawal.
type RosterController struct {
	Roster *services.RosterService
}

func NewRosterController(roster *services.RosterService) *RosterController {
	return &RosterController{Roster: roster}
}

// HandleRegister - user books an individual seat for an event
func (c *RosterController) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID  string `json:"userId"`
		EventID string `json:"eventId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	log.Printf("📝 %s registers for event %s", request.UserID, request.EventID)

	reg, err := c.Roster.Register(r.Context(), request.UserID, request.EventID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "registration": reg})
}

// HandleWithdraw - user gives up their seat entirely
func (c *RosterController) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID         string `json:"userId"`
		RegistrationID string `json:"registrationId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	log.Printf("🚪 %s withdraws registration %s", request.UserID, request.RegistrationID)

	if err := c.Roster.Withdraw(r.Context(), request.UserID, request.RegistrationID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Registration withdrawn"})
}
