package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"courtside_server/services"
)

// PairingController exposes the team pairing operations.
type PairingController struct {
	Roster *services.RosterService
}

func NewPairingController(roster *services.RosterService) *PairingController {
	return &PairingController{Roster: roster}
}

// HandleSendInvite - user invites a partner for a teams-mode event
func (c *PairingController) HandleSendInvite(w http.ResponseWriter, r *http.Request) {
	var request struct {
		InviterID string `json:"inviterId"`
		EventID   string `json:"eventId"`
		InviteeID string `json:"inviteeId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	log.Printf("💌 %s invites %s for event %s", request.InviterID, request.InviteeID, request.EventID)

	team, err := c.Roster.SendInvite(r.Context(), request.InviterID, request.EventID, request.InviteeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "team": team})
}

// HandleAcceptInvite - invited side seals the pairing
func (c *PairingController) HandleAcceptInvite(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID         string `json:"userId"`
		TeamID         string `json:"teamId"`
		NotificationID string `json:"notificationId,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	log.Printf("🤝 %s accepts team %s", request.UserID, request.TeamID)

	team, err := c.Roster.AcceptInvite(r.Context(), request.UserID, request.TeamID, request.NotificationID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"status": "success", "team": team})
}

// HandleDissolveTeam - decline, cancel or leave a pairing
func (c *PairingController) HandleDissolveTeam(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID         string `json:"userId"`
		TeamID         string `json:"teamId"`
		Action         string `json:"action"`
		NotificationID string `json:"notificationId,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	log.Printf("💔 %s dissolves team %s (%s)", request.UserID, request.TeamID, request.Action)

	if err := c.Roster.DissolveTeam(r.Context(), request.UserID, request.TeamID, request.Action, request.NotificationID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Team dissolved"})
}
