package routes

import (
	"courtside_server/controllers"
	"courtside_server/services"

	"github.com/gorilla/mux"
)

// RegisterPairingRoutes sets up routes for partner pairing under /api/pairing
func RegisterPairingRoutes(r *mux.Router, rosterService *services.RosterService) {
	controller := controllers.NewPairingController(rosterService)

	pairingRouter := r.PathPrefix("/api/pairing").Subrouter()
	pairingRouter.HandleFunc("/invite", controller.HandleSendInvite).Methods("POST")
	pairingRouter.HandleFunc("/accept", controller.HandleAcceptInvite).Methods("POST")
	pairingRouter.HandleFunc("/dissolve", controller.HandleDissolveTeam).Methods("POST")
}
