package routes

import (
	"courtside_server/controllers"
	"courtside_server/services"

	"github.com/gorilla/mux"
)

// RegisterRosterRoutes sets up routes for individual registration under /api/roster
func RegisterRosterRoutes(r *mux.Router, rosterService *services.RosterService) {
	controller := controllers.NewRosterController(rosterService)

	rosterRouter := r.PathPrefix("/api/roster").Subrouter()
	rosterRouter.HandleFunc("/register", controller.HandleRegister).Methods("POST")
	rosterRouter.HandleFunc("/withdraw", controller.HandleWithdraw).Methods("POST")
}
