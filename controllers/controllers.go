package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"courtside_server/services"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps the engine's error taxonomy onto HTTP statuses:
// precondition violations carry their reason code, exhausted conflicts ask
// the user to try again, anything else is a server error.
func writeError(w http.ResponseWriter, err error) {
	var pre *services.PreconditionError
	if errors.As(err, &pre) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": pre.Message, "code": pre.Code})
		return
	}
	var conflict *services.ConflictError
	if errors.As(err, &conflict) {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "The event is busy right now, please try again.", "code": "conflict"})
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found", "code": "not_found"})
		return
	}
	log.Printf("❌ Internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}
