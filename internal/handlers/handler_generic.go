package handlers

import (
	"encoding/json"
	"net/http"

	"studio/internal/logutil"
)

// Base64 images travel inside the JSON body.
const maxBodyBytes = 25 << 20

const msgInvalidBody = "Invalid JSON body"

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logutil.Warnf("write response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// failed answers with the {success:false, message} shape shared by every
// publishing endpoint.
func failed(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]interface{}{"success": false, "message": msg})
}

func notConfigured(w http.ResponseWriter, integration string) {
	failed(w, http.StatusInternalServerError, integration+" is not configured")
}
