package handlers

import (
	"net/http"

	"studio/internal/models"
)

func (s *Server) handlePostLinkedIn(w http.ResponseWriter, r *http.Request) {
	var req models.LinkedInPostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		failed(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if s.svc.LinkedIn == nil {
		notConfigured(w, "LinkedIn")
		return
	}

	res := s.svc.LinkedIn.Post(r.Context(), req)
	respondJSON(w, res.StatusCode, res)
}
