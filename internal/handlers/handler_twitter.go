package handlers

import (
	"net/http"

	"studio/internal/models"
)

func (s *Server) handlePostTwitter(w http.ResponseWriter, r *http.Request) {
	var req models.TwitterPostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		failed(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if s.svc.Twitter == nil {
		notConfigured(w, "Twitter")
		return
	}

	res := s.svc.Twitter.Post(r.Context(), req)
	respondJSON(w, res.StatusCode, res)
}
