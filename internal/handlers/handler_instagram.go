package handlers

import (
	"net/http"

	"studio/internal/logutil"
	"studio/internal/models"
)

// handlePostInstagram publishes a caption and the first image of the request.
func (s *Server) handlePostInstagram(w http.ResponseWriter, r *http.Request) {
	var req models.PublishRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logutil.Debugf("instagram: bad body: %v", err)
		failed(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if s.svc.Instagram == nil {
		notConfigured(w, "Instagram")
		return
	}

	res := s.svc.Instagram.Publish(r.Context(), req)
	respondJSON(w, res.StatusCode, res)
}
