package handlers

import (
	"net/http"

	"studio/internal/models"
)

// handleExportToSheets stores a content row and its optional image.
func (s *Server) handleExportToSheets(w http.ResponseWriter, r *http.Request) {
	var req models.ExportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		failed(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	if s.svc.Sheets == nil {
		notConfigured(w, "Google Sheets export")
		return
	}

	res := s.svc.Sheets.Export(r.Context(), req)
	respondJSON(w, res.StatusCode, res)
}
