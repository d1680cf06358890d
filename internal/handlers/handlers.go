package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"studio/internal/middleware"
	"studio/internal/models"
)

// InstagramPublisher runs the upload, container and publish workflow.
type InstagramPublisher interface {
	Publish(ctx context.Context, req models.PublishRequest) models.PublishResult
}

type TwitterPoster interface {
	Post(ctx context.Context, req models.TwitterPostRequest) models.TwitterPostResult
}

type LinkedInPoster interface {
	Post(ctx context.Context, req models.LinkedInPostRequest) models.PublishResult
}

type SheetsExporter interface {
	Export(ctx context.Context, req models.ExportRequest) models.ExportResult
}

// Services holds the collaborators behind each endpoint. A nil field means
// the integration is not configured and its endpoint answers 500.
type Services struct {
	Instagram InstagramPublisher
	Twitter   TwitterPoster
	LinkedIn  LinkedInPoster
	Sheets    SheetsExporter
}

type Server struct {
	svc Services
	now func() time.Time
}

func New(svc Services) *Server {
	return &Server{svc: svc, now: time.Now}
}

// Router mounts the API behind request id, recovery, logging and CORS.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS)

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "Not found")
	})

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/post-instagram", s.handlePostInstagram)
		r.Post("/post-twitter", s.handlePostTwitter)
		r.Post("/post-linkedin", s.handlePostLinkedIn)
		r.Post("/export-to-sheets", s.handleExportToSheets)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"ok":   true,
		"time": s.now().UTC(),
	})
}
