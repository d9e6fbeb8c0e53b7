// Package server exposes the extraction pipeline over HTTP.
package server

import (
	"encoding/json"
	"net/http"

	"linesheet-extractor/internal/assets"
	"linesheet-extractor/internal/config"
	"linesheet-extractor/internal/extract"
	"linesheet-extractor/internal/ocr"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

// Server wires the extraction pipeline, the asset store and the HTTP
// surface together.
type Server struct {
	cfg       config.Config
	log       zerolog.Logger
	extractor *extract.Extractor
	colors    *ocr.ColorReader
	store     *assets.Store

	requestSem *semaphore.Weighted
	limiters   *ipLimiters
}

// New builds a Server from its collaborators.
func New(cfg config.Config, log zerolog.Logger, extractor *extract.Extractor, colors *ocr.ColorReader, store *assets.Store) *Server {
	return &Server{
		cfg:        cfg,
		log:        log,
		extractor:  extractor,
		colors:     colors,
		store:      store,
		requestSem: semaphore.NewWeighted(cfg.MaxConcurrentRequests),
		limiters:   newIPLimiters(cfg.RateLimitEvery, cfg.RateLimitBurst),
	}
}

// Routes assembles the router. Upload endpoints sit behind the rate and
// concurrency limiters; health and image serving do not.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/extracted_images/{filename}", s.handleGetImage)

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit)
		r.Use(s.concurrencyLimit)

		r.Post("/extract-assets", s.handleExtractAssets)
		r.Post("/api/extract-pdf", s.handleExtractPDF)
		r.Post("/extract-image", s.handleExtractImage)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, map[string]any{
		"error":   message,
		"details": details,
	})
}
