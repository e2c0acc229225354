package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ctdoc/internal/config"
	"ctdoc/internal/searchidx"
	"ctdoc/internal/storage"
)

// Server exposes the document search and generate API. It is a thin
// mapping layer over the search index and the local store.
type Server struct {
	db     *storage.DB
	search *searchidx.Client
	cfg    config.Config
	router *chi.Mux
}

func New(db *storage.DB, search *searchidx.Client, cfg config.Config) *Server {
	s := &Server{
		db:     db,
		search: search,
		cfg:    cfg,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/search", s.handleSearch)
		r.Get("/documents/{documentID}", s.handleGetDocument)
		r.Post("/generate", s.handleGenerate)
	})
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) ListenAndServe() error {
	return http.ListenAndServe(s.cfg.HTTPAddr, s.router)
}
