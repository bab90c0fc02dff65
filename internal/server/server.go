package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lucaferri/pizzaiolo/internal/agent"
	"github.com/lucaferri/pizzaiolo/internal/config"
	"github.com/lucaferri/pizzaiolo/internal/llm"
	"github.com/lucaferri/pizzaiolo/internal/menu"
	"github.com/lucaferri/pizzaiolo/internal/session"
	"github.com/lucaferri/pizzaiolo/internal/tools"
	"github.com/lucaferri/pizzaiolo/web"
)

// Server is the HTTP service over the orchestration core.
type Server struct {
	cfg        *config.Config
	store      *session.Store
	registry   *tools.Registry
	catalog    *menu.Catalog
	client     llm.Client
	heuristics *agent.Heuristics // nil when disabled
	router     chi.Router
	http       *http.Server
}

// New creates a Server. The heuristic layer is attached only when enabled
// in config; the orchestration loop never depends on it.
func New(cfg *config.Config, store *session.Store, registry *tools.Registry, catalog *menu.Catalog, client llm.Client) *Server {
	s := &Server{
		cfg:      cfg,
		store:    store,
		registry: registry,
		catalog:  catalog,
		client:   client,
		router:   chi.NewRouter(),
	}
	if cfg.Server.Heuristics {
		s.heuristics = agent.NewHeuristics(registry, catalog)
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.With(jsonContentType).Post("/chat", s.handleChat)
	r.Get("/chat/ws", s.handleChatWS)

	r.With(jsonContentType).Get("/sessions/{id}/cart", s.handleGetCart)
	r.With(jsonContentType).Delete("/sessions/{id}", s.handleDeleteSession)

	// Static demo page
	r.Handle("/*", http.FileServer(http.FS(web.Assets)))
}

// newOrchestrator builds a turn orchestrator. One per request/connection,
// so observer callbacks never race across sessions.
func (s *Server) newOrchestrator() *agent.Orchestrator {
	o := agent.New(s.client, s.registry, s.catalog)
	o.SetCallTimeout(s.cfg.LLM.CallTimeout)
	return o
}

// jsonContentType sets Content-Type to application/json for API routes.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Start begins listening on the given port.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf(":%d", port)
	s.http = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	log.Printf("🍕 Pizza agent running at http://localhost%s", addr)
	return s.http.ListenAndServe()
}

// Shutdown gracefully shuts down the server and stops session eviction.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down server...")
	s.store.Close()

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	return s.http.Shutdown(shutdownCtx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
