package server

import (
	"log/slog"
	"net/http"

	"salespulse/internal/engine"
	"salespulse/internal/handlers"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
}

func NewServer(eng *engine.Engine, logger *slog.Logger) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(eng, logger),
		sseHandlers: handlers.NewSSEHandlers(eng, logger),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)
	s.mux.HandleFunc("GET /admin/stats", s.apiHandlers.HandleStats)

	// Conversational endpoint
	s.mux.HandleFunc("POST /api/chat", s.apiHandlers.HandleChat)
	s.mux.HandleFunc("GET /api/suggestions", s.apiHandlers.HandleSuggestions)

	// REST API endpoints
	s.mux.HandleFunc("GET /api/summary", s.apiHandlers.HandleSummary)
	s.mux.HandleFunc("GET /api/top-products", s.apiHandlers.HandleTopProducts)
	s.mux.HandleFunc("GET /api/store-performance", s.apiHandlers.HandleStorePerformance)
	s.mux.HandleFunc("GET /api/monthly-comparison", s.apiHandlers.HandleMonthlyComparison)

	// Datastar SSE endpoint
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
