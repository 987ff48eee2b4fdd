package server

import (
	"net/http"

	"github.com/bobmcallan/agripulse/internal/handlers"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	api := s.app.APIHandler

	// MCP endpoint (JSON-RPC over HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	// Prometheus scrape endpoint
	if s.app.Metrics != nil {
		mux.Handle("/metrics", s.app.Metrics.Handler())
	}

	// API routes
	mux.HandleFunc("/api/health", s.app.HealthHandler.ServeHTTP)
	mux.HandleFunc("/api/version", s.app.VersionHandler.ServeHTTP)

	mux.HandleFunc("/api/feeds", api.HandleFeeds)
	mux.HandleFunc("/api/feeds/", api.HandleFeed)
	mux.HandleFunc("/api/regions", api.HandleRegions)
	mux.HandleFunc("/api/pulses", api.HandlePulses)
	mux.HandleFunc("/api/stream", api.HandleStream)
	mux.HandleFunc("/api/market", api.HandleMarket)
	mux.HandleFunc("/api/analytics/trends", api.HandleTrends)
	mux.HandleFunc("/api/analytics/prediction", api.HandlePrediction)

	mux.HandleFunc("/api/refresh", postOnly(api.HandleRefresh))
	mux.HandleFunc("/api/click", postOnly(api.HandleClick))

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.handleNotFound)
	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	handlers.WriteError(w, http.StatusNotFound, "no such endpoint: "+r.URL.Path)
}
