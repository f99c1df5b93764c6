package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/gorilla/mux"

	"github.com/scoremvp/scoremvp/internal/access"
	"github.com/scoremvp/scoremvp/internal/config"
)

// RouterOptions configures the cross-cutting middleware of the router
type RouterOptions struct {
	CORSOrigins []string
	// RateLimit is requests per minute per client IP; zero disables limiting.
	RateLimit int
	Auth      *access.Authenticator
	// LiveUpdates serves /ws/games/{gameId}; nil leaves the route out.
	LiveUpdates http.Handler
}

// NewRouter wires every route and wraps the router with recovery, request ids,
// logging, CORS and rate limiting.
func NewRouter(handler *Handler, opts RouterOptions) http.Handler {
	router := mux.NewRouter()

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods(http.MethodGet)

	if opts.LiveUpdates != nil {
		router.Handle("/ws/games/{gameId}", opts.LiveUpdates).Methods(http.MethodGet)
	}

	auth := opts.Auth
	if auth == nil {
		auth = access.NewAuthenticator("")
	}
	api := router.NewRoute().Subrouter()
	api.Use(auth.Middleware)

	recorder := access.Require(access.CanRecordStats)
	gameManager := access.Require(access.CanManageGames)
	rosterManager := access.Require(access.CanManageRoster)

	// Stats
	api.HandleFunc("/jogos/{gameId}/stats", handler.GetGameSummary).Methods(http.MethodGet)
	api.HandleFunc("/jogos/{gameId}/stats/jogadoras", handler.GetPlayerLines).Methods(http.MethodGet)
	api.Handle("/jogos/{gameId}/stats", recorder(http.HandlerFunc(handler.RecordStats))).Methods(http.MethodPost)

	// Games
	api.HandleFunc("/games", handler.ListGames).Methods(http.MethodGet)
	api.Handle("/games", gameManager(http.HandlerFunc(handler.CreateGame))).Methods(http.MethodPost)
	api.HandleFunc("/games/{gameId}", handler.GetGame).Methods(http.MethodGet)
	api.Handle("/games/{gameId}", gameManager(http.HandlerFunc(handler.UpdateGame))).Methods(http.MethodPut)
	api.Handle("/games/{gameId}", gameManager(http.HandlerFunc(handler.DeleteGame))).Methods(http.MethodDelete)
	api.Handle("/games/{gameId}/status", gameManager(http.HandlerFunc(handler.ChangeGameStatus))).Methods(http.MethodPatch)

	// Players
	api.HandleFunc("/players", handler.ListPlayers).Methods(http.MethodGet)
	api.Handle("/players", rosterManager(http.HandlerFunc(handler.CreatePlayer))).Methods(http.MethodPost)
	api.Handle("/players/import", rosterManager(http.HandlerFunc(handler.ImportRoster))).Methods(http.MethodPost)
	api.HandleFunc("/players/{playerId}", handler.GetPlayer).Methods(http.MethodGet)
	api.Handle("/players/{playerId}", rosterManager(http.HandlerFunc(handler.UpdatePlayer))).Methods(http.MethodPut)
	api.Handle("/players/{playerId}", rosterManager(http.HandlerFunc(handler.DeletePlayer))).Methods(http.MethodDelete)

	// Dashboard and imports
	api.HandleFunc("/dashboard/overview", handler.GetDashboardOverview).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/players", handler.GetPlayerRanking).Methods(http.MethodGet)
	api.HandleFunc("/dashboard/games", handler.GetGameBreakdown).Methods(http.MethodGet)
	api.Handle("/imports/stats", rosterManager(http.HandlerFunc(handler.ImportStats))).Methods(http.MethodPost)

	var h http.Handler = router
	if opts.RateLimit > 0 {
		h = httprate.LimitByIP(opts.RateLimit, time.Minute)(h)
	}
	h = config.CORS(opts.CORSOrigins).Handler(h)
	h = LoggingMiddleware(h)
	h = RequestIDMiddleware(h)
	h = RecoveryMiddleware(h)
	return h
}

// Server represents the REST API server
type Server struct {
	port   string
	server *http.Server
}

// NewServer creates a new REST API server on port
func NewServer(port string, handler *Handler, opts RouterOptions) *Server {
	return &Server{
		port: port,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%s", port),
			Handler:           NewRouter(handler, opts),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Start starts the REST API server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
